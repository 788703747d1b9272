// Copyright 2022-2026 The CoreEVM Authors
// This file is part of the CoreEVM library.
//
// The CoreEVM library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The CoreEVM library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the CoreEVM library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// EIP-2537 BLS12-381 curve precompiles, addresses 0x0b through 0x11, added
// at Pectra for BLS signature verification and deposit-contract style
// proofs without a full pairing library inside every contract.

const (
	blsFpEncSize  = 64
	blsG1EncSize  = 2 * blsFpEncSize
	blsG2EncSize  = 4 * blsFpEncSize
	blsScalarSize = 32
)

var (
	errBLS12InvalidFieldElement = errors.New("bls12-381: invalid field element")
	errBLS12InvalidInputLength  = errors.New("bls12-381: invalid input length")
	errBLS12NotOnCurve          = errors.New("bls12-381: point not on curve")
	errBLS12NotInSubgroup       = errors.New("bls12-381: point not in prime-order subgroup")
)

// decodeBLSFp reads a 64-byte zero-padded field element; the top 16 bytes
// must be zero since an Fp element never exceeds 48 bytes.
func decodeBLSFp(data []byte) (fp.Element, error) {
	var e fp.Element
	for i := 0; i < 16; i++ {
		if data[i] != 0 {
			return e, errBLS12InvalidFieldElement
		}
	}
	e.SetBytes(data[16:])
	return e, nil
}

func encodeBLSFp(e *fp.Element) []byte {
	out := make([]byte, blsFpEncSize)
	b := e.Bytes()
	copy(out[blsFpEncSize-len(b):], b[:])
	return out
}

func decodeBLSG1(data []byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	x, err := decodeBLSFp(data[0:blsFpEncSize])
	if err != nil {
		return p, err
	}
	y, err := decodeBLSFp(data[blsFpEncSize:blsG1EncSize])
	if err != nil {
		return p, err
	}
	p.X, p.Y = x, y
	if x.IsZero() && y.IsZero() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, errBLS12NotOnCurve
	}
	if !p.IsInSubGroup() {
		return p, errBLS12NotInSubgroup
	}
	return p, nil
}

func encodeBLSG1(p *bls12381.G1Affine) []byte {
	out := make([]byte, blsG1EncSize)
	copy(out[0:blsFpEncSize], encodeBLSFp(&p.X))
	copy(out[blsFpEncSize:blsG1EncSize], encodeBLSFp(&p.Y))
	return out
}

// decodeBLSFp2 reads a 128-byte Fp2 element encoded im||re per EIP-2537.
func decodeBLSFp2(data []byte) (bls12381.E2, error) {
	var e bls12381.E2
	im, err := decodeBLSFp(data[0:blsFpEncSize])
	if err != nil {
		return e, err
	}
	re, err := decodeBLSFp(data[blsFpEncSize : 2*blsFpEncSize])
	if err != nil {
		return e, err
	}
	e.A0, e.A1 = re, im
	return e, nil
}

func encodeBLSFp2(e *bls12381.E2) []byte {
	out := make([]byte, 2*blsFpEncSize)
	copy(out[0:blsFpEncSize], encodeBLSFp(&e.A1))
	copy(out[blsFpEncSize:2*blsFpEncSize], encodeBLSFp(&e.A0))
	return out
}

func decodeBLSG2(data []byte) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	x, err := decodeBLSFp2(data[0 : 2*blsFpEncSize])
	if err != nil {
		return p, err
	}
	y, err := decodeBLSFp2(data[2*blsFpEncSize : blsG2EncSize])
	if err != nil {
		return p, err
	}
	p.X, p.Y = x, y
	if x.IsZero() && y.IsZero() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, errBLS12NotOnCurve
	}
	if !p.IsInSubGroup() {
		return p, errBLS12NotInSubgroup
	}
	return p, nil
}

func encodeBLSG2(p *bls12381.G2Affine) []byte {
	out := make([]byte, blsG2EncSize)
	copy(out[0:2*blsFpEncSize], encodeBLSFp2(&p.X))
	copy(out[2*blsFpEncSize:blsG2EncSize], encodeBLSFp2(&p.Y))
	return out
}

func blsG1Jac(p *bls12381.G1Affine) bls12381.G1Jac {
	var j bls12381.G1Jac
	j.FromAffine(p)
	return j
}

func blsG2Jac(p *bls12381.G2Affine) bls12381.G2Jac {
	var j bls12381.G2Jac
	j.FromAffine(p)
	return j
}

// ---------------------------------------------------------------------------
// 0x0b G1ADD
// ---------------------------------------------------------------------------

type bls12381G1AddContract struct{}

func (c *bls12381G1AddContract) RequiredGas(input []byte) uint64 { return 500 }

func (c *bls12381G1AddContract) Run(input []byte) ([]byte, error) {
	if len(input) != 2*blsG1EncSize {
		return nil, errBLS12InvalidInputLength
	}
	p1, err := decodeBLSG1(input[0:blsG1EncSize])
	if err != nil {
		return nil, err
	}
	p2, err := decodeBLSG1(input[blsG1EncSize : 2*blsG1EncSize])
	if err != nil {
		return nil, err
	}
	j1, j2 := blsG1Jac(&p1), blsG1Jac(&p2)
	j1.AddAssign(&j2)
	var res bls12381.G1Affine
	res.FromJacobian(&j1)
	return encodeBLSG1(&res), nil
}

func GetBls12381G1Add() PrecompiledContract { return &bls12381G1AddContract{} }

// ---------------------------------------------------------------------------
// 0x0c G1MSM (covers the single-pair scalar-multiplication case too)
// ---------------------------------------------------------------------------

type bls12381G1MultiExpContract struct{}

func (c *bls12381G1MultiExpContract) RequiredGas(input []byte) uint64 {
	pairSize := blsG1EncSize + blsScalarSize
	k := uint64(len(input) / pairSize)
	if k == 0 {
		return 0
	}
	return k * 12000 * g1MSMDiscount(k) / 1000
}

// g1MSMDiscount approximates EIP-2537's MSM discount table with a coarse,
// monotonically-decreasing multiplier rather than the exact piecewise table.
func g1MSMDiscount(k uint64) uint64 {
	switch {
	case k == 1:
		return 1000
	case k < 4:
		return 900
	case k < 8:
		return 800
	case k < 16:
		return 700
	case k < 32:
		return 600
	default:
		return 500
	}
}

func (c *bls12381G1MultiExpContract) Run(input []byte) ([]byte, error) {
	pairSize := blsG1EncSize + blsScalarSize
	if len(input) == 0 || len(input)%pairSize != 0 {
		return nil, errBLS12InvalidInputLength
	}
	k := len(input) / pairSize
	var acc bls12381.G1Jac
	for i := 0; i < k; i++ {
		off := i * pairSize
		p, err := decodeBLSG1(input[off : off+blsG1EncSize])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[off+blsG1EncSize : off+pairSize])
		pj := blsG1Jac(&p)
		var scaled bls12381.G1Jac
		scaled.ScalarMultiplication(&pj, scalar)
		acc.AddAssign(&scaled)
	}
	var res bls12381.G1Affine
	res.FromJacobian(&acc)
	return encodeBLSG1(&res), nil
}

func GetBls12381G1MultiExp() PrecompiledContract { return &bls12381G1MultiExpContract{} }

// ---------------------------------------------------------------------------
// 0x0d G2ADD
// ---------------------------------------------------------------------------

type bls12381G2AddContract struct{}

func (c *bls12381G2AddContract) RequiredGas(input []byte) uint64 { return 800 }

func (c *bls12381G2AddContract) Run(input []byte) ([]byte, error) {
	if len(input) != 2*blsG2EncSize {
		return nil, errBLS12InvalidInputLength
	}
	p1, err := decodeBLSG2(input[0:blsG2EncSize])
	if err != nil {
		return nil, err
	}
	p2, err := decodeBLSG2(input[blsG2EncSize : 2*blsG2EncSize])
	if err != nil {
		return nil, err
	}
	j1, j2 := blsG2Jac(&p1), blsG2Jac(&p2)
	j1.AddAssign(&j2)
	var res bls12381.G2Affine
	res.FromJacobian(&j1)
	return encodeBLSG2(&res), nil
}

func GetBls12381G2Add() PrecompiledContract { return &bls12381G2AddContract{} }

// ---------------------------------------------------------------------------
// 0x0e G2MSM
// ---------------------------------------------------------------------------

type bls12381G2MultiExpContract struct{}

func (c *bls12381G2MultiExpContract) RequiredGas(input []byte) uint64 {
	pairSize := blsG2EncSize + blsScalarSize
	k := uint64(len(input) / pairSize)
	if k == 0 {
		return 0
	}
	return k * 22500 * g1MSMDiscount(k) / 1000
}

func (c *bls12381G2MultiExpContract) Run(input []byte) ([]byte, error) {
	pairSize := blsG2EncSize + blsScalarSize
	if len(input) == 0 || len(input)%pairSize != 0 {
		return nil, errBLS12InvalidInputLength
	}
	k := len(input) / pairSize
	var acc bls12381.G2Jac
	for i := 0; i < k; i++ {
		off := i * pairSize
		p, err := decodeBLSG2(input[off : off+blsG2EncSize])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[off+blsG2EncSize : off+pairSize])
		pj := blsG2Jac(&p)
		var scaled bls12381.G2Jac
		scaled.ScalarMultiplication(&pj, scalar)
		acc.AddAssign(&scaled)
	}
	var res bls12381.G2Affine
	res.FromJacobian(&acc)
	return encodeBLSG2(&res), nil
}

func GetBls12381G2MultiExp() PrecompiledContract { return &bls12381G2MultiExpContract{} }

// ---------------------------------------------------------------------------
// 0x0f PAIRING
// ---------------------------------------------------------------------------

type bls12381PairingContract struct{}

const blsPairSize = blsG1EncSize + blsG2EncSize

func (c *bls12381PairingContract) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / blsPairSize)
	return 32600*k + 37700
}

func (c *bls12381PairingContract) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%blsPairSize != 0 {
		return nil, errBLS12InvalidInputLength
	}
	k := len(input) / blsPairSize
	g1Points := make([]bls12381.G1Affine, 0, k)
	g2Points := make([]bls12381.G2Affine, 0, k)
	for i := 0; i < k; i++ {
		off := i * blsPairSize
		p1, err := decodeBLSG1(input[off : off+blsG1EncSize])
		if err != nil {
			return nil, err
		}
		p2, err := decodeBLSG2(input[off+blsG1EncSize : off+blsPairSize])
		if err != nil {
			return nil, err
		}
		g1Points = append(g1Points, p1)
		g2Points = append(g2Points, p2)
	}

	out := make([]byte, 32)
	ok, err := bls12381.PairingCheck(g1Points, g2Points)
	if err != nil {
		return nil, err
	}
	if ok {
		out[31] = 1
	}
	return out, nil
}

func GetBls12381Pairing() PrecompiledContract { return &bls12381PairingContract{} }

// ---------------------------------------------------------------------------
// 0x10 MAP_FP_TO_G1, 0x11 MAP_FP2_TO_G2
// ---------------------------------------------------------------------------

type bls12381MapG1Contract struct{}

func (c *bls12381MapG1Contract) RequiredGas(input []byte) uint64 { return 5500 }

func (c *bls12381MapG1Contract) Run(input []byte) ([]byte, error) {
	if len(input) != blsFpEncSize {
		return nil, errBLS12InvalidInputLength
	}
	u, err := decodeBLSFp(input)
	if err != nil {
		return nil, err
	}
	p := bls12381.MapToG1(u)
	return encodeBLSG1(&p), nil
}

func GetBls12381MapG1() PrecompiledContract { return &bls12381MapG1Contract{} }

type bls12381MapG2Contract struct{}

func (c *bls12381MapG2Contract) RequiredGas(input []byte) uint64 { return 23800 }

func (c *bls12381MapG2Contract) Run(input []byte) ([]byte, error) {
	if len(input) != 2*blsFpEncSize {
		return nil, errBLS12InvalidInputLength
	}
	u, err := decodeBLSFp2(input)
	if err != nil {
		return nil, err
	}
	p := bls12381.MapToG2(u)
	return encodeBLSG2(&p), nil
}

func GetBls12381MapG2() PrecompiledContract { return &bls12381MapG2Contract{} }
