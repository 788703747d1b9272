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

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// alt_bn128 (BN254) precompiles for EC addition, scalar multiplication and
// pairing checks, EIP-196/EIP-197, repriced by EIP-1108 at Istanbul.

var errBn256InvalidPoint = errors.New("bn256: invalid curve point")

func bn256ReadG1(input []byte, offset int) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	var x, y fp.Element
	x.SetBytes(input[offset : offset+32])
	y.SetBytes(input[offset+32 : offset+64])
	p.X = x
	p.Y = y
	if x.IsZero() && y.IsZero() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, errBn256InvalidPoint
	}
	return p, nil
}

func bn256WriteG1(p *bn254.G1Affine) []byte {
	out := make([]byte, 64)
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	copy(out[32-len(xb):32], xb[:])
	copy(out[64-len(yb):64], yb[:])
	return out
}

func bn256ReadG2(input []byte, offset int) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	// EIP-197 encodes the twist coordinate as (x.imag, x.real, y.imag, y.real).
	var xi, xr, yi, yr fp.Element
	xi.SetBytes(input[offset : offset+32])
	xr.SetBytes(input[offset+32 : offset+64])
	yi.SetBytes(input[offset+64 : offset+96])
	yr.SetBytes(input[offset+96 : offset+128])
	p.X.A0 = xr
	p.X.A1 = xi
	p.Y.A0 = yr
	p.Y.A1 = yi
	if p.X.IsZero() && p.Y.IsZero() {
		return p, nil
	}
	if !p.IsOnCurve() {
		return p, errBn256InvalidPoint
	}
	return p, nil
}

type bn256AddContract struct{ istanbul bool }

func (c *bn256AddContract) RequiredGas(input []byte) uint64 {
	if c.istanbul {
		return 150
	}
	return 500
}

func (c *bn256AddContract) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)
	p1, err := bn256ReadG1(input, 0)
	if err != nil {
		return nil, err
	}
	p2, err := bn256ReadG1(input, 64)
	if err != nil {
		return nil, err
	}
	var res bn254.G1Jac
	res.FromAffine(&p1)
	var p2Jac bn254.G1Jac
	p2Jac.FromAffine(&p2)
	res.AddAssign(&p2Jac)
	var resAffine bn254.G1Affine
	resAffine.FromJacobian(&res)
	return bn256WriteG1(&resAffine), nil
}

// GetBn256Add returns the BN256 point addition precompile (address 0x06).
func GetBn256Add(istanbul bool) PrecompiledContract { return &bn256AddContract{istanbul: istanbul} }

type bn256ScalarMulContract struct{ istanbul bool }

func (c *bn256ScalarMulContract) RequiredGas(input []byte) uint64 {
	if c.istanbul {
		return 6000
	}
	return 40000
}

func (c *bn256ScalarMulContract) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	p, err := bn256ReadG1(input, 0)
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(input[64:96])
	var res bn254.G1Jac
	var pJac bn254.G1Jac
	pJac.FromAffine(&p)
	res.ScalarMultiplication(&pJac, scalar)
	var resAffine bn254.G1Affine
	resAffine.FromJacobian(&res)
	return bn256WriteG1(&resAffine), nil
}

// GetBn256ScalarMul returns the BN256 scalar multiplication precompile
// (address 0x07).
func GetBn256ScalarMul(istanbul bool) PrecompiledContract {
	return &bn256ScalarMulContract{istanbul: istanbul}
}

type bn256PairingContract struct{ istanbul bool }

const bn256PairingInputSize = 192

func (c *bn256PairingContract) RequiredGas(input []byte) uint64 {
	pairs := uint64(len(input) / bn256PairingInputSize)
	if c.istanbul {
		return 45000 + pairs*34000
	}
	return 100000 + pairs*80000
}

func (c *bn256PairingContract) Run(input []byte) ([]byte, error) {
	if len(input)%bn256PairingInputSize != 0 {
		return nil, errors.New("bn256: invalid pairing input length")
	}
	var g1Points []bn254.G1Affine
	var g2Points []bn254.G2Affine
	for offset := 0; offset < len(input); offset += bn256PairingInputSize {
		p1, err := bn256ReadG1(input, offset)
		if err != nil {
			return nil, err
		}
		p2, err := bn256ReadG2(input, offset+64)
		if err != nil {
			return nil, err
		}
		g1Points = append(g1Points, p1)
		g2Points = append(g2Points, p2)
	}

	out := make([]byte, 32)
	if len(g1Points) == 0 {
		out[31] = 1
		return out, nil
	}

	ok, err := bn254.PairingCheck(g1Points, g2Points)
	if err != nil {
		return nil, err
	}
	if ok {
		out[31] = 1
	}
	return out, nil
}

// GetBn256Pairing returns the BN256 pairing check precompile (address 0x08).
func GetBn256Pairing(istanbul bool) PrecompiledContract {
	return &bn256PairingContract{istanbul: istanbul}
}
