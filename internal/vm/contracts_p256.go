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
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"
)

// EIP-7212/EIP-7951 secp256r1 (P-256) signature verification, address 0x0100.
// Used by secure enclaves, passkeys and WebAuthn-backed account abstraction.
//
// Input format (160 bytes): hash[0:32] || r[32:64] || s[64:96] || x[96:128] || y[128:160].
// Output: 32-byte big-endian 1 on success, empty on any failure.

const (
	P256VerifyGas         = 3450
	P256VerifyInputLength = 160
)

var (
	p256Curve = elliptic.P256()
	p256N     = p256Curve.Params().N
	p256HalfN = new(big.Int).Rsh(p256N, 1)

	errP256InvalidSignature = errors.New("invalid P-256 signature")
	errP256InvalidPublicKey = errors.New("invalid P-256 public key")
)

type p256Verify struct{}

func (c *p256Verify) RequiredGas(input []byte) uint64 { return P256VerifyGas }

func (c *p256Verify) Run(input []byte) ([]byte, error) {
	input = rightPad(input, P256VerifyInputLength)

	hash := input[0:32]
	r := new(big.Int).SetBytes(input[32:64])
	s := new(big.Int).SetBytes(input[64:96])
	x := new(big.Int).SetBytes(input[96:128])
	y := new(big.Int).SetBytes(input[128:160])

	if r.Sign() <= 0 || r.Cmp(p256N) >= 0 {
		return nil, nil
	}
	if s.Sign() <= 0 || s.Cmp(p256N) >= 0 {
		return nil, nil
	}
	if !p256Curve.IsOnCurve(x, y) {
		return nil, nil
	}

	pubKey := &ecdsa.PublicKey{Curve: p256Curve, X: x, Y: y}
	if ecdsa.Verify(pubKey, hash, r, s) {
		result := make([]byte, 32)
		result[31] = 1
		return result, nil
	}
	return nil, nil
}

// GetP256Verify returns the P-256 signature verification precompile (address 0x0100).
func GetP256Verify() PrecompiledContract { return &p256Verify{} }

// p256Ecrecover recovers a P-256 public key from a signature, analogous to
// the secp256k1 ECRECOVER precompile but for the P-256 curve.
//
// Input format (97 bytes): hash[0:32] || r[32:64] || s[64:96] || v[96].
// Output: 64 bytes (x || y) on success, empty on failure.
type p256Ecrecover struct{}

func (c *p256Ecrecover) RequiredGas(input []byte) uint64 { return P256VerifyGas }

func (c *p256Ecrecover) Run(input []byte) ([]byte, error) {
	const p256EcrecoverInputLength = 97
	input = rightPad(input, p256EcrecoverInputLength)

	hash := input[0:32]
	r := new(big.Int).SetBytes(input[32:64])
	s := new(big.Int).SetBytes(input[64:96])
	v := input[96]

	if v > 1 {
		return nil, nil
	}
	if r.Sign() <= 0 || r.Cmp(p256N) >= 0 {
		return nil, nil
	}
	if s.Sign() <= 0 || s.Cmp(p256N) >= 0 {
		return nil, nil
	}

	pubX, pubY := recoverP256PublicKey(hash, r, s, int(v))
	if pubX == nil || pubY == nil {
		return nil, nil
	}

	result := make([]byte, 64)
	pubX.FillBytes(result[0:32])
	pubY.FillBytes(result[32:64])
	return result, nil
}

// recoverP256PublicKey recovers Q = r^-1 * (s*R - e*G) from a signature and
// recovery bit v, choosing R's y-coordinate parity from v.
func recoverP256PublicKey(hash []byte, r, s *big.Int, v int) (*big.Int, *big.Int) {
	curve := p256Curve
	params := curve.Params()

	x := new(big.Int).Set(r)
	y := calculateP256Y(x, params)
	if y == nil {
		return nil, nil
	}
	if y.Bit(0) != uint(v) {
		y.Sub(params.P, y)
	}
	if !curve.IsOnCurve(x, y) {
		return nil, nil
	}

	e := new(big.Int).SetBytes(hash)

	rInv := new(big.Int).ModInverse(r, params.N)
	if rInv == nil {
		return nil, nil
	}

	sRx, sRy := curve.ScalarMult(x, y, s.Bytes())
	eGx, eGy := curve.ScalarBaseMult(e.Bytes())
	negEGy := new(big.Int).Sub(params.P, eGy)
	diffX, diffY := curve.Add(sRx, sRy, eGx, negEGy)
	pubX, pubY := curve.ScalarMult(diffX, diffY, rInv.Bytes())

	return pubX, pubY
}

// calculateP256Y solves y^2 = x^3 - 3x + b (mod p) for one of the two roots.
func calculateP256Y(x *big.Int, params *elliptic.CurveParams) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	x3.Mod(x3, params.P)

	threeX := new(big.Int).Mul(big.NewInt(3), x)
	x3.Sub(x3, threeX)
	x3.Mod(x3, params.P)
	x3.Add(x3, params.B)
	x3.Mod(x3, params.P)

	return new(big.Int).ModSqrt(x3, params.P)
}

// GetP256Ecrecover returns the P-256 ECRECOVER-analog precompile.
func GetP256Ecrecover() PrecompiledContract { return &p256Ecrecover{} }
