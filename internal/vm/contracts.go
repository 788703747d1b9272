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
	"crypto/sha256"
	"math/big"

	"github.com/coreevm/engine/common/crypto"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/params"
	"golang.org/x/crypto/ripemd160"
)

// newPrecompileRegistry builds the address-to-contract map active under the
// given chain rules. One registry is built per fork transition (cached on
// the EVM, rebuilt by ResetBetweenBlocks) rather than per call.
func newPrecompileRegistry(rules *params.Rules) PrecompileRegistry {
	contracts := map[types.Address]PrecompiledContract{
		types.BytesToAddress([]byte{1}): GetEcrecover(),
		types.BytesToAddress([]byte{2}): GetSha256(),
		types.BytesToAddress([]byte{3}): GetRipemd160(),
		types.BytesToAddress([]byte{4}): GetDataCopy(),
	}
	if rules.IsByzantium {
		contracts[types.BytesToAddress([]byte{5})] = GetBigModExp(false)
		contracts[types.BytesToAddress([]byte{6})] = GetBn256Add(false)
		contracts[types.BytesToAddress([]byte{7})] = GetBn256ScalarMul(false)
		contracts[types.BytesToAddress([]byte{8})] = GetBn256Pairing(false)
	}
	if rules.IsIstanbul {
		contracts[types.BytesToAddress([]byte{6})] = GetBn256Add(true)
		contracts[types.BytesToAddress([]byte{7})] = GetBn256ScalarMul(true)
		contracts[types.BytesToAddress([]byte{8})] = GetBn256Pairing(true)
		contracts[types.BytesToAddress([]byte{9})] = GetBlake2F()
	}
	if rules.IsBerlin {
		contracts[types.BytesToAddress([]byte{5})] = GetBigModExp(true)
	}
	if rules.IsCancun {
		contracts[types.BytesToAddress([]byte{0x0a})] = GetPointEvaluationPrecompile()
	}
	if rules.IsPectra {
		contracts[types.BytesToAddress([]byte{0x0b})] = GetBls12381G1Add()
		contracts[types.BytesToAddress([]byte{0x0c})] = GetBls12381G1MultiExp()
		contracts[types.BytesToAddress([]byte{0x0d})] = GetBls12381G2Add()
		contracts[types.BytesToAddress([]byte{0x0e})] = GetBls12381G2MultiExp()
		contracts[types.BytesToAddress([]byte{0x0f})] = GetBls12381Pairing()
		contracts[types.BytesToAddress([]byte{0x10})] = GetBls12381MapG1()
		contracts[types.BytesToAddress([]byte{0x11})] = GetBls12381MapG2()
		p256Addr := types.BytesToAddress([]byte{0x01, 0x00})
		contracts[p256Addr] = GetP256Verify()
	}
	return &mapRegistry{contracts: contracts}
}

// mapRegistry is the simplest PrecompileRegistry: a fixed address map built
// once per fork.
type mapRegistry struct {
	contracts map[types.Address]PrecompiledContract
}

func (r *mapRegistry) Lookup(addr types.Address) (PrecompiledContract, bool) {
	p, ok := r.contracts[addr]
	return p, ok
}

// ---------------------------------------------------------------------------
// 0x01 ECRECOVER
// ---------------------------------------------------------------------------

type ecrecoverContract struct{}

func (c *ecrecoverContract) RequiredGas(input []byte) uint64 { return 3000 }

func (c *ecrecoverContract) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)
	var (
		hash = input[:32]
		v    = input[63]
	)
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])

	if v < 27 || v > 28 {
		return nil, nil
	}
	if !validSignatureValues(r, s) {
		return nil, nil
	}

	sig := make([]byte, 65)
	r.FillBytes(sig[0:32])
	s.FillBytes(sig[32:64])
	sig[64] = v - 27

	pub, err := crypto.Ecrecover(hash, sig)
	if err != nil {
		return nil, nil
	}
	addr, err := crypto.PubkeyToAddress(pub)
	if err != nil {
		return nil, nil
	}
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out, nil
}

var (
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N(), 1)
)

func secp256k1N() *big.Int {
	n, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	return n
}

// validSignatureValues rejects zero and out-of-range values: r and s must
// both lie strictly between 0 and the curve order n. High-S values are
// accepted.
func validSignatureValues(r, s *big.Int) bool {
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	n := secp256k1N()
	return r.Cmp(n) < 0 && s.Cmp(n) < 0
}

// GetEcrecover returns the ECRECOVER precompile (address 0x01).
func GetEcrecover() PrecompiledContract { return &ecrecoverContract{} }

// ---------------------------------------------------------------------------
// 0x02 SHA256
// ---------------------------------------------------------------------------

type sha256Contract struct{}

func (c *sha256Contract) RequiredGas(input []byte) uint64 {
	return 60 + 12*toWordSize(uint64(len(input)))
}

func (c *sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// GetSha256 returns the SHA256 precompile (address 0x02).
func GetSha256() PrecompiledContract { return &sha256Contract{} }

// ---------------------------------------------------------------------------
// 0x03 RIPEMD160
// ---------------------------------------------------------------------------

type ripemd160Contract struct{}

func (c *ripemd160Contract) RequiredGas(input []byte) uint64 {
	return 600 + 120*toWordSize(uint64(len(input)))
}

func (c *ripemd160Contract) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	digest := h.Sum(nil)
	out := make([]byte, 32)
	copy(out[12:], digest)
	return out, nil
}

// GetRipemd160 returns the RIPEMD160 precompile (address 0x03).
func GetRipemd160() PrecompiledContract { return &ripemd160Contract{} }

// ---------------------------------------------------------------------------
// 0x04 IDENTITY
// ---------------------------------------------------------------------------

type dataCopyContract struct{}

func (c *dataCopyContract) RequiredGas(input []byte) uint64 {
	return 15 + 3*toWordSize(uint64(len(input)))
}

func (c *dataCopyContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// GetDataCopy returns the IDENTITY precompile (address 0x04).
func GetDataCopy() PrecompiledContract { return &dataCopyContract{} }

// ---------------------------------------------------------------------------
// 0x05 MODEXP (EIP-198, repriced by EIP-2565)
// ---------------------------------------------------------------------------

type bigModExpContract struct{ eip2565 bool }

func (c *bigModExpContract) RequiredGas(input []byte) uint64 {
	input = rightPad(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	var expHead *big.Int
	if uint64(len(input)) > 96+baseLen {
		start := 96 + baseLen
		end := start + min64(expLen, 32)
		if end <= uint64(len(input)) {
			expHead = new(big.Int).SetBytes(input[start:end])
		}
	}
	if expHead == nil {
		expHead = new(big.Int)
	}

	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8

	var multComplexity uint64
	if c.eip2565 {
		multComplexity = words * words
	} else {
		multComplexity = legacyMultComplexity(maxLen)
	}

	adjExpLen := adjustedExpLen(expLen, expHead)
	if adjExpLen < 1 {
		adjExpLen = 1
	}

	gas := multComplexity * adjExpLen
	if c.eip2565 {
		gas /= 3
		if gas < 200 {
			gas = 200
		}
	} else {
		gas /= 20
	}
	return gas
}

func legacyMultComplexity(x uint64) uint64 {
	switch {
	case x <= 64:
		return x * x
	case x <= 1024:
		return x*x/4 + 96*x - 3072
	default:
		return x*x/16 + 480*x - 199680
	}
}

func adjustedExpLen(expLen uint64, expHead *big.Int) uint64 {
	bitLen := expHead.BitLen()
	var msbLen uint64
	if bitLen > 0 {
		msbLen = uint64(bitLen - 1)
	}
	if expLen <= 32 {
		return msbLen
	}
	return 8*(expLen-32) + msbLen
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func (c *bigModExpContract) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	if baseLen == 0 && modLen == 0 {
		return []byte{}, nil
	}

	body := input[96:]
	base := new(big.Int).SetBytes(getData(body, 0, baseLen))
	exp := new(big.Int).SetBytes(getData(body, baseLen, expLen))
	mod := new(big.Int).SetBytes(getData(body, baseLen+expLen, modLen))

	out := make([]byte, modLen)
	if mod.Sign() == 0 {
		return out, nil
	}
	result := new(big.Int).Exp(base, exp, mod)
	result.FillBytes(out)
	return out, nil
}

// GetBigModExp returns the MODEXP precompile (address 0x05).
func GetBigModExp(eip2565 bool) PrecompiledContract { return &bigModExpContract{eip2565: eip2565} }

// rightPad returns input padded with trailing zeros to at least size bytes,
// without truncating an already-longer input.
func rightPad(input []byte, size int) []byte {
	if len(input) >= size {
		return input
	}
	padded := make([]byte, size)
	copy(padded, input)
	return padded
}
