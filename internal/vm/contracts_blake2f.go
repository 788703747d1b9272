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
	"encoding/binary"
	"errors"
)

// blake2f exposes the BLAKE2b compression function F directly (EIP-152), the
// one piece of the BLAKE2b algorithm no standard-library or x/crypto package
// surfaces on its own since both only expose the full streaming hash, not an
// externally-clocked F with a caller-supplied round count.

const blake2FInputLength = 213

var (
	errBlake2FInvalidInputLength = errors.New("blake2f: invalid input length")
	errBlake2FInvalidFinalFlag   = errors.New("blake2f: invalid final block indicator")
)

var blake2fIV = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b,
	0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f,
	0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

var blake2fSigma = [10][16]byte{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

func blake2bRotr64(x uint64, n uint) uint64 { return x>>n | x<<(64-n) }

func blake2fG(v *[16]uint64, a, b, c, d int, x, y uint64) {
	v[a] = v[a] + v[b] + x
	v[d] = blake2bRotr64(v[d]^v[a], 32)
	v[c] = v[c] + v[d]
	v[b] = blake2bRotr64(v[b]^v[c], 24)
	v[a] = v[a] + v[b] + y
	v[d] = blake2bRotr64(v[d]^v[a], 16)
	v[c] = v[c] + v[d]
	v[b] = blake2bRotr64(v[b]^v[c], 63)
}

// blake2fCompress runs the F function for rounds iterations over h, m, t and
// the final-block flag, per the algorithm in RFC 7693 section 3.2.
func blake2fCompress(rounds uint32, h *[8]uint64, m [16]uint64, t [2]uint64, final bool) {
	var v [16]uint64
	copy(v[:8], h[:])
	copy(v[8:], blake2fIV[:])
	v[12] ^= t[0]
	v[13] ^= t[1]
	if final {
		v[14] = ^v[14]
	}

	for r := uint32(0); r < rounds; r++ {
		s := blake2fSigma[r%10]
		blake2fG(&v, 0, 4, 8, 12, m[s[0]], m[s[1]])
		blake2fG(&v, 1, 5, 9, 13, m[s[2]], m[s[3]])
		blake2fG(&v, 2, 6, 10, 14, m[s[4]], m[s[5]])
		blake2fG(&v, 3, 7, 11, 15, m[s[6]], m[s[7]])
		blake2fG(&v, 0, 5, 10, 15, m[s[8]], m[s[9]])
		blake2fG(&v, 1, 6, 11, 12, m[s[10]], m[s[11]])
		blake2fG(&v, 2, 7, 8, 13, m[s[12]], m[s[13]])
		blake2fG(&v, 3, 4, 9, 14, m[s[14]], m[s[15]])
	}
	for i := 0; i < 8; i++ {
		h[i] ^= v[i] ^ v[i+8]
	}
}

type blake2FContract struct{}

// RequiredGas charges one gas unit per compression round, the whole point of
// exposing F as a precompile instead of bundling a fixed-round hash.
func (c *blake2FContract) RequiredGas(input []byte) uint64 {
	if len(input) != blake2FInputLength {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4]))
}

// Run executes BLAKE2b's F compression function.
//
// Input format (213 bytes):
//
//	[0:4]    rounds, big-endian uint32
//	[4:68]   h, 8 little-endian uint64 state words
//	[68:196] m, 16 little-endian uint64 message words
//	[196:212] t, 2 little-endian uint64 offset counters
//	[212]    final block flag (0 or 1)
func (c *blake2FContract) Run(input []byte) ([]byte, error) {
	if len(input) != blake2FInputLength {
		return nil, errBlake2FInvalidInputLength
	}
	rounds := binary.BigEndian.Uint32(input[0:4])

	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8 : 12+i*8])
	}
	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8 : 76+i*8])
	}
	var t [2]uint64
	t[0] = binary.LittleEndian.Uint64(input[196:204])
	t[1] = binary.LittleEndian.Uint64(input[204:212])

	final := input[212]
	if final > 1 {
		return nil, errBlake2FInvalidFinalFlag
	}

	blake2fCompress(rounds, &h, m, t, final == 1)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], h[i])
	}
	return out, nil
}

// GetBlake2F returns the BLAKE2b F compression precompile (address 0x09).
func GetBlake2F() PrecompiledContract { return &blake2FContract{} }
