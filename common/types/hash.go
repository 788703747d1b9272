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

package types

import (
	"encoding/hex"

	"github.com/holiman/uint256"
)

// HashLength is the length in bytes of a 256 bit hash/storage word.
const HashLength = 32

// Hash represents a 32 byte value, used both for keccak digests and
// for 256-bit storage keys and values.
type Hash [HashLength]byte

// BytesToHash returns Hash with value b, left padded if shorter than 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash returns Hash with value parsed from s.
func HexToHash(s string) Hash {
	return BytesToHash(FromHex(s))
}

// Uint256ToHash converts a uint256.Int to its big-endian Hash representation.
func Uint256ToHash(i *uint256.Int) Hash {
	return Hash(i.Bytes32())
}

// Hash returns the uint256.Int view of h, treating it as a big-endian word.
func (h Hash) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}

// SetBytes sets the hash to the value of b, left padded if b is shorter.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the raw bytes of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the hash is the zero value.
func (h Hash) IsZero() bool { return h == Hash{} }

// Cmp compares two hashes lexicographically.
func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
