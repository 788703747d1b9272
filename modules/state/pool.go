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

package state

import (
	"sync"

	"github.com/holiman/uint256"
)

// BalancePool recycles *uint256.Int scratch values. AddBalance and
// SubBalance allocate their own values and do not draw from it.
var BalancePool = sync.Pool{
	New: func() interface{} { return new(uint256.Int) },
}

// GetPooledBalance returns a zeroed *uint256.Int from the pool.
func GetPooledBalance() *uint256.Int {
	v := BalancePool.Get().(*uint256.Int)
	v.Clear()
	return v
}

// PutPooledBalance returns v to the pool.
func PutPooledBalance(v *uint256.Int) {
	BalancePool.Put(v)
}

// StorageKeyPool recycles the [32]byte arrays used to stage storage keys
// before hashing/lookup.
var StorageKeyPool = sync.Pool{
	New: func() interface{} { return new([32]byte) },
}

// GetPooledStorageKey returns a zeroed [32]byte from the pool.
func GetPooledStorageKey() *[32]byte {
	k := StorageKeyPool.Get().(*[32]byte)
	*k = [32]byte{}
	return k
}

// PutPooledStorageKey returns k to the pool.
func PutPooledStorageKey(k *[32]byte) {
	StorageKeyPool.Put(k)
}

// ByteSlicePool recycles byte buffers used for code/storage scratch space.
var ByteSlicePool = sync.Pool{
	New: func() interface{} { return make([]byte, 0, 128) },
}

// GetPooledByteSlice returns a zero-length byte slice with spare capacity.
func GetPooledByteSlice() []byte {
	return ByteSlicePool.Get().([]byte)[:0]
}

// PutPooledByteSlice returns b to the pool.
func PutPooledByteSlice(b []byte) {
	ByteSlicePool.Put(b) //nolint:staticcheck // intentional: recycle underlying array
}

// StoragePool recycles per-account Storage maps. newStateObject allocates
// its maps with make and does not draw from it.
var StoragePool = sync.Pool{
	New: func() interface{} { return make(Storage) },
}

// GetPooledStorage returns an empty Storage map from the pool.
func GetPooledStorage() Storage {
	return StoragePool.Get().(Storage)
}

// PutPooledStorage clears and returns s to the pool.
func PutPooledStorage(s Storage) {
	for k := range s {
		delete(s, k)
	}
	StoragePool.Put(s)
}
