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
	"sync"

	"github.com/holiman/uint256"
)

// Memory is the interpreter's byte-addressable scratch space. It only ever
// grows, in 32-byte words, for the lifetime of a single call frame; a new
// frame gets a fresh Memory drawn from pool.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

var framePool = sync.Pool{
	New: func() interface{} {
		return &Memory{}
	},
}

// NewMemory draws a Memory from the shared pool.
func NewMemory() *Memory {
	return framePool.Get().(*Memory)
}

// ReturnMemory releases the memory's backing buffer back to the size-classed
// memPool, resets the frame and returns it to the shared pool.
func ReturnMemory(m *Memory) {
	if m.store != nil {
		PutMemory(m.store)
	}
	m.store = nil
	m.lastGasCost = 0
	framePool.Put(m)
}

// Reset empties the memory without releasing its backing array.
func (m *Memory) Reset() {
	m.store = m.store[:0]
	m.lastGasCost = 0
}

// Resize grows the memory to at least size bytes, zero-filling the new
// region. It never shrinks. The backing buffer is drawn from the
// size-classed memPool so repeated frames of similar size reuse the same
// allocations.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	if uint64(cap(m.store)) >= size {
		m.store = m.store[:size]
		return
	}
	grown := GetMemory(int(size))[:size]
	for i := range grown {
		grown[i] = 0
	}
	copy(grown, m.store)
	if m.store != nil {
		PutMemory(m.store)
	}
	m.store = grown
}

// Set writes data into memory at offset. It does not resize: if memory is
// shorter than offset+size, nothing is written. size may be shorter than
// len(data), in which case data is truncated; longer sizes zero-pad.
func (m *Memory) Set(offset, size uint64, data []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		return // caller must Resize before Set
	}
	dst := m.store[offset : offset+size]
	n := copy(dst, data)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// Set32 writes the 32-byte big-endian encoding of val at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	dst := m.store[offset : offset+32]
	b := val.Bytes32()
	copy(dst, b[:])
}

// GetCopy returns a freshly allocated copy of size bytes starting at offset.
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cp := make([]byte, size)
		copy(cp, m.store[offset:])
		return cp
	}
	return make([]byte, size)
}

// GetPtr returns a slice referencing memory directly, valid only until the
// next Resize.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the raw backing slice.
func (m *Memory) Data() []byte { return m.store }

// Copy performs an internal MCOPY-style move within memory, handling
// overlap correctly.
func (m *Memory) Copy(dst, src, size uint64) {
	if size == 0 {
		return
	}
	copy(m.store[dst:dst+size], m.store[src:src+size])
}
