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

// Package stack implements the interpreter's 1024-slot operand stack and
// its EOF sibling, the function return-address stack, both backed by
// sync.Pool so a call frame's stack allocation is free in the steady state.
package stack

import (
	"sync"

	"github.com/holiman/uint256"
)

const initialCapacity = 16

// Stack is the EVM's 256-bit operand stack.
type Stack struct {
	data []uint256.Int
}

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, initialCapacity)}
	},
}

// New returns a Stack drawn from the shared pool.
func New() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnNormalStack resets s and returns it to the shared pool.
func ReturnNormalStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

func (s *Stack) Len() int { return len(s.data) }

func (s *Stack) Cap() int { return cap(s.data) }

// Push pushes val onto the stack. The caller retains ownership of val's
// memory; Push copies it.
func (s *Stack) Push(val *uint256.Int) {
	s.data = append(s.data, *val)
}

// PushN pushes vals in order, so the last element of vals ends up on top.
func (s *Stack) PushN(vals ...uint256.Int) {
	s.data = append(s.data, vals...)
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() *uint256.Int {
	n := len(s.data) - 1
	v := s.data[n]
	s.data = s.data[:n]
	return &v
}

// Peek returns the top of the stack without removing it.
func (s *Stack) Peek() *uint256.Int {
	return &s.data[len(s.data)-1]
}

// Back returns the n-th element from the top without removing it; Back(0)
// is the top of the stack.
func (s *Stack) Back(n int) *uint256.Int {
	return &s.data[len(s.data)-1-n]
}

// Swap exchanges the top of the stack with the element n positions below
// it. Swap(1) is a no-op beyond touching the top two elements; opcode
// SWAPn calls Swap(n).
func (s *Stack) Swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// Dup pushes a copy of the element n positions from the top (Dup(1)
// duplicates the current top).
func (s *Stack) Dup(n int) {
	s.data = append(s.data, s.data[len(s.data)-n])
}

// Reset empties the stack without releasing its backing array.
func (s *Stack) Reset() {
	s.data = s.data[:0]
}

// Data exposes the backing slice, bottom first, for tracers.
func (s *Stack) Data() []uint256.Int { return s.data }

// ---------------------------------------------------------------------------
// ReturnStack (EOF function call stack, EIP-4750/6206)
// ---------------------------------------------------------------------------

const maxReturnStackDepth = 1024

// ReturnStack holds the code-section return addresses pushed by CALLF and
// popped by RETF/JUMPF.
type ReturnStack struct {
	data []uint32
}

var returnStackPool = sync.Pool{
	New: func() interface{} {
		return &ReturnStack{data: make([]uint32, 0, maxReturnStackDepth)}
	},
}

func NewReturnStack() *ReturnStack {
	return returnStackPool.Get().(*ReturnStack)
}

// ReturnRStack resets rs and returns it to the shared pool.
func ReturnRStack(rs *ReturnStack) {
	rs.data = rs.data[:0]
	returnStackPool.Put(rs)
}

func (rs *ReturnStack) Push(v uint32) {
	rs.data = append(rs.data, v)
}

func (rs *ReturnStack) Pop() uint32 {
	n := len(rs.data) - 1
	v := rs.data[n]
	rs.data = rs.data[:n]
	return v
}

func (rs *ReturnStack) Data() []uint32 { return rs.data }

func (rs *ReturnStack) Len() int { return len(rs.data) }
