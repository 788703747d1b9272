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

package stack

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestStackPushPop(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	val := uint256.NewInt(42)
	s.Push(val)
	if s.Len() != 1 {
		t.Fatalf("len=%d want 1", s.Len())
	}
	if popped := s.Pop(); popped.Cmp(val) != 0 {
		t.Fatalf("popped=%v want %v", popped, val)
	}
	if s.Len() != 0 {
		t.Fatalf("len=%d want 0", s.Len())
	}
}

func TestStackPushN(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	vals := []uint256.Int{*uint256.NewInt(1), *uint256.NewInt(2), *uint256.NewInt(3)}
	s.PushN(vals...)
	if s.Len() != 3 {
		t.Fatalf("len=%d want 3", s.Len())
	}
	for i := len(vals) - 1; i >= 0; i-- {
		if popped := s.Pop(); popped.Cmp(&vals[i]) != 0 {
			t.Fatalf("popped=%v want %v", popped, vals[i])
		}
	}
}

func TestStackBack(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	s.Push(uint256.NewInt(1))
	s.Push(uint256.NewInt(2))
	s.Push(uint256.NewInt(3))

	if s.Back(0).Uint64() != 3 {
		t.Fatalf("Back(0)=%v want 3", s.Back(0))
	}
	if s.Back(1).Uint64() != 2 {
		t.Fatalf("Back(1)=%v want 2", s.Back(1))
	}
	if s.Back(2).Uint64() != 1 {
		t.Fatalf("Back(2)=%v want 1", s.Back(2))
	}
}

func TestStackSwap(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	s.Push(uint256.NewInt(1))
	s.Push(uint256.NewInt(2))
	s.Push(uint256.NewInt(3))

	s.Swap(2)
	if s.Peek().Uint64() != 1 {
		t.Fatalf("top after Swap(2)=%v want 1", s.Peek())
	}
	s.Pop()
	if s.Peek().Uint64() != 2 {
		t.Fatalf("second after Swap(2)=%v want 2", s.Peek())
	}
}

func TestStackDup(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	s.Push(uint256.NewInt(1))
	s.Push(uint256.NewInt(2))
	s.Dup(1)

	if s.Len() != 3 {
		t.Fatalf("len=%d want 3", s.Len())
	}
	if s.Peek().Uint64() != 2 {
		t.Fatalf("top=%v want 2", s.Peek())
	}
}

func TestStackResetAndCap(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	s.Push(uint256.NewInt(1))
	s.Push(uint256.NewInt(2))
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("len=%d want 0 after Reset", s.Len())
	}
	if s.Cap() < 16 {
		t.Fatalf("cap=%d want >=16", s.Cap())
	}
}

func TestStackHighVolumeAndMaxUint256(t *testing.T) {
	s := New()
	defer ReturnNormalStack(s)

	max := new(uint256.Int).Sub(uint256.NewInt(0), uint256.NewInt(1)) // 2^256-1
	for i := 0; i < 1000; i++ {
		s.Push(max)
	}
	for i := 0; i < 1000; i++ {
		if s.Pop().Cmp(max) != 0 {
			t.Fatalf("corrupted stack value at depth %d", i)
		}
	}
}

func TestStackPoolReuse(t *testing.T) {
	s1 := New()
	s1.Push(uint256.NewInt(42))
	ReturnNormalStack(s1)

	s2 := New()
	defer ReturnNormalStack(s2)
	if s2.Len() != 0 {
		t.Fatalf("reused stack len=%d want 0", s2.Len())
	}
}

func TestReturnStackPushPopAndData(t *testing.T) {
	rs := NewReturnStack()
	defer ReturnRStack(rs)

	rs.Push(1)
	rs.Push(2)
	rs.Push(3)

	data := rs.Data()
	if len(data) != 3 || data[0] != 1 || data[2] != 3 {
		t.Fatalf("data=%v unexpected", data)
	}
	if popped := rs.Pop(); popped != 3 {
		t.Fatalf("popped=%d want 3", popped)
	}
}

func TestReturnStackPoolReuse(t *testing.T) {
	rs1 := NewReturnStack()
	rs1.Push(math.MaxUint32)
	ReturnRStack(rs1)

	rs2 := NewReturnStack()
	defer ReturnRStack(rs2)
	if len(rs2.Data()) != 0 {
		t.Fatalf("reused return stack not empty: %v", rs2.Data())
	}
}
