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
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coreevm/engine/common/types"
	"github.com/holiman/uint256"
)

// jumpdestCache memoizes the JUMPDEST analysis bitmap per code hash across
// every call frame in the process, not just within one Contract: the same
// deployed bytecode is typically entered by many distinct calls, and the
// bitmap only depends on the bytes themselves. Bounded so a flood of
// distinct contracts can't grow it without limit.
var jumpdestCache, _ = lru.New[types.Hash, bitvec](8192)

// ContractRef identifies the caller/callee of a message call; AccountRef is
// the degenerate case used for the top-level message sender.
type ContractRef interface {
	Address() types.Address
}

// AccountRef implements ContractRef for a plain address with no associated
// running code, used to represent the transaction's external sender.
type AccountRef types.Address

func (ar AccountRef) Address() types.Address { return types.Address(ar) }

// Contract represents one running call frame's view of its own code,
// caller, value and remaining gas. The interpreter mutates Gas directly as
// it charges for each instruction.
type Contract struct {
	CallerAddress types.Address
	caller        ContractRef
	self          ContractRef

	Code     []byte
	CodeHash types.Hash
	CodeAddr *types.Address
	Input    []byte

	Gas   uint64
	value *uint256.Int

	IsEOF       bool
	eofContainer *EOFContainer

	returnStack []uint32 // CALLF/RETF tracking, parallel to the interpreter's ReturnStack
}

// NewContract returns a fresh Contract for a call from caller into object
// with the given value and gas allowance.
func NewContract(caller ContractRef, object ContractRef, value *uint256.Int, gas uint64) *Contract {
	c := &Contract{caller: caller, self: object, Gas: gas, value: value}
	if caller != nil {
		c.CallerAddress = caller.Address()
	}
	return c
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := uint64(0), !dest.IsUint64()
	if overflow {
		return false
	}
	udest = dest.Uint64()
	if udest >= uint64(len(c.Code)) {
		return false
	}
	return OpCode(c.Code[udest]) == JUMPDEST && c.isCode(udest)
}

// isCode reports whether position udest falls on an instruction boundary
// rather than inside a PUSH immediate, using the bitmap built by
// codeBitmap.
func (c *Contract) isCode(udest uint64) bool {
	analysis := c.jumpdestBitmap()
	return bitvecIsCode(analysis, udest)
}

func (c *Contract) jumpdestBitmap() bitvec {
	if c.CodeHash == (types.Hash{}) {
		// Unhashed code, e.g. a CREATE's initcode: nothing else will ever
		// share this analysis, so caching it would only waste cache space.
		return codeBitmap(c.Code)
	}
	if cached, ok := jumpdestCache.Get(c.CodeHash); ok {
		return cached
	}
	analysis := codeBitmap(c.Code)
	jumpdestCache.Add(c.CodeHash, analysis)
	return analysis
}

// AsDelegate configures the contract to run with the parent frame's value
// and caller address, the shape DELEGATECALL needs. The parent frame is
// always a *Contract in practice since only a running frame can issue
// DELEGATECALL; a zero value is used for any caller that isn't, rather
// than panicking.
func (c *Contract) AsDelegate() *Contract {
	c.CallerAddress = c.caller.Address()
	if parent, ok := c.caller.(*Contract); ok {
		c.value = parent.value
	} else {
		c.value = new(uint256.Int)
	}
	return c
}

func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

func (c *Contract) Caller() types.Address { return c.CallerAddress }

func (c *Contract) Address() types.Address { return c.self.Address() }

func (c *Contract) Value() *uint256.Int { return c.value }

func (c *Contract) SetCallCode(addr *types.Address, hash types.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	c.CodeAddr = addr
	c.IsEOF = IsEOF(code)
}

func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}
