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

// Package account defines the on-disk shape of an account as seen by the
// journaled state: balance, nonce and a pointer to its code.
package account

import (
	"github.com/coreevm/engine/common/types"
	"github.com/holiman/uint256"
)

// EmptyCodeHash is keccak256 of the empty byte slice, the code hash carried
// by every externally owned account.
var EmptyCodeHash = types.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// StateAccount is the consensus representation of an account.
type StateAccount struct {
	Nonce       uint64
	Balance     *uint256.Int
	CodeHash    types.Hash
	Incarnation uint16
}

// NewEmptyAccount returns a freshly created account with zero balance/nonce
// and the empty code hash, matching the EIP-161 empty-account definition.
func NewEmptyAccount() *StateAccount {
	return &StateAccount{
		Balance:  new(uint256.Int),
		CodeHash: EmptyCodeHash,
	}
}

// Copy returns a deep copy of the account, safe to mutate independently of a.
func (a *StateAccount) Copy() *StateAccount {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Balance = new(uint256.Int).Set(a.Balance)
	return &cp
}

// IsEmpty implements the EIP-161 definition of an empty account: zero nonce,
// zero balance, and no code.
func (a *StateAccount) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == EmptyCodeHash
}
