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

// Package state implements the journaled, checkpointable account and storage
// view the EVM reads and writes during block and transaction execution.
//
// Core interfaces:
//   - StateReader: read-only access to the account/storage/code backing a block
//   - StateWriter: persists the net effect of a block's execution
//   - WriterWithChangeSets: StateWriter plus change-set/history tracking
//
// IntraBlockState is the concrete, journaled implementation consumed by
// internal/vm via the common.StateDB interface; it buffers every mutation
// in memory against a StateReader and flushes the result through a
// StateWriter once a block finishes.
package state

import (
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/account"
	"github.com/coreevm/engine/common/types"
)

// StateReader provides read-only access to the state backing a block.
// Returning nil, nil means the queried data does not exist.
type StateReader interface {
	ReadAccountData(address types.Address) (*account.StateAccount, error)
	ReadAccountStorage(address types.Address, incarnation uint16, key *types.Hash) ([]byte, error)
	ReadAccountCode(address types.Address, incarnation uint16, codeHash types.Hash) ([]byte, error)
	ReadAccountCodeSize(address types.Address, incarnation uint16, codeHash types.Hash) (int, error)
	ReadAccountIncarnation(address types.Address) (uint16, error)
}

// StateWriter persists the net effect of a block's execution.
type StateWriter interface {
	UpdateAccountData(address types.Address, original, account *account.StateAccount) error
	UpdateAccountCode(address types.Address, incarnation uint16, codeHash types.Hash, code []byte) error
	DeleteAccount(address types.Address, original *account.StateAccount) error
	WriteAccountStorage(address types.Address, incarnation uint16, key *types.Hash, original, value *uint256.Int) error
	CreateContract(address types.Address) error
}

// WriterWithChangeSets extends StateWriter with change tracking for history
// and pruning.
type WriterWithChangeSets interface {
	StateWriter
	WriteChangeSets() error
	WriteHistory() error
}

// StateReaderWriter combines StateReader and StateWriter.
type StateReaderWriter interface {
	StateReader
	StateWriter
}

var _ StateWriter = (*NoopWriter)(nil)
