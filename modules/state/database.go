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
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/account"
	"github.com/coreevm/engine/common/types"
)

const (
	// FirstContractIncarnation is the incarnation assigned the first time an
	// address is turned into a contract.
	FirstContractIncarnation = 1
	// NonContractIncarnation is the incarnation of an address that has never
	// held contract code.
	NonContractIncarnation = 0
)

// NoopWriter discards every write; useful for dry-run execution (gas
// estimation, eth_call) where the resulting state is never persisted.
type NoopWriter struct{}

var noopWriter = &NoopWriter{}

// NewNoopWriter returns the shared no-op StateWriter.
func NewNoopWriter() *NoopWriter { return noopWriter }

func (*NoopWriter) UpdateAccountData(_ types.Address, _, _ *account.StateAccount) error { return nil }

func (*NoopWriter) UpdateAccountCode(_ types.Address, _ uint16, _ types.Hash, _ []byte) error {
	return nil
}

func (*NoopWriter) DeleteAccount(_ types.Address, _ *account.StateAccount) error { return nil }

func (*NoopWriter) WriteAccountStorage(_ types.Address, _ uint16, _ *types.Hash, _, _ *uint256.Int) error {
	return nil
}

func (*NoopWriter) CreateContract(_ types.Address) error { return nil }
