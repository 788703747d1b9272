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

// Package block holds the small set of consensus types the execution core
// emits but does not itself define the full layout of: logs today, with
// room for receipts/headers to live alongside them in an embedding node.
package block

import "github.com/coreevm/engine/common/types"

// Log represents an individual LOG* event emitted by a contract during a
// transaction.
type Log struct {
	// Consensus fields.
	Address types.Address
	Topics  []types.Hash
	Data    []byte

	// Derived fields. The LOG opcodes set BlockNumber from the block
	// context; nothing in this module fills in the others. The interpreter
	// never reads them.
	BlockNumber uint64
	TxHash      types.Hash
	TxIndex     uint
	BlockHash   types.Hash
	Index       uint

	// Removed is true if the log was reverted due to a chain reorganisation.
	Removed bool
}
