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

package core

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/internal/vm/evmtypes"
)

// CanTransfer reports whether db's account addr holds at least amount,
// the guard evmtypes.BlockContext.CanTransfer runs before any value
// transfer (a plain call, or a CREATE's endowment).
func CanTransfer(db evmtypes.IntraBlockState, addr types.Address, amount *uint256.Int) bool {
	return !db.GetBalance(addr).Lt(amount)
}

// Transfer moves amount from sender to recipient. bailout is accepted to
// satisfy evmtypes.TransferFunc's signature; CanTransfer already rejected
// insufficient balance, so it has nothing left to special-case here.
func Transfer(db evmtypes.IntraBlockState, sender, recipient types.Address, amount *uint256.Int, bailout bool) {
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}

// NewEVMBlockContext builds the block-level half of an EVM's execution
// context from primitive block fields, wiring in CanTransfer/Transfer so
// callers don't have to rediscover the right guard/mutator pair themselves.
func NewEVMBlockContext(coinbase types.Address, blockNumber, time, gasLimit uint64, difficulty *big.Int, baseFee, blobBaseFee *uint256.Int, getHash evmtypes.GetHashFunc) evmtypes.BlockContext {
	return evmtypes.BlockContext{
		CanTransfer: CanTransfer,
		Transfer:    Transfer,
		GetHash:     getHash,
		Coinbase:    coinbase,
		GasLimit:    gasLimit,
		BlockNumber: blockNumber,
		Time:        time,
		Difficulty:  difficulty,
		BaseFee:     baseFee,
		BlobBaseFee: blobBaseFee,
	}
}
