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
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
)

// Message is a transaction flattened into the fields the state transition
// actually needs, decoupled from the wire encoding of any particular
// transaction type.
type Message struct {
	From       types.Address
	To         *types.Address // nil for contract creation
	Nonce      uint64
	Value      *uint256.Int
	GasLimit   uint64
	GasPrice   *uint256.Int // effective gas price already resolved against base fee
	GasFeeCap  *uint256.Int
	GasTipCap  *uint256.Int
	Data       []byte
	AccessList transaction.AccessList
	BlobHashes []types.Hash
	BlobFeeCap *uint256.Int
	AuthList   transaction.AuthorizationList
	TxType     byte
	ChainID    *uint256.Int // zero for legacy transactions that predate EIP-155

	// IsFake skips balance and nonce checks, for eth_call/eth_estimateGas
	// style dry runs that don't represent a real signed transaction.
	IsFake bool
}

// TransactionToMessage flattens tx into a Message, resolving its effective
// gas price against baseFee. tx.From must already be populated by the
// caller's signature recovery.
func TransactionToMessage(tx *transaction.Transaction, baseFee *uint256.Int) (*Message, error) {
	msg := &Message{
		From:       tx.From,
		To:         tx.To(),
		Nonce:      tx.Nonce(),
		Value:      tx.Value(),
		GasLimit:   tx.Gas(),
		GasFeeCap:  tx.GasFeeCap(),
		GasTipCap:  tx.GasTipCap(),
		Data:       tx.Data(),
		AccessList: tx.AccessList(),
		BlobHashes: tx.BlobHashes(),
		BlobFeeCap: tx.BlobGasFeeCap(),
		AuthList:   tx.AuthorizationList(),
		TxType:     tx.Type(),
		ChainID:    tx.ChainID(),
	}
	if msg.Value == nil {
		msg.Value = new(uint256.Int)
	}

	var err error
	msg.GasPrice, err = effectiveGasPrice(tx, baseFee)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func effectiveGasPrice(tx *transaction.Transaction, baseFee *uint256.Int) (*uint256.Int, error) {
	if baseFee == nil {
		return new(uint256.Int).Set(tx.GasFeeCapOrPrice()), nil
	}
	tip, err := tx.EffectiveGasTip(baseFee)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Add(baseFee, tip), nil
}
