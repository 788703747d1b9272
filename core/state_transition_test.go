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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/coreevm/engine/params"
)

func allForksRules() *params.Rules {
	return params.MainnetChainConfig().Rules(big.NewInt(1), 0)
}

func baseMessage() *Message {
	return &Message{
		From:      types.BytesToAddress([]byte{0xaa}),
		To:        nil,
		Nonce:     0,
		Value:     new(uint256.Int),
		GasLimit:  params.TxGas,
		GasPrice:  uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(1),
		GasTipCap: uint256.NewInt(1),
		TxType:    transaction.LegacyTxType,
	}
}

func TestValidateEnvironmentAcceptsLegacyRegardlessOfChainID(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	require.NoError(t, ValidateEnvironment(msg, rules, params.TxGas, nil))
}

func TestValidateEnvironmentRejectsChainIDMismatch(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.TxType = transaction.DynamicFeeTxType
	msg.ChainID = uint256.NewInt(999)
	err := ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrChainIDMismatch)
}

func TestValidateEnvironmentAcceptsMatchingChainID(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.TxType = transaction.DynamicFeeTxType
	msg.ChainID = uint256.NewInt(rules.ChainID.Uint64())
	require.NoError(t, ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(1)))
}

func TestValidateEnvironmentRejectsGasLimitAboveBlock(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.GasLimit = 100
	err := ValidateEnvironment(msg, rules, 50, nil)
	require.ErrorIs(t, err, vmerrors.ErrGasLimitReached)
}

func TestValidateEnvironmentRejectsTipAboveFeeCap(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.GasFeeCap = uint256.NewInt(10)
	msg.GasTipCap = uint256.NewInt(20)
	err := ValidateEnvironment(msg, rules, params.TxGas, nil)
	require.ErrorIs(t, err, vmerrors.ErrTipAboveFeeCap)
}

func TestValidateEnvironmentRejectsFeeCapBelowBaseFee(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.GasFeeCap = uint256.NewInt(5)
	msg.GasTipCap = uint256.NewInt(5)
	err := ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(10))
	require.ErrorIs(t, err, vmerrors.ErrFeeCapTooLow)
}

func TestValidateEnvironmentRejectsBlobTxWithNoBlobs(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.TxType = transaction.BlobTxType
	msg.ChainID = uint256.NewInt(rules.ChainID.Uint64())
	msg.BlobFeeCap = uint256.NewInt(1)
	err := ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(1))
	require.ErrorIs(t, err, vmerrors.ErrMissingBlobHashes)
}

func TestValidateEnvironmentRejectsBadBlobHashVersion(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.TxType = transaction.BlobTxType
	msg.ChainID = uint256.NewInt(rules.ChainID.Uint64())
	msg.BlobFeeCap = uint256.NewInt(1)
	msg.BlobHashes = []types.Hash{{0x00}}
	err := ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrBlobHashVersion)
}

func TestValidateEnvironmentRejectsEmptyAuthListForSetCodeTx(t *testing.T) {
	rules := allForksRules()
	msg := baseMessage()
	msg.To = &types.Address{0x01}
	msg.TxType = transaction.SetCodeTxType
	msg.ChainID = uint256.NewInt(rules.ChainID.Uint64())
	err := ValidateEnvironment(msg, rules, params.TxGas, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrEmptyAuthorizationList)
}

type fakeStateReader struct {
	nonce   uint64
	balance *uint256.Int
	code    []byte
}

func (f fakeStateReader) GetCode(types.Address) []byte        { return f.code }
func (f fakeStateReader) GetNonce(types.Address) uint64        { return f.nonce }
func (f fakeStateReader) GetBalance(types.Address) *uint256.Int { return f.balance }

func TestValidateAgainstStateNonceTooLow(t *testing.T) {
	msg := baseMessage()
	msg.Nonce = 0
	state := fakeStateReader{nonce: 5, balance: uint256.NewInt(1 << 30)}
	err := ValidateAgainstState(msg, state)
	require.ErrorIs(t, err, vmerrors.ErrNonceTooLow)
}

func TestValidateAgainstStateNonceTooHigh(t *testing.T) {
	msg := baseMessage()
	msg.Nonce = 5
	state := fakeStateReader{nonce: 0, balance: uint256.NewInt(1 << 30)}
	err := ValidateAgainstState(msg, state)
	require.ErrorIs(t, err, vmerrors.ErrNonceTooHigh)
}

func TestValidateAgainstStateInsufficientFunds(t *testing.T) {
	msg := baseMessage()
	msg.GasLimit = 100
	msg.GasPrice = uint256.NewInt(10)
	msg.GasFeeCap = uint256.NewInt(10)
	state := fakeStateReader{nonce: 0, balance: uint256.NewInt(1)}
	err := ValidateAgainstState(msg, state)
	require.ErrorIs(t, err, vmerrors.ErrInsufficientFunds)
}

func TestValidateAgainstStateSkipsChecksWhenFake(t *testing.T) {
	msg := baseMessage()
	msg.IsFake = true
	msg.Nonce = 999
	state := fakeStateReader{nonce: 0, balance: new(uint256.Int)}
	require.NoError(t, ValidateAgainstState(msg, state))
}

func TestValidateAgainstStateRejectsCodeBearingSender(t *testing.T) {
	msg := baseMessage()
	state := fakeStateReader{nonce: 0, balance: uint256.NewInt(1 << 30), code: []byte{0x60, 0x00}}
	err := ValidateAgainstState(msg, state)
	require.ErrorIs(t, err, vmerrors.ErrSenderNoEOA)
}

func TestValidateAgainstStateAllowsDelegatedEOA(t *testing.T) {
	msg := baseMessage()
	delegation := append([]byte{0xef, 0x01, 0x00}, make([]byte, 20)...)
	state := fakeStateReader{nonce: 0, balance: uint256.NewInt(1 << 30), code: delegation}
	require.NoError(t, ValidateAgainstState(msg, state))
}

func TestMaxTxCostIncludesBlobGas(t *testing.T) {
	msg := baseMessage()
	msg.GasLimit = 21000
	msg.GasFeeCap = uint256.NewInt(2)
	msg.BlobFeeCap = uint256.NewInt(3)
	msg.BlobHashes = []types.Hash{{0x01}}

	got := maxTxCost(msg)
	want := new(uint256.Int).Mul(uint256.NewInt(2), uint256.NewInt(21000))
	want.Add(want, new(uint256.Int).Mul(uint256.NewInt(3), uint256.NewInt(transaction.BlobTxBlobGasPerBlob)))
	require.Equal(t, want.Uint64(), got.Uint64())
}
