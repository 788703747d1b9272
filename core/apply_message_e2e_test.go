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

	"github.com/coreevm/engine/common/account"
	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/internal/vm"
	"github.com/coreevm/engine/internal/vm/evmtypes"
	"github.com/coreevm/engine/modules/state"
	"github.com/coreevm/engine/params"
)

// sstoreClearReader seeds a single nonzero committed storage slot, so a
// transaction that SSTOREs it back to zero earns a clear refund.
type sstoreClearReader struct {
	addr types.Address
}

func (r *sstoreClearReader) ReadAccountData(types.Address) (*account.StateAccount, error) {
	return nil, nil
}

func (r *sstoreClearReader) ReadAccountStorage(addr types.Address, incarnation uint16, key *types.Hash) ([]byte, error) {
	if addr == r.addr && *key == (types.Hash{}) {
		return types.BytesToHash([]byte{0x2a}).Bytes(), nil
	}
	return nil, nil
}

func (r *sstoreClearReader) ReadAccountCode(types.Address, uint16, types.Hash) ([]byte, error) {
	return nil, nil
}

func (r *sstoreClearReader) ReadAccountCodeSize(types.Address, uint16, types.Hash) (int, error) {
	return 0, nil
}

func (r *sstoreClearReader) ReadAccountIncarnation(types.Address) (uint16, error) { return 0, nil }

func blockContextForTest() (types.Address, func(uint64) types.Hash) {
	coinbase := types.BytesToAddress([]byte{0xc0})
	return coinbase, func(uint64) types.Hash { return types.Hash{} }
}

// runSstoreClearTx runs a legacy tx against a contract that clears its only
// storage slot (PUSH1 0, PUSH1 0, SSTORE, STOP) under the given chain
// config, returning the ExecutionResult so callers can inspect the gas
// accounting end to end.
func runSstoreClearTx(t *testing.T, chainConfig *params.ChainConfig) *ExecutionResult {
	t.Helper()

	sender := types.BytesToAddress([]byte{0x01})
	contractAddr := types.BytesToAddress([]byte{0xa2})

	reader := &sstoreClearReader{addr: contractAddr}
	ibs := state.New(reader)
	ibs.SetCode(contractAddr, []byte{
		byte(vm.PUSH1), 0x00,
		byte(vm.PUSH1), 0x00,
		byte(vm.SSTORE),
		byte(vm.STOP),
	})
	ibs.AddBalance(sender, uint256.NewInt(10_000_000))

	coinbase, getHash := blockContextForTest()
	blockCtx := NewEVMBlockContext(coinbase, 1, 0, 30_000_000, big.NewInt(0), uint256.NewInt(0), nil, getHash)
	txCtx := evmtypes.TxContext{Origin: sender, GasPrice: uint256.NewInt(1)}

	evm := vm.NewEVM(blockCtx, txCtx, ibs, chainConfig, vm.Config{})
	rules := chainConfig.Rules(big.NewInt(1), 0)

	msg := &Message{
		From:      sender,
		To:        &contractAddr,
		Nonce:     0,
		Value:     new(uint256.Int),
		GasLimit:  100_000,
		GasPrice:  uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(1),
		GasTipCap: uint256.NewInt(1),
		TxType:    transaction.LegacyTxType,
	}

	result, err := ApplyMessage(evm, msg, rules)
	require.NoError(t, err)
	require.NoError(t, result.Err)
	return result
}

// Regression test for the refund-quotient fork-selection bug: pre-London
// the maximum refund is gasUsed/2, from London onward it's gasUsed/5
// (EIP-3529). The clear earns a flat 15000 refund pre-London and 4800
// from London onward (sstoreClearRefund), so picking the wrong quotient
// for either fork produces a visibly different RefundedGas here.
func TestApplyMessageRefundQuotientPicksForkCorrectly(t *testing.T) {
	berlinOnly := &params.ChainConfig{
		ChainID:             big.NewInt(1),
		HomesteadBlock:      big.NewInt(0),
		EIP150Block:         big.NewInt(0),
		EIP155Block:         big.NewInt(0),
		EIP158Block:         big.NewInt(0),
		ByzantiumBlock:      big.NewInt(0),
		ConstantinopleBlock: big.NewInt(0),
		PetersburgBlock:     big.NewInt(0),
		IstanbulBlock:       big.NewInt(0),
		BerlinBlock:         big.NewInt(0),
		// London left nil: Berlin is active, London is not.
	}
	preLondon := runSstoreClearTx(t, berlinOnly)
	gasUsed := preLondon.UsedGas + preLondon.RefundedGas // gas used before the refund was credited
	wantCappedRefund := gasUsed / params.MaxRefundQuotientPreLondon
	require.Less(t, wantCappedRefund, uint64(15000), "test is only meaningful if the cap actually binds")
	require.Equal(t, wantCappedRefund, preLondon.RefundedGas)

	postLondon := runSstoreClearTx(t, params.MainnetChainConfig())
	require.Equal(t, uint64(4800), postLondon.RefundedGas, "post-London clear refund is uncapped at gasUsed/5 here")
}

// Regression test for the memory-gas-ordering bug: the dynamic gas for an
// expanding MSTORE must be charged (and fail with ErrOutOfGas if it can't
// be) before Memory.Resize runs, never after. This contract expands memory
// far past its initial zero length; supplying only enough gas for the
// instructions before the MSTORE must fail cleanly rather than resizing
// memory first and only failing retroactively.
func TestApplyMessageMemoryExpansionChargesGasBeforeResize(t *testing.T) {
	sender := types.BytesToAddress([]byte{0x01})

	code := []byte{
		byte(vm.PUSH1), 0x2a, // value
		byte(vm.PUSH2), 0x10, 0x00, // offset 0x1000, far past initial memory
		byte(vm.MSTORE),
		byte(vm.STOP),
	}

	ibs := state.New(nil)
	ibs.AddBalance(sender, uint256.NewInt(10_000_000))

	coinbase, getHash := blockContextForTest()
	blockCtx := NewEVMBlockContext(coinbase, 1, 0, 30_000_000, big.NewInt(0), uint256.NewInt(0), nil, getHash)
	txCtx := evmtypes.TxContext{Origin: sender, GasPrice: uint256.NewInt(1)}
	chainConfig := params.MainnetChainConfig()
	evm := vm.NewEVM(blockCtx, txCtx, ibs, chainConfig, vm.Config{})
	rules := chainConfig.Rules(big.NewInt(1), 0)

	msg := &Message{
		From:      sender,
		To:        nil,
		Nonce:     0,
		Value:     new(uint256.Int),
		GasLimit:  intrinsicGasFloor(true, code, nil, 0, rules.IsPectra) + 9, // intrinsic cost (initcode calldata included), then two PUSHes (3+3) plus 3 of MSTORE's constant gas, none of its memory-expansion cost
		GasPrice:  uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(1),
		GasTipCap: uint256.NewInt(1),
		Data:      code,
		TxType:    transaction.LegacyTxType,
	}

	result, err := ApplyMessage(evm, msg, rules)
	require.NoError(t, err)
	require.Error(t, result.Err)
	require.True(t, result.Failed())
	require.Equal(t, msg.GasLimit, result.UsedGas, "out-of-gas on the final op consumes everything remaining")
}
