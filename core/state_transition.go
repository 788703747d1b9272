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

// Package core implements the transaction handler: the pipeline that turns
// a signed transaction and a block context into state mutations, following
// the six stages of the yellow paper's state transition function — validate
// environment, validate against state, deduct prepayment, compute intrinsic
// gas, execute the initial frame, then settle refunds and fees.
package core

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/block"
	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/internal/vm"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/coreevm/engine/params"
)

// Errors returned by validation before any EVM execution happens. These are
// terminal: the transaction is rejected outright rather than included with
// a failure receipt. Most are the shared sentinels pkg/errors already
// centralizes for exactly this purpose; only the handful with no existing
// equivalent are declared fresh here.
var (
	ErrTxTypeNotSupported   = vmerrors.ErrTxTypeNotSupported
	ErrGasLimitExceedsBlock = vmerrors.ErrGasLimitReached
	ErrTipAboveFeeCap       = vmerrors.ErrTipAboveFeeCap
	ErrFeeCapTooLow         = vmerrors.ErrFeeCapTooLow
	ErrNoBlobs              = vmerrors.ErrMissingBlobHashes
	ErrGasLimitTooHighOsaka = vmerrors.ErrGasLimitTooHigh
	ErrSenderNotEOA         = vmerrors.ErrSenderNoEOA
	ErrNonceTooLow          = vmerrors.ErrNonceTooLow
	ErrNonceTooHigh         = vmerrors.ErrNonceTooHigh
	ErrNonceMax             = vmerrors.ErrNonceMax
	ErrInsufficientFunds    = vmerrors.ErrInsufficientFunds
	ErrIntrinsicGas         = vmerrors.ErrIntrinsicGas

	ErrChainIDMismatch        = errors.New("core: chain id mismatch")
	ErrTooManyBlobs           = errors.New("core: too many blobs")
	ErrBlobHashVersion        = errors.New("core: blob hash with invalid version")
	ErrEmptyAuthorizationList = errors.New("core: empty authorization list")
)

// ExecutionResult carries the outcome of running a transaction's initial
// frame to completion.
type ExecutionResult struct {
	UsedGas         uint64
	RefundedGas     uint64
	Err             error // non-nil on revert or halting error; ReturnData still valid for REVERT
	ReturnData      []byte
	ContractAddress *types.Address // set on a successful contract creation
	Logs            []*block.Log

	// TraceID correlates this execution with whatever external tracer or
	// inspector an embedder attached; it has no consensus meaning.
	TraceID uuid.UUID
}

// Failed reports whether execution halted with an error (including REVERT).
func (r *ExecutionResult) Failed() bool { return r.Err != nil }

// Reverted reports whether execution explicitly reverted, as opposed to
// halting on an out-of-gas or other VM error.
func (r *ExecutionResult) Reverted() bool { return errors.Is(r.Err, vmerrors.ErrExecutionReverted) }

// ValidateEnvironment performs stage 1 of the pipeline: checks that rise
// purely from the transaction's shape and the block it's destined for,
// without touching state.
func ValidateEnvironment(msg *Message, rules *params.Rules, blockGasLimit uint64, baseFee *uint256.Int) error {
	switch msg.TxType {
	case transaction.LegacyTxType:
	case transaction.AccessListTxType:
		if !rules.IsBerlin {
			return fmt.Errorf("%w: access-list tx before Berlin", ErrTxTypeNotSupported)
		}
	case transaction.DynamicFeeTxType:
		if !rules.IsLondon {
			return fmt.Errorf("%w: dynamic-fee tx before London", ErrTxTypeNotSupported)
		}
	case transaction.BlobTxType:
		if !rules.IsCancun {
			return fmt.Errorf("%w: blob tx before Cancun", ErrTxTypeNotSupported)
		}
	case transaction.SetCodeTxType:
		if !rules.IsPectra {
			return fmt.Errorf("%w: set-code tx before Prague", ErrTxTypeNotSupported)
		}
	default:
		return fmt.Errorf("%w: type %d", ErrTxTypeNotSupported, msg.TxType)
	}

	// Legacy transactions predate EIP-155 and carry no signed chain ID; every
	// later type signs over it and must match the chain the block belongs to.
	if msg.TxType != transaction.LegacyTxType && rules.ChainID != nil {
		if msg.ChainID == nil || msg.ChainID.Uint64() != rules.ChainID.Uint64() {
			return fmt.Errorf("%w: tx %v, chain %v", ErrChainIDMismatch, msg.ChainID, rules.ChainID)
		}
	}

	if msg.GasLimit > blockGasLimit {
		return fmt.Errorf("%w: tx %d, block %d", ErrGasLimitExceedsBlock, msg.GasLimit, blockGasLimit)
	}
	if rules.IsOsaka && msg.GasLimit > params.TxGasCapOsaka {
		return fmt.Errorf("%w: tx %d, cap %d", ErrGasLimitTooHighOsaka, msg.GasLimit, params.TxGasCapOsaka)
	}

	if msg.GasFeeCap != nil && msg.GasTipCap != nil && msg.GasTipCap.Gt(msg.GasFeeCap) {
		return fmt.Errorf("%w: tip %s, fee cap %s", ErrTipAboveFeeCap, msg.GasTipCap, msg.GasFeeCap)
	}
	if rules.IsLondon && baseFee != nil && msg.GasFeeCap != nil && msg.GasFeeCap.Lt(baseFee) {
		return fmt.Errorf("%w: fee cap %s, base fee %s", ErrFeeCapTooLow, msg.GasFeeCap, baseFee)
	}

	if msg.TxType == transaction.BlobTxType {
		if len(msg.BlobHashes) == 0 {
			return ErrNoBlobs
		}
		if len(msg.BlobHashes) > transaction.MaxBlobsPerTx {
			return fmt.Errorf("%w: %d > %d", ErrTooManyBlobs, len(msg.BlobHashes), transaction.MaxBlobsPerTx)
		}
		for _, h := range msg.BlobHashes {
			if h[0] != transaction.VersionedHashVersionKZG {
				return ErrBlobHashVersion
			}
		}
	}

	if msg.TxType == transaction.SetCodeTxType && len(msg.AuthList) == 0 {
		return ErrEmptyAuthorizationList
	}

	return nil
}

// ValidateAgainstState performs stage 2: checks requiring a state lookup.
// IsFake messages (eth_call/eth_estimateGas) skip nonce and balance checks.
func ValidateAgainstState(msg *Message, state vmStateReader) error {
	if msg.IsFake {
		return nil
	}

	if code := state.GetCode(msg.From); len(code) > 0 && !isDelegatedEOA(code) {
		return fmt.Errorf("%w: %s", ErrSenderNotEOA, msg.From)
	}

	stateNonce := state.GetNonce(msg.From)
	if stateNonce < msg.Nonce {
		return fmt.Errorf("%w: tx %d, state %d", ErrNonceTooHigh, msg.Nonce, stateNonce)
	}
	if stateNonce > msg.Nonce {
		return fmt.Errorf("%w: tx %d, state %d", ErrNonceTooLow, msg.Nonce, stateNonce)
	}
	if stateNonce+1 < stateNonce {
		return ErrNonceMax
	}

	required := maxTxCost(msg)
	balance := state.GetBalance(msg.From)
	if balance.Lt(required) {
		return fmt.Errorf("%w: have %s, want %s", ErrInsufficientFunds, balance, required)
	}
	return nil
}

// vmStateReader is the narrow slice of common.StateDB that validation needs;
// declared locally so this file doesn't have to import common just for the
// three methods it calls.
type vmStateReader interface {
	GetCode(addr types.Address) []byte
	GetNonce(addr types.Address) uint64
	GetBalance(addr types.Address) *uint256.Int
}

// delegationPrefix is the three-byte marker EIP-7702 writes at the start of
// a delegated EOA's code (0xef0100 || address).
var delegationPrefix = [3]byte{0xef, 0x01, 0x00}

func isDelegatedEOA(code []byte) bool {
	return len(code) == 23 && code[0] == delegationPrefix[0] && code[1] == delegationPrefix[1] && code[2] == delegationPrefix[2]
}

// maxTxCost computes the maximum amount a transaction could debit from its
// sender: gas_limit * fee_cap (or gas_price) + value + blob_gas * blob_fee_cap.
func maxTxCost(msg *Message) *uint256.Int {
	price := msg.GasFeeCap
	if price == nil {
		price = msg.GasPrice
	}
	cost := new(uint256.Int).Mul(price, new(uint256.Int).SetUint64(msg.GasLimit))
	if msg.Value != nil {
		cost.Add(cost, msg.Value)
	}
	if msg.BlobFeeCap != nil && len(msg.BlobHashes) > 0 {
		blobGas := uint64(len(msg.BlobHashes)) * transaction.BlobTxBlobGasPerBlob
		cost.Add(cost, new(uint256.Int).Mul(msg.BlobFeeCap, new(uint256.Int).SetUint64(blobGas)))
	}
	return cost
}

// ApplyMessage runs the full transaction handler pipeline for msg against
// evm, which must already be bound to the block context, the sender's
// recovered address having been filled into msg.From. rules is the fork
// snapshot active at this block.
func ApplyMessage(evm *vm.EVM, msg *Message, rules *params.Rules) (*ExecutionResult, error) {
	blockCtx := evm.Context()
	ibs := evm.IntraBlockState()

	if err := ValidateEnvironment(msg, rules, blockCtx.GasLimit, blockCtx.BaseFee); err != nil {
		return nil, err
	}
	if err := ValidateAgainstState(msg, ibs); err != nil {
		return nil, err
	}

	// --- Pre-execution ---
	prepay := new(uint256.Int).Mul(msg.GasPrice, new(uint256.Int).SetUint64(msg.GasLimit))
	if !msg.IsFake {
		ibs.SubBalance(msg.From, prepay)
	}
	// Blob gas is a separate fee market from execution gas and is burned
	// outright rather than credited to the coinbase.
	if !msg.IsFake && msg.TxType == transaction.BlobTxType && blockCtx.BlobBaseFee != nil {
		blobGasUsed := uint64(len(msg.BlobHashes)) * transaction.BlobTxBlobGasPerBlob
		blobFee := new(uint256.Int).Mul(blockCtx.BlobBaseFee, new(uint256.Int).SetUint64(blobGasUsed))
		ibs.SubBalance(msg.From, blobFee)
	}
	// Contract-creation nonce bump is left to evm.Create, which derives the
	// new contract's address from the sender's pre-bump nonce and then
	// bumps it itself, exactly like a nested CREATE. A plain call has no
	// such side effect, so it's bumped here instead.
	if !msg.IsFake && msg.To != nil {
		ibs.SetNonce(msg.From, msg.Nonce+1)
	}

	precompileAddrs := activePrecompiles(rules).ToSlice()
	if rules.IsShanghai {
		ibs.AddAddressToAccessList(blockCtx.Coinbase)
	}
	ibs.PrepareAccessList(msg.From, msg.To, precompileAddrs, msg.AccessList)

	if msg.TxType == transaction.SetCodeTxType {
		applyAuthorizations(ibs, msg, rules)
	}

	// --- Compute initial gas ---
	floorActive := rules.IsPectra
	intrinsic := intrinsicGasFloor(msg.To == nil, msg.Data, msg.AccessList, len(msg.AuthList), floorActive)
	if msg.GasLimit < intrinsic {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, msg.GasLimit, intrinsic)
	}
	gasRemaining := msg.GasLimit - intrinsic

	// --- Execute initial frame ---
	sender := vm.AccountRef(msg.From)
	var (
		ret             []byte
		leftOverGas     uint64
		vmErr           error
		contractAddress *types.Address
	)
	if msg.To == nil {
		var addr types.Address
		ret, addr, leftOverGas, vmErr = evm.Create(sender, msg.Data, gasRemaining, msg.Value)
		if vmErr == nil {
			contractAddress = &addr
		}
	} else {
		ret, leftOverGas, vmErr = evm.Call(sender, *msg.To, msg.Data, gasRemaining, msg.Value, false)
	}

	gasUsed := msg.GasLimit - leftOverGas

	// --- Post-execution ---
	refundQuotient := params.MaxRefundQuotientPreLondon
	if rules.IsLondon {
		refundQuotient = params.MaxRefundQuotient
	}
	refund := ibs.GetRefund()
	if maxRefund := gasUsed / refundQuotient; refund > maxRefund {
		refund = maxRefund
	}
	leftOverGas += refund
	gasUsed = msg.GasLimit - leftOverGas

	if !msg.IsFake {
		remaining := new(uint256.Int).Mul(msg.GasPrice, new(uint256.Int).SetUint64(leftOverGas))
		ibs.AddBalance(msg.From, remaining)

		tip := msg.GasPrice
		if blockCtx.BaseFee != nil && msg.GasPrice.Gt(blockCtx.BaseFee) {
			tip = new(uint256.Int).Sub(msg.GasPrice, blockCtx.BaseFee)
		} else if blockCtx.BaseFee != nil {
			tip = new(uint256.Int)
		}
		fee := new(uint256.Int).Mul(tip, new(uint256.Int).SetUint64(gasUsed))
		ibs.AddBalance(blockCtx.Coinbase, fee)
	}

	// Drop any account touched this transaction that ended up empty, per
	// EIP-161, and collect whatever logs the frame emitted.
	if pruner, ok := ibs.(interface{ DeleteEmptyTouchedAccounts() }); ok {
		pruner.DeleteEmptyTouchedAccounts()
	}
	var logs []*block.Log
	if logger, ok := ibs.(interface{ Logs() []*block.Log }); ok {
		logs = logger.Logs()
	}

	return &ExecutionResult{
		UsedGas:         gasUsed,
		RefundedGas:     refund,
		Err:             vmErr,
		ReturnData:      ret,
		ContractAddress: contractAddress,
		Logs:            logs,
		TraceID:         uuid.New(),
	}, nil
}

// applyAuthorizations processes an EIP-7702 authorization list: each valid
// authorization installs a delegation marker on the authority's account and
// refunds part of the empty-account cost if the authority had no prior
// state.
func applyAuthorizations(state authStateDB, msg *Message, rules *params.Rules) {
	for _, auth := range msg.AuthList {
		authority, err := auth.RecoverSigner()
		if err != nil {
			continue
		}
		if rules.ChainID != nil && auth.ChainID != 0 && auth.ChainID != rules.ChainID.Uint64() {
			continue
		}
		if state.GetNonce(authority) != auth.Nonce {
			continue
		}

		wasEmpty := state.Empty(authority)

		code := state.GetCode(authority)
		if len(code) > 0 && !isDelegatedEOA(code) {
			continue
		}

		delegation := append(append([]byte{}, delegationPrefix[:]...), auth.Address.Bytes()...)
		state.SetCode(authority, delegation)
		state.SetNonce(authority, auth.Nonce+1)

		if wasEmpty {
			refund := params.PerEmptyAccountCost - params.PerAuthBaseCost
			state.AddRefund(refund)
		}
	}
}

// authStateDB is the slice of common.StateDB applyAuthorizations needs.
type authStateDB interface {
	GetNonce(addr types.Address) uint64
	SetNonce(addr types.Address, nonce uint64)
	Empty(addr types.Address) bool
	GetCode(addr types.Address) []byte
	SetCode(addr types.Address, code []byte)
	AddRefund(gas uint64)
}

// activePrecompiles returns the set of precompile addresses active under
// rules, used to pre-warm them per EIP-2929.
func activePrecompiles(rules *params.Rules) mapset.Set[types.Address] {
	addrs := mapset.NewThreadUnsafeSet[types.Address]()
	for i := byte(1); i <= 9; i++ {
		addrs.Add(types.BytesToAddress([]byte{i}))
	}
	if rules.IsCancun {
		addrs.Add(types.BytesToAddress([]byte{0x0a}))
	}
	if rules.IsPectra {
		for i := byte(0x0b); i <= 0x11; i++ {
			addrs.Add(types.BytesToAddress([]byte{i}))
		}
		addrs.Add(types.BytesToAddress([]byte{0x01, 0x00}))
	}
	return addrs
}
