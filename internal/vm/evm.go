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
	"math/big"
	"sync/atomic"

	"github.com/coreevm/engine/common/crypto"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/internal/vm/evmtypes"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/coreevm/engine/params"
	"github.com/holiman/uint256"
)

// MaxCallDepth is the maximum nesting depth of CALL/CREATE frames,
// mirroring the yellow paper's 1024 limit.
const MaxCallDepth = 1024

// EVM is the execution engine tying together the interpreter, the
// journaled state and the host-call surface the interpreter's CALL/CREATE
// handlers invoke. One EVM instance is reused across every transaction in
// a block; Reset rebinds it to a fresh tx context and state accessor.
type EVM struct {
	blockCtx evmtypes.BlockContext
	txCtx    evmtypes.TxContext
	ibs      evmtypes.IntraBlockState

	chainConfig *params.ChainConfig
	chainRules  *params.Rules
	vmConfig    Config

	interpreter *EVMInterpreter
	precompiles PrecompileRegistry

	depth int

	callGasTemp uint64
	cancelled   int32

	readOnly   bool
	returnData []byte
}

// PrecompileRegistry is the minimal surface the EVM needs from a
// precompiled-contract registry; it is satisfied by mapRegistry in
// contracts.go.
type PrecompileRegistry interface {
	Lookup(addr types.Address) (PrecompiledContract, bool)
}

// PrecompiledContract is the interface every precompile implements.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// NewEVM constructs an EVM bound to the given contexts, chain configuration
// and state accessor.
func NewEVM(blockCtx evmtypes.BlockContext, txCtx evmtypes.TxContext, ibs evmtypes.IntraBlockState, chainConfig *params.ChainConfig, vmConfig Config) *EVM {
	prewarmJumpTablesOnce()
	evm := &EVM{
		blockCtx:    blockCtx,
		txCtx:       txCtx,
		ibs:         ibs,
		chainConfig: chainConfig,
		vmConfig:    vmConfig,
	}
	evm.chainRules = chainConfig.Rules(new(big.Int).SetUint64(blockCtx.BlockNumber), blockCtx.Time)
	evm.precompiles = newPrecompileRegistry(evm.chainRules)
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

func (evm *EVM) jumpTable() *JumpTable {
	table := GetCachedJumpTable(evm.chainRules)
	return &table
}

func (evm *EVM) ChainRules() *params.Rules               { return evm.chainRules }
func (evm *EVM) ChainConfig() *params.ChainConfig         { return evm.chainConfig }
func (evm *EVM) IntraBlockState() evmtypes.IntraBlockState { return evm.ibs }
func (evm *EVM) Context() evmtypes.BlockContext           { return evm.blockCtx }
func (evm *EVM) TxContext() evmtypes.TxContext            { return evm.txCtx }
func (evm *EVM) Config() Config                           { return evm.vmConfig }
func (evm *EVM) SetCallGasTemp(gas uint64)                { evm.callGasTemp = gas }
func (evm *EVM) CallGasTemp() uint64                      { return evm.callGasTemp }
func (evm *EVM) Depth() int                               { return evm.depth }

func (evm *EVM) Cancel()          { atomic.StoreInt32(&evm.cancelled, 1) }
func (evm *EVM) Cancelled() bool  { return atomic.LoadInt32(&evm.cancelled) != 0 }

// Reset rebinds the EVM to a new transaction context and state accessor,
// keeping the block context and chain rules fixed. Called once per
// transaction within a block.
func (evm *EVM) Reset(txCtx evmtypes.TxContext, ibs evmtypes.IntraBlockState) {
	evm.txCtx = txCtx
	evm.ibs = ibs
}

// ResetBetweenBlocks rebinds everything: block context, tx context, state
// accessor, VM config and chain rules. Called once per block.
func (evm *EVM) ResetBetweenBlocks(blockCtx evmtypes.BlockContext, txCtx evmtypes.TxContext, ibs evmtypes.IntraBlockState, vmConfig Config, chainRules *params.Rules) {
	evm.blockCtx = blockCtx
	evm.txCtx = txCtx
	evm.ibs = ibs
	evm.vmConfig = vmConfig
	evm.chainRules = chainRules
	evm.precompiles = newPrecompileRegistry(chainRules)
}

// ---------------------------------------------------------------------------
// Call family
// ---------------------------------------------------------------------------

// Call executes the code at addr, dispatching to a precompile when one is
// registered there, with full checkpoint/commit/revert semantics around
// value transfer and any state the callee touches.
func (evm *EVM) Call(caller ContractRef, addr types.Address, input []byte, gas uint64, value *uint256.Int, bailout bool) (ret []byte, leftOverGas uint64, err error) {
	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, gas, nil
	}
	if evm.depth > MaxCallDepth {
		return nil, gas, vmerrors.ErrDepth
	}
	if value.Sign() != 0 && !evm.Context().CanTransfer(evm.ibs, caller.Address(), value) {
		if !bailout {
			return nil, gas, vmerrors.ErrInsufficientBalance
		}
	}

	snapshot := evm.ibs.Snapshot()
	target := AccountRef(addr)

	if !evm.ibs.Exist(addr) {
		if value.Sign() == 0 && !evm.precompileAt(addr) {
			// EIP-161: calling a nonexistent, zero-value account is a no-op
			// that still must not create it.
			return nil, gas, nil
		}
		evm.ibs.CreateAccount(addr, false)
	}
	evm.Context().Transfer(evm.ibs, caller.Address(), addr, value, bailout)

	if p, ok := evm.precompiles.Lookup(addr); ok {
		ret, gas, err = runPrecompile(p, input, gas)
	} else {
		code := evm.ibs.GetCode(addr)
		if len(code) == 0 {
			return nil, gas, nil
		}
		codeHash := evm.ibs.GetCodeHash(addr)
		contract := NewContract(caller, target, value, gas)
		contract.SetCallCode(&addr, codeHash, code)
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.ibs.RevertToSnapshot(snapshot)
		if err != vmerrors.ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// CallCode runs addr's code with the caller's storage but addr's own
// value-transfer semantics: value moves from caller to caller.
func (evm *EVM) CallCode(caller ContractRef, addr types.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > MaxCallDepth {
		return nil, gas, vmerrors.ErrDepth
	}
	if value.Sign() != 0 && !evm.Context().CanTransfer(evm.ibs, caller.Address(), value) {
		return nil, gas, vmerrors.ErrInsufficientBalance
	}

	snapshot := evm.ibs.Snapshot()
	if p, ok := evm.precompiles.Lookup(addr); ok {
		ret, gas, err = runPrecompile(p, input, gas)
	} else {
		code := evm.ibs.GetCode(addr)
		codeHash := evm.ibs.GetCodeHash(addr)
		contract := NewContract(caller, caller, value, gas)
		contract.SetCallCode(&addr, codeHash, code)
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.ibs.RevertToSnapshot(snapshot)
		if err != vmerrors.ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// DelegateCall runs addr's code with the caller's storage, value and
// sender, the shape needed for upgradeable-proxy patterns and EIP-7702
// delegated accounts.
func (evm *EVM) DelegateCall(caller ContractRef, addr types.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > MaxCallDepth {
		return nil, gas, vmerrors.ErrDepth
	}

	snapshot := evm.ibs.Snapshot()
	if p, ok := evm.precompiles.Lookup(addr); ok {
		ret, gas, err = runPrecompile(p, input, gas)
	} else {
		code := evm.ibs.GetCode(addr)
		codeHash := evm.ibs.GetCodeHash(addr)
		contract := NewContract(caller, caller, nil, gas).AsDelegate()
		contract.SetCallCode(&addr, codeHash, code)
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.ibs.RevertToSnapshot(snapshot)
		if err != vmerrors.ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// StaticCall runs addr's code with state mutation disallowed for the
// duration of the call and every call it makes in turn.
func (evm *EVM) StaticCall(caller ContractRef, addr types.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > MaxCallDepth {
		return nil, gas, vmerrors.ErrDepth
	}

	snapshot := evm.ibs.Snapshot()
	target := AccountRef(addr)
	if p, ok := evm.precompiles.Lookup(addr); ok {
		ret, gas, err = runPrecompile(p, input, gas)
	} else {
		code := evm.ibs.GetCode(addr)
		codeHash := evm.ibs.GetCodeHash(addr)
		contract := NewContract(caller, target, new(uint256.Int), gas)
		contract.SetCallCode(&addr, codeHash, code)
		ret, err = evm.interpreter.Run(contract, input, true)
		gas = contract.Gas
	}
	if err != nil {
		evm.ibs.RevertToSnapshot(snapshot)
		if err != vmerrors.ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

func (evm *EVM) precompileAt(addr types.Address) bool {
	_, ok := evm.precompiles.Lookup(addr)
	return ok
}

func runPrecompile(p PrecompiledContract, input []byte, suppliedGas uint64) ([]byte, uint64, error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, vmerrors.ErrOutOfGas
	}
	suppliedGas -= gasCost
	output, err := p.Run(input)
	return output, suppliedGas, err
}

// ---------------------------------------------------------------------------
// Create family
// ---------------------------------------------------------------------------

// Create deploys new contract code returned by running initcode, deriving
// the new address from the creator's address and nonce.
func (evm *EVM) Create(caller ContractRef, code []byte, gas uint64, endowment *uint256.Int) (ret []byte, contractAddr types.Address, leftOverGas uint64, err error) {
	nonce := evm.ibs.GetNonce(caller.Address())
	contractAddr = crypto.CreateAddress(caller.Address(), nonce)
	return evm.create(caller, code, gas, endowment, contractAddr, CREATE)
}

// Create2 deploys new contract code at a deterministic, salt-derived
// address so the deployer can predict it before deployment.
func (evm *EVM) Create2(caller ContractRef, code []byte, gas uint64, endowment *uint256.Int, salt *uint256.Int) (ret []byte, contractAddr types.Address, leftOverGas uint64, err error) {
	codeHash := crypto.Keccak256(code)
	contractAddr = crypto.CreateAddress2(caller.Address(), types.Uint256ToHash(salt), codeHash)
	return evm.create(caller, code, gas, endowment, contractAddr, CREATE2)
}

func (evm *EVM) create(caller ContractRef, initCode []byte, gas uint64, value *uint256.Int, addr types.Address, op OpCode) ([]byte, types.Address, uint64, error) {
	if evm.depth > MaxCallDepth {
		return nil, types.Address{}, gas, vmerrors.ErrDepth
	}
	if value.Sign() != 0 && !evm.Context().CanTransfer(evm.ibs, caller.Address(), value) {
		return nil, types.Address{}, gas, vmerrors.ErrInsufficientBalance
	}
	if uint64(len(initCode)) > maxInitCodeSize(evm.chainRules) {
		return nil, types.Address{}, 0, vmerrors.ErrMaxInitCodeSizeExceeded
	}

	nonce := evm.ibs.GetNonce(caller.Address())
	if nonce+1 < nonce {
		return nil, types.Address{}, gas, vmerrors.ErrNonceUintOverflow
	}
	evm.ibs.SetNonce(caller.Address(), nonce+1)

	if evm.ibs.GetNonce(addr) != 0 || (evm.ibs.GetCodeHash(addr) != (types.Hash{}) && len(evm.ibs.GetCode(addr)) != 0) {
		return nil, addr, 0, vmerrors.ErrContractAddressCollision
	}

	snapshot := evm.ibs.Snapshot()
	evm.ibs.CreateAccount(addr, true)
	evm.ibs.SetNonce(addr, 1)
	evm.Context().Transfer(evm.ibs, caller.Address(), addr, value, false)

	contract := NewContract(caller, AccountRef(addr), value, gas)
	contract.SetCallCode(&addr, crypto.Keccak256Hash(initCode), initCode)

	ret, err := evm.interpreter.Run(contract, nil, false)

	if err == nil && uint64(len(ret)) > maxCodeSize(evm.chainRules) {
		err = vmerrors.ErrMaxCodeSizeExceeded
	}
	if err == nil && len(ret) > 0 && ret[0] == 0xEF && !IsEOF(ret) {
		err = vmerrors.ErrInvalidCode
	}
	if err == nil && IsEOF(ret) {
		if verr := ValidateEOF(ret); verr != nil {
			err = vmerrors.ErrEOFInvalidCode
		}
	}
	if err == nil {
		createDataGas := uint64(len(ret)) * 200 // 200 gas per byte of deployed code
		if !contract.UseGas(createDataGas) {
			err = vmerrors.ErrCodeStoreOutOfGas
		} else {
			evm.ibs.SetCode(addr, ret)
		}
	}
	if err != nil {
		evm.ibs.RevertToSnapshot(snapshot)
		if err != vmerrors.ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, addr, contract.Gas, err
}

func maxCodeSize(rules *params.Rules) uint64 {
	if rules.IsOsaka {
		return params.MaxCodeSizeOsaka
	}
	return params.MaxCodeSize
}

func maxInitCodeSize(rules *params.Rules) uint64 {
	return maxCodeSize(rules) * 2
}
