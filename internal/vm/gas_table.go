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
	"github.com/coreevm/engine/common/types"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/holiman/uint256"
)

// ---------------------------------------------------------------------------
// Memory-size functions: given the operand stack (not yet popped), report
// the highest memory offset this instruction will touch.
// ---------------------------------------------------------------------------

func memoryKeccak256(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(1))
}

func memoryCallDataCopy(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(2))
}

func memoryCodeCopy(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(2))
}

func memoryExtCodeCopy(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(1), stk.Back(3))
}

func memoryReturnDataCopy(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(2))
}

func memoryMLoad(stk *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stk.Back(0), 32)
}

func memoryMStore(stk *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stk.Back(0), 32)
}

func memoryMStore8(stk *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stk.Back(0), 1)
}

func memoryCreate(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(1), stk.Back(2))
}

func memoryCall(stk *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stk.Back(3), stk.Back(4))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stk.Back(5), stk.Back(6))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryDelegateCall(stk *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stk.Back(2), stk.Back(3))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stk.Back(4), stk.Back(5))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryStaticCall(stk *Stack) (uint64, bool) { return memoryDelegateCall(stk) }

func memoryReturn(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(1))
}

func memoryRevert(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(1))
}

func memoryLog(stk *Stack) (uint64, bool) {
	return calcMemSize64(stk.Back(0), stk.Back(1))
}

// ---------------------------------------------------------------------------
// Dynamic gas functions
// ---------------------------------------------------------------------------

func gasExpFrontier(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	exponent := stk.Back(1)
	byteLen := (exponent.BitLen() + 7) / 8
	gas, overflow := safeMul(uint64(byteLen), 10)
	if overflow {
		return 0, errGasUintOverflow
	}
	return gas, nil
}

func gasExpEIP158(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	exponent := stk.Back(1)
	byteLen := (exponent.BitLen() + 7) / 8
	gas, overflow := safeMul(uint64(byteLen), 50)
	if overflow {
		return 0, errGasUintOverflow
	}
	return gas, nil
}

func gasKeccak256(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(1).Uint64()), 6)
	if overflow {
		return 0, errGasUintOverflow
	}
	total, overflow := safeAdd(gas, wordGas)
	if overflow {
		return 0, errGasUintOverflow
	}
	return total, nil
}

func gasCallDataCopy(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(2).Uint64()), GasFastestStep)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAddOrOverflow(gas, wordGas)
}

func gasCodeCopy(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return gasCallDataCopy(evm, contract, stk, mem, memSize)
}

func gasReturnDataCopy(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(2).Uint64()), GasFastestStep)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAddOrOverflow(gas, wordGas)
}

func gasExtCodeCopy(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(3).Uint64()), GasFastestStep)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAddOrOverflow(gas, wordGas)
}

func gasMLoad(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

func gasMStore(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

func gasMStore8(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

// gasSStoreFrontier implements the flat Frontier/Homestead SSTORE schedule:
// 20000 to set a zero slot non-zero, 5000 otherwise, with a 15000 refund on
// clearing a slot back to zero. Istanbul's EIP-2200 net-gas metering
// replaces this via enable2200.
func gasSStoreFrontier(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	loc := stk.Back(0)
	newVal := stk.Back(1)
	hash := types.Hash(loc.Bytes32())
	var current uint256.Int
	evm.IntraBlockState().GetState(contract.Address(), &hash, &current)

	if current.IsZero() && !newVal.IsZero() {
		return 20000, nil
	}
	if !current.IsZero() && newVal.IsZero() {
		evm.IntraBlockState().AddRefund(15000)
	}
	return 5000, nil
}

// gasSStoreEIP2200 implements the EIP-2200 net-gas-metered SSTORE schedule
// (sentry-gated, original-vs-current-vs-new comparison), active from
// Istanbul onward (with the EIP-3529 refund-schedule adjustment layered on
// top by enable3529 for London+).
func gasSStoreEIP2200(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	if contract.Gas <= 2300 {
		return 0, vmerrors.ErrOutOfGas2200
	}
	loc := stk.Back(0)
	newVal := stk.Back(1)
	addr := contract.Address()
	hash := types.Hash(loc.Bytes32())

	var current uint256.Int
	evm.IntraBlockState().GetState(addr, &hash, &current)
	var original uint256.Int
	evm.IntraBlockState().GetCommittedState(addr, &hash, &original)

	if current.Eq(newVal) {
		return 200, nil
	}
	if original.Eq(&current) {
		if original.IsZero() {
			return 20000, nil
		}
		if newVal.IsZero() {
			evm.IntraBlockState().AddRefund(sstoreClearRefund(evm))
		}
		return 5000, nil
	}
	if !original.IsZero() {
		if current.IsZero() {
			evm.IntraBlockState().SubRefund(sstoreClearRefund(evm))
		} else if newVal.IsZero() {
			evm.IntraBlockState().AddRefund(sstoreClearRefund(evm))
		}
	}
	if original.Eq(newVal) {
		if original.IsZero() {
			evm.IntraBlockState().AddRefund(19800)
		} else {
			evm.IntraBlockState().AddRefund(4900)
		}
	}
	return 200, nil
}

// sstoreClearRefund is 15000 pre-London, 4800 from London's EIP-3529 refund
// reduction onward.
func sstoreClearRefund(evm *EVM) uint64 {
	if evm.ChainRules().IsLondon {
		return 4800
	}
	return 15000
}

func gasCreate(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

// gasCall computes CALL's total dynamic cost (memory expansion + access-list
// warm/cold + value-transfer + new-account costs) and stages the actual
// forwarded gas (after EIP-150's 63/64 rule) in evm.callGasTemp for opCall
// to pick up, since the stack's "gas" argument is still available to peek
// here but will already be popped by the time execute() runs.
func gasCall(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas := stk.Back(0)
	addr := types.BytesToAddress(stk.Back(1).Bytes())
	value := stk.Back(2)

	var memGas uint64
	var err error
	if memGas, err = memoryGasCost(mem, memSize); err != nil {
		return 0, err
	}

	var transferGas uint64
	if !value.IsZero() {
		transferGas = 9000
	}

	var newAccountGas uint64
	if !evm.IntraBlockState().Exist(addr) && (!value.IsZero() || !evm.precompileAt(addr)) {
		newAccountGas = 25000
	}

	accessGas := accessCost(evm, addr)

	total, overflow := safeAdd(memGas, accessGas)
	if overflow {
		return 0, errGasUintOverflow
	}
	total, overflow = safeAdd(total, transferGas)
	if overflow {
		return 0, errGasUintOverflow
	}
	total, overflow = safeAdd(total, newAccountGas)
	if overflow {
		return 0, errGasUintOverflow
	}

	callGasTemp, err := callGas(evm.ChainRules().IsTangerineWhistle, contract.Gas, total, gas)
	if err != nil {
		return 0, err
	}
	evm.SetCallGasTemp(callGasTemp)
	return total, nil
}

func gasCallCode(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas := stk.Back(0)
	addr := types.BytesToAddress(stk.Back(1).Bytes())
	value := stk.Back(2)

	memGas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	var transferGas uint64
	if !value.IsZero() {
		transferGas = 9000
	}
	accessGas := accessCost(evm, addr)

	total, overflow := safeAdd(memGas, accessGas)
	if overflow {
		return 0, errGasUintOverflow
	}
	total, overflow = safeAdd(total, transferGas)
	if overflow {
		return 0, errGasUintOverflow
	}

	callGasTemp, err := callGas(evm.ChainRules().IsTangerineWhistle, contract.Gas, total, gas)
	if err != nil {
		return 0, err
	}
	evm.SetCallGasTemp(callGasTemp)
	return total, nil
}

func gasDelegateCall(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas := stk.Back(0)
	addr := types.BytesToAddress(stk.Back(1).Bytes())

	memGas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	accessGas := accessCost(evm, addr)
	total, overflow := safeAdd(memGas, accessGas)
	if overflow {
		return 0, errGasUintOverflow
	}

	callGasTemp, err := callGas(evm.ChainRules().IsTangerineWhistle, contract.Gas, total, gas)
	if err != nil {
		return 0, err
	}
	evm.SetCallGasTemp(callGasTemp)
	return total, nil
}

func gasStaticCall(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return gasDelegateCall(evm, contract, stk, mem, memSize)
}

// accessCost returns the EIP-2929 cold/warm account-access surcharge once
// Berlin is active, over and above the opcode's fixed constantGas; pre-Berlin
// it is zero since the fixed TangerineWhistle cost already covers it.
func accessCost(evm *EVM, addr types.Address) uint64 {
	if !evm.ChainRules().IsBerlin {
		return 0
	}
	if evm.IntraBlockState().AddressInAccessList(addr) {
		return 100
	}
	evm.IntraBlockState().AddAddressToAccessList(addr)
	return 2600
}

func gasReturn(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

func gasRevert(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return memoryGasCost(mem, memSize)
}

func makeGasLog(n int) gasFunc {
	return func(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
		memGas, err := memoryGasCost(mem, memSize)
		if err != nil {
			return 0, err
		}
		requestedSize := stk.Back(1)
		topicGas := uint64(n) * 375
		total, overflow := safeAdd(memGas, 375)
		if overflow {
			return 0, errGasUintOverflow
		}
		total, overflow = safeAdd(total, topicGas)
		if overflow {
			return 0, errGasUintOverflow
		}
		if !requestedSize.IsUint64() {
			return 0, errGasUintOverflow
		}
		byteGas, overflow := safeMul(requestedSize.Uint64(), 8)
		if overflow {
			return 0, errGasUintOverflow
		}
		return safeAddOrOverflow(total, byteGas)
	}
}

// gasSelfdestructFrontier charges nothing beyond the opcode's base cost;
// EIP-150 and EIP-161 repricing is layered on by the Tangerine Whistle table
// edits in jump_table.go.
func gasSelfdestructFrontier(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	return 0, nil
}

func safeAddOrOverflow(a, b uint64) (uint64, error) {
	sum, ok := safeAdd(a, b)
	if !ok {
		return 0, errGasUintOverflow
	}
	return sum, nil
}

// ---------------------------------------------------------------------------
// Fork-upgrade functions: each mutates a JumpTable in place to add or
// reprice the opcodes a given EIP introduces.
// ---------------------------------------------------------------------------

// enable1014 adds CREATE2 (Constantinople, EIP-1014).
func enable1014(jt *JumpTable) {
	jt[CREATE2] = &operation{execute: opCreate2, constantGas: 32000, dynamicGas: gasCreate2, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryCreate}
}

func gasCreate2(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(2).Uint64()), 6)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAddOrOverflow(gas, wordGas)
}

// enable1052 adds EXTCODEHASH (Constantinople, EIP-1052).
func enable1052(jt *JumpTable) {
	jt[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: 400, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
}

// enable145 adds SHL/SHR/SAR (Constantinople, EIP-145).
func enable145(jt *JumpTable) {
	jt[SHL] = &operation{execute: opShl, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	jt[SHR] = &operation{execute: opShr, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	jt[SAR] = &operation{execute: opSar, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
}

// enable1344 adds CHAINID (Istanbul, EIP-1344).
func enable1344(jt *JumpTable) {
	jt[CHAINID] = &operation{execute: opChainID, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
}

// enable1884 adds SELFBALANCE and repricees SLOAD/BALANCE/EXTCODEHASH
// (Istanbul, EIP-1884).
func enable1884(jt *JumpTable) {
	jt[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: GasFastStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	jt[SLOAD].constantGas = 800
	jt[BALANCE].constantGas = 700
	jt[EXTCODEHASH].constantGas = 700
}

// enable2200 switches SSTORE to EIP-2200 net-gas metering (Istanbul).
func enable2200(jt *JumpTable) {
	jt[SSTORE].dynamicGas = gasSStoreEIP2200
}

// enable2929 applies EIP-2929's cold/warm access-list repricing (Berlin):
// BALANCE/EXTCODESIZE/EXTCODECOPY/EXTCODEHASH/SLOAD/SSTORE/CALL-family all
// become variably priced based on whether the target was already touched
// this transaction: their constantGas drops to 0 and dynamicGas charges the
// warm or cold access cost.
func enable2929(jt *JumpTable) {
	jt[SLOAD].constantGas = 0
	jt[SLOAD].dynamicGas = gasSLoadEIP2929
	jt[SSTORE].constantGas = 0
	jt[SSTORE].dynamicGas = gasSStoreEIP2929
	jt[BALANCE].constantGas = 0
	jt[BALANCE].dynamicGas = makeGasAccess(opBalance, 100)
	jt[EXTCODESIZE].constantGas = 0
	jt[EXTCODESIZE].dynamicGas = makeGasAccess(nil, 100)
	jt[EXTCODEHASH].constantGas = 0
	jt[EXTCODEHASH].dynamicGas = makeGasAccess(nil, 100)
	jt[EXTCODECOPY].constantGas = 0
	jt[EXTCODECOPY].dynamicGas = gasExtCodeCopyEIP2929
	jt[CALL].constantGas = 0
	jt[CALL].dynamicGas = gasCall
	jt[CALLCODE].constantGas = 0
	jt[CALLCODE].dynamicGas = gasCallCode
	jt[DELEGATECALL].constantGas = 0
	jt[DELEGATECALL].dynamicGas = gasDelegateCall
	jt[STATICCALL].constantGas = 0
	jt[STATICCALL].dynamicGas = gasStaticCall
	jt[SELFDESTRUCT].dynamicGas = gasSelfdestructEIP2929
}

// makeGasAccess charges the cold-access surcharge for a single-address
// opcode (EXTCODESIZE/EXTCODEHASH/BALANCE) by peeking the address argument
// off the top of the stack.
func makeGasAccess(_ executionFunc, warmCost uint64) gasFunc {
	return func(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
		addr := types.BytesToAddress(stk.Back(0).Bytes())
		if evm.IntraBlockState().AddressInAccessList(addr) {
			return warmCost, nil
		}
		evm.IntraBlockState().AddAddressToAccessList(addr)
		return 2600, nil
	}
}

func gasSLoadEIP2929(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	loc := stk.Back(0)
	hash := types.Hash(loc.Bytes32())
	addr := contract.Address()
	if _, slotOk := evm.IntraBlockState().SlotInAccessList(addr, hash); slotOk {
		return 100, nil
	}
	evm.IntraBlockState().AddSlotToAccessList(addr, hash)
	return 2100, nil
}

func gasSStoreEIP2929(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	loc := stk.Back(0)
	hash := types.Hash(loc.Bytes32())
	addr := contract.Address()

	var coldSurcharge uint64
	if _, slotOk := evm.IntraBlockState().SlotInAccessList(addr, hash); !slotOk {
		evm.IntraBlockState().AddSlotToAccessList(addr, hash)
		coldSurcharge = 2100
	}
	base, err := gasSStoreEIP2200(evm, contract, stk, mem, memSize)
	if err != nil {
		return 0, err
	}
	return safeAddOrOverflow(base, coldSurcharge)
}

func gasExtCodeCopyEIP2929(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	base, err := gasExtCodeCopy(evm, contract, stk, mem, memSize)
	if err != nil {
		return 0, err
	}
	addr := types.BytesToAddress(stk.Back(0).Bytes())
	var accessFee uint64
	if evm.IntraBlockState().AddressInAccessList(addr) {
		accessFee = 100
	} else {
		evm.IntraBlockState().AddAddressToAccessList(addr)
		accessFee = 2600
	}
	return safeAddOrOverflow(base, accessFee)
}

func gasSelfdestructEIP2929(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	beneficiary := types.BytesToAddress(stk.Back(0).Bytes())
	var gas uint64
	if !evm.IntraBlockState().AddressInAccessList(beneficiary) {
		evm.IntraBlockState().AddAddressToAccessList(beneficiary)
		gas = 2600
	}
	if !evm.IntraBlockState().Exist(beneficiary) && !evm.IntraBlockState().GetBalance(contract.Address()).IsZero() {
		gas += 25000
	}
	return gas, nil
}

// enable3198 adds BASEFEE (London, EIP-3198).
func enable3198(jt *JumpTable) {
	jt[BASEFEE] = &operation{execute: opBaseFee, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
}

// enable3529 folds in EIP-3529's refund-cap and SELFDESTRUCT-no-longer-
// refunding changes (London). The refund schedule shrink itself lives in
// sstoreClearRefund/gasSStoreEIP2200; SELFDESTRUCT's 24000 refund is
// granted by opSelfdestruct only before London.
func enable3529(jt *JumpTable) {
	// no opcode-table shape change; refund accounting already checks
	// ChainRules().IsLondon where it matters (sstoreClearRefund,
	// opSelfdestruct).
}

// enable3855 adds PUSH0 (Shanghai, EIP-3855).
func enable3855(jt *JumpTable) {
	jt[PUSH0] = &operation{execute: opPush0, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
}

// enable1153 adds TLOAD/TSTORE transient storage (Cancun, EIP-1153).
func enable1153(jt *JumpTable) {
	jt[TLOAD] = &operation{execute: opTload, constantGas: 100, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	jt[TSTORE] = &operation{execute: opTstore, constantGas: 100, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
}

// enable5656 adds MCOPY (Cancun, EIP-5656).
func enable5656(jt *JumpTable) {
	jt[MCOPY] = &operation{execute: opMcopy, constantGas: GasFastestStep, dynamicGas: gasMcopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryMcopy}
}

func memoryMcopy(stk *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stk.Back(0), stk.Back(2))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stk.Back(1), stk.Back(2))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func gasMcopy(evm *EVM, contract *Contract, stk *Stack, mem *Memory, memSize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memSize)
	if err != nil {
		return 0, err
	}
	wordGas, overflow := safeMul(toWordSize(stk.Back(2).Uint64()), 3)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAddOrOverflow(gas, wordGas)
}

// enable4844 adds BLOBHASH (Cancun, EIP-4844).
func enable4844(jt *JumpTable) {
	jt[BLOBHASH] = &operation{execute: opBlobHash, constantGas: GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
}

// enable7516 adds BLOBBASEFEE (Cancun, EIP-7516).
func enable7516(jt *JumpTable) {
	jt[BLOBBASEFEE] = &operation{execute: opBlobBaseFee, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
}

// enable7702 registers EIP-7702 set-code delegation; it adds no new opcode,
// only a new transaction type and an account-resolution step the state
// transition and EVM.Call's code lookup apply before running a frame.
func enable7702(jt *JumpTable) {}
