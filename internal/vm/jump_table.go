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

import "github.com/coreevm/engine/params"

type (
	executionFunc  func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error)
	gasFunc        func(*EVM, *Contract, *Stack, *Memory, uint64) (uint64, error)
	memorySizeFunc func(*Stack) (uint64, bool)
)

// operation describes one opcode's static shape: how much stack it
// consumes/produces, its base gas cost, and the functions used to compute
// dynamic gas, memory growth and the actual execution behavior.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc

	undefined bool
}

// JumpTable maps every possible opcode byte to its operation, nil entries
// being undefined opcodes.
type JumpTable [256]*operation

func (jt *JumpTable) validate() {
	for _, op := range jt {
		if op != nil && op.execute == nil {
			panic("jump table entry without an execute function")
		}
	}
}

// copyJumpTable deep-copies a JumpTable so a fork-specific table can be
// derived from a baseline without the two sharing operation pointers.
func copyJumpTable(original *JumpTable) *JumpTable {
	cpy := *original
	for i, op := range original {
		if op != nil {
			opCopy := *op
			cpy[i] = &opCopy
		}
	}
	return &cpy
}

var (
	frontierInstructionSet         = newFrontierInstructionSet()
	homesteadInstructionSet        = newHomesteadInstructionSet()
	tangerineWhistleInstructionSet = newTangerineWhistleInstructionSet()
	spuriousDragonInstructionSet   = newSpuriousDragonInstructionSet()
	byzantiumInstructionSet        = newByzantiumInstructionSet()
	constantinopleInstructionSet   = newConstantinopleInstructionSet()
	istanbulInstructionSet         = newIstanbulInstructionSet()
	berlinInstructionSet           = newBerlinInstructionSet()
	londonInstructionSet           = newLondonInstructionSet()
	shanghaiInstructionSet         = newShanghaiInstructionSet()
	cancunInstructionSet           = newCancunInstructionSet()
	pectraInstructionSet           = newPectraInstructionSet()
	osakaInstructionSet            = newOsakaInstructionSet()
)

// newOsakaInstructionSet adds no new opcodes over Pectra; EIP-7907's larger
// contract-size ceiling is enforced by maxCodeSize in evm.go and EIP-7825's
// per-transaction gas cap by the transaction handler, not the jump table.
func newOsakaInstructionSet() JumpTable {
	jt := newPectraInstructionSet()
	return jt
}

func newPectraInstructionSet() JumpTable {
	jt := newCancunInstructionSet()
	enable7702(&jt) // EIP-7702 set-code delegation does not add opcodes of its own
	return jt
}

func newCancunInstructionSet() JumpTable {
	jt := newShanghaiInstructionSet()
	enable1153(&jt) // transient storage
	enable5656(&jt) // MCOPY
	enable4844(&jt) // BLOBHASH
	enable7516(&jt) // BLOBBASEFEE
	return jt
}

func newShanghaiInstructionSet() JumpTable {
	jt := newLondonInstructionSet()
	enable3855(&jt) // PUSH0
	return jt
}

func newLondonInstructionSet() JumpTable {
	jt := newBerlinInstructionSet()
	enable3529(&jt) // SELFDESTRUCT/SSTORE refund changes
	enable3198(&jt) // BASEFEE
	return jt
}

func newBerlinInstructionSet() JumpTable {
	jt := newIstanbulInstructionSet()
	enable2929(&jt) // access-list gas repricing
	return jt
}

func newIstanbulInstructionSet() JumpTable {
	jt := newConstantinopleInstructionSet()
	enable1344(&jt) // CHAINID
	enable1884(&jt) // SELFBALANCE, repriced SLOAD/EXTCODEHASH/BALANCE
	enable2200(&jt) // rebalanced SSTORE gas
	return jt
}

func newConstantinopleInstructionSet() JumpTable {
	jt := newByzantiumInstructionSet()
	enable1014(&jt) // CREATE2
	enable1052(&jt) // EXTCODEHASH
	enable145(&jt)  // SHL, SHR, SAR
	return jt
}

func newByzantiumInstructionSet() JumpTable {
	jt := newSpuriousDragonInstructionSet()
	jt[STATICCALL] = &operation{execute: opStaticCall, constantGas: 0, dynamicGas: gasStaticCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryStaticCall}
	jt[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	jt[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryReturnDataCopy}
	jt[REVERT] = &operation{execute: opRevert, dynamicGas: gasRevert, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryRevert}
	return jt
}

func newSpuriousDragonInstructionSet() JumpTable {
	jt := newTangerineWhistleInstructionSet()
	jt[EXP].dynamicGas = gasExpEIP158
	return jt
}

func newTangerineWhistleInstructionSet() JumpTable {
	jt := newHomesteadInstructionSet()
	jt[BALANCE].constantGas = 400
	jt[EXTCODESIZE].constantGas = 700
	jt[EXTCODECOPY].constantGas = 700
	jt[SLOAD].constantGas = 200
	jt[CALL].constantGas = 700
	jt[CALLCODE].constantGas = 700
	jt[DELEGATECALL].constantGas = 700
	jt[SELFDESTRUCT].constantGas = 5000
	return jt
}

func newHomesteadInstructionSet() JumpTable {
	jt := newFrontierInstructionSet()
	jt[DELEGATECALL] = &operation{execute: opDelegateCall, dynamicGas: gasDelegateCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCall}
	return jt
}

func newFrontierInstructionSet() JumpTable {
	var jt JumpTable
	registerArithmeticOps(&jt)
	registerComparisonOps(&jt)
	registerBitwiseOps(&jt)
	registerKeccakOp(&jt)
	registerEnvironmentalOps(&jt)
	registerBlockOps(&jt)
	registerStackMemoryStorageFlowOps(&jt)
	registerPushDupSwapOps(&jt)
	registerLogOps(&jt)
	registerSystemOps(&jt)
	jt.validate()
	return jt
}

func minStack(pops, push int) int { return pops }
func maxStack(pops, push int) int { return int(params.StackLimit) + pops - push }
