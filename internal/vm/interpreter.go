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
	"hash"

	vmerrors "github.com/coreevm/engine/pkg/errors"
)

// Config tunes optional interpreter behavior; its zero value runs a
// standards-compliant interpreter.
type Config struct {
	Debug        bool
	Tracer       EVMLogger
	NoRecursion  bool
	NoBaseFee    bool
	SkipAnalysis bool
	ExtraEips    []int
}

// HasEip3860 reports whether EIP-3860 initcode size limiting is active,
// either by explicit opt-in or because the active fork rules imply it.
func (cfg *Config) HasEip3860(rules *rulesView) bool {
	for _, eip := range cfg.ExtraEips {
		if eip == 3860 {
			return true
		}
	}
	return rules != nil && rules.IsShanghai
}

// EVMLogger is the minimal tracing hook surface the interpreter drives;
// a no-op implementation is used when Config.Tracer is nil.
type EVMLogger interface {
	CaptureState(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, rData []byte, depth int, err error)
	CaptureFault(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, depth int, err error)
}

// rulesView is the subset of params.Rules the interpreter config consults
// directly, kept narrow so Config doesn't need to import params.
type rulesView struct {
	IsShanghai bool
}

// ScopeContext bundles the per-frame mutable state an opcode handler needs:
// its operand stack, memory, and the contract it is executing.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	RStack   *ReturnStack
	Contract *Contract
}

// Interpreter runs a contract's code until it halts, reverts or runs out
// of gas.
type Interpreter interface {
	Run(contract *Contract, input []byte, readOnly bool) ([]byte, error)
}

// EVMInterpreter is the sole production Interpreter: a straight
// fetch-decode-execute loop over a JumpTable selected for the active fork.
type EVMInterpreter struct {
	evm *EVM
	cfg Config

	hasher    hash.Hash
	hasherBuf [32]byte

	readOnly   bool
	returnData []byte
}

var _ Interpreter = (*EVMInterpreter)(nil)

func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	return &EVMInterpreter{evm: evm, cfg: evm.Config()}
}

func (in *EVMInterpreter) getReadonly() bool { return in.readOnly }

// setReadonly enters read-only mode if not already in it, returning a
// cleanup closure that restores the previous state. Nested STATICCALLs
// therefore only pay the cost of the outermost transition.
func (in *EVMInterpreter) setReadonly(outer bool) func() {
	if outer && !in.readOnly {
		in.readOnly = true
		return func() { in.readOnly = false }
	}
	return in.noop
}

func (in *EVMInterpreter) disableReadonly() { in.readOnly = false }

func (in *EVMInterpreter) noop() {}

// Run executes contract's code starting at PC 0 until STOP/RETURN/REVERT,
// an error halts the frame, or the code runs off the end (implicit STOP).
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	in.evm.depth++
	defer func() { in.evm.depth-- }()
	framesExecuted.Inc()

	if readOnly && !in.readOnly {
		defer in.setReadonly(true)()
	}

	in.returnData = nil
	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op          OpCode
		mem         = NewMemory()
		stk         = newStack()
		rstk        = newReturnStack()
		scope       = &ScopeContext{Memory: mem, Stack: stk, RStack: rstk, Contract: contract}
		pc          = uint64(0)
		cost        uint64
		jt          = in.evm.jumpTable()
	)
	contract.Input = input

	defer func() {
		ReturnMemory(mem)
		returnStack(stk)
		releaseReturnStack(rstk)
	}()

	for {
		op = contract.GetOp(pc)
		operation := jt[op]
		if operation == nil {
			return nil, vmerrors.ErrInvalidOpCode
		}
		opcodesExecuted.Inc()
		if sLen := stk.Len(); sLen < operation.minStack {
			return nil, vmerrors.ErrStackUnderflow
		} else if sLen > operation.maxStack {
			return nil, vmerrors.ErrStackOverflow
		}

		cost = operation.constantGas
		if !contract.UseGas(cost) {
			return nil, vmerrors.ErrOutOfGas
		}
		gasConsumed.Add(float64(cost))

		var memorySize uint64
		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stk)
			if overflow {
				return nil, vmerrors.ErrGasUintOverflowVM
			}
			memorySize = toWordSize(memSize) * 32
		}
		if operation.dynamicGas != nil {
			var dynamicCost uint64
			dynamicCost, err = operation.dynamicGas(in.evm, contract, stk, mem, memorySize)
			if err != nil || !contract.UseGas(dynamicCost) {
				return nil, vmerrors.ErrOutOfGas
			}
			if memorySize > 0 {
				mem.Resize(memorySize)
			}
		}

		res, err := operation.execute(&pc, in, scope)
		if err != nil {
			if err == errStopToken {
				return res, nil
			}
			return res, err
		}
		pc++
	}
}
