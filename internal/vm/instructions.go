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
	"errors"

	"github.com/coreevm/engine/common/block"
	"github.com/coreevm/engine/common/crypto"
	"github.com/coreevm/engine/common/types"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/holiman/uint256"
)

func newLog(addr types.Address, topics []types.Hash, data []byte, blockNumber uint64) *block.Log {
	return &block.Log{
		Address:     addr,
		Topics:      topics,
		Data:        data,
		BlockNumber: blockNumber,
	}
}

// errStopToken is returned by STOP, RETURN and REVERT to unwind the
// interpreter's Run loop without being mistaken for a real execution error.
var errStopToken = errors.New("stop token")

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func opAdd(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Add(x, y)
	return nil, nil
}

func opSub(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Sub(x, y)
	return nil, nil
}

func opMul(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Mul(x, y)
	return nil, nil
}

func opDiv(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Div(x, y)
	return nil, nil
}

func opSdiv(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.SDiv(x, y)
	return nil, nil
}

func opMod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Mod(x, y)
	return nil, nil
}

func opSmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.SMod(x, y)
	return nil, nil
}

func opAddmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Peek()
	z.AddMod(x, y, z)
	return nil, nil
}

func opMulmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Peek()
	z.MulMod(x, y, z)
	return nil, nil
}

func opExp(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	base, exponent := scope.Stack.Pop(), scope.Stack.Peek()
	exponent.Exp(base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	back, num := scope.Stack.Pop(), scope.Stack.Peek()
	num.ExtendSign(num, back)
	return nil, nil
}

// ---------------------------------------------------------------------------
// Comparison / bitwise
// ---------------------------------------------------------------------------

func opLt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.And(x, y)
	return nil, nil
}

func opOr(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Or(x, y)
	return nil, nil
}

func opXor(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Xor(x, y)
	return nil, nil
}

func opNot(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	th, val := scope.Stack.Pop(), scope.Stack.Peek()
	val.Byte(th)
	return nil, nil
}

func opShl(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opShr(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSar(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

func opKeccak256(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Peek()
	data := scope.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	size.SetBytes(crypto.Keccak256(data))
	return nil, nil
}

// ---------------------------------------------------------------------------
// Environmental
// ---------------------------------------------------------------------------

func opAddress(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetBytes(scope.Contract.Address().Bytes()))
	return nil, nil
}

func opBalance(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	balance := interp.evm.IntraBlockState().GetBalance(addr)
	slot.Set(balance)
	return nil, nil
}

func opOrigin(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetBytes(interp.evm.TxContext().Origin.Bytes()))
	return nil, nil
}

func opCaller(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetBytes(scope.Contract.Caller().Bytes()))
	return nil, nil
}

func opCallValue(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Contract.Value()
	scope.Stack.Push(new(uint256.Int).Set(v))
	return nil, nil
}

func opCallDataLoad(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(scope.Contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	data := getData(scope.Contract.Input, dataOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, codeOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	codeCopy := getData(scope.Contract.Code, codeOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), codeCopy)
	return nil, nil
}

func opGasprice(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).Set(interp.evm.TxContext().GasPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	slot.SetUint64(uint64(interp.evm.IntraBlockState().GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	a, memOffset, codeOffset, length := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	addr := types.BytesToAddress(a.Bytes())
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	code := interp.evm.IntraBlockState().GetCode(addr)
	codeCopy := getData(code, codeOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), codeCopy)
	return nil, nil
}

func opReturnDataSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(uint64(len(interp.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, vmerrors.ErrReturnDataOutOfBounds
	}
	end64, overflow := new(uint256.Int).Add(dataOffset, length).Uint64WithOverflow()
	if overflow || uint64(len(interp.returnData)) < end64 {
		return nil, vmerrors.ErrReturnDataOutOfBounds
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), interp.returnData[offset64:end64])
	return nil, nil
}

func opExtCodeHash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	if interp.evm.IntraBlockState().Empty(addr) {
		slot.Clear()
		return nil, nil
	}
	slot.SetBytes(interp.evm.IntraBlockState().GetCodeHash(addr).Bytes())
	return nil, nil
}

// ---------------------------------------------------------------------------
// Block
// ---------------------------------------------------------------------------

func opBlockhash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.Peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return nil, nil
	}
	upper := interp.evm.Context().BlockNumber
	var lower uint64
	if upper < 257 {
		lower = 0
	} else {
		lower = upper - 256
	}
	if num64 >= lower && num64 < upper {
		num.SetBytes(interp.evm.Context().GetHash(num64).Bytes())
	} else {
		num.Clear()
	}
	return nil, nil
}

func opCoinbase(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetBytes(interp.evm.Context().Coinbase.Bytes()))
	return nil, nil
}

func opTimestamp(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(interp.evm.Context().Time))
	return nil, nil
}

func opNumber(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(interp.evm.Context().BlockNumber))
	return nil, nil
}

func opDifficulty(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.evm.ChainRules().IsMerge {
		if prevRanDao := interp.evm.Context().PrevRanDao; prevRanDao != nil {
			scope.Stack.Push(new(uint256.Int).SetBytes(prevRanDao.Bytes()))
			return nil, nil
		}
	}
	v, _ := uint256.FromBig(interp.evm.Context().Difficulty)
	scope.Stack.Push(v)
	return nil, nil
}

func opGasLimit(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(interp.evm.Context().GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	chainID, _ := uint256.FromBig(interp.evm.ChainRules().ChainID)
	scope.Stack.Push(chainID)
	return nil, nil
}

func opSelfBalance(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	balance := interp.evm.IntraBlockState().GetBalance(scope.Contract.Address())
	scope.Stack.Push(new(uint256.Int).Set(balance))
	return nil, nil
}

func opBaseFee(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).Set(interp.evm.Context().BaseFee))
	return nil, nil
}

func opBlobHash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	idx := scope.Stack.Peek()
	hashes := interp.evm.TxContext().BlobHashes
	if idx.LtUint64(uint64(len(hashes))) {
		idx.SetBytes(hashes[idx.Uint64()].Bytes())
	} else {
		idx.Clear()
	}
	return nil, nil
}

func opBlobBaseFee(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).Set(interp.evm.Context().BlobBaseFee))
	return nil, nil
}

// ---------------------------------------------------------------------------
// Stack, memory, storage and flow
// ---------------------------------------------------------------------------

func opPop(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Stack.Peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}

func opMstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.Pop(), scope.Stack.Pop()
	scope.Memory.Set32(mStart.Uint64(), val)
	return nil, nil
}

func opMstore8(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.Pop(), scope.Stack.Pop()
	scope.Memory.Data()[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}

func opSload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.Peek()
	hash := types.Hash(loc.Bytes32())
	var val uint256.Int
	interp.evm.IntraBlockState().GetState(scope.Contract.Address(), &hash, &val)
	loc.Set(&val)
	return nil, nil
}

func opSstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.readOnly {
		return nil, vmerrors.ErrWriteProtection
	}
	loc, val := scope.Stack.Pop(), scope.Stack.Pop()
	hash := types.Hash(loc.Bytes32())
	interp.evm.IntraBlockState().SetState(scope.Contract.Address(), &hash, *val)
	return nil, nil
}

func opJump(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	dest := scope.Stack.Pop()
	if !scope.Contract.validJumpdest(dest) {
		return nil, vmerrors.ErrInvalidJump
	}
	*pc = dest.Uint64() - 1
	return nil, nil
}

func opJumpi(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	dest, cond := scope.Stack.Pop(), scope.Stack.Pop()
	if !cond.IsZero() {
		if !scope.Contract.validJumpdest(dest) {
			return nil, vmerrors.ErrInvalidJump
		}
		*pc = dest.Uint64() - 1
	}
	return nil, nil
}

func opJumpdest(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int).SetUint64(scope.Contract.Gas))
	return nil, nil
}

func opTload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.Peek()
	hash := types.Hash(loc.Bytes32())
	val := interp.evm.IntraBlockState().GetTransientState(scope.Contract.Address(), hash)
	loc.Set(&val)
	return nil, nil
}

func opTstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.readOnly {
		return nil, vmerrors.ErrWriteProtection
	}
	loc, val := scope.Stack.Pop(), scope.Stack.Pop()
	hash := types.Hash(loc.Bytes32())
	interp.evm.IntraBlockState().SetTransientState(scope.Contract.Address(), hash, *val)
	return nil, nil
}

func opMcopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	dst, src, size := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	scope.Memory.Copy(dst.Uint64(), src.Uint64(), size.Uint64())
	return nil, nil
}

func opPush0(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Push(new(uint256.Int))
	return nil, nil
}

func opStop(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, errStopToken
}

func opReturn(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, errStopToken
}

func opRevert(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	interp.returnData = ret
	return ret, vmerrors.ErrExecutionReverted
}

func opInvalid(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, vmerrors.ErrInvalidOpCode
}

func opUndefined(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, vmerrors.ErrInvalidOpCode
}

// ---------------------------------------------------------------------------
// PUSH / DUP / SWAP
// ---------------------------------------------------------------------------

func makePush(size int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		codeLen := len(scope.Contract.Code)
		start := int(*pc) + 1
		end := start + size
		var b [32]byte
		if start < codeLen {
			if end > codeLen {
				end = codeLen
			}
			copy(b[32-size:], scope.Contract.Code[start:end])
		}
		scope.Stack.Push(new(uint256.Int).SetBytes(b[:]))
		*pc += uint64(size)
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.Dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.Swap(n)
		return nil, nil
	}
}

// ---------------------------------------------------------------------------
// LOG
// ---------------------------------------------------------------------------

func makeLog(n int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		if interp.readOnly {
			return nil, vmerrors.ErrWriteProtection
		}
		stack := scope.Stack
		mStart, mSize := stack.Pop(), stack.Pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			addr := stack.Pop()
			topics[i] = types.Hash(addr.Bytes32())
		}
		data := scope.Memory.GetCopy(int64(mStart.Uint64()), int64(mSize.Uint64()))
		interp.evm.IntraBlockState().AddLog(newLog(scope.Contract.Address(), topics, data, interp.evm.Context().BlockNumber))
		return nil, nil
	}
}

// ---------------------------------------------------------------------------
// System
// ---------------------------------------------------------------------------

func opCreate(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.readOnly {
		return nil, vmerrors.ErrWriteProtection
	}
	if scope.Contract.IsEOF {
		return nil, vmerrors.ErrEOFCreateDisallowed
	}
	stack := scope.Stack
	value, offset, size := stack.Pop(), stack.Pop(), stack.Pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))

	gas := scope.Contract.Gas
	if interp.evm.ChainRules().IsTangerineWhistle {
		gas -= gas / 64
	}
	scope.Contract.UseGas(gas)

	res, addr, returnGas, suberr := interp.evm.Create(scope.Contract, input, gas, value)
	return afterCreate(interp, scope, res, addr, returnGas, suberr)
}

func opCreate2(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.readOnly {
		return nil, vmerrors.ErrWriteProtection
	}
	if scope.Contract.IsEOF {
		return nil, vmerrors.ErrEOFCreateDisallowed
	}
	stack := scope.Stack
	value, offset, size, salt := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))

	gas := scope.Contract.Gas
	gas -= gas / 64
	scope.Contract.UseGas(gas)

	res, addr, returnGas, suberr := interp.evm.Create2(scope.Contract, input, gas, value, salt)
	return afterCreate(interp, scope, res, addr, returnGas, suberr)
}

func afterCreate(interp *EVMInterpreter, scope *ScopeContext, res []byte, addr types.Address, returnGas uint64, suberr error) ([]byte, error) {
	if suberr == vmerrors.ErrExecutionReverted {
		interp.returnData = res
		scope.Stack.Push(new(uint256.Int))
	} else if suberr != nil {
		scope.Stack.Push(new(uint256.Int))
	} else {
		scope.Stack.Push(new(uint256.Int).SetBytes(addr.Bytes()))
	}
	scope.Contract.Gas += returnGas
	if suberr != vmerrors.ErrExecutionReverted {
		interp.returnData = nil
	}
	return nil, nil
}

// The four CALL-family handlers below all pull their forwarded gas from
// evm.CallGasTemp(), staged by the matching gasCall*/gasDelegateCall/
// gasStaticCall dynamic-gas function that ran immediately before execute()
// in the interpreter loop, while the stack arguments were still available
// to peek without popping.

func opCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.Pop() // gas; the forwarded amount was already staged by gasCall into CallGasTemp
	addrInt, valueInt, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.BytesToAddress(addrInt.Bytes())

	if interp.readOnly && !valueInt.IsZero() {
		return nil, vmerrors.ErrWriteProtection
	}
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := interp.evm.CallGasTemp()
	if !valueInt.IsZero() {
		gas += params_CallStipend
	}
	scope.Contract.UseGas(gas)

	ret, returnGas, err := interp.evm.Call(scope.Contract, toAddr, args, gas, valueInt, false)
	return afterCall(interp, scope, ret, returnGas, retOffset, retSize, err)
}

func opCallCode(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.Pop() // gas; the forwarded amount was already staged by gasCallCode into CallGasTemp
	addrInt, valueInt, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.BytesToAddress(addrInt.Bytes())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := interp.evm.CallGasTemp()
	if !valueInt.IsZero() {
		gas += params_CallStipend
	}
	scope.Contract.UseGas(gas)

	ret, returnGas, err := interp.evm.CallCode(scope.Contract, toAddr, args, gas, valueInt)
	return afterCall(interp, scope, ret, returnGas, retOffset, retSize, err)
}

func opDelegateCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.Pop() // gas; the forwarded amount was already staged by gasDelegateCall into CallGasTemp
	addrInt, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.BytesToAddress(addrInt.Bytes())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := interp.evm.CallGasTemp()
	scope.Contract.UseGas(gas)

	ret, returnGas, err := interp.evm.DelegateCall(scope.Contract, toAddr, args, gas)
	return afterCall(interp, scope, ret, returnGas, retOffset, retSize, err)
}

func opStaticCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.Pop() // gas; the forwarded amount was already staged by gasStaticCall into CallGasTemp
	addrInt, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.BytesToAddress(addrInt.Bytes())
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := interp.evm.CallGasTemp()
	scope.Contract.UseGas(gas)

	ret, returnGas, err := interp.evm.StaticCall(scope.Contract, toAddr, args, gas)
	return afterCall(interp, scope, ret, returnGas, retOffset, retSize, err)
}

func afterCall(interp *EVMInterpreter, scope *ScopeContext, ret []byte, returnGas uint64, retOffset, retSize *uint256.Int, err error) ([]byte, error) {
	if err != nil {
		scope.Stack.Push(new(uint256.Int))
	} else {
		scope.Stack.Push(new(uint256.Int).SetOne())
	}
	if (err == nil || err == vmerrors.ErrExecutionReverted) && retSize.Sign() > 0 {
		end, overflow := new(uint256.Int).Add(retOffset, retSize).Uint64WithOverflow()
		if !overflow {
			scope.Memory.Resize(end)
			scope.Memory.Set(retOffset.Uint64(), retSize.Uint64(), ret)
		}
	}
	interp.returnData = ret
	scope.Contract.Gas += returnGas
	return nil, nil
}

func opSelfdestruct(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interp.readOnly {
		return nil, vmerrors.ErrWriteProtection
	}
	beneficiary := scope.Stack.Pop()
	balance := interp.evm.IntraBlockState().GetBalance(scope.Contract.Address())
	beneficiaryAddr := types.BytesToAddress(beneficiary.Bytes())
	interp.evm.IntraBlockState().AddBalance(beneficiaryAddr, balance)
	if !interp.evm.ChainRules().IsLondon && !interp.evm.IntraBlockState().HasSelfdestructed(scope.Contract.Address()) {
		interp.evm.IntraBlockState().AddRefund(24000)
	}
	interp.evm.IntraBlockState().Selfdestruct(scope.Contract.Address())
	return nil, errStopToken
}

// params_CallStipend is the free gas stipend added to a value-carrying CALL
// so the recipient's fallback has enough to run basic logging, matching the
// yellow paper's G_callstipend.
const params_CallStipend = 2300
