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
	"math"

	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/coreevm/engine/params"
	"github.com/holiman/uint256"
)

var errGasUintOverflow = vmerrors.ErrGasUintOverflowVM

// Fixed per-instruction gas tiers, named the way the yellow paper does.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20
)

func safeAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	return product, product/a == b
}

// toWordSize rounds size up to the nearest multiple of 32, measured in
// words (size 0 returns 0 words).
func toWordSize(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

// ToWordSize is the exported form of toWordSize.
func ToWordSize(size uint64) uint64 { return toWordSize(size) }

// callGas computes the gas actually forwarded to a CALL-family instruction,
// applying the EIP-150 63/64 rule when isEip150 is set.
func callGas(isEip150 bool, availableGas, base uint64, callCost *uint256.Int) (uint64, error) {
	if isEip150 {
		availableGas -= base
		gas := availableGas - availableGas/64
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
	}
	if !callCost.IsUint64() {
		return 0, errGasUintOverflow
	}
	return callCost.Uint64(), nil
}

// calcMemSize64 computes the byte length off+l needs memory resized to,
// reporting overflow if l doesn't fit in a uint64. A zero length never
// requires any memory regardless of offset.
func calcMemSize64(off, l *uint256.Int) (uint64, bool) {
	if l.IsZero() {
		return 0, false
	}
	if !l.IsUint64() {
		return 0, true
	}
	return calcMemSize64WithUint(off, l.Uint64())
}

// calcMemSize64WithUint is calcMemSize64 with the length already reduced to
// a uint64, used when the length is already known not to need an overflow
// check of its own (e.g. a constant copy size).
func calcMemSize64WithUint(off *uint256.Int, length64 uint64) (uint64, bool) {
	if length64 == 0 {
		return 0, false
	}
	if !off.IsUint64() {
		return 0, true
	}
	offset64 := off.Uint64()
	val, overflow := safeAdd(offset64, length64)
	return val, overflow
}

// getData returns a size-byte slice of data starting at start, zero-padding
// past the end and guarding against a start index beyond len(data).
func getData(data []byte, start, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	result := make([]byte, size)
	copy(result, data[start:end])
	return result
}

// getDataBig is getData with a uint256 start offset; if start overflows a
// uint64 the result is an all-zero slice (the requested region is, for any
// realistic data length, entirely past the end).
func getDataBig(data []byte, start *uint256.Int, size uint64) []byte {
	if !start.IsUint64() {
		return make([]byte, size)
	}
	return getData(data, start.Uint64(), size)
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// memoryGasCost computes the total quadratic memory-expansion cost for a
// memory of newSize bytes.
func memoryGasCost(m *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > math.MaxUint64-31 {
		return 0, errGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(m.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - m.lastGasCost
		m.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}
