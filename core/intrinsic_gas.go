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
	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/params"
)

// intrinsicGas computes the gas owed before any EVM execution happens: the
// flat per-transaction base, calldata cost, EIP-2930 access list cost and
// EIP-7702 authorization cost. Shared by the *transaction.Transaction and
// *Message call sites so the two never drift apart.
func intrinsicGas(isContractCreation bool, data []byte, accessList transaction.AccessList, authCount int) uint64 {
	gas := params.TxGas
	if isContractCreation {
		gas = params.TxGasContractCreation
	}

	var zeroBytes, nonZeroBytes uint64
	for _, b := range data {
		if b == 0 {
			zeroBytes++
		} else {
			nonZeroBytes++
		}
	}
	gas += zeroBytes * params.TxDataZeroGas
	gas += nonZeroBytes * params.TxDataNonZeroGasEIP2028

	gas += uint64(len(accessList)) * params.TxAccessListAddressGas
	for _, tuple := range accessList {
		gas += uint64(len(tuple.StorageKeys)) * params.TxAccessListStorageKeyGas
	}

	gas += uint64(authCount) * params.PerAuthBaseCost
	return gas
}

// floorDataGas implements the EIP-7623 calldata floor: post-Prague, a
// transaction can never spend less than this on its calldata regardless of
// how the EVM execution it pays for actually uses gas.
func floorDataGas(isContractCreation bool, data []byte) uint64 {
	var tokens uint64
	for _, b := range data {
		if b == 0 {
			tokens++
		} else {
			tokens += 4
		}
	}
	base := params.TxGas
	if isContractCreation {
		base = params.TxGasContractCreation
	}
	return base + tokens*params.TotalCostFloorPerToken
}

// intrinsicGasFloor returns the effective minimum gas a transaction must
// supply: max(intrinsicGas, floorDataGas) once the EIP-7623 floor applies,
// intrinsicGas alone otherwise.
func intrinsicGasFloor(isContractCreation bool, data []byte, accessList transaction.AccessList, authCount int, floorActive bool) uint64 {
	gas := intrinsicGas(isContractCreation, data, accessList, authCount)
	if !floorActive {
		return gas
	}
	if floor := floorDataGas(isContractCreation, data); floor > gas {
		return floor
	}
	return gas
}

// IntrinsicGas computes the gas a transaction owes before any EVM execution
// happens: the flat per-transaction base, calldata cost, EIP-2930 access
// list cost and EIP-7702 authorization cost.
func IntrinsicGas(tx *transaction.Transaction) uint64 {
	return intrinsicGas(tx.IsContractCreation(), tx.Data(), tx.AccessList(), len(tx.AuthorizationList()))
}

// FloorDataGas implements the EIP-7623 calldata floor: post-Prague, a
// transaction can never spend less than this on its calldata regardless of
// how the EVM execution it pays for actually uses gas.
func FloorDataGas(tx *transaction.Transaction) uint64 {
	return floorDataGas(tx.IsContractCreation(), tx.Data())
}

// IntrinsicGasFloor returns the effective minimum gas a transaction must
// supply: max(IntrinsicGas, FloorDataGas) once the EIP-7623 floor applies,
// IntrinsicGas alone otherwise.
func IntrinsicGasFloor(tx *transaction.Transaction, floorActive bool) uint64 {
	return intrinsicGasFloor(tx.IsContractCreation(), tx.Data(), tx.AccessList(), len(tx.AuthorizationList()), floorActive)
}
