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

package params

// Intrinsic gas costs.
const (
	TxGas                     uint64 = 21000
	TxGasContractCreation     uint64 = 53000
	TxDataZeroGas             uint64 = 4
	TxDataNonZeroGasFrontier  uint64 = 68
	TxDataNonZeroGasEIP2028   uint64 = 16
	TxAccessListAddressGas    uint64 = 2400
	TxAccessListStorageKeyGas uint64 = 1900

	// EIP-7702 authorization processing costs.
	PerEmptyAccountCost uint64 = 25000
	PerAuthBaseCost     uint64 = 12500

	// EIP-7623 calldata floor-price accounting (Prague).
	TotalCostFloorPerToken uint64 = 10
)

// EIP-7825 caps the gas any single transaction may specify, independent of
// the block gas limit, starting at Osaka.
const TxGasCapOsaka uint64 = 30_000_000

// Call depth and stack limits.
const (
	CallCreateDepth uint64 = 1024
	StackLimit      int    = 1024
)

// Contract code size limits.
const (
	MaxCodeSize            = 24576            // EIP-170
	MaxInitCodeSize         = 2 * MaxCodeSize // EIP-3860
	MaxCodeSizeOsaka        = 2 * MaxCodeSize  // EIP-7907 per-account ceiling
)

// SSTORE gas costs (EIP-2200 / EIP-3529).
const (
	SstoreSetGasEIP2200        uint64 = 20000
	SstoreResetGasEIP2200      uint64 = 5000
	SstoreClearsScheduleEIP3529 uint64 = 4800
	SloadGasEIP2929            uint64 = 100
	SstoreSentryGasEIP2200     uint64 = 2300

	ColdSloadCostEIP2929    uint64 = 2100
	ColdAccountAccessCostEIP2929 uint64 = 2600
	WarmStorageReadCostEIP2929   uint64 = 100
)

// Refund caps. EIP-3529 (London) tightened the cap from gas_used/2 to
// gas_used/5.
const (
	MaxRefundQuotient          uint64 = 5
	MaxRefundQuotientPreLondon uint64 = 2
)

// Memory expansion.
const (
	MemoryGas        uint64 = 3
	QuadCoeffDiv     uint64 = 512
)

// EIP-4844 blob parameters mirrored here for convenience; the canonical
// definitions live with the blob transaction type.
const (
	BlobTxBlobGasPerBlob = 1 << 17
	GasPerBlob           = BlobTxBlobGasPerBlob
)

// Bn256PairingBaseGasIstanbul is the base gas of the BN254 pairing-check
// precompile (EIP-1108, Istanbul).
const Bn256PairingBaseGasIstanbul uint64 = 45000

// BlobTxPointEvaluationPrecompileGas is the fixed cost of the KZG point
// evaluation precompile introduced by EIP-4844.
const BlobTxPointEvaluationPrecompileGas uint64 = 50000
