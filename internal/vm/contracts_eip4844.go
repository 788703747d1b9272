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

	"github.com/coreevm/engine/common/crypto/kzg"
	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/params"
)

// EIP-4844 point evaluation precompile, address 0x0a. Lets a rollup contract
// check, without holding the full blob, that a claimed KZG commitment really
// opens to a claimed value at a claimed point.

const (
	pointEvaluationInputLength  = 192
	pointEvaluationOutputLength = 64
)

// blsModulus is the BLS12-381 scalar field order, returned verbatim to the
// caller as part of the precompile's output per EIP-4844.
var blsModulus = [32]byte{
	0x73, 0xed, 0xa7, 0x53, 0x29, 0x9d, 0x7d, 0x48,
	0x33, 0x39, 0xd8, 0x08, 0x09, 0xa1, 0xd8, 0x05,
	0x53, 0xbd, 0xa4, 0x02, 0xff, 0xfe, 0x5b, 0xfe,
	0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x01,
}

var (
	errBlobVerifyInputLength = errors.New("invalid input length for point evaluation")
	errBlobVerifyVersionHash = errors.New("invalid versioned hash version")
	errBlobVerifyMismatch    = errors.New("versioned hash mismatch")
	errBlobVerifyKZGProof    = errors.New("kzg proof verification failed")
)

type pointEvaluationPrecompile struct{}

func (c *pointEvaluationPrecompile) RequiredGas(input []byte) uint64 {
	return params.BlobTxPointEvaluationPrecompileGas
}

// Run validates input as versionedHash(32) || z(32) || y(32) || commitment(48) || proof(48)
// and returns FIELD_ELEMENTS_PER_BLOB(32) || BLS_MODULUS(32) on success.
func (c *pointEvaluationPrecompile) Run(input []byte) ([]byte, error) {
	if len(input) != pointEvaluationInputLength {
		return nil, errBlobVerifyInputLength
	}

	var (
		versionedHash types.Hash
		z             [32]byte
		y             [32]byte
		commitment    transaction.Commitment
		proof         transaction.Proof
	)
	copy(versionedHash[:], input[0:32])
	copy(z[:], input[32:64])
	copy(y[:], input[64:96])
	copy(commitment[:], input[96:144])
	copy(proof[:], input[144:192])

	if err := verifyVersionedHash(versionedHash, commitment); err != nil {
		return nil, err
	}
	if err := kzg.VerifyProof(commitment, z, y, proof); err != nil {
		return nil, errBlobVerifyKZGProof
	}

	output := make([]byte, pointEvaluationOutputLength)
	output[31] = byte(kzg.FieldElementsPerBlob & 0xff)
	output[30] = byte((kzg.FieldElementsPerBlob >> 8) & 0xff)
	copy(output[32:64], blsModulus[:])
	return output, nil
}

func verifyVersionedHash(versionedHash types.Hash, commitment transaction.Commitment) error {
	if versionedHash[0] != transaction.VersionedHashVersionKZG {
		return errBlobVerifyVersionHash
	}
	if versionedHash != kzg.CommitmentToVersionedHash(commitment) {
		return errBlobVerifyMismatch
	}
	return nil
}

// GetPointEvaluationPrecompile returns the KZG point evaluation precompile
// (address 0x0a).
func GetPointEvaluationPrecompile() PrecompiledContract { return &pointEvaluationPrecompile{} }

// ComputeBlobHash derives the versioned hash of a blob via its KZG commitment.
func ComputeBlobHash(blob *transaction.Blob) (types.Hash, error) {
	commitment, err := kzg.BlobToCommitment(blob)
	if err != nil {
		return types.Hash{}, err
	}
	return kzg.CommitmentToVersionedHash(commitment), nil
}

// VerifyBlobHashes checks that a transaction's versioned hashes match the
// blobs carried in its sidecar.
func VerifyBlobHashes(expectedHashes []types.Hash, sidecar *transaction.BlobTxSidecar) error {
	if sidecar == nil {
		return errors.New("blob sidecar is nil")
	}
	if len(expectedHashes) != len(sidecar.Blobs) {
		return errors.New("blob hash count mismatch")
	}
	for i := range sidecar.Blobs {
		hash, err := ComputeBlobHash(&sidecar.Blobs[i])
		if err != nil {
			return err
		}
		if hash != expectedHashes[i] {
			return errors.New("blob hash mismatch")
		}
	}
	return nil
}
