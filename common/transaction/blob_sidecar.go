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

package transaction

// EIP-4844 blob-carrying sidecar data. These travel alongside a BlobTx on
// the network but are never part of the signed transaction payload or
// included in blocks; only the versioned hashes in BlobTx.BlobHashes are.

const (
	// FieldElementsPerBlob is the number of BLS12-381 scalar field elements
	// packed into a single blob.
	FieldElementsPerBlob = 4096
	// BytesPerFieldElement is the serialized size of one field element.
	BytesPerFieldElement = 32
	// BlobSize is the total byte size of one blob.
	BlobSize = FieldElementsPerBlob * BytesPerFieldElement
)

// Blob holds the raw field elements of one blob, big-endian, zero-padded.
type Blob [BlobSize]byte

// Commitment is a compressed KZG commitment to a blob's polynomial, encoded
// as a 48-byte compressed BLS12-381 G1 point.
type Commitment [48]byte

// Proof is a compressed KZG opening proof, encoded like Commitment.
type Proof [48]byte

// BlobTxSidecar bundles the blobs, commitments and proofs a peer needs to
// validate a BlobTx without access to the canonical KZG trusted setup.
type BlobTxSidecar struct {
	Blobs       []Blob
	Commitments []Commitment
	Proofs      []Proof
}
