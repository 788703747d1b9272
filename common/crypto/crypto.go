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

// Package crypto collects the small set of cryptographic primitives the
// execution core needs directly: keccak hashing, contract address
// derivation and secp256k1 signature recovery for CALLER resolution of
// EIP-7702 authorizations.
package crypto

import (
	"errors"
	"math/bits"

	"github.com/coreevm/engine/common/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidSignatureLen = errors.New("crypto: invalid signature length")
	ErrInvalidRecoveryID   = errors.New("crypto: invalid recovery id")
	ErrInvalidPubkey       = errors.New("crypto: invalid public key")
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash returns the Keccak-256 digest of data as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// Ecrecover recovers the uncompressed public key (65 bytes, 0x04 prefix)
// that produced sig over digest hash. sig is the 65-byte R||S||V signature
// with V in {0,1}.
func Ecrecover(hash []byte, sig []byte) ([]byte, error) {
	if len(sig) != 65 {
		return nil, ErrInvalidSignatureLen
	}
	if sig[64] >= 4 {
		return nil, ErrInvalidRecoveryID
	}
	// dcrd expects the compact signature format: [recovery(1) | R(32) | S(32)].
	var compact [65]byte
	compact[0] = sig[64] + 27
	copy(compact[1:33], sig[0:32])
	copy(compact[33:65], sig[32:64])

	pub, _, err := secp256k1.RecoverCompact(compact[:], hash)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// PubkeyToAddress derives the 20-byte account address from an uncompressed
// secp256k1 public key (65 bytes, 0x04 prefix), taking the low 20 bytes of
// keccak256 of the 64-byte X||Y encoding.
func PubkeyToAddress(pub []byte) (types.Address, error) {
	if len(pub) != 65 || pub[0] != 0x04 {
		return types.Address{}, ErrInvalidPubkey
	}
	digest := Keccak256(pub[1:])
	return types.BytesToAddress(digest[12:]), nil
}

// SigToAddress recovers the signing address directly from a digest and a
// 65-byte R||S||V signature.
func SigToAddress(hash, sig []byte) (types.Address, error) {
	pub, err := Ecrecover(hash, sig)
	if err != nil {
		return types.Address{}, err
	}
	return PubkeyToAddress(pub)
}

// CreateAddress derives the deterministic address of a contract created by
// sender at the given nonce: keccak256(rlp([sender, nonce]))[12:].
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	enc := rlpEncodeSenderNonce(sender, nonce)
	digest := Keccak256(enc)
	return types.BytesToAddress(digest[12:])
}

// CreateAddress2 derives the deterministic CREATE2 address:
// keccak256(0xff ++ sender ++ salt ++ keccak256(initcode))[12:].
func CreateAddress2(sender types.Address, salt types.Hash, initCodeHash []byte) types.Address {
	digest := Keccak256([]byte{0xff}, sender.Bytes(), salt.Bytes(), initCodeHash)
	return types.BytesToAddress(digest[12:])
}

// rlpEncodeSenderNonce hand-encodes the two-element RLP list [sender, nonce]
// used by CREATE address derivation. It is narrow enough (a fixed-length
// address and a uint64) that reaching for a general RLP codec would be
// pure overhead.
func rlpEncodeSenderNonce(sender types.Address, nonce uint64) []byte {
	addrEnc := RlpEncodeBytes(sender.Bytes())
	nonceEnc := RlpEncodeUint64(nonce)
	payload := append(append([]byte{}, addrEnc...), nonceEnc...)
	return append(RlpEncodeListHeader(len(payload)), payload...)
}

// RlpEncodeBytes encodes a byte string per the RLP rules. Exported so other
// packages needing a one-off RLP list (e.g. EIP-7702 authorization signing
// hashes) can reuse it without a dependency on a general codec.
func RlpEncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpEncodeHeader(0x80, len(b)), b...)
}

// RlpEncodeUint64 encodes n as a minimal big-endian RLP byte string.
func RlpEncodeUint64(n uint64) []byte {
	if n == 0 {
		return []byte{0x80}
	}
	if n < 0x80 {
		return []byte{byte(n)}
	}
	return RlpEncodeBytes(uint64ToMinimalBytes(n))
}

func rlpEncodeHeader(base byte, size int) []byte {
	if size < 56 {
		return []byte{base + byte(size)}
	}
	sizeBytes := uint64ToMinimalBytes(uint64(size))
	return append([]byte{base + 55 + byte(len(sizeBytes))}, sizeBytes...)
}

// RlpEncodeListHeader returns the RLP list header for a payload of the
// given length; callers append the already-encoded payload themselves.
func RlpEncodeListHeader(size int) []byte {
	return rlpEncodeHeader(0xc0, size)
}

func uint64ToMinimalBytes(n uint64) []byte {
	nbytes := (bits.Len64(n) + 7) / 8
	if nbytes == 0 {
		nbytes = 1
	}
	b := make([]byte, nbytes)
	for i := nbytes - 1; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
