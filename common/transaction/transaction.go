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

// Package transaction defines the tagged union of transaction shapes the
// handler accepts: Legacy, EIP-2930 access-list, EIP-1559 dynamic-fee,
// EIP-4844 blob and EIP-7702 set-code transactions.
package transaction

import (
	"errors"

	"github.com/coreevm/engine/common/crypto"
	"github.com/coreevm/engine/common/types"
	"github.com/holiman/uint256"
)

// Transaction type identifiers, matching their EIP numbering.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01 // EIP-2930
	DynamicFeeTxType = 0x02 // EIP-1559
	BlobTxType       = 0x03 // EIP-4844
	SetCodeTxType    = 0x04 // EIP-7702
)

var (
	ErrUnsupportedTxType = errors.New("transaction: unsupported type")
	ErrNoRecipient       = errors.New("transaction: missing recipient")
)

// TxData is the interface implemented by all concrete transaction payloads.
// A Transaction is a thin, type-erased wrapper around one of these.
type TxData interface {
	txType() byte
	chainID() *uint256.Int
	accessList() AccessList
	gas() uint64
	gasPrice() *uint256.Int
	gasTipCap() *uint256.Int
	gasFeeCap() *uint256.Int
	value() *uint256.Int
	nonce() uint64
	to() *types.Address
	data() []byte
	blobGasFeeCap() *uint256.Int
	blobHashes() []types.Hash
	authList() AuthorizationList
}

// Transaction wraps one TxData variant, exposing accessor methods that are
// meaningful for every type. Most fields absent from a given type return the
// zero value; GasPrice() on a dynamic-fee tx returns its GasFeeCap.
type Transaction struct {
	inner TxData
	hash  types.Hash

	// From is the externally recovered sender. The handler fills this in
	// during signature verification; the interpreter never computes it.
	From types.Address
}

func NewTx(inner TxData) *Transaction { return &Transaction{inner: inner} }

func (tx *Transaction) Type() byte                  { return tx.inner.txType() }
func (tx *Transaction) ChainID() *uint256.Int        { return tx.inner.chainID() }
func (tx *Transaction) AccessList() AccessList       { return tx.inner.accessList() }
func (tx *Transaction) Gas() uint64                  { return tx.inner.gas() }
func (tx *Transaction) GasPrice() *uint256.Int       { return tx.inner.gasPrice() }
func (tx *Transaction) GasTipCap() *uint256.Int      { return tx.inner.gasTipCap() }
func (tx *Transaction) GasFeeCap() *uint256.Int      { return tx.inner.gasFeeCap() }
func (tx *Transaction) Value() *uint256.Int          { return tx.inner.value() }
func (tx *Transaction) Nonce() uint64                { return tx.inner.nonce() }
func (tx *Transaction) To() *types.Address           { return tx.inner.to() }
func (tx *Transaction) Data() []byte                 { return tx.inner.data() }
func (tx *Transaction) BlobGasFeeCap() *uint256.Int  { return tx.inner.blobGasFeeCap() }
func (tx *Transaction) BlobHashes() []types.Hash     { return tx.inner.blobHashes() }
func (tx *Transaction) AuthorizationList() AuthorizationList {
	return tx.inner.authList()
}

// Hash returns the transaction's cached signing hash; SetHash is called once
// by the decoder/signer, RLP hashing itself lives outside the execution core.
func (tx *Transaction) Hash() types.Hash    { return tx.hash }
func (tx *Transaction) SetHash(h types.Hash) { tx.hash = h }

// IsContractCreation reports whether the transaction has no recipient.
func (tx *Transaction) IsContractCreation() bool { return tx.inner.to() == nil }

// EffectiveGasTip returns min(gasTipCap, gasFeeCap-baseFee) for EIP-1559
// style transactions, or gasPrice-baseFee for legacy/access-list ones.
func (tx *Transaction) EffectiveGasTip(baseFee *uint256.Int) (*uint256.Int, error) {
	if baseFee == nil {
		return new(uint256.Int).Set(tx.GasFeeCapOrPrice()), nil
	}
	feeCap := tx.GasFeeCapOrPrice()
	if feeCap.Lt(baseFee) {
		return nil, errors.New("transaction: fee cap below base fee")
	}
	tip := tx.GasTipCapOrPrice()
	possibleTip := new(uint256.Int).Sub(feeCap, baseFee)
	if possibleTip.Lt(tip) {
		return possibleTip, nil
	}
	return new(uint256.Int).Set(tip), nil
}

// GasFeeCapOrPrice returns GasFeeCap for dynamic-fee-style txs and GasPrice
// for legacy/access-list txs.
func (tx *Transaction) GasFeeCapOrPrice() *uint256.Int {
	if tx.Type() == LegacyTxType || tx.Type() == AccessListTxType {
		return tx.GasPrice()
	}
	return tx.GasFeeCap()
}

// GasTipCapOrPrice returns GasTipCap for dynamic-fee-style txs and GasPrice
// for legacy/access-list txs.
func (tx *Transaction) GasTipCapOrPrice() *uint256.Int {
	if tx.Type() == LegacyTxType || tx.Type() == AccessListTxType {
		return tx.GasPrice()
	}
	return tx.GasTipCap()
}

// ---------------------------------------------------------------------------
// LegacyTx
// ---------------------------------------------------------------------------

type LegacyTx struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *types.Address
	Value    *uint256.Int
	Data     []byte
	V, R, S  *uint256.Int
}

func (tx *LegacyTx) txType() byte                  { return LegacyTxType }
func (tx *LegacyTx) chainID() *uint256.Int          { return new(uint256.Int) }
func (tx *LegacyTx) accessList() AccessList         { return nil }
func (tx *LegacyTx) gas() uint64                    { return tx.Gas }
func (tx *LegacyTx) gasPrice() *uint256.Int         { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *uint256.Int        { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *uint256.Int        { return tx.GasPrice }
func (tx *LegacyTx) value() *uint256.Int            { return tx.Value }
func (tx *LegacyTx) nonce() uint64                  { return tx.Nonce }
func (tx *LegacyTx) to() *types.Address             { return tx.To }
func (tx *LegacyTx) data() []byte                   { return tx.Data }
func (tx *LegacyTx) blobGasFeeCap() *uint256.Int    { return nil }
func (tx *LegacyTx) blobHashes() []types.Hash       { return nil }
func (tx *LegacyTx) authList() AuthorizationList    { return nil }

// ---------------------------------------------------------------------------
// AccessListTx (EIP-2930)
// ---------------------------------------------------------------------------

type AccessListTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *uint256.Int
}

func (tx *AccessListTx) txType() byte               { return AccessListTxType }
func (tx *AccessListTx) chainID() *uint256.Int       { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList      { return tx.AccessList }
func (tx *AccessListTx) gas() uint64                 { return tx.Gas }
func (tx *AccessListTx) gasPrice() *uint256.Int      { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *uint256.Int     { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *uint256.Int     { return tx.GasPrice }
func (tx *AccessListTx) value() *uint256.Int         { return tx.Value }
func (tx *AccessListTx) nonce() uint64               { return tx.Nonce }
func (tx *AccessListTx) to() *types.Address          { return tx.To }
func (tx *AccessListTx) data() []byte                { return tx.Data }
func (tx *AccessListTx) blobGasFeeCap() *uint256.Int { return nil }
func (tx *AccessListTx) blobHashes() []types.Hash    { return nil }
func (tx *AccessListTx) authList() AuthorizationList { return nil }

// ---------------------------------------------------------------------------
// DynamicFeeTx (EIP-1559)
// ---------------------------------------------------------------------------

type DynamicFeeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *uint256.Int
}

func (tx *DynamicFeeTx) txType() byte               { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *uint256.Int       { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList      { return tx.AccessList }
func (tx *DynamicFeeTx) gas() uint64                 { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *uint256.Int      { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *uint256.Int     { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *uint256.Int     { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *uint256.Int         { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64               { return tx.Nonce }
func (tx *DynamicFeeTx) to() *types.Address          { return tx.To }
func (tx *DynamicFeeTx) data() []byte                { return tx.Data }
func (tx *DynamicFeeTx) blobGasFeeCap() *uint256.Int { return nil }
func (tx *DynamicFeeTx) blobHashes() []types.Hash    { return nil }
func (tx *DynamicFeeTx) authList() AuthorizationList { return nil }

// ---------------------------------------------------------------------------
// BlobTx (EIP-4844)
// ---------------------------------------------------------------------------

const (
	// BlobTxBlobGasPerBlob is the gas consumed per blob.
	BlobTxBlobGasPerBlob = 1 << 17 // 131072
	// BlobTxMinBlobGasprice is the minimum blob base fee.
	BlobTxMinBlobGasprice = 1
	// BlobTxBlobGaspriceUpdateFraction controls how fast blob base fee adjusts.
	BlobTxBlobGaspriceUpdateFraction = 3338477
	// BlobTxTargetBlobGasPerBlock is the target blob gas per block (post-Cancun).
	BlobTxTargetBlobGasPerBlock = 3 * BlobTxBlobGasPerBlob
	// MaxBlobGasPerBlock is the hard cap on blob gas per block.
	MaxBlobGasPerBlock = 6 * BlobTxBlobGasPerBlob
	// MaxBlobsPerTx is the maximum number of versioned hashes a blob tx may carry.
	MaxBlobsPerTx = MaxBlobGasPerBlock / BlobTxBlobGasPerBlob
	// VersionedHashVersionKZG is the required version byte of a blob versioned hash.
	VersionedHashVersionKZG = 0x01
)

type BlobTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	BlobFeeCap *uint256.Int
	BlobHashes []types.Hash
	V, R, S    *uint256.Int
}

func (tx *BlobTx) txType() byte               { return BlobTxType }
func (tx *BlobTx) chainID() *uint256.Int       { return tx.ChainID }
func (tx *BlobTx) accessList() AccessList      { return tx.AccessList }
func (tx *BlobTx) gas() uint64                 { return tx.Gas }
func (tx *BlobTx) gasPrice() *uint256.Int      { return tx.GasFeeCap }
func (tx *BlobTx) gasTipCap() *uint256.Int     { return tx.GasTipCap }
func (tx *BlobTx) gasFeeCap() *uint256.Int     { return tx.GasFeeCap }
func (tx *BlobTx) value() *uint256.Int         { return tx.Value }
func (tx *BlobTx) nonce() uint64               { return tx.Nonce }
func (tx *BlobTx) to() *types.Address          { to := tx.To; return &to }
func (tx *BlobTx) data() []byte                { return tx.Data }
func (tx *BlobTx) blobGasFeeCap() *uint256.Int { return tx.BlobFeeCap }
func (tx *BlobTx) blobHashes() []types.Hash    { return tx.BlobHashes }
func (tx *BlobTx) authList() AuthorizationList { return nil }

// ---------------------------------------------------------------------------
// SetCodeTx (EIP-7702)
// ---------------------------------------------------------------------------

// AuthorizationMagic prefixes the RLP payload signed by an EIP-7702 authority.
const AuthorizationMagic = byte(0x05)

var (
	ErrInvalidAuthorizationSignature = errors.New("transaction: invalid authorization signature")
	ErrEmptyAuthorizationList        = errors.New("transaction: empty authorization list")
)

// Authorization is one EIP-7702 authorization tuple: the authority signs
// over (chainID, address, nonce) to temporarily delegate its code.
type Authorization struct {
	ChainID uint64
	Address types.Address
	Nonce   uint64
	V       uint8
	R, S    *uint256.Int
}

func (a *Authorization) Copy() *Authorization {
	cp := *a
	if a.R != nil {
		cp.R = new(uint256.Int).Set(a.R)
	}
	if a.S != nil {
		cp.S = new(uint256.Int).Set(a.S)
	}
	return &cp
}

type AuthorizationList []*Authorization

func (al AuthorizationList) Copy() AuthorizationList {
	if al == nil {
		return nil
	}
	cp := make(AuthorizationList, len(al))
	for i, a := range al {
		cp[i] = a.Copy()
	}
	return cp
}

// SigningHash returns the digest an authority signs to delegate its code,
// keccak256(MAGIC || rlp([chainID, address, nonce])).
func (a *Authorization) SigningHash() types.Hash {
	payload := rlpEncodeAuthorization(a.ChainID, a.Address, a.Nonce)
	return crypto.Keccak256Hash([]byte{AuthorizationMagic}, payload)
}

// RecoverSigner recovers the authority address that produced this
// authorization's signature.
func (a *Authorization) RecoverSigner() (types.Address, error) {
	if a.R == nil || a.S == nil {
		return types.Address{}, ErrInvalidAuthorizationSignature
	}
	if a.V > 1 {
		return types.Address{}, ErrInvalidAuthorizationSignature
	}
	sigHash := a.SigningHash()
	var sig [65]byte
	rb, sb := a.R.Bytes32(), a.S.Bytes32()
	copy(sig[0:32], rb[:])
	copy(sig[32:64], sb[:])
	sig[64] = a.V
	return crypto.SigToAddress(sigHash[:], sig[:])
}

// rlpEncodeAuthorization hand-encodes [chainID, address, nonce] the same way
// CREATE address derivation does: the payload is small and fixed-shape, so a
// general RLP codec buys nothing here.
func rlpEncodeAuthorization(chainID uint64, address types.Address, nonce uint64) []byte {
	chainEnc := crypto.RlpEncodeUint64(chainID)
	addrEnc := crypto.RlpEncodeBytes(address.Bytes())
	nonceEnc := crypto.RlpEncodeUint64(nonce)
	payload := append(append(append([]byte{}, chainEnc...), addrEnc...), nonceEnc...)
	return append(crypto.RlpEncodeListHeader(len(payload)), payload...)
}

type SetCodeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	AuthList   AuthorizationList
	V, R, S    *uint256.Int
}

func (tx *SetCodeTx) txType() byte               { return SetCodeTxType }
func (tx *SetCodeTx) chainID() *uint256.Int       { return tx.ChainID }
func (tx *SetCodeTx) accessList() AccessList      { return tx.AccessList }
func (tx *SetCodeTx) gas() uint64                 { return tx.Gas }
func (tx *SetCodeTx) gasPrice() *uint256.Int      { return tx.GasFeeCap }
func (tx *SetCodeTx) gasTipCap() *uint256.Int     { return tx.GasTipCap }
func (tx *SetCodeTx) gasFeeCap() *uint256.Int     { return tx.GasFeeCap }
func (tx *SetCodeTx) value() *uint256.Int         { return tx.Value }
func (tx *SetCodeTx) nonce() uint64               { return tx.Nonce }
func (tx *SetCodeTx) to() *types.Address          { to := tx.To; return &to }
func (tx *SetCodeTx) data() []byte                { return tx.Data }
func (tx *SetCodeTx) blobGasFeeCap() *uint256.Int { return nil }
func (tx *SetCodeTx) blobHashes() []types.Hash    { return nil }
func (tx *SetCodeTx) authList() AuthorizationList { return tx.AuthList }
