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

// Package errors defines common error types used throughout the execution
// core. It provides a centralized location for error definitions to ensure
// consistency and avoid duplication across modules.
package errors

import (
	"errors"
	"fmt"
)

// =====================
// Transaction Errors
// =====================

// Transaction pre-checking errors. Every message is pre-checked before
// execution; if any invalidation is detected, the corresponding error here
// is what the handler returns.
var (
	// ErrNonceTooLow is returned if the nonce of a transaction is lower than
	// the one present in the local state.
	ErrNonceTooLow = errors.New("nonce too low")

	// ErrNonceTooHigh is returned if the nonce of a transaction is higher
	// than the next one expected based on the local state.
	ErrNonceTooHigh = errors.New("nonce too high")

	// ErrNonceMax is returned if the sender's nonce has the maximum allowed
	// value and would overflow if incremented.
	ErrNonceMax = errors.New("nonce has max value")

	// ErrGasLimitReached is returned if the amount of gas required by a
	// transaction is higher than what remains in the block.
	ErrGasLimitReached = errors.New("gas limit reached")

	// ErrInsufficientFundsForTransfer is returned if the sender doesn't have
	// enough funds for the value transfer alone (topmost call only).
	ErrInsufficientFundsForTransfer = errors.New("insufficient funds for transfer")

	// ErrInsufficientFunds is returned if the total cost of executing a
	// transaction is higher than the sender's balance.
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")

	// ErrGasUintOverflow is returned when gas accounting overflows uint64.
	ErrGasUintOverflow = errors.New("gas uint64 overflow")

	// ErrIntrinsicGas is returned if the transaction specifies less gas than
	// required to start the invocation.
	ErrIntrinsicGas = errors.New("intrinsic gas too low")

	// ErrFloorDataGas is returned if the execution gas used falls below the
	// EIP-7623 calldata floor price.
	ErrFloorDataGas = errors.New("gas used below intrinsic gas floor")

	// ErrTxTypeNotSupported is returned if a transaction type is not
	// supported under the active fork rules.
	ErrTxTypeNotSupported = errors.New("transaction type not supported")

	// ErrTipAboveFeeCap is returned when a transaction specifies a tip
	// higher than its fee cap.
	ErrTipAboveFeeCap = errors.New("max priority fee per gas higher than max fee per gas")

	// ErrTipVeryHigh is a sanity error guarding against unreasonably large
	// tip values.
	ErrTipVeryHigh = errors.New("max priority fee per gas higher than 2^256-1")

	// ErrFeeCapVeryHigh is a sanity error guarding against unreasonably
	// large fee cap values.
	ErrFeeCapVeryHigh = errors.New("max fee per gas higher than 2^256-1")

	// ErrFeeCapTooLow is returned if the fee cap is below the block's base
	// fee.
	ErrFeeCapTooLow = errors.New("max fee per gas less than block base fee")

	// ErrSenderNoEOA is returned if the sender of a transaction has
	// deployed code (and is not a delegated EIP-7702 EOA).
	ErrSenderNoEOA = errors.New("sender not an eoa")

	// ErrGasLimitTooHigh is returned when a transaction's gas limit exceeds
	// the EIP-7825 per-transaction cap.
	ErrGasLimitTooHigh = errors.New("gas limit too high")

	// ErrBlobFeeCapTooLow is returned if a blob transaction's blob fee cap
	// is below the block's blob base fee.
	ErrBlobFeeCapTooLow = errors.New("max fee per blob gas less than block blob gas fee")

	// ErrMissingBlobHashes is returned if a blob transaction carries no
	// versioned hashes.
	ErrMissingBlobHashes = errors.New("blob transaction missing blob hashes")

	// ErrBlobTxCreate is returned if a blob transaction attempts contract
	// creation.
	ErrBlobTxCreate = errors.New("blob transaction of type create")
)

// =====================
// Database Errors
// =====================

var (
	// ErrKeyNotFound is returned when a key is not found in the backing
	// store.
	ErrKeyNotFound = errors.New("db: key not found")

	// ErrInvalidSize is returned when a number has an invalid encoded size.
	ErrInvalidSize = errors.New("bit endian number has an invalid size")
)

// =====================
// Helper Functions
// =====================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Errorf formats according to a format specifier and returns an error.
func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}
