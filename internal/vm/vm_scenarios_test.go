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
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/coreevm/engine/common/account"
	"github.com/coreevm/engine/common/types"
	"github.com/coreevm/engine/internal/vm/evmtypes"
	vmerrors "github.com/coreevm/engine/pkg/errors"
	"github.com/coreevm/engine/modules/state"
	"github.com/coreevm/engine/params"
)

// seededStorageReader is a minimal state.StateReader that answers a single
// committed storage slot for one account and nothing else, used to give an
// IntraBlockState a pre-existing ("original") SSTORE value to refund
// against. IntraBlockState.getCommittedStorage only ever consults the
// reader once per (address, key) and caches the result, so this is the
// only way to seed that value short of reaching into unexported state.
type seededStorageReader struct {
	addr  types.Address
	key   types.Hash
	value types.Hash
}

func (r *seededStorageReader) ReadAccountData(types.Address) (*account.StateAccount, error) {
	return nil, nil
}

func (r *seededStorageReader) ReadAccountStorage(addr types.Address, incarnation uint16, key *types.Hash) ([]byte, error) {
	if addr == r.addr && *key == r.key {
		return r.value.Bytes(), nil
	}
	return nil, nil
}

func (r *seededStorageReader) ReadAccountCode(types.Address, uint16, types.Hash) ([]byte, error) {
	return nil, nil
}

func (r *seededStorageReader) ReadAccountCodeSize(types.Address, uint16, types.Hash) (int, error) {
	return 0, nil
}

func (r *seededStorageReader) ReadAccountIncarnation(types.Address) (uint16, error) { return 0, nil }

func canTransfer(db evmtypes.IntraBlockState, addr types.Address, amount *uint256.Int) bool {
	return !db.GetBalance(addr).Lt(amount)
}

func transfer(db evmtypes.IntraBlockState, sender, recipient types.Address, amount *uint256.Int, bailout bool) {
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}

func newTestEVM(t *testing.T, ibs evmtypes.IntraBlockState) *EVM {
	t.Helper()
	blockCtx := evmtypes.BlockContext{
		CanTransfer: canTransfer,
		Transfer:    transfer,
		GetHash:     func(uint64) types.Hash { return types.Hash{} },
		Coinbase:    types.Address{},
		GasLimit:    30_000_000,
		BlockNumber: 1,
		Time:        0,
		Difficulty:  big.NewInt(0),
		BaseFee:     uint256.NewInt(0),
	}
	txCtx := evmtypes.TxContext{GasPrice: uint256.NewInt(1)}
	return NewEVM(blockCtx, txCtx, ibs, params.MainnetChainConfig(), Config{})
}

// push20 encodes PUSH20 <addr> as bytecode.
func push20(addr types.Address) []byte {
	return append([]byte{byte(PUSH(20))}, addr.Bytes()...)
}

func push1(b byte) []byte { return []byte{byte(PUSH1), b} }

// Spec scenario: Simple transfer. A plain value-carrying call to an
// account with no code just moves balance; no code runs, no gas beyond
// the frame's own accounting is spent by the EVM itself.
func TestScenarioSimpleTransfer(t *testing.T) {
	ibs := state.New(nil)
	sender := types.BytesToAddress([]byte{0x01})
	recipient := types.BytesToAddress([]byte{0xaa})
	ibs.AddBalance(sender, uint256.NewInt(1_000_000))

	evm := newTestEVM(t, ibs)
	value := uint256.NewInt(1_000)
	ret, leftOverGas, err := evm.Call(AccountRef(sender), recipient, nil, 21_000, value, false)

	require.NoError(t, err)
	require.Empty(t, ret)
	require.Equal(t, uint64(21_000), leftOverGas)
	require.Equal(t, uint64(999_000), ibs.GetBalance(sender).Uint64())
	require.Equal(t, uint64(1_000), ibs.GetBalance(recipient).Uint64())
}

// Spec scenario: Out-of-gas. The supplied gas is too small to cover even
// the first instruction's constant cost, so the frame halts with
// ErrOutOfGas and none of its intended storage write takes effect.
func TestScenarioOutOfGas(t *testing.T) {
	ibs := state.New(nil)
	sender := types.BytesToAddress([]byte{0x01})
	contractAddr := types.BytesToAddress([]byte{0xa2})

	code := append(push1(0x01), append(push1(0x00), byte(SSTORE))...)
	ibs.SetCode(contractAddr, code)

	evm := newTestEVM(t, ibs)
	_, _, err := evm.Call(AccountRef(sender), contractAddr, nil, 1, new(uint256.Int), false)

	require.ErrorIs(t, err, vmerrors.ErrOutOfGas)
	var stored uint256.Int
	ibs.GetState(contractAddr, &types.Hash{}, &stored)
	require.True(t, stored.IsZero())
}

// Spec scenario: SSTORE refund. Clearing a slot that already held a
// nonzero value back to zero earns the EIP-2200/3529 clear refund; a
// seededStorageReader supplies the "original" value the refund compares
// against.
func TestScenarioSstoreRefund(t *testing.T) {
	contractAddr := types.BytesToAddress([]byte{0xa3})
	var slot types.Hash
	original := types.BytesToHash([]byte{0x2a})

	reader := &seededStorageReader{addr: contractAddr, key: slot, value: original}
	ibs := state.New(reader)
	ibs.SetCode(contractAddr, append(push1(0x00), append(push1(0x00), byte(SSTORE))...))

	sender := types.BytesToAddress([]byte{0x01})
	evm := newTestEVM(t, ibs)
	_, _, err := evm.Call(AccountRef(sender), contractAddr, nil, 100_000, new(uint256.Int), false)

	require.NoError(t, err)
	require.Equal(t, uint64(4_800), ibs.GetRefund())

	var cleared uint256.Int
	ibs.GetState(contractAddr, &slot, &cleared)
	require.True(t, cleared.IsZero())
}

// Spec scenario: Static-call violation. SSTORE inside a STATICCALL frame
// is rejected with ErrWriteProtection and the attempted write never
// reaches state.
func TestScenarioStaticCallViolation(t *testing.T) {
	ibs := state.New(nil)
	sender := types.BytesToAddress([]byte{0x01})
	contractAddr := types.BytesToAddress([]byte{0xa2})
	code := append(push1(0x01), append(push1(0x00), byte(SSTORE))...)
	ibs.SetCode(contractAddr, code)

	evm := newTestEVM(t, ibs)
	_, _, err := evm.StaticCall(AccountRef(sender), contractAddr, nil, 100_000)

	require.ErrorIs(t, err, vmerrors.ErrWriteProtection)
	var stored uint256.Int
	ibs.GetState(contractAddr, &types.Hash{}, &stored)
	require.True(t, stored.IsZero())
}

// Spec scenario: CREATE2 collision. Deploying to a salt-derived address
// that already hosts a deployed contract (nonzero nonce from the first
// deployment) is rejected rather than silently overwriting it.
func TestScenarioCreate2Collision(t *testing.T) {
	ibs := state.New(nil)
	deployer := types.BytesToAddress([]byte{0x01})
	ibs.AddBalance(deployer, uint256.NewInt(1_000_000))

	// STOP-only init code: deploys a contract with empty runtime code.
	initCode := []byte{byte(STOP)}
	salt := uint256.NewInt(7)

	evm := newTestEVM(t, ibs)
	_, addr1, _, err := evm.Create2(AccountRef(deployer), initCode, 200_000, new(uint256.Int), salt)
	require.NoError(t, err)

	_, addr2, _, err := evm.Create2(AccountRef(deployer), initCode, 200_000, new(uint256.Int), salt)
	require.ErrorIs(t, err, vmerrors.ErrContractAddressCollision)
	require.Equal(t, addr1, addr2)
}

// Spec scenario: Revert nested. A REVERT inside a nested CALL unwinds
// only that call's own state changes; the caller's changes made before
// issuing the nested call, and the caller's own control flow, continue
// unaffected.
func TestScenarioRevertNested(t *testing.T) {
	ibs := state.New(nil)
	sender := types.BytesToAddress([]byte{0x01})
	outerAddr := types.BytesToAddress([]byte{0xa2})
	innerAddr := types.BytesToAddress([]byte{0xa3})

	// Inner: SSTORE(0, 1) then REVERT(0, 0).
	innerCode := []byte{}
	innerCode = append(innerCode, push1(0x01)...)
	innerCode = append(innerCode, push1(0x00)...)
	innerCode = append(innerCode, byte(SSTORE))
	innerCode = append(innerCode, push1(0x00)...)
	innerCode = append(innerCode, push1(0x00)...)
	innerCode = append(innerCode, byte(REVERT))
	ibs.SetCode(innerAddr, innerCode)

	// Outer: SSTORE(0, 42), then CALL(gas, innerAddr, 0, 0, 0, 0, 0), then STOP.
	outerCode := []byte{}
	outerCode = append(outerCode, push1(0x2a)...)
	outerCode = append(outerCode, push1(0x00)...)
	outerCode = append(outerCode, byte(SSTORE))
	outerCode = append(outerCode, push1(0x00)...) // retSize
	outerCode = append(outerCode, push1(0x00)...) // retOffset
	outerCode = append(outerCode, push1(0x00)...) // argsSize
	outerCode = append(outerCode, push1(0x00)...) // argsOffset
	outerCode = append(outerCode, push1(0x00)...) // value
	outerCode = append(outerCode, push20(innerAddr)...)
	outerCode = append(outerCode, byte(PUSH(4)), 0xFF, 0xFF, 0xFF, 0xFF) // gas, capped by the 63/64 rule
	outerCode = append(outerCode, byte(CALL))
	outerCode = append(outerCode, byte(STOP))
	ibs.SetCode(outerAddr, outerCode)

	evm := newTestEVM(t, ibs)
	_, _, err := evm.Call(AccountRef(sender), outerAddr, nil, 500_000, new(uint256.Int), false)
	require.NoError(t, err)

	var outerSlot uint256.Int
	ibs.GetState(outerAddr, &types.Hash{}, &outerSlot)
	require.Equal(t, uint64(42), outerSlot.Uint64())

	var innerSlot uint256.Int
	ibs.GetState(innerAddr, &types.Hash{}, &innerSlot)
	require.True(t, innerSlot.IsZero())
}
