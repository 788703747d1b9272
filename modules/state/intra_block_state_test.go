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

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/coreevm/engine/common/types"
)

func TestBalanceRevert(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x01})

	snap := s.Snapshot()
	s.AddBalance(addr, uint256.NewInt(100))
	require.Equal(t, uint64(100), s.GetBalance(addr).Uint64())

	s.RevertToSnapshot(snap)
	require.True(t, s.GetBalance(addr).IsZero())
}

func TestNestedSnapshotsRevertIndependently(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x02})

	s.AddBalance(addr, uint256.NewInt(10))
	outer := s.Snapshot()
	s.AddBalance(addr, uint256.NewInt(20))
	inner := s.Snapshot()
	s.AddBalance(addr, uint256.NewInt(30))
	require.Equal(t, uint64(60), s.GetBalance(addr).Uint64())

	s.RevertToSnapshot(inner)
	require.Equal(t, uint64(30), s.GetBalance(addr).Uint64())

	s.RevertToSnapshot(outer)
	require.Equal(t, uint64(10), s.GetBalance(addr).Uint64())
}

func TestStorageSetAndRevert(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x03})
	key := types.Hash{0x01}

	snap := s.Snapshot()
	val := *uint256.NewInt(7)
	s.SetState(addr, &key, val)

	var got uint256.Int
	s.GetState(addr, &key, &got)
	require.Equal(t, uint64(7), got.Uint64())

	s.RevertToSnapshot(snap)
	s.GetState(addr, &key, &got)
	require.True(t, got.IsZero())
}

func TestDeleteEmptyTouchedAccounts(t *testing.T) {
	s := New(nil)
	empty := types.BytesToAddress([]byte{0x04})
	funded := types.BytesToAddress([]byte{0x05})

	s.CreateAccount(empty, false)
	s.CreateAccount(funded, false)
	s.AddBalance(funded, uint256.NewInt(1))

	require.True(t, s.Exist(empty))
	require.True(t, s.Exist(funded))

	s.DeleteEmptyTouchedAccounts()

	require.False(t, s.Exist(empty))
	require.True(t, s.Exist(funded))
}

func TestSelfdestructZeroesBalanceAndMarks(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x06})
	s.AddBalance(addr, uint256.NewInt(500))

	ok := s.Selfdestruct(addr)
	require.True(t, ok)
	require.True(t, s.GetBalance(addr).IsZero())
	require.True(t, s.HasSelfdestructed(addr))
}

func TestAccessListWarming(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x07})
	slot := types.Hash{0x02}

	require.False(t, s.AddressInAccessList(addr))
	s.AddAddressToAccessList(addr)
	require.True(t, s.AddressInAccessList(addr))

	addrOk, slotOk := s.SlotInAccessList(addr, slot)
	require.True(t, addrOk)
	require.False(t, slotOk)

	s.AddSlotToAccessList(addr, slot)
	_, slotOk = s.SlotInAccessList(addr, slot)
	require.True(t, slotOk)
}

func TestTransientStorageClearedOnReset(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x08})
	key := types.Hash{0x03}

	s.SetTransientState(addr, key, *uint256.NewInt(99))
	require.Equal(t, uint64(99), s.GetTransientState(addr, key).Uint64())

	s.Reset()
	require.True(t, s.GetTransientState(addr, key).IsZero())
}

func TestIncarnationBumpsOnContractCreation(t *testing.T) {
	s := New(nil)
	addr := types.BytesToAddress([]byte{0x09})

	s.CreateAccount(addr, true)
	obj := s.getOrNewStateObject(addr)
	require.Equal(t, uint16(1), obj.account.Incarnation)

	s.CreateAccount(addr, true)
	obj = s.getOrNewStateObject(addr)
	require.Equal(t, uint16(2), obj.account.Incarnation)
}
