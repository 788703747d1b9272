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
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/types"
)

// journalEntry is a single revertible mutation of an IntraBlockState.
type journalEntry interface {
	revert(s *IntraBlockState)
}

// journal records every mutation made to a journaled state in order, so a
// call frame that reverts can undo exactly what it did without disturbing
// its caller's prior changes.
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int {
	return len(j.entries)
}

// revertTo rolls back every entry recorded after index snapshot, in reverse
// order, then truncates the log to that point.
func (j *journal) revertTo(s *IntraBlockState, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

type createObjectChange struct {
	addr types.Address
	prev *stateObject // nil if the account didn't exist before
}

func (ch createObjectChange) revert(s *IntraBlockState) {
	if ch.prev == nil {
		delete(s.stateObjects, ch.addr)
	} else {
		s.stateObjects[ch.addr] = ch.prev
	}
}

type balanceChange struct {
	addr types.Address
	prev *uint256.Int
}

func (ch balanceChange) revert(s *IntraBlockState) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.account.Balance = ch.prev
	}
}

type nonceChange struct {
	addr types.Address
	prev uint64
}

func (ch nonceChange) revert(s *IntraBlockState) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.account.Nonce = ch.prev
	}
}

type codeChange struct {
	addr     types.Address
	prevCode []byte
	prevHash types.Hash
}

func (ch codeChange) revert(s *IntraBlockState) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.code = ch.prevCode
		obj.account.CodeHash = ch.prevHash
	}
}

type incarnationChange struct {
	addr types.Address
	prev uint16
}

func (ch incarnationChange) revert(s *IntraBlockState) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.account.Incarnation = ch.prev
	}
}

type storageChange struct {
	addr       types.Address
	key        types.Hash
	prev       uint256.Int
	prevExists bool
}

func (ch storageChange) revert(s *IntraBlockState) {
	obj := s.stateObjects[ch.addr]
	if obj == nil {
		return
	}
	if ch.prevExists {
		obj.dirtyStorage[ch.key] = ch.prev
	} else {
		delete(obj.dirtyStorage, ch.key)
	}
}

type selfDestructChange struct {
	addr           types.Address
	prevDestructed bool
	prevBalance    *uint256.Int
}

func (ch selfDestructChange) revert(s *IntraBlockState) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.selfDestructed = ch.prevDestructed
		obj.account.Balance = ch.prevBalance
	}
}

type refundChange struct {
	prev uint64
}

func (ch refundChange) revert(s *IntraBlockState) { s.refund = ch.prev }

type addLogChange struct{}

func (ch addLogChange) revert(s *IntraBlockState) {
	s.logs = s.logs[:len(s.logs)-1]
}

type accessListAddAccountChange struct {
	addr types.Address
}

func (ch accessListAddAccountChange) revert(s *IntraBlockState) {
	s.accessList.DeleteAddress(ch.addr)
}

type accessListAddSlotChange struct {
	addr types.Address
	slot types.Hash
}

func (ch accessListAddSlotChange) revert(s *IntraBlockState) {
	s.accessList.DeleteSlot(ch.addr, ch.slot)
}

type transientStorageChange struct {
	addr       types.Address
	key        types.Hash
	prev       uint256.Int
	prevExists bool
}

func (ch transientStorageChange) revert(s *IntraBlockState) {
	if !ch.prevExists {
		delete(s.transientStorage[ch.addr], ch.key)
		return
	}
	s.transientStorage.Set(ch.addr, ch.key, ch.prev)
}
