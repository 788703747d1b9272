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
	"fmt"

	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common"
	"github.com/coreevm/engine/common/account"
	"github.com/coreevm/engine/common/block"
	"github.com/coreevm/engine/common/crypto"
	"github.com/coreevm/engine/common/transaction"
	"github.com/coreevm/engine/common/types"
)

// IntraBlockState implements common.StateDB.
var _ common.StateDB = (*IntraBlockState)(nil)

// stateObject is the in-memory view of a single account while it is touched
// during a block: its account record, code, and the dirty slots layered on
// top of whatever the backing StateReader last committed.
type stateObject struct {
	address types.Address
	account *account.StateAccount

	code []byte

	// committedStorage caches values already read from the StateReader so a
	// second GetCommittedState call for the same key doesn't hit it again.
	committedStorage Storage
	dirtyStorage     Storage

	selfDestructed bool
	newlyCreated   bool // created during this transaction/block, not read from the reader
	codeLoaded     bool
}

func newStateObject(addr types.Address, acc *account.StateAccount) *stateObject {
	return &stateObject{
		address:          addr,
		account:          acc,
		committedStorage: make(Storage),
		dirtyStorage:     make(Storage),
	}
}

func (o *stateObject) deepCopy() *stateObject {
	cp := &stateObject{
		address:          o.address,
		account:          o.account.Copy(),
		code:             append([]byte(nil), o.code...),
		committedStorage: o.committedStorage.Copy(),
		dirtyStorage:     o.dirtyStorage.Copy(),
		selfDestructed:   o.selfDestructed,
		newlyCreated:     o.newlyCreated,
		codeLoaded:       o.codeLoaded,
	}
	return cp
}

// IntraBlockState is the journaled, checkpointable state view consumed by
// the interpreter through the common.StateDB interface. It buffers every
// mutation a block's transactions make in memory, backed by a StateReader
// for data it hasn't touched yet, and hands the accumulated effect to a
// StateWriter once the block is done.
type IntraBlockState struct {
	reader StateReader

	stateObjects map[types.Address]*stateObject

	journal *journal
	refund  uint64

	logs []*block.Log

	accessList       *accessList
	transientStorage transientStorage

	// validRevisions and nextRevisionID implement the classic revision
	// scheme: Snapshot hands out a monotonically increasing ID, and
	// RevertToSnapshot resolves it back to a journal length to unwind to.
	validRevisions []revision
	nextRevisionID int

	// touched records every address any operation has read or written during
	// the current transaction, independent of whether that operation actually
	// changed anything. DeleteEmptyTouchedAccounts uses it to find accounts
	// that must be pruned under EIP-161.
	touched map[types.Address]struct{}
}

type revision struct {
	id           int
	journalIndex int
}

// New returns a fresh IntraBlockState backed by reader. reader may be nil,
// in which case every account/storage/code lookup behaves as if state were
// empty -- useful for isolated unit tests of the interpreter.
func New(reader StateReader) *IntraBlockState {
	return &IntraBlockState{
		reader:           reader,
		stateObjects:     make(map[types.Address]*stateObject),
		journal:          newJournal(),
		accessList:       newAccessList(),
		transientStorage: newTransientStorage(),
		touched:          make(map[types.Address]struct{}),
	}
}

// Reset clears per-block bookkeeping (logs, refund, access list, journal,
// snapshots) but keeps the loaded account objects, exactly like moving to a
// new transaction within the same block without losing already-cached data.
func (s *IntraBlockState) Reset() {
	s.journal = newJournal()
	s.refund = 0
	s.logs = nil
	s.accessList = newAccessList()
	s.transientStorage = newTransientStorage()
	s.validRevisions = s.validRevisions[:0]
	s.nextRevisionID = 0
	s.touched = make(map[types.Address]struct{})
}

func (s *IntraBlockState) touch(addr types.Address) {
	s.touched[addr] = struct{}{}
}

// DeleteEmptyTouchedAccounts removes, per EIP-161, every account touched
// during the current transaction that ended up empty (zero nonce, zero
// balance, no code). It does not journal the deletion: it's meant to run
// once a transaction has fully committed and won't be rolled back.
func (s *IntraBlockState) DeleteEmptyTouchedAccounts() {
	for addr := range s.touched {
		if obj := s.stateObjects[addr]; obj != nil && obj.account.IsEmpty() {
			delete(s.stateObjects, addr)
		}
	}
}

func (s *IntraBlockState) getStateObject(addr types.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	if s.reader == nil {
		return nil
	}
	acc, err := s.reader.ReadAccountData(addr)
	if err != nil || acc == nil {
		return nil
	}
	obj := newStateObject(addr, acc)
	s.stateObjects[addr] = obj
	return obj
}

func (s *IntraBlockState) getOrNewStateObject(addr types.Address) *stateObject {
	s.touch(addr)
	obj := s.getStateObject(addr)
	if obj == nil {
		obj = s.createObject(addr)
	}
	return obj
}

// createObject makes a brand-new state object, journaling whatever the
// previous object at addr was (nil if the address was unused) so creation
// can be rolled back.
func (s *IntraBlockState) createObject(addr types.Address) *stateObject {
	prev := s.stateObjects[addr]
	newObj := newStateObject(addr, account.NewEmptyAccount())
	newObj.newlyCreated = true
	s.journal.append(createObjectChange{addr: addr, prev: prev})
	s.stateObjects[addr] = newObj
	return newObj
}

// CreateAccount ensures addr has a fresh, empty account object. If an
// account already exists its balance carries over (e.g. value sent to an
// address before its contract is deployed); contractCreation additionally
// bumps the incarnation so storage from a prior incarnation at the same
// address isn't visible to the new one.
func (s *IntraBlockState) CreateAccount(addr types.Address, contractCreation bool) {
	s.touch(addr)
	prev := s.getStateObject(addr)

	var prevIncarnation uint16
	var prevBalance *uint256.Int
	if prev != nil {
		prevIncarnation = prev.account.Incarnation
		prevBalance = prev.account.Balance
	}

	newObj := s.createObject(addr)
	if prevBalance != nil {
		newObj.account.Balance = new(uint256.Int).Set(prevBalance)
	}
	if contractCreation {
		newObj.account.Incarnation = prevIncarnation + 1
		s.journal.append(incarnationChange{addr: addr, prev: prevIncarnation})
	}
}

// Exist reports whether addr has a loaded state object; this also returns
// true for accounts already marked self-destructed this transaction, since
// their effect is only applied at block end.
func (s *IntraBlockState) Exist(addr types.Address) bool {
	return s.getStateObject(addr) != nil
}

// Empty reports whether addr is empty per EIP-161: zero nonce, zero
// balance, no code.
func (s *IntraBlockState) Empty(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.account.IsEmpty()
}

func (s *IntraBlockState) SubBalance(addr types.Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	obj := s.getOrNewStateObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.account.Balance)})
	obj.account.Balance = new(uint256.Int).Sub(obj.account.Balance, amount)
}

func (s *IntraBlockState) AddBalance(addr types.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	if amount.IsZero() {
		return
	}
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.account.Balance)})
	obj.account.Balance = new(uint256.Int).Add(obj.account.Balance, amount)
}

func (s *IntraBlockState) GetBalance(addr types.Address) *uint256.Int {
	obj := s.getStateObject(addr)
	if obj == nil {
		return new(uint256.Int)
	}
	return obj.account.Balance
}

func (s *IntraBlockState) GetNonce(addr types.Address) uint64 {
	obj := s.getStateObject(addr)
	if obj == nil {
		return 0
	}
	return obj.account.Nonce
}

func (s *IntraBlockState) SetNonce(addr types.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(nonceChange{addr: addr, prev: obj.account.Nonce})
	obj.account.Nonce = nonce
}

func (s *IntraBlockState) GetCodeHash(addr types.Address) types.Hash {
	obj := s.getStateObject(addr)
	if obj == nil {
		return types.Hash{}
	}
	return obj.account.CodeHash
}

func (s *IntraBlockState) loadCode(obj *stateObject) []byte {
	if obj.codeLoaded || obj.account.CodeHash == account.EmptyCodeHash {
		return obj.code
	}
	obj.codeLoaded = true
	if s.reader == nil {
		return obj.code
	}
	code, err := s.reader.ReadAccountCode(obj.address, obj.account.Incarnation, obj.account.CodeHash)
	if err != nil {
		return obj.code
	}
	obj.code = code
	return obj.code
}

func (s *IntraBlockState) GetCode(addr types.Address) []byte {
	obj := s.getStateObject(addr)
	if obj == nil {
		return nil
	}
	return s.loadCode(obj)
}

func (s *IntraBlockState) SetCode(addr types.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	prevHash := obj.account.CodeHash
	s.journal.append(codeChange{addr: addr, prevCode: obj.code, prevHash: prevHash})
	obj.code = code
	obj.codeLoaded = true
	if len(code) == 0 {
		obj.account.CodeHash = account.EmptyCodeHash
	} else {
		obj.account.CodeHash = crypto.Keccak256Hash(code)
	}
}

func (s *IntraBlockState) GetCodeSize(addr types.Address) int {
	obj := s.getStateObject(addr)
	if obj == nil {
		return 0
	}
	if obj.codeLoaded || obj.account.CodeHash == account.EmptyCodeHash {
		return len(s.loadCode(obj))
	}
	if s.reader != nil {
		size, err := s.reader.ReadAccountCodeSize(obj.address, obj.account.Incarnation, obj.account.CodeHash)
		if err == nil {
			return size
		}
	}
	return len(s.loadCode(obj))
}

func (s *IntraBlockState) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *IntraBlockState) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic(fmt.Sprintf("refund counter below zero: %d below %d", s.refund, gas))
	}
	s.refund -= gas
}

func (s *IntraBlockState) GetRefund() uint64 { return s.refund }

func (s *IntraBlockState) getCommittedStorage(obj *stateObject, key types.Hash) uint256.Int {
	if v, ok := obj.committedStorage[key]; ok {
		return v
	}
	var v uint256.Int
	if s.reader != nil {
		raw, err := s.reader.ReadAccountStorage(obj.address, obj.account.Incarnation, &key)
		if err == nil && len(raw) > 0 {
			v.SetBytes(raw)
		}
	}
	obj.committedStorage[key] = v
	return v
}

func (s *IntraBlockState) GetCommittedState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	obj := s.getStateObject(addr)
	if obj == nil {
		outValue.Clear()
		return
	}
	*outValue = s.getCommittedStorage(obj, *key)
}

func (s *IntraBlockState) GetState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	obj := s.getStateObject(addr)
	if obj == nil {
		outValue.Clear()
		return
	}
	if v, ok := obj.dirtyStorage[*key]; ok {
		*outValue = v
		return
	}
	*outValue = s.getCommittedStorage(obj, *key)
}

func (s *IntraBlockState) SetState(addr types.Address, key *types.Hash, value uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	prev, prevExists := obj.dirtyStorage[*key]
	if !prevExists {
		prev = s.getCommittedStorage(obj, *key)
	}
	if prev == value {
		return
	}
	s.journal.append(storageChange{addr: addr, key: *key, prev: prev, prevExists: prevExists})
	obj.dirtyStorage[*key] = value
}

// Selfdestruct marks addr for removal at the end of the block and zeroes
// its balance immediately, per EIP-6780 semantics for accounts that already
// existed before this transaction. Returns false if addr has no object.
func (s *IntraBlockState) Selfdestruct(addr types.Address) bool {
	s.touch(addr)
	obj := s.getStateObject(addr)
	if obj == nil {
		return false
	}
	s.journal.append(selfDestructChange{
		addr:           addr,
		prevDestructed: obj.selfDestructed,
		prevBalance:    new(uint256.Int).Set(obj.account.Balance),
	})
	obj.selfDestructed = true
	obj.account.Balance = new(uint256.Int)
	return true
}

func (s *IntraBlockState) HasSelfdestructed(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.selfDestructed
}

// PrepareAccessList implements EIP-2929/EIP-3651: it warms the sender,
// destination, precompiles and any addresses/slots named in the
// transaction's access list before execution begins.
func (s *IntraBlockState) PrepareAccessList(sender types.Address, dest *types.Address, precompiles []types.Address, txAccesses transaction.AccessList) {
	s.AddAddressToAccessList(sender)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
	for _, el := range txAccesses {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
}

func (s *IntraBlockState) AddressInAccessList(addr types.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

func (s *IntraBlockState) SlotInAccessList(addr types.Address, slot types.Hash) (addressOk, slotOk bool) {
	return s.accessList.ContainsSlot(addr, slot)
}

func (s *IntraBlockState) AddAddressToAccessList(addr types.Address) {
	if s.accessList.AddAddress(addr) {
		return
	}
	s.journal.append(accessListAddAccountChange{addr: addr})
}

func (s *IntraBlockState) AddSlotToAccessList(addr types.Address, slot types.Hash) {
	addrPresent, slotPresent := s.accessList.AddSlot(addr, slot)
	if !addrPresent {
		s.journal.append(accessListAddAccountChange{addr: addr})
	}
	if !slotPresent {
		s.journal.append(accessListAddSlotChange{addr: addr, slot: slot})
	}
}

// Snapshot returns a revision identifier that RevertToSnapshot can later
// unwind to.
func (s *IntraBlockState) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id: id, journalIndex: s.journal.length()})
	return id
}

// RevertToSnapshot undoes every journaled mutation recorded since revisionID
// was obtained from Snapshot.
func (s *IntraBlockState) RevertToSnapshot(revisionID int) {
	idx := len(s.validRevisions)
	for i := len(s.validRevisions) - 1; i >= 0; i-- {
		if s.validRevisions[i].id == revisionID {
			idx = i
			break
		}
	}
	if idx == len(s.validRevisions) {
		panic(fmt.Sprintf("state: no snapshot for revision %d", revisionID))
	}
	snapshot := s.validRevisions[idx].journalIndex
	s.journal.revertTo(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

func (s *IntraBlockState) AddLog(log *block.Log) {
	s.journal.append(addLogChange{})
	s.logs = append(s.logs, log)
}

// Logs returns every log recorded so far in the current transaction.
func (s *IntraBlockState) Logs() []*block.Log { return s.logs }

func (s *IntraBlockState) GetTransientState(addr types.Address, key types.Hash) uint256.Int {
	return s.transientStorage.Get(addr, key)
}

func (s *IntraBlockState) SetTransientState(addr types.Address, key types.Hash, value uint256.Int) {
	prev := s.transientStorage.Get(addr, key)
	if prev == value {
		return
	}
	_, prevExists := s.transientStorage[addr][key]
	s.journal.append(transientStorageChange{addr: addr, key: key, prev: prev, prevExists: prevExists})
	s.transientStorage.Set(addr, key, value)
}
