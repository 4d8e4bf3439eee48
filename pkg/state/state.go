// Copyright © 2023 Vulcanize, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/blake2b"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var blockNumberKey = Key("System", "Number")

// ChainState is the persisted key/value store of one emulated chain, plus the events emitted
// since the last reset of the event log.
type ChainState struct {
	db     *memorydb.Database
	events []types.Event
}

// Snapshot is a point-in-time copy of a ChainState used to roll back rejected calls.
type Snapshot struct {
	entries [][2][]byte
	events  []types.Event
}

// New returns an empty ChainState.
func New() *ChainState {
	return &ChainState{db: memorydb.New()}
}

// Key builds a storage key from a pallet prefix, a storage item name and raw key parts.
func Key(pallet, item string, parts ...[]byte) []byte {
	key := make([]byte, 0, len(pallet)+len(item)+2+32*len(parts))
	key = append(key, pallet...)
	key = append(key, '.')
	key = append(key, item...)
	key = append(key, ':')
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// Get returns the raw value under key.
func (s *ChainState) Get(key []byte) ([]byte, bool) {
	if ok, err := s.db.Has(key); err != nil || !ok {
		return nil, false
	}
	val, err := s.db.Get(key)
	if err != nil {
		return nil, false
	}
	return val, true
}

// Put writes a raw value under key.
func (s *ChainState) Put(key, value []byte) error {
	return s.db.Put(key, value)
}

// Delete removes key.
func (s *ChainState) Delete(key []byte) error {
	return s.db.Delete(key)
}

// Iterate calls fn for every entry under prefix in key order until fn returns false.
func (s *ChainState) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	it := s.db.NewIterator(prefix, nil)
	defer it.Release()
	for it.Next() {
		if !fn(common.CopyBytes(it.Key()), common.CopyBytes(it.Value())) {
			break
		}
	}
	return it.Error()
}

// GetRLP decodes the value under key into v.
func (s *ChainState) GetRLP(key []byte, v interface{}) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := rlp.DecodeBytes(raw, v); err != nil {
		return true, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// PutRLP encodes v under key.
func (s *ChainState) PutRLP(key []byte, v interface{}) error {
	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return s.Put(key, raw)
}

// GetBalance reads a balance stored under key; missing entries read as zero.
func (s *ChainState) GetBalance(key []byte) *types.Balance {
	raw, ok := s.Get(key)
	if !ok {
		return types.NewBalance(0)
	}
	return new(types.Balance).SetBytes(raw)
}

// PutBalance writes a balance under key. Zero balances are removed so that an emptied
// account leaves no trace in storage.
func (s *ChainState) PutBalance(key []byte, b *types.Balance) error {
	if b.IsZero() {
		return s.Delete(key)
	}
	enc := b.Bytes32()
	return s.Put(key, enc[:])
}

// BlockNumber returns the current block number.
func (s *ChainState) BlockNumber() uint64 {
	var n uint64
	if _, err := s.GetRLP(blockNumberKey, &n); err != nil {
		return 0
	}
	return n
}

// SetBlockNumber sets the current block number.
func (s *ChainState) SetBlockNumber(n uint64) error {
	return s.PutRLP(blockNumberKey, n)
}

// Deposit appends an event to the event log.
func (s *ChainState) Deposit(ev types.Event) {
	s.events = append(s.events, ev)
}

// Events returns a copy of the event log, oldest first.
func (s *ChainState) Events() []types.Event {
	out := make([]types.Event, len(s.events))
	copy(out, s.events)
	return out
}

// ResetEvents clears the event log.
func (s *ChainState) ResetEvents() {
	s.events = nil
}

// Len returns the number of stored entries.
func (s *ChainState) Len() int { return s.db.Len() }

// Root returns the BLAKE2b-256 digest of every entry in key order.
func (s *ChainState) Root() common.Hash {
	h, _ := blake2b.New256(nil)
	it := s.db.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		entry, _ := rlp.EncodeToBytes([][]byte{it.Key(), it.Value()})
		h.Write(entry)
	}
	return common.BytesToHash(h.Sum(nil))
}

// Dump returns every entry keyed by its raw key.
func (s *ChainState) Dump() map[string][]byte {
	out := make(map[string][]byte, s.db.Len())
	_ = s.Iterate(nil, func(key, value []byte) bool {
		out[string(key)] = value
		return true
	})
	return out
}

// Equal reports whether both states hold identical entries and event logs of the same length.
func (s *ChainState) Equal(o *ChainState) bool {
	if s.Root() != o.Root() || len(s.events) != len(o.events) {
		return false
	}
	a, b := s.Dump(), o.Dump()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !bytes.Equal(v, b[k]) {
			return false
		}
	}
	return true
}

// Snapshot captures the current entries and event log.
func (s *ChainState) Snapshot() *Snapshot {
	snap := &Snapshot{events: s.Events()}
	_ = s.Iterate(nil, func(key, value []byte) bool {
		snap.entries = append(snap.entries, [2][]byte{key, value})
		return true
	})
	return snap
}

// Revert restores the state captured by snap, discarding everything written since.
func (s *ChainState) Revert(snap *Snapshot) error {
	db := memorydb.New()
	for _, kv := range snap.entries {
		if err := db.Put(kv[0], kv[1]); err != nil {
			return err
		}
	}
	s.db = db
	s.events = make([]types.Event, len(snap.events))
	copy(s.events, snap.events)
	return nil
}

// Copy returns a deep copy of the state.
func (s *ChainState) Copy() *ChainState {
	cp := New()
	if err := cp.Revert(s.Snapshot()); err != nil {
		panic(err)
	}
	return cp
}
