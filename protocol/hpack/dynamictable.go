// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hpack

import (
	"github.com/cespare/xxhash/v2"
)

// dynamicTable is the per-connection HPACK dynamic table: a FIFO of
// (name, value) entries ordered newest-first (dynamic index 0 is the most
// recently inserted entry, matching RFC 7541's "dyn-index 62 is newest"
// once offset by StaticTableSize+1), bounded by a byte budget. Every
// entry's contribution to the budget is entryOverhead+len(name)+len(value).
//
// index lets Find answer "does this exact (name, value) already sit in the
// table" through an xxhash-keyed map instead of a scan of the FIFO. The
// index is rebuilt in full after every Insert and SetMaxSize; the decoder
// itself does not call Find.
type dynamicTable struct {
	entries []HeaderField // index 0 = newest
	size    uint32        // current total bytes (entryOverhead accounted)
	maxSize uint32        // current SETTINGS_HEADER_TABLE_SIZE budget
	index   map[uint64][]int
}

func newDynamicTable(maxSize uint32) *dynamicTable {
	return &dynamicTable{
		maxSize: maxSize,
		index:   make(map[uint64][]int),
	}
}

func hashField(name, value string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(value)
	return h.Sum64()
}

// Len returns the number of entries currently in the table.
func (t *dynamicTable) Len() int {
	return len(t.entries)
}

// Size returns the current byte budget consumption.
func (t *dynamicTable) Size() uint32 {
	return t.size
}

// MaxSize returns the table's configured byte budget.
func (t *dynamicTable) MaxSize() uint32 {
	return t.maxSize
}

// Get returns the entry at dynamic index i (0 = newest), or false if i is
// out of range.
func (t *dynamicTable) Get(i int) (HeaderField, bool) {
	if i < 0 || i >= len(t.entries) {
		return HeaderField{}, false
	}
	return t.entries[i], true
}

// Find reports whether (name, value) is already present, and its dynamic
// index if so. Duplicate insertion is legal in HPACK (every literal with
// incremental indexing always pushes a new entry) -- this is purely an
// accelerator so callers doing repeated-field analysis don't need to scan
// the FIFO by hand.
func (t *dynamicTable) Find(name, value string) (int, bool) {
	h := hashField(name, value)
	for _, idx := range t.index[h] {
		if idx < len(t.entries) && t.entries[idx].Name == name && t.entries[idx].Value == value {
			return idx, true
		}
	}
	return 0, false
}

// Insert adds a new entry at dynamic index 0, evicting the oldest entries
// until the budget is respected. An entry whose own size exceeds maxSize
// clears the table entirely without being inserted (RFC 7541 §4.4).
func (t *dynamicTable) Insert(name, value string) {
	f := HeaderField{Name: name, Value: value}
	sz := f.Size()
	if sz > t.maxSize {
		t.clear()
		return
	}
	for t.size+sz > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}
	t.entries = append([]HeaderField{f}, t.entries...)
	t.size += sz
	t.reindex()
}

func (t *dynamicTable) evictOldest() {
	last := len(t.entries) - 1
	t.size -= t.entries[last].Size()
	t.entries = t.entries[:last]
}

func (t *dynamicTable) clear() {
	t.entries = nil
	t.size = 0
	t.index = make(map[uint64][]int)
}

func (t *dynamicTable) reindex() {
	t.index = make(map[uint64][]int, len(t.entries))
	for i, f := range t.entries {
		h := hashField(f.Name, f.Value)
		t.index[h] = append(t.index[h], i)
	}
}

// SetMaxSize applies a new SETTINGS_HEADER_TABLE_SIZE-derived budget,
// evicting from the tail until the (possibly shrunk) budget is satisfied.
// Only entries that no longer fit are evicted; everything still within
// budget survives a resize (RFC 7541 §4.2).
func (t *dynamicTable) SetMaxSize(maxSize uint32) {
	t.maxSize = maxSize
	for t.size > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}
	t.reindex()
}
