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

package atomicx

import (
	"math/bits"
	"sync/atomic"
)

// Bitmap is a lock-free bitmap of N bits backed by 64-bit words. A set bit
// means "in use" everywhere this package's callers use it (the object pool
// sets a bit on acquire, clears it on release).
type Bitmap struct {
	bits []uint64
	size int
}

// NewBitmap returns a Bitmap covering size bits, all initially clear.
func NewBitmap(size int) *Bitmap {
	words := (size + 63) / 64
	if words == 0 {
		words = 1
	}
	return &Bitmap{
		bits: make([]uint64, words),
		size: size,
	}
}

// Set atomically sets bit i.
func (b *Bitmap) Set(i int) {
	w, m := i/64, uint64(1)<<uint(i%64)
	atomic.OrUint64(&b.bits[w], m)
}

// Clear atomically clears bit i.
func (b *Bitmap) Clear(i int) {
	w, m := i/64, uint64(1)<<uint(i%64)
	atomic.AndUint64(&b.bits[w], ^m)
}

// Test reports whether bit i is set.
func (b *Bitmap) Test(i int) bool {
	w, m := i/64, uint64(1)<<uint(i%64)
	return atomic.LoadUint64(&b.bits[w])&m != 0
}

// Count returns the number of set bits. Used by pool invariant checks and
// tests; not on any hot path.
func (b *Bitmap) Count() int {
	n := 0
	for i := range b.bits {
		n += bits.OnesCount64(atomic.LoadUint64(&b.bits[i]))
	}
	return n
}

// FindFirstClear returns the index of the first clear bit, or -1 if every
// bit in range is set.
func (b *Bitmap) FindFirstClear() int {
	for w := range b.bits {
		word := atomic.LoadUint64(&b.bits[w])
		if word == ^uint64(0) {
			continue
		}
		idx := w*64 + bits.TrailingZeros64(^word)
		if idx >= b.size {
			return -1
		}
		return idx
	}
	return -1
}

// FindAndSet atomically finds a clear bit and sets it, returning its index,
// or (-1, false) if every bit is set. Exactly one caller observes success
// for a given index: concurrent callers racing on the same word retry the
// CAS against that word only, never skipping to a different word on
// contention, so no two callers can claim the same bit.
func (b *Bitmap) FindAndSet() (int, bool) {
	for w := range b.bits {
		for {
			word := atomic.LoadUint64(&b.bits[w])
			if word == ^uint64(0) {
				break // word full, try next
			}
			bit := bits.TrailingZeros64(^word)
			idx := w*64 + bit
			if idx >= b.size {
				break
			}
			next := word | (uint64(1) << uint(bit))
			if atomic.CompareAndSwapUint64(&b.bits[w], word, next) {
				return idx, true
			}
			// lost the race on this word; reload and retry the same word
		}
	}
	return -1, false
}

// Size returns the number of bits the bitmap covers.
func (b *Bitmap) Size() int {
	return b.size
}
