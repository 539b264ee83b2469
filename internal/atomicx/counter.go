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

// Package atomicx provides lock-free counters, bitmaps and a bounded stack
// used to back the fixed-capacity pools on the hot parse path.
package atomicx

import "sync/atomic"

// cacheLineSize is 64, the line size on essentially every contemporary
// x86-64 and most arm64 parts.
const cacheLineSize = 64

// Counter is a 64-bit counter padded to its own cache line so that several
// counters living next to each other (e.g. in a metrics struct) never false-share.
type Counter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// NewCounter returns a Counter initialized to v.
func NewCounter(v uint64) *Counter {
	return &Counter{value: v}
}

// Add adds delta and returns the new value.
func (c *Counter) Add(delta uint64) uint64 {
	return atomic.AddUint64(&c.value, delta)
}

// Sub subtracts delta and returns the new value.
func (c *Counter) Sub(delta uint64) uint64 {
	return atomic.AddUint64(&c.value, ^(delta - 1))
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Store sets the value.
func (c *Counter) Store(v uint64) {
	atomic.StoreUint64(&c.value, v)
}

// CompareAndSwap sets the value to new if it currently equals old, reporting
// whether the swap took place.
func (c *Counter) CompareAndSwap(old, new uint64) bool {
	return atomic.CompareAndSwapUint64(&c.value, old, new)
}
