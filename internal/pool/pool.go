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

// Package pool implements the fixed-capacity object and buffer pools that
// back the zero-allocation hot paths of the protocol core: a lock-free
// object pool with scoped release-on-drop handles, a tiered buffer pool,
// and specialized HTTP request/response/header pools built on top of both.
package pool

import (
	"github.com/packetd/httpcore/internal/atomicx"
)

const poolFallbackIndex = ^uint32(0)

// PooledObject is a scoped handle on one slot of an ObjectPool. Go has no
// destructors, so callers must call Release explicitly, typically via
// `defer obj.Release()`.
type PooledObject[T any] struct {
	value   T
	pool    *ObjectPool[T]
	index   uint32
	release bool
}

// Value returns the pooled object.
func (p *PooledObject[T]) Value() T {
	return p.value
}

// Release resets (if a reset function is registered) and returns the slot
// to the pool. A handle obtained via GetOrCreate's fallback path (pool was
// exhausted) is simply dropped: it was never tracked in the bitmap.
func (p *PooledObject[T]) Release() {
	if p == nil || p.release {
		return
	}
	p.release = true
	p.pool.put(p.index, p.value)
}

// PoolMetrics tracks pool usage for observability.
type PoolMetrics struct {
	Requests *atomicx.Counter
	Hits     *atomicx.Counter
	Misses   *atomicx.Counter
	Returns  *atomicx.Counter
}

func newPoolMetrics() *PoolMetrics {
	return &PoolMetrics{
		Requests: atomicx.NewCounter(0),
		Hits:     atomicx.NewCounter(0),
		Misses:   atomicx.NewCounter(0),
		Returns:  atomicx.NewCounter(0),
	}
}

// HitRate returns hits/requests, or 0 if there have been no requests.
func (m *PoolMetrics) HitRate() float64 {
	requests := m.Requests.Load()
	if requests == 0 {
		return 0
	}
	return float64(m.Hits.Load()) / float64(requests)
}

// ObjectPool is a fixed-capacity, lock-free pool of pre-constructed
// objects. Slots are tracked by an atomic bitmap: a set bit means the slot
// is in use. At any instant, the number of set bits equals the number of
// live handles bound to pool slots (PooledObjects obtained through the
// fallback path are excluded, since they were never assigned a slot).
//
// T is expected to be a pointer (or other reference) type: Get hands out
// the same T value minted by factory for the life of the slot, and reset
// mutates it in place before the slot is reused.
type ObjectPool[T any] struct {
	objects   []T
	available *atomicx.Bitmap
	factory   func() T
	reset     func(T)
	metrics   *PoolMetrics
}

// NewObjectPool returns a pool of capacity objects, all pre-built by factory.
func NewObjectPool[T any](capacity int, factory func() T) *ObjectPool[T] {
	return NewObjectPoolWithReset(capacity, factory, nil)
}

// NewObjectPoolWithReset is like NewObjectPool but applies reset to an
// object immediately before it is returned to the pool.
func NewObjectPoolWithReset[T any](capacity int, factory func() T, reset func(T)) *ObjectPool[T] {
	objects := make([]T, capacity)
	for i := range objects {
		objects[i] = factory()
	}
	return &ObjectPool[T]{
		objects:   objects,
		available: atomicx.NewBitmap(capacity),
		factory:   factory,
		reset:     reset,
		metrics:   newPoolMetrics(),
	}
}

// Get reserves a slot, or returns (nil, false) if the pool is exhausted.
func (p *ObjectPool[T]) Get() (*PooledObject[T], bool) {
	p.metrics.Requests.Add(1)

	idx, ok := p.available.FindAndSet()
	if !ok {
		p.metrics.Misses.Add(1)
		return nil, false
	}
	p.metrics.Hits.Add(1)
	return &PooledObject[T]{value: p.objects[idx], pool: p, index: uint32(idx)}, true
}

// GetOrCreate is like Get but falls back to a freshly constructed object
// (not tracked by the bitmap, and not returned to the pool on Release) when
// the pool is exhausted.
func (p *ObjectPool[T]) GetOrCreate() *PooledObject[T] {
	if obj, ok := p.Get(); ok {
		return obj
	}
	return &PooledObject[T]{value: p.factory(), pool: p, index: poolFallbackIndex}
}

func (p *ObjectPool[T]) put(index uint32, value T) {
	if index == poolFallbackIndex {
		return
	}
	p.metrics.Returns.Add(1)
	if p.reset != nil {
		p.reset(value)
	}
	p.objects[index] = value
	p.available.Clear(int(index))
}

// Metrics returns the pool's usage counters.
func (p *ObjectPool[T]) Metrics() *PoolMetrics {
	return p.metrics
}

// Capacity returns the pool's fixed capacity.
func (p *ObjectPool[T]) Capacity() int {
	return len(p.objects)
}

// InUse returns the number of slots currently checked out. Used by tests
// asserting the bitmap/live-handle invariant.
func (p *ObjectPool[T]) InUse() int {
	return p.available.Count()
}
