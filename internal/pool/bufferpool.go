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

package pool

const (
	smallBufferCap  = 4 << 10  // 4 KiB
	mediumBufferCap = 64 << 10 // 64 KiB
	largeBufferCap  = 1 << 20  // 1 MiB

	smallBufferCount  = 256
	mediumBufferCount = 64
	largeBufferCount  = 16
)

// Buffer is a reusable, growable byte buffer. It is always handed out and
// returned as a pointer so ObjectPool's release-and-reset path can mutate
// it in place.
type Buffer struct {
	B []byte
}

func newBuffer(capacity int) func() *Buffer {
	return func() *Buffer {
		return &Buffer{B: make([]byte, 0, capacity)}
	}
}

func resetBuffer(b *Buffer) {
	b.B = b.B[:0]
}

// BufferPool is the tiered byte-buffer pool: 4 KiB x256, 64 KiB x64, 1 MiB
// x16. Get always succeeds -- on tier exhaustion it falls back to a fresh
// allocation of the tier's capacity, same as ObjectPool.GetOrCreate.
type BufferPool struct {
	small  *ObjectPool[*Buffer]
	medium *ObjectPool[*Buffer]
	large  *ObjectPool[*Buffer]
}

// NewBufferPool constructs the three tiers.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small:  NewObjectPoolWithReset(smallBufferCount, newBuffer(smallBufferCap), resetBuffer),
		medium: NewObjectPoolWithReset(mediumBufferCount, newBuffer(mediumBufferCap), resetBuffer),
		large:  NewObjectPoolWithReset(largeBufferCount, newBuffer(largeBufferCap), resetBuffer),
	}
}

// Get returns a buffer with capacity at least minSize, routed to the
// smallest tier that satisfies it.
func (p *BufferPool) Get(minSize int) *PooledObject[*Buffer] {
	switch {
	case minSize <= smallBufferCap:
		return p.small.GetOrCreate()
	case minSize <= mediumBufferCap:
		return p.medium.GetOrCreate()
	default:
		return p.large.GetOrCreate()
	}
}

// BufferPoolMetrics reports per-tier usage.
type BufferPoolMetrics struct {
	Small, Medium, Large *PoolMetrics
}

// Metrics returns per-tier pool metrics.
func (p *BufferPool) Metrics() BufferPoolMetrics {
	return BufferPoolMetrics{
		Small:  p.small.Metrics(),
		Medium: p.medium.Metrics(),
		Large:  p.large.Metrics(),
	}
}
