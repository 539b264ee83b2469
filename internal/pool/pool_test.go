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

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	n int
}

func TestObjectPoolGetRelease(t *testing.T) {
	p := NewObjectPool(4, func() *widget { return &widget{} })

	obj, ok := p.Get()
	require.True(t, ok)
	require.Equal(t, 1, p.InUse())

	obj.Value().n = 42
	obj.Release()
	require.Equal(t, 0, p.InUse())

	// Release is idempotent.
	obj.Release()
	require.Equal(t, 0, p.InUse())
}

func TestObjectPoolExhaustion(t *testing.T) {
	p := NewObjectPool(2, func() *widget { return &widget{} })

	o1, ok := p.Get()
	require.True(t, ok)
	o2, ok := p.Get()
	require.True(t, ok)
	_, ok = p.Get()
	require.False(t, ok, "pool of capacity 2 should be exhausted after 2 gets")

	o1.Release()
	o3, ok := p.Get()
	require.True(t, ok, "releasing a slot should make it available again")

	o2.Release()
	o3.Release()
}

func TestObjectPoolGetOrCreateFallback(t *testing.T) {
	p := NewObjectPool(1, func() *widget { return &widget{} })

	o1, ok := p.Get()
	require.True(t, ok)

	fallback := p.GetOrCreate()
	require.NotNil(t, fallback.Value())
	require.Equal(t, 1, p.InUse(), "fallback object must not occupy a bitmap slot")

	fallback.Release()
	require.Equal(t, 1, p.InUse(), "releasing a fallback object is a no-op")

	o1.Release()
	require.Equal(t, 0, p.InUse())
}

func TestObjectPoolResetOnReturn(t *testing.T) {
	resetCalls := 0
	p := NewObjectPoolWithReset(2,
		func() *widget { return &widget{} },
		func(w *widget) {
			resetCalls++
			w.n = 0
		},
	)

	obj, _ := p.Get()
	obj.Value().n = 99
	obj.Release()
	require.Equal(t, 1, resetCalls)

	obj2, _ := p.Get()
	require.Equal(t, 0, obj2.Value().n, "reset must run before the slot is handed out again")
}

func TestObjectPoolHitRate(t *testing.T) {
	p := NewObjectPool(2, func() *widget { return &widget{} })

	o1, _ := p.Get()
	o2, _ := p.Get()
	_, ok := p.Get() // miss
	require.False(t, ok)

	m := p.Metrics()
	require.Equal(t, uint64(3), m.Requests.Load())
	require.Equal(t, uint64(2), m.Hits.Load())
	require.Equal(t, uint64(1), m.Misses.Load())
	require.InDelta(t, float64(2)/float64(3), m.HitRate(), 1e-9)

	o1.Release()
	o2.Release()
}

func TestObjectPoolConcurrent(t *testing.T) {
	const capacity = 16
	const workers = 64
	const iterations = 200

	p := NewObjectPool(capacity, func() *widget { return &widget{} })

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				obj := p.GetOrCreate()
				obj.Value().n++
				obj.Release()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 0, p.InUse())
}

func TestBufferPoolTiers(t *testing.T) {
	bp := NewBufferPool()

	small := bp.Get(1024)
	require.GreaterOrEqual(t, cap(small.Value().B), smallBufferCap)
	small.Release()

	medium := bp.Get(32 << 10)
	require.GreaterOrEqual(t, cap(medium.Value().B), mediumBufferCap)
	medium.Release()

	large := bp.Get(256 << 10)
	require.GreaterOrEqual(t, cap(large.Value().B), largeBufferCap)
	large.Release()

	m := bp.Metrics()
	require.Equal(t, uint64(1), m.Small.Requests.Load())
	require.Equal(t, uint64(1), m.Medium.Requests.Load())
	require.Equal(t, uint64(1), m.Large.Requests.Load())
}

func TestBufferPoolResetsLength(t *testing.T) {
	bp := NewBufferPool()

	b := bp.Get(64)
	b.Value().B = append(b.Value().B, []byte("hello")...)
	require.Equal(t, 5, len(b.Value().B))
	b.Release()

	b2 := bp.Get(64)
	require.Equal(t, 0, len(b2.Value().B), "returned buffer must be reset to zero length")
	b2.Release()
}

func TestBufferPoolExhaustionFallback(t *testing.T) {
	bp := NewBufferPool()

	held := make([]*PooledObject[*Buffer], 0, largeBufferCount+1)
	for i := 0; i < largeBufferCount; i++ {
		held = append(held, bp.Get(512<<10))
	}
	require.Equal(t, largeBufferCount, bp.large.InUse())

	// One more: pool is exhausted, Get must still succeed via fallback.
	extra := bp.Get(512 << 10)
	require.NotNil(t, extra.Value())
	require.Equal(t, largeBufferCount, bp.large.InUse(), "fallback allocation must not grow InUse")

	for _, h := range held {
		h.Release()
	}
	extra.Release()
}

func TestHTTPObjectPoolRequestResetOnReuse(t *testing.T) {
	hp := NewHTTPObjectPool()

	req := hp.Requests.GetOrCreate()
	req.Value().Method = "GET"
	req.Value().URI = "/foo"
	req.Value().Headers = append(req.Value().Headers, HeaderField{Name: "Host", Value: "example.com"})
	req.Value().Body = append(req.Value().Body, []byte("payload")...)
	req.Release()

	req2 := hp.Requests.GetOrCreate()
	require.Equal(t, "", req2.Value().Method)
	require.Equal(t, "", req2.Value().URI)
	require.Len(t, req2.Value().Headers, 0)
	require.Len(t, req2.Value().Body, 0)
	req2.Release()
}

func TestHTTPObjectPoolResponseResetOnReuse(t *testing.T) {
	hp := NewHTTPObjectPool()

	resp := hp.Responses.GetOrCreate()
	resp.Value().Status = 404
	resp.Value().Headers = append(resp.Value().Headers, HeaderField{Name: "Content-Type", Value: "text/plain"})
	resp.Release()

	resp2 := hp.Responses.GetOrCreate()
	require.Equal(t, 200, resp2.Value().Status, "reset restores the default status")
	require.Len(t, resp2.Value().Headers, 0)
	resp2.Release()
}

func TestHTTPObjectPoolHeaderSliceResetOnReuse(t *testing.T) {
	hp := NewHTTPObjectPool()

	hdrs := hp.Headers.GetOrCreate()
	*hdrs.Value() = append(*hdrs.Value(), HeaderField{Name: "X-A", Value: "1"})
	hdrs.Release()

	hdrs2 := hp.Headers.GetOrCreate()
	require.Len(t, *hdrs2.Value(), 0)
	hdrs2.Release()
}
