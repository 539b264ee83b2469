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

// Package metrics is the process-wide metrics surface: live
// prometheus.Gauge/Counter collectors scraped by adminserver's /metrics
// text endpoint, plus a Snapshot of the same values for the remote-write
// export path in remotewrite.go.
package metrics

import (
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/httpcore/common"
)

// Registry is the set of process-wide counters and gauges every listener's
// Connections update as they run. One Registry is constructed per process
// and shared (read-mostly, lock-free) across every worker goroutine.
type Registry struct {
	activeConnections prometheus.Gauge
	requestsTotal     prometheus.Counter
	bytesReadTotal    prometheus.Counter
	bytesWrittenTotal prometheus.Counter
	poolHitRate       prometheus.Gauge

	// active/requests/bytesRead/bytesWritten mirror the prometheus
	// collectors above in plain atomics so Snapshot can read them back
	// without depending on client_golang's internal collector state, which
	// is write-only from this package's perspective.
	active       atomic.Int64
	requests     atomic.Uint64
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	poolHitBits  atomic.Uint64
}

// NewRegistry constructs a Registry and registers its collectors on reg. A
// nil reg registers on prometheus.DefaultRegisterer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Registry{
		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "active_connections",
			Help:      "number of connections currently owned by a worker goroutine",
		}),
		requestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "requests_total",
			Help:      "total number of requests decoded across HTTP/1.1 and HTTP/2",
		}),
		bytesReadTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_read_total",
			Help:      "total bytes read from connection transports",
		}),
		bytesWrittenTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "bytes_written_total",
			Help:      "total bytes written to connection transports",
		}),
		poolHitRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "pool_hit_rate",
			Help:      "most recently observed object/buffer pool hit rate",
		}),
	}
}

// ConnectionOpened records a new connection taking up residence on a worker.
func (r *Registry) ConnectionOpened() {
	r.activeConnections.Inc()
	r.active.Add(1)
}

// ConnectionClosed records a connection leaving Closing for good.
func (r *Registry) ConnectionClosed() {
	r.activeConnections.Dec()
	r.active.Add(-1)
}

// RequestServed records one decoded request, HTTP/1.1 or HTTP/2.
func (r *Registry) RequestServed() {
	r.requestsTotal.Inc()
	r.requests.Add(1)
}

// BytesTransferred records bytes observed on a connection's transport in
// either direction since the last call.
func (r *Registry) BytesTransferred(read, written uint64) {
	if read > 0 {
		r.bytesReadTotal.Add(float64(read))
		r.bytesRead.Add(read)
	}
	if written > 0 {
		r.bytesWrittenTotal.Add(float64(written))
		r.bytesWritten.Add(written)
	}
}

// SetPoolHitRate records the most recent hit rate observed from a
// pool.PoolMetrics snapshot.
func (r *Registry) SetPoolHitRate(rate float64) {
	r.poolHitRate.Set(rate)
	r.poolHitBits.Store(math.Float64bits(rate))
}

// Snapshot is a point-in-time read of every metric Registry tracks,
// suitable for building a remote-write WriteRequest.
type Snapshot struct {
	ActiveConnections float64
	RequestsTotal     float64
	BytesReadTotal    float64
	BytesWrittenTotal float64
	PoolHitRate       float64
	PanicTotal        float64
}

// Snapshot reads every tracked metric's current value. panicTotal is
// supplied by the caller since panic counting lives in internal/rescue, a
// separate process-wide counter this package does not own.
func (r *Registry) Snapshot(panicTotal float64) Snapshot {
	return Snapshot{
		ActiveConnections: float64(r.active.Load()),
		RequestsTotal:     float64(r.requests.Load()),
		BytesReadTotal:    float64(r.bytesRead.Load()),
		BytesWrittenTotal: float64(r.bytesWritten.Load()),
		PoolHitRate:       math.Float64frombits(r.poolHitBits.Load()),
		PanicTotal:        panicTotal,
	}
}
