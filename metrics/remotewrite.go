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

package metrics

import (
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/prompb"
)

// seriesNames lists Snapshot's fields in the fixed order BuildWriteRequest
// walks them, each paired with the metric name it is exported under.
var seriesNames = []struct {
	name  string
	value func(Snapshot) float64
}{
	{"httpcored_active_connections", func(s Snapshot) float64 { return s.ActiveConnections }},
	{"httpcored_requests_total", func(s Snapshot) float64 { return s.RequestsTotal }},
	{"httpcored_bytes_read_total", func(s Snapshot) float64 { return s.BytesReadTotal }},
	{"httpcored_bytes_written_total", func(s Snapshot) float64 { return s.BytesWrittenTotal }},
	{"httpcored_pool_hit_rate", func(s Snapshot) float64 { return s.PoolHitRate }},
	{"httpcored_panic_total", func(s Snapshot) float64 { return s.PanicTotal }},
}

// BuildWriteRequest renders snap as a Prometheus remote-write WriteRequest,
// one TimeSeries per tracked metric, each sample stamped at ts. instance is
// attached to every series as an extra label identifying the exporting
// process.
func BuildWriteRequest(snap Snapshot, instance string, ts time.Time) *prompb.WriteRequest {
	timestampMs := ts.UnixMilli()
	series := make([]prompb.TimeSeries, 0, len(seriesNames))
	for _, s := range seriesNames {
		lbs := labels.FromStrings(
			"__name__", s.name,
			"instance", instance,
		)
		series = append(series, prompb.TimeSeries{
			Labels: toPrompbLabels(lbs),
			Samples: []prompb.Sample{{
				Value:     s.value(snap),
				Timestamp: timestampMs,
			}},
		})
	}
	return &prompb.WriteRequest{Timeseries: series}
}

func toPrompbLabels(lbs labels.Labels) []prompb.Label {
	out := make([]prompb.Label, 0, lbs.Len())
	lbs.Range(func(l labels.Label) {
		out = append(out, prompb.Label{Name: l.Name, Value: l.Value})
	})
	return out
}

// Marshal renders wr as the protobuf wire bytes Prometheus remote-write
// expects, via gogo/protobuf -- the code generator prompb.WriteRequest is
// built with.
func Marshal(wr *prompb.WriteRequest) ([]byte, error) {
	return proto.Marshal(wr)
}

// Compress snappy-block-compresses b, matching the Content-Encoding: snappy
// framing real Prometheus remote-write clients send.
func Compress(b []byte) []byte {
	return snappy.Encode(nil, b)
}

// Decompress reverses Compress.
func Decompress(b []byte) ([]byte, error) {
	return snappy.Decode(nil, b)
}
