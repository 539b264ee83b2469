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
	"testing"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		ActiveConnections: 4,
		RequestsTotal:     128,
		BytesReadTotal:    4096,
		BytesWrittenTotal: 8192,
		PoolHitRate:       0.91,
		PanicTotal:        2,
	}
}

func TestBuildWriteRequest_OneSeriesPerMetric(t *testing.T) {
	wr := BuildWriteRequest(testSnapshot(), "httpcored-1", time.Unix(1700000000, 0))

	require.Len(t, wr.Timeseries, len(seriesNames))
	for _, ts := range wr.Timeseries {
		require.Len(t, ts.Samples, 1)

		var name, instance string
		for _, l := range ts.Labels {
			switch l.Name {
			case "__name__":
				name = l.Value
			case "instance":
				instance = l.Value
			}
		}
		require.NotEmpty(t, name)
		require.Equal(t, "httpcored-1", instance)
	}
}

func TestRemoteWrite_MarshalSnappyRoundTrip(t *testing.T) {
	wr := BuildWriteRequest(testSnapshot(), "httpcored-1", time.Now())

	marshaled, err := Marshal(wr)
	require.NoError(t, err)
	require.NotEmpty(t, marshaled)

	compressed := Compress(marshaled)
	require.NotEmpty(t, compressed)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, marshaled, decompressed)

	var roundTripped prompb.WriteRequest
	require.NoError(t, proto.Unmarshal(decompressed, &roundTripped))
	require.Len(t, roundTripped.Timeseries, len(wr.Timeseries))
}
