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

package main

import (
	"bufio"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/packetd/httpcore/conn"
	"github.com/packetd/httpcore/internal/pool"
	"github.com/packetd/httpcore/metrics"
)

func newTestListener() *listener {
	registry := metrics.NewRegistry(prometheus.NewRegistry())
	return newListener("test", nil, conn.DefaultConfig(), pool.NewBufferPool(), pool.NewHTTPObjectPool(), registry)
}

func TestHandle_HTTP1RequestGetsJSONOK(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	l := newTestListener()
	done := make(chan struct{})
	go func() {
		l.handle(server)
		close(done)
	}()

	_ = client.SetDeadline(time.Now().Add(5 * time.Second))
	_, err := client.Write([]byte("GET /widgets HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := make([]byte, 256)
	n, _ := resp.Body.Read(body)
	require.Contains(t, string(body[:n]), `"target":"/widgets"`)

	client.Close()
	<-done
}

func TestTcpTransport_ALPNAlwaysAbsent(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	tr := tcpTransport{Conn: server}
	_, ok := tr.ALPN()
	require.False(t, ok)
	require.NoError(t, tr.Flush())
}
