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

package conn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/packetd/httpcore/internal/pubsub"
)

func noopSpan() trace.Span {
	return trace.SpanFromContext(context.Background())
}

func newTestConnection(t *testing.T, alpn string) (*Connection, *fakeTransport, *pubsub.PubSub) {
	t.Helper()
	tr := &fakeTransport{alpn: alpn}
	ps := pubsub.New()
	c := New(tr, DefaultConfig(), ps, noopSpan())
	return c, tr, ps
}

func TestNew_DetectingByDefault(t *testing.T) {
	c, _, _ := newTestConnection(t, "")
	assert.Equal(t, ProtocolDetecting, c.Protocol)
	assert.NotEmpty(t, c.ID)
}

func TestNew_ALPNSelectsProtocolImmediately(t *testing.T) {
	c, _, _ := newTestConnection(t, "h2")
	assert.Equal(t, ProtocolH2, c.Protocol)

	c2, _, _ := newTestConnection(t, "http/1.1")
	assert.Equal(t, ProtocolH1, c2.Protocol)
}

func TestProcessDetecting_SniffsHTTP1(t *testing.T) {
	c, _, _ := newTestConnection(t, "")
	c.Feed([]byte("GET / HTTP/1.1\r\n"))

	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, act)
	assert.Equal(t, ProtocolH1, c.Protocol)
}

func TestProcessDetecting_NeedsMoreOnShortPrefix(t *testing.T) {
	c, _, _ := newTestConnection(t, "")
	c.Feed([]byte("PRI * HTTP"))

	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionNeedMore, act)
	assert.Equal(t, ProtocolDetecting, c.Protocol)
}

func TestProcessDetecting_SniffsHTTP2Preface(t *testing.T) {
	c, _, _ := newTestConnection(t, "")
	c.Feed([]byte("PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"))

	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, act)
	assert.Equal(t, ProtocolH2, c.Protocol)
}

func TestIdleFor(t *testing.T) {
	c, _, _ := newTestConnection(t, "")
	assert.GreaterOrEqual(t, c.IdleFor().Seconds(), float64(0))
}
