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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/httpcore/protocol/h1"
)

func TestProcessH1_DecodesRequestAndPublishesEvent(t *testing.T) {
	c, _, ps := newTestConnection(t, "http/1.1")
	q := ps.Subscribe(4)

	c.Feed([]byte("GET /widgets HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n"))
	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionNeedMore, act)
	assert.Equal(t, uint64(1), c.H1.ServedRequests)
	assert.True(t, c.H1.KeepAlive)

	msg, ok := q.PopTimeout(time.Second)
	require.True(t, ok)
	ev, ok := msg.(RequestReceivedEvent)
	require.True(t, ok)
	assert.Equal(t, "GET", ev.Method)
	assert.Equal(t, "/widgets", ev.Target)
}

func TestProcessH1_PipelinedRequestsContinue(t *testing.T) {
	c, _, _ := newTestConnection(t, "http/1.1")

	one := "GET /a HTTP/1.1\r\nHost: x\r\n\r\n"
	two := "GET /b HTTP/1.1\r\nHost: x\r\n\r\n"
	c.Feed([]byte(one + two))

	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, act)

	act, err = c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionNeedMore, act)
	assert.Equal(t, uint64(2), c.H1.ServedRequests)
}

func TestProcessH1_MalformedRequestClosesConnection(t *testing.T) {
	c, _, _ := newTestConnection(t, "http/1.1")
	c.Feed([]byte("GET /x HTTP/1.1\r\nContent-Length: 5\r\nTransfer-Encoding: chunked\r\n\r\n"))

	act, err := c.Process()
	require.NoError(t, err)
	assert.Equal(t, ActionClose, act)
	assert.Equal(t, ProtocolClosing, c.Protocol)
	assert.Contains(t, string(c.PendingWrite()), "400")
}

func TestWriteResponse_KeepAliveFalseCloses(t *testing.T) {
	c, _, _ := newTestConnection(t, "http/1.1")
	c.Feed([]byte("GET /x HTTP/1.0\r\n\r\n"))
	_, err := c.Process()
	require.NoError(t, err)
	assert.False(t, c.H1.KeepAlive)

	act, err := c.WriteResponse(&h1.Response{Status: 200, Body: []byte("ok")})
	require.NoError(t, err)
	assert.Equal(t, ActionClose, act)
	assert.Contains(t, string(c.PendingWrite()), "200 OK")
}

func TestWriteResponse_KeepAliveTrueFlushes(t *testing.T) {
	c, _, _ := newTestConnection(t, "http/1.1")
	c.Feed([]byte("GET /x HTTP/1.1\r\nHost: x\r\n\r\n"))
	_, err := c.Process()
	require.NoError(t, err)
	require.True(t, c.H1.KeepAlive)

	act, err := c.WriteResponse(&h1.Response{Status: 204})
	require.NoError(t, err)
	assert.Equal(t, ActionFlush, act)
	assert.Equal(t, ProtocolH1, c.Protocol)
}
