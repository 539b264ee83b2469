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

package h2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrefaceThenSettingsHandshake walks through the connection-establishment
// handshake: preface match, then decoding the client's initial SETTINGS
// frame and applying it, then writing our own SETTINGS + ACK in reply.
func TestPrefaceThenSettingsHandshake(t *testing.T) {
	var wire []byte
	wire = append(wire, []byte(Preface)...)
	wire = WriteSettings(wire, []Setting{
		{ID: SettingMaxConcurrentStreams, Value: 64},
		{ID: SettingInitialWindowSize, Value: 1048576},
	})

	ok, needMore := MatchPreface(wire)
	require.True(t, ok)
	require.False(t, needMore)
	wire = wire[PrefaceLength:]

	f, n, err := ParseFrame(wire, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Equal(t, len(wire), n)

	settingsPayload, ok := f.Payload.(SettingsPayload)
	require.True(t, ok)
	require.False(t, settingsPayload.Ack)

	peerSettings := DefaultSettings()
	prevInitialWindow, err := peerSettings.Apply(settingsPayload.Settings)
	require.NoError(t, err)
	assert.Equal(t, DefaultInitialWindowSize, prevInitialWindow)
	assert.Equal(t, uint32(64), peerSettings.MaxConcurrentStreams)
	assert.Equal(t, uint32(1048576), peerSettings.InitialWindowSize)

	var reply []byte
	reply = WriteSettings(reply, DefaultSettings().ToWire())
	reply = WriteSettingsAck(reply)

	replyFrame1, n1, err := ParseFrame(reply, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Equal(t, FrameSettings, replyFrame1.Header.Type)
	replyFrame2, _, err := ParseFrame(reply[n1:], DefaultMaxFrameSize)
	require.NoError(t, err)
	ackPayload := replyFrame2.Payload.(SettingsPayload)
	assert.True(t, ackPayload.Ack)
}

// TestFlowControlOverflowScenario mirrors an endpoint that advertises a huge
// initial window and receives WINDOW_UPDATE increments that would overflow
// the 2^31-1 ceiling: the connection must be torn down with
// FLOW_CONTROL_ERROR rather than wrapping the counter.
func TestFlowControlOverflowScenario(t *testing.T) {
	mgr := NewStreamManager(DefaultMaxConcurrentStreams)
	s, err := mgr.CreateClientStream(1, MaxWindowSize-1, DefaultInitialWindowSize)
	require.NoError(t, err)

	buf := WriteWindowUpdate(nil, 1, 10)
	f, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	wu := f.Payload.(WindowUpdatePayload)

	err = s.SendWindow.Increase(wu.Increment)
	require.Error(t, err)
	e, ok := AsH2Error(err)
	require.True(t, ok)
	assert.Equal(t, ScopeConnection, e.Scope)
	assert.Equal(t, ErrCodeFlowControlError, e.Code)
}

// TestHeaderBlockSpanningContinuation exercises HEADERS+CONTINUATION
// reassembly of an HPACK header block split across two frames, the shape a
// large request-header set takes on the wire.
func TestHeaderBlockSpanningContinuation(t *testing.T) {
	full := []byte{0x82, 0x86, 0x84, 0x01, 0x0a} // :method, :scheme, :path, then a literal name index 1 truncated
	split := len(full) / 2

	headersBuf := WriteHeaders(nil, 1, full[:split], false, false)
	contBuf := WriteContinuation(nil, 1, full[split:], true)

	hf, hn, err := ParseFrame(headersBuf, DefaultMaxFrameSize)
	require.NoError(t, err)
	h := hf.Payload.(HeadersPayload)
	assert.False(t, h.EndHeaders)

	cf, cn, err := ParseFrame(contBuf, DefaultMaxFrameSize)
	require.NoError(t, err)
	c := cf.Payload.(ContinuationPayload)
	assert.True(t, c.EndHeaders)

	assert.Equal(t, len(headersBuf), hn)
	assert.Equal(t, len(contBuf), cn)

	reassembled := append(append([]byte{}, h.HeaderBlockFragment...), c.HeaderBlockFragment...)
	assert.Equal(t, full, reassembled)
}
