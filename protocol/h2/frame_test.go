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

func TestParseFrameHeader_Incomplete(t *testing.T) {
	_, _, err := ParseFrame([]byte{0x00, 0x00}, DefaultMaxFrameSize)
	require.Error(t, err)
	assert.True(t, IsIncomplete(err))
}

func TestParseFrame_PingRoundTrip(t *testing.T) {
	var buf []byte
	buf = WritePing(buf, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, false)

	f, n, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, FramePing, f.Header.Type)
	p, ok := f.Payload.(PingPayload)
	require.True(t, ok)
	assert.False(t, p.Ack)
	assert.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, p.Data)
}

func TestParseFrame_PingWrongStreamIsConnectionError(t *testing.T) {
	var buf []byte
	buf = WriteFrameHeader(buf, 8, FramePing, 0, 1)
	buf = append(buf, make([]byte, 8)...)

	_, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.Error(t, err)
	e, ok := AsH2Error(err)
	require.True(t, ok)
	assert.Equal(t, ScopeConnection, e.Scope)
	assert.Equal(t, ErrCodeProtocolError, e.Code)
}

func TestParseFrame_SettingsRoundTrip(t *testing.T) {
	settings := []Setting{
		{ID: SettingHeaderTableSize, Value: 4096},
		{ID: SettingMaxConcurrentStreams, Value: 250},
	}
	buf := WriteSettings(nil, settings)

	f, n, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	p, ok := f.Payload.(SettingsPayload)
	require.True(t, ok)
	assert.False(t, p.Ack)
	require.Len(t, p.Settings, 2)
	assert.Equal(t, settings[0], p.Settings[0])
	assert.Equal(t, settings[1], p.Settings[1])
}

func TestParseFrame_SettingsAckMustBeEmpty(t *testing.T) {
	var buf []byte
	buf = WriteFrameHeader(buf, 6, FrameSettings, FlagAck, 0)
	buf = append(buf, make([]byte, 6)...)

	_, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ErrCodeFrameSizeError, e.Code)
}

func TestParseFrame_DataWithPadding(t *testing.T) {
	var buf []byte
	payload := []byte{3, 'f', 'o', 'o', 0, 0, 0} // padLen=3, data="foo", 3 pad bytes
	buf = WriteFrameHeader(buf, uint32(len(payload)), FrameData, FlagPadded, 1)
	buf = append(buf, payload...)

	f, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	d, ok := f.Payload.(DataPayload)
	require.True(t, ok)
	assert.Equal(t, []byte("foo"), d.Data)
}

func TestParseFrame_DataOnStreamZeroIsConnectionError(t *testing.T) {
	buf := WriteFrameHeader(nil, 3, FrameData, 0, 0)
	buf = append(buf, []byte("foo")...)

	_, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ErrCodeProtocolError, e.Code)
}

func TestParseFrame_HeadersWithPriority(t *testing.T) {
	var payload []byte
	payload = append(payload, 0x80, 0x00, 0x00, 0x01) // exclusive, dep=1
	payload = append(payload, 16)                     // weight
	payload = append(payload, []byte("hdrblock")...)

	buf := WriteFrameHeader(nil, uint32(len(payload)), FrameHeaders, FlagPriority|FlagEndHeaders, 3)
	buf = append(buf, payload...)

	f, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	h, ok := f.Payload.(HeadersPayload)
	require.True(t, ok)
	assert.True(t, h.HasPriority)
	assert.True(t, h.PriorityExclusive)
	assert.Equal(t, uint32(1), h.PriorityStreamDep)
	assert.Equal(t, uint8(16), h.PriorityWeight)
	assert.Equal(t, []byte("hdrblock"), h.HeaderBlockFragment)
	assert.True(t, h.EndHeaders)
}

func TestParseFrame_RstStream(t *testing.T) {
	buf := WriteRstStream(nil, 5, ErrCodeCancel)
	f, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	r, ok := f.Payload.(RstStreamPayload)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCancel, r.ErrorCode)
}

func TestParseFrame_GoAway(t *testing.T) {
	buf := WriteGoAway(nil, 9, ErrCodeProtocolError, []byte("bye"))
	f, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	g, ok := f.Payload.(GoAwayPayload)
	require.True(t, ok)
	assert.Equal(t, uint32(9), g.LastStreamID)
	assert.Equal(t, ErrCodeProtocolError, g.ErrorCode)
	assert.Equal(t, []byte("bye"), g.DebugData)
}

func TestParseFrame_WindowUpdateZeroDeltaOnStreamIsStreamError(t *testing.T) {
	buf := WriteWindowUpdate(nil, 7, 0)
	_, _, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ScopeStream, e.Scope)
	assert.Equal(t, uint32(7), e.StreamID)
}

func TestParseFrame_ExceedsMaxFrameSize(t *testing.T) {
	buf := WriteFrameHeader(nil, MinMaxFrameSize+1, FrameData, 0, 1)
	buf = append(buf, make([]byte, MinMaxFrameSize+1)...)

	_, _, err := ParseFrame(buf, MinMaxFrameSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ErrCodeFrameSizeError, e.Code)
}

func TestParseFrame_UnknownTypeIsIgnored(t *testing.T) {
	buf := WriteFrameHeader(nil, 3, FrameType(0x7f), 0, 1)
	buf = append(buf, []byte("abc")...)

	f, n, err := ParseFrame(buf, DefaultMaxFrameSize)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	u, ok := f.Payload.(UnknownPayload)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), u.Raw)
}
