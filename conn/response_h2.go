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
	"strconv"

	"github.com/packetd/httpcore/protocol/h1"
	"github.com/packetd/httpcore/protocol/h2"
	"github.com/packetd/httpcore/protocol/hpack"
)

var h2Encoder = hpack.NewEncoder()

// WriteH2Response encodes status/headers/body as a HEADERS frame (plus a
// DATA frame if body is non-empty) on streamID and queues them for
// flushing, checking the stream's send window before consuming it. The
// stream transitions to HalfClosedLocal (or Closed, if the peer already
// half-closed its side) once the response is fully queued.
func (c *Connection) WriteH2Response(streamID uint32, status int, headers h1.Headers, body []byte) (Action, error) {
	s, ok := c.H2.Streams.Get(streamID)
	if !ok {
		return ActionContinue, errConn("WriteH2Response: unknown stream %d", streamID)
	}

	fields := make([]hpack.HeaderField, 0, len(headers)+1)
	fields = append(fields, hpack.HeaderField{Name: ":status", Value: strconv.Itoa(status)})
	for _, h := range headers {
		fields = append(fields, hpack.HeaderField{Name: h.Name, Value: h.Value})
	}
	block := h2Encoder.EncodeList(nil, fields)

	endStream := len(body) == 0
	c.outbuf = h2.WriteHeaders(c.outbuf, streamID, block, endStream, true)

	if len(body) > 0 {
		if err := c.H2.SendWindow.Consume(uint32(len(body))); err != nil {
			return ActionContinue, err
		}
		if err := s.SendWindow.Consume(uint32(len(body))); err != nil {
			return ActionContinue, err
		}
		c.outbuf = h2.WriteData(c.outbuf, streamID, body, true)
	}

	next := h2.StreamHalfClosedLocal
	if s.State == h2.StreamHalfClosedRemote {
		next = h2.StreamClosed
	}
	if err := c.H2.Streams.Transition(streamID, next); err != nil {
		return ActionContinue, err
	}
	return ActionFlush, nil
}

// ResetStream queues an RST_STREAM with the given error code and closes
// the stream's bookkeeping.
func (c *Connection) ResetStream(streamID uint32, code h2.ErrCode) Action {
	c.outbuf = h2.WriteRstStream(c.outbuf, streamID, code)
	c.H2.Streams.Close(streamID)
	return ActionFlush
}
