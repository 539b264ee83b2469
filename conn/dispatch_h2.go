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
	"github.com/packetd/httpcore/protocol/h1"
	"github.com/packetd/httpcore/protocol/h2"
)

// processH2 decodes and dispatches one frame from the buffer, queuing
// whatever reply frames (SETTINGS ACK, PING ACK, GOAWAY, RST_STREAM) the
// RFC requires. Returning ActionContinue signals the caller there may be
// another complete frame already buffered.
func (c *Connection) processH2() (Action, error) {
	if !c.H2.SentOwnSettings {
		c.outbuf = h2.WriteSettings(c.outbuf, c.H2.OwnSettings.ToWire())
		c.H2.SentOwnSettings = true
	}

	f, n, err := h2.ParseFrame(c.inbuf, c.H2.OwnSettings.MaxFrameSize)
	if err != nil {
		if h2.IsIncomplete(err) {
			c.H2.Streams.Sweep()
			return ActionNeedMore, nil
		}
		return c.rejectH2(err)
	}
	c.inbuf = c.inbuf[n:]

	if cs := c.H2.ContinuationStream; cs != 0 {
		if f.Header.Type != h2.FrameContinuation || f.Header.StreamID != cs {
			return c.rejectH2(h2.ErrConnection(h2.ErrCodeProtocolError,
				"expected CONTINUATION on stream %d, got %s on stream %d", cs, f.Header.Type, f.Header.StreamID))
		}
	}

	var act Action
	switch p := f.Payload.(type) {
	case h2.SettingsPayload:
		act, err = c.handleSettings(p)
	case h2.PingPayload:
		act, err = c.handlePing(p)
	case h2.HeadersPayload:
		act, err = c.handleHeaders(f.Header, p)
	case h2.ContinuationPayload:
		act, err = c.handleContinuation(f.Header.StreamID, p)
	case h2.DataPayload:
		act, err = c.handleData(f.Header, p)
	case h2.WindowUpdatePayload:
		act, err = c.handleWindowUpdate(f.Header.StreamID, p)
	case h2.RstStreamPayload:
		c.H2.Streams.Close(f.Header.StreamID)
		act = ActionContinue
	case h2.GoAwayPayload:
		return c.closeWith("peer sent GOAWAY")
	case h2.PriorityPayload, h2.PushPromisePayload, h2.UnknownPayload:
		act = ActionContinue
	default:
		act = ActionContinue
	}
	if err != nil {
		return c.rejectH2(err)
	}
	if len(c.inbuf) > 0 && act == ActionContinue {
		return ActionContinue, nil
	}
	if len(c.outbuf) > 0 {
		return ActionFlush, nil
	}
	return act, nil
}

// rejectH2 translates a fatal h2.Error into the appropriate RST_STREAM or
// GOAWAY wire reply and either continues (stream-scoped) or closes
// (connection-scoped).
func (c *Connection) rejectH2(err error) (Action, error) {
	e, ok := h2.AsH2Error(err)
	if !ok {
		c.closeCode = CodeInternalError
		c.outbuf = h2.WriteGoAway(c.outbuf, c.H2.LastPeerStreamID, h2.ErrCodeInternalError, nil)
		return c.closeWith(err.Error())
	}
	switch e.Scope {
	case h2.ScopeStream:
		c.outbuf = h2.WriteRstStream(c.outbuf, e.StreamID, e.Code)
		c.H2.Streams.Close(e.StreamID)
		if len(c.inbuf) > 0 {
			return ActionContinue, nil
		}
		return ActionFlush, nil
	default:
		c.closeCode = Classify(err)
		c.outbuf = h2.WriteGoAway(c.outbuf, c.H2.LastPeerStreamID, e.Code, nil)
		return c.closeWith(err.Error())
	}
}

func (c *Connection) handleSettings(p h2.SettingsPayload) (Action, error) {
	if p.Ack {
		c.H2.PeerAckedSettings = true
		return ActionContinue, nil
	}
	prevInitial, err := c.H2.PeerSettings.Apply(p.Settings)
	if err != nil {
		return ActionContinue, err
	}
	delta := int64(c.H2.PeerSettings.InitialWindowSize) - int64(prevInitial)
	if delta != 0 {
		if err := c.H2.Streams.ApplyInitialWindowDelta(delta); err != nil {
			return ActionContinue, err
		}
	}
	c.outbuf = h2.WriteSettingsAck(c.outbuf)
	return ActionContinue, nil
}

func (c *Connection) handlePing(p h2.PingPayload) (Action, error) {
	if p.Ack {
		return ActionContinue, nil
	}
	c.outbuf = h2.WritePing(c.outbuf, p.Data, true)
	return ActionContinue, nil
}

func (c *Connection) streamFor(streamID uint32) (*h2.Stream, error) {
	if s, ok := c.H2.Streams.Get(streamID); ok {
		return s, nil
	}
	return c.H2.Streams.CreateClientStream(streamID, c.H2.PeerSettings.InitialWindowSize, c.H2.OwnSettings.InitialWindowSize)
}

func (c *Connection) handleHeaders(hdr h2.FrameHeader, p h2.HeadersPayload) (Action, error) {
	s, err := c.streamFor(hdr.StreamID)
	if err != nil {
		return ActionContinue, err
	}
	c.H2.LastPeerStreamID = hdr.StreamID
	s.HeaderBlock = append(s.HeaderBlock[:0], p.HeaderBlockFragment...)
	s.EndHeaders = p.EndHeaders
	s.EndStream = hdr.Has(h2.FlagEndStream)
	if len(s.HeaderBlock) > c.Config.MaxHeaderSize {
		return ActionContinue, h2.ErrConnection(h2.ErrCodeEnhanceYourCalm,
			"header block %d exceeds limit %d", len(s.HeaderBlock), c.Config.MaxHeaderSize)
	}
	if p.EndHeaders {
		return c.finishHeaderBlock(hdr.StreamID, s)
	}
	c.H2.ContinuationStream = hdr.StreamID
	return ActionContinue, nil
}

func (c *Connection) handleContinuation(streamID uint32, p h2.ContinuationPayload) (Action, error) {
	s, ok := c.H2.Streams.Get(streamID)
	if !ok {
		return ActionContinue, h2.ErrConnection(h2.ErrCodeProtocolError, "CONTINUATION on unknown stream %d", streamID)
	}
	s.HeaderBlock = append(s.HeaderBlock, p.HeaderBlockFragment...)
	s.EndHeaders = p.EndHeaders
	if len(s.HeaderBlock) > c.Config.MaxHeaderSize {
		return ActionContinue, h2.ErrConnection(h2.ErrCodeEnhanceYourCalm,
			"header block %d exceeds limit %d", len(s.HeaderBlock), c.Config.MaxHeaderSize)
	}
	if p.EndHeaders {
		c.H2.ContinuationStream = 0
		return c.finishHeaderBlock(streamID, s)
	}
	return ActionContinue, nil
}

func (c *Connection) finishHeaderBlock(streamID uint32, s *h2.Stream) (Action, error) {
	fields, err := c.H2.Decoder.DecodeFull(s.HeaderBlock)
	if err != nil {
		return ActionContinue, h2.ErrConnection(h2.ErrCodeCompressionError, "%s", err.Error())
	}

	var method, target string
	headers := make(h1.Headers, 0, len(fields))
	for _, f := range fields {
		switch f.Name {
		case ":method":
			method = f.Value
		case ":path":
			target = f.Value
		default:
			headers = append(headers, h1.HeaderField{Name: f.Name, Value: f.Value})
		}
	}

	if c.events != nil {
		c.events.Publish(RequestReceivedEvent{
			ConnectionID: c.ID,
			StreamID:     streamID,
			Method:       method,
			Target:       target,
			Headers:      headers,
		})
	}

	if s.EndStream {
		if err := c.H2.Streams.Transition(streamID, h2.StreamHalfClosedRemote); err != nil {
			return ActionContinue, err
		}
	}
	return ActionContinue, nil
}

func (c *Connection) handleData(hdr h2.FrameHeader, p h2.DataPayload) (Action, error) {
	if err := c.H2.RecvWindow.Consume(uint32(len(p.Data))); err != nil {
		return ActionContinue, err
	}
	s, ok := c.H2.Streams.Get(hdr.StreamID)
	if !ok {
		return ActionContinue, h2.ErrConnection(h2.ErrCodeProtocolError, "DATA on unknown stream %d", hdr.StreamID)
	}
	if err := s.RecvWindow.Consume(uint32(len(p.Data))); err != nil {
		return ActionContinue, err
	}

	endStream := hdr.Has(h2.FlagEndStream)
	if endStream {
		if err := c.H2.Streams.Transition(hdr.StreamID, h2.StreamHalfClosedRemote); err != nil {
			return ActionContinue, err
		}
	}

	if c.events != nil {
		c.events.Publish(DataReceivedEvent{
			ConnectionID: c.ID,
			StreamID:     hdr.StreamID,
			Chunk:        p.Data,
			EndStream:    endStream,
		})
	}
	return ActionContinue, nil
}

func (c *Connection) handleWindowUpdate(streamID uint32, p h2.WindowUpdatePayload) (Action, error) {
	if streamID == 0 {
		if err := c.H2.SendWindow.Increase(p.Increment); err != nil {
			return ActionContinue, err
		}
		return ActionContinue, nil
	}
	s, ok := c.H2.Streams.Get(streamID)
	if !ok {
		// WINDOW_UPDATE for a stream we've already closed/swept is legal
		// and ignored (RFC 7540 §6.9 permits a brief straggler window).
		return ActionContinue, nil
	}
	if err := s.SendWindow.Increase(p.Increment); err != nil {
		return ActionContinue, err
	}
	return ActionContinue, nil
}
