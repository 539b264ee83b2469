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
	"net"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/packetd/httpcore/internal/fasttime"
	"github.com/packetd/httpcore/internal/pubsub"
	"github.com/packetd/httpcore/protocol/h1"
	"github.com/packetd/httpcore/protocol/h2"
)

// Action is what the owning worker should do after one Process() call.
type Action uint8

const (
	// ActionContinue: bytes remain in the read buffer that may decode
	// into another event immediately; call Process again without reading
	// more from the transport.
	ActionContinue Action = iota
	// ActionNeedMore: the buffer holds no complete frame/request; read
	// more from the transport (respecting ReadTimeout/KeepAliveTimeout)
	// before calling Process again.
	ActionNeedMore
	// ActionFlush: data queued by WriteResponse/WriteH2Response/ResetStream is ready;
	// flush the transport before the next read.
	ActionFlush
	// ActionClose: the connection has reached Closing; the worker should
	// flush, close the transport, and return.
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionNeedMore:
		return "need-more"
	case ActionFlush:
		return "flush"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Connection is the per-connection protocol state machine. Exclusively
// owned by one worker goroutine for its lifetime: every field here is
// touched only by the goroutine driving Process(), never concurrently
// (the shared state a connection touches -- pools, metrics, pubsub,
// certificate snapshots -- lives outside this struct).
type Connection struct {
	ID         string
	Transport  Transport
	Config     Config
	RemoteAddr net.Addr

	CreatedAt    time.Time
	lastActivity int64 // unix seconds, internal/fasttime-style cache

	BytesRead    uint64
	BytesWritten uint64

	Protocol ProtocolKind
	H1       H1State
	H2       *H2State

	Span trace.Span

	events      *pubsub.PubSub
	inbuf       []byte // unconsumed bytes read from the transport
	outbuf      []byte // bytes queued for the next flush
	closeReason string
	closeCode   Code
}

// New constructs a Connection over t, publishing decoded events onto
// events. The Connection starts in ProtocolDetecting unless t reports a
// negotiated ALPN identifier, in which case protocol selection is
// immediate.
func New(t Transport, cfg Config, events *pubsub.PubSub, span trace.Span) *Connection {
	c := &Connection{
		ID:           uuid.New().String(),
		Transport:    t,
		Config:       cfg,
		RemoteAddr:   t.RemoteAddr(),
		CreatedAt:    time.Now(),
		lastActivity: fasttime.UnixTimestamp(),
		Protocol:     ProtocolDetecting,
		Span:         span,
		events:       events,
	}
	if proto, ok := t.ALPN(); ok {
		switch proto {
		case "h2":
			c.beginH2()
		case "http/1.1":
			c.beginH1()
		}
	}
	return c
}

func (c *Connection) touch() {
	c.lastActivity = fasttime.UnixTimestamp()
}

// IdleFor reports how long the connection has gone without observed
// activity, for the worker to enforce ReadTimeout/KeepAliveTimeout.
func (c *Connection) IdleFor() time.Duration {
	return time.Duration(fasttime.UnixTimestamp()-c.lastActivity) * time.Second
}

func (c *Connection) beginH1() {
	c.Protocol = ProtocolH1
	c.H1 = H1State{KeepAlive: true}
}

func (c *Connection) beginH2() {
	c.Protocol = ProtocolH2
	c.H2 = newH2State(c.Config)
}

// Feed appends newly read bytes to the connection's read buffer. The
// worker calls this after a successful Transport.Read, then calls Process
// until it returns ActionNeedMore or ActionClose.
func (c *Connection) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	c.touch()
	c.BytesRead += uint64(len(p))
	c.inbuf = append(c.inbuf, p...)
}

// PendingWrite returns bytes queued for the transport and clears the
// internal buffer; the worker writes these to Transport and calls Flush.
func (c *Connection) PendingWrite() []byte {
	out := c.outbuf
	c.outbuf = nil
	if len(out) > 0 {
		c.BytesWritten += uint64(len(out))
	}
	return out
}

// Process advances the state machine as far as it can using only bytes
// already buffered (Feed), never blocking on the transport. It returns the
// Action the worker should take next.
func (c *Connection) Process() (Action, error) {
	switch c.Protocol {
	case ProtocolDetecting:
		return c.processDetecting()
	case ProtocolH1:
		return c.processH1()
	case ProtocolH2:
		return c.processH2()
	case ProtocolClosing:
		return ActionClose, nil
	default:
		return ActionClose, errConn("unknown protocol state %v", c.Protocol)
	}
}

// processDetecting inspects the first bytes of the connection to decide
// between the HTTP/2 connection preface and an HTTP/1.1 request line. A
// plaintext connection with no ALPN hint relies entirely on this sniff.
func (c *Connection) processDetecting() (Action, error) {
	ok, needMore := h2.MatchPreface(c.inbuf)
	if ok {
		c.inbuf = c.inbuf[h2.PrefaceLength:]
		c.beginH2()
		return ActionContinue, nil
	}
	if needMore {
		return ActionNeedMore, nil
	}

	// Not an H/2 preface: treat as HTTP/1.1. A genuinely garbled first
	// line surfaces as a parse error on the first processH1 call, which
	// is the right disposition -- Detecting itself does no grammar
	// checking beyond the preface's literal byte match.
	c.beginH1()
	return ActionContinue, nil
}

func (c *Connection) closeWith(reason string) (Action, error) {
	c.Protocol = ProtocolClosing
	c.closeReason = reason
	if c.events != nil {
		c.events.Publish(ConnectionClosedEvent{ConnectionID: c.ID, Reason: reason, Code: c.closeCode})
	}
	return ActionClose, nil
}

// CloseCode returns the boundary error code the connection closed with,
// CodeNone if it is still open or closed cleanly.
func (c *Connection) CloseCode() Code {
	return c.closeCode
}

// limits renders Config as the h1.Limits the parser enforces.
func (c *Connection) limits() h1.Limits {
	return h1.Limits{
		MaxRequestSize: c.Config.MaxRequestSize,
		MaxHeaderSize:  c.Config.MaxHeaderSize,
		MaxHeaders:     c.Config.MaxHeaders,
	}
}
