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
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/trace"

	"github.com/packetd/httpcore/common"
	"github.com/packetd/httpcore/confengine"
	"github.com/packetd/httpcore/conn"
	"github.com/packetd/httpcore/internal/pool"
	"github.com/packetd/httpcore/internal/pubsub"
	"github.com/packetd/httpcore/internal/rescue"
	"github.com/packetd/httpcore/logger"
	"github.com/packetd/httpcore/metrics"
	"github.com/packetd/httpcore/protocol/h1"
)

// connConfigFor bridges a decoded ListenerConfig into the conn.Config the
// core's state machine actually runs on.
func connConfigFor(lc confengine.ListenerConfig) conn.Config {
	return conn.FromOptions(lc.Options())
}

// listener owns one accepted net.Listener and the shared, process-wide
// state its connections draw on: the buffer pool and the metrics registry.
// Socket acceptance and the accept loop live here, outside the conn and
// protocol packages, which only ever see bytes already in memory.
type listener struct {
	name     string
	ln       net.Listener
	config   conn.Config
	bufPool  *pool.BufferPool
	httpPool *pool.HTTPObjectPool
	registry *metrics.Registry
}

func newListener(name string, ln net.Listener, cfg conn.Config, bufPool *pool.BufferPool, httpPool *pool.HTTPObjectPool, registry *metrics.Registry) *listener {
	return &listener{name: name, ln: ln, config: cfg, bufPool: bufPool, httpPool: httpPool, registry: registry}
}

// serve accepts connections until ln.Accept returns an error (typically
// because Close was called during shutdown).
func (l *listener) serve() error {
	for {
		c, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go l.handle(c)
	}
}

// handle owns one accepted connection for its entire lifetime: reads into
// pooled buffers, drives Connection.Process, and replies to every decoded
// request in place. A panic anywhere in this goroutine is isolated by
// rescue.HandleCrash so it cannot take the listener down.
func (l *listener) handle(nc net.Conn) {
	defer rescue.HandleCrash()
	defer nc.Close()

	l.registry.ConnectionOpened()
	defer l.registry.ConnectionClosed()

	events := pubsub.New()
	queue := events.Subscribe(64)
	defer events.Unsubscribe(queue)

	transport := tcpTransport{Conn: nc}
	c := conn.New(transport, l.config, events, trace.SpanFromContext(context.Background()))
	defer func() { l.registry.BytesTransferred(c.BytesRead, c.BytesWritten) }()

	handle := l.bufPool.Get(common.ReadWriteBlockSize)
	defer handle.Release()
	l.registry.SetPoolHitRate(l.bufPool.Metrics().Small.HitRate())

	for {
		action, err := c.Process()
		if err != nil {
			logger.Warnf("listener %s: connection %s: %v", l.name, c.ID, err)
			return
		}

		// drainEvents may queue a response via WriteResponse/WriteH2Response,
		// so flush unconditionally before acting on action -- the Action
		// Process returned predates anything drainEvents just wrote.
		l.drainEvents(c, queue)
		if err := flush(transport, c); err != nil {
			logger.Warnf("listener %s: connection %s: flush: %v", l.name, c.ID, err)
			return
		}

		switch action {
		case conn.ActionContinue, conn.ActionFlush:
			continue

		case conn.ActionClose:
			return

		case conn.ActionNeedMore:
			if err := fillBuffer(nc, c, handle.Value(), l.config.ReadTimeout); err != nil {
				return
			}
		}
	}
}

func flush(transport tcpTransport, c *conn.Connection) error {
	out := c.PendingWrite()
	if len(out) == 0 {
		return transport.Flush()
	}
	if _, err := transport.Write(out); err != nil {
		return err
	}
	return transport.Flush()
}

func fillBuffer(nc net.Conn, c *conn.Connection, buf *pool.Buffer, timeout time.Duration) error {
	if timeout > 0 {
		if err := nc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	scratch := buf.B[:cap(buf.B)]
	n, err := nc.Read(scratch)
	if n > 0 {
		c.Feed(scratch[:n])
	}
	return err
}

// drainEvents answers every RequestReceivedEvent the last Process() call
// published with a fixed 200 OK, and logs stream/connection closure --
// a demonstration application, not part of the protocol core's contract.
func (l *listener) drainEvents(c *conn.Connection, queue pubsub.Queue) {
	for {
		msg, ok := queue.PopTimeout(time.Millisecond)
		if !ok {
			return
		}

		switch ev := msg.(type) {
		case conn.RequestReceivedEvent:
			l.respondOK(c, ev)
		case conn.ConnectionClosedEvent:
			logger.Debugf("connection %s closed: %s", ev.ConnectionID, ev.Reason)
		}
	}
}

type demoBody struct {
	Method string `json:"method"`
	Target string `json:"target"`
}

// respondOK builds the reply in a pooled ResponseScratch; WriteResponse and
// WriteH2Response copy the serialized bytes onto the connection's write
// buffer, so the scratch is safe to release as soon as the call returns.
func (l *listener) respondOK(c *conn.Connection, ev conn.RequestReceivedEvent) {
	l.registry.RequestServed()

	handle := l.httpPool.Responses.GetOrCreate()
	defer handle.Release()
	scratch := handle.Value()

	scratch.Status = 200
	scratch.Headers = append(scratch.Headers, pool.HeaderField{Name: "content-type", Value: "application/json"})
	body, err := json.Marshal(demoBody{Method: ev.Method, Target: ev.Target})
	if err != nil {
		body = []byte(`{}`)
	}
	scratch.Body = append(scratch.Body, body...)

	headers := make(h1.Headers, 0, len(scratch.Headers))
	for _, h := range scratch.Headers {
		headers = append(headers, h1.HeaderField{Name: h.Name, Value: h.Value})
	}

	if ev.StreamID == 0 {
		_, _ = c.WriteResponse(&h1.Response{Status: scratch.Status, Headers: headers, Body: scratch.Body})
		return
	}
	_, _ = c.WriteH2Response(ev.StreamID, scratch.Status, headers, scratch.Body)
}
