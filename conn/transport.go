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

// Package conn is the per-connection protocol state machine: it detects
// HTTP/1.1 vs HTTP/2 on a fresh byte stream, drives the h1 parser or the
// hpack/h2 frame codec and stream manager over the bytes a Transport
// yields, and publishes decoded events onto a pubsub.Queue while accepting
// response writes back through the Connection's own methods.
package conn

import (
	"net"
	"time"
)

// Transport is the capability set a Connection needs from whatever holds
// the actual socket or TLS record layer: non-blocking byte movement plus
// enough identity to label events. It is deliberately a narrow interface,
// not an embedded net.Conn, so a test can supply an in-memory transport
// without satisfying net.Conn's full surface.
type Transport interface {
	// Read behaves like io.Reader: a non-blocking (or deadline-bounded)
	// read of whatever bytes are currently available.
	Read(p []byte) (int, error)

	// Write behaves like io.Writer.
	Write(p []byte) (int, error)

	// Flush pushes any internally buffered bytes (e.g. a TLS record
	// writer) out to the wire. A Transport with no internal buffering may
	// implement this as a no-op.
	Flush() error

	// Close closes the underlying connection.
	Close() error

	// RemoteAddr is the peer's network address.
	RemoteAddr() net.Addr

	// ALPN returns the negotiated TLS ALPN protocol identifier ("h2",
	// "http/1.1") and true, or ("", false) for a plaintext connection
	// (or a TLS connection where ALPN was not negotiated). A non-empty
	// result lets the Connection skip Detecting and dispatch directly.
	ALPN() (string, bool)

	// SetReadDeadline and SetWriteDeadline mirror net.Conn, used to
	// enforce the configured read/write/keep-alive timeouts.
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}
