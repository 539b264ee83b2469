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
	"github.com/packetd/httpcore/protocol/h2"
	"github.com/packetd/httpcore/protocol/hpack"
)

// ProtocolKind is the coarse wire protocol a Connection has settled on.
type ProtocolKind uint8

const (
	// ProtocolDetecting: not enough bytes yet to tell HTTP/1.1 from
	// HTTP/2 (or ALPN was inconclusive).
	ProtocolDetecting ProtocolKind = iota
	ProtocolH1
	ProtocolH2
	// ProtocolClosing is terminal: once set, it never changes again.
	ProtocolClosing
)

func (p ProtocolKind) String() string {
	switch p {
	case ProtocolDetecting:
		return "detecting"
	case ProtocolH1:
		return "h1"
	case ProtocolH2:
		return "h2"
	case ProtocolClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// H1State is the keep-alive/pipelining bookkeeping layered on top of the
// stateless h1.ParseRequest/Response.WriteTo calls.
type H1State struct {
	KeepAlive      bool
	ServedRequests uint64
	PipelineDepth  int
}

// H2State is everything a connection that has settled on HTTP/2 needs
// across Process() calls: the HPACK decoder, the stream manager, the
// negotiated settings on both sides, and the connection-wide flow-control
// windows.
type H2State struct {
	Decoder           *hpack.Decoder
	Streams           *h2.StreamManager
	PeerSettings      h2.Settings
	OwnSettings       h2.Settings
	SentOwnSettings   bool
	PeerAckedSettings bool
	LastPeerStreamID  uint32
	SendWindow        h2.Window
	RecvWindow        h2.Window

	// ContinuationStream is nonzero while a HEADERS frame without
	// END_HEADERS is waiting on CONTINUATION frames; no other frame may
	// arrive on the connection until the block completes (RFC 7540 §6.2).
	ContinuationStream uint32
}

func newH2State(cfg Config) *H2State {
	own := cfg.h2Settings()
	return &H2State{
		Decoder:      hpack.NewDecoder(own.HeaderTableSize),
		Streams:      h2.NewStreamManager(own.MaxConcurrentStreams),
		PeerSettings: h2.DefaultSettings(),
		OwnSettings:  own,
		SendWindow:   h2.NewWindow(h2.DefaultInitialWindowSize),
		RecvWindow:   h2.NewWindow(own.InitialWindowSize),
	}
}
