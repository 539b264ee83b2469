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

// StreamState is an RFC 7540 §5.1 stream state. Transitions are one-way
// except that Open can reach Closed directly (RST_STREAM either side).
type StreamState uint8

const (
	StreamIdle StreamState = iota
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half-closed (local)"
	case StreamHalfClosedRemote:
		return "half-closed (remote)"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is one HTTP/2 stream's state: its identity, lifecycle state, and
// independent send/receive flow-control windows.
type Stream struct {
	ID    uint32
	State StreamState

	// SendWindow bounds how much DATA this endpoint may still send on the
	// stream; RecvWindow bounds how much more the peer may send us before
	// we issue a WINDOW_UPDATE.
	SendWindow Window
	RecvWindow Window

	// HeaderBlock accumulates HEADERS/CONTINUATION fragments until
	// END_HEADERS, since HPACK must decode a complete block atomically
	// (RFC 7540 §4.3).
	HeaderBlock []byte
	EndHeaders  bool
	EndStream   bool
}

func newStream(id uint32, initialSendWindow, initialRecvWindow uint32) *Stream {
	return &Stream{
		ID:         id,
		State:      StreamIdle,
		SendWindow: NewWindow(initialSendWindow),
		RecvWindow: NewWindow(initialRecvWindow),
	}
}

// transition applies an RFC 7540 §5.1 state change, rejecting anything
// that would move a Closed stream back to life.
func (s *Stream) transition(next StreamState) error {
	if s.State == StreamClosed && next != StreamClosed {
		return ErrStream(s.ID, ErrCodeStreamClosed, "stream %d already closed", s.ID)
	}
	s.State = next
	return nil
}

// StreamManager owns every stream on one connection: creation, concurrency
// limiting, lookup, and sweeping closed streams. Once the configured
// concurrency limit is reached, new streams are refused outright with
// REFUSED_STREAM; an older stream's buffered data is never evicted to
// make room.
type StreamManager struct {
	streams              map[uint32]*Stream
	maxConcurrentStreams uint32
	lastPeerStreamID     uint32 // highest client-initiated stream ID seen
}

// NewStreamManager returns a manager enforcing maxConcurrentStreams
// simultaneously open (non-idle, non-closed) streams.
func NewStreamManager(maxConcurrentStreams uint32) *StreamManager {
	return &StreamManager{
		streams:              make(map[uint32]*Stream),
		maxConcurrentStreams: maxConcurrentStreams,
	}
}

// Get returns the stream with the given ID, if tracked.
func (m *StreamManager) Get(id uint32) (*Stream, bool) {
	s, ok := m.streams[id]
	return s, ok
}

// Len reports how many streams the manager is currently tracking,
// regardless of state.
func (m *StreamManager) Len() int {
	return len(m.streams)
}

// activeCount returns the number of streams in Open, HalfClosedLocal, or
// HalfClosedRemote -- the states that count against
// SETTINGS_MAX_CONCURRENT_STREAMS (RFC 7540 §5.1.2).
func (m *StreamManager) activeCount() uint32 {
	var n uint32
	for _, s := range m.streams {
		if s.State == StreamOpen || s.State == StreamHalfClosedLocal || s.State == StreamHalfClosedRemote {
			n++
		}
	}
	return n
}

// CreateClientStream opens a new client-initiated stream. streamID must be
// odd (RFC 7540 §5.1.1) and strictly greater than every previously seen
// client stream ID. Returns a REFUSED_STREAM-scoped error if the
// concurrency limit is already reached.
func (m *StreamManager) CreateClientStream(streamID uint32, initialSendWindow, initialRecvWindow uint32) (*Stream, error) {
	if streamID%2 == 0 {
		return nil, ErrConnection(ErrCodeProtocolError, "client-initiated stream ID %d must be odd", streamID)
	}
	if streamID <= m.lastPeerStreamID {
		return nil, ErrConnection(ErrCodeProtocolError, "stream ID %d is not greater than last seen %d", streamID, m.lastPeerStreamID)
	}
	if m.activeCount() >= m.maxConcurrentStreams {
		return nil, ErrStream(streamID, ErrCodeRefusedStream, "max concurrent streams (%d) reached", m.maxConcurrentStreams)
	}
	s := newStream(streamID, initialSendWindow, initialRecvWindow)
	if err := s.transition(StreamOpen); err != nil {
		return nil, err
	}
	m.streams[streamID] = s
	m.lastPeerStreamID = streamID
	return s, nil
}

// Transition moves the stream with the given ID to next. A stream ID the
// manager does not track is a connection PROTOCOL_ERROR; no entry is
// created for it.
func (m *StreamManager) Transition(streamID uint32, next StreamState) error {
	s, ok := m.streams[streamID]
	if !ok {
		return ErrConnection(ErrCodeProtocolError, "transition on unknown stream %d", streamID)
	}
	return s.transition(next)
}

// Close marks streamID Closed and leaves it resident for Sweep to reclaim
// later, so a stray frame referencing it shortly after closure can still
// be diagnosed as STREAM_CLOSED rather than "unknown stream".
func (m *StreamManager) Close(streamID uint32) {
	if s, ok := m.streams[streamID]; ok {
		s.State = StreamClosed
	}
}

// Sweep removes every Closed stream from the manager, bounding memory on a
// long-lived connection that has serviced many short streams. Returns the
// number of streams removed.
func (m *StreamManager) Sweep() int {
	n := 0
	for id, s := range m.streams {
		if s.State == StreamClosed {
			delete(m.streams, id)
			n++
		}
	}
	return n
}

// ApplyInitialWindowDelta adjusts every tracked stream's send window by
// delta, the change this endpoint's peer announced via
// SETTINGS_INITIAL_WINDOW_SIZE (RFC 7540 §6.9.2). Streams already closed
// are skipped.
func (m *StreamManager) ApplyInitialWindowDelta(delta int64) error {
	for _, s := range m.streams {
		if s.State == StreamClosed {
			continue
		}
		if err := s.SendWindow.ApplyInitialWindowDelta(delta); err != nil {
			return err
		}
	}
	return nil
}
