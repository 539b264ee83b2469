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

import "github.com/packetd/httpcore/protocol/h1"

// RequestReceivedEvent is published once a full request (HTTP/1.1) or a
// full header block ending a stream's HEADERS phase (HTTP/2) has been
// decoded. StreamID is 0 for HTTP/1.1 requests, the H/2 stream id
// otherwise.
type RequestReceivedEvent struct {
	ConnectionID string
	StreamID     uint32
	Method       string
	Target       string
	Headers      h1.Headers
	Body         []byte
}

// DataReceivedEvent carries one chunk of request body data observed on an
// HTTP/2 stream (DATA frame) after its header block. An HTTP/1.1 request's
// body arrives in RequestReceivedEvent.Body instead. EndStream reports
// whether this is the final chunk.
type DataReceivedEvent struct {
	ConnectionID string
	StreamID     uint32
	Chunk        []byte
	EndStream    bool
}

// ConnectionClosedEvent is published exactly once, when a Connection
// transitions to Closing and its worker returns. Code is CodeNone for a
// clean close (EOF, keep-alive expiry, peer GOAWAY without error).
type ConnectionClosedEvent struct {
	ConnectionID string
	Reason       string
	Code         Code
}
