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

// Package h2 is a from-scratch HTTP/2 frame parser and writer: the 9-byte
// frame header, per-frame-type payload parsing and validation, SETTINGS
// application, and the stream manager and flow-control windows that sit on
// top of it. No third-party HTTP/2 library is wrapped here; owning the
// wire format is the entire point of the package.
package h2

import "github.com/pkg/errors"

// ErrCode is an RFC 7540 §7 HTTP/2 error code, carried on RST_STREAM and
// GOAWAY frames.
type ErrCode uint32

const (
	ErrCodeNoError ErrCode = iota
	ErrCodeProtocolError
	ErrCodeInternalError
	ErrCodeFlowControlError
	ErrCodeSettingsTimeout
	ErrCodeStreamClosed
	ErrCodeFrameSizeError
	ErrCodeRefusedStream
	ErrCodeCancel
	ErrCodeCompressionError
	ErrCodeConnectError
	ErrCodeEnhanceYourCalm
	ErrCodeInadequateSecurity
	ErrCodeHTTP11Required
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeNoError:
		return "NO_ERROR"
	case ErrCodeProtocolError:
		return "PROTOCOL_ERROR"
	case ErrCodeInternalError:
		return "INTERNAL_ERROR"
	case ErrCodeFlowControlError:
		return "FLOW_CONTROL_ERROR"
	case ErrCodeSettingsTimeout:
		return "SETTINGS_TIMEOUT"
	case ErrCodeStreamClosed:
		return "STREAM_CLOSED"
	case ErrCodeFrameSizeError:
		return "FRAME_SIZE_ERROR"
	case ErrCodeRefusedStream:
		return "REFUSED_STREAM"
	case ErrCodeCancel:
		return "CANCEL"
	case ErrCodeCompressionError:
		return "COMPRESSION_ERROR"
	case ErrCodeConnectError:
		return "CONNECT_ERROR"
	case ErrCodeEnhanceYourCalm:
		return "ENHANCE_YOUR_CALM"
	case ErrCodeInadequateSecurity:
		return "INADEQUATE_SECURITY"
	case ErrCodeHTTP11Required:
		return "HTTP_1_1_REQUIRED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ErrScope distinguishes a connection-fatal error (GOAWAY then close) from
// one scoped to a single stream (RST_STREAM, connection survives) from the
// recoverable "need more bytes" signal every incremental parser exposes.
type ErrScope uint8

const (
	// ScopeIncomplete: not enough bytes buffered yet; call again once more
	// have arrived. Never surfaced past the parser.
	ScopeIncomplete ErrScope = iota
	// ScopeConnection: protocol/flow-control/compression violation; send
	// GOAWAY with Code and close.
	ScopeConnection
	// ScopeStream: violation scoped to one stream; send RST_STREAM with
	// Code, the connection survives.
	ScopeStream
)

// Error is the error type every frame-parsing or stream/flow-control
// failure in this package is returned as.
type Error struct {
	Scope    ErrScope
	Code     ErrCode
	StreamID uint32
	msg      string
}

func (e *Error) Error() string {
	if e.msg == "" {
		return "h2: " + e.Code.String()
	}
	return "h2: " + e.Code.String() + ": " + e.msg
}

func newError(scope ErrScope, code ErrCode, streamID uint32, format string, args ...any) *Error {
	return &Error{Scope: scope, Code: code, StreamID: streamID, msg: errors.Errorf(format, args...).Error()}
}

// ErrIncomplete signals a parser needs more bytes; the caller (conn) must
// read more and retry, exactly like h1.IncompleteRequest.
func ErrIncomplete(format string, args ...any) *Error {
	return newError(ScopeIncomplete, ErrCodeNoError, 0, format, args...)
}

// ErrConnection signals a connection-fatal protocol/flow-control/compression
// violation: the caller must send GOAWAY(code) and close.
func ErrConnection(code ErrCode, format string, args ...any) *Error {
	return newError(ScopeConnection, code, 0, format, args...)
}

// ErrStream signals a violation scoped to one stream: the caller sends
// RST_STREAM(streamID, code) and the connection continues.
func ErrStream(streamID uint32, code ErrCode, format string, args ...any) *Error {
	return newError(ScopeStream, code, streamID, format, args...)
}

// AsH2Error extracts *Error from err, if err is (or wraps) one.
func AsH2Error(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsIncomplete reports whether err signals the caller should read more
// bytes and retry, rather than treating the call as failed.
func IsIncomplete(err error) bool {
	e, ok := AsH2Error(err)
	return ok && e.Scope == ScopeIncomplete
}
