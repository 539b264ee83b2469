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

package h1

import "github.com/pkg/errors"

// ErrorKind classifies a parse failure. IncompleteRequest is the only
// recoverable kind: the caller may call ParseRequest again once more bytes
// have arrived. Every other kind is fatal for the connection.
type ErrorKind uint8

const (
	IncompleteRequest ErrorKind = iota
	MalformedRequest
	InvalidMethod
	InvalidUri
	InvalidVersion
	InvalidHeader
	InvalidHeaderName
	InvalidHeaderValue
	InvalidChunkSize
	InvalidContentLength
	TooManyHeaders
	RequestTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case IncompleteRequest:
		return "incomplete request"
	case MalformedRequest:
		return "malformed request"
	case InvalidMethod:
		return "invalid method"
	case InvalidUri:
		return "invalid uri"
	case InvalidVersion:
		return "invalid version"
	case InvalidHeader:
		return "invalid header"
	case InvalidHeaderName:
		return "invalid header name"
	case InvalidHeaderValue:
		return "invalid header value"
	case InvalidChunkSize:
		return "invalid chunk size"
	case InvalidContentLength:
		return "invalid content length"
	case TooManyHeaders:
		return "too many headers"
	case RequestTooLarge:
		return "request too large"
	default:
		return "unknown h1 error"
	}
}

// ParseError is the error type every ParseRequest failure is returned as.
type ParseError struct {
	Kind ErrorKind
	msg  string
}

func (e *ParseError) Error() string {
	if e.msg == "" {
		return "h1: " + e.Kind.String()
	}
	return "h1: " + e.Kind.String() + ": " + e.msg
}

func newParseError(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, msg: errors.Errorf(format, args...).Error()}
}

// Kind extracts the ErrorKind from err, if err is (or wraps) a *ParseError.
func Kind(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// IsIncomplete reports whether err signals that the caller should retry
// ParseRequest after reading more bytes.
func IsIncomplete(err error) bool {
	k, ok := Kind(err)
	return ok && k == IncompleteRequest
}
