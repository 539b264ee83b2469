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

// Package h1 implements a hand-rolled HTTP/1.1 request parser and response
// serializer: request-line, headers, Content-Length and chunked body
// framing, and the keep-alive decision, all operating directly on a caller
// buffer without going through net/http.
package h1

import "github.com/packetd/httpcore/common"

// Method is one of the nine HTTP methods this parser recognizes.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGET
	MethodHEAD
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodCONNECT
	MethodOPTIONS
	MethodTRACE
	MethodPATCH
)

func (m Method) String() string {
	switch m {
	case MethodGET:
		return "GET"
	case MethodHEAD:
		return "HEAD"
	case MethodPOST:
		return "POST"
	case MethodPUT:
		return "PUT"
	case MethodDELETE:
		return "DELETE"
	case MethodCONNECT:
		return "CONNECT"
	case MethodOPTIONS:
		return "OPTIONS"
	case MethodTRACE:
		return "TRACE"
	case MethodPATCH:
		return "PATCH"
	default:
		return ""
	}
}

var methodByBytes = map[string]Method{
	"GET":     MethodGET,
	"HEAD":    MethodHEAD,
	"POST":    MethodPOST,
	"PUT":     MethodPUT,
	"DELETE":  MethodDELETE,
	"CONNECT": MethodCONNECT,
	"OPTIONS": MethodOPTIONS,
	"TRACE":   MethodTRACE,
	"PATCH":   MethodPATCH,
}

// Version is an HTTP version this parser accepts: {0.9, 1.0, 1.1, 2.0}.
type Version struct {
	Major uint8
	Minor uint8
}

var (
	Version09 = Version{0, 9}
	Version10 = Version{1, 0}
	Version11 = Version{1, 1}
	Version20 = Version{2, 0}
)

func (v Version) String() string {
	return string(rune('0'+v.Major)) + "." + string(rune('0'+v.Minor))
}

// HeaderField is a single (name, value) header pair in parse order.
type HeaderField struct {
	Name  string
	Value string
}

// Headers is an ordered collection of header fields with case-insensitive
// lookup.
type Headers []HeaderField

// Get returns the first value for name (case-insensitive), or "" if absent.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h {
		if equalFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value for name (case-insensitive), in parse order.
func (h Headers) Values(name string) []string {
	var vals []string
	for _, f := range h {
		if equalFold(f.Name, name) {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// BodyKind distinguishes the two representations a parsed Body can take.
type BodyKind uint8

const (
	// BodyNone: request has no body.
	BodyNone BodyKind = iota
	// BodyBorrowed: body is a Content-Length-framed slice that aliases the
	// caller's input buffer. Valid only until that buffer is reused.
	BodyBorrowed
	// BodyOwned: body is a chunked-transfer-decoded (or otherwise
	// reassembled) slice with its own backing array, safe to retain past
	// the lifetime of the input buffer.
	BodyOwned
)

// Body is a two-variant sum type: a Content-Length body borrows from the
// input buffer, a chunked body owns its reassembled bytes. Callers must
// switch on Kind rather than assume a slice survives past the buffer it
// may have borrowed from.
type Body struct {
	Kind     BodyKind
	borrowed []byte
	owned    []byte
}

// BorrowedBody wraps a slice that aliases the caller's input buffer.
func BorrowedBody(b []byte) Body {
	if len(b) == 0 {
		return Body{Kind: BodyNone}
	}
	return Body{Kind: BodyBorrowed, borrowed: b}
}

// OwnedBody wraps a slice with independent backing storage.
func OwnedBody(b []byte) Body {
	if len(b) == 0 {
		return Body{Kind: BodyNone}
	}
	return Body{Kind: BodyOwned, owned: b}
}

// Bytes returns the body content regardless of variant. Callers that need
// to retain the result past the input buffer's lifetime must check Kind
// first and copy a BodyBorrowed payload.
func (b Body) Bytes() []byte {
	switch b.Kind {
	case BodyBorrowed:
		return b.borrowed
	case BodyOwned:
		return b.owned
	default:
		return nil
	}
}

// Len returns the number of body bytes.
func (b Body) Len() int {
	return len(b.Bytes())
}

// Request is a fully parsed HTTP/1.1 (or 1.0/0.9/2.0-prefaced) request.
type Request struct {
	Method   Method
	URI      string
	Version  Version
	Headers  Headers
	Body     Body
	Trailers Headers
	Chunked  bool
}

// KeepAlive reports whether the connection should remain open after this
// request, per the HTTP/1.0 vs 1.1 default-and-override rule.
func (r *Request) KeepAlive() bool {
	conn, ok := r.Headers.Get("Connection")
	switch r.Version {
	case Version11:
		return !(ok && equalFold(conn, "close"))
	case Version10:
		return ok && equalFold(conn, "keep-alive")
	default:
		return false
	}
}

// Limits bounds how much a single ParseRequest call will consume.
type Limits struct {
	MaxRequestSize int
	MaxHeaderSize  int
	MaxHeaders     int
}

// DefaultLimits mirrors the module-wide defaults in common.
func DefaultLimits() Limits {
	return Limits{
		MaxRequestSize: common.DefaultMaxRequestSize,
		MaxHeaderSize:  common.DefaultMaxHeaderSize,
		MaxHeaders:     common.DefaultMaxHeaders,
	}
}
