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
	"github.com/pkg/errors"

	"github.com/packetd/httpcore/protocol/h1"
	"github.com/packetd/httpcore/protocol/h2"
)

func errConn(format string, args ...any) error {
	return errors.Errorf("conn: "+format, args...)
}

// Code is the stable numeric identifier an error carries once it crosses
// the application boundary. 4xx/5xx values match their HTTP meanings; 6xx
// values name transport-level conditions (protocol framing, TLS, flow
// control, resource caps) that have no HTTP status of their own. CodeNone
// marks a close that was not an error at all (EOF, keep-alive expiry,
// peer GOAWAY with NO_ERROR).
type Code int

const (
	CodeNone Code = 0

	CodeBadRequest         Code = 400
	CodeRequestTimeout     Code = 408
	CodePayloadTooLarge    Code = 413
	CodeTooManyRequests    Code = 429
	CodeInternalError      Code = 500
	CodeServiceUnavailable Code = 503
	CodeGatewayTimeout     Code = 504

	CodeProtocolError     Code = 600
	CodeTLSError          Code = 601
	CodeFlowControlError  Code = 602
	CodeCompressionError  Code = 603
	CodeResourceExhausted Code = 604
)

// IsRetryable reports whether a client observing this code may safely
// retry the same request on a fresh connection.
func (c Code) IsRetryable() bool {
	switch c {
	case CodeServiceUnavailable, CodeGatewayTimeout, CodeTooManyRequests, CodeResourceExhausted:
		return true
	default:
		return false
	}
}

// Classify maps a parser or framing error onto its boundary Code.
func Classify(err error) Code {
	if err == nil {
		return CodeNone
	}
	if kind, ok := h1.Kind(err); ok {
		switch kind {
		case h1.RequestTooLarge:
			return CodePayloadTooLarge
		case h1.IncompleteRequest:
			return CodeNone
		default:
			return CodeBadRequest
		}
	}
	if e, ok := h2.AsH2Error(err); ok {
		switch e.Code {
		case h2.ErrCodeFlowControlError:
			return CodeFlowControlError
		case h2.ErrCodeCompressionError:
			return CodeCompressionError
		case h2.ErrCodeEnhanceYourCalm, h2.ErrCodeRefusedStream:
			return CodeResourceExhausted
		case h2.ErrCodeInadequateSecurity:
			return CodeTLSError
		default:
			return CodeProtocolError
		}
	}
	return CodeInternalError
}
