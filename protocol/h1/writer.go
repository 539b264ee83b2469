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

import "strconv"

// Response is an outgoing HTTP/1.1 response.
type Response struct {
	Status  int
	Reason  string
	Headers Headers
	Body    []byte
}

var statusReasons = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	413: "Payload Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

func reasonFor(status int) string {
	if r, ok := statusReasons[status]; ok {
		return r
	}
	return "Unknown Status"
}

// WriteTo serializes the response into buf (grown as needed) and returns
// the resulting slice: a status line, the ordered header lines, a blank
// line, and the body. If a body is present and no Content-Length header
// was set explicitly, one reflecting len(Body) is appended.
func (r *Response) WriteTo(buf []byte) []byte {
	reason := r.Reason
	if reason == "" {
		reason = reasonFor(r.Status)
	}

	buf = append(buf, "HTTP/1.1 "...)
	buf = strconv.AppendInt(buf, int64(r.Status), 10)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, '\r', '\n')

	_, hasCL := r.Headers.Get("Content-Length")
	for _, h := range r.Headers {
		buf = append(buf, h.Name...)
		buf = append(buf, ':', ' ')
		buf = append(buf, h.Value...)
		buf = append(buf, '\r', '\n')
	}
	if len(r.Body) > 0 && !hasCL {
		buf = append(buf, "Content-Length: "...)
		buf = strconv.AppendInt(buf, int64(len(r.Body)), 10)
		buf = append(buf, '\r', '\n')
	}
	buf = append(buf, '\r', '\n')
	buf = append(buf, r.Body...)
	return buf
}
