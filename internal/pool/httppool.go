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

package pool

const (
	httpRequestPoolCount  = 128
	httpResponsePoolCount = 128
	headerSlicePoolCount  = 256
)

// HeaderField is a pre-allocation-friendly (name, value) pair, shared by
// the request/response scratch buffers below.
type HeaderField struct {
	Name  string
	Value string
}

// RequestScratch is a pre-sized, reusable scratch area for building an
// HTTP/1.1 or HTTP/2 request view without forcing a fresh allocation per
// request on the hot path.
type RequestScratch struct {
	Method  string
	URI     string
	Headers []HeaderField
	Body    []byte
}

func (r *RequestScratch) reset() {
	r.Method = ""
	r.URI = ""
	r.Headers = r.Headers[:0]
	r.Body = r.Body[:0]
}

// ResponseScratch is the response-side counterpart of RequestScratch.
type ResponseScratch struct {
	Status  int
	Headers []HeaderField
	Body    []byte
}

func (r *ResponseScratch) reset() {
	r.Status = 200
	r.Headers = r.Headers[:0]
	r.Body = r.Body[:0]
}

// HTTPObjectPool bundles the specialized pools the connection worker uses
// for every parsed request/response: pre-sized scratch buffers so that
// steady-state traffic drives no allocations once the pools are warm.
type HTTPObjectPool struct {
	Requests  *ObjectPool[*RequestScratch]
	Responses *ObjectPool[*ResponseScratch]
	Headers   *ObjectPool[*[]HeaderField]
}

// NewHTTPObjectPool constructs the specialized HTTP pools.
func NewHTTPObjectPool() *HTTPObjectPool {
	return &HTTPObjectPool{
		Requests: NewObjectPoolWithReset(httpRequestPoolCount,
			func() *RequestScratch {
				return &RequestScratch{
					Method:  "",
					URI:     "",
					Headers: make([]HeaderField, 0, 32),
					Body:    make([]byte, 0, 8192),
				}
			},
			func(r *RequestScratch) { r.reset() },
		),
		Responses: NewObjectPoolWithReset(httpResponsePoolCount,
			func() *ResponseScratch {
				return &ResponseScratch{
					Status:  200,
					Headers: make([]HeaderField, 0, 16),
					Body:    make([]byte, 0, 8192),
				}
			},
			func(r *ResponseScratch) { r.reset() },
		),
		Headers: NewObjectPoolWithReset(headerSlicePoolCount,
			func() *[]HeaderField {
				s := make([]HeaderField, 0, 32)
				return &s
			},
			func(s *[]HeaderField) { *s = (*s)[:0] },
		),
	}
}
