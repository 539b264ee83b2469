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

package scan

// Scanner walks a byte slice line by line without copying, splitting on
// "\r\n". It never allocates: Bytes returns a sub-slice of the buffer
// passed to New.
type Scanner struct {
	buf []byte
	l   int
	r   int
}

// NewScanner returns a Scanner over buf.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Scan advances to the next "\r\n"-terminated line, reporting whether one
// was found. On false, no further complete line is available (the
// remainder, if any, is an incomplete line still waiting on more bytes).
func (s *Scanner) Scan() bool {
	rest := s.buf[s.r:]
	i := IndexCRLF(rest)
	if i < 0 {
		return false
	}
	s.l = s.r
	s.r = s.r + i + 2
	return true
}

// Bytes returns the current line, without the trailing CRLF.
func (s *Scanner) Bytes() []byte {
	return s.buf[s.l : s.r-2]
}

// Pos returns the offset into the original buffer immediately after the
// last line returned by Scan.
func (s *Scanner) Pos() int {
	return s.r
}

// Rest returns everything not yet consumed by Scan.
func (s *Scanner) Rest() []byte {
	return s.buf[s.r:]
}
