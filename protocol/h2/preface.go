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

import "bytes"

// Preface is the 24-octet connection preface every HTTP/2 client sends
// before any frame, RFC 7540 §3.5. A server that speaks both HTTP/1.1 and
// HTTP/2 on the same port uses this to distinguish the two: an HTTP/1.1
// request line can never start with "PRI * HTTP/2.0".
const Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// PrefaceLength is len(Preface), the fixed number of bytes the preface
// always occupies.
const PrefaceLength = len(Preface)

// MatchPreface reports whether data begins with the connection preface.
// ok is true only once len(data) >= PrefaceLength and the bytes match.
// needMore is true when data is a prefix of Preface shorter than
// PrefaceLength, signaling the caller should buffer more bytes before
// concluding the connection is not HTTP/2.
func MatchPreface(data []byte) (ok, needMore bool) {
	if len(data) >= PrefaceLength {
		return bytes.Equal(data[:PrefaceLength], []byte(Preface)), false
	}
	if bytes.Equal(data, []byte(Preface)[:len(data)]) {
		return false, true
	}
	return false, false
}
