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
	"net"
	"time"
)

// fakeAddr is a minimal net.Addr for tests.
type fakeAddr string

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return string(a) }

// fakeTransport is an in-memory Transport double: writes accumulate in
// Out, and Read is never exercised directly since tests drive the state
// machine via Connection.Feed instead of a real socket loop.
type fakeTransport struct {
	Out  []byte
	alpn string
}

func (t *fakeTransport) Read(p []byte) (int, error)  { return 0, nil }
func (t *fakeTransport) Write(p []byte) (int, error) { t.Out = append(t.Out, p...); return len(p), nil }
func (t *fakeTransport) Flush() error                { return nil }
func (t *fakeTransport) Close() error                { return nil }
func (t *fakeTransport) RemoteAddr() net.Addr        { return fakeAddr("127.0.0.1:1234") }
func (t *fakeTransport) ALPN() (string, bool) {
	if t.alpn == "" {
		return "", false
	}
	return t.alpn, true
}
func (t *fakeTransport) SetReadDeadline(time.Time) error  { return nil }
func (t *fakeTransport) SetWriteDeadline(time.Time) error { return nil }
