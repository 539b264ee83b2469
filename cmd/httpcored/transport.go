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

package main

import "net"

// tcpTransport adapts a plain net.Conn to conn.Transport. It carries no
// internal buffering, so Flush is a no-op, and negotiates no TLS/ALPN, so
// ALPN always reports absent -- every connection accepted through it starts
// in Detecting.
type tcpTransport struct {
	net.Conn
}

func (t tcpTransport) Flush() error {
	return nil
}

func (t tcpTransport) ALPN() (string, bool) {
	return "", false
}
