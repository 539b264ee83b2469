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

package common

const (
	// App is the application name used as the metrics namespace.
	App = "httpcored"

	// Version is the application version.
	Version = "v0.1.0"

	// ReadWriteBlockSize is the default per-read chunk size requested from
	// the transport. Large enough to amortize syscalls, small enough that
	// a connection storm doesn't pin an unreasonable amount of memory per
	// idle connection.
	ReadWriteBlockSize = 4096

	// DefaultMaxRequestSize is the default cap on a request body (Content-Length
	// or the sum of chunk sizes).
	DefaultMaxRequestSize = 10 << 20

	// DefaultMaxHeaderSize is the default cap on the raw header block size.
	DefaultMaxHeaderSize = 8 << 10

	// DefaultMaxHeaders is the default cap on the number of headers per request.
	DefaultMaxHeaders = 100

	// DefaultMaxConcurrentStreams is the default HTTP/2 MAX_CONCURRENT_STREAMS.
	DefaultMaxConcurrentStreams = 100

	// DefaultInitialWindowSize is the default HTTP/2 INITIAL_WINDOW_SIZE.
	DefaultInitialWindowSize = 65535

	// DefaultMaxFrameSize is the default HTTP/2 MAX_FRAME_SIZE.
	DefaultMaxFrameSize = 16384
)
