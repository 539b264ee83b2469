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
	"time"

	"github.com/packetd/httpcore/common"
	"github.com/packetd/httpcore/protocol/h2"
)

// Config is the per-listener set of tunables a Connection is built with.
// Decoded from YAML via confengine into these typed fields; see
// common.Options for the loosely typed intermediate form.
type Config struct {
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	KeepAliveTimeout     time.Duration
	MaxRequestSize       int
	MaxHeaderSize        int
	MaxHeaders           int
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
}

// DefaultConfig returns the per-listener defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         30 * time.Second,
		KeepAliveTimeout:     120 * time.Second,
		MaxRequestSize:       common.DefaultMaxRequestSize,
		MaxHeaderSize:        common.DefaultMaxHeaderSize,
		MaxHeaders:           common.DefaultMaxHeaders,
		MaxConcurrentStreams: common.DefaultMaxConcurrentStreams,
		InitialWindowSize:    common.DefaultInitialWindowSize,
		MaxFrameSize:         common.DefaultMaxFrameSize,
	}
}

// FromOptions overlays any keys present in o onto a copy of DefaultConfig.
// Unrecognized or uncastable keys are left at their default.
func FromOptions(o common.Options) Config {
	c := DefaultConfig()
	c.ReadTimeout = o.GetDurationDefault("read_timeout", c.ReadTimeout)
	c.WriteTimeout = o.GetDurationDefault("write_timeout", c.WriteTimeout)
	c.KeepAliveTimeout = o.GetDurationDefault("keep_alive_timeout", c.KeepAliveTimeout)
	c.MaxRequestSize = o.GetIntDefault("max_request_size", c.MaxRequestSize)
	c.MaxHeaderSize = o.GetIntDefault("max_header_size", c.MaxHeaderSize)
	c.MaxHeaders = o.GetIntDefault("max_headers", c.MaxHeaders)
	c.MaxConcurrentStreams = uint32(o.GetIntDefault("max_concurrent_streams", int(c.MaxConcurrentStreams)))
	c.InitialWindowSize = uint32(o.GetIntDefault("initial_window_size", int(c.InitialWindowSize)))
	c.MaxFrameSize = uint32(o.GetIntDefault("max_frame_size", int(c.MaxFrameSize)))
	return c
}

// h2Settings renders the H/2-relevant fields as the Settings this endpoint
// advertises to a newly connected peer.
func (c Config) h2Settings() h2.Settings {
	s := h2.DefaultSettings()
	s.MaxConcurrentStreams = c.MaxConcurrentStreams
	s.InitialWindowSize = c.InitialWindowSize
	s.MaxFrameSize = c.MaxFrameSize
	return s
}
