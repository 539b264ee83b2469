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

package confengine

import (
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/packetd/httpcore/common"
)

// ListenerConfig is the decoded shape of one entry under the top-level
// "listeners" section of the YAML config file.
type ListenerConfig struct {
	Name    string `config:"name" mapstructure:"name"`
	Address string `config:"address" mapstructure:"address"`

	ReadTimeout          time.Duration `config:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout         time.Duration `config:"write_timeout" mapstructure:"write_timeout"`
	KeepAliveTimeout     time.Duration `config:"keep_alive_timeout" mapstructure:"keep_alive_timeout"`
	MaxRequestSize       int           `config:"max_request_size" mapstructure:"max_request_size"`
	MaxHeaderSize        int           `config:"max_header_size" mapstructure:"max_header_size"`
	MaxHeaders           int           `config:"max_headers" mapstructure:"max_headers"`
	MaxConcurrentStreams uint32        `config:"max_concurrent_streams" mapstructure:"max_concurrent_streams"`
	InitialWindowSize    uint32        `config:"initial_window_size" mapstructure:"initial_window_size"`
	MaxFrameSize         uint32        `config:"max_frame_size" mapstructure:"max_frame_size"`

	Pool PoolConfig `config:"pool" mapstructure:"pool"`
}

// PoolConfig is the decoded shape of a listener's "pool" subsection,
// sizing the object pools its connections draw buffers and stream state
// from.
type PoolConfig struct {
	BufferCapacity int `config:"buffer_capacity" mapstructure:"buffer_capacity"`
	StreamCapacity int `config:"stream_capacity" mapstructure:"stream_capacity"`
}

// LogConfig is the decoded shape of the top-level "log" section.
type LogConfig struct {
	Stdout     bool   `config:"stdout" mapstructure:"stdout"`
	Level      string `config:"level" mapstructure:"level"`
	Filename   string `config:"filename" mapstructure:"filename"`
	MaxSize    int    `config:"maxSize" mapstructure:"maxSize"`
	MaxAge     int    `config:"maxAge" mapstructure:"maxAge"`
	MaxBackups int    `config:"maxBackups" mapstructure:"maxBackups"`
}

// decode runs a mapstructure decode of m into out with a string-to-duration
// hook, since config values arriving from YAML are strings like "30s" while
// the target struct fields are time.Duration.
func decode(m map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

// UnpackListeners decodes the entire top-level "listeners" section, a
// YAML list, into one ListenerConfig per entry, each defaulted via
// DefaultListenerConfig before its raw values are applied.
func (c *Config) UnpackListeners() ([]ListenerConfig, error) {
	var raw []map[string]any
	if !c.Has("listeners") {
		return nil, nil
	}
	if err := c.UnpackChild("listeners", &raw); err != nil {
		return nil, err
	}

	listeners := make([]ListenerConfig, 0, len(raw))
	for _, entry := range raw {
		lc := DefaultListenerConfig()
		if err := decode(entry, &lc); err != nil {
			return nil, err
		}
		listeners = append(listeners, lc)
	}
	return listeners, nil
}

// UnpackLog decodes the top-level "log" section into a LogConfig.
func (c *Config) UnpackLog() (LogConfig, error) {
	defaults := LogConfig{Stdout: true, Level: "info"}
	if !c.Has("log") {
		return defaults, nil
	}
	var raw map[string]any
	if err := c.UnpackChild("log", &raw); err != nil {
		return LogConfig{}, err
	}
	lc := defaults
	if err := decode(raw, &lc); err != nil {
		return LogConfig{}, err
	}
	return lc, nil
}

// DefaultListenerConfig mirrors conn.DefaultConfig's values so a listener
// entry that omits a field falls back to the same default the core uses.
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         30 * time.Second,
		KeepAliveTimeout:     120 * time.Second,
		MaxRequestSize:       common.DefaultMaxRequestSize,
		MaxHeaderSize:        common.DefaultMaxHeaderSize,
		MaxHeaders:           common.DefaultMaxHeaders,
		MaxConcurrentStreams: common.DefaultMaxConcurrentStreams,
		InitialWindowSize:    common.DefaultInitialWindowSize,
		MaxFrameSize:         common.DefaultMaxFrameSize,
		Pool: PoolConfig{
			BufferCapacity: 1024,
			StreamCapacity: 256,
		},
	}
}

// Options renders lc as the common.Options bag conn.FromOptions consumes,
// so listener setup has a single typed-to-loosely-typed boundary rather
// than two parallel decoding paths.
func (lc ListenerConfig) Options() common.Options {
	o := common.NewOptions()
	o.Merge("read_timeout", lc.ReadTimeout)
	o.Merge("write_timeout", lc.WriteTimeout)
	o.Merge("keep_alive_timeout", lc.KeepAliveTimeout)
	o.Merge("max_request_size", lc.MaxRequestSize)
	o.Merge("max_header_size", lc.MaxHeaderSize)
	o.Merge("max_headers", lc.MaxHeaders)
	o.Merge("max_concurrent_streams", int(lc.MaxConcurrentStreams))
	o.Merge("initial_window_size", int(lc.InitialWindowSize))
	o.Merge("max_frame_size", int(lc.MaxFrameSize))
	return o
}
