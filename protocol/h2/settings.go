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

// SettingID is an RFC 7540 §6.5.2 SETTINGS parameter identifier.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// Default values per RFC 7540 §6.5.2.
const (
	DefaultHeaderTableSize      uint32 = 4096
	DefaultInitialWindowSize    uint32 = 65535
	DefaultMaxFrameSize         uint32 = 16384
	DefaultMaxConcurrentStreams uint32 = 100
	MaxWindowSize               uint32 = 1<<31 - 1
)

// Settings is the mutable set of SETTINGS parameters a peer has advertised.
// Unknown parameters are accepted and ignored per RFC 7540 §6.5.2; an
// endpoint "MUST NOT treat unknown identifiers as an error".
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32 // 0 means unbounded, the RFC default
}

// DefaultSettings returns the RFC 7540 §6.5.2 default parameter set, the
// state a connection's peer settings start in before any SETTINGS frame is
// received.
func DefaultSettings() Settings {
	return Settings{
		HeaderTableSize:      DefaultHeaderTableSize,
		EnablePush:           true,
		MaxConcurrentStreams: 1<<32 - 1, // "unbounded" by default per the RFC
		InitialWindowSize:    DefaultInitialWindowSize,
		MaxFrameSize:         DefaultMaxFrameSize,
		MaxHeaderListSize:    0,
	}
}

// Apply validates and merges one SETTINGS frame's parameters into s,
// returning the previous InitialWindowSize so the caller (the stream
// manager) can adjust every open stream's send window by the delta, per
// RFC 7540 §6.9.2.
func (s *Settings) Apply(settings []Setting) (previousInitialWindow uint32, err error) {
	previousInitialWindow = s.InitialWindowSize
	for _, set := range settings {
		switch set.ID {
		case SettingHeaderTableSize:
			s.HeaderTableSize = set.Value
		case SettingEnablePush:
			if set.Value > 1 {
				return previousInitialWindow, ErrConnection(ErrCodeProtocolError, "SETTINGS_ENABLE_PUSH must be 0 or 1, got %d", set.Value)
			}
			s.EnablePush = set.Value == 1
		case SettingMaxConcurrentStreams:
			s.MaxConcurrentStreams = set.Value
		case SettingInitialWindowSize:
			if set.Value > MaxWindowSize {
				return previousInitialWindow, ErrConnection(ErrCodeFlowControlError, "SETTINGS_INITIAL_WINDOW_SIZE %d exceeds maximum %d", set.Value, MaxWindowSize)
			}
			s.InitialWindowSize = set.Value
		case SettingMaxFrameSize:
			if set.Value < MinMaxFrameSize || set.Value > MaxMaxFrameSize {
				return previousInitialWindow, ErrConnection(ErrCodeProtocolError, "SETTINGS_MAX_FRAME_SIZE %d out of range [%d, %d]", set.Value, MinMaxFrameSize, MaxMaxFrameSize)
			}
			s.MaxFrameSize = set.Value
		case SettingMaxHeaderListSize:
			s.MaxHeaderListSize = set.Value
		default:
			// Unknown identifier: ignored per RFC 7540 §6.5.2.
		}
	}
	return previousInitialWindow, nil
}

// ToWire renders s as the Setting list a SETTINGS frame payload encodes,
// in a stable, deterministic order -- used when this endpoint advertises
// its own initial settings at connection start.
func (s Settings) ToWire() []Setting {
	push := uint32(0)
	if s.EnablePush {
		push = 1
	}
	return []Setting{
		{ID: SettingHeaderTableSize, Value: s.HeaderTableSize},
		{ID: SettingEnablePush, Value: push},
		{ID: SettingMaxConcurrentStreams, Value: s.MaxConcurrentStreams},
		{ID: SettingInitialWindowSize, Value: s.InitialWindowSize},
		{ID: SettingMaxFrameSize, Value: s.MaxFrameSize},
		{ID: SettingMaxHeaderListSize, Value: s.MaxHeaderListSize},
	}
}
