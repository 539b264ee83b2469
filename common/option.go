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

import (
	"time"

	"github.com/spf13/cast"
)

// Options is a loosely typed config bag. Listener configuration is decoded
// into it from YAML/flags before being cast into the strongly typed structs
// each component actually consumes.
type Options map[string]any

func NewOptions() Options {
	return make(Options)
}

func (o Options) GetInt(k string) (int, error) {
	return cast.ToIntE(o[k])
}

func (o Options) GetBool(k string) (bool, error) {
	return cast.ToBoolE(o[k])
}

func (o Options) GetString(k string) (string, error) {
	return cast.ToStringE(o[k])
}

func (o Options) GetDuration(k string) (time.Duration, error) {
	return cast.ToDurationE(o[k])
}

func (o Options) GetStringSlice(k string) ([]string, error) {
	return cast.ToStringSliceE(o[k])
}

func (o Options) Merge(k string, v any) {
	o[k] = v
}

// GetIntDefault returns the value at k cast to int, or def if the key is
// absent or cannot be cast.
func (o Options) GetIntDefault(k string, def int) int {
	v, err := o.GetInt(k)
	if err != nil {
		return def
	}
	return v
}

// GetDurationDefault returns the value at k cast to time.Duration, or def
// if the key is absent or cannot be cast.
func (o Options) GetDurationDefault(k string, def time.Duration) time.Duration {
	v, err := o.GetDuration(k)
	if err != nil {
		return def
	}
	return v
}

// GetBoolDefault returns the value at k cast to bool, or def if the key is
// absent or cannot be cast.
func (o Options) GetBoolDefault(k string, def bool) bool {
	v, err := o.GetBool(k)
	if err != nil {
		return def
	}
	return v
}
