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

// Package hpack is a from-scratch RFC 7541 header-compression decoder: a
// 61-entry static table, a FIFO dynamic table with an xxhash-keyed
// exact-match index (Find), a canonical-construction Huffman decoder
// (RFC 7541 Appendix B), and the four header field representations.
package hpack

import "github.com/pkg/errors"

func newHpackError(format string, args ...any) error {
	return errors.Errorf("hpack: "+format, args...)
}
