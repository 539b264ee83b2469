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

package hpack

// HeaderField is a single decoded (name, value) pair. Sensitive marks a
// field that arrived as a "literal never indexed" representation, so a
// caller relaying the field onward (proxy, cache, log) knows not to let it
// re-enter any indexing scheme.
type HeaderField struct {
	Name      string
	Value     string
	Sensitive bool
}

// Size is the RFC 7541 §4.1 accounting size: 32 bytes of fixed overhead
// plus the literal octets of name and value. This, not len(Name)+len(Value),
// is what the dynamic table's byte budget is measured against.
func (f HeaderField) Size() uint32 {
	return uint32(32 + len(f.Name) + len(f.Value))
}

const entryOverhead = 32
