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

// Encoder renders HeaderFields into an HPACK header block. Response
// headers on this server are few and short-lived per stream, so unlike
// Decoder this does not maintain a dynamic table of its own: a field that
// exactly matches a static-table entry is encoded as that index, and every
// other field as a literal with a literal name and incremental indexing
// disabled (RFC 7541 §6.2.2), which is always valid for any compliant peer to decode
// regardless of what its dynamic table currently holds. Huffman coding is
// optional for an encoder per RFC 7541 §5.2 and is skipped: a plain
// literal never expands a header beyond its raw length plus the prefix.
type Encoder struct{}

// NewEncoder returns an Encoder. It carries no state.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeList appends the HPACK encoding of fields, in order, to dst.
func (e *Encoder) EncodeList(dst []byte, fields []HeaderField) []byte {
	for _, f := range fields {
		dst = e.encodeField(dst, f)
	}
	return dst
}

func (e *Encoder) encodeField(dst []byte, f HeaderField) []byte {
	if idx, ok := staticIndexOf(f.Name, f.Value); ok {
		return encodeInt(dst, uint64(idx), 7, 0x80)
	}
	// 0000xxxx: literal header field without indexing, literal name.
	dst = append(dst, 0x00)
	dst = encodeString(dst, f.Name)
	dst = encodeString(dst, f.Value)
	return dst
}

// encodeInt appends an RFC 7541 §5.1 N-bit-prefix integer, with the
// high bits of the first byte set to prefixFlags (e.g. 0x80 for an
// indexed header field's leading 1 bit).
func encodeInt(dst []byte, v uint64, n uint8, prefixFlags byte) []byte {
	max := uint64(1)<<n - 1
	if v < max {
		return append(dst, prefixFlags|byte(v))
	}
	dst = append(dst, prefixFlags|byte(max))
	v -= max
	for v >= 0x80 {
		dst = append(dst, byte(v&0x7f)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// encodeString appends an RFC 7541 §5.2 string literal with the Huffman
// bit clear (raw bytes, never Huffman-coded).
func encodeString(dst []byte, s string) []byte {
	dst = encodeInt(dst, uint64(len(s)), 7, 0x00)
	return append(dst, s...)
}

// staticIndexOf returns the 1-based static table index for an exact
// (name, value) match, so common response headers (":status" codes,
// "content-type") can be encoded as a single indexed byte instead of a
// literal.
func staticIndexOf(name, value string) (int, bool) {
	for i, f := range staticTable {
		if f.Name == name && f.Value == value {
			return i + 1, true
		}
	}
	return 0, false
}
