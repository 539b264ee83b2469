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

// Decoder holds the per-connection state an HPACK header block is decoded
// against: the dynamic table and the ceiling our own SETTINGS_HEADER_TABLE_SIZE
// places on any size update the peer's encoder sends.
type Decoder struct {
	dynamic         *dynamicTable
	settingsMaxSize uint32
}

// NewDecoder returns a Decoder whose dynamic table starts empty with the
// given byte budget -- the value this endpoint advertises via its own
// SETTINGS_HEADER_TABLE_SIZE.
func NewDecoder(settingsMaxSize uint32) *Decoder {
	return &Decoder{
		dynamic:         newDynamicTable(settingsMaxSize),
		settingsMaxSize: settingsMaxSize,
	}
}

// SetMaxDynamicTableSize applies a new local SETTINGS_HEADER_TABLE_SIZE
// value. It sets the ceiling a peer-sent dynamic table size update
// instruction is validated against; raising it does not resize the table
// -- the peer's encoder is responsible for emitting the RFC 7541 §4.2
// size-update instruction (field representation 001xxxxx) at the start of
// the next header block. If the new ceiling is below the table's current
// byte budget, the budget is lowered to it immediately, evicting entries
// that no longer fit, rather than waiting on that instruction, since the
// table must never exceed what this endpoint is willing to remember.
func (d *Decoder) SetMaxDynamicTableSize(v uint32) {
	d.settingsMaxSize = v
	if d.dynamic.MaxSize() > v {
		d.dynamic.SetMaxSize(v)
	}
}

// DynamicTableSize reports the dynamic table's current byte consumption,
// for tests asserting the budget invariant.
func (d *Decoder) DynamicTableSize() uint32 {
	return d.dynamic.Size()
}

// DecodeFull decodes an entire header block (HEADERS frame payload plus
// any CONTINUATION payloads already concatenated by the caller) into an
// ordered list of header fields. Decoding one field can mutate the dynamic
// table (insertion, size update), so header blocks must be decoded in the
// order frames arrived -- callers never decode two header blocks from the
// same connection concurrently.
func (d *Decoder) DecodeFull(data []byte) ([]HeaderField, error) {
	var out []HeaderField
	for len(data) > 0 {
		f, rest, err := d.decodeOne(data)
		if err != nil {
			return nil, err
		}
		data = rest
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

// decodeOne decodes a single field representation from the head of data,
// returning the decoded field (nil for a dynamic-table-size-update, which
// produces no header field) and the remaining bytes.
func (d *Decoder) decodeOne(data []byte) (*HeaderField, []byte, error) {
	b := data[0]
	switch {
	case b&0x80 != 0: // 1xxxxxxx: indexed header field
		idx, n, err := decodeInt(data, 7)
		if err != nil {
			return nil, nil, err
		}
		f, err := d.lookup(int(idx))
		if err != nil {
			return nil, nil, err
		}
		return &f, data[n:], nil

	case b&0x40 != 0: // 01xxxxxx: literal with incremental indexing
		f, rest, err := d.decodeLiteral(data, 6)
		if err != nil {
			return nil, nil, err
		}
		d.dynamic.Insert(f.Name, f.Value)
		return &f, rest, nil

	case b&0x20 != 0: // 001xxxxx: dynamic table size update
		size, n, err := decodeInt(data, 5)
		if err != nil {
			return nil, nil, err
		}
		if size > uint64(d.settingsMaxSize) {
			return nil, nil, newHpackError("dynamic table size update %d exceeds advertised maximum %d", size, d.settingsMaxSize)
		}
		d.dynamic.SetMaxSize(uint32(size))
		return nil, data[n:], nil

	case b&0x10 != 0: // 0001xxxx: literal never indexed
		f, rest, err := d.decodeLiteral(data, 4)
		if err != nil {
			return nil, nil, err
		}
		f.Sensitive = true
		return &f, rest, nil

	default: // 0000xxxx: literal without indexing
		f, rest, err := d.decodeLiteral(data, 4)
		if err != nil {
			return nil, nil, err
		}
		return &f, rest, nil
	}
}

// decodeLiteral decodes the shared tail of the three literal
// representations: an N-bit prefix name index (0 = literal name follows),
// then the value string. prefixBits is 6 for incremental indexing, 4 for
// the other two representations.
func (d *Decoder) decodeLiteral(data []byte, prefixBits uint8) (HeaderField, []byte, error) {
	nameIdx, n, err := decodeInt(data, prefixBits)
	if err != nil {
		return HeaderField{}, nil, err
	}
	data = data[n:]

	var name string
	if nameIdx == 0 {
		name, data, err = decodeString(data)
		if err != nil {
			return HeaderField{}, nil, err
		}
	} else {
		existing, err := d.lookup(int(nameIdx))
		if err != nil {
			return HeaderField{}, nil, err
		}
		name = existing.Name
	}

	value, data, err := decodeString(data)
	if err != nil {
		return HeaderField{}, nil, err
	}
	return HeaderField{Name: name, Value: value}, data, nil
}

// lookup resolves a 1-based combined static+dynamic index. Indices
// 1..StaticTableSize are static; StaticTableSize+1 and up are dynamic, with
// StaticTableSize+1 naming the most recently inserted dynamic entry.
func (d *Decoder) lookup(idx int) (HeaderField, error) {
	if idx <= 0 {
		return HeaderField{}, newHpackError("index 0 is not a valid header field index")
	}
	if idx <= StaticTableSize {
		f, _ := staticLookup(idx)
		return f, nil
	}
	dynIdx := idx - StaticTableSize - 1
	f, ok := d.dynamic.Get(dynIdx)
	if !ok {
		return HeaderField{}, newHpackError("index %d is out of range (dynamic table has %d entries)", idx, d.dynamic.Len())
	}
	return f, nil
}

// decodeString decodes an RFC 7541 §5.2 string literal: a 1-bit Huffman
// flag, a 7-bit-prefix length integer, and length bytes of (possibly
// Huffman-coded) payload.
func decodeString(data []byte) (string, []byte, error) {
	if len(data) == 0 {
		return "", nil, newHpackError("string: empty input")
	}
	huffman := data[0]&0x80 != 0
	length, n, err := decodeInt(data, 7)
	if err != nil {
		return "", nil, err
	}
	data = data[n:]
	if uint64(len(data)) < length {
		return "", nil, newHpackError("string: truncated, need %d bytes, have %d", length, len(data))
	}
	raw := data[:length]
	rest := data[length:]

	if !huffman {
		return string(raw), rest, nil
	}
	decoded, err := huffmanDecode(nil, raw)
	if err != nil {
		return "", nil, err
	}
	return string(decoded), rest, nil
}
