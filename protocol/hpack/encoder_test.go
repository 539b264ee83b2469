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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_IndexedStaticField(t *testing.T) {
	e := NewEncoder()
	buf := e.EncodeList(nil, []HeaderField{{Name: ":status", Value: "200"}})
	assert.Equal(t, []byte{0x80 | 8}, buf)
}

func TestEncoder_LiteralFieldDecodesBack(t *testing.T) {
	e := NewEncoder()
	fields := []HeaderField{
		{Name: ":status", Value: "200"},
		{Name: "content-type", Value: "application/json"},
		{Name: "x-request-id", Value: "abc-123"},
	}
	block := e.EncodeList(nil, fields)

	d := NewDecoder(4096)
	decoded, err := d.DecodeFull(block)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i, f := range fields {
		assert.Equal(t, f.Name, decoded[i].Name)
		assert.Equal(t, f.Value, decoded[i].Value)
	}
}

func TestEncoder_RoundTripsEmptyValue(t *testing.T) {
	e := NewEncoder()
	block := e.EncodeList(nil, []HeaderField{{Name: "x-empty", Value: ""}})

	d := NewDecoder(4096)
	decoded, err := d.DecodeFull(block)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "x-empty", decoded[0].Name)
	assert.Equal(t, "", decoded[0].Value)
}
