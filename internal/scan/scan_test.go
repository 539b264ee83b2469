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

package scan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexByteAgreesWithScalar(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("a"),
		[]byte("hello world"),
		append([]byte("abc\x00def"), ':'),
		[]byte("01234567"), // exactly one SWAR word
		[]byte("0123456789"),
	}
	for _, c := range cases {
		require.Equal(t, IndexByteScalar(c, ':'), IndexByte(c, ':'))
	}
}

func TestIndexCRLFAgreesWithScalar(t *testing.T) {
	cases := []string{
		"",
		"\r\n",
		"no crlf here",
		"short\r",
		"exactly8\r\ntail",
		"12345678\r\n",
		"\x00\x00\x00\x00\x00\x00\r\n",
		"a very long line with embedded\x00nul and then\r\nmore",
		"boundary-crossing-case-0123456\r\n7",
	}
	for _, c := range cases {
		b := []byte(c)
		require.Equal(t, IndexCRLFScalar(b), IndexCRLF(b), "mismatch for %q", c)
	}
}

func TestIndexCRLFNoTrailingPastEnd(t *testing.T) {
	b := []byte("abc\r")
	require.Equal(t, -1, IndexCRLF(b))
}

func TestSkipWhitespace(t *testing.T) {
	require.Equal(t, 0, SkipWhitespace([]byte("abc")))
	require.Equal(t, 2, SkipWhitespace([]byte("  abc")))
	require.Equal(t, 3, SkipWhitespace([]byte(" \t abc")))
	require.Equal(t, 3, SkipWhitespace([]byte("   ")))
}

func TestIsToken(t *testing.T) {
	require.True(t, IsToken([]byte("Content-Type")))
	require.True(t, IsToken([]byte("X-Custom_Header.v1")))
	require.False(t, IsToken([]byte("")))
	require.False(t, IsToken([]byte("Has Space")))
	require.False(t, IsToken([]byte("Has:Colon")))
	require.False(t, IsToken([]byte("Has\x00Nul")))
}

func TestToUpperASCII(t *testing.T) {
	b := []byte("Content-type")
	ToUpperASCII(b)
	require.Equal(t, "CONTENT-TYPE", string(b))
}

func TestEqualFoldASCII(t *testing.T) {
	require.True(t, EqualFoldASCII([]byte("Content-Length"), []byte("content-length")))
	require.False(t, EqualFoldASCII([]byte("Content-Length"), []byte("Content-Type")))
	require.False(t, EqualFoldASCII([]byte("a"), []byte("ab")))
}

func TestScanner(t *testing.T) {
	s := NewScanner([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\nbody"))
	require.True(t, s.Scan())
	require.Equal(t, "GET / HTTP/1.1", string(s.Bytes()))
	require.True(t, s.Scan())
	require.Equal(t, "Host: x", string(s.Bytes()))
	require.True(t, s.Scan())
	require.Equal(t, "", string(s.Bytes()))
	require.Equal(t, "body", string(s.Rest()))
	require.False(t, s.Scan())
}
