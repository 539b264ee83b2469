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

package h1

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/packetd/httpcore/internal/scan"
)

// ParseRequest parses one HTTP request out of input. On success it returns
// the parsed Request and the number of bytes consumed from input. On
// IncompleteRequest the caller should read more bytes and call again with a
// larger input; every other error is fatal for the connection.
func ParseRequest(input []byte, limits Limits) (Request, int, error) {
	s := scan.NewScanner(input)
	if !s.Scan() {
		return Request{}, 0, newParseError(IncompleteRequest, "request line not yet terminated")
	}

	method, uri, version, err := parseRequestLine(s.Bytes())
	if err != nil {
		return Request{}, 0, err
	}

	headers, headerBytes, err := parseHeaderBlock(s, limits)
	if err != nil {
		return Request{}, 0, err
	}
	if headerBytes > limits.MaxHeaderSize {
		return Request{}, 0, newParseError(RequestTooLarge, "header block %d exceeds limit %d", headerBytes, limits.MaxHeaderSize)
	}

	req := Request{Method: method, URI: uri, Version: version, Headers: headers}

	clValue, hasCL := headers.Get("Content-Length")
	teValue, hasTE := headers.Get("Transfer-Encoding")
	chunked := hasTE && isChunkedEncoding(teValue)

	if chunked && hasCL {
		return Request{}, 0, newParseError(MalformedRequest, "content-length and transfer-encoding: chunked both present")
	}

	switch {
	case chunked:
		rest := input[s.Pos():]
		body, trailers, n, err := parseChunkedBody(rest, limits)
		if err != nil {
			return Request{}, 0, err
		}
		req.Chunked = true
		req.Body = OwnedBody(body)
		req.Trailers = trailers
		return req, s.Pos() + n, nil

	case hasCL:
		length, err := parseContentLength(clValue, limits.MaxRequestSize)
		if err != nil {
			return Request{}, 0, err
		}
		rest := input[s.Pos():]
		if len(rest) < length {
			return Request{}, 0, newParseError(IncompleteRequest, "body incomplete: have %d want %d", len(rest), length)
		}
		req.Body = BorrowedBody(rest[:length])
		return req, s.Pos() + length, nil

	default:
		return req, s.Pos(), nil
	}
}

func parseHeaderBlock(s *scan.Scanner, limits Limits) (Headers, int, error) {
	var headers Headers
	headerBytes := 0
	for {
		if !s.Scan() {
			return nil, 0, newParseError(IncompleteRequest, "headers not yet terminated")
		}
		line := s.Bytes()
		if len(line) == 0 {
			return headers, headerBytes, nil
		}
		headerBytes += len(line) + 2
		if len(headers) >= limits.MaxHeaders {
			return nil, 0, newParseError(TooManyHeaders, "header count exceeds limit %d", limits.MaxHeaders)
		}
		name, value, err := parseHeaderLine(line)
		if err != nil {
			return nil, 0, err
		}
		headers = append(headers, HeaderField{Name: name, Value: value})
	}
}

func parseRequestLine(line []byte) (Method, string, Version, error) {
	sp1 := scan.IndexByte(line, ' ')
	if sp1 <= 0 {
		return 0, "", Version{}, newParseError(MalformedRequest, "missing method in request line")
	}
	rest := line[sp1+1:]
	sp2 := scan.IndexByte(rest, ' ')
	if sp2 <= 0 {
		return 0, "", Version{}, newParseError(MalformedRequest, "missing version in request line")
	}

	method, ok := methodByBytes[string(line[:sp1])]
	if !ok {
		return 0, "", Version{}, newParseError(InvalidMethod, "unrecognized method %q", line[:sp1])
	}

	uriBytes := rest[:sp2]
	if len(uriBytes) == 0 {
		return 0, "", Version{}, newParseError(InvalidUri, "empty uri")
	}
	if !utf8.Valid(uriBytes) {
		return 0, "", Version{}, newParseError(InvalidUri, "uri is not valid utf-8")
	}

	version, err := parseVersion(rest[sp2+1:])
	if err != nil {
		return 0, "", Version{}, err
	}

	return method, string(uriBytes), version, nil
}

func parseVersion(b []byte) (Version, error) {
	if len(b) != 8 || !bytes.HasPrefix(b, []byte("HTTP/")) || b[6] != '.' {
		return Version{}, newParseError(InvalidVersion, "malformed version %q", b)
	}
	major, minor := b[5], b[7]
	if major < '0' || major > '9' || minor < '0' || minor > '9' {
		return Version{}, newParseError(InvalidVersion, "malformed version %q", b)
	}
	v := Version{Major: major - '0', Minor: minor - '0'}
	switch v {
	case Version09, Version10, Version11, Version20:
		return v, nil
	default:
		return Version{}, newParseError(InvalidVersion, "unsupported version %q", b)
	}
}

func parseHeaderLine(line []byte) (string, string, error) {
	colon := scan.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", newParseError(InvalidHeader, "missing colon in header line %q", line)
	}
	name := line[:colon]
	if !scan.IsToken(name) {
		return "", "", newParseError(InvalidHeaderName, "invalid header name %q", name)
	}

	value := line[colon+1:]
	value = value[scan.SkipWhitespace(value):]
	end := len(value)
	for end > 0 && (value[end-1] == ' ' || value[end-1] == '\t') {
		end--
	}
	value = value[:end]
	if !validHeaderValue(value) {
		return "", "", newParseError(InvalidHeaderValue, "invalid header value for %q", name)
	}
	return string(name), string(value), nil
}

func validHeaderValue(v []byte) bool {
	for _, b := range v {
		if b == 0x00 || b == '\r' || b == '\n' {
			return false
		}
	}
	return true
}

func isChunkedEncoding(te string) bool {
	codings := strings.Split(te, ",")
	last := strings.TrimSpace(codings[len(codings)-1])
	return strings.EqualFold(last, "chunked")
}

func parseContentLength(v string, maxRequestSize int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, newParseError(InvalidContentLength, "invalid content-length %q", v)
	}
	if n > maxRequestSize {
		return 0, newParseError(RequestTooLarge, "content-length %d exceeds limit %d", n, maxRequestSize)
	}
	return n, nil
}

// parseChunkedBody decodes an RFC 7230 chunked body starting at the first
// chunk-size line. It returns the reassembled (owned) body, any trailer
// headers, and the number of bytes consumed from data.
func parseChunkedBody(data []byte, limits Limits) ([]byte, Headers, int, error) {
	pos := 0
	var out []byte
	total := 0

	for {
		rel := scan.IndexCRLF(data[pos:])
		if rel < 0 {
			return nil, nil, 0, newParseError(IncompleteRequest, "chunk size line not yet terminated")
		}
		sizeLine := data[pos : pos+rel]
		pos += rel + 2

		if semi := scan.IndexByte(sizeLine, ';'); semi >= 0 {
			sizeLine = sizeLine[:semi]
		}
		sizeLine = bytes.TrimSpace(sizeLine)
		if len(sizeLine) == 0 {
			return nil, nil, 0, newParseError(InvalidChunkSize, "empty chunk size")
		}

		size, err := parseHexUint(sizeLine)
		if err != nil {
			return nil, nil, 0, err
		}

		if size == 0 {
			trailers, n, err := parseTrailers(data[pos:], limits)
			if err != nil {
				return nil, nil, 0, err
			}
			return out, trailers, pos + n, nil
		}

		if size > uint64(limits.MaxRequestSize) {
			return nil, nil, 0, newParseError(RequestTooLarge, "chunk size %d exceeds limit %d", size, limits.MaxRequestSize)
		}
		total += int(size)
		if total > limits.MaxRequestSize {
			return nil, nil, 0, newParseError(RequestTooLarge, "chunked body exceeds limit %d", limits.MaxRequestSize)
		}
		if pos+int(size)+2 > len(data) {
			return nil, nil, 0, newParseError(IncompleteRequest, "chunk data not yet complete")
		}

		out = append(out, data[pos:pos+int(size)]...)
		pos += int(size)
		if data[pos] != '\r' || data[pos+1] != '\n' {
			return nil, nil, 0, newParseError(MalformedRequest, "chunk data missing trailing crlf")
		}
		pos += 2
	}
}

func parseTrailers(data []byte, limits Limits) (Headers, int, error) {
	s := scan.NewScanner(data)
	var trailers Headers
	for {
		if !s.Scan() {
			return nil, 0, newParseError(IncompleteRequest, "trailers not yet terminated")
		}
		line := s.Bytes()
		if len(line) == 0 {
			return trailers, s.Pos(), nil
		}
		if len(trailers) >= limits.MaxHeaders {
			return nil, 0, newParseError(TooManyHeaders, "trailer count exceeds limit %d", limits.MaxHeaders)
		}
		name, value, err := parseHeaderLine(line)
		if err != nil {
			return nil, 0, err
		}
		trailers = append(trailers, HeaderField{Name: name, Value: value})
	}
}

// parseHexUint parses a hexadecimal chunk-size field, rejecting overflow
// past 64 bits and any non-hex-digit byte.
func parseHexUint(v []byte) (uint64, error) {
	if len(v) == 0 {
		return 0, newParseError(InvalidChunkSize, "empty chunk size field")
	}
	var n uint64
	for i, b := range v {
		var digit byte
		switch {
		case '0' <= b && b <= '9':
			digit = b - '0'
		case 'a' <= b && b <= 'f':
			digit = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			digit = b - 'A' + 10
		default:
			return 0, newParseError(InvalidChunkSize, "invalid hex digit %q", b)
		}
		if i == 16 {
			return 0, newParseError(InvalidChunkSize, "chunk size overflows 64 bits")
		}
		n = n<<4 | uint64(digit)
	}
	return n, nil
}
