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

import "encoding/binary"

// WriteFrameHeader appends a 9-byte frame header to buf and returns the
// extended slice. length must already be known (callers build the payload
// first, then the header).
func WriteFrameHeader(buf []byte, length uint32, typ FrameType, flags uint8, streamID uint32) []byte {
	var hdr [FrameHeaderLength]byte
	hdr[0] = byte(length >> 16)
	hdr[1] = byte(length >> 8)
	hdr[2] = byte(length)
	hdr[3] = byte(typ)
	hdr[4] = flags
	binary.BigEndian.PutUint32(hdr[5:9], streamID&streamIDMask)
	return append(buf, hdr[:]...)
}

// WriteData appends a DATA frame carrying data on streamID.
func WriteData(buf []byte, streamID uint32, data []byte, endStream bool) []byte {
	var flags uint8
	if endStream {
		flags = FlagEndStream
	}
	buf = WriteFrameHeader(buf, uint32(len(data)), FrameData, flags, streamID)
	return append(buf, data...)
}

// WriteHeaders appends a HEADERS frame. headerBlock must already be HPACK
// encoded by the caller; this package's writer never touches header
// compression.
func WriteHeaders(buf []byte, streamID uint32, headerBlock []byte, endStream, endHeaders bool) []byte {
	var flags uint8
	if endStream {
		flags |= FlagEndStream
	}
	if endHeaders {
		flags |= FlagEndHeaders
	}
	buf = WriteFrameHeader(buf, uint32(len(headerBlock)), FrameHeaders, flags, streamID)
	return append(buf, headerBlock...)
}

// WriteContinuation appends a CONTINUATION frame carrying the remainder of
// a header block too large for a single HEADERS frame.
func WriteContinuation(buf []byte, streamID uint32, headerBlock []byte, endHeaders bool) []byte {
	var flags uint8
	if endHeaders {
		flags = FlagEndHeaders
	}
	buf = WriteFrameHeader(buf, uint32(len(headerBlock)), FrameContinuation, flags, streamID)
	return append(buf, headerBlock...)
}

// WriteSettings appends a SETTINGS frame listing the given parameters.
func WriteSettings(buf []byte, settings []Setting) []byte {
	buf = WriteFrameHeader(buf, uint32(len(settings)*6), FrameSettings, 0, 0)
	for _, s := range settings {
		var entry [6]byte
		binary.BigEndian.PutUint16(entry[0:2], uint16(s.ID))
		binary.BigEndian.PutUint32(entry[2:6], s.Value)
		buf = append(buf, entry[:]...)
	}
	return buf
}

// WriteSettingsAck appends an empty SETTINGS frame with the ACK flag set,
// as required immediately after processing a peer's non-ACK SETTINGS
// frame (RFC 7540 §6.5.3).
func WriteSettingsAck(buf []byte) []byte {
	return WriteFrameHeader(buf, 0, FrameSettings, FlagAck, 0)
}

// WritePing appends a PING frame; set ack for a reply to a peer's PING.
func WritePing(buf []byte, data [8]byte, ack bool) []byte {
	var flags uint8
	if ack {
		flags = FlagAck
	}
	buf = WriteFrameHeader(buf, 8, FramePing, flags, 0)
	return append(buf, data[:]...)
}

// WriteRstStream appends an RST_STREAM frame.
func WriteRstStream(buf []byte, streamID uint32, code ErrCode) []byte {
	buf = WriteFrameHeader(buf, 4, FrameRstStream, 0, streamID)
	var payload [4]byte
	binary.BigEndian.PutUint32(payload[:], uint32(code))
	return append(buf, payload[:]...)
}

// WriteGoAway appends a GOAWAY frame closing the connection after
// lastStreamID, with optional debugData diagnostic text.
func WriteGoAway(buf []byte, lastStreamID uint32, code ErrCode, debugData []byte) []byte {
	length := 8 + len(debugData)
	buf = WriteFrameHeader(buf, uint32(length), FrameGoAway, 0, 0)
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], lastStreamID&streamIDMask)
	binary.BigEndian.PutUint32(head[4:8], uint32(code))
	buf = append(buf, head[:]...)
	return append(buf, debugData...)
}

// WriteWindowUpdate appends a WINDOW_UPDATE frame incrementing streamID's
// (or, if streamID is 0, the connection's) flow-control window.
func WriteWindowUpdate(buf []byte, streamID uint32, increment uint32) []byte {
	buf = WriteFrameHeader(buf, 4, FrameWindowUpdate, 0, streamID)
	var payload [4]byte
	binary.BigEndian.PutUint32(payload[:], increment&streamIDMask)
	return append(buf, payload[:]...)
}
