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

// huffmanSymLen holds, for every symbol 0-255 plus the EOS symbol (256),
// the bit length of its RFC 7541 Appendix B canonical Huffman code. The
// codes themselves are derived from these lengths at init() time via the
// standard canonical-Huffman construction (same algorithm DEFLATE and
// HPACK both use to build their published code tables from a length list),
// rather than hand-transcribed bit patterns -- a transposition error in a
// 30-bit literal is far easier to make than in a small integer length.
var huffmanSymLen = [257]uint8{
	13, 23, 28, 28, 28, 28, 28, 28, 28, 24, 30, 28, 28, 30, 28, 28,
	28, 28, 28, 28, 28, 28, 30, 28, 28, 28, 28, 28, 28, 28, 28, 28,
	6, 10, 10, 12, 13, 6, 8, 11, 10, 10, 8, 11, 8, 6, 6, 6,
	5, 5, 5, 6, 6, 6, 6, 6, 6, 6, 7, 8, 15, 6, 12, 10,
	13, 6, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 8, 7, 8, 13, 19, 13, 14, 6,
	15, 5, 6, 5, 6, 5, 6, 6, 6, 5, 7, 7, 6, 6, 6, 5,
	6, 7, 6, 5, 5, 6, 7, 7, 7, 7, 7, 15, 11, 14, 13, 28,
	20, 22, 20, 20, 22, 22, 22, 23, 22, 23, 23, 23, 23, 23, 24, 23,
	24, 24, 22, 23, 24, 23, 23, 23, 23, 21, 22, 23, 22, 23, 23, 24,
	22, 21, 20, 22, 22, 23, 23, 21, 23, 22, 22, 24, 21, 22, 23, 23,
	21, 21, 22, 21, 23, 22, 23, 23, 20, 22, 22, 22, 23, 22, 22, 23,
	26, 26, 20, 19, 22, 23, 22, 25, 26, 26, 26, 27, 27, 26, 24, 25,
	19, 21, 26, 27, 27, 26, 27, 24, 21, 21, 26, 26, 28, 27, 27, 27,
	20, 24, 20, 21, 22, 21, 21, 23, 22, 22, 25, 25, 24, 24, 26, 23,
	26, 27, 26, 26, 27, 27, 27, 27, 27, 28, 27, 27, 27, 27, 27, 26,
	30,
}

const huffmanEOS = 256

type huffmanCode struct {
	code uint32
	len  uint8
}

var huffmanCodes [257]huffmanCode

type huffmanNode struct {
	children [2]*huffmanNode
	sym      int32
}

var huffmanRoot *huffmanNode

func init() {
	buildHuffmanCodes()
	huffmanRoot = buildHuffmanTrie()
	selfCheckHuffman()
}

// buildHuffmanCodes runs the canonical-Huffman code assignment: symbols
// are ordered first by code length, then by symbol value, with codes
// assigned as a simple incrementing counter, left-shifted whenever the
// length increases. See RFC 1951 §3.2.2 for the general algorithm; RFC
// 7541 Appendix B publishes the table this produces.
func buildHuffmanCodes() {
	const maxBits = 30
	var blCount [maxBits + 1]int
	for _, l := range huffmanSymLen {
		blCount[l]++
	}
	var nextCode [maxBits + 1]uint32
	code := uint32(0)
	for bits := 1; bits <= maxBits; bits++ {
		code = (code + uint32(blCount[bits-1])) << 1
		nextCode[bits] = code
	}
	for sym := 0; sym <= huffmanEOS; sym++ {
		l := huffmanSymLen[sym]
		huffmanCodes[sym] = huffmanCode{code: nextCode[l], len: l}
		nextCode[l]++
	}
}

func buildHuffmanTrie() *huffmanNode {
	root := &huffmanNode{sym: -1}
	for sym, hc := range huffmanCodes {
		node := root
		for i := int(hc.len) - 1; i >= 0; i-- {
			bit := (hc.code >> uint(i)) & 1
			next := node.children[bit]
			if next == nil {
				next = &huffmanNode{sym: -1}
				node.children[bit] = next
			}
			node = next
		}
		node.sym = int32(sym)
	}
	return root
}

// huffmanDecode decodes a Huffman-coded string per RFC 7541 Appendix B.
// Decoding is restartable bit by bit across byte boundaries; any trailing
// unconsumed bits at the end of src must form a run of fewer than 8 1s
// (valid EOS padding), otherwise it is a compression error.
func huffmanDecode(dst []byte, src []byte) ([]byte, error) {
	node := huffmanRoot
	depth := 0
	allOnesSincePath := true

	for _, b := range src {
		for i := 7; i >= 0; i-- {
			bit := (b >> uint(i)) & 1
			if bit == 0 {
				allOnesSincePath = false
			}
			next := node.children[bit]
			if next == nil {
				return nil, newHpackError("invalid huffman code sequence")
			}
			node = next
			depth++
			if node.sym >= 0 {
				if node.sym == huffmanEOS {
					return nil, newHpackError("huffman stream encodes the EOS symbol")
				}
				dst = append(dst, byte(node.sym))
				node = huffmanRoot
				depth = 0
				allOnesSincePath = true
			}
		}
	}

	if node != huffmanRoot {
		if depth >= 8 || !allOnesSincePath {
			return nil, newHpackError("huffman string has invalid EOS padding")
		}
	}
	return dst, nil
}

// selfCheckHuffman validates the generated table against the best-known
// RFC 7541 Appendix C.4.1 Huffman test vector -- the request-header
// literal encoding of "www.example.com" -- and panics if the generated
// table fails to reproduce it. This runs once at package init, per the
// "build time or once at startup" requirement: a bad table must never
// reach a live decode path.
func selfCheckHuffman() {
	encoded := []byte{
		0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff,
	}
	got, err := huffmanDecode(nil, encoded)
	if err != nil {
		panic("hpack: huffman self-check failed to decode: " + err.Error())
	}
	const want = "www.example.com"
	if string(got) != want {
		panic("hpack: huffman self-check mismatch: got " + string(got) + " want " + want)
	}
}
