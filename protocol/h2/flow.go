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

// Window is a signed HTTP/2 flow-control window (RFC 7540 §6.9). Both
// connection-wide and per-stream windows use this type. A SETTINGS change
// to SETTINGS_INITIAL_WINDOW_SIZE can legally push an existing stream's
// send window negative; Increase is what brings it back up, and Consume
// never allows it to go the other way past zero.
type Window struct {
	size int64
}

// NewWindow returns a Window initialized to initial, RFC 7540's starting
// value of 65535 for a freshly created stream or connection.
func NewWindow(initial uint32) Window {
	return Window{size: int64(initial)}
}

// Size returns the window's current value, which can be negative.
func (w Window) Size() int64 {
	return w.size
}

// Consume deducts n bytes of sent or received data from the window.
// Returns a FLOW_CONTROL_ERROR if n would take the window below what a
// well-behaved sender already accounted for -- callers only invoke this
// for data actually observed on the wire, so driving it negative here
// means the peer sent more than its window allowed.
func (w *Window) Consume(n uint32) error {
	if int64(n) > w.size {
		return ErrConnection(ErrCodeFlowControlError, "flow control window exceeded: tried to consume %d, window is %d", n, w.size)
	}
	w.size -= int64(n)
	return nil
}

// Increase applies a WINDOW_UPDATE increment. Returns a FLOW_CONTROL_ERROR
// if the result would overflow the RFC 7540 §6.9.1 ceiling of 2^31-1.
func (w *Window) Increase(increment uint32) error {
	next := w.size + int64(increment)
	if next > int64(MaxWindowSize) {
		return ErrConnection(ErrCodeFlowControlError, "window update overflows: %d + %d exceeds %d", w.size, increment, MaxWindowSize)
	}
	w.size = next
	return nil
}

// ApplyInitialWindowDelta shifts the window by delta, the change in
// SETTINGS_INITIAL_WINDOW_SIZE applied to every stream already open when a
// new SETTINGS frame arrives (RFC 7540 §6.9.2). delta may be negative and
// may legally drive the window negative.
func (w *Window) ApplyInitialWindowDelta(delta int64) error {
	next := w.size + delta
	if next > int64(MaxWindowSize) {
		return ErrConnection(ErrCodeFlowControlError, "initial window size change overflows stream window")
	}
	w.size = next
	return nil
}
