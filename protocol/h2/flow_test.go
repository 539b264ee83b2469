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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_ConsumeAndIncrease(t *testing.T) {
	w := NewWindow(DefaultInitialWindowSize)
	require.NoError(t, w.Consume(1000))
	assert.Equal(t, int64(DefaultInitialWindowSize)-1000, w.Size())

	require.NoError(t, w.Increase(500))
	assert.Equal(t, int64(DefaultInitialWindowSize)-500, w.Size())
}

func TestWindow_ConsumeBeyondWindowIsFlowControlError(t *testing.T) {
	w := NewWindow(10)
	err := w.Consume(11)
	require.Error(t, err)
	e, ok := AsH2Error(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeFlowControlError, e.Code)
}

// A client that ratchets WINDOW_UPDATE increments up against the 2^31-1
// ceiling must be rejected, not silently wrapped.
func TestWindow_IncreaseOverflow(t *testing.T) {
	w := NewWindow(MaxWindowSize - 10)
	err := w.Increase(20)
	require.Error(t, err)
	e, ok := AsH2Error(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeFlowControlError, e.Code)
}

func TestWindow_ApplyInitialWindowDeltaCanGoNegative(t *testing.T) {
	w := NewWindow(65535)
	require.NoError(t, w.Consume(65535))
	assert.Equal(t, int64(0), w.Size())

	// Peer lowers SETTINGS_INITIAL_WINDOW_SIZE to 100: existing streams'
	// send windows shift by the delta and may go negative (RFC 7540 §6.9.2).
	require.NoError(t, w.ApplyInitialWindowDelta(int64(100)-int64(65535)))
	assert.Equal(t, int64(100)-int64(65535), w.Size())
}

func TestWindow_ApplyInitialWindowDeltaOverflow(t *testing.T) {
	w := NewWindow(MaxWindowSize)
	err := w.ApplyInitialWindowDelta(1)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ErrCodeFlowControlError, e.Code)
}
