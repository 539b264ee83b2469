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

func TestStreamManager_CreateClientStream(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	s, err := m.CreateClientStream(1, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)
	assert.Equal(t, StreamOpen, s.State)
	assert.Equal(t, 1, m.Len())
}

func TestStreamManager_EvenStreamIDIsConnectionError(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	_, err := m.CreateClientStream(2, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ScopeConnection, e.Scope)
}

func TestStreamManager_NonIncreasingStreamIDIsConnectionError(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	_, err := m.CreateClientStream(5, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)

	_, err = m.CreateClientStream(3, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ScopeConnection, e.Scope)
}

func TestStreamManager_RefusesBeyondConcurrencyLimit(t *testing.T) {
	m := NewStreamManager(1)
	_, err := m.CreateClientStream(1, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)

	_, err = m.CreateClientStream(3, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.Error(t, err)
	e, ok := AsH2Error(err)
	require.True(t, ok)
	assert.Equal(t, ScopeStream, e.Scope)
	assert.Equal(t, ErrCodeRefusedStream, e.Code)
}

func TestStreamManager_CloseThenSweep(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	_, err := m.CreateClientStream(1, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)

	m.Close(1)
	s, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, StreamClosed, s.State)

	n := m.Sweep()
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, m.Len())
}

func TestStreamManager_TransitionOnClosedStreamFails(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	_, err := m.CreateClientStream(1, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)
	m.Close(1)

	err = m.Transition(1, StreamHalfClosedLocal)
	require.Error(t, err)
	e, _ := AsH2Error(err)
	assert.Equal(t, ErrCodeStreamClosed, e.Code)
}

func TestStreamManager_ApplyInitialWindowDelta(t *testing.T) {
	m := NewStreamManager(DefaultMaxConcurrentStreams)
	s, err := m.CreateClientStream(1, DefaultInitialWindowSize, DefaultInitialWindowSize)
	require.NoError(t, err)

	require.NoError(t, m.ApplyInitialWindowDelta(int64(100)-int64(DefaultInitialWindowSize)))
	assert.Equal(t, int64(100), s.SendWindow.Size())
}
