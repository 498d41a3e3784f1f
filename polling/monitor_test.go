// go-cctalk
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cctalk.
//
// go-cctalk is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cctalk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cctalk; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package polling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// creditScript answers buffered credit requests from a list of replies,
// repeating the last one once the list is used up
type creditScript struct {
	replies  [][]byte
	priority []byte
	mu       sync.Mutex
	next     int
	other    int
}

func (s *creditScript) respond(msg *cctalk.Message) (*cctalk.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Payload.Header {
	case cctalk.HeaderReadBufferedCreditOrErrorCodes:
		if len(s.replies) == 0 {
			return nil, cctalk.ErrNoResponse
		}
		idx := s.next
		if idx >= len(s.replies) {
			idx = len(s.replies) - 1
		} else {
			s.next++
		}
		return cctalk.NewPayload(cctalk.HeaderReply, s.replies[idx]...), nil
	case cctalk.HeaderRequestPollingPriority:
		if s.priority == nil {
			return nil, cctalk.ErrNoResponse
		}
		return cctalk.NewPayload(cctalk.HeaderReply, s.priority...), nil
	default:
		s.other++
		return cctalk.NewPayload(cctalk.HeaderReply), nil
	}
}

func (s *creditScript) otherRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.other
}

func createScriptedDevice(t *testing.T, script *creditScript) *cctalk.Device {
	t.Helper()
	mock := cctalk.NewMockTransport()
	mock.SetResponseFunc(script.respond)
	device, err := cctalk.New(mock, cctalk.PeripheralAddress)
	require.NoError(t, err)
	return device
}

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	device := createScriptedDevice(t, &creditScript{})

	t.Run("WithDefaultConfig", func(t *testing.T) {
		t.Parallel()
		monitor, err := NewMonitor(device, nil)
		require.NoError(t, err)
		assert.Equal(t, device, monitor.GetDevice())
		assert.Equal(t, 200*time.Millisecond, monitor.config.FallbackInterval)
		assert.Equal(t, StateUnsynced, monitor.GetState().State)
	})

	t.Run("NilDevice", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(nil, nil)
		require.Error(t, err)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(device, &Config{PollInterval: -time.Second, FallbackInterval: time.Second})
		require.ErrorIs(t, err, cctalk.ErrInvalidParameter)

		_, err = NewMonitor(device, &Config{})
		require.ErrorIs(t, err, cctalk.ErrInvalidParameter)

		_, err = NewMonitor(device, &Config{FallbackInterval: time.Second, MaxConsecutiveErrors: -1})
		require.ErrorIs(t, err, cctalk.ErrInvalidParameter)
	})
}

func TestMonitor_PollDispatchesNewEvents(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{
		creditData(1, 3, 2),
		creditData(3, 1, 0x01, 2, 1, 3, 2),
		creditData(3, 1, 0x01, 2, 1, 3, 2),
	}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), nil)
	require.NoError(t, err)

	var got []cctalk.CreditEvent
	monitor.OnCredit = func(event cctalk.CreditEvent) {
		got = append(got, event)
	}

	ctx := context.Background()
	obs, err := monitor.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, obs.Events, "first poll only sets the baseline")

	_, err = monitor.Poll(ctx)
	require.NoError(t, err)
	_, err = monitor.Poll(ctx)
	require.NoError(t, err)

	assert.Equal(t, []cctalk.CreditEvent{{Channel: 2, Code: 1}, {Channel: 1, Code: 1}}, got)

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(3), metrics.PollCycles)
	assert.Equal(t, int64(2), metrics.Credits)
	assert.Zero(t, metrics.PollErrors)
	assert.Equal(t, byte(3), monitor.GetState().LastCounter)
}

func TestMonitor_FaultCodes(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{
		creditData(0),
		creditData(2, 0, byte(cctalk.CoinRejectCoin), 4, 1),
	}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), nil)
	require.NoError(t, err)

	var faults []cctalk.CoinAcceptorError
	monitor.OnCredit = func(event cctalk.CreditEvent) {
		if !event.IsCredit() {
			faults = append(faults, event.Fault())
		}
	}

	for i := 0; i < 2; i++ {
		_, err = monitor.Poll(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, []cctalk.CoinAcceptorError{cctalk.CoinRejectCoin}, faults)
	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(1), metrics.Credits)
	assert.Equal(t, int64(1), metrics.Faults)
}

func TestMonitor_LostEventsAndReset(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{
		creditData(1),
		creditData(8, 1, 1, 2, 1, 3, 2, 4, 1, 5, 1),
		creditData(0),
	}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), nil)
	require.NoError(t, err)

	var lost, resets int
	monitor.OnEventsLost = func(n int) { lost += n }
	monitor.OnDeviceReset = func() { resets++ }

	for i := 0; i < 3; i++ {
		_, err = monitor.Poll(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 2, lost)
	assert.Equal(t, 1, resets)

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(2), metrics.EventsLost)
	assert.Equal(t, int64(1), metrics.DeviceResets)
	assert.Equal(t, int64(5), metrics.Credits)
}

func TestMonitor_ResetWithNewCoinsBeforePoll(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{
		creditData(5, 1, 1),
		creditData(2, 4, 1, 3, 2),
	}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), nil)
	require.NoError(t, err)

	var got []cctalk.CreditEvent
	var resets int
	monitor.OnCredit = func(event cctalk.CreditEvent) { got = append(got, event) }
	monitor.OnDeviceReset = func() { resets++ }

	for i := 0; i < 2; i++ {
		_, err = monitor.Poll(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, resets)
	assert.Equal(t, []cctalk.CreditEvent{{Channel: 3, Code: 2}, {Channel: 4, Code: 1}}, got)

	metrics := monitor.GetMetrics()
	assert.Zero(t, metrics.EventsLost)
	assert.Zero(t, metrics.Faults)
	assert.Equal(t, int64(2), metrics.Credits)
}

func TestMonitor_PollError(t *testing.T) {
	t.Parallel()

	monitor, err := NewMonitor(createScriptedDevice(t, &creditScript{}), nil)
	require.NoError(t, err)

	_, err = monitor.Poll(context.Background())
	require.ErrorIs(t, err, cctalk.ErrNoResponse)

	state := monitor.GetState()
	assert.Equal(t, StateOffline, state.State)
	assert.Equal(t, 1, state.ConsecutiveErrors)
	assert.Equal(t, int64(1), monitor.GetMetrics().PollErrors)
}

func TestMonitor_Resync(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{creditData(4, 1, 1), creditData(6, 2, 1, 1, 1)}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), nil)
	require.NoError(t, err)

	_, err = monitor.Poll(context.Background())
	require.NoError(t, err)

	monitor.Resync()
	obs, err := monitor.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, obs.Events)
	assert.Equal(t, byte(6), monitor.GetState().LastCounter)
}

func TestMonitor_Interval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority []byte
		config   *Config
		want     time.Duration
	}{
		{
			name:     "configured interval wins",
			priority: []byte{2, 20},
			config:   &Config{PollInterval: 30 * time.Millisecond, FallbackInterval: time.Second},
			want:     30 * time.Millisecond,
		},
		{
			name:     "peripheral polling priority",
			priority: []byte{1, 50},
			want:     50 * time.Millisecond,
		},
		{
			name:     "peripheral gives no interval",
			priority: []byte{0, 0},
			want:     200 * time.Millisecond,
		},
		{
			name: "peripheral does not answer",
			want: 200 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device := createScriptedDevice(t, &creditScript{priority: tt.priority})
			monitor, err := NewMonitor(device, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, monitor.Interval(context.Background()))
		})
	}
}

func TestMonitor_StartStopsAfterConsecutiveErrors(t *testing.T) {
	t.Parallel()

	device := createScriptedDevice(t, &creditScript{})
	monitor, err := NewMonitor(device, &Config{
		PollInterval:         time.Millisecond,
		FallbackInterval:     time.Second,
		MaxConsecutiveErrors: 3,
	})
	require.NoError(t, err)

	var reported int
	monitor.OnError = func(error) { reported++ }

	err = monitor.Start(context.Background())
	require.ErrorIs(t, err, cctalk.ErrNoResponse)
	assert.Equal(t, 3, reported)
	assert.Equal(t, int64(3), monitor.GetMetrics().PollErrors)
}

func TestMonitor_StartStopsOnCancel(t *testing.T) {
	t.Parallel()

	script := &creditScript{replies: [][]byte{creditData(0)}}
	monitor, err := NewMonitor(createScriptedDevice(t, script), &Config{
		PollInterval:     time.Millisecond,
		FallbackInterval: time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Start(ctx) }()

	require.Eventually(t, func() bool {
		return monitor.GetMetrics().PollCycles >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	assert.Equal(t, StateSynced, monitor.GetState().State)
}

func TestMonitor_Close(t *testing.T) {
	t.Parallel()

	mock := cctalk.NewMockTransport()
	device, err := cctalk.New(mock, cctalk.PeripheralAddress)
	require.NoError(t, err)
	monitor, err := NewMonitor(device, nil)
	require.NoError(t, err)

	require.NoError(t, monitor.Close())
	_, err = monitor.Poll(context.Background())
	require.ErrorIs(t, err, cctalk.ErrTransportClosed)
}
