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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-cctalk"
)

// Metrics tracks operational metrics for a Monitor
type Metrics struct {
	PollCycles      int64         // Total number of polling cycles
	PollErrors      int64         // Number of failed polls
	Credits         int64         // Number of coins reported
	Faults          int64         // Number of error codes reported
	EventsLost      int64         // Events that overflowed the history
	DeviceResets    int64         // Number of counter resets seen
	LastPollLatency time.Duration // Duration of last polling operation
}

// Monitor polls a peripheral's buffered credit and reports new events.
//
// Callbacks run on the polling goroutine; a slow callback delays the next
// poll.
type Monitor struct {
	device        *cctalk.Device
	config        *Config
	OnCredit      func(event cctalk.CreditEvent)
	OnEventsLost  func(lost int)
	OnDeviceReset func()
	OnError       func(err error)
	betweenPolls  func(ctx context.Context)
	state         CreditState
	mu            sync.Mutex

	pollCycles      int64
	pollErrors      int64
	credits         int64
	faults          int64
	eventsLost      int64
	deviceResets    int64
	lastPollLatency int64 // in nanoseconds
}

// NewMonitor creates a new credit monitor
func NewMonitor(device *cctalk.Device, config *Config) (*Monitor, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Monitor{
		device: device,
		config: config,
	}, nil
}

// GetDevice returns the underlying ccTalk device
func (m *Monitor) GetDevice() *cctalk.Device {
	return m.device
}

// GetState returns the current tracking state
func (m *Monitor) GetState() CreditState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      atomic.LoadInt64(&m.pollCycles),
		PollErrors:      atomic.LoadInt64(&m.pollErrors),
		Credits:         atomic.LoadInt64(&m.credits),
		Faults:          atomic.LoadInt64(&m.faults),
		EventsLost:      atomic.LoadInt64(&m.eventsLost),
		DeviceResets:    atomic.LoadInt64(&m.deviceResets),
		LastPollLatency: time.Duration(atomic.LoadInt64(&m.lastPollLatency)),
	}
}

// Resync forgets the counter baseline; the next poll sets it again
func (m *Monitor) Resync() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.TransitionToUnsynced()
}

// Close closes the underlying device
func (m *Monitor) Close() error {
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}

// Interval resolves the polling interval: the configured one, else the
// peripheral's polling priority, else the fallback
func (m *Monitor) Interval(ctx context.Context) time.Duration {
	if m.config.PollInterval > 0 {
		return m.config.PollInterval
	}

	interval, err := m.device.RequestPollingPriorityContext(ctx)
	switch {
	case err != nil:
		cctalk.Logger().Warn("polling priority unavailable, using fallback",
			"address", m.device.Address(), "fallback", m.config.FallbackInterval, "error", err)
		return m.config.FallbackInterval
	case interval <= 0:
		return m.config.FallbackInterval
	default:
		return interval
	}
}

// Start polls until ctx is done, or until MaxConsecutiveErrors polls in a
// row have failed
func (m *Monitor) Start(ctx context.Context) error {
	interval := m.Interval(ctx)
	cctalk.Logger().Debug("credit monitor started", "address", m.device.Address(), "interval", interval)
	return m.continuousPolling(ctx, interval)
}

func (m *Monitor) continuousPolling(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := m.Poll(ctx); err != nil {
			if stop := m.handlePollingError(err); stop != nil {
				return stop
			}
		}

		if m.betweenPolls != nil {
			m.betweenPolls(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// handlePollingError reports err and returns non-nil when polling should
// stop
func (m *Monitor) handlePollingError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if m.OnError != nil {
		m.OnError(err)
	}

	m.mu.Lock()
	failures := m.state.ConsecutiveErrors
	m.mu.Unlock()

	if m.config.MaxConsecutiveErrors > 0 && failures >= m.config.MaxConsecutiveErrors {
		return fmt.Errorf("credit polling stopped after %d consecutive failures: %w", failures, err)
	}
	return nil
}

// Poll performs one buffered credit read and dispatches the new events
func (m *Monitor) Poll(ctx context.Context) (Observation, error) {
	start := time.Now()
	buf, err := m.device.ReadBufferedCreditContext(ctx)
	atomic.AddInt64(&m.pollCycles, 1)
	atomic.StoreInt64(&m.lastPollLatency, time.Since(start).Nanoseconds())

	if err != nil {
		atomic.AddInt64(&m.pollErrors, 1)
		m.mu.Lock()
		m.state.TransitionToOffline()
		m.mu.Unlock()
		return Observation{}, fmt.Errorf("credit poll failed: %w", err)
	}

	m.mu.Lock()
	obs := m.state.Observe(buf, m.config.ReportBacklog)
	m.mu.Unlock()

	m.dispatch(obs)
	return obs, nil
}

func (m *Monitor) dispatch(obs Observation) {
	if obs.DeviceReset {
		atomic.AddInt64(&m.deviceResets, 1)
		cctalk.Logger().Info("peripheral event counter reset", "address", m.device.Address())
		if m.OnDeviceReset != nil {
			m.OnDeviceReset()
		}
	}

	if obs.Lost > 0 {
		atomic.AddInt64(&m.eventsLost, int64(obs.Lost))
		cctalk.Logger().Warn("credit events lost", "address", m.device.Address(), "lost", obs.Lost)
		if m.OnEventsLost != nil {
			m.OnEventsLost(obs.Lost)
		}
	}

	for _, event := range obs.Events {
		if event.IsCredit() {
			atomic.AddInt64(&m.credits, 1)
		} else {
			atomic.AddInt64(&m.faults, 1)
		}
		if m.OnCredit != nil {
			m.OnCredit(event)
		}
	}
}
