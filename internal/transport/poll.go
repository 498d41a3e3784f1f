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

// Package transport provides internal transport utilities
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when a poll runs out of attempts or time
var ErrExhausted = errors.New("poll budget exhausted")

// PollOperation is one bounded read step.
// Returns: data, done, error
//   - data: the result when done is true
//   - done: false to keep polling
//   - error: a fault that stops polling immediately
type PollOperation[T any] func() (T, bool, error)

// PollConfig bounds a poll by attempt count and by wall clock
type PollConfig struct {
	// OnExhausted runs once when the budget is spent without a result
	OnExhausted func()
	MaxAttempts int
	Timeout     time.Duration
	Interval    time.Duration
}

// Poll repeats operation until it reports done, fails, or the budget in
// config runs out. A zero MaxAttempts or Timeout leaves that bound off.
func Poll[T any](ctx context.Context, config PollConfig, operation PollOperation[T]) (T, error) {
	var zero T

	var deadline time.Time
	if config.Timeout > 0 {
		deadline = time.Now().Add(config.Timeout)
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, done, err := operation()
		if err != nil {
			return zero, err
		}
		if done {
			return result, nil
		}

		if config.MaxAttempts > 0 && attempt >= config.MaxAttempts {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}

		if config.Interval > 0 {
			timer := time.NewTimer(config.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	if config.OnExhausted != nil {
		config.OnExhausted()
	}
	return zero, ErrExhausted
}
