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

package cctalk

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithChecksumType selects the checksum scheme used for requests
func WithChecksumType(checksumType ChecksumType) Option {
	return func(d *Device) error {
		if checksumType != AdditiveChecksum && checksumType != CRC16 {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, checksumType)
		}
		d.config.ChecksumType = checksumType
		return nil
	}
}

// WithRetryConfig sets the retry configuration for the device
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		d.SetRetryConfig(config)
		return nil
	}
}

// WithMaxRetries sets the maximum number of attempts per exchange
func WithMaxRetries(maxAttempts int) Option {
	return func(device *Device) error {
		if maxAttempts < 1 {
			return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, maxAttempts)
		}
		device.config.RetryConfig = withDefaultBackoff(device.config.RetryConfig)
		device.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithRetryBackoff sets the initial backoff duration for retries
func WithRetryBackoff(initialBackoff time.Duration) Option {
	return func(device *Device) error {
		device.config.RetryConfig = withDefaultBackoff(device.config.RetryConfig)
		device.config.RetryConfig.InitialBackoff = initialBackoff
		return nil
	}
}

func withDefaultBackoff(config *RetryConfig) *RetryConfig {
	defaults := DefaultRetryConfig()
	if config == nil {
		return defaults
	}
	merged := *config
	if merged.InitialBackoff == 0 {
		merged.InitialBackoff = defaults.InitialBackoff
	}
	if merged.MaxBackoff == 0 {
		merged.MaxBackoff = defaults.MaxBackoff
	}
	if merged.BackoffMultiplier == 0 {
		merged.BackoffMultiplier = defaults.BackoffMultiplier
	}
	return &merged
}
