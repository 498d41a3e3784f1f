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
	"fmt"
	"time"

	"github.com/ZaparooProject/go-cctalk"
)

// Config contains configuration options for a credit Monitor
type Config struct {
	// PollInterval is the pause between buffered credit reads. Zero asks
	// the peripheral for its polling priority.
	PollInterval time.Duration
	// FallbackInterval is used when the peripheral reports no polling
	// priority or cannot be asked
	FallbackInterval time.Duration
	// MaxConsecutiveErrors stops Start after that many failed polls in a
	// row. Zero never gives up.
	MaxConsecutiveErrors int
	// ReportBacklog delivers the events already buffered on the first
	// poll instead of taking them as the baseline
	ReportBacklog bool
}

// DefaultConfig returns sensible default configuration values
func DefaultConfig() *Config {
	return &Config{
		FallbackInterval:     200 * time.Millisecond,
		MaxConsecutiveErrors: 0,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval < 0 {
		return fmt.Errorf("%w: poll interval %v", cctalk.ErrInvalidParameter, c.PollInterval)
	}
	if c.FallbackInterval <= 0 {
		return fmt.Errorf("%w: fallback interval %v", cctalk.ErrInvalidParameter, c.FallbackInterval)
	}
	if c.MaxConsecutiveErrors < 0 {
		return fmt.Errorf("%w: max consecutive errors %d", cctalk.ErrInvalidParameter, c.MaxConsecutiveErrors)
	}
	return nil
}
