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
	"time"

	"github.com/ZaparooProject/go-cctalk"
)

// TrackingState represents where the monitor is in following the event
// counter
type TrackingState int

const (
	// StateUnsynced means no buffered credit reply has been read yet
	StateUnsynced TrackingState = iota
	// StateSynced means LastCounter matches the peripheral
	StateSynced
	// StateOffline means the last poll failed
	StateOffline
)

func (s TrackingState) String() string {
	switch s {
	case StateUnsynced:
		return "unsynced"
	case StateSynced:
		return "synced"
	case StateOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// CreditState tracks the event counter of one peripheral
type CreditState struct {
	LastPollTime      time.Time
	LastEventTime     time.Time
	ConsecutiveErrors int
	State             TrackingState
	LastCounter       byte
	synced            bool
}

// Observation is the outcome of applying one buffered credit reply
type Observation struct {
	Events []cctalk.CreditEvent
	Lost   int
	// DeviceReset is set when the counter fell back to zero or jumped
	// backwards further than the history can explain, which only happens
	// after a peripheral reset or power cycle
	DeviceReset bool
}

// counterRestarted reports a backwards jump that would need more events
// than the history holds to be a wrap. A reset peripheral counts up from
// zero again, so new coins taken before the next poll show up this way.
func counterRestarted(last, current byte) bool {
	if current == 0 || current >= last {
		return false
	}
	return cctalk.CounterDistance(last, current) > cctalk.CreditEventSlots
}

// Observe applies a buffered credit reply and returns the events that are
// new since the previous one, oldest first. The first reply only sets the
// baseline unless reportBacklog is set.
func (cs *CreditState) Observe(buf *cctalk.CreditBuffer, reportBacklog bool) Observation {
	now := time.Now()
	cs.LastPollTime = now
	cs.ConsecutiveErrors = 0
	cs.State = StateSynced

	var obs Observation
	switch {
	case !cs.synced:
		cs.synced = true
		if reportBacklog {
			obs.Events, obs.Lost = buf.EventsSince(0)
		}
	case buf.Counter == 0 && cs.LastCounter != 0:
		obs.DeviceReset = true
	case counterRestarted(cs.LastCounter, buf.Counter):
		obs.DeviceReset = true
		obs.Events, obs.Lost = buf.EventsSince(0)
	default:
		obs.Events, obs.Lost = buf.EventsSince(cs.LastCounter)
	}

	cs.LastCounter = buf.Counter
	if len(obs.Events) > 0 {
		cs.LastEventTime = now
	}
	return obs
}

// TransitionToOffline records a failed poll
func (cs *CreditState) TransitionToOffline() {
	cs.LastPollTime = time.Now()
	cs.ConsecutiveErrors++
	cs.State = StateOffline
}

// TransitionToUnsynced forgets the baseline so the next reply sets it again
func (cs *CreditState) TransitionToUnsynced() {
	cs.State = StateUnsynced
	cs.LastCounter = 0
	cs.ConsecutiveErrors = 0
	cs.LastEventTime = time.Time{}
	cs.synced = false
}
