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

import "fmt"

const (
	// CreditHistoryLength is the number of history bytes in a buffered
	// credit reply: five channel/code pairs.
	CreditHistoryLength = 10
	// CreditEventSlots is the number of events a buffered credit reply holds
	CreditEventSlots = CreditHistoryLength / 2
)

// CreditEvent is one entry of the buffered credit history. A zero channel
// means Code carries a CoinAcceptorError; otherwise Code is the sort path.
type CreditEvent struct {
	Channel byte
	Code    byte
}

// IsCredit reports whether the event is an accepted coin
func (e CreditEvent) IsCredit() bool {
	return e.Channel != 0
}

// SortPath returns the sort path of a credit event
func (e CreditEvent) SortPath() byte {
	if !e.IsCredit() {
		return 0
	}
	return e.Code
}

// Fault returns the coin acceptor error of a non-credit event
func (e CreditEvent) Fault() CoinAcceptorError {
	if e.IsCredit() {
		return 0
	}
	return CoinAcceptorError(e.Code)
}

func (e CreditEvent) String() string {
	if e.IsCredit() {
		return fmt.Sprintf("credit channel %d sort path %d", e.Channel, e.Code)
	}
	return fmt.Sprintf("error %s", e.Fault())
}

// CreditBuffer is a decoded buffered credit reply
type CreditBuffer struct {
	History [CreditHistoryLength]byte
	Counter byte
}

// ParseCreditBuffer decodes [counter, history...]. Missing history bytes
// read as zero.
func ParseCreditBuffer(data []byte) (*CreditBuffer, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty buffered credit reply", ErrParse)
	}
	buf := &CreditBuffer{Counter: data[0]}
	copy(buf.History[:], data[1:])
	return buf, nil
}

// Bytes returns the reply layout: counter followed by the history
func (b *CreditBuffer) Bytes() []byte {
	out := make([]byte, 0, CreditHistoryLength+1)
	out = append(out, b.Counter)
	return append(out, b.History[:]...)
}

// Events returns the five history slots, newest first
func (b *CreditBuffer) Events() []CreditEvent {
	events := make([]CreditEvent, CreditEventSlots)
	for i := range events {
		events[i] = CreditEvent{Channel: b.History[2*i], Code: b.History[2*i+1]}
	}
	return events
}

// EventsSince returns the events recorded after the counter value last,
// oldest first, and how many events were lost because more than five
// arrived in between. A last value of zero means nothing was seen yet.
func (b *CreditBuffer) EventsSince(last byte) ([]CreditEvent, int) {
	pending := CounterDistance(last, b.Counter)
	if pending == 0 {
		return nil, 0
	}

	lost := 0
	if pending > CreditEventSlots {
		lost = pending - CreditEventSlots
		pending = CreditEventSlots
	}

	newestFirst := b.Events()[:pending]
	events := make([]CreditEvent, pending)
	for i, ev := range newestFirst {
		events[pending-1-i] = ev
	}
	return events, lost
}

// CounterDistance returns how many events separate two event counter
// values. The counter runs 1..255 and wraps to 1; zero only ever means
// no events since reset.
func CounterDistance(from, to byte) int {
	switch {
	case to == 0:
		return 0
	case from == 0:
		return int(to)
	case to >= from:
		return int(to - from)
	default:
		return int(to) + 255 - int(from)
	}
}

// NextCounter returns the event counter value after one more event
func NextCounter(counter byte) byte {
	if counter == 255 {
		return 1
	}
	return counter + 1
}
