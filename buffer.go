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
	"errors"
	"fmt"
)

// Reassembler turns arbitrarily fragmented reads into validated messages
// addressed to one bus address.
//
// Thread Safety: Reassembler is NOT thread-safe. It is owned by the
// transport that feeds it.
type Reassembler struct {
	buf     []byte
	address Address
}

// NewReassembler creates a reassembler that keeps messages for address
func NewReassembler(address Address) *Reassembler {
	return &Reassembler{address: address}
}

// Address returns the destination address messages are filtered on
func (r *Reassembler) Address() Address {
	return r.address
}

// Len returns the number of buffered bytes not yet forming a frame
func (r *Reassembler) Len() int {
	return len(r.buf)
}

// Reset discards buffered bytes and returns how many were dropped
func (r *Reassembler) Reset() int {
	n := len(r.buf)
	r.buf = r.buf[:0]
	return n
}

// Feed appends chunk and decodes every complete frame it can. Frames for
// other addresses are dropped. On a checksum error the whole buffer is
// cleared, and the messages decoded before the fault are returned with it.
func (r *Reassembler) Feed(chunk []byte) ([]*Message, error) {
	r.buf = append(r.buf, chunk...)

	var messages []*Message
	for len(r.buf) > 0 {
		msg, n, err := Decode(r.buf)
		if errors.Is(err, ErrPartialMessage) {
			break
		}
		if err != nil {
			dropped := r.Reset()
			debugf("reassembler: dropped %d bytes after %v", dropped, err)
			return messages, fmt.Errorf("reassemble: %w", err)
		}

		r.consume(n)
		if msg.Destination != r.address {
			debugf("reassembler: ignoring frame for address %d", msg.Destination)
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (r *Reassembler) consume(n int) {
	remaining := copy(r.buf, r.buf[n:])
	r.buf = r.buf[:remaining]
}
