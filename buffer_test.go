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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReassembler_SplitAtEveryOffset(t *testing.T) {
	t.Parallel()

	frames := map[string][]byte{
		"additive": append(append([]byte{1, 13, 2, 0}, "Coin Acceptor"...), 22),
		"crc":      {1, 3, 67, 0, 1, 2, 3, 202},
	}

	for name, raw := range frames {
		name, raw := name, raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			whole, err := NewReassembler(HostAddress).Feed(raw)
			require.NoError(t, err)
			require.Len(t, whole, 1)

			for split := 1; split < len(raw); split++ {
				r := NewReassembler(HostAddress)

				got, err := r.Feed(raw[:split])
				require.NoError(t, err)
				assert.Empty(t, got, "split %d", split)
				assert.Equal(t, split, r.Len())

				got, err = r.Feed(raw[split:])
				require.NoError(t, err)
				require.Len(t, got, 1, "split %d", split)
				assert.Equal(t, whole[0], got[0])
				assert.Zero(t, r.Len())
			}
		})
	}
}

func TestReassembler_ByteAtATime(t *testing.T) {
	t.Parallel()

	first := []byte{1, 0, 2, 0, 253}
	second := []byte{1, 1, 2, 0, 0, 252}
	stream := append(append([]byte{}, first...), second...)

	r := NewReassembler(HostAddress)
	var got []*Message
	for _, b := range stream {
		msgs, err := r.Feed([]byte{b})
		require.NoError(t, err)
		got = append(got, msgs...)
	}

	require.Len(t, got, 2)
	assert.Empty(t, got[0].Payload.Data)
	assert.Equal(t, []byte{0}, got[1].Payload.Data)
}

func TestReassembler_FiltersOtherDestinations(t *testing.T) {
	t.Parallel()

	// A request for the peripheral followed by its reply to the host, as
	// seen on a bus that echoes.
	request := []byte{2, 0, 1, 245, 8}
	reply := []byte{1, 0, 2, 0, 253}

	host := NewReassembler(HostAddress)
	got, err := host.Feed(request)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, host.Len(), "foreign frame must still be consumed")

	got, err = host.Feed(append(append([]byte{}, request...), reply...))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, HostAddress, got[0].Destination)
	assert.Equal(t, PeripheralAddress, got[0].Source)
}

func TestReassembler_ChecksumErrorClearsBuffer(t *testing.T) {
	t.Parallel()

	r := NewReassembler(PeripheralAddress)

	corrupted := []byte{2, 0, 1, 245, 9}
	trailing := []byte{2, 1}
	got, err := r.Feed(append(append([]byte{}, corrupted...), trailing...))
	require.ErrorIs(t, err, ErrChecksum)
	assert.Empty(t, got)
	assert.Zero(t, r.Len())

	got, err = r.Feed([]byte{2, 0, 1, 245, 8})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, HeaderRequestEquipmentCategoryID, got[0].Payload.Header)
}

func TestReassembler_ReturnsMessagesBeforeFault(t *testing.T) {
	t.Parallel()

	r := NewReassembler(PeripheralAddress)
	stream := []byte{2, 0, 1, 254, 255, 2, 0, 1, 254, 0}

	got, err := r.Feed(stream)
	require.ErrorIs(t, err, ErrChecksum)
	require.Len(t, got, 1)
	assert.Equal(t, HeaderSimplePoll, got[0].Payload.Header)
	assert.Zero(t, r.Len())
}

func TestReassembler_Reset(t *testing.T) {
	t.Parallel()

	r := NewReassembler(HostAddress)
	_, err := r.Feed([]byte{1, 4, 2})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Reset())
	assert.Zero(t, r.Len())
	assert.Equal(t, HostAddress, r.Address())
}
