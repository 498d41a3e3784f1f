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

package emulator

import (
	"testing"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoinTable(t *testing.T) {
	t.Parallel()

	table := NewCoinTable()
	for i, coin := range table {
		assert.Equal(t, EmptySlot, coin.ID, "channel %d", i+1)
		assert.True(t, coin.Inhibited, "channel %d", i+1)
	}
	assert.Zero(t, table.InhibitMask())
}

func TestDefaultCoinTable(t *testing.T) {
	t.Parallel()

	table := DefaultCoinTable()

	first, err := table.Get(1)
	require.NoError(t, err)
	assert.Equal(t, CoinInfo{ID: "EU020A", SortPath: 3, Inhibited: true}, first)

	last, err := table.Get(12)
	require.NoError(t, err)
	assert.Equal(t, "EU4K0A", last.ID)

	unused, err := table.Get(16)
	require.NoError(t, err)
	assert.Equal(t, EmptySlot, unused.ID)
}

func TestCoinTable_ReadFromReturnedValue(t *testing.T) {
	t.Parallel()

	coin, err := DefaultCoinTable().Get(3)
	require.NoError(t, err)
	assert.Equal(t, "EU100A", coin.ID)
	assert.Zero(t, DefaultCoinTable().InhibitMask())

	_, err = NewCoinTable().Get(17)
	require.ErrorIs(t, err, cctalk.ErrInvalidChannel)
}

func TestCoinTable_ChannelBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		channel byte
		wantErr bool
	}{
		{name: "zero", channel: 0, wantErr: true},
		{name: "first", channel: 1},
		{name: "last", channel: 16},
		{name: "past end", channel: 17, wantErr: true},
		{name: "max byte", channel: 255, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := NewCoinTable()
			_, err := table.Get(tt.channel)
			if tt.wantErr {
				require.ErrorIs(t, err, cctalk.ErrInvalidChannel)
				require.ErrorIs(t, table.Set(tt.channel, CoinInfo{ID: "EU010A"}), cctalk.ErrInvalidChannel)
				return
			}
			require.NoError(t, err)
			require.NoError(t, table.Set(tt.channel, CoinInfo{ID: "EU010A", SortPath: 2}))
			coin, err := table.Get(tt.channel)
			require.NoError(t, err)
			assert.Equal(t, "EU010A", coin.ID)
		})
	}
}

func TestCoinInfo_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		id      string
	}{
		{name: "valid", id: "EU200A"},
		{name: "empty slot", id: EmptySlot},
		{name: "too short", id: "EU20", wantErr: cctalk.ErrInvalidParameter},
		{name: "too long", id: "EU200AB", wantErr: cctalk.ErrInvalidParameter},
		{name: "non ascii", id: "EU20é", wantErr: cctalk.ErrInvalidText},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CoinInfo{ID: tt.id}.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCoinTable_InhibitMaskRoundTrip(t *testing.T) {
	t.Parallel()

	table := DefaultCoinTable()
	table.ApplyInhibitMask(0x8105)

	assert.Equal(t, uint16(0x8105), table.InhibitMask())
	for channel, want := range map[byte]bool{1: false, 2: true, 3: false, 9: false, 16: false, 15: true} {
		coin, err := table.Get(channel)
		require.NoError(t, err)
		assert.Equal(t, want, coin.Inhibited, "channel %d", channel)
	}
}

func TestCoreInfo_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultCoreInfo().Validate())

	info := DefaultCoreInfo()
	info.Manufacturer = "Café"
	require.ErrorIs(t, info.Validate(), cctalk.ErrInvalidText)

	info = DefaultCoreInfo()
	info.ProductCode = string(make([]byte, 256))
	require.ErrorIs(t, info.Validate(), cctalk.ErrDataTooLarge)
}
