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
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
address: 40
checksum: crc
info:
  manufacturer: NRI
  serial_number: 4242
coins:
  - channel: 1
    id: GB010A
    sort_path: 2
  - channel: 3
    id: GB100A
    sort_path: 4
    inhibited: true
`

func TestParseProfile(t *testing.T) {
	t.Parallel()

	profile, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)
	assert.Equal(t, byte(40), profile.Address)
	assert.Equal(t, "crc", profile.Checksum)

	table := profile.CoinTable()
	first, err := table.Get(1)
	require.NoError(t, err)
	assert.Equal(t, CoinInfo{ID: "GB010A", SortPath: 2}, first)

	third, err := table.Get(3)
	require.NoError(t, err)
	assert.True(t, third.Inhibited)

	second, err := table.Get(2)
	require.NoError(t, err)
	assert.Equal(t, EmptySlot, second.ID)
	assert.True(t, second.Inhibited)
}

func TestParseProfile_Defaults(t *testing.T) {
	t.Parallel()

	profile, err := ParseProfile([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, cctalk.PeripheralAddress, profile.Address)
	assert.Equal(t, "simple", profile.Checksum)
	assert.Equal(t, DefaultCoinTable(), profile.CoinTable())
}

func TestParseProfile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		input   string
	}{
		{
			name:    "host address",
			input:   "address: 1",
			wantErr: cctalk.ErrInvalidParameter,
		},
		{
			name:    "unknown checksum",
			input:   "checksum: parity",
			wantErr: cctalk.ErrInvalidParameter,
		},
		{
			name:    "channel out of range",
			input:   "coins:\n  - channel: 17\n    id: EU010A\n",
			wantErr: cctalk.ErrInvalidChannel,
		},
		{
			name:    "duplicate channel",
			input:   "coins:\n  - channel: 2\n    id: EU010A\n  - channel: 2\n    id: EU020A\n",
			wantErr: cctalk.ErrInvalidParameter,
		},
		{
			name:    "short coin id",
			input:   "coins:\n  - channel: 2\n    id: EU\n",
			wantErr: cctalk.ErrInvalidParameter,
		},
		{
			name:    "non ascii info",
			input:   "info:\n  manufacturer: Café\n",
			wantErr: cctalk.ErrInvalidText,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseProfile([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseProfile_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := ParseProfile([]byte("coins: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse profile")
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "acceptor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o600))

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Len(t, profile.Coins, 2)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProfile_Options(t *testing.T) {
	t.Parallel()

	profile, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	opts, err := profile.Options()
	require.NoError(t, err)

	emu, err := New(cctalk.NewMockTransport(), opts...)
	require.NoError(t, err)

	snap := emu.Snapshot()
	assert.Equal(t, "NRI", snap.Info.Manufacturer)
	assert.Equal(t, uint16(4242), snap.Info.SerialNumber)
	assert.Equal(t, "Coin Acceptor", snap.Info.EquipmentCategory)
	assert.Equal(t, cctalk.CRC16, emu.config.ChecksumType)
	assert.Equal(t, profile.CoinTable(), snap.Coins)
}

func TestParseProfileJSON(t *testing.T) {
	t.Parallel()

	profile, err := ParseProfileJSON([]byte(`{
		// bench hopper feeder
		"address": 3,
		"checksum": "crc",
		"coins": [
			/* two euro */ {"channel": 2, "id": "EU200A", "sort_path": 3},
		],
	}`))
	require.NoError(t, err)
	assert.Equal(t, byte(3), profile.Address)
	assert.Equal(t, "crc", profile.Checksum)

	coin, err := profile.CoinTable().Get(2)
	require.NoError(t, err)
	assert.Equal(t, CoinInfo{ID: "EU200A", SortPath: 3}, coin)

	_, err = ParseProfileJSON([]byte(`{"address": 1}`))
	require.ErrorIs(t, err, cctalk.ErrInvalidParameter)
}

func TestLoadProfile_JSONC(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "acceptor.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`// vendor override
{"info": {"manufacturer": "MEI"},
}`), 0o600))

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	require.NotNil(t, profile.Info)
	assert.Equal(t, "MEI", profile.Info.Manufacturer)
	assert.Equal(t, cctalk.PeripheralAddress, profile.Address)
}
