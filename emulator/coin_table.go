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
	"fmt"

	"github.com/ZaparooProject/go-cctalk"
)

const (
	// Channels is the number of coin channels a coin acceptor exposes
	Channels = 16
	// EmptySlot is the identifier reported for an unprogrammed channel
	EmptySlot = "......"
	// CoinIDLength is the length of a coin identifier such as "EU200A"
	CoinIDLength = 6
)

// CoinInfo describes one coin channel
type CoinInfo struct {
	ID        string `yaml:"id" json:"id"`
	SortPath  byte   `yaml:"sort_path" json:"sort_path"`
	Inhibited bool   `yaml:"inhibited" json:"inhibited"`
}

// Validate checks the identifier is a six character ASCII code
func (c CoinInfo) Validate() error {
	if len(c.ID) != CoinIDLength {
		return fmt.Errorf("%w: coin id %q must be %d characters", cctalk.ErrInvalidParameter, c.ID, CoinIDLength)
	}
	for i := 0; i < len(c.ID); i++ {
		if c.ID[i] > 0x7F {
			return fmt.Errorf("%w: coin id %q", cctalk.ErrInvalidText, c.ID)
		}
	}
	return nil
}

// CoinTable holds the 16 channels, indexed from zero
type CoinTable [Channels]CoinInfo

// NewCoinTable returns a table of empty, inhibited channels
func NewCoinTable() CoinTable {
	var table CoinTable
	for i := range table {
		table[i] = CoinInfo{ID: EmptySlot, SortPath: 1, Inhibited: true}
	}
	return table
}

// DefaultCoinTable returns the euro and krona demonstration table with
// every channel inhibited
func DefaultCoinTable() CoinTable {
	table := NewCoinTable()
	demo := []struct {
		id   string
		sort byte
	}{
		{"EU020A", 3}, {"EU050A", 1}, {"EU100A", 2}, {"EU200A", 1},
		{"SE100C", 1}, {"SE200B", 1}, {"SE500B", 1}, {"SE1K0A", 1},
		{"EU500A", 1}, {"EU1K0A", 1}, {"EU2K0A", 1}, {"EU4K0A", 1},
	}
	for i, coin := range demo {
		table[i] = CoinInfo{ID: coin.id, SortPath: coin.sort, Inhibited: true}
	}
	return table
}

func channelIndex(channel byte) (int, error) {
	if channel < 1 || channel > Channels {
		return 0, fmt.Errorf("%w: %d (valid 1-%d)", cctalk.ErrInvalidChannel, channel, Channels)
	}
	return int(channel) - 1, nil
}

// Get returns the coin on a 1-based channel
func (t CoinTable) Get(channel byte) (CoinInfo, error) {
	idx, err := channelIndex(channel)
	if err != nil {
		return CoinInfo{}, err
	}
	return t[idx], nil
}

// Set replaces the coin on a 1-based channel
func (t *CoinTable) Set(channel byte, info CoinInfo) error {
	idx, err := channelIndex(channel)
	if err != nil {
		return err
	}
	if err := info.Validate(); err != nil {
		return err
	}
	t[idx] = info
	return nil
}

// InhibitMask returns the channel mask with a bit set for every channel
// that accepts coins
func (t CoinTable) InhibitMask() uint16 {
	var mask uint16
	for i, coin := range t {
		if !coin.Inhibited {
			mask |= 1 << i
		}
	}
	return mask
}

// ApplyInhibitMask inhibits every channel whose bit is clear
func (t *CoinTable) ApplyInhibitMask(mask uint16) {
	for i := range t {
		t[i].Inhibited = mask&(1<<i) == 0
	}
}

// CoreInfo is the fixed identification of an emulated peripheral
type CoreInfo struct {
	EquipmentCategory string `yaml:"equipment_category" json:"equipment_category"`
	Manufacturer      string `yaml:"manufacturer" json:"manufacturer"`
	ProductCode       string `yaml:"product_code" json:"product_code"`
	BuildCode         string `yaml:"build_code" json:"build_code"`
	SoftwareRevision  string `yaml:"software_revision" json:"software_revision"`
	SerialNumber      uint16 `yaml:"serial_number" json:"serial_number"`
}

// DefaultCoreInfo returns the identification of the stock emulator
func DefaultCoreInfo() CoreInfo {
	return CoreInfo{
		EquipmentCategory: "Coin Acceptor",
		Manufacturer:      "PAF",
		ProductCode:       "Emulator",
		BuildCode:         "EE0",
		SoftwareRevision:  "EMU-000",
		SerialNumber:      123,
	}
}

// Validate checks every field fits in a reply and is ASCII
func (c CoreInfo) Validate() error {
	fields := map[string]string{
		"equipment_category": c.EquipmentCategory,
		"manufacturer":       c.Manufacturer,
		"product_code":       c.ProductCode,
		"build_code":         c.BuildCode,
		"software_revision":  c.SoftwareRevision,
	}
	for name, value := range fields {
		if len(value) > 255 {
			return fmt.Errorf("%w: %s longer than 255 bytes", cctalk.ErrDataTooLarge, name)
		}
		for i := 0; i < len(value); i++ {
			if value[i] > 0x7F {
				return fmt.Errorf("%w: %s %q", cctalk.ErrInvalidText, name, value)
			}
		}
	}
	return nil
}
