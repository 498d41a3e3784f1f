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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Profile describes an emulated peripheral in YAML:
//
//	address: 2
//	checksum: simple
//	info:
//	  equipment_category: Coin Acceptor
//	  manufacturer: PAF
//	  serial_number: 123
//	coins:
//	  - channel: 1
//	    id: EU200A
//	    sort_path: 1
//
// Files ending in .json or .jsonc hold the same fields as JSON, with
// comments and trailing commas allowed.
type Profile struct {
	Info     *CoreInfo    `yaml:"info" json:"info"`
	Checksum string       `yaml:"checksum" json:"checksum"`
	Coins    []CoinConfig `yaml:"coins" json:"coins"`
	Address  byte         `yaml:"address" json:"address"`
}

// CoinConfig programs one channel of the coin table
type CoinConfig struct {
	ID        string `yaml:"id" json:"id"`
	SortPath  byte   `yaml:"sort_path" json:"sort_path"`
	Channel   byte   `yaml:"channel" json:"channel"`
	Inhibited bool   `yaml:"inhibited" json:"inhibited"`
}

// Coin returns the channel's coin
func (c CoinConfig) Coin() CoinInfo {
	return CoinInfo{ID: c.ID, SortPath: c.SortPath, Inhibited: c.Inhibited}
}

// LoadProfile loads a profile from a YAML, JSON or JSONC file
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		profile, err := ParseProfileJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return profile, nil
	default:
		return ParseProfile(data)
	}
}

// ParseProfile parses and validates a YAML profile. Omitted fields take
// the stock emulator's values.
func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile.withDefaults()
}

// ParseProfileJSON parses and validates a JSON profile. Comments and
// trailing commas are stripped first.
func ParseProfileJSON(data []byte) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal(jsonc.ToJSON(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile.withDefaults()
}

func (p *Profile) withDefaults() (*Profile, error) {
	if p.Address == 0 {
		p.Address = cctalk.PeripheralAddress
	}
	if p.Checksum == "" {
		p.Checksum = cctalk.AdditiveChecksum.String()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the profile is usable
func (p *Profile) Validate() error {
	if p.Address == 0 {
		return fmt.Errorf("%w: address 0 is the broadcast address", cctalk.ErrInvalidParameter)
	}
	if p.Address == cctalk.HostAddress {
		return fmt.Errorf("%w: address 1 belongs to the host", cctalk.ErrInvalidParameter)
	}
	if _, err := cctalk.ParseChecksumType(p.Checksum); err != nil {
		return err
	}
	if p.Info != nil {
		if err := p.Info.Validate(); err != nil {
			return fmt.Errorf("info: %w", err)
		}
	}

	seen := make(map[byte]bool, len(p.Coins))
	for i, coin := range p.Coins {
		if _, err := channelIndex(coin.Channel); err != nil {
			return fmt.Errorf("coins[%d]: %w", i, err)
		}
		if seen[coin.Channel] {
			return fmt.Errorf("coins[%d]: %w: channel %d listed twice", i, cctalk.ErrInvalidParameter, coin.Channel)
		}
		seen[coin.Channel] = true
		if err := coin.Coin().Validate(); err != nil {
			return fmt.Errorf("coins[%d]: %w", i, err)
		}
	}
	return nil
}

// CoinTable returns the empty table programmed with the profile's coins,
// or the stock table when the profile lists none
func (p *Profile) CoinTable() CoinTable {
	if len(p.Coins) == 0 {
		return DefaultCoinTable()
	}
	table := NewCoinTable()
	for _, coin := range p.Coins {
		table[coin.Channel-1] = coin.Coin()
	}
	return table
}

// Options converts the profile to emulator options
func (p *Profile) Options() ([]Option, error) {
	checksumType, err := cctalk.ParseChecksumType(p.Checksum)
	if err != nil {
		return nil, err
	}

	info := DefaultCoreInfo()
	if p.Info != nil {
		info = mergeInfo(info, *p.Info)
	}

	return []Option{
		WithCoreInfo(info),
		WithCoinTable(p.CoinTable()),
		WithChecksumType(checksumType),
	}, nil
}

func mergeInfo(base, override CoreInfo) CoreInfo {
	if override.EquipmentCategory != "" {
		base.EquipmentCategory = override.EquipmentCategory
	}
	if override.Manufacturer != "" {
		base.Manufacturer = override.Manufacturer
	}
	if override.ProductCode != "" {
		base.ProductCode = override.ProductCode
	}
	if override.BuildCode != "" {
		base.BuildCode = override.BuildCode
	}
	if override.SoftwareRevision != "" {
		base.SoftwareRevision = override.SoftwareRevision
	}
	if override.SerialNumber != 0 {
		base.SerialNumber = override.SerialNumber
	}
	return base
}
