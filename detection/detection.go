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

// Package detection finds serial ports that may carry a ccTalk bus
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/ZaparooProject/go-cctalk/transport/uart"
	"go.bug.st/serial/enumerator"
)

// ErrNoDevicesFound is returned when no port passes the filters
var ErrNoDevicesFound = errors.New("no ccTalk ports found")

// Replaced in tests
var (
	listPorts     = enumerator.GetDetailedPortsList
	openTransport = func(path string, config *uart.Config) (cctalk.Transport, error) {
		return uart.New(path, config)
	}
)

// DeviceInfo describes a candidate port
type DeviceInfo struct {
	Path         string
	VIDPID       string
	SerialNumber string
	Product      string
	// Category is the equipment category reported when probed
	Category string
	IsUSB    bool
}

func (d DeviceInfo) String() string {
	name := d.Path
	if d.VIDPID != "" {
		name += " [" + d.VIDPID + "]"
	}
	if d.Category != "" {
		name += " " + d.Category
	}
	return name
}

// Options controls port discovery
type Options struct {
	UART         *uart.Config
	Blocklist    []string
	IgnorePaths  []string
	ProbeTimeout time.Duration
	ProbeAddress cctalk.Address
	USBOnly      bool
	// Probe asks each port for the equipment category of ProbeAddress and
	// drops the ports that do not answer
	Probe bool
}

// DefaultOptions returns discovery options that list USB serial adapters
// without opening them
func DefaultOptions() *Options {
	return &Options{
		Blocklist:    DefaultBlocklist(),
		ProbeTimeout: 500 * time.Millisecond,
		ProbeAddress: cctalk.PeripheralAddress,
		USBOnly:      true,
	}
}

// DetectAll lists the serial ports that pass the filters in opts, sorted
// by path. A nil opts uses DefaultOptions.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(ports))
	for _, port := range ports {
		info := DeviceInfo{
			Path:         port.Name,
			SerialNumber: port.SerialNumber,
			Product:      port.Product,
			IsUSB:        port.IsUSB,
		}
		if port.IsUSB {
			info.VIDPID = ParseVIDPID(port.VID + ":" + port.PID)
		}

		switch {
		case opts.USBOnly && !info.IsUSB:
			continue
		case IsPathIgnored(info.Path, opts.IgnorePaths):
			cctalk.Logger().Debug("skipping ignored port", "path", info.Path)
			continue
		case IsBlocked(info.VIDPID, opts.Blocklist):
			cctalk.Logger().Debug("skipping blocked port", "path", info.Path, "vidpid", info.VIDPID)
			continue
		}

		if opts.Probe {
			category, err := Probe(ctx, info.Path, opts)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				cctalk.Logger().Debug("port did not answer probe", "path", info.Path, "error", err)
				continue
			}
			info.Category = category
		}
		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
	return devices, nil
}

// Probe opens path and asks the peripheral at opts.ProbeAddress for its
// equipment category
func Probe(ctx context.Context, path string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	config := uart.DefaultConfig()
	if opts.UART != nil {
		config = opts.UART
	}

	transport, err := openTransport(path, config)
	if err != nil {
		return "", err
	}
	defer func() { _ = transport.Close() }()

	device, err := cctalk.New(transport, opts.ProbeAddress)
	if err != nil {
		return "", err
	}

	probeCtx := ctx
	if opts.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, opts.ProbeTimeout)
		defer cancel()
	}

	reply, err := device.ExchangeContext(probeCtx, cctalk.HeaderRequestEquipmentCategoryID)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", path, err)
	}
	return reply.Text()
}
