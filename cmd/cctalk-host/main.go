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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/ZaparooProject/go-cctalk/detection"
	"github.com/ZaparooProject/go-cctalk/polling"
	"github.com/ZaparooProject/go-cctalk/transport/uart"
	"github.com/spf13/pflag"
)

type config struct {
	devicePath   string
	checksum     string
	timeout      time.Duration
	pollInterval time.Duration
	address      uint8
	monitor      bool
	enableAll    bool
	debug        bool
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	flagSet := pflag.NewFlagSet("cctalk-host", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.devicePath, "device", "d", "",
		"serial device path (e.g. /dev/ttyUSB0 or COM3), empty to auto-detect")
	flagSet.Uint8VarP(&cfg.address, "address", "a", cctalk.PeripheralAddress, "peripheral bus address")
	flagSet.StringVar(&cfg.checksum, "checksum", cctalk.AdditiveChecksum.String(), "checksum scheme: simple or crc")
	flagSet.BoolVarP(&cfg.monitor, "monitor", "m", false, "poll buffered credit and print coin events")
	flagSet.BoolVar(&cfg.enableAll, "enable-all", false, "enable every channel and clear the master inhibit before monitoring")
	flagSet.DurationVar(&cfg.timeout, "timeout", 0, "stop monitoring after this long, 0 runs until interrupted")
	flagSet.DurationVar(&cfg.pollInterval, "poll-interval", 0, "credit poll interval, 0 uses the peripheral's polling priority")
	flagSet.BoolVar(&cfg.debug, "debug", false, "log every frame")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return cfg, nil
}

// resolvePort returns the configured port or the first one that answers
// a probe at the configured address
func resolvePort(ctx context.Context, cfg *config) (string, error) {
	if cfg.devicePath != "" {
		return cfg.devicePath, nil
	}

	_, _ = fmt.Println("Auto-detecting ccTalk peripherals...")
	opts := detection.DefaultOptions()
	opts.Probe = true
	opts.ProbeAddress = cfg.address

	devices, err := detection.DetectAll(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("auto-detection failed: %w", err)
	}
	_, _ = fmt.Printf("Found %s\n", devices[0])
	return devices[0].Path, nil
}

func connect(ctx context.Context, cfg *config) (*cctalk.Device, error) {
	checksumType, err := cctalk.ParseChecksumType(cfg.checksum)
	if err != nil {
		return nil, err
	}

	path, err := resolvePort(ctx, cfg)
	if err != nil {
		return nil, err
	}

	transport, err := uart.New(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	device, err := cctalk.New(transport, cfg.address, cctalk.WithChecksumType(checksumType))
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	return device, nil
}

func identify(device *cctalk.Device) error {
	if _, err := device.SimplePoll(); err != nil {
		return fmt.Errorf("peripheral at address %d did not answer: %w", device.Address(), err)
	}

	fields := []struct {
		request func() (string, error)
		label   string
	}{
		{label: "Equipment category", request: device.RequestEquipmentCategory},
		{label: "Manufacturer", request: device.RequestManufacturerID},
		{label: "Product code", request: device.RequestProductCode},
		{label: "Build code", request: device.RequestBuildCode},
		{label: "Software revision", request: device.RequestSoftwareRevision},
	}
	for _, field := range fields {
		value, err := field.request()
		if err != nil {
			value = "(" + err.Error() + ")"
		}
		_, _ = fmt.Printf("%-20s %s\n", field.label+":", value)
	}

	if serial, err := device.RequestSerialNumber(); err == nil {
		_, _ = fmt.Printf("%-20s %d\n", "Serial number:", serial)
	}
	if revision, err := device.RequestCommsRevision(); err == nil {
		_, _ = fmt.Printf("%-20s %s\n", "Comms revision:", revision)
	}
	if interval, err := device.RequestPollingPriority(); err == nil {
		_, _ = fmt.Printf("%-20s %s\n", "Polling interval:", interval)
	}

	ids := device.ReadCoinIDs()
	channels := make([]int, 0, len(ids))
	for channel := range ids {
		channels = append(channels, int(channel))
	}
	sort.Ints(channels)
	for _, channel := range channels {
		_, _ = fmt.Printf("Coin channel %-7d %s\n", channel, ids[byte(channel)])
	}
	return nil
}

func enableAll(device *cctalk.Device) error {
	if _, err := device.ModifyInhibitStatus(0xFFFF); err != nil {
		return fmt.Errorf("failed to enable channels: %w", err)
	}
	if _, err := device.ModifyMasterInhibitStatus(false); err != nil {
		return fmt.Errorf("failed to clear master inhibit: %w", err)
	}
	return nil
}

func monitor(ctx context.Context, device *cctalk.Device, cfg *config) error {
	monitorConfig := polling.DefaultConfig()
	monitorConfig.PollInterval = cfg.pollInterval

	runner, err := polling.NewRunner(device, monitorConfig)
	if err != nil {
		return err
	}

	coinIDs := device.ReadCoinIDs()
	runner.OnCredit = func(event cctalk.CreditEvent) {
		if event.IsCredit() {
			_, _ = fmt.Printf("Coin accepted: channel %d (%s) sort path %d\n",
				event.Channel, coinIDs[event.Channel], event.SortPath())
			return
		}
		_, _ = fmt.Printf("Coin acceptor error: %s\n", event.Fault())
	}
	runner.OnEventsLost = func(lost int) {
		_, _ = fmt.Printf("Warning: %d events lost between polls\n", lost)
	}
	runner.OnDeviceReset = func() {
		_, _ = fmt.Println("Peripheral was reset")
	}
	runner.OnError = func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "Poll failed: %v\n", err)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if err := runner.Start(ctx); err != nil {
		return err
	}
	_, _ = fmt.Println("Monitoring credits, press Ctrl+C to stop...")

	<-ctx.Done()
	if err := runner.Stop(); err != nil {
		return err
	}
	metrics := runner.Monitor().GetMetrics()
	_, _ = fmt.Printf("%d polls, %d coins, %d errors reported, %d poll failures\n",
		metrics.PollCycles, metrics.Credits, metrics.Faults, metrics.PollErrors)
	return nil
}

func run(ctx context.Context, args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	cctalk.SetDebugEnabled(cfg.debug)

	device, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	if err := identify(device); err != nil {
		return err
	}
	if !cfg.monitor {
		return nil
	}
	if cfg.enableAll {
		if err := enableAll(device); err != nil {
			return err
		}
	}
	return monitor(ctx, device, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		_, _ = fmt.Fprintf(os.Stderr, "cctalk-host: %v\n", err)
		os.Exit(1)
	}
}
