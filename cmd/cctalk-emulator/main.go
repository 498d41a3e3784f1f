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
	"syscall"
	"time"

	"github.com/ZaparooProject/go-cctalk"
	"github.com/ZaparooProject/go-cctalk/emulator"
	"github.com/ZaparooProject/go-cctalk/transport/uart"
	"github.com/spf13/pflag"
)

type config struct {
	devicePath   string
	profilePath  string
	checksum     string
	demoChannels []uint
	demoInterval time.Duration
	address      uint8
	debug        bool
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	flagSet := pflag.NewFlagSet("cctalk-emulator", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.devicePath, "device", "d", "", "serial device path to serve on (required)")
	flagSet.StringVarP(&cfg.profilePath, "profile", "p", "", "YAML device profile, empty for the stock coin acceptor")
	flagSet.Uint8VarP(&cfg.address, "address", "a", 0, "bus address, overrides the profile")
	flagSet.StringVar(&cfg.checksum, "checksum", "", "checksum scheme for replies (simple or crc), overrides the profile")
	flagSet.DurationVar(&cfg.demoInterval, "demo-interval", 0, "insert a demo coin this often, 0 disables")
	flagSet.UintSliceVar(&cfg.demoChannels, "demo-channels", []uint{3, 2, 1}, "channels the demo coins cycle through")
	flagSet.BoolVar(&cfg.debug, "debug", false, "log every frame")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if cfg.devicePath == "" {
		return nil, errors.New("--device is required")
	}
	return cfg, nil
}

func loadProfile(cfg *config) (*emulator.Profile, error) {
	var (
		profile *emulator.Profile
		err     error
	)
	if cfg.profilePath != "" {
		profile, err = emulator.LoadProfile(cfg.profilePath)
	} else {
		profile, err = emulator.ParseProfile(nil)
	}
	if err != nil {
		return nil, err
	}

	if cfg.address != 0 {
		profile.Address = cfg.address
	}
	if cfg.checksum != "" {
		profile.Checksum = cfg.checksum
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// insertDemoCoins adds a credit on the next demo channel every interval
func insertDemoCoins(ctx context.Context, emu *emulator.Emulator, channels []uint, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		channel := byte(channels[i%len(channels)])
		if err := emu.AddCredit(channel); err != nil {
			cctalk.Logger().Warn("demo coin not inserted", "channel", channel, "error", err)
			continue
		}
		_, _ = fmt.Printf("Inserted demo coin on channel %d\n", channel)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	cctalk.SetDebugEnabled(cfg.debug)

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	opts, err := profile.Options()
	if err != nil {
		return err
	}

	uartConfig := uart.DefaultConfig()
	uartConfig.Address = profile.Address
	transport, err := uart.New(cfg.devicePath, uartConfig)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.devicePath, err)
	}
	defer func() { _ = transport.Close() }()

	emu, err := emulator.New(transport, opts...)
	if err != nil {
		return err
	}

	info := emu.Snapshot().Info
	_, _ = fmt.Printf("Emulating %s %s (%s) at address %d on %s\n",
		info.Manufacturer, info.EquipmentCategory, info.ProductCode, emu.Address(), cfg.devicePath)

	if cfg.demoInterval > 0 && len(cfg.demoChannels) > 0 {
		go insertDemoCoins(ctx, emu, cfg.demoChannels, cfg.demoInterval)
	}

	err = emu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		snap := emu.Snapshot()
		_, _ = fmt.Printf("Served %d requests, %d replies, %d faults\n", snap.Requests, snap.Replies, snap.Faults)
		return nil
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		_, _ = fmt.Fprintf(os.Stderr, "cctalk-emulator: %v\n", err)
		os.Exit(1)
	}
}
