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

/*
Package cctalk provides a pure Go implementation of the ccTalk serial
protocol used by coin acceptors, bill validators and hoppers.

ccTalk is a half duplex master/slave protocol on a single shared line.
The host (address 1) sends a request frame to a peripheral (address 2 and
up) and the peripheral answers with a Reply frame addressed back to the
host. Frames carry either an additive checksum or a CRC-16; Decode
accepts both.

Features:
  - Frame encoding and decoding with additive and CRC-16 checksums
  - Reassembly of frames split across serial reads
  - Host driver for identification, inhibit control and buffered credit
  - Peripheral emulator (package emulator) for tests and bench work
  - Credit polling with lost event detection (package polling)
  - Serial transport and port discovery (packages transport/uart and detection)

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-cctalk"
	    "github.com/ZaparooProject/go-cctalk/transport/uart"
	)

	transport, err := uart.New("/dev/ttyUSB0", nil)
	if err != nil {
	    log.Fatal(err)
	}

	device, err := cctalk.New(transport, cctalk.PeripheralAddress)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	category, err := device.RequestEquipmentCategory()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(category) // "Coin Acceptor"

	// Accept coins on channels 1 to 8
	_, _ = device.ModifyInhibitStatus(0x00FF)
	_, _ = device.ModifyMasterInhibitStatus(false)

	credit, err := device.ReadBufferedCredit()
	if err != nil {
	    log.Fatal(err)
	}
	for _, event := range credit.Events() {
	    fmt.Println(event)
	}

Error Handling:

Protocol failures are reported through sentinel errors:

	if errors.Is(err, cctalk.ErrNoResponse) {
	    // Peripheral did not answer in time
	}

I/O failures are wrapped in *TransportError; IsRetryable tells transient
faults from permanent ones. Requests are not retried unless a
RetryConfig is set with WithRetryConfig or WithMaxRetries.

Thread Safety:

StreamTransport serializes exchanges, so a Device may be shared between
goroutines, but concurrent callers interleave their requests on the bus.
Use polling.Runner to run commands between credit polls.
*/
package cctalk
