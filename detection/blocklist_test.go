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

package detection

import (
	"testing"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{name: "empty ignore list", devicePath: "/dev/ttyUSB0", ignorePaths: []string{}, expected: false},
		{name: "nil ignore list", devicePath: "/dev/ttyUSB0", expected: false},
		{name: "empty device path", devicePath: "", ignorePaths: []string{""}, expected: false},
		{name: "exact unix path", devicePath: "/dev/ttyUSB0", ignorePaths: []string{"/dev/ttyUSB0"}, expected: true},
		{name: "exact windows port", devicePath: "COM3", ignorePaths: []string{"COM3"}, expected: true},
		{name: "case folded windows port", devicePath: "COM3", ignorePaths: []string{"com3"}, expected: true},
		{name: "uncleaned path", devicePath: "/dev/../dev/ttyACM0", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "trailing slash", devicePath: "/dev/ttyACM0/", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "different port", devicePath: "/dev/ttyUSB1", ignorePaths: []string{"/dev/ttyUSB0"}, expected: false},
		{name: "prefix is not a match", devicePath: "/dev/ttyUSB10", ignorePaths: []string{"/dev/ttyUSB1"}, expected: false},
		{name: "match among several", devicePath: "COM7", ignorePaths: []string{"", "COM1", "COM7"}, expected: true},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsPathIgnored(tt.devicePath, tt.ignorePaths)
			if result != tt.expected {
				t.Errorf("IsPathIgnored(%q, %v) = %v, want %v",
					tt.devicePath, tt.ignorePaths, result, tt.expected)
			}
		})
	}
}

func TestParseVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		descriptor string
		expected   string
	}{
		{descriptor: "0403:6001", expected: "0403:6001"},
		{descriptor: "1a86:7523", expected: "1A86:7523"},
		{descriptor: "USB VID:PID=0403:6001 SER=A50285BI", expected: "0403:6001"},
		{descriptor: `USB\VID_10C4&PID_EA60\0001`, expected: "10C4:EA60"},
		{descriptor: "VID:067B PID:2303", expected: "067B:2303"},
		{descriptor: "vendor=0403 product=6015", expected: "0403:6015"},
		{descriptor: ":", expected: ""},
		{descriptor: "/dev/ttyS0", expected: ""},
		{descriptor: "GG12:6001", expected: ""},
		{descriptor: "", expected: ""},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.descriptor, func(t *testing.T) {
			t.Parallel()
			if got := ParseVIDPID(tt.descriptor); got != tt.expected {
				t.Errorf("ParseVIDPID(%q) = %q, want %q", tt.descriptor, got, tt.expected)
			}
		})
	}
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := []string{" 2341:0043 ", "1366:0105"}

	if !IsBlocked("2341:0043", blocklist) {
		t.Error("expected padded entry to match")
	}
	if !IsBlocked("1366:0105", DefaultBlocklist()) {
		t.Error("expected default blocklist to contain the J-Link CDC")
	}
	if IsBlocked("0403:6001", blocklist) {
		t.Error("FTDI adapter must not be blocked")
	}
	if IsBlocked("", []string{""}) {
		t.Error("a port without VID:PID must never be blocked")
	}
}
