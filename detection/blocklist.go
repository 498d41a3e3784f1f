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
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB VID:PID pairs that are never probed.
// These are adapters that reset or start a bootloader when their port
// is opened.
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno, resets on open
		"2341:0001", // Arduino Uno (early)
		"1366:0105", // SEGGER J-Link CDC
	}
}

// IsBlocked reports whether vidpid appears in blocklist. Comparison
// ignores case and surrounding space.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))
	if vidpid == "" {
		return false
	}
	for _, blocked := range blocklist {
		if vidpid == strings.ToUpper(strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

var (
	vidKeys = []string{"VID:", "VID_", "VID=", "VENDOR="}
	pidKeys = []string{"PID:", "PID_", "PID=", "PRODUCT="}
)

// ParseVIDPID extracts an upper case "VVVV:PPPP" from a USB descriptor
// such as "USB VID:PID=0403:6001", "VID_0403&PID_6001" or "0403:6001".
// It returns "" when none is found.
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(descriptor)

	if idx := strings.Index(descriptor, "VID:PID="); idx >= 0 {
		descriptor = descriptor[idx+len("VID:PID="):]
	} else {
		vid := hexAfter(descriptor, vidKeys)
		pid := hexAfter(descriptor, pidKeys)
		if vid != "" && pid != "" {
			return vid + ":" + pid
		}
	}

	fields := strings.Fields(descriptor)
	if len(fields) == 0 {
		return ""
	}
	vid, pid, ok := strings.Cut(fields[0], ":")
	if !ok || !isHex(vid) || !isHex(pid) {
		return ""
	}
	return vid + ":" + pid
}

func hexAfter(s string, keys []string) string {
	for _, key := range keys {
		if idx := strings.Index(s, key); idx >= 0 {
			if digits := leadingHex(s[idx+len(key):]); digits != "" {
				return digits
			}
		}
	}
	return ""
}

// leadingHex returns the run of hex digits at the start of s
func leadingHex(s string) string {
	end := 0
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	return s[:end]
}

func isHex(s string) bool {
	return s != "" && leadingHex(strings.ToUpper(s)) == strings.ToUpper(s)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

// IsPathIgnored reports whether devicePath is in ignorePaths. Paths are
// compared after cleaning and case folding, so "COM3" matches "com3".
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, ignore := range ignorePaths {
		if ignore != "" && normalizedPath(ignore) == device {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
