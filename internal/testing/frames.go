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

package testing

import "github.com/ZaparooProject/go-cctalk/internal/frame"

// BuildFrame creates an additive checksum frame
func BuildFrame(dest, src, header byte, data ...byte) []byte {
	raw := make([]byte, 0, frame.FrameLength(byte(len(data))))
	raw = append(raw, dest, byte(len(data)), src, header)
	raw = append(raw, data...)
	return append(raw, frame.Checksum(raw))
}

// BuildCRCFrame creates a CRC-16 frame. The source is implicitly the host.
func BuildCRCFrame(dest, header byte, data ...byte) []byte {
	covered := make([]byte, 0, len(data)+3)
	covered = append(covered, dest, byte(len(data)), header)
	covered = append(covered, data...)
	crc := frame.CRC16(covered)

	raw := make([]byte, 0, frame.FrameLength(byte(len(data))))
	raw = append(raw, dest, byte(len(data)), crc[0], header)
	raw = append(raw, data...)
	return append(raw, crc[1])
}

// BuildReply creates an additive Reply frame from a peripheral to the host
func BuildReply(src byte, data ...byte) []byte {
	return BuildFrame(frame.HostAddress, src, 0, data...)
}

// BuildAck creates the empty Reply a peripheral sends to acknowledge
func BuildAck(src byte) []byte {
	return BuildReply(src)
}

// BuildTextReply creates a Reply carrying ASCII text
func BuildTextReply(src byte, text string) []byte {
	return BuildReply(src, []byte(text)...)
}

// Corrupt returns a copy of raw with its trailing byte changed
func Corrupt(raw []byte) []byte {
	out := append([]byte(nil), raw...)
	out[len(out)-1]++
	return out
}
