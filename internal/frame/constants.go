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

package frame

// Bus addresses with a conventional meaning.
const (
	HostAddress       = 0x01 // Master that issues every request
	PeripheralAddress = 0x02 // First peripheral slot
)

// Byte positions inside an encoded frame.
const (
	PosDestination = 0 // Destination address
	PosLength      = 1 // Data byte count
	PosSource      = 2 // Source address, or CRC low byte in CRC mode
	PosHeader      = 3 // Command header
	PosData        = 4 // First data byte
)

const (
	// EnvelopeLength counts every byte that is not data:
	// destination, length, source/crc-lo, header and checksum/crc-hi.
	EnvelopeLength = 5
	// MinHeaderLength is the number of bytes needed to know the frame size.
	MinHeaderLength = 2
	// MaxDataLength is the largest data block the length byte can declare.
	MaxDataLength = 255
	// MaxFrameLength is the size of the largest possible frame.
	MaxFrameLength = MaxDataLength + EnvelopeLength
)

// FrameLength returns the total frame size for a declared data length.
func FrameLength(dataLength byte) int {
	return int(dataLength) + EnvelopeLength
}
