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

import "github.com/sigurn/crc16"

// ccTalk CRC-16 is CCITT polynomial 0x1021, zero initial register, MSB
// first, no final XOR: the XMODEM parameter set.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Sum returns the modulo-256 sum of data.
func Sum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// Checksum returns the byte that brings the modulo-256 sum of data plus
// the checksum itself to zero.
func Checksum(data []byte) byte {
	return -Sum(data)
}

// ValidateChecksum reports whether the whole frame sums to zero.
// An empty frame is never valid.
func ValidateChecksum(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	return Sum(raw) == 0
}

// CRC16 computes the ccTalk CRC over data and returns it as the
// [low, high] pair in wire order.
func CRC16(data []byte) [2]byte {
	crc := crc16.Checksum(data, crcTable)
	return [2]byte{byte(crc), byte(crc >> 8)}
}

// ValidateCRC checks a complete CRC-mode frame. The low CRC byte sits in
// the source position and the high byte in the trailing checksum position;
// the CRC covers every other byte.
func ValidateCRC(raw []byte) bool {
	if len(raw) < EnvelopeLength {
		return false
	}

	covered := make([]byte, 0, len(raw)-2)
	covered = append(covered, raw[:PosSource]...)
	covered = append(covered, raw[PosHeader:len(raw)-1]...)

	crc := CRC16(covered)
	return crc[0] == raw[PosSource] && crc[1] == raw[len(raw)-1]
}
