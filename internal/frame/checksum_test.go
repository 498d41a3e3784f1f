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

import "testing"

// referenceCRC is the bit-at-a-time form of the ccTalk CRC. The table
// driven implementation must agree with it for every input.
func referenceCRC(data []byte) [2]byte {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return [2]byte{byte(crc), byte(crc >> 8)}
}

func TestChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "empty data",
			data: []byte{},
			want: 0,
		},
		{
			name: "sum already zero",
			data: []byte{0x80, 0x80},
			want: 0,
		},
		{
			name: "simple poll to address 2",
			data: []byte{2, 0, 1, 254},
			want: 255,
		},
		{
			name: "request equipment category",
			data: []byte{2, 0, 1, 245},
			want: 8,
		},
		{
			name: "modify master inhibit with data",
			data: []byte{2, 1, 1, 228, 0},
			want: 24,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{
			name: "valid frame",
			data: []byte{2, 0, 1, 245, 8},
			want: true,
		},
		{
			name: "corrupted trailer",
			data: []byte{2, 0, 1, 245, 9},
			want: false,
		},
		{
			name: "empty frame",
			data: []byte{},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateChecksum(tt.data); got != tt.want {
				t.Errorf("ValidateChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCRC16(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want [2]byte
	}{
		{
			name: "check value",
			data: []byte("123456789"),
			want: [2]byte{0xC3, 0x31},
		},
		{
			name: "empty input",
			data: []byte{},
			want: [2]byte{0, 0},
		},
		{
			name: "simple poll to address 2",
			data: []byte{2, 0, 254},
			want: [2]byte{177, 96},
		},
		{
			name: "simple poll to address 40",
			data: []byte{40, 0, 254},
			want: [2]byte{182, 33},
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CRC16(tt.data); got != tt.want {
				t.Errorf("CRC16() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCRC16MatchesBitwise(t *testing.T) {
	t.Parallel()
	data := make([]byte, 0, 256)
	for i := 0; i < 256; i++ {
		data = append(data, byte(i*7+3))
		if got, want := CRC16(data), referenceCRC(data); got != want {
			t.Fatalf("length %d: CRC16() = %v, bitwise = %v", len(data), got, want)
		}
	}
}

func TestValidateCRC(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  []byte
		want bool
	}{
		{
			name: "simple poll",
			raw:  []byte{2, 0, 177, 254, 96},
			want: true,
		},
		{
			name: "swapped crc bytes",
			raw:  []byte{2, 0, 96, 254, 177},
			want: false,
		},
		{
			name: "additive frame",
			raw:  []byte{2, 0, 1, 254, 255},
			want: false,
		},
		{
			name: "too short",
			raw:  []byte{2, 0, 177},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateCRC(tt.raw); got != tt.want {
				t.Errorf("ValidateCRC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecksumProperty(t *testing.T) {
	t.Parallel()
	for i := 0; i < 256; i++ {
		data := []byte{2, byte(i), 1, byte(255 - i)}
		frame := append(data, Checksum(data))
		if !ValidateChecksum(frame) {
			t.Errorf("Property violation: frame %v does not sum to zero", frame)
		}
	}
}

func TestFrameLength(t *testing.T) {
	t.Parallel()
	if got := FrameLength(0); got != 5 {
		t.Errorf("FrameLength(0) = %d, want 5", got)
	}
	if got := FrameLength(255); got != MaxFrameLength {
		t.Errorf("FrameLength(255) = %d, want %d", got, MaxFrameLength)
	}
}
