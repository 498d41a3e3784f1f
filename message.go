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

package cctalk

import (
	"fmt"

	"github.com/ZaparooProject/go-cctalk/internal/frame"
)

// Address is a ccTalk bus address.
type Address = byte

// Conventional bus addresses.
const (
	HostAddress       Address = frame.HostAddress
	PeripheralAddress Address = frame.PeripheralAddress
)

// ChecksumType selects how a frame is integrity protected.
type ChecksumType int

const (
	// AdditiveChecksum frames carry the source address in byte 2 and a
	// trailing byte that makes the whole frame sum to zero.
	AdditiveChecksum ChecksumType = iota
	// CRC16 frames carry the CRC low byte in byte 2 and the high byte in
	// the trailing position. The source is implicitly the host.
	CRC16
)

func (c ChecksumType) String() string {
	switch c {
	case AdditiveChecksum:
		return "simple"
	case CRC16:
		return "crc"
	default:
		return fmt.Sprintf("ChecksumType(%d)", int(c))
	}
}

// ParseChecksumType parses the configuration names "simple" and "crc".
func ParseChecksumType(s string) (ChecksumType, error) {
	switch s {
	case "simple":
		return AdditiveChecksum, nil
	case "crc":
		return CRC16, nil
	default:
		return 0, fmt.Errorf("%w: checksum type %q", ErrInvalidParameter, s)
	}
}

// Payload is a command header with its data block.
type Payload struct {
	Data   []byte
	Header HeaderType
}

// NewPayload builds a payload, copying data.
func NewPayload(header HeaderType, data ...byte) *Payload {
	return &Payload{
		Header: header,
		Data:   append([]byte{}, data...),
	}
}

// Bytes returns the header byte followed by the data.
func (p *Payload) Bytes() []byte {
	buf := make([]byte, 0, len(p.Data)+1)
	buf = append(buf, p.Header.Byte())
	return append(buf, p.Data...)
}

// Sum returns the plain (non-modular) sum of the header and data bytes.
func (p *Payload) Sum() uint16 {
	sum := uint16(p.Header)
	for _, b := range p.Data {
		sum += uint16(b)
	}
	return sum
}

// Text decodes the data block as ASCII, as used by identification replies.
func (p *Payload) Text() (string, error) {
	for i, b := range p.Data {
		if b > 0x7F {
			return "", fmt.Errorf("%w: byte 0x%02X at offset %d", ErrInvalidText, b, i)
		}
	}
	return string(p.Data), nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("%s % X", p.Header, p.Data)
}

// Message is one logical ccTalk frame. The length byte is always derived
// from the payload data.
type Message struct {
	Payload      Payload
	ChecksumType ChecksumType
	Destination  Address
	Source       Address
}

// NewMessage builds a message, copying the payload.
func NewMessage(destination, source Address, payload *Payload, checksumType ChecksumType) *Message {
	return &Message{
		Destination:  destination,
		Source:       source,
		Payload:      *NewPayload(payload.Header, payload.Data...),
		ChecksumType: checksumType,
	}
}

// Length returns the data byte count carried in the length field.
func (m *Message) Length() int {
	return len(m.Payload.Data)
}

func (m *Message) String() string {
	return fmt.Sprintf("%d->%d [%s] %s", m.Source, m.Destination, m.ChecksumType, &m.Payload)
}

// Checksum returns the additive checksum the message would carry.
func (m *Message) Checksum() byte {
	sum := uint16(m.Destination) + uint16(m.Length()) + uint16(m.Source) + m.Payload.Sum()
	return byte(-sum)
}

// CRC returns the [low, high] CRC the message would carry. The source
// address is not covered.
func (m *Message) CRC() [2]byte {
	covered := make([]byte, 0, len(m.Payload.Data)+3)
	covered = append(covered, m.Destination, byte(m.Length()))
	covered = append(covered, m.Payload.Bytes()...)
	return frame.CRC16(covered)
}

// Encode serializes the message in the layout selected by ChecksumType.
func (m *Message) Encode() ([]byte, error) {
	if m.Length() > frame.MaxDataLength {
		return nil, fmt.Errorf("%w: %d data bytes (max %d)", ErrDataTooLarge, m.Length(), frame.MaxDataLength)
	}

	buf := make([]byte, 0, frame.FrameLength(byte(m.Length())))
	buf = append(buf, m.Destination, byte(m.Length()))

	switch m.ChecksumType {
	case AdditiveChecksum:
		buf = append(buf, m.Source)
		buf = append(buf, m.Payload.Bytes()...)
		buf = append(buf, m.Checksum())
	case CRC16:
		crc := m.CRC()
		buf = append(buf, crc[0])
		buf = append(buf, m.Payload.Bytes()...)
		buf = append(buf, crc[1])
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, m.ChecksumType)
	}

	return buf, nil
}

// Decode parses the frame at the start of raw and returns the message and
// the number of bytes that belong to it. ErrPartialMessage means more bytes
// are needed and nothing was consumed. On ErrChecksum the returned count
// still covers the rejected frame.
//
// Additive validation is tried first, so a CRC frame whose bytes happen to
// sum to zero is read as an additive frame. A bus must not mix schemes.
func Decode(raw []byte) (*Message, int, error) {
	if len(raw) < frame.MinHeaderLength {
		return nil, 0, ErrPartialMessage
	}

	dataLength := raw[frame.PosLength]
	frameLength := frame.FrameLength(dataLength)
	if len(raw) < frameLength {
		return nil, 0, ErrPartialMessage
	}

	candidate := raw[:frameLength]

	var (
		checksumType ChecksumType
		source       Address
	)
	switch {
	case frame.ValidateChecksum(candidate):
		checksumType = AdditiveChecksum
		source = candidate[frame.PosSource]
	case frame.ValidateCRC(candidate):
		checksumType = CRC16
		source = HostAddress
	default:
		return nil, frameLength, fmt.Errorf("%w: frame % X", ErrChecksum, candidate)
	}

	data := make([]byte, int(dataLength))
	copy(data, candidate[frame.PosData:frameLength-1])

	return &Message{
		Destination:  candidate[frame.PosDestination],
		Source:       source,
		ChecksumType: checksumType,
		Payload: Payload{
			Header: HeaderFromByte(candidate[frame.PosHeader]),
			Data:   data,
		},
	}, frameLength, nil
}
