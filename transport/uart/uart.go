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

// Package uart provides the ccTalk serial line transport
package uart

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-cctalk"
	"go.bug.st/serial"
)

// DefaultBaudRate is the ccTalk line speed
const DefaultBaudRate = 9600

// openPort is replaced in tests
var openPort = serial.Open

// Config configures a serial ccTalk endpoint
type Config struct {
	BaudRate        int
	ReadTimeout     time.Duration
	ReplyTimeout    time.Duration
	MaxReadAttempts int
	Address         cctalk.Address
}

// DefaultConfig returns a host endpoint at 9600 baud, 8N1
func DefaultConfig() *Config {
	stream := cctalk.DefaultStreamConfig()
	return &Config{
		BaudRate:        DefaultBaudRate,
		ReadTimeout:     stream.ReadTimeout,
		ReplyTimeout:    stream.ReplyTimeout,
		MaxReadAttempts: stream.MaxReadAttempts,
		Address:         cctalk.HostAddress,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate %d", cctalk.ErrInvalidParameter, c.BaudRate)
	}
	return c.streamConfig("").Validate()
}

func (c *Config) streamConfig(name string) *cctalk.StreamConfig {
	stream := cctalk.DefaultStreamConfig()
	stream.Name = name
	stream.Type = cctalk.TransportUART
	stream.ReadTimeout = c.ReadTimeout
	stream.ReplyTimeout = c.ReplyTimeout
	stream.MaxReadAttempts = c.MaxReadAttempts
	stream.Address = c.Address
	return stream
}

// Transport is a ccTalk endpoint on a serial port
type Transport struct {
	*cctalk.StreamTransport
	portName string
	closed   atomic.Bool
}

// New opens portName at 8N1 and returns a transport on it. A nil config
// uses DefaultConfig.
func New(portName string, config *Config) (*Transport, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	port, err := openPort(portName, &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, cctalk.NewTransportError("open", portName, err, cctalk.ErrorTypePermanent)
	}

	// Bytes left over from before we opened the port cannot be framed.
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, cctalk.NewTransportError("reset", portName, err, cctalk.ErrorTypePermanent)
	}

	stream, err := cctalk.NewStreamTransport(port, config.streamConfig(portName))
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	return &Transport{
		StreamTransport: stream,
		portName:        portName,
	}, nil
}

// PortName returns the serial device path
func (t *Transport) PortName() string {
	return t.portName
}

// Type returns TransportUART
func (*Transport) Type() cctalk.TransportType {
	return cctalk.TransportUART
}

// IsConnected reports whether the port is open
func (t *Transport) IsConnected() bool {
	return t.StreamTransport != nil && !t.closed.Load()
}

// SendAndAwaitReply sends msg and waits for one reply
func (t *Transport) SendAndAwaitReply(msg *cctalk.Message) (*cctalk.Payload, error) {
	return t.SendAndAwaitReplyContext(context.Background(), msg)
}

// SendAndAwaitReplyContext sends msg and waits for one reply
func (t *Transport) SendAndAwaitReplyContext(ctx context.Context, msg *cctalk.Message) (*cctalk.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !t.IsConnected() {
		return nil, cctalk.NewTransportError("send", t.portName, cctalk.ErrTransportClosed, cctalk.ErrorTypePermanent)
	}
	reply, err := t.StreamTransport.SendAndAwaitReplyContext(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.portName, err)
	}
	return reply, nil
}

// Close closes the serial port
func (t *Transport) Close() error {
	if t.StreamTransport == nil || t.closed.Swap(true) {
		return nil
	}
	if err := t.StreamTransport.Close(); err != nil {
		return fmt.Errorf("failed to close UART port: %w", err)
	}
	return nil
}

// Ensure Transport implements the transport interfaces
var (
	_ cctalk.Transport        = (*Transport)(nil)
	_ cctalk.TransportContext = (*Transport)(nil)
)
