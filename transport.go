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
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ZaparooProject/go-cctalk/internal/frame"
	"github.com/ZaparooProject/go-cctalk/internal/transport"
)

// Transport defines the interface a ccTalk endpoint talks through.
// It is implemented over a real byte stream by StreamTransport and in
// memory by MockTransport.
type Transport interface {
	// Send encodes and writes one message
	Send(msg *Message) error

	// ReadMessages performs a short bounded read and returns every complete
	// message addressed to this endpoint
	ReadMessages() ([]*Message, error)

	// SendAndAwaitReply sends msg and blocks for exactly one reply
	SendAndAwaitReply(msg *Message) (*Payload, error)

	// Address returns this endpoint's own bus address
	Address() Address

	// SetBillEvent scripts the next buffered bill event reply. Only the
	// in-memory double acts on it.
	SetBillEvent(event BillEvent)

	// Close closes the transport connection
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportPipe represents an in-memory byte pipe
	TransportPipe TransportType = "pipe"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// Port is a duplex byte endpoint. Read must return 0, nil when the read
// timeout elapses with no data.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(timeout time.Duration) error
}

// StreamConfig configures a StreamTransport
type StreamConfig struct {
	// Name identifies the port in errors and logs
	Name string
	// Type is reported by Type()
	Type TransportType
	// ReadTimeout bounds each raw read
	ReadTimeout time.Duration
	// ReplyTimeout bounds the wall clock time spent waiting for a reply
	ReplyTimeout time.Duration
	// MaxReadAttempts bounds the number of raw reads spent waiting for a reply
	MaxReadAttempts int
	// ReadBufferSize is the size of each raw read
	ReadBufferSize int
	// Address is this endpoint's own bus address
	Address Address
}

// DefaultStreamConfig returns the configuration used for a host on a
// serial line
func DefaultStreamConfig() *StreamConfig {
	return &StreamConfig{
		Name:            "stream",
		Type:            TransportUART,
		ReadTimeout:     25 * time.Millisecond,
		ReplyTimeout:    2 * time.Second,
		MaxReadAttempts: 80,
		ReadBufferSize:  frame.MaxFrameLength,
		Address:         HostAddress,
	}
}

// Validate checks the configuration for values that cannot work
func (c *StreamConfig) Validate() error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read timeout must be positive", ErrInvalidParameter)
	}
	if c.MaxReadAttempts <= 0 && c.ReplyTimeout <= 0 {
		return fmt.Errorf("%w: reply wait needs an attempt or time bound", ErrInvalidParameter)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read buffer size must be positive", ErrInvalidParameter)
	}
	return nil
}

// StreamTransport runs the ccTalk framing over a Port.
//
// Exchanges are serialized: ccTalk is half duplex, so at most one request
// is outstanding at a time.
type StreamTransport struct {
	port        Port
	config      *StreamConfig
	reassembler *Reassembler
	readBuf     []byte
	mu          sync.Mutex
	closed      bool
}

// NewStreamTransport wraps port. A nil config uses DefaultStreamConfig.
func NewStreamTransport(port Port, config *StreamConfig) (*StreamTransport, error) {
	if config == nil {
		config = DefaultStreamConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		return nil, NewTransportError("configure", config.Name, err, ErrorTypePermanent)
	}

	return &StreamTransport{
		port:        port,
		config:      config,
		reassembler: NewReassembler(config.Address),
		readBuf:     make([]byte, config.ReadBufferSize),
	}, nil
}

// Address returns this endpoint's own bus address
func (t *StreamTransport) Address() Address {
	return t.config.Address
}

// Type returns the configured transport type
func (t *StreamTransport) Type() TransportType {
	return t.config.Type
}

// SetBillEvent is a no-op on a real stream
func (*StreamTransport) SetBillEvent(BillEvent) {}

// Send encodes and writes one message
func (t *StreamTransport) Send(msg *Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.send(msg)
}

// ReadMessages performs one bounded read and returns the messages for
// this endpoint that became complete
func (t *StreamTransport) ReadMessages() ([]*Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readMessages()
}

// SendAndAwaitReply sends msg and waits for one reply
func (t *StreamTransport) SendAndAwaitReply(msg *Message) (*Payload, error) {
	return t.SendAndAwaitReplyContext(context.Background(), msg)
}

// SendAndAwaitReplyContext sends msg and waits for one reply, bounded by
// the configured attempts, the reply timeout, and ctx.
func (t *StreamTransport) SendAndAwaitReplyContext(ctx context.Context, msg *Message) (*Payload, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.send(msg); err != nil {
		return nil, err
	}

	reply, err := transport.Poll(ctx, transport.PollConfig{
		MaxAttempts: t.config.MaxReadAttempts,
		Timeout:     t.config.ReplyTimeout,
		OnExhausted: func() {
			if dropped := t.reassembler.Reset(); dropped > 0 {
				debugf("%s: discarded %d stale bytes after reply timeout", t.config.Name, dropped)
			}
		},
	}, func() (*Message, bool, error) {
		messages, err := t.readMessages()
		if err != nil {
			return nil, false, err
		}
		if len(messages) == 0 {
			return nil, false, nil
		}
		if len(messages) > 1 {
			debugf("%s: %d messages arrived for one request, using the first", t.config.Name, len(messages))
		}
		return messages[0], true, nil
	})
	switch {
	case errors.Is(err, transport.ErrExhausted):
		return nil, fmt.Errorf("%w: %s to address %d: %w",
			ErrNoResponse, msg.Payload.Header, msg.Destination, NewTimeoutError("read", t.config.Name))
	case err != nil:
		return nil, err
	}

	if reply.Payload.Header != HeaderReply {
		return nil, fmt.Errorf("%w: got %s", ErrNotAReply, reply.Payload.Header)
	}
	return &reply.Payload, nil
}

// Close closes the underlying port
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", t.config.Name, err)
	}
	return nil
}

func (t *StreamTransport) send(msg *Message) error {
	if t.closed {
		return ErrTransportClosed
	}

	raw, err := msg.Encode()
	if errors.Is(err, ErrDataTooLarge) {
		debugln("encode rejected: ", err)
		return NewDataTooLargeError("write", t.config.Name)
	}
	if err != nil {
		return err
	}

	debugf("%s TX: % X", t.config.Name, raw)
	n, err := t.port.Write(raw)
	if err != nil {
		return NewTransportError("write", t.config.Name,
			fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
	}
	if n != len(raw) {
		return NewTransportError("write", t.config.Name,
			fmt.Errorf("%w: incomplete write %d of %d bytes", ErrTransportWrite, n, len(raw)), ErrorTypeTransient)
	}
	return nil
}

func (t *StreamTransport) readMessages() ([]*Message, error) {
	if t.closed {
		return nil, ErrTransportClosed
	}

	n, err := t.port.Read(t.readBuf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewTransportError("read", t.config.Name, ErrTransportClosed, ErrorTypePermanent)
		}
		return nil, NewTransportError("read", t.config.Name,
			fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
	}
	if n == 0 {
		return nil, nil
	}

	debugf("%s RX: % X", t.config.Name, t.readBuf[:n])
	messages, err := t.reassembler.Feed(t.readBuf[:n])
	if err != nil {
		return messages, NewTransportError("read", t.config.Name, err, ErrorTypeTransient)
	}
	return messages, nil
}
