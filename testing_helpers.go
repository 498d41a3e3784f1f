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
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests and dry runs.
//
// With nothing scripted it acts like a well behaved bill validator:
// buffered bill event requests are answered with [counter, event, error]
// where the counter advances once after each SetBillEvent, and every other
// request gets an empty Reply.
type MockTransport struct {
	replies      map[HeaderType]*Payload
	errs         map[HeaderType]error
	ResponseFunc func(msg *Message) (*Payload, error)
	sent         []*Message
	inbox        []*Message
	billEvent    BillEvent
	delay        time.Duration
	mu           sync.Mutex
	address      Address
	billCounter  byte
	billChanged  bool
	closed       bool
}

// NewMockTransport creates a mock host endpoint
func NewMockTransport() *MockTransport {
	return &MockTransport{
		replies:     make(map[HeaderType]*Payload),
		errs:        make(map[HeaderType]error),
		address:     HostAddress,
		billEvent:   BillMasterInhibitActive,
		billCounter: 1,
	}
}

// SetAddress changes the endpoint's own address
func (m *MockTransport) SetAddress(address Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.address = address
}

// SetReply scripts the reply payload for a request header
func (m *MockTransport) SetReply(header HeaderType, reply *Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[header] = reply
}

// SetError makes requests with header fail with err
func (m *MockTransport) SetError(header HeaderType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, header)
		return
	}
	m.errs[header] = err
}

// SetResponseFunc installs a function that answers every request. It takes
// precedence over scripted replies.
func (m *MockTransport) SetResponseFunc(fn func(msg *Message) (*Payload, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseFunc = fn
}

// SetDelay makes every exchange take at least d
func (m *MockTransport) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Inject queues messages to be returned by the next ReadMessages
func (m *MockTransport) Inject(msgs ...*Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = append(m.inbox, msgs...)
}

// Sent returns a copy of every message sent so far
func (m *MockTransport) Sent() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Message(nil), m.sent...)
}

// Address returns the endpoint's own address
func (m *MockTransport) Address() Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.address
}

// SetBillEvent scripts the event reported by the next buffered bill reply
func (m *MockTransport) SetBillEvent(event BillEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.billEvent = event
	m.billChanged = true
}

// Send records msg
func (m *MockTransport) Send(msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ReadMessages drains the injected inbox
func (m *MockTransport) ReadMessages() ([]*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportClosed
	}
	msgs := m.inbox
	m.inbox = nil
	return msgs, nil
}

// SendAndAwaitReply records msg and returns the scripted answer
func (m *MockTransport) SendAndAwaitReply(msg *Message) (*Payload, error) {
	m.mu.Lock()
	delay := m.delay
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrTransportClosed
	}
	m.sent = append(m.sent, msg)

	// The function may call back into the mock.
	if respond := m.ResponseFunc; respond != nil {
		m.mu.Unlock()
		return respond(msg)
	}
	defer m.mu.Unlock()

	header := msg.Payload.Header
	if err, ok := m.errs[header]; ok {
		return nil, err
	}
	if reply, ok := m.replies[header]; ok {
		return NewPayload(reply.Header, reply.Data...), nil
	}

	if header == HeaderReadBufferedBillEvents {
		if m.billChanged {
			m.billCounter = NextCounter(m.billCounter)
			m.billChanged = false
		}
		return NewPayload(HeaderReply, m.billCounter, m.billEvent.Event, m.billEvent.Error), nil
	}
	return NewPayload(HeaderReply), nil
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}
