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

import (
	"io"
	"sync"
	"time"
)

const defaultPipeReadTimeout = 5 * time.Millisecond

// PipePort is one end of an in-memory duplex byte link. Reads block until
// data arrives or the read timeout elapses, in which case they return 0,
// nil like a serial port.
type PipePort struct {
	peer        *PipePort
	notify      chan struct{}
	rx          []byte
	written     []byte
	readTimeout time.Duration
	chunkSize   int
	mu          sync.Mutex
	echo        bool
	closed      bool
	peerClosed  bool
}

// NewPipe returns the two connected ends of a link
func NewPipe() (a, b *PipePort) {
	a = newPipePort()
	b = newPipePort()
	a.peer = b
	b.peer = a
	return a, b
}

func newPipePort() *PipePort {
	return &PipePort{
		notify:      make(chan struct{}, 1),
		readTimeout: defaultPipeReadTimeout,
	}
}

// SetReadTimeout sets how long Read waits for data
func (p *PipePort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = timeout
	return nil
}

// SetChunkSize caps the bytes returned by one Read, fragmenting frames.
// Zero removes the cap.
func (p *PipePort) SetChunkSize(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunkSize = n
}

// SetEcho makes this end read back its own writes, like a single wire
// ccTalk bus
func (p *PipePort) SetEcho(echo bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.echo = echo
}

// Inject places raw bytes in this end's receive buffer
func (p *PipePort) Inject(data []byte) {
	p.deliver(data)
}

// Written returns every byte written through this end
func (p *PipePort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written...)
}

// Buffered returns the number of received bytes not yet read
func (p *PipePort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

func (p *PipePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	deadline := time.Now().Add(p.readTimeout)
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if len(p.rx) > 0 {
			limit := len(b)
			if p.chunkSize > 0 && p.chunkSize < limit {
				limit = p.chunkSize
			}
			n := copy(b[:limit], p.rx)
			p.rx = p.rx[n:]
			p.mu.Unlock()
			return n, nil
		}
		if p.closed || p.peerClosed {
			p.mu.Unlock()
			return 0, io.EOF
		}
		p.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, nil
		}
		timer := time.NewTimer(remaining)
		select {
		case <-p.notify:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (p *PipePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	if p.closed || p.peerClosed {
		p.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	p.written = append(p.written, b...)
	echo := p.echo
	p.mu.Unlock()

	p.peer.deliver(b)
	if echo {
		p.deliver(b)
	}
	return len(b), nil
}

// Close closes this end. The peer reads any buffered bytes, then io.EOF.
func (p *PipePort) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wake()

	p.peer.mu.Lock()
	p.peer.peerClosed = true
	p.peer.mu.Unlock()
	p.peer.wake()
	return nil
}

func (p *PipePort) deliver(data []byte) {
	p.mu.Lock()
	p.rx = append(p.rx, data...)
	p.mu.Unlock()
	p.wake()
}

func (p *PipePort) wake() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}
