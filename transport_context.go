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
	"fmt"
)

// TransportContext is a Transport whose blocking exchange honours a
// context for cancellation and deadlines.
type TransportContext interface {
	Transport

	// SendAndAwaitReplyContext sends msg and waits for one reply or ctx
	SendAndAwaitReplyContext(ctx context.Context, msg *Message) (*Payload, error)
}

// transportContextAdapter wraps a Transport to provide context support
type transportContextAdapter struct {
	Transport
}

// SendAndAwaitReplyContext runs the exchange in a goroutine and returns
// early when ctx is done. The exchange itself keeps running until the
// wrapped transport gives up.
func (t *transportContextAdapter) SendAndAwaitReplyContext(ctx context.Context, msg *Message) (*Payload, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled before sending %s: %w", msg.Payload.Header, ctx.Err())
	default:
	}

	type result struct {
		err     error
		payload *Payload
	}
	resultChan := make(chan result, 1)

	go func() {
		payload, err := t.SendAndAwaitReply(msg)
		resultChan <- result{err: err, payload: payload}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled while waiting for reply: %w", ctx.Err())
	case res := <-resultChan:
		return res.payload, res.err
	}
}

// AsTransportContext converts a Transport to TransportContext
func AsTransportContext(t Transport) TransportContext {
	if tc, ok := t.(TransportContext); ok {
		return tc
	}
	return &transportContextAdapter{Transport: t}
}
