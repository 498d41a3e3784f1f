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
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-cctalk/internal/testing"
)

func TestAsTransportContext_NativeImplementation(t *testing.T) {
	t.Parallel()

	port, _ := testutil.NewPipe()
	tr, err := NewStreamTransport(port, testStreamConfig(HostAddress))
	if err != nil {
		t.Fatalf("NewStreamTransport() error = %v", err)
	}

	if tc := AsTransportContext(tr); tc != TransportContext(tr) {
		t.Errorf("AsTransportContext() wrapped a transport that already supports contexts")
	}
}

func TestSendAndAwaitReplyContext_CancellationPreventsHang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		delay      time.Duration
		ctxTimeout time.Duration
		expectErr  bool
	}{
		{
			name:       "quick cancellation",
			delay:      1 * time.Second,
			ctxTimeout: 10 * time.Millisecond,
			expectErr:  true,
		},
		{
			name:       "slow operation with sufficient timeout",
			delay:      10 * time.Millisecond,
			ctxTimeout: 500 * time.Millisecond,
			expectErr:  false,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := NewMockTransport()
			mock.SetDelay(tt.delay)
			tc := AsTransportContext(mock)

			ctx, cancel := context.WithTimeout(context.Background(), tt.ctxTimeout)
			defer cancel()

			start := time.Now()
			msg := NewMessage(PeripheralAddress, HostAddress, NewPayload(HeaderSimplePoll), AdditiveChecksum)
			_, err := tc.SendAndAwaitReplyContext(ctx, msg)
			elapsed := time.Since(start)

			if tt.expectErr {
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("expected deadline exceeded, got %v", err)
				}
				if elapsed > tt.delay/2 {
					t.Errorf("call returned after %v, should return near the context deadline", elapsed)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSendAndAwaitReplyContext_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := NewMessage(PeripheralAddress, HostAddress, NewPayload(HeaderSimplePoll), AdditiveChecksum)
	_, err := AsTransportContext(mock).SendAndAwaitReplyContext(ctx, msg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(mock.Sent()) != 0 {
		t.Errorf("request was sent after cancellation")
	}
}
