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

package emulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-cctalk"
)

// ErrCreditQueueFull is returned by AddCredit when the dispatch loop has
// not caught up with injected coins
var ErrCreditQueueFull = errors.New("credit queue full")

// Config contains configuration options for the Emulator
type Config struct {
	Info            CoreInfo
	Coins           CoinTable
	ChecksumType    cctalk.ChecksumType
	PollInterval    time.Duration
	CreditQueueSize int
}

// DefaultConfig returns the stock coin acceptor configuration
func DefaultConfig() *Config {
	return &Config{
		Info:            DefaultCoreInfo(),
		Coins:           DefaultCoinTable(),
		ChecksumType:    cctalk.AdditiveChecksum,
		PollInterval:    10 * time.Millisecond,
		CreditQueueSize: 64,
	}
}

// Option is a functional option for configuring an Emulator
type Option func(*Config) error

// WithCoreInfo sets the identification strings and serial number
func WithCoreInfo(info CoreInfo) Option {
	return func(c *Config) error {
		if err := info.Validate(); err != nil {
			return err
		}
		c.Info = info
		return nil
	}
}

// WithCoinTable sets the initial coin table
func WithCoinTable(coins CoinTable) Option {
	return func(c *Config) error {
		for i, coin := range coins {
			if err := coin.Validate(); err != nil {
				return fmt.Errorf("channel %d: %w", i+1, err)
			}
		}
		c.Coins = coins
		return nil
	}
}

// WithChecksumType selects the checksum scheme used for replies
func WithChecksumType(checksumType cctalk.ChecksumType) Option {
	return func(c *Config) error {
		c.ChecksumType = checksumType
		return nil
	}
}

// WithPollInterval sets the pause between receive cycles in Run
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) error {
		if interval <= 0 {
			return fmt.Errorf("%w: poll interval %v", cctalk.ErrInvalidParameter, interval)
		}
		c.PollInterval = interval
		return nil
	}
}

// WithCreditQueueSize bounds the number of coins AddCredit can queue
func WithCreditQueueSize(size int) Option {
	return func(c *Config) error {
		if size < 1 {
			return fmt.Errorf("%w: credit queue size %d", cctalk.ErrInvalidParameter, size)
		}
		c.CreditQueueSize = size
		return nil
	}
}

// Snapshot is a copy of the emulated state for inspection
type Snapshot struct {
	Info          CoreInfo
	Coins         CoinTable
	Credits       cctalk.CreditBuffer
	MasterInhibit bool
	Requests      int64
	Replies       int64
	Faults        int64
}

// Emulator answers ccTalk requests as a coin acceptor.
//
// Coin insertions from other goroutines go through AddCredit, which only
// queues them; the dispatch loop applies them between requests, so the
// emulated state is only ever touched by one goroutine at a time.
type Emulator struct {
	transport cctalk.Transport
	config    *Config
	state     *State
	credits   chan byte
	mu        sync.Mutex
	requests  int64
	replies   int64
	faults    int64
}

// New creates an emulator answering on transport's address
func New(transport cctalk.Transport, opts ...Option) (*Emulator, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return &Emulator{
		transport: transport,
		config:    config,
		state:     NewState(config.Info, config.Coins),
		credits:   make(chan byte, config.CreditQueueSize),
	}, nil
}

// Address returns the bus address the emulator answers on
func (e *Emulator) Address() cctalk.Address {
	return e.transport.Address()
}

// AddCredit queues a coin insertion on a 1-based channel. It is safe to
// call from any goroutine.
func (e *Emulator) AddCredit(channel byte) error {
	if channel < 1 || channel > Channels {
		return fmt.Errorf("%w: %d (valid 1-%d)", cctalk.ErrInvalidChannel, channel, Channels)
	}
	select {
	case e.credits <- channel:
		return nil
	default:
		return ErrCreditQueueFull
	}
}

// SetCoin replaces the coin on a 1-based channel
func (e *Emulator) SetCoin(channel byte, info CoinInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Coins.Set(channel, info)
}

// Snapshot returns a copy of the current state
func (e *Emulator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Info:          e.state.Info,
		Coins:         e.state.Coins,
		Credits:       *e.state.CreditBuffer(),
		MasterInhibit: e.state.MasterInhibit,
		Requests:      atomic.LoadInt64(&e.requests),
		Replies:       atomic.LoadInt64(&e.replies),
		Faults:        atomic.LoadInt64(&e.faults),
	}
}

// ReadMessages reads the requests addressed to the emulator. Checksum
// errors are bus noise: they are logged and yield no messages.
func (e *Emulator) ReadMessages() ([]*cctalk.Message, error) {
	msgs, err := e.transport.ReadMessages()
	if err != nil {
		if errors.Is(err, cctalk.ErrChecksum) {
			atomic.AddInt64(&e.faults, 1)
			cctalk.Logger().Warn("discarding corrupted frame", "address", e.Address(), "error", err)
			return msgs, nil
		}
		return nil, fmt.Errorf("emulator read: %w", err)
	}
	return msgs, nil
}

// ReplyMessage answers one request. Requests the emulator does not
// implement, and malformed ones, get no reply.
func (e *Emulator) ReplyMessage(msg *cctalk.Message) error {
	atomic.AddInt64(&e.requests, 1)

	e.mu.Lock()
	reply, ok, err := e.state.Handle(&msg.Payload)
	e.mu.Unlock()

	if err != nil {
		atomic.AddInt64(&e.faults, 1)
		cctalk.Logger().Warn("ignoring malformed request", "header", msg.Payload.Header, "error", err)
		return nil
	}
	if !ok {
		cctalk.Logger().Debug("no reply for request", "header", msg.Payload.Header)
		return nil
	}

	out := cctalk.NewMessage(msg.Source, e.Address(), reply, e.config.ChecksumType)
	if err := e.transport.Send(out); err != nil {
		return fmt.Errorf("emulator reply to %s: %w", msg.Payload.Header, err)
	}
	atomic.AddInt64(&e.replies, 1)
	return nil
}

// ServeOnce applies queued credits, then reads and answers pending
// requests
func (e *Emulator) ServeOnce() error {
	e.applyCredits()

	msgs, err := e.ReadMessages()
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := e.ReplyMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// Run serves requests until ctx is done or the transport fails
func (e *Emulator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.ServeOnce(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.config.PollInterval):
		}
	}
}

func (e *Emulator) applyCredits() {
	for {
		select {
		case channel := <-e.credits:
			e.mu.Lock()
			err := e.state.AddCredit(channel)
			e.mu.Unlock()
			if err != nil {
				cctalk.Logger().Warn("dropping credit", "channel", channel, "error", err)
			}
		default:
			return
		}
	}
}
