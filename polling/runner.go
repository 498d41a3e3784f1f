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

package polling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-cctalk"
)

// Runner drives a Monitor on a background goroutine and lets other
// goroutines run host commands between polls. ccTalk allows one
// outstanding request on the bus, so commands issued while monitoring
// go through Do rather than straight to the device.
type Runner struct {
	monitor       *Monitor
	pending       atomic.Pointer[request]
	cancelFunc    context.CancelFunc
	done          chan struct{}
	exitErr       error
	OnCredit      func(cctalk.CreditEvent)
	OnEventsLost  func(lost int)
	OnDeviceReset func()
	OnError       func(error)
	requestMutex  sync.Mutex
	stopMutex     sync.Mutex
	running       atomic.Bool
}

type request struct {
	ctx       context.Context
	operation func(*cctalk.Device) error
	result    chan error
	createdAt time.Time
}

// Runner-specific errors
var (
	ErrRequestAlreadyPending = errors.New("request already pending")
	ErrRunnerNotRunning      = errors.New("runner is not running")
	ErrRunnerStopped         = errors.New("runner was stopped")
)

// NewRunner creates a runner polling device with config
func NewRunner(device *cctalk.Device, config *Config) (*Runner, error) {
	monitor, err := NewMonitor(device, config)
	if err != nil {
		return nil, err
	}
	r := &Runner{monitor: monitor}
	monitor.betweenPolls = r.processPendingRequest
	return r, nil
}

// Monitor returns the underlying monitor
func (r *Runner) Monitor() *Monitor {
	return r.monitor
}

// Start begins polling in the background. It returns an error if the
// runner is already running.
func (r *Runner) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errors.New("runner is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.stopMutex.Lock()
	r.cancelFunc = cancel
	r.done = done
	r.exitErr = nil
	r.stopMutex.Unlock()

	r.setupEventHandlers()

	go func() {
		err := r.monitor.Start(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			cctalk.Logger().Error("credit polling stopped", "address", r.monitor.device.Address(), "error", err)
		} else {
			err = nil
		}

		r.stopMutex.Lock()
		r.exitErr = err
		r.cancelFunc = nil
		r.stopMutex.Unlock()

		r.running.Store(false)
		close(done)
		cancel()
	}()

	return nil
}

// Stop stops polling and blocks until the goroutine has exited. It
// returns the error that ended polling, if it ended on its own.
func (r *Runner) Stop() error {
	r.stopMutex.Lock()
	cancelFunc := r.cancelFunc
	done := r.done
	r.stopMutex.Unlock()

	if done == nil {
		return nil
	}
	if cancelFunc != nil {
		cancelFunc()
	}
	<-done

	r.stopMutex.Lock()
	defer r.stopMutex.Unlock()
	return r.exitErr
}

// IsRunning returns whether the runner is currently active
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// HasPendingRequest returns true if a command is waiting for the next gap
// between polls
func (r *Runner) HasPendingRequest() bool {
	return r.pending.Load() != nil
}

// Do runs operation on the device between two polls and returns its
// result. It blocks until the operation ran, timeout elapsed, ctx was
// cancelled, or the runner stopped.
func (r *Runner) Do(ctx context.Context, timeout time.Duration, operation func(*cctalk.Device) error) error {
	if !r.running.Load() {
		return ErrRunnerNotRunning
	}

	r.requestMutex.Lock()
	defer r.requestMutex.Unlock()

	if r.pending.Load() != nil {
		return ErrRequestAlreadyPending
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &request{
		ctx:       reqCtx,
		operation: operation,
		result:    make(chan error, 1),
		createdAt: time.Now(),
	}

	r.stopMutex.Lock()
	done := r.done
	r.stopMutex.Unlock()

	r.pending.Store(req)
	defer r.pending.Store(nil)

	select {
	case err := <-req.result:
		return err
	case <-reqCtx.Done():
		return reqCtx.Err()
	case <-done:
		return ErrRunnerStopped
	}
}

func (r *Runner) setupEventHandlers() {
	r.monitor.OnCredit = func(event cctalk.CreditEvent) {
		if r.OnCredit != nil {
			r.OnCredit(event)
		}
	}
	r.monitor.OnEventsLost = func(lost int) {
		if r.OnEventsLost != nil {
			r.OnEventsLost(lost)
		}
	}
	r.monitor.OnDeviceReset = func() {
		if r.OnDeviceReset != nil {
			r.OnDeviceReset()
		}
	}
	r.monitor.OnError = func(err error) {
		if r.OnError != nil {
			r.OnError(err)
		}
	}
}

// processPendingRequest runs the queued command, if any. The polling
// goroutine calls it between polls.
func (r *Runner) processPendingRequest(_ context.Context) {
	req := r.pending.Swap(nil)
	if req == nil {
		return
	}

	select {
	case <-req.ctx.Done():
		sendResult(req, req.ctx.Err())
		return
	default:
	}

	cctalk.Logger().Debug("running queued request", "waited", time.Since(req.createdAt))
	sendResult(req, req.operation(r.monitor.device))
}

func sendResult(req *request, err error) {
	select {
	case req.result <- err:
	default:
	}
}
