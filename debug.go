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
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

var (
	debugEnabled atomic.Bool
	loggerMu     sync.RWMutex
	logger       = discardLogger()
	customLogger bool
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetDebugEnabled turns frame level debug output on or off. When no custom
// logger was installed, debug output goes to stderr.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
	if !enabled {
		return
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if !customLogger {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// SetLogger installs the logger used by the package and its subpackages.
// A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		logger = discardLogger()
		customLogger = false
		return
	}
	logger = l
	customLogger = true
}

// Logger returns the package logger
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}

func debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	Logger().Debug(fmt.Sprint(args...))
}
