// Copyright 2019 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the ambient, leveled diagnostic logging used by
// core/asm. It never influences the output of a disassembly: a
// scanner that is pure best-effort (see core/asm's handling of
// unresolved selectors and invalid jump targets) logs at Debug and
// keeps going.
package log

import (
	"os"

	"golang.org/x/exp/slog"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Root returns the package-wide logger.
func Root() *slog.Logger {
	return root
}

// SetRoot replaces the package-wide logger, letting a host application
// route whatsabi's diagnostics into its own handler.
func SetRoot(l *slog.Logger) {
	root = l
}

func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
