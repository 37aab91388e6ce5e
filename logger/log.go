//----------------------------------------------------------------------
// This file is part of gnfs.
// Copyright (C) 2023-present, Bernd Fix  >Y<
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package logger provides the process-wide structured logger used by
// all stages of the factorization pipeline.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////
// Local variables

var (
	logInst zerolog.Logger // singleton logger instance
	lock    sync.Mutex
)

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Stamp}
	logInst = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

///////////////////////////////////////////////////////////////////////
// Public logging functions.

// Logger returns the singleton logger instance.
func Logger() zerolog.Logger {
	lock.Lock()
	defer lock.Unlock()
	return logInst
}

// SetLevel adjusts the verbosity floor. Recognized levels are "trace",
// "debug", "info", "warn" and "error"; unknown values keep the current
// level.
func SetLevel(level string) {
	lock.Lock()
	defer lock.Unlock()
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		logInst = logInst.Level(lvl)
	}
}

// SetOutput redirects log output (e.g. to a file or io.Discard).
func SetOutput(w io.Writer) {
	lock.Lock()
	defer lock.Unlock()
	logInst = logInst.Output(w)
}

// Disable turns logging off completely.
func Disable() {
	lock.Lock()
	defer lock.Unlock()
	logInst = logInst.Level(zerolog.Disabled)
}
