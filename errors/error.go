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

// Package errors defines the failure modes of the factorization
// pipeline. Every failure is an explicit value; relation-level outcomes
// (overflow, not smooth) are absorbed by the sieve and never surface,
// the matrix and square-root signals are retryable one level up, and
// storage/cancellation travel to the top-level driver.
package errors

import (
	"errors"
	"fmt"
)

// Base errors recognized by the pipeline.
var (
	// ErrBackendOverflow: an intermediate exceeded the capacity of the
	// selected integer backend. The current relation is abandoned.
	ErrBackendOverflow = errors.New("backend overflow")

	// ErrArithmetic: divide-by-zero in a modular inverse or a
	// non-residue in Tonelli-Shanks. The caller tries a different
	// prime or dependency.
	ErrArithmetic = errors.New("arithmetic undefined")

	// ErrNotSmooth: a quotient remained != 1 after trial division
	// over the factor base. The relation is discarded silently.
	ErrNotSmooth = errors.New("relation not smooth")

	// ErrInsufficientRelations: the matrix stage needs more rows.
	ErrInsufficientRelations = errors.New("insufficient smooth relations")

	// ErrNoFactor: all matrix dependencies produced trivial gcds.
	ErrNoFactor = errors.New("no dependency yields a factor")

	// ErrCancelled: the shared cancellation flag was raised.
	ErrCancelled = errors.New("cancelled")

	// ErrStorage: the relation spill file could not be written. The
	// in-memory buffer is kept intact.
	ErrStorage = errors.New("storage i/o failure")
)

// Error is a wrapper for errors produced by (parts of) the gnfs
// implementation where variable error context is required for
// defined errors
type Error struct {
	Err error  // base error (for errors.Is() and errors.As() calls)
	Ctx string // error context
}

// Unwrap error to standard type
func (e *Error) Unwrap() error {
	return e.Err
}

// Error returns a human-readble error description
func (e *Error) Error() string {
	return e.Err.Error() + " [" + e.Ctx + "]"
}

// New creates a new Error instance
func New(err error, format string, args ...interface{}) *Error {
	return &Error{
		Err: err,
		Ctx: fmt.Sprintf(format, args...),
	}
}

// Is forwards to the standard library matcher.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
