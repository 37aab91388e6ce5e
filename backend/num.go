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

// Package backend provides the adaptive integer layer: a uniform
// arithmetic contract over several fixed-width representations plus an
// arbitrary-precision fallback. The selector maps the number to be
// factored (and the polynomial degree) to the narrowest variant whose
// capacity covers the expected norm sizes; the choice is made once at
// construction and stays constant for the whole run.
package backend

import (
	"github.com/bfix/gnfs/arith"
)

// Num is the uniform arithmetic contract implemented by every backend
// variant. Arithmetic agrees with arbitrary precision on all in-range
// inputs; the checked forms report overflow, underflow and division by
// zero instead of wrapping or panicking.
type Num[T any] interface {
	// construction (callable on the zero value)
	FromArbitrary(n *arith.Int) (T, bool)
	FromInt64(v int64) T

	// total ordering
	Cmp(other T) int
	Sign() int
	IsZero() bool
	IsOne() bool
	IsEven() bool

	// arithmetic (panicking on unrepresentable results)
	Add(other T) T
	Sub(other T) T
	Mul(other T) T
	Div(other T) T
	Rem(other T) T
	Neg() T
	Abs() T

	// checked arithmetic
	CheckedAdd(other T) (T, bool)
	CheckedSub(other T) (T, bool)
	CheckedMul(other T) (T, bool)
	CheckedDiv(other T) (T, bool)

	// number theory
	GCD(other T) T
	ModPow(exp, m T) T

	// bit access (ignoring sign)
	Bit(n int) uint
	BitLen() int

	// conversions
	ToArbitrary() *arith.Int
	Uint32() (uint32, bool)
	Uint64() (uint64, bool)

	String() string
}

// Kind tags the backend variants.
type Kind int

const (
	KindNative64 Kind = iota
	KindNative128
	KindFixed256
	KindFixed512
	KindBig
)

// Name returns the variant name for logging.
func (k Kind) Name() string {
	switch k {
	case KindNative64:
		return "Native64Signed"
	case KindNative128:
		return "Native128Signed"
	case KindFixed256:
		return "Fixed256"
	case KindFixed512:
		return "Fixed512"
	default:
		return "Arbitrary"
	}
}

// EstimateNormBits returns the expected bit size of algebraic norms
// for a number n and polynomial degree d: bits(n)/d + 40.
func EstimateNormBits(n *arith.Int, degree int) int {
	return n.BitLen()/degree + 40
}

// Select maps (n, degree) to the narrowest variant whose ceiling
// covers both the digit count of n and the algebraic-norm headroom.
func Select(n *arith.Int, degree int) Kind {
	digits := n.DigitCount()
	normBits := EstimateNormBits(n, degree)
	switch {
	case digits <= 13 && normBits <= 60:
		return KindNative64
	case digits <= 19 && normBits <= 120:
		return KindNative128
	case digits <= 38 && normBits <= 250:
		return KindFixed256
	case digits <= 77 && normBits <= 500:
		return KindFixed512
	default:
		return KindBig
	}
}
