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

package backend

import (
	"github.com/bfix/gnfs/arith"
)

// Big is the unbounded backend wrapping arbitrary-precision integers.
// The zero value is usable and represents 0.
type Big struct {
	v *arith.Int
}

// BigFromInt wraps an arbitrary-precision value.
func BigFromInt(v *arith.Int) Big {
	return Big{v: v}
}

// val treats the zero value as 0.
func (x Big) val() *arith.Int {
	if x.v == nil {
		return arith.ZERO
	}
	return x.v
}

// FromArbitrary always succeeds for the unbounded backend.
func (Big) FromArbitrary(n *arith.Int) (Big, bool) {
	return Big{v: n}, true
}

// FromInt64 wraps an intrinsic value.
func (Big) FromInt64(v int64) Big {
	return Big{v: arith.NewInt(v)}
}

// Cmp compares two values.
func (x Big) Cmp(y Big) int { return x.val().Cmp(y.val()) }

// Sign returns -1, 0 or 1.
func (x Big) Sign() int { return x.val().Sign() }

// IsZero checks for a zero value.
func (x Big) IsZero() bool { return x.val().IsZero() }

// IsOne checks for value "1".
func (x Big) IsOne() bool { return x.val().IsOne() }

// IsEven checks for an even value.
func (x Big) IsEven() bool { return x.val().IsEven() }

// Add returns x+y.
func (x Big) Add(y Big) Big { return Big{v: x.val().Add(y.val())} }

// Sub returns x-y.
func (x Big) Sub(y Big) Big { return Big{v: x.val().Sub(y.val())} }

// Mul returns x*y.
func (x Big) Mul(y Big) Big { return Big{v: x.val().Mul(y.val())} }

// Div returns x/y (truncated); panics on y = 0.
func (x Big) Div(y Big) Big { return Big{v: x.val().Div(y.val())} }

// Rem returns x%y with the sign of x; panics on y = 0.
func (x Big) Rem(y Big) Big { return Big{v: x.val().Rem(y.val())} }

// Neg returns -x.
func (x Big) Neg() Big { return Big{v: x.val().Neg()} }

// Abs returns |x|.
func (x Big) Abs() Big { return Big{v: x.val().Abs()} }

// CheckedAdd never overflows.
func (x Big) CheckedAdd(y Big) (Big, bool) { return x.Add(y), true }

// CheckedSub never underflows.
func (x Big) CheckedSub(y Big) (Big, bool) { return x.Sub(y), true }

// CheckedMul never overflows.
func (x Big) CheckedMul(y Big) (Big, bool) { return x.Mul(y), true }

// CheckedDiv fails on y = 0.
func (x Big) CheckedDiv(y Big) (Big, bool) {
	if y.IsZero() {
		return Big{}, false
	}
	return x.Div(y), true
}

// GCD returns the greatest common divisor of |x| and |y|.
func (x Big) GCD(y Big) Big { return Big{v: x.val().GCD(y.val())} }

// ModPow returns x^exp mod m; for m in {0,1} the result is 0.
func (x Big) ModPow(exp, m Big) Big {
	if m.val().Cmp(arith.TWO) < 0 {
		return Big{v: arith.ZERO}
	}
	return Big{v: x.val().ModPow(exp.val(), m.val())}
}

// Bit returns bit n of |x|.
func (x Big) Bit(n int) uint { return x.val().Abs().Bit(n) }

// BitLen returns the bit length of |x|.
func (x Big) BitLen() int { return x.val().BitLen() }

// ToArbitrary returns the wrapped value.
func (x Big) ToArbitrary() *arith.Int { return x.val() }

// Uint32 returns the value as uint32 if representable.
func (x Big) Uint32() (uint32, bool) {
	v := x.val()
	if v.Sign() < 0 || v.BitLen() > 32 {
		return 0, false
	}
	return uint32(v.Int64()), true
}

// Uint64 returns the value as uint64 if representable.
func (x Big) Uint64() (uint64, bool) {
	v := x.val()
	if v.Sign() < 0 || v.BitLen() > 64 {
		return 0, false
	}
	return v.Big().Uint64(), true
}

// String returns the decimal representation.
func (x Big) String() string { return x.val().String() }
