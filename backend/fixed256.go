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

// F256 is the 256-bit fixed-width backend: sign and four-limb
// magnitude on the stack.
type F256 struct {
	neg bool
	w   [4]uint64
}

// F256FromInt64 wraps an intrinsic value.
func F256FromInt64(v int64) F256 {
	var x F256
	return x.FromInt64(v)
}

// FromArbitrary converts an arbitrary-precision value if it fits.
func (F256) FromArbitrary(n *arith.Int) (F256, bool) {
	var x F256
	if !natFromArbitrary(x.w[:], n) {
		return F256{}, false
	}
	x.neg = n.Sign() < 0
	return x, true
}

// FromInt64 wraps an intrinsic value.
func (F256) FromInt64(v int64) F256 {
	var x F256
	x.neg = v < 0
	x.w[0] = absU64(v)
	return x
}

// Cmp compares two values.
func (x F256) Cmp(y F256) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	c := natCmp(x.w[:], y.w[:])
	if xs < 0 {
		return -c
	}
	return c
}

// Sign returns -1, 0 or 1.
func (x F256) Sign() int {
	if natIsZero(x.w[:]) {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

// IsZero checks for a zero value.
func (x F256) IsZero() bool { return natIsZero(x.w[:]) }

// IsOne checks for value "1".
func (x F256) IsOne() bool {
	return !x.neg && x.w[0] == 1 && x.w[1] == 0 && x.w[2] == 0 && x.w[3] == 0
}

// IsEven checks for an even value.
func (x F256) IsEven() bool { return x.w[0]&1 == 0 }

func (x F256) norm() F256 {
	if natIsZero(x.w[:]) {
		x.neg = false
	}
	return x
}

// CheckedAdd returns x+y and an in-range indicator.
func (x F256) CheckedAdd(y F256) (F256, bool) {
	var r F256
	if x.neg == y.neg {
		if natAdd(r.w[:], x.w[:], y.w[:]) != 0 {
			return F256{}, false
		}
		r.neg = x.neg
		return r.norm(), true
	}
	if natCmp(x.w[:], y.w[:]) >= 0 {
		natSub(r.w[:], x.w[:], y.w[:])
		r.neg = x.neg
	} else {
		natSub(r.w[:], y.w[:], x.w[:])
		r.neg = y.neg
	}
	return r.norm(), true
}

// CheckedSub returns x-y and an in-range indicator.
func (x F256) CheckedSub(y F256) (F256, bool) {
	y.neg = !y.neg
	return x.CheckedAdd(y.norm())
}

// CheckedMul returns x*y and an in-range indicator.
func (x F256) CheckedMul(y F256) (F256, bool) {
	full := natMulFull(x.w[:], y.w[:])
	if !natIsZero(full[4:]) {
		return F256{}, false
	}
	var r F256
	copy(r.w[:], full[:4])
	r.neg = x.neg != y.neg
	return r.norm(), true
}

// CheckedDiv returns x/y (truncated), failing on y = 0.
func (x F256) CheckedDiv(y F256) (F256, bool) {
	if y.IsZero() {
		return F256{}, false
	}
	q, _ := x.divMod(y)
	return q, true
}

// Add returns x+y; panics on overflow.
func (x F256) Add(y F256) F256 {
	r, ok := x.CheckedAdd(y)
	if !ok {
		panic("F256 add overflow")
	}
	return r
}

// Sub returns x-y; panics on overflow.
func (x F256) Sub(y F256) F256 {
	r, ok := x.CheckedSub(y)
	if !ok {
		panic("F256 sub overflow")
	}
	return r
}

// Mul returns x*y; panics on overflow.
func (x F256) Mul(y F256) F256 {
	r, ok := x.CheckedMul(y)
	if !ok {
		panic("F256 mul overflow")
	}
	return r
}

// Div returns x/y (truncated); panics on y = 0.
func (x F256) Div(y F256) F256 {
	if y.IsZero() {
		panic("F256 division by zero")
	}
	q, _ := x.divMod(y)
	return q
}

// Rem returns x%y with the sign of x; panics on y = 0.
func (x F256) Rem(y F256) F256 {
	if y.IsZero() {
		panic("F256 division by zero")
	}
	_, r := x.divMod(y)
	return r
}

// divMod returns signed quotient (truncated) and remainder.
func (x F256) divMod(y F256) (F256, F256) {
	var q, r F256
	if natBitLen(y.w[:]) <= 64 {
		copy(q.w[:], x.w[:])
		r.w[0] = natDivModSmall(q.w[:], y.w[0])
	} else {
		natDivMod(q.w[:], r.w[:], x.w[:], y.w[:])
	}
	q.neg = x.neg != y.neg
	r.neg = x.neg
	return q.norm(), r.norm()
}

// Neg returns -x.
func (x F256) Neg() F256 {
	x.neg = !x.neg
	return x.norm()
}

// Abs returns |x|.
func (x F256) Abs() F256 {
	x.neg = false
	return x
}

// GCD returns the greatest common divisor of |x| and |y|.
func (x F256) GCD(y F256) F256 {
	a, b := x.Abs(), y.Abs()
	for !b.IsZero() {
		_, r := a.divMod(b)
		a, b = b, r.Abs()
	}
	return a
}

// ModPow returns x^exp mod m. The 512-bit intermediate is carried in
// arbitrary precision; for m in {0,1} the result is 0.
func (x F256) ModPow(exp, m F256) F256 {
	if m.Cmp(F256FromInt64(2)) < 0 {
		return F256{}
	}
	res := x.ToArbitrary().ModPow(exp.ToArbitrary(), m.ToArbitrary())
	var z F256
	r, _ := z.FromArbitrary(res)
	return r
}

// Bit returns bit n of |x|.
func (x F256) Bit(n int) uint {
	if n < 0 || n > 255 {
		return 0
	}
	return uint(x.w[n/64]>>(n%64)) & 1
}

// BitLen returns the bit length of |x|.
func (x F256) BitLen() int {
	return natBitLen(x.w[:])
}

// ToArbitrary lifts the value into arbitrary precision.
func (x F256) ToArbitrary() *arith.Int {
	return natToArbitrary(x.neg, x.w[:])
}

// Uint32 returns the value as uint32 if representable.
func (x F256) Uint32() (uint32, bool) {
	if x.neg || natBitLen(x.w[:]) > 32 {
		return 0, false
	}
	return uint32(x.w[0]), true
}

// Uint64 returns the value as uint64 if representable.
func (x F256) Uint64() (uint64, bool) {
	if x.neg || natBitLen(x.w[:]) > 64 {
		return 0, false
	}
	return x.w[0], true
}

// String returns the decimal representation.
func (x F256) String() string {
	return x.ToArbitrary().String()
}
