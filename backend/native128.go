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
	"math/bits"

	"github.com/bfix/gnfs/arith"
)

// N128 is the 127-bit signed backend, stored as sign and two-limb
// magnitude. Division by factor-base primes runs on the fast single
// limb path; modular exponentiation borrows arbitrary precision for
// the 256-bit intermediate.
type N128 struct {
	neg bool   // sign (never set on zero)
	hi  uint64 // magnitude, upper limb
	lo  uint64 // magnitude, lower limb
}

// N128FromInt64 wraps an intrinsic value.
func N128FromInt64(v int64) N128 {
	var x N128
	return x.FromInt64(v)
}

// FromArbitrary converts an arbitrary-precision value if it fits.
func (N128) FromArbitrary(n *arith.Int) (N128, bool) {
	if n.BitLen() > 127 {
		return N128{}, false
	}
	a := n.Abs()
	lo := a.Mod(arith.TWO.Pow(64)).Big().Uint64()
	hi := a.Rsh(64).Big().Uint64()
	return N128{neg: n.Sign() < 0, hi: hi, lo: lo}, true
}

// FromInt64 wraps an intrinsic value.
func (N128) FromInt64(v int64) N128 {
	if v < 0 {
		return N128{neg: true, lo: absU64(v)}
	}
	return N128{lo: uint64(v)}
}

// magCmp compares magnitudes.
func (x N128) magCmp(y N128) int {
	switch {
	case x.hi != y.hi:
		if x.hi < y.hi {
			return -1
		}
		return 1
	case x.lo != y.lo:
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

// Cmp compares two values.
func (x N128) Cmp(y N128) int {
	if x.neg != y.neg {
		if x.neg {
			return -1
		}
		return 1
	}
	c := x.magCmp(y)
	if x.neg {
		return -c
	}
	return c
}

// Sign returns -1, 0 or 1.
func (x N128) Sign() int {
	if x.hi == 0 && x.lo == 0 {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

// IsZero checks for a zero value.
func (x N128) IsZero() bool { return x.hi == 0 && x.lo == 0 }

// IsOne checks for value "1".
func (x N128) IsOne() bool { return !x.neg && x.hi == 0 && x.lo == 1 }

// IsEven checks for an even value.
func (x N128) IsEven() bool { return x.lo&1 == 0 }

// norm clears the sign on zero.
func (x N128) norm() N128 {
	if x.hi == 0 && x.lo == 0 {
		x.neg = false
	}
	return x
}

// magAdd adds magnitudes; the carry indicates overflow beyond 128 bits.
func magAdd(x, y N128) (N128, uint64) {
	lo, c := bits.Add64(x.lo, y.lo, 0)
	hi, c := bits.Add64(x.hi, y.hi, c)
	return N128{hi: hi, lo: lo}, c
}

// magSub subtracts magnitudes (x >= y required).
func magSub(x, y N128) N128 {
	lo, b := bits.Sub64(x.lo, y.lo, 0)
	hi, _ := bits.Sub64(x.hi, y.hi, b)
	return N128{hi: hi, lo: lo}
}

// CheckedAdd returns x+y and an in-range indicator.
func (x N128) CheckedAdd(y N128) (N128, bool) {
	if x.neg == y.neg {
		r, c := magAdd(x, y)
		if c != 0 || r.hi >= 1<<63 {
			return N128{}, false
		}
		r.neg = x.neg
		return r.norm(), true
	}
	if x.magCmp(y) >= 0 {
		r := magSub(x, y)
		r.neg = x.neg
		return r.norm(), true
	}
	r := magSub(y, x)
	r.neg = y.neg
	return r.norm(), true
}

// CheckedSub returns x-y and an in-range indicator.
func (x N128) CheckedSub(y N128) (N128, bool) {
	y.neg = !y.neg
	return x.CheckedAdd(y.norm())
}

// CheckedMul returns x*y and an in-range indicator.
func (x N128) CheckedMul(y N128) (N128, bool) {
	// 128x128 -> 256 magnitude product; the upper half must be zero
	// and the low half must stay below 2^127.
	c1hi, c1lo := bits.Mul64(x.lo, y.lo)
	m1hi, m1lo := bits.Mul64(x.lo, y.hi)
	m2hi, m2lo := bits.Mul64(x.hi, y.lo)
	t2hi, _ := bits.Mul64(x.hi, y.hi)
	if t2hi != 0 || (x.hi != 0 && y.hi != 0) {
		return N128{}, false
	}
	if m1hi != 0 || m2hi != 0 {
		return N128{}, false
	}
	hi, c := bits.Add64(c1hi, m1lo, 0)
	if c != 0 {
		return N128{}, false
	}
	hi, c = bits.Add64(hi, m2lo, 0)
	if c != 0 || hi >= 1<<63 {
		return N128{}, false
	}
	r := N128{neg: x.neg != y.neg, hi: hi, lo: c1lo}
	return r.norm(), true
}

// CheckedDiv returns x/y (truncated), failing on y = 0.
func (x N128) CheckedDiv(y N128) (N128, bool) {
	if y.IsZero() {
		return N128{}, false
	}
	q, _ := magDivMod(x, y)
	q.neg = x.neg != y.neg
	return q.norm(), true
}

// Add returns x+y; panics on overflow.
func (x N128) Add(y N128) N128 {
	r, ok := x.CheckedAdd(y)
	if !ok {
		panic("N128 add overflow")
	}
	return r
}

// Sub returns x-y; panics on overflow.
func (x N128) Sub(y N128) N128 {
	r, ok := x.CheckedSub(y)
	if !ok {
		panic("N128 sub overflow")
	}
	return r
}

// Mul returns x*y; panics on overflow.
func (x N128) Mul(y N128) N128 {
	r, ok := x.CheckedMul(y)
	if !ok {
		panic("N128 mul overflow")
	}
	return r
}

// Div returns x/y (truncated); panics on y = 0.
func (x N128) Div(y N128) N128 {
	if y.IsZero() {
		panic("N128 division by zero")
	}
	q, _ := magDivMod(x, y)
	q.neg = x.neg != y.neg
	return q.norm()
}

// Rem returns x%y with the sign of x; panics on y = 0.
func (x N128) Rem(y N128) N128 {
	if y.IsZero() {
		panic("N128 division by zero")
	}
	_, r := magDivMod(x, y)
	r.neg = x.neg
	return r.norm()
}

// magDivMod divides magnitudes, returning quotient and remainder.
func magDivMod(x, y N128) (N128, N128) {
	if y.hi == 0 {
		// single-limb divisor: two-step long division
		if y.lo == 0 {
			panic("N128 division by zero")
		}
		qhi := x.hi / y.lo
		rem := x.hi % y.lo
		qlo, r := bits.Div64(rem, x.lo, y.lo)
		return N128{hi: qhi, lo: qlo}, N128{lo: r}
	}
	// two-limb divisor: shift-subtract over at most 64 positions
	if x.magCmp(y) < 0 {
		return N128{}, N128{neg: false, hi: x.hi, lo: x.lo}
	}
	shift := y.leadingZeros() - x.leadingZeros()
	d := y.shl(uint(shift))
	var q N128
	r := N128{hi: x.hi, lo: x.lo}
	for i := shift; i >= 0; i-- {
		q = q.shl(1)
		if r.magCmp(d) >= 0 {
			r = magSub(r, d)
			q.lo |= 1
		}
		d = d.shr(1)
	}
	return q, r
}

func (x N128) leadingZeros() int {
	if x.hi != 0 {
		return bits.LeadingZeros64(x.hi)
	}
	return 64 + bits.LeadingZeros64(x.lo)
}

func (x N128) shl(n uint) N128 {
	if n == 0 {
		return x
	}
	if n >= 64 {
		return N128{neg: x.neg, hi: x.lo << (n - 64)}
	}
	return N128{neg: x.neg, hi: x.hi<<n | x.lo>>(64-n), lo: x.lo << n}
}

func (x N128) shr(n uint) N128 {
	if n == 0 {
		return x
	}
	if n >= 64 {
		return N128{neg: x.neg, lo: x.hi >> (n - 64)}
	}
	return N128{neg: x.neg, hi: x.hi >> n, lo: x.lo>>n | x.hi<<(64-n)}
}

// Neg returns -x.
func (x N128) Neg() N128 {
	x.neg = !x.neg
	return x.norm()
}

// Abs returns |x|.
func (x N128) Abs() N128 {
	x.neg = false
	return x
}

// GCD returns the greatest common divisor of |x| and |y|.
func (x N128) GCD(y N128) N128 {
	a, b := x.Abs(), y.Abs()
	for !b.IsZero() {
		_, r := magDivMod(a, b)
		a, b = b, r
	}
	return a
}

// ModPow returns x^exp mod m. The 256-bit intermediate is carried in
// arbitrary precision; for m in {0,1} the result is 0.
func (x N128) ModPow(exp, m N128) N128 {
	if m.Cmp(N128FromInt64(2)) < 0 {
		return N128{}
	}
	res := x.ToArbitrary().ModPow(exp.ToArbitrary(), m.ToArbitrary())
	var z N128
	r, _ := z.FromArbitrary(res)
	return r
}

// Bit returns bit n of |x|.
func (x N128) Bit(n int) uint {
	switch {
	case n < 0 || n > 127:
		return 0
	case n >= 64:
		return uint(x.hi>>(n-64)) & 1
	}
	return uint(x.lo>>n) & 1
}

// BitLen returns the bit length of |x|.
func (x N128) BitLen() int {
	return 128 - x.leadingZeros()
}

// ToArbitrary lifts the value into arbitrary precision.
func (x N128) ToArbitrary() *arith.Int {
	v := arith.NewIntFromUint64(x.hi).Lsh(64).Add(arith.NewIntFromUint64(x.lo))
	if x.neg {
		v = v.Neg()
	}
	return v
}

// Uint32 returns the value as uint32 if representable.
func (x N128) Uint32() (uint32, bool) {
	if x.neg || x.hi != 0 || x.lo > 0xffffffff {
		return 0, false
	}
	return uint32(x.lo), true
}

// Uint64 returns the value as uint64 if representable.
func (x N128) Uint64() (uint64, bool) {
	if x.neg || x.hi != 0 {
		return 0, false
	}
	return x.lo, true
}

// String returns the decimal representation.
func (x N128) String() string {
	return x.ToArbitrary().String()
}
