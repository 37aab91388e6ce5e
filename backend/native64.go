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
	"math"
	"math/bits"
	"strconv"

	"github.com/bfix/gnfs/arith"
)

// N64 is the 63-bit signed backend: a plain int64 with 128-bit
// intermediates for multiplication and modular exponentiation.
type N64 struct {
	v int64
}

// N64FromInt64 wraps an intrinsic value.
func N64FromInt64(v int64) N64 {
	return N64{v: v}
}

// FromArbitrary converts an arbitrary-precision value if it fits.
func (N64) FromArbitrary(n *arith.Int) (N64, bool) {
	if !n.IsInt64() {
		return N64{}, false
	}
	return N64{v: n.Int64()}, true
}

// FromInt64 wraps an intrinsic value.
func (N64) FromInt64(v int64) N64 {
	return N64{v: v}
}

// Cmp compares two values.
func (x N64) Cmp(y N64) int {
	switch {
	case x.v < y.v:
		return -1
	case x.v > y.v:
		return 1
	}
	return 0
}

// Sign returns -1, 0 or 1.
func (x N64) Sign() int {
	switch {
	case x.v < 0:
		return -1
	case x.v > 0:
		return 1
	}
	return 0
}

// IsZero checks for a zero value.
func (x N64) IsZero() bool { return x.v == 0 }

// IsOne checks for value "1".
func (x N64) IsOne() bool { return x.v == 1 }

// IsEven checks for an even value.
func (x N64) IsEven() bool { return x.v&1 == 0 }

// Add returns x+y; panics on overflow.
func (x N64) Add(y N64) N64 {
	r, ok := x.CheckedAdd(y)
	if !ok {
		panic("N64 add overflow")
	}
	return r
}

// Sub returns x-y; panics on overflow.
func (x N64) Sub(y N64) N64 {
	r, ok := x.CheckedSub(y)
	if !ok {
		panic("N64 sub overflow")
	}
	return r
}

// Mul returns x*y; panics on overflow.
func (x N64) Mul(y N64) N64 {
	r, ok := x.CheckedMul(y)
	if !ok {
		panic("N64 mul overflow")
	}
	return r
}

// Div returns the quotient x/y (truncated); panics on y = 0.
func (x N64) Div(y N64) N64 {
	return N64{v: x.v / y.v}
}

// Rem returns the remainder x%y; panics on y = 0.
func (x N64) Rem(y N64) N64 {
	return N64{v: x.v % y.v}
}

// Neg returns -x.
func (x N64) Neg() N64 {
	if x.v == math.MinInt64 {
		panic("N64 negation overflow")
	}
	return N64{v: -x.v}
}

// Abs returns |x|.
func (x N64) Abs() N64 {
	if x.v < 0 {
		return x.Neg()
	}
	return x
}

// CheckedAdd returns x+y and an in-range indicator.
func (x N64) CheckedAdd(y N64) (N64, bool) {
	r := x.v + y.v
	if (x.v > 0 && y.v > 0 && r < 0) || (x.v < 0 && y.v < 0 && r >= 0) {
		return N64{}, false
	}
	return N64{v: r}, true
}

// CheckedSub returns x-y and an in-range indicator.
func (x N64) CheckedSub(y N64) (N64, bool) {
	r := x.v - y.v
	if (x.v >= 0 && y.v < 0 && r < 0) || (x.v < 0 && y.v > 0 && r >= 0) {
		return N64{}, false
	}
	return N64{v: r}, true
}

// CheckedMul returns x*y and an in-range indicator.
func (x N64) CheckedMul(y N64) (N64, bool) {
	if x.v == 0 || y.v == 0 {
		return N64{}, true
	}
	neg := (x.v < 0) != (y.v < 0)
	xa, ya := absU64(x.v), absU64(y.v)
	hi, lo := bits.Mul64(xa, ya)
	if hi != 0 || (neg && lo > 1<<63) || (!neg && lo > math.MaxInt64) {
		return N64{}, false
	}
	if neg {
		return N64{v: -int64(lo)}, true
	}
	return N64{v: int64(lo)}, true
}

// CheckedDiv returns x/y, failing on y = 0.
func (x N64) CheckedDiv(y N64) (N64, bool) {
	if y.v == 0 {
		return N64{}, false
	}
	return N64{v: x.v / y.v}, true
}

// GCD returns the greatest common divisor of |x| and |y|.
func (x N64) GCD(y N64) N64 {
	a, b := absU64(x.v), absU64(y.v)
	for b != 0 {
		a, b = b, a%b
	}
	return N64{v: int64(a)}
}

// ModPow returns x^exp mod m using square-and-multiply with a 128-bit
// intermediate. Results follow the common convention m >= 2; for
// m in {0,1} the result is 0.
func (x N64) ModPow(exp, m N64) N64 {
	if m.v <= 1 {
		return N64{}
	}
	mod := uint64(m.v)
	base := uint64(x.Abs().v) % mod
	// odd exponent of a negative base flips the sign of the residue
	negRes := x.v < 0 && exp.v&1 == 1
	res := uint64(1)
	e := uint64(exp.v)
	for e > 0 {
		if e&1 == 1 {
			res = mulmod64(res, base, mod)
		}
		base = mulmod64(base, base, mod)
		e >>= 1
	}
	if negRes && res != 0 {
		res = mod - res
	}
	return N64{v: int64(res)}
}

// Bit returns bit n of |x|.
func (x N64) Bit(n int) uint {
	if n < 0 || n > 63 {
		return 0
	}
	return uint(absU64(x.v)>>n) & 1
}

// BitLen returns the bit length of |x|.
func (x N64) BitLen() int {
	return bits.Len64(absU64(x.v))
}

// ToArbitrary lifts the value into arbitrary precision.
func (x N64) ToArbitrary() *arith.Int {
	return arith.NewInt(x.v)
}

// Uint32 returns the value as uint32 if representable.
func (x N64) Uint32() (uint32, bool) {
	if x.v < 0 || x.v > math.MaxUint32 {
		return 0, false
	}
	return uint32(x.v), true
}

// Uint64 returns the value as uint64 if representable.
func (x N64) Uint64() (uint64, bool) {
	if x.v < 0 {
		return 0, false
	}
	return uint64(x.v), true
}

// String returns the decimal representation.
func (x N64) String() string {
	return strconv.FormatInt(x.v, 10)
}

///////////////////////////////////////////////////////////////////////
// helpers

// absU64 returns |v| as unsigned (valid for MinInt64 too).
func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

// mulmod64 computes a*b mod m without overflowing 64 bits.
func mulmod64(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo % m
	}
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}
