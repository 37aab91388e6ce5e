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

// Package arith provides arbitrary-precision integer arithmetic for the
// factorization pipeline. Int is an immutable wrapper around math/big
// values; all operations return new instances.
package arith

import (
	"crypto/rand"
	"math/big"
)

///////////////////////////////////////////////////////////////////////
// Useful constants

var (
	// MINUS_ONE as number "-1"
	MINUS_ONE = NewInt(-1)
	// ZERO as number "0"
	ZERO = NewInt(0)
	// ONE as number "1"
	ONE = NewInt(1)
	// TWO as number "2"
	TWO = NewInt(2)
	// THREE as number "3"
	THREE = NewInt(3)
	// FOUR as number "4"
	FOUR = NewInt(4)
	// FIVE as number "5"
	FIVE = NewInt(5)
	// SEVEN as number "7"
	SEVEN = NewInt(7)
	// EIGHT as number "8"
	EIGHT = NewInt(8)
	// TEN as number "10"
	TEN = NewInt(10)
)

// Int is an integer of arbitrary size
type Int struct {
	v *big.Int
}

// NewInt returns a new Int from an intrinsic int64
func NewInt(v int64) *Int {
	return &Int{v: big.NewInt(v)}
}

// NewIntFromString converts a decimal string representation of an integer
func NewIntFromString(s string) *Int {
	v := new(big.Int)
	if err := v.UnmarshalText([]byte(s)); err != nil {
		panic(err)
	}
	return &Int{v}
}

// NewIntFromUint64 returns a new Int from an intrinsic uint64
func NewIntFromUint64(v uint64) *Int {
	return &Int{v: new(big.Int).SetUint64(v)}
}

// NewIntFromBig wraps an existing big.Int value (copied).
func NewIntFromBig(v *big.Int) *Int {
	return &Int{v: new(big.Int).Set(v)}
}

// NewIntRnd creates a new random value between [0,j[
func NewIntRnd(j *Int) *Int {
	r, err := rand.Int(rand.Reader, j.v)
	if err != nil {
		panic(err)
	}
	return &Int{v: r}
}

// NewIntRndRange returns a random integer value within given range.
func NewIntRndRange(lower, upper *Int) *Int {
	return lower.Add(NewIntRnd(upper.Sub(lower).Add(ONE)))
}

// NewIntRndPrimeBits generates a new random prime number with a given
// bitlength.
func NewIntRndPrimeBits(n int) *Int {
	r := NewIntRnd(TWO.Pow(n)).SetBit(n - 1)
	if r.Bit(0) == 0 {
		r = r.Add(ONE)
	}
	for {
		if r.ProbablyPrime(64) {
			return r
		}
		r = r.Add(TWO)
	}
}

// Big returns a copy of the underlying big.Int value.
func (i *Int) Big() *big.Int {
	return new(big.Int).Set(i.v)
}

// String converts an Int to a decimal string representation.
func (i *Int) String() string {
	return i.v.String()
}

// ProbablyPrime checks if an Int is prime. The chances this is wrong
// are less than 2^(-n).
func (i *Int) ProbablyPrime(n int) bool {
	return i.v.ProbablyPrime(n)
}

// Add two Ints
func (i *Int) Add(j *Int) *Int {
	return &Int{v: new(big.Int).Add(i.v, j.v)}
}

// Sub substracts two Ints
func (i *Int) Sub(j *Int) *Int {
	return &Int{v: new(big.Int).Sub(i.v, j.v)}
}

// Mul multiplies two Ints
func (i *Int) Mul(j *Int) *Int {
	return &Int{v: new(big.Int).Mul(i.v, j.v)}
}

// Div divides two Ints (no fraction)
func (i *Int) Div(j *Int) *Int {
	return &Int{v: new(big.Int).Quo(i.v, j.v)}
}

// DivMod returns the quotient and remainder of two Ints (truncated
// towards zero like Go's '/' and '%' operators).
func (i *Int) DivMod(j *Int) (*Int, *Int) {
	q, r := new(big.Int).QuoRem(i.v, j.v, new(big.Int))
	return &Int{v: q}, &Int{v: r}
}

// Mod returns the non-negative modulus of two Ints.
func (i *Int) Mod(j *Int) *Int {
	return &Int{v: new(big.Int).Mod(i.v, j.v)}
}

// Rem returns the remainder with the sign of the dividend.
func (i *Int) Rem(j *Int) *Int {
	return &Int{v: new(big.Int).Rem(i.v, j.v)}
}

// BitLen returns the number of bits in an Int.
func (i *Int) BitLen() int {
	return i.v.BitLen()
}

// Sign returns the sign of an Int.
func (i *Int) Sign() int {
	return i.v.Sign()
}

// ModInverse returns the multiplicative inverse of i in the ring ℤ/jℤ,
// or nil if no inverse exists.
func (i *Int) ModInverse(j *Int) *Int {
	v := new(big.Int).ModInverse(i.v, j.v)
	if v == nil {
		return nil
	}
	return &Int{v: v}
}

// Cmp returns the comparision between two Ints.
func (i *Int) Cmp(j *Int) int {
	return i.v.Cmp(j.v)
}

// Equals check if two Ints are equal.
func (i *Int) Equals(j *Int) bool {
	return i.v.Cmp(j.v) == 0
}

// IsZero checks for a zero value.
func (i *Int) IsZero() bool {
	return i.v.Sign() == 0
}

// IsOne checks for value "1".
func (i *Int) IsOne() bool {
	return i.v.Cmp(ONE.v) == 0
}

// IsEven checks for an even value.
func (i *Int) IsEven() bool {
	return i.v.Bit(0) == 0
}

// GCD return the greatest common divisor of two Ints.
func (i *Int) GCD(j *Int) *Int {
	a := new(big.Int).Abs(i.v)
	b := new(big.Int).Abs(j.v)
	return &Int{v: new(big.Int).GCD(nil, nil, a, b)}
}

// Pow raises an Int to power n.
func (i *Int) Pow(n int) *Int {
	return &Int{v: new(big.Int).Exp(i.v, big.NewInt(int64(n)), nil)}
}

// ModPow returns the modular exponentiation of an Int as (i^n mod m).
func (i *Int) ModPow(n, m *Int) *Int {
	return &Int{v: new(big.Int).Exp(i.v, n.v, m.v)}
}

// Bit returns the bit value of an Int at a given position.
func (i *Int) Bit(n int) uint {
	return i.v.Bit(n)
}

// SetBit returns a value with the bit at the given position set.
func (i *Int) SetBit(n int) *Int {
	return &Int{v: new(big.Int).SetBit(i.v, n, 1)}
}

// Rsh shifts an Int to the right by n bits.
func (i *Int) Rsh(n uint) *Int {
	return &Int{v: new(big.Int).Rsh(i.v, n)}
}

// Lsh shifts an Int to the left by n bits.
func (i *Int) Lsh(n uint) *Int {
	return &Int{v: new(big.Int).Lsh(i.v, n)}
}

// Abs returns the absolute value of an Int.
func (i *Int) Abs() *Int {
	return &Int{v: new(big.Int).Abs(i.v)}
}

// Neg returns the negative value of an Int.
func (i *Int) Neg() *Int {
	return &Int{v: new(big.Int).Neg(i.v)}
}

// Int64 returns the intrinsic int64 value of an Int.
func (i *Int) Int64() int64 {
	return i.v.Int64()
}

// IsInt64 checks if the value fits into an intrinsic int64.
func (i *Int) IsInt64() bool {
	return i.v.IsInt64()
}

// Sqrt returns the integer square root (floor) of a non-negative Int.
func (i *Int) Sqrt() *Int {
	return &Int{v: new(big.Int).Sqrt(i.v)}
}

// IsSquare checks if the value is a perfect square.
func (i *Int) IsSquare() bool {
	if i.v.Sign() < 0 {
		return false
	}
	r := new(big.Int).Sqrt(i.v)
	return new(big.Int).Mul(r, r).Cmp(i.v) == 0
}

// NthRoot computes the n.th root of an Int; if upper is set, the result
// is the smallest value with result^n >= i.
func (i *Int) NthRoot(n int, upper bool) *Int {
	if i.v.Sign() < 0 {
		panic("NthRoot of negative value")
	}
	if n == 2 && !upper {
		return i.Sqrt()
	}
	e := big.NewInt(int64(n))
	lo := big.NewInt(0)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(i.v.BitLen()/n+2))
	for lo.Cmp(hi) < 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Add(mid, big.NewInt(1)).Rsh(mid, 1)
		if new(big.Int).Exp(mid, e, nil).Cmp(i.v) <= 0 {
			lo = mid
		} else {
			hi = new(big.Int).Sub(mid, big.NewInt(1))
		}
	}
	res := &Int{v: lo}
	if upper && !res.Pow(n).Equals(i) {
		res = res.Add(ONE)
	}
	return res
}

// DigitCount returns the number of decimal digits of |i|.
func (i *Int) DigitCount() int {
	return len(i.Abs().String())
}

// ExtendedEuclid returns the factors [a,b] for i and j so that
// a*i + b*j = gcd(i,j).
func (i *Int) ExtendedEuclid(j *Int) [2]*Int {
	x, y := new(big.Int), new(big.Int)
	new(big.Int).GCD(x, y, i.v, j.v)
	return [2]*Int{{v: x}, {v: y}}
}

// Min returns the smaller of two Ints.
func Min(a, b *Int) *Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of two Ints.
func Max(a, b *Int) *Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
