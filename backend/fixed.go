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

///////////////////////////////////////////////////////////////////////
// Shared limb kernels for the fixed-width backends. All magnitudes are
// little-endian limb slices of fixed length; the sign is tracked by
// the wrapping type.

// natIsZero checks for a zero magnitude.
func natIsZero(x []uint64) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// natCmp compares magnitudes.
func natCmp(x, y []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// natAdd writes x+y to z and returns the final carry.
func natAdd(z, x, y []uint64) uint64 {
	var c uint64
	for i := range x {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// natSub writes x-y to z; x >= y is required.
func natSub(z, x, y []uint64) {
	var b uint64
	for i := range x {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
}

// natMulFull returns the full 2n-limb product of x and y.
func natMulFull(x, y []uint64) []uint64 {
	n := len(x)
	z := make([]uint64, 2*n)
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		var carry uint64
		for j, yj := range y {
			hi, lo := bits.Mul64(xi, yj)
			var c uint64
			z[i+j], c = bits.Add64(z[i+j], lo, 0)
			hi += c
			z[i+j], c = bits.Add64(z[i+j], carry, 0)
			carry = hi + c
		}
		z[i+n] += carry
	}
	return z
}

// natBitLen returns the bit length of the magnitude.
func natBitLen(x []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return 64*i + bits.Len64(x[i])
		}
	}
	return 0
}

// natShl1 shifts the magnitude left by one bit in place.
func natShl1(x []uint64) {
	var c uint64
	for i := range x {
		nc := x[i] >> 63
		x[i] = x[i]<<1 | c
		c = nc
	}
}

// natShr1 shifts the magnitude right by one bit in place.
func natShr1(x []uint64) {
	var c uint64
	for i := len(x) - 1; i >= 0; i-- {
		nc := x[i] << 63
		x[i] = x[i]>>1 | c
		c = nc
	}
}

// natDivModSmall divides the magnitude by a single-limb divisor and
// returns the remainder; the quotient is written in place. This is
// the hot path when dividing norms by factor-base primes.
func natDivModSmall(x []uint64, d uint64) uint64 {
	var rem uint64
	for i := len(x) - 1; i >= 0; i-- {
		x[i], rem = bits.Div64(rem, x[i], d)
	}
	return rem
}

// natDivMod performs a general shift-subtract division; quotient and
// remainder are written to q and r (same length as x).
func natDivMod(q, r, x, y []uint64) {
	for i := range q {
		q[i] = 0
		r[i] = x[i]
	}
	if natCmp(x, y) < 0 {
		return
	}
	shift := natBitLen(x) - natBitLen(y)
	d := make([]uint64, len(y))
	copy(d, y)
	for i := 0; i < shift; i++ {
		natShl1(d)
	}
	for i := shift; i >= 0; i-- {
		natShl1(q)
		if natCmp(r, d) >= 0 {
			natSub(r, r, d)
			q[0] |= 1
		}
		natShr1(d)
	}
}

// natToArbitrary lifts a (sign, magnitude) pair into arith.Int.
func natToArbitrary(neg bool, x []uint64) *arith.Int {
	v := arith.ZERO
	for i := len(x) - 1; i >= 0; i-- {
		v = v.Lsh(64).Add(arith.NewIntFromUint64(x[i]))
	}
	if neg {
		v = v.Neg()
	}
	return v
}

// natFromArbitrary fills a magnitude from |n|; fails if |n| does not
// fit into the available limbs.
func natFromArbitrary(x []uint64, n *arith.Int) bool {
	if n.BitLen() > 64*len(x) {
		return false
	}
	words := n.Abs().Big().Bits()
	for i := range x {
		x[i] = 0
		if i < len(words) {
			x[i] = uint64(words[i])
		}
	}
	return true
}
