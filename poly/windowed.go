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

//********************************************************************/
//*    PGMID.        WINDOWED POLYNOMIAL EXPONENTIATION.             */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/11/02.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.      HOT PATH OF THE SQUARE-ROOT STAGE.              */
//********************************************************************/

package poly

import (
	"github.com/bfix/gnfs/arith"
)

// DefaultWindowSize is the recommended window width for the sliding
// window scan of the exponent.
const DefaultWindowSize = 4

// ModulusContext caches reduction data for arithmetic modulo
// (modPoly, prime): the modular inverse of the leading coefficient is
// computed once and reused for every long-division step.
type ModulusContext struct {
	modPoly *Polynomial
	prime   *arith.Int
	leadInv *arith.Int
	degree  int
}

// NewModulusContext prepares a reduction context. The polynomial
// modulus must have a leading coefficient that is invertible mod p
// (always the case for a prime p and nonzero leading coefficient).
func NewModulusContext(modPoly *Polynomial, prime *arith.Int) *ModulusContext {
	d := modPoly.Degree()
	lead := modPoly.Coeff(d).Mod(prime)
	inv := arith.ONE
	if !lead.IsOne() {
		inv = lead.ModInverse(prime)
		if inv == nil {
			panic("modulus leading coefficient not invertible")
		}
	}
	return &ModulusContext{
		modPoly: modPoly,
		prime:   prime,
		leadInv: inv,
		degree:  d,
	}
}

// Reduce computes left mod (modPoly, prime) by polynomial long
// division with the cached leading-coefficient inverse, stopping when
// the remainder degree drops below the modulus degree.
func (ctx *ModulusContext) Reduce(left *Polynomial) *Polynomial {
	if ctx.degree > left.Degree() {
		return left.FieldModulus(ctx.prime)
	}
	rem := left.clone()
	coeff := func(e int) *arith.Int {
		if c, ok := rem[e]; ok {
			return c
		}
		return arith.ZERO
	}
	for i := left.Degree() - ctx.degree; i >= 0; i-- {
		quot := coeff(ctx.degree + i).Mul(ctx.leadInv).Mod(ctx.prime)
		if quot.IsZero() {
			delete(rem, ctx.degree+i)
			continue
		}
		delete(rem, ctx.degree+i)
		for e, mc := range ctx.modPoly.terms {
			if e == ctx.degree {
				continue
			}
			rem[e+i] = coeff(e + i).Sub(quot.Mul(mc)).Mod(ctx.prime)
		}
	}
	r := &Polynomial{terms: rem}
	r2 := r.FieldModulus(ctx.prime)
	return r2
}

// MulMod multiplies two polynomials and reduces the product: Karatsuba
// above the degree cutoff, schoolbook with eager coefficient reduction
// below it.
func (ctx *ModulusContext) MulMod(p1, p2 *Polynomial) *Polynomial {
	var prod *Polynomial
	if p1.Degree() >= 2 && p2.Degree() >= 2 {
		prod = karatsuba(p1, p2, ctx.prime)
	} else {
		prod = naiveMulMod(p1, p2, ctx.prime)
	}
	return ctx.Reduce(prod)
}

// WindowedExpMod computes base^exponent mod (modPoly, prime) with a
// sliding-window scan: odd powers base^1, base^3, ..., base^(2^w - 1)
// are precomputed; 0-bits square the accumulator, 1-bits consume a
// maximal window of up to w bits (an odd value by construction),
// square once per window bit and multiply by the table entry.
func WindowedExpMod(base *Polynomial, exponent *arith.Int, modPoly *Polynomial, prime *arith.Int, window int) *Polynomial {
	if exponent.IsZero() {
		return One()
	}
	if exponent.IsOne() {
		return base
	}
	if window < 1 {
		window = 1
	}
	ctx := NewModulusContext(modPoly, prime)
	table := windowTable(base, ctx, window)

	result := One()
	i := exponent.BitLen() - 1
	for i >= 0 {
		if exponent.Bit(i) == 0 {
			result = ctx.MulMod(result, result)
			i--
			continue
		}
		value, length := extractWindow(exponent, i, window)
		for k := 0; k < length; k++ {
			result = ctx.MulMod(result, result)
		}
		result = ctx.MulMod(result, table[value>>1])
		i -= length
	}
	return result
}

// windowTable precomputes [base^1, base^3, ..., base^(2^w - 1)], all
// reduced by the context.
func windowTable(base *Polynomial, ctx *ModulusContext, window int) []*Polynomial {
	size := 1 << (window - 1)
	table := make([]*Polynomial, 0, size)
	b := ctx.Reduce(base)
	table = append(table, b)
	if size == 1 {
		return table
	}
	squared := ctx.MulMod(b, b)
	for i := 1; i < size; i++ {
		table = append(table, ctx.MulMod(table[i-1], squared))
	}
	return table
}

// extractWindow reads a window of up to max bits starting at bit
// position start (inclusive, scanning towards the LSB): the maximal
// run of consecutive 1-bits, stopping at the first 0-bit. An all-ones
// run reads the same in either bit order, so the value is exact and
// always odd. The returned length is at least 1.
func extractWindow(exponent *arith.Int, start, max int) (uint, int) {
	var value uint
	length := 0
	for offset := 0; offset < max; offset++ {
		pos := start - offset
		if pos < 0 || exponent.Bit(pos) == 0 {
			break
		}
		value |= 1 << offset
		length = offset + 1
	}
	if length == 0 {
		length = 1
	}
	return value, length
}

// ExpModBinary is the square-and-multiply reference the windowed
// kernel must agree with.
func ExpModBinary(base *Polynomial, exponent *arith.Int, modPoly *Polynomial, prime *arith.Int) *Polynomial {
	result := One()
	if exponent.IsZero() {
		return result
	}
	ctx := NewModulusContext(modPoly, prime)
	b := ctx.Reduce(base)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result = ctx.MulMod(result, result)
		if exponent.Bit(i) == 1 {
			result = ctx.MulMod(result, b)
		}
	}
	return result
}

// naiveMulMod is the schoolbook product with eager coefficient
// reduction; intermediates never exceed p².
func naiveMulMod(p1, p2 *Polynomial, prime *arith.Int) *Polynomial {
	m := make(map[int]*arith.Int)
	for e1, c1 := range p1.terms {
		for e2, c2 := range p2.terms {
			e := e1 + e2
			prod := c1.Mul(c2).Mod(prime)
			if old, ok := m[e]; ok {
				m[e] = old.Add(prod).Mod(prime)
			} else {
				m[e] = prod
			}
		}
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// karatsuba is the divide-and-conquer product with three recursive
// multiplications per split; when prime is non-nil all coefficients
// are reduced eagerly.
func karatsuba(p1, p2 *Polynomial, prime *arith.Int) *Polynomial {
	if p1.Degree() <= 1 || p2.Degree() <= 1 {
		if prime != nil {
			return naiveMulMod(p1, p2, prime)
		}
		return p1.MulNaive(p2)
	}
	mid := (p1.Degree() + p2.Degree()) / 4
	if mid < 1 {
		mid = 1
	}
	p1lo, p1hi := split(p1, mid)
	p2lo, p2hi := split(p2, mid)

	z0 := karatsuba(p1lo, p2lo, prime)
	z2 := karatsuba(p1hi, p2hi, prime)
	z1 := karatsuba(p1lo.Add(p1hi), p2lo.Add(p2hi), prime).Sub(z0).Sub(z2)

	res := z0.Add(shift(z1, mid)).Add(shift(z2, 2*mid))
	if prime != nil {
		res = res.FieldModulus(prime)
	}
	return res
}

// split divides p at the given degree: p = lo + x^mid * hi.
func split(p *Polynomial, mid int) (*Polynomial, *Polynomial) {
	lo := make(map[int]*arith.Int)
	hi := make(map[int]*arith.Int)
	for e, c := range p.terms {
		if e < mid {
			lo[e] = c
		} else {
			hi[e-mid] = c
		}
	}
	return &Polynomial{terms: lo}, &Polynomial{terms: hi}
}

// shift multiplies by x^n.
func shift(p *Polynomial, n int) *Polynomial {
	m := make(map[int]*arith.Int, len(p.terms))
	for e, c := range p.terms {
		m[e+n] = c
	}
	return &Polynomial{terms: m}
}
