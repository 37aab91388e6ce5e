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

package poly

import (
	"github.com/bfix/gnfs/arith"
)

///////////////////////////////////////////////////////////////////////
// Arithmetic in ℤ/p[x]

// FieldModulus reduces all coefficients modulo a prime; results are
// in [0, p).
func (p *Polynomial) FieldModulus(prime *arith.Int) *Polynomial {
	m := make(map[int]*arith.Int)
	for e, c := range p.terms {
		m[e] = c.Mod(prime)
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// ModMod reduces a polynomial modulo (modPoly, prime).
func ModMod(toReduce, modPoly *Polynomial, prime *arith.Int) *Polynomial {
	if modPoly.Degree() > toReduce.Degree() {
		return toReduce.FieldModulus(prime)
	}
	if modPoly.Equals(toReduce) {
		return Zero()
	}
	ctx := NewModulusContext(modPoly, prime)
	return ctx.Reduce(toReduce)
}

// FieldGCD computes the polynomial gcd in ℤ/p[x] with the Euclidean
// algorithm; a degree-0 result normalizes to 1.
func FieldGCD(left, right *Polynomial, prime *arith.Int) *Polynomial {
	a, b := left, right
	if b.Degree() > a.Degree() {
		a, b = b, a
	}
	for !b.IsZero() {
		a, b = b, ModMod(a, b, prime)
	}
	if a.Degree() == 0 {
		return One()
	}
	return a
}

// MulScalarMod multiplies all coefficients by a scalar modulo prime.
func (p *Polynomial) MulScalarMod(s, prime *arith.Int) *Polynomial {
	m := make(map[int]*arith.Int)
	for e, c := range p.terms {
		m[e] = c.Mul(s).Mod(prime)
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// IsIrreducibleMod checks whether f (of degree d) is irreducible over
// GF(p) for the purposes of prime selection in the square-root stage:
// gcd(x^p - x mod f, f) = 1 rejects any linear factor.
func IsIrreducibleMod(f *Polynomial, prime *arith.Int) bool {
	// x^p mod (f, p) by repeated squaring, then subtract x
	xp := ExpModBinary(X(), prime, f, prime)
	h := ModMod(xp.Sub(X()), f, prime)
	g := FieldGCD(h, f, prime)
	return g.Cmp(One()) == 0
}
