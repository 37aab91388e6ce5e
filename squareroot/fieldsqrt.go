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

// Package squareroot recovers x, y with x² ≡ y² (mod N) from a matrix
// dependency: an exact rational square root over ℤ and an algebraic
// square root over number-field lifts mod p, combined by Chinese
// remaindering.
package squareroot

import (
	"github.com/bfix/gnfs/arith"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/poly"
)

// FieldSquareRoot computes √S in the field extension GF(p^d)[x]/f̂(x)
// with the Tonelli-Shanks algorithm adapted to polynomials:
//
//	q = p^d, q-1 = s·2^r with s odd. For r = 1 and q ≡ 3 (mod 4) the
//	root is S^((q+1)/4). Otherwise the accumulator ω = S^((s+1)/2) is
//	twisted by powers of a non-residue θ^s until the tracked scalar
//	λ becomes 1; the loop is bounded by r.
func FieldSquareRoot(start, f *poly.Polynomial, p *arith.Int, degree int, m *arith.Int) (*poly.Polynomial, error) {
	q := p.Pow(degree)
	s := q.Sub(arith.ONE)
	r := 0
	for s.IsEven() {
		s = s.Rsh(1)
		r++
	}
	halfS := s.Add(arith.ONE).Rsh(1)
	if r == 1 && q.Mod(arith.FOUR).Equals(arith.THREE) {
		halfS = q.Add(arith.ONE).Rsh(2)
	}

	omega := poly.WindowedExpMod(start, halfS, f, p, poly.DefaultWindowSize)
	if r == 1 && q.Mod(arith.FOUR).Equals(arith.THREE) {
		return omega, nil
	}

	theta, err := fieldNonResidue(f, p, q, m)
	if err != nil {
		return nil, err
	}

	// λ = S^s tracks the residual error; ω is twisted by powers of
	// θ^s until λ reaches 1. The loop is bounded by r.
	ctx := poly.NewModulusContext(f, p)
	one := poly.One()
	lambda := poly.WindowedExpMod(start, s, f, p, poly.DefaultWindowSize)
	c := poly.WindowedExpMod(theta, s, f, p, poly.DefaultWindowSize)
	rr := r
	for !lambda.Equals(one) {
		// least i with λ^(2^i) = 1
		i := 0
		probe := lambda
		for !probe.Equals(one) && i < rr {
			probe = ctx.MulMod(probe, probe)
			i++
		}
		if i >= rr {
			return nil, gerr.New(gerr.ErrArithmetic, "element is not a square mod %s", p)
		}
		b := c
		for k := 0; k < rr-i-1; k++ {
			b = ctx.MulMod(b, b)
		}
		omega = ctx.MulMod(omega, b)
		c = ctx.MulMod(b, b)
		lambda = ctx.MulMod(lambda, c)
		rr = i
	}
	return omega, nil
}

// fieldNonResidue finds a non-square in GF(p^d) by the Euler
// criterion. Scalar candidates from the Legendre search work for odd
// extension degrees; linear polynomials cover the rest.
func fieldNonResidue(f *poly.Polynomial, p, q, m *arith.Int) (*poly.Polynomial, error) {
	half := q.Sub(arith.ONE).Rsh(1)
	one := poly.One()
	isNonSquare := func(cand *poly.Polynomial) bool {
		return !poly.WindowedExpMod(cand, half, f, p, poly.DefaultWindowSize).Equals(one)
	}
	if theta, err := arith.LegendreSearch(m.Add(arith.ONE), p, -1); err == nil {
		cand := poly.FromTerm(theta.Mod(p), 0)
		if isNonSquare(cand) {
			return cand, nil
		}
	}
	for j := int64(0); j < 200; j++ {
		cand := poly.New(poly.NewTerm(arith.ONE, 1), poly.NewTerm(arith.NewInt(j), 0))
		if isNonSquare(cand) {
			return cand, nil
		}
	}
	return nil, gerr.New(gerr.ErrArithmetic, "no field non-residue found mod %s", p)
}
