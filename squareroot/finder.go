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
//*    PGMID.        ALGEBRAIC SQUARE FINDER.                        */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/11/19.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package squareroot

import (
	"context"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
)

// DefaultAttempts bounds the prime-set retries per dependency.
const DefaultAttempts = 7

// Finder consumes a dependency set and recovers a congruence of
// squares. The polynomial data is frozen at construction; dependency
// sets are fed through the two Calculate stages.
type Finder[T backend.Num[T]] struct {
	N        *arith.Int
	Base     *arith.Int       // polynomial base m
	F        *poly.Polynomial // working polynomial
	Monic    *poly.Polynomial // monic lift f̂ with f̂(m) = f(m)
	Attempts int              // prime-set retries per dependency

	derivValue  *arith.Int       // f'(m)
	monicDeriv  *poly.Polynomial // f̂'
	monicDeriv2 *poly.Polynomial // f̂'²

	// results of the two stages
	RationalResidue  *arith.Int // χ = f'(m)·√Πᵣ mod N
	AlgebraicResidue *arith.Int // γ from CRT over the prime lifts
	AlgebraicPrimes  []*arith.Int
	AlgebraicValues  []*arith.Int

	startPrime *arith.Int // next candidate for the prime search
}

// NewFinder prepares the polynomial machinery for a GNFS instance.
// The prime search for the algebraic side starts above the given
// floor (the largest quadratic-character prime).
func NewFinder[T backend.Num[T]](n, base *arith.Int, f *poly.Polynomial, primeFloor *arith.Int) *Finder[T] {
	monic := f.MakeMonic(base)
	monicDeriv := monic.Derivative()
	return &Finder[T]{
		N:           n,
		Base:        base,
		F:           f,
		Monic:       monic,
		Attempts:    DefaultAttempts,
		derivValue:  f.Derivative().Evaluate(base),
		monicDeriv:  monicDeriv,
		monicDeriv2: monicDeriv.Square(),
		startPrime:  primeFloor,
	}
}

// CalculateRationalSide computes χ = f'(m)·√Πᵣ mod N. The product of
// the rational norms must be a perfect square by construction; if it
// is not, the dependency is invalid and is rejected before any gcd is
// attempted.
func (sf *Finder[T]) CalculateRationalSide(rels []*relation.Relation[T]) error {
	prod := arith.ONE
	for _, rel := range rels {
		prod = prod.Mul(rel.RationalNorm.ToArbitrary())
	}
	if !prod.IsSquare() {
		return gerr.New(gerr.ErrArithmetic, "rational dependency product is not a square")
	}
	root := prod.Sqrt()
	sf.RationalResidue = sf.derivValue.Mul(root).Mod(sf.N)
	logger.Logger().Debug().
		Str("chi", sf.RationalResidue.String()).
		Msg("rational square root")
	return nil
}

// CalculateAlgebraicSide forms S = ∏(a + b·θ)·f̂'(θ)² mod f̂, lifts its
// square root modulo enough irreducible primes to cover N, combines
// the evaluations at m by Chinese remaindering and extracts factors
// from gcd(N, χ ± γ). On exhausted attempts ErrNoFactor is returned.
func (sf *Finder[T]) CalculateAlgebraicSide(ctx context.Context, rels []*relation.Relation[T]) (*arith.Int, *arith.Int, error) {
	log := logger.Logger()
	degree := sf.Monic.Degree()

	// S = ∏ (a_i + b_i·θ) · f̂'(θ)², reduced mod f̂
	elements := make([]*poly.Polynomial, 0, len(rels))
	for _, rel := range rels {
		elements = append(elements, poly.New(
			poly.NewTerm(rel.B.ToArbitrary(), 1),
			poly.NewTerm(rel.A.ToArbitrary(), 0),
		))
	}
	ring := poly.Product(elements)
	totalS := ring.Mul(sf.monicDeriv2)

	lastP := sf.startPrime
	for attempt := 0; attempt < sf.Attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, nil, gerr.New(gerr.ErrCancelled, "algebraic square root")
		default:
		}

		// collect irreducible primes until their product covers N
		var (
			pset []*arith.Int
			prod = arith.ONE
		)
		for len(pset) < degree || prod.Cmp(sf.N) < 0 {
			select {
			case <-ctx.Done():
				return nil, nil, gerr.New(gerr.ErrCancelled, "prime search")
			default:
			}
			lastP = primes.NextPrime(lastP)
			if !poly.IsIrreducibleMod(sf.Monic, lastP) {
				continue
			}
			pset = append(pset, lastP)
			prod = prod.Mul(lastP)
		}

		// per-prime square roots, evaluated at m
		values := make([]*arith.Int, 0, len(pset))
		ok := true
		for _, p := range pset {
			sp := poly.ModMod(totalS, sf.Monic, p)
			sigma, err := FieldSquareRoot(sp, sf.Monic, p, degree, sf.Base)
			if err != nil {
				ok = false
				break
			}
			y := sigma.Evaluate(sf.Base).Mod(p)
			values = append(values, y)
			log.Debug().
				Str("p", p.String()).
				Str("y", y.String()).
				Msg("algebraic lift")
		}
		if !ok {
			continue
		}

		gamma, err := arith.CRT(pset, values)
		if err != nil {
			continue
		}
		gamma = gamma.Mod(sf.N)
		sf.AlgebraicResidue = gamma
		sf.AlgebraicPrimes = pset
		sf.AlgebraicValues = values

		// factor extraction from the congruence of squares
		lo := arith.Min(sf.RationalResidue, gamma)
		hi := arith.Max(sf.RationalResidue, gamma)
		u := sf.N.GCD(hi.Add(lo))
		v := sf.N.GCD(hi.Sub(lo))

		var p *arith.Int
		switch {
		case u.Cmp(arith.ONE) > 0 && u.Cmp(sf.N) < 0:
			p = u
		case v.Cmp(arith.ONE) > 0 && v.Cmp(sf.N) < 0:
			p = v
		}
		if p != nil {
			q, rem := sf.N.DivMod(p)
			if rem.IsZero() {
				if p.Cmp(q) > 0 {
					p, q = q, p
				}
				return p, q, nil
			}
		}
		log.Debug().Int("attempt", attempt+1).Msg("trivial gcd, retrying with new primes")
	}
	return nil, nil, gerr.New(gerr.ErrNoFactor, "all prime-set attempts exhausted")
}
