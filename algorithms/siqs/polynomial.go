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

package siqs

import (
	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/logger"
)

// Polynomial is one sieving polynomial Q(x) = (ax + b)² - n.
type Polynomial struct {
	A        *arith.Int   // leading coefficient (product of j primes)
	B        *arith.Int   // linear coefficient from the CRT
	C        *arith.Int   // constant term (b² - n) / a
	AFactors []uint64     // prime factors of a
	BArray   []*arith.Int // B[i] values for fast polynomial switching
}

// Evaluate computes Q(x) = (ax + b)² - n.
func (p *Polynomial) Evaluate(x int64, n *arith.Int) *arith.Int {
	inner := p.Inner(x)
	return inner.Mul(inner).Sub(n)
}

// Inner computes ax + b.
func (p *Polynomial) Inner(x int64) *arith.Int {
	return p.A.Mul(arith.NewInt(x)).Add(p.B)
}

// GeneratePolynomial assembles a new sieving polynomial: j primes
// q_i with ∏q_i close to the target are picked from the middle of the
// factor base; each contributes B[i] = (a/q_i)·γ_i with γ_i chosen so
// that b = ΣB[i] satisfies b² ≡ n (mod a). When the factor base has
// too few usable primes (tiny n), the monic fallback a = 1,
// b = ⌈√n⌉ degrades to the classic single-polynomial sieve.
func GeneratePolynomial(n *arith.Int, fb []*Prime, params Parameters, targetA *arith.Int, exclude map[uint64]bool) *Polynomial {
	j := params.PrimesPerA
	selected := selectAPrimes(fb, params, targetA, j, exclude)
	if len(selected) < j || targetA.Cmp(arith.TWO) < 0 {
		return monicFallback(n)
	}

	a := arith.ONE
	factors := make([]uint64, 0, j)
	for _, pr := range selected {
		a = a.Mul(arith.NewIntFromUint64(pr.P))
		factors = append(factors, pr.P)
	}

	bArray := make([]*arith.Int, 0, j)
	for _, pr := range selected {
		qi := arith.NewIntFromUint64(pr.P)
		aDivQi := a.Div(qi)
		inv := aDivQi.ModInverse(qi)
		if inv == nil {
			return nil
		}
		gamma := arith.NewInt(pr.TSqrt).Mul(inv).Mod(qi)
		if gamma.Cmp(qi.Rsh(1)) > 0 {
			gamma = qi.Sub(gamma)
		}
		bArray = append(bArray, aDivQi.Mul(gamma))
	}
	b := arith.ZERO
	for _, bi := range bArray {
		b = b.Add(bi)
	}

	// verify b² ≡ n (mod a)
	if !b.Mul(b).Mod(a).Equals(n.Mod(a)) {
		logger.Logger().Debug().Msg("polynomial generation failed: b² ≢ n (mod a)")
		return nil
	}
	diff := b.Mul(b).Sub(n)
	c, rem := diff.DivMod(a)
	if !rem.IsZero() {
		return nil
	}
	return &Polynomial{A: a, B: b, C: c, AFactors: factors, BArray: bArray}
}

// monicFallback is the classic quadratic sieve polynomial
// Q(x) = (x + ⌈√n⌉)² - n.
func monicFallback(n *arith.Int) *Polynomial {
	b := n.NthRoot(2, true)
	return &Polynomial{
		A: arith.ONE,
		B: b,
		C: b.Mul(b).Sub(n),
	}
}

// selectAPrimes greedily picks j primes from the middle band of the
// factor base whose product lands closest to the target.
func selectAPrimes(fb []*Prime, params Parameters, targetA *arith.Int, j int, exclude map[uint64]bool) []*Prime {
	lo, hi := params.APrimeRange()
	var candidates []*Prime
	for _, pr := range fb {
		if pr.P >= lo && pr.P <= hi && !exclude[pr.P] {
			candidates = append(candidates, pr)
		}
	}
	if len(candidates) < j {
		return nil
	}
	used := make(map[int]bool)
	product := arith.ONE
	var selected []*Prime
	for k := 0; k < j; k++ {
		bestIdx := -1
		var bestDist *arith.Int
		for idx, pr := range candidates {
			if used[idx] {
				continue
			}
			np := product.Mul(arith.NewIntFromUint64(pr.P))
			dist := np.Sub(targetA).Abs()
			if bestIdx < 0 || dist.Cmp(bestDist) < 0 {
				bestIdx, bestDist = idx, dist
			}
		}
		used[bestIdx] = true
		selected = append(selected, candidates[bestIdx])
		product = product.Mul(arith.NewIntFromUint64(candidates[bestIdx].P))
	}
	return selected
}
