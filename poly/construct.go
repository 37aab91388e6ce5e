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
// Polynomial selection: base-m expansion of N with a quality-driven
// search over candidate bases.

// ForBase constructs the degree-d polynomial with f(m) = n by base-m
// expansion of n; the coefficients are the base-m digits.
func ForBase(n, m *arith.Int, degree int) *Polynomial {
	terms := make([]Term, 0, degree+1)
	rem := n
	for e := 0; e <= degree && !rem.IsZero(); e++ {
		var digit *arith.Int
		rem, digit = rem.DivMod(m)
		terms = append(terms, NewTerm(digit, e))
	}
	return New(terms...)
}

// SuggestDegree picks the default polynomial degree by digit count.
func SuggestDegree(n *arith.Int) int {
	switch d := n.DigitCount(); {
	case d < 65:
		return 3
	case d < 125:
		return 4
	case d < 225:
		return 5
	case d < 315:
		return 6
	default:
		return 7
	}
}

// searchWindow bounds the candidate-base search around the d.th root;
// larger numbers use a narrower window.
func searchWindow(n *arith.Int) int64 {
	switch d := n.DigitCount(); {
	case d <= 10:
		return 50
	case d <= 20:
		return 25
	case d <= 40:
		return 10
	default:
		return 5
	}
}

// FindOptimalBase searches candidate bases around n^(1/d) and returns
// the polynomial/base pair with the best quality score. Candidates
// whose expansion does not reproduce n at the base are skipped.
func FindOptimalBase(n *arith.Int, degree int) (*Polynomial, *arith.Int, Metrics) {
	center := n.NthRoot(degree, false)
	window := searchWindow(n)

	var (
		bestPoly *Polynomial
		bestBase *arith.Int
		bestQ    Metrics
	)
	for off := -window; off <= window; off++ {
		m := center.Add(arith.NewInt(off))
		if m.Cmp(arith.TWO) < 0 {
			continue
		}
		f := ForBase(n, m, degree)
		if f.Degree() != degree || !f.Evaluate(m).Equals(n) {
			continue
		}
		q := EvaluateQuality(f, m)
		if bestPoly == nil || q.Score < bestQ.Score {
			bestPoly, bestBase, bestQ = f, m, q
		}
	}
	if bestPoly == nil {
		// fall back to the exact root expansion
		bestBase = center
		bestPoly = ForBase(n, bestBase, degree)
		bestQ = EvaluateQuality(bestPoly, bestBase)
	}
	return bestPoly, bestBase, bestQ
}
