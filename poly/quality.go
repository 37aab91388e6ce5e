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
	"math"

	"github.com/bfix/gnfs/arith"
)

// Metrics captures the quality of a candidate polynomial for a base m:
// smaller coefficients sieve better, and a skewness close to 1 keeps
// the two sides of the norm balanced.
type Metrics struct {
	CoeffRSS float64 // root-sum-of-squares of the coefficients
	MaxCoeff float64 // largest |coefficient|
	Skewness float64 // geometric-mean coefficient over sqrt(m)
	Score    float64 // overall: RSS + 0.1*|ln skew| (lower is better)
}

// EvaluateQuality computes the quality metrics of f at base m.
func EvaluateQuality(f *Polynomial, m *arith.Int) Metrics {
	var (
		sumSq   float64
		maxAbs  float64
		logSum  float64
		nonZero int
	)
	for _, t := range f.Terms() {
		v := approxFloat(t.Coeff.Abs())
		sumSq += v * v
		if v > maxAbs {
			maxAbs = v
		}
		if v > 0 {
			logSum += math.Log(v)
			nonZero++
		}
	}
	rss := math.Sqrt(sumSq)
	skew := 1.0
	if nonZero > 0 {
		geoMean := math.Exp(logSum / float64(nonZero))
		sqrtM := math.Sqrt(approxFloat(m))
		if sqrtM > 0 {
			skew = geoMean / sqrtM
		}
	}
	score := rss
	if skew > 0 {
		score += 0.1 * math.Abs(math.Log(skew))
	}
	return Metrics{
		CoeffRSS: rss,
		MaxCoeff: maxAbs,
		Skewness: skew,
		Score:    score,
	}
}

// approxFloat converts an Int to float64, scaling via the bit length
// for values beyond float range.
func approxFloat(v *arith.Int) float64 {
	if v.BitLen() <= 52 {
		return float64(v.Int64())
	}
	shift := v.BitLen() - 52
	head := float64(v.Rsh(uint(shift)).Int64())
	return head * math.Pow(2, float64(shift))
}
