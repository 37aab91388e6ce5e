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

// Package siqs implements the self-initializing quadratic sieve for
// numbers in the 40-100 digit range: Q(x) = (ax + b)² - n with the
// leading coefficient assembled from factor-base primes and b chosen
// by Chinese remaindering so that b² ≡ n (mod a).
package siqs

import (
	"github.com/bfix/gnfs/arith"
)

// Parameters are the per-digit-class tuning knobs.
type Parameters struct {
	SmoothnessBound uint64 // B: maximum prime in the factor base
	SieveInterval   int64  // M: sieve interval width; sieving covers [-M/2, M/2], not [-M, M]
	PrimesPerA      int    // j: number of primes in the 'a' coefficient
	RelationMargin  int    // extra relations beyond factor-base size
}

// ParametersFor selects the tuning for a number size. The rows for 70+
// digits are extrapolated, not empirically tuned.
func ParametersFor(n *arith.Int) Parameters {
	d := n.DigitCount()
	switch {
	case d <= 10:
		return Parameters{100, 20000, 3, 10}
	case d <= 20:
		return Parameters{500, 100000, 3, 15}
	case d <= 30:
		return Parameters{2000, 300000, 3, 20}
	case d <= 39:
		return Parameters{5000, 550000, 4, 25}
	case d <= 44:
		return Parameters{8000, 700000, 4, 30}
	case d <= 49:
		return Parameters{15000, 1200000, 4, 40}
	case d <= 54:
		return Parameters{25000, 1800000, 4, 50}
	case d <= 59:
		return Parameters{42000, 3000000, 5, 60}
	case d <= 64:
		return Parameters{65000, 4500000, 5, 75}
	case d <= 69:
		return Parameters{100000, 7000000, 5, 100}
	case d <= 74:
		return Parameters{150000, 11000000, 5, 125}
	case d <= 79:
		return Parameters{220000, 17000000, 5, 150}
	case d <= 84:
		return Parameters{300000, 27000000, 6, 200}
	case d <= 89:
		return Parameters{425000, 42000000, 6, 250}
	case d <= 94:
		return Parameters{600000, 65000000, 6, 300}
	case d <= 99:
		return Parameters{850000, 100000000, 6, 400}
	case d == 100:
		return Parameters{1200000, 150000000, 6, 500}
	default:
		f := float64(d)
		return Parameters{
			SmoothnessBound: uint64(f * 15000),
			SieveInterval:   int64(f * f * 150000),
			PrimesPerA:      6,
			RelationMargin:  int(f * 5),
		}
	}
}

// TargetA is the optimal leading coefficient a ≈ √(2n) / M, keeping
// Q(x) near M·√n over the interval.
func (p Parameters) TargetA(n *arith.Int) *arith.Int {
	sqrt2n := n.Mul(arith.TWO).Sqrt()
	m := arith.NewInt(p.SieveInterval)
	if m.Sign() > 0 {
		return sqrt2n.Div(m)
	}
	return sqrt2n
}

// APrimeRange bounds the factor-base primes eligible for the 'a'
// coefficient: the middle of the base, away from the heavily-sieved
// small primes and the rarely-hitting large ones.
func (p Parameters) APrimeRange() (uint64, uint64) {
	lower := p.SmoothnessBound / 10
	upper := p.SmoothnessBound / 3
	return max(lower, 100), max(upper, 200)
}

// ThresholdMultiplier scales the expected log threshold per digit
// class when collecting sieve candidates.
func ThresholdMultiplier(n *arith.Int) float64 {
	switch d := n.DigitCount(); {
	case d <= 30:
		return 0.55
	case d <= 50:
		return 0.60
	case d <= 70:
		return 0.65
	default:
		return 0.70
	}
}
