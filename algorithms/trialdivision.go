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

// Package algorithms bundles the alternate factorization algorithms
// (trial division, Pollard rho, SIQS) and the dispatcher that routes
// by digit count.
package algorithms

import (
	"github.com/bfix/gnfs/arith"
)

// TrialDivision checks candidate divisors 2, 3, 5, ... up to
// min(⌊√n⌋, limit) and returns the first factor pair found; a prime n
// yields no result rather than (1, n). A limit of 0 means ⌊√n⌋.
func TrialDivision(n *arith.Int, limit uint64) (*arith.Int, *arith.Int, bool) {
	if n.Cmp(arith.ONE) <= 0 {
		return nil, nil, false
	}
	if n.IsEven() {
		return arith.TWO, n.Rsh(1), true
	}
	bound := n.Sqrt()
	if limit > 0 {
		bound = arith.Min(bound, arith.NewIntFromUint64(limit))
	}
	if bound.IsInt64() {
		// fast path on intrinsic arithmetic
		if nv, ok := asUint64(n); ok {
			b := uint64(bound.Int64())
			for d := uint64(3); d <= b; d += 2 {
				if nv%d == 0 {
					return arith.NewIntFromUint64(d), arith.NewIntFromUint64(nv / d), true
				}
			}
			return nil, nil, false
		}
		b := bound.Int64()
		for d := int64(3); d <= b; d += 2 {
			dv := arith.NewInt(d)
			if n.Mod(dv).IsZero() {
				return dv, n.Div(dv), true
			}
		}
		return nil, nil, false
	}
	d := arith.THREE
	for d.Cmp(bound) <= 0 {
		if n.Mod(d).IsZero() {
			return d, n.Div(d), true
		}
		d = d.Add(arith.TWO)
	}
	return nil, nil, false
}

// CompleteFactorization decomposes n into all prime factors (with
// multiplicity, ascending) by trial division; the final quotient is
// included as-is when it exceeds the bound.
func CompleteFactorization(n *arith.Int, limit uint64) []*arith.Int {
	if n.Cmp(arith.ONE) <= 0 {
		return nil
	}
	var factors []*arith.Int
	rem := n
	for rem.IsEven() {
		factors = append(factors, arith.TWO)
		rem = rem.Rsh(1)
	}
	bound := rem.Sqrt()
	if limit > 0 {
		bound = arith.Min(bound, arith.NewIntFromUint64(limit))
	}
	d := arith.THREE
	for d.Cmp(bound) <= 0 && rem.Cmp(arith.ONE) > 0 {
		for rem.Mod(d).IsZero() {
			factors = append(factors, d)
			rem = rem.Div(d)
		}
		d = d.Add(arith.TWO)
	}
	if rem.Cmp(arith.ONE) > 0 {
		factors = append(factors, rem)
	}
	return factors
}

// asUint64 extracts an intrinsic value if n fits.
func asUint64(n *arith.Int) (uint64, bool) {
	if n.Sign() < 0 || n.BitLen() > 64 {
		return 0, false
	}
	return n.Big().Uint64(), true
}
