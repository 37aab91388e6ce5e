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
//*    PGMID.        POLLARD RHO ALGORITHM.                          */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/09/28.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package algorithms

import (
	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/logger"
)

// polynomial constants tried in order when a cycle yields no factor
var rhoConstants = []int64{1, 2, 3, 5, 7}

// PollardRho factors n with Floyd cycle detection on the sequence
// x_{k+1} = x_k² + c mod n, iterating c over {1, 2, 3, 5, 7}.
// Returns false if every c reaches the iteration cap.
func PollardRho(n *arith.Int, maxIterations int) (*arith.Int, *arith.Int, bool) {
	if n.Cmp(arith.ONE) <= 0 {
		return nil, nil, false
	}
	if n.IsEven() {
		return arith.TWO, n.Rsh(1), true
	}
	for _, c := range rhoConstants {
		if p, q, ok := rhoFloyd(n, maxIterations, arith.NewInt(c)); ok {
			return p, q, true
		}
	}
	return nil, nil, false
}

// rhoFloyd runs tortoise-and-hare with a fixed constant.
func rhoFloyd(n *arith.Int, maxIterations int, c *arith.Int) (*arith.Int, *arith.Int, bool) {
	step := func(v *arith.Int) *arith.Int {
		return v.Mul(v).Add(c).Mod(n)
	}
	x := arith.TWO
	y := arith.TWO
	d := arith.ONE
	for iter := 0; d.IsOne() && iter < maxIterations; iter++ {
		x = step(x)
		y = step(step(y))
		d = n.GCD(x.Sub(y).Abs())
	}
	return rhoResult(n, d, c)
}

// PollardRhoBrent is Brent's cycle-detection variant with batched
// gcd computation, typically ~25% faster than Floyd.
func PollardRhoBrent(n *arith.Int, maxIterations int) (*arith.Int, *arith.Int, bool) {
	if n.Cmp(arith.ONE) <= 0 {
		return nil, nil, false
	}
	if n.IsEven() {
		return arith.TWO, n.Rsh(1), true
	}
	for _, c := range rhoConstants {
		if p, q, ok := rhoBrent(n, maxIterations, arith.NewInt(c)); ok {
			return p, q, true
		}
	}
	return nil, nil, false
}

// rhoBrent batches the |x-y| products over blocks of 128 steps and
// takes a single gcd per block; on a hit it backtracks to isolate the
// factor.
func rhoBrent(n *arith.Int, maxIterations int, c *arith.Int) (*arith.Int, *arith.Int, bool) {
	const batch = 128
	step := func(v *arith.Int) *arith.Int {
		return v.Mul(v).Add(c).Mod(n)
	}
	y := arith.TWO
	d := arith.ONE
	var x, ys *arith.Int
	r := 1
	iters := 0
	for d.IsOne() && iters < maxIterations {
		x = y
		for i := 0; i < r; i++ {
			y = step(y)
		}
		for k := 0; k < r && d.IsOne() && iters < maxIterations; k += batch {
			ys = y
			prod := arith.ONE
			for i := 0; i < min(batch, r-k); i++ {
				y = step(y)
				prod = prod.Mul(x.Sub(y).Abs()).Mod(n)
				iters++
			}
			d = n.GCD(prod)
		}
		r *= 2
	}
	if d.Equals(n) {
		// batched gcd overshot; backtrack step-by-step
		d = arith.ONE
		for d.IsOne() {
			ys = step(ys)
			d = n.GCD(x.Sub(ys).Abs())
		}
	}
	return rhoResult(n, d, c)
}

// rhoResult validates a candidate divisor.
func rhoResult(n, d, c *arith.Int) (*arith.Int, *arith.Int, bool) {
	if d.Cmp(arith.ONE) > 0 && d.Cmp(n) < 0 {
		q := n.Div(d)
		logger.Logger().Debug().
			Str("c", c.String()).
			Str("factor", d.String()).
			Msg("pollard rho hit")
		if d.Cmp(q) <= 0 {
			return d, q, true
		}
		return q, d, true
	}
	return nil, nil, false
}
