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
//*    PGMID.        FACTOR BASE CONSTRUCTION.                       */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/09/21.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

// Package factorbase builds the three ordered prime bases of the
// number field sieve: rational pairs (p, m mod p), algebraic and
// quadratic pairs (p, r) with f(r) ≡ 0 (mod p).
package factorbase

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/primes"
)

// Pair is a factor-base entry (p, r): for the rational base r is
// m mod p; for the algebraic and quadratic bases f(r) ≡ 0 (mod p).
type Pair struct {
	P int64 `json:"p"`
	R int64 `json:"r"`
}

// String formats a pair.
func (fp Pair) String() string {
	return fmt.Sprintf("(%d,%d)", fp.P, fp.R)
}

// Collection is an ordered list of factor pairs (by p ascending, then
// r ascending).
type Collection []Pair

// Last returns the final pair of the collection.
func (c Collection) Last() Pair {
	return c[len(c)-1]
}

// Primes returns the distinct primes of the collection, in order.
func (c Collection) Primes() []int64 {
	var res []int64
	for _, fp := range c {
		if len(res) == 0 || res[len(res)-1] != fp.P {
			res = append(res, fp.P)
		}
	}
	return res
}

// Bounds holds the derived factor-base limits for a GNFS run.
type Bounds struct {
	RationalMax  *arith.Int `json:"rationalFactorBaseMax"`
	AlgebraicMax *arith.Int `json:"algebraicFactorBaseMax"`
	QuadraticMin *arith.Int `json:"quadraticFactorBaseMin"`
	QuadraticMax *arith.Int `json:"quadraticFactorBaseMax"`
	QuadraticCnt int        `json:"quadraticBaseCount"`
}

// quadraticBaseSize depends only on the polynomial degree.
func quadraticBaseSize(degree int) int {
	switch {
	case degree <= 3:
		return 10
	case degree == 4:
		return 20
	case degree == 5, degree == 6:
		return 40
	case degree == 7:
		return 80
	default:
		return 100
	}
}

// NewBounds derives all factor-base limits from the rational bound and
// the polynomial degree: the algebraic bound is three times the
// rational one, the quadratic base starts just above it and its extent
// follows from the approximate prime-index formula.
func NewBounds(rationalBound *arith.Int, degree int) *Bounds {
	b := &Bounds{
		RationalMax:  rationalBound,
		AlgebraicMax: rationalBound.Mul(arith.THREE),
		QuadraticCnt: quadraticBaseSize(degree),
	}
	b.QuadraticMin = b.AlgebraicMax.Add(arith.NewInt(20))
	idx := uint64(b.QuadraticMin.Int64()) + uint64(b.QuadraticCnt)
	b.QuadraticMax = arith.NewIntFromUint64(primes.ApproxNthPrime(idx))
	return b
}

// DefaultPrimeBound approximates a usable rational factor-base bound
// from the size of n.
func DefaultPrimeBound(n *arith.Int) *arith.Int {
	switch d := n.DigitCount(); {
	case d <= 10:
		return arith.NewInt(100)
	case d <= 18:
		return arith.NewInt(int64(d) * 1000)
	case d <= 100:
		return arith.NewInt(100000)
	case d <= 150:
		return arith.NewInt(250000)
	case d <= 200:
		return arith.NewInt(125000000)
	default:
		return arith.NewInt(250000000)
	}
}

// BuildRational returns the rational base: (p, m mod p) for all primes
// p <= the rational bound.
func BuildRational(m *arith.Int, bounds *Bounds) Collection {
	list := primes.Range(2, uint64(bounds.RationalMax.Int64()))
	res := make(Collection, 0, len(list))
	for _, p := range list {
		pi := arith.NewIntFromUint64(p)
		res = append(res, Pair{P: int64(p), R: m.Mod(pi).Int64()})
	}
	return res
}

// BuildAlgebraic returns the algebraic base: pairs (p, r) with
// f(r) ≡ 0 (mod p) for primes up to the algebraic bound. Root search
// is fanned out over the worker pool; the generator is cancellable and
// the result deterministic.
func BuildAlgebraic(ctx context.Context, f *poly.Polynomial, bounds *Bounds) (Collection, error) {
	list := primes.Range(2, uint64(bounds.AlgebraicMax.Int64()))
	return findRoots(ctx, f, list, 0)
}

// BuildQuadratic returns the quadratic-character base: pairs (p, r)
// with f(r) ≡ 0 (mod p), p >= the quadratic minimum, capped at the
// configured count.
func BuildQuadratic(ctx context.Context, f *poly.Polynomial, bounds *Bounds) (Collection, error) {
	list := primes.Range(uint64(bounds.QuadraticMin.Int64()), uint64(bounds.QuadraticMax.Int64()))
	res, err := findRoots(ctx, f, list, 0)
	if err != nil {
		return nil, err
	}
	if len(res) > bounds.QuadraticCnt {
		res = res[:bounds.QuadraticCnt]
	}
	return res, nil
}

// findRoots collects all (p, r) with f(r) ≡ 0 (mod p), scanning the
// residues of each prime. Work is partitioned across workers; the
// merged result is sorted so the outcome does not depend on thread
// scheduling.
func findRoots(ctx context.Context, f *poly.Polynomial, list []uint64, limit int) (Collection, error) {
	workers := runtime.NumCPU()
	if workers > len(list) {
		workers = 1
	}
	var (
		lock sync.Mutex
		res  Collection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(list) + workers - 1) / workers
	for lo := 0; lo < len(list); lo += chunk {
		hi := min(lo+chunk, len(list))
		part := list[lo:hi]
		g.Go(func() error {
			var local Collection
			for _, p := range part {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				local = append(local, rootsModP(f, int64(p))...)
			}
			lock.Lock()
			res = append(res, local...)
			lock.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].P != res[j].P {
			return res[i].P < res[j].P
		}
		return res[i].R < res[j].R
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// rootsModP evaluates f over all residues of p and keeps the roots.
// Coefficients are reduced once; evaluation runs on intrinsic 64-bit
// arithmetic (p fits 32 bits, so products fit 64).
func rootsModP(f *poly.Polynomial, p int64) []Pair {
	pi := arith.NewInt(p)
	d := f.Degree()
	coeffs := make([]uint64, d+1)
	for _, t := range f.Terms() {
		coeffs[t.Exp] = uint64(t.Coeff.Mod(pi).Int64())
	}
	var res []Pair
	for r := int64(0); r < p; r++ {
		// Horner, dense over the reduced coefficients
		acc := uint64(0)
		for i := d; i >= 0; i-- {
			acc = (acc*uint64(r) + coeffs[i]) % uint64(p)
		}
		if acc == 0 {
			res = append(res, Pair{P: p, R: r})
		}
	}
	return res
}
