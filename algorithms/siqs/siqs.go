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
//*    PGMID.        SELF-INITIALIZING QUADRATIC SIEVE.              */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/10/26.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package siqs

import (
	"context"
	"math"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/concurrent"
	"github.com/bfix/gnfs/config"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/primes"
)

// maximum number of polynomials tried before giving up
const maxPolynomials = 100

// Prime is a factor-base entry with its square roots of n.
type Prime struct {
	P     uint64  // prime value (1 marks the sign column)
	Roots []int64 // solutions of t² ≡ n (mod p)
	TSqrt int64   // first root (polynomial generation)
	LogP  float32 // log p for the sieve array
}

// Relation is a smooth value: Q(x) factors over the factor base.
type Relation struct {
	X         int64      // sieve position
	QX        *arith.Int // Q(x)
	Inner     *arith.Int // (ax + b) mod n
	Exponents []uint32   // exponent vector over the factor base
}

// Sieve is one SIQS factorization run.
type Sieve struct {
	n      *arith.Int
	sqrtN  *arith.Int
	params Parameters
	fb     []*Prime
}

// Factor attempts to factor n with the self-initializing quadratic
// sieve; optimal for 40-100 digit inputs but functional below (the
// polynomial generator degrades to the classic single-polynomial
// sieve when the factor base is too small).
func Factor(n *arith.Int) (*arith.Int, *arith.Int, bool) {
	return FactorCtx(context.Background(), n)
}

// FactorCtx is Factor with cooperative cancellation.
func FactorCtx(ctx context.Context, n *arith.Int) (*arith.Int, *arith.Int, bool) {
	if n.Cmp(arith.ONE) <= 0 {
		return nil, nil, false
	}
	if n.IsEven() {
		return arith.TWO, n.Rsh(1), true
	}
	if n.IsSquare() {
		r := n.Sqrt()
		return r, r, true
	}
	s := &Sieve{
		n:      n,
		sqrtN:  n.Sqrt(),
		params: ParametersFor(n),
	}
	s.buildFactorBase()
	if len(s.fb) < 4 {
		return nil, nil, false
	}
	return s.run(ctx)
}

// buildFactorBase collects the primes p <= B for which n is a
// quadratic residue, with their modular square roots; column 0 is the
// sign marker.
func (s *Sieve) buildFactorBase() {
	fb := []*Prime{{P: 1}}
	if s.n.Mod(arith.EIGHT).IsOne() {
		fb = append(fb, &Prime{P: 2, Roots: []int64{1}, TSqrt: 1, LogP: float32(math.Log(2))})
	}
	for _, p := range primes.Range(3, s.params.SmoothnessBound) {
		pv := arith.NewIntFromUint64(p)
		if s.n.Legendre(pv) != 1 {
			continue
		}
		t, err := arith.SqrtModP(s.n, pv)
		if err != nil {
			continue
		}
		t1 := t.Int64()
		t2 := int64(p) - t1
		fb = append(fb, &Prime{
			P:     p,
			Roots: []int64{t1, t2},
			TSqrt: t1,
			LogP:  float32(math.Log(float64(p))),
		})
	}
	s.fb = fb
	logger.Logger().Debug().Int("size", len(fb)).Msg("SIQS factor base")
}

// run drives polynomial generation, sieving, matrix solving and
// factor extraction.
func (s *Sieve) run(ctx context.Context) (*arith.Int, *arith.Int, bool) {
	log := logger.Logger()
	required := len(s.fb) + s.params.RelationMargin
	targetA := s.params.TargetA(s.n)
	exclude := make(map[uint64]bool)

	var relations []*Relation
	for round := 0; round < maxPolynomials && len(relations) < required; round++ {
		select {
		case <-ctx.Done():
			return nil, nil, false
		default:
		}
		polynomial := GeneratePolynomial(s.n, s.fb, s.params, targetA, exclude)
		if polynomial == nil {
			exclude = make(map[uint64]bool)
			continue
		}
		if len(polynomial.AFactors) > 0 {
			// rotate the leading a-prime so successive rounds pick
			// different polynomials
			exclude[polynomial.AFactors[0]] = true
		}
		offset := int64(0)
		if polynomial.A.IsOne() {
			// single-polynomial fallback walks the intervals instead
			offset = int64(round) * s.params.SieveInterval
		}
		batch := s.sievePolynomial(ctx, polynomial, offset)
		relations = append(relations, batch...)
		log.Debug().
			Int("round", round+1).
			Int("new", len(batch)).
			Int("total", len(relations)).
			Int("required", required).
			Msg("SIQS sieving")
	}
	if len(relations) < len(s.fb)+1 {
		log.Warn().
			Int("found", len(relations)).
			Int("required", required).
			Msg("not enough smooth relations")
		return nil, nil, false
	}

	for _, dep := range s.dependencies(relations) {
		if p, q, ok := s.extract(relations, dep); ok {
			return p, q, true
		}
	}
	return nil, nil, false
}

// sievePolynomial fills the log array over one interval and trial
// divides the candidates above the threshold; trial division fans out
// over the worker pool.
func (s *Sieve) sievePolynomial(ctx context.Context, polynomial *Polynomial, offset int64) []*Relation {
	half := s.params.SieveInterval / 2
	lo := offset - half
	size := int(2*half + 1)
	logArray := make([]float32, size)

	inA := make(map[uint64]bool, len(polynomial.AFactors))
	for _, p := range polynomial.AFactors {
		inA[p] = true
	}
	for _, pr := range s.fb {
		if pr.P <= 1 || inA[pr.P] {
			continue
		}
		p := int64(pr.P)
		aInv := polynomial.A.ModInverse(arith.NewInt(p))
		if aInv == nil {
			continue
		}
		bModP := polynomial.B.Mod(arith.NewInt(p)).Int64()
		aInvV := aInv.Int64()
		for _, t := range pr.Roots {
			root := ((t-bModP)%p + p) % p
			root = root * aInvV % p
			// first position >= lo congruent to root mod p
			first := lo + ((root-lo)%p+p)%p
			for x := first; x < lo+int64(size); x += p {
				logArray[x-lo] += pr.LogP
			}
		}
	}

	// threshold against the characteristic size of Q over the interval
	aF := approxFloat(polynomial.A)
	sqrtF := approxFloat(s.sqrtN)
	maxQ := aF * 2 * sqrtF * float64(half)
	if maxQ < 4 {
		maxQ = 4
	}
	threshold := float32(math.Log(maxQ)) * float32(ThresholdMultiplier(s.n))

	var candidates []int64
	for i := 0; i < size; i++ {
		if logArray[i] >= threshold {
			candidates = append(candidates, lo+int64(i))
		}
	}

	// parallel trial division of the candidates
	w := &trialWorker{s: s, poly: polynomial}
	disp := concurrent.NewDispatcher[int64, *Relation](ctx, config.WorkerCount(), w)
	for _, x := range candidates {
		if !disp.Process(x) {
			break
		}
	}
	disp.Wait()
	return w.res
}

// trialWorker is the Dispatchable running trial division of sieve
// candidates on the worker pool.
type trialWorker struct {
	s    *Sieve
	poly *Polynomial
	res  []*Relation
}

// Worker processes candidate positions until the stream closes.
func (w *trialWorker) Worker(ctx context.Context, n int, taskCh <-chan int64, resCh chan<- *Relation) {
	for {
		select {
		case <-ctx.Done():
			return
		case x, ok := <-taskCh:
			if !ok {
				return
			}
			resCh <- w.s.trialDivide(x, w.poly)
		}
	}
}

// Eval collects smooth relations (single-threaded by contract).
func (w *trialWorker) Eval(rel *Relation) bool {
	if rel != nil {
		w.res = append(w.res, rel)
	}
	return false
}

// trialDivide factors Q(x) over the factor base; only completely
// smooth values yield a relation.
func (s *Sieve) trialDivide(x int64, polynomial *Polynomial) *Relation {
	qx := polynomial.Evaluate(x, s.n)
	if qx.IsZero() || qx.Abs().Cmp(arith.TWO) < 0 {
		return nil
	}
	remaining := qx.Abs()
	exponents := make([]uint32, len(s.fb))
	if qx.Sign() < 0 {
		exponents[0] = 1
	}
	for idx, pr := range s.fb {
		if pr.P <= 1 {
			continue
		}
		p := arith.NewIntFromUint64(pr.P)
		for remaining.Mod(p).IsZero() {
			remaining = remaining.Div(p)
			exponents[idx]++
		}
		if remaining.IsOne() {
			break
		}
	}
	if !remaining.IsOne() {
		return nil
	}
	return &Relation{
		X:         x,
		QX:        qx,
		Inner:     polynomial.Inner(x).Mod(s.n),
		Exponents: exponents,
	}
}

// dependencies finds null-space combinations of the relation parity
// rows by Gaussian elimination with marker sets: a row that reduces to
// zero names the relations whose product is a square.
func (s *Sieve) dependencies(relations []*Relation) [][]int {
	type gfRow struct {
		cols  map[int]struct{}
		combo map[int]struct{}
	}
	pivots := make(map[int]*gfRow) // pivot column -> row
	var deps [][]int

	for idx, rel := range relations {
		row := &gfRow{
			cols:  make(map[int]struct{}),
			combo: map[int]struct{}{idx: {}},
		}
		for col, exp := range rel.Exponents {
			if exp%2 == 1 {
				row.cols[col] = struct{}{}
			}
		}
		// reduce against existing pivots
		for {
			lead := -1
			for col := range row.cols {
				if lead < 0 || col < lead {
					lead = col
				}
			}
			if lead < 0 {
				// zero row: dependency found
				var dep []int
				for i := range row.combo {
					dep = append(dep, i)
				}
				deps = append(deps, dep)
				break
			}
			pivot, ok := pivots[lead]
			if !ok {
				pivots[lead] = row
				break
			}
			xorSet(row.cols, pivot.cols)
			xorSet(row.combo, pivot.combo)
		}
	}
	logger.Logger().Debug().Int("count", len(deps)).Msg("dependencies found")
	return deps
}

// xorSet merges b into a by symmetric difference.
func xorSet(a, b map[int]struct{}) {
	for k := range b {
		if _, ok := a[k]; ok {
			delete(a, k)
		} else {
			a[k] = struct{}{}
		}
	}
}

// extract reconstructs X² ≡ Y² (mod n) from a dependency and pulls a
// factor from gcd(X ± Y, n).
func (s *Sieve) extract(relations []*Relation, dep []int) (*arith.Int, *arith.Int, bool) {
	x := arith.ONE
	sums := make([]uint32, len(s.fb))
	for _, idx := range dep {
		rel := relations[idx]
		x = x.Mul(rel.Inner).Mod(s.n)
		for col, e := range rel.Exponents {
			sums[col] += e
		}
	}
	y := arith.ONE
	for col, e := range sums {
		if col == 0 {
			continue
		}
		if e%2 != 0 {
			return nil, nil, false
		}
		if e > 0 {
			p := arith.NewIntFromUint64(s.fb[col].P)
			y = y.Mul(p.ModPow(arith.NewInt(int64(e/2)), s.n)).Mod(s.n)
		}
	}
	for _, cand := range []*arith.Int{x.Sub(y).Abs(), x.Add(y)} {
		g := s.n.GCD(cand)
		if g.Cmp(arith.ONE) > 0 && g.Cmp(s.n) < 0 {
			q := s.n.Div(g)
			if g.Mul(q).Equals(s.n) {
				if g.Cmp(q) > 0 {
					g, q = q, g
				}
				return g, q, true
			}
		}
	}
	return nil, nil, false
}

// approxFloat converts an Int to float64, scaling by bit length for
// huge values.
func approxFloat(v *arith.Int) float64 {
	if v.BitLen() <= 52 {
		return float64(v.Int64())
	}
	shift := v.BitLen() - 52
	return float64(v.Rsh(uint(shift)).Int64()) * math.Pow(2, float64(shift))
}
