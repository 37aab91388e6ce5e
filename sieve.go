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

package gnfs

import (
	"context"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
)

// sieving defaults
const (
	// hard cap on the effective A-range per batch
	valueRangeHardCap = 1000000
	// default A-range when none is configured
	defaultValueRange = 200
	// number of B values processed per outer batch
	requestedBatchB = 4
	// growth of max B when the current bound is exhausted
	maxBIncrement = 100
)

// Progress drives relation generation: the (a, b) cursor, the target
// count and the value range. It holds a non-owning reference to its
// parent instance.
type Progress[T backend.Num[T]] struct {
	A            *arith.Int
	B            *arith.Int
	MaxB         *arith.Int
	ValueRange   *arith.Int
	SmoothTarget int
	SmoothCount  int
	FreeCount    int
	Relations    *relation.Container[T]

	gnfs *GNFS[T] // borrowed parent
}

// NewProgress initializes the sieve state. A target below the row
// count the matrix step needs (including a non-positive one) is raised
// to that count.
func NewProgress[T backend.Num[T]](g *GNFS[T], targetQuantity, valueRange int) *Progress[T] {
	p := &Progress[T]{
		A:          arith.ZERO,
		B:          arith.THREE,
		MaxB:       g.Bounds.AlgebraicMax,
		ValueRange: arith.NewInt(int64(max(valueRange, defaultValueRange))),
		Relations:  relation.NewContainer[T](),
		gnfs:       g,
	}
	required := p.RequiredForMatrixStep()
	p.SmoothTarget = max(targetQuantity, required)
	return p
}

// RequiredForMatrixStep is the smooth-relation count needed before
// elimination is worthwhile: one per factor-base column plus slack.
func (p *Progress[T]) RequiredForMatrixStep() int {
	g := p.gnfs
	return g.Factory.IndexOf(uint64(g.Bounds.RationalMax.Int64())) +
		g.Factory.IndexOf(uint64(g.Bounds.AlgebraicMax.Int64())) +
		len(g.QuadraticFB) + 3
}

// IncreaseTarget raises the smooth-relation target.
func (p *Progress[T]) IncreaseTarget(amount int) {
	p.SmoothTarget += amount
}

// effectiveValueRange caps the configured range.
func (p *Progress[T]) effectiveValueRange() *arith.Int {
	return arith.Min(p.ValueRange, arith.NewInt(valueRangeHardCap))
}

// GenerateRelations sieves (a, b) pairs until the smooth target is
// reached or B runs out. Advancement invariants:
//
//   - the A start is captured per outer iteration, and A advances by
//     the effective value range each batch;
//   - B advances by the number of B values actually processed, which
//     may be less than requested near max B;
//   - when B exceeds max B, max B grows by a fixed increment before
//     processing continues.
//
// On cancellation the partial state is flushed and ErrCancelled is
// returned.
func (p *Progress[T]) GenerateRelations(ctx context.Context) error {
	log := logger.Logger()
	sctx := p.gnfs.SieveContext()

	if p.SmoothTarget < p.RequiredForMatrixStep() {
		p.SmoothTarget = p.RequiredForMatrixStep()
	}
	for p.B.Cmp(p.MaxB) >= 0 {
		p.MaxB = p.MaxB.Add(arith.NewInt(maxBIncrement))
	}
	log.Info().
		Int("target", p.SmoothTarget).
		Str("valueRange", p.ValueRange.String()).
		Str("a", p.A.String()).
		Str("b", p.B.String()).
		Str("maxB", p.MaxB.String()).
		Msg("generating relations")

	for p.SmoothCount < p.SmoothTarget {
		if err := ctx.Err(); err != nil {
			if ferr := p.flushAll(); ferr != nil {
				return ferr
			}
			return gerr.New(gerr.ErrCancelled, "sieving at a=%s b=%s", p.A, p.B)
		}
		if p.B.Cmp(p.MaxB) > 0 {
			p.MaxB = p.MaxB.Add(arith.NewInt(maxBIncrement))
		}

		// capture the A start inside the loop; a single capture would
		// re-sieve the same A region forever
		startA := p.A
		effRange := p.effectiveValueRange()
		maxA := startA.Abs().Add(effRange)

		// process a batch of B values, truncated at max B
		processed := 0
		for i := 0; i < requestedBatchB; i++ {
			if p.B.Add(arith.NewInt(int64(i))).Cmp(p.MaxB) > 0 {
				break
			}
			b := p.B.Add(arith.NewInt(int64(i)))
			if err := p.sieveRow(ctx, sctx, startA, maxA, b); err != nil {
				return err
			}
			processed++
			if p.SmoothCount >= p.SmoothTarget {
				processed = i + 1
				break
			}
		}
		if processed == 0 {
			processed = 1
		}

		// advancement: B by the batch actually processed, A by the
		// effective value range
		p.B = p.B.Add(arith.NewInt(int64(processed)))
		p.A = startA.Abs().Add(effRange)

		log.Debug().
			Str("a", p.A.String()).
			Str("b", p.B.String()).
			Int("smooth", p.SmoothCount).
			Msg("sieve batch done")
	}
	return p.flushAll()
}

// flushAll persists the smooth spill buffer and the rough stream.
func (p *Progress[T]) flushAll() error {
	if err := p.Relations.Flush(); err != nil {
		return err
	}
	return p.Relations.SaveRough(p.gnfs.Dirs.RoughRelationsFile)
}

// sieveRow runs one B value over the alternating A range.
func (p *Progress[T]) sieveRow(ctx context.Context, sctx *relation.SieveContext, startA, maxA, b *arith.Int) error {
	for a := range relation.SieveRangeContinuation(startA, maxA) {
		if err := ctx.Err(); err != nil {
			if ferr := p.Relations.Flush(); ferr != nil {
				return ferr
			}
			return gerr.New(gerr.ErrCancelled, "sieving at a=%s b=%s", a, b)
		}
		if !a.Abs().GCD(b).IsOne() {
			continue
		}
		rel, ok := relation.New[T](a, b)
		if !ok {
			// pair exceeds the backend; abandoned, not retried
			continue
		}
		rel.Sieve(sctx)
		if rel.IsSmooth() {
			p.SmoothCount++
			if err := p.Relations.AddSmooth(rel); err != nil {
				return err
			}
		} else if isWorthKeeping(rel) {
			p.Relations.Rough = append(p.Relations.Rough, rel)
		}
	}
	return nil
}

// isWorthKeeping retains partially factored relations for the
// double-large-prime bookkeeping; quotients that overflowed are not
// interesting.
func isWorthKeeping[T backend.Num[T]](rel *relation.Relation[T]) bool {
	q := rel.RationalQuotient
	return !q.IsZero() && !q.IsOne() && q.BitLen() < 40
}

// PurgeRoughRelations drops rough relations whose remaining quotient
// is probably prime on either side; they can never pair up.
func (p *Progress[T]) PurgeRoughRelations() {
	kept := p.Relations.Rough[:0]
	for _, rel := range p.Relations.Rough {
		rq := rel.RationalQuotient.ToArbitrary()
		aq := rel.AlgebraicQuotient.ToArbitrary()
		if !rq.IsOne() && primes.IsProbablePrime(rq) {
			continue
		}
		if !aq.IsOne() && primes.IsProbablePrime(aq) {
			continue
		}
		kept = append(kept, rel)
	}
	p.Relations.Rough = kept
}

// AddFreeRelationSolution records a dependency set and persists it.
func (p *Progress[T]) AddFreeRelationSolution(rels []*relation.Relation[T]) error {
	p.Relations.Free = append(p.Relations.Free, rels)
	p.FreeCount++
	return p.gnfs.saveFreeRelations(len(p.Relations.Free)-1, rels)
}
