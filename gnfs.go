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
//*    PGMID.        NUMBER FIELD SIEVE DRIVER.                      */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/09/07.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package gnfs

import (
	"context"
	"math"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/config"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
)

// Solution is a recovered factorization n = P·Q.
type Solution struct {
	P *arith.Int `json:"p"`
	Q *arith.Int `json:"q"`
}

// Params are the user-tunable inputs of a GNFS run. Zero values are
// replaced by size-derived defaults.
type Params struct {
	PolynomialBase     *arith.Int // base m (nil = quality search)
	PolynomialDegree   int        // degree d (0 = by digit count)
	PrimeBound         *arith.Int // rational factor-base bound
	RelationQuantity   int        // target smooth-relation count
	RelationValueRange int        // sieve range per batch
	Fresh              bool       // discard persisted state
}

// GNFS is one factorization instance, parameterized over the integer
// backend selected at construction. Polynomial and factor bases are
// frozen after construction.
type GNFS[T backend.Num[T]] struct {
	N          *arith.Int
	Degree     int
	Base       *arith.Int
	Polynomial *poly.Polynomial
	Candidates []*poly.Polynomial // polynomials considered during selection
	Bounds     *factorbase.Bounds

	RationalFB  factorbase.Collection
	AlgebraicFB factorbase.Collection
	QuadraticFB factorbase.Collection

	Progress *Progress[T]
	Dirs     *DirectoryLocations
	Factory  *primes.Factory
	Solution *Solution

	cfg *config.Config
}

// New constructs (or resumes) a GNFS instance: polynomial selection,
// factor-base bounds and the three factor bases, then the sieve
// progress. Cancellation is honoured between the stages.
func New[T backend.Num[T]](ctx context.Context, cfg *config.Config, n *arith.Int, params Params) (*GNFS[T], error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log := logger.Logger()
	g := &GNFS[T]{
		N:       n,
		Dirs:    NewDirectoryLocations(cfg.OutputDir, n),
		Factory: primes.NewFactory(),
		cfg:     cfg,
	}
	if err := g.Dirs.Ensure(); err != nil {
		return nil, gerr.New(gerr.ErrStorage, "create %s", g.Dirs.SaveDirectory)
	}
	if params.Fresh {
		g.clearPersisted()
	}

	// polynomial degree and selection
	g.Degree = params.PolynomialDegree
	if g.Degree <= 0 {
		g.Degree = poly.SuggestDegree(n)
	}
	if params.PolynomialBase != nil {
		g.Base = params.PolynomialBase
		g.Polynomial = poly.ForBase(n, g.Base, g.Degree)
	} else {
		g.Polynomial, g.Base, _ = poly.FindOptimalBase(n, g.Degree)
	}
	g.Candidates = append(g.Candidates, g.Polynomial)
	log.Info().
		Str("f", g.Polynomial.String()).
		Str("m", g.Base.String()).
		Int("degree", g.Degree).
		Msg("polynomial constructed")

	if err := ctx.Err(); err != nil {
		return g, gerr.New(gerr.ErrCancelled, "after polynomial selection")
	}

	// factor-base bounds
	bound := params.PrimeBound
	if bound == nil {
		bound = factorbase.DefaultPrimeBound(n)
	}
	if m := cfg.Performance.PrimeBoundMultiplier; m != 1.0 && m > 0 {
		scaled := int64(math.Ceil(float64(bound.Int64()) * m))
		bound = arith.NewInt(scaled)
	}
	g.Bounds = factorbase.NewBounds(bound, g.Degree)

	// factor bases (root search fans out over the worker pool)
	var err error
	g.RationalFB = factorbase.BuildRational(g.Base, g.Bounds)
	if g.AlgebraicFB, err = factorbase.BuildAlgebraic(ctx, g.Polynomial, g.Bounds); err != nil {
		return g, err
	}
	if g.QuadraticFB, err = factorbase.BuildQuadratic(ctx, g.Polynomial, g.Bounds); err != nil {
		return g, err
	}
	log.Info().
		Int("rational", len(g.RationalFB)).
		Int("algebraic", len(g.AlgebraicFB)).
		Int("quadratic", len(g.QuadraticFB)).
		Msg("factor bases populated")

	if err := ctx.Err(); err != nil {
		return g, gerr.New(gerr.ErrCancelled, "after factor bases")
	}

	// relation sieve progress
	quantity := params.RelationQuantity
	if m := cfg.Performance.RelationQuantityMultiplier; m != 1.0 && m > 0 && quantity > 0 {
		quantity = int(math.Ceil(float64(quantity) * m))
	}
	g.Progress = NewProgress(g, quantity, params.RelationValueRange)
	if err := g.Progress.Relations.InitStreaming(g.Dirs.SmoothRelationsFile, params.Fresh); err != nil {
		return g, err
	}
	if err := g.saveState(); err != nil {
		log.Warn().Err(err).Msg("state save failed")
	}
	return g, nil
}

// clearPersisted removes relation and solution files, and the
// quadratic factor-pair file, from an earlier run of the same number.
func (g *GNFS[T]) clearPersisted() {
	removeIfExists(g.Dirs.SmoothRelationsFile)
	removeIfExists(g.Dirs.RoughRelationsFile)
	removeIfExists(g.Dirs.QuadraticFactorPair)
	for _, f := range g.Dirs.FreeRelationFiles() {
		removeIfExists(f)
	}
}

// SieveContext assembles the frozen sieving inputs.
func (g *GNFS[T]) SieveContext() *relation.SieveContext {
	return &relation.SieveContext{
		Base:            g.Base,
		Poly:            g.Polynomial,
		RationalPrimes:  g.RationalFB.Primes(),
		AlgebraicPrimes: g.AlgebraicFB.Primes(),
	}
}

// SetSolution verifies and records a factorization.
func (g *GNFS[T]) SetSolution(p, q *arith.Int) bool {
	if !p.Mul(q).Equals(g.N) {
		return false
	}
	if p.Cmp(q) > 0 {
		p, q = q, p
	}
	g.Solution = &Solution{P: p, Q: q}
	return true
}
