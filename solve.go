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

	"github.com/bfix/gnfs/algorithms"
	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/config"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/matrix"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
	"github.com/bfix/gnfs/squareroot"
)

// solutionCap bounds the dependency sets recorded per elimination.
const solutionCap = 10

// MatrixSolve rebuilds the GF(2) matrix from all smooth relations,
// eliminates and records dependency sets whose products are squares
// on both sides. ErrInsufficientRelations sends the caller back to
// sieving.
func (g *GNFS[T]) MatrixSolve(ctx context.Context) error {
	log := logger.Logger()
	if err := g.Progress.Relations.Flush(); err != nil {
		return err
	}
	smooth, err := g.Progress.Relations.LoadSmooth()
	if err != nil {
		return err
	}
	required := g.Progress.RequiredForMatrixStep()
	log.Info().
		Int("relations", len(smooth)).
		Int("required", required).
		Msg("matrix step")
	if len(smooth) < required {
		return gerr.New(gerr.ErrInsufficientRelations, "%d of %d", len(smooth), required)
	}

	rctx := &matrix.RowContext{
		RationalMax:    g.Bounds.RationalMax,
		AlgebraicMax:   g.Bounds.AlgebraicMax,
		QuadraticPairs: g.QuadraticFB,
		Factory:        g.Factory,
	}
	gauss := matrix.NewGaussian(rctx, smooth)
	if err := gauss.Eliminate(ctx); err != nil {
		return err
	}

	found := 0
	for num := 1; num <= gauss.FreeCount() && found < solutionCap; num++ {
		if err := ctx.Err(); err != nil {
			return gerr.New(gerr.ErrCancelled, "dependency extraction")
		}
		dep, err := gauss.Solution(num)
		if err != nil {
			break
		}
		if !dependencyIsSquare(dep) {
			continue
		}
		if err := g.Progress.AddFreeRelationSolution(dep); err != nil {
			return err
		}
		found++
	}
	if found == 0 {
		return gerr.New(gerr.ErrNoFactor, "no square dependency in %d free columns", gauss.FreeCount())
	}
	log.Info().Int("solutions", found).Msg("dependency sets recorded")
	return nil
}

// dependencyIsSquare verifies that both norm products are perfect
// squares; with the sign column in the matrix this holds for every
// valid dependency, so a failure signals an invalid set.
func dependencyIsSquare[T backend.Num[T]](dep []*relation.Relation[T]) bool {
	rat := arith.ONE
	alg := arith.ONE
	for _, rel := range dep {
		rat = rat.Mul(rel.RationalNorm.ToArbitrary())
		alg = alg.Mul(rel.AlgebraicNorm.ToArbitrary())
	}
	return rat.IsSquare() && alg.IsSquare()
}

// SolveSquares walks the recorded dependency sets through the square
// finder until a non-trivial factorization appears. ErrNoFactor sends
// the caller back to sieving.
func (g *GNFS[T]) SolveSquares(ctx context.Context) error {
	log := logger.Logger()
	free := g.Progress.Relations.Free
	if len(free) == 0 {
		return gerr.New(gerr.ErrNoFactor, "no dependency sets available")
	}
	primeFloor := arith.NewInt(g.QuadraticFB.Last().P)
	finder := squareroot.NewFinder[T](g.N, g.Base, g.Polynomial, primeFloor)

	for idx, dep := range free {
		if err := ctx.Err(); err != nil {
			return gerr.New(gerr.ErrCancelled, "square root stage")
		}
		log.Info().Int("set", idx+1).Int("size", len(dep)).Msg("trying dependency set")
		if err := finder.CalculateRationalSide(dep); err != nil {
			log.Debug().Err(err).Msg("rational side rejected")
			continue
		}
		p, q, err := finder.CalculateAlgebraicSide(ctx, dep)
		if err != nil {
			if gerr.Is(err, gerr.ErrCancelled) {
				return err
			}
			log.Debug().Err(err).Msg("algebraic side failed")
			continue
		}
		if g.SetSolution(p, q) {
			log.Info().
				Str("p", p.String()).
				Str("q", q.String()).
				Msg("NON-TRIVIAL FACTORS FOUND")
			return nil
		}
	}
	return gerr.New(gerr.ErrNoFactor, "all dependency sets exhausted")
}

// Run drives the full pipeline: sieve until enough smooth relations,
// solve the matrix, extract square roots; on retryable failures the
// loop returns to sieving with a raised target. The round cap bounds
// runaway loops.
func (g *GNFS[T]) Run(ctx context.Context, maxRounds int) (*Solution, error) {
	if maxRounds <= 0 {
		maxRounds = 10
	}
	for round := 0; round < maxRounds; round++ {
		if err := g.Progress.GenerateRelations(ctx); err != nil {
			return nil, err
		}
		if err := g.MatrixSolve(ctx); err != nil {
			if gerr.Is(err, gerr.ErrInsufficientRelations) || gerr.Is(err, gerr.ErrNoFactor) {
				g.Progress.IncreaseTarget(g.Progress.SmoothTarget / 10)
				continue
			}
			return nil, err
		}
		if err := g.SolveSquares(ctx); err != nil {
			if gerr.Is(err, gerr.ErrNoFactor) {
				g.Progress.IncreaseTarget(g.Progress.SmoothTarget / 10)
				continue
			}
			return nil, err
		}
		if g.cfg.Cleanup {
			if err := g.Dirs.Cleanup(); err != nil {
				logger.Logger().Warn().Err(err).Msg("cleanup failed")
			}
		}
		return g.Solution, nil
	}
	return nil, gerr.New(gerr.ErrNoFactor, "round cap reached")
}

// Factor routes a number through the size dispatcher: numbers below
// the GNFS threshold use the alternate algorithms, the rest get the
// full pipeline with the narrowest sufficient backend.
func Factor(ctx context.Context, cfg *config.Config, n *arith.Int, params Params) (*Solution, error) {
	if algorithms.Choose(n) != algorithms.GNFS {
		p, q, err := algorithms.Factor(n)
		if err != nil {
			return nil, err
		}
		return &Solution{P: p, Q: q}, nil
	}
	return RunPipeline(ctx, cfg, n, params)
}

// RunPipeline constructs a GNFS instance with the backend selected
// for (n, degree) and runs it to completion.
func RunPipeline(ctx context.Context, cfg *config.Config, n *arith.Int, params Params) (*Solution, error) {
	degree := params.PolynomialDegree
	if degree <= 0 {
		degree = poly.SuggestDegree(n)
	}
	kind := backend.Select(n, degree)
	logger.Logger().Info().
		Str("backend", kind.Name()).
		Int("digits", n.DigitCount()).
		Msg("backend selected")
	switch kind {
	case backend.KindNative64:
		return runTyped[backend.N64](ctx, cfg, n, params)
	case backend.KindNative128:
		return runTyped[backend.N128](ctx, cfg, n, params)
	case backend.KindFixed256:
		return runTyped[backend.F256](ctx, cfg, n, params)
	case backend.KindFixed512:
		return runTyped[backend.F512](ctx, cfg, n, params)
	default:
		return runTyped[backend.Big](ctx, cfg, n, params)
	}
}

func runTyped[T backend.Num[T]](ctx context.Context, cfg *config.Config, n *arith.Int, params Params) (*Solution, error) {
	g, err := New[T](ctx, cfg, n, params)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx, 0)
}
