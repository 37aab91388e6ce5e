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

package matrix

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
)

func TestSparseMatrixBasics(t *testing.T) {
	m := NewSparseMatrix(3, 4)
	m.Set(0, 1, true)
	m.Set(2, 3, true)
	assert.True(t, m.Get(0, 1))
	assert.False(t, m.Get(0, 2))
	m.Set(0, 1, false)
	assert.False(t, m.Get(0, 1))

	m.SetRowDense(1, []bool{true, false, true, false})
	assert.Equal(t, 2, m.RowWeight(1))
	assert.Equal(t, []bool{true, false, true, false}, m.RowDense(1))
}

func TestRowXorMatchesDense(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	m := NewSparseMatrix(2, 32)
	a := make([]bool, 32)
	b := make([]bool, 32)
	for i := range a {
		a[i] = rnd.Intn(2) == 1
		b[i] = rnd.Intn(2) == 1
	}
	m.SetRowDense(0, a)
	m.SetRowDense(1, b)
	m.RowXor(0, 1)
	assert.Equal(t, Add(a, b), m.RowDense(0))
}

func TestAddRejectsLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Add([]bool{true}, []bool{true, false})
	})
}

// denseRank is the reference implementation the sparse routines
// must agree with: returns the rank of the matrix over GF(2).
func denseRank(rows [][]bool) int {
	if len(rows) == 0 {
		return 0
	}
	mat := make([][]bool, len(rows))
	for i, r := range rows {
		mat[i] = append([]bool(nil), r...)
	}
	rank := 0
	cols := len(mat[0])
	for col := 0; col < cols && rank < len(mat); col++ {
		pivot := -1
		for r := rank; r < len(mat); r++ {
			if mat[r][col] {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		mat[rank], mat[pivot] = mat[pivot], mat[rank]
		for r := 0; r < len(mat); r++ {
			if r != rank && mat[r][col] {
				for c := 0; c < cols; c++ {
					mat[r][c] = mat[r][c] != mat[rank][c]
				}
			}
		}
		rank++
	}
	return rank
}

// buildTestGaussian sieves smooth relations for N = 45113 and builds
// the elimination state.
func buildTestGaussian(t *testing.T, want int) (*Gaussian[backend.N64], []*relation.Relation[backend.N64], *RowContext) {
	t.Helper()
	f := poly.New(
		poly.NewTerm(arith.ONE, 3),
		poly.NewTerm(arith.NewInt(15), 2),
		poly.NewTerm(arith.NewInt(29), 1),
		poly.NewTerm(arith.EIGHT, 0),
	)
	bounds := factorbase.NewBounds(arith.NewInt(100), 3)
	rational := factorbase.BuildRational(arith.NewInt(31), bounds)
	algebraic, err := factorbase.BuildAlgebraic(context.Background(), f, bounds)
	require.NoError(t, err)
	quadratic, err := factorbase.BuildQuadratic(context.Background(), f, bounds)
	require.NoError(t, err)

	sctx := &relation.SieveContext{
		Base:            arith.NewInt(31),
		Poly:            f,
		RationalPrimes:  rational.Primes(),
		AlgebraicPrimes: algebraic.Primes(),
	}
	var smooth []*relation.Relation[backend.N64]
	for b := int64(1); b <= 30 && len(smooth) < want; b++ {
		for a := int64(-100); a <= 100 && len(smooth) < want; a++ {
			if a == 0 {
				continue
			}
			av, bv := arith.NewInt(a), arith.NewInt(b)
			if !av.Abs().GCD(bv).IsOne() {
				continue
			}
			rel, ok := relation.New[backend.N64](av, bv)
			require.True(t, ok)
			rel.Sieve(sctx)
			if rel.IsSmooth() {
				smooth = append(smooth, rel)
			}
		}
	}
	require.GreaterOrEqual(t, len(smooth), want, "not enough smooth relations for the test")

	rctx := &RowContext{
		RationalMax:    bounds.RationalMax,
		AlgebraicMax:   bounds.AlgebraicMax,
		QuadraticPairs: quadratic,
		Factory:        primes.NewFactory(),
	}
	return NewGaussian(rctx, smooth), smooth, rctx
}

func TestEliminationAndDependencies(t *testing.T) {
	g, smooth, rctx := buildTestGaussian(t, 40)
	require.NoError(t, g.Eliminate(context.Background()))

	// parity vectors of all relations; at least one free column exists
	vectors := make([][]bool, 0, len(smooth))
	for _, rel := range smooth {
		vectors = append(vectors, NewRow(rctx, rel).Vector())
	}
	assert.GreaterOrEqual(t, g.FreeCount(), 1)

	// every dependency's parity vectors sum to zero over GF(2)
	for num := 1; num <= g.FreeCount(); num++ {
		dep, err := g.Solution(num)
		require.NoError(t, err)
		require.NotEmpty(t, dep)
		sum := make([]bool, len(vectors[0]))
		for _, rel := range dep {
			row := NewRow(rctx, rel)
			v := row.Vector()
			for i := 0; i < len(sum) && i < len(v); i++ {
				sum[i] = sum[i] != v[i]
			}
		}
		for i, bit := range sum {
			assert.False(t, bit, "dependency %d has nonzero parity at %d", num, i)
		}
	}
}

func TestFreeColumnsWhenOverdetermined(t *testing.T) {
	// k relations over F columns with F < k leave at least k-F free
	g, smooth, _ := buildTestGaussian(t, 40)
	require.NoError(t, g.Eliminate(context.Background()))
	colCount := g.M.NumRows // parity length = column count before transpose
	if len(smooth) > colCount {
		assert.GreaterOrEqual(t, g.FreeCount(), len(smooth)-colCount)
	}
}

func TestSparseRankMatchesDense(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		rows := 8
		cols := 10
		dense := make([][]bool, rows)
		m := NewSparseMatrix(rows, cols)
		for r := 0; r < rows; r++ {
			dense[r] = make([]bool, cols)
			for c := 0; c < cols; c++ {
				dense[r][c] = rnd.Intn(3) == 0
			}
			m.SetRowDense(r, dense[r])
		}
		// sparse elimination: count pivots
		rank := 0
		for col := 0; col < cols && rank < rows; col++ {
			if !m.Get(rank, col) {
				p := m.FindPivot(col, rank+1)
				if p < 0 {
					continue
				}
				m.SwapRows(rank, p)
			}
			for r := 0; r < rows; r++ {
				if r != rank && m.Get(r, col) {
					m.RowXor(r, rank)
				}
			}
			rank++
		}
		assert.Equal(t, denseRank(dense), rank, "trial %d", trial)
	}
}
