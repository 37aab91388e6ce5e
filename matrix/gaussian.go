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
//*    PGMID.        GAUSSIAN ELIMINATION OVER GF(2).                */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/10/08.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package matrix

import (
	"context"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/logger"
	"github.com/bfix/gnfs/primes"
	"github.com/bfix/gnfs/relation"
)

// RowContext carries the frozen inputs for building parity rows.
type RowContext struct {
	RationalMax    *arith.Int            // rational factor-base bound
	AlgebraicMax   *arith.Int            // algebraic factor-base bound
	QuadraticPairs factorbase.Collection // quadratic-character pairs
	Factory        *primes.Factory       // prime index lookups
}

// Row is the GF(2) parity vector of a single smooth relation, split
// into sign, rational, algebraic and quadratic segments.
type Row[T backend.Num[T]] struct {
	Sign      bool
	Rational  []bool
	Algebraic []bool
	Quadratic []bool
	Source    *relation.Relation[T]
}

// NewRow derives the parity vector of a relation: the sign bit, the
// exponent parities of both factorizations and the quadratic
// characters Legendre((a + b·r)/p) != 1.
func NewRow[T backend.Num[T]](ctx *RowContext, rel *relation.Relation[T]) *Row[T] {
	row := &Row[T]{
		Sign:      rel.RationalNorm.Sign() < 0,
		Rational:  parityVector(ctx, rel.RationalFactors, ctx.RationalMax),
		Algebraic: parityVector(ctx, rel.AlgebraicFactors, ctx.AlgebraicMax),
		Source:    rel,
	}
	a := rel.A.ToArbitrary()
	b := rel.B.ToArbitrary()
	row.Quadratic = make([]bool, len(ctx.QuadraticPairs))
	for j, qp := range ctx.QuadraticPairs {
		p := arith.NewInt(qp.P)
		v := a.Add(b.Mul(arith.NewInt(qp.R)))
		row.Quadratic[j] = v.Legendre(p) != 1
	}
	return row
}

// parityVector maps odd prime exponents to their factor-base index.
func parityVector(ctx *RowContext, factors relation.CountDictionary, maxValue *arith.Int) []bool {
	size := ctx.Factory.IndexOf(uint64(maxValue.Int64()))
	res := make([]bool, size)
	for key, count := range factors {
		if key < 0 || count%2 == 0 || key > maxValue.Int64() {
			continue
		}
		idx := ctx.Factory.IndexOf(uint64(key)) - 1
		if idx < size {
			res[idx] = true
		}
	}
	return res
}

// lastIndexOf returns the last true position, or -1.
func lastIndexOf(v []bool) int {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] {
			return i
		}
	}
	return -1
}

// Vector concatenates the segments into one parity row.
func (r *Row[T]) Vector() []bool {
	res := make([]bool, 0, 1+len(r.Rational)+len(r.Algebraic)+len(r.Quadratic))
	res = append(res, r.Sign)
	res = append(res, r.Rational...)
	res = append(res, r.Algebraic...)
	res = append(res, r.Quadratic...)
	return res
}

// Gaussian is the elimination state: the transposed sparse matrix
// (each relation is a column), the free-column markers and the
// column-to-relation mapping.
type Gaussian[T backend.Num[T]] struct {
	M          *SparseMatrix
	FreeCols   []bool
	eliminated bool
	pivotCol   []int // pivot column per matrix row (-1 = none)
	colSource  map[int]*relation.Relation[T]
}

// NewGaussian builds the elimination state from smooth relations: the
// parity rows are computed, the three segments are shrunk to the
// tallest used column, a terminator column is appended and the whole
// block is transposed so each relation becomes a column.
func NewGaussian[T backend.Num[T]](ctx *RowContext, rels []*relation.Relation[T]) *Gaussian[T] {
	rows := make([]*Row[T], len(rels))
	maxRat, maxAlg, maxQua := 0, 0, 0
	for i, rel := range rels {
		rows[i] = NewRow(ctx, rel)
		if v := lastIndexOf(rows[i].Rational); v > maxRat {
			maxRat = v
		}
		if v := lastIndexOf(rows[i].Algebraic); v > maxAlg {
			maxAlg = v
		}
		if v := lastIndexOf(rows[i].Quadratic); v > maxQua {
			maxQua = v
		}
	}
	vectors := make([][]bool, len(rows))
	for i, row := range rows {
		row.Rational = row.Rational[:maxRat+1]
		row.Algebraic = row.Algebraic[:maxAlg+1]
		row.Quadratic = row.Quadratic[:maxQua+1]
		// unused terminator column at the end
		vectors[i] = append(row.Vector(), false)
	}

	// transpose: vector position -> matrix row, relation -> column
	numRows := len(vectors[0])
	numCols := len(rels)
	g := &Gaussian[T]{
		M:         NewSparseMatrix(numRows, numCols),
		FreeCols:  make([]bool, numCols),
		colSource: make(map[int]*relation.Relation[T]),
	}
	for col, vec := range vectors {
		g.colSource[col] = rels[col]
		for rowIdx, bit := range vec {
			if bit {
				g.M.Set(rowIdx, col, true)
			}
		}
	}
	return g
}

// Eliminate runs forward elimination with interleaved back
// substitution. Columns without a pivot are marked free; each free
// column spans one dependency.
func (g *Gaussian[T]) Eliminate(ctx context.Context) error {
	if g.eliminated {
		return nil
	}
	log := logger.Logger()
	log.Debug().
		Int("rows", g.M.NumRows).
		Int("cols", g.M.NumCols).
		Float64("sparsity", g.M.Sparsity()).
		Msg("gaussian elimination")

	g.pivotCol = make([]int, g.M.NumRows)
	for i := range g.pivotCol {
		g.pivotCol[i] = -1
	}
	pivoted := make([]bool, g.M.NumCols)
	row := 0
	for col := 0; col < g.M.NumCols && row < g.M.NumRows; col++ {
		select {
		case <-ctx.Done():
			return gerr.New(gerr.ErrCancelled, "matrix elimination")
		default:
		}
		if !g.M.Get(row, col) {
			pivot := g.M.FindPivot(col, row+1)
			if pivot < 0 {
				continue
			}
			g.M.SwapRows(row, pivot)
		}
		g.pivotCol[row] = col
		pivoted[col] = true
		for j := 0; j < g.M.NumRows; j++ {
			if j != row && g.M.Get(j, col) {
				g.M.RowXor(j, row)
			}
		}
		row++
	}
	// every column without a pivot is free, including columns beyond
	// the last pivot row when there are more relations than rows
	free := 0
	for col := range g.FreeCols {
		g.FreeCols[col] = !pivoted[col]
		if g.FreeCols[col] {
			free++
		}
	}
	log.Debug().Int("free", free).Msg("elimination complete")
	g.eliminated = true
	return nil
}

// FreeCount returns the number of free columns.
func (g *Gaussian[T]) FreeCount() int {
	n := 0
	for _, f := range g.FreeCols {
		if f {
			n++
		}
	}
	return n
}

// Solution returns the num.th dependency set (1-based): the free
// column plus every pivot column whose row carries a 1 under it. The
// parity vectors of the returned relations sum to zero over GF(2).
func (g *Gaussian[T]) Solution(num int) ([]*relation.Relation[T], error) {
	if !g.eliminated {
		return nil, gerr.New(gerr.ErrArithmetic, "elimination not yet run")
	}
	if num < 1 {
		return nil, gerr.New(gerr.ErrArithmetic, "solution number must be >= 1")
	}
	freeCol := -1
	seen := 0
	for col, f := range g.FreeCols {
		if f {
			seen++
			if seen == num {
				freeCol = col
				break
			}
		}
	}
	if freeCol < 0 {
		return nil, gerr.New(gerr.ErrNoFactor, "only %d dependencies available", seen)
	}
	cols := []int{freeCol}
	for row := 0; row < g.M.NumRows; row++ {
		if g.pivotCol[row] >= 0 && g.M.Get(row, freeCol) {
			cols = append(cols, g.pivotCol[row])
		}
	}
	res := make([]*relation.Relation[T], 0, len(cols))
	for _, col := range cols {
		res = append(res, g.colSource[col])
	}
	return res, nil
}
