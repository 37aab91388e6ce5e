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

package squareroot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
)

func testPoly() *poly.Polynomial {
	return poly.New(
		poly.NewTerm(arith.ONE, 3),
		poly.NewTerm(arith.NewInt(15), 2),
		poly.NewTerm(arith.NewInt(29), 1),
		poly.NewTerm(arith.EIGHT, 0),
	)
}

// TestFieldSquareRootProperty squares random field elements and checks
// that the recovered root squares back to the input.
func TestFieldSquareRootProperty(t *testing.T) {
	f := testPoly() // monic, degree 3
	m := arith.NewInt(31)
	for _, pv := range []int64{101, 103, 107, 109, 113} {
		p := arith.NewInt(pv)
		if !poly.IsIrreducibleMod(f, p) {
			continue
		}
		for c := int64(1); c <= 10; c++ {
			elem := poly.New(
				poly.NewTerm(arith.NewInt(c), 2),
				poly.NewTerm(arith.NewInt(c+3), 1),
				poly.NewTerm(arith.NewInt(2*c+1), 0),
			)
			square := poly.ModMod(elem.Square(), f, p)
			root, err := FieldSquareRoot(square, f, p, f.Degree(), m)
			require.NoError(t, err)
			back := poly.ModMod(root.Square(), f, p)
			assert.True(t, square.Equals(back),
				"p=%d c=%d: root² != input", pv, c)
		}
	}
}

func TestRationalSideRejectsNonSquare(t *testing.T) {
	n := arith.NewInt(45113)
	m := arith.NewInt(31)
	f := testPoly()
	finder := NewFinder[backend.N64](n, m, f, arith.NewInt(500))

	// a single relation with non-square norm must be rejected before
	// any gcd is computed
	sctx := &relation.SieveContext{
		Base:            m,
		Poly:            f,
		RationalPrimes:  []int64{2, 3, 5},
		AlgebraicPrimes: []int64{2, 3, 5, 53},
	}
	rel, ok := relation.New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(sctx) // rational norm 30, not a square
	err := finder.CalculateRationalSide([]*relation.Relation[backend.N64]{rel})
	assert.True(t, gerr.Is(err, gerr.ErrArithmetic))
}

func TestRationalSideChi(t *testing.T) {
	n := arith.NewInt(45113)
	m := arith.NewInt(31)
	f := testPoly()
	finder := NewFinder[backend.N64](n, m, f, arith.NewInt(500))

	sctx := &relation.SieveContext{
		Base:            m,
		Poly:            f,
		RationalPrimes:  []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31},
		AlgebraicPrimes: []int64{2, 3, 5, 53},
	}
	// (-1,1) twice: product 900 = 30²
	rel, ok := relation.New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(sctx)
	deps := []*relation.Relation[backend.N64]{rel, rel}
	require.NoError(t, finder.CalculateRationalSide(deps))
	// χ = f'(31)·30 mod N with f'(x) = 3x² + 30x + 29
	deriv := arith.NewInt(3*31*31 + 30*31 + 29)
	want := deriv.Mul(arith.NewInt(30)).Mod(n)
	assert.Equal(t, want.String(), finder.RationalResidue.String())
}

func TestMonicLift(t *testing.T) {
	// a non-monic polynomial gets a monic lift preserving f(m)
	f := poly.New(
		poly.NewTerm(arith.THREE, 3),
		poly.NewTerm(arith.TWO, 1),
		poly.NewTerm(arith.SEVEN, 0),
	)
	m := arith.NewInt(11)
	finder := NewFinder[backend.N64](arith.NewInt(45113), m, f, arith.NewInt(500))
	assert.Equal(t, "1", finder.Monic.Coeff(3).String())
	assert.Equal(t, f.Evaluate(m).String(), finder.Monic.Evaluate(m).String())
}
