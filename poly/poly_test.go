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

package poly

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
)

// testPoly is the classic f(x) = x³ + 15x² + 29x + 8 with f(31) = 45113.
func testPoly() *Polynomial {
	return New(
		NewTerm(arith.ONE, 3),
		NewTerm(arith.NewInt(15), 2),
		NewTerm(arith.NewInt(29), 1),
		NewTerm(arith.EIGHT, 0),
	)
}

func TestEvaluate(t *testing.T) {
	f := testPoly()
	assert.Equal(t, "45113", f.Evaluate(arith.NewInt(31)).String())
	assert.Equal(t, "53", f.Evaluate(arith.ONE).String())
	assert.Equal(t, "29", f.Evaluate(arith.NewInt(-3)).String())
	assert.Equal(t, "8", f.Evaluate(arith.ZERO).String())
}

func TestEvaluateHomogeneous(t *testing.T) {
	f := testPoly()
	// b^d·f(-a/b) for (a=-1, b=1) is f(1) = 53 exactly
	assert.Equal(t, "53",
		f.EvaluateHomogeneous(arith.MINUS_ONE, arith.ONE, true).String())
	// (a=1, b=3): 27·f(-1/3) = -1
	assert.Equal(t, "-1",
		f.EvaluateHomogeneous(arith.ONE, arith.THREE, true).String())
	// homogeneous evaluation must equal b^d·f(-a/b) for divisible cases
	a, b := arith.NewInt(4), arith.TWO
	want := f.Evaluate(arith.NewInt(-2)).Mul(b.Pow(3))
	assert.Equal(t, want.String(), f.EvaluateHomogeneous(a, b, true).String())
}

func TestZeroHandling(t *testing.T) {
	z := New(NewTerm(arith.ZERO, 5), NewTerm(arith.ZERO, 0))
	assert.True(t, z.IsZero())
	assert.Equal(t, 0, z.Degree())
	// equality ignores missing zero terms
	p := New(NewTerm(arith.ONE, 2))
	q := New(NewTerm(arith.ONE, 2), NewTerm(arith.ZERO, 1))
	assert.True(t, p.Equals(q))
}

func TestAddSub(t *testing.T) {
	f := testPoly()
	g := New(NewTerm(arith.NewInt(-15), 2), NewTerm(arith.ONE, 1))
	sum := f.Add(g)
	assert.Equal(t, "0", sum.Coeff(2).String())
	assert.Equal(t, "30", sum.Coeff(1).String())
	diff := sum.Sub(g)
	assert.True(t, diff.Equals(f))
}

// randomPoly builds a polynomial with the given degree bound.
func randomPoly(rnd *rand.Rand, maxDeg int) *Polynomial {
	terms := make([]Term, 0, maxDeg+1)
	for e := 0; e <= maxDeg; e++ {
		c := rnd.Int63n(2001) - 1000
		terms = append(terms, NewTerm(arith.NewInt(c), e))
	}
	return New(terms...)
}

func TestKaratsubaMatchesNaive(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randomPoly(rnd, rnd.Intn(17))
		q := randomPoly(rnd, rnd.Intn(17))
		naive := p.MulNaive(q)
		kara := karatsuba(p, q, nil)
		require.True(t, naive.Equals(kara),
			"karatsuba mismatch:\np=%s\nq=%s\nnaive=%s\nkara=%s", p, q, naive, kara)
	}
}

func TestDivide(t *testing.T) {
	f := testPoly()
	g := New(NewTerm(arith.ONE, 1), NewTerm(arith.NewInt(8), 0)) // x + 8
	q, r := f.Divide(g)
	// f = (x+8)·q + r must hold
	back := q.MulNaive(g).Add(r)
	assert.True(t, back.Equals(f))
}

func TestDerivative(t *testing.T) {
	f := testPoly()
	d := f.Derivative()
	// 3x² + 30x + 29
	assert.Equal(t, "3", d.Coeff(2).String())
	assert.Equal(t, "30", d.Coeff(1).String())
	assert.Equal(t, "29", d.Coeff(0).String())
	assert.Equal(t, 2, d.Degree())
}

func TestMakeMonic(t *testing.T) {
	m := arith.NewInt(10)
	f := New(
		NewTerm(arith.THREE, 2),
		NewTerm(arith.TWO, 1),
		NewTerm(arith.FIVE, 0),
	)
	monic := f.MakeMonic(m)
	assert.Equal(t, "1", monic.Coeff(2).String())
	// the lift preserves the value at the base
	assert.Equal(t, f.Evaluate(m).String(), monic.Evaluate(m).String())
}

func TestFieldGCD(t *testing.T) {
	p := arith.NewInt(17)
	// (x+1)(x+2) and (x+1)(x+3) share the factor (x+1)
	a := New(NewTerm(arith.ONE, 1), NewTerm(arith.ONE, 0))
	b := New(NewTerm(arith.ONE, 1), NewTerm(arith.TWO, 0))
	c := New(NewTerm(arith.ONE, 1), NewTerm(arith.THREE, 0))
	g := FieldGCD(a.MulNaive(b), a.MulNaive(c), p)
	// gcd is a unit multiple of (x+1): same root
	require.Equal(t, 1, g.Degree())
	root := g.Coeff(0).Mul(g.Coeff(1).ModInverse(p)).Neg().Mod(p)
	assert.Equal(t, p.Sub(arith.ONE).String(), root.String())
}

func TestIsIrreducibleMod(t *testing.T) {
	// x² + 1 is irreducible mod 7 (since -1 is a non-residue mod 7)
	f := New(NewTerm(arith.ONE, 2), NewTerm(arith.ONE, 0))
	assert.True(t, IsIrreducibleMod(f, arith.SEVEN))
	// x² - 1 = (x-1)(x+1) splits everywhere
	g := New(NewTerm(arith.ONE, 2), NewTerm(arith.MINUS_ONE, 0))
	assert.False(t, IsIrreducibleMod(g, arith.SEVEN))
}

func TestForBase(t *testing.T) {
	n := arith.NewInt(45113)
	m := arith.NewInt(31)
	f := ForBase(n, m, 3)
	assert.True(t, f.Equals(testPoly()))
	assert.Equal(t, n.String(), f.Evaluate(m).String())
}

func TestSuggestDegree(t *testing.T) {
	assert.Equal(t, 3, SuggestDegree(arith.NewInt(45113)))
	big := arith.TWO.Pow(400) // ~121 digits
	assert.Equal(t, 4, SuggestDegree(big))
}

func TestFindOptimalBase(t *testing.T) {
	n := arith.NewInt(45113)
	f, m, q := FindOptimalBase(n, 3)
	require.NotNil(t, f)
	assert.Equal(t, n.String(), f.Evaluate(m).String())
	assert.Greater(t, q.Score, 0.0)
}

func TestQualityPrefersSmallCoefficients(t *testing.T) {
	m := arith.NewInt(31)
	small := New(NewTerm(arith.ONE, 3), NewTerm(arith.TWO, 1), NewTerm(arith.THREE, 0))
	large := New(NewTerm(arith.ONE, 3), NewTerm(arith.NewInt(5000), 2), NewTerm(arith.NewInt(9000), 0))
	qs := EvaluateQuality(small, m)
	ql := EvaluateQuality(large, m)
	assert.Less(t, qs.Score, ql.Score)
}
