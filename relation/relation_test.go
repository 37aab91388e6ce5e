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

package relation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/poly"
)

// sieve context for N = 45113, m = 31, f(x) = x³ + 15x² + 29x + 8
func testContext() *SieveContext {
	f := poly.New(
		poly.NewTerm(arith.ONE, 3),
		poly.NewTerm(arith.NewInt(15), 2),
		poly.NewTerm(arith.NewInt(29), 1),
		poly.NewTerm(arith.EIGHT, 0),
	)
	return &SieveContext{
		Base:            arith.NewInt(31),
		Poly:            f,
		RationalPrimes:  []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47},
		AlgebraicPrimes: []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53},
	}
}

func TestSieveSmoothRelation(t *testing.T) {
	ctx := testContext()
	// (a=-1, b=1): rational norm 30 = 2·3·5, algebraic norm f(1) = 53
	rel, ok := New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(ctx)

	assert.Equal(t, "30", rel.RationalNorm.String())
	assert.Equal(t, "53", rel.AlgebraicNorm.String())
	assert.True(t, rel.IsSmooth())
	assert.Equal(t, int64(1), rel.RationalFactors[2])
	assert.Equal(t, int64(1), rel.RationalFactors[3])
	assert.Equal(t, int64(1), rel.RationalFactors[5])
	assert.Equal(t, int64(1), rel.AlgebraicFactors[53])
}

func TestSieveRationalEarlyExit(t *testing.T) {
	ctx := testContext()
	// shrink the rational base so 47 stays rough: (1,3) -> 94 = 2·47
	ctx.RationalPrimes = []int64{2, 3, 5}
	rel, ok := New[backend.N64](arith.ONE, arith.THREE)
	require.True(t, ok)
	rel.Sieve(ctx)
	assert.False(t, rel.IsSmooth())
	// the algebraic norm is skipped entirely on a rough rational side
	assert.True(t, rel.AlgebraicNorm.IsZero())
}

func TestSieveNormFormulas(t *testing.T) {
	ctx := testContext()
	// invariant: rational = a + b·m, algebraic = b^d·f(-a/b)
	for _, c := range []struct{ a, b int64 }{
		{1, 3}, {-1, 1}, {5, 2}, {-7, 4}, {13, 1},
	} {
		a, b := arith.NewInt(c.a), arith.NewInt(c.b)
		rel, ok := New[backend.N64](a, b)
		require.True(t, ok)
		rel.Sieve(ctx)
		wantRat := a.Add(b.Mul(ctx.Base))
		assert.Equal(t, wantRat.String(), rel.RationalNorm.String(), "a=%d b=%d", c.a, c.b)
		if rel.isRationalSmooth() {
			wantAlg := ctx.Poly.EvaluateHomogeneous(a, b, true)
			assert.Equal(t, wantAlg.String(), rel.AlgebraicNorm.String(), "a=%d b=%d", c.a, c.b)
		}
	}
}

func TestFactorizationMatchesValuation(t *testing.T) {
	ctx := testContext()
	rel, ok := New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(ctx)
	require.True(t, rel.IsSmooth())
	// the recorded exponent of p equals the p-adic valuation of the norm
	for _, p := range ctx.RationalPrimes {
		v := int64(0)
		n := rel.RationalNorm.ToArbitrary().Abs()
		pv := arith.NewInt(p)
		for n.Mod(pv).IsZero() {
			v++
			n = n.Div(pv)
		}
		assert.Equal(t, v, rel.RationalFactors[p], "prime %d", p)
	}
}

func TestCountDictionaryRoundTrip(t *testing.T) {
	cd := NewCountDictionary()
	cd.Add(-1)
	cd.AddN(2, 3)
	cd.AddN(47, 1)
	data, err := json.Marshal(cd)
	require.NoError(t, err)
	// canonical ordered form with decimal strings
	assert.Equal(t, `{"-1":"1","2":"3","47":"1"}`, string(data))

	var back CountDictionary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, cd.Equals(back))
}

func TestCountDictionaryCombine(t *testing.T) {
	a := NewCountDictionary()
	a.AddN(2, 1)
	a.AddN(3, 2)
	b := NewCountDictionary()
	b.AddN(3, 1)
	b.AddN(5, 4)
	a.Combine(b)
	assert.Equal(t, int64(1), a[2])
	assert.Equal(t, int64(3), a[3])
	assert.Equal(t, int64(4), a[5])
}

func TestRelationRoundTrip(t *testing.T) {
	ctx := testContext()
	rel, ok := New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(ctx)
	data, err := json.Marshal(rel)
	require.NoError(t, err)

	// any backend that can represent the values restores all fields
	var n64 Relation[backend.N64]
	require.NoError(t, json.Unmarshal(data, &n64))
	assert.Equal(t, rel.A.String(), n64.A.String())
	assert.Equal(t, rel.RationalNorm.String(), n64.RationalNorm.String())
	assert.True(t, rel.RationalFactors.Equals(n64.RationalFactors))

	var big Relation[backend.Big]
	require.NoError(t, json.Unmarshal(data, &big))
	assert.Equal(t, rel.AlgebraicNorm.String(), big.AlgebraicNorm.String())
	assert.True(t, rel.AlgebraicFactors.Equals(big.AlgebraicFactors))
}

func TestContainerSpill(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SmoothRelations.json")
	ctx := testContext()

	c := NewContainer[backend.N64]()
	c.bufferSize = 2
	require.NoError(t, c.InitStreaming(path, true))

	var rels []*Relation[backend.N64]
	for _, p := range []struct{ a, b int64 }{{-1, 1}, {3, 1}, {13, 1}} {
		rel, ok := New[backend.N64](arith.NewInt(p.a), arith.NewInt(p.b))
		require.True(t, ok)
		rel.Sieve(ctx)
		rels = append(rels, rel)
	}
	for _, rel := range rels {
		require.NoError(t, c.AddSmooth(rel))
	}
	require.NoError(t, c.Flush())
	assert.Equal(t, 3, c.SmoothCount())

	// read-back concatenates spill file and buffer
	all, err := c.LoadSmooth()
	require.NoError(t, err)
	assert.Equal(t, 3, len(all))

	// re-flushing persisted relations is a no-op on file length
	info1, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, c.AddSmooth(rels...)) // already persisted entries
	require.NoError(t, c.Flush())
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.Size(), info2.Size())
}

func TestContainerMemoryOnly(t *testing.T) {
	c := NewContainer[backend.N64]()
	ctx := testContext()
	rel, ok := New[backend.N64](arith.MINUS_ONE, arith.ONE)
	require.True(t, ok)
	rel.Sieve(ctx)
	require.NoError(t, c.AddSmooth(rel))
	all, err := c.LoadSmooth()
	require.NoError(t, err)
	assert.Equal(t, 1, len(all))
}
