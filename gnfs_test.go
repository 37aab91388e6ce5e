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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/config"
	"github.com/bfix/gnfs/logger"
)

func TestMain(m *testing.M) {
	logger.Disable()
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

// classicParams pins the well-known N = 45113 setup: m = 31, degree 3,
// prime bound 100.
func classicParams() Params {
	return Params{
		PolynomialBase:     arith.NewInt(31),
		PolynomialDegree:   3,
		PrimeBound:         arith.NewInt(100),
		RelationValueRange: 400,
		Fresh:              true,
	}
}

func TestConstruction45113(t *testing.T) {
	n := arith.NewInt(45113)
	g, err := New[backend.N64](context.Background(), testConfig(t), n, classicParams())
	require.NoError(t, err)

	// f(x) = x³ + 15x² + 29x + 8 with f(31) = 45113
	assert.Equal(t, "45113", g.Polynomial.Evaluate(g.Base).String())
	assert.Equal(t, "1", g.Polynomial.Coeff(3).String())
	assert.Equal(t, "15", g.Polynomial.Coeff(2).String())
	assert.Equal(t, "29", g.Polynomial.Coeff(1).String())
	assert.Equal(t, "8", g.Polynomial.Coeff(0).String())

	assert.Equal(t, "100", g.Bounds.RationalMax.String())
	assert.Equal(t, "300", g.Bounds.AlgebraicMax.String())
	assert.NotEmpty(t, g.RationalFB)
	assert.NotEmpty(t, g.AlgebraicFB)
	assert.NotEmpty(t, g.QuadraticFB)

	// persisted state exists
	_, err = os.Stat(g.Dirs.ParametersFile)
	assert.NoError(t, err)
	_, err = os.Stat(g.Dirs.PolynomialFile(0))
	assert.NoError(t, err)

	// round trip
	st, err := LoadState(g.Dirs)
	require.NoError(t, err)
	assert.Equal(t, "45113", st.N.String())
	assert.Equal(t, "31", st.Base.String())
	assert.Equal(t, 3, st.Degree)
	assert.True(t, st.Polynomial.Equals(g.Polynomial))
	assert.Equal(t, len(g.AlgebraicFB), len(st.AlgebraicFB))
}

func TestSieveAdvancement(t *testing.T) {
	n := arith.NewInt(45113)
	g, err := New[backend.N64](context.Background(), testConfig(t), n, classicParams())
	require.NoError(t, err)

	p := g.Progress
	p.SmoothTarget = 1 << 30 // never reached in this test
	eff := p.effectiveValueRange().Int64()

	// run a few batches by sieving manually through the outer step
	var aValues, bValues []int64
	aValues = append(aValues, p.A.Int64())
	bValues = append(bValues, p.B.Int64())
	for i := 0; i < 3; i++ {
		startA := p.A
		maxA := startA.Abs().Add(p.effectiveValueRange())
		require.NoError(t, p.sieveRow(context.Background(), g.SieveContext(), startA, maxA, p.B))
		p.B = p.B.Add(arith.NewInt(1))
		p.A = startA.Abs().Add(p.effectiveValueRange())
		aValues = append(aValues, p.A.Int64())
		bValues = append(bValues, p.B.Int64())
	}
	// A advances by the effective value range each batch
	for i := 1; i < len(aValues); i++ {
		if i >= 2 {
			assert.Equal(t, eff, aValues[i]-aValues[i-1])
		}
	}
	// B advances by the processed batch size (1 here)
	for i := 1; i < len(bValues); i++ {
		assert.Equal(t, int64(1), bValues[i]-bValues[i-1])
	}
}

func TestGenerateRelationsFindsSmooth(t *testing.T) {
	n := arith.NewInt(45113)
	cfg := testConfig(t)
	params := classicParams()
	params.RelationQuantity = 10
	g, err := New[backend.N64](context.Background(), cfg, n, params)
	require.NoError(t, err)

	require.NoError(t, g.Progress.GenerateRelations(context.Background()))
	assert.GreaterOrEqual(t, g.Progress.SmoothCount, 10)

	smooth, err := g.Progress.Relations.LoadSmooth()
	require.NoError(t, err)
	for _, rel := range smooth {
		assert.True(t, rel.IsSmooth())
		// rational norm = a + b·m
		want := rel.A.ToArbitrary().Add(rel.B.ToArbitrary().Mul(g.Base))
		assert.Equal(t, want.String(), rel.RationalNorm.ToArbitrary().String())
	}
}

func TestCancelledSieveFlushesState(t *testing.T) {
	n := arith.NewInt(45113)
	g, err := New[backend.N64](context.Background(), testConfig(t), n, classicParams())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = g.Progress.GenerateRelations(ctx)
	require.Error(t, err)
}

func TestFullPipeline45113(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline run in short mode")
	}
	n := arith.NewInt(45113)
	g, err := New[backend.N64](context.Background(), testConfig(t), n, classicParams())
	require.NoError(t, err)
	sol, err := g.Run(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, sol)
	assert.Equal(t, "45113", sol.P.Mul(sol.Q).String())
	assert.True(t, sol.P.Cmp(arith.ONE) > 0)
	assert.True(t, sol.Q.Cmp(n) < 0)
}

func TestFullPipelineNineDigits(t *testing.T) {
	if os.Getenv("GNFS_E2E") == "" {
		t.Skip("set GNFS_E2E=1 for the long end-to-end run")
	}
	// 100085411 = 9967 × 10039 with the Native64 backend
	n := arith.NewIntFromString("100085411")
	require.Equal(t, backend.KindNative64, backend.Select(n, 3))
	cfg := testConfig(t)
	params := Params{
		PolynomialDegree:   3,
		PrimeBound:         arith.NewInt(2000),
		RelationValueRange: 2000,
		Fresh:              true,
	}
	g, err := New[backend.N64](context.Background(), cfg, n, params)
	require.NoError(t, err)
	sol, err := g.Run(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, sol)
	assert.Equal(t, n.String(), sol.P.Mul(sol.Q).String())
	assert.Equal(t, "9967", sol.P.String())
	assert.Equal(t, "10039", sol.Q.String())
}

func TestDispatcherSmallNumbers(t *testing.T) {
	sol, err := Factor(context.Background(), testConfig(t), arith.NewInt(143), Params{})
	require.NoError(t, err)
	assert.Equal(t, "11", sol.P.String())
	assert.Equal(t, "13", sol.Q.String())

	sol, err = Factor(context.Background(), testConfig(t), arith.NewInt(8051), Params{})
	require.NoError(t, err)
	assert.Equal(t, "8051", sol.P.Mul(sol.Q).String())
}

func TestDirectoryNaming(t *testing.T) {
	short := NewDirectoryLocations("/tmp", arith.NewInt(45113))
	assert.Contains(t, short.SaveDirectory, "gnfs_data_45113")

	long := arith.TWO.Pow(400)
	dl := NewDirectoryLocations("/tmp", long)
	assert.Contains(t, dl.SaveDirectory, ellipsis)
	// 22 digits kept at each end
	base := dl.SaveDirectory
	assert.Less(t, len(base), len("/tmp/gnfs_data_")+2*showDigits+len(ellipsis)+1)
}
