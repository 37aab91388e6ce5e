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

package siqs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
)

func TestParameterSelection(t *testing.T) {
	n40 := arith.TEN.Pow(39) // 40 digits
	p40 := ParametersFor(n40)
	assert.Equal(t, uint64(8000), p40.SmoothnessBound)
	assert.Equal(t, int64(700000), p40.SieveInterval)
	assert.Equal(t, 4, p40.PrimesPerA)

	n50 := arith.TEN.Pow(49)
	p50 := ParametersFor(n50)
	assert.Equal(t, uint64(25000), p50.SmoothnessBound)
	assert.Equal(t, int64(1800000), p50.SieveInterval)
}

func TestTargetA(t *testing.T) {
	n := arith.TEN.Pow(39)
	params := ParametersFor(n)
	target := params.TargetA(n)
	// sqrt(2n)/M for n = 1e39 and M = 700000 is about 6.4e13
	assert.True(t, target.Cmp(arith.TEN.Pow(13)) > 0)
	assert.True(t, target.Cmp(arith.TEN.Pow(17)) < 0)
}

func TestAPrimeRange(t *testing.T) {
	p := Parameters{SmoothnessBound: 8000, SieveInterval: 700000, PrimesPerA: 4}
	lo, hi := p.APrimeRange()
	assert.Equal(t, uint64(800), lo)
	assert.Equal(t, uint64(2666), hi)
}

func TestMonicFallbackPolynomial(t *testing.T) {
	n := arith.NewInt(3599)
	p := monicFallback(n)
	assert.Equal(t, "1", p.A.String())
	// b = ceil(sqrt(3599)) = 60
	assert.Equal(t, "60", p.B.String())
	// Q(0) = b² - n
	assert.Equal(t, "1", p.Evaluate(0, n).String())
}

func TestFactorSmallSemiprime(t *testing.T) {
	// 3599 = 59 × 61 with digit-appropriate parameters
	p, q, ok := Factor(arith.NewInt(3599))
	require.True(t, ok)
	assert.Equal(t, "59", p.String())
	assert.Equal(t, "61", q.String())
}

func TestFactorMediumSemiprime(t *testing.T) {
	// 100085411 = 9967 × 10039
	n := arith.NewIntFromString("100085411")
	p, q, ok := Factor(n)
	require.True(t, ok)
	assert.Equal(t, n.String(), p.Mul(q).String())
	assert.True(t, p.Cmp(arith.ONE) > 0 && p.Cmp(q) <= 0 && q.Cmp(n) < 0)
}

func TestFactorEvenAndSquare(t *testing.T) {
	p, q, ok := Factor(arith.NewInt(1000))
	require.True(t, ok)
	assert.Equal(t, "2", p.String())
	assert.Equal(t, "500", q.String())

	p, q, ok = Factor(arith.NewInt(49))
	require.True(t, ok)
	assert.Equal(t, "7", p.String())
	assert.Equal(t, "7", q.String())
}

func TestEvaluateMatchesInner(t *testing.T) {
	n := arith.NewInt(3599)
	s := &Sieve{n: n, sqrtN: n.Sqrt(), params: ParametersFor(n)}
	s.buildFactorBase()
	poly := monicFallback(n)
	// Q(1) = 61² - 3599 = 122 = 2·61; 61 > B=100? no, 61 < 100, so
	// smoothness depends on 61 being in the base (needs QR property);
	// just verify the invariant Q(x) = Inner(x)² - n on a few points
	for x := int64(-5); x <= 5; x++ {
		inner := poly.Inner(x)
		assert.Equal(t, inner.Mul(inner).Sub(n).String(), poly.Evaluate(x, n).String())
	}
}
