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

package backend

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/bfix/gnfs/arith"
)

// agreesWithArbitrary checks the backend contract against
// arbitrary-precision arithmetic for a pair of int64 inputs.
func agreesWithArbitrary[T Num[T]](t *testing.T, a, b int64) bool {
	var zero T
	x := zero.FromInt64(a)
	y := zero.FromInt64(b)
	xa := arith.NewInt(a)
	ya := arith.NewInt(b)

	if got, ok := x.CheckedAdd(y); ok {
		if got.ToArbitrary().Cmp(xa.Add(ya)) != 0 {
			t.Logf("add mismatch: %d + %d", a, b)
			return false
		}
	}
	if got, ok := x.CheckedSub(y); ok {
		if got.ToArbitrary().Cmp(xa.Sub(ya)) != 0 {
			t.Logf("sub mismatch: %d - %d", a, b)
			return false
		}
	}
	if got, ok := x.CheckedMul(y); ok {
		if got.ToArbitrary().Cmp(xa.Mul(ya)) != 0 {
			t.Logf("mul mismatch: %d * %d", a, b)
			return false
		}
	}
	if b != 0 {
		if x.Div(y).ToArbitrary().Cmp(xa.Div(ya)) != 0 {
			t.Logf("div mismatch: %d / %d", a, b)
			return false
		}
		if x.Rem(y).ToArbitrary().Cmp(xa.Rem(ya)) != 0 {
			t.Logf("rem mismatch: %d %% %d", a, b)
			return false
		}
	}
	if x.GCD(y).ToArbitrary().Cmp(xa.GCD(ya)) != 0 {
		t.Logf("gcd mismatch: %d, %d", a, b)
		return false
	}
	if x.BitLen() != xa.BitLen() {
		t.Logf("bitlen mismatch: %d", a)
		return false
	}
	if x.Cmp(y) != xa.Cmp(ya) {
		t.Logf("cmp mismatch: %d vs %d", a, b)
		return false
	}
	return true
}

func runContractProps[T Num[T]](t *testing.T, name string) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)
	properties.Property(name+" agrees with arbitrary precision", prop.ForAll(
		func(a, b int64) bool {
			return agreesWithArbitrary[T](t, a, b)
		},
		gen.Int64(), gen.Int64(),
	))
	properties.TestingRun(t)
}

func TestNative64Contract(t *testing.T)  { runContractProps[N64](t, "N64") }
func TestNative128Contract(t *testing.T) { runContractProps[N128](t, "N128") }
func TestFixed256Contract(t *testing.T)  { runContractProps[F256](t, "F256") }
func TestFixed512Contract(t *testing.T)  { runContractProps[F512](t, "F512") }
func TestBigContract(t *testing.T)       { runContractProps[Big](t, "Big") }

func TestModPowAgreement(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)
	properties.Property("N128 modpow agrees with arbitrary", prop.ForAll(
		func(base, exp, mod int64) bool {
			if exp < 0 {
				exp = -exp
			}
			if mod < 2 {
				mod = 2
			}
			var zero N128
			got := zero.FromInt64(base).ModPow(zero.FromInt64(exp), zero.FromInt64(mod))
			want := arith.NewInt(base).ModPow(arith.NewInt(exp), arith.NewInt(mod))
			return got.ToArbitrary().Cmp(want) == 0
		},
		gen.Int64Range(-1<<40, 1<<40), gen.Int64Range(0, 1<<20), gen.Int64Range(2, 1<<32),
	))
	properties.TestingRun(t)
}

func TestModPowSmallModulus(t *testing.T) {
	// m in {0,1} returns 0 by contract
	var n64 N64
	assert.True(t, n64.FromInt64(5).ModPow(n64.FromInt64(3), n64.FromInt64(1)).IsZero())
	assert.True(t, n64.FromInt64(5).ModPow(n64.FromInt64(3), n64.FromInt64(0)).IsZero())
	var f256 F256
	assert.True(t, f256.FromInt64(5).ModPow(f256.FromInt64(3), f256.FromInt64(1)).IsZero())
}

func TestWideMultiplication(t *testing.T) {
	// products beyond 64 bits on the wider backends
	a := arith.NewIntFromString("123456789012345678901234567890")
	b := arith.NewIntFromString("987654321098765432109876543210")
	var z F256
	x, ok := z.FromArbitrary(a)
	assert.True(t, ok)
	y, ok := z.FromArbitrary(b)
	assert.True(t, ok)
	prod, ok := x.CheckedMul(y)
	assert.True(t, ok)
	assert.Equal(t, a.Mul(b).String(), prod.String())

	// division round trip
	q := prod.Div(y)
	assert.Equal(t, a.String(), q.String())
}

func TestFromArbitraryBounds(t *testing.T) {
	var n64 N64
	_, ok := n64.FromArbitrary(arith.TWO.Pow(64))
	assert.False(t, ok, "2^64 must not fit N64")
	var n128 N128
	_, ok = n128.FromArbitrary(arith.TWO.Pow(127))
	assert.False(t, ok, "2^127 must not fit N128")
	v, ok := n128.FromArbitrary(arith.TWO.Pow(126))
	assert.True(t, ok)
	assert.Equal(t, arith.TWO.Pow(126).String(), v.String())
	var f512 F512
	w, ok := f512.FromArbitrary(arith.TWO.Pow(511).Neg())
	assert.True(t, ok)
	assert.Equal(t, arith.TWO.Pow(511).Neg().String(), w.String())
}

func TestSelect(t *testing.T) {
	cases := []struct {
		n      string
		degree int
		want   Kind
	}{
		{"10000000000", 3, KindNative64},          // 11 digits
		{"1000000000000000000", 3, KindNative128}, // 19 digits
		{"1" + zeros(29), 3, KindFixed256},        // 30 digits
		{"1" + zeros(69), 3, KindFixed512},        // 70 digits
		{"1" + zeros(119), 4, KindBig},            // 120 digits
	}
	for _, c := range cases {
		n := arith.NewIntFromString(c.n)
		assert.Equal(t, c.want, Select(n, c.degree), "n=%s", c.n)
	}
}

func TestEstimateNormBits(t *testing.T) {
	n := arith.NewIntFromString("10000000000")
	bits := EstimateNormBits(n, 3)
	assert.GreaterOrEqual(t, bits, 40)
	assert.LessOrEqual(t, bits, 60)
}

func zeros(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = '0'
	}
	return string(buf)
}
