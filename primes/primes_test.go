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

package primes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/arith"
)

// naive reference sieve
func naivePrimes(limit uint64) []uint64 {
	var res []uint64
	for n := uint64(2); n <= limit; n++ {
		prime := true
		for d := uint64(2); d*d <= n; d++ {
			if n%d == 0 {
				prime = false
				break
			}
		}
		if prime {
			res = append(res, n)
		}
	}
	return res
}

func TestSieveMatchesReference(t *testing.T) {
	want := naivePrimes(10000)
	got := Range(2, 10000)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i], got[i])
	}
}

func TestSieveSubRange(t *testing.T) {
	got := Range(100, 150)
	assert.Equal(t, []uint64{101, 103, 107, 109, 113, 127, 131, 137, 139, 149}, got)
}

func TestIsProbablePrime(t *testing.T) {
	for _, p := range naivePrimes(2000) {
		assert.True(t, IsProbablePrime(arith.NewIntFromUint64(p)), "%d is prime", p)
	}
	for _, c := range []int64{0, 1, 4, 100, 561, 1105, 1729, 45113, 100085411} {
		assert.False(t, IsProbablePrime(arith.NewInt(c)), "%d is composite", c)
	}
	// large primes
	assert.True(t, IsProbablePrime(arith.NewIntFromString("2305843009213693951"))) // 2^61-1
	assert.True(t, IsProbablePrime(arith.NewInt(9967)))
	assert.True(t, IsProbablePrime(arith.NewInt(10039)))
}

func TestNextPrime(t *testing.T) {
	assert.Equal(t, "2", NextPrime(arith.ONE).String())
	assert.Equal(t, "3", NextPrime(arith.TWO).String())
	assert.Equal(t, "101", NextPrime(arith.NewInt(100)).String())
	assert.Equal(t, "127", NextPrime(arith.NewInt(113)).String())
}

func TestFactoryIndexValue(t *testing.T) {
	f := NewFactory()
	// 1-based indices: p_1 = 2, p_2 = 3, p_3 = 5, ...
	assert.Equal(t, uint64(2), f.ValueAt(1))
	assert.Equal(t, uint64(3), f.ValueAt(2))
	assert.Equal(t, uint64(29), f.ValueAt(10))
	assert.Equal(t, 10, f.IndexOf(29))
	assert.Equal(t, 11, f.IndexOf(30)) // next prime is 31, index 11
	// dynamic growth
	assert.Equal(t, uint64(104729), f.ValueAt(10000))
	assert.Equal(t, 10000, f.IndexOf(104729))
}

func TestFactoryUpTo(t *testing.T) {
	f := NewFactory()
	ps := f.UpTo(100)
	assert.Equal(t, 25, len(ps))
	assert.Equal(t, uint64(97), ps[len(ps)-1])
}

func TestApproxNthPrime(t *testing.T) {
	// the estimate is an upper bound for the true n.th prime
	f := NewFactory()
	for _, n := range []uint64{10, 100, 1000, 10000} {
		actual := f.ValueAt(int(n))
		assert.GreaterOrEqual(t, ApproxNthPrime(n), actual)
	}
}
