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
	"math"
	"sync"

	"github.com/bfix/gnfs/arith"
)

// Witnesses for the deterministic Miller-Rabin test; correct for all
// inputs below 2^64, probabilistic beyond.
var witnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}

// IsProbablePrime runs the Miller-Rabin test with the fixed witness
// set against the given value.
func IsProbablePrime(n *arith.Int) bool {
	if n.Equals(arith.TWO) || n.Equals(arith.THREE) {
		return true
	}
	if n.Cmp(arith.TWO) < 0 || n.IsEven() {
		return false
	}
	n1 := n.Sub(arith.ONE)
	d := n1
	s := 0
	for d.IsEven() {
		d = d.Rsh(1)
		s++
	}
	for _, a := range witnesses {
		w := arith.NewInt(a)
		if w.Cmp(n1) >= 0 {
			continue
		}
		x := w.ModPow(d, n)
		if x.IsOne() || x.Equals(n1) {
			continue
		}
		composite := true
		for r := 1; r < s; r++ {
			x = x.Mul(x).Mod(n)
			if x.Equals(n1) {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest probable prime > n, starting the
// search from the next odd value.
func NextPrime(n *arith.Int) *arith.Int {
	if n.Cmp(arith.TWO) < 0 {
		return arith.TWO
	}
	r := n.Add(arith.ONE)
	if r.IsEven() {
		r = r.Add(arith.ONE)
	}
	for !IsProbablePrime(r) {
		r = r.Add(arith.TWO)
	}
	return r
}

// ApproxNthPrime returns an upper estimate of the n.th prime value
// (1-based) from the usual asymptotic bounds.
func ApproxNthPrime(n uint64) uint64 {
	if n < 6 {
		return []uint64{0, 2, 3, 5, 7, 11}[n]
	}
	fn := float64(n)
	flogn := math.Log(fn)
	flog2n := math.Log(flogn)
	var upper float64
	switch {
	case n >= 688383:
		upper = fn * (flogn + flog2n - 1.0 + (flog2n-2.00)/flogn)
	case n >= 178974:
		upper = fn * (flogn + flog2n - 1.0 + (flog2n-1.95)/flogn)
	case n >= 39017:
		upper = fn * (flogn + flog2n - 0.9484)
	default:
		upper = fn * (flogn + 0.6*flog2n)
	}
	return uint64(math.Ceil(upper))
}

///////////////////////////////////////////////////////////////////////
// Cached prime table with index <-> value lookups.

// Factory caches an ascending prime table and grows it on demand.
// Every lookup holds the lock for its whole run, growth included, so
// concurrent callers are serialized and never grow the table twice.
type Factory struct {
	lock     sync.Mutex
	maxValue uint64
	primes   []uint64
}

// NewFactory creates a factory with a small initial table.
func NewFactory() *Factory {
	f := &Factory{maxValue: 1000}
	f.primes = Range(2, f.maxValue)
	return f
}

// grow extends the table to cover at least the given value.
func (f *Factory) grow(value uint64) {
	next := max(value+1000, f.maxValue+100000)
	f.primes = Range(2, next)
	f.maxValue = next
}

// IndexOf returns the 1-based index of the smallest prime >= value.
func (f *Factory) IndexOf(value uint64) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	for f.maxValue < value {
		f.grow(value)
	}
	lo, hi := 0, len(f.primes)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.primes[mid] < value {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo + 1
}

// ValueAt returns the prime with the given 1-based index.
func (f *Factory) ValueAt(index int) uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	for index > len(f.primes) {
		f.grow(ApproxNthPrime(uint64(index)))
	}
	return f.primes[index-1]
}

// UpTo returns all cached primes < limit, growing the table as needed.
func (f *Factory) UpTo(limit uint64) []uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	for f.maxValue < limit {
		f.grow(limit)
	}
	var res []uint64
	for _, p := range f.primes {
		if p >= limit {
			break
		}
		res = append(res, p)
	}
	return res
}
