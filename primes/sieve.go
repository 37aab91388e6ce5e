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
//*    PGMID.        SEGMENTED PRIME SIEVE.                          */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/09/14.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

// Package primes provides prime number services: a segmented sieve of
// Eratosthenes, probable-prime testing and index/value lookups over a
// cached prime table.
package primes

import (
	"iter"
	"math"

	"github.com/klauspost/cpuid/v2"
)

// Fallback page size when the L1 data cache size is unknown.
const fallbackPageSize = 393216

// pageSize returns the sieve segment size in bytes, tuned to the L1
// data cache so the cull buffer stays cache-resident.
func pageSize() int {
	if kb := cpuid.CPU.Cache.L1D; kb > 0 {
		return kb
	}
	return fallbackPageSize
}

// Sieve is a segmented sieve of Eratosthenes producing primes in
// ascending order. Only odd numbers are represented in the segment
// bitmap; 2 is emitted explicitly.
type Sieve struct {
	segBits int // odd numbers per segment
}

// NewSieve creates a sieve with a cache-sized segment.
func NewSieve() *Sieve {
	return &Sieve{segBits: pageSize() * 8}
}

// Range returns all primes in [lo, hi] in ascending order.
func Range(lo, hi uint64) []uint64 {
	var res []uint64
	for p := range NewSieve().Primes(hi) {
		if p > hi {
			break
		}
		if p >= lo {
			res = append(res, p)
		}
	}
	return res
}

// Primes yields the primes up to (and including) limit, in order.
func (s *Sieve) Primes(limit uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if limit < 2 {
			return
		}
		if !yield(2) {
			return
		}
		// base primes up to sqrt(limit), found with a plain sieve
		root := uint64(math.Sqrt(float64(limit))) + 1
		base := smallOddPrimes(root)

		segBits := uint64(s.segBits)
		buf := make([]uint64, (segBits+63)/64)
		// each segment covers the odd values segStart .. segStart+2*segBits-2
		for segStart := uint64(3); segStart <= limit; segStart += 2 * segBits {
			for i := range buf {
				buf[i] = 0
			}
			segEnd := segStart + 2*segBits // exclusive
			for _, p := range base {
				// first odd multiple of p at or above max(p*p, segStart)
				start := p * p
				if start < segStart {
					m := (segStart + p - 1) / p
					if m%2 == 0 {
						m++
					}
					start = m * p
				}
				for j := start; j < segEnd; j += 2 * p {
					bit := (j - segStart) / 2
					buf[bit/64] |= 1 << (bit % 64)
				}
			}
			for bit := uint64(0); bit < segBits; bit++ {
				v := segStart + 2*bit
				if v > limit {
					return
				}
				if buf[bit/64]&(1<<(bit%64)) == 0 {
					if !yield(v) {
						return
					}
				}
			}
		}
	}
}

// smallOddPrimes returns odd primes <= n via a classic sieve.
func smallOddPrimes(n uint64) []uint64 {
	if n < 3 {
		return nil
	}
	marked := make([]bool, n+1)
	var res []uint64
	for i := uint64(3); i <= n; i += 2 {
		if marked[i] {
			continue
		}
		res = append(res, i)
		for j := i * i; j <= n; j += 2 * i {
			marked[j] = true
		}
	}
	return res
}
