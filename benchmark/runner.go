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

package benchmark

import (
	"time"

	"github.com/bfix/gnfs/algorithms"
	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/logger"
)

// RunsPerSize is the default sample count per digit class.
const RunsPerSize = 5

// RandomSemiprime generates p*q with both primes of roughly half the
// requested digit size.
func RandomSemiprime(digits int) *arith.Int {
	// digits -> bits: one decimal digit is ~3.32 bits
	bits := int(float64(digits)*3.3219) / 2
	if bits < 4 {
		bits = 4
	}
	p := arith.NewIntRndPrimeBits(bits)
	q := arith.NewIntRndPrimeBits(bits)
	return p.Mul(q)
}

// Run benchmarks the dispatcher over the given digit sizes and
// returns one aggregated result per size.
func Run(sizes []int, runs int) []Result {
	if runs <= 0 {
		runs = RunsPerSize
	}
	log := logger.Logger()
	var results []Result
	for _, digits := range sizes {
		samples := make([]Sample, 0, runs)
		for i := 0; i < runs; i++ {
			n := RandomSemiprime(digits)
			alg := algorithms.Choose(n)
			start := time.Now()
			p, q, err := algorithms.Factor(n)
			elapsed := time.Since(start)
			ok := err == nil && p != nil && p.Mul(q).Equals(n)
			samples = append(samples, Sample{
				N:         n.String(),
				Digits:    digits,
				Algorithm: alg.Name(),
				Elapsed:   elapsed,
				Success:   ok,
			})
			log.Debug().
				Int("digits", digits).
				Str("n", n.String()).
				Dur("elapsed", elapsed).
				Bool("ok", ok).
				Msg("benchmark sample")
		}
		results = append(results, Aggregate(digits, samples))
	}
	return results
}
