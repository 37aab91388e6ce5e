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

// Package benchmark times the factorization algorithms over random
// semiprimes of configurable digit sizes and aggregates the samples.
package benchmark

import (
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Sample is one timed factorization.
type Sample struct {
	N         string        `json:"n"`
	Digits    int           `json:"digits"`
	Algorithm string        `json:"algorithm"`
	Elapsed   time.Duration `json:"elapsedNs"`
	Success   bool          `json:"success"`
}

// Result aggregates the samples of one digit class.
type Result struct {
	Digits    int           `json:"digits"`
	Algorithm string        `json:"algorithm"`
	Runs      int           `json:"runs"`
	Failures  int           `json:"failures"`
	Min       time.Duration `json:"minNs"`
	Max       time.Duration `json:"maxNs"`
	Mean      time.Duration `json:"meanNs"`
	Median    time.Duration `json:"medianNs"`
	StdDev    time.Duration `json:"stdDevNs"`
}

// Aggregate condenses samples of one digit class into a result.
func Aggregate(digits int, samples []Sample) Result {
	res := Result{Digits: digits, Runs: len(samples)}
	if len(samples) == 0 {
		return res
	}
	res.Algorithm = samples[0].Algorithm
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !s.Success {
			res.Failures++
			continue
		}
		values = append(values, float64(s.Elapsed))
	}
	if len(values) == 0 {
		return res
	}
	toDur := func(f float64, err error) time.Duration {
		if err != nil {
			return 0
		}
		return time.Duration(f)
	}
	res.Min = toDur(stats.Min(values))
	res.Max = toDur(stats.Max(values))
	res.Mean = toDur(stats.Mean(values))
	res.Median = toDur(stats.Median(values))
	res.StdDev = toDur(stats.StandardDeviation(values))
	return res
}

// Table renders results as an aligned text table.
func Table(results []Result) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%7s  %-24s %5s %5s %12s %12s %12s %12s\n",
		"digits", "algorithm", "runs", "fail", "min", "mean", "median", "max")
	for _, r := range results {
		fmt.Fprintf(b, "%7d  %-24s %5d %5d %12s %12s %12s %12s\n",
			r.Digits, r.Algorithm, r.Runs, r.Failures,
			r.Min.Round(time.Microsecond), r.Mean.Round(time.Microsecond),
			r.Median.Round(time.Microsecond), r.Max.Round(time.Microsecond))
	}
	return b.String()
}
