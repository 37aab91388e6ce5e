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
	"iter"

	"github.com/bfix/gnfs/arith"
)

// SieveRange yields the A-candidates 1, -1, 2, -2, ..., max, -max.
// The argument is an absolute maximum, not a size; a caller starting
// at s must pass max = s + size.
func SieveRange(max *arith.Int) iter.Seq[*arith.Int] {
	return SieveRangeContinuation(arith.ONE, max)
}

// SieveRangeContinuation resumes the alternating sequence at the given
// value: from +s it yields s, -s, s+1, -(s+1), ..., max, -max; from -s
// it starts with -s. The sequence is empty when |start| > max and
// never yields zero.
func SieveRangeContinuation(current, max *arith.Int) iter.Seq[*arith.Int] {
	return func(yield func(*arith.Int) bool) {
		counter := current.Abs()
		flipFlop := current.Sign() >= 0
		if counter.IsZero() {
			counter = arith.ONE
			flipFlop = true
		}
		for counter.Cmp(max) <= 0 {
			if flipFlop {
				if !yield(counter) {
					return
				}
			} else {
				if !yield(counter.Neg()) {
					return
				}
				counter = counter.Add(arith.ONE)
			}
			flipFlop = !flipFlop
		}
	}
}
