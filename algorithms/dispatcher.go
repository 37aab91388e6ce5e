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

package algorithms

import (
	"github.com/bfix/gnfs/arith"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/logger"
)

// Algorithm identifies a factorization method.
type Algorithm int

// list of known algorithms
const (
	TRIAL_DIVISION Algorithm = iota
	POLLARD_RHO
	QUADRATIC_SIEVE
	GNFS
)

// Name returns a human-readable algorithm name.
func (a Algorithm) Name() string {
	switch a {
	case TRIAL_DIVISION:
		return "Trial Division"
	case POLLARD_RHO:
		return "Pollard's Rho"
	case QUADRATIC_SIEVE:
		return "Quadratic Sieve (SIQS)"
	default:
		return "General Number Field Sieve"
	}
}

// Choose routes a number by digit count: trial division below 20
// digits, Pollard rho up to 39, SIQS up to 99 and GNFS beyond.
func Choose(n *arith.Int) Algorithm {
	switch d := n.DigitCount(); {
	case d <= 19:
		return TRIAL_DIVISION
	case d <= 39:
		return POLLARD_RHO
	case d <= 99:
		return QUADRATIC_SIEVE
	default:
		return GNFS
	}
}

// rho iteration cap used by the dispatcher
const rhoIterations = 100000

// Factor attempts a non-trivial factorization n = p·q with the
// algorithm chosen by size; trial division falls back to Pollard rho
// for stubborn inputs. Numbers routed to GNFS need the full pipeline
// driver and are signalled as such.
func Factor(n *arith.Int) (*arith.Int, *arith.Int, error) {
	alg := Choose(n)
	log := logger.Logger()
	log.Info().
		Int("digits", n.DigitCount()).
		Str("algorithm", alg.Name()).
		Msg("algorithm selected")

	switch alg {
	case TRIAL_DIVISION:
		if p, q, ok := TrialDivision(n, 0); ok {
			return p, q, nil
		}
		log.Info().Msg("trial division found no factor, falling back to Pollard rho")
		if p, q, ok := PollardRho(n, rhoIterations); ok {
			return p, q, nil
		}
		return nil, nil, gerr.New(gerr.ErrNoFactor, "%s may be prime", n)

	case POLLARD_RHO:
		if p, q, ok := PollardRho(n, rhoIterations); ok {
			return p, q, nil
		}
		return nil, nil, gerr.New(gerr.ErrNoFactor, "pollard rho iteration cap reached")

	case QUADRATIC_SIEVE:
		if p, q, ok := SIQS(n); ok {
			return p, q, nil
		}
		log.Info().Msg("SIQS failed, falling back to Pollard rho")
		if p, q, ok := PollardRho(n, 10*rhoIterations); ok {
			return p, q, nil
		}
		return nil, nil, gerr.New(gerr.ErrNoFactor, "quadratic sieve and rho fallback failed")

	default:
		return nil, nil, gerr.New(gerr.ErrNoFactor, "number requires the GNFS pipeline driver")
	}
}
