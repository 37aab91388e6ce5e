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

package arith

import (
	"errors"
)

// Error codes
var (
	ErrNoResidue = errors.New("no quadratic residue")
)

// Legendre computes the Legendre symbol of an Int modulo p: the result
// is 1 for a (nonzero) quadratic residue, -1 for a non-residue and 0
// for i ≡ 0 (mod p).
func (i *Int) Legendre(p *Int) int {
	x := i.ModPow(p.Sub(ONE).Rsh(1), p)
	if x.IsZero() {
		return 0
	}
	if x.IsOne() {
		return 1
	}
	return -1
}

// IsQuadraticResidue checks Euler's criterion a^((p-1)/2) ≡ 1 (mod p).
func IsQuadraticResidue(a, p *Int) bool {
	return a.Legendre(p) == 1
}

// LegendreSearch finds a value x >= start with the requested Legendre
// symbol (-1, 0 or 1) modulo m. The small primes 2..71 that are >= start
// are tried first, in ascending order; a linear scan from start follows
// only if none of them matches. The result is therefore not always the
// smallest such value: a smaller composite candidate is not considered
// while a small prime matches.
func LegendreSearch(start, m *Int, goal int) (*Int, error) {
	if goal < -1 || goal > 1 {
		return nil, errors.New("goal may only be -1, 0 or 1")
	}
	smalls := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}
	for _, c := range smalls {
		cand := NewInt(c)
		if cand.Cmp(start) >= 0 && cand.Legendre(m) == goal {
			return cand, nil
		}
	}
	counter := NewIntFromBig(start.v)
	max := counter.Add(m).Add(ONE)
	for counter.Cmp(max) <= 0 {
		if counter.Legendre(m) == goal {
			return counter, nil
		}
		counter = counter.Add(ONE)
	}
	return nil, errors.New("no value with matching Legendre symbol found")
}

// SqrtModP computes the square root of a quadratic residue modulo a
// prime p with the Shanks-Tonelli algorithm.
func SqrtModP(a, p *Int) (*Int, error) {
	a = a.Mod(p)
	if !IsQuadraticResidue(a, p) {
		return nil, ErrNoResidue
	}
	// p ≡ 3 (mod 4): direct solution
	if p.Mod(FOUR).Equals(THREE) {
		return a.ModPow(p.Add(ONE).Rsh(2), p), nil
	}
	// factor p-1 = m * 2^s with m odd
	s := 0
	p1 := p.Sub(ONE)
	m := p1
	for m.Bit(0) == 0 {
		s++
		m = m.Rsh(1)
	}
	// find a non-residue z
	z := TWO
	for IsQuadraticResidue(z, p) {
		z = z.Add(ONE)
	}
	c := z.ModPow(m, p)
	u := a.ModPow(m, p)
	r := a.ModPow(m.Add(ONE).Rsh(1), p)
	if s < 2 {
		return r, nil
	}
	pow := ONE.Lsh(uint(s - 2))
	for i := 1; i < s; i++ {
		c2 := c.Mul(c).Mod(p)
		if u.ModPow(pow, p).Equals(p1) {
			u = u.Mul(c2).Mod(p)
			r = r.Mul(c).Mod(p)
		}
		pow = pow.Rsh(1)
		c = c2
	}
	return r, nil
}

// CRT combines residues by the Chinese remainder theorem: the result x
// satisfies x ≡ values[i] (mod primes[i]) for all i, with x reduced
// modulo the product of all primes.
func CRT(primes, values []*Int) (*Int, error) {
	if len(primes) != len(values) {
		return nil, errors.New("mismatched residue count")
	}
	prod := ONE
	for _, p := range primes {
		prod = prod.Mul(p)
	}
	z := ZERO
	for i, p := range primes {
		pj := prod.Div(p)
		aj := pj.ModInverse(p)
		if aj == nil {
			return nil, errors.New("moduli are not coprime")
		}
		z = z.Add(values[i].Mul(aj).Mul(pj))
	}
	return z.Mod(prod), nil
}
