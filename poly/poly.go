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

// Package poly implements sparse univariate polynomials over ℤ and
// ℤ/pℤ: a mapping from non-negative exponent to nonzero coefficient.
// Zero coefficients are never stored; the zero polynomial is the empty
// mapping. Polynomials are immutable once constructed.
package poly

import (
	"sort"
	"strings"

	"github.com/bfix/gnfs/arith"
)

// Term is a single (coefficient, exponent) pair.
type Term struct {
	Coeff *arith.Int
	Exp   int
}

// NewTerm assembles a term.
func NewTerm(coeff *arith.Int, exp int) Term {
	return Term{Coeff: coeff, Exp: exp}
}

// Polynomial is a sparse mapping from exponent to nonzero coefficient.
type Polynomial struct {
	terms map[int]*arith.Int
}

// New builds a polynomial from terms; zero coefficients are dropped,
// terms with equal exponent are combined.
func New(terms ...Term) *Polynomial {
	p := &Polynomial{terms: make(map[int]*arith.Int)}
	for _, t := range terms {
		if c, ok := p.terms[t.Exp]; ok {
			p.terms[t.Exp] = c.Add(t.Coeff)
		} else {
			p.terms[t.Exp] = t.Coeff
		}
	}
	p.prune()
	return p
}

// FromTerm builds a single-term polynomial.
func FromTerm(coeff *arith.Int, exp int) *Polynomial {
	return New(NewTerm(coeff, exp))
}

// Zero returns the zero polynomial.
func Zero() *Polynomial {
	return &Polynomial{terms: make(map[int]*arith.Int)}
}

// One returns the constant polynomial 1.
func One() *Polynomial {
	return FromTerm(arith.ONE, 0)
}

// X returns the monomial x.
func X() *Polynomial {
	return FromTerm(arith.ONE, 1)
}

// prune drops zero coefficients.
func (p *Polynomial) prune() {
	for e, c := range p.terms {
		if c.IsZero() {
			delete(p.terms, e)
		}
	}
}

// clone returns a mutable copy of the term map.
func (p *Polynomial) clone() map[int]*arith.Int {
	m := make(map[int]*arith.Int, len(p.terms))
	for e, c := range p.terms {
		m[e] = c
	}
	return m
}

// Degree is the largest stored exponent (0 for the zero polynomial).
func (p *Polynomial) Degree() int {
	d := 0
	for e := range p.terms {
		if e > d {
			d = e
		}
	}
	return d
}

// IsZero checks for the zero polynomial.
func (p *Polynomial) IsZero() bool {
	return len(p.terms) == 0
}

// Coeff returns the coefficient for an exponent (zero if absent).
func (p *Polynomial) Coeff(exp int) *arith.Int {
	if c, ok := p.terms[exp]; ok {
		return c
	}
	return arith.ZERO
}

// Terms returns the terms in ascending exponent order.
func (p *Polynomial) Terms() []Term {
	exps := make([]int, 0, len(p.terms))
	for e := range p.terms {
		exps = append(exps, e)
	}
	sort.Ints(exps)
	res := make([]Term, len(exps))
	for i, e := range exps {
		res[i] = Term{Coeff: p.terms[e], Exp: e}
	}
	return res
}

// Equals compares two polynomials; missing zero terms are ignored.
func (p *Polynomial) Equals(q *Polynomial) bool {
	return p.Cmp(q) == 0
}

// Cmp orders polynomials by degree, then lexicographically by
// coefficients from the highest exponent down.
func (p *Polynomial) Cmp(q *Polynomial) int {
	dp, dq := p.Degree(), q.Degree()
	if dp != dq {
		if dp < dq {
			return -1
		}
		return 1
	}
	for i := dp; i >= 0; i-- {
		if c := p.Coeff(i).Cmp(q.Coeff(i)); c != 0 {
			return c
		}
	}
	return 0
}

// Evaluate computes f(x) as an exact integer.
func (p *Polynomial) Evaluate(x *arith.Int) *arith.Int {
	// Horner over the sparse representation, highest exponent first.
	res := arith.ZERO
	last := -1
	for _, t := range reverseTerms(p) {
		if last >= 0 {
			res = res.Mul(x.Pow(last - t.Exp))
		}
		res = res.Add(t.Coeff)
		last = t.Exp
	}
	if last > 0 {
		res = res.Mul(x.Pow(last))
	}
	return res
}

// EvaluateHomogeneous computes b^d * f((±a)/b) as an exact integer
// without rational arithmetic: Σ c_i * (±a)^i * b^(d-i). This is the
// algebraic-norm kernel.
func (p *Polynomial) EvaluateHomogeneous(a, b *arith.Int, negateA bool) *arith.Int {
	d := p.Degree()
	if negateA {
		a = a.Neg()
	}
	res := arith.ZERO
	for e, c := range p.terms {
		res = res.Add(c.Mul(a.Pow(e)).Mul(b.Pow(d - e)))
	}
	return res
}

// reverseTerms returns terms in descending exponent order.
func reverseTerms(p *Polynomial) []Term {
	ts := p.Terms()
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
	return ts
}

// Add returns p+q.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	m := p.clone()
	for e, c := range q.terms {
		if old, ok := m[e]; ok {
			m[e] = old.Add(c)
		} else {
			m[e] = c
		}
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// Sub returns p-q.
func (p *Polynomial) Sub(q *Polynomial) *Polynomial {
	m := p.clone()
	for e, c := range q.terms {
		if old, ok := m[e]; ok {
			m[e] = old.Sub(c)
		} else {
			m[e] = c.Neg()
		}
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// MulNaive returns p*q by schoolbook convolution.
func (p *Polynomial) MulNaive(q *Polynomial) *Polynomial {
	m := make(map[int]*arith.Int)
	for e1, c1 := range p.terms {
		for e2, c2 := range q.terms {
			e := e1 + e2
			prod := c1.Mul(c2)
			if old, ok := m[e]; ok {
				m[e] = old.Add(prod)
			} else {
				m[e] = prod
			}
		}
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// Mul returns p*q, switching to Karatsuba above the degree cutoff.
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	if p.Degree() >= 2 && q.Degree() >= 2 {
		return karatsuba(p, q, nil)
	}
	return p.MulNaive(q)
}

// Square returns p*p.
func (p *Polynomial) Square() *Polynomial {
	return p.Mul(p)
}

// Product multiplies a list of polynomials.
func Product(polys []*Polynomial) *Polynomial {
	res := One()
	for _, p := range polys {
		res = res.Mul(p)
	}
	return res
}

// Derivative returns f'.
func (p *Polynomial) Derivative() *Polynomial {
	m := make(map[int]*arith.Int)
	for e, c := range p.terms {
		if e > 0 {
			m[e-1] = c.Mul(arith.NewInt(int64(e)))
		}
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// Divide returns quotient and remainder of p/q over ℤ. Only defined
// when each quotient coefficient divides exactly; callers needing
// field semantics use the prime-modular division instead.
func (p *Polynomial) Divide(q *Polynomial) (*Polynomial, *Polynomial) {
	if q.Degree() > p.Degree() || q.Cmp(p) > 0 {
		return Zero(), p
	}
	dq := q.Degree()
	lead := q.Coeff(dq)
	rem := p.clone()
	quot := make(map[int]*arith.Int)
	for i := p.Degree() - dq; i >= 0; i-- {
		cur, ok := rem[dq+i]
		if !ok || cur.IsZero() {
			continue
		}
		c := cur.Div(lead)
		quot[i] = c
		for e, qc := range q.terms {
			e += i
			sub := c.Mul(qc)
			if old, ok := rem[e]; ok {
				rem[e] = old.Sub(sub)
			} else {
				rem[e] = sub.Neg()
			}
		}
	}
	qp := &Polynomial{terms: quot}
	qp.prune()
	rp := &Polynomial{terms: rem}
	rp.prune()
	return qp, rp
}

// MakeMonic lifts f to a monic polynomial f̂ with f̂(m) = f(m): the
// excess of the leading coefficient is folded into the next lower
// term scaled by the base m.
func (p *Polynomial) MakeMonic(base *arith.Int) *Polynomial {
	d := p.Degree()
	lead := p.Coeff(d)
	if lead.Abs().Cmp(arith.ONE) <= 0 {
		return p
	}
	m := p.clone()
	m[d] = arith.ONE
	factor := lead.Sub(arith.ONE).Mul(base)
	if old, ok := m[d-1]; ok {
		m[d-1] = old.Add(factor)
	} else {
		m[d-1] = factor
	}
	r := &Polynomial{terms: m}
	r.prune()
	return r
}

// String formats the polynomial with descending exponents.
func (p *Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	var parts []string
	for _, t := range reverseTerms(p) {
		s := t.Coeff.String()
		switch {
		case t.Exp == 0:
			// constant term
		case t.Exp == 1:
			s += "*X"
		default:
			s += "*X^" + itoa(t.Exp)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " + ")
}

func itoa(v int) string {
	return arith.NewInt(int64(v)).String()
}
