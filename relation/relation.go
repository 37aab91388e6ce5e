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
	"encoding/json"
	"fmt"
	"math"

	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/poly"
)

// SieveContext carries the frozen per-run inputs of relation sieving:
// the polynomial, its base and the two factor bases (read-only after
// construction).
type SieveContext struct {
	Base            *arith.Int       // polynomial base m
	Poly            *poly.Polynomial // working polynomial f
	RationalPrimes  []int64          // rational factor-base primes
	AlgebraicPrimes []int64          // algebraic factor-base primes
}

// Relation is an (a,b) pair with its norms and partial factorizations
// over the factor bases. Entries are never mutated after sieving,
// except to flip the persistence marker.
type Relation[T backend.Num[T]] struct {
	A                 T
	B                 T
	RationalNorm      T
	AlgebraicNorm     T
	RationalQuotient  T
	AlgebraicQuotient T
	RationalFactors   CountDictionary
	AlgebraicFactors  CountDictionary
	IsPersisted       bool
}

// New builds an unsieved relation for the pair (a,b).
func New[T backend.Num[T]](a, b *arith.Int) (*Relation[T], bool) {
	var zero T
	av, ok := zero.FromArbitrary(a)
	if !ok {
		return nil, false
	}
	bv, ok := zero.FromArbitrary(b)
	if !ok {
		return nil, false
	}
	return &Relation[T]{
		A:                av,
		B:                bv,
		RationalFactors:  NewCountDictionary(),
		AlgebraicFactors: NewCountDictionary(),
	}, true
}

// IsSmooth reports whether both quotients factored down to one (or to
// zero by the absorbed-sign convention).
func (r *Relation[T]) IsSmooth() bool {
	return r.isRationalSmooth() && r.isAlgebraicSmooth()
}

func (r *Relation[T]) isRationalSmooth() bool {
	return r.RationalQuotient.IsOne() || r.RationalQuotient.IsZero()
}

func (r *Relation[T]) isAlgebraicSmooth() bool {
	return r.AlgebraicQuotient.IsOne() || r.AlgebraicQuotient.IsZero()
}

// Apply evaluates a + b*x in arbitrary precision.
func (r *Relation[T]) Apply(x *arith.Int) *arith.Int {
	return r.A.ToArbitrary().Add(r.B.ToArbitrary().Mul(x))
}

// markNotSmooth abandons the relation with a sentinel quotient.
func (r *Relation[T]) markNotSmooth() {
	var zero T
	r.RationalQuotient = zero.FromInt64(math.MaxInt64)
	r.AlgebraicQuotient = zero.FromInt64(math.MaxInt64)
}

// Sieve computes both norms and their factorizations over the factor
// bases. The rational side runs first; a rough rational quotient skips
// the algebraic norm entirely, which is the dominant early exit of the
// whole sieve. Any backend overflow abandons the relation.
func (r *Relation[T]) Sieve(ctx *SieveContext) {
	var zero T

	// rational norm: a + b*m
	ratNorm := r.Apply(ctx.Base)
	rn, ok := zero.FromArbitrary(ratNorm)
	if !ok {
		r.markNotSmooth()
		return
	}
	r.RationalNorm = rn
	if rn.Sign() < 0 {
		r.RationalFactors.Add(-1)
	}
	r.RationalQuotient = factorWithBase(rn.Abs(), ctx.RationalPrimes, r.RationalFactors)
	if !r.isRationalSmooth() {
		r.AlgebraicQuotient = zero.FromInt64(math.MaxInt64)
		return
	}

	// algebraic norm: b^d * f(-a/b), evaluated homogeneously
	algNorm := ctx.Poly.EvaluateHomogeneous(r.A.ToArbitrary(), r.B.ToArbitrary(), true)
	an, ok := zero.FromArbitrary(algNorm)
	if !ok {
		r.markNotSmooth()
		return
	}
	r.AlgebraicNorm = an
	if an.Sign() < 0 {
		r.AlgebraicFactors.Add(-1)
	}
	r.AlgebraicQuotient = factorWithBase(an.Abs(), ctx.AlgebraicPrimes, r.AlgebraicFactors)
}

// factorWithBase divides out every factor-base prime from value,
// recording exponents, and returns the remaining quotient. The zero
// value stays zero.
func factorWithBase[T backend.Num[T]](value T, base []int64, factors CountDictionary) T {
	var zero T
	if value.IsZero() {
		return value
	}
	quot := value
	for _, p := range base {
		pv := zero.FromInt64(p)
		for quot.Rem(pv).IsZero() {
			quot = quot.Div(pv)
			factors.Add(p)
		}
		if quot.IsOne() {
			break
		}
	}
	return quot
}

// String formats the relation for logs.
func (r *Relation[T]) String() string {
	return fmt.Sprintf("(a=%s, b=%s) rat=%s alg=%s",
		r.A.String(), r.B.String(), r.RationalNorm.String(), r.AlgebraicNorm.String())
}

///////////////////////////////////////////////////////////////////////
// Serialization: all integers travel as decimal strings so values
// round-trip regardless of parser limits.

type relationJSON struct {
	A                 string          `json:"a"`
	B                 string          `json:"b"`
	RationalNorm      string          `json:"rationalNorm"`
	AlgebraicNorm     string          `json:"algebraicNorm"`
	RationalQuotient  string          `json:"rationalQuotient"`
	AlgebraicQuotient string          `json:"algebraicQuotient"`
	RationalFactors   CountDictionary `json:"rationalFactorization"`
	AlgebraicFactors  CountDictionary `json:"algebraicFactorization"`
}

// MarshalJSON serializes via the arbitrary-precision view.
func (r *Relation[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(relationJSON{
		A:                 r.A.ToArbitrary().String(),
		B:                 r.B.ToArbitrary().String(),
		RationalNorm:      r.RationalNorm.ToArbitrary().String(),
		AlgebraicNorm:     r.AlgebraicNorm.ToArbitrary().String(),
		RationalQuotient:  r.RationalQuotient.ToArbitrary().String(),
		AlgebraicQuotient: r.AlgebraicQuotient.ToArbitrary().String(),
		RationalFactors:   r.RationalFactors,
		AlgebraicFactors:  r.AlgebraicFactors,
	})
}

// UnmarshalJSON restores a relation; it fails if a value does not fit
// the target backend.
func (r *Relation[T]) UnmarshalJSON(data []byte) error {
	var raw relationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var zero T
	conv := func(s string) (T, error) {
		v, ok := zero.FromArbitrary(arith.NewIntFromString(s))
		if !ok {
			return zero, fmt.Errorf("value %s exceeds backend capacity", s)
		}
		return v, nil
	}
	var err error
	if r.A, err = conv(raw.A); err != nil {
		return err
	}
	if r.B, err = conv(raw.B); err != nil {
		return err
	}
	if r.RationalNorm, err = conv(raw.RationalNorm); err != nil {
		return err
	}
	if r.AlgebraicNorm, err = conv(raw.AlgebraicNorm); err != nil {
		return err
	}
	if r.RationalQuotient, err = conv(raw.RationalQuotient); err != nil {
		return err
	}
	if r.AlgebraicQuotient, err = conv(raw.AlgebraicQuotient); err != nil {
		return err
	}
	r.RationalFactors = raw.RationalFactors
	if r.RationalFactors == nil {
		r.RationalFactors = NewCountDictionary()
	}
	r.AlgebraicFactors = raw.AlgebraicFactors
	if r.AlgebraicFactors == nil {
		r.AlgebraicFactors = NewCountDictionary()
	}
	r.IsPersisted = true
	return nil
}
