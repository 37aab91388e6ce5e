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

package gnfs

import (
	"encoding/json"
	"os"

	"github.com/bfix/gnfs/arith"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
)

///////////////////////////////////////////////////////////////////////
// Persisted state. All integer values are serialized as decimal
// strings so arbitrary-precision values round-trip regardless of
// parser limits.

// stateJSON is the GNFS.json layout.
type stateJSON struct {
	N                string `json:"n"`
	PolynomialBase   string `json:"polynomialBase"`
	PolynomialDegree int    `json:"polynomialDegree"`
	RationalMax      string `json:"rationalFactorBaseMax"`
	AlgebraicMax     string `json:"algebraicFactorBaseMax"`
	QuadraticMin     string `json:"quadraticFactorBaseMin"`
	QuadraticMax     string `json:"quadraticFactorBaseMax"`
	QuadraticCount   int    `json:"quadraticBaseCount"`
}

// polyJSON is one term of a Polynomial.NN file; zero coefficients are
// filtered out on write and re-inserted as needed on read.
type polyJSON struct {
	Coeff string `json:"coefficient"`
	Exp   int    `json:"exponent"`
}

// saveState writes the top-level parameters and all considered
// polynomials.
func (g *GNFS[T]) saveState() error {
	st := stateJSON{
		N:                g.N.String(),
		PolynomialBase:   g.Base.String(),
		PolynomialDegree: g.Degree,
		RationalMax:      g.Bounds.RationalMax.String(),
		AlgebraicMax:     g.Bounds.AlgebraicMax.String(),
		QuadraticMin:     g.Bounds.QuadraticMin.String(),
		QuadraticMax:     g.Bounds.QuadraticMax.String(),
		QuadraticCount:   g.Bounds.QuadraticCnt,
	}
	if err := writeJSON(g.Dirs.ParametersFile, st); err != nil {
		return err
	}
	for i, f := range g.Candidates {
		if err := writeJSON(g.Dirs.PolynomialFile(i), polyToJSON(f)); err != nil {
			return err
		}
	}
	if err := writeJSON(g.Dirs.RationalFactorPair, g.RationalFB); err != nil {
		return err
	}
	if err := writeJSON(g.Dirs.AlgebraicFactorPair, g.AlgebraicFB); err != nil {
		return err
	}
	return writeJSON(g.Dirs.QuadraticFactorPair, g.QuadraticFB)
}

// saveFreeRelations persists one dependency solution set.
func (g *GNFS[T]) saveFreeRelations(k int, rels []*relation.Relation[T]) error {
	return writeJSON(g.Dirs.FreeRelationsFile(k), rels)
}

// LoadState restores parameters, polynomial and factor bases from a
// working directory; the caller still selects the backend.
func LoadState(dirs *DirectoryLocations) (*StateRestore, error) {
	var st stateJSON
	if err := readJSON(dirs.ParametersFile, &st); err != nil {
		return nil, err
	}
	res := &StateRestore{
		N:      arith.NewIntFromString(st.N),
		Base:   arith.NewIntFromString(st.PolynomialBase),
		Degree: st.PolynomialDegree,
		Bounds: &factorbase.Bounds{
			RationalMax:  arith.NewIntFromString(st.RationalMax),
			AlgebraicMax: arith.NewIntFromString(st.AlgebraicMax),
			QuadraticMin: arith.NewIntFromString(st.QuadraticMin),
			QuadraticMax: arith.NewIntFromString(st.QuadraticMax),
			QuadraticCnt: st.QuadraticCount,
		},
	}
	// polynomial and factor bases may be absent (they are rebuilt from
	// the parameters then); a present but unreadable file is an error
	var terms []polyJSON
	if err := readJSONIfExists(dirs.PolynomialFile(0), &terms); err != nil {
		return nil, err
	}
	if len(terms) > 0 {
		res.Polynomial = polyFromJSON(terms)
	}
	if err := readJSONIfExists(dirs.RationalFactorPair, &res.RationalFB); err != nil {
		return nil, err
	}
	if err := readJSONIfExists(dirs.AlgebraicFactorPair, &res.AlgebraicFB); err != nil {
		return nil, err
	}
	if err := readJSONIfExists(dirs.QuadraticFactorPair, &res.QuadraticFB); err != nil {
		return nil, err
	}
	return res, nil
}

// StateRestore is the backend-independent part of a resumed run.
type StateRestore struct {
	N           *arith.Int
	Base        *arith.Int
	Degree      int
	Bounds      *factorbase.Bounds
	Polynomial  *poly.Polynomial
	RationalFB  factorbase.Collection
	AlgebraicFB factorbase.Collection
	QuadraticFB factorbase.Collection
}

// polyToJSON filters zero coefficients on write.
func polyToJSON(f *poly.Polynomial) []polyJSON {
	var res []polyJSON
	for _, t := range f.Terms() {
		if t.Coeff.IsZero() {
			continue
		}
		res = append(res, polyJSON{Coeff: t.Coeff.String(), Exp: t.Exp})
	}
	return res
}

// polyFromJSON rebuilds a polynomial from its term list.
func polyFromJSON(terms []polyJSON) *poly.Polynomial {
	list := make([]poly.Term, 0, len(terms))
	for _, t := range terms {
		list = append(list, poly.NewTerm(arith.NewIntFromString(t.Coeff), t.Exp))
	}
	return poly.New(list...)
}

///////////////////////////////////////////////////////////////////////
// helpers

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return gerr.New(gerr.ErrStorage, "marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return gerr.New(gerr.ErrStorage, "write %s", path)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return gerr.New(gerr.ErrStorage, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return gerr.New(gerr.ErrStorage, "parse %s", path)
	}
	return nil
}

// readJSONIfExists tolerates a missing file but surfaces read and
// parse failures.
func readJSONIfExists(path string, v any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return readJSON(path, v)
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		// best effort; a stale file only wastes space
		_ = err
	}
}
