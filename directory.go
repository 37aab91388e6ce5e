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

// Package gnfs is the general number field sieve driver: it wires the
// integer backends, polynomial selection, factor bases, relation
// sieving, GF(2) elimination and the algebraic square root into one
// factorization pipeline, and persists progress under a working
// directory named after the number being factored.
package gnfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bfix/gnfs/arith"
)

// directory naming: long N is elided at both ends
const (
	showDigits = 22
	ellipsis   = "[...]"
)

// DirectoryLocations resolves all persisted-state file paths below the
// working directory of a factorization.
type DirectoryLocations struct {
	SaveDirectory       string
	ParametersFile      string
	RationalFactorPair  string
	AlgebraicFactorPair string
	QuadraticFactorPair string
	SmoothRelationsFile string
	RoughRelationsFile  string
}

// dirNameFor elides the middle of very long numbers so the directory
// name stays usable.
func dirNameFor(n *arith.Int) string {
	s := n.String()
	if len(s) > 2*showDigits {
		s = s[:showDigits] + ellipsis + s[len(s)-showDigits:]
	}
	return "gnfs_data_" + s
}

// NewDirectoryLocations derives the layout for a number below the
// given output root.
func NewDirectoryLocations(outputDir string, n *arith.Int) *DirectoryLocations {
	dir := filepath.Join(outputDir, dirNameFor(n))
	return &DirectoryLocations{
		SaveDirectory:       dir,
		ParametersFile:      filepath.Join(dir, "GNFS.json"),
		RationalFactorPair:  filepath.Join(dir, "RationalFactorPairCollection.json"),
		AlgebraicFactorPair: filepath.Join(dir, "AlgebraicFactorPairCollection.json"),
		QuadraticFactorPair: filepath.Join(dir, "QuadraticFactorPairCollection.json"),
		SmoothRelationsFile: filepath.Join(dir, "SmoothRelations.json"),
		RoughRelationsFile:  filepath.Join(dir, "RoughRelations.json"),
	}
}

// Ensure creates the working directory.
func (dl *DirectoryLocations) Ensure() error {
	return os.MkdirAll(dl.SaveDirectory, 0755)
}

// PolynomialFile names the save file of the num.th polynomial
// considered.
func (dl *DirectoryLocations) PolynomialFile(num int) string {
	return filepath.Join(dl.SaveDirectory, fmt.Sprintf("Polynomial.%02d", num))
}

// FreeRelationsFile names the save file of the k.th dependency
// solution set.
func (dl *DirectoryLocations) FreeRelationsFile(k int) string {
	return filepath.Join(dl.SaveDirectory, fmt.Sprintf("free_relations_%d.json", k))
}

// FreeRelationFiles enumerates existing solution-set files in order.
func (dl *DirectoryLocations) FreeRelationFiles() []string {
	matches, _ := filepath.Glob(filepath.Join(dl.SaveDirectory, "free_relations_*.json"))
	sort.Slice(matches, func(i, j int) bool {
		return freeIndex(matches[i]) < freeIndex(matches[j])
	})
	return matches
}

func freeIndex(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	idx, _ := strconv.Atoi(strings.TrimPrefix(base, "free_relations_"))
	return idx
}

// Cleanup removes the whole working directory.
func (dl *DirectoryLocations) Cleanup() error {
	return os.RemoveAll(dl.SaveDirectory)
}
