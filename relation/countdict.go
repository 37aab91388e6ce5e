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

// Package relation implements the (a,b) relations of the number field
// sieve: norm computation, trial factorization over the factor bases,
// the sieve range generator and the spill-to-disk relation container.
package relation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CountDictionary maps a prime (or -1 for the sign) to its exponent.
// Serialization uses the canonical ordered form (keys ascending) with
// all numbers as decimal strings.
type CountDictionary map[int64]int64

// NewCountDictionary creates an empty dictionary.
func NewCountDictionary() CountDictionary {
	return make(CountDictionary)
}

// Add increments the count for a key.
func (cd CountDictionary) Add(key int64) {
	cd[key]++
}

// AddN increments the count for a key by n.
func (cd CountDictionary) AddN(key, n int64) {
	cd[key] += n
}

// Combine merges another dictionary by key-wise addition.
func (cd CountDictionary) Combine(other CountDictionary) {
	for k, v := range other {
		cd[k] += v
	}
}

// Clone returns a copy of the dictionary.
func (cd CountDictionary) Clone() CountDictionary {
	res := make(CountDictionary, len(cd))
	for k, v := range cd {
		res[k] = v
	}
	return res
}

// Keys returns the keys in ascending order.
func (cd CountDictionary) Keys() []int64 {
	keys := make([]int64, 0, len(cd))
	for k := range cd {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Equals compares two dictionaries.
func (cd CountDictionary) Equals(other CountDictionary) bool {
	if len(cd) != len(other) {
		return false
	}
	for k, v := range cd {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Factorization formats the dictionary as a product of prime powers.
func (cd CountDictionary) Factorization() string {
	var parts []string
	for _, k := range cd.Keys() {
		parts = append(parts, fmt.Sprintf("%d^%d", k, cd[k]))
	}
	return strings.Join(parts, " * ")
}

// MarshalJSON emits a JSON object with keys in ascending order and
// all values as decimal strings.
func (cd CountDictionary) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, k := range cd.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "%q:%q", strconv.FormatInt(k, 10), strconv.FormatInt(cd[k], 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the decimal-string object form.
func (cd *CountDictionary) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	res := make(CountDictionary, len(raw))
	for ks, vs := range raw {
		k, err := strconv.ParseInt(ks, 10, 64)
		if err != nil {
			return err
		}
		v, err := strconv.ParseInt(vs, 10, 64)
		if err != nil {
			return err
		}
		res[k] = v
	}
	*cd = res
	return nil
}
