// Copyright 2016 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package maps

import (
	"sort"

	"github.com/dreamtest/dreamtest/lang/natsort"
)

// Keys returns a map's keys as an unordered slice. Generic over any
// string-kinded key type, rather than requiring a reflect.Value walk over
// an interface{} the way a pre-generics version of this helper would.
func Keys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns a map's keys, lexicographically sorted.
func SortedKeys[K ~string, V any](m map[K]V) []K {
	keys := Keys(m)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// NaturalKeys returns a map's keys, natural sorted so "item2" sorts before
// "item10". See lang/natsort.
func NaturalKeys[K ~string, V any](m map[K]V) []K {
	keys := Keys(m)
	ss := make([]string, len(keys))
	for i, k := range keys {
		ss[i] = string(k)
	}
	natsort.Strings(ss)
	for i, s := range ss {
		keys[i] = K(s)
	}
	return keys
}
