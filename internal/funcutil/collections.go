// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package funcutil contains small generic helpers over slices and map-represented sets.
package funcutil

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Union returns the union of map-represented sets a and b. This mutates map a
// @mutates a
func Union[T comparable](a map[T]bool, b map[T]bool) map[T]bool {
	for x, ok := range b {
		if ok {
			a[x] = true
		}
	}
	return a
}

// AddEdge adds y to the set a[x], creating that set if needed. Returns true if the set changed.
// @mutates a
func AddEdge[K comparable, V comparable](a map[K]map[V]bool, x K, y V) bool {
	s, ok := a[x]
	if !ok {
		s = map[V]bool{}
		a[x] = s
	}
	if s[y] {
		return false
	}
	s[y] = true
	return true
}

// Map returns a new slice b such for any i <= len(a), b[i] = f(a[i])
func Map[T any, S any](a []T, f func(T) S) []S {
	b := make([]S, 0, len(a))
	for _, x := range a {
		b = append(b, f(x))
	}
	return b
}

// MapInPlace iterates over all elements in the slice and call the function on that element to update it.
func MapInPlace[T any](a []T, f func(T) T) {
	for i, x := range a {
		a[i] = f(x)
	}
}

// Exists returns true when there exists some x in slice a such that f(x), otherwise false.
func Exists[T any](a []T, f func(T) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}

// Contains returns true when there is some y in slice a such that x == y
func Contains[T comparable](a []T, x T) bool {
	return Exists(a, func(y T) bool { return x == y })
}

// SetToOrderedSlice converts a set represented as a map from elements to booleans into a slice.
// Sorts the result in increasing order
func SetToOrderedSlice[T constraints.Ordered](set map[T]bool) []T {
	s := make([]T, 0, len(set))
	for r, b := range set {
		if b {
			s = append(s, r)
		}
	}
	slices.Sort(s)
	return s
}

// SortedKeys returns the keys of the map in increasing order.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Reverse returns the reversed slice
func Reverse[T any](a []T) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// EqualSetMaps returns true when a and b contain the same keys mapping to the same sets.
// A missing key and a key mapping to an empty set are considered equal.
func EqualSetMaps[K comparable, V comparable](a, b map[K]map[V]bool) bool {
	return setMapIncluded(a, b) && setMapIncluded(b, a)
}

func setMapIncluded[K comparable, V comparable](a, b map[K]map[V]bool) bool {
	for k, sa := range a {
		sb := b[k]
		for v, ok := range sa {
			if ok && !sb[v] {
				return false
			}
		}
	}
	return true
}

// EqualSets returns true when the two map-represented sets contain the same elements.
func EqualSets[T comparable](a, b map[T]bool) bool {
	for x, ok := range a {
		if ok && !b[x] {
			return false
		}
	}
	for x, ok := range b {
		if ok && !a[x] {
			return false
		}
	}
	return true
}
