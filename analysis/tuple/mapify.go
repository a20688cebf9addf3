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

package tuple

// Mapify groups pairs into an adjacency map. If forward is true, each first component maps to the set of second
// components it is paired with; otherwise each second component maps to the set of first components.
// The result is an empty, non-nil map when pairs is empty.
func Mapify[T comparable](pairs []*Pair[T, T], forward bool) map[T]map[T]bool {
	if forward {
		return GroupByFirst(pairs)
	}
	return GroupBySecond(pairs)
}

// GroupByFirst maps each first component to the set of second components it is paired with.
func GroupByFirst[A, B comparable](pairs []*Pair[A, B]) map[A]map[B]bool {
	res := make(map[A]map[B]bool, len(pairs))
	for _, p := range pairs {
		s, ok := res[p.first]
		if !ok {
			s = map[B]bool{}
			res[p.first] = s
		}
		s[p.second] = true
	}
	return res
}

// GroupBySecond maps each second component to the set of first components it is paired with.
func GroupBySecond[A, B comparable](pairs []*Pair[A, B]) map[B]map[A]bool {
	res := make(map[B]map[A]bool, len(pairs))
	for _, p := range pairs {
		s, ok := res[p.second]
		if !ok {
			s = map[A]bool{}
			res[p.second] = s
		}
		s[p.first] = true
	}
	return res
}
