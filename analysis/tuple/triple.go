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

import "fmt"

// Triple is an ordered triple of components. It follows the same optimization rules as Pair.
type Triple[A, B, C comparable] struct {
	first     A
	second    B
	third     C
	optimized bool
	hash      uint32
	str       string
}

// NewTriple returns a new triple (a, b, c). If optimized is true, the hash and string are computed immediately.
func NewTriple[A, B, C comparable](a A, b B, c C, optimized bool) *Triple[A, B, C] {
	t := &Triple[A, B, C]{first: a, second: b, third: c}
	if optimized {
		t.SetOptimized()
	}
	return t
}

// First returns the first component of the triple
func (t *Triple[A, B, C]) First() A { return t.first }

// Second returns the second component of the triple
func (t *Triple[A, B, C]) Second() B { return t.second }

// Third returns the third component of the triple
func (t *Triple[A, B, C]) Third() C { return t.third }

// IsOptimized returns true when the hash and string of the triple are cached
func (t *Triple[A, B, C]) IsOptimized() bool { return t.optimized }

// SetOptimized computes the hash and string of the triple and caches them.
func (t *Triple[A, B, C]) SetOptimized() {
	t.optimized = true
	t.hash = combine(t.first, t.second, t.third)
	t.str = t.computeString()
}

// SetUnoptimized drops the cached hash and string.
func (t *Triple[A, B, C]) SetUnoptimized() {
	t.optimized = false
	t.hash = 0
	t.str = ""
}

// Hash returns the hash of the triple
func (t *Triple[A, B, C]) Hash() uint32 {
	if t.optimized {
		return t.hash
	}
	return combine(t.first, t.second, t.third)
}

func (t *Triple[A, B, C]) String() string {
	if t.optimized {
		return t.str
	}
	return t.computeString()
}

func (t *Triple[A, B, C]) computeString() string {
	return fmt.Sprintf("(%s, %s, %s)", stringOf(t.first), stringOf(t.second), stringOf(t.third))
}

// Equal returns true when other is a triple of the same type whose components are equal to t's.
func (t *Triple[A, B, C]) Equal(other any) bool {
	o, ok := other.(*Triple[A, B, C])
	if !ok || o == nil || t == nil {
		return ok && o == t
	}
	if t == o {
		return true
	}
	return equalComponent(t.first, o.first) &&
		equalComponent(t.second, o.second) &&
		equalComponent(t.third, o.third)
}
