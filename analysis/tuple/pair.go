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

// Pair is an ordered pair of components.
//
// An optimized pair computes its hash and string representation once and caches them; an unoptimized pair
// recomputes them on every access, which is required when the components are mutated after construction.
// Equality never depends on the optimization mode.
type Pair[A, B comparable] struct {
	first     A
	second    B
	optimized bool
	hash      uint32
	str       string
}

// NewPair returns a new pair (a, b). If optimized is true, the hash and string are computed immediately.
func NewPair[A, B comparable](a A, b B, optimized bool) *Pair[A, B] {
	p := &Pair[A, B]{first: a, second: b}
	if optimized {
		p.SetOptimized()
	}
	return p
}

// First returns the first component of the pair
func (p *Pair[A, B]) First() A { return p.first }

// Second returns the second component of the pair
func (p *Pair[A, B]) Second() B { return p.second }

// IsOptimized returns true when the hash and string of the pair are cached
func (p *Pair[A, B]) IsOptimized() bool { return p.optimized }

// SetOptimized computes the hash and string of the pair and caches them until SetUnoptimized is called.
func (p *Pair[A, B]) SetOptimized() {
	p.optimized = true
	p.hash = combine(p.first, p.second)
	p.str = p.computeString()
}

// SetUnoptimized drops the cached hash and string.
func (p *Pair[A, B]) SetUnoptimized() {
	p.optimized = false
	p.hash = 0
	p.str = ""
}

// Hash returns the hash of the pair
func (p *Pair[A, B]) Hash() uint32 {
	if p.optimized {
		return p.hash
	}
	return combine(p.first, p.second)
}

func (p *Pair[A, B]) String() string {
	if p.optimized {
		return p.str
	}
	return p.computeString()
}

func (p *Pair[A, B]) computeString() string {
	return fmt.Sprintf("(%s, %s)", stringOf(p.first), stringOf(p.second))
}

// Equal returns true when other is a pair of the same type whose components are equal to p's.
func (p *Pair[A, B]) Equal(other any) bool {
	o, ok := other.(*Pair[A, B])
	if !ok || o == nil || p == nil {
		return ok && o == p
	}
	if p == o {
		return true
	}
	return equalComponent(p.first, o.first) && equalComponent(p.second, o.second)
}
