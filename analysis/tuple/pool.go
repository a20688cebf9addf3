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

type pairKey[A, B comparable] struct {
	a A
	b B
}

// PairPool returns canonical pairs: two calls to Intern with components equal according to == return the same
// instance. Pooled pairs are optimized, and live until Reset is called.
type PairPool[A, B comparable] struct {
	pairs map[pairKey[A, B]]*Pair[A, B]
}

// NewPairPool returns an empty pool
func NewPairPool[A, B comparable]() *PairPool[A, B] {
	return &PairPool[A, B]{pairs: map[pairKey[A, B]]*Pair[A, B]{}}
}

// Intern returns the pooled pair (a, b), inserting a new one if none exists.
func (p *PairPool[A, B]) Intern(a A, b B) *Pair[A, B] {
	k := pairKey[A, B]{a, b}
	if x, ok := p.pairs[k]; ok {
		return x
	}
	x := NewPair(a, b, true)
	p.pairs[k] = x
	return x
}

// Lookup returns the pooled pair (a, b) if it exists, without inserting it.
func (p *PairPool[A, B]) Lookup(a A, b B) (*Pair[A, B], bool) {
	x, ok := p.pairs[pairKey[A, B]{a, b}]
	return x, ok
}

// Len returns the number of pairs in the pool
func (p *PairPool[A, B]) Len() int { return len(p.pairs) }

// Reset removes all pairs from the pool. Pairs returned before the reset are not canonical anymore.
func (p *PairPool[A, B]) Reset() {
	p.pairs = map[pairKey[A, B]]*Pair[A, B]{}
}

type tripleKey[A, B, C comparable] struct {
	a A
	b B
	c C
}

// TriplePool is the pool of canonical triples. See PairPool.
type TriplePool[A, B, C comparable] struct {
	triples map[tripleKey[A, B, C]]*Triple[A, B, C]
}

// NewTriplePool returns an empty pool
func NewTriplePool[A, B, C comparable]() *TriplePool[A, B, C] {
	return &TriplePool[A, B, C]{triples: map[tripleKey[A, B, C]]*Triple[A, B, C]{}}
}

// Intern returns the pooled triple (a, b, c), inserting a new one if none exists.
func (p *TriplePool[A, B, C]) Intern(a A, b B, c C) *Triple[A, B, C] {
	k := tripleKey[A, B, C]{a, b, c}
	if x, ok := p.triples[k]; ok {
		return x
	}
	x := NewTriple(a, b, c, true)
	p.triples[k] = x
	return x
}

// Len returns the number of triples in the pool
func (p *TriplePool[A, B, C]) Len() int { return len(p.triples) }

// Reset removes all triples from the pool.
func (p *TriplePool[A, B, C]) Reset() {
	p.triples = map[tripleKey[A, B, C]]*Triple[A, B, C]{}
}
