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

package ir

import (
	"github.com/awslabs/ar-go-deps/analysis/tuple"
)

// A Location is a program location: a statement with its enclosing method, or a method alone (the statement is
// nil) for facts about the whole method, such as the implicit monitor of a synchronized method.
// Locations obtained from the same LocationPool can be compared with ==.
type Location = *tuple.Pair[Stmt, *Method]

// IsMethodLocation returns true if l stands for a whole method
func IsMethodLocation(l Location) bool {
	return l.First() == nil
}

// LocationPool interns locations
type LocationPool struct {
	pool *tuple.PairPool[Stmt, *Method]
}

// NewLocationPool returns an empty pool
func NewLocationPool() *LocationPool {
	return &LocationPool{pool: tuple.NewPairPool[Stmt, *Method]()}
}

// At returns the location of the statement s in its method
func (p *LocationPool) At(s Stmt) Location {
	return p.pool.Intern(s, s.Method())
}

// Of returns the location (s, m). s may be nil.
func (p *LocationPool) Of(s Stmt, m *Method) Location {
	return p.pool.Intern(s, m)
}

// MethodLocation returns the location (nil, m)
func (p *LocationPool) MethodLocation(m *Method) Location {
	return p.pool.Intern(nil, m)
}

// Lookup returns the location (s, m) if it has been interned
func (p *LocationPool) Lookup(s Stmt, m *Method) (Location, bool) {
	return p.pool.Lookup(s, m)
}

// Canonical returns the location of the pool equal to l. Use it for locations obtained from other pools.
func (p *LocationPool) Canonical(l Location) Location {
	return p.pool.Intern(l.First(), l.Second())
}

// Len returns the number of locations interned
func (p *LocationPool) Len() int { return p.pool.Len() }

// Reset clears the pool
func (p *LocationPool) Reset() { p.pool.Reset() }
