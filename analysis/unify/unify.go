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

// Package unify implements a union-find structure for the unification of equivalence classes. Elements may be
// atomic or composite (with an ordered list of children that are unified structurally), and bound (carrying a type
// payload) or unbound.
//
// Elements live in an arena owned by a Table and are referred to by their NodeID. The representative of a node is
// a back-reference to another node of the same table; it does not own that node.
package unify

// NodeID identifies a node in a Table
type NodeID int

// NoNode is the representative of the root of a class
const NoNode NodeID = -1

type node struct {
	representative NodeID
	children       []NodeID
	bound          any
}

// Table is the arena of union-find nodes for one analysis session.
type Table struct {
	nodes    []node
	sameType func(a, b any) bool
}

// Option configures a Table
type Option func(*Table)

// WithSameType sets the function used by SameType to recognize type identity without structural unification.
// The function is called with the bound payloads of the two class representatives, which may be nil.
func WithSameType(f func(a, b any) bool) Option {
	return func(t *Table) { t.sameType = f }
}

// NewTable returns an empty table
func NewTable(options ...Option) *Table {
	t := &Table{}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NewNode adds a node with the given bound payload (nil for an unbound node) and children, and returns its id.
func (t *Table) NewNode(bound any, children ...NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		representative: NoNode,
		children:       append([]NodeID(nil), children...),
		bound:          bound,
	})
	return id
}

// Len returns the number of nodes in the table
func (t *Table) Len() int { return len(t.nodes) }

// Bind sets the bound payload of x
func (t *Table) Bind(x NodeID, bound any) { t.nodes[x].bound = bound }

// Bound returns the bound payload of x
func (t *Table) Bound(x NodeID) any { return t.nodes[x].bound }

// Children returns the children of x. The slice must not be modified.
func (t *Table) Children(x NodeID) []NodeID { return t.nodes[x].children }

// Representative returns the node x points to directly, or NoNode if x is the root of its class.
func (t *Table) Representative(x NodeID) NodeID { return t.nodes[x].representative }

// Find returns the representative of x's class.
//
// Only the link of x is updated to point to the root: nodes in between x and the root are left untouched. Callers
// may rely on this single-level compression; it is a possible inefficiency on long chains.
func (t *Table) Find(x NodeID) NodeID {
	root := x
	for t.nodes[root].representative != NoNode {
		root = t.nodes[root].representative
	}
	if root != x {
		t.nodes[x].representative = root
	}
	return root
}

// IsAtomic returns true if x has no children
func (t *Table) IsAtomic(x NodeID) bool { return len(t.nodes[x].children) == 0 }

// IsBound returns true if x carries a bound payload
func (t *Table) IsBound(x NodeID) bool { return t.nodes[x].bound != nil }

// SameType returns true if the table recognizes x and y as having the same type. Always false for tables built
// without WithSameType.
func (t *Table) SameType(x, y NodeID) bool {
	if t.sameType == nil {
		return false
	}
	return t.sameType(t.nodes[x].bound, t.nodes[y].bound)
}

// Unify unifies the classes of x and y, and returns false if they cannot be unified.
//
//   - two composite classes are merged and their children unified pairwise,
//   - if at least one class is unbound, the classes are merged,
//   - two atomic bound classes without the same type cannot be unified.
func (t *Table) Unify(x, y NodeID) bool {
	a := t.Find(x)
	b := t.Find(y)
	if a == b || t.SameType(a, b) {
		return true
	}
	if !t.IsAtomic(a) && !t.IsAtomic(b) {
		t.Union(a, b)
		return t.UnifyChildren(a, b)
	}
	if !(t.IsBound(a) && t.IsBound(b)) {
		t.Union(a, b)
		return true
	}
	return false
}

// UnifyChildren unifies the children of x and y pairwise. It fails when the number of children differ, or on the
// first pair of children that cannot be unified.
func (t *Table) UnifyChildren(x, y NodeID) bool {
	cx := t.nodes[x].children
	cy := t.nodes[y].children
	if len(cx) != len(cy) {
		return false
	}
	for i := len(cx) - 1; i >= 0; i-- {
		if !t.Unify(cx[i], cy[i]) {
			return false
		}
	}
	return true
}

// Union merges the classes of x and y. The root of a bound class always stays the representative, so that the
// type information of the class is kept.
func (t *Table) Union(x, y NodeID) {
	a := t.Find(x)
	b := t.Find(y)
	if a == b {
		return
	}
	if t.IsBound(b) {
		t.nodes[a].representative = b
	} else {
		t.nodes[b].representative = a
	}
}

// Equivalent returns true if x and y are in the same class
func (t *Table) Equivalent(x, y NodeID) bool {
	return t.Find(x) == t.Find(y)
}

// Classes returns the classes of the table, indexed by their representative. The members of each class are in
// increasing order of node id.
func (t *Table) Classes() map[NodeID][]NodeID {
	res := map[NodeID][]NodeID{}
	for i := range t.nodes {
		x := NodeID(i)
		r := t.Find(x)
		res[r] = append(res[r], x)
	}
	return res
}
