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

package graphutil

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// IndexGraph is a directed graph over the nodes 0..n-1 that can be used with existing graph libraries. It implements
// the methods to satisfy yourbasic's graph.Iterator and Gonum's graph.Directed.
type IndexGraph struct {
	// adj[v] lists the successors of v in insertion order
	adj [][]int

	// preds[v] lists the predecessors of v in insertion order
	preds [][]int

	// edges[v][w] means there is a directed edge v -> w
	edges []map[int]bool
}

// NewIndexGraph returns a graph with n nodes and no edges.
func NewIndexGraph(n int) *IndexGraph {
	g := &IndexGraph{
		adj:   make([][]int, n),
		preds: make([][]int, n),
		edges: make([]map[int]bool, n),
	}
	for i := range g.edges {
		g.edges[i] = map[int]bool{}
	}
	return g
}

// AddEdge adds the directed edge v -> w. Returns false if the edge was already present.
func (g *IndexGraph) AddEdge(v, w int) bool {
	if g.edges[v][w] {
		return false
	}
	g.edges[v][w] = true
	g.adj[v] = append(g.adj[v], w)
	g.preds[w] = append(g.preds[w], v)
	return true
}

// HasEdge returns true if v -> w is an edge of the graph
func (g *IndexGraph) HasEdge(v, w int) bool {
	if v < 0 || v >= len(g.edges) {
		return false
	}
	return g.edges[v][w]
}

// Successors returns the successors of v. The slice must not be modified.
func (g *IndexGraph) Successors(v int) []int {
	return g.adj[v]
}

// Predecessors returns the predecessors of v. The slice must not be modified.
func (g *IndexGraph) Predecessors(v int) []int {
	return g.preds[v]
}

// Order implements the order of the graph.Iterator interface
func (g *IndexGraph) Order() int {
	return len(g.adj)
}

// Visit implements the graph.Iterator interface
func (g *IndexGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(g.adj) {
		return false
	}
	for _, w := range g.adj[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// PathExists returns true if there is a path of length >= 0 from v to w, using Gonum's breadth-first traversal.
func (g *IndexGraph) PathExists(v, w int) bool {
	return topo.PathExistsIn(g, IndexNode(v), IndexNode(w))
}

// *************** Graph interface implementation **********************

func (g *IndexGraph) inRange(id int64) bool {
	return id >= 0 && id < int64(len(g.adj))
}

// Node implements the Graph interface
func (g *IndexGraph) Node(id int64) graph.Node {
	if !g.inRange(id) {
		return nil
	}
	return IndexNode(id)
}

// Nodes returns the set of nodes in the graph
func (g *IndexGraph) Nodes() graph.Nodes {
	ids := make([]int, len(g.adj))
	for i := range ids {
		ids[i] = i
	}
	return newNodeSet(ids)
}

// From returns the set of nodes reachable in one step from the id
func (g *IndexGraph) From(id int64) graph.Nodes {
	if !g.inRange(id) {
		return newNodeSet(nil)
	}
	return newNodeSet(g.adj[id])
}

// To returns the set of nodes that reach id in one step
func (g *IndexGraph) To(id int64) graph.Nodes {
	if !g.inRange(id) {
		return newNodeSet(nil)
	}
	return newNodeSet(g.preds[id])
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *IndexGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns true if there is an edge from uid to vid
func (g *IndexGraph) HasEdgeFromTo(uid, vid int64) bool {
	return g.inRange(uid) && g.edges[uid][int(vid)]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *IndexGraph) Edge(uid, vid int64) graph.Edge {
	if g.HasEdgeFromTo(uid, vid) {
		return IndexEdge{from: IndexNode(uid), to: IndexNode(vid)}
	}
	return nil
}

// *************** Nodes implementation **********************

// IndexNode implements the graph.Node interface
type IndexNode int64

// ID returns the id of the node
func (n IndexNode) ID() int64 {
	return int64(n)
}

// nodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type nodeSet struct {
	ids []int

	// cur is the current index of the iterator. Iteration starts before the first element.
	// invariant: -1 <= cur <= len(ids)
	cur int
}

func newNodeSet(ids []int) *nodeSet {
	return &nodeSet{ids: ids, cur: -1}
}

// Next moves the current node to the next, and returns true if such a node exists.
func (ns *nodeSet) Next() bool {
	if ns.cur < len(ns.ids) {
		ns.cur++
	}
	return ns.cur < len(ns.ids)
}

// Len returns the number of nodes remaining in the iterator
func (ns *nodeSet) Len() int {
	if ns.cur >= len(ns.ids) {
		return 0
	}
	return len(ns.ids) - ns.cur - 1
}

// Reset resets the iterator to its initial state
func (ns *nodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node in the set, or nil if the iterator is not on a node
func (ns *nodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return IndexNode(ns.ids[ns.cur])
}

// *************** Edge implementation **********************

// IndexEdge implements the graph.Edge interface
type IndexEdge struct {
	from IndexNode
	to   IndexNode
}

// From returns the origin of the edge
func (e IndexEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e IndexEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e IndexEdge) ReversedEdge() graph.Edge {
	return IndexEdge{from: e.to, to: e.from}
}
