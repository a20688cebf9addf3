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
	"testing"

	"github.com/yourbasic/graph"
)

func TestIndexGraphEdges(t *testing.T) {
	g := NewIndexGraph(4)
	if !g.AddEdge(0, 1) {
		t.Fatalf("adding a new edge should return true")
	}
	if g.AddEdge(0, 1) {
		t.Fatalf("adding an existing edge should return false")
	}
	g.AddEdge(1, 2)
	if !g.HasEdge(0, 1) || g.HasEdge(1, 0) {
		t.Errorf("edge direction is not respected")
	}
	if !g.HasEdgeBetween(1, 0) {
		t.Errorf("HasEdgeBetween should ignore direction")
	}
	if g.Edge(2, 1) != nil {
		t.Errorf("there is no edge 2 -> 1")
	}
	if e := g.Edge(1, 2); e == nil || e.From().ID() != 1 || e.To().ID() != 2 {
		t.Errorf("unexpected edge %v", e)
	}
}

func TestIndexGraphPathExists(t *testing.T) {
	g := NewIndexGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(3, 4)
	if !g.PathExists(0, 2) {
		t.Errorf("0 should reach 2")
	}
	if g.PathExists(2, 0) {
		t.Errorf("2 should not reach 0")
	}
	if g.PathExists(0, 4) {
		t.Errorf("0 should not reach 4")
	}
}

func TestIndexGraphNodesIterator(t *testing.T) {
	g := NewIndexGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	it := g.From(0)
	if it.Len() != 2 {
		t.Fatalf("expected 2 successors, got %d", it.Len())
	}
	var seen []int64
	for it.Next() {
		seen = append(seen, it.Node().ID())
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected successors %v", seen)
	}
	if it.Len() != 0 {
		t.Errorf("exhausted iterator should have length 0")
	}
}

func TestIndexGraphIsIterator(t *testing.T) {
	g := NewIndexGraph(4)
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(2, 3)
	components := graph.StrongComponents(g)
	if len(components) != 3 {
		t.Fatalf("expected 3 strongly connected components, got %v", components)
	}
	var reached []int
	graph.BFS(g, 0, func(_, w int, _ int64) { reached = append(reached, w) })
	if len(reached) != 1 || reached[0] != 1 {
		t.Errorf("unexpected BFS result %v", reached)
	}
}
