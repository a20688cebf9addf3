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
	"github.com/awslabs/ar-go-deps/internal/graphutil"
)

// CallGraph is the call graph of a program, derived from its Call and Spawn statements. Spawning a thread running m
// counts as calling m.
type CallGraph struct {
	methods []*Method
	index   map[*Method]int
	graph   *graphutil.IndexGraph
	sites   map[*Method][]Stmt
}

// NewCallGraph computes the call graph of p. Callees that are not declared by a class of p are added as nodes.
func NewCallGraph(p *Program) *CallGraph {
	cg := &CallGraph{index: map[*Method]int{}, sites: map[*Method][]Stmt{}}
	for _, m := range p.Methods() {
		cg.addNode(m)
	}
	for _, m := range p.Methods() {
		for _, s := range m.Stmts {
			for _, callee := range Callees(s) {
				cg.addNode(callee)
			}
		}
	}
	cg.graph = graphutil.NewIndexGraph(len(cg.methods))
	for _, m := range cg.methods {
		for _, s := range m.Stmts {
			for _, callee := range Callees(s) {
				cg.graph.AddEdge(cg.index[m], cg.index[callee])
				cg.sites[callee] = append(cg.sites[callee], s)
			}
		}
	}
	return cg
}

func (cg *CallGraph) addNode(m *Method) {
	if _, ok := cg.index[m]; !ok {
		cg.index[m] = len(cg.methods)
		cg.methods = append(cg.methods, m)
	}
}

// Methods returns the nodes of the call graph
func (cg *CallGraph) Methods() []*Method { return cg.methods }

// ID returns the node index of m in the call graph, and false if m is not in the graph
func (cg *CallGraph) ID(m *Method) (int, bool) {
	i, ok := cg.index[m]
	return i, ok
}

// Graph returns the index graph of the call graph, whose node ids are given by ID
func (cg *CallGraph) Graph() *graphutil.IndexGraph { return cg.graph }

// Callees returns the methods m may call or spawn, in order of first appearance in m
func (cg *CallGraph) Callees(m *Method) []*Method {
	return cg.lookup(m, cg.graph.Successors)
}

// Callers returns the methods that may call or spawn m
func (cg *CallGraph) Callers(m *Method) []*Method {
	return cg.lookup(m, cg.graph.Predecessors)
}

func (cg *CallGraph) lookup(m *Method, adj func(int) []int) []*Method {
	i, ok := cg.index[m]
	if !ok {
		return nil
	}
	var res []*Method
	for _, j := range adj(i) {
		res = append(res, cg.methods[j])
	}
	return res
}

// CallSites returns the Call and Spawn statements that may transfer control to m
func (cg *CallGraph) CallSites(m *Method) []Stmt {
	return cg.sites[m]
}

// PathExists returns true if there is a chain of calls, possibly empty, from src to dst
func (cg *CallGraph) PathExists(src, dst *Method) bool {
	i, ok1 := cg.index[src]
	j, ok2 := cg.index[dst]
	if !ok1 || !ok2 {
		return false
	}
	return cg.graph.PathExists(i, j)
}

// Reachable returns the methods reachable from the entries, in breadth-first order.
func (cg *CallGraph) Reachable(entries []*Method) []*Method {
	seen := map[*Method]bool{}
	var queue []*Method
	for _, e := range entries {
		if !seen[e] {
			seen[e] = true
			queue = append(queue, e)
		}
	}
	for i := 0; i < len(queue); i++ {
		for _, callee := range cg.Callees(queue[i]) {
			if !seen[callee] {
				seen[callee] = true
				queue = append(queue, callee)
			}
		}
	}
	return queue
}
