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

// A GraphProvider provides the graphs of a program shared by several analyses. Graphs are computed on demand and
// cached until Reset is called.
type GraphProvider interface {
	// CFG returns the control-flow graph of m. The node ids are the statement indices.
	CFG(m *Method) *graphutil.IndexGraph

	// CallGraph returns the call graph of the program
	CallGraph() *CallGraph

	// Reset drops the cached graphs
	Reset()
}

// SimpleGraphProvider computes graphs directly from the statements of the program.
type SimpleGraphProvider struct {
	program   *Program
	cfgs      map[*Method]*graphutil.IndexGraph
	callgraph *CallGraph
}

// NewGraphProvider returns a provider for the graphs of p
func NewGraphProvider(p *Program) *SimpleGraphProvider {
	return &SimpleGraphProvider{program: p, cfgs: map[*Method]*graphutil.IndexGraph{}}
}

// CFG returns the control-flow graph of m
func (gp *SimpleGraphProvider) CFG(m *Method) *graphutil.IndexGraph {
	if g, ok := gp.cfgs[m]; ok {
		return g
	}
	g := graphutil.NewIndexGraph(len(m.Stmts))
	for i, s := range m.Stmts {
		for _, j := range s.Succs() {
			g.AddEdge(i, j)
		}
	}
	gp.cfgs[m] = g
	return g
}

// CallGraph returns the call graph of the program
func (gp *SimpleGraphProvider) CallGraph() *CallGraph {
	if gp.callgraph == nil {
		gp.callgraph = NewCallGraph(gp.program)
	}
	return gp.callgraph
}

// Reset drops the cached graphs
func (gp *SimpleGraphProvider) Reset() {
	gp.cfgs = map[*Method]*graphutil.IndexGraph{}
	gp.callgraph = nil
}

// A ThreadGraph answers whether two methods may run at the same time in different threads
type ThreadGraph interface {
	MayRunConcurrently(m1, m2 *Method) bool
}
