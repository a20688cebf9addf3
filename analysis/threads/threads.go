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

// Package threads computes the thread graph of a program: for each method, the threads it may execute in. Thread 0
// is the main thread running the entry methods, and each Spawn statement starts a thread with its own id.
package threads

import (
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/internal/formatutil"
	"github.com/awslabs/ar-go-deps/internal/graphutil"
)

// Main is the id of the main thread
const Main uint32 = 0

// Graph is the thread graph of a program
type Graph struct {
	// Ids contains the spawn statements indexed by thread id. Ids[0] is always nil
	Ids []*ir.Spawn

	// SpawnIDs maps spawn statements to thread ids. The ids are >= 1, and such that for some spawn statement s,
	// Ids[SpawnIDs[s]] == s
	SpawnIDs map[*ir.Spawn]uint32

	// Colors maps each reachable method to the set of thread ids it may run in
	Colors map[*ir.Method]map[uint32]bool

	// multi contains the ids of the threads that may have several running instances
	multi map[uint32]bool

	// manyTimes contains the methods that may be executed several times
	manyTimes map[*ir.Method]bool
}

// Compute computes the thread graph of the program reachable from the entries.
//
// The computation consists in:
//
// - a first pass to collect all the spawn statements of the reachable methods
//
// - a fixpoint on the call graph marking every method with the threads it may run in
//
// - a fixpoint computing the threads that may have several instances
func Compute(logger *config.LogGroup, provider ir.GraphProvider, entries []*ir.Method) *Graph {
	cg := provider.CallGraph()
	g := &Graph{
		Ids:       []*ir.Spawn{nil},
		SpawnIDs:  map[*ir.Spawn]uint32{},
		Colors:    map[*ir.Method]map[uint32]bool{},
		multi:     map[uint32]bool{},
		manyTimes: map[*ir.Method]bool{},
	}
	reachable := cg.Reachable(entries)
	for _, m := range reachable {
		for _, s := range m.Stmts {
			if spawn, ok := s.(*ir.Spawn); ok {
				g.SpawnIDs[spawn] = uint32(len(g.Ids))
				g.Ids = append(g.Ids, spawn)
				if logger != nil && logger.LogsDebug() {
					logger.Debugf("Spawn: %s", formatutil.SanitizeRepr(spawn))
				}
			}
		}
	}

	// A method is put into the queue every time the threads it may run in change.
	var que []*ir.Method
	for _, e := range entries {
		if g.Colors[e] == nil {
			g.Colors[e] = map[uint32]bool{Main: true}
			que = append(que, e)
		}
	}
	for len(que) != 0 {
		elt := que[0]
		que = que[1:]
		for _, s := range elt.Stmts {
			spawn, isSpawn := s.(*ir.Spawn)
			for _, callee := range ir.Callees(s) {
				add := false
				if g.Colors[callee] == nil {
					add = true
					g.Colors[callee] = map[uint32]bool{}
				}
				if isSpawn {
					// the callee runs in the thread started by the spawn
					id := g.SpawnIDs[spawn]
					if !g.Colors[callee][id] {
						add = true
						g.Colors[callee][id] = true
					}
				} else {
					for id := range g.Colors[elt] {
						if !g.Colors[callee][id] {
							add = true
							g.Colors[callee][id] = true
						}
					}
				}
				if add {
					que = append(que, callee)
				}
			}
		}
	}

	g.computeMultiInstances(provider, cg, reachable)
	if logger != nil {
		logger.Debugf("Thread graph: %d threads, %d multi-instance", len(g.Ids), len(g.multi))
	}
	return g
}

// computeMultiInstances computes which methods may run several times and which threads may have several instances.
// A thread has several instances if its spawn statement is on a control-flow cycle or its method may run several
// times. A method may run several times if it is on a call cycle, runs in several threads or in a multi-instance
// thread, or if it is called from several call sites or from a call site that may execute several times.
func (g *Graph) computeMultiInstances(provider ir.GraphProvider, cg *ir.CallGraph, reachable []*ir.Method) {
	inLoop := map[ir.Stmt]bool{}
	for _, m := range reachable {
		cfg := provider.CFG(m)
		indices := make([]int, len(m.Stmts))
		for i := range indices {
			indices[i] = i
		}
		for i := range graphutil.NodesOnCycles(indices, cfg.Successors) {
			inLoop[m.Stmts[i]] = true
		}
	}
	onCallCycle := graphutil.NodesOnCycles(reachable, cg.Callees)

	for changed := true; changed; {
		changed = false
		for id, spawn := range g.Ids {
			if id == 0 || g.multi[uint32(id)] {
				continue
			}
			if inLoop[spawn] || g.manyTimes[spawn.Method()] {
				g.multi[uint32(id)] = true
				changed = true
			}
		}
		for _, m := range reachable {
			if g.manyTimes[m] {
				continue
			}
			if g.runsManyTimes(m, cg, inLoop, onCallCycle) {
				g.manyTimes[m] = true
				changed = true
			}
		}
	}
}

func (g *Graph) runsManyTimes(m *ir.Method, cg *ir.CallGraph, inLoop map[ir.Stmt]bool,
	onCallCycle map[*ir.Method]bool) bool {
	if onCallCycle[m] || len(g.Colors[m]) > 1 {
		return true
	}
	for id := range g.Colors[m] {
		if g.multi[id] {
			return true
		}
	}
	sites := 0
	for _, site := range cg.CallSites(m) {
		caller := site.Method()
		if g.Colors[caller] == nil {
			// unreachable caller
			continue
		}
		sites++
		if inLoop[site] || g.manyTimes[caller] {
			return true
		}
	}
	return sites > 1
}

// Threads returns the ids of the threads m may run in
func (g *Graph) Threads(m *ir.Method) map[uint32]bool {
	return g.Colors[m]
}

// MultiInstance returns true if thread id may have several running instances
func (g *Graph) MultiInstance(id uint32) bool {
	return g.multi[id]
}

// RunsManyTimes returns true if m may be executed several times during one run of the program
func (g *Graph) RunsManyTimes(m *ir.Method) bool {
	return g.manyTimes[m]
}

// MayRunConcurrently returns true if m1 and m2 may run in different threads at the same time: they run in two
// different threads, or in the same multi-instance thread.
func (g *Graph) MayRunConcurrently(m1, m2 *ir.Method) bool {
	for t1 := range g.Colors[m1] {
		for t2 := range g.Colors[m2] {
			if t1 != t2 || g.multi[t1] {
				return true
			}
		}
	}
	return false
}
