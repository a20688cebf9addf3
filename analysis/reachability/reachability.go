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

// Package reachability implements a control-flow reachability oracle over the interprocedural control-flow graph of
// a program.
//
// Each statement of the program is a point of the graph. The edges are the control-flow successors of the
// statements, the edges from calls and spawns to the first statement of their callees, and the edges from the exit
// statements of a method to the successors of all its call sites (returns are context insensitive).
// The points reachable from a source are computed once per source and memoized.
package reachability

import (
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/bits-and-blooms/bitset"
	"github.com/yourbasic/graph"
)

// Oracle answers reachability queries between statements and methods
type Oracle struct {
	logger *config.LogGroup
	cg     *ir.CallGraph
	graph  *graph.Mutable

	// base maps a method with statements to the point of its first statement
	base map[*ir.Method]int

	// cache maps a source point to the points reachable from it by a non-empty path
	cache map[int]*bitset.BitSet
}

// New builds the interprocedural control-flow graph of the methods of the call graph of the provider
func New(logger *config.LogGroup, provider ir.GraphProvider) *Oracle {
	cg := provider.CallGraph()
	o := &Oracle{logger: logger, cg: cg, base: map[*ir.Method]int{}, cache: map[int]*bitset.BitSet{}}
	n := 0
	for _, m := range cg.Methods() {
		if len(m.Stmts) > 0 {
			o.base[m] = n
			n += len(m.Stmts)
		}
	}
	o.graph = graph.New(n)
	edges := 0
	add := func(v, w int) {
		if !o.graph.Edge(v, w) {
			o.graph.Add(v, w)
			edges++
		}
	}
	for _, m := range cg.Methods() {
		b, ok := o.base[m]
		if !ok {
			continue
		}
		for i, s := range m.Stmts {
			for _, j := range s.Succs() {
				add(b+i, b+j)
			}
			for _, callee := range ir.Callees(s) {
				if e, ok := o.base[callee]; ok {
					add(b+i, e)
				}
			}
			if len(s.Succs()) > 0 {
				continue
			}
			// exit statement: control returns to the continuation of every call site
			for _, site := range cg.CallSites(m) {
				if _, isCall := site.(*ir.Call); !isCall {
					continue
				}
				sb, ok := o.base[site.Method()]
				if !ok {
					continue
				}
				for _, j := range site.Succs() {
					add(b+i, sb+j)
				}
			}
		}
	}
	if logger != nil {
		logger.Debugf("Reachability graph: %d points, %d edges", n, edges)
	}
	return o
}

// point returns the point of statement s of method m
func (o *Oracle) point(m *ir.Method, s ir.Stmt) (int, bool) {
	b, ok := o.base[m]
	if !ok {
		return -1, false
	}
	i, ok := ir.IndexOf(m, s)
	if !ok {
		return -1, false
	}
	return b + i, true
}

// reach returns the points reachable from p by a path of length at least one
func (o *Oracle) reach(p int) *bitset.BitSet {
	if r, ok := o.cache[p]; ok {
		return r
	}
	r := bitset.New(uint(o.graph.Order()))
	graph.BFS(o.graph, p, func(_, w int, _ int64) {
		r.Set(uint(w))
	})
	// the traversal does not revisit p: p reaches itself if it has an edge from p or from a point reachable from p
	if o.graph.Edge(p, p) {
		r.Set(uint(p))
	} else {
		for i, e := r.NextSet(0); e; i, e = r.NextSet(i + 1) {
			if o.graph.Edge(int(i), p) {
				r.Set(uint(p))
				break
			}
		}
	}
	o.cache[p] = r
	return r
}

func (o *Oracle) pathBetween(src, dst int) bool {
	return o.reach(src).Test(uint(dst))
}

// Reachable returns true if dstS in dstM may execute after srcS in srcM: there is a control-flow path from srcS to
// dstS, or the two methods may run concurrently according to tg. A statement follows itself only on a cycle or
// when its method may run concurrently with itself.
func (o *Oracle) Reachable(srcM *ir.Method, srcS ir.Stmt, dstM *ir.Method, dstS ir.Stmt, tg ir.ThreadGraph) bool {
	if tg != nil && tg.MayRunConcurrently(srcM, dstM) {
		return true
	}
	src, ok1 := o.point(srcM, srcS)
	dst, ok2 := o.point(dstM, dstS)
	return ok1 && ok2 && o.pathBetween(src, dst)
}

// PathExists returns true if dstM may start after srcM started: there is a chain of calls from srcM to dstM, or a
// control-flow path from the first statement of srcM to the first statement of dstM. A method follows itself only
// when it is on a call cycle or on a control-flow cycle.
func (o *Oracle) PathExists(srcM, dstM *ir.Method) bool {
	if srcM == dstM {
		for _, callee := range o.cg.Callees(srcM) {
			if o.cg.PathExists(callee, srcM) {
				return true
			}
		}
	} else if o.cg.PathExists(srcM, dstM) {
		return true
	}
	src, ok1 := o.base[srcM]
	dst, ok2 := o.base[dstM]
	return ok1 && ok2 && o.pathBetween(src, dst)
}

// ReachableFromStmt returns true if dstM may start after srcS in srcM executed. For a method without statements,
// one of its call sites must be srcS or reachable from srcS.
func (o *Oracle) ReachableFromStmt(srcM *ir.Method, srcS ir.Stmt, dstM *ir.Method) bool {
	src, ok := o.point(srcM, srcS)
	if !ok {
		return false
	}
	if dst, ok := o.base[dstM]; ok {
		return o.pathBetween(src, dst)
	}
	for _, site := range o.cg.CallSites(dstM) {
		if p, ok := o.point(site.Method(), site); ok && (p == src || o.pathBetween(src, p)) {
			return true
		}
	}
	return false
}

// ReachesStmt returns true if dstS in dstM may execute after srcM started. For a method without statements, some
// statement following one of its call sites must be dstS.
func (o *Oracle) ReachesStmt(srcM *ir.Method, dstM *ir.Method, dstS ir.Stmt) bool {
	dst, ok := o.point(dstM, dstS)
	if !ok {
		return false
	}
	if src, ok := o.base[srcM]; ok {
		return src == dst || o.pathBetween(src, dst)
	}
	for _, site := range o.cg.CallSites(srcM) {
		if p, ok := o.point(site.Method(), site); ok && o.pathBetween(p, dst) {
			return true
		}
	}
	return false
}

// CacheSize returns the number of sources whose reachable points are memoized
func (o *Oracle) CacheSize() int {
	return len(o.cache)
}
