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

package threads

import (
	"io"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

type sample struct {
	program *ir.Program
	methods map[string]*ir.Method
	spawns  map[string]*ir.Spawn
}

// buildSample builds:
//
//	main()   { helper(); spawn f1(); loop: spawn f2(); goto loop }
//	f1()     { f11() }
//	f2()     { f13() }
//	helper() { }
//	unused() { spawn f1() }
func buildSample(t *testing.T) sample {
	b := ir.NewBuilder()
	c := b.Class("Main")
	mb := map[string]*ir.MethodBuilder{}
	for _, name := range []string{"main", "f1", "f11", "f2", "f13", "helper", "unused"} {
		mb[name] = b.StaticMethod(c, name)
	}
	m := func(name string) *ir.Method { return mb[name].Method() }
	spawns := map[string]*ir.Spawn{}

	mb["main"].Call(nil, m("helper"))
	spawns["f1"] = mb["main"].Spawn([]*ir.Method{m("f1")})
	spawns["f2"] = mb["main"].Spawn([]*ir.Method{m("f2")})
	mb["main"].Branch(spawns["f2"], spawns["f2"])

	mb["f1"].Call(nil, m("f11"))
	mb["f1"].Return(nil)
	mb["f11"].Return(nil)
	mb["f2"].Call(nil, m("f13"))
	mb["f2"].Return(nil)
	mb["f13"].Return(nil)
	mb["helper"].Return(nil)
	spawns["unused"] = mb["unused"].Spawn([]*ir.Method{m("f1")})

	b.Entry(m("main"))
	p, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	methods := map[string]*ir.Method{}
	for name := range mb {
		methods[name] = m(name)
	}
	return sample{program: p, methods: methods, spawns: spawns}
}

func compute(t *testing.T, s sample) *Graph {
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return Compute(logger, ir.NewGraphProvider(s.program), s.program.Entries)
}

func TestColors(t *testing.T) {
	s := buildSample(t)
	g := compute(t, s)
	if len(g.Ids) != 3 {
		t.Fatalf("expected the main thread and 2 spawned threads, got %d ids", len(g.Ids))
	}
	if _, ok := g.SpawnIDs[s.spawns["unused"]]; ok {
		t.Errorf("spawns of unreachable methods have no thread")
	}
	main := g.Threads(s.methods["main"])
	if len(main) != 1 || !main[Main] {
		t.Errorf("main should run in the main thread only, got %v", main)
	}
	if !g.Threads(s.methods["helper"])[Main] {
		t.Errorf("helper should run in the main thread")
	}
	id1 := g.SpawnIDs[s.spawns["f1"]]
	if got := g.Threads(s.methods["f11"]); len(got) != 1 || !got[id1] {
		t.Errorf("f11 should run in f1's thread only, got %v", got)
	}
	id2 := g.SpawnIDs[s.spawns["f2"]]
	if got := g.Threads(s.methods["f13"]); len(got) != 1 || !got[id2] {
		t.Errorf("f13 should run in f2's thread only, got %v", got)
	}
	if g.Threads(s.methods["unused"]) != nil {
		t.Errorf("unused is not reachable")
	}
}

func TestMultiInstance(t *testing.T) {
	s := buildSample(t)
	g := compute(t, s)
	id1 := g.SpawnIDs[s.spawns["f1"]]
	id2 := g.SpawnIDs[s.spawns["f2"]]
	if g.MultiInstance(id1) {
		t.Errorf("f1 is spawned once")
	}
	if !g.MultiInstance(id2) {
		t.Errorf("f2 is spawned in a loop")
	}
	if !g.RunsManyTimes(s.methods["f13"]) {
		t.Errorf("f13 runs in a multi-instance thread")
	}
	if g.RunsManyTimes(s.methods["f11"]) || g.RunsManyTimes(s.methods["main"]) {
		t.Errorf("f11 and main run once")
	}
}

func TestMayRunConcurrently(t *testing.T) {
	s := buildSample(t)
	g := compute(t, s)
	m := s.methods
	if !g.MayRunConcurrently(m["main"], m["f11"]) {
		t.Errorf("main and f11 run in different threads")
	}
	if g.MayRunConcurrently(m["main"], m["helper"]) {
		t.Errorf("main and helper run in the main thread only")
	}
	if g.MayRunConcurrently(m["f1"], m["f11"]) {
		t.Errorf("f1 and f11 run in the same single-instance thread")
	}
	if !g.MayRunConcurrently(m["f13"], m["f13"]) {
		t.Errorf("f13 runs in several instances of the same thread")
	}
	if g.MayRunConcurrently(m["unused"], m["main"]) {
		t.Errorf("unreachable methods do not run")
	}
}
