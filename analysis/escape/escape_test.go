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

package escape

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

type sample struct {
	program *ir.Program
	main    *ir.Method
	worker  *ir.Method
	refs    map[string]*ir.Ref
}

// buildSample builds:
//
//	main() { x = new o1; y = new o2; z = new o3; w = new o4; a = new o5
//	         x.f = y; z.f = w; Main.g = a; spawn worker(x) }
//	worker(p) { q = new o6; r = new o7; r.f = q; p.f = r }
func buildSample(t *testing.T) sample {
	b := ir.NewBuilder()
	c := b.Class("Main")
	node := b.Class("Node")
	f := b.Field(node, "f", node.Type(), false)
	g := b.Field(c, "g", node.Type(), true)
	main := b.StaticMethod(c, "main")
	worker := b.StaticMethod(c, "worker", node.Type())

	refs := map[string]*ir.Ref{}
	for i, name := range []string{"x", "y", "z", "w", "a"} {
		refs[name] = main.Local(name, node.Type(), []string{"o1", "o2", "o3", "o4", "o5"}[i])
	}
	main.FieldWrite(refs["x"], f, refs["y"])
	main.FieldWrite(refs["z"], f, refs["w"])
	main.FieldWrite(nil, g, refs["a"])
	main.Spawn([]*ir.Method{worker.Method()}, refs["x"])
	main.Return(nil)

	refs["p"] = worker.Local("p", node.Type(), "o1")
	refs["q"] = worker.Local("q", node.Type(), "o6")
	refs["r"] = worker.Local("r", node.Type(), "o7")
	// the store to r.f is before r escapes in program order: the fixpoint needs a second round
	worker.FieldWrite(refs["r"], f, refs["q"])
	worker.FieldWrite(refs["p"], f, refs["r"])
	worker.Return(nil)

	b.Entry(main.Method())
	p, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return sample{program: p, main: main.Method(), worker: worker.Method(), refs: refs}
}

func runEscape(t *testing.T, s sample) (*Analysis, *controller.Context) {
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	ctx := controller.NewContext(cfg, logger, s.program)
	c := controller.NewAnalysesController(ctx, nil)
	a := New()
	c.SetAnalyses(ID, a)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	return a, ctx
}

func TestEscapingObjects(t *testing.T) {
	s := buildSample(t)
	a, ctx := runEscape(t, s)
	if !a.IsStable() {
		t.Fatalf("analysis should be stable")
	}
	want := []string{"o1", "o2", "o5", "o6", "o7"}
	if got := a.EscapingObjects(); !reflect.DeepEqual(got, want) {
		t.Errorf("escaping objects: got %v, expected %v", got, want)
	}
	if a.Escapes("o3") || a.Escapes("o4") {
		t.Errorf("objects of main only should not escape")
	}
	if !a.Escapes(ir.ClassObjectPrefix + "Main") {
		t.Errorf("class objects always escape")
	}
	if x, ok := ctx.Lookup(ID); !ok || x != a {
		t.Errorf("analysis should be published in the context")
	}
}

func TestShared(t *testing.T) {
	s := buildSample(t)
	a, _ := runEscape(t, s)
	r := s.refs
	if !a.Shared(r["x"], s.main, r["p"], s.worker) {
		t.Errorf("x and p point to the escaping o1")
	}
	if a.Shared(r["z"], s.main, r["z"], s.main) {
		t.Errorf("z does not escape")
	}
	if a.Shared(r["x"], s.main, r["y"], s.main) {
		t.Errorf("x and y point to different objects")
	}
	unknown := &ir.Ref{Name: "u", Type: r["x"].Type}
	if !a.Shared(unknown, s.main, r["z"], s.main) {
		t.Errorf("unknown objects of the same type should be shared")
	}
	other := &ir.Ref{Name: "i", Type: ir.IntType}
	if a.Shared(other, s.main, r["z"], s.main) {
		t.Errorf("unknown objects of different types should not be shared")
	}
	if a.Shared(nil, s.main, r["x"], s.main) {
		t.Errorf("nil references are never shared")
	}
}

func TestReset(t *testing.T) {
	s := buildSample(t)
	a, _ := runEscape(t, s)
	a.Reset()
	if a.IsStable() || len(a.EscapingObjects()) != 0 {
		t.Errorf("reset should drop the results")
	}
}
