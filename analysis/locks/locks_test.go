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

package locks

import (
	"context"
	"io"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/escape"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

type sample struct {
	program *ir.Program
	stmts   map[string]ir.Stmt
	sync    *ir.Method
}

// buildSample builds a main thread and a worker that both lock the shared object o1, and a synchronized method
// plus an explicit monitor on objects that do not escape.
func buildSample(t *testing.T) sample {
	b := ir.NewBuilder()
	c := b.Class("Main")
	a := b.Class("A")
	main := b.StaticMethod(c, "main")
	worker := b.StaticMethod(c, "worker", a.Type())
	sync := b.Method(a, "m").Synchronized().ThisPointsTo("a1")

	x := main.Local("x", a.Type(), "o1")
	l := main.Local("l", a.Type(), "o2")
	obj := main.Local("obj", a.Type(), "a1")
	stmts := map[string]ir.Stmt{}
	main.Spawn([]*ir.Method{worker.Method()}, x)
	stmts["main-enter-x"] = main.Enter(x)
	main.Exit(x)
	stmts["main-enter-l"] = main.Enter(l)
	main.Exit(l)
	main.Call(nil, sync.Method(), obj)
	main.Return(nil)

	p := worker.Local("p", a.Type(), "o1")
	stmts["worker-enter-p"] = worker.Enter(p)
	worker.Exit(p)
	worker.Return(nil)

	sync.Plain("body")
	sync.Return(nil)

	b.Entry(main.Method())
	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return sample{program: prog, stmts: stmts, sync: sync.Method()}
}

func runLocks(t *testing.T, s sample) (*Analysis, *controller.AnalysesController) {
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	c := controller.NewAnalysesController(controller.NewContext(cfg, logger, s.program), nil)
	a := New()
	c.SetAnalyses(ID, a)
	c.SetAnalyses(escape.ID, escape.New())
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !a.IsStable() {
		t.Fatalf("lock analysis should be stable")
	}
	return a, c
}

func TestLockClasses(t *testing.T) {
	s := buildSample(t)
	a, _ := runLocks(t, s)
	if n := len(a.Sites()); n != 4 {
		t.Fatalf("expected 4 sites, got %d", n)
	}
	pool := ir.NewLocationPool()
	mainX := pool.At(s.stmts["main-enter-x"])
	class := a.LockSitesInClassOf(mainX)
	if len(class) != 2 || class[0].First() != s.stmts["main-enter-x"] || class[1].First() != s.stmts["worker-enter-p"] {
		t.Errorf("unexpected class of x: %v", class)
	}
	nonSingleton := a.NonSingletonLockSites()
	if len(nonSingleton) != 2 {
		t.Errorf("expected 2 non-singleton sites, got %v", nonSingleton)
	}
	if got := a.LockSitesInClassOf(pool.MethodLocation(s.sync)); len(got) != 1 {
		t.Errorf("the synchronized method should be alone in its class, got %v", got)
	}
	if got := a.LockSitesInClassOf(pool.At(s.stmts["main-enter-l"])); len(got) != 1 {
		t.Errorf("the local monitor should be alone in its class, got %v", got)
	}
	if len(a.Classes()) != 3 {
		t.Errorf("expected 3 classes, got %d", len(a.Classes()))
	}
}

func TestNotASite(t *testing.T) {
	s := buildSample(t)
	a, _ := runLocks(t, s)
	pool := ir.NewLocationPool()
	if got := a.LockSitesInClassOf(pool.MethodLocation(s.program.Entries[0])); got != nil {
		t.Errorf("main is not synchronized, got %v", got)
	}
}

func TestExecuteAgainKeepsClasses(t *testing.T) {
	s := buildSample(t)
	a, c := runLocks(t, s)
	before := len(a.Classes())
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("second execute failed: %v", err)
	}
	if after := len(a.Classes()); after != before {
		t.Errorf("a second execution changed the lock classes: %d before, %d after", before, after)
	}
	if n := len(a.Sites()); n != 4 {
		t.Errorf("expected 4 sites after a second execution, got %d", n)
	}
}
