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

package controller

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

// countingAnalysis increments a counter up to its height. It waits for dependsOn to be stable before making any
// progress, and each Analyze call climbs to the top of its lattice.
type countingAnalysis struct {
	height    int
	value     int
	analyzed  int
	dependsOn Analysis
	initErr   error
	resets    int
	pre       *methodCounter
}

func (a *countingAnalysis) Initialize(*Context) error { return a.initErr }

func (a *countingAnalysis) Analyze() {
	a.analyzed++
	if a.dependsOn != nil && !a.dependsOn.IsStable() {
		return
	}
	for a.value < a.height {
		a.value++
	}
}

func (a *countingAnalysis) IsStable() bool { return a.value == a.height && a.analyzed > 0 }

func (a *countingAnalysis) Reset() {
	a.value = 0
	a.analyzed = 0
	a.resets++
}

func (a *countingAnalysis) PreProcessor() ir.Processor {
	if a.pre == nil {
		return nil
	}
	return a.pre
}

type methodCounter struct {
	ir.BaseProcessor
	methods int
}

func (m *methodCounter) ProcessMethod(*ir.Method) { m.methods++ }

// stuckAnalysis never becomes stable
type stuckAnalysis struct {
	countingAnalysis
}

func (a *stuckAnalysis) IsStable() bool { return false }

func newTestContext(t *testing.T) *Context {
	b := ir.NewBuilder()
	c := b.Class("Main")
	callee := b.StaticMethod(c, "helper")
	callee.Return(nil)
	main := b.StaticMethod(c, "main")
	main.Call(nil, callee.Method())
	main.Return(nil)
	b.Entry(main.Method())
	p, err := b.Finalize()
	if err != nil {
		t.Fatalf("could not build program: %v", err)
	}
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return NewContext(cfg, logger, p)
}

func TestExecuteReachesFixpoint(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	first := &countingAnalysis{height: 3}
	second := &countingAnalysis{height: 2, dependsOn: first}
	third := &countingAnalysis{height: 5, dependsOn: second}
	// ids are visited in sorted order, so each pass unblocks one analysis
	c.SetAnalyses("a", third)
	c.SetAnalyses("b", second)
	c.SetAnalyses("c", first)

	if c.State() != Unregistered {
		t.Fatalf("expected unregistered state, got %s", c.State())
	}
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if c.State() != Initialized {
		t.Fatalf("expected initialized state, got %s", c.State())
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !c.IsStable() {
		t.Errorf("controller should be stable")
	}
	for _, a := range []*countingAnalysis{first, second, third} {
		if !a.IsStable() {
			t.Errorf("analysis of height %d is not stable (value %d)", a.height, a.value)
		}
	}
	if third.analyzed != 3 {
		t.Errorf("expected 3 calls to the last analysis, got %d", third.analyzed)
	}
	if first.analyzed != 1 {
		t.Errorf("stable analyses should not be analyzed again, got %d calls", first.analyzed)
	}
}

func TestExecuteTwice(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	first := &countingAnalysis{height: 2}
	second := &countingAnalysis{height: 1, dependsOn: first}
	c.SetAnalyses("a", second)
	c.SetAnalyses("b", first)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := c.Execute(context.Background()); err != nil {
			t.Fatalf("execute %d failed: %v", i, err)
		}
	}
	if first.analyzed != 1 || second.analyzed != 2 {
		t.Errorf("stable analyses should not be analyzed by a second execution, got %d and %d calls",
			first.analyzed, second.analyzed)
	}
	if !c.IsStable() {
		t.Errorf("controller should stay stable")
	}
}

func TestInitializeTwice(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	a := &countingAnalysis{height: 1, pre: &methodCounter{}}
	c.SetAnalyses("a", a)
	for i := 0; i < 2; i++ {
		if err := c.Initialize(); err != nil {
			t.Fatalf("initialize %d failed: %v", i, err)
		}
	}
	if a.pre.methods != 2 {
		t.Errorf("pre-processing should run once, visited %d methods", a.pre.methods)
	}
	c.Reset()
	c.SetAnalyses("a", a)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize after reset failed: %v", err)
	}
	if a.pre.methods != 4 {
		t.Errorf("pre-processing should run again after a reset, visited %d methods", a.pre.methods)
	}
}

func TestExecuteStopsWithoutProgress(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	stuck := &stuckAnalysis{}
	ok := &countingAnalysis{height: 1}
	c.SetAnalyses("stuck", stuck)
	c.SetAnalyses("ok", ok)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	// pass 1 stabilizes ok, pass 2 stabilizes nothing
	if stuck.analyzed != 2 {
		t.Errorf("expected 2 passes over the stuck analysis, got %d", stuck.analyzed)
	}
	if !c.IsStable() {
		t.Errorf("controller should be stable after the loop ends")
	}
}

func TestInitializeDropsFailingAnalyses(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	failing := &countingAnalysis{height: 1, initErr: errors.New("missing oracle"), pre: &methodCounter{}}
	good := &countingAnalysis{height: 1, pre: &methodCounter{}}
	c.SetAnalyses("dep", failing, good)
	c.SetAnalyses("other", &countingAnalysis{height: 1, initErr: errors.New("broken")})

	if err := c.Initialize(); err != nil {
		t.Fatalf("init failures should be recovered, got %v", err)
	}
	if got := c.Analyses("dep"); len(got) != 1 || got[0] != good {
		t.Errorf("only the good analysis should remain, got %v", got)
	}
	if len(c.Analyses("other")) != 0 {
		t.Errorf("the failing analysis should be removed")
	}
	if ids := c.IDs(); len(ids) != 1 || ids[0] != "dep" {
		t.Errorf("unexpected ids %v", ids)
	}
	errs := c.InitErrors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 init errors, got %d", len(errs))
	}
	var initErr *AnalysisInitError
	if !errors.As(errs[0], &initErr) || initErr.ID != "dep" || initErr.Unwrap().Error() != "missing oracle" {
		t.Errorf("unexpected init error %v", errs[0])
	}
	if failing.pre.methods != 0 {
		t.Errorf("the pre-processor of a dropped analysis should not run")
	}
	if good.pre.methods != 2 {
		t.Errorf("pre-processing should visit the 2 reachable methods once, got %d", good.pre.methods)
	}
}

func TestInitializeRequiresProgramAndEntries(t *testing.T) {
	c := NewAnalysesController(NewContext(nil, nil, nil), nil)
	if err := c.Initialize(); !errors.Is(err, ErrNoProgram) {
		t.Errorf("expected ErrNoProgram, got %v", err)
	}
	ctx := newTestContext(t)
	ctx.Entries = nil
	c = NewAnalysesController(ctx, nil)
	if err := c.Initialize(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
	if err := c.Execute(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx := newTestContext(t)
	c := NewAnalysesController(ctx, nil)
	a := &countingAnalysis{height: 1}
	c.SetAnalyses("a", a)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Execute(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
	if a.analyzed != 0 {
		t.Errorf("no analysis should run after cancellation")
	}
}

func TestReset(t *testing.T) {
	ctx := newTestContext(t)
	pc := ir.NewProcessingController()
	c := NewAnalysesController(ctx, pc)
	a := &countingAnalysis{height: 2, pre: &methodCounter{}}
	c.SetAnalyses("a", a)
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	cg := ctx.Provider.CallGraph()
	c.Reset()
	if a.resets != 1 {
		t.Errorf("analysis should be reset once, got %d", a.resets)
	}
	if len(c.IDs()) != 0 || c.State() != Unregistered {
		t.Errorf("controller should be empty and unregistered after reset")
	}
	if len(pc.Processors()) != 0 {
		t.Errorf("pre-processors should be unregistered")
	}
	if ctx.Provider.CallGraph() == cg {
		t.Errorf("graph provider should be reset")
	}
}

func TestContextInfo(t *testing.T) {
	ctx := newTestContext(t)
	if _, ok := ctx.Lookup("escape"); ok {
		t.Errorf("nothing should be published yet")
	}
	ctx.Publish("escape", 42)
	if x, ok := ctx.Lookup("escape"); !ok || x.(int) != 42 {
		t.Errorf("lookup should return the published value")
	}
}
