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

// Package interference implements the read/write interference dependence analysis: a read of a field or of an array
// element depends on the writes to the same field, or to an array with the same element type, when the written
// object may be the object read. Static fields are a single storage cell; for fields of aliasable types, the value
// read must be shared with the value written.
package interference

import (
	"fmt"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/escape"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

// ID is the id of the interference analysis in the analyses controller
const ID controller.ID = "interference"

// SharingOracle answers whether two references may point to the same object accessed by several threads.
type SharingOracle interface {
	Shared(r1 *ir.Ref, m1 *ir.Method, r2 *ir.Ref, m2 *ir.Method) bool
	IsStable() bool
}

type collector struct {
	ir.BaseProcessor
	ir.NoopStmtOp
	reads  []ir.Stmt
	writes []ir.Stmt
}

func (c *collector) ProcessStmt(s ir.Stmt) { ir.StmtSwitch(c, s) }

func (c *collector) DoFieldRead(s *ir.FieldRead)   { c.reads = append(c.reads, s) }
func (c *collector) DoArrayRead(s *ir.ArrayRead)   { c.reads = append(c.reads, s) }
func (c *collector) DoFieldWrite(s *ir.FieldWrite) { c.writes = append(c.writes, s) }
func (c *collector) DoArrayWrite(s *ir.ArrayWrite) { c.writes = append(c.writes, s) }

// Analysis is the interference dependence analysis. It waits for the escape analysis to be stable.
type Analysis struct {
	logger    *config.LogGroup
	oracle    SharingOracle
	collector *collector
	pool      *ir.LocationPool

	// dependees maps a read to the writes it depends on
	dependees map[ir.Location][]ir.Location
	// dependents maps a write to the reads depending on it
	dependents map[ir.Location][]ir.Location
	stable     bool
}

// New returns a new interference analysis
func New() *Analysis {
	a := &Analysis{collector: &collector{}, pool: ir.NewLocationPool()}
	a.Reset()
	return a
}

// Initialize looks up the escape oracle in the context. Fails if there is none.
func (a *Analysis) Initialize(ctx *controller.Context) error {
	x, ok := ctx.Lookup(escape.ID)
	if !ok {
		return fmt.Errorf("no escape oracle in the context")
	}
	oracle, ok := x.(SharingOracle)
	if !ok {
		return fmt.Errorf("escape information of type %T is not a sharing oracle", x)
	}
	a.oracle = oracle
	a.logger = ctx.Logger
	ctx.Publish(ID, a)
	return nil
}

// PreProcessor returns the processor collecting the reads and writes
func (a *Analysis) PreProcessor() ir.Processor { return a.collector }

// IsStable returns true once the dependences have been computed
func (a *Analysis) IsStable() bool { return a.stable }

// Reset drops the results and the statements collected
func (a *Analysis) Reset() {
	*a.collector = collector{}
	a.pool.Reset()
	a.dependees = map[ir.Location][]ir.Location{}
	a.dependents = map[ir.Location][]ir.Location{}
	a.stable = false
}

// Analyze computes the dependences if the escape oracle is stable
func (a *Analysis) Analyze() {
	if a.oracle == nil || !a.oracle.IsStable() {
		return
	}
	n := 0
	for _, r := range a.collector.reads {
		for _, w := range a.collector.writes {
			if a.interferes(r, w) {
				rl, wl := a.pool.At(r), a.pool.At(w)
				a.dependees[rl] = append(a.dependees[rl], wl)
				a.dependents[wl] = append(a.dependents[wl], rl)
				n++
			}
		}
	}
	a.stable = true
	if a.logger != nil {
		a.logger.Debugf("Interference analysis: %d edges between %d reads and %d writes",
			n, len(a.collector.reads), len(a.collector.writes))
	}
}

// interferes returns true if the value read by read may be the value written by write
func (a *Analysis) interferes(read, write ir.Stmt) bool {
	switch r := read.(type) {
	case *ir.FieldRead:
		w, ok := write.(*ir.FieldWrite)
		if !ok || w.Field != r.Field {
			return false
		}
		if !r.Field.Static {
			return a.oracle.Shared(r.Base, r.Method(), w.Base, w.Method())
		}
		// a static field is a single cell: only aliasable values need to be shared
		if r.Field.Type == nil || !r.Field.Type.Aliasable {
			return true
		}
		return a.oracle.Shared(r.Dest, r.Method(), w.Value, w.Method())
	case *ir.ArrayRead:
		w, ok := write.(*ir.ArrayWrite)
		if !ok || !ir.SameType(r.Elem, w.Elem) {
			return false
		}
		return a.oracle.Shared(r.Array, r.Method(), w.Array, w.Method())
	}
	return false
}

// Dependees returns the writes the statement s of m depends on
func (a *Analysis) Dependees(s ir.Stmt, m *ir.Method) []ir.Location {
	if l, ok := a.lookup(s, m); ok {
		return a.dependees[l]
	}
	return nil
}

// Dependents returns the reads depending on the statement s of m
func (a *Analysis) Dependents(s ir.Stmt, m *ir.Method) []ir.Location {
	if l, ok := a.lookup(s, m); ok {
		return a.dependents[l]
	}
	return nil
}

func (a *Analysis) lookup(s ir.Stmt, m *ir.Method) (ir.Location, bool) {
	if s == nil {
		return nil, false
	}
	return a.pool.Lookup(s, m)
}
