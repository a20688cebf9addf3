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

// Package escape provides an escape analysis which computes which abstract objects of the program may be accessed by
// several threads. An object escapes when it is stored in a static field, when it is passed to a spawned thread, or
// when it is stored in a field or an array element of an escaping object. Class objects always escape.
//
// The analysis publishes itself under ID in the context of the run, and answers Shared queries for the
// dependence analyses.
package escape

import (
	"strings"
	"time"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
	"github.com/bits-and-blooms/bitset"
)

// ID is the id of the escape analysis in the analyses controller
const ID controller.ID = "escape"

// store is a heap store: the objects of value escape if the objects of base escape. A nil base is a static field
// and makes the objects of value escape unconditionally.
type store struct {
	base  *ir.Ref
	value *ir.Ref
}

// collector records the stores and the spawn arguments during the pre-processing traversal
type collector struct {
	ir.BaseProcessor
	ir.NoopStmtOp
	stores  []store
	spawned []*ir.Ref
	refs    []*ir.Ref
}

func (c *collector) ProcessStmt(s ir.Stmt)           { ir.StmtSwitch(c, s) }
func (c *collector) ProcessRef(r *ir.Ref, _ ir.Stmt) { c.refs = append(c.refs, r) }

func (c *collector) DoFieldWrite(s *ir.FieldWrite) {
	if s.Value != nil {
		c.stores = append(c.stores, store{base: s.Base, value: s.Value})
	}
}

func (c *collector) DoArrayWrite(s *ir.ArrayWrite) {
	if s.Value != nil {
		c.stores = append(c.stores, store{base: s.Array, value: s.Value})
	}
}

func (c *collector) DoSpawn(s *ir.Spawn) {
	c.spawned = append(c.spawned, s.Args...)
	for _, callee := range s.Callees {
		if callee.This != nil {
			c.spawned = append(c.spawned, callee.This)
		}
	}
}

// Analysis is the escape analysis. It is an analysis of the controller package.
type Analysis struct {
	logger    *config.LogGroup
	collector *collector

	// objects maps object labels to their index in escaped
	objects map[string]uint
	labels  []string
	escaped *bitset.BitSet
	stable  bool
}

// New returns a new escape analysis
func New() *Analysis {
	a := &Analysis{collector: &collector{}}
	a.Reset()
	return a
}

// Initialize publishes the analysis in the context
func (a *Analysis) Initialize(ctx *controller.Context) error {
	a.logger = ctx.Logger
	ctx.Publish(ID, a)
	return nil
}

// PreProcessor returns the processor that collects the heap stores
func (a *Analysis) PreProcessor() ir.Processor { return a.collector }

// IsStable returns true once the escaping objects have been computed
func (a *Analysis) IsStable() bool { return a.stable }

// Reset drops the results and the facts collected
func (a *Analysis) Reset() {
	*a.collector = collector{}
	a.objects = map[string]uint{}
	a.labels = nil
	a.escaped = bitset.New(0)
	a.stable = false
}

func (a *Analysis) id(label string) uint {
	if i, ok := a.objects[label]; ok {
		return i
	}
	i := uint(len(a.labels))
	a.objects[label] = i
	a.labels = append(a.labels, label)
	return i
}

// markAll marks the objects of r as escaping. Returns true if some object was not escaping before.
func (a *Analysis) markAll(r *ir.Ref) bool {
	changed := false
	for _, o := range r.Objects {
		i := a.id(o)
		if !a.escaped.Test(i) {
			a.escaped.Set(i)
			changed = true
		}
	}
	return changed
}

// mayEscape returns true if some object r points to escapes, or if the objects of r are unknown
func (a *Analysis) mayEscape(r *ir.Ref) bool {
	if len(r.Objects) == 0 {
		return true
	}
	for _, o := range r.Objects {
		if a.escaped.Test(a.id(o)) {
			return true
		}
	}
	return false
}

// Analyze propagates the escaping objects through the heap stores until a fixpoint is reached
func (a *Analysis) Analyze() {
	start := time.Now()
	for _, r := range a.collector.refs {
		for _, o := range r.Objects {
			if strings.HasPrefix(o, ir.ClassObjectPrefix) {
				a.escaped.Set(a.id(o))
			}
		}
	}
	for _, r := range a.collector.spawned {
		a.markAll(r)
	}
	rounds := 0
	for changed := true; changed; {
		changed = false
		rounds++
		for _, st := range a.collector.stores {
			if st.base == nil || a.mayEscape(st.base) {
				changed = a.markAll(st.value) || changed
			}
		}
	}
	a.stable = true
	if a.logger != nil {
		a.logger.Debugf("Escape analysis: %d of %d objects escape (%d rounds, %.2f s)",
			a.escaped.Count(), len(a.labels), rounds, time.Since(start).Seconds())
	}
}

// Escapes returns true if the object with the given label escapes. Class objects always escape.
func (a *Analysis) Escapes(label string) bool {
	if strings.HasPrefix(label, ir.ClassObjectPrefix) {
		return true
	}
	i, ok := a.objects[label]
	return ok && a.escaped.Test(i)
}

// EscapingObjects returns the labels of the escaping objects, sorted
func (a *Analysis) EscapingObjects() []string {
	res := map[string]bool{}
	for i, e := a.escaped.NextSet(0); e; i, e = a.escaped.NextSet(i + 1) {
		res[a.labels[i]] = true
	}
	return funcutil.SetToOrderedSlice(res)
}

// Shared returns true if r1 in m1 and r2 in m2 may point to the same object, and that object is accessible by
// several threads. When the objects of one of the references are unknown, the references are shared if their types
// are the same or unknown. A nil reference is never shared.
func (a *Analysis) Shared(r1 *ir.Ref, m1 *ir.Method, r2 *ir.Ref, m2 *ir.Method) bool {
	if r1 == nil || r2 == nil {
		return false
	}
	if len(r1.Objects) == 0 || len(r2.Objects) == 0 {
		return r1.Type == nil || r2.Type == nil || r1.Type.Name == r2.Type.Name
	}
	for _, o1 := range r1.Objects {
		if !a.Escapes(o1) {
			continue
		}
		for _, o2 := range r2.Objects {
			if o1 == o2 {
				return true
			}
		}
	}
	return false
}
