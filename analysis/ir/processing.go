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

// A Processor is called back by a ProcessingController for each element of the program it traverses.
// ProcessRef receives the statement the reference appears in, or nil for the receiver of a method.
type Processor interface {
	ProcessClass(c *Class)
	ProcessMethod(m *Method)
	ProcessStmt(s Stmt)
	ProcessRef(r *Ref, s Stmt)
}

// BaseProcessor implements Processor by doing nothing. Embed it to implement only the callbacks needed.
type BaseProcessor struct{}

func (BaseProcessor) ProcessClass(*Class)   {}
func (BaseProcessor) ProcessMethod(*Method) {}
func (BaseProcessor) ProcessStmt(Stmt)      {}
func (BaseProcessor) ProcessRef(*Ref, Stmt) {}

// ProcessingController traverses the program reachable from a set of entry methods and calls the registered
// processors on every class, method, statement and reference, in registration order.
type ProcessingController struct {
	processors []Processor
}

// NewProcessingController returns a controller without processors
func NewProcessingController() *ProcessingController {
	return &ProcessingController{}
}

// Register adds p to the processors. A processor already registered is not added twice.
func (pc *ProcessingController) Register(p Processor) {
	for _, q := range pc.processors {
		if q == p {
			return
		}
	}
	pc.processors = append(pc.processors, p)
}

// Unregister removes p from the processors. Returns false if p was not registered.
func (pc *ProcessingController) Unregister(p Processor) bool {
	for i, q := range pc.processors {
		if q == p {
			pc.processors = append(pc.processors[:i], pc.processors[i+1:]...)
			return true
		}
	}
	return false
}

// Processors returns the registered processors
func (pc *ProcessingController) Processors() []Processor {
	return pc.processors
}

// Process visits the methods reachable from entries through Call and Spawn statements, in breadth-first order.
// Every class, method, statement and reference is processed exactly once: a class is processed before its first
// method, a method before its statements, and a statement before the references it uses.
// Returns the methods visited, in order.
func (pc *ProcessingController) Process(entries []*Method) []*Method {
	seenMethods := map[*Method]bool{}
	seenClasses := map[*Class]bool{}
	seenRefs := map[*Ref]bool{}

	var queue []*Method
	push := func(m *Method) {
		if m != nil && !seenMethods[m] {
			seenMethods[m] = true
			queue = append(queue, m)
		}
	}
	for _, e := range entries {
		push(e)
	}

	for i := 0; i < len(queue); i++ {
		m := queue[i]
		if m.Class != nil && !seenClasses[m.Class] {
			seenClasses[m.Class] = true
			for _, p := range pc.processors {
				p.ProcessClass(m.Class)
			}
		}
		for _, p := range pc.processors {
			p.ProcessMethod(m)
		}
		if m.This != nil {
			seenRefs[m.This] = true
			for _, p := range pc.processors {
				p.ProcessRef(m.This, nil)
			}
		}
		for _, s := range m.Stmts {
			for _, p := range pc.processors {
				p.ProcessStmt(s)
			}
			for _, r := range Refs(s) {
				if seenRefs[r] {
					continue
				}
				seenRefs[r] = true
				for _, p := range pc.processors {
					p.ProcessRef(r, s)
				}
			}
			for _, callee := range Callees(s) {
				push(callee)
			}
		}
	}
	return queue
}
