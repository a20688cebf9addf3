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
	"fmt"
)

// Builder constructs programs. Classes, fields and methods are created first, then the statements of each method
// are appended in order through a MethodBuilder. Finalize checks the program and computes the statement indices and
// control-flow successors.
type Builder struct {
	classes   []*Class
	byName    map[string]*Class
	methods   []*MethodBuilder
	entries   []*Method
	finalized bool
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{byName: map[string]*Class{}}
}

// Class returns the class with the given name, creating it if needed.
func (b *Builder) Class(name string) *Class {
	if c, ok := b.byName[name]; ok {
		return c
	}
	c := &Class{Name: name}
	b.byName[name] = c
	b.classes = append(b.classes, c)
	return c
}

// Field declares a field of c
func (b *Builder) Field(c *Class, name string, typ *Type, static bool) *Field {
	f := &Field{Class: c, Name: name, Type: typ, Static: static}
	c.Fields = append(c.Fields, f)
	return f
}

// Method declares an instance method of c with the given parameter types. The receiver reference of the method is
// created with unknown objects.
func (b *Builder) Method(c *Class, name string, params ...*Type) *MethodBuilder {
	m := &Method{Class: c, Name: name, Params: params}
	m.This = &Ref{Name: "this", Type: c.Type()}
	c.Methods = append(c.Methods, m)
	mb := &MethodBuilder{method: m}
	b.methods = append(b.methods, mb)
	return mb
}

// StaticMethod declares a static method of c
func (b *Builder) StaticMethod(c *Class, name string, params ...*Type) *MethodBuilder {
	mb := b.Method(c, name, params...)
	mb.method.Static = true
	mb.method.This = nil
	return mb
}

// Entry marks the methods as entry points of the program
func (b *Builder) Entry(methods ...*Method) {
	b.entries = append(b.entries, methods...)
}

// Finalize returns the program built. Each statement gets its index in its method, and its successors: the explicit
// targets set with Branch, or else the next statement of the method. Return statements and the last statement of a
// method have no default successor.
func (b *Builder) Finalize() (*Program, error) {
	if b.finalized {
		return nil, fmt.Errorf("program already finalized")
	}
	for _, mb := range b.methods {
		m := mb.method
		for i, s := range m.Stmts {
			base := s.base()
			base.index = i
			base.method = m
		}
		for i, s := range m.Stmts {
			base := s.base()
			base.succs = nil
			if base.explicit {
				for _, t := range base.targets {
					if t.base().method != m {
						return nil, fmt.Errorf("branch from %s to a statement of another method: %s", s, t)
					}
					base.succs = append(base.succs, t.Index())
				}
				base.targets = nil
				continue
			}
			if _, isReturn := s.(*Return); !isReturn && i+1 < len(m.Stmts) {
				base.succs = []int{i + 1}
			}
		}
	}
	b.finalized = true
	return &Program{Classes: b.classes, Entries: b.entries}, nil
}

// MethodBuilder appends statements to a method. Every statement constructor returns the statement appended.
type MethodBuilder struct {
	method *Method
	locals int
}

// Method returns the method being built
func (mb *MethodBuilder) Method() *Method { return mb.method }

// Synchronized marks the method as synchronized: it holds the lock of its receiver (or of its class if the method
// is static) while it runs.
func (mb *MethodBuilder) Synchronized() *MethodBuilder {
	mb.method.Synchronized = true
	return mb
}

// This returns the receiver of the method, or nil for a static method
func (mb *MethodBuilder) This() *Ref { return mb.method.This }

// ThisPointsTo sets the objects the receiver may point to
func (mb *MethodBuilder) ThisPointsTo(objects ...string) *MethodBuilder {
	if mb.method.This != nil {
		mb.method.This.Objects = objects
	}
	return mb
}

// Local returns a new reference local to the method, pointing to the given objects
func (mb *MethodBuilder) Local(name string, typ *Type, objects ...string) *Ref {
	mb.locals++
	if name == "" {
		name = fmt.Sprintf("t%d", mb.locals)
	}
	return &Ref{Name: name, Type: typ, Objects: objects}
}

func (mb *MethodBuilder) add(s Stmt) {
	base := s.base()
	base.method = mb.method
	base.index = len(mb.method.Stmts)
	mb.method.Stmts = append(mb.method.Stmts, s)
}

// Branch sets the successors of s explicitly. Targets must be statements of the same method. Calling Branch without
// targets makes s a statement without successors.
func (mb *MethodBuilder) Branch(s Stmt, targets ...Stmt) {
	base := s.base()
	base.explicit = true
	base.targets = targets
}

// FieldWrite appends base.f = value. The base is ignored for static fields.
func (mb *MethodBuilder) FieldWrite(base *Ref, f *Field, value *Ref) *FieldWrite {
	if f.Static {
		base = nil
	}
	s := &FieldWrite{Base: base, Field: f, Value: value}
	mb.add(s)
	return s
}

// FieldRead appends dest = base.f
func (mb *MethodBuilder) FieldRead(dest *Ref, base *Ref, f *Field) *FieldRead {
	if f.Static {
		base = nil
	}
	s := &FieldRead{Dest: dest, Base: base, Field: f}
	mb.add(s)
	return s
}

// ArrayWrite appends array[i] = value
func (mb *MethodBuilder) ArrayWrite(array *Ref, elem *Type, value *Ref) *ArrayWrite {
	s := &ArrayWrite{Array: array, Elem: elem, Value: value}
	mb.add(s)
	return s
}

// ArrayRead appends dest = array[i]
func (mb *MethodBuilder) ArrayRead(dest *Ref, array *Ref, elem *Type) *ArrayRead {
	s := &ArrayRead{Dest: dest, Array: array, Elem: elem}
	mb.add(s)
	return s
}

// Enter appends a monitor acquisition of lock
func (mb *MethodBuilder) Enter(lock *Ref) *MonitorEnter {
	s := &MonitorEnter{Lock: lock}
	mb.add(s)
	return s
}

// Exit appends a monitor release of lock
func (mb *MethodBuilder) Exit(lock *Ref) *MonitorExit {
	s := &MonitorExit{Lock: lock}
	mb.add(s)
	return s
}

// Call appends a statically dispatched call to callee
func (mb *MethodBuilder) Call(dest *Ref, callee *Method, args ...*Ref) *Call {
	s := &Call{Callees: []*Method{callee}, Args: args, Dest: dest}
	mb.add(s)
	return s
}

// Invoke appends a virtually dispatched call to one of callees
func (mb *MethodBuilder) Invoke(dest *Ref, callees []*Method, args ...*Ref) *Call {
	s := &Call{Callees: callees, Virtual: true, Args: args, Dest: dest}
	mb.add(s)
	return s
}

// Spawn appends the start of a thread running one of callees
func (mb *MethodBuilder) Spawn(callees []*Method, args ...*Ref) *Spawn {
	s := &Spawn{Callees: callees, Args: args}
	mb.add(s)
	return s
}

// Return appends a return statement. value may be nil.
func (mb *MethodBuilder) Return(value *Ref) *Return {
	s := &Return{Value: value}
	mb.add(s)
	return s
}

// Plain appends a statement that does not access the heap, call or synchronize
func (mb *MethodBuilder) Plain(text string) *Plain {
	s := &Plain{Text: text}
	mb.add(s)
	return s
}
