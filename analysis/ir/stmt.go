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
	"strings"
)

// Stmt is a statement of a method. The set of statement kinds is closed: FieldWrite, FieldRead, ArrayWrite,
// ArrayRead, MonitorEnter, MonitorExit, Call, Spawn, Return and Plain. Use a type switch to match on the kind.
type Stmt interface {
	// Index returns the position of the statement in its method's Stmts
	Index() int
	// Method returns the method the statement belongs to
	Method() *Method
	// Succs returns the indices of the control-flow successors of the statement
	Succs() []int
	String() string

	base() *stmtBase
}

type stmtBase struct {
	index  int
	method *Method
	succs  []int
	// targets are the explicit successors set by the builder, resolved into succs when the program is finalized
	targets  []Stmt
	explicit bool
}

func (b *stmtBase) Index() int      { return b.index }
func (b *stmtBase) Method() *Method { return b.method }
func (b *stmtBase) Succs() []int    { return b.succs }
func (b *stmtBase) base() *stmtBase { return b }

func (b *stmtBase) prefix() string {
	if b.method == nil {
		return fmt.Sprintf("?:%d", b.index)
	}
	return fmt.Sprintf("%s:%d", b.method.Signature(), b.index)
}

// FieldWrite is the assignment Base.Field = Value. Base is nil for static fields.
type FieldWrite struct {
	stmtBase
	Base  *Ref
	Field *Field
	Value *Ref
}

func (s *FieldWrite) String() string {
	return fmt.Sprintf("%s: %s = %s", s.prefix(), fieldAccess(s.Base, s.Field), s.Value)
}

// FieldRead is the assignment Dest = Base.Field. Base is nil for static fields.
type FieldRead struct {
	stmtBase
	Dest  *Ref
	Base  *Ref
	Field *Field
}

func (s *FieldRead) String() string {
	return fmt.Sprintf("%s: %s = %s", s.prefix(), s.Dest, fieldAccess(s.Base, s.Field))
}

// ArrayWrite is the assignment Array[i] = Value, for an array with elements of type Elem.
type ArrayWrite struct {
	stmtBase
	Array *Ref
	Elem  *Type
	Value *Ref
}

func (s *ArrayWrite) String() string {
	return fmt.Sprintf("%s: %s[] = %s", s.prefix(), s.Array, s.Value)
}

// ArrayRead is the assignment Dest = Array[i]
type ArrayRead struct {
	stmtBase
	Dest  *Ref
	Array *Ref
	Elem  *Type
}

func (s *ArrayRead) String() string {
	return fmt.Sprintf("%s: %s = %s[]", s.prefix(), s.Dest, s.Array)
}

// MonitorEnter acquires the lock of the object Lock points to
type MonitorEnter struct {
	stmtBase
	Lock *Ref
}

func (s *MonitorEnter) String() string { return fmt.Sprintf("%s: enter %s", s.prefix(), s.Lock) }

// MonitorExit releases the lock of the object Lock points to
type MonitorExit struct {
	stmtBase
	Lock *Ref
}

func (s *MonitorExit) String() string { return fmt.Sprintf("%s: exit %s", s.prefix(), s.Lock) }

// Call is a call to one of Callees. A virtual call is dispatched at runtime; it has possibly several callees.
type Call struct {
	stmtBase
	Callees []*Method
	Virtual bool
	Args    []*Ref
	Dest    *Ref
}

func (s *Call) String() string {
	kind := "call"
	if s.Virtual {
		kind = "invoke"
	}
	return fmt.Sprintf("%s: %s %s(%s)", s.prefix(), kind, calleeNames(s.Callees), refNames(s.Args))
}

// Spawn starts a new thread executing one of Callees
type Spawn struct {
	stmtBase
	Callees []*Method
	Args    []*Ref
}

func (s *Spawn) String() string {
	return fmt.Sprintf("%s: spawn %s(%s)", s.prefix(), calleeNames(s.Callees), refNames(s.Args))
}

// Return exits the method. Value may be nil.
type Return struct {
	stmtBase
	Value *Ref
}

func (s *Return) String() string {
	if s.Value == nil {
		return s.prefix() + ": return"
	}
	return fmt.Sprintf("%s: return %s", s.prefix(), s.Value)
}

// Plain is any other statement; it is irrelevant to the dependence analyses but is part of the control flow.
type Plain struct {
	stmtBase
	Text string
}

func (s *Plain) String() string { return fmt.Sprintf("%s: %s", s.prefix(), s.Text) }

// Refs returns the references used by the statement, in order of appearance. Nil references are omitted.
func Refs(s Stmt) []*Ref {
	var refs []*Ref
	switch x := s.(type) {
	case *FieldWrite:
		refs = []*Ref{x.Base, x.Value}
	case *FieldRead:
		refs = []*Ref{x.Dest, x.Base}
	case *ArrayWrite:
		refs = []*Ref{x.Array, x.Value}
	case *ArrayRead:
		refs = []*Ref{x.Dest, x.Array}
	case *MonitorEnter:
		refs = []*Ref{x.Lock}
	case *MonitorExit:
		refs = []*Ref{x.Lock}
	case *Call:
		refs = append(append(refs, x.Args...), x.Dest)
	case *Spawn:
		refs = append(refs, x.Args...)
	case *Return:
		refs = []*Ref{x.Value}
	case *Plain:
	}
	res := refs[:0]
	for _, r := range refs {
		if r != nil {
			res = append(res, r)
		}
	}
	return res
}

// Callees returns the methods the statement may transfer control to: the callees of calls and spawns, nil for
// any other statement.
func Callees(s Stmt) []*Method {
	switch x := s.(type) {
	case *Call:
		return x.Callees
	case *Spawn:
		return x.Callees
	}
	return nil
}

// IndexOf returns the index of s in the statements of m, and false if s is not a statement of m.
func IndexOf(m *Method, s Stmt) (int, bool) {
	if m == nil || s == nil {
		return -1, false
	}
	if i := s.Index(); i >= 0 && i < len(m.Stmts) && m.Stmts[i] == s {
		return i, true
	}
	for i, x := range m.Stmts {
		if x == s {
			return i, true
		}
	}
	return -1, false
}

func fieldAccess(base *Ref, f *Field) string {
	if base == nil {
		return f.String()
	}
	return base.Name + "." + f.Name
}

func calleeNames(methods []*Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Signature()
	}
	return strings.Join(names, "|")
}

func refNames(refs []*Ref) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
