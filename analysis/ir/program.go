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

// Package ir contains the whole-program representation the dependence analyses work on: classes, methods, fields,
// references and statements, together with the call graph and the processing controller that drives visitors over
// the statements reachable from a set of entry methods.
//
// Programs are constructed with a Builder, either directly (e.g. in tests) or by a frontend such as ssafront.
package ir

import (
	"fmt"
	"strings"
)

// Type is the declared type of a field, a reference or an array element.
type Type struct {
	Name string
	// Aliasable is false for types whose values cannot be shared through references, e.g. integers.
	Aliasable bool
}

func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	return t.Name
}

// SameType returns true if t1 and t2 are the same type
func SameType(t1, t2 *Type) bool {
	if t1 == t2 {
		return true
	}
	return t1 != nil && t2 != nil && t1.Name == t2.Name
}

// Predeclared non-aliasable types
var (
	IntType    = &Type{Name: "int"}
	BoolType   = &Type{Name: "bool"}
	StringType = &Type{Name: "string"}
)

// Class is a named type declaring fields and methods.
type Class struct {
	Name    string
	Fields  []*Field
	Methods []*Method

	typ *Type
	ref *Ref
}

func (c *Class) String() string { return c.Name }

// Type returns the type of the instances of c
func (c *Class) Type() *Type {
	if c.typ == nil {
		c.typ = &Type{Name: c.Name, Aliasable: true}
	}
	return c.typ
}

// ClassObjectPrefix prefixes the abstract object of a class. Class objects are reachable from everywhere.
const ClassObjectPrefix = "class:"

// Ref returns the reference standing for the class object of c. The same reference is returned on every call.
func (c *Class) Ref() *Ref {
	if c.ref == nil {
		c.ref = &Ref{
			Name:    c.Name + ".class",
			Type:    &Type{Name: "class " + c.Name, Aliasable: true},
			Objects: []string{ClassObjectPrefix + c.Name},
		}
	}
	return c.ref
}

// Field is a field declared by a class. Static fields have a single storage cell for the whole program.
type Field struct {
	Class  *Class
	Name   string
	Type   *Type
	Static bool
}

func (f *Field) String() string { return f.Class.Name + "." + f.Name }

// Method is a method or function of the program. Its statements are linearized in Stmts, and the position of a
// statement in that slice is its index.
type Method struct {
	Class        *Class
	Name         string
	Params       []*Type
	Static       bool
	Synchronized bool
	Stmts        []Stmt
	// This is the receiver reference of instance methods, nil for static methods
	This *Ref
}

// Signature returns the name of the method including its declaring class and parameter types, e.g. "A.m(int,B)"
func (m *Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Class.Name, m.Name, strings.Join(params, ","))
}

func (m *Method) String() string { return m.Signature() }

// Lock returns the reference a synchronized method locks on: its receiver for instance methods, or the class
// reference for static methods.
func (m *Method) Lock() *Ref {
	if m.This != nil {
		return m.This
	}
	return m.Class.Ref()
}

// Ref is a local reference of a method. Objects lists the abstract objects the reference may point to; an empty
// list means the objects are unknown.
type Ref struct {
	Name    string
	Type    *Type
	Objects []string
}

func (r *Ref) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Name
}

// Program is a whole program: its classes and the entry methods execution starts from.
type Program struct {
	Classes []*Class
	Entries []*Method
}

// Methods returns all the methods of the program, in class declaration order.
func (p *Program) Methods() []*Method {
	var res []*Method
	for _, c := range p.Classes {
		res = append(res, c.Methods...)
	}
	return res
}

// LookupMethod returns the method with the given signature, or nil.
func (p *Program) LookupMethod(signature string) *Method {
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			if m.Signature() == signature {
				return m
			}
		}
	}
	return nil
}

// NumStmts returns the number of statements in the program
func (p *Program) NumStmts() int {
	n := 0
	for _, c := range p.Classes {
		for _, m := range c.Methods {
			n += len(m.Stmts)
		}
	}
	return n
}
