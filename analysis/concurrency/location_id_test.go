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

package concurrency

import (
	"errors"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/ir"
)

func TestLocationIDEmptyMethod(t *testing.T) {
	b := ir.NewBuilder()
	c := b.Class("C")
	main := b.StaticMethod(c, "main")
	m := b.StaticMethod(c, "m")
	main.Call(nil, m.Method())
	main.Return(nil)
	b.Entry(main.Method())
	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	comp := NewComputer(discardLogger(), Collaborators{})
	pc := ir.NewProcessingController()
	pc.Register(comp)
	pc.Process(prog.Entries)

	got, err := comp.LocationID(ir.NewLocationPool().MethodLocation(m.Method()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<C.m()> monitor" {
		t.Errorf("expected <C.m()> monitor, got %q", got)
	}
}

func TestLocationIDVirtualTarget(t *testing.T) {
	b := ir.NewBuilder()
	c := b.Class("C")
	a := b.Class("A")
	main := b.StaticMethod(c, "main")
	virtual := b.Method(a, "v", ir.IntType)
	both := b.Method(a, "w")
	x := main.Local("x", a.Type(), "o1")
	callV := main.Invoke(nil, []*ir.Method{virtual.Method()}, x)
	main.Invoke(nil, []*ir.Method{both.Method()}, x)
	main.Call(nil, both.Method(), x)
	main.Return(nil)
	s := virtual.Return(nil)
	both.Return(nil)
	b.Entry(main.Method())
	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	comp := NewComputer(discardLogger(), Collaborators{})
	pc := ir.NewProcessingController()
	pc.Register(comp)
	pc.Process(prog.Entries)

	pool := ir.NewLocationPool()
	for l, want := range map[ir.Location]string{
		pool.At(s):                         "[A.v(int)] 0",
		pool.At(callV):                     "<C.main()> 0",
		pool.MethodLocation(both.Method()): "<A.w()> monitor",
		pool.MethodLocation(main.Method()): "<C.main()> monitor",
	} {
		got, err := comp.LocationID(l)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestLocationIDInconsistent(t *testing.T) {
	b := ir.NewBuilder()
	c := b.Class("C")
	main := b.StaticMethod(c, "main")
	other := b.StaticMethod(c, "other")
	s := main.Return(nil)
	other.Return(nil)
	b.Entry(main.Method())
	if _, err := b.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	comp := NewComputer(discardLogger(), Collaborators{})
	_, err := comp.LocationID(ir.NewLocationPool().Of(s, other.Method()))
	var ice *InternalConsistencyError
	if !errors.As(err, &ice) {
		t.Fatalf("expected an internal consistency error, got %v", err)
	}
	if _, err := comp.LocationID(ir.NewLocationPool().Of(s, nil)); !errors.As(err, &ice) {
		t.Errorf("expected an internal consistency error for a location without method, got %v", err)
	}
}
