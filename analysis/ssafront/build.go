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

package ssafront

import (
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"time"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/pointer"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const (
	// DerefField is the name of the field standing for the value a pointer points to
	DerefField = "*"

	typeObjectPrefix   = "type:"
	globalObjectPrefix = "global:"
)

// fieldKey identifies a field in the program model
type fieldKey struct {
	class *ir.Class
	name  string
}

// translator translates the functions of a ssa program into the program model
type translator struct {
	cfg    *config.Config
	logger *config.LogGroup
	prog   *ssa.Program
	b      *ir.Builder
	ptr    *pointer.Result

	// sites maps each call site to its callees in the call graph
	sites   map[ssa.CallInstruction][]*ssa.Function
	methods map[*ssa.Function]*ir.MethodBuilder
	types   map[string]*ir.Type
	fields  map[fieldKey]*ir.Field

	// refs are the references of the function being translated
	refs map[ssa.Value]*ir.Ref
}

// Build translates the functions of prog reachable from the entry points of cfg into a program model. When cfg
// has no entry points, the main and init functions of the main packages are used.
//
// The call graph is computed with the class hierarchy analysis, or with the pointer analysis if cfg sets
// use-pointer-analysis. The objects of the references are the allocation sites computed by the pointer analysis,
// or else the types the references point to.
func Build(prog *ssa.Program, cfg *config.Config, logger *config.LogGroup) (*ir.Program, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	t := &translator{
		cfg:     cfg,
		logger:  logger,
		prog:    prog,
		b:       ir.NewBuilder(),
		sites:   map[ssa.CallInstruction][]*ssa.Function{},
		methods: map[*ssa.Function]*ir.MethodBuilder{},
		types:   map[string]*ir.Type{},
		fields:  map[fieldKey]*ir.Field{},
	}

	entries := findEntries(prog, cfg)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entry point found in the program")
	}

	start := time.Now()
	var cg *callgraph.Graph
	if cfg.UsePointerAnalysis {
		logger.Infof("Computing call graph with the pointer analysis ...")
		res, err := t.runPointerAnalysis()
		if err != nil {
			return nil, err
		}
		t.ptr = res
		cg = res.CallGraph
	} else {
		logger.Infof("Computing call graph with the class hierarchy analysis ...")
		cg = cha.CallGraph(prog)
	}
	logger.Infof("Call graph done (%.2f s)", time.Since(start).Seconds())
	t.indexSites(cg)

	var modeled []*ssa.Function
	for _, f := range reachable(cg, entries) {
		if t.isModeled(f) {
			modeled = append(modeled, f)
		}
	}
	for _, f := range modeled {
		t.declare(f)
	}
	for _, f := range modeled {
		t.translate(f)
	}
	for _, f := range entries {
		if mb, ok := t.methods[f]; ok {
			t.b.Entry(mb.Method())
		}
	}
	p, err := t.b.Finalize()
	if err != nil {
		return nil, err
	}
	if len(p.Entries) == 0 {
		return nil, fmt.Errorf("no entry point matches the package filter %q", cfg.PkgFilter)
	}
	logger.Infof("Program model: %d methods, %d statements", len(modeled), p.NumStmts())
	return p, nil
}

// findEntries returns the functions of prog matching the entry points of cfg, or the main and init functions of the
// main packages
func findEntries(prog *ssa.Program, cfg *config.Config) []*ssa.Function {
	var entries []*ssa.Function
	if len(cfg.EntryPoints) > 0 {
		for f := range ssautil.AllFunctions(prog) {
			if f.Pkg != nil && cfg.IsEntryPoint(f.Pkg.Pkg.Path(), receiverName(f), f.Name()) {
				entries = append(entries, f)
			}
		}
		sortFunctions(entries)
		return entries
	}
	for _, p := range ssautil.MainPackages(prog.AllPackages()) {
		for _, name := range []string{"init", "main"} {
			if f := p.Func(name); f != nil {
				entries = append(entries, f)
			}
		}
	}
	return entries
}

func receiverName(f *ssa.Function) string {
	recv := f.Signature.Recv()
	if recv == nil {
		return ""
	}
	if named, ok := deref(recv.Type()).(*types.Named); ok {
		return named.Obj().Name()
	}
	return ""
}

func sortFunctions(funcs []*ssa.Function) {
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].String() < funcs[j].String() })
}

// runPointerAnalysis runs the pointer analysis with a query for every pointer-like value of the modeled functions
func (t *translator) runPointerAnalysis() (*pointer.Result, error) {
	mains := ssautil.MainPackages(t.prog.AllPackages())
	if len(mains) == 0 {
		return nil, fmt.Errorf("the pointer analysis needs a main package")
	}
	pCfg := &pointer.Config{
		Mains:          mains,
		Reflection:     false,
		BuildCallGraph: true,
		Queries:        make(map[ssa.Value]struct{}),
	}
	for f := range ssautil.AllFunctions(t.prog) {
		if !t.isModeled(f) {
			continue
		}
		for _, param := range f.Params {
			addQuery(pCfg, param)
		}
		for _, block := range f.Blocks {
			for _, instr := range block.Instrs {
				for _, operand := range instr.Operands(nil) {
					if *operand != nil {
						addQuery(pCfg, *operand)
					}
				}
			}
		}
	}
	res, err := pointer.Analyze(pCfg)
	if err != nil {
		return nil, fmt.Errorf("pointer analysis failed: %w", err)
	}
	return res, nil
}

func addQuery(cfg *pointer.Config, v ssa.Value) {
	if _, isConst := v.(*ssa.Const); isConst || v.Type() == nil || !pointer.CanPoint(v.Type()) {
		return
	}
	cfg.AddQuery(v)
}

func (t *translator) indexSites(cg *callgraph.Graph) {
	for _, node := range cg.Nodes {
		for _, e := range node.Out {
			if e.Site != nil && e.Callee.Func != nil {
				t.sites[e.Site] = append(t.sites[e.Site], e.Callee.Func)
			}
		}
	}
	for _, callees := range t.sites {
		sortFunctions(callees)
	}
}

// reachable returns the functions reachable from the entries in the call graph, in breadth-first order
func reachable(cg *callgraph.Graph, entries []*ssa.Function) []*ssa.Function {
	seen := map[*ssa.Function]bool{}
	var queue []*ssa.Function
	for _, e := range entries {
		if !seen[e] {
			seen[e] = true
			queue = append(queue, e)
		}
	}
	for i := 0; i < len(queue); i++ {
		node := cg.Nodes[queue[i]]
		if node == nil {
			continue
		}
		var next []*ssa.Function
		for _, e := range node.Out {
			if f := e.Callee.Func; f != nil && !seen[f] {
				seen[f] = true
				next = append(next, f)
			}
		}
		sortFunctions(next)
		queue = append(queue, next...)
	}
	return queue
}

// isModeled returns true if f is translated into a method: its package matches the package filter and f is not a
// lock operation
func (t *translator) isModeled(f *ssa.Function) bool {
	if _, _, isLock := lockOperation(f); isLock {
		return false
	}
	pkg := ""
	if f.Pkg != nil {
		pkg = f.Pkg.Pkg.Path()
	}
	return t.cfg.MatchPkgFilter(pkg)
}

// lockOperation returns whether f acquires or releases a lock of the sync package
func lockOperation(f *ssa.Function) (enter bool, exit bool, isLock bool) {
	if f == nil || f.Pkg == nil || f.Pkg.Pkg.Path() != "sync" {
		return false, false, false
	}
	switch receiverName(f) {
	case "Mutex", "RWMutex":
	default:
		return false, false, false
	}
	switch f.Name() {
	case "Lock", "RLock":
		return true, false, true
	case "Unlock", "RUnlock":
		return false, true, true
	}
	return false, false, false
}

func (t *translator) qualifier(p *types.Package) string {
	return p.Name()
}

func (t *translator) typeName(typ types.Type) string {
	return types.TypeString(typ, t.qualifier)
}

func (t *translator) irType(typ types.Type) *ir.Type {
	name := t.typeName(typ)
	if it, ok := t.types[name]; ok {
		return it
	}
	it := &ir.Type{Name: name, Aliasable: pointer.CanPoint(typ)}
	t.types[name] = it
	return it
}

func deref(typ types.Type) types.Type {
	if p, ok := typ.Underlying().(*types.Pointer); ok {
		return p.Elem()
	}
	return typ
}

// packageClass returns the class holding the functions and globals of pkg
func (t *translator) packageClass(pkg *ssa.Package) *ir.Class {
	if pkg == nil {
		return t.b.Class("synthetic")
	}
	return t.b.Class(pkg.Pkg.Path())
}

// classOf returns the class of the receiver of f, or the class of its package
func (t *translator) classOf(f *ssa.Function) *ir.Class {
	if recv := f.Signature.Recv(); recv != nil {
		return t.b.Class(t.typeName(deref(recv.Type())))
	}
	return t.packageClass(f.Pkg)
}

func (t *translator) declare(f *ssa.Function) {
	c := t.classOf(f)
	params := f.Signature.Params()
	paramTypes := make([]*ir.Type, params.Len())
	for i := range paramTypes {
		paramTypes[i] = t.irType(params.At(i).Type())
	}
	var mb *ir.MethodBuilder
	if f.Signature.Recv() != nil {
		mb = t.b.Method(c, f.Name(), paramTypes...)
		if len(f.Params) > 0 {
			mb.ThisPointsTo(t.objects(f.Params[0])...)
		}
	} else {
		mb = t.b.StaticMethod(c, f.Name(), paramTypes...)
	}
	t.methods[f] = mb
}

// objects returns the labels of the objects v may point to. Nil means unknown. The address of a field or of an
// element points to the objects of its container.
func (t *translator) objects(v ssa.Value) []string {
	switch a := v.(type) {
	case *ssa.FieldAddr:
		return t.objects(a.X)
	case *ssa.IndexAddr:
		return t.objects(a.X)
	}
	if v.Type() == nil || !pointer.CanPoint(v.Type()) {
		return nil
	}
	if g, ok := v.(*ssa.Global); ok {
		return []string{globalObjectPrefix + g.String()}
	}
	if t.ptr == nil {
		return []string{typeObjectPrefix + t.typeName(deref(v.Type()))}
	}
	p, ok := t.ptr.Queries[v]
	if !ok {
		return nil
	}
	labels := map[string]bool{}
	for _, l := range p.PointsTo().Labels() {
		labels[fmt.Sprintf("%s@%s", l, t.prog.Fset.Position(l.Pos()))] = true
	}
	return funcutil.SetToOrderedSlice(labels)
}

func (t *translator) ref(mb *ir.MethodBuilder, v ssa.Value) *ir.Ref {
	if v == nil {
		return nil
	}
	if _, isConst := v.(*ssa.Const); isConst {
		return nil
	}
	if r, ok := t.refs[v]; ok {
		return r
	}
	r := mb.Local(v.Name(), t.irType(v.Type()), t.objects(v)...)
	t.refs[v] = r
	return r
}

func (t *translator) field(x ssa.Value, index int) *ir.Field {
	typ := deref(x.Type())
	class := t.b.Class(t.typeName(typ))
	st, ok := typ.Underlying().(*types.Struct)
	if !ok {
		return t.declareField(class, DerefField, t.irType(typ), false)
	}
	v := st.Field(index)
	return t.declareField(class, v.Name(), t.irType(v.Type()), false)
}

func (t *translator) derefField(x ssa.Value) *ir.Field {
	typ := deref(x.Type())
	return t.declareField(t.b.Class(t.typeName(typ)), DerefField, t.irType(typ), false)
}

func (t *translator) global(g *ssa.Global) *ir.Field {
	return t.declareField(t.packageClass(g.Pkg), g.Name(), t.irType(deref(g.Type())), true)
}

func (t *translator) declareField(c *ir.Class, name string, typ *ir.Type, static bool) *ir.Field {
	key := fieldKey{class: c, name: name}
	if f, ok := t.fields[key]; ok {
		return f
	}
	f := t.b.Field(c, name, typ, static)
	t.fields[key] = f
	return f
}

// translate appends the statements of f to its method. Each block is translated to at least one statement, and
// the last statement of a block branches to the first statements of its successors.
func (t *translator) translate(f *ssa.Function) {
	mb := t.methods[f]
	t.refs = map[ssa.Value]*ir.Ref{}
	if f.Signature.Recv() != nil && len(f.Params) > 0 {
		t.refs[f.Params[0]] = mb.This()
	}
	var defers []*ssa.Defer
	for _, block := range f.Blocks {
		for _, instr := range block.Instrs {
			if d, ok := instr.(*ssa.Defer); ok {
				defers = append(defers, d)
			}
		}
	}

	first := make([]ir.Stmt, len(f.Blocks))
	last := make([]ir.Stmt, len(f.Blocks))
	for i, block := range f.Blocks {
		n := len(mb.Method().Stmts)
		for _, instr := range block.Instrs {
			t.instruction(mb, instr, defers)
		}
		if len(mb.Method().Stmts) == n {
			mb.Plain(fmt.Sprintf("block %d", block.Index))
		}
		stmts := mb.Method().Stmts
		first[i] = stmts[n]
		last[i] = stmts[len(stmts)-1]
	}
	for i, block := range f.Blocks {
		if _, isReturn := last[i].(*ir.Return); isReturn {
			continue
		}
		targets := make([]ir.Stmt, 0, len(block.Succs))
		for _, succ := range block.Succs {
			targets = append(targets, first[succ.Index])
		}
		mb.Branch(last[i], targets...)
	}
}

func (t *translator) instruction(mb *ir.MethodBuilder, instr ssa.Instruction, defers []*ssa.Defer) {
	switch i := instr.(type) {
	case *ssa.Store:
		t.store(mb, i.Addr, i.Val)
	case *ssa.UnOp:
		if i.Op == token.MUL {
			t.load(mb, i, i.X)
		}
	case *ssa.Call:
		var dest ssa.Value
		if tuple, ok := i.Type().(*types.Tuple); !ok || tuple.Len() > 0 {
			dest = i
		}
		t.call(mb, i, dest)
	case *ssa.Go:
		t.spawn(mb, i)
	case *ssa.RunDefers:
		for j := len(defers) - 1; j >= 0; j-- {
			t.call(mb, defers[j], nil)
		}
	case *ssa.Return:
		var v *ir.Ref
		if len(i.Results) > 0 {
			v = t.ref(mb, i.Results[0])
		}
		mb.Return(v)
	case *ssa.Panic:
		mb.Plain("panic " + i.X.Name())
	}
}

func (t *translator) store(mb *ir.MethodBuilder, addr ssa.Value, val ssa.Value) {
	switch a := addr.(type) {
	case *ssa.FieldAddr:
		mb.FieldWrite(t.ref(mb, a.X), t.field(a.X, a.Field), t.ref(mb, val))
	case *ssa.IndexAddr:
		mb.ArrayWrite(t.ref(mb, a.X), t.irType(val.Type()), t.ref(mb, val))
	case *ssa.Global:
		mb.FieldWrite(nil, t.global(a), t.ref(mb, val))
	default:
		mb.FieldWrite(t.ref(mb, addr), t.derefField(addr), t.ref(mb, val))
	}
}

func (t *translator) load(mb *ir.MethodBuilder, dest ssa.Value, addr ssa.Value) {
	switch a := addr.(type) {
	case *ssa.FieldAddr:
		mb.FieldRead(t.ref(mb, dest), t.ref(mb, a.X), t.field(a.X, a.Field))
	case *ssa.IndexAddr:
		mb.ArrayRead(t.ref(mb, dest), t.ref(mb, a.X), t.irType(dest.Type()))
	case *ssa.Global:
		mb.FieldRead(t.ref(mb, dest), nil, t.global(a))
	default:
		mb.FieldRead(t.ref(mb, dest), t.ref(mb, addr), t.derefField(addr))
	}
}

// callees returns the modeled methods called at site
func (t *translator) callees(site ssa.CallInstruction) []*ir.Method {
	var res []*ir.Method
	for _, f := range t.sites[site] {
		if mb, ok := t.methods[f]; ok {
			res = append(res, mb.Method())
		}
	}
	return res
}

// args returns the references passed at the call site, including the receiver of an invoke and the bindings of a
// closure
func (t *translator) args(mb *ir.MethodBuilder, common *ssa.CallCommon) []*ir.Ref {
	var res []*ir.Ref
	add := func(v ssa.Value) {
		if r := t.ref(mb, v); r != nil {
			res = append(res, r)
		}
	}
	if common.IsInvoke() {
		add(common.Value)
	} else if closure, ok := common.Value.(*ssa.MakeClosure); ok {
		for _, b := range closure.Bindings {
			add(b)
		}
	}
	for _, a := range common.Args {
		add(a)
	}
	return res
}

func (t *translator) call(mb *ir.MethodBuilder, site ssa.CallInstruction, dest ssa.Value) {
	common := site.Common()
	if enter, exit, isLock := lockOperation(common.StaticCallee()); isLock && len(common.Args) > 0 {
		lock := t.ref(mb, common.Args[0])
		if enter {
			mb.Enter(lock)
		} else if exit {
			mb.Exit(lock)
		}
		return
	}
	callees := t.callees(site)
	if len(callees) == 0 {
		mb.Plain("call " + common.String())
		return
	}
	var d *ir.Ref
	if dest != nil {
		d = t.ref(mb, dest)
	}
	args := t.args(mb, common)
	if common.IsInvoke() || common.StaticCallee() == nil {
		mb.Invoke(d, callees, args...)
	} else {
		mb.Call(d, callees[0], args...)
	}
}

func (t *translator) spawn(mb *ir.MethodBuilder, g *ssa.Go) {
	callees := t.callees(g)
	if len(callees) == 0 {
		mb.Plain("go " + g.Common().String())
		return
	}
	mb.Spawn(callees, t.args(mb, g.Common())...)
}
