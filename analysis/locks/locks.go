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

// Package locks computes the equivalence classes of the monitor acquisition sites of a program: two sites are
// equivalent when they may acquire the lock of the same object. A site is a MonitorEnter statement, or the whole
// method location (nil, m) of a synchronized method m.
//
// The classes are computed by unification of the sites whose lock references are shared according to the escape
// oracle.
package locks

import (
	"fmt"
	"sort"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/escape"
	"github.com/awslabs/ar-go-deps/analysis/interference"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/analysis/unify"
)

// ID is the id of the lock equivalence analysis in the analyses controller
const ID controller.ID = "locks"

// site is a monitor acquisition site with the reference whose object is locked
type site struct {
	loc  ir.Location
	lock *ir.Ref
	node unify.NodeID
}

type collector struct {
	ir.BaseProcessor
	ir.NoopStmtOp
	pool  *ir.LocationPool
	sites []*site
}

func (c *collector) ProcessMethod(m *ir.Method) {
	if m.Synchronized {
		c.sites = append(c.sites, &site{loc: c.pool.MethodLocation(m), lock: m.Lock()})
	}
}

func (c *collector) ProcessStmt(s ir.Stmt) { ir.StmtSwitch(c, s) }

func (c *collector) DoMonitorEnter(s *ir.MonitorEnter) {
	c.sites = append(c.sites, &site{loc: c.pool.At(s), lock: s.Lock})
}

// Analysis is the lock equivalence analysis. It waits for the escape analysis to be stable.
type Analysis struct {
	logger    *config.LogGroup
	oracle    interference.SharingOracle
	collector *collector
	table     *unify.Table
	bySite    map[ir.Location]*site
	classes   map[unify.NodeID][]ir.Location
	stable    bool
}

// New returns a new lock equivalence analysis
func New() *Analysis {
	a := &Analysis{collector: &collector{pool: ir.NewLocationPool()}}
	a.Reset()
	return a
}

// Initialize looks up the escape oracle in the context. Fails if there is none.
func (a *Analysis) Initialize(ctx *controller.Context) error {
	x, ok := ctx.Lookup(escape.ID)
	if !ok {
		return fmt.Errorf("no escape oracle in the context")
	}
	oracle, ok := x.(interference.SharingOracle)
	if !ok {
		return fmt.Errorf("escape information of type %T is not a sharing oracle", x)
	}
	a.oracle = oracle
	a.logger = ctx.Logger
	ctx.Publish(ID, a)
	return nil
}

// PreProcessor returns the processor collecting the acquisition sites
func (a *Analysis) PreProcessor() ir.Processor { return a.collector }

// IsStable returns true once the classes have been computed
func (a *Analysis) IsStable() bool { return a.stable }

// Reset drops the classes and the sites collected
func (a *Analysis) Reset() {
	a.collector.sites = nil
	a.collector.pool.Reset()
	a.table = unify.NewTable()
	a.bySite = map[ir.Location]*site{}
	a.classes = map[unify.NodeID][]ir.Location{}
	a.stable = false
}

// Analyze unifies the sites whose locks are shared, if the escape oracle is stable
func (a *Analysis) Analyze() {
	if a.oracle == nil || !a.oracle.IsStable() {
		return
	}
	sites := a.collector.sites
	for _, s := range sites {
		s.node = a.table.NewNode(nil)
		a.bySite[s.loc] = s
	}
	for i, s1 := range sites {
		for _, s2 := range sites[i+1:] {
			if a.table.Equivalent(s1.node, s2.node) {
				continue
			}
			if a.oracle.Shared(s1.lock, s1.loc.Second(), s2.lock, s2.loc.Second()) {
				a.table.Unify(s1.node, s2.node)
			}
		}
	}
	for _, s := range sites {
		root := a.table.Find(s.node)
		a.classes[root] = append(a.classes[root], s.loc)
	}
	a.stable = true
	if a.logger != nil {
		a.logger.Debugf("Lock analysis: %d sites in %d classes", len(sites), len(a.classes))
	}
}

// Sites returns all the acquisition sites, in traversal order
func (a *Analysis) Sites() []ir.Location {
	res := make([]ir.Location, len(a.collector.sites))
	for i, s := range a.collector.sites {
		res[i] = s.loc
	}
	return res
}

// LockSitesInClassOf returns the sites of the class of l, including l. Returns nil if l is not an acquisition site.
func (a *Analysis) LockSitesInClassOf(l ir.Location) []ir.Location {
	loc, ok := a.collector.pool.Lookup(l.First(), l.Second())
	if !ok {
		return nil
	}
	s, ok := a.bySite[loc]
	if !ok {
		return nil
	}
	return a.classes[a.table.Find(s.node)]
}

// NonSingletonLockSites returns the sites whose class has at least two sites, in traversal order
func (a *Analysis) NonSingletonLockSites() []ir.Location {
	var res []ir.Location
	for _, s := range a.collector.sites {
		if len(a.classes[a.table.Find(s.node)]) > 1 {
			res = append(res, s.loc)
		}
	}
	return res
}

// Classes returns the classes of sites, each sorted in traversal order, ordered by their first site
func (a *Analysis) Classes() [][]ir.Location {
	order := map[ir.Location]int{}
	for i, s := range a.collector.sites {
		order[s.loc] = i
	}
	var res [][]ir.Location
	for _, class := range a.classes {
		res = append(res, class)
	}
	sort.Slice(res, func(i, j int) bool { return order[res[i][0]] < order[res[j][0]] })
	return res
}
