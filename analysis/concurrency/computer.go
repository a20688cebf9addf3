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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

// Computer computes the dependences and the may-follow relation of a program. It is an ir.Processor: register it
// on the processing controller of the traversal of the program, then call Consolidate once the collaborators are
// stable.
type Computer struct {
	ir.BaseProcessor
	ir.NoopStmtOp

	logger           *config.LogGroup
	collab           Collaborators
	skipInterference bool
	maxMayFollow     int
	pool             *ir.LocationPool

	fieldWrites []*ir.FieldWrite
	arrayWrites []*ir.ArrayWrite
	// accesses are the reads and writes, in traversal order
	accesses       []ir.Stmt
	virtualTargets map[*ir.Method]bool
	staticTargets  map[*ir.Method]bool

	// known are all the locations observed, in order of first observation
	known    []ir.Location
	knownSet map[ir.Location]bool

	edges  map[ir.Location]map[ir.Location]bool
	ids    map[ir.Location]string
	result *Result
}

// An Option changes the settings of a Computer
type Option func(*Computer)

// WithoutInterference disables the interference dependences
func WithoutInterference() Option {
	return func(c *Computer) { c.skipInterference = true }
}

// WithMaxMayFollowLocations bounds the number of locations the may-follow relation is computed over. When the
// bound is exceeded, the relation is left empty. Zero or less means no bound.
func WithMaxMayFollowLocations(n int) Option {
	return func(c *Computer) { c.maxMayFollow = n }
}

// NewComputer returns a computer querying the collaborators
func NewComputer(logger *config.LogGroup, collab Collaborators, opts ...Option) *Computer {
	if logger == nil {
		logger = config.NewLogGroup(config.NewDefault())
	}
	c := &Computer{logger: logger, collab: collab, pool: ir.NewLocationPool()}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// SetInterference sets the interference analysis queried by Consolidate
func (c *Computer) SetInterference(a InterferenceAnalysis) {
	c.collab.Interference = a
}

// Reset drops the facts collected and the results
func (c *Computer) Reset() {
	c.pool.Reset()
	c.fieldWrites = nil
	c.arrayWrites = nil
	c.accesses = nil
	c.virtualTargets = map[*ir.Method]bool{}
	c.staticTargets = map[*ir.Method]bool{}
	c.known = nil
	c.knownSet = map[ir.Location]bool{}
	c.edges = map[ir.Location]map[ir.Location]bool{}
	c.ids = map[ir.Location]string{}
	c.result = nil
}

// observe records l as a known location and returns its canonical version
func (c *Computer) observe(l ir.Location) ir.Location {
	l = c.pool.Canonical(l)
	if !c.knownSet[l] {
		c.knownSet[l] = true
		c.known = append(c.known, l)
	}
	return l
}

// ProcessMethod records the monitor location of synchronized methods
func (c *Computer) ProcessMethod(m *ir.Method) {
	if m.Synchronized {
		c.observe(c.pool.MethodLocation(m))
	}
}

// ProcessStmt records the statement as a known location and collects the facts the computer needs
func (c *Computer) ProcessStmt(s ir.Stmt) {
	c.observe(c.pool.At(s))
	ir.StmtSwitch(c, s)
}

func (c *Computer) DoFieldWrite(s *ir.FieldWrite) {
	c.fieldWrites = append(c.fieldWrites, s)
	c.accesses = append(c.accesses, s)
}

func (c *Computer) DoArrayWrite(s *ir.ArrayWrite) {
	c.arrayWrites = append(c.arrayWrites, s)
	c.accesses = append(c.accesses, s)
}

func (c *Computer) DoFieldRead(s *ir.FieldRead) { c.accesses = append(c.accesses, s) }
func (c *Computer) DoArrayRead(s *ir.ArrayRead) { c.accesses = append(c.accesses, s) }

func (c *Computer) DoCall(s *ir.Call) {
	for _, callee := range s.Callees {
		if s.Virtual {
			c.virtualTargets[callee] = true
		} else {
			c.staticTargets[callee] = true
		}
	}
}

func (c *Computer) DoSpawn(s *ir.Spawn) {
	for _, callee := range s.Callees {
		c.staticTargets[callee] = true
	}
}

// addEdge records that from depends on to
func (c *Computer) addEdge(from, to ir.Location) {
	from = c.observe(from)
	to = c.observe(to)
	if c.edges[from] == nil {
		c.edges[from] = map[ir.Location]bool{}
	}
	c.edges[from][to] = true
}

func (c *Computer) addSymmetricEdge(l1, l2 ir.Location) {
	c.addEdge(l1, l2)
	c.addEdge(l2, l1)
}

// Consolidate computes the dependences and the may-follow relation. The result is computed once; later calls
// return the same result. ctx is checked for cancellation in the may-follow computation.
func (c *Computer) Consolidate(ctx context.Context) (*Result, error) {
	if c.result != nil {
		return c.result, nil
	}
	if c.collab.Escape == nil || c.collab.Locks == nil || c.collab.Reachability == nil {
		return nil, fmt.Errorf("computer is missing an escape, lock or reachability oracle")
	}

	c.runPhase("write-write dependence", c.computeWriteWrite)
	c.runPhase("lock dependence", c.computeLockDependence)
	if c.collab.Interference != nil && !c.skipInterference {
		c.runPhase("interference dependence", c.computeInterference)
	}

	locations, err := c.dependenceLocations()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	c.logger.Infof("Computing may-follow relation over %d locations ...", len(locations))
	mayFollow, err := c.computeMayFollow(ctx, locations)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("May-follow relation done (%.2f s)", time.Since(start).Seconds())

	res, err := c.externalize(mayFollow)
	if err != nil {
		return nil, err
	}
	c.result = res
	return res, nil
}

func (c *Computer) runPhase(name string, phase func() int) {
	start := time.Now()
	c.logger.Infof("Computing %s ...", name)
	n := phase()
	c.logger.Infof("%s done: %d edges (%.2f s)", name, n, time.Since(start).Seconds())
}

// computeWriteWrite records the symmetric dependences between writes to the same storage. Two writes to the same
// instance field depend on each other if their bases are shared. Writes to the same static field whose type cannot
// be aliased always depend on each other; for a static field of an aliasable type, the written values must be
// shared. Two array writes depend on each other if the element types are the same and the arrays are shared.
func (c *Computer) computeWriteWrite() int {
	n := 0
	for i, w1 := range c.fieldWrites {
		for _, w2 := range c.fieldWrites[i+1:] {
			if w1.Field != w2.Field {
				continue
			}
			if c.fieldWritesShared(w1, w2) {
				c.addSymmetricEdge(c.pool.At(w1), c.pool.At(w2))
				n += 2
			}
		}
	}
	for i, w1 := range c.arrayWrites {
		for _, w2 := range c.arrayWrites[i+1:] {
			if !ir.SameType(w1.Elem, w2.Elem) {
				continue
			}
			if c.collab.Escape.Shared(w1.Array, w1.Method(), w2.Array, w2.Method()) {
				c.addSymmetricEdge(c.pool.At(w1), c.pool.At(w2))
				n += 2
			}
		}
	}
	return n
}

// fieldWritesShared returns true if the writes w1 and w2 to the same field may write to the same shared storage
func (c *Computer) fieldWritesShared(w1, w2 *ir.FieldWrite) bool {
	if !w1.Field.Static {
		return c.collab.Escape.Shared(w1.Base, w1.Method(), w2.Base, w2.Method())
	}
	if w1.Field.Type == nil || !w1.Field.Type.Aliasable {
		return true
	}
	return c.collab.Escape.Shared(w1.Value, w1.Method(), w2.Value, w2.Method())
}

// computeLockDependence records the symmetric dependences between the acquisition sites of the same non-singleton
// lock class
func (c *Computer) computeLockDependence() int {
	n := 0
	for _, site := range c.collab.Locks.NonSingletonLockSites() {
		site = c.observe(site)
		for _, other := range c.collab.Locks.LockSitesInClassOf(site) {
			other = c.pool.Canonical(other)
			if other == site {
				continue
			}
			c.addSymmetricEdge(site, other)
			n++
		}
	}
	return n
}

// computeInterference records the directional dependences of the reads and writes
func (c *Computer) computeInterference() int {
	n := 0
	for _, s := range c.accesses {
		l := c.pool.At(s)
		for _, d := range c.collab.Interference.Dependees(s, s.Method()) {
			c.addEdge(l, d)
			n++
		}
		for _, d := range c.collab.Interference.Dependents(s, s.Method()) {
			c.addEdge(d, l)
			n++
		}
	}
	return n
}

// dependenceLocations returns the locations appearing on either side of a dependence, sorted by LocationId
func (c *Computer) dependenceLocations() ([]ir.Location, error) {
	set := map[ir.Location]bool{}
	for from, tos := range c.edges {
		set[from] = true
		for to := range tos {
			set[to] = true
		}
	}
	res := make([]ir.Location, 0, len(set))
	for l := range set {
		if _, err := c.LocationID(l); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	sort.Slice(res, func(i, j int) bool { return c.ids[res[i]] < c.ids[res[j]] })
	return res, nil
}

// mayFollow returns true if dst may occur after src, dispatching on whether each side is a statement or a method
func (c *Computer) mayFollow(src, dst ir.Location) bool {
	r := c.collab.Reachability
	srcS, srcM := src.First(), src.Second()
	dstS, dstM := dst.First(), dst.Second()
	switch {
	case srcS != nil && dstS != nil:
		return r.Reachable(srcM, srcS, dstM, dstS, c.collab.Threads)
	case srcS == nil && dstS == nil:
		return r.PathExists(srcM, dstM)
	case srcS != nil:
		return r.ReachableFromStmt(srcM, srcS, dstM)
	default:
		return r.ReachesStmt(srcM, dstM, dstS)
	}
}

// computeMayFollow computes the may-follow relation over all the ordered pairs of locations
func (c *Computer) computeMayFollow(ctx context.Context, locations []ir.Location) (map[string]map[string]bool, error) {
	res := map[string]map[string]bool{}
	if bound := c.maxMayFollow; bound > 0 && len(locations) > bound {
		c.logger.Warnf("%d dependence locations exceed the bound of %d: may-follow relation not computed",
			len(locations), bound)
		return res, nil
	}
	for _, src := range locations {
		for _, dst := range locations {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("may-follow computation interrupted: %w", err)
			}
			if !c.mayFollow(src, dst) {
				continue
			}
			srcID, dstID := c.ids[src], c.ids[dst]
			if res[srcID] == nil {
				res[srcID] = map[string]bool{}
			}
			res[srcID][dstID] = true
		}
	}
	return res, nil
}

// externalize converts the dependences and the known locations to LocationIds
func (c *Computer) externalize(mayFollow map[string]map[string]bool) (*Result, error) {
	res := &Result{
		Dependence:       map[string]map[string]bool{},
		KnownTransitions: map[string]bool{},
		MayFollow:        mayFollow,
		Edges:            c.edges,
	}
	for _, l := range c.known {
		id, err := c.LocationID(l)
		if err != nil {
			return nil, err
		}
		res.KnownTransitions[id] = true
	}
	for from, tos := range c.edges {
		fromID, err := c.LocationID(from)
		if err != nil {
			return nil, err
		}
		deps := map[string]bool{}
		for to := range tos {
			toID, err := c.LocationID(to)
			if err != nil {
				return nil, err
			}
			deps[toID] = true
		}
		res.Dependence[fromID] = deps
	}
	c.logger.Infof("%d known transitions, %d dependent locations", len(res.KnownTransitions), len(res.Dependence))
	return res, nil
}
