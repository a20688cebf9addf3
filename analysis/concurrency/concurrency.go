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

// Package concurrency computes the dependences between the locations of a concurrent program that a model checker
// needs to reduce the interleavings it explores, and a may-follow relation between these locations.
//
// The Computer is registered as a processor on the traversal of the program, where it collects the field and array
// writes, the accesses, the call targets and all the locations of the program. Consolidate then computes, in order:
//
//   - the write-write dependences between writes to the same storage, which are symmetric
//   - the lock dependences between acquisition sites that may lock the same object, which are symmetric
//   - the interference dependences between reads and writes, which are directional
//   - the may-follow relation over the locations of the dependences
//
// and externalizes the results with LocationIds.
//
// The computer relies on collaborators for the escape, interference, lock and reachability information. The
// collaborators are only queried.
package concurrency

import (
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

// ID is the id under which the result of the computer is published in the context of a run
const ID controller.ID = "concurrency"

// EscapeOracle answers whether two references may point to the same object shared by threads
type EscapeOracle interface {
	Shared(r1 *ir.Ref, m1 *ir.Method, r2 *ir.Ref, m2 *ir.Method) bool
}

// InterferenceAnalysis gives the direct read/write dependences of a statement.
// Dependees returns the locations s depends on. Dependents returns the locations depending on s.
type InterferenceAnalysis interface {
	Dependees(s ir.Stmt, m *ir.Method) []ir.Location
	Dependents(s ir.Stmt, m *ir.Method) []ir.Location
}

// LockEquivalence groups the monitor acquisition sites that may acquire the same lock. The acquisition site of a
// synchronized method m is the location (nil, m).
type LockEquivalence interface {
	// LockSitesInClassOf returns the sites of the class of l, possibly including l
	LockSitesInClassOf(l ir.Location) []ir.Location

	// NonSingletonLockSites returns the sites whose class contains another site
	NonSingletonLockSites() []ir.Location
}

// ReachabilityOracle answers control-flow reachability queries
type ReachabilityOracle interface {
	// Reachable returns true if dstS in dstM may execute after srcS in srcM under some interleaving of the threads
	Reachable(srcM *ir.Method, srcS ir.Stmt, dstM *ir.Method, dstS ir.Stmt, tg ir.ThreadGraph) bool

	// PathExists returns true if dstM may start after srcM started
	PathExists(srcM, dstM *ir.Method) bool

	// ReachableFromStmt returns true if dstM may start after srcS in srcM executed
	ReachableFromStmt(srcM *ir.Method, srcS ir.Stmt, dstM *ir.Method) bool

	// ReachesStmt returns true if dstS in dstM may execute after srcM started
	ReachesStmt(srcM *ir.Method, dstM *ir.Method, dstS ir.Stmt) bool
}

// Collaborators are the oracles the computer queries. Interference may be nil, in which case no interference
// dependence is computed.
type Collaborators struct {
	Escape       EscapeOracle
	Interference InterferenceAnalysis
	Locks        LockEquivalence
	Reachability ReachabilityOracle
	Threads      ir.ThreadGraph
}
