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
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
)

// Result contains the dependences and the may-follow relation of a program, keyed by LocationIds
type Result struct {
	// Dependence maps each location to the locations it depends on
	Dependence map[string]map[string]bool

	// KnownTransitions contains every location observed, whether or not it has dependences
	KnownTransitions map[string]bool

	// MayFollow maps each location of the dependences to the locations that may occur after it
	MayFollow map[string]map[string]bool

	// Edges are the dependences between the locations of the program. Nil for results read back from storage.
	Edges map[ir.Location]map[ir.Location]bool
}

// DependsOn returns true if the location with id from depends on the location with id to
func (r *Result) DependsOn(from, to string) bool {
	return r.Dependence[from][to]
}

// MayFollowEdge returns true if the location with id dst may occur after the location with id src
func (r *Result) MayFollowEdge(src, dst string) bool {
	return r.MayFollow[src][dst]
}

// Equal returns true if r and other contain the same dependences, known transitions and may-follow relation
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	return funcutil.EqualSetMaps(r.Dependence, other.Dependence) &&
		funcutil.EqualSets(r.KnownTransitions, other.KnownTransitions) &&
		funcutil.EqualSetMaps(r.MayFollow, other.MayFollow)
}
