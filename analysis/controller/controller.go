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

// Package controller drives a set of analyses to a global fixpoint.
//
// Analyses are registered under an ID with SetAnalyses. Initialize initializes every analysis, drops the ones that
// fail, and runs the pre-processing traversal of the program once. Execute then calls Analyze on the analyses round
// robin until a pass over the analyses does not stabilize any new analysis.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
)

// An Analysis is a unit of work driven by the AnalysesController.
//
// Analyze must make all the progress the analysis can make given the current state of the analyses it depends on.
// An analysis that is not stable after Analyze is waiting for another analysis, and is called again in the next pass.
// The controller does not detect non-termination: analyses must have finite height.
type Analysis interface {
	// Initialize prepares the analysis for a run. An error drops the analysis from the run.
	Initialize(ctx *Context) error

	// Analyze runs the analysis
	Analyze()

	// IsStable returns true when the results of the analysis will not change anymore
	IsStable() bool

	// Reset drops the results of the analysis
	Reset()

	// PreProcessor returns the processor to run during the pre-processing traversal, or nil if the analysis does
	// not need one.
	PreProcessor() ir.Processor
}

// State is the state of an AnalysesController
type State int

const (
	// Unregistered is the state of a controller that has not been initialized
	Unregistered State = iota
	// Initialized is the state of a controller whose analyses have been initialized and pre-processed
	Initialized
	// Stable is the state of a controller after the analyses have been executed
	Stable
)

func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Initialized:
		return "initialized"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AnalysesController registers analyses and drives them to a fixpoint
type AnalysesController struct {
	ctx        *Context
	pc         *ir.ProcessingController
	analyses   map[ID][]Analysis
	initErrors []*AnalysisInitError
	state      State
}

// NewAnalysesController returns a controller for the run described by ctx. The pre-processors of the analyses are
// registered on pc. If pc is nil, a new processing controller is used.
func NewAnalysesController(ctx *Context, pc *ir.ProcessingController) *AnalysesController {
	if pc == nil {
		pc = ir.NewProcessingController()
	}
	return &AnalysesController{
		ctx:      ctx,
		pc:       pc,
		analyses: map[ID][]Analysis{},
		state:    Unregistered,
	}
}

// Context returns the context of the controller
func (c *AnalysesController) Context() *Context { return c.ctx }

// ProcessingController returns the processing controller of the pre-processing traversal
func (c *AnalysesController) ProcessingController() *ir.ProcessingController { return c.pc }

// SetAnalyses registers the analyses under id, adding them to the analyses already registered under id.
func (c *AnalysesController) SetAnalyses(id ID, analyses ...Analysis) {
	for _, a := range analyses {
		if a == nil {
			continue
		}
		c.analyses[id] = append(c.analyses[id], a)
		if p := a.PreProcessor(); p != nil {
			c.pc.Register(p)
		}
	}
}

// Analyses returns the analyses registered under id
func (c *AnalysesController) Analyses(id ID) []Analysis {
	return c.analyses[id]
}

// IDs returns the registered ids in sorted order
func (c *AnalysesController) IDs() []ID {
	return funcutil.SortedKeys(c.analyses)
}

// InitErrors returns the initialization failures of the last call to Initialize
func (c *AnalysesController) InitErrors() []*AnalysisInitError {
	return c.initErrors
}

// State returns the current state of the controller
func (c *AnalysesController) State() State {
	return c.state
}

// IsStable returns true when the analyses have been executed to a fixpoint
func (c *AnalysesController) IsStable() bool {
	return c.state == Stable
}

// Initialize initializes all the analyses and runs the pre-processing traversal from the entries of the context.
// An analysis that fails to initialize is removed from the controller, and the failure is recorded in InitErrors.
// Returns ErrNoProgram or ErrNoEntries if the context has no program or no entry methods.
// A controller that is already initialized is left unchanged: Reset it first to initialize it again.
func (c *AnalysesController) Initialize() error {
	if c.ctx == nil || c.ctx.Program == nil {
		return ErrNoProgram
	}
	if len(c.ctx.Entries) == 0 {
		return ErrNoEntries
	}
	if c.state != Unregistered {
		return nil
	}
	logger := c.ctx.Logger
	c.initErrors = nil
	for _, id := range c.IDs() {
		var kept []Analysis
		for _, a := range c.analyses[id] {
			if err := a.Initialize(c.ctx); err != nil {
				initErr := &AnalysisInitError{ID: id, Analysis: a, Err: err}
				logger.Warnf("%v; dropping it", initErr)
				c.initErrors = append(c.initErrors, initErr)
				if p := a.PreProcessor(); p != nil {
					c.pc.Unregister(p)
				}
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			delete(c.analyses, id)
		} else {
			c.analyses[id] = kept
		}
	}

	start := time.Now()
	visited := c.pc.Process(c.ctx.Entries)
	logger.Debugf("Pre-processed %d methods (%.2f s)", len(visited), time.Since(start).Seconds())
	c.state = Initialized
	return nil
}

// Execute runs the analyses until a full pass over the analyses that are not stable yet does not make any new
// analysis stable. Analyses that are already stable are not analyzed again. ctx is checked for cancellation between
// passes.
func (c *AnalysesController) Execute(ctx context.Context) error {
	if c.state == Unregistered {
		return ErrNotInitialized
	}
	logger := c.ctx.Logger
	ids := c.IDs()
	done := map[Analysis]bool{}
	for _, id := range ids {
		for _, a := range c.analyses[id] {
			done[a] = a.IsStable()
		}
	}
	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("analyses interrupted after %d passes: %w", pass-1, err)
		}
		stabilized := 0
		for _, id := range ids {
			for _, a := range c.analyses[id] {
				if done[a] {
					continue
				}
				a.Analyze()
				if a.IsStable() {
					done[a] = true
					stabilized++
				}
			}
		}
		logger.Debugf("Pass %d: %d analyses stabilized", pass, stabilized)
		if stabilized == 0 {
			break
		}
	}
	for _, id := range ids {
		for _, a := range c.analyses[id] {
			if !done[a] {
				logger.Warnf("analysis %T (%s) did not stabilize", a, id)
			}
		}
	}
	c.state = Stable
	return nil
}

// Reset resets all the analyses and the graph provider of the context, then removes all the analyses.
func (c *AnalysesController) Reset() {
	for _, id := range c.IDs() {
		for _, a := range c.analyses[id] {
			a.Reset()
			if p := a.PreProcessor(); p != nil {
				c.pc.Unregister(p)
			}
		}
	}
	if c.ctx != nil && c.ctx.Provider != nil {
		c.ctx.Provider.Reset()
	}
	c.analyses = map[ID][]Analysis{}
	c.initErrors = nil
	c.state = Unregistered
}
