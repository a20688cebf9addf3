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

// Package dependence runs the whole dependence computation on a program: the escape, interference and lock
// analyses under the analyses controller, then the concurrency dependence computer.
package dependence

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/awslabs/ar-go-deps/analysis/concurrency"
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/controller"
	"github.com/awslabs/ar-go-deps/analysis/escape"
	"github.com/awslabs/ar-go-deps/analysis/interference"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/analysis/locks"
	"github.com/awslabs/ar-go-deps/analysis/persist"
	"github.com/awslabs/ar-go-deps/analysis/reachability"
	"github.com/awslabs/ar-go-deps/analysis/threads"
)

// AnalysisResult contains the results of a run
type AnalysisResult struct {
	// Result is the dependence map, the known transitions and the may-follow relation
	Result *concurrency.Result

	// Threads is the thread graph of the program
	Threads *threads.Graph

	// Escaping are the objects that may be shared between threads
	Escaping []string

	// LockClasses are the classes of the monitor acquisition sites that may acquire the same lock
	LockClasses [][]ir.Location

	// InitErrors are the errors of the analyses that could not be initialized. The run proceeds without them.
	InitErrors []error

	// PersistedFile is the file the result has been written to, if any
	PersistedFile string
}

// Analyze runs the dependence computation on the program prog with the configuration cfg.
//
// - logger may be nil, in which case a logger is built from cfg.
//
// - the entries of prog are the methods the traversal of the program starts from.
//
// If cfg sets a persist-format, the result is written to the reports directory of cfg, and read back and compared
// to the in-memory result if verify-persistence is set.
func Analyze(ctx context.Context, cfg *config.Config, logger *config.LogGroup, prog *ir.Program) (AnalysisResult,
	error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	actx := controller.NewContext(cfg, logger, prog)
	logger = actx.Logger
	if prog == nil {
		return AnalysisResult{}, controller.ErrNoProgram
	}

	// ** First step **
	// The thread graph and the reachability oracle only depend on the program
	start := time.Now()
	logger.Infof("Computing thread graph ...")
	tg := threads.Compute(logger, actx.Provider, actx.Entries)
	oracle := reachability.New(logger, actx.Provider)
	logger.Infof("Thread graph done: %d threads (%.2f s)", len(tg.Ids), time.Since(start).Seconds())

	// ** Second step **
	// The orchestrated analyses and the computer share a single traversal of the program
	esc := escape.New()
	inter := interference.New()
	lk := locks.New()
	pc := ir.NewProcessingController()
	ac := controller.NewAnalysesController(actx, pc)
	ac.SetAnalyses(escape.ID, esc)
	ac.SetAnalyses(interference.ID, inter)
	ac.SetAnalyses(locks.ID, lk)

	collab := concurrency.Collaborators{
		Escape:       esc,
		Locks:        lk,
		Reachability: oracle,
		Threads:      tg,
	}
	var opts []concurrency.Option
	if cfg.SkipInterference {
		opts = append(opts, concurrency.WithoutInterference())
	}
	if cfg.MaxMayFollowLocations > 0 {
		opts = append(opts, concurrency.WithMaxMayFollowLocations(cfg.MaxMayFollowLocations))
	}
	computer := concurrency.NewComputer(logger, collab, opts...)
	pc.Register(computer)

	if err := ac.Initialize(); err != nil {
		return AnalysisResult{}, err
	}
	res := AnalysisResult{Threads: tg}
	for _, initErr := range ac.InitErrors() {
		res.InitErrors = append(res.InitErrors, initErr)
	}
	if len(ac.Analyses(escape.ID)) == 0 || len(ac.Analyses(locks.ID)) == 0 {
		return res, fmt.Errorf("escape and lock analyses are required: %v", res.InitErrors)
	}
	// the computer only queries the interference analysis if it has been initialized
	if len(ac.Analyses(interference.ID)) > 0 {
		computer.SetInterference(inter)
	}

	start = time.Now()
	logger.Infof("Running analyses %v ...", ac.IDs())
	if err := ac.Execute(ctx); err != nil {
		return res, err
	}
	logger.Infof("Analyses done (%.2f s)", time.Since(start).Seconds())

	// ** Third step **
	// Consolidate the dependences once all the collaborators are stable
	result, err := computer.Consolidate(ctx)
	if err != nil {
		return res, err
	}
	actx.Publish(concurrency.ID, result)
	res.Result = result
	res.Escaping = esc.EscapingObjects()
	res.LockClasses = lk.Classes()

	// ** Fourth step **
	// Optional persistence of the results
	if cfg.PersistFormat != "" {
		f := persist.Format(cfg.PersistFormat)
		filename := filepath.Join(cfg.ReportsDir, config.DefaultResultsFileName+f.Extension())
		logger.Infof("Writing results to %s", filename)
		if err := persist.SaveFile(filename, result, f); err != nil {
			return res, err
		}
		res.PersistedFile = filename
		if cfg.VerifyPersistence {
			if err := persist.VerifyFile(filename, result, f); err != nil {
				return res, err
			}
			logger.Infof("Results in %s verified", filename)
		}
	}
	return res, nil
}
