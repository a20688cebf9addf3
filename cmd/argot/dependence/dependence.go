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

// Package dependence implements the dependence sub-command
package dependence

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/awslabs/ar-go-deps/analysis"
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/dependence"
	"github.com/awslabs/ar-go-deps/analysis/ssafront"
	"github.com/awslabs/ar-go-deps/cmd/argot/tools"
	"github.com/awslabs/ar-go-deps/internal/formatutil"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
	"golang.org/x/tools/go/ssa"
)

const usage = ` Compute the dependences between the locations of a concurrent program.
Usage:
  argot dependence [options] <package path(s)>
Examples:
  % argot dependence -config config.yaml package...
  % argot dependence -pointer -persist text package...
`

// Flags represents the parsed flags of the dependence sub-command.
type Flags struct {
	*tools.CommonFlags
	pointer      bool
	persist      string
	maxLocations int
}

// NewFlags returns the parsed flags of the dependence sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := Flags{CommonFlags: tools.NewCommonFlags("dependence", usage)}
	flags.FlagSet.BoolVar(&flags.pointer, "pointer", false,
		"use the pointer analysis for the call graph and the objects")
	flags.FlagSet.StringVar(&flags.persist, "persist", "", "override the persist format of the config: binary or text")
	flags.FlagSet.IntVar(&flags.maxLocations, "max-locations", 0,
		"override the bound on the number of locations of the may-follow relation")
	if err := flags.Parse(args); err != nil {
		return Flags{}, err
	}
	return flags, nil
}

// loadConfig returns the config of the flags, overridden by the command-line parameters
func loadConfig(flags Flags) (*config.Config, error) {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flags.pointer {
		cfg.UsePointerAnalysis = true
	}
	if flags.maxLocations > 0 {
		cfg.MaxMayFollowLocations = flags.maxLocations
	}
	if flags.persist != "" {
		cfg.PersistFormat = flags.persist
		if cfg.ReportsDir == "" {
			cfg.ReportsDir = "."
		}
	}
	switch cfg.PersistFormat {
	case "", config.PersistBinary, config.PersistText:
	default:
		return nil, fmt.Errorf("invalid persist format %q", cfg.PersistFormat)
	}
	return cfg, nil
}

// Run runs the dependence computation with flags.
func Run(flags Flags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof(formatutil.Faint("Argot dependence tool - " + analysis.Version))
	logger.Infof(formatutil.Faint("Reading sources"))

	loaded, err := ssafront.LoadProgram(nil, "", ssa.InstantiateGenerics, flags.WithTest, flags.Args())
	if err != nil {
		return fmt.Errorf("could not load program: %v", err)
	}
	prog, err := ssafront.Build(loaded.Program, cfg, logger)
	if err != nil {
		return fmt.Errorf("could not build program model: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()
	res, err := dependence.Analyze(ctx, cfg, logger, prog)
	duration := time.Since(start)
	for _, initErr := range res.InitErrors {
		logger.Warnf("%v", initErr)
	}
	if err != nil {
		return fmt.Errorf("dependence analysis failed: %w", err)
	}

	logger.Infof("")
	logger.Infof(strings.Repeat("*", 80))
	logger.Infof("Analysis took %3.4f s", duration.Seconds())
	logger.Infof("")
	Report(logger, res)
	return nil
}

// Report logs the results of the dependence computation
func Report(logger *config.LogGroup, res dependence.AnalysisResult) {
	r := res.Result
	logger.Infof("%s %d", formatutil.Bold("Known transitions:"), len(r.KnownTransitions))
	logger.Infof("%s %d", formatutil.Bold("Escaping objects: "), len(res.Escaping))
	logger.Infof("%s %d", formatutil.Bold("Lock classes:     "), len(res.LockClasses))
	if len(r.Dependence) == 0 {
		logger.Infof("RESULT:\n\t\t%s", formatutil.Green("No dependence between threads ✓")) // safe %s
	} else {
		logger.Warnf("RESULT:\n\t\t%s", formatutil.Yellow(fmt.Sprintf("%d dependent locations", len(r.Dependence))))
	}
	if logger.LogsDebug() {
		for _, from := range funcutil.SortedKeys(r.Dependence) {
			logger.Debugf("%s depends on:", formatutil.Sanitize(from))
			for _, to := range funcutil.SortedKeys(r.Dependence[from]) {
				logger.Debugf("\t%s", formatutil.Sanitize(to))
			}
		}
	}
	if res.PersistedFile != "" {
		logger.Infof("Results written to %s", formatutil.Cyan(res.PersistedFile))
	}
}
