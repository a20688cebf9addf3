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

// Package analysistest contains helpers to load the test programs of the analyses
package analysistest

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
	"github.com/awslabs/ar-go-deps/analysis/ssafront"
	"golang.org/x/tools/go/ssa"
)

// LoadTest loads the program in the directory dir, looking for a main.go and a config.yaml. If additional files
// are specified as extraFiles, the program will be loaded using those files too.
func LoadTest(t *testing.T, dir string, extraFiles []string) (*ssa.Program, *config.Config) {
	// Load config; in command, should be set using some flag
	configFile := filepath.Join(dir, "config.yaml")
	config.SetGlobalConfig(configFile)
	files := []string{filepath.Join(dir, "./main.go")}
	for _, extraFile := range extraFiles {
		files = append(files, filepath.Join(dir, extraFile))
	}

	loaded, err := ssafront.LoadProgram(nil, "", ssa.BuilderMode(0), false, files)
	if err != nil {
		t.Fatalf("error loading packages: %v", err)
	}
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %v", err)
	}
	return loaded.Program, cfg
}

// BuildTest loads the program in the directory dir like LoadTest, and translates it into a program model. The
// logger returned discards its output unless the config sets a debug level.
func BuildTest(t *testing.T, dir string, extraFiles []string) (*ir.Program, *config.Config, *config.LogGroup) {
	prog, cfg := LoadTest(t, dir, extraFiles)
	logger := config.NewLogGroup(cfg)
	if !cfg.Verbose() {
		logger.SetAllOutput(io.Discard)
	}
	p, err := ssafront.Build(prog, cfg, logger)
	if err != nil {
		t.Fatalf("error building program model: %v", err)
	}
	return p, cfg, logger
}
