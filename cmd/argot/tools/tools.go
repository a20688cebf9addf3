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

// Package tools contains utility types and functions for Argot tool frontends.
package tools

import (
	"flag"
	"fmt"
	"go/build"
	"os"

	"github.com/awslabs/ar-go-deps/analysis/config"
	"golang.org/x/tools/go/buildutil"
)

// CommonFlags are the flags shared by the sub-commands: -config, -verbose, -with-test and -build-tags.
// A sub-command registers its own flags on FlagSet before calling Parse, which sets the fields.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool
	WithTest   bool
}

// NewCommonFlags returns the common flags of the sub-command name. usage is printed before the documentation of the
// flags by --help.
func NewCommonFlags(name string, usage string) *CommonFlags {
	f := &CommonFlags{FlagSet: flag.NewFlagSet(name, flag.ExitOnError)}
	f.FlagSet.StringVar(&f.ConfigPath, "config", "", "config file path for analysis")
	f.FlagSet.BoolVar(&f.Verbose, "verbose", false, "verbose printing on standard output")
	f.FlagSet.BoolVar(&f.WithTest, "with-test", false, "load the tests of the packages analyzed")
	f.FlagSet.Var((*buildutil.TagsFlag)(&build.Default.BuildTags), "build-tags", buildutil.TagsFlagDoc)
	SetUsage(f.FlagSet, usage)
	return f
}

// Parse parses the arguments of the sub-command
func (f *CommonFlags) Parse(args []string) error {
	if err := f.FlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse command %s with args %v: %v", f.FlagSet.Name(), args, err)
	}
	return nil
}

// Args returns the arguments left after the flags
func (f *CommonFlags) Args() []string { return f.FlagSet.Args() }

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// LoadConfig returns the config of the flags: the default config when no -config is given, the config file
// otherwise. -verbose raises the log level to debug.
func (f *CommonFlags) LoadConfig() (*config.Config, error) {
	cfg := config.NewDefault()
	if f.ConfigPath != "" {
		c, err := config.Load(f.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %v", f.ConfigPath, err)
		}
		cfg = c
	}
	if f.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}
