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

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/awslabs/ar-go-deps/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the dependence analyses and the entry points of the program.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options

	sourceFile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// EntryPoints lists the functions the traversal of the program starts from. When empty, the main and init
	// functions of the main packages are used.
	EntryPoints []CodeIdentifier `yaml:"entry-points"`
}

// Options are the scalar settings of the analyses
type Options struct {
	// ReportsDir is the directory where the persisted results are stored. If the config file does not specify a
	// ReportsDir but sets a PersistFormat, then ReportsDir will be created next to the config file.
	ReportsDir string `yaml:"reports-dir"`

	// PkgFilter restricts the functions of the program that are modeled to those whose package matches the filter.
	PkgFilter string `yaml:"pkg-filter"`

	// UsePointerAnalysis makes the Go frontend run the pointer analysis to compute the call graph and the objects
	// each reference may point to. Otherwise, a class hierarchy call graph and type-based objects are used.
	UsePointerAnalysis bool `yaml:"use-pointer-analysis"`

	// SkipInterference excludes the read/write interference edges from the dependence map. Write-write and lock
	// dependence are always computed.
	SkipInterference bool `yaml:"skip-interference"`

	// MaxMayFollowLocations bounds the number of dependence locations the may-follow relation is computed over.
	// Zero means no bound. When the bound is exceeded, the may-follow relation is left empty.
	MaxMayFollowLocations int `yaml:"max-may-follow-locations"`

	// PersistFormat is either "binary", "text" or empty. When non-empty, the results are written to ReportsDir.
	PersistFormat string `yaml:"persist-format"`

	// VerifyPersistence reads the persisted results back and checks that they are equal to the in-memory results
	VerifyPersistence bool `yaml:"verify-persistence"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:  "",
		EntryPoints: nil,
		Options: Options{
			ReportsDir:            "",
			PkgFilter:             "",
			UsePointerAnalysis:    false,
			SkipInterference:      false,
			MaxMayFollowLocations: 0,
			PersistFormat:         "",
			VerifyPersistence:     false,
			LogLevel:              int(InfoLevel),
			SilenceWarn:           false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.sourceFile = filename

	if cfg.PersistFormat != "" {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Parse reads a configuration from the yaml contents b. Unlike Load, it does not create any reports directory.
func Parse(b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	switch cfg.PersistFormat {
	case "", PersistBinary, PersistText:
	default:
		return nil, fmt.Errorf("invalid persist-format %q, expected %q or %q",
			cfg.PersistFormat, PersistBinary, PersistText)
	}

	if cfg.PkgFilter != "" {
		r, err := regexp.Compile(cfg.PkgFilter)
		if err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	funcutil.MapInPlace(cfg.EntryPoints, compileRegexes)
	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// IsEntryPoint returns true if the function matches some entry point of the config
func (c Config) IsEntryPoint(pkg, receiver, method string) bool {
	return funcutil.Exists(c.EntryPoints, func(cid CodeIdentifier) bool { return cid.Matches(pkg, receiver, method) })
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
