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

package dependence

import (
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
)

func TestLoadConfigOverrides(t *testing.T) {
	flags, err := NewFlags([]string{"-verbose", "-pointer", "-persist", "text", "-max-locations", "10", "main.go"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if args := flags.FlagSet.Args(); len(args) != 1 || args[0] != "main.go" {
		t.Errorf("unexpected arguments: %v", args)
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	if cfg.LogLevel != int(config.DebugLevel) || !cfg.UsePointerAnalysis || cfg.MaxMayFollowLocations != 10 {
		t.Errorf("flags should override the config: %+v", cfg.Options)
	}
	if cfg.PersistFormat != config.PersistText || cfg.ReportsDir != "." {
		t.Errorf("unexpected persistence settings: %+v", cfg.Options)
	}
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	flags, err := NewFlags([]string{"-persist", "xml", "main.go"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if _, err := loadConfig(flags); err == nil {
		t.Errorf("expected an error for an invalid persist format")
	}
}

func TestWithTestFlag(t *testing.T) {
	flags, err := NewFlags([]string{"-with-test", "pkg"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if !flags.WithTest {
		t.Errorf("-with-test should be set")
	}
	if args := flags.Args(); len(args) != 1 || args[0] != "pkg" {
		t.Errorf("unexpected arguments: %v", args)
	}
}
