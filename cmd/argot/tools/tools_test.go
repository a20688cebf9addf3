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

package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/awslabs/ar-go-deps/analysis/config"
)

func TestCommonFlags(t *testing.T) {
	f := NewCommonFlags("test", "usage")
	if err := f.Parse([]string{"-with-test", "-verbose", "pkg"}); err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if !f.WithTest || !f.Verbose || f.ConfigPath != "" {
		t.Errorf("unexpected flags %+v", f)
	}
	if args := f.Args(); len(args) != 1 || args[0] != "pkg" {
		t.Errorf("unexpected arguments %v", args)
	}
	cfg, err := f.LoadConfig()
	if err != nil {
		t.Fatalf("could not load the default config: %v", err)
	}
	if cfg.LogLevel != int(config.DebugLevel) {
		t.Errorf("-verbose should set the debug level, got %d", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filename, []byte("max-may-follow-locations: 7\n"), 0o600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	f := NewCommonFlags("test", "usage")
	if err := f.Parse([]string{"-config", filename}); err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	cfg, err := f.LoadConfig()
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	if cfg.MaxMayFollowLocations != 7 {
		t.Errorf("expected the bound of the config file, got %d", cfg.MaxMayFollowLocations)
	}

	f = NewCommonFlags("test", "usage")
	if err := f.Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if _, err := f.LoadConfig(); err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}
