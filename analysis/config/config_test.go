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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
options:
  log-level: 4
  use-pointer-analysis: true
  persist-format: text
  verify-persistence: true
  pkg-filter: example.com/.*
entry-points:
  - package: main
    method: main
  - receiver: Pool
    method: Run.*
`))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if cfg.LogLevel != int(DebugLevel) || !cfg.Verbose() {
		t.Errorf("expected debug log level, got %d", cfg.LogLevel)
	}
	if !cfg.UsePointerAnalysis || !cfg.VerifyPersistence || cfg.PersistFormat != PersistText {
		t.Errorf("options not parsed: %+v", cfg.Options)
	}
	if len(cfg.EntryPoints) != 2 {
		t.Fatalf("expected 2 entry points, got %d", len(cfg.EntryPoints))
	}
	if !cfg.MatchPkgFilter("example.com/x") || cfg.MatchPkgFilter("other.org/x") {
		t.Errorf("package filter not applied")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`options: {}`))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("default log level should be info")
	}
	if !cfg.MatchPkgFilter("anything") {
		t.Errorf("no package filter should match anything")
	}
}

func TestParseInvalidPersistFormat(t *testing.T) {
	_, err := Parse([]byte("options:\n  persist-format: xml\n"))
	if err == nil || !strings.Contains(err.Error(), "persist-format") {
		t.Fatalf("expected an error about persist-format, got %v", err)
	}
}

func TestIsEntryPoint(t *testing.T) {
	cfg, err := Parse([]byte(`
entry-points:
  - package: (main)|(command-line-arguments)$
    method: main
  - receiver: Pool
    method: Run.*
`))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	cases := []struct {
		pkg, recv, method string
		expected          bool
	}{
		{"main", "", "main", true},
		{"command-line-arguments", "", "main", true},
		{"main", "", "init", false},
		{"example.com/pool", "Pool", "RunAll", true},
		{"example.com/pool", "Worker", "RunAll", false},
	}
	for _, c := range cases {
		if got := cfg.IsEntryPoint(c.pkg, c.recv, c.method); got != c.expected {
			t.Errorf("IsEntryPoint(%q, %q, %q) = %v, expected %v", c.pkg, c.recv, c.method, got, c.expected)
		}
	}
}

func TestCodeIdentifierWithoutRegexes(t *testing.T) {
	cid := CodeIdentifier{Package: "(", Method: "main"}
	if compileRegexes(cid).computedRegexs != nil {
		t.Fatalf("invalid regex should not compile")
	}
	if !cid.Matches("(", "", "main") || cid.Matches("main", "", "main") {
		t.Errorf("identifiers without regexes should be compared for equality")
	}
}

func TestLoadCreatesReportsDir(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(filename, []byte("options:\n  persist-format: binary\n"), 0600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	cfg, err := Load(filename)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ReportsDir == "" {
		t.Fatalf("reports dir should be set")
	}
	if _, err := os.Stat(cfg.ReportsDir); err != nil {
		t.Errorf("reports dir should exist: %v", err)
	}
	if cfg.RelPath("x.yaml") != filepath.Join(dir, "x.yaml") {
		t.Errorf("unexpected relative path %s", cfg.RelPath("x.yaml"))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("loading a missing file should fail")
	}
}

func TestLogGroupLevels(t *testing.T) {
	cfg := NewDefault()
	cfg.LogLevel = int(WarnLevel)
	l := NewLogGroup(cfg)
	var buf bytes.Buffer
	l.SetAllOutput(&buf)
	l.SetAllFlags(0)
	l.Infof("hidden")
	l.Warnf("shown %d", 1)
	l.Errorf("error")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should not be printed at warn level")
	}
	if !strings.Contains(out, "[WARN] shown 1") || !strings.Contains(out, "[ERROR] error") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLogGroupSilenceWarn(t *testing.T) {
	cfg := NewDefault()
	cfg.SilenceWarn = true
	l := NewLogGroup(cfg)
	var buf bytes.Buffer
	l.SetAllOutput(&buf)
	l.Warnf("warning")
	l.Infof("info")
	if strings.Contains(buf.String(), "warning") || !strings.Contains(buf.String(), "info") {
		t.Errorf("warnings should be silenced, info kept: %q", buf.String())
	}
	if l.LogsDebug() {
		t.Errorf("debug should not be enabled at info level")
	}
}
