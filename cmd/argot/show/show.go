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

// Package show implements the show sub-command, which prints persisted results
package show

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/awslabs/ar-go-deps/analysis/concurrency"
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/persist"
	"github.com/awslabs/ar-go-deps/cmd/argot/tools"
	"github.com/awslabs/ar-go-deps/internal/formatutil"
	"github.com/awslabs/ar-go-deps/internal/funcutil"
)

const usage = ` Print the results persisted by the dependence tool.
Usage:
  argot show [options] <results file>
Examples:
  % argot show -format text dependence.yaml
`

// Flags represents the parsed flags of the show sub-command.
type Flags struct {
	FlagSet *flag.FlagSet
	verbose bool
	format  string
}

// NewFlags returns the parsed flags of the show sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := Flags{FlagSet: flag.NewFlagSet("show", flag.ExitOnError)}
	flags.FlagSet.BoolVar(&flags.verbose, "verbose", false,
		"also print the known transitions and the may-follow relation")
	flags.FlagSet.StringVar(&flags.format, "format", "",
		"format of the results file: binary or text (default: from extension)")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command show with args %v: %v", args, err)
	}
	return flags, nil
}

// formatOf returns the format given on the command line, or the format matching the extension of filename
func formatOf(name string, filename string) (persist.Format, error) {
	switch name {
	case config.PersistBinary, config.PersistText:
		return persist.Format(name), nil
	case "":
		if filepath.Ext(filename) == persist.FormatText.Extension() {
			return persist.FormatText, nil
		}
		return persist.FormatBinary, nil
	default:
		return "", fmt.Errorf("invalid format %q", name)
	}
}

// Run prints the results of the file given in flags to w
func Run(flags Flags, w io.Writer) error {
	args := flags.FlagSet.Args()
	if len(args) != 1 {
		return fmt.Errorf("expected one results file, got %d arguments", len(args))
	}
	f, err := formatOf(flags.format, args[0])
	if err != nil {
		return err
	}
	res, err := persist.LoadFile(args[0], f)
	if err != nil {
		return err
	}
	Print(w, res, flags.verbose)
	return nil
}

// Print writes the dependences of res to w, sorted by location. If verbose, the known transitions and the
// may-follow relation are also written.
func Print(w io.Writer, res *concurrency.Result, verbose bool) {
	fmt.Fprintf(w, "%s\n", formatutil.Bold("Dependences"))
	for _, from := range funcutil.SortedKeys(res.Dependence) {
		fmt.Fprintf(w, "  %s\n", formatutil.Sanitize(from))
		for _, to := range funcutil.SortedKeys(res.Dependence[from]) {
			fmt.Fprintf(w, "    -> %s\n", formatutil.Sanitize(to))
		}
	}
	if !verbose {
		fmt.Fprintf(w, "%d known transitions, %d locations in the may-follow relation\n",
			len(res.KnownTransitions), len(res.MayFollow))
		return
	}
	fmt.Fprintf(w, "%s\n", formatutil.Bold("Known transitions"))
	for _, l := range funcutil.SortedKeys(res.KnownTransitions) {
		fmt.Fprintf(w, "  %s\n", formatutil.Sanitize(l))
	}
	fmt.Fprintf(w, "%s\n", formatutil.Bold("May follow"))
	for _, src := range funcutil.SortedKeys(res.MayFollow) {
		fmt.Fprintf(w, "  %s\n", formatutil.Sanitize(src))
		for _, dst := range funcutil.SortedKeys(res.MayFollow[src]) {
			fmt.Fprintf(w, "    -> %s\n", formatutil.Sanitize(dst))
		}
	}
}
