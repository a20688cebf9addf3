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

package controller

import (
	"github.com/awslabs/ar-go-deps/analysis/config"
	"github.com/awslabs/ar-go-deps/analysis/ir"
)

// ID identifies a kind of analysis, e.g. escape analysis. Several analyses may be registered under the same ID.
type ID string

// Context is the state shared by the analyses of one run. It is created per run and passed explicitly to every
// analysis.
type Context struct {
	// Logger is the logger of the run
	Logger *config.LogGroup

	// Config is the configuration of the run
	Config *config.Config

	// Program is the program analyzed
	Program *ir.Program

	// Entries are the methods the traversal of the program starts from
	Entries []*ir.Method

	// Provider provides the graphs of the program shared by the analyses
	Provider ir.GraphProvider

	// Info lets analyses publish results other analyses depend on, e.g. an oracle, under their ID
	Info map[ID]any
}

// NewContext returns a context for analyzing p with the entries of p. A nil logger is replaced by a logger
// configured from cfg, and a nil cfg by the default config.
func NewContext(cfg *config.Config, logger *config.LogGroup, p *ir.Program) *Context {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	ctx := &Context{
		Logger: logger,
		Config: cfg,
		Info:   map[ID]any{},
	}
	if p != nil {
		ctx.Program = p
		ctx.Entries = p.Entries
		ctx.Provider = ir.NewGraphProvider(p)
	}
	return ctx
}

// Lookup returns the information published under id, and false if there is none.
func (c *Context) Lookup(id ID) (any, bool) {
	x, ok := c.Info[id]
	return x, ok
}

// Publish stores x under id, replacing any previous information
func (c *Context) Publish(id ID, x any) {
	c.Info[id] = x
}
