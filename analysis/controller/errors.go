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
	"errors"
	"fmt"
)

var (
	// ErrNoProgram is returned when the controller is initialized without a program
	ErrNoProgram = errors.New("no program to analyze")

	// ErrNoEntries is returned when the controller is initialized without entry methods
	ErrNoEntries = errors.New("no entry methods to start the analyses from")

	// ErrNotInitialized is returned when the analyses are executed before being initialized
	ErrNotInitialized = errors.New("analyses have not been initialized")
)

// AnalysisInitError is raised when an analysis fails to initialize. The controller recovers from it by dropping the
// analysis.
type AnalysisInitError struct {
	ID       ID
	Analysis Analysis
	Err      error
}

func (e *AnalysisInitError) Error() string {
	return fmt.Sprintf("analysis %T (%s) failed to initialize: %v", e.Analysis, e.ID, e.Err)
}

func (e *AnalysisInitError) Unwrap() error {
	return e.Err
}
