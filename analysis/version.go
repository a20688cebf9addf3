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

// Package analysis contains the analyses computing the dependences between the locations of a concurrent program
// that a model checker needs to reduce the interleavings it explores. The sub-packages are:
//
//   - ir: the program model, its traversal and its graphs
//   - ssafront: the translation of Go programs into the program model
//   - controller: the orchestration of the analyses to a common fixpoint
//   - escape, interference, locks, threads, reachability: the analyses the dependence computer queries
//   - concurrency: the dependence computer
//   - dependence: the run of all the analyses on a program
//   - persist: the storage of the results
package analysis

// Version is the version of the analyses
const Version = "v0.1.0"
