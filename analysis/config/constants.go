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

const (
	// PersistBinary is the value of persist-format for a binary (gob) encoding of the results
	PersistBinary = "binary"
	// PersistText is the value of persist-format for a text (yaml) encoding of the results
	PersistText = "text"
	// DefaultResultsFileName is the name of the file the results are persisted to in the reports directory
	DefaultResultsFileName = "dependence"
)
