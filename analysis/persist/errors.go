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

package persist

import "fmt"

// Kind distinguishes the failures of the persistence
type Kind int

const (
	// KindIO is a failure to read or write the storage
	KindIO Kind = iota
	// KindFormat is a failure to encode or decode the contents
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error wraps all the failures of the persistence. The in-memory results are never modified by a failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("persistence %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
