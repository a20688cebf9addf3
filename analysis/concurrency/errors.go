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

package concurrency

import "fmt"

// InternalConsistencyError is returned when the computer finds a location that contradicts the program, e.g. a
// statement that is not in its method. Results computed until then must be discarded.
type InternalConsistencyError struct {
	Location string
	Reason   string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error at %s: %s", e.Location, e.Reason)
}
