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

import (
	"strconv"
	"strings"

	"github.com/awslabs/ar-go-deps/analysis/ir"
)

const (
	// MonitorToken ends the LocationId of the monitor of a synchronized method
	MonitorToken = "monitor"

	staticOpen   = "<"
	staticClose  = ">"
	virtualOpen  = "["
	virtualClose = "]"
)

// methodID returns the name of m in LocationIds, e.g. "<A.m(int)>", or "[A.m(int)]" if m has only been observed as
// the target of virtual calls.
func (c *Computer) methodID(m *ir.Method) string {
	if c.virtualTargets[m] && !c.staticTargets[m] {
		return virtualOpen + m.Signature() + virtualClose
	}
	return staticOpen + m.Signature() + staticClose
}

// LocationID returns the LocationId of l: the name of its method followed by the index of its statement in the
// method, or by MonitorToken if l is a whole method location.
// Returns an *InternalConsistencyError if the statement of l is not in its method.
func (c *Computer) LocationID(l ir.Location) (string, error) {
	l = c.pool.Canonical(l)
	if id, ok := c.ids[l]; ok {
		return id, nil
	}
	m := l.Second()
	if m == nil {
		return "", &InternalConsistencyError{Location: l.String(), Reason: "location without method"}
	}
	var b strings.Builder
	b.WriteString(c.methodID(m))
	b.WriteByte(' ')
	if s := l.First(); s == nil {
		b.WriteString(MonitorToken)
	} else {
		i, ok := ir.IndexOf(m, s)
		if !ok {
			return "", &InternalConsistencyError{Location: l.String(), Reason: "statement not found in its method"}
		}
		b.WriteString(strconv.Itoa(i))
	}
	id := b.String()
	c.ids[l] = id
	return id, nil
}
