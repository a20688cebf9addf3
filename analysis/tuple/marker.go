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

package tuple

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

var markerSeq atomic.Uint64

// Marker wraps an optional content. When the content is present, equality, hash and string are those of the
// content; otherwise the marker only equals itself. Markers are used as sentinel values in ordered sequences.
type Marker struct {
	content any
	id      uint64
}

// NewMarker returns a marker wrapping content. content may be nil.
func NewMarker(content any) *Marker {
	return &Marker{content: content, id: markerSeq.Add(1)}
}

// Content returns the content of the marker, or nil
func (m *Marker) Content() any { return m.content }

// HasContent returns true when the marker wraps some content
func (m *Marker) HasContent() bool { return !isNil(m.content) }

// Equal implements Equaler
func (m *Marker) Equal(other any) bool {
	o, ok := other.(*Marker)
	if !ok || o == nil || m == nil {
		return ok && o == m
	}
	if m == o {
		return true
	}
	if !m.HasContent() || !o.HasContent() {
		return false
	}
	if e, ok := m.content.(Equaler); ok {
		return e.Equal(o.content)
	}
	if reflect.TypeOf(m.content) != reflect.TypeOf(o.content) || !reflect.TypeOf(m.content).Comparable() {
		return false
	}
	return m.content == o.content
}

// Hash implements Hasher
func (m *Marker) Hash() uint32 {
	if m.HasContent() {
		return hashOf(m.content)
	}
	return uint32(m.id) ^ uint32(m.id>>32)
}

func (m *Marker) String() string {
	if m.HasContent() {
		return stringOf(m.content)
	}
	return fmt.Sprintf("marker#%d", m.id)
}
