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

// Package tuple implements the small identity value types used as map keys and dependence edge endpoints: pairs,
// triples and markers, with optional caching of their hash and string representation, and pools that return a
// canonical instance for each combination of components (flyweights).
package tuple

import (
	"fmt"
	"hash/fnv"
	"reflect"
)

const (
	hashSeed       = 17
	hashMultiplier = 37
)

// A Hasher provides its own hash code. Components implementing Hasher are hashed by calling Hash.
type Hasher interface {
	Hash() uint32
}

// An Equaler provides its own structural equality. Components implementing Equaler are compared by calling Equal
// instead of using ==.
type Equaler interface {
	Equal(other any) bool
}

// combine folds the component hashes with the multiplicative mix used by all tuples. A nil component contributes no
// term.
func combine(components ...any) uint32 {
	h := uint32(hashSeed)
	for _, c := range components {
		if isNil(c) {
			continue
		}
		h = hashMultiplier*h + hashOf(c)
	}
	return h
}

func hashOf(c any) uint32 {
	switch x := c.(type) {
	case Hasher:
		return x.Hash()
	case string:
		return hashString(x)
	case int:
		return uint32(x)
	case int32:
		return uint32(x)
	case int64:
		return uint32(x) ^ uint32(x>>32)
	case uint32:
		return x
	case uint64:
		return uint32(x) ^ uint32(x>>32)
	case bool:
		if x {
			return 1231
		}
		return 1237
	case fmt.Stringer:
		return hashString(x.String())
	default:
		return hashString(fmt.Sprintf("%v", c))
	}
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// isNil returns true for untyped nil and for nil pointers, maps, slices, funcs and channels stored in an interface.
func isNil(c any) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// equalComponent compares two components, using Equal if the first implements Equaler.
func equalComponent[T comparable](x, y T) bool {
	if x == y {
		return true
	}
	if e, ok := any(x).(Equaler); ok {
		return e.Equal(y)
	}
	return false
}

func stringOf(c any) string {
	if isNil(c) {
		return "nil"
	}
	return fmt.Sprintf("%v", c)
}
