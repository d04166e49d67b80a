/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package coll

import (
	"reflect"

	"dirpx.dev/tfx/apis"
)

// Set is an insertion-ordered set. Duplicates are dropped on Add.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

// NewSet returns a set holding items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Items returns the elements in insertion order.
func (s Set[T]) Items() []T { return append([]T(nil), s.items...) }

// SequenceKind reports apis.Set.
func (Set[T]) SequenceKind() apis.CollectionKind { return apis.Set }

// ElemType returns the element type T.
func (Set[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// Len returns the number of elements.
func (s Set[T]) Len() int { return len(s.items) }

// Range calls fn for each element in insertion order until fn returns
// false.
func (s Set[T]) Range(fn func(any) bool) {
	for _, it := range s.items {
		if !fn(it) {
			return
		}
	}
}

// Append adds x, converting it to T when needed. A duplicate is dropped.
func (s *Set[T]) Append(x any) error {
	v, err := cast[T](x)
	if err != nil {
		return err
	}
	s.Add(v)
	return nil
}
