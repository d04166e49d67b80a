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
	"slices"

	"dirpx.dev/tfx/apis"
)

// Stack is a LIFO stack. It is written top first, and elements read back
// are appended below the ones already read, so the top stays on top across
// a round trip.
type Stack[T any] struct {
	items []T // bottom first
	below []T // appended below items, top first
}

// NewStack returns a stack with items pushed in order; the last is on top.
func NewStack[T any](items ...T) *Stack[T] {
	return &Stack[T]{items: append([]T(nil), items...)}
}

// settle moves appended elements under items with a single reverse.
func (s *Stack[T]) settle() {
	if len(s.below) == 0 {
		return
	}
	slices.Reverse(s.below)
	s.items = append(s.below, s.items...)
	s.below = nil
}

// Push adds v on top.
func (s *Stack[T]) Push(v T) {
	s.settle()
	s.items = append(s.items, v)
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, bool) {
	s.settle()
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// Peek returns the top element.
func (s Stack[T]) Peek() (T, bool) {
	switch {
	case len(s.items) > 0:
		return s.items[len(s.items)-1], true
	case len(s.below) > 0:
		return s.below[0], true
	}
	var zero T
	return zero, false
}

// Items returns the elements top first.
func (s Stack[T]) Items() []T {
	out := make([]T, 0, s.Len())
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return append(out, s.below...)
}

// SequenceKind reports apis.Stack.
func (Stack[T]) SequenceKind() apis.CollectionKind { return apis.Stack }

// ElemType returns the element type T.
func (Stack[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// Len returns the number of elements.
func (s Stack[T]) Len() int { return len(s.items) + len(s.below) }

// Range calls fn for each element from the top down until fn returns false.
func (s Stack[T]) Range(fn func(any) bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if !fn(s.items[i]) {
			return
		}
	}
	for _, it := range s.below {
		if !fn(it) {
			return
		}
	}
}

// Append adds x below every element, converting it to T when needed.
func (s *Stack[T]) Append(x any) error {
	v, err := cast[T](x)
	if err != nil {
		return err
	}
	s.below = append(s.below, v)
	return nil
}
