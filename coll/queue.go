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

// Queue is a FIFO queue. It is written front first.
type Queue[T any] struct {
	items []T
}

// NewQueue returns a queue holding items, front first.
func NewQueue[T any](items ...T) *Queue[T] {
	return &Queue[T]{items: append([]T(nil), items...)}
}

// Push adds v at the back.
func (q *Queue[T]) Push(v T) { q.items = append(q.items, v) }

// Pop removes and returns the front element.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Peek returns the front element.
func (q Queue[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Items returns the elements front first.
func (q Queue[T]) Items() []T { return append([]T(nil), q.items...) }

// SequenceKind reports apis.Queue.
func (Queue[T]) SequenceKind() apis.CollectionKind { return apis.Queue }

// ElemType returns the element type T.
func (Queue[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// Len returns the number of elements.
func (q Queue[T]) Len() int { return len(q.items) }

// Range calls fn for each element front first until fn returns false.
func (q Queue[T]) Range(fn func(any) bool) {
	for _, it := range q.items {
		if !fn(it) {
			return
		}
	}
}

// Append pushes x at the back, converting it to T when needed.
func (q *Queue[T]) Append(x any) error {
	v, err := cast[T](x)
	if err != nil {
		return err
	}
	q.Push(v)
	return nil
}
