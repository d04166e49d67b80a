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
)

// OrderedMap is a map that remembers insertion order. Writing it keeps
// that order; re-putting an existing key updates it in place.
type OrderedMap[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{}
}

// Set stores v under k.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if m.items == nil {
		m.items = make(map[K]V)
	}
	if _, ok := m.items[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.items[k] = v
}

// Get returns the value under k.
func (m OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.items[k]
	return v, ok
}

// Delete removes k.
func (m *OrderedMap[K, V]) Delete(k K) {
	if _, ok := m.items[k]; !ok {
		return
	}
	delete(m.items, k)
	for i, kk := range m.keys {
		if kk == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m OrderedMap[K, V]) Keys() []K { return append([]K(nil), m.keys...) }

// KeyType returns the key type K.
func (OrderedMap[K, V]) KeyType() reflect.Type { return reflect.TypeFor[K]() }

// ValueType returns the value type V.
func (OrderedMap[K, V]) ValueType() reflect.Type { return reflect.TypeFor[V]() }

// Len returns the number of entries.
func (m OrderedMap[K, V]) Len() int { return len(m.keys) }

// Range calls fn for each entry in insertion order until fn returns false.
func (m OrderedMap[K, V]) Range(fn func(k, v any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}

// Put stores v under k, converting both to K and V when needed.
func (m *OrderedMap[K, V]) Put(k, v any) error {
	kk, err := cast[K](k)
	if err != nil {
		return err
	}
	vv, err := cast[V](v)
	if err != nil {
		return err
	}
	m.Set(kk, vv)
	return nil
}
