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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/tfx/apis"
	uref "dirpx.dev/tfx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("tfx(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("tfx(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name, or a name with a different type.
	ErrConflictingRegistration = errors.New("tfx(registry): conflicting type registration")
)

// New constructs an empty bidirectional Registry.
func New() apis.Registry {
	return &registry{}
}

// registry keeps type->name and name->type maps in step. Reads are
// lock-free; writes serialize on mu so both directions change together.
type registry struct {
	mu     sync.Mutex
	byType sync.Map // map[reflect.Type]string
	byName sync.Map // map[string]reflect.Type
	count  int
}

// Register associates the nearest named type of t with name. It is
// idempotent for the same (type, name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	b, err := uref.Normalize(t)
	if err != nil {
		return err
	}

	if ok, err := r.check(b, name); ok || err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ok, err := r.check(b, name); ok || err != nil {
		return err
	}
	r.byType.Store(b, name)
	r.byName.Store(name, b)
	r.count++
	return nil
}

// check reports (true, nil) for an identical registration and an error
// when either side is already bound elsewhere.
func (r *registry) check(t reflect.Type, name string) (bool, error) {
	old, hasType := r.byType.Load(t)
	if hasType && old.(string) == name {
		return true, nil
	}
	if hasType {
		return false, ErrConflictingRegistration
	}
	if _, hasName := r.byName.Load(name); hasName {
		return false, ErrConflictingRegistration
	}
	return false, nil
}

// Lookup returns the name registered for t or its nearest named type.
func (r *registry) Lookup(t reflect.Type) (string, bool) {
	nt, err := uref.Normalize(t)
	if err != nil {
		return "", false
	}
	if v, ok := r.byType.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// LookupName returns the type registered under name.
func (r *registry) LookupName(name string) (reflect.Type, bool) {
	if v, ok := r.byName.Load(name); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.byType.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{Type: key.(reflect.Type), Name: value.(string)})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType.Clear()
	r.byName.Clear()
	r.count = 0
}
