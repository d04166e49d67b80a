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

package registry_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/tfx/registry"
	uref "dirpx.dev/tfx/utils/reflect"
)

type (
	Disc struct{}
	Square struct{}
)

func TestRegister_IdempotentAndLookup(t *testing.T) {
	reg := registry.New()

	// pointer -> nearest named = Disc
	if err := reg.Register(reflect.TypeFor[*Disc](), "shape.disc"); err != nil {
		t.Fatalf("Register(&Disc{}): unexpected error: %v", err)
	}
	// idempotent re-register with same name
	if err := reg.Register(reflect.TypeFor[Disc](), "shape.disc"); err != nil {
		t.Fatalf("Register(Disc{}) idempotent: unexpected error: %v", err)
	}

	if name, ok := reg.Lookup(reflect.TypeFor[*Disc]()); !ok || name != "shape.disc" {
		t.Fatalf("Lookup(&Disc{}): got (%q,%v), want (shape.disc,true)", name, ok)
	}
	if typ, ok := reg.LookupName("shape.disc"); !ok || typ != reflect.TypeFor[Disc]() {
		t.Fatalf("LookupName(shape.disc): got (%v,%v), want (Disc,true)", typ, ok)
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegister_Conflict(t *testing.T) {
	reg := registry.New()

	if err := reg.Register(reflect.TypeFor[*Disc](), "shape.disc"); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	// Same normalized type, different name.
	if err := reg.Register(reflect.TypeFor[Disc](), "shape.ring"); err != registry.ErrConflictingRegistration {
		t.Fatalf("type conflict: want ErrConflictingRegistration, got: %v", err)
	}
	// Same name, different type.
	if err := reg.Register(reflect.TypeFor[Square](), "shape.disc"); err != registry.ErrConflictingRegistration {
		t.Fatalf("name conflict: want ErrConflictingRegistration, got: %v", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	reg := registry.New()

	if err := reg.Register(nil, "x"); err != registry.ErrNilType {
		t.Fatalf("nil type: want ErrNilType, got %v", err)
	}
	if err := reg.Register(reflect.TypeFor[*Disc](), ""); err != registry.ErrEmptyName {
		t.Fatalf("empty name: want ErrEmptyName, got %v", err)
	}
	if err := reg.Register(reflect.TypeOf(struct{ A int }{}), "anon"); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("anonymous type: want ErrReflectTypeNotNamed, got %v", err)
	}
}

func TestEntriesAndReset(t *testing.T) {
	reg := registry.New()

	_ = reg.Register(reflect.TypeFor[*Disc](), "shape.disc")
	_ = reg.Register(reflect.TypeFor[*Square](), "shape.square")

	if entries := reg.Entries(); len(entries) != 2 {
		t.Fatalf("Entries len = %d, want 2", len(entries))
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}

	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("after Reset, Count() = %d, want 0", reg.Count())
	}
	if name, ok := reg.Lookup(reflect.TypeFor[*Disc]()); ok || name != "" {
		t.Fatalf("Lookup after Reset: got (%q,%v), want ('',false)", name, ok)
	}
	if _, ok := reg.LookupName("shape.square"); ok {
		t.Fatalf("LookupName after Reset: still present")
	}
}

func TestLookupNilAndUnknown(t *testing.T) {
	reg := registry.New()

	if name, ok := reg.Lookup(nil); ok || name != "" {
		t.Fatalf("Lookup(nil): got (%q,%v), want ('',false)", name, ok)
	}
	if name, ok := reg.Lookup(reflect.TypeFor[*Disc]()); ok || name != "" {
		t.Fatalf("Lookup(unknown): got (%q,%v), want ('',false)", name, ok)
	}
	if _, ok := reg.LookupName("nope"); ok {
		t.Fatalf("LookupName(unknown): want false")
	}
}
