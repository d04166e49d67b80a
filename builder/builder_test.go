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

package builder_test

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/registry"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback via reflection.
type userType struct {
	Name string
	Age  int
}

// hotType implements apis.Namer and is used to verify that the
// Namer-based strategy takes priority over other strategies.
type hotType struct{}

func (hotType) EntityName() string { return "hot-name" }

// TestBuildRegistry_Migrates asserts that BuildRegistry returns a working
// registry and carries entries over from the previous one.
func TestBuildRegistry_Migrates(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(cfg, nil)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}
	tt := reflect.TypeOf(userType{})
	if err := reg.Register(tt, "userType"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	next := b.BuildRegistry(cfg, reg)
	if got, ok := next.Lookup(tt); !ok || got != "userType" {
		t.Fatalf("migrated Lookup: ok=%v got=%q want=%q", ok, got, "userType")
	}
	if got, ok := next.LookupName("userType"); !ok || got != tt {
		t.Fatalf("migrated LookupName: ok=%v got=%v", ok, got)
	}
}

// TestBuildResolver_NamingOrder verifies hint naming priority: Namer, then
// the registry, then the reflect fallback ("pkg.Type").
func TestBuildResolver_NamingOrder(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg := b.BuildRegistry(cfg, nil)

	type fromRegistry struct{}
	ttReg := reflect.TypeOf(fromRegistry{})
	if err := reg.Register(ttReg, "reg-name"); err != nil {
		t.Fatalf("Register(fromRegistry) failed: %v", err)
	}

	res := b.BuildResolver(cfg, reg)
	if got := res.TypeName(reflect.TypeOf(hotType{})); got != "hot-name" {
		t.Fatalf("Namer priority broken: got %q want %q", got, "hot-name")
	}
	if got := res.TypeName(ttReg); got != "reg-name" {
		t.Fatalf("Registry strategy broken: got %q want %q", got, "reg-name")
	}
	got := res.TypeName(reflect.TypeOf(userType{}))
	if !strings.Contains(got, ".") {
		t.Fatalf("Reflect strategy name should contain a package prefix: %q", got)
	}
	// Names handed out for hints become resolvable.
	if back, ok := res.TypeByName(got); !ok || back != reflect.TypeOf(userType{}) {
		t.Fatalf("TypeByName(%q) = (%v,%v)", got, back, ok)
	}
}

// TestBuildResolver_FreshCache asserts that every resolver starts with its
// own cache and returns the same pair for repeated lookups.
func TestBuildResolver_FreshCache(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg := registry.New()

	r1 := b.BuildResolver(cfg, reg)
	r2 := b.BuildResolver(cfg, reg)

	tt := reflect.TypeOf(userType{})
	p1, err := r1.Resolve(tt, grammar.JSON)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	again, _ := r1.Resolve(tt, grammar.JSON)
	if p1 != again {
		t.Fatalf("Resolve returned a different pair on the second call")
	}
	p2, _ := r2.Resolve(tt, grammar.JSON)
	if p1 == p2 {
		t.Fatalf("two resolvers share a cached pair")
	}
	if p1.Shape != apis.ShapeObject || p1.Format != "json" {
		t.Fatalf("pair = %s/%s, want object/json", p1.Shape, p1.Format)
	}
}

// TestBuildResolver_Unsupported checks that build failures surface and are
// not cached.
func TestBuildResolver_Unsupported(t *testing.T) {
	res := builder.New().BuildResolver(config.DefaultConfig(), registry.New())

	type withChan struct{ C chan int }
	for i := 0; i < 2; i++ {
		_, err := res.Resolve(reflect.TypeOf(withChan{}), grammar.JSV)
		if apis.KindOf(err) != apis.KindTypeBinding {
			t.Fatalf("attempt %d: want type-binding error, got %v", i, err)
		}
		if !apis.IsUnsupported(err) {
			t.Fatalf("attempt %d: cause should be unsupported-type, got %v", i, err)
		}
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call Resolve/TypeName concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg := b.BuildRegistry(cfg, nil)
	_ = reg.Register(reflect.TypeOf(hotType{}), "hotType") // Namer still should override

	res := b.BuildResolver(cfg, reg)
	types := []reflect.Type{
		reflect.TypeOf(userType{}),
		reflect.TypeOf(hotType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf([]userType{}),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				tt := types[(i+id)%len(types)]
				if _, err := res.Resolve(tt, grammar.JSON); err != nil {
					t.Errorf("Resolve(%v): %v", tt, err)
					return
				}
				_ = res.TypeName(tt)
			}
		}(w)
	}
	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
