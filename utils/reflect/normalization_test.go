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

package reflect_test

import (
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	uref "dirpx.dev/tfx/utils/reflect"
)

type A struct{ N int }
type Celsius float64

func TestDeref(t *testing.T) {
	tests := []struct {
		in, want reflect.Type
	}{
		{reflect.TypeFor[A](), reflect.TypeFor[A]()},
		{reflect.TypeFor[*A](), reflect.TypeFor[A]()},
		{reflect.TypeFor[***A](), reflect.TypeFor[A]()},
		{reflect.TypeFor[[]*A](), reflect.TypeFor[[]*A]()},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := uref.Deref(tt.in); got != tt.want {
			t.Errorf("Deref(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got, err := uref.Normalize(reflect.TypeFor[**A]()); err != nil || got != reflect.TypeFor[A]() {
		t.Fatalf("Normalize(**A) = %v, %v", got, err)
	}
	if _, err := uref.Normalize(nil); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Normalize(nil) err = %v", err)
	}
	if _, err := uref.Normalize(reflect.TypeFor[struct{ X int }]()); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("Normalize(anonymous) err = %v", err)
	}
}

func TestAssign(t *testing.T) {
	a := A{N: 1}
	tests := []struct {
		name string
		v    any
		t    reflect.Type
		want any
	}{
		{"same", a, reflect.TypeFor[A](), a},
		{"deref", &a, reflect.TypeFor[A](), a},
		{"addr", a, reflect.TypeFor[*A](), &a},
		{"nil pointer", nil, reflect.TypeFor[*A](), (*A)(nil)},
		{"interface", 3, reflect.TypeFor[any](), 3},
		{"convert", 21.5, reflect.TypeFor[Celsius](), Celsius(21.5)},
		{"bytes", []byte("hi"), reflect.TypeFor[string](), "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uref.Assign(tt.v, tt.t)
			if err != nil {
				t.Fatalf("Assign: %v", err)
			}
			if got.Type() != tt.t {
				t.Fatalf("type = %v, want %v", got.Type(), tt.t)
			}
			if !reflect.DeepEqual(got.Interface(), tt.want) {
				t.Fatalf("value = %#v, want %#v", got.Interface(), tt.want)
			}
		})
	}
}

func TestAssign_Rejects(t *testing.T) {
	for _, c := range []struct {
		v any
		t reflect.Type
	}{
		{nil, reflect.TypeFor[int]()},
		{65, reflect.TypeFor[string]()},
		{"x", reflect.TypeFor[A]()},
	} {
		if _, err := uref.Assign(c.v, c.t); !errors.Is(err, uref.ErrNotAssignable) {
			t.Errorf("Assign(%#v, %v) err = %v, want ErrNotAssignable", c.v, c.t, err)
		}
	}
}

func TestAddressable(t *testing.T) {
	v := reflect.ValueOf(A{N: 2})
	p := uref.Addressable(v)
	if p.Kind() != reflect.Pointer || p.Elem().Interface().(A).N != 2 {
		t.Fatalf("Addressable(value) = %v", p)
	}
	x := A{N: 3}
	field := reflect.ValueOf(&x).Elem()
	if uref.Addressable(field).Interface().(*A) != &x {
		t.Fatalf("Addressable(addressable) must return its address")
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < runtime.GOMAXPROCS(0)*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got, err := uref.Normalize(reflect.TypeFor[*A]()); err != nil || got != reflect.TypeFor[A]() {
					t.Errorf("Normalize = %v, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
