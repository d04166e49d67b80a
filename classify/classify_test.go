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

package classify_test

import (
	"net/netip"
	"reflect"
	"testing"
	"time"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/enum"
)

type Level int8

type Base struct {
	ID   int
	Note string
}

type Extra struct {
	Note  string
	Color string
}

type Widget struct {
	Base
	Extra
	Name    string `tfx:"title,omitempty"`
	Secret  string `tfx:"-"`
	Legacy  string `json:"legacy_name"`
	Price   float64
	Tags    []string
	private int
}

type Contracted struct {
	Kept    string `tfx:"kept"`
	Dropped string
}

func (Contracted) DataContract() {}

type Report struct {
	Title string
	Rows  []Widget
	More  []Widget
}

func (Report) FirstEnumerable() {}

type bag struct{}

func (*bag) SequenceKind() apis.CollectionKind { return apis.Queue }
func (*bag) ElemType() reflect.Type            { return reflect.TypeFor[int]() }
func (*bag) Len() int                          { return 0 }
func (*bag) Range(func(any) bool)              {}
func (*bag) Append(any) error                  { return nil }

func init() {
	if _, err := enum.Register(reflect.TypeFor[Level](), false,
		apis.EnumMember{Name: "Low", Value: 0},
		apis.EnumMember{Name: "High", Value: 1},
	); err != nil {
		panic(err)
	}
}

func TestOf_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		shape apis.Shape
	}{
		{"pointer", reflect.TypeFor[*Widget](), apis.ShapeNullable},
		{"enum", reflect.TypeFor[Level](), apis.ShapeEnum},
		{"int", reflect.TypeFor[int32](), apis.ShapePrimitive},
		{"duration", reflect.TypeFor[time.Duration](), apis.ShapePrimitive},
		{"time", reflect.TypeFor[time.Time](), apis.ShapePrimitive},
		{"addr", reflect.TypeFor[netip.Addr](), apis.ShapePrimitive},
		{"bytes", reflect.TypeFor[[]byte](), apis.ShapePrimitive},
		{"string", reflect.TypeFor[string](), apis.ShapeString},
		{"slice", reflect.TypeFor[[]string](), apis.ShapeArray},
		{"array", reflect.TypeFor[[3]int](), apis.ShapeArray},
		{"map", reflect.TypeFor[map[string]int](), apis.ShapeDictionary},
		{"set", reflect.TypeFor[map[string]struct{}](), apis.ShapeCollection},
		{"sequence", reflect.TypeFor[bag](), apis.ShapeCollection},
		{"interface", reflect.TypeFor[any](), apis.ShapeDynamic},
		{"struct", reflect.TypeFor[Widget](), apis.ShapeObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := classify.Of(tt.typ)
			if err != nil {
				t.Fatalf("Of(%s): unexpected error: %v", tt.typ, err)
			}
			if d.Shape != tt.shape {
				t.Fatalf("Of(%s).Shape = %s, want %s", tt.typ, d.Shape, tt.shape)
			}
		})
	}
}

func TestOf_Unsupported(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[complex128](),
		reflect.TypeFor[**int](),
		nil,
	} {
		if _, err := classify.Of(typ); !apis.IsUnsupported(err) {
			t.Fatalf("Of(%v): want unsupported-type error, got %v", typ, err)
		}
	}
}

func TestOf_Idempotent(t *testing.T) {
	a, err := classify.Of(reflect.TypeFor[Widget]())
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	b, _ := classify.Of(reflect.TypeFor[Widget]())
	if a != b {
		t.Fatalf("Of returned different descriptors for the same type")
	}
	if !classify.Cached(reflect.TypeFor[Widget]()) {
		t.Fatalf("Cached(Widget) = false after Of")
	}
}

func TestOf_Details(t *testing.T) {
	d, _ := classify.Of(reflect.TypeFor[[4]byte]())
	if d.Shape != apis.ShapeArray || d.Len != 4 {
		t.Fatalf("[4]byte: got %s len %d, want Array len 4", d.Shape, d.Len)
	}
	d, _ = classify.Of(reflect.TypeFor[bag]())
	if d.Kind != apis.Queue || d.Elem != reflect.TypeFor[int]() {
		t.Fatalf("bag: got kind %s elem %v", d.Kind, d.Elem)
	}
	d, _ = classify.Of(reflect.TypeFor[uint16]())
	if d.Scalar != apis.ScalarUint || d.Bits != 16 {
		t.Fatalf("uint16: got scalar %d bits %d", d.Scalar, d.Bits)
	}
}

func TestMembers_FlattenAndTags(t *testing.T) {
	d, err := classify.Of(reflect.TypeFor[Widget]())
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	byName := map[string]apis.Member{}
	var order []string
	for _, m := range d.Members {
		byName[m.Name] = m
		order = append(order, m.Name)
	}

	want := []string{"ID", "Note", "Color", "title", "Secret", "legacy_name", "Price", "Tags"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("member order = %v, want %v", order, want)
	}
	if got := byName["Note"].Index; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("Note index = %v, want [0 1] (first embedded wins)", got)
	}
	if m := byName["title"]; !m.Tagged || !m.OmitDefault || m.Field != "Name" {
		t.Fatalf("title member = %+v", m)
	}
	if !byName["Secret"].Ignore {
		t.Fatalf("Secret should be ignored")
	}
	if byName["legacy_name"].Tagged {
		t.Fatalf("json tag must not mark a member as tagged")
	}
	if _, ok := byName["private"]; ok {
		t.Fatalf("unexported field listed as member")
	}
}

func TestMembers_ContractAndRows(t *testing.T) {
	d, _ := classify.Of(reflect.TypeFor[Contracted]())
	if !d.Contract {
		t.Fatalf("Contracted.Contract = false")
	}
	r, _ := classify.Of(reflect.TypeFor[Report]())
	if r.Rows != 1 {
		t.Fatalf("Report.Rows = %d, want 1 (first declared enumerable)", r.Rows)
	}
	w, _ := classify.Of(reflect.TypeFor[Widget]())
	if w.Rows != -1 {
		t.Fatalf("Widget.Rows = %d, want -1", w.Rows)
	}
}

func TestCamel(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Name":       "name",
		"ID":         "id",
		"HTTPServer": "httpServer",
		"userID":     "userID",
		"URLPath2":   "urlPath2",
		"X":          "x",
	}
	for in, want := range tests {
		if got := classify.Camel(in); got != want {
			t.Errorf("Camel(%q) = %q, want %q", in, got, want)
		}
	}
}
