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

package strategy_test

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/strategy"
)

type Point struct{ X, Y int }

type Job struct {
	Name    string
	Timeout time.Duration
	Owner   string
	Retries int
}

type Contract struct {
	ID    int    `tfx:"id"`
	Label string `tfx:"label"`
	Cache string
}

func (Contract) DataContract() {}

type Optional struct {
	P *int `tfx:"p,omitnull"`
	Q *int `tfx:"q"`
	N int  `tfx:"n,omitempty"`
}

type Widget struct {
	Kind string
	Size int
}

type Chain struct {
	Next *Chain
}

type Bag struct {
	m map[string]any
}

func (b *Bag) MemberNames() []string {
	names := make([]string, 0, len(b.m))
	for k := range b.m {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (b *Bag) GetMember(name string) (any, bool) {
	v, ok := b.m[name]
	return v, ok
}

func (b *Bag) SetMember(name string, v any) error {
	if b.m == nil {
		b.m = map[string]any{}
	}
	b.m[name] = v
	return nil
}

type codec struct {
	cfg apis.Config
	res apis.Resolver
}

func newCodec(opts ...config.Option) *codec {
	cfg := config.NewConfig(opts...)
	b := builder.New()
	return &codec{cfg: cfg, res: b.BuildResolver(cfg, b.BuildRegistry(cfg, nil))}
}

func (c *codec) state() *apis.State {
	return &apis.State{Ctx: context.Background(), Config: c.cfg, Out: grammar.AcquireWriter(), Resolver: c.res}
}

func (c *codec) write(t *testing.T, d *grammar.Dialect, v any) (string, error) {
	t.Helper()
	rv := reflect.ValueOf(v)
	p, err := c.res.Resolve(rv.Type(), d)
	if err != nil {
		return "", err
	}
	st := c.state()
	defer grammar.ReleaseWriter(st.Out)
	if err := p.Write(st, rv); err != nil {
		return "", err
	}
	return st.Out.String(), nil
}

func (c *codec) parse(t *testing.T, d *grammar.Dialect, text string, typ reflect.Type) (any, error) {
	t.Helper()
	p, err := c.res.Resolve(typ, d)
	if err != nil {
		return nil, err
	}
	st := c.state()
	defer grammar.ReleaseWriter(st.Out)
	v, err := p.Parse(st, text)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func TestIncluded_Exclusions(t *testing.T) {
	c := newCodec(
		config.WithExcludedMembers(reflect.TypeFor[Job](), "Owner"),
		config.WithExcludedTypes(reflect.TypeFor[time.Duration]()),
	)
	got, err := c.write(t, grammar.JSV, Job{Name: "j", Timeout: time.Second, Owner: "me", Retries: 2})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := "{Name:j,Retries:2}"; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}

	d, _ := classify.Of(reflect.TypeFor[Contract]())
	var names []string
	for _, m := range strategy.Included(d, config.DefaultConfig()) {
		names = append(names, m.Name)
	}
	if want := []string{"id", "label"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("Included(Contract) = %v, want %v", names, want)
	}
}

func TestStringish(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want bool
	}{
		{reflect.TypeFor[string](), true},
		{reflect.TypeFor[*string](), true},
		{reflect.TypeFor[time.Duration](), true},
		{reflect.TypeFor[time.Time](), true},
		{reflect.TypeFor[[]byte](), true},
		{reflect.TypeFor[int](), false},
		{reflect.TypeFor[[]string](), false},
		{reflect.TypeFor[Point](), false},
	}
	for _, tt := range tests {
		d, err := classify.Of(tt.typ)
		if err != nil {
			t.Fatalf("Of(%s): %v", tt.typ, err)
		}
		if got := strategy.Stringish(d); got != tt.want {
			t.Errorf("Stringish(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestNulls_OmitNullAndOmitEmpty(t *testing.T) {
	c := newCodec(config.WithIncludeNulls(true))
	got, err := c.write(t, grammar.JSON, Optional{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := `{"q":null}`; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}

	one := 1
	got, _ = c.write(t, grammar.JSON, Optional{P: &one, N: 5})
	if want := `{"p":1,"q":null,"n":5}`; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}
}

func TestTypeOverride(t *testing.T) {
	conv := apis.Converter{
		Format: func(v any) (string, error) {
			p := v.(Point)
			return strconv.Itoa(p.X) + ";" + strconv.Itoa(p.Y), nil
		},
		Parse: func(s string) (any, error) {
			x, y, ok := strings.Cut(s, ";")
			if !ok {
				return nil, errors.New("want x;y")
			}
			xi, _ := strconv.Atoi(x)
			yi, _ := strconv.Atoi(y)
			return Point{X: xi, Y: yi}, nil
		},
	}
	c := newCodec(config.WithTypeOverride(reflect.TypeFor[Point](), conv))

	got, err := c.write(t, grammar.JSON, []Point{{1, 2}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := `["1;2"]`; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}
	back, err := c.parse(t, grammar.JSON, got, reflect.TypeFor[[]Point]())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(back, []Point{{1, 2}}) {
		t.Fatalf("parse = %v", back)
	}
	if _, err := c.parse(t, grammar.JSON, `"12"`, reflect.TypeFor[Point]()); !errors.Is(err, apis.ErrFormat) {
		t.Fatalf("bad override text: err = %v", err)
	}

	incomplete := newCodec(config.WithTypeOverride(reflect.TypeFor[Point](), apis.Converter{}))
	if _, err := incomplete.write(t, grammar.JSON, Point{}); !errors.Is(err, apis.ErrTypeBinding) {
		t.Fatalf("incomplete override: err = %v", err)
	}
}

func TestUnknownMemberConverter(t *testing.T) {
	type tagged struct {
		V string `tfx:"v,conv=missing"`
	}
	_, err := newCodec().write(t, grammar.JSON, tagged{})
	var e *apis.Error
	if !errors.As(err, &e) || e.Kind != apis.KindTypeBinding || e.Member != "V" {
		t.Fatalf("err = %v, want type binding at member V", err)
	}
}

func TestFactory(t *testing.T) {
	c := newCodec(config.WithFactory(reflect.TypeFor[Widget](), func() any {
		return Widget{Kind: "default", Size: 1}
	}))
	got, err := c.parse(t, grammar.JSV, "{Size:3}", reflect.TypeFor[Widget]())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := (Widget{Kind: "default", Size: 3}); got != want {
		t.Fatalf("parse = %+v, want %+v", got, want)
	}
	got, _ = c.parse(t, grammar.JSV, "", reflect.TypeFor[Widget]())
	if want := (Widget{Kind: "default", Size: 1}); got != want {
		t.Fatalf("parse(null) = %+v, want %+v", got, want)
	}

	bad := newCodec(config.WithFactory(reflect.TypeFor[Widget](), func() any { return 3 }))
	if _, err := bad.parse(t, grammar.JSV, "{}", reflect.TypeFor[Widget]()); !errors.Is(err, apis.ErrTypeBinding) {
		t.Fatalf("bad factory: err = %v", err)
	}
}

func TestMemberAccessor(t *testing.T) {
	c := newCodec()
	b := &Bag{m: map[string]any{"b": "x", "a": 1}}
	got, err := c.write(t, grammar.JSON, b)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := `{"a":1,"b":"x"}`; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}
	back, err := c.parse(t, grammar.JSON, got, reflect.TypeFor[Bag]())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := map[string]any{"a": int64(1), "b": "x"}; !reflect.DeepEqual(back.(Bag).m, want) {
		t.Fatalf("parse = %v, want %v", back.(Bag).m, want)
	}
}

func TestMaxDepth(t *testing.T) {
	c := newCodec(config.WithMaxDepth(3))
	deep := &Chain{Next: &Chain{Next: &Chain{Next: &Chain{}}}}
	if _, err := c.write(t, grammar.JSON, deep); !errors.Is(err, apis.ErrDepth) {
		t.Fatalf("write: err = %v, want depth error", err)
	}
	if _, err := c.write(t, grammar.JSON, &Chain{Next: &Chain{}}); err != nil {
		t.Fatalf("shallow write: %v", err)
	}
	if _, err := c.parse(t, grammar.JSON, `{"Next":{"Next":{"Next":{"Next":{}}}}}`, reflect.TypeFor[Chain]()); !errors.Is(err, apis.ErrDepth) {
		t.Fatalf("parse: err = %v, want depth error", err)
	}
}

func TestPrimitives(t *testing.T) {
	c := newCodec()
	type prims struct {
		B   bool
		U   uint16
		F   float32
		Raw []byte
		At  time.Time
	}
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	v := prims{B: true, U: 65535, F: 0.5, Raw: []byte("hi"), At: at}
	got, err := c.write(t, grammar.JSON, v)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := `{"B":true,"U":65535,"F":0.5,"Raw":"aGk=","At":"2024-05-06T07:08:09Z"}`; got != want {
		t.Fatalf("write = %s, want %s", got, want)
	}
	back, err := c.parse(t, grammar.JSON, got, reflect.TypeFor[prims]())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(back, v) {
		t.Fatalf("parse = %+v, want %+v", back, v)
	}
	if _, err := c.parse(t, grammar.JSON, `{"U":65536}`, reflect.TypeFor[prims]()); !errors.Is(err, apis.ErrOverflow) {
		t.Fatalf("overflow: err = %v", err)
	}
	if _, err := c.parse(t, grammar.JSV, `{B:yes}`, reflect.TypeFor[prims]()); !errors.Is(err, apis.ErrFormat) {
		t.Fatalf("bad bool: err = %v", err)
	}
}
