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

// Package strategy builds procedure pairs, one strategy per Shape.
//
// A strategy captures everything it needs at build time: the dialect, the
// resolver, the bind-time knobs of the configuration and lazy bindings to
// the pairs of inner types. Inner pairs are resolved on first use, so a
// type that refers to itself (directly or through a pointer) builds without
// recursing and later finds its own published pair in the cache.
package strategy

import (
	"errors"
	"reflect"
	"slices"
	"strconv"
	"sync/atomic"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/grammar"
	uref "dirpx.dev/tfx/utils/reflect"
)

var (
	errIncompleteConverter = errors.New("converter needs both Format and Parse")
	errUnknownConverter    = errors.New("unknown converter")
	errNoHint              = errors.New("late-bound value needs a type hint")
)

// Default returns the strategies in resolution order. Overrides come first
// so a user converter can replace any built-in shape.
func Default() []apis.Strategy {
	return []apis.Strategy{
		Override{},
		Primitive{},
		Enum{},
		Nullable{},
		List{},
		Dictionary{},
		Dynamic{},
		Object{},
	}
}

// binding resolves the pair of an inner type on first use.
type binding struct {
	t reflect.Type
	d *grammar.Dialect
	r apis.Resolver
	p atomic.Pointer[apis.ProcedurePair]
}

func bind(req apis.BuildRequest, t reflect.Type) *binding {
	return &binding{t: t, d: req.Dialect, r: req.Resolver}
}

func (b *binding) pair() (*apis.ProcedurePair, error) {
	if p := b.p.Load(); p != nil {
		return p, nil
	}
	p, err := b.r.Resolve(b.t, b.d)
	if err != nil {
		return nil, err
	}
	b.p.Store(p)
	return p, nil
}

func (b *binding) write(st *apis.State, v reflect.Value) error {
	p, err := b.pair()
	if err != nil {
		return err
	}
	return p.Write(st, v)
}

func (b *binding) parse(st *apis.State, tok string) (reflect.Value, error) {
	p, err := b.pair()
	if err != nil {
		return reflect.Value{}, err
	}
	return p.Parse(st, tok)
}

// check verifies that t and every type reachable from it has a text
// projection. Excluded and overridden types are not inspected.
func check(cfg apis.Config, t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true
	if _, ok := cfg.Overrides[t]; ok {
		return nil
	}
	d, err := classify.Of(t)
	if err != nil {
		return err
	}
	for _, inner := range []reflect.Type{d.Elem, d.Key} {
		if inner == nil {
			continue
		}
		if err := check(cfg, inner, seen); err != nil {
			return err
		}
	}
	if d.Shape == apis.ShapeObject {
		for _, m := range Included(d, cfg) {
			if m.Converter != "" {
				continue
			}
			if err := check(cfg, m.Type, seen); err != nil {
				return apis.Binding(t, m.Field, err)
			}
		}
	}
	return nil
}

// Included returns the members of an object descriptor that serialize
// under cfg: not ignored, not excluded by name or type, and tagged when the
// type is a data contract.
func Included(d *apis.Descriptor, cfg apis.Config) []apis.Member {
	excluded := cfg.ExcludedMembers[d.Type]
	out := make([]apis.Member, 0, len(d.Members))
	for _, m := range d.Members {
		switch {
		case m.Ignore:
		case d.Contract && !m.Tagged:
		case slices.Contains(excluded, m.Field) || slices.Contains(excluded, m.Name):
		case excludedType(cfg, m.Type):
		default:
			out = append(out, m)
		}
	}
	return out
}

func excludedType(cfg apis.Config, t reflect.Type) bool {
	for _, x := range cfg.ExcludedTypes {
		if x == t || x == uref.Deref(t) {
			return true
		}
	}
	return false
}

// Stringish reports whether values described by d are written as string
// tokens, and so may need quoting when embedded in another format.
func Stringish(d *apis.Descriptor) bool {
	switch d.Shape {
	case apis.ShapeString, apis.ShapeEnum:
		return true
	case apis.ShapePrimitive:
		switch d.Scalar {
		case apis.ScalarText, apis.ScalarDuration, apis.ScalarBytes:
			return true
		}
	case apis.ShapeNullable:
		if inner, err := classify.Of(d.Elem); err == nil {
			return Stringish(inner)
		}
	}
	return false
}

// newValue returns a settable value of t, constructed by the configured
// factory when there is one and zero otherwise.
func newValue(cfg apis.Config, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	fn, ok := cfg.Factories[t]
	if !ok {
		return out, nil
	}
	v, err := uref.Assign(fn(), t)
	if err != nil {
		return reflect.Value{}, apis.Binding(t, "", err)
	}
	out.Set(v)
	return out, nil
}

// text unquotes a scalar token, wrapping failures as format errors of t.
func text(d *grammar.Dialect, t reflect.Type, tok string) (string, error) {
	s, _, err := d.Unquote(tok)
	if err != nil {
		return "", apis.MalformedErr(t, err)
	}
	return s, nil
}

// str unquotes a string token. Dialects that quote every string reject a
// bare token, except an integer literal when integers is set.
func str(d *grammar.Dialect, t reflect.Type, tok string, integers bool) (string, error) {
	s, quoted, err := d.Unquote(tok)
	if err != nil {
		return "", apis.MalformedErr(t, err)
	}
	if quoted || d.Quoting != grammar.QuoteAlways {
		return s, nil
	}
	if integers {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return s, nil
		}
	}
	if s == "" {
		return "", apis.Malformed(t, "missing value")
	}
	return "", apis.Malformed(t, "unquoted string "+strconv.Quote(s))
}

// isNil reports whether v holds a null reference.
func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// atMember attaches member context to a parse or write failure of t.
func atMember(err error, t reflect.Type, member string) error {
	var e *apis.Error
	if errors.As(err, &e) && e.Member == "" {
		e.Member = member
		if e.Type == nil {
			e.Type = t
		}
		return err
	}
	return err
}

// valueOf converts an element yielded by a capability interface into a
// value of t.
func valueOf(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	return uref.Assign(x, t)
}

// pairFor wraps write and parse into a pair for req.
func pairFor(req apis.BuildRequest, shape apis.Shape, w apis.WriteFunc, p apis.ParseFunc) *apis.ProcedurePair {
	return &apis.ProcedurePair{
		Type:   req.Desc.Type,
		Format: req.Dialect.Name,
		Shape:  shape,
		Write:  w,
		Parse:  p,
	}
}
