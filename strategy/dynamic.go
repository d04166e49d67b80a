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

package strategy

import (
	"reflect"
	"strconv"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
	uref "dirpx.dev/tfx/utils/reflect"
)

var (
	anyType     = reflect.TypeFor[any]()
	anyMapType  = reflect.TypeFor[map[string]any]()
	anySliceTyp = reflect.TypeFor[[]any]()
)

// Dynamic serves late-bound values: interface types, whose concrete type
// is only known per value, and apis.MemberAccessor implementers, whose
// members are only known per value.
//
// With EmitTypeInfo set, an object held by an interface is written with a
// leading type hint member that the parser uses to pick the concrete type.
// Without a hint, an empty interface reads maps as map[string]any, lists as
// []any and scalars as bool, int64, float64 or string.
type Dynamic struct{}

// TryBuild handles ShapeDynamic descriptors.
func (Dynamic) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	if req.Desc.Shape != apis.ShapeDynamic {
		return nil, false, nil
	}
	dy := &dynamic{t: req.Desc.Type, d: req.Dialect, r: req.Resolver, cfg: req.Config}
	if req.Desc.Accessor {
		dy.any = bind(req, anyType)
		return pairFor(req, apis.ShapeDynamic, dy.writeAccessor, dy.parseAccessor), true, nil
	}
	return pairFor(req, apis.ShapeDynamic, dy.write, dy.parse), true, nil
}

type dynamic struct {
	t   reflect.Type
	d   *grammar.Dialect
	r   apis.Resolver
	cfg apis.Config
	any *binding
}

func (dy *dynamic) write(st *apis.State, v reflect.Value) error {
	if v.IsNil() {
		st.Out.Null(dy.d)
		return nil
	}
	c := v.Elem()
	ct := c.Type()
	p, err := dy.r.Resolve(ct, dy.d)
	if err != nil {
		return err
	}
	if st.Config.EmitTypeInfo {
		if base, err := dy.r.Resolve(uref.Deref(ct), dy.d); err == nil && base.Shape == apis.ShapeObject {
			st.SetHint(dy.r.TypeName(ct))
			// A typed nil never reaches the object writer; drop the hint.
			defer st.TakeHint()
		}
	}
	return p.Write(st, c)
}

func (dy *dynamic) parse(st *apis.State, tok string) (reflect.Value, error) {
	out := reflect.New(dy.t).Elem()
	if dy.d.IsNull(tok) {
		return out, nil
	}

	var (
		target reflect.Type
		err    error
	)
	switch {
	case tok == "":
		return reflect.Value{}, apis.Malformed(dy.t, "missing value")
	case tok[0] == dy.d.MapOpen:
		target, err = dy.hinted(st, tok)
		if err != nil {
			return reflect.Value{}, err
		}
		if target == nil {
			target = anyMapType
		}
	case tok[0] == dy.d.ListOpen:
		target = anySliceTyp
	default:
		v, err := dy.scalar(tok)
		if err != nil {
			return reflect.Value{}, err
		}
		return dy.assign(out, v)
	}

	if !target.AssignableTo(dy.t) {
		if reflect.PointerTo(target).AssignableTo(dy.t) {
			target = reflect.PointerTo(target)
		} else {
			return reflect.Value{}, apis.Malformed(dy.t, errNoHint.Error())
		}
	}
	p, err := dy.r.Resolve(target, dy.d)
	if err != nil {
		return reflect.Value{}, err
	}
	v, err := p.Parse(st, tok)
	if err != nil {
		return reflect.Value{}, err
	}
	return dy.assign(out, v)
}

// hinted returns the type named by a leading type hint member of tok, or
// nil when tok carries no known hint.
func (dy *dynamic) hinted(st *apis.State, tok string) (reflect.Type, error) {
	body, err := grammar.Inner(tok, dy.d.MapOpen, dy.d.MapClose)
	if err != nil {
		return nil, apis.MalformedErr(dy.t, err)
	}
	k, err := dy.d.EatKey(body, 0)
	if err != nil {
		// Empty or malformed; the map parser reports the details.
		return nil, nil
	}
	key, _, _ := dy.d.Unquote(grammar.TrimSpace(body[:k]))
	if key != st.Config.TypeAttr {
		return nil, nil
	}
	end, err := dy.d.EatValue(body, k+1)
	if err != nil {
		return nil, apis.MalformedErr(dy.t, err)
	}
	name, err := str(dy.d, dy.t, grammar.TrimSpace(body[k+1:end]), false)
	if err != nil {
		return nil, err
	}
	t, ok := dy.r.TypeByName(name)
	if !ok {
		if st.Config.Logger != nil {
			st.Config.Logger.Debug("tfx: unknown type hint", "hint", name, "target", dy.t.String())
		}
		return nil, nil
	}
	return t, nil
}

// scalar reads a bare or quoted scalar token without a target type.
func (dy *dynamic) scalar(tok string) (any, error) {
	s, quoted, err := dy.d.Unquote(tok)
	if err != nil {
		return nil, apis.MalformedErr(dy.t, err)
	}
	if quoted || dy.d.Quoting != grammar.QuoteAlways {
		// Bare tokens of quote-when-needed dialects are text.
		return s, nil
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apis.Malformed(dy.t, "invalid literal "+strconv.Quote(s))
	}
	return f, nil
}

func (dy *dynamic) assign(out reflect.Value, v any) (reflect.Value, error) {
	if rv, ok := v.(reflect.Value); ok {
		v = rv.Interface()
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(dy.t) {
		return reflect.Value{}, apis.Malformed(dy.t, errNoHint.Error())
	}
	out.Set(rv)
	return out, nil
}

func (dy *dynamic) writeAccessor(st *apis.State, v reflect.Value) error {
	acc := accessor(v)
	if err := st.Enter(dy.t); err != nil {
		return err
	}
	defer st.Leave()
	st.Out.Byte(dy.d.MapOpen)
	first := true
	for _, name := range acc.MemberNames() {
		x, ok := acc.GetMember(name)
		if !ok || x == nil && !st.Config.IncludeNulls {
			continue
		}
		if !first {
			st.Out.Byte(dy.d.ItemSep)
		}
		first = false
		st.Out.Text(dy.d, name)
		st.Out.Byte(dy.d.KVSep)
		xv := reflect.New(anyType).Elem()
		if x != nil {
			xv.Set(reflect.ValueOf(x))
		}
		if err := dy.any.write(st, xv); err != nil {
			return atMember(err, dy.t, name)
		}
	}
	st.Out.Byte(dy.d.MapClose)
	return nil
}

func (dy *dynamic) parseAccessor(st *apis.State, tok string) (reflect.Value, error) {
	out, err := newValue(dy.cfg, dy.t)
	if err != nil || dy.d.IsNull(tok) {
		return out, err
	}
	body, err := grammar.Inner(tok, dy.d.MapOpen, dy.d.MapClose)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(dy.t, err)
	}
	entries, err := dy.d.SplitMap(body)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(dy.t, err)
	}
	if err := st.Enter(dy.t); err != nil {
		return reflect.Value{}, err
	}
	defer st.Leave()

	acc := out.Addr().Interface().(apis.MemberAccessor)
	for _, e := range entries {
		name, err := str(dy.d, dy.t, e.Key, false)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := dy.any.parse(st, e.Value)
		if err != nil {
			return reflect.Value{}, atMember(err, dy.t, name)
		}
		if err := acc.SetMember(name, v.Interface()); err != nil {
			return reflect.Value{}, apis.Binding(dy.t, name, err)
		}
	}
	return out, nil
}

func accessor(v reflect.Value) apis.MemberAccessor {
	if a, ok := v.Interface().(apis.MemberAccessor); ok {
		return a
	}
	return uref.Addressable(v).Interface().(apis.MemberAccessor)
}
