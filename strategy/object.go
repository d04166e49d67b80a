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
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
)

// Object serves structs as a map of member names to member values.
//
// Members keep declared order on write. On parse, member names match
// case-insensitively, unknown members are skipped, and members absent from
// the text keep the value the instance was constructed with.
type Object struct{}

// TryBuild handles ShapeObject descriptors.
func (Object) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	desc := req.Desc
	if desc.Shape != apis.ShapeObject {
		return nil, false, nil
	}
	t := desc.Type
	o := &object{
		t:     t,
		d:     req.Dialect,
		cfg:   req.Config,
		exact: make(map[string]int),
		fold:  make(map[string]int),
	}
	for _, m := range Included(desc, req.Config) {
		f := field{Member: m}
		if m.Converter != "" {
			conv, ok := req.Config.Converters[m.Converter]
			if !ok {
				return nil, false, apis.Binding(t, m.Field, fmt.Errorf("%w %q", errUnknownConverter, m.Converter))
			}
			if conv.Format == nil || conv.Parse == nil {
				return nil, false, apis.Binding(t, m.Field, errIncompleteConverter)
			}
			f.conv = &conv
		} else {
			if err := check(req.Config, m.Type, map[reflect.Type]bool{t: true}); err != nil {
				return nil, false, apis.Binding(t, m.Field, err)
			}
			f.pair = bind(req, m.Type)
		}
		i := len(o.fields)
		o.fields = append(o.fields, f)
		o.exact[m.Name] = i
		for _, k := range []string{m.Lower, strings.ToLower(m.Camel), strings.ToLower(m.Field)} {
			if _, dup := o.fold[k]; !dup {
				o.fold[k] = i
			}
		}
	}
	return pairFor(req, apis.ShapeObject, o.write, o.parse), true, nil
}

type field struct {
	apis.Member
	pair *binding
	conv *apis.Converter
}

type object struct {
	t      reflect.Type
	d      *grammar.Dialect
	cfg    apis.Config
	fields []field
	exact  map[string]int
	fold   map[string]int
}

func (o *object) write(st *apis.State, v reflect.Value) error {
	if err := st.Enter(o.t); err != nil {
		return err
	}
	defer st.Leave()

	st.Out.Byte(o.d.MapOpen)
	first := true
	if hint := st.TakeHint(); hint != "" {
		st.Out.Text(o.d, st.Config.TypeAttr)
		st.Out.Byte(o.d.KVSep)
		st.Out.Text(o.d, hint)
		first = false
	}

	for i := range o.fields {
		f := &o.fields[i]
		fv := v.FieldByIndex(f.Index)
		if f.OmitDefault && fv.IsZero() {
			continue
		}
		null := isNil(fv)
		if null && (f.OmitNull || !st.Config.IncludeNulls) {
			continue
		}

		if !first {
			st.Out.Byte(o.d.ItemSep)
		}
		first = false
		name := f.Name
		if st.Config.CamelCase {
			name = f.Camel
		}
		st.Out.Text(o.d, name)
		st.Out.Byte(o.d.KVSep)

		switch {
		case null:
			st.Out.Null(o.d)
		case f.conv != nil:
			s, err := f.conv.Format(fv.Interface())
			if err != nil {
				return apis.Binding(o.t, f.Field, err)
			}
			st.Out.Text(o.d, s)
		default:
			if err := f.pair.write(st, fv); err != nil {
				return atMember(err, o.t, f.Field)
			}
		}
	}
	st.Out.Byte(o.d.MapClose)
	return nil
}

func (o *object) lookup(key string) (*field, bool) {
	if i, ok := o.exact[key]; ok {
		return &o.fields[i], true
	}
	if i, ok := o.fold[strings.ToLower(key)]; ok {
		return &o.fields[i], true
	}
	return nil, false
}

func (o *object) parse(st *apis.State, tok string) (reflect.Value, error) {
	if o.d.IsNull(tok) {
		return newValue(o.cfg, o.t)
	}
	body, err := grammar.Inner(tok, o.d.MapOpen, o.d.MapClose)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(o.t, err)
	}
	entries, err := o.d.SplitMap(body)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(o.t, err)
	}
	out, err := newValue(o.cfg, o.t)
	if err != nil {
		return reflect.Value{}, err
	}
	if err := st.Enter(o.t); err != nil {
		return reflect.Value{}, err
	}
	defer st.Leave()

	for _, e := range entries {
		key, err := str(o.d, o.t, e.Key, false)
		if err != nil {
			return reflect.Value{}, err
		}
		f, ok := o.lookup(key)
		if !ok {
			continue
		}
		fv := out.FieldByIndex(f.Index)
		if o.d.IsNull(e.Value) && nullable(fv) {
			fv.SetZero()
			continue
		}
		if f.conv != nil {
			if o.d.IsNull(e.Value) {
				fv.SetZero()
				continue
			}
			s, err := str(o.d, o.t, e.Value, false)
			if err != nil {
				return reflect.Value{}, atMember(err, o.t, f.Field)
			}
			v, err := convert(*f.conv, fv.Type(), s)
			if err != nil {
				return reflect.Value{}, atMember(err, o.t, f.Field)
			}
			fv.Set(v)
			continue
		}
		v, err := f.pair.parse(st, e.Value)
		if err != nil {
			return reflect.Value{}, atMember(err, o.t, f.Field)
		}
		fv.Set(v)
	}
	return out, nil
}

// nullable reports whether v can hold a null reference.
func nullable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}
