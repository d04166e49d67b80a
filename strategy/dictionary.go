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
	"cmp"
	"reflect"
	"slices"
	"strconv"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/grammar"
)

// Dictionary serves Go maps and apis.Mapping implementers. Go maps have no
// order, so their entries are written sorted by key text; a Mapping is
// written in its own Range order.
type Dictionary struct{}

// TryBuild handles ShapeDictionary descriptors.
func (Dictionary) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	desc := req.Desc
	if desc.Shape != apis.ShapeDictionary {
		return nil, false, nil
	}
	seen := map[reflect.Type]bool{desc.Type: true}
	if err := check(req.Config, desc.Key, seen); err != nil {
		return nil, false, err
	}
	if err := check(req.Config, desc.Elem, seen); err != nil {
		return nil, false, err
	}
	kd, _ := classify.Of(desc.Key)

	m := &dict{
		t:      desc.Type,
		ktype:  desc.Key,
		vtype:  desc.Elem,
		key:    bind(req, desc.Key),
		val:    bind(req, desc.Elem),
		d:      req.Dialect,
		cfg:    req.Config,
		scalar: scalarKey(kd),
	}
	if desc.Type.Kind() == reflect.Map {
		return pairFor(req, desc.Shape, m.writeMap, m.parseMap), true, nil
	}
	return pairFor(req, desc.Shape, m.writeMapping, m.parseMapping), true, nil
}

// scalarKey reports whether keys of this descriptor parse from a quoted
// token on their own. Other keys are written as quoted text in dialects
// that quote every key and must be unquoted before parsing.
func scalarKey(d *apis.Descriptor) bool {
	if d == nil {
		return true
	}
	switch d.Shape {
	case apis.ShapePrimitive, apis.ShapeString, apis.ShapeEnum, apis.ShapeNullable:
		return true
	}
	return false
}

type dict struct {
	t, ktype, vtype reflect.Type
	key, val        *binding
	d               *grammar.Dialect
	cfg             apis.Config
	scalar          bool
}

type entry struct {
	key string
	v   reflect.Value
}

// keyText renders k as a key token. Dialects that quote every string
// require keys to be strings, so non-string key text gets quoted.
func (m *dict) keyText(st *apis.State, k reflect.Value) (string, error) {
	s, err := st.Capture(func() error { return m.key.write(st, k) })
	if err != nil {
		return "", err
	}
	if m.d.Quoting == grammar.QuoteAlways && !m.d.IsQuoted(s) {
		s = m.d.QuoteString(s)
	}
	return s, nil
}

func (m *dict) write(st *apis.State, entries []entry) error {
	if err := st.Enter(m.t); err != nil {
		return err
	}
	defer st.Leave()
	st.Out.Byte(m.d.MapOpen)
	for i, e := range entries {
		if i > 0 {
			st.Out.Byte(m.d.ItemSep)
		}
		st.Out.Raw(e.key)
		st.Out.Byte(m.d.KVSep)
		if err := m.val.write(st, e.v); err != nil {
			return err
		}
	}
	st.Out.Byte(m.d.MapClose)
	return nil
}

func (m *dict) writeMap(st *apis.State, v reflect.Value) error {
	if v.IsNil() {
		st.Out.Null(m.d)
		return nil
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := m.keyText(st, iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: k, v: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })
	return m.write(st, entries)
}

func (m *dict) writeMapping(st *apis.State, v reflect.Value) error {
	mp := mapping(v)
	var (
		entries []entry
		err     error
	)
	mp.Range(func(kx, vx any) bool {
		var kv, vv reflect.Value
		if kv, err = valueOf(kx, m.ktype); err != nil {
			err = apis.Binding(m.t, "", err)
			return false
		}
		if vv, err = valueOf(vx, m.vtype); err != nil {
			err = apis.Binding(m.t, "", err)
			return false
		}
		var k string
		if k, err = m.keyText(st, kv); err != nil {
			return false
		}
		entries = append(entries, entry{key: k, v: vv})
		return true
	})
	if err != nil {
		return err
	}
	return m.write(st, entries)
}

// each parses every entry of a map token in input order.
func (m *dict) each(st *apis.State, tok string, fn func(k, v reflect.Value) error) error {
	body, err := grammar.Inner(tok, m.d.MapOpen, m.d.MapClose)
	if err != nil {
		return apis.MalformedErr(m.t, err)
	}
	entries, err := m.d.SplitMap(body)
	if err != nil {
		return apis.MalformedErr(m.t, err)
	}
	if err := st.Enter(m.t); err != nil {
		return err
	}
	defer st.Leave()
	for _, e := range entries {
		ktok := e.Key
		if m.d.Quoting == grammar.QuoteAlways && !m.d.IsQuoted(ktok) {
			return apis.Malformed(m.t, "unquoted key "+strconv.Quote(ktok))
		}
		if !m.scalar && m.d.IsQuoted(ktok) {
			if ktok, err = text(m.d, m.t, ktok); err != nil {
				return err
			}
		}
		k, err := m.key.parse(st, ktok)
		if err != nil {
			return err
		}
		v, err := m.val.parse(st, e.Value)
		if err != nil {
			return atMember(err, m.t, e.Key)
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *dict) parseMap(st *apis.State, tok string) (reflect.Value, error) {
	if m.d.IsNull(tok) {
		return reflect.Zero(m.t), nil
	}
	out := reflect.MakeMap(m.t)
	err := m.each(st, tok, func(k, v reflect.Value) error {
		out.SetMapIndex(k, v)
		return nil
	})
	return out, err
}

func (m *dict) parseMapping(st *apis.State, tok string) (reflect.Value, error) {
	out, err := newValue(m.cfg, m.t)
	if err != nil || m.d.IsNull(tok) {
		return out, err
	}
	mp := out.Addr().Interface().(apis.Mapping)
	err = m.each(st, tok, func(k, v reflect.Value) error {
		if err := mp.Put(k.Interface(), v.Interface()); err != nil {
			return apis.MalformedErr(m.t, err)
		}
		return nil
	})
	return out, err
}

// mapping returns the Mapping view of v, taking its address when only the
// pointer implements the interface.
func mapping(v reflect.Value) apis.Mapping {
	if mp, ok := v.Interface().(apis.Mapping); ok {
		return mp
	}
	if v.CanAddr() {
		return v.Addr().Interface().(apis.Mapping)
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(apis.Mapping)
}
