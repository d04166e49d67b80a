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
	"fmt"
	"reflect"
	"slices"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
)

// List serves ShapeArray and ShapeCollection: slices, arrays, Go sets
// (map[K]struct{}) and apis.Sequence implementers. All are written as a
// bracketed list.
type List struct{}

// TryBuild handles array and collection descriptors.
func (List) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	desc := req.Desc
	if desc.Shape != apis.ShapeArray && desc.Shape != apis.ShapeCollection {
		return nil, false, nil
	}
	if err := check(req.Config, desc.Elem, map[reflect.Type]bool{desc.Type: true}); err != nil {
		return nil, false, err
	}
	l := &list{t: desc.Type, elem: bind(req, desc.Elem), etype: desc.Elem, d: req.Dialect, n: desc.Len, cfg: req.Config}

	switch {
	case desc.Shape == apis.ShapeArray:
		return pairFor(req, desc.Shape, l.writeSlice, l.parseSlice), true, nil
	case desc.Type.Kind() == reflect.Map:
		return pairFor(req, desc.Shape, l.writeSet, l.parseSet), true, nil
	default:
		return pairFor(req, desc.Shape, l.writeSequence, l.parseSequence), true, nil
	}
}

type list struct {
	t     reflect.Type
	etype reflect.Type
	elem  *binding
	d     *grammar.Dialect
	n     int
	cfg   apis.Config
}

// items writes n elements produced by at between the list delimiters.
func (l *list) items(st *apis.State, n int, at func(i int) reflect.Value) error {
	if err := st.Enter(l.t); err != nil {
		return err
	}
	defer st.Leave()
	st.Out.Byte(l.d.ListOpen)
	for i := 0; i < n; i++ {
		if i > 0 {
			st.Out.Byte(l.d.ItemSep)
		}
		if err := l.elem.write(st, at(i)); err != nil {
			return err
		}
	}
	st.Out.Byte(l.d.ListClose)
	return nil
}

// tokens splits a list token into element tokens.
func (l *list) tokens(st *apis.State, tok string) ([]string, error) {
	body, err := grammar.Inner(tok, l.d.ListOpen, l.d.ListClose)
	if err != nil {
		return nil, apis.MalformedErr(l.t, err)
	}
	toks, err := l.d.SplitList(body)
	if err != nil {
		return nil, apis.MalformedErr(l.t, err)
	}
	return toks, nil
}

func (l *list) each(st *apis.State, toks []string, fn func(i int, v reflect.Value) error) error {
	if err := st.Enter(l.t); err != nil {
		return err
	}
	defer st.Leave()
	for i, tok := range toks {
		v, err := l.elem.parse(st, tok)
		if err != nil {
			return err
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
	return nil
}

func (l *list) writeSlice(st *apis.State, v reflect.Value) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		st.Out.Null(l.d)
		return nil
	}
	return l.items(st, v.Len(), v.Index)
}

func (l *list) parseSlice(st *apis.State, tok string) (reflect.Value, error) {
	if l.d.IsNull(tok) {
		return reflect.Zero(l.t), nil
	}
	toks, err := l.tokens(st, tok)
	if err != nil {
		return reflect.Value{}, err
	}

	if l.t.Kind() == reflect.Array {
		if len(toks) > l.n {
			return reflect.Value{}, apis.Malformed(l.t, fmt.Sprintf("%d elements for array of %d", len(toks), l.n))
		}
		out := reflect.New(l.t).Elem()
		err := l.each(st, toks, func(i int, v reflect.Value) error {
			out.Index(i).Set(v)
			return nil
		})
		return out, err
	}

	out := reflect.MakeSlice(l.t, len(toks), len(toks))
	err = l.each(st, toks, func(i int, v reflect.Value) error {
		out.Index(i).Set(v)
		return nil
	})
	return out, err
}

// writeSet writes a Go set with its elements ordered by their text so the
// output is deterministic.
func (l *list) writeSet(st *apis.State, v reflect.Value) error {
	if v.IsNil() {
		st.Out.Null(l.d)
		return nil
	}
	texts := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		s, err := st.Capture(func() error { return l.elem.write(st, k) })
		if err != nil {
			return err
		}
		texts = append(texts, s)
	}
	slices.SortFunc(texts, cmp.Compare[string])

	if err := st.Enter(l.t); err != nil {
		return err
	}
	defer st.Leave()
	st.Out.Byte(l.d.ListOpen)
	for i, s := range texts {
		if i > 0 {
			st.Out.Byte(l.d.ItemSep)
		}
		st.Out.Raw(s)
	}
	st.Out.Byte(l.d.ListClose)
	return nil
}

func (l *list) parseSet(st *apis.State, tok string) (reflect.Value, error) {
	if l.d.IsNull(tok) {
		return reflect.Zero(l.t), nil
	}
	toks, err := l.tokens(st, tok)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMapWithSize(l.t, len(toks))
	present := reflect.Zero(l.t.Elem())
	err = l.each(st, toks, func(_ int, v reflect.Value) error {
		out.SetMapIndex(v, present)
		return nil
	})
	return out, err
}

func (l *list) writeSequence(st *apis.State, v reflect.Value) error {
	seq := sequence(v)
	var elems []reflect.Value
	var convErr error
	seq.Range(func(x any) bool {
		ev, err := valueOf(x, l.etype)
		if err != nil {
			convErr = apis.Binding(l.t, "", err)
			return false
		}
		elems = append(elems, ev)
		return true
	})
	if convErr != nil {
		return convErr
	}
	return l.items(st, len(elems), func(i int) reflect.Value { return elems[i] })
}

func (l *list) parseSequence(st *apis.State, tok string) (reflect.Value, error) {
	if l.d.IsNull(tok) {
		return newValue(l.cfg, l.t)
	}
	toks, err := l.tokens(st, tok)
	if err != nil {
		return reflect.Value{}, err
	}
	out, err := newValue(l.cfg, l.t)
	if err != nil {
		return reflect.Value{}, err
	}
	seq := out.Addr().Interface().(apis.Sequence)
	err = l.each(st, toks, func(_ int, v reflect.Value) error {
		if err := seq.Append(v.Interface()); err != nil {
			return apis.MalformedErr(l.t, err)
		}
		return nil
	})
	return out, err
}

// sequence returns the Sequence view of v, taking its address when only
// the pointer implements the interface.
func sequence(v reflect.Value) apis.Sequence {
	if s, ok := v.Interface().(apis.Sequence); ok {
		return s
	}
	if v.CanAddr() {
		return v.Addr().Interface().(apis.Sequence)
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(apis.Sequence)
}
