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

package csv

import (
	"cmp"
	"context"
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/tfx"
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/strategy"
	uref "dirpx.dev/tfx/utils/reflect"
)

// column is one CSV column: the member key as written in JSV, the header
// label and whether its values are strings.
type column struct {
	key   string
	label string
	raw   bool
}

type writer struct {
	ctx context.Context
	cfg apis.Config
	b   strings.Builder
}

func write(ctx context.Context, v reflect.Value) (string, error) {
	w := &writer{ctx: ctx, cfg: effective(ctx)}
	if err := w.root(v); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

// indirect strips pointers and interfaces. It returns an invalid value for
// nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func (w *writer) root(v reflect.Value) error {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	d, err := describe(v.Type())
	if err != nil {
		return err
	}
	switch d.Shape {
	case apis.ShapeArray, apis.ShapeCollection:
		elems, err := w.elements(v, d)
		if err != nil {
			return err
		}
		return w.rows(d.Elem, elems)
	case apis.ShapeObject:
		if d.Rows >= 0 {
			return w.root(v.FieldByIndex(d.Members[d.Rows].Index))
		}
	}
	return w.rows(v.Type(), []reflect.Value{v})
}

// elements lists the elements of an array or collection in write order.
// Go sets have no order, so their elements are sorted by text.
func (w *writer) elements(v reflect.Value, d *apis.Descriptor) ([]reflect.Value, error) {
	switch {
	case d.Shape == apis.ShapeArray:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]reflect.Value, v.Len())
		for i := range out {
			out[i] = v.Index(i)
		}
		return out, nil

	case v.Kind() == reflect.Map:
		type keyed struct {
			text string
			v    reflect.Value
		}
		var ks []keyed
		for _, k := range v.MapKeys() {
			s, err := w.jsv(k)
			if err != nil {
				return nil, err
			}
			ks = append(ks, keyed{s, k})
		}
		slices.SortFunc(ks, func(a, b keyed) int { return cmp.Compare(a.text, b.text) })
		out := make([]reflect.Value, len(ks))
		for i, k := range ks {
			out[i] = k.v
		}
		return out, nil

	default:
		seq, ok := v.Interface().(apis.Sequence)
		if !ok {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			seq = p.Interface().(apis.Sequence)
		}
		var (
			out     []reflect.Value
			elemErr error
		)
		seq.Range(func(x any) bool {
			if x == nil {
				out = append(out, reflect.Zero(d.Elem))
				return true
			}
			ev, err := uref.Assign(x, d.Elem)
			if err != nil {
				elemErr = apis.Binding(d.Type, "", err)
				return false
			}
			out = append(out, ev)
			return true
		})
		return out, elemErr
	}
}

func (w *writer) jsv(v reflect.Value) (string, error) {
	b, err := tfx.WriteValue(w.ctx, grammar.JSV, nil, v)
	return string(b), err
}

// entries writes v as JSV and splits the resulting map.
func (w *writer) entries(v reflect.Value) (map[string]string, []string, error) {
	s, err := w.jsv(v)
	if err != nil {
		return nil, nil, err
	}
	if grammar.JSV.IsNull(s) {
		return nil, nil, nil
	}
	body, err := grammar.Inner(s, grammar.JSV.MapOpen, grammar.JSV.MapClose)
	if err != nil {
		return nil, nil, apis.MalformedErr(v.Type(), err)
	}
	es, err := grammar.JSV.SplitMap(body)
	if err != nil {
		return nil, nil, apis.MalformedErr(v.Type(), err)
	}
	out := make(map[string]string, len(es))
	keys := make([]string, 0, len(es))
	for _, e := range es {
		k, _, err := grammar.JSV.Unquote(e.Key)
		if err != nil {
			return nil, nil, apis.MalformedErr(v.Type(), err)
		}
		out[k] = e.Value
		keys = append(keys, k)
	}
	return out, keys, nil
}

// columns returns the header of an object type.
func (w *writer) columns(d *apis.Descriptor) []column {
	remap := w.cfg.CSVHeaders[d.Type]
	ms := strategy.Included(d, w.cfg)
	out := make([]column, len(ms))
	for i, m := range ms {
		key := m.Name
		if w.cfg.CamelCase {
			key = m.Camel
		}
		label := key
		if l, ok := remap[m.Name]; ok {
			label = l
		}
		out[i] = column{key: key, label: label, raw: stringish(m.Type)}
	}
	return out
}

func (w *writer) rows(elem reflect.Type, elems []reflect.Value) error {
	ed, err := describe(elem)
	if err != nil {
		return err
	}

	switch ed.Shape {
	case apis.ShapeObject, apis.ShapeDictionary:
		rows := make([]map[string]string, len(elems))
		var cols []column
		raw := false
		if ed.Shape == apis.ShapeObject {
			cols = w.columns(ed)
		} else {
			raw = stringish(ed.Elem)
		}
		seen := map[string]bool{}
		for i, e := range elems {
			row, keys, err := w.entries(e)
			if err != nil {
				return err
			}
			rows[i] = row
			if ed.Shape == apis.ShapeDictionary {
				// Union header, first-seen order.
				for _, k := range keys {
					if !seen[k] {
						seen[k] = true
						cols = append(cols, column{key: k, label: k, raw: raw})
					}
				}
			}
		}
		if !w.cfg.CSVOmitHeaders {
			for i, c := range cols {
				if i > 0 {
					w.b.WriteByte(Dialect.ItemSep)
				}
				w.b.WriteString(Dialect.QuoteString(c.label))
			}
			w.b.WriteString(LineEnd)
		}
		for _, row := range rows {
			for i, c := range cols {
				if i > 0 {
					w.b.WriteByte(Dialect.ItemSep)
				}
				w.b.WriteString(field(row[c.key], c.raw))
			}
			w.b.WriteString(LineEnd)
		}

	default:
		raw := strategy.Stringish(ed)
		for _, e := range elems {
			tok, err := w.jsv(e)
			if err != nil {
				return err
			}
			w.b.WriteString(field(tok, raw))
			w.b.WriteString(LineEnd)
		}
	}
	return nil
}

// field converts a JSV token to a CSV field. The null token stays empty.
// A string token of a raw column is unquoted first; any other token is kept
// as JSV text so the reader can hand it back to the JSV parser unchanged.
// Either way the result is quoted by CSV rules.
func field(tok string, raw bool) string {
	if tok == "" {
		return ""
	}
	s := tok
	if raw {
		if u, quoted, err := grammar.JSV.Unquote(tok); err == nil && quoted {
			s = u
		}
	}
	return Dialect.QuoteString(s)
}
