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
	"context"
	"reflect"
	"strings"

	"dirpx.dev/tfx"
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/strategy"
)

// reader rewrites CSV records as JSV text, which the JSV procedures of the
// target type then parse.
type reader struct {
	ctx context.Context
	cfg apis.Config
	t   reflect.Type
}

func read(ctx context.Context, text string, t reflect.Type) (reflect.Value, error) {
	r := &reader{ctx: ctx, cfg: effective(ctx), t: t}
	records, err := Dialect.SplitRecords(text)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(t, err)
	}
	d, err := describe(t)
	if err != nil {
		return reflect.Value{}, err
	}

	var body string
	switch d.Shape {
	case apis.ShapeArray, apis.ShapeCollection:
		body, err = r.list(records, d.Elem)
	case apis.ShapeObject:
		if d.Rows >= 0 {
			m := d.Members[d.Rows]
			md, derr := describe(m.Type)
			if derr != nil {
				return reflect.Value{}, derr
			}
			var rows string
			rows, err = r.list(records, md.Elem)
			body = string(grammar.JSV.MapOpen) + grammar.JSV.QuoteString(m.Name) +
				string(grammar.JSV.KVSep) + rows + string(grammar.JSV.MapClose)
			break
		}
		body, err = r.single(records, d)
	case apis.ShapeDictionary:
		body, err = r.single(records, d)
	default:
		if len(records) > 0 {
			body, err = r.token(records[0], d)
		}
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return tfx.ReadValue(ctx, grammar.JSV, body, t)
}

// single returns the first data row of an object or map as JSV.
func (r *reader) single(records []string, d *apis.Descriptor) (string, error) {
	rows, err := r.objects(records, d)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return rows[0], nil
}

// list returns the records as a JSV list of elem.
func (r *reader) list(records []string, elem reflect.Type) (string, error) {
	ed, err := describe(elem)
	if err != nil {
		return "", err
	}
	var items []string
	switch ed.Shape {
	case apis.ShapeObject, apis.ShapeDictionary:
		items, err = r.objects(records, ed)
		if err != nil {
			return "", err
		}
	default:
		for _, rec := range records {
			tok, err := r.token(rec, ed)
			if err != nil {
				return "", err
			}
			items = append(items, tok)
		}
	}
	var b strings.Builder
	b.WriteByte(grammar.JSV.ListOpen)
	for i, it := range items {
		if i > 0 {
			b.WriteByte(grammar.JSV.ItemSep)
		}
		b.WriteString(it)
	}
	b.WriteByte(grammar.JSV.ListClose)
	return b.String(), nil
}

// target is the member a column maps to and whether its values are strings.
type target struct {
	key   string
	quote bool
}

// targets resolves header labels to member keys. Labels match remapped
// headers first, then member names case-insensitively. Unknown columns of an
// object map to nothing and are skipped.
func (r *reader) targets(d *apis.Descriptor, header []string) []*target {
	out := make([]*target, len(header))
	if d.Shape == apis.ShapeDictionary {
		quote := stringish(d.Elem)
		for i, h := range header {
			out[i] = &target{key: h, quote: quote}
		}
		return out
	}

	remap := r.cfg.CSVHeaders[d.Type]
	byLabel := map[string]apis.Member{}
	for _, m := range strategy.Included(d, r.cfg) {
		for _, k := range []string{m.Name, m.Camel, m.Field} {
			if _, ok := byLabel[strings.ToLower(k)]; !ok {
				byLabel[strings.ToLower(k)] = m
			}
		}
	}
	for i, h := range header {
		m, ok := apis.Member{}, false
		for name, label := range remap {
			if label == h {
				for _, im := range d.Members {
					if im.Name == name {
						m, ok = im, true
					}
				}
			}
		}
		if !ok {
			m, ok = byLabel[strings.ToLower(h)]
		}
		if !ok {
			continue
		}
		out[i] = &target{key: m.Name, quote: stringish(m.Type)}
	}
	return out
}

// objects converts a header record and data records into JSV maps, one per
// non-empty data record.
func (r *reader) objects(records []string, d *apis.Descriptor) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	var header []string
	data := records
	if r.cfg.CSVOmitHeaders && d.Shape == apis.ShapeObject {
		for _, m := range strategy.Included(d, r.cfg) {
			header = append(header, m.Name)
		}
	} else {
		fs, err := r.fields(records[0])
		if err != nil {
			return nil, err
		}
		for _, f := range fs {
			s, _, err := Dialect.Unquote(f)
			if err != nil {
				return nil, apis.MalformedErr(r.t, err)
			}
			header = append(header, s)
		}
		data = records[1:]
	}
	cols := r.targets(d, header)

	var out []string
	for _, rec := range data {
		if rec == "" {
			continue
		}
		fs, err := r.fields(rec)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		b.WriteByte(grammar.JSV.MapOpen)
		n := 0
		for i, f := range fs {
			if i >= len(cols) || cols[i] == nil {
				continue
			}
			s, quoted, err := Dialect.Unquote(f)
			if err != nil {
				return nil, apis.MalformedErr(r.t, err)
			}
			if !quoted && s == "" {
				continue
			}
			if n > 0 {
				b.WriteByte(grammar.JSV.ItemSep)
			}
			n++
			b.WriteString(grammar.JSV.QuoteString(cols[i].key))
			b.WriteByte(grammar.JSV.KVSep)
			if cols[i].quote {
				s = grammar.JSV.QuoteString(s)
			}
			b.WriteString(s)
		}
		b.WriteByte(grammar.JSV.MapClose)
		out = append(out, b.String())
	}
	return out, nil
}

func (r *reader) fields(rec string) ([]string, error) {
	fs, err := Dialect.SplitFields(rec)
	if err != nil {
		return nil, apis.MalformedErr(r.t, err)
	}
	return fs, nil
}

// token converts a single-field record into a JSV token of d.
func (r *reader) token(rec string, d *apis.Descriptor) (string, error) {
	s, quoted, err := Dialect.Unquote(rec)
	if err != nil {
		return "", apis.MalformedErr(r.t, err)
	}
	if !quoted && s == "" {
		return grammar.JSV.Null, nil
	}
	if strategy.Stringish(d) {
		return grammar.JSV.QuoteString(s), nil
	}
	return s, nil
}
