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

package classify

import (
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/tfx/apis"
)

// TagName is the struct tag key read by the classifier.
const TagName = "tfx"

// members lists the candidate members of struct t in declared order.
// Embedded non-pointer structs are flattened; a name declared at an outer
// level shadows the same name from an embedded struct, and among embedded
// structs at the same level the first declared wins.
func members(t reflect.Type) []apis.Member {
	out := collect(t, nil, nil)
	seen := make(map[string]struct{}, len(out))
	kept := out[:0]
	for _, m := range out {
		if _, dup := seen[m.Name]; dup {
			continue
		}
		seen[m.Name] = struct{}{}
		kept = append(kept, m)
	}
	return kept
}

func collect(t reflect.Type, prefix []int, outer map[string]struct{}) []apis.Member {
	local := make(map[string]struct{}, t.NumField()+len(outer))
	for k := range outer {
		local[k] = struct{}{}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && !flattened(f) {
			local[f.Name] = struct{}{}
			if name, _ := splitTag(f); name != "" {
				local[name] = struct{}{}
			}
		}
	}

	var out []apis.Member
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(slices.Clone(prefix), i)
		if flattened(f) {
			out = append(out, collect(f.Type, idx, local)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if _, shadowed := outer[f.Name]; shadowed {
			continue
		}
		out = append(out, member(f, idx))
	}
	return out
}

// flattened reports whether f is an embedded struct whose members are
// promoted. An embedded struct with an explicit tag name is a regular member.
func flattened(f reflect.StructField) bool {
	if !f.Anonymous || f.Type.Kind() != reflect.Struct {
		return false
	}
	name, _ := splitTag(f)
	return name == ""
}

func member(f reflect.StructField, idx []int) apis.Member {
	m := apis.Member{
		Field: f.Name,
		Name:  f.Name,
		Index: idx,
		Type:  f.Type,
	}

	raw, tagged := f.Tag.Lookup(TagName)
	m.Tagged = tagged && raw != ""
	if !tagged {
		raw = f.Tag.Get("json")
	}
	if raw == "-" {
		m.Ignore = true
	}

	name, opts := splitTag(f)
	if name != "" && name != "-" {
		m.Name = name
	}
	for _, opt := range opts {
		switch {
		case opt == "omitempty":
			m.OmitDefault = true
		case opt == "omitnull":
			m.OmitNull = true
		case strings.HasPrefix(opt, "conv="):
			m.Converter = strings.TrimPrefix(opt, "conv=")
		}
	}

	m.Camel = Camel(m.Name)
	m.Lower = strings.ToLower(m.Name)
	return m
}

// splitTag returns the name and options of the tfx tag of f, falling back
// to the json tag when no tfx tag is present.
func splitTag(f reflect.StructField) (string, []string) {
	raw, ok := f.Tag.Lookup(TagName)
	if !ok {
		raw = f.Tag.Get("json")
	}
	if raw == "" {
		return "", nil
	}
	parts := strings.Split(raw, ",")
	return strings.TrimSpace(parts[0]), parts[1:]
}

// Camel converts an identifier to camelCase by lowercasing its leading
// uppercase run. The last letter of the run stays upper when a lowercase
// letter follows it, so "HTTPServer" becomes "httpServer" and "ID" becomes
// "id".
func Camel(s string) string {
	if s == "" {
		return s
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return s
	}

	rs := []rune(s)
	n := 0
	for n < len(rs) && unicode.IsUpper(rs[n]) {
		n++
	}
	if n > 1 && n < len(rs) && unicode.IsLower(rs[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}
