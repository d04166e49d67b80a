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

// Package enum keeps the process-wide table of registered enums and turns
// enum values into text and back.
//
// Go has no enum declaration, so a named integer type becomes an enum by
// registration. Registration should happen during init, before the type is
// first serialized; the classifier caches its decision per type and never
// revisits it.
package enum

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dirpx.dev/tfx/apis"
)

var (
	// ErrNotInteger is returned when registering a non-integer type.
	ErrNotInteger = errors.New("enum: type is not an integer kind")
	// ErrDuplicate is returned when a type is registered twice, or two
	// members share a name.
	ErrDuplicate = errors.New("enum: duplicate registration")
	// ErrUnknownName is returned when parsing a name that is not a member.
	ErrUnknownName = errors.New("enum: unknown member name")
)

// infos maps reflect.Type to *apis.EnumInfo.
var infos sync.Map

// Register builds and publishes the EnumInfo of t.
func Register(t reflect.Type, flags bool, members ...apis.EnumMember) (*apis.EnumInfo, error) {
	if t == nil {
		return nil, ErrNotInteger
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotInteger, t)
	}

	info := &apis.EnumInfo{
		Type:    t,
		Flags:   flags,
		Members: append([]apis.EnumMember(nil), members...),
		ByValue: make(map[int64]int, len(members)),
		ByName:  make(map[string]int64, len(members)*2),
	}
	for i, m := range info.Members {
		if m.Name == "" {
			return nil, fmt.Errorf("enum: %s: member %d has no name", t, i)
		}
		for _, n := range []string{m.Name, m.Alias} {
			if n == "" {
				continue
			}
			key := strings.ToLower(n)
			if v, dup := info.ByName[key]; dup && v != m.Value {
				return nil, fmt.Errorf("%w: %s.%s", ErrDuplicate, t, n)
			}
			info.ByName[key] = m.Value
		}
		if _, seen := info.ByValue[m.Value]; !seen {
			info.ByValue[m.Value] = i
		}
	}

	if _, loaded := infos.LoadOrStore(t, info); loaded {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, t)
	}
	return info, nil
}

// Lookup returns the registered EnumInfo of t.
func Lookup(t reflect.Type) (*apis.EnumInfo, bool) {
	if v, ok := infos.Load(t); ok {
		return v.(*apis.EnumInfo), true
	}
	return nil, false
}

// Value extracts the integer value of an enum reflect.Value.
func Value(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

// Set stores n into an enum reflect.Value.
func Set(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(n))
	default:
		v.SetInt(n)
	}
}

// Format returns the text of value n. numeric is true when the text is an
// integer literal, either because asInt is set or because n has no name.
// Flag enums decompose into names joined with '|'.
func Format(info *apis.EnumInfo, n int64, asInt bool) (text string, numeric bool) {
	if asInt {
		return strconv.FormatInt(n, 10), true
	}
	if i, ok := info.ByValue[n]; ok {
		return info.Members[i].Text(), false
	}
	if !info.Flags || n == 0 {
		return strconv.FormatInt(n, 10), true
	}

	parts := flagParts(info, n)
	if parts == nil {
		return strconv.FormatInt(n, 10), true
	}
	return strings.Join(parts, "|"), false
}

// flagParts decomposes n into member names, largest members first so that
// composite members absorb their bits. It returns nil if bits remain.
func flagParts(info *apis.EnumInfo, n int64) []string {
	ms := make([]apis.EnumMember, 0, len(info.Members))
	for _, m := range info.Members {
		if m.Value != 0 {
			ms = append(ms, m)
		}
	}
	sort.SliceStable(ms, func(i, j int) bool { return uint64(ms[i].Value) > uint64(ms[j].Value) })

	rest := n
	var picked []apis.EnumMember
	for _, m := range ms {
		if rest&m.Value == m.Value {
			picked = append(picked, m)
			rest &^= m.Value
		}
	}
	if rest != 0 {
		return nil
	}
	sort.SliceStable(picked, func(i, j int) bool { return uint64(picked[i].Value) < uint64(picked[j].Value) })
	out := make([]string, len(picked))
	for i, m := range picked {
		out[i] = m.Text()
	}
	return out
}

// Parse reads a name, an alias, an integer literal, or for flag enums a
// '|' or ',' separated combination of those.
func Parse(info *apis.EnumInfo, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, ok := parseInt(s); ok {
		return n, nil
	}
	if v, ok := info.ByName[strings.ToLower(s)]; ok {
		return v, nil
	}
	if !info.Flags || !strings.ContainsAny(s, "|,") {
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, s)
	}
	var n int64
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		if v, ok := parseInt(part); ok {
			n |= v
			continue
		}
		v, ok := info.ByName[strings.ToLower(part)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownName, part)
		}
		n |= v
	}
	return n, nil
}

func parseInt(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return int64(u), true
	}
	return 0, false
}
