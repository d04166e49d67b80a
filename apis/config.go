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

package apis

import (
	"log/slog"
	"reflect"
)

// Config carries the serialization knobs. It is passed by value and must be
// treated as immutable; the map fields are copied by the config options
// before they are modified, so a published Config never changes.
//
// Knobs fall into two groups. Bind-time knobs (ExcludedTypes,
// ExcludedMembers, Converters, Overrides, Factories) are consumed while a
// procedure pair is built, so changing them requires a fresh procedure
// cache. Call-time knobs (IncludeNulls, EnumAsInt, CamelCase, EmitTypeInfo,
// TypeAttr, CSVOmitHeaders) are read on every call and may be shadowed by a
// scoped Override.
type Config struct {
	// IncludeNulls writes null members instead of omitting them.
	IncludeNulls bool

	// EnumAsInt writes registered enums as integers instead of names.
	EnumAsInt bool

	// CamelCase emits member names in camelCase. Parsing is always
	// case-insensitive, so it accepts either form.
	CamelCase bool

	// EmitTypeInfo writes a type hint member in front of objects whose
	// static type is late-bound (an interface).
	EmitTypeInfo bool

	// TypeAttr is the member name carrying the type hint.
	TypeAttr string

	// MaxDepth bounds nesting on both write and parse.
	MaxDepth int

	// Encoding is the text encoding used by the stream helpers
	// (an IANA or WHATWG name such as "utf-8" or "utf-16le").
	Encoding string

	// ExcludedTypes lists member types that never serialize.
	ExcludedTypes []reflect.Type

	// ExcludedMembers lists, per owning struct type, Go field names or
	// serialized names that never serialize.
	ExcludedMembers map[reflect.Type][]string

	// Converters are member-level text converters referenced by name from
	// struct tags (`tfx:"when,conv=unix"`).
	Converters map[string]Converter

	// Overrides replace the codec of a whole type.
	Overrides map[reflect.Type]Converter

	// Factories construct fresh instances for parsing instead of the zero
	// value. The returned value must be of the keyed type or a pointer to it.
	Factories map[reflect.Type]func() any

	// CSVHeaders remaps member names to CSV header names per row type.
	CSVHeaders map[reflect.Type]map[string]string

	// CSVOmitHeaders suppresses the CSV header row.
	CSVOmitHeaders bool

	// Logger receives diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Override shadows call-time knobs of Config for the extent of a scope.
// Nil fields leave the outer value in place.
type Override struct {
	IncludeNulls   *bool
	EnumAsInt      *bool
	CamelCase      *bool
	EmitTypeInfo   *bool
	TypeAttr       *string
	CSVOmitHeaders *bool
}

// Merge returns o with every nil field filled from outer; fields set on o win.
func (o Override) Merge(outer Override) Override {
	if o.IncludeNulls == nil {
		o.IncludeNulls = outer.IncludeNulls
	}
	if o.EnumAsInt == nil {
		o.EnumAsInt = outer.EnumAsInt
	}
	if o.CamelCase == nil {
		o.CamelCase = outer.CamelCase
	}
	if o.EmitTypeInfo == nil {
		o.EmitTypeInfo = outer.EmitTypeInfo
	}
	if o.TypeAttr == nil {
		o.TypeAttr = outer.TypeAttr
	}
	if o.CSVOmitHeaders == nil {
		o.CSVOmitHeaders = outer.CSVOmitHeaders
	}
	return o
}

// Apply returns cfg with the non-nil fields of o applied.
func (o Override) Apply(cfg Config) Config {
	if o.IncludeNulls != nil {
		cfg.IncludeNulls = *o.IncludeNulls
	}
	if o.EnumAsInt != nil {
		cfg.EnumAsInt = *o.EnumAsInt
	}
	if o.CamelCase != nil {
		cfg.CamelCase = *o.CamelCase
	}
	if o.EmitTypeInfo != nil {
		cfg.EmitTypeInfo = *o.EmitTypeInfo
	}
	if o.TypeAttr != nil {
		cfg.TypeAttr = *o.TypeAttr
	}
	if o.CSVOmitHeaders != nil {
		cfg.CSVOmitHeaders = *o.CSVOmitHeaders
	}
	return cfg
}
