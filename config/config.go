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

package config

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"dirpx.dev/tfx/apis"
)

const (
	// DefaultIncludeNulls represents the default for IncludeNulls.
	// Null members are omitted unless asked for.
	DefaultIncludeNulls = false
	// DefaultEnumAsInt represents the default for EnumAsInt.
	DefaultEnumAsInt = false
	// DefaultCamelCase represents the default for CamelCase.
	DefaultCamelCase = false
	// DefaultEmitTypeInfo represents the default for EmitTypeInfo.
	DefaultEmitTypeInfo = false
	// DefaultTypeAttr is the member name of type hints.
	DefaultTypeAttr = "__type"
	// DefaultMaxDepth bounds nesting; deep enough for any sane payload,
	// shallow enough to stop a self-referencing pointer chain.
	DefaultMaxDepth = 1000
	// DefaultEncoding is UTF-8 without a byte-order mark.
	DefaultEncoding = "utf-8"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth and TypeAttr stay usable.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.TypeAttr == "" {
		cfg.TypeAttr = DefaultTypeAttr
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		IncludeNulls: DefaultIncludeNulls,
		EnumAsInt:    DefaultEnumAsInt,
		CamelCase:    DefaultCamelCase,
		EmitTypeInfo: DefaultEmitTypeInfo,
		TypeAttr:     DefaultTypeAttr,
		MaxDepth:     DefaultMaxDepth,
		Encoding:     DefaultEncoding,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
// Options that touch map or slice fields copy them first, so configurations
// derived from a published one never alias it.
type Option func(*apis.Config)

// WithIncludeNulls sets the IncludeNulls option.
func WithIncludeNulls(include bool) Option {
	return func(c *apis.Config) { c.IncludeNulls = include }
}

// WithEnumAsInt sets the EnumAsInt option.
func WithEnumAsInt(asInt bool) Option {
	return func(c *apis.Config) { c.EnumAsInt = asInt }
}

// WithCamelCase sets the CamelCase option.
func WithCamelCase(camel bool) Option {
	return func(c *apis.Config) { c.CamelCase = camel }
}

// WithTypeInfo sets the EmitTypeInfo option.
func WithTypeInfo(emit bool) Option {
	return func(c *apis.Config) { c.EmitTypeInfo = emit }
}

// WithTypeAttr sets the type hint member name.
// An empty name resets to the default.
func WithTypeAttr(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			name = DefaultTypeAttr
		}
		c.TypeAttr = name
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			max = DefaultMaxDepth
		}
		c.MaxDepth = max
	}
}

// WithEncoding sets the stream text encoding.
func WithEncoding(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			name = DefaultEncoding
		}
		c.Encoding = name
	}
}

// WithExcludedTypes adds member types that never serialize.
func WithExcludedTypes(types ...reflect.Type) Option {
	return func(c *apis.Config) {
		c.ExcludedTypes = append(slices.Clone(c.ExcludedTypes), types...)
	}
}

// WithExcludedMembers adds member names of owner that never serialize.
func WithExcludedMembers(owner reflect.Type, names ...string) Option {
	return func(c *apis.Config) {
		m := cloneMap(c.ExcludedMembers)
		m[owner] = append(slices.Clone(m[owner]), names...)
		c.ExcludedMembers = m
	}
}

// WithConverter registers a member-level converter under name.
func WithConverter(name string, conv apis.Converter) Option {
	return func(c *apis.Config) {
		m := cloneMap(c.Converters)
		m[name] = conv
		c.Converters = m
	}
}

// WithTypeOverride replaces the codec of t.
func WithTypeOverride(t reflect.Type, conv apis.Converter) Option {
	return func(c *apis.Config) {
		m := cloneMap(c.Overrides)
		m[t] = conv
		c.Overrides = m
	}
}

// WithFactory registers the instance factory used when parsing t.
func WithFactory(t reflect.Type, fn func() any) Option {
	return func(c *apis.Config) {
		m := cloneMap(c.Factories)
		m[t] = fn
		c.Factories = m
	}
}

// WithCSVHeaders remaps member names of row type t to CSV header names.
func WithCSVHeaders(t reflect.Type, headers map[string]string) Option {
	return func(c *apis.Config) {
		m := cloneMap(c.CSVHeaders)
		m[t] = maps.Clone(headers)
		c.CSVHeaders = m
	}
}

// WithCSVOmitHeaders sets the CSVOmitHeaders option.
func WithCSVOmitHeaders(omit bool) Option {
	return func(c *apis.Config) { c.CSVOmitHeaders = omit }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) { c.Logger = l }
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	maps.Copy(out, m)
	return out
}
