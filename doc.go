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

// Package tfx serializes Go values to and from text in three formats:
// JSON, JSV (a compact JSON-like notation with minimal quoting) and CSV.
//
// # Design
//
// Every Go type is classified once into a Shape (primitive, string,
// nullable, enum, array, collection, dictionary, object, dynamic). For each
// (type, format) pair the engine builds a procedure pair, a writer and a
// parser specialized for that type, and publishes it in a cache. Later calls
// reuse the published pair without locking.
//
// The package holds a read-mostly global snapshot of four things:
//
//   - Config: the serialization knobs. Bind-time knobs (excluded types and
//     members, converters, overrides, factories) shape the procedure pairs;
//     call-time knobs (null handling, enum style, camelCase, type hints)
//     are read on every call and can be shadowed per scope with
//     config.WithOverride.
//
//   - Registry: a two-way mapping between types and the names written in
//     type hints. Late-bound values are read back by looking up their hint.
//
//   - Resolver: classifies types and owns the procedure cache of one
//     Config. Pairs are resolved through an ordered list of strategies,
//     one per Shape, with user overrides first.
//
//   - Builder: constructs Registry and Resolver for a Config. Swapping the
//     Builder swaps the strategies.
//
// Readers load the snapshot atomically and never lock:
//
//	s, err := jsonfmt.Serialize(order)
//	o, err := jsv.Deserialize[Order](text)
//
// Writers (SetConfig, Configure, SetBuilder, SetAll) take a short build
// mutex, assemble a new snapshot and publish it. Changing the Config
// always rebuilds the Resolver, so its procedure cache starts empty and
// new bind-time settings apply to every type.
//
// # Scoped overrides
//
// Call-time knobs can be shadowed for the extent of a context:
//
//	ctx := config.WithOverride(ctx, apis.Override{IncludeNulls: config.Bool(true)})
//	s, err := jsonfmt.SerializeContext(ctx, v)
//
// Scopes nest; the innermost setting wins and nothing global changes.
//
// # Enums
//
// Go enums are named integer types, so they have to be declared:
//
//	tfx.RegisterEnum[Color](false,
//		apis.EnumMember{Name: "Red", Value: 0},
//		apis.EnumMember{Name: "Green", Value: 1},
//	)
//
// Declare enums during init, before the type is first serialized.
//
// # Struct tags
//
// Members are read from the `tfx` struct tag, falling back to `json`:
//
//	Name  string    `tfx:"name,omitempty"`
//	When  time.Time `tfx:"when,conv=unix"`
//	Debug string    `tfx:"-"`
//
// Options are omitempty (skip zero values), omitnull (skip nulls even when
// nulls are included) and conv=NAME (a member converter from
// Config.Converters). Types implementing apis.DataContract serialize only
// tagged members.
package tfx
