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
	"context"

	"dirpx.dev/tfx/apis"
)

type scopeKey struct{}

// WithOverride returns a context whose calls see o layered over any
// override already carried by ctx. Scopes nest LIFO: the innermost set
// field wins, and leaving the scope (dropping the derived context) restores
// the outer state on every exit path, panics and errors included, because
// nothing is ever mutated.
func WithOverride(ctx context.Context, o apis.Override) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	merged := o.Merge(OverrideFrom(ctx))
	return context.WithValue(ctx, scopeKey{}, merged)
}

// OverrideFrom returns the merged override carried by ctx.
func OverrideFrom(ctx context.Context) apis.Override {
	if ctx == nil {
		return apis.Override{}
	}
	o, _ := ctx.Value(scopeKey{}).(apis.Override)
	return o
}

// Effective returns base with the overrides carried by ctx applied.
func Effective(ctx context.Context, base apis.Config) apis.Config {
	return OverrideFrom(ctx).Apply(base)
}

// Bool returns a pointer to b, for building an apis.Override literal.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building an apis.Override literal.
func String(s string) *string { return &s }
