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

// Package naming resolves the names written in type hints.
//
// A Chain tries its strategies in order until one produces a name. The
// default chain is: the type's own apis.Namer, the registry, then the
// reflected "pkg.Type" name.
package naming

import (
	"reflect"
)

// Strategy is one step of name resolution.
type Strategy interface {
	// TryName returns the name of t, or false to fall through.
	TryName(t reflect.Type) (string, bool)
}

// New constructs a Chain over the given strategies. Nil strategies are
// ignored.
func New(strategies ...Strategy) *Chain {
	out := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Chain{strats: out}
}

// Chain is an immutable, order-preserving list of strategies.
type Chain struct {
	strats []Strategy
}

// Name runs strategies in order until one handles t. It returns an empty
// string if none does.
func (c *Chain) Name(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for _, s := range c.strats {
		if name, ok := s.TryName(t); ok {
			return name
		}
	}
	return ""
}
