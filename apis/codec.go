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
	"context"
	"reflect"

	"dirpx.dev/tfx/grammar"
)

// WriteFunc appends the text form of v to st.Out. v always has the exact
// type the procedure was built for.
type WriteFunc func(st *State, v reflect.Value) error

// ParseFunc parses one trimmed token into a value of the procedure's type.
type ParseFunc func(st *State, tok string) (reflect.Value, error)

// ProcedurePair is the cached writer/parser pair of one (type, format).
// A published pair is never mutated.
type ProcedurePair struct {
	Type   reflect.Type
	Format string
	Shape  Shape
	Write  WriteFunc
	Parse  ParseFunc
}

// BuildRequest is everything a Strategy needs to build a pair.
type BuildRequest struct {
	Desc     *Descriptor
	Config   Config
	Dialect  *grammar.Dialect
	Resolver Resolver
}

// Strategy is one step of pair construction. A Resolver runs strategies in
// order until one handles the descriptor.
type Strategy interface {
	// TryBuild returns (pair, true, nil) when it handles req, (nil, false, nil)
	// to fall through, or an error that aborts the build.
	TryBuild(req BuildRequest) (pair *ProcedurePair, handled bool, err error)
}

// State is the per-call context threaded through procedures. It is owned by
// a single goroutine for the duration of one top-level call.
type State struct {
	// Ctx is the caller context; procedures do not block on it.
	Ctx context.Context
	// Config is the effective configuration: globals plus scoped overrides.
	Config Config
	// Out receives written text.
	Out *grammar.Writer
	// Resolver resolves pairs for late-bound values.
	Resolver Resolver

	depth int
	hint  string
}

// Enter increments the nesting depth, failing past Config.MaxDepth.
func (s *State) Enter(t reflect.Type) error {
	s.depth++
	if s.Config.MaxDepth > 0 && s.depth > s.Config.MaxDepth {
		s.depth--
		return DepthExceeded(t, s.Config.MaxDepth)
	}
	return nil
}

// Leave undoes Enter.
func (s *State) Leave() { s.depth-- }

// SetHint arms a type hint for the next object writer.
func (s *State) SetHint(name string) { s.hint = name }

// TakeHint returns and clears the armed type hint.
func (s *State) TakeHint() string {
	h := s.hint
	s.hint = ""
	return h
}

// Capture runs fn with Out redirected to a scratch writer and returns what
// fn wrote.
func (s *State) Capture(fn func() error) (string, error) {
	saved := s.Out
	w := grammar.AcquireWriter()
	s.Out = w
	err := fn()
	s.Out = saved
	out := w.String()
	grammar.ReleaseWriter(w)
	return out, err
}
