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

package tfx

import (
	"context"
	"log/slog"
	"reflect"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/grammar"
)

// call is one top-level serialization call bound to a snapshot.
type call struct {
	s  *state
	st *apis.State
}

func begin(ctx context.Context) call {
	if ctx == nil {
		ctx = context.Background()
	}
	s := st.Load()
	return call{s: s, st: &apis.State{
		Ctx:      ctx,
		Config:   config.Effective(ctx, s.cfg),
		Out:      grammar.AcquireWriter(),
		Resolver: s.res,
	}}
}

func (c call) end() { grammar.ReleaseWriter(c.st.Out) }

func (c call) fail(op string, d *grammar.Dialect, t reflect.Type, err error) error {
	if l := c.st.Config.Logger; l != nil {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		l.LogAttrs(c.st.Ctx, slog.LevelDebug, "tfx: "+op+" failed",
			slog.String("format", d.Name),
			slog.String("type", name),
			slog.Any("err", err))
	}
	return err
}

// WriteValue appends the text of v in dialect d to dst. The static type of
// v selects the procedure pair; an invalid v writes the null token.
func WriteValue(ctx context.Context, d *grammar.Dialect, dst []byte, v reflect.Value) ([]byte, error) {
	c := begin(ctx)
	defer c.end()
	if !v.IsValid() {
		return append(dst, d.Null...), nil
	}
	p, err := c.s.res.Resolve(v.Type(), d)
	if err != nil {
		return dst, c.fail("write", d, v.Type(), err)
	}
	if err := p.Write(c.st, v); err != nil {
		return dst, c.fail("write", d, v.Type(), err)
	}
	return append(dst, c.st.Out.Bytes()...), nil
}

// Write returns the text of v in dialect d, using the dynamic type of v.
func Write(ctx context.Context, d *grammar.Dialect, v any) (string, error) {
	b, err := WriteValue(ctx, d, nil, reflect.ValueOf(v))
	return string(b), err
}

// Encode returns the text of v in dialect d, using the static type T. When
// T is an interface, objects are written as late-bound values and carry a
// type hint if EmitTypeInfo is set.
func Encode[T any](ctx context.Context, d *grammar.Dialect, v T) (string, error) {
	b, err := WriteValue(ctx, d, nil, reflect.ValueOf(&v).Elem())
	return string(b), err
}

// ReadValue parses text in dialect d into a new value of t. Surrounding
// whitespace is ignored.
func ReadValue(ctx context.Context, d *grammar.Dialect, text string, t reflect.Type) (reflect.Value, error) {
	c := begin(ctx)
	defer c.end()
	p, err := c.s.res.Resolve(t, d)
	if err != nil {
		return reflect.Value{}, c.fail("read", d, t, err)
	}
	v, err := p.Parse(c.st, grammar.TrimSpace(text))
	if err != nil {
		return reflect.Value{}, c.fail("read", d, t, err)
	}
	return v, nil
}

// Read parses text in dialect d into a new value of t and returns it
// boxed.
func Read(ctx context.Context, d *grammar.Dialect, text string, t reflect.Type) (any, error) {
	v, err := ReadValue(ctx, d, text, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Decode parses text in dialect d into a value of T.
func Decode[T any](ctx context.Context, d *grammar.Dialect, text string) (T, error) {
	var zero T
	v, err := ReadValue(ctx, d, text, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}
