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

// Package jsv reads and writes JSV through the tfx engine.
//
// JSV is JSON with the quotes left off wherever the text is unambiguous:
//
//	{Id:1,Name:Alice,Tags:[a,b],Note:"x, y"}
//
// A string is quoted only when it is empty, has surrounding whitespace or
// contains one of ,{}[]:" or a line break; an embedded quote is doubled.
// Null is the empty token, so an empty string always reads back as "".
package jsv

import (
	"context"
	"io"
	"reflect"

	"dirpx.dev/tfx"
	"dirpx.dev/tfx/grammar"
	uref "dirpx.dev/tfx/utils/reflect"
)

// Dialect is the JSV grammar.
var Dialect = grammar.JSV

// Serialize returns v as JSV.
func Serialize(v any) (string, error) {
	return SerializeContext(context.Background(), v)
}

// SerializeContext returns v as JSV, honouring scoped overrides in ctx.
func SerializeContext(ctx context.Context, v any) (string, error) {
	return tfx.Write(ctx, Dialect, v)
}

// SerializeObject returns v as JSV written as type t. Writing through an
// interface type makes v late-bound, so it carries a type hint when type
// info is enabled.
func SerializeObject(v any, t reflect.Type) (string, error) {
	rv, err := uref.Assign(v, t)
	if err != nil {
		return "", err
	}
	b, err := tfx.WriteValue(context.Background(), Dialect, nil, rv)
	return string(b), err
}

// Deserialize parses JSV text into a T.
func Deserialize[T any](text string) (T, error) {
	return DeserializeContext[T](context.Background(), text)
}

// DeserializeContext parses JSV text into a T, honouring scoped overrides
// in ctx.
func DeserializeContext[T any](ctx context.Context, text string) (T, error) {
	return tfx.Decode[T](ctx, Dialect, text)
}

// DeserializeObject parses JSV text into a new value of t.
func DeserializeObject(text string, t reflect.Type) (any, error) {
	return tfx.Read(context.Background(), Dialect, text, t)
}

// SerializeToStream writes v as JSV to w in the configured encoding.
func SerializeToStream(w io.Writer, v any) error {
	return tfx.WriteStream(context.Background(), Dialect, w, reflect.ValueOf(v))
}

// DeserializeFromStream reads all of r as JSV into a T.
func DeserializeFromStream[T any](r io.Reader) (T, error) {
	var zero T
	v, err := tfx.ReadStream(context.Background(), Dialect, r, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}
