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

// Package csv reads and writes CSV through the tfx engine.
//
// Rows are objects. A struct or map writes a header row of member names
// followed by one data row; a slice or collection of them writes one data
// row per element. A slice of scalars writes one value per line. A struct
// implementing apis.FirstEnumerable writes the rows of its first declared
// enumerable member instead of itself.
//
// Fields that hold strings, enums or text values are written raw, with
// RFC 4180 quoting when they contain a comma, a quote or a line break.
// Complex fields (lists, maps, nested objects) are carried as JSV text
// inside the field. An unquoted empty field is null; a quoted empty field
// is the empty string.
package csv

import (
	"context"
	"io"
	"reflect"

	"dirpx.dev/tfx"
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/strategy"
	uref "dirpx.dev/tfx/utils/reflect"
)

// Dialect is the CSV field grammar.
var Dialect = grammar.CSV

// LineEnd terminates every written record. Parsing accepts LF and CRLF.
const LineEnd = "\r\n"

// Serialize returns v as CSV.
func Serialize(v any) (string, error) {
	return SerializeContext(context.Background(), v)
}

// SerializeContext returns v as CSV, honouring scoped overrides in ctx.
func SerializeContext(ctx context.Context, v any) (string, error) {
	return write(ctx, reflect.ValueOf(v))
}

// SerializeObject returns v as CSV written as type t.
func SerializeObject(v any, t reflect.Type) (string, error) {
	rv, err := uref.Assign(v, t)
	if err != nil {
		return "", err
	}
	return write(context.Background(), rv)
}

// Deserialize parses CSV text into a T.
func Deserialize[T any](text string) (T, error) {
	return DeserializeContext[T](context.Background(), text)
}

// DeserializeContext parses CSV text into a T, honouring scoped overrides
// in ctx.
func DeserializeContext[T any](ctx context.Context, text string) (T, error) {
	var zero T
	v, err := read(ctx, text, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

// DeserializeObject parses CSV text into a new value of t.
func DeserializeObject(text string, t reflect.Type) (any, error) {
	v, err := read(context.Background(), text, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// SerializeToStream writes v as CSV to w in the configured encoding.
func SerializeToStream(w io.Writer, v any) error {
	if _, err := tfx.Encoding(); err != nil {
		return err
	}
	s, err := Serialize(v)
	if err != nil {
		return err
	}
	return tfx.EncodeText(w, []byte(s))
}

// DeserializeFromStream reads all of r as CSV into a T.
func DeserializeFromStream[T any](r io.Reader) (T, error) {
	text, err := tfx.DecodeText(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return Deserialize[T](text)
}

// effective returns the global config with the scoped overrides of ctx.
func effective(ctx context.Context) apis.Config {
	return config.Effective(ctx, tfx.Config())
}

// stringish reports whether values of t are written as JSV strings. Only
// those fields are unquoted into raw CSV text; every other field carries
// its JSV token verbatim.
func stringish(t reflect.Type) bool {
	d, err := classify.Of(t)
	return err == nil && strategy.Stringish(d)
}

// describe classifies t, looking through pointers.
func describe(t reflect.Type) (*apis.Descriptor, error) {
	return classify.Of(uref.Deref(t))
}
