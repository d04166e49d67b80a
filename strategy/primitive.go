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

package strategy

import (
	"encoding"
	"encoding/base64"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/grammar"
	uref "dirpx.dev/tfx/utils/reflect"
)

// Primitive serves ShapePrimitive and ShapeString.
type Primitive struct{}

// TryBuild handles scalar and string descriptors.
func (Primitive) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	desc := req.Desc
	d := req.Dialect
	t := desc.Type

	var (
		w apis.WriteFunc
		p apis.ParseFunc
	)
	switch {
	case desc.Shape == apis.ShapeString:
		w = func(st *apis.State, v reflect.Value) error {
			st.Out.Text(d, v.String())
			return nil
		}
		p = func(_ *apis.State, tok string) (reflect.Value, error) {
			out := reflect.New(t).Elem()
			if d.IsNull(tok) {
				return out, nil
			}
			s, err := str(d, t, tok, false)
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetString(s)
			return out, nil
		}
	case desc.Shape != apis.ShapePrimitive:
		return nil, false, nil
	default:
		w, p = scalar(desc, d)
	}
	return pairFor(req, desc.Shape, w, p), true, nil
}

func scalar(desc *apis.Descriptor, d *grammar.Dialect) (apis.WriteFunc, apis.ParseFunc) {
	t := desc.Type
	bits := desc.Bits

	// unquote reads number and bool literals, which are bare in every
	// dialect. Text kinds are strings and must be quoted where all strings
	// are; durations may also be a bare count of nanoseconds.
	unquote := func(tok string) (string, error) {
		switch desc.Scalar {
		case apis.ScalarText, apis.ScalarBytes:
			return str(d, t, tok, false)
		case apis.ScalarDuration:
			return str(d, t, tok, true)
		}
		return text(d, t, tok)
	}

	// parse runs fn on the unquoted token; null yields the zero value.
	parse := func(fn func(out reflect.Value, s string) error) apis.ParseFunc {
		return func(_ *apis.State, tok string) (reflect.Value, error) {
			out := reflect.New(t).Elem()
			if d.IsNull(tok) {
				return out, nil
			}
			s, err := unquote(tok)
			if err != nil {
				return reflect.Value{}, err
			}
			if err := fn(out, s); err != nil {
				return reflect.Value{}, numErr(t, s, err)
			}
			return out, nil
		}
	}

	switch desc.Scalar {
	case apis.ScalarBool:
		return func(st *apis.State, v reflect.Value) error {
				st.Out.Bool(v.Bool())
				return nil
			}, parse(func(out reflect.Value, s string) error {
				b, err := strconv.ParseBool(strings.ToLower(s))
				out.SetBool(b)
				return err
			})

	case apis.ScalarInt:
		return func(st *apis.State, v reflect.Value) error {
				st.Out.Int(v.Int())
				return nil
			}, parse(func(out reflect.Value, s string) error {
				n, err := strconv.ParseInt(s, 10, bits)
				out.SetInt(n)
				return err
			})

	case apis.ScalarUint:
		return func(st *apis.State, v reflect.Value) error {
				st.Out.Uint(v.Uint())
				return nil
			}, parse(func(out reflect.Value, s string) error {
				n, err := strconv.ParseUint(s, 10, bits)
				out.SetUint(n)
				return err
			})

	case apis.ScalarFloat:
		return func(st *apis.State, v reflect.Value) error {
				st.Out.Float(d, v.Float(), bits)
				return nil
			}, parse(func(out reflect.Value, s string) error {
				f, err := strconv.ParseFloat(s, bits)
				out.SetFloat(f)
				return err
			})

	case apis.ScalarDuration:
		return func(st *apis.State, v reflect.Value) error {
				st.Out.Text(d, time.Duration(v.Int()).String())
				return nil
			}, parse(func(out reflect.Value, s string) error {
				if grammar.IsNumeric(s) && !strings.ContainsAny(s, "hmsuµn") {
					n, err := strconv.ParseInt(s, 10, 64)
					out.SetInt(n)
					return err
				}
				dur, err := time.ParseDuration(s)
				out.SetInt(int64(dur))
				return err
			})

	case apis.ScalarBytes:
		return func(st *apis.State, v reflect.Value) error {
				if v.IsNil() {
					st.Out.Null(d)
					return nil
				}
				st.Out.Text(d, base64.StdEncoding.EncodeToString(v.Bytes()))
				return nil
			}, parse(func(out reflect.Value, s string) error {
				b, err := base64.StdEncoding.DecodeString(s)
				if err != nil {
					return err
				}
				out.SetBytes(b)
				return nil
			})

	default: // apis.ScalarText
		return func(st *apis.State, v reflect.Value) error {
				m, ok := v.Interface().(encoding.TextMarshaler)
				if !ok {
					m = uref.Addressable(v).Interface().(encoding.TextMarshaler)
				}
				b, err := m.MarshalText()
				if err != nil {
					return apis.Binding(t, "", err)
				}
				st.Out.Text(d, string(b))
				return nil
			}, parse(func(out reflect.Value, s string) error {
				return out.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
			})
	}
}

// numErr maps strconv range failures to overflow and everything else to a
// format error.
func numErr(t reflect.Type, s string, err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return apis.Overflow(t, s)
	}
	return apis.MalformedErr(t, err)
}
