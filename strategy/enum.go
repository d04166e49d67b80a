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
	"reflect"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/enum"
)

// Enum serves registered enums. Names are written by default; EnumAsInt
// switches the writer to integers. The parser accepts both.
type Enum struct{}

// TryBuild handles ShapeEnum descriptors.
func (Enum) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	if req.Desc.Shape != apis.ShapeEnum {
		return nil, false, nil
	}
	info := req.Desc.Enum
	t := req.Desc.Type
	d := req.Dialect

	w := func(st *apis.State, v reflect.Value) error {
		s, numeric := enum.Format(info, enum.Value(v), st.Config.EnumAsInt)
		if numeric {
			st.Out.Raw(s)
		} else {
			st.Out.Text(d, s)
		}
		return nil
	}
	p := func(_ *apis.State, tok string) (reflect.Value, error) {
		out := reflect.New(t).Elem()
		if d.IsNull(tok) {
			return out, nil
		}
		s, err := str(d, t, tok, true)
		if err != nil {
			return reflect.Value{}, err
		}
		n, err := enum.Parse(info, s)
		if err != nil {
			return reflect.Value{}, apis.MalformedErr(t, err)
		}
		if overflows(out, n) {
			return reflect.Value{}, apis.Overflow(t, s)
		}
		enum.Set(out, n)
		return out, nil
	}
	return pairFor(req, apis.ShapeEnum, w, p), true, nil
}

func overflows(v reflect.Value, n int64) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return n < 0 && v.Type().Bits() < 64 || n >= 0 && v.OverflowUint(uint64(n))
	default:
		return v.OverflowInt(n)
	}
}
