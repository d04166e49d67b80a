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
)

// Nullable serves pointers: nil is the null token, anything else is the
// pointee's text.
type Nullable struct{}

// TryBuild handles ShapeNullable descriptors.
func (Nullable) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	if req.Desc.Shape != apis.ShapeNullable {
		return nil, false, nil
	}
	if err := check(req.Config, req.Desc.Elem, map[reflect.Type]bool{req.Desc.Type: true}); err != nil {
		return nil, false, err
	}
	t := req.Desc.Type
	elem := bind(req, req.Desc.Elem)
	d := req.Dialect

	w := func(st *apis.State, v reflect.Value) error {
		if v.IsNil() {
			st.Out.Null(d)
			return nil
		}
		return elem.write(st, v.Elem())
	}
	p := func(st *apis.State, tok string) (reflect.Value, error) {
		if d.IsNull(tok) {
			return reflect.Zero(t), nil
		}
		v, err := elem.parse(st, tok)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t.Elem())
		out.Elem().Set(v)
		return out, nil
	}
	return pairFor(req, apis.ShapeNullable, w, p), true, nil
}
