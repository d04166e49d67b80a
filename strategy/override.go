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
	uref "dirpx.dev/tfx/utils/reflect"
)

// Override serves types with a whole-type converter in Config.Overrides.
type Override struct{}

// TryBuild handles req when its type has an override.
func (Override) TryBuild(req apis.BuildRequest) (*apis.ProcedurePair, bool, error) {
	t := req.Desc.Type
	conv, ok := req.Config.Overrides[t]
	if !ok {
		return nil, false, nil
	}
	if conv.Format == nil || conv.Parse == nil {
		return nil, false, apis.Binding(t, "", errIncompleteConverter)
	}
	d := req.Dialect
	w := func(st *apis.State, v reflect.Value) error {
		if isNil(v) {
			st.Out.Null(d)
			return nil
		}
		s, err := conv.Format(v.Interface())
		if err != nil {
			return apis.Binding(t, "", err)
		}
		st.Out.Text(d, s)
		return nil
	}
	p := func(st *apis.State, tok string) (reflect.Value, error) {
		if d.IsNull(tok) {
			return reflect.Zero(t), nil
		}
		s, err := str(d, t, tok, false)
		if err != nil {
			return reflect.Value{}, err
		}
		return convert(conv, t, s)
	}
	return pairFor(req, req.Desc.Shape, w, p), true, nil
}

// convert runs a converter's Parse and coerces the result to t.
func convert(conv apis.Converter, t reflect.Type, s string) (reflect.Value, error) {
	x, err := conv.Parse(s)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(t, err)
	}
	v, err := uref.Assign(x, t)
	if err != nil {
		return reflect.Value{}, apis.MalformedErr(t, err)
	}
	return v, nil
}
