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

// Package coll provides generic collections that serialize through the
// apis.Sequence and apis.Mapping capabilities: Set, Queue, Stack and
// OrderedMap.
//
// None of the collections is safe for concurrent mutation.
package coll

import (
	"fmt"
	"reflect"

	"dirpx.dev/tfx/apis"
)

func elemOf(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(x)
	if !v.Type().AssignableTo(t) {
		if !v.Type().ConvertibleTo(t) {
			return reflect.Value{}, fmt.Errorf("coll: %s is not %s", v.Type(), t)
		}
		v = v.Convert(t)
	}
	return v, nil
}

func cast[T any](x any) (T, error) {
	var zero T
	v, err := elemOf(x, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

var (
	_ apis.Sequence = (*Set[int])(nil)
	_ apis.Sequence = (*Queue[int])(nil)
	_ apis.Sequence = (*Stack[int])(nil)
	_ apis.Mapping  = (*OrderedMap[string, int])(nil)
)
