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

package naming

import (
	"reflect"

	"dirpx.dev/tfx/apis"
)

var namerType = reflect.TypeFor[apis.Namer]()

// NewNamerStrategy creates a Strategy that asks the zero value of a type
// implementing apis.Namer for its EntityName.
func NewNamerStrategy() Strategy {
	return namerStrategy{}
}

type namerStrategy struct{}

// TryName calls EntityName on a zero value of t (or of *t when only the
// pointer implements apis.Namer).
func (namerStrategy) TryName(t reflect.Type) (string, bool) {
	if t.Kind() == reflect.Interface {
		return "", false
	}
	var v reflect.Value
	switch {
	case t.Implements(namerType):
		v = reflect.New(t).Elem()
		if t.Kind() == reflect.Pointer {
			v = reflect.New(t.Elem())
		}
	case reflect.PointerTo(t).Implements(namerType):
		v = reflect.New(t)
	default:
		return "", false
	}
	name := v.Interface().(apis.Namer).EntityName()
	return name, name != ""
}
