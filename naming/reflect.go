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
	"path"
	"reflect"
	"strings"
	"sync"

	uref "dirpx.dev/tfx/utils/reflect"
)

// NewReflectStrategy creates the universal fallback Strategy, which names
// a type "pkg.Type" after stripping pointers and generic parameters.
// Builtin and anonymous types fall back to their Go syntax ("int",
// "[]string").
func NewReflectStrategy() Strategy {
	return reflectStrategy{}
}

type reflectStrategy struct{}

// typeNameCache caches resolved names by reflect.Type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// TryName computes the name of t with memoization.
func (reflectStrategy) TryName(t reflect.Type) (string, bool) {
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string), true
	}

	var name string
	if base, err := uref.Normalize(t); err == nil {
		name = stripTypeParams(base.Name())
		if p := base.PkgPath(); p != "" {
			name = path.Base(p) + "." + name
		}
	} else {
		name = uref.Deref(t).String()
	}

	typeNameCache.Store(t, name)
	return name, true
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
