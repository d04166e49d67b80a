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

// NewRegistryStrategy creates a Strategy that consults reg.
func NewRegistryStrategy(reg apis.Registry) Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy is a reflection-free lookup of explicitly registered names.
type registryStrategy struct {
	reg apis.Registry
}

// TryName looks up t in the registry.
func (s *registryStrategy) TryName(t reflect.Type) (string, bool) {
	if s.reg == nil {
		return "", false
	}
	return s.reg.Lookup(t)
}
