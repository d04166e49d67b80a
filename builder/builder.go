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

package builder

import (
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/naming"
	"dirpx.dev/tfx/registry"
	"dirpx.dev/tfx/resolver"
	"dirpx.dev/tfx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry. If a previous registry is
// provided, its entries are copied into the new one.
func (b *builder) BuildRegistry(_ apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New()
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds a resolver with the default codec strategies and
// the namer, registry, reflect naming chain.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry) apis.Resolver {
	names := naming.New(
		naming.NewNamerStrategy(),
		naming.NewRegistryStrategy(reg),
		naming.NewReflectStrategy(),
	)
	return resolver.New(cfg, reg, names, strategy.Default()...)
}
