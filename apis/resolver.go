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

package apis

import (
	"reflect"

	"dirpx.dev/tfx/grammar"
)

// Resolver owns the procedure cache of one configuration.
type Resolver interface {
	// Resolve returns the pair of t in dialect d, building and publishing
	// it on first use. Build failures are returned and not cached.
	Resolve(t reflect.Type, d *grammar.Dialect) (*ProcedurePair, error)

	// Describe returns the classification of t.
	Describe(t reflect.Type) (*Descriptor, error)

	// TypeName returns the type hint name of t.
	TypeName(t reflect.Type) string

	// TypeByName maps a type hint back to its type.
	TypeByName(name string) (reflect.Type, bool)

	// Config returns the configuration the resolver binds with.
	Config() Config
}
