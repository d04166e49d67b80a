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

package tfx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/enum"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, s.reg)
	s.bld = b
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("tfx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("tfx: builder returned nil resolver")
	// ErrAlreadyClassified is returned when an enum is registered after its
	// type was first serialized.
	ErrAlreadyClassified = errors.New("tfx: type already classified")
)

// Integer is the set of kinds an enum can be declared on.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterType binds a type to the name used in its type hints, in both
// directions. Late-bound values can only be read back into types whose
// hint name is known, either from RegisterType or from an earlier write.
func RegisterType(t reflect.Type, name string) error {
	return st.Load().reg.Register(t, name)
}

// RegisterEnum declares T an enum with the given members. Flag enums write
// combined values as member names joined with '|'. Register enums before
// the first serialization that touches T.
func RegisterEnum[T Integer](flags bool, members ...apis.EnumMember) error {
	t := reflect.TypeFor[T]()
	if classify.Cached(t) {
		return ErrAlreadyClassified
	}
	_, err := enum.Register(t, flags, members...)
	return err
}

// Describe returns the classification of t.
func Describe(t reflect.Type) (*apis.Descriptor, error) {
	return st.Load().res.Describe(t)
}

// SetAll explicitly sets all global state components. Nil arguments leave
// the corresponding component unchanged; a nil registry or resolver is
// rebuilt by the builder.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}
	nreg := reg
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg)
	}
	nres := res
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg)
	}
	publish(ncfg, nreg, nres, nbld)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration. The registry is migrated and
// the resolver rebuilt, so the procedure cache starts empty and bind-time
// settings take effect.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.bld.BuildRegistry(cfg, old.reg)
	publish(cfg, nreg, old.bld.BuildResolver(cfg, nreg), old.bld)
}

// Configure applies opts on top of the current global configuration.
func Configure(opts ...config.Option) {
	cfg := Config()
	for _, opt := range opts {
		opt(&cfg)
	}
	SetConfig(cfg)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the registry and
// resolver with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := b.BuildRegistry(old.cfg, old.reg)
	publish(old.cfg, nreg, b.BuildResolver(old.cfg, nreg), b)
}

// publish stores a new snapshot. Callers hold buildMu.
func publish(cfg apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	if reg == nil {
		panic(ErrNilRegistry)
	}
	if res == nil {
		panic(ErrNilResolver)
	}
	st.Store(&state{cfg: cfg, reg: reg, res: res, bld: bld})
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg maps types to type hint names.
	reg apis.Registry
	// res owns the procedure cache for cfg.
	res apis.Resolver
	// bld builds reg and res.
	bld apis.Builder
}
