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

package resolver

import (
	"log/slog"
	"reflect"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/cache"
	"dirpx.dev/tfx/classify"
	"dirpx.dev/tfx/grammar"
	"dirpx.dev/tfx/naming"
)

// New constructs an apis.Resolver that builds pairs with the given
// strategies in order and names types with names. Nil strategies are
// ignored. Each resolver owns a fresh procedure cache, so pairs bound under
// one configuration never leak into another.
func New(cfg apis.Config, reg apis.Registry, names *naming.Chain, strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &chain{
		cfg:    cfg,
		reg:    reg,
		names:  names,
		strats: out,
		cache:  cache.New(cfg.Logger),
	}
}

// chain is an order-preserving resolver over a set of strategies. Its only
// mutable state is the procedure cache.
type chain struct {
	cfg    apis.Config
	reg    apis.Registry
	names  *naming.Chain
	strats []apis.Strategy
	cache  *cache.Cache
}

// Resolve returns the published pair of (t, d), building it on a miss.
func (r *chain) Resolve(t reflect.Type, d *grammar.Dialect) (*apis.ProcedurePair, error) {
	if t == nil {
		return nil, apis.Unsupported(nil, "nil type")
	}
	return r.cache.GetOrBuild(cache.Key{Type: t, Format: d.Name}, func() (*apis.ProcedurePair, error) {
		return r.build(t, d)
	})
}

func (r *chain) build(t reflect.Type, d *grammar.Dialect) (*apis.ProcedurePair, error) {
	desc, err := classify.Of(t)
	if err != nil {
		return nil, err
	}
	req := apis.BuildRequest{Desc: desc, Config: r.cfg, Dialect: d, Resolver: r}
	for _, s := range r.strats {
		p, ok, err := s.TryBuild(req)
		if err != nil {
			if r.cfg.Logger != nil {
				r.cfg.Logger.Debug("tfx: build failed",
					slog.String("type", t.String()),
					slog.String("format", d.Name),
					slog.Any("err", err))
			}
			return nil, err
		}
		if ok {
			return p, nil
		}
	}
	return nil, apis.Unsupported(t, "no strategy for shape "+desc.Shape.String())
}

// Describe returns the classification of t.
func (r *chain) Describe(t reflect.Type) (*apis.Descriptor, error) {
	return classify.Of(t)
}

// TypeName returns the hint name of t and makes it resolvable by
// TypeByName.
func (r *chain) TypeName(t reflect.Type) string {
	name := r.names.Name(t)
	if name != "" && r.reg != nil {
		if _, ok := r.reg.Lookup(t); !ok {
			// Conflicts leave the first registration in place.
			_ = r.reg.Register(t, name)
		}
	}
	return name
}

// TypeByName maps a hint name back to its registered type.
func (r *chain) TypeByName(name string) (reflect.Type, bool) {
	if r.reg == nil {
		return nil, false
	}
	return r.reg.LookupName(name)
}

// Config returns the configuration the resolver binds with.
func (r *chain) Config() apis.Config { return r.cfg }

// Cached returns the number of published pairs.
func (r *chain) Cached() int { return r.cache.Len() }
