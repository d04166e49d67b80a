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

// Package cache is the per-configuration procedure cache.
//
// Reads are a single atomic load of an immutable map snapshot. Publishing
// copies the snapshot, adds the entry and installs the copy with
// compare-and-swap, retrying on contention. Builders run outside any lock,
// so two goroutines may build the same key concurrently; exactly one result
// is published and both callers receive it.
package cache

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"

	"dirpx.dev/tfx/apis"
)

// Key identifies one procedure pair.
type Key struct {
	Type   reflect.Type
	Format string
}

type snapshot = map[Key]*apis.ProcedurePair

// Cache maps Key to a published *apis.ProcedurePair. The zero value is
// ready to use.
type Cache struct {
	m      atomic.Pointer[snapshot]
	builds atomic.Int64
	logger *slog.Logger
}

// New returns an empty Cache logging publications to logger (may be nil).
func New(logger *slog.Logger) *Cache {
	return &Cache{logger: logger}
}

// Get returns the published pair of k.
func (c *Cache) Get(k Key) (*apis.ProcedurePair, bool) {
	if m := c.m.Load(); m != nil {
		p, ok := (*m)[k]
		return p, ok
	}
	return nil, false
}

// GetOrBuild returns the published pair of k, calling build on a miss.
// Build errors are returned and nothing is cached for k.
func (c *Cache) GetOrBuild(k Key, build func() (*apis.ProcedurePair, error)) (*apis.ProcedurePair, error) {
	if p, ok := c.Get(k); ok {
		return p, nil
	}

	p, err := build()
	if err != nil {
		return nil, err
	}
	c.builds.Add(1)

	for {
		old := c.m.Load()
		var next snapshot
		if old != nil {
			if won, ok := (*old)[k]; ok {
				// Someone published first; theirs is the canonical pair.
				return won, nil
			}
			next = make(snapshot, len(*old)+1)
			maps.Copy(next, *old)
		} else {
			next = make(snapshot, 1)
		}
		next[k] = p
		if c.m.CompareAndSwap(old, &next) {
			if c.logger != nil {
				c.logger.Debug("tfx: procedure published",
					slog.String("type", k.Type.String()),
					slog.String("format", k.Format),
					slog.Int("entries", len(next)))
			}
			return p, nil
		}
	}
}

// Len returns the number of published pairs.
func (c *Cache) Len() int {
	if m := c.m.Load(); m != nil {
		return len(*m)
	}
	return 0
}

// Builds returns how many successful builds ran, published or discarded.
func (c *Cache) Builds() int64 { return c.builds.Load() }

// Reset drops every published pair.
func (c *Cache) Reset() { c.m.Store(nil) }
