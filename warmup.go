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
	"context"
	"errors"
	"reflect"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"dirpx.dev/tfx/grammar"
)

// WarmUp builds and publishes the procedure pairs of types in dialect d
// ahead of the first call, spreading the builds over a bounded worker pool.
// It returns every build failure joined together.
func WarmUp(ctx context.Context, d *grammar.Dialect, types ...reflect.Type) error {
	if len(types) == 0 {
		return nil
	}
	res := Resolver()
	pool, err := ants.NewPool(min(runtime.GOMAXPROCS(0), len(types)))
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	for _, t := range types {
		if err := ctx.Err(); err != nil {
			record(err)
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if _, err := res.Resolve(t, d); err != nil {
				record(err)
			}
		}); err != nil {
			wg.Done()
			record(err)
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}
