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

// Package classify derives the Shape of Go types.
//
// Classification is pure: the same type always yields the same Descriptor,
// and descriptors are cached for the life of the process. The decision
// order is fixed because some types satisfy several predicates:
//
//  1. pointer                         -> Nullable(elem)
//  2. registered enum                 -> Enum
//  3. text marshaler, bool, number,
//     time.Duration, []byte           -> Primitive
//  4. string kind                     -> String
//  5. array or slice                  -> Array(elem)
//  6. apis.Mapping, non-set Go map    -> Dictionary(key, value)
//  7. apis.Sequence, map[K]struct{}   -> Collection(elem, kind)
//  8. interface, apis.MemberAccessor  -> Dynamic
//  9. struct                          -> Object(members)
//
// Registered enums are checked before primitives: Go enums are integer
// kinds and would otherwise be swallowed by rule 3.
package classify

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/enum"
)

var (
	sequenceType   = reflect.TypeFor[apis.Sequence]()
	mappingType    = reflect.TypeFor[apis.Mapping]()
	accessorType   = reflect.TypeFor[apis.MemberAccessor]()
	contractType   = reflect.TypeFor[apis.DataContract]()
	rowsType       = reflect.TypeFor[apis.FirstEnumerable]()
	marshalerType  = reflect.TypeFor[encoding.TextMarshaler]()
	unmarshalType  = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType   = reflect.TypeFor[time.Duration]()
	emptyStructTyp = reflect.TypeFor[struct{}]()
)

// descriptors caches *apis.Descriptor by reflect.Type.
var descriptors sync.Map

// Of returns the Descriptor of t. It fails only for types without a text
// projection (channels, functions, complex numbers, unsafe pointers).
func Of(t reflect.Type) (*apis.Descriptor, error) {
	if t == nil {
		return nil, apis.Unsupported(nil, "nil type")
	}
	if d, ok := descriptors.Load(t); ok {
		return d.(*apis.Descriptor), nil
	}
	d, err := classify(t)
	if err != nil {
		return nil, err
	}
	// Racing classifications compute equal descriptors; keep the first.
	actual, _ := descriptors.LoadOrStore(t, d)
	return actual.(*apis.Descriptor), nil
}

// Cached reports whether t has already been classified.
func Cached(t reflect.Type) bool {
	_, ok := descriptors.Load(t)
	return ok
}

// Implements reports whether t or *t implements iface.
func Implements(t, iface reflect.Type) bool {
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface)
}

func classify(t reflect.Type) (*apis.Descriptor, error) {
	d := &apis.Descriptor{Type: t, Name: t.String(), Len: -1, Rows: -1}

	// 1. Nullable
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return nil, apis.Unsupported(t, "pointer to pointer")
		}
		d.Shape = apis.ShapeNullable
		d.Elem = t.Elem()
		return d, nil
	}

	// 2. Enum
	if info, ok := enum.Lookup(t); ok {
		d.Shape = apis.ShapeEnum
		d.Enum = info
		return d, nil
	}

	// 3. Primitive
	if s, bits, ok := scalarOf(t); ok {
		d.Shape = apis.ShapePrimitive
		d.Scalar = s
		d.Bits = bits
		return d, nil
	}

	switch t.Kind() {
	// 4. String
	case reflect.String:
		d.Shape = apis.ShapeString
		return d, nil

	// 5. Array
	case reflect.Array, reflect.Slice:
		d.Shape = apis.ShapeArray
		d.Elem = t.Elem()
		if t.Kind() == reflect.Array {
			d.Len = t.Len()
		}
		return d, nil
	}

	// 6. Dictionary
	if Implements(t, mappingType) {
		m := reflect.New(t).Interface().(apis.Mapping)
		d.Shape = apis.ShapeDictionary
		d.Key = m.KeyType()
		d.Elem = m.ValueType()
		return d, nil
	}
	if t.Kind() == reflect.Map && t.Elem() != emptyStructTyp {
		d.Shape = apis.ShapeDictionary
		d.Key = t.Key()
		d.Elem = t.Elem()
		return d, nil
	}

	// 7. Collection
	if Implements(t, sequenceType) {
		s := reflect.New(t).Interface().(apis.Sequence)
		d.Shape = apis.ShapeCollection
		d.Elem = s.ElemType()
		d.Kind = s.SequenceKind()
		return d, nil
	}
	if t.Kind() == reflect.Map {
		d.Shape = apis.ShapeCollection
		d.Elem = t.Key()
		d.Kind = apis.Set
		return d, nil
	}

	// 8. Dynamic
	if t.Kind() == reflect.Interface {
		d.Shape = apis.ShapeDynamic
		return d, nil
	}
	if Implements(t, accessorType) {
		d.Shape = apis.ShapeDynamic
		d.Accessor = true
		return d, nil
	}

	// 9. Object
	if t.Kind() == reflect.Struct {
		d.Shape = apis.ShapeObject
		d.Members = members(t)
		d.Contract = Implements(t, contractType)
		if Implements(t, rowsType) {
			d.Rows = firstEnumerable(d.Members)
		}
		return d, nil
	}

	return nil, apis.Unsupported(t, "no text projection for kind "+t.Kind().String())
}

func scalarOf(t reflect.Type) (apis.Scalar, int, bool) {
	if t == durationType {
		return apis.ScalarDuration, 64, true
	}
	if Implements(t, marshalerType) && Implements(t, unmarshalType) {
		return apis.ScalarText, 0, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return apis.ScalarBool, 0, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return apis.ScalarInt, t.Bits(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return apis.ScalarUint, t.Bits(), true
	case reflect.Float32, reflect.Float64:
		return apis.ScalarFloat, t.Bits(), true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return apis.ScalarBytes, 0, true
		}
	}
	return apis.ScalarNone, 0, false
}

// enumerable reports whether values of t read as rows: slices, arrays and
// Sequence implementers, []byte excluded.
func enumerable(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return Implements(t, sequenceType)
}

// firstEnumerable returns the first declared enumerable member. Declared
// order decides ties; there is no best-candidate scoring.
func firstEnumerable(ms []apis.Member) int {
	for i, m := range ms {
		if !m.Ignore && enumerable(m.Type) {
			return i
		}
	}
	return -1
}
