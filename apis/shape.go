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

import "reflect"

// Shape is the structural category of a type. Exactly one Shape applies to
// a type and it never changes once computed.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapePrimitive
	ShapeString
	ShapeNullable
	ShapeEnum
	ShapeArray
	ShapeCollection
	ShapeDictionary
	ShapeObject
	ShapeDynamic
)

var shapeNames = [...]string{
	ShapeInvalid:    "invalid",
	ShapePrimitive:  "primitive",
	ShapeString:     "string",
	ShapeNullable:   "nullable",
	ShapeEnum:       "enum",
	ShapeArray:      "array",
	ShapeCollection: "collection",
	ShapeDictionary: "dictionary",
	ShapeObject:     "object",
	ShapeDynamic:    "dynamic",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// Scalar refines ShapePrimitive.
type Scalar uint8

const (
	ScalarNone Scalar = iota
	ScalarBool
	ScalarInt
	ScalarUint
	ScalarFloat
	ScalarDuration
	ScalarBytes
	// ScalarText covers types implementing encoding.TextMarshaler and
	// encoding.TextUnmarshaler, time.Time included.
	ScalarText
)

// CollectionKind selects the reconstruction strategy of a collection.
type CollectionKind uint8

const (
	List CollectionKind = iota
	Set
	Queue
	Stack
)

func (k CollectionKind) String() string {
	switch k {
	case Set:
		return "set"
	case Queue:
		return "queue"
	case Stack:
		return "stack"
	default:
		return "list"
	}
}

// Descriptor is the immutable classification of one Go type.
type Descriptor struct {
	// Type is the described type.
	Type reflect.Type
	// Name is the Go spelling of Type, used in error messages.
	Name  string
	Shape Shape

	// Scalar and Bits refine ShapePrimitive.
	Scalar Scalar
	Bits   int

	// Elem is the inner type of Nullable, the element of Array and
	// Collection, and the value of Dictionary.
	Elem reflect.Type
	// Key is the key type of Dictionary.
	Key reflect.Type
	// Kind refines ShapeCollection.
	Kind CollectionKind
	// Len is the fixed length of a Go array, or -1 for slices.
	Len int

	// Members lists the candidate members of ShapeObject in declared order.
	Members []Member
	// Contract is set for data-contract types: only tagged members count.
	Contract bool
	// Rows is the index in Members of the first-enumerable member, or -1.
	Rows int

	// Enum is set for ShapeEnum.
	Enum *EnumInfo

	// Accessor marks ShapeDynamic types that implement MemberAccessor
	// rather than plain interfaces.
	Accessor bool
}

// Member is one struct field candidate of an object-shaped type, as
// described by its declaration and tag.
type Member struct {
	// Field is the Go field name.
	Field string
	// Name is the serialized name (the tag rename, else Field).
	Name string
	// Camel is Name in camelCase.
	Camel string
	// Lower is Name lowercased for case-insensitive matching.
	Lower string
	// Index is the reflect field index path.
	Index []int
	// Type is the declared field type.
	Type reflect.Type

	// Tagged records an explicit tfx tag.
	Tagged bool
	// Ignore records an explicit `tfx:"-"`.
	Ignore bool
	// OmitDefault skips the member when it holds its zero value.
	OmitDefault bool
	// OmitNull skips the member when it is null, even if nulls are included.
	OmitNull bool
	// Converter names a member-level converter.
	Converter string
}

// EnumMember is one named value of a registered enum.
type EnumMember struct {
	// Name is the Go-side name, always accepted on parse.
	Name string
	// Alias, when set, is the serialized name.
	Alias string
	Value int64
}

// Text returns the serialized name of m.
func (m EnumMember) Text() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Name
}

// EnumInfo is the per-enum lookup table. It is built once at registration
// and never mutated afterwards.
type EnumInfo struct {
	Type    reflect.Type
	Flags   bool
	Members []EnumMember
	// ByValue maps a value to its index in Members.
	ByValue map[int64]int
	// ByName maps lowercased names and aliases to values.
	ByName map[string]int64
}
