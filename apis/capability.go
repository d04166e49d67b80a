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

// Namer lets a type choose the name written in type hints.
type Namer interface {
	EntityName() string
}

// DataContract marks a struct as opt-in: only members carrying an explicit
// tfx tag serialize.
type DataContract interface {
	DataContract()
}

// FirstEnumerable marks a struct whose CSV form is the rows of its first
// enumerable member instead of a single row.
type FirstEnumerable interface {
	FirstEnumerable()
}

// Sequence is the capability of a user collection. Read methods must work
// on the value; Append may require a pointer receiver and must accept a
// zero value receiver.
type Sequence interface {
	SequenceKind() CollectionKind
	ElemType() reflect.Type
	Len() int
	// Range yields elements in write order until fn returns false.
	Range(fn func(v any) bool)
	// Append adds one element in read order.
	Append(v any) error
}

// Mapping is the capability of a user dictionary.
type Mapping interface {
	KeyType() reflect.Type
	ValueType() reflect.Type
	Len() int
	// Range yields entries in write order until fn returns false.
	Range(fn func(k, v any) bool)
	Put(k, v any) error
}

// MemberAccessor is the capability of a late-bound object whose members are
// only known at run time.
type MemberAccessor interface {
	MemberNames() []string
	GetMember(name string) (any, bool)
	SetMember(name string, v any) error
}

// Converter turns a value into text and back. It serves both member-level
// converters and whole-type overrides. Parse must return a value assignable
// or convertible to the target type.
type Converter struct {
	Format func(v any) (string, error)
	Parse  func(s string) (any, error)
}
