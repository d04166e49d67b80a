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
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind discriminates Error.
type Kind uint8

const (
	// KindUnsupportedType: the type has no text projection.
	KindUnsupportedType Kind = iota + 1
	// KindTypeBinding: building the codec of a type failed at a member.
	KindTypeBinding
	// KindFormat: malformed input text.
	KindFormat
	// KindOverflow: a numeric literal does not fit the target width. It is
	// a KindFormat error as well.
	KindOverflow
	// KindDepth: nesting exceeded Config.MaxDepth.
	KindDepth
)

var (
	// ErrUnsupportedType matches KindUnsupportedType errors.
	ErrUnsupportedType = errors.New("tfx: unsupported type")
	// ErrTypeBinding matches KindTypeBinding errors.
	ErrTypeBinding = errors.New("tfx: type binding failed")
	// ErrFormat matches KindFormat and KindOverflow errors.
	ErrFormat = errors.New("tfx: malformed input")
	// ErrOverflow matches KindOverflow errors.
	ErrOverflow = errors.New("tfx: numeric overflow")
	// ErrDepth matches KindDepth errors.
	ErrDepth = errors.New("tfx: max depth exceeded")
)

// Error is the single error type of the engine. Context fields are set when
// known: Type names the offending type, Member the struct member, Pos the
// byte offset inside the innermost span being scanned, which is the body of
// the list or map that failed rather than the whole input (-1 when unknown).
type Error struct {
	Kind   Kind
	Type   reflect.Type
	Member string
	Pos    int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel().Error())
	if e.Type != nil {
		b.WriteString(" [")
		b.WriteString(e.Type.String())
		if e.Member != "" {
			b.WriteByte('.')
			b.WriteString(e.Member)
		}
		b.WriteByte(']')
	}
	var p Positioned
	if e.Pos >= 0 && !errors.As(e.Err, &p) {
		// A positioned cause prints its own offset.
		fmt.Fprintf(&b, " at %d", e.Pos)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the kind sentinels and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := []error{e.sentinel()}
	if e.Kind == KindOverflow {
		out = append(out, ErrFormat)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindUnsupportedType:
		return ErrUnsupportedType
	case KindTypeBinding:
		return ErrTypeBinding
	case KindOverflow:
		return ErrOverflow
	case KindDepth:
		return ErrDepth
	default:
		return ErrFormat
	}
}

// Unsupported reports a type with no text projection.
func Unsupported(t reflect.Type, msg string) *Error {
	return &Error{Kind: KindUnsupportedType, Type: t, Pos: -1, Msg: msg}
}

// Binding reports a codec build failure at member of t.
func Binding(t reflect.Type, member string, err error) *Error {
	return &Error{Kind: KindTypeBinding, Type: t, Member: member, Pos: -1, Err: err}
}

// Malformed reports malformed input while parsing t.
func Malformed(t reflect.Type, msg string) *Error {
	return &Error{Kind: KindFormat, Type: t, Pos: -1, Msg: msg}
}

// MalformedErr wraps a lower-level parse failure. A position carried by err
// (see Positioned) is lifted into Pos.
func MalformedErr(t reflect.Type, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	out := &Error{Kind: KindFormat, Type: t, Pos: -1, Err: err}
	var p Positioned
	if errors.As(err, &p) {
		out.Pos = p.Position()
	}
	return out
}

// Overflow reports a numeric literal out of range for t.
func Overflow(t reflect.Type, lit string) *Error {
	return &Error{Kind: KindOverflow, Type: t, Pos: -1, Msg: fmt.Sprintf("%q out of range", lit)}
}

// DepthExceeded reports nesting beyond max.
func DepthExceeded(t reflect.Type, max int) *Error {
	return &Error{Kind: KindDepth, Type: t, Pos: -1, Msg: fmt.Sprintf("limit %d", max)}
}

// Positioned is implemented by lower-level errors that know their offset.
type Positioned interface {
	Position() int
}

// IsFormat reports whether err is a malformed-input error (overflow included).
func IsFormat(err error) bool { return errors.Is(err, ErrFormat) }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsUnsupported reports whether err is an unsupported-type error.
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupportedType) }
