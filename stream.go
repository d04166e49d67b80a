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
	"fmt"
	"io"
	"reflect"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"dirpx.dev/tfx/grammar"
)

// Encoding returns the text encoding named by the global configuration.
func Encoding() (encoding.Encoding, error) {
	return lookupEncoding(Config().Encoding)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("tfx: encoding %q: %w", name, err)
	}
	return enc, nil
}

// EncodeText writes b to w in the configured text encoding.
func EncodeText(w io.Writer, b []byte) error {
	enc, err := Encoding()
	if err != nil {
		return err
	}
	tw := transform.NewWriter(w, enc.NewEncoder())
	if _, err := tw.Write(b); err != nil {
		return err
	}
	return tw.Close()
}

// DecodeText reads all of r and decodes it with the configured text
// encoding. A leading byte-order mark selects the matching Unicode encoding
// instead.
func DecodeText(r io.Reader) (string, error) {
	enc, err := Encoding()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("tfx: read stream: %w", err)
	}
	return string(b), nil
}

// WriteStream writes the text of v in dialect d to w, encoded with the
// configured text encoding.
func WriteStream(ctx context.Context, d *grammar.Dialect, w io.Writer, v reflect.Value) error {
	if _, err := Encoding(); err != nil {
		return err
	}
	b, err := WriteValue(ctx, d, nil, v)
	if err != nil {
		return err
	}
	return EncodeText(w, b)
}

// ReadStream reads all of r, decodes it with DecodeText and parses it in
// dialect d into a new value of t.
func ReadStream(ctx context.Context, d *grammar.Dialect, r io.Reader, t reflect.Type) (reflect.Value, error) {
	text, err := DecodeText(r)
	if err != nil {
		return reflect.Value{}, err
	}
	return ReadValue(ctx, d, text, t)
}
