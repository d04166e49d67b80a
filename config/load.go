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

package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dirpx.dev/tfx/apis"
)

// File is the YAML shape of the scalar configuration knobs. Fields left
// out of the document keep their defaults.
type File struct {
	IncludeNulls *bool   `yaml:"include_nulls"`
	EnumAsInt    *bool   `yaml:"enum_as_int"`
	CamelCase    *bool   `yaml:"camel_case"`
	EmitTypeInfo *bool   `yaml:"emit_type_info"`
	TypeAttr     *string `yaml:"type_attr"`
	MaxDepth     *int    `yaml:"max_depth"`
	Encoding     *string `yaml:"encoding"`
	CSV          struct {
		OmitHeaders *bool `yaml:"omit_headers"`
	} `yaml:"csv"`
}

// Options converts f into options, in a stable order.
func (f File) Options() []Option {
	var opts []Option
	if f.IncludeNulls != nil {
		opts = append(opts, WithIncludeNulls(*f.IncludeNulls))
	}
	if f.EnumAsInt != nil {
		opts = append(opts, WithEnumAsInt(*f.EnumAsInt))
	}
	if f.CamelCase != nil {
		opts = append(opts, WithCamelCase(*f.CamelCase))
	}
	if f.EmitTypeInfo != nil {
		opts = append(opts, WithTypeInfo(*f.EmitTypeInfo))
	}
	if f.TypeAttr != nil {
		opts = append(opts, WithTypeAttr(*f.TypeAttr))
	}
	if f.MaxDepth != nil {
		opts = append(opts, WithMaxDepth(*f.MaxDepth))
	}
	if f.Encoding != nil {
		opts = append(opts, WithEncoding(*f.Encoding))
	}
	if f.CSV.OmitHeaders != nil {
		opts = append(opts, WithCSVOmitHeaders(*f.CSV.OmitHeaders))
	}
	return opts
}

// Load reads a YAML document from r and returns the resulting config.
// Extra options are applied after the document.
func Load(r io.Reader, extra ...Option) (apis.Config, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return apis.Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	return NewConfig(append(f.Options(), extra...)...), nil
}

// LoadFile reads the YAML config at path.
func LoadFile(path string, extra ...Option) (apis.Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("config: %w", err)
	}
	defer fh.Close()
	return Load(fh, extra...)
}
