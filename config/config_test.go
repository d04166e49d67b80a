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

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/config"
)

type row struct{ Name string }

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.IncludeNulls != config.DefaultIncludeNulls {
		t.Fatalf("IncludeNulls = %v, want %v", got.IncludeNulls, config.DefaultIncludeNulls)
	}
	if got.TypeAttr != config.DefaultTypeAttr {
		t.Fatalf("TypeAttr = %q, want %q", got.TypeAttr, config.DefaultTypeAttr)
	}
	if got.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", got.MaxDepth, config.DefaultMaxDepth)
	}
	if got.Encoding != config.DefaultEncoding {
		t.Fatalf("Encoding = %q, want %q", got.Encoding, config.DefaultEncoding)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	if got, def := config.NewConfig(), config.DefaultConfig(); !reflect.DeepEqual(got, def) {
		t.Fatalf("NewConfig() = %+v, want %+v", got, def)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	got := config.NewConfig(
		config.WithCamelCase(true),
		config.WithMaxDepth(7),
		config.WithCamelCase(false),
		config.WithMaxDepth(3),
	)
	if got.CamelCase {
		t.Fatalf("CamelCase = true, want last option (false) to win")
	}
	if got.MaxDepth != 3 {
		t.Fatalf("MaxDepth = %d, want 3", got.MaxDepth)
	}
}

func TestNewConfig_Guardrails(t *testing.T) {
	got := config.NewConfig(config.WithMaxDepth(-1), config.WithTypeAttr(""))
	if got.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want default", got.MaxDepth)
	}
	if got.TypeAttr != config.DefaultTypeAttr {
		t.Fatalf("TypeAttr = %q, want default", got.TypeAttr)
	}
}

func TestOptions_DoNotAlias(t *testing.T) {
	rt := reflect.TypeFor[row]()
	base := config.NewConfig(config.WithExcludedMembers(rt, "A"))
	derived := config.NewConfig(func(c *apis.Config) { *c = base }, config.WithExcludedMembers(rt, "B"))

	if got := base.ExcludedMembers[rt]; !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("base mutated by derived option: %v", got)
	}
	if got := derived.ExcludedMembers[rt]; !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("derived members = %v", got)
	}

	headers := map[string]string{"Name": "name"}
	c := config.NewConfig(config.WithCSVHeaders(rt, headers))
	headers["Name"] = "changed"
	if c.CSVHeaders[rt]["Name"] != "name" {
		t.Fatalf("CSVHeaders aliases the caller map")
	}
}

func TestLoad_YAML(t *testing.T) {
	doc := `
include_nulls: true
camel_case: true
type_attr: $type
max_depth: 64
csv:
  omit_headers: true
`
	got, err := config.Load(strings.NewReader(doc), config.WithEnumAsInt(true))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.IncludeNulls || !got.CamelCase || !got.CSVOmitHeaders || !got.EnumAsInt {
		t.Fatalf("Load flags = %+v", got)
	}
	if got.TypeAttr != "$type" || got.MaxDepth != 64 {
		t.Fatalf("Load TypeAttr=%q MaxDepth=%d", got.TypeAttr, got.MaxDepth)
	}
	if got.Encoding != config.DefaultEncoding {
		t.Fatalf("Encoding = %q, want default", got.Encoding)
	}
}

func TestLoad_EmptyAndUnknown(t *testing.T) {
	got, err := config.Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if !reflect.DeepEqual(got, config.DefaultConfig()) {
		t.Fatalf("Load(empty) = %+v, want defaults", got)
	}
	if _, err := config.Load(strings.NewReader("bogus: 1\n")); err == nil {
		t.Fatalf("Load accepted an unknown key")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tfx.yaml")
	if err := os.WriteFile(path, []byte("encoding: utf-16le\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Encoding != "utf-16le" {
		t.Fatalf("Encoding = %q", got.Encoding)
	}
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("LoadFile(missing) returned no error")
	}
}

func TestScope_NestsAndRestores(t *testing.T) {
	base := config.DefaultConfig()
	outer := config.WithOverride(context.Background(), apis.Override{
		CamelCase: config.Bool(true),
		TypeAttr:  config.String("$t"),
	})
	inner := config.WithOverride(outer, apis.Override{CamelCase: config.Bool(false)})

	if got := config.Effective(inner, base); got.CamelCase || got.TypeAttr != "$t" {
		t.Fatalf("inner scope: CamelCase=%v TypeAttr=%q", got.CamelCase, got.TypeAttr)
	}
	if got := config.Effective(outer, base); !got.CamelCase {
		t.Fatalf("outer scope changed by inner")
	}
	if got := config.Effective(context.Background(), base); !reflect.DeepEqual(got, base) {
		t.Fatalf("unscoped context altered config")
	}
}
