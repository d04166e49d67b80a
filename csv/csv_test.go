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

package csv_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"dirpx.dev/tfx"
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/csv"
)

type Level int

type Item struct {
	Name  string
	Qty   int
	Note  string
	Tags  []string
	Level Level
}

type Inventory struct {
	Title string
	Items []Item
}

func (Inventory) FirstEnumerable() {}

type Tagged struct {
	Name string
	Meta any
}

type Price struct {
	SKU   string
	Cents int
}

func init() {
	if err := tfx.RegisterEnum[Level](false,
		apis.EnumMember{Name: "Low", Value: 0},
		apis.EnumMember{Name: "High", Value: 1},
	); err != nil {
		panic(err)
	}
	tfx.Configure(config.WithCSVHeaders(reflect.TypeFor[Price](), map[string]string{"SKU": "Product Code"}))
}

var items = []Item{
	{Name: "pen", Qty: 2, Note: `He said, "hi" [ok]`, Tags: []string{"a", "b"}, Level: 1},
	{Name: "cup", Qty: 0},
}

const itemsCSV = "Name,Qty,Note,Tags,Level\r\n" +
	"pen,2,\"He said, \"\"hi\"\" [ok]\",\"[a,b]\",High\r\n" +
	"cup,0,\"\",,Low\r\n"

func TestSerialize_Rows(t *testing.T) {
	got, err := csv.Serialize(items)
	require.NoError(t, err)
	assert.Equal(t, itemsCSV, got)

	back, err := csv.Deserialize[[]Item](got)
	require.NoError(t, err)
	assert.Equal(t, items, back)
}

func TestSerialize_SingleObject(t *testing.T) {
	got, err := csv.Serialize(&items[0])
	require.NoError(t, err)
	assert.Equal(t, "Name,Qty,Note,Tags,Level\r\npen,2,\"He said, \"\"hi\"\" [ok]\",\"[a,b]\",High\r\n", got)

	back, err := csv.Deserialize[Item](got)
	require.NoError(t, err)
	assert.Equal(t, items[0], back)
}

func TestDeserialize_LooseInput(t *testing.T) {
	// LF line ends, reordered and unknown columns, a blank trailing line.
	text := "level,extra,NAME\nhigh,zzz,\"a\nb\"\n\n"
	got, err := csv.Deserialize[[]Item](text)
	require.NoError(t, err)
	assert.Equal(t, []Item{{Name: "a\nb", Level: 1}}, got)
}

func TestFirstEnumerable(t *testing.T) {
	inv := Inventory{Title: "ignored", Items: items}
	got, err := csv.Serialize(inv)
	require.NoError(t, err)
	assert.Equal(t, itemsCSV, got)

	back, err := csv.Deserialize[Inventory](got)
	require.NoError(t, err)
	assert.Equal(t, Inventory{Items: items}, back)
}

func TestScalars(t *testing.T) {
	got, err := csv.Serialize([]string{"a", "b,c", ""})
	require.NoError(t, err)
	assert.Equal(t, "a\r\n\"b,c\"\r\n\"\"\r\n", got)

	back, err := csv.Deserialize[[]string](got)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c", ""}, back)

	n, err := csv.Serialize(42)
	require.NoError(t, err)
	assert.Equal(t, "42\r\n", n)
	v, err := csv.Deserialize[int](n)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	ints, err := csv.Deserialize[[]int]("1\r\n2\r\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ints)
}

func TestMaps(t *testing.T) {
	got, err := csv.Serialize(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "a,b\r\n1,2\r\n", got)
	back, err := csv.Deserialize[map[string]int](got)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, back)

	rows := []map[string]string{{"x": "1"}, {"y": "2", "x": "3"}}
	got, err = csv.Serialize(rows)
	require.NoError(t, err)
	assert.Equal(t, "x,y\r\n1,\r\n3,2\r\n", got)
	backRows, err := csv.Deserialize[[]map[string]string](got)
	require.NoError(t, err)
	assert.Equal(t, rows, backRows)
}

func TestLateBound_RoundTrip(t *testing.T) {
	rows := []Tagged{
		{Name: "a", Meta: "x, y"},
		{Name: "b", Meta: ""},
		{Name: "c", Meta: `say "hi"`},
		{Name: "d"},
	}
	got, err := csv.Serialize(rows)
	require.NoError(t, err)
	assert.Equal(t, "Name,Meta\r\n"+
		"a,\"\"\"x, y\"\"\"\r\n"+
		"b,\"\"\"\"\"\"\r\n"+
		"c,\"\"\"say \"\"\"\"hi\"\"\"\"\"\"\"\r\n"+
		"d,\r\n", got)
	back, err := csv.Deserialize[[]Tagged](got)
	require.NoError(t, err)
	assert.Equal(t, rows, back)

	maps := []map[string]any{{"k": "p, q"}, {"k": ""}}
	got, err = csv.Serialize(maps)
	require.NoError(t, err)
	backMaps, err := csv.Deserialize[[]map[string]any](got)
	require.NoError(t, err)
	assert.Equal(t, maps, backMaps)

	scalars := []any{"x, y", ""}
	got, err = csv.Serialize(scalars)
	require.NoError(t, err)
	backScalars, err := csv.Deserialize[[]any](got)
	require.NoError(t, err)
	assert.Equal(t, scalars, backScalars)
}

func TestHeaders_RemapAndOmit(t *testing.T) {
	prices := []Price{{SKU: "A-1", Cents: 250}}
	got, err := csv.Serialize(prices)
	require.NoError(t, err)
	assert.Equal(t, "Product Code,Cents\r\nA-1,250\r\n", got)
	back, err := csv.Deserialize[[]Price](got)
	require.NoError(t, err)
	assert.Equal(t, prices, back)

	ctx := config.WithOverride(context.Background(), apis.Override{CSVOmitHeaders: config.Bool(true)})
	got, err = csv.SerializeContext(ctx, prices)
	require.NoError(t, err)
	assert.Equal(t, "A-1,250\r\n", got)
	back, err = csv.DeserializeContext[[]Price](ctx, got)
	require.NoError(t, err)
	assert.Equal(t, prices, back)
}

func TestCamelCaseScope(t *testing.T) {
	ctx := config.WithOverride(context.Background(), apis.Override{CamelCase: config.Bool(true)})
	got, err := csv.SerializeContext(ctx, []Item{{Name: "x", Qty: 1}})
	require.NoError(t, err)
	assert.Equal(t, "name,qty,note,tags,level\r\nx,1,\"\",,Low\r\n", got)

	back, err := csv.DeserializeContext[[]Item](ctx, got)
	require.NoError(t, err)
	assert.Equal(t, []Item{{Name: "x", Qty: 1}}, back)
}

func TestObjectAPI(t *testing.T) {
	got, err := csv.SerializeObject(items[1], reflect.TypeFor[Item]())
	require.NoError(t, err)
	back, err := csv.DeserializeObject(got, reflect.TypeFor[Item]())
	require.NoError(t, err)
	assert.Equal(t, items[1], back)
}

func TestNilAndEmpty(t *testing.T) {
	got, err := csv.Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = csv.Serialize([]Item{})
	require.NoError(t, err)
	assert.Equal(t, "Name,Qty,Note,Tags,Level\r\n", got)

	back, err := csv.Deserialize[[]Item]("")
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestDeserialize_Errors(t *testing.T) {
	_, err := csv.Deserialize[[]Item]("Name\r\n\"open\r\n")
	assert.True(t, errors.Is(err, apis.ErrFormat))

	_, err = csv.Deserialize[[]Item]("Qty\r\nmany\r\n")
	assert.True(t, errors.Is(err, apis.ErrFormat))
}

func TestStream_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csv.SerializeToStream(&buf, items))
	assert.Equal(t, itemsCSV, buf.String())
	back, err := csv.DeserializeFromStream[[]Item](&buf)
	require.NoError(t, err)
	assert.Equal(t, items, back)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(itemsCSV)
	require.NoError(t, err)
	back, err = csv.DeserializeFromStream[[]Item](bytes.NewReader([]byte(utf16)))
	require.NoError(t, err)
	assert.Equal(t, items, back)
}
