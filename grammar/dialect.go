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

// Package grammar holds the low-level value grammar shared by every text
// format: delimiter tables, string quoting and escaping, character classes
// and the EatValue scanner that splits list, map and record spans.
//
// A Dialect is pure data. Format adapters pick one of the predefined
// dialects (JSON, JSV, CSV) and hand it to the shared codecs; nothing in
// this package knows about Go types.
package grammar

// QuotePolicy decides when string tokens are wrapped in quotes.
type QuotePolicy uint8

const (
	// QuoteWhenNeeded leaves a string bare unless it is empty, has leading or
	// trailing whitespace, or contains a character that would confuse the
	// scanner.
	QuoteWhenNeeded QuotePolicy = iota
	// QuoteAlways wraps every string token.
	QuoteAlways
)

// EscapeStyle selects how a quote embedded in a quoted string is written.
type EscapeStyle uint8

const (
	// EscapeDoubled writes an embedded quote as two quotes ("").
	EscapeDoubled EscapeStyle = iota
	// EscapeBackslash uses C-style backslash escapes (\" \\ \n \uXXXX).
	EscapeBackslash
)

// Dialect is the delimiter table and escaping policy of one text format.
// Dialects are immutable after construction and safe for concurrent use.
type Dialect struct {
	// Name identifies the dialect; it is part of the procedure cache key.
	Name string

	ListOpen  byte
	ListClose byte
	MapOpen   byte
	MapClose  byte
	ItemSep   byte
	KVSep     byte
	Quote     byte

	// Null is the token written for a null reference.
	Null string

	Quoting QuotePolicy
	Escape  EscapeStyle

	// Nesting enables bracket depth tracking in the scanner. CSV fields are
	// flat, so brackets inside an unquoted field are plain text there.
	Nesting bool

	// Strict marks dialects that cannot carry non-finite floats as bare
	// tokens; NaN and Inf are written as Null instead.
	Strict bool

	// force marks bytes that require a string to be quoted.
	force [256]bool
}

// NewDialect completes d by computing its force-quote table and returns it.
func NewDialect(d Dialect) *Dialect {
	d.force[d.Quote] = true
	d.force[d.ItemSep] = true
	d.force['\r'] = true
	d.force['\n'] = true
	if d.Nesting {
		d.force[d.ListOpen] = true
		d.force[d.ListClose] = true
		d.force[d.MapOpen] = true
		d.force[d.MapClose] = true
		d.force[d.KVSep] = true
	}
	if d.Escape == EscapeBackslash {
		d.force['\\'] = true
	}
	return &d
}

// JSON is the JSON-style dialect: always-quoted strings, backslash escapes
// and "null".
var JSON = NewDialect(Dialect{
	Name:      "json",
	ListOpen:  '[',
	ListClose: ']',
	MapOpen:   '{',
	MapClose:  '}',
	ItemSep:   ',',
	KVSep:     ':',
	Quote:     '"',
	Null:      "null",
	Quoting:   QuoteAlways,
	Escape:    EscapeBackslash,
	Nesting:   true,
	Strict:    true,
})

// JSV is the compact JSON sibling: same brackets, bare strings when safe,
// doubled-quote escaping, and an empty token for null.
var JSV = NewDialect(Dialect{
	Name:      "jsv",
	ListOpen:  '[',
	ListClose: ']',
	MapOpen:   '{',
	MapClose:  '}',
	ItemSep:   ',',
	KVSep:     ':',
	Quote:     '"',
	Null:      "",
	Quoting:   QuoteWhenNeeded,
	Escape:    EscapeDoubled,
	Nesting:   true,
})

// CSV is the RFC 4180 field dialect used for header and data rows.
var CSV = NewDialect(Dialect{
	Name:      "csv",
	ListOpen:  '[',
	ListClose: ']',
	MapOpen:   '{',
	MapClose:  '}',
	ItemSep:   ',',
	KVSep:     ':',
	Quote:     '"',
	Null:      "",
	Quoting:   QuoteWhenNeeded,
	Escape:    EscapeDoubled,
	Nesting:   false,
})

// IsNull reports whether tok is the null token of d. An empty token is
// null only in dialects whose null token is empty.
func (d *Dialect) IsNull(tok string) bool {
	return tok == d.Null
}

// NeedsQuote reports whether s must be quoted to survive a round trip.
func (d *Dialect) NeedsQuote(s string) bool {
	if d.Quoting == QuoteAlways || s == "" {
		return true
	}
	if IsSpace(s[0]) || IsSpace(s[len(s)-1]) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if d.force[s[i]] {
			return true
		}
	}
	return false
}

// IsQuoted reports whether tok starts with the dialect quote.
func (d *Dialect) IsQuoted(tok string) bool {
	return len(tok) > 0 && tok[0] == d.Quote
}
