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

package grammar

import (
	"fmt"
)

// SyntaxError reports malformed input at a byte offset of the scanned span.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Position returns the byte offset of the error.
func (e *SyntaxError) Position() int { return e.Pos }

func errorf(pos int, msg string) error {
	return &SyntaxError{Pos: pos, Msg: msg}
}

// Entry is one raw key/value pair produced by SplitMap.
type Entry struct {
	Key   string
	Value string
}

// EatValue scans s from i and returns the offset of the item separator that
// ends the value, or len(s) when the value runs to the end of input.
//
// The scanner has two states, Normal and InQuotes, crossed with a bracket
// depth counter. The value ends at the first item separator seen at depth
// zero outside quotes.
func (d *Dialect) EatValue(s string, i int) (int, error) {
	return d.scan(s, i, d.ItemSep, 0)
}

// EatKey scans a map key from i and returns the offset of the key/value
// separator. Meeting an item separator first is an error.
func (d *Dialect) EatKey(s string, i int) (int, error) {
	j, err := d.scan(s, i, d.KVSep, d.ItemSep)
	if err != nil {
		return j, err
	}
	if j >= len(s) {
		return j, errorf(i, "missing key separator")
	}
	return j, nil
}

func (d *Dialect) scan(s string, i int, stop, bad byte) (int, error) {
	inQuotes := false
	depth := 0
	start := i
	for i < len(s) {
		c := s[i]
		if inQuotes {
			switch {
			case c == '\\' && d.Escape == EscapeBackslash:
				i += 2
				continue
			case c == d.Quote:
				if d.Escape == EscapeDoubled && i+1 < len(s) && s[i+1] == d.Quote {
					i += 2
					continue
				}
				inQuotes = false
			}
			i++
			continue
		}
		switch {
		case c == d.Quote:
			inQuotes = true
		case d.Nesting && (c == d.ListOpen || c == d.MapOpen):
			depth++
		case d.Nesting && (c == d.ListClose || c == d.MapClose):
			depth--
			if depth < 0 {
				return i, errorf(i, fmt.Sprintf("unbalanced %q", c))
			}
		case depth == 0 && c == stop:
			return i, nil
		case depth == 0 && bad != 0 && c == bad:
			return i, errorf(i, fmt.Sprintf("unexpected %q", c))
		}
		i++
	}
	if inQuotes {
		return len(s), errorf(start, "unterminated quoted string")
	}
	if depth != 0 {
		return len(s), errorf(start, "unbalanced brackets")
	}
	return len(s), nil
}

// Inner strips the open and close delimiters surrounding tok.
func Inner(tok string, open, close byte) (string, error) {
	tok = TrimSpace(tok)
	if len(tok) < 2 || tok[0] != open || tok[len(tok)-1] != close {
		return "", errorf(0, fmt.Sprintf("expected %q ... %q", open, close))
	}
	return tok[1 : len(tok)-1], nil
}

// SplitList splits the body of a list (delimiters already stripped) into raw
// element tokens. An all-whitespace body yields no elements.
func (d *Dialect) SplitList(body string) ([]string, error) {
	if TrimSpace(body) == "" {
		return nil, nil
	}
	var out []string
	for i := 0; ; {
		j, err := d.EatValue(body, i)
		if err != nil {
			return nil, err
		}
		out = append(out, TrimSpace(body[i:j]))
		if j >= len(body) {
			return out, nil
		}
		i = j + 1
	}
}

// SplitMap splits the body of a map (delimiters already stripped) into raw
// key and value tokens, preserving input order.
func (d *Dialect) SplitMap(body string) ([]Entry, error) {
	if TrimSpace(body) == "" {
		return nil, nil
	}
	var out []Entry
	for i := 0; ; {
		k, err := d.EatKey(body, i)
		if err != nil {
			return nil, err
		}
		v, err := d.EatValue(body, k+1)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: TrimSpace(body[i:k]), Value: TrimSpace(body[k+1 : v])})
		if v >= len(body) {
			return out, nil
		}
		i = v + 1
	}
}

// SplitRecords splits text into newline-terminated records, honouring quoted
// regions that span lines. A trailing carriage return is dropped from each
// record and a final empty line is ignored.
func (d *Dialect) SplitRecords(text string) ([]string, error) {
	var out []string
	inQuotes := false
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == d.Quote:
			inQuotes = !inQuotes
		case c == '\n' && !inQuotes:
			out = append(out, trimCR(text[start:i]))
			start = i + 1
		}
	}
	if inQuotes {
		return nil, errorf(start, "unterminated quoted field")
	}
	if start < len(text) {
		out = append(out, trimCR(text[start:]))
	}
	return out, nil
}

// SplitFields splits one record into raw (still quoted) fields.
func (d *Dialect) SplitFields(record string) ([]string, error) {
	var out []string
	for i := 0; ; {
		j, err := d.EatValue(record, i)
		if err != nil {
			return nil, err
		}
		out = append(out, record[i:j])
		if j >= len(record) {
			return out, nil
		}
		i = j + 1
	}
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
