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
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// AppendString appends s to dst as a string token of d.
func (d *Dialect) AppendString(dst []byte, s string) []byte {
	if !d.NeedsQuote(s) {
		return append(dst, s...)
	}
	dst = append(dst, d.Quote)
	if d.Escape == EscapeDoubled {
		for i := 0; i < len(s); i++ {
			if s[i] == d.Quote {
				dst = append(dst, d.Quote)
			}
			dst = append(dst, s[i])
		}
		return append(dst, d.Quote)
	}

	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != d.Quote && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case d.Quote, '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, d.Quote)
}

// QuoteString returns s as a string token of d.
func (d *Dialect) QuoteString(s string) string {
	return string(d.AppendString(make([]byte, 0, len(s)+2), s))
}

// Unquote decodes a string token. Bare tokens are returned unchanged with
// quoted == false. A token that opens a quote must close it.
func (d *Dialect) Unquote(tok string) (s string, quoted bool, err error) {
	if !d.IsQuoted(tok) {
		return tok, false, nil
	}
	if len(tok) < 2 || tok[len(tok)-1] != d.Quote {
		return "", true, errorf(0, "unterminated quoted string")
	}
	body := tok[1 : len(tok)-1]
	if d.Escape == EscapeDoubled {
		q := string([]byte{d.Quote})
		if !strings.Contains(body, q) {
			return body, true, nil
		}
		var b strings.Builder
		b.Grow(len(body))
		for i := 0; i < len(body); i++ {
			c := body[i]
			if c == d.Quote {
				if i+1 >= len(body) || body[i+1] != d.Quote {
					return "", true, errorf(i+1, "unescaped quote inside quoted string")
				}
				i++
			}
			b.WriteByte(c)
		}
		return b.String(), true, nil
	}
	if strings.IndexByte(body, '\\') < 0 {
		return body, true, nil
	}
	out, err := unescapeBackslash(body)
	return out, true, err
}

func unescapeBackslash(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errorf(i, "truncated escape sequence")
		}
		switch s[i] {
		case '"', '\\', '/', '\'':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, n, err := decodeU(s, i+1)
			if err != nil {
				return "", err
			}
			i += n
			if utf16.IsSurrogate(r) {
				if i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
					r2, n2, err := decodeU(s, i+3)
					if err == nil {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							r = dec
							i += 2 + n2
						}
					}
				}
			}
			b.WriteRune(r)
		default:
			return "", errorf(i, "invalid escape \\"+string(s[i]))
		}
	}
	return b.String(), nil
}

func decodeU(s string, i int) (rune, int, error) {
	if i+4 > len(s) {
		return 0, 0, errorf(i, "truncated \\u escape")
	}
	v, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, 0, errorf(i, "invalid \\u escape")
	}
	return rune(v), 4, nil
}
