// Copyright 2026 The ldlogger Authors. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package escape encodes argument strings for the compilation database.
//
// The "command" value of a database entry is a shell command embedded in a
// JSON string, so every argument must survive two decode layers: JSON string
// decoding first, shell word splitting second. The encoder applies both
// escapes in a single pass per byte:
//
//	'\a' '\e' '\t' '\b' '\f' '\r' '\v' '\n' ' '  ->  \ \ letter   (3 bytes)
//	'"' '\'                                      ->  \ \ \ byte   (4 bytes)
//	other byte < 0x20                            ->  \ \ x hi lo  (5 bytes)
//	anything else                                ->  byte         (1 byte)
package escape

import "strings"

const hexDigits = "0123456789ABCDEF"

// escLetter maps the control bytes that have a single-letter shell escape to
// that letter. The space byte maps to itself: shell-escaped, then the
// backslash doubled for JSON.
var escLetter = map[byte]byte{
	'\a': 'a', 0x1B: 'e', '\t': 't', '\b': 'b', '\f': 'f',
	'\r': 'r', '\v': 'v', '\n': 'n', ' ': ' ',
}

// PredictSize returns the exact encoded length of s including a trailing
// NUL, so a caller assembling a command line can size its buffer precisely.
func PredictSize(s string) int {
	size := 1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escLetter[c] != 0:
			size += 3
		case c == '"' || c == '\\':
			size += 4
		case c < 0x20:
			size += 5
		default:
			size++
		}
	}
	return size
}

// String returns s encoded per the package rules.
func String(s string) string {
	var b strings.Builder
	b.Grow(PredictSize(s) - 1)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escLetter[c] != 0:
			b.WriteString(`\\`)
			b.WriteByte(escLetter[c])
		case c == '"' || c == '\\':
			b.WriteString(`\\\`)
			b.WriteByte(c)
		case c < 0x20:
			b.WriteString(`\\x`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xF])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Command encodes every argument and joins them with single spaces, the
// exact form stored in a database entry's "command" value.
func Command(args []string) string {
	size := 1
	for _, a := range args {
		size += PredictSize(a)
	}
	var b strings.Builder
	b.Grow(size - 1)
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(String(a))
	}
	return b.String()
}
