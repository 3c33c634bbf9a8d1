// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package extract

import (
	"regexp"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
)

// pair is one raw key/value capture before coercion.
type pair struct {
	key   string
	value string
}

// lazyPattern matches `prefix` followed by a value that extends lazily up
// to the first position where `term` matches, or to the end of the text.
//
// prefix must have two groups: the key, and the first character of the
// value. RE2 has no lookahead, so the value end is found with a second
// search for term starting right after that first character. The terminator
// is not consumed: the next search resumes at the value end.
type lazyPattern struct {
	prefix *regexp.Regexp
	term   *regexp.Regexp
}

func newLazyPattern(prefix, term string) lazyPattern {
	return lazyPattern{
		prefix: regexp.MustCompile(prefix),
		term:   regexp.MustCompile(term),
	}
}

func (lp lazyPattern) scan(text string) []pair {
	var out []pair
	pos := 0
	for pos < len(text) {
		loc := lp.prefix.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		keyStart, keyEnd := pos+loc[2], pos+loc[3]
		valStart, firstEnd := pos+loc[4], pos+loc[5]

		end := len(text)
		if t := lp.term.FindStringIndex(text[firstEnd:]); t != nil {
			end = firstEnd + t[0]
		}

		out = append(out, pair{key: text[keyStart:keyEnd], value: text[valStart:end]})
		pos = end
	}
	return out
}

// scanPairs returns every non-overlapping match of re as key (group 1) and
// value (group 2, empty if re has a single group).
func scanPairs(re *regexp.Regexp, text string) []pair {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]pair, 0, len(matches))
	for _, m := range matches {
		p := pair{key: m[1]}
		if len(m) > 2 {
			p.value = m[2]
		}
		out = append(out, p)
	}
	return out
}

// stripQuotes removes one leading and one trailing quote character, single
// or double, independently of each other.
func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// splitArray coerces each comma-separated element of the inside of a
// bracketed list. An empty list yields an empty sequence.
func splitArray(inner string) []any {
	if strings.TrimSpace(inner) == "" {
		return []any{}
	}
	parts := strings.Split(inner, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = values.Coerce(p)
	}
	return out
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// nestingDelta returns opening minus closing braces and brackets in line,
// ignoring any inside double-quoted strings.
func nestingDelta(line string) int {
	delta := 0
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			delta++
		case '}', ']':
			delta--
		}
	}
	return delta
}
