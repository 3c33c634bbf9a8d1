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

package values

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	intRe   = regexp.MustCompile(`^-?\d+$`)
	floatRe = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Coerce converts a raw text fragment into a typed value. The classification
// order is fixed:
//
//	""                    -> ""
//	"true" / "false"      -> bool
//	"null"                -> nil
//	"undefined"           -> Undefined
//	-?\d+                 -> int64
//	-?\d+\.\d+            -> float64
//	embedded JSON         -> decoded value
//	anything else         -> the trimmed string
//
// Surrounding double quotes are removed before classification, so `"42"`
// coerces to 42. Coerce never fails.
func Coerce(raw string) any {
	s := strings.TrimSpace(raw)
	switch {
	case s == `"`:
		// a lone quote is both the opening and closing one
		s = ""
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	switch s {
	case "":
		return ""
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	case "undefined":
		return Undefined
	}

	if intRe.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		// too large for int64, keep the magnitude like a float would
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return s
	}

	if floatRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return s
	}

	if maybeJSON(s) {
		if v, err := DecodeJSON(s); err == nil {
			return v
		}
	}

	return s
}

// maybeJSON reports whether s starts with a character a JSON document can
// start with. It only saves a decoder allocation for plain words.
func maybeJSON(s string) bool {
	if s == "" {
		return false
	}
	switch c := s[0]; {
	case c == '{', c == '[', c == '"', c == '-':
		return true
	case c >= '0' && c <= '9':
		return true
	default:
		return false
	}
}

// LooksLikeJSONContainer reports whether s starts and ends with a matching
// pair of braces or brackets.
func LooksLikeJSONContainer(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}
