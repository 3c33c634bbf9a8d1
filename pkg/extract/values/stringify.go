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
	"strconv"
	"strings"
)

// Stringify renders v the way it is embedded into a generated command:
// scalars in their literal form, sequences joined with commas (null and
// undefined elements render empty) and mappings as compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return FormatFloat(t)
	case UndefinedValue:
		return "undefined"
	case *Mapping:
		b, err := t.MarshalJSON()
		if err != nil {
			return "{}"
		}
		return string(b)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			switch e.(type) {
			case nil, UndefinedValue:
				parts[i] = ""
			default:
				parts[i] = Stringify(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		b, err := marshalNoEscape(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// FormatFloat prints a float with the shortest representation that round
// trips, switching to exponent form outside [1e-7, 1e21).
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-7 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TypeName names the kind of a value for display purposes.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case UndefinedValue:
		return "undefined"
	case *Mapping:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
