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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrJSONTooDeep  = errors.New("JSON nesting too deep")
	ErrTrailingJSON = errors.New("trailing data after JSON value")
)

// maxJSONDepth bounds recursion when decoding untrusted embedded JSON.
const maxJSONDepth = 512

// DecodeJSON decodes a complete JSON document. Objects become *Mapping with
// their key order preserved, arrays become []any, integers written without
// a fraction or exponent become int64 and every other number float64.
func DecodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingJSON
	}

	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (any, error) {
	if depth > maxJSONDepth {
		return nil, ErrJSONTooDeep
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidJSON, t)
		}
	case json.Number:
		return jsonNumber(t)
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %T", ErrInvalidJSON, t)
	}
}

func decodeObject(dec *json.Decoder, depth int) (*Mapping, error) {
	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is %T", ErrInvalidJSON, tok)
		}
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return m, nil
}

func decodeArray(dec *json.Decoder, depth int) ([]any, error) {
	out := make([]any, 0)
	for dec.More() {
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return out, nil
}

func jsonNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %s: %w", ErrInvalidJSON, s, err)
	}
	return f, nil
}
