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

// Package values holds the typed values produced by the extraction engine:
// an insertion-ordered Mapping, the Undefined sentinel, scalar coercion and
// an order-preserving JSON decoder.
//
// A value stored in a Mapping is always one of: string, int64, float64,
// bool, nil, Undefined, *Mapping or []any.
package values

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined is stored for fields whose raw text was the literal "undefined".
// It is omitted when a Mapping is encoded as JSON and encodes as null inside
// a sequence.
var Undefined = UndefinedValue{}

func (UndefinedValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (UndefinedValue) String() string {
	return "undefined"
}

// Mapping is an ordered collection of unique keys. Setting an existing key
// replaces its value but keeps its original position.
type Mapping struct {
	vals map[string]any
	keys []string
}

// New returns an empty Mapping.
func New() *Mapping {
	return &Mapping{vals: make(map[string]any)}
}

// FromPairs builds a Mapping from alternating key, value arguments. It is
// mostly useful in tests.
func FromPairs(kv ...any) *Mapping {
	m := New()
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("values: key at position %d is %T, not string", i, kv[i]))
		}
		m.Set(k, kv[i+1])
	}
	return m
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Mapping) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Mapping) Set(key string, value any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

func (m *Mapping) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Merge copies every pair of other into m in other's order. Keys already
// present in m are overwritten in place.
func (m *Mapping) Merge(other *Mapping) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.vals[k])
	}
}

// Range calls fn for each pair in order until fn returns false.
func (m *Mapping) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Nested mappings and sequences are copied,
// scalars are shared.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}
	out := New()
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.vals[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// Native converts v into plain Go maps and slices, recursively. Mappings
// become map[string]any and lose their order.
func Native(v any) any {
	switch t := v.(type) {
	case *Mapping:
		if t == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			out[k] = Native(t.vals[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Native(t[i])
		}
		return out
	default:
		return v
	}
}

// Native is shorthand for Native(m) typed as a map.
func (m *Mapping) Native() map[string]any {
	out, _ := Native(m).(map[string]any)
	return out
}

// MarshalJSON encodes the mapping as a JSON object in key order, skipping
// Undefined values.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range m.keys {
		v := m.vals[k]
		if _, ok := v.(UndefinedValue); ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := marshalNoEscape(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value of %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(string(data))
	if err != nil {
		return err
	}
	decoded, ok := v.(*Mapping)
	if !ok {
		return fmt.Errorf("%w: expected object, got %T", ErrInvalidJSON, v)
	}
	*m = *decoded
	return nil
}
