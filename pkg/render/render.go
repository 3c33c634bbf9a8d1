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

// Package render writes an extracted mapping in one of several text
// formats.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/davecgh/go-spew/spew"
	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatINI   Format = "ini"
	FormatEnv   Format = "env"
	FormatCSV   Format = "csv"
	FormatDebug Format = "debug"
)

var renderers = map[Format]func(io.Writer, *values.Mapping) error{
	FormatJSON:  renderJSON,
	FormatTOML:  renderTOML,
	FormatYAML:  renderYAML,
	FormatINI:   renderINI,
	FormatEnv:   renderEnv,
	FormatCSV:   renderCSV,
	FormatDebug: renderDebug,
}

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatTOML, FormatYAML, FormatINI, FormatEnv, FormatCSV, FormatDebug}
}

// ParseFormat resolves an output format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := renderers[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Render writes m to w in format f.
func Render(w io.Writer, m *values.Mapping, f Format) error {
	r, ok := renderers[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if m == nil {
		m = values.New()
	}
	if err := r(w, m); err != nil {
		return fmt.Errorf("failed to render %s: %w", f, err)
	}
	return nil
}

func renderJSON(w io.Writer, m *values.Mapping) error {
	compact, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return fmt.Errorf("failed to indent json: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// tomlValue converts v into something go-toml can encode. Null and
// undefined have no TOML form: they are dropped from tables and written as
// empty strings inside arrays. Mappings nested in arrays become inline
// tables.
func tomlValue(v any) (any, bool) {
	switch t := v.(type) {
	case nil, values.UndefinedValue:
		return nil, false
	case *values.Mapping:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, e any) bool {
			if tv, ok := tomlValue(e); ok {
				out[k] = tv
			}
			return true
		})
		return out, true
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			tv, ok := tomlValue(e)
			if !ok {
				tv = ""
			}
			out[i] = tv
		}
		return out, true
	default:
		return v, true
	}
}

// tomlEntry encodes a single key = value line.
func tomlEntry(key string, v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetTablesInline(true)
	if err := enc.Encode(map[string]any{key: v}); err != nil {
		return nil, fmt.Errorf("failed to encode toml key %q: %w", key, err)
	}
	return buf.Bytes(), nil
}

// tomlKey returns key as go-toml writes it, quoted when it is not bare.
func tomlKey(key string) (string, error) {
	line, err := tomlEntry(key, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(line), " = 0\n"), nil
}

// writeTOMLTable writes the scalar keys of m, then each sub-table under its
// own header. Both groups keep insertion order.
func writeTOMLTable(buf *bytes.Buffer, header string, m *values.Mapping) error {
	var tables []string
	var err error
	m.Range(func(k string, v any) bool {
		if _, ok := v.(*values.Mapping); ok {
			tables = append(tables, k)
			return true
		}
		tv, ok := tomlValue(v)
		if !ok {
			return true
		}
		var line []byte
		line, err = tomlEntry(k, tv)
		if err != nil {
			return false
		}
		buf.Write(line)
		return true
	})
	if err != nil {
		return err
	}

	for _, k := range tables {
		v, _ := m.Get(k)
		key, err := tomlKey(k)
		if err != nil {
			return err
		}
		if header != "" {
			key = header + "." + key
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + key + "]\n")
		if err := writeTOMLTable(buf, key, v.(*values.Mapping)); err != nil {
			return err
		}
	}
	return nil
}

func renderTOML(w io.Writer, m *values.Mapping) error {
	var buf bytes.Buffer
	if m != nil {
		if err := writeTOMLTable(&buf, "", m); err != nil {
			return err
		}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write toml: %w", err)
	}
	return nil
}

// flatString renders a value for formats that only hold strings.
func flatString(v any) string {
	return values.Stringify(v)
}

func renderINI(w io.Writer, m *values.Mapping) error {
	cfg := ini.Empty()
	root := cfg.Section("")

	var err error
	m.Range(func(k string, v any) bool {
		switch t := v.(type) {
		case values.UndefinedValue:
			return true
		case *values.Mapping:
			sec, serr := cfg.NewSection(k)
			if serr != nil {
				err = fmt.Errorf("failed to create section %q: %w", k, serr)
				return false
			}
			t.Range(func(sk string, sv any) bool {
				if _, undef := sv.(values.UndefinedValue); undef {
					return true
				}
				if _, kerr := sec.NewKey(sk, flatString(sv)); kerr != nil {
					err = fmt.Errorf("failed to add key %q to section %q: %w", sk, k, kerr)
					return false
				}
				return true
			})
			return err == nil
		default:
			if _, kerr := root.NewKey(k, flatString(v)); kerr != nil {
				err = fmt.Errorf("failed to add key %q: %w", k, kerr)
				return false
			}
			return true
		}
	})
	if err != nil {
		return err
	}

	if _, err := cfg.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write ini: %w", err)
	}
	return nil
}

func renderEnv(w io.Writer, m *values.Mapping) error {
	env := make(map[string]string, m.Len())
	m.Range(func(k string, v any) bool {
		if _, undef := v.(values.UndefinedValue); !undef {
			env[k] = flatString(v)
		}
		return true
	})

	out, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode env: %w", err)
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("failed to write env: %w", err)
	}
	return nil
}

// Row is one line of CSV output.
type Row struct {
	Field string `csv:"field"`
	Value string `csv:"value"`
	Type  string `csv:"type"`
}

// Rows flattens the top level of m into CSV rows.
func Rows(m *values.Mapping) []Row {
	rows := make([]Row, 0, m.Len())
	m.Range(func(k string, v any) bool {
		if _, undef := v.(values.UndefinedValue); undef {
			return true
		}
		rows = append(rows, Row{Field: k, Value: flatString(v), Type: values.TypeName(v)})
		return true
	})
	return rows
}

func renderCSV(w io.Writer, m *values.Mapping) error {
	if err := gocsv.Marshal(Rows(m), w); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	return nil
}

var debugConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func renderDebug(w io.Writer, m *values.Mapping) error {
	debugConfig.Fdump(w, values.Native(m))
	return nil
}
