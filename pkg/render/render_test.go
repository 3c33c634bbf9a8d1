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

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

func sample() *values.Mapping {
	return values.FromPairs(
		"name", "alice",
		"port", int64(8080),
		"ratio", 0.5,
		"debug", true,
		"gone", values.Undefined,
		"server", values.FromPairs("host", "localhost", "tls", false),
	)
}

func render(t *testing.T, m *values.Mapping, f Format) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m, f))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, values.New(), Format("xml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, buf.String())
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	got := render(t, values.FromPairs("b", int64(1), "a", values.FromPairs("c", "<x>")), FormatJSON)
	want := "{\n  \"b\": 1,\n  \"a\": {\n    \"c\": \"<x>\"\n  }\n}\n"
	assert.Equal(t, want, got)

	assert.Equal(t, "{}\n", render(t, nil, FormatJSON))
}

func TestRenderTOML(t *testing.T) {
	t.Parallel()

	m := sample()
	m.Set("nothing", nil)
	out := render(t, m, FormatTOML)

	var got map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "alice", got["name"])
	assert.Equal(t, int64(8080), got["port"])
	assert.InDelta(t, 0.5, got["ratio"], 0.0001)
	assert.Equal(t, true, got["debug"])
	assert.NotContains(t, got, "gone")
	assert.NotContains(t, got, "nothing")

	server, ok := got["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "localhost", server["host"])
	assert.Equal(t, false, server["tls"])
}

func TestRenderTOMLKeepsOrder(t *testing.T) {
	t.Parallel()

	m := values.FromPairs(
		"zeta", int64(1),
		"server", values.FromPairs("port", int64(8080), "host", "x", "tls", values.FromPairs("on", true)),
		"alpha", "a",
		"app.name", "demo",
		"list", []any{values.FromPairs("id", int64(1)), nil},
	)
	out := render(t, m, FormatTOML)

	order := []string{"zeta = ", "alpha = ", "app.name", "list = ", "[server]", "port = ", "host = ", "[server.tls]", "on = "}
	last := -1
	for _, want := range order {
		i := strings.Index(out, want)
		require.GreaterOrEqual(t, i, 0, "missing %q in:\n%s", want, out)
		assert.Greater(t, i, last, "%q out of order in:\n%s", want, out)
		last = i
	}

	var got map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "demo", got["app.name"])
	assert.Equal(t, []any{map[string]any{"id": int64(1)}, ""}, got["list"])
	server := got["server"].(map[string]any)
	assert.Equal(t, map[string]any{"on": true}, server["tls"])

	assert.Empty(t, render(t, nil, FormatTOML))
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	m := sample()
	m.Set("list", []any{int64(1), "two", nil})
	m.Set("numeric", "42")
	out := render(t, m, FormatYAML)

	assert.True(t, strings.HasPrefix(out, "name: alice\nport: 8080\n"), out)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 8080, got["port"])
	assert.Equal(t, "42", got["numeric"], "numeric strings stay strings")
	assert.Equal(t, []any{1, "two", nil}, got["list"])
	assert.NotContains(t, got, "gone")
	assert.Equal(t, map[string]any{"host": "localhost", "tls": false}, got["server"])
}

func TestRenderINI(t *testing.T) {
	t.Parallel()

	out := render(t, sample(), FormatINI)

	cfg, err := ini.Load([]byte(out))
	require.NoError(t, err)

	root := cfg.Section("")
	assert.Equal(t, "alice", root.Key("name").String())
	assert.Equal(t, "8080", root.Key("port").String())
	assert.Equal(t, "true", root.Key("debug").String())
	assert.False(t, root.HasKey("gone"))

	sec, err := cfg.GetSection("server")
	require.NoError(t, err)
	assert.Equal(t, "localhost", sec.Key("host").String())
	assert.Equal(t, "false", sec.Key("tls").String())
}

func TestRenderEnv(t *testing.T) {
	t.Parallel()

	out := render(t, sample(), FormatEnv)

	got, err := godotenv.Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got["name"])
	assert.Equal(t, "8080", got["port"])
	assert.Equal(t, `{"host":"localhost","tls":false}`, got["server"])
	assert.NotContains(t, got, "gone")
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	got := render(t, values.FromPairs("a", int64(1), "b", "x y", "c", values.Undefined), FormatCSV)
	assert.Equal(t, "field,value,type\na,1,integer\nb,x y,string\n", got)
}

func TestRenderDebug(t *testing.T) {
	t.Parallel()

	out := render(t, values.FromPairs("b", int64(2), "a", "x"), FormatDebug)
	assert.Contains(t, out, `(string) (len=1) "a": (string) (len=1) "x"`)
	assert.Contains(t, out, `(string) (len=1) "b": (int64) 2`)
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`), "keys are sorted")
}
