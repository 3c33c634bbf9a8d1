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
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	got := ParseJSON(`{"name": "bob", "age": 30, "ok": true, "none": null, "score": "12", "t": -5}`)

	assert.Equal(t, map[string]any{
		"name":  "bob",
		"score": int64(12),
		"age":   int64(30),
		"t":     int64(-5),
		"ok":    true,
		"none":  nil,
	}, got.Native())
	assert.Equal(t, []string{"name", "score", "age", "t", "ok", "none"}, got.Keys())
}

func TestJSONLiteral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, true, jsonLiteral("true"))
	assert.Nil(t, jsonLiteral("null"))
	assert.Equal(t, int64(7), jsonLiteral("7"))
	assert.InDelta(t, 1.5, jsonLiteral("1.5"), 0)
	assert.InDelta(t, 1000.0, jsonLiteral("1e3"), 0)
	assert.Equal(t, "abc", jsonLiteral("abc"))
	assert.Equal(t, " ", jsonLiteral(" "))
}

func TestParseKeyValue(t *testing.T) {
	t.Parallel()

	got := ParseKeyValue(`name="John Smith" age=30 city='NYC' active=true`)

	assert.Equal(t, map[string]any{
		"name":   "John Smith",
		"city":   "NYC",
		"age":    int64(30),
		"active": true,
	}, got.Native())
	assert.Equal(t, []string{"name", "city", "age", "active"}, got.Keys())
}

func TestParseKeyValueLazyValueRunsToEnd(t *testing.T) {
	t.Parallel()

	got := ParseKeyValue(`payload={"a":[1,2]}`)

	v, ok := got.Get("payload")
	require.True(t, ok)
	m, ok := v.(*values.Mapping)
	require.True(t, ok, "expected decoded object, got %T", v)
	assert.Equal(t, map[string]any{"a": []any{int64(1), int64(2)}}, m.Native())
}

func TestParseKeyValueLoneQuote(t *testing.T) {
	t.Parallel()

	got := ParseKeyValue(`a="`)
	assert.Equal(t, map[string]any{"a": ""}, got.Native())
}

func TestNumberPatternsAcceptSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parse Parser
		name  string
		in    string
	}{
		{name: "json", parse: ParseJSON, in: `{"n": -3}`},
		{name: "toml", parse: ParseTOML, in: "n = -3"},
		{name: "yaml", parse: ParseYAML, in: "n: -3"},
		{name: "hocon", parse: ParseHOCON, in: "n = -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, ok := tt.parse(tt.in).Get("n")
			require.True(t, ok)
			assert.Equal(t, int64(-3), v)
		})
	}
}

func TestParseHOCONSignedValueAcrossNewline(t *testing.T) {
	t.Parallel()

	v, ok := ParseHOCON("E4:\n-3:{}").Get("E4")
	require.True(t, ok)
	assert.Equal(t, int64(-3), v)
}

func TestParseSimple(t *testing.T) {
	t.Parallel()

	got := ParseSimple("host localhost\nport 8080")
	assert.Equal(t, map[string]any{"host": "localhost", "port": int64(8080)}, got.Native())
}

func TestParseXMLAttributes(t *testing.T) {
	t.Parallel()

	got := ParseXMLAttributes(`<item id="42" name="widget" enabled="true"/>`)
	assert.Equal(t, map[string]any{"id": int64(42), "name": "widget", "enabled": true}, got.Native())
}

func TestParseColonSeparated(t *testing.T) {
	t.Parallel()

	got := ParseColonSeparated("Name: Alice\nAge: 30\nEmpty:")
	assert.Equal(t, map[string]any{"Name": "Alice", "Age": int64(30)}, got.Native())
}

func TestParseURLParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want map[string]any
		name string
		in   string
	}{
		{
			name: "percent decoding",
			in:   "?cityId=1&name=%E4%BD%A0",
			want: map[string]any{"cityId": int64(1), "name": "你"},
		},
		{
			name: "plus is not a space",
			in:   "https://example.com/p?q=a+b",
			want: map[string]any{"q": "a+b"},
		},
		{
			name: "undecodable pairs skipped",
			in:   "?a=%E4&b=2&c=%zz",
			want: map[string]any{"b": int64(2)},
		},
		{
			name: "no query",
			in:   "just text",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseURLParams(tt.in).Native())
		})
	}
}

func TestParseTOML(t *testing.T) {
	t.Parallel()

	got := ParseTOML("title = \"demo\"\nport = 8080\nratio = 0.5\ndebug = true\n" +
		"name = 'x'\ntags = [\"a\", \"b\"]\nempty = []")

	assert.Equal(t, map[string]any{
		"title": "demo",
		"name":  "x",
		"port":  int64(8080),
		"ratio": 0.5,
		"debug": true,
		"tags":  []any{"a", "b"},
		"empty": []any{},
	}, got.Native())
	assert.Equal(t, []string{"title", "name", "port", "ratio", "debug", "tags", "empty"}, got.Keys())
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	got := ParseYAML("name: demo\nport: 8080\nquoted: \"a # b\"\nlist: [1, 2]\n" +
		"comment: value # note\nsingle: 'x'\nnothing: \"\"")

	assert.Equal(t, map[string]any{
		"quoted":  "a # b",
		"single":  "x",
		"port":    int64(8080),
		"list":    []any{int64(1), int64(2)},
		"name":    "demo",
		"comment": "value",
	}, got.Native())
}

func TestParseYAMLBareValueDoesNotOverrideList(t *testing.T) {
	t.Parallel()

	got := ParseYAML("tags: [a, b]")
	assert.Equal(t, map[string]any{"tags": []any{"a", "b"}}, got.Native())
}

func TestParseHOCON(t *testing.T) {
	t.Parallel()

	got := ParseHOCON("app.name = \"demo\"\nserver {\nhost = localhost\nport = 8080\n}")

	assert.Equal(t, map[string]any{
		"app.name": "demo",
		"port":     int64(8080),
		"server":   map[string]any{"host": "localhost", "port": int64(8080)},
	}, got.Native())
	assert.Equal(t, []string{"app.name", "port", "server"}, got.Keys())
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	got := ParseProperties("a = x\\#y # comment\nb : hello ! note\nc=line\\nbreak")
	assert.Equal(t, map[string]any{"a": "x#y", "b": "hello", "c": "line\nbreak"}, got.Native())
}

func TestParsePropertiesQuotedKeysAndSemicolons(t *testing.T) {
	t.Parallel()

	got := ParseProperties("cityId = 1;\nenv = test;\n\"retry_count\" = 0;\n\"bundle_version\" = \"\";")

	assert.Equal(t, map[string]any{
		"cityId":         int64(1),
		"env":            "test",
		"retry_count":    int64(0),
		"bundle_version": "",
	}, got.Native())
	assert.Equal(t, []string{"cityId", "env", "retry_count", "bundle_version"}, got.Keys())
}

func TestParseINI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want     map[string]any
		name     string
		in       string
		wantKeys []string
	}{
		{
			name:     "single section",
			in:       "[server]\nport=8081",
			want:     map[string]any{"server": map[string]any{"port": int64(8081)}},
			wantKeys: []string{"server"},
		},
		{
			name: "root keys comments and global",
			in: "top=1\n; comment\n[server]\nhost = example.com ; trailing\nport=8081\n" +
				"[global]\nlate=yes",
			want: map[string]any{
				"top":    int64(1),
				"server": map[string]any{"host": "example.com", "port": int64(8081)},
				"late":   "yes",
			},
			wantKeys: []string{"top", "server", "late"},
		},
		{
			name:     "section replaces colliding root scalar",
			in:       "server=x\n[server]\nport=1",
			want:     map[string]any{"server": map[string]any{"port": int64(1)}},
			wantKeys: []string{"server"},
		},
		{
			name: "repeated section reuses mapping",
			in:   "[a]\nx=1\n[b]\ny=2\n[a]\nz=3",
			want: map[string]any{
				"a": map[string]any{"x": int64(1), "z": int64(3)},
				"b": map[string]any{"y": int64(2)},
			},
			wantKeys: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseINI(tt.in)
			assert.Equal(t, tt.want, got.Native())
			assert.Equal(t, tt.wantKeys, got.Keys())
		})
	}
}

func TestParseCommandLine(t *testing.T) {
	t.Parallel()

	t.Run("flag pass overwrites values", func(t *testing.T) {
		t.Parallel()
		got := ParseCommandLine("--name alice --port=8080 -v -x 5 --dry-run")
		assert.Equal(t, map[string]any{
			"name":    true,
			"port":    int64(8080),
			"x":       true,
			"v":       true,
			"dry-run": true,
		}, got.Native())
		assert.Equal(t, []string{"name", "port", "x", "v", "dry-run"}, got.Keys())
	})

	t.Run("equals form", func(t *testing.T) {
		t.Parallel()
		got := ParseCommandLine(`--mode=fast --label="big box"`)
		assert.Equal(t, map[string]any{"mode": "fast", "label": `big`}, got.Native())
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, ParseCommandLine("plain words only").Len())
	})
}

func TestParseEnv(t *testing.T) {
	t.Parallel()

	got := ParseEnv("API_KEY=\"secret\"\nDEBUG=true\nlower=1\nPORT = 8080")
	assert.Equal(t, map[string]any{"API_KEY": "secret", "DEBUG": true, "PORT": int64(8080)}, got.Native())
}

func TestParseLineNumbered(t *testing.T) {
	t.Parallel()

	text := `1 {
2   "val_lab": {
3     "cityId": 12,
4     "tags": [
5       "a",
6       "b"
7     ],
8     "meta": {"k": 1},
9     "name": "x"
10  }
11 }`

	got := ParseLineNumbered(text)
	assert.Equal(t, map[string]any{
		"cityId": int64(12),
		"tags":   []any{"a", "b"},
		"meta":   map[string]any{"k": int64(1)},
		"name":   "x",
	}, got.Native())
	assert.Equal(t, []string{"cityId", "tags", "meta", "name"}, got.Keys())
}

func TestParseLineNumberedNested(t *testing.T) {
	t.Parallel()

	text := "1 \"outer\": {\n2   \"inner\": 1,\n3   \"deeper\": {\n4     \"x\": true\n5   }\n6 },\n7 \"after\": \"done\""

	got := ParseLineNumbered(text)
	assert.Equal(t, map[string]any{
		"outer": map[string]any{
			"inner":  int64(1),
			"deeper": map[string]any{"x": true},
		},
		"after": "done",
	}, got.Native())
}

func TestParseLineNumberedArrays(t *testing.T) {
	t.Parallel()

	t.Run("undecodable array keeps text", func(t *testing.T) {
		t.Parallel()
		got := ParseLineNumbered("\"list\": [\n  nope,\n]")
		assert.Equal(t, map[string]any{"list": []any{"nope,\n]"}}, got.Native())
	})

	t.Run("unterminated array is empty", func(t *testing.T) {
		t.Parallel()
		got := ParseLineNumbered("\"list\": [\n\"a\",")
		assert.Equal(t, map[string]any{"list": []any{}}, got.Native())
	})

	t.Run("brackets inside strings", func(t *testing.T) {
		t.Parallel()
		got := ParseLineNumbered("\"list\": [\n\"]\",\n\"[\"\n],\n\"k\": 1")
		assert.Equal(t, map[string]any{"list": []any{"]", "["}, "k": int64(1)}, got.Native())
	})

	t.Run("multi-line inline object", func(t *testing.T) {
		t.Parallel()
		got := ParseLineNumbered("\"obj\": {\"a\": [1,\n\"x\"]},\n\"k\": 2")
		assert.Equal(t, map[string]any{
			"obj": map[string]any{"a": []any{int64(1), "x"}},
			"k":   int64(2),
		}, got.Native())
	})
}

func TestScanFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "long-name", "z"}, scanFlags("-a --long-name --x=1 -z"))
	assert.Empty(t, scanFlags("--"))
	assert.Empty(t, scanFlags("-ab"))
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", stripQuotes(`"abc"`))
	assert.Equal(t, "abc", stripQuotes(`'abc"`))
	assert.Empty(t, stripQuotes(`'`))
	assert.Empty(t, stripQuotes(`""`))
	assert.Equal(t, "a", stripQuotes("a"))
}

func TestNestingDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, nestingDelta(`{"a": [`))
	assert.Equal(t, 0, nestingDelta(`"{[\"]"`))
	assert.Equal(t, -1, nestingDelta(`],`))
}
