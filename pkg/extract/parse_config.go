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

// iniGlobalSection collects keys that appear before any section header.
const iniGlobalSection = "global"

var (
	tomlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^(\w+)\s*=\s*"([^"]*)"$`),
		regexp.MustCompile(`(?m)^(\w+)\s*=\s*'([^']*)'$`),
		regexp.MustCompile(`(?m)^(\w+)\s*=\s*(-?\d+\.?\d*)$`),
		regexp.MustCompile(`(?m)^(\w+)\s*=\s*(true|false)$`),
	}
	tomlArrayRe = regexp.MustCompile(`(?m)^(\w+)\s*=\s*\[([^\]]*)\]$`)

	yamlQuotedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^(\w+):\s*"([^"]*)"$`),
		regexp.MustCompile(`(?m)^(\w+):\s*'([^']*)'$`),
	}
	yamlBarePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^(\w+):\s*(-?\d+\.?\d*)$`),
		regexp.MustCompile(`(?m)^(\w+):\s*(true|false)$`),
	}
	yamlArrayRe    = regexp.MustCompile(`(?m)^(\w+):\s*\[([^\]]*)\]$`)
	yamlCatchAllRe = regexp.MustCompile(`(?m)^(\w+):[ \t]*([^#\n]*)(?:#[^\n]*)?$`)
	yamlCommentRe  = regexp.MustCompile(`#.*$`)

	hoconPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([\w.]+)\s*[:=]\s*"([^"]*)"`),
		regexp.MustCompile(`([\w.]+)\s*[:=]\s*'([^']*)'`),
		regexp.MustCompile(`([\w.]+)\s*[:=]\s*(-?\d+\.?\d*)`),
		regexp.MustCompile(`([\w.]+)\s*[:=]\s*(true|false)`),
	}
	hoconArrayRe = regexp.MustCompile(`([\w.]+)\s*[:=]\s*\[([^\]]*)\]`)
	hoconBlockRe = regexp.MustCompile(`([\w.]+)\s*\{([^}]*)\}`)

	propertiesLineRe = regexp.MustCompile(`(?m)^"?([\w.]+)"?\s*[=:]\s*(.*)$`)

	iniSectionRe  = regexp.MustCompile(`^\[([^\]]+)\]$`)
	iniKeyValueRe = regexp.MustCompile(`^([^=]+)\s*=\s*(.*)$`)
	iniCommentRe  = regexp.MustCompile(`\s*[;#].*$`)

	envLineRe = regexp.MustCompile(`(?m)^([A-Z_][A-Z0-9_]*)\s*=\s*(.*)$`)

	propertiesUnescaper = strings.NewReplacer(
		`\n`, "\n",
		`\t`, "\t",
		`\:`, ":",
		`\=`, "=",
		`\#`, "#",
		`\!`, "!",
	)
)

// ParseTOML reads flat TOML-like assignments, one per line.
func ParseTOML(text string) *values.Mapping {
	out := values.New()
	for _, re := range tomlPatterns {
		for _, p := range scanPairs(re, text) {
			out.Set(p.key, values.Coerce(p.value))
		}
	}
	for _, p := range scanPairs(tomlArrayRe, text) {
		out.Set(p.key, splitArray(p.value))
	}
	return out
}

// ParseYAML reads flat "key: value" lines. Quoted, numeric, boolean and
// bracketed list values are recognized first; any other bare value only
// fills keys that are still unset. Trailing comments are removed from bare
// values and a value that ends up empty is dropped.
func ParseYAML(text string) *values.Mapping {
	out := values.New()
	set := func(key string, v any) {
		if s, ok := v.(string); ok && s == "" {
			return
		}
		out.Set(key, v)
	}

	for _, re := range yamlQuotedPatterns {
		for _, p := range scanPairs(re, text) {
			set(p.key, values.Coerce(p.value))
		}
	}
	for _, re := range yamlBarePatterns {
		for _, p := range scanPairs(re, text) {
			set(p.key, values.Coerce(stripYAMLComment(p.value)))
		}
	}
	for _, p := range scanPairs(yamlArrayRe, text) {
		out.Set(p.key, splitArray(p.value))
	}
	for _, p := range scanPairs(yamlCatchAllRe, text) {
		if out.Has(p.key) {
			continue
		}
		set(p.key, values.Coerce(stripYAMLComment(p.value)))
	}
	return out
}

func stripYAMLComment(s string) string {
	return strings.TrimSpace(yamlCommentRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ParseHOCON reads simplified HOCON. Dotted keys stay flat. A `key { ... }`
// block becomes a nested mapping whose content is extracted with the
// properties parser only.
func ParseHOCON(text string) *values.Mapping {
	out := values.New()
	for _, re := range hoconPatterns {
		for _, p := range scanPairs(re, text) {
			out.Set(p.key, values.Coerce(p.value))
		}
	}
	for _, p := range scanPairs(hoconArrayRe, text) {
		out.Set(p.key, splitArray(p.value))
	}
	for _, p := range scanPairs(hoconBlockRe, text) {
		block := ExtractWith(p.value, Options{Formats: []Format{FormatProperties}})
		out.Set(p.key, block.Fields)
	}
	return out
}

// ParseProperties reads Java-style properties. Keys may be wrapped in
// double quotes. Values lose trailing comments, escapes and semicolons
// before coercion.
func ParseProperties(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(propertiesLineRe, text) {
		v := stripPropertiesComment(strings.TrimSpace(p.value))
		v = propertiesUnescaper.Replace(v)
		v = strings.ReplaceAll(v, ";", "")
		out.Set(p.key, values.Coerce(v))
	}
	return out
}

// stripPropertiesComment cuts s at the first unescaped '#' or '!', along
// with the whitespace before it.
func stripPropertiesComment(s string) string {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '#' || s[i] == '!':
			return strings.TrimRight(s[:i], " \t\f\v")
		}
	}
	return s
}

// ParseINI reads sectioned INI text. Keys before the first section header
// live at the root; each section becomes a nested mapping.
func ParseINI(text string) *values.Mapping {
	out := values.New()
	var current *values.Mapping

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		if m := iniSectionRe.FindStringSubmatch(line); m != nil {
			section := m[1]
			current = nil
			if section == iniGlobalSection {
				continue
			}
			if existing, ok := out.Get(section); ok {
				if sm, isMap := existing.(*values.Mapping); isMap {
					current = sm
					continue
				}
			}
			current = values.New()
			out.Set(section, current)
			continue
		}

		m := iniKeyValueRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		val := values.Coerce(iniCommentRe.ReplaceAllString(strings.TrimSpace(m[2]), ""))
		if current == nil {
			out.Set(key, val)
		} else {
			current.Set(key, val)
		}
	}
	return out
}

// ParseEnv reads NAME=value environment assignments.
func ParseEnv(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(envLineRe, text) {
		out.Set(p.key, values.Coerce(stripQuotes(strings.TrimSpace(p.value))))
	}
	return out
}
