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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
)

var ErrUnknownFormat = errors.New("unknown format")

// Format identifies one supported textual convention.
type Format string

const (
	FormatColonSeparated Format = "colonSeparated"
	FormatJSON           Format = "json"
	FormatKeyValue       Format = "keyValue"
	FormatURLParams      Format = "urlParams"
	FormatSimple         Format = "simple"
	FormatXMLAttributes  Format = "xmlAttributes"
	FormatTOML           Format = "toml"
	FormatYAML           Format = "yaml"
	FormatHOCON          Format = "hocon"
	FormatProperties     Format = "properties"
	FormatINI            Format = "ini"
	FormatCommandLine    Format = "commandLine"
	FormatEnv            Format = "env"
	FormatLineNumbered   Format = "dropLineNumber"
)

// Parser extracts a mapping from text. Parsers never fail: text that does
// not match the format yields an empty mapping.
type Parser func(text string) *values.Mapping

// Descriptor describes one catalog entry.
type Descriptor struct {
	Detector *regexp.Regexp
	Name     string
	Format   Format
}

// Detects reports whether the format is plausibly present in text.
func (d Descriptor) Detects(text string) bool {
	return d.Detector.MatchString(text)
}

// catalog is ordered: detection results and merge precedence follow it.
var catalog = []Descriptor{
	{
		Name:     "Colon separated",
		Format:   FormatColonSeparated,
		Detector: regexp.MustCompile(`(?m)^[^:]+:\s*[^\n]`),
	},
	{
		Name:     "JSON",
		Format:   FormatJSON,
		Detector: regexp.MustCompile(`"\w+"\s*:`),
	},
	{
		Name:     "Key-value pairs",
		Format:   FormatKeyValue,
		Detector: regexp.MustCompile(`\w+\s*[:=]\s*[^=\s]`),
	},
	{
		Name:     "URL parameters",
		Format:   FormatURLParams,
		Detector: regexp.MustCompile(`[?&]\w+=`),
	},
	{
		Name:     "Simple (space separated)",
		Format:   FormatSimple,
		Detector: regexp.MustCompile(`(?m)^\w+\s+[^:=]`),
	},
	{
		Name:     "XML/HTML attributes",
		Format:   FormatXMLAttributes,
		Detector: regexp.MustCompile(`\w+\s*=\s*"`),
	},
	{
		Name:     "TOML",
		Format:   FormatTOML,
		Detector: regexp.MustCompile(`(?m)^\w+\s*=\s*["'\d]`),
	},
	{
		Name:     "YAML",
		Format:   FormatYAML,
		Detector: regexp.MustCompile(`(?m)^\w+:\s*["'\d]`),
	},
	{
		Name:     "HOCON (simplified)",
		Format:   FormatHOCON,
		Detector: regexp.MustCompile(`[\w.]+\s*[:=]\s*["'\d{]`),
	},
	{
		Name:     "Java properties",
		Format:   FormatProperties,
		Detector: regexp.MustCompile(`(?m)^"?[\w.]+"?\s*[=:]`),
	},
	{
		Name:     "INI",
		Format:   FormatINI,
		Detector: regexp.MustCompile(`(?m)^\[[^\]]+\]$`),
	},
	{
		Name:     "Command-line arguments",
		Format:   FormatCommandLine,
		Detector: regexp.MustCompile(`--[\w-]+\s|--[\w-]+=|-[a-zA-Z]\s`),
	},
	{
		Name:     "Environment variables",
		Format:   FormatEnv,
		Detector: regexp.MustCompile(`(?m)^[A-Z_][A-Z0-9_]*\s*=`),
	},
	{
		Name:     "Line-number prefixed",
		Format:   FormatLineNumbered,
		Detector: regexp.MustCompile(`(?m)^\d+\s*`),
	},
}

// parsers is populated in init to break the initialization cycle between
// ParseHOCON and ExtractWith.
var parsers map[Format]Parser

func init() {
	parsers = map[Format]Parser{
		FormatColonSeparated: ParseColonSeparated,
		FormatJSON:           ParseJSON,
		FormatKeyValue:       ParseKeyValue,
		FormatURLParams:      ParseURLParams,
		FormatSimple:         ParseSimple,
		FormatXMLAttributes:  ParseXMLAttributes,
		FormatTOML:           ParseTOML,
		FormatYAML:           ParseYAML,
		FormatHOCON:          ParseHOCON,
		FormatProperties:     ParseProperties,
		FormatINI:            ParseINI,
		FormatCommandLine:    ParseCommandLine,
		FormatEnv:            ParseEnv,
		FormatLineNumbered:   ParseLineNumbered,
	}
}

// Catalog returns a copy of the ordered format catalog.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// AllFormats returns every format identifier in catalog order.
func AllFormats() []Format {
	out := make([]Format, len(catalog))
	for i, d := range catalog {
		out[i] = d.Format
	}
	return out
}

// Lookup returns the catalog entry for f.
func Lookup(f Format) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Format == f {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ParserFor returns the parser registered for f.
func ParserFor(f Format) (Parser, bool) {
	p, ok := parsers[f]
	return p, ok
}

// ParseFormat resolves a format identifier, ignoring case.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	for _, d := range catalog {
		if strings.EqualFold(string(d.Format), s) {
			return d.Format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseFormats resolves a list of identifiers. Empty entries are skipped.
func ParseFormats(ss []string) ([]Format, error) {
	out := make([]Format, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) == "" {
			continue
		}
		f, err := ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
