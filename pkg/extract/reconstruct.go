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
	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
)

// MaxDepth bounds how deep the reconstructor walks nested values and how
// deep the line scanner recurses into multi-line objects.
const MaxDepth = 64

// lineNumberMarker is removed once from line-numbered text before scanning.
const lineNumberMarker = `"val_lab":`

var (
	lineNumberRe = regexp.MustCompile(`^\s*\d+\s*`)
	jsonKeyLine  = regexp.MustCompile(`^"([^"]+)"\s*:\s*(.*)$`)
)

// ReconstructOptions tunes the post-pass.
type ReconstructOptions struct {
	// RepairJSON retries a failed decode after running the text through
	// jsonrepair.
	RepairJSON bool
}

// Reconstruct replaces string values holding a complete JSON object or
// array with the decoded structure, walking nested mappings and sequences.
// Values that fail to decode are kept as strings. m is modified in place.
func Reconstruct(m *values.Mapping, opts ReconstructOptions) {
	reconstructMapping(m, opts, 0)
}

func reconstructMapping(m *values.Mapping, opts ReconstructOptions, depth int) {
	if m == nil || depth > MaxDepth {
		return
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		m.Set(k, reconstructValue(v, opts, depth))
	}
}

func reconstructValue(v any, opts ReconstructOptions, depth int) any {
	switch t := v.(type) {
	case string:
		if !values.LooksLikeJSONContainer(t) {
			return t
		}
		if decoded, ok := decodeEmbedded(t, opts); ok {
			return decoded
		}
		return t
	case *values.Mapping:
		reconstructMapping(t, opts, depth+1)
		return t
	case []any:
		if depth >= MaxDepth {
			return t
		}
		for i := range t {
			t[i] = reconstructValue(t[i], opts, depth+1)
		}
		return t
	default:
		return v
	}
}

func decodeEmbedded(s string, opts ReconstructOptions) (any, bool) {
	v, err := values.DecodeJSON(s)
	if err == nil {
		return v, true
	}
	if !opts.RepairJSON {
		log.Debug().Err(err).Msg("embedded json did not decode, keeping text")
		return nil, false
	}

	repaired, rerr := jsonrepair.JSONRepair(s)
	if rerr != nil {
		log.Debug().Err(rerr).Msg("embedded json could not be repaired, keeping text")
		return nil, false
	}
	v, err = values.DecodeJSON(repaired)
	if err != nil {
		log.Debug().Err(err).Msg("repaired json did not decode, keeping text")
		return nil, false
	}
	return v, true
}

// ParseLineNumbered reads JSON that was copied out of a viewer with line
// numbers in front of every line.
func ParseLineNumbered(text string) *values.Mapping {
	text = strings.Replace(text, lineNumberMarker, "", 1)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = lineNumberRe.ReplaceAllString(l, "")
	}

	c := &lineCursor{lines: lines}
	out := values.New()
	for !c.done() {
		line := c.next()
		switch line {
		case "", "{", "}", "},":
			continue
		}
		c.parseEntry(out, line, 0)
	}
	return out
}

// lineCursor walks JSON-ish text one trimmed line at a time. Nested object
// and array readers leave it positioned after their closing line.
type lineCursor struct {
	lines []string
	pos   int
}

func (c *lineCursor) done() bool {
	return c.pos >= len(c.lines)
}

func (c *lineCursor) next() string {
	line := strings.TrimSpace(c.lines[c.pos])
	c.pos++
	return line
}

func (c *lineCursor) parseEntry(into *values.Mapping, line string, depth int) {
	m := jsonKeyLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	into.Set(m[1], c.parseValue(strings.TrimSpace(m[2]), depth))
}

// parseValue reads the value part of a key line. value still carries its
// trailing comma, which an unbalanced inline value needs.
func (c *lineCursor) parseValue(value string, depth int) any {
	raw := strings.TrimSuffix(value, ",")
	switch {
	case raw == "{" || raw == "[":
		if depth >= MaxDepth {
			return c.collectBalanced(raw)
		}
		if raw == "{" {
			return c.parseObjectLines(depth + 1)
		}
		return c.parseArrayLines()
	case strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "["):
		text := c.collectBalanced(value)
		v, err := values.DecodeJSON(text)
		if err != nil {
			log.Debug().Err(err).Msg("inline json value did not decode, keeping text")
			return text
		}
		return v
	default:
		return values.Coerce(raw)
	}
}

// parseObjectLines reads key lines until a closing "}" or "}," line.
func (c *lineCursor) parseObjectLines(depth int) *values.Mapping {
	out := values.New()
	for !c.done() {
		line := c.next()
		switch line {
		case "":
			continue
		case "}", "},":
			return out
		}
		c.parseEntry(out, line, depth)
	}
	return out
}

// parseArrayLines accumulates lines until the opening bracket is balanced
// and decodes the result. A body that does not decode yields a single
// element holding the text; an unterminated array yields an empty sequence.
func (c *lineCursor) parseArrayLines() []any {
	var body []string
	depth := 1
	for !c.done() {
		line := c.next()
		if line == "" {
			continue
		}
		body = append(body, line)
		depth += nestingDelta(line)
		if depth > 0 {
			continue
		}

		joined := strings.Join(body, "\n")
		v, err := values.DecodeJSON(strings.TrimSuffix("["+joined, ","))
		if err == nil {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
		log.Debug().Err(err).Msg("multi-line array did not decode, keeping text")
		return []any{joined}
	}
	return []any{}
}

// collectBalanced returns first joined with as many following lines as it
// takes to close every brace and bracket it opens, minus a trailing comma.
func (c *lineCursor) collectBalanced(first string) string {
	parts := []string{first}
	depth := nestingDelta(first)
	for depth > 0 && !c.done() {
		line := c.next()
		parts = append(parts, line)
		depth += nestingDelta(line)
	}
	return strings.TrimSuffix(strings.Join(parts, "\n"), ",")
}
