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

// Package extract pulls named fields out of semi-structured text. A fixed
// catalog of format probes decides which parsers run, their outputs are
// merged in catalog order and string values holding JSON are decoded in a
// final pass.
package extract

import (
	"errors"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/rs/zerolog/log"
)

var ErrMalformedURI = errors.New("malformed uri sequence")

// Options controls a single extraction.
type Options struct {
	// Formats lists the enabled formats. Order is irrelevant, the catalog
	// order always applies. Nothing enabled means nothing is extracted.
	Formats []Format
	// RepairJSON lets the post-pass repair embedded JSON that fails to
	// decode.
	RepairJSON bool
}

// Result is the outcome of ExtractWith.
type Result struct {
	Fields *values.Mapping `json:"fields"`
	// Detected holds the enabled formats whose probe matched.
	Detected []Format `json:"detected"`
	// Applied holds the formats whose parsers ran: the detected set, or
	// every enabled format when nothing was detected.
	Applied []Format `json:"applied"`
}

// Extract runs the enabled parsers over text and returns the merged fields.
func Extract(text string, enabled []Format) *values.Mapping {
	return ExtractWith(text, Options{Formats: enabled}).Fields
}

// ExtractWith is Extract with options and a report of the formats that were
// detected and applied.
func ExtractWith(text string, opts Options) Result {
	text = normalizeNewlines(text)
	enabled := enabledFormats(opts.Formats)

	detected := detect(text, enabled)
	applied := detected
	if len(applied) == 0 {
		applied = enabled
	}

	fields := values.New()
	for _, f := range applied {
		fields.Merge(runParser(f, text))
	}
	Reconstruct(fields, ReconstructOptions{RepairJSON: opts.RepairJSON})

	return Result{
		Fields:   fields,
		Detected: detected,
		Applied:  applied,
	}
}

// Detect returns the formats from enabled whose probe matches text, in
// catalog order. Pass AllFormats() to probe the whole catalog.
func Detect(text string, enabled []Format) []Format {
	return detect(normalizeNewlines(text), enabledFormats(enabled))
}

func detect(text string, enabled []Format) []Format {
	out := make([]Format, 0, len(enabled))
	for _, f := range enabled {
		d, ok := Lookup(f)
		if ok && d.Detects(text) {
			out = append(out, f)
		}
	}
	return out
}

// enabledFormats returns the known formats in requested, ordered by the
// catalog and without duplicates.
func enabledFormats(requested []Format) []Format {
	want := make(map[Format]bool, len(requested))
	for _, f := range requested {
		if _, ok := Lookup(f); !ok {
			log.Warn().Str("format", string(f)).Msg("ignoring unknown format")
			continue
		}
		want[f] = true
	}

	out := make([]Format, 0, len(want))
	for _, d := range catalog {
		if want[d.Format] {
			out = append(out, d.Format)
		}
	}
	return out
}

func runParser(f Format, text string) *values.Mapping {
	p, ok := parsers[f]
	if !ok {
		return values.New()
	}
	return safeParse(f, p, text)
}

// safeParse isolates a single parser: a panic is logged and the parser
// contributes nothing.
func safeParse(f Format, p Parser, text string) (out *values.Mapping) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("format", string(f)).Interface("panic", r).
				Msg("parser panicked, discarding its fields")
			out = values.New()
		}
	}()

	out = p(text)
	if out == nil {
		out = values.New()
	}
	return out
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
