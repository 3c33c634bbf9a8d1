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

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
)

var (
	cmdlinePatterns = []lazyPattern{
		newLazyPattern(`--([\w-]+)\s+([^-\s])`, `\s+--`),
		newLazyPattern(`--([\w-]+)=([^=\s])`, `\s`),
		newLazyPattern(`-([a-zA-Z])\s+([^-\s])`, `\s+-`),
	}

	longFlagRe  = regexp.MustCompile(`^--([\w-]+)`)
	shortFlagRe = regexp.MustCompile(`^-([a-zA-Z])`)
)

// ParseCommandLine reads --key value, --key=value and -k value arguments,
// then marks every standalone --flag or -f as true. The flag pass runs last
// and overwrites earlier values for the same name.
func ParseCommandLine(text string) *values.Mapping {
	out := values.New()
	for _, lp := range cmdlinePatterns {
		for _, p := range lp.scan(text) {
			out.Set(p.key, values.Coerce(stripQuotes(p.value)))
		}
	}
	for _, name := range scanFlags(text) {
		out.Set(name, true)
	}
	return out
}

// scanFlags returns the names of flags that are followed by whitespace or
// the end of the text.
func scanFlags(text string) []string {
	var names []string
	for pos := 0; pos < len(text); {
		if text[pos] != '-' {
			pos++
			continue
		}
		rest := text[pos:]
		if m := longFlagRe.FindStringSubmatch(rest); m != nil && flagEnds(text, pos+len(m[0])) {
			names = append(names, m[1])
			pos += len(m[0])
			continue
		}
		if m := shortFlagRe.FindStringSubmatch(rest); m != nil && flagEnds(text, pos+len(m[0])) {
			names = append(names, m[1])
			pos += len(m[0])
			continue
		}
		pos++
	}
	return names
}

func flagEnds(text string, end int) bool {
	return end == len(text) || isSpace(text[end])
}
