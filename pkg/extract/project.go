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
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
)

// AllFields is the wildcard field list entry that disables projection.
const AllFields = "all"

// IsWildcard reports whether fields asks for every extracted field.
func IsWildcard(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == AllFields
}

// Project keeps the requested keys of m, in requested order. Keys missing
// from m are left out. The wildcard returns m itself.
func Project(m *values.Mapping, fields []string) *values.Mapping {
	if IsWildcard(fields) {
		return m
	}
	out := values.New()
	for _, f := range fields {
		if out.Has(f) {
			continue
		}
		if v, ok := m.Get(f); ok {
			out.Set(f, v)
		}
	}
	return out
}

// ParseFields splits a comma separated field list, trimming entries and
// dropping empty ones.
func ParseFields(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
