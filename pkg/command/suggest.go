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

package command

import (
	"sort"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// MinSimilarity is the Jaro-Winkler score a key needs to be suggested.
	MinSimilarity float32 = 0.8
	// MaxSuggestions caps the suggestions per missing field.
	MaxSuggestions = 3
)

// Suggestion names a requested field that was not extracted along with the
// extracted keys that look most like it.
type Suggestion struct {
	Field      string   `json:"field"`
	DidYouMean []string `json:"didYouMean"`
}

// Missing reports every requested field absent from m. The wildcard
// request never has missing fields.
func Missing(fields []string, m *values.Mapping) []Suggestion {
	if extract.IsWildcard(fields) {
		return nil
	}

	keys := m.Keys()
	var out []Suggestion
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] || m.Has(f) {
			continue
		}
		seen[f] = true

		matches := findFuzzyMatches(f, keys, MinSimilarity)
		matches = applyDamerauLevenshteinTieBreaker(f, matches, MaxSuggestions*2)
		if len(matches) > MaxSuggestions {
			matches = matches[:MaxSuggestions]
		}

		names := make([]string, len(matches))
		for i, mt := range matches {
			names[i] = mt.key
		}
		out = append(out, Suggestion{Field: f, DidYouMean: names})
	}
	return out
}

type fuzzyMatch struct {
	key        string
	similarity float32
}

// findFuzzyMatches scores candidates with case-insensitive Jaro-Winkler
// similarity, best first.
func findFuzzyMatches(query string, candidates []string, minSimilarity float32) []fuzzyMatch {
	q := strings.ToLower(query)
	var matches []fuzzyMatch
	for _, c := range candidates {
		similarity := edlib.JaroWinklerSimilarity(q, strings.ToLower(c))
		if similarity < minSimilarity {
			continue
		}
		log.Debug().
			Str("field", query).
			Str("candidate", c).
			Float32("similarity", similarity).
			Msg("field suggestion candidate")
		matches = append(matches, fuzzyMatch{key: c, similarity: similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	return matches
}

// applyDamerauLevenshteinTieBreaker re-ranks the top candidates by edit
// distance so transpositions like "cityID" vs "cityDi" sort sensibly.
// Equal distances keep their similarity order.
func applyDamerauLevenshteinTieBreaker(query string, matches []fuzzyMatch, topN int) []fuzzyMatch {
	if len(matches) < 2 {
		return matches
	}
	candidates := matches
	if topN > 0 && len(matches) > topN {
		candidates = matches[:topN]
	}

	type scored struct {
		match    fuzzyMatch
		distance int
	}
	q := strings.ToLower(query)
	ss := make([]scored, len(candidates))
	for i, c := range candidates {
		ss[i] = scored{match: c, distance: edlib.DamerauLevenshteinDistance(q, strings.ToLower(c.key))}
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].distance < ss[j].distance
	})

	out := make([]fuzzyMatch, len(ss))
	for i, s := range ss {
		out[i] = s.match
	}
	return out
}
