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
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/rs/zerolog/log"
)

var (
	jsonStringRe = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]*)"`)
	jsonNumberRe = regexp.MustCompile(`"([^"]+)"\s*:\s*(-?\d+\.?\d*)`)
	jsonBoolRe   = regexp.MustCompile(`"([^"]+)"\s*:\s*(true|false)`)
	jsonNullRe   = regexp.MustCompile(`"([^"]+)"\s*:\s*null`)

	jsNumberRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

	kvDoubleQuotedRe = regexp.MustCompile(`(\w+[\w\x{4e00}-\x{9fa5}]*)\s*[:=]\s*"([^"]*)"`)
	kvSingleQuotedRe = regexp.MustCompile(`(\w+[\w\x{4e00}-\x{9fa5}]*)\s*[:=]\s*'([^']*)'`)
	kvUnquoted       = newLazyPattern(
		`(\w+[\w\x{4e00}-\x{9fa5}]*)\s*[:=]\s*([^=\s])`,
		`\s+\w+[:=]`,
	)

	simplePattern = newLazyPattern(
		`(\w+[\w\x{4e00}-\x{9fa5}]*)\s+([^=\s])`,
		`\s+\w+`,
	)

	xmlAttrRe   = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
	colonLineRe = regexp.MustCompile(`([^:\n]+):\s*([^\n]*)`)
	urlParamRe  = regexp.MustCompile(`[?&]([^=]+)=([^&]*)`)
)

// ParseJSON pulls "key": value pairs out of text that looks like JSON
// without requiring the whole document to be valid. Later patterns win for
// a repeated key.
func ParseJSON(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(jsonStringRe, text) {
		out.Set(p.key, jsonLiteral(p.value))
	}
	for _, p := range scanPairs(jsonNumberRe, text) {
		out.Set(p.key, jsonLiteral(p.value))
	}
	for _, p := range scanPairs(jsonBoolRe, text) {
		out.Set(p.key, p.value == "true")
	}
	for _, p := range scanPairs(jsonNullRe, text) {
		out.Set(p.key, nil)
	}
	return out
}

// jsonLiteral classifies a captured JSON value: the literals true, false and
// null, then decimal numbers, then the string itself.
func jsonLiteral(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if jsNumberRe.MatchString(s) {
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// ParseKeyValue reads key=value and key: value pairs with double-quoted,
// single-quoted and bare values, in that order.
func ParseKeyValue(text string) *values.Mapping {
	out := values.New()
	set := func(p pair) {
		key := strings.TrimSpace(p.key)
		if key == "" {
			return
		}
		out.Set(key, values.Coerce(stripQuotes(strings.TrimSpace(p.value))))
	}
	for _, p := range scanPairs(kvDoubleQuotedRe, text) {
		set(p)
	}
	for _, p := range scanPairs(kvSingleQuotedRe, text) {
		set(p)
	}
	for _, p := range kvUnquoted.scan(text) {
		set(p)
	}
	return out
}

// ParseSimple reads whitespace separated key value pairs.
func ParseSimple(text string) *values.Mapping {
	out := values.New()
	for _, p := range simplePattern.scan(text) {
		key := strings.TrimSpace(p.key)
		if key == "" {
			continue
		}
		out.Set(key, values.Coerce(p.value))
	}
	return out
}

// ParseXMLAttributes reads name="value" attribute pairs.
func ParseXMLAttributes(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(xmlAttrRe, text) {
		out.Set(p.key, values.Coerce(p.value))
	}
	return out
}

// ParseColonSeparated reads "key: value" pairs, one per line. Pairs with an
// empty key or value are skipped.
func ParseColonSeparated(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(colonLineRe, text) {
		key := strings.TrimSpace(p.key)
		val := strings.TrimSpace(p.value)
		if key == "" || val == "" {
			continue
		}
		out.Set(key, values.Coerce(val))
	}
	return out
}

// ParseURLParams reads ?key=value and &key=value pairs, percent-decoding
// both sides. A pair that fails to decode is skipped.
func ParseURLParams(text string) *values.Mapping {
	out := values.New()
	for _, p := range scanPairs(urlParamRe, text) {
		key, err := decodeURIComponent(p.key)
		if err != nil {
			log.Debug().Err(err).Str("key", p.key).Msg("skipping undecodable url parameter")
			continue
		}
		val, err := decodeURIComponent(p.value)
		if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("skipping undecodable url parameter")
			continue
		}
		out.Set(key, values.Coerce(val))
	}
	return out
}

// decodeURIComponent percent-decodes s without treating '+' as a space and
// rejects sequences that do not decode to valid UTF-8.
func decodeURIComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("failed to unescape %q: %w", s, err)
	}
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("%w: %q", ErrMalformedURI, s)
	}
	return decoded, nil
}
