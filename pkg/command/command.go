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

// Package command turns extracted fields into a launch command string.
package command

import (
	"strconv"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers"
)

const (
	DefaultBase   = `hdc shell "aa start -U 'protocol://www.hostname.com/?server=http://`
	DefaultSuffix = `'"`
	DefaultPort   = 8081
	// FallbackServer is used when no private address can be found.
	FallbackServer = "127.0.0.1"
)

// Settings are the parts of the command that surround the fields.
type Settings struct {
	Base   string `json:"base" mapstructure:"base"`
	Server string `json:"server" mapstructure:"server"`
	Suffix string `json:"suffix" mapstructure:"suffix"`
	Port   int    `json:"port" mapstructure:"port" validate:"min=0,max=65535"`
}

// DefaultSettings returns the stock settings with the server set to this
// machine's private IPv4 address.
func DefaultSettings() Settings {
	return Settings{
		Base:   DefaultBase,
		Server: DefaultServer(),
		Suffix: DefaultSuffix,
		Port:   DefaultPort,
	}
}

// DefaultServer returns the first private IPv4 address of this machine, or
// FallbackServer.
func DefaultServer() string {
	if ip := helpers.GetLocalIP(); ip != "" {
		return ip
	}
	return FallbackServer
}

// WithDefaults fills empty fields of s from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	if s.Base == "" {
		s.Base = DefaultBase
	}
	if s.Server == "" {
		s.Server = DefaultServer()
	}
	if s.Suffix == "" {
		s.Suffix = DefaultSuffix
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}

// Build assembles base + server:port + "&" + k=v pairs + suffix. Values are
// rendered with values.Stringify and are not escaped. An empty mapping
// yields an empty command.
func Build(s Settings, fields *values.Mapping) string {
	if fields.Len() == 0 {
		return ""
	}

	pairs := make([]string, 0, fields.Len())
	fields.Range(func(k string, v any) bool {
		pairs = append(pairs, k+"="+values.Stringify(v))
		return true
	})

	var sb strings.Builder
	sb.WriteString(s.Base)
	sb.WriteString(s.Server)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.Port))
	sb.WriteByte('&')
	sb.WriteString(strings.Join(pairs, "&"))
	sb.WriteString(s.Suffix)
	return sb.String()
}

// Exclude returns a copy of m without the given keys.
func Exclude(m *values.Mapping, keys []string) *values.Mapping {
	out := values.New()
	if len(keys) == 0 {
		out.Merge(m)
		return out
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[strings.TrimSpace(k)] = struct{}{}
	}
	m.Range(func(k string, v any) bool {
		if _, ok := drop[k]; !ok {
			out.Set(k, v)
		}
		return true
	})
	return out
}
