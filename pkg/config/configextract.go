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

package config

import (
	"slices"

	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/rs/zerolog/log"
)

type Extract struct {
	Formats    []string `toml:"formats"`
	Fields     string   `toml:"fields"`
	RepairJSON bool     `toml:"repair_json"`
}

type Command struct {
	Base   string `toml:"base"`
	Server string `toml:"server"`
	Suffix string `toml:"suffix"`
	Port   int    `toml:"port"`
}

func defaultExtract() Extract {
	return Extract{
		Formats: []string{},
		Fields:  extract.AllFields,
	}
}

func defaultCommand() Command {
	return Command{
		Base:   command.DefaultBase,
		Suffix: command.DefaultSuffix,
		Port:   command.DefaultPort,
	}
}

// ExtractFormats returns the configured formats. An empty list enables the
// whole catalog. Unknown ids are logged and skipped.
func (c *Instance) ExtractFormats() []extract.Format {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.vals.Extract.Formats) == 0 {
		return extract.AllFormats()
	}
	fs := make([]extract.Format, 0, len(c.vals.Extract.Formats))
	for _, id := range c.vals.Extract.Formats {
		f, err := extract.ParseFormat(id)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring unknown format in config")
			continue
		}
		fs = append(fs, f)
	}
	return fs
}

func (c *Instance) FormatIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Extract.Formats)
}

func (c *Instance) SetFormats(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Extract.Formats = slices.Clone(ids)
}

func (c *Instance) Fields() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Extract.Fields == "" {
		return extract.AllFields
	}
	return c.vals.Extract.Fields
}

func (c *Instance) SetFields(fields string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Extract.Fields = fields
}

func (c *Instance) RepairJSON() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Extract.RepairJSON
}

func (c *Instance) SetRepairJSON(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Extract.RepairJSON = enabled
}

// CommandSettings returns the command builder settings, with an empty
// server resolved to the local IP.
func (c *Instance) CommandSettings() command.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return command.Settings{
		Base:   c.vals.Command.Base,
		Server: c.vals.Command.Server,
		Port:   c.vals.Command.Port,
		Suffix: c.vals.Command.Suffix,
	}.WithDefaults()
}

func (c *Instance) SetCommandSettings(s command.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Command = Command{
		Base:   s.Base,
		Server: s.Server,
		Port:   s.Port,
		Suffix: s.Suffix,
	}
}
