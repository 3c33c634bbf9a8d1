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

package models

import (
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract/values"
)

type FormatInfo struct {
	ID   extract.Format `json:"id"`
	Name string         `json:"name"`
}

type FormatsResponse struct {
	Formats []FormatInfo `json:"formats"`
}

type ExtractResponse struct {
	Fields   *values.Mapping  `json:"fields"`
	Detected []extract.Format `json:"detected"`
	Applied  []extract.Format `json:"applied"`
}

type CommandResponse struct {
	Fields  *values.Mapping      `json:"fields"`
	Command string               `json:"command"`
	Missing []command.Suggestion `json:"missing"`
}

type PrefsResponse struct {
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Fields    string     `json:"fields"`
	Base      string     `json:"base"`
	Server    string     `json:"server"`
	Suffix    string     `json:"suffix"`
	Formats   []string   `json:"formats"`
	Port      int        `json:"port"`
}

type TemplatesResponse struct {
	Templates []command.Template `json:"templates"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
