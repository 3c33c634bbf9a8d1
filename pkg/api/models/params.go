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

// MaxTextSize is the largest text accepted by the extraction methods.
const MaxTextSize = 1 << 20

type ExtractParams struct {
	RepairJSON *bool    `json:"repairJson"`
	Text       string   `json:"text" validate:"required,max=1048576"`
	Fields     string   `json:"fields"`
	Formats    []string `json:"formats" validate:"omitempty,dive,extractformat"`
}

type CommandSettingsParams struct {
	Base   *string `json:"base"`
	Server *string `json:"server" validate:"omitempty,hostname|ip"`
	Suffix *string `json:"suffix"`
	Port   *int    `json:"port" validate:"omitempty,min=1,max=65535"`
}

type CommandParams struct {
	Settings *CommandSettingsParams `json:"settings"`
	Text     string                 `json:"text" validate:"required,max=1048576"`
	Fields   string                 `json:"fields"`
	Template string                 `json:"template" validate:"omitempty,template"`
	Formats  []string               `json:"formats" validate:"omitempty,dive,extractformat"`
	Exclude  []string               `json:"exclude"`
}

type UpdatePrefsParams struct {
	Fields  *string   `json:"fields" validate:"omitempty,min=1"`
	Base    *string   `json:"base"`
	Server  *string   `json:"server" validate:"omitempty,hostname|ip"`
	Suffix  *string   `json:"suffix"`
	Formats *[]string `json:"formats" validate:"omitempty,dive,extractformat"`
	Port    *int      `json:"port" validate:"omitempty,min=1,max=65535"`
}
