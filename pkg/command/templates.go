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
	"errors"
	"fmt"
	"strings"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Template is a named preset of target fields.
type Template struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Fields string `json:"fields"`
}

// DefaultTemplate is the template applied when nothing else is chosen.
const DefaultTemplate = "default"

var templates = []Template{
	{Name: DefaultTemplate, Label: "Default fields", Fields: "cityId,shopId,userid"},
	{Name: "common", Label: "Common parameters", Fields: "id,userId,type,status,page,size"},
	{Name: "url", Label: "URL tracking", Fields: "utm_source,utm_medium,utm_campaign,ref,from"},
	{Name: "ecommerce", Label: "E-commerce", Fields: "productId,categoryId,brandId,skuId,price"},
	{Name: "all", Label: "All fields", Fields: extract.AllFields},
}

// Templates returns the presets in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate finds a preset by name, ignoring case.
func LookupTemplate(name string) (Template, error) {
	for _, t := range templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// FieldList returns the template's fields split into a list.
func (t Template) FieldList() []string {
	return extract.ParseFields(t.Fields)
}
