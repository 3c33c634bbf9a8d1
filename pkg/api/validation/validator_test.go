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

package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtractFormat(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Formats []string `validate:"dive,extractformat"`
	}

	tests := []struct {
		name      string
		formats   []string
		wantError bool
	}{
		{name: "empty list", formats: nil},
		{name: "known ids", formats: []string{"json", "toml", "dropLineNumber"}},
		{name: "case insensitive", formats: []string{"JSON", "KeyValue"}},
		{name: "unknown id", formats: []string{"json", "xml"}, wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&testStruct{Formats: tt.formats})
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), `format "xml" not found`)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Template string `validate:"template"`
	}

	v := NewValidator()
	require.NoError(t, v.Validate(&testStruct{}))
	require.NoError(t, v.Validate(&testStruct{Template: "ecommerce"}))
	require.NoError(t, v.Validate(&testStruct{Template: "URL"}))

	err := v.Validate(&testStruct{Template: "games"})
	require.Error(t, err)
	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "template", ve.Fields[0].Tag)
	assert.Equal(t, `template "games" not found`, ve.Error())
}

func TestValidateAndUnmarshal(t *testing.T) {
	t.Parallel()

	type params struct {
		Text string `json:"text" validate:"required"`
		Port int    `json:"port" validate:"omitempty,min=1,max=65535"`
	}

	tests := []struct {
		wantErr  error
		name     string
		raw      string
		contains string
	}{
		{name: "missing", raw: "", wantErr: ErrMissingParams},
		{name: "not an object", raw: `"text"`, wantErr: ErrInvalidParams},
		{name: "required", raw: `{"port":80}`, contains: "text is required"},
		{name: "max", raw: `{"text":"a","port":70000}`, contains: "port must be at most 65535"},
		{name: "valid", raw: `{"text":"a","port":80}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p params
			err := ValidateAndUnmarshal(json.RawMessage(tt.raw), &p)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.contains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.contains)
			default:
				require.NoError(t, err)
				assert.Equal(t, "a", p.Text)
			}
		})
	}
}
