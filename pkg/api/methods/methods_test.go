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

package methods

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/ZaparooProject/zaparoo-extract/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"cityId": 1, "shopId": "s1", "userid": 7}`

func newEnv(t *testing.T, params any) requests.RequestEnv {
	t.Helper()

	var raw json.RawMessage
	if params != nil {
		var err error
		raw, err = json.Marshal(params)
		require.NoError(t, err)
	}

	return requests.RequestEnv{
		Context: context.Background(),
		Config:  helpers.NewTestConfig(t, nil),
		Prefs:   helpers.NewTestPrefs(t),
		Clock:   helpers.NewTestClock(),
		Params:  raw,
	}
}

func TestHandleExtract_Projection(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{
		"text":    sampleJSON,
		"fields":  "userid,cityId,missing",
		"formats": []string{"json"},
	})

	res, err := HandleExtract(env)
	require.NoError(t, err)

	out, ok := res.(models.ExtractResponse)
	require.True(t, ok)
	assert.Equal(t, []string{"userid", "cityId"}, out.Fields.Keys())
	assert.Equal(t, []extract.Format{extract.FormatJSON}, out.Applied)
	v, _ := out.Fields.Get("cityId")
	assert.Equal(t, int64(1), v)
}

func TestHandleExtract_UsesConfigFields(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{"text": sampleJSON, "formats": []string{"json"}})
	env.Config.SetFields("shopId")

	res, err := HandleExtract(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"shopId"}, res.(models.ExtractResponse).Fields.Keys())
}

func TestHandleExtract_SavedPrefsBeatConfig(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{"text": sampleJSON, "formats": []string{"json"}})
	env.Config.SetFields("shopId")

	p := prefs.Defaults()
	p.Fields = "cityId"
	require.NoError(t, prefs.Save(env.Prefs, p, env.Clock))

	res, err := HandleExtract(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"cityId"}, res.(models.ExtractResponse).Fields.Keys())
}

func TestHandleExtract_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		params  any
		name    string
		wantErr error
	}{
		{name: "no params", params: nil, wantErr: validation.ErrMissingParams},
		{name: "empty text", params: map[string]any{"text": ""}},
		{name: "unknown format", params: map[string]any{"text": "a=1", "formats": []string{"xml2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := HandleExtract(newEnv(t, tt.params))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHandleCommand(t *testing.T) {
	t.Parallel()

	server := "10.0.0.2"
	port := 9000
	env := newEnv(t, map[string]any{
		"text":     sampleJSON,
		"template": "default",
		"formats":  []string{"json"},
		"exclude":  []string{"shopId"},
		"settings": map[string]any{"server": server, "port": port},
	})

	res, err := HandleCommand(env)
	require.NoError(t, err)

	out, ok := res.(models.CommandResponse)
	require.True(t, ok)
	assert.Equal(t, []string{"cityId", "userid"}, out.Fields.Keys())
	assert.Equal(t, command.DefaultBase+"10.0.0.2:9000&cityId=1&userid=7"+command.DefaultSuffix, out.Command)
	assert.Empty(t, out.Missing)
	assert.NotNil(t, out.Missing)
}

func TestHandleCommand_MissingSuggestions(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{
		"text":    sampleJSON,
		"fields":  "cityid,userid",
		"formats": []string{"json"},
	})

	res, err := HandleCommand(env)
	require.NoError(t, err)

	out := res.(models.CommandResponse)
	require.Len(t, out.Missing, 1)
	assert.Equal(t, "cityid", out.Missing[0].Field)
	assert.Contains(t, out.Missing[0].DidYouMean, "cityId")
}

func TestHandleCommand_EmptyProjection(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{
		"text":    sampleJSON,
		"fields":  "nothing",
		"formats": []string{"json"},
	})

	res, err := HandleCommand(env)
	require.NoError(t, err)
	assert.Empty(t, res.(models.CommandResponse).Command)
}

func TestHandlePrefs_NoStore(t *testing.T) {
	t.Parallel()

	env := newEnv(t, nil)
	env.Prefs = nil

	_, err := HandlePrefs(env)
	require.ErrorIs(t, err, ErrNoPrefsStore)
}

func TestHandlePrefsUpdate(t *testing.T) {
	t.Parallel()

	env := newEnv(t, map[string]any{
		"fields":  "cityId,shopId",
		"formats": []string{"json", "urlParams"},
		"port":    8090,
	})

	res, err := HandlePrefsUpdate(env)
	require.NoError(t, err)

	out, ok := res.(models.PrefsResponse)
	require.True(t, ok)
	assert.Equal(t, "cityId,shopId", out.Fields)
	assert.Equal(t, []string{"json", "urlParams"}, out.Formats)
	assert.Equal(t, 8090, out.Port)
	assert.Equal(t, command.DefaultBase, out.Base)
	require.NotNil(t, out.UpdatedAt)
	assert.True(t, env.Clock.Now().Equal(*out.UpdatedAt))

	env.Params = nil
	res, err = HandlePrefs(env)
	require.NoError(t, err)
	assert.Equal(t, "cityId,shopId", res.(models.PrefsResponse).Fields)
}

func TestHandlePrefsUpdate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		params any
		name   string
	}{
		{name: "port out of range", params: map[string]any{"port": 70000}},
		{name: "unknown format", params: map[string]any{"formats": []string{"nope"}}},
		{name: "bad server", params: map[string]any{"server": "not a host"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newEnv(t, tt.params)
			_, err := HandlePrefsUpdate(env)
			require.Error(t, err)

			_, saved, err := prefs.UpdatedAt(env.Prefs)
			require.NoError(t, err)
			assert.False(t, saved)
		})
	}
}

func TestHandleFormatsAndTemplates(t *testing.T) {
	t.Parallel()

	res, err := HandleFormats(requests.RequestEnv{})
	require.NoError(t, err)
	assert.Len(t, res.(models.FormatsResponse).Formats, len(extract.Catalog()))

	res, err = HandleTemplates(requests.RequestEnv{})
	require.NoError(t, err)
	assert.Equal(t, command.Templates(), res.(models.TemplatesResponse).Templates)
}

func TestHandleVersion(t *testing.T) {
	t.Parallel()

	res, err := HandleVersion(requests.RequestEnv{})
	require.NoError(t, err)
	assert.Equal(t, config.AppVersion, res.(models.VersionResponse).Version)
}
