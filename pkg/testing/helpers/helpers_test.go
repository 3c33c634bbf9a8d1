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

package helpers

import (
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestConfig(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFS()
	cfg := NewTestConfig(t, fs)

	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, TestServer, cfg.CommandSettings().Server)

	exists, err := afero.Exists(fs.Fs, cfg.Path())
	require.NoError(t, err)
	assert.True(t, exists, "config file should exist")
}

func TestCreateConfigFile(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFS()
	require.NoError(t, fs.CreateConfigFile(TestConfigDir+"/"+config.CfgFile, map[string]any{
		"config_schema": config.SchemaVersion,
		"extract":       map[string]any{"fields": "cityId"},
	}))

	cfg := NewTestConfig(t, fs)
	assert.Equal(t, "cityId", cfg.Fields())
}

func TestNewTestPrefs(t *testing.T) {
	t.Parallel()

	store := NewTestPrefs(t)
	require.NoError(t, store.Set("k", "v"))
	v, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
