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
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigDir = "/config"

func newTestConfig(t *testing.T, fs afero.Fs) *Instance {
	t.Helper()
	cfg, err := NewConfigWithFs(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)
	return cfg
}

func TestNewConfigWritesDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs)

	path := filepath.Join(testConfigDir, CfgFile)
	assert.Equal(t, path, cfg.Path())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	var vals Values
	require.NoError(t, toml.Unmarshal(data, &vals))
	assert.Equal(t, SchemaVersion, vals.ConfigSchema)
	assert.Equal(t, extract.AllFields, vals.Extract.Fields)
	assert.Equal(t, command.DefaultPort, vals.Command.Port)
	assert.Equal(t, DefaultAPIListen, vals.API.Listen)
	assert.False(t, vals.Telemetry.ErrorReporting)

	assert.Equal(t, extract.AllFormats(), cfg.ExtractFormats())
	assert.Equal(t, extract.AllFields, cfg.Fields())
	assert.False(t, cfg.RepairJSON())
	assert.Equal(t, DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, "127.0.0.1:7498", cfg.APIListen())
}

func TestLoadExistingFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	content := `config_schema = 1
debug_logging = true

[extract]
formats = ["json", "URLPARAMS", "bogus"]
fields = "cityId,shopId"
repair_json = true

[command]
server = "10.1.1.1"
port = 9000

[api]
listen = "0.0.0.0"
port = 8000
allowed_origins = ["http://localhost:3000"]

[telemetry]
error_reporting = true
dsn = "https://key@example.com/1"
`
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testConfigDir, CfgFile), []byte(content), 0o600))

	cfg := newTestConfig(t, fs)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, []extract.Format{extract.FormatJSON, extract.FormatURLParams}, cfg.ExtractFormats())
	assert.Equal(t, []string{"json", "URLPARAMS", "bogus"}, cfg.FormatIDs())
	assert.Equal(t, "cityId,shopId", cfg.Fields())
	assert.True(t, cfg.RepairJSON())

	s := cfg.CommandSettings()
	assert.Equal(t, "10.1.1.1", s.Server)
	assert.Equal(t, 9000, s.Port)
	assert.Equal(t, command.DefaultBase, s.Base, "missing keys keep defaults")
	assert.Equal(t, command.DefaultSuffix, s.Suffix)

	assert.Equal(t, "0.0.0.0:8000", cfg.APIListen())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins())
	assert.True(t, cfg.ErrorReporting())
	assert.Equal(t, "https://key@example.com/1", cfg.TelemetryDSN())
}

func TestLoadSchemaMismatch(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testConfigDir, CfgFile), []byte("config_schema = 99\n"), 0o600))

	_, err := NewConfigWithFs(fs, testConfigDir, BaseDefaults)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoadInvalidTOML(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testConfigDir, CfgFile), []byte("config_schema = [\n"), 0o600))

	_, err := NewConfigWithFs(fs, testConfigDir, BaseDefaults)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs)

	cfg.SetFormats([]string{"env"})
	cfg.SetFields("a,b")
	cfg.SetRepairJSON(true)
	cfg.SetAPIPort(9999)
	cfg.SetErrorReporting(true)
	cfg.SetCommandSettings(command.Settings{Base: "run ", Server: "h", Port: 1, Suffix: "!"})
	require.NoError(t, cfg.Save())

	reloaded := newTestConfig(t, fs)
	assert.Equal(t, []extract.Format{extract.FormatEnv}, reloaded.ExtractFormats())
	assert.Equal(t, "a,b", reloaded.Fields())
	assert.True(t, reloaded.RepairJSON())
	assert.Equal(t, 9999, reloaded.APIPort())
	assert.True(t, reloaded.ErrorReporting())
	assert.Equal(t, command.Settings{Base: "run ", Server: "h", Port: 1, Suffix: "!"}, reloaded.CommandSettings())
}

func TestCommandSettingsResolvesServer(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())
	assert.NotEmpty(t, cfg.CommandSettings().Server)
}

//nolint:paralleltest // uses t.Setenv
func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(CfgEnv, "/elsewhere/custom.toml")

	fs := afero.NewMemMapFs()
	cfg, err := NewConfigWithFs(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/custom.toml", cfg.Path())

	exists, err := afero.Exists(fs, "/elsewhere/custom.toml")
	require.NoError(t, err)
	assert.True(t, exists)
}
