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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ZAPEXTRACT_CFG"
)

var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Extract      Extract   `toml:"extract"`
	Command      Command   `toml:"command"`
	API          API       `toml:"api"`
	Telemetry    Telemetry `toml:"telemetry"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Extract:      defaultExtract(),
	Command:      defaultCommand(),
	API:          defaultAPI(),
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, or the path in the
// ZAPEXTRACT_CFG environment variable, writing defaults first if the file
// does not exist.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	return NewConfigWithFs(afero.NewOsFs(), configDir, defaults)
}

//nolint:gocritic // config struct copied for immutability
func NewConfigWithFs(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Msg("saving new default config to disk")

		err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err = cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their defaults.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	helpers.SetDebug(enabled)
}
