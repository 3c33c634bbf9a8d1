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

// Package cli implements the zapextract command line: flag handling,
// environment setup and the extract/render/serve run loop.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/zaparoo-extract/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// OutputCommand prints the built launch command instead of rendering the
// fields.
const OutputCommand = "command"

var ErrUsage = errors.New("invalid usage")

type Flags struct {
	Input       *string
	Clipboard   *bool
	Fields      *string
	Template    *string
	Formats     *string
	Exclude     *string
	Output      *string
	Copy        *bool
	Watch       *bool
	Serve       *bool
	ListFormats *bool
	Sample      *bool
	SavePrefs   *bool
	RepairJSON  *bool
	Version     *bool

	set *flag.FlagSet
}

// SetupFlags defines every CLI flag on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Input: fs.String(
			"input",
			"",
			"read text from file, or - for stdin",
		),
		Clipboard: fs.Bool(
			"clipboard",
			false,
			"read text from the system clipboard",
		),
		Fields: fs.String(
			"fields",
			"",
			"comma separated fields to keep, or \"all\"",
		),
		Template: fs.String(
			"template",
			"",
			"use the fields of a named template",
		),
		Formats: fs.String(
			"formats",
			"",
			"comma separated format ids to enable",
		),
		Exclude: fs.String(
			"exclude",
			"",
			"comma separated fields to drop from the output",
		),
		Output: fs.String(
			"output",
			OutputCommand,
			"output: command, json, toml, yaml, ini, env, csv or debug",
		),
		Copy: fs.Bool(
			"copy",
			false,
			"copy the output to the system clipboard",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"re-run whenever the input file changes",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"start the JSON-RPC API server",
		),
		ListFormats: fs.Bool(
			"list-formats",
			false,
			"print the supported formats and exit",
		),
		Sample: fs.Bool(
			"sample",
			false,
			"extract from the built in sample text",
		),
		SavePrefs: fs.Bool(
			"save-prefs",
			false,
			"remember the given fields and formats",
		),
		RepairJSON: fs.Bool(
			"repair-json",
			false,
			"repair malformed embedded JSON values",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Parse parses args into the flags.
func (f *Flags) Parse(args []string) error {
	if err := f.set.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if f.set.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, f.set.Args())
	}
	return nil
}

func (f *Flags) isPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Env holds everything a run needs from the outside world.
type Env struct {
	Config    *config.Instance
	Prefs     prefs.Store
	Fs        afero.Fs
	Clock     clockwork.Clock
	Clipboard Clipboard
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
}

// Close releases the preference store and flushes telemetry.
func (e *Env) Close() {
	if e.Prefs != nil {
		if err := e.Prefs.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close preference store")
		}
	}
	telemetry.Close()
}

// Setup creates the app directories and initializes logging, config, the
// preference store and error reporting.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) (*Env, error) {
	configDir := helpers.ConfigDir(config.AppName)
	dataDir := helpers.DataDir(config.AppName)

	err := helpers.EnsureDirectories(configDir, dataDir)
	if err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	err = helpers.InitLogging(helpers.LogDir(config.AppName), config.LogFile, writers)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(configDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	helpers.SetDebug(cfg.DebugLogging())

	var store prefs.Store
	bolt, err := prefs.Open(prefs.Path(dataDir))
	if err != nil {
		log.Warn().Err(err).Msg("failed to open preference store, preferences will not persist")
		store = prefs.NewMemory()
	} else {
		store = bolt
	}

	err = telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.TelemetryDSN(),
		AppVersion: config.AppVersion,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return &Env{
		Config:    cfg,
		Prefs:     store,
		Fs:        afero.NewOsFs(),
		Clock:     clockwork.NewRealClock(),
		Clipboard: NewSystemClipboard(),
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}, nil
}
