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

// Package helpers provides shared fixtures for tests: an in-memory config,
// preference store and filesystem, plus JSON-RPC clients for the API.
package helpers

import (
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const (
	// TestConfigDir is where NewTestConfig writes config.toml.
	TestConfigDir = "/config"
	// TestServer is the command server pinned by NewTestConfig so command
	// output does not depend on the machine's addresses.
	TestServer = "10.0.0.5"
)

// TestTime is the starting time of NewTestClock.
var TestTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// NewTestConfig creates a config backed by fs with defaults written and the
// command server pinned to TestServer.
func NewTestConfig(t *testing.T, fs *FSHelper) *config.Instance {
	t.Helper()
	if fs == nil {
		fs = NewMemoryFS()
	}

	cfg, err := config.NewConfigWithFs(fs.Fs, TestConfigDir, config.BaseDefaults)
	require.NoError(t, err)

	cfg.SetCommandSettings(command.Settings{
		Base:   command.DefaultBase,
		Server: TestServer,
		Port:   command.DefaultPort,
		Suffix: command.DefaultSuffix,
	})
	return cfg
}

// NewTestPrefs returns an in-memory preference store closed at cleanup.
func NewTestPrefs(t *testing.T) prefs.Store {
	t.Helper()
	store := prefs.NewMemory()
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func NewTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(TestTime)
}
