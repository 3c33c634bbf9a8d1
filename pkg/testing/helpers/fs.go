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
	"fmt"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// CreateConfigFile writes cfg as TOML to path.
func (h *FSHelper) CreateConfigFile(path string, cfg map[string]any) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	return h.WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories.
func (h *FSHelper) WriteFile(path string, data []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
