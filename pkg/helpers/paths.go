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
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

const (
	// UserDir is the portable install directory looked for next to the
	// binary.
	UserDir = "user"
	// AppEnv overrides the binary path used to find UserDir.
	AppEnv = "ZAPEXTRACT_APP"
)

// userDirCache caches the result of HasUserDir to avoid repeated filesystem checks
var (
	userDirCache       string
	userDirCacheExists bool
	userDirOnce        sync.Once
)

// HasUserDir checks if a "user" directory exists next to the binary and
// returns its absolute path. When present it replaces the config, data and
// log directories, for a portable install. The result is cached.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		userDirCache, userDirCacheExists = findUserDir(os.Getenv(AppEnv))
	})
	return userDirCache, userDirCacheExists
}

func findUserDir(exe string) (string, bool) {
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return "", false
		}
	}

	userDir := filepath.Join(filepath.Dir(exe), UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

func ConfigDir(appName string) string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

func DataDir(appName string) string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, appName)
}

func LogDir(appName string) string {
	if v, ok := HasUserDir(); ok {
		return filepath.Join(v, "logs")
	}
	return filepath.Join(os.TempDir(), appName)
}

// EnsureDirectories creates every directory in dirs.
func EnsureDirectories(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}
