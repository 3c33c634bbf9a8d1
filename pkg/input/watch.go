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

package input

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultDebounce is how long Watch waits after the last change before
// re-reading the file.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls fn with the contents of path every time it changes, after
// changes have been quiet for debounce. The parent directory is watched so
// editors that replace the file on save are still seen. Watch blocks until
// ctx is done.
func Watch(
	ctx context.Context,
	path string,
	clock clockwork.Clock,
	debounce time.Duration,
	fn func(string),
) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Debug().Str("path", abs).Msg("watching input file")

	fs := afero.NewOsFs()
	var timer clockwork.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = clock.NewTimer(debounce)
				fire = timer.Chan()
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("error in input watcher")
		case <-fire:
			timer = nil
			fire = nil
			text, err := Read(fs, abs)
			if err != nil {
				log.Warn().Err(err).Msg("failed to reload watched input")
				continue
			}
			fn(text)
		}
	}
}
