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

// Package telemetry provides opt-in error reporting via Sentry. Extracted
// text never leaves the machine: events carry only log messages, and
// usernames are stripped from paths before transmission.
package telemetry

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

var ErrNoDSN = errors.New("error reporting enabled without a dsn")

var (
	mu           sync.Mutex
	enabled      bool
	sentryWriter *sentryzerolog.Writer

	// Patterns to strip usernames from file paths
	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)
)

// Options configure Init.
type Options struct {
	DSN        string
	AppVersion string
	Enabled    bool
}

// Init initializes Sentry error reporting with zerolog integration. It does
// nothing unless opts.Enabled is set.
func Init(opts Options) error {
	if !opts.Enabled {
		log.Debug().Msg("error reporting disabled")
		return nil
	}
	if opts.DSN == "" {
		return ErrNoDSN
	}

	mu.Lock()
	defer mu.Unlock()

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Release:          "zapextract@" + opts.AppVersion,
		AttachStacktrace: true,
		SendDefaultPII:   false,
		ServerName:       "",
		MaxBreadcrumbs:   0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	sentryWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout:    flushTimeout,
		WithBreadcrumbs: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		sentryWriter,
	)).With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Msg("error reporting enabled")
	return nil
}

// Close flushes pending events and shuts down Sentry. Safe to call more
// than once.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	_ = sentryWriter.Close()
	sentry.Flush(flushTimeout)
	enabled = false
}

// Flush sends pending events. Call it before os.Exit.
func Flush() {
	if !Enabled() {
		return
	}
	sentry.Flush(flushTimeout)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// sanitizeEvent removes PII from Sentry events before sending.
func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// SDK may populate despite ServerName: ""
	event.ServerName = ""

	for i := range event.Exception {
		if event.Exception[i].Stacktrace != nil {
			for j := range event.Exception[i].Stacktrace.Frames {
				frame := &event.Exception[i].Stacktrace.Frames[j]
				frame.AbsPath = sanitizePath(frame.AbsPath)
				frame.Filename = sanitizePath(frame.Filename)
			}
		}
	}

	event.Message = sanitizePath(event.Message)

	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}

	return event
}

// sanitizePath removes usernames from file paths.
func sanitizePath(path string) string {
	if path == "" {
		return path
	}

	result := homePathRe.ReplaceAllString(path, "/home/<user>/")
	result = usersPathRe.ReplaceAllString(result, "/Users/<user>/")
	result = windowsUserRe.ReplaceAllString(result, "C:\\Users\\<user>\\")

	return result
}
