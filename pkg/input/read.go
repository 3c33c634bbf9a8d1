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

// Package input loads the text handed to the extractor from files, stdin
// or the clipboard, and watches files for changes.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// MaxSize is the largest input accepted, in bytes.
const MaxSize = 16 << 20

var ErrTooLarge = errors.New("input too large")

// Read loads the file at path from fs, or stdin when path is "-".
func Read(fs afero.Fs, path string) (string, error) {
	if path == StdinPath {
		return ReadFrom(os.Stdin)
	}

	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	text, err := ReadFrom(f)
	if err != nil {
		return "", fmt.Errorf("failed to read input %s: %w", path, err)
	}
	return text, nil
}

// ReadFrom reads all of r and decodes it with Decode.
func ReadFrom(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(b) > MaxSize {
		return "", ErrTooLarge
	}
	return Decode(b)
}

// Decode converts raw bytes to text. A UTF-8 or UTF-16 byte order mark
// selects the encoding and is removed; without one the bytes are taken as
// UTF-8. Line endings are normalized to "\n".
func Decode(b []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	return normalizeNewlines(string(out)), nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
