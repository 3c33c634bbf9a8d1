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

package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ZaparooProject/zaparoo-extract/pkg/input"
	"golang.design/x/clipboard"
)

var ErrClipboardEmpty = errors.New("clipboard has no text")

// Clipboard reads and writes plain text.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard is the desktop clipboard. It is initialized on first use
// so headless runs that never touch it do not fail.
type SystemClipboard struct {
	err  error
	once sync.Once
}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

func (c *SystemClipboard) init() error {
	c.once.Do(func() {
		c.err = clipboard.Init()
	})
	if c.err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", c.err)
	}
	return nil
}

func (c *SystemClipboard) Read() (string, error) {
	if err := c.init(); err != nil {
		return "", err
	}
	b := clipboard.Read(clipboard.FmtText)
	if len(b) == 0 {
		return "", ErrClipboardEmpty
	}
	return input.Decode(b)
}

func (c *SystemClipboard) Write(text string) error {
	if err := c.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
