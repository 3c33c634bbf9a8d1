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
	"net"
	"slices"
	"strconv"
)

const (
	DefaultAPIPort   = 7498
	DefaultAPIListen = "127.0.0.1"
)

type API struct {
	Port           *int     `toml:"port,omitempty"`
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type Telemetry struct {
	DSN            string `toml:"dsn"`
	ErrorReporting bool   `toml:"error_reporting"`
}

func defaultAPI() API {
	return API{
		Listen:         DefaultAPIListen,
		AllowedOrigins: []string{},
	}
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiPortLocked()
}

// apiPortLocked returns the API port. Caller must hold mu (read or write).
func (c *Instance) apiPortLocked() int {
	if c.vals.API.Port == nil {
		return DefaultAPIPort
	}
	return *c.vals.API.Port
}

func (c *Instance) SetAPIPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.API.Port = &port
}

// APIListen returns the host:port the API server binds to.
func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return net.JoinHostPort(c.vals.API.Listen, strconv.Itoa(c.apiPortLocked()))
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.API.AllowedOrigins)
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.ErrorReporting
}

func (c *Instance) SetErrorReporting(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Telemetry.ErrorReporting = enabled
}

func (c *Instance) TelemetryDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.DSN
}
