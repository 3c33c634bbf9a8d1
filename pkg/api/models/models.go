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

package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	MethodFormats     = "formats"
	MethodExtract     = "extract"
	MethodCommand     = "command"
	MethodPrefs       = "prefs"
	MethodPrefsUpdate = "prefs.update"
	MethodTemplates   = "templates"
	MethodVersion     = "version"
)

type RequestObject struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ResponseObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Error   *ErrorObject `json:"error"`
}
