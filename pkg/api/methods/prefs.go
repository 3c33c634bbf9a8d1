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

package methods

import (
	"errors"

	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/rs/zerolog/log"
)

var ErrNoPrefsStore = errors.New("preference store not available")

func prefsResponse(store prefs.Store, p prefs.Preferences) models.PrefsResponse {
	resp := models.PrefsResponse{
		Formats: p.Formats,
		Fields:  p.Fields,
		Base:    p.Base,
		Server:  p.Server,
		Port:    p.Port,
		Suffix:  p.Suffix,
	}
	if resp.Formats == nil {
		resp.Formats = []string{}
	}
	if t, ok, err := prefs.UpdatedAt(store); err == nil && ok {
		resp.UpdatedAt = &t
	}
	return resp
}

func HandlePrefs(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received prefs request")

	if env.Prefs == nil {
		return nil, ErrNoPrefsStore
	}
	p, err := prefs.Load(env.Prefs, prefs.Defaults())
	if err != nil {
		return nil, err
	}
	return prefsResponse(env.Prefs, p), nil
}

func HandlePrefsUpdate(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received prefs update request")

	if env.Prefs == nil {
		return nil, ErrNoPrefsStore
	}

	var params models.UpdatePrefsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	p, err := prefs.Load(env.Prefs, prefs.Defaults())
	if err != nil {
		log.Warn().Err(err).Msg("stored preferences invalid, starting from defaults")
		p = prefs.Defaults()
	}

	if params.Formats != nil {
		log.Info().Strs("formats", *params.Formats).Msg("update")
		p.Formats = *params.Formats
	}
	if params.Fields != nil {
		log.Info().Str("fields", *params.Fields).Msg("update")
		p.Fields = *params.Fields
	}
	if params.Base != nil {
		p.Base = *params.Base
	}
	if params.Server != nil {
		p.Server = *params.Server
	}
	if params.Suffix != nil {
		p.Suffix = *params.Suffix
	}
	if params.Port != nil {
		p.Port = *params.Port
	}

	if err := prefs.Save(env.Prefs, p, env.Clock); err != nil {
		return nil, err
	}
	return prefsResponse(env.Prefs, p), nil
}
