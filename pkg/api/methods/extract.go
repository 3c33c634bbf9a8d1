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
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-extract/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleFormats(_ requests.RequestEnv) (any, error) {
	catalog := extract.Catalog()
	formats := make([]models.FormatInfo, 0, len(catalog))
	for _, d := range catalog {
		formats = append(formats, models.FormatInfo{ID: d.Format, Name: d.Name})
	}
	return models.FormatsResponse{Formats: formats}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleTemplates(_ requests.RequestEnv) (any, error) {
	return models.TemplatesResponse{Templates: command.Templates()}, nil
}

// enabledFormats resolves the formats for a request: explicit ids first,
// then saved preferences, then config.
//
//nolint:gocritic // env passed by value like every handler
func enabledFormats(env requests.RequestEnv, ids []string) []extract.Format {
	if len(ids) > 0 {
		fs, _ := extract.ParseFormats(ids)
		return fs
	}
	if p, ok := loadPrefs(env); ok {
		return p.EnabledFormats()
	}
	if env.Config != nil {
		return env.Config.ExtractFormats()
	}
	return extract.AllFormats()
}

//nolint:gocritic // env passed by value like every handler
func targetFields(env requests.RequestEnv, fields string) []string {
	if fields != "" {
		return extract.ParseFields(fields)
	}
	if p, ok := loadPrefs(env); ok {
		return extract.ParseFields(p.Fields)
	}
	if env.Config != nil {
		return extract.ParseFields(env.Config.Fields())
	}
	return []string{extract.AllFields}
}

//nolint:gocritic // env passed by value like every handler
func loadPrefs(env requests.RequestEnv) (prefs.Preferences, bool) {
	if env.Prefs == nil {
		return prefs.Preferences{}, false
	}
	return prefs.LoadSaved(env.Prefs)
}

func HandleExtract(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received extract request")

	var params models.ExtractParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	repair := env.Config != nil && env.Config.RepairJSON()
	if params.RepairJSON != nil {
		repair = *params.RepairJSON
	}

	res := extract.ExtractWith(params.Text, extract.Options{
		Formats:    enabledFormats(env, params.Formats),
		RepairJSON: repair,
	})

	return models.ExtractResponse{
		Fields:   extract.Project(res.Fields, targetFields(env, params.Fields)),
		Detected: res.Detected,
		Applied:  res.Applied,
	}, nil
}

func HandleCommand(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received command request")

	var params models.CommandParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	fields := targetFields(env, params.Fields)
	if params.Template != "" {
		tpl, err := command.LookupTemplate(params.Template)
		if err != nil {
			return nil, err
		}
		fields = tpl.FieldList()
	}

	all := extract.Extract(params.Text, enabledFormats(env, params.Formats))
	projected := command.Exclude(extract.Project(all, fields), params.Exclude)

	settings := commandSettings(env)
	if s := params.Settings; s != nil {
		if s.Base != nil {
			settings.Base = *s.Base
		}
		if s.Server != nil {
			settings.Server = *s.Server
		}
		if s.Suffix != nil {
			settings.Suffix = *s.Suffix
		}
		if s.Port != nil {
			settings.Port = *s.Port
		}
	}

	missing := command.Missing(fields, all)
	if missing == nil {
		missing = []command.Suggestion{}
	}

	return models.CommandResponse{
		Command: command.Build(settings.WithDefaults(), projected),
		Fields:  projected,
		Missing: missing,
	}, nil
}

//nolint:gocritic // env passed by value like every handler
func commandSettings(env requests.RequestEnv) command.Settings {
	if p, ok := loadPrefs(env); ok {
		return p.Settings()
	}
	if env.Config != nil {
		return env.Config.CommandSettings()
	}
	return command.DefaultSettings()
}
