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

package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	KeyFormats   = "formats"
	KeyFields    = "fields"
	KeyBase      = "base"
	KeyServer    = "server"
	KeyPort      = "port"
	KeySuffix    = "suffix"
	KeyUpdatedAt = "updated_at"
)

var ErrInvalid = errors.New("invalid preferences")

// Preferences are the settings a user last chose. An empty Formats list
// means every format is enabled.
type Preferences struct {
	Fields  string   `mapstructure:"fields" json:"fields" validate:"required"`
	Base    string   `mapstructure:"base" json:"base"`
	Server  string   `mapstructure:"server" json:"server" validate:"omitempty,hostname|ip"`
	Suffix  string   `mapstructure:"suffix" json:"suffix"`
	Formats []string `mapstructure:"formats" json:"formats" validate:"dive,extractformat"`
	Port    int      `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
}

// Defaults returns the preferences used before anything was saved.
func Defaults() Preferences {
	return Preferences{
		Formats: []string{},
		Fields:  extract.AllFields,
		Base:    command.DefaultBase,
		Suffix:  command.DefaultSuffix,
		Port:    command.DefaultPort,
	}
}

// Settings converts the command-related preferences.
func (p Preferences) Settings() command.Settings {
	return command.Settings{
		Base:   p.Base,
		Server: p.Server,
		Port:   p.Port,
		Suffix: p.Suffix,
	}
}

// EnabledFormats resolves the stored format ids. An empty list enables the
// whole catalog.
func (p Preferences) EnabledFormats() []extract.Format {
	if len(p.Formats) == 0 {
		return extract.AllFormats()
	}
	fs, _ := extract.ParseFormats(p.Formats)
	return fs
}

func (p Preferences) toStrings() map[string]string {
	return map[string]string{
		KeyFormats: strings.Join(p.Formats, ","),
		KeyFields:  p.Fields,
		KeyBase:    p.Base,
		KeyServer:  p.Server,
		KeyPort:    strconv.Itoa(p.Port),
		KeySuffix:  p.Suffix,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("extractformat", validateFormat)
	return v
}

func validateFormat(fl validator.FieldLevel) bool {
	_, err := extract.ParseFormat(fl.Field().String())
	return err == nil
}

// Validate checks p for out of range or unknown values.
func Validate(p Preferences) error {
	if err := validate.Struct(p); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			msgs := make([]string, 0, len(ves))
			for _, fe := range ves {
				msgs = append(msgs, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Load reads preferences from store, filling anything unset from defaults.
func Load(store Store, defaults Preferences) (Preferences, error) {
	stored, err := store.All()
	if err != nil {
		return defaults, fmt.Errorf("failed to read preferences: %w", err)
	}

	raw := defaults.toStrings()
	for k, v := range stored {
		raw[k] = v
	}
	delete(raw, KeyUpdatedAt)

	var p Preferences
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return defaults, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return defaults, fmt.Errorf("failed to decode preferences: %w", err)
	}
	if len(md.Unused) > 0 {
		log.Debug().Strs("keys", md.Unused).Msg("ignoring unknown preference keys")
	}
	if p.Formats == nil {
		p.Formats = []string{}
	}

	if err := Validate(p); err != nil {
		return defaults, err
	}
	return p, nil
}

// LoadSaved loads preferences only if they were saved before. Callers fall
// back to their own configuration when ok is false.
func LoadSaved(store Store) (Preferences, bool) {
	if store == nil {
		return Preferences{}, false
	}
	if _, saved, err := UpdatedAt(store); err != nil || !saved {
		return Preferences{}, false
	}
	p, err := Load(store, Defaults())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load saved preferences")
		return Preferences{}, false
	}
	return p, true
}

// Save validates p and writes every field plus an updated_at timestamp.
func Save(store Store, p Preferences, clock clockwork.Clock) error {
	if err := Validate(p); err != nil {
		return err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	for k, v := range p.toStrings() {
		if err := store.Set(k, v); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", k, err)
		}
	}
	if err := store.Set(KeyUpdatedAt, clock.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", KeyUpdatedAt, err)
	}
	return nil
}

// UpdatedAt returns when preferences were last saved.
func UpdatedAt(store Store) (time.Time, bool, error) {
	v, ok, err := store.Get(KeyUpdatedAt)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse %s: %w", KeyUpdatedAt, err)
	}
	return t, true, nil
}
