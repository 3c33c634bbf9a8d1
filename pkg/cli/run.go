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
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/ZaparooProject/zaparoo-extract/pkg/api"
	"github.com/ZaparooProject/zaparoo-extract/pkg/command"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/ZaparooProject/zaparoo-extract/pkg/database/prefs"
	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/ZaparooProject/zaparoo-extract/pkg/input"
	"github.com/ZaparooProject/zaparoo-extract/pkg/render"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrWatchNeedsFile = errors.New("-watch needs -input with a file path")

// Job is one resolved extraction request.
type Job struct {
	Output     string
	Formats    []extract.Format
	Fields     []string
	Exclude    []string
	Settings   command.Settings
	RepairJSON bool
	Copy       bool
}

// Run carries out the parsed flags against env.
func Run(ctx context.Context, env *Env, f *Flags) error {
	switch {
	case *f.Version:
		_, _ = fmt.Fprintf(env.Stdout, "Zaparoo Extract v%s (%s/%s)\n", config.AppVersion, runtime.GOOS, runtime.GOARCH)
		return nil
	case *f.ListFormats:
		return listFormats(env)
	}

	job, err := resolveJob(env, f)
	if err != nil {
		return err
	}

	if *f.SavePrefs {
		if err := savePrefs(env, f, job); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(env.Stderr, "Preferences saved")
	}

	path := *f.Input
	hasInput := path != "" || *f.Sample || *f.Clipboard
	if *f.Watch && (path == "" || path == input.StdinPath) {
		return ErrWatchNeedsFile
	}
	if !hasInput && !*f.Serve {
		if *f.SavePrefs {
			return nil
		}
		path = input.StdinPath
		hasInput = true
	}

	if hasInput {
		text, err := readText(env, f, path)
		if err != nil {
			return err
		}
		if err := Process(env, job, text); err != nil {
			return err
		}
	}

	if !*f.Serve && !*f.Watch {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if *f.Serve {
		g.Go(func() error {
			return api.Start(gctx, env.Config, env.Prefs, env.Clock)
		})
	}
	if *f.Watch {
		g.Go(func() error {
			return input.Watch(gctx, path, env.Clock, input.DefaultDebounce, func(text string) {
				if err := Process(env, job, text); err != nil {
					log.Error().Err(err).Msg("failed to process changed input")
				}
			})
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

func listFormats(env *Env) error {
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME")
	for _, d := range extract.Catalog() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", d.Format, d.Name)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write formats: %w", err)
	}
	return nil
}

// resolveJob merges flags over saved preferences over config.
func resolveJob(env *Env, f *Flags) (Job, error) {
	job := Job{
		Output:     strings.ToLower(strings.TrimSpace(*f.Output)),
		Exclude:    extract.ParseFields(*f.Exclude),
		RepairJSON: env.Config.RepairJSON(),
		Copy:       *f.Copy,
	}
	if f.isPassed("repair-json") {
		job.RepairJSON = *f.RepairJSON
	}
	if job.Output != OutputCommand {
		if _, err := render.ParseFormat(job.Output); err != nil {
			return Job{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}

	saved, hasSaved := prefs.LoadSaved(env.Prefs)

	switch {
	case *f.Formats != "":
		fs, err := extract.ParseFormats(extract.ParseFields(*f.Formats))
		if err != nil {
			return Job{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		job.Formats = fs
	case hasSaved:
		job.Formats = saved.EnabledFormats()
	default:
		job.Formats = env.Config.ExtractFormats()
	}

	switch {
	case *f.Template != "":
		tpl, err := command.LookupTemplate(*f.Template)
		if err != nil {
			return Job{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		job.Fields = tpl.FieldList()
	case *f.Fields != "":
		job.Fields = extract.ParseFields(*f.Fields)
	case hasSaved:
		job.Fields = extract.ParseFields(saved.Fields)
	default:
		job.Fields = extract.ParseFields(env.Config.Fields())
	}
	if len(job.Fields) == 0 {
		job.Fields = []string{extract.AllFields}
	}

	if hasSaved {
		job.Settings = saved.Settings()
	} else {
		job.Settings = env.Config.CommandSettings()
	}
	job.Settings = job.Settings.WithDefaults()

	return job, nil
}

func savePrefs(env *Env, f *Flags, job Job) error {
	p, err := prefs.Load(env.Prefs, prefs.Defaults())
	if err != nil {
		log.Warn().Err(err).Msg("stored preferences invalid, starting from defaults")
		p = prefs.Defaults()
	}
	if *f.Template != "" || *f.Fields != "" {
		p.Fields = strings.Join(job.Fields, ",")
	}
	if *f.Formats != "" {
		ids := make([]string, len(job.Formats))
		for i, fm := range job.Formats {
			ids[i] = string(fm)
		}
		p.Formats = ids
	}
	if err := prefs.Save(env.Prefs, p, env.Clock); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func readText(env *Env, f *Flags, path string) (string, error) {
	switch {
	case *f.Sample:
		return input.Sample, nil
	case *f.Clipboard:
		text, err := env.Clipboard.Read()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return text, nil
	case path == input.StdinPath:
		text, err := input.ReadFrom(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return text, nil
	default:
		return input.Read(env.Fs, path)
	}
}

// Process extracts text, writes the output for job to stdout and reports
// missing fields on stderr.
func Process(env *Env, job Job, text string) error {
	res := extract.ExtractWith(text, extract.Options{
		Formats:    job.Formats,
		RepairJSON: job.RepairJSON,
	})
	log.Debug().
		Interface("detected", res.Detected).
		Interface("applied", res.Applied).
		Int("fields", res.Fields.Len()).
		Msg("extracted")

	fields := command.Exclude(extract.Project(res.Fields, job.Fields), job.Exclude)

	var buf bytes.Buffer
	if job.Output == OutputCommand {
		for _, m := range command.Missing(job.Fields, res.Fields) {
			if len(m.DidYouMean) > 0 {
				_, _ = fmt.Fprintf(env.Stderr, "Missing field %q, did you mean: %s\n",
					m.Field, strings.Join(m.DidYouMean, ", "))
			} else {
				_, _ = fmt.Fprintf(env.Stderr, "Missing field %q\n", m.Field)
			}
		}
		cmd := command.Build(job.Settings, fields)
		if cmd == "" {
			_, _ = fmt.Fprintln(env.Stderr, "No fields extracted")
			return nil
		}
		buf.WriteString(cmd)
		buf.WriteByte('\n')
	} else if err := render.Render(&buf, fields, render.Format(job.Output)); err != nil {
		return err
	}

	if _, err := env.Stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if job.Copy {
		if err := env.Clipboard.Write(strings.TrimRight(buf.String(), "\n")); err != nil {
			return fmt.Errorf("failed to copy output: %w", err)
		}
		_, _ = fmt.Fprintln(env.Stderr, "Copied to clipboard")
	}
	return nil
}
