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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-extract/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-extract/pkg/cli"
	"github.com/ZaparooProject/zaparoo-extract/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
}

func run() (returnErr error) {
	flags := cli.SetupFlags(flag.CommandLine)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	// flags that don't need any environment setup
	if *flags.Version || *flags.ListFormats {
		return cli.Run(context.Background(), &cli.Env{Stdout: os.Stdout}, flags)
	}

	var logWriters []io.Writer
	if *flags.Serve {
		logWriters = []io.Writer{os.Stderr}
	}

	env, err := cli.Setup(config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}
	defer env.Close()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, env, flags)
}
