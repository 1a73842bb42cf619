//go:build linux

/*
PadShift Core
Copyright (c) 2026 The PadShift Project Contributors.

This file is part of PadShift Core.

PadShift Core is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PadShift Core is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PadShift Core.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/PadShiftProject/padshift-core/pkg/cli"
	"github.com/PadShiftProject/padshift-core/pkg/config"
	"github.com/PadShiftProject/padshift-core/pkg/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()

	daemonMode := flag.Bool(
		"daemon",
		false,
		"log to stderr in addition to the log file",
	)

	flags.Pre()

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg := cli.Setup(config.BaseDefaults, logWriters)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	flags.Post(cfg)

	svc, err := service.Start(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	defer func() {
		if stopErr := svc.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("error stopping service")
		}
	}()

	// The notification stream has to be drained even if nothing displays
	// it.
	go func() {
		for n := range svc.Notifications() {
			log.Debug().Str("method", n.Method).Interface("params", n.Params).
				Msg("notification")
		}
	}()

	ctx := context.Background()

	if *flags.List {
		all, listErr := svc.Profiles(ctx)
		if listErr != nil {
			return fmt.Errorf("error listing profiles: %w", listErr)
		}
		for i := range all {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", all[i].Name, all[i].GameExecutable)
		}
		return nil
	}

	if *flags.Activate != "" {
		flagged, actErr := svc.Coordinator().ActivateProfile(ctx, *flags.Activate)
		if actErr != nil {
			return fmt.Errorf("error activating profile: %w", actErr)
		}
		if flagged {
			fmt.Fprintln(os.Stderr,
				"warning: this game is known to use kernel-level anti-cheat")
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutting down")
	return nil
}
