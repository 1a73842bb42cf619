// PadShift Core
// Copyright (c) 2026 The PadShift Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of PadShift Core.
//
// PadShift Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// PadShift Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with PadShift Core.  If not, see <http://www.gnu.org/licenses/>.

// Package cli holds the flag handling and setup shared by the platform
// entrypoints.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PadShiftProject/padshift-core/pkg/config"
	"github.com/PadShiftProject/padshift-core/pkg/helpers"
)

type Flags struct {
	Activate *string
	Version  *bool
	Debug    *bool
	List     *bool
}

// SetupFlags defines the CLI flags common to all platforms.
func SetupFlags() *Flags {
	return &Flags{
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: flag.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		List: flag.Bool(
			"list",
			false,
			"print stored profiles and exit",
		),
		Activate: flag.String(
			"activate",
			"",
			"activate the named profile at startup",
		),
	}
}

// Pre parses flags and handles those that exit before the service starts.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		fmt.Fprintf(os.Stdout, "%s v%s\n", config.AppName, config.AppVersion)
		os.Exit(0)
	}
}

// Setup initializes logging and loads the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	if err := helpers.InitLogging(helpers.DataDir(), writers); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	helpers.SetDebugLogging(cfg.DebugLogging())
	return cfg
}

// Post applies flags that act on the loaded config.
func (f *Flags) Post(cfg *config.Instance) {
	if *f.Debug {
		cfg.SetDebugLogging(true)
		helpers.SetDebugLogging(true)
	}
}
