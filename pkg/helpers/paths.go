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

package helpers

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/PadShiftProject/padshift-core/pkg/config"
)

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

// HasUserDir reports whether a portable "user" directory exists next to the
// executable. When present it overrides the per-user config and data
// directories, so the whole install can live on removable media.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exePath := os.Getenv(config.AppEnv)
		if exePath == "" {
			var err error
			exePath, err = os.Executable()
			if err != nil {
				userDirCacheExists = false
				return
			}
		}

		userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			userDirCacheExists = false
			return
		}

		userDirCache = userDir
		userDirCacheExists = true
	})

	return userDirCache, userDirCacheExists
}

// ConfigDir returns the directory holding the service config file.
func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", config.AppName)
	}
	return filepath.Join(base, config.AppName)
}

// DataDir returns the directory holding profiles, hide rule state and the
// anti-cheat database.
func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, config.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", config.AppName)
	}
	return filepath.Join(home, ".local", "share", config.AppName)
}
