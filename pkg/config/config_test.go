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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	require.NoError(t, err, "default config should be written to disk")

	assert.False(t, cfg.DebugLogging())
	assert.Equal(t, 2*time.Second, cfg.WatcherPollInterval())
	assert.Equal(t, 4*time.Millisecond, cfg.PumpInterval())
	assert.Equal(t, 2*time.Second, cfg.DriverTimeout())
	assert.Equal(t, 500, cfg.NotificationBuffer())
	assert.True(t, cfg.WatchAntiCheatDatabase())
	assert.NotEmpty(t, cfg.DeviceID(), "save should generate a device id")
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	content := "config_schema = 1\ndebug_logging = true\n\n[watcher]\npoll_interval_ms = 500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, 500*time.Millisecond, cfg.WatcherPollInterval())
	// Untouched sections keep defaults.
	assert.Equal(t, 4*time.Millisecond, cfg.PumpInterval())
	assert.Equal(t, "anticheat.csv", filepath.Base(cfg.AntiCheatDatabase("/data")))
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	content := "config_schema = 99\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())
	deviceID := cfg.DeviceID()

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.True(t, reloaded.DebugLogging())
	assert.Equal(t, deviceID, reloaded.DeviceID(), "device id must be stable across restarts")
}

func TestAntiCheatDatabasePathResolution(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/data", "anticheat.csv"), cfg.AntiCheatDatabase("/data"))

	abs := filepath.Join(dir, "db.csv")
	content := "config_schema = 1\n\n[anticheat]\ndatabase_file = \"" + abs + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))
	require.NoError(t, cfg.Load())
	assert.Equal(t, abs, cfg.AntiCheatDatabase("/data"))
}

func TestZeroedIntervalsFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "config_schema = 1\n\n[watcher]\npoll_interval_ms = 0\n\n[forwarding]\npump_interval_ms = -5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.WatcherPollInterval())
	assert.Equal(t, 4*time.Millisecond, cfg.PumpInterval())
}
