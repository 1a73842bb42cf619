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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "PADSHIFT_CFG"
	AppEnv        = "PADSHIFT_APP"
)

type Values struct {
	Service      Service    `toml:"service,omitempty"`
	Watcher      Watcher    `toml:"watcher,omitempty"`
	Forwarding   Forwarding `toml:"forwarding,omitempty"`
	AntiCheat    AntiCheat  `toml:"anticheat,omitempty"`
	ConfigSchema int        `toml:"config_schema"`
	DebugLogging bool       `toml:"debug_logging"`
}

type Service struct {
	DeviceID string `toml:"device_id"`
	// NotificationBuffer is the capacity of the event channel between the
	// core and its consumers.
	NotificationBuffer int `toml:"notification_buffer,omitempty"`
}

type Watcher struct {
	// PollIntervalMS is the process list polling interval.
	PollIntervalMS int `toml:"poll_interval_ms,omitempty"`
}

type Forwarding struct {
	PumpIntervalMS  int `toml:"pump_interval_ms,omitempty"`
	DriverTimeoutMS int `toml:"driver_timeout_ms,omitempty"`
}

type AntiCheat struct {
	// DatabaseFile is the anti-cheat knowledge file, relative to the data
	// directory unless absolute.
	DatabaseFile string `toml:"database_file,omitempty"`
	WatchFile    bool   `toml:"watch_file"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Service: Service{
		NotificationBuffer: 500,
	},
	Watcher: Watcher{
		PollIntervalMS: 2000,
	},
	Forwarding: Forwarding{
		PumpIntervalMS:  4,
		DriverTimeoutMS: 2000,
	},
	AntiCheat: AntiCheat{
		DatabaseFile: "anticheat.csv",
		WatchFile:    true,
	},
}

type Instance struct {
	appPath  string
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		appPath:  os.Getenv(AppEnv),
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top, so fields
	// missing from the file keep their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

func (c *Instance) NotificationBuffer() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.NotificationBuffer <= 0 {
		return BaseDefaults.Service.NotificationBuffer
	}
	return c.vals.Service.NotificationBuffer
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) WatcherPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Watcher.PollIntervalMS <= 0 {
		return time.Duration(BaseDefaults.Watcher.PollIntervalMS) * time.Millisecond
	}
	return time.Duration(c.vals.Watcher.PollIntervalMS) * time.Millisecond
}

func (c *Instance) PumpInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Forwarding.PumpIntervalMS <= 0 {
		return time.Duration(BaseDefaults.Forwarding.PumpIntervalMS) * time.Millisecond
	}
	return time.Duration(c.vals.Forwarding.PumpIntervalMS) * time.Millisecond
}

func (c *Instance) DriverTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Forwarding.DriverTimeoutMS <= 0 {
		return time.Duration(BaseDefaults.Forwarding.DriverTimeoutMS) * time.Millisecond
	}
	return time.Duration(c.vals.Forwarding.DriverTimeoutMS) * time.Millisecond
}

// AntiCheatDatabase resolves the anti-cheat database path against dataDir
// when the configured path is relative.
func (c *Instance) AntiCheatDatabase(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path := c.vals.AntiCheat.DatabaseFile
	if path == "" {
		path = BaseDefaults.AntiCheat.DatabaseFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

func (c *Instance) WatchAntiCheatDatabase() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.AntiCheat.WatchFile
}
