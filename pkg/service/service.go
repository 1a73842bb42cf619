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

// Package service wires the PadShift core together: profile storage, the
// anti-cheat gate, the process watcher and the forwarding engine, joined by
// the coordinator and a single notification stream.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PadShiftProject/padshift-core/pkg/anticheat"
	"github.com/PadShiftProject/padshift-core/pkg/api/models"
	"github.com/PadShiftProject/padshift-core/pkg/assets"
	"github.com/PadShiftProject/padshift-core/pkg/config"
	"github.com/PadShiftProject/padshift-core/pkg/controllers"
	"github.com/PadShiftProject/padshift-core/pkg/forwarding"
	"github.com/PadShiftProject/padshift-core/pkg/helpers"
	"github.com/PadShiftProject/padshift-core/pkg/procwatch"
	"github.com/PadShiftProject/padshift-core/pkg/profiles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Service is a running PadShift core.
type Service struct {
	cfg     *config.Instance
	store   *profiles.Store
	policy  *anticheat.Policy
	engine  *forwarding.Engine
	watcher *procwatch.Watcher
	coord   *Coordinator
	ns      chan models.Notification
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// Start brings up the core. The caller must consume Notifications; the
// stream backs up otherwise.
func Start(cfg *config.Instance) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	dataDir := helpers.DataDir()
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ns := make(chan models.Notification, cfg.NotificationBuffer())

	log.Info().Msg("opening profile store")
	store, err := profiles.OpenStore(filepath.Join(dataDir, config.ProfilesDb))
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	log.Info().Msg("loading anti-cheat database")
	policy, err := loadPolicy(cfg, dataDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Info().Msgf("anti-cheat database: %d entries", policy.Count())

	hider, err := forwarding.NewPermissionHider(
		afero.NewOsFs(), filepath.Join(dataDir, config.HideStateFile))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load hide rule state: %w", err)
	}

	engine := forwarding.NewEngine(
		newBus(), hider, controllers.NewHIDProvider(), ns,
		forwarding.WithPumpInterval(cfg.PumpInterval()),
		forwarding.WithDriverTimeout(cfg.DriverTimeout()),
	)

	// Undo anything a previous abnormal exit left hidden before any new
	// session starts.
	if err := engine.ClearAllHideRules(); err != nil {
		log.Warn().Err(err).Msg("stale hide rule cleanup failed")
	}

	watcher := procwatch.New(newLister(),
		procwatch.WithPollInterval(cfg.WatcherPollInterval()))

	svc := &Service{
		cfg:     cfg,
		store:   store,
		policy:  policy,
		engine:  engine,
		watcher: watcher,
		coord:   NewCoordinator(engine, store, policy, ns),
		ns:      ns,
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel
	svc.group, ctx = errgroup.WithContext(ctx)

	if cfg.WatchAntiCheatDatabase() {
		svc.group.Go(func() error {
			if watchErr := policy.Watch(ctx); watchErr != nil {
				log.Warn().Err(watchErr).Msg("anti-cheat database watch stopped")
			}
			return nil
		})
	}

	if err := svc.RefreshWatchSet(ctx); err != nil {
		log.Warn().Err(err).Msg("initial watch set refresh failed")
	}

	svc.group.Go(func() error {
		svc.coord.Run(ctx, watcher.Events())
		return nil
	})

	log.Info().Msg("service started")
	return svc, nil
}

func loadPolicy(cfg *config.Instance, dataDir string) (*anticheat.Policy, error) {
	fsys := afero.NewOsFs()
	path := cfg.AntiCheatDatabase(dataDir)

	if _, err := fsys.Stat(path); os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("installing starter anti-cheat database")
		if writeErr := afero.WriteFile(fsys, path, assets.DefaultAntiCheatDB, 0o644); writeErr != nil {
			return nil, fmt.Errorf("failed to install anti-cheat database: %w", writeErr)
		}
	}

	policy, err := anticheat.Load(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load anti-cheat database: %w", err)
	}
	return policy, nil
}

// Notifications is the stream of core events.
func (s *Service) Notifications() <-chan models.Notification {
	return s.ns
}

// Coordinator exposes manual session control.
func (s *Service) Coordinator() *Coordinator {
	return s.coord
}

// Engine exposes session state and slot statistics.
func (s *Service) Engine() *forwarding.Engine {
	return s.engine
}

// RefreshWatchSet points the process watcher at the executables of every
// stored profile. Called after profile changes.
func (s *Service) RefreshWatchSet(ctx context.Context) error {
	all, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	names := make([]string, 0, len(all))
	seen := make(map[string]bool, len(all))
	for i := range all {
		exe := all[i].GameExecutable
		if exe == "" || seen[exe] {
			continue
		}
		seen[exe] = true
		names = append(names, exe)
	}

	if err := s.watcher.StartWatching(names); err != nil {
		return fmt.Errorf("failed to start process watcher: %w", err)
	}
	log.Info().Int("games", len(names)).Msg("watch set refreshed")
	return nil
}

// AddProfile stores a profile and adds its game to the watch set.
func (s *Service) AddProfile(ctx context.Context, profile *profiles.Profile) error {
	if err := s.store.Add(ctx, profile); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return s.RefreshWatchSet(ctx)
}

// DeleteProfile removes a profile and updates the watch set.
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return s.RefreshWatchSet(ctx)
}

// Profiles exposes stored profiles.
func (s *Service) Profiles(ctx context.Context) ([]profiles.Profile, error) {
	return s.store.List(ctx)
}

// Stop shuts the core down: any active session is torn down, the watcher
// stopped and the store closed.
func (s *Service) Stop() error {
	log.Info().Msg("stopping service")

	if err := s.coord.Deactivate(); err != nil {
		log.Debug().Err(err).Msg("no session to deactivate on shutdown")
	}

	s.watcher.Close()
	s.cancel()
	if err := s.group.Wait(); err != nil {
		log.Warn().Err(err).Msg("background worker error on shutdown")
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close profile store: %w", err)
	}
	return nil
}
