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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/PadShiftProject/padshift-core/pkg/anticheat"
	"github.com/PadShiftProject/padshift-core/pkg/api/models"
	"github.com/PadShiftProject/padshift-core/pkg/api/notifications"
	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/PadShiftProject/padshift-core/pkg/procwatch"
	"github.com/PadShiftProject/padshift-core/pkg/profiles"
	"github.com/rs/zerolog/log"
)

// engineController is the slice of the forwarding engine the coordinator
// drives.
type engineController interface {
	Start(ctx context.Context, profile *profiles.Profile) error
	Stop() error
}

// profileSource looks up stored profiles.
type profileSource interface {
	Get(ctx context.Context, name string) (*profiles.Profile, error)
	GetByExecutable(ctx context.Context, exe string) (*profiles.Profile, error)
	List(ctx context.Context) ([]profiles.Profile, error)
}

// gatePolicy answers whether an executable is known to carry kernel-level
// anti-cheat.
type gatePolicy interface {
	Lookup(executable string) (anticheat.Entry, bool)
}

// Coordinator ties the process watcher, the anti-cheat gate and the
// forwarding engine together: watched game starts activate their profile
// unless gated, watched game stops tear the session down. It is the single
// consumer of watcher events, so gate checks and session transitions never
// race each other.
type Coordinator struct {
	engine     engineController
	store      profileSource
	policy     gatePolicy
	ns         chan<- models.Notification
	activeExe  string
	activePID  int
	hasSession bool
	mu         syncutil.Mutex
}

func NewCoordinator(
	engine engineController,
	store profileSource,
	policy gatePolicy,
	ns chan<- models.Notification,
) *Coordinator {
	return &Coordinator{
		engine: engine,
		store:  store,
		policy: policy,
		ns:     ns,
	}
}

// Run consumes watcher events until the channel closes or ctx is done.
func (c *Coordinator) Run(ctx context.Context, events <-chan procwatch.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case procwatch.ProcessStarted:
				c.handleStarted(ctx, ev)
			case procwatch.ProcessStopped:
				c.handleStopped(ev)
			}
		}
	}
}

func (c *Coordinator) handleStarted(ctx context.Context, ev procwatch.Event) {
	notifications.GameStarted(c.ns, models.GameEventParams{
		Executable: ev.Executable,
		PID:        ev.PID,
	})

	entry, flagged := c.policy.Lookup(ev.Executable)
	decision := models.GateDecisionParams{
		Executable: ev.Executable,
		Flagged:    flagged,
		Allowed:    !flagged,
	}
	if flagged {
		decision.Engine = entry.Engine
	}
	notifications.GateDecision(c.ns, decision)

	if flagged {
		log.Warn().Str("exe", ev.Executable).Str("engine", entry.Engine).
			Msg("anti-cheat protected game detected, not activating")
		return
	}

	profile, err := c.store.GetByExecutable(ctx, ev.Executable)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			log.Debug().Str("exe", ev.Executable).Msg("no profile for watched game")
		} else {
			log.Error().Err(err).Str("exe", ev.Executable).Msg("profile lookup failed")
		}
		return
	}

	if err := c.engine.Start(ctx, profile); err != nil {
		log.Warn().Err(err).Str("profile", profile.Name).
			Str("exe", ev.Executable).Msg("session activation failed")
		return
	}

	c.mu.Lock()
	c.activeExe = ev.Executable
	c.activePID = ev.PID
	c.hasSession = true
	c.mu.Unlock()
	log.Info().Str("profile", profile.Name).Int("pid", ev.PID).Msg("session activated for game")
}

func (c *Coordinator) handleStopped(ev procwatch.Event) {
	notifications.GameStopped(c.ns, models.GameEventParams{
		Executable: ev.Executable,
		PID:        ev.PID,
	})

	c.mu.Lock()
	owns := c.hasSession && c.activePID == ev.PID
	if owns {
		c.hasSession = false
		c.activeExe = ""
		c.activePID = 0
	}
	c.mu.Unlock()
	if !owns {
		return
	}

	if err := c.engine.Stop(); err != nil {
		log.Warn().Err(err).Int("pid", ev.PID).Msg("session teardown after game exit failed")
	}
}

// ActivateProfile starts a session for a named profile on user request.
// Manual activation bypasses the gate, but the returned flag tells the
// caller the profile's game is anti-cheat protected so the UI can warn.
func (c *Coordinator) ActivateProfile(ctx context.Context, name string) (flagged bool, err error) {
	profile, err := c.store.Get(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to load profile %q: %w", name, err)
	}

	entry, flagged := c.policy.Lookup(profile.GameExecutable)
	decision := models.GateDecisionParams{
		Executable: profile.GameExecutable,
		Flagged:    flagged,
		Allowed:    true,
		Manual:     true,
	}
	if flagged {
		decision.Engine = entry.Engine
	}
	notifications.GateDecision(c.ns, decision)

	if err := c.engine.Start(ctx, profile); err != nil {
		return flagged, err
	}

	c.mu.Lock()
	c.activeExe = profile.GameExecutable
	c.activePID = 0
	c.hasSession = true
	c.mu.Unlock()
	return flagged, nil
}

// Deactivate tears down the current session on user request.
func (c *Coordinator) Deactivate() error {
	c.mu.Lock()
	c.hasSession = false
	c.activeExe = ""
	c.activePID = 0
	c.mu.Unlock()

	if err := c.engine.Stop(); err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	return nil
}

// ActiveGame returns the executable the current session was activated for,
// or "" when no session is active.
func (c *Coordinator) ActiveGame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasSession {
		return ""
	}
	return c.activeExe
}
