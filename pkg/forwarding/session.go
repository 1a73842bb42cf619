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

package forwarding

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/api/models"
	"github.com/PadShiftProject/padshift-core/pkg/api/notifications"
	"github.com/PadShiftProject/padshift-core/pkg/controllers"
	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/PadShiftProject/padshift-core/pkg/profiles"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// State is a forwarding session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateHiding
	StateActive
	StateTearingDown
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateHiding:
		return "hiding"
	case StateActive:
		return "active"
	case StateTearingDown:
		return "tearingDown"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

const (
	// DefaultPumpInterval is the per-slot input relay rate.
	DefaultPumpInterval = 4 * time.Millisecond
	// DefaultDriverTimeout bounds every hide/create/destroy driver call.
	// Expiry is treated as failure per the session's best-effort rules.
	DefaultDriverTimeout = 2 * time.Second
	// reconnectInterval is how often a disconnected slot looks for its
	// device coming back.
	reconnectInterval = 500 * time.Millisecond
)

// session owns the scarce per-slot resources while forwarding is active:
// the opened physical handles, created virtual devices, hide rules and pump
// goroutines. It is created on entry to Active and fully released on any
// exit path.
type session struct {
	cancel  context.CancelFunc
	id      string
	workers []*slotWorker
	hidden  []string
	wg      sync.WaitGroup
}

// Engine orchestrates forwarding sessions over a driver Bus, a HideService
// and a device snapshot provider. All state transitions are serialized
// through a single mutex: a stop request arriving mid-activation waits for
// the activation to finish, then proceeds.
type Engine struct {
	bus           Bus
	hider         HideService
	snapshots     controllers.SnapshotProvider
	clock         clockwork.Clock
	ns            chan<- models.Notification
	session       *session
	pumpInterval  time.Duration
	driverTimeout time.Duration
	transitionMu  syncutil.Mutex
	mu            syncutil.RWMutex
	state         State
}

// Option configures an Engine.
type Option func(*Engine)

// WithPumpInterval sets the per-slot relay interval.
func WithPumpInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.pumpInterval = d
	}
}

// WithDriverTimeout sets the bounded timeout for driver calls.
func WithDriverTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.driverTimeout = d
	}
}

// WithClock sets the clock used for pump ticks and timeouts (for tests).
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine creates a forwarding engine. Structured events are emitted on ns
// for every state transition and resolution pass.
func NewEngine(
	bus Bus,
	hider HideService,
	snapshots controllers.SnapshotProvider,
	ns chan<- models.Notification,
	opts ...Option,
) *Engine {
	e := &Engine{
		bus:           bus,
		hider:         hider,
		snapshots:     snapshots,
		ns:            ns,
		clock:         clockwork.NewRealClock(),
		pumpInterval:  DefaultPumpInterval,
		driverTimeout: DefaultDriverTimeout,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current session state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SlotStats returns per-slot pump statistics for the active session, ordered
// by target slot. Nil when no session is active.
func (e *Engine) SlotStats() []PumpStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return nil
	}
	stats := make([]PumpStats, 0, len(e.session.workers))
	for _, w := range e.session.workers {
		stats = append(stats, w.snapshotStats())
	}
	return stats
}

// ClearAllHideRules removes every hide rule unconditionally. Called at
// service start so rules left behind by an abnormal exit never orphan a
// controller.
func (e *Engine) ClearAllHideRules() error {
	if err := e.hider.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear hide rules: %w", err)
	}
	return nil
}

// Start activates forwarding for a profile: Idle → Resolving → Hiding →
// Active. The caller refreshes gating (anti-cheat, manual override) before
// calling; the engine itself only enforces session exclusivity. On any
// failure the engine unwinds whatever it had built and finishes back in
// Idle, returning the error once.
func (e *Engine) Start(ctx context.Context, profile *profiles.Profile) error {
	e.transitionMu.Lock()
	defer e.transitionMu.Unlock()

	if e.State() != StateIdle {
		return ErrSessionBusy
	}

	sessionID := uuid.New().String()
	e.setState(sessionID, StateResolving, nil)

	snapshot, err := e.snapshots.Snapshot()
	if err != nil {
		err = fmt.Errorf("device snapshot failed: %w", err)
		e.setState(sessionID, StateIdle, err)
		return err
	}

	assignments := profiles.Resolve(profile, snapshot)
	e.emitResolution(sessionID, profile, assignments)

	filled := make([]profiles.SlotAssignment, 0, profiles.SlotCount)
	for _, a := range assignments {
		if a.Filled() {
			filled = append(filled, a)
		}
	}
	if len(filled) == 0 {
		e.setState(sessionID, StateIdle, ErrNoAssignments)
		return ErrNoAssignments
	}

	sess := &session{id: sessionID}

	// Hide every claimed device before any virtual device exists, so the
	// game never sees both. A failed hide degrades that one device only.
	e.setState(sessionID, StateHiding, nil)
	for _, a := range filled {
		hideErr := e.callDriver(func() error { return e.hider.Hide(a.SourcePath) })
		e.emitDeviceRule(notifications.DeviceHidden, a.SourcePath, hideErr)
		if hideErr != nil {
			log.Warn().Err(hideErr).Str("path", a.SourcePath).
				Msg("hide failed, forwarding without hiding this device")
			continue
		}
		sess.hidden = append(sess.hidden, a.SourcePath)
	}

	// Create sinks in ascending slot order. Any creation failure faults
	// the session and unwinds everything built in this pass: partial
	// virtual-device state is never left active.
	for _, a := range filled {
		sink, createErr := e.createSink(a.TargetSlot)
		e.emitVirtual(notifications.VirtualCreated, a.TargetSlot, createErr)
		if createErr != nil {
			e.setState(sessionID, StateFaulted, createErr)
			e.teardown(sess)
			return createErr
		}

		worker := newSlotWorker(a, sink)
		if src, openErr := e.bus.OpenSource(a.SourcePath); openErr != nil {
			// Treated like a disconnect: the slot starts on neutral
			// hold and the pump keeps looking for the device.
			log.Warn().Err(openErr).Int("slot", a.TargetSlot).
				Str("path", a.SourcePath).Msg("source open failed, starting on neutral hold")
		} else {
			worker.source = src
		}
		sess.workers = append(sess.workers, worker)
	}

	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess.cancel = cancel
	for _, w := range sess.workers {
		sess.wg.Add(1)
		go func(w *slotWorker) {
			defer sess.wg.Done()
			e.pump(pumpCtx, sess, w)
		}(w)
	}

	e.mu.Lock()
	e.session = sess
	e.mu.Unlock()
	e.setState(sessionID, StateActive, nil)
	return nil
}

// Stop deactivates the current session: Active (or Faulted) → TearingDown →
// Idle. Teardown is best-effort; each step's failure is logged and never
// blocks the remaining steps.
func (e *Engine) Stop() error {
	e.transitionMu.Lock()
	defer e.transitionMu.Unlock()

	e.mu.Lock()
	sess := e.session
	state := e.state
	e.session = nil
	e.mu.Unlock()

	if sess == nil || (state != StateActive && state != StateFaulted) {
		return ErrNoSession
	}

	e.teardown(sess)
	return nil
}

// teardown releases every session resource in reverse order of acquisition:
// pumps cancelled and joined, virtual devices destroyed in descending slot
// order, physical devices un-hidden and closed. Runs under transitionMu.
func (e *Engine) teardown(sess *session) {
	e.setState(sess.id, StateTearingDown, nil)

	if sess.cancel != nil {
		sess.cancel()
	}
	sess.wg.Wait()

	sort.Slice(sess.workers, func(i, j int) bool {
		return sess.workers[i].slot > sess.workers[j].slot
	})
	for _, w := range sess.workers {
		sinkErr := e.callDriver(w.sink.Close)
		e.emitVirtual(notifications.VirtualDestroyed, w.slot, sinkErr)
		if sinkErr != nil {
			log.Warn().Err(sinkErr).Int("slot", w.slot).Msg("virtual device destroy failed")
		}
		w.closeSource()
	}

	for _, path := range sess.hidden {
		unhideErr := e.callDriver(func() error { return e.hider.Unhide(path) })
		e.emitDeviceRule(notifications.DeviceUnhidden, path, unhideErr)
		if unhideErr != nil {
			log.Warn().Err(unhideErr).Str("path", path).Msg("unhide failed")
		}
	}

	e.setState(sess.id, StateIdle, nil)
}

func (e *Engine) createSink(slot int) (Sink, error) {
	var sink Sink
	err := e.callDriver(func() error {
		s, createErr := e.bus.CreateSink(slot)
		if createErr != nil {
			return createErr
		}
		sink = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d: %w", ErrVirtualDeviceCreation, slot, err)
	}
	return sink, nil
}

// callDriver runs a driver call with a bounded timeout. Expiry is failure;
// the call itself is left to finish in the background.
func (e *Engine) callDriver(fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-e.clock.After(e.driverTimeout):
		return ErrDriverTimeout
	}
}

// setState records a transition and emits exactly one event for it.
func (e *Engine) setState(sessionID string, to State, cause error) {
	e.mu.Lock()
	from := e.state
	e.state = to
	e.mu.Unlock()

	payload := models.SessionTransitionParams{
		SessionID: sessionID,
		From:      from.String(),
		To:        to.String(),
	}
	if cause != nil {
		payload.Error = cause.Error()
	}

	log.Info().Str("session", sessionID).
		Str("from", payload.From).Str("to", payload.To).
		Msg("session transition")
	if e.ns != nil {
		notifications.SessionTransition(e.ns, payload)
	}
}

// emitResolution emits one event per resolution pass with the declared and
// resolved slot maps.
func (e *Engine) emitResolution(
	sessionID string, profile *profiles.Profile, assignments []profiles.SlotAssignment,
) {
	if e.ns == nil {
		return
	}
	declared := profiles.NormalizeSlots(profile.SlotAssignments)
	slots := make([]models.SlotInfo, 0, len(assignments))
	for i, a := range assignments {
		info := models.SlotInfo{
			TargetSlot: a.TargetSlot,
			Declared:   declared[i],
			Filled:     a.Filled(),
			SourcePath: a.SourcePath,
		}
		if a.SourceIdentity != nil {
			info.Identity = a.SourceIdentity.String()
		}
		slots = append(slots, info)
	}
	notifications.SlotsResolved(e.ns, models.SlotsResolvedParams{
		SessionID: sessionID,
		Profile:   profile.Name,
		Slots:     slots,
	})
}

func (e *Engine) emitDeviceRule(
	emit func(chan<- models.Notification, models.DeviceRuleParams), path string, err error,
) {
	if e.ns == nil {
		return
	}
	payload := models.DeviceRuleParams{Path: path, Success: err == nil}
	if err != nil {
		payload.Error = err.Error()
	}
	emit(e.ns, payload)
}

func (e *Engine) emitVirtual(
	emit func(chan<- models.Notification, models.VirtualDeviceParams), slot int, err error,
) {
	if e.ns == nil {
		return
	}
	payload := models.VirtualDeviceParams{TargetSlot: slot, Success: err == nil}
	if err != nil {
		payload.Error = err.Error()
	}
	emit(e.ns, payload)
}
