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

// Package procwatch watches for tracked game processes starting and
// stopping. Lifecycles are keyed by PID, never by name, so two concurrent
// instances of the same executable are independent. Events are delivered
// over a channel; the notification source never calls into session state
// directly.
package procwatch

import (
	"strings"
	"sync"
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is the default process polling interval.
const DefaultPollInterval = 2 * time.Second

// EventType distinguishes process starts from stops.
type EventType int

const (
	// ProcessStarted is emitted exactly once when a matching process
	// instance is first seen.
	ProcessStarted EventType = iota
	// ProcessStopped is emitted exactly once when that instance exits.
	ProcessStopped
)

// Event is one process lifecycle notification.
type Event struct {
	Executable string
	PID        int
	Type       EventType
}

// ProcessInfo is one running process as reported by a Lister.
type ProcessInfo struct {
	Executable string
	PID        int
}

// Lister enumerates running processes. The watched names are passed so
// backends that can filter at the query level (WMI) do so; backends that
// cannot may ignore them and return everything.
type Lister interface {
	List(names []string) ([]ProcessInfo, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(names []string) ([]ProcessInfo, error)

// List implements Lister.
func (f ListerFunc) List(names []string) ([]ProcessInfo, error) {
	return f(names)
}

// Watcher polls a Lister and emits one start and one stop event per matching
// process instance. It is Idle until StartWatching is called with a
// non-empty name set, and returns to Idle on StopWatching.
type Watcher struct {
	lister       Lister
	clock        clockwork.Clock
	events       chan Event
	done         chan struct{}
	watched      map[string]string
	tracked      map[int]string
	wg           sync.WaitGroup
	pollInterval time.Duration
	mu           syncutil.Mutex
	watching     bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval sets the process polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithClock sets the clock used for polling (for tests).
func WithClock(clock clockwork.Clock) Option {
	return func(w *Watcher) {
		w.clock = clock
	}
}

// New creates a process watcher over the given backend.
func New(lister Lister, opts ...Option) *Watcher {
	w := &Watcher{
		lister:       lister,
		clock:        clockwork.NewRealClock(),
		events:       make(chan Event, 64),
		watched:      make(map[string]string),
		tracked:      make(map[int]string),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel lifecycle events are delivered on. The channel
// is never closed; consumers stop reading when they shut the watcher down.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watching reports whether the watcher is currently polling.
func (w *Watcher) Watching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

// StartWatching begins watching for the given executable base names,
// matched case-insensitively. An empty set is a no-op: the watcher stays
// Idle. Calling while already watching replaces the name set in place.
func (w *Watcher) StartWatching(names []string) error {
	filtered := make(map[string]string, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		filtered[strings.ToLower(name)] = name
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if len(filtered) == 0 && !w.watching {
		log.Debug().Msg("procwatch: empty watch set, staying idle")
		return nil
	}

	w.watched = filtered

	if w.watching {
		log.Debug().Int("names", len(filtered)).Msg("procwatch: watch set replaced")
		return nil
	}

	w.watching = true
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.pollLoop(w.done)

	log.Info().Int("names", len(filtered)).Msg("procwatch: watching started")
	return nil
}

// StopWatching stops polling and returns the watcher to Idle. It is
// idempotent and safe to call when never started. Tracked instances are
// forgotten without emitting stop events.
func (w *Watcher) StopWatching() {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		return
	}
	w.watching = false
	close(w.done)
	w.tracked = make(map[int]string)
	w.mu.Unlock()

	w.wg.Wait()
	log.Info().Msg("procwatch: watching stopped")
}

// Close releases the watcher. Safe to call multiple times and safe to call
// when never started.
func (w *Watcher) Close() {
	w.StopWatching()
}

func (w *Watcher) pollLoop(done chan struct{}) {
	defer w.wg.Done()

	w.scan(done)

	ticker := w.clock.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			w.scan(done)
		}
	}
}

// scan diffs the current process list against tracked instances and emits
// start/stop events. Events are prepared under the lock but sent outside it.
func (w *Watcher) scan(done chan struct{}) {
	w.mu.Lock()
	names := make([]string, 0, len(w.watched))
	for _, name := range w.watched {
		names = append(names, name)
	}
	w.mu.Unlock()

	procs, err := w.lister.List(names)
	if err != nil {
		log.Warn().Err(err).Msg("procwatch: process listing failed")
		return
	}

	var pending []Event

	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		return
	}

	alive := make(map[int]bool, len(procs))
	for _, proc := range procs {
		if _, ok := w.watched[strings.ToLower(proc.Executable)]; !ok {
			continue
		}
		alive[proc.PID] = true
		if _, ok := w.tracked[proc.PID]; ok {
			continue
		}
		w.tracked[proc.PID] = proc.Executable
		pending = append(pending, Event{
			Type:       ProcessStarted,
			Executable: proc.Executable,
			PID:        proc.PID,
		})
	}

	for pid, exe := range w.tracked {
		if alive[pid] {
			continue
		}
		delete(w.tracked, pid)
		pending = append(pending, Event{
			Type:       ProcessStopped,
			Executable: exe,
			PID:        pid,
		})
	}
	w.mu.Unlock()

	for _, event := range pending {
		log.Debug().
			Str("executable", event.Executable).
			Int("pid", event.PID).
			Bool("started", event.Type == ProcessStarted).
			Msg("procwatch: process event")
		select {
		case w.events <- event:
		case <-done:
			return
		}
	}
}
