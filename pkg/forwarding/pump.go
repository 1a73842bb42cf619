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
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/controllers"
	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/PadShiftProject/padshift-core/pkg/profiles"
	"github.com/rs/zerolog/log"
)

// PumpStats is a snapshot of one slot's relay counters.
type PumpStats struct {
	LastError  string
	TargetSlot int
	Frames     uint64
	Connected  bool
}

// slotWorker owns one occupied target slot's handles. Handles are never
// shared between slots; the worker's own pump goroutine is the only reader
// of the source and the only writer of the sink.
type slotWorker struct {
	source   Source
	sink     Sink
	identity controllers.Identity
	path     string
	lastErr  string
	slot     int
	frames   uint64
	mu       syncutil.Mutex
}

func newSlotWorker(a profiles.SlotAssignment, sink Sink) *slotWorker {
	w := &slotWorker{
		slot: a.TargetSlot,
		path: a.SourcePath,
		sink: sink,
	}
	if a.SourceIdentity != nil {
		w.identity = *a.SourceIdentity
	}
	return w
}

func (w *slotWorker) snapshotStats() PumpStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return PumpStats{
		TargetSlot: w.slot,
		Frames:     w.frames,
		Connected:  w.source != nil,
		LastError:  w.lastErr,
	}
}

func (w *slotWorker) closeSource() {
	w.mu.Lock()
	src := w.source
	w.source = nil
	w.mu.Unlock()
	if src != nil {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Int("slot", w.slot).Msg("source close failed")
		}
	}
}

// pump relays input state from the slot's physical source to its virtual
// sink until the session is cancelled. A read failure is treated as a
// disconnect: the sink is held at neutral and the worker periodically looks
// for a device with the slot's expected identity coming back. A different
// identity never resumes this slot; that takes a fresh resolution pass.
func (e *Engine) pump(ctx context.Context, sess *session, w *slotWorker) {
	ticker := e.clock.NewTicker(e.pumpInterval)
	defer ticker.Stop()

	var lastReconnect time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		w.mu.Lock()
		src := w.source
		w.mu.Unlock()

		if src == nil {
			if err := w.sink.SendState(Neutral); err != nil {
				e.faultFromPump(sess.id, w, err)
				return
			}
			now := e.clock.Now()
			if now.Sub(lastReconnect) >= reconnectInterval {
				lastReconnect = now
				e.tryReconnect(sess, w)
			}
			continue
		}

		state, err := src.ReadState()
		if err != nil {
			log.Warn().Err(err).Int("slot", w.slot).Str("path", w.path).
				Msg("source read failed, holding neutral")
			w.mu.Lock()
			w.source = nil
			w.lastErr = err.Error()
			w.mu.Unlock()
			if closeErr := src.Close(); closeErr != nil {
				log.Debug().Err(closeErr).Int("slot", w.slot).Msg("source close after read failure")
			}
			if sendErr := w.sink.SendState(Neutral); sendErr != nil {
				e.faultFromPump(sess.id, w, sendErr)
				return
			}
			continue
		}

		if err := w.sink.SendState(state); err != nil {
			e.faultFromPump(sess.id, w, err)
			return
		}

		w.mu.Lock()
		w.frames++
		w.mu.Unlock()
	}
}

// tryReconnect scans the current snapshot for a device with this slot's
// expected identity that no other slot already owns, and resumes pumping
// from it without a re-resolution.
func (e *Engine) tryReconnect(sess *session, w *slotWorker) {
	snapshot, err := e.snapshots.Snapshot()
	if err != nil {
		log.Debug().Err(err).Int("slot", w.slot).Msg("reconnect snapshot failed")
		return
	}

	claimed := make(map[string]bool, len(sess.workers))
	for _, other := range sess.workers {
		if other == w {
			continue
		}
		other.mu.Lock()
		if other.source != nil {
			claimed[other.path] = true
		}
		other.mu.Unlock()
	}

	for _, dev := range snapshot {
		if claimed[dev.Path] || !dev.Identity.Equal(w.identity) {
			continue
		}
		src, openErr := e.bus.OpenSource(dev.Path)
		if openErr != nil {
			log.Debug().Err(openErr).Str("path", dev.Path).
				Int("slot", w.slot).Msg("reconnect open failed")
			continue
		}
		w.mu.Lock()
		w.source = src
		w.path = dev.Path
		w.lastErr = ""
		w.mu.Unlock()
		log.Info().Int("slot", w.slot).Str("path", dev.Path).
			Msg("source reconnected, resuming pump")
		return
	}
}

// faultFromPump marks the session Faulted when a sink write fails: the
// virtual device side is gone, which is unrecoverable for this session.
// Teardown still runs when the stop request arrives.
func (e *Engine) faultFromPump(sessionID string, w *slotWorker, err error) {
	log.Error().Err(err).Int("slot", w.slot).Msg("virtual sink write failed, session faulted")
	w.mu.Lock()
	w.lastErr = err.Error()
	w.mu.Unlock()

	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.setState(sessionID, StateFaulted, err)
}
