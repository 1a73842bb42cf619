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

package procwatch

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLister is a Lister whose process list can be swapped between scans.
type fakeLister struct {
	mu    sync.Mutex
	procs []ProcessInfo
}

func (f *fakeLister) List(_ []string) ([]ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ProcessInfo, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *fakeLister) set(procs []ProcessInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
}

func receiveEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for watcher event")
		return Event{}
	}
}

func TestWatcher_EmptyWatchSetStaysIdle(t *testing.T) {
	t.Parallel()

	w := New(&fakeLister{})
	defer w.Close()

	require.NoError(t, w.StartWatching(nil))
	assert.False(t, w.Watching())

	require.NoError(t, w.StartWatching([]string{"", "  "}))
	assert.False(t, w.Watching())
}

func TestWatcher_StartStopEvents(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	clk := clockwork.NewFakeClock()
	w := New(lister, WithClock(clk), WithPollInterval(time.Second))
	defer w.Close()

	lister.set([]ProcessInfo{{PID: 100, Executable: "eldenring.exe"}})
	require.NoError(t, w.StartWatching([]string{"ELDENRING.EXE"}))
	assert.True(t, w.Watching())

	ev := receiveEvent(t, w)
	assert.Equal(t, ProcessStarted, ev.Type)
	assert.Equal(t, "eldenring.exe", ev.Executable)
	assert.Equal(t, 100, ev.PID)

	lister.set(nil)
	clk.BlockUntil(1)
	clk.Advance(time.Second)

	ev = receiveEvent(t, w)
	assert.Equal(t, ProcessStopped, ev.Type)
	assert.Equal(t, 100, ev.PID)
}

func TestWatcher_ExactlyOnceStartPerInstance(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	clk := clockwork.NewFakeClock()
	w := New(lister, WithClock(clk), WithPollInterval(time.Second))
	defer w.Close()

	lister.set([]ProcessInfo{{PID: 100, Executable: "game.exe"}})
	require.NoError(t, w.StartWatching([]string{"game.exe"}))

	ev := receiveEvent(t, w)
	require.Equal(t, ProcessStarted, ev.Type)

	// Further scans of the same instance must not emit again.
	for i := 0; i < 3; i++ {
		clk.BlockUntil(1)
		clk.Advance(time.Second)
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected duplicate event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_ConcurrentInstancesTrackedByPID(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	clk := clockwork.NewFakeClock()
	w := New(lister, WithClock(clk), WithPollInterval(time.Second))
	defer w.Close()

	lister.set([]ProcessInfo{
		{PID: 100, Executable: "game.exe"},
		{PID: 200, Executable: "game.exe"},
	})
	require.NoError(t, w.StartWatching([]string{"game.exe"}))

	started := map[int]bool{}
	for i := 0; i < 2; i++ {
		ev := receiveEvent(t, w)
		require.Equal(t, ProcessStarted, ev.Type)
		started[ev.PID] = true
	}
	assert.True(t, started[100])
	assert.True(t, started[200])

	// One instance exits; the other keeps its lifecycle.
	lister.set([]ProcessInfo{{PID: 200, Executable: "game.exe"}})
	clk.BlockUntil(1)
	clk.Advance(time.Second)

	ev := receiveEvent(t, w)
	assert.Equal(t, ProcessStopped, ev.Type)
	assert.Equal(t, 100, ev.PID)
}

func TestWatcher_RelaunchIsNewLifecycle(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	clk := clockwork.NewFakeClock()
	w := New(lister, WithClock(clk), WithPollInterval(time.Second))
	defer w.Close()

	lister.set([]ProcessInfo{{PID: 100, Executable: "game.exe"}})
	require.NoError(t, w.StartWatching([]string{"game.exe"}))
	require.Equal(t, ProcessStarted, receiveEvent(t, w).Type)

	// Relaunch under a new PID while the old instance lingers.
	lister.set([]ProcessInfo{
		{PID: 100, Executable: "game.exe"},
		{PID: 300, Executable: "game.exe"},
	})
	clk.BlockUntil(1)
	clk.Advance(time.Second)

	ev := receiveEvent(t, w)
	assert.Equal(t, ProcessStarted, ev.Type)
	assert.Equal(t, 300, ev.PID)
}

func TestWatcher_IgnoresUnwatchedProcesses(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	w := New(lister, WithClock(clockwork.NewFakeClock()), WithPollInterval(time.Second))
	defer w.Close()

	lister.set([]ProcessInfo{{PID: 100, Executable: "notepad.exe"}})
	require.NoError(t, w.StartWatching([]string{"game.exe"}))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for unwatched process: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_StopWatchingIdempotent(t *testing.T) {
	t.Parallel()

	w := New(&fakeLister{})

	// Never started.
	w.StopWatching()
	w.StopWatching()

	require.NoError(t, w.StartWatching([]string{"game.exe"}))
	w.StopWatching()
	w.StopWatching()
	assert.False(t, w.Watching())

	// Close twice as well.
	w.Close()
	w.Close()
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	clk := clockwork.NewFakeClock()
	w := New(lister, WithClock(clk), WithPollInterval(time.Second))
	defer w.Close()

	require.NoError(t, w.StartWatching([]string{"game.exe"}))
	w.StopWatching()

	lister.set([]ProcessInfo{{PID: 500, Executable: "game.exe"}})
	require.NoError(t, w.StartWatching([]string{"game.exe"}))

	ev := receiveEvent(t, w)
	assert.Equal(t, ProcessStarted, ev.Type)
	assert.Equal(t, 500, ev.PID)
}
