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

//go:build linux

package procwatch

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockProcess creates a mock /proc/<pid>/ directory with comm and cmdline.
func createMockProcess(t *testing.T, procDir string, pid int, comm, cmdline string) {
	t.Helper()

	pidDir := filepath.Join(procDir, strconv.Itoa(pid))

	require.NoError(t, os.MkdirAll(pidDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(pidDir, "comm"), []byte(comm+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pidDir, "cmdline"), []byte(cmdline), 0o600))
}

func TestProcLister_List(t *testing.T) {
	t.Parallel()

	procDir := t.TempDir()
	createMockProcess(t, procDir, 100, "eldenring.exe", "/games/eldenring.exe\x00--windowed\x00")
	createMockProcess(t, procDir, 200, "bash", "/bin/bash\x00")

	// Non-PID entries are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(procDir, "sys"), 0o750))

	lister := NewProcLister(WithProcPath(procDir))
	procs, err := lister.List(nil)
	require.NoError(t, err)

	byPID := make(map[int]string, len(procs))
	for _, p := range procs {
		byPID[p.PID] = p.Executable
	}
	assert.Equal(t, "eldenring.exe", byPID[100])
	assert.Equal(t, "bash", byPID[200])
	assert.Len(t, procs, 2)
}

func TestProcLister_FallsBackToComm(t *testing.T) {
	t.Parallel()

	procDir := t.TempDir()
	// Kernel threads have an empty cmdline.
	createMockProcess(t, procDir, 42, "kworker", "")

	lister := NewProcLister(WithProcPath(procDir))
	procs, err := lister.List(nil)
	require.NoError(t, err)

	require.Len(t, procs, 1)
	assert.Equal(t, "kworker", procs[0].Executable)
}

func TestProcLister_MissingDir(t *testing.T) {
	t.Parallel()

	lister := NewProcLister(WithProcPath(filepath.Join(t.TempDir(), "nope")))
	_, err := lister.List(nil)
	assert.Error(t, err)
}
