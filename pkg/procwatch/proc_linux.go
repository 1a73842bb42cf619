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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcLister lists processes by scanning a procfs mount. The executable name
// is taken from the last element of cmdline argv[0], falling back to comm
// (which the kernel truncates to 15 bytes) when cmdline is empty.
type ProcLister struct {
	procPath string
}

// ProcOption configures a ProcLister.
type ProcOption func(*ProcLister)

// WithProcPath sets a custom procfs path (for testing).
func WithProcPath(path string) ProcOption {
	return func(l *ProcLister) {
		l.procPath = path
	}
}

// NewProcLister returns a Lister backed by /proc.
func NewProcLister(opts ...ProcOption) *ProcLister {
	l := &ProcLister{procPath: "/proc"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List implements Lister. The name filter is applied by the watcher; this
// backend returns everything it can read.
func (l *ProcLister) List(_ []string) ([]ProcessInfo, error) {
	entries, err := os.ReadDir(l.procPath)
	if err != nil {
		return nil, fmt.Errorf("read proc directory: %w", err)
	}

	processes := make([]ProcessInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		exe, ok := l.readExecutable(pid)
		if !ok {
			continue
		}
		processes = append(processes, ProcessInfo{PID: pid, Executable: exe})
	}

	return processes, nil
}

func (l *ProcLister) readExecutable(pid int) (string, bool) {
	pidStr := strconv.Itoa(pid)

	cmdlineData, _ := os.ReadFile(filepath.Join(l.procPath, pidStr, "cmdline")) //nolint:gosec // procPath is controlled
	if argv0, _, _ := strings.Cut(string(cmdlineData), "\x00"); argv0 != "" {
		return filepath.Base(argv0), true
	}

	commData, err := os.ReadFile(filepath.Join(l.procPath, pidStr, "comm")) //nolint:gosec // procPath is controlled
	if err != nil {
		return "", false
	}
	comm := strings.TrimSpace(string(commData))
	if comm == "" {
		return "", false
	}
	return comm, true
}
