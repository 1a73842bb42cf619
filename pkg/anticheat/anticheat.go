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

// Package anticheat decides whether automatic forwarding is safe for a
// detected game. Titles known to ship an anti-cheat engine are flagged so
// the service never injects virtual controllers under them unprompted.
package anticheat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrPolicyLoad is returned when the flagged-titles database cannot be read
// or parsed. Callers must distinguish this from an empty database: a load
// failure never silently degrades to "no flagged games."
var ErrPolicyLoad = errors.New("failed to load anti-cheat database")

// Entry is one flagged title. Executable is the identity key, compared
// case-insensitively on the base name.
type Entry struct {
	Executable  string `csv:"executable"`
	Engine      string `csv:"engine"`
	DisplayName string `csv:"display_name"`
}

// Policy is the loaded flagged-titles database. An empty database is valid
// and flags nothing.
type Policy struct {
	fs      afero.Fs
	path    string
	entries map[string]Entry
	mu      syncutil.RWMutex
}

// Load reads the flagged-titles CSV at path. A missing or malformed file is
// a hard error wrapping ErrPolicyLoad.
func Load(fs afero.Fs, path string) (*Policy, error) {
	p := &Policy{
		fs:      fs,
		path:    path,
		entries: make(map[string]Entry),
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads the backing database. On failure the previous entries are
// kept and an error wrapping ErrPolicyLoad is returned.
func (p *Policy) Reload() error {
	f, err := p.fs.Open(p.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPolicyLoad, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close anti-cheat database")
		}
	}()

	var rows []Entry
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return fmt.Errorf("%w: %w", ErrPolicyLoad, err)
	}

	entries := make(map[string]Entry, len(rows))
	for _, row := range rows {
		exe := strings.TrimSpace(row.Executable)
		if exe == "" {
			return fmt.Errorf("%w: entry with empty executable", ErrPolicyLoad)
		}
		entries[strings.ToLower(exe)] = row
	}

	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()

	log.Info().Int("entries", len(entries)).Str("path", p.path).
		Msg("anti-cheat database loaded")
	return nil
}

// IsFlagged reports whether the executable base name belongs to a known
// anti-cheat title.
func (p *Policy) IsFlagged(executable string) bool {
	_, flagged := p.Lookup(executable)
	return flagged
}

// Lookup returns the entry for an executable base name, if flagged.
func (p *Policy) Lookup(executable string) (Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[strings.ToLower(strings.TrimSpace(executable))]
	return entry, ok
}

// Count returns the number of flagged titles.
func (p *Policy) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
