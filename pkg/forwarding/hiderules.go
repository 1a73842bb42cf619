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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// hideRule records a device node made inaccessible, with the mode to
// restore on unhide.
type hideRule struct {
	Path string `toml:"path"`
	Mode uint32 `toml:"mode"`
}

type hideRuleState struct {
	Rules []hideRule `toml:"rules"`
}

// PermissionHider hides devices by stripping all permission bits from the
// device node. Rules are persisted to a state file so a later run can undo
// rules a crashed session left behind.
type PermissionHider struct {
	fs        afero.Fs
	rules     map[string]hideRule
	statePath string
	mu        syncutil.Mutex
}

// NewPermissionHider loads any persisted rules from statePath. A missing
// state file means no rules.
func NewPermissionHider(fsys afero.Fs, statePath string) (*PermissionHider, error) {
	h := &PermissionHider{
		fs:        fsys,
		statePath: statePath,
		rules:     make(map[string]hideRule),
	}

	data, err := afero.ReadFile(fsys, statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to read hide rule state: %w", err)
	}

	var state hideRuleState
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse hide rule state: %w", err)
	}
	for _, r := range state.Rules {
		h.rules[r.Path] = r
	}
	return h, nil
}

// Hide implements HideService. Hiding an already hidden path is a no-op.
func (h *PermissionHider) Hide(devicePath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rules[devicePath]; ok {
		return nil
	}

	info, err := h.fs.Stat(devicePath)
	if err != nil {
		return fmt.Errorf("failed to stat device %s: %w", devicePath, err)
	}

	if err := h.fs.Chmod(devicePath, 0o000); err != nil {
		return fmt.Errorf("failed to hide device %s: %w", devicePath, err)
	}

	h.rules[devicePath] = hideRule{
		Path: devicePath,
		Mode: uint32(info.Mode().Perm()),
	}
	return h.persist()
}

// Unhide implements HideService. Unknown paths are a no-op.
func (h *PermissionHider) Unhide(devicePath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	rule, ok := h.rules[devicePath]
	if !ok {
		return nil
	}
	if err := h.restore(rule); err != nil {
		return err
	}
	delete(h.rules, devicePath)
	return h.persist()
}

// ClearAll implements HideService. It restores every recorded rule,
// dropping rules whose device node no longer exists, and is safe to call
// repeatedly.
func (h *PermissionHider) ClearAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for path, rule := range h.rules {
		if err := h.restore(rule); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could not restore hidden device")
		}
		delete(h.rules, path)
	}
	return h.persist()
}

// Count returns the number of live hide rules.
func (h *PermissionHider) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rules)
}

func (h *PermissionHider) restore(rule hideRule) error {
	if _, err := h.fs.Stat(rule.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat device %s: %w", rule.Path, err)
	}
	if err := h.fs.Chmod(rule.Path, fs.FileMode(rule.Mode)); err != nil {
		return fmt.Errorf("failed to unhide device %s: %w", rule.Path, err)
	}
	return nil
}

func (h *PermissionHider) persist() error {
	state := hideRuleState{Rules: make([]hideRule, 0, len(h.rules))}
	for _, r := range h.rules {
		state.Rules = append(state.Rules, r)
	}

	data, err := toml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("failed to encode hide rule state: %w", err)
	}

	if dir := filepath.Dir(h.statePath); dir != "." {
		if err := h.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}
	if err := afero.WriteFile(h.fs, h.statePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write hide rule state: %w", err)
	}
	return nil
}
