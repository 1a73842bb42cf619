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

package anticheat

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the policy whenever its backing file changes on disk, until
// the context is cancelled. Reload failures keep the previous entries and
// are logged, not fatal: a half-written file must not blank the database.
func (p *Policy) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create anti-cheat database watcher: %w", err)
	}

	// Watch the parent directory so atomic rename-over updates are seen.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch anti-cheat database directory: %w", err)
	}

	go func() {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close anti-cheat database watcher")
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(p.path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				log.Debug().Str("path", p.path).Msg("anti-cheat database changed, reloading")
				if err := p.Reload(); err != nil {
					log.Warn().Err(err).Msg("anti-cheat database reload failed, keeping previous entries")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("anti-cheat database watcher error")
			}
		}
	}()

	return nil
}
