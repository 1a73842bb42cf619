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
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hideStatePath = "state/hiderules.toml"

func newHiderFixture(t *testing.T) (afero.Fs, *PermissionHider) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "dev/hidraw0", []byte("node"), 0o660))
	require.NoError(t, afero.WriteFile(fsys, "dev/hidraw1", []byte("node"), 0o644))
	h, err := NewPermissionHider(fsys, hideStatePath)
	require.NoError(t, err)
	return fsys, h
}

func modeOf(t *testing.T, fsys afero.Fs, path string) fs.FileMode {
	t.Helper()
	info, err := fsys.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}

func TestHideStripsPermissionsAndUnhideRestores(t *testing.T) {
	t.Parallel()

	fsys, h := newHiderFixture(t)

	require.NoError(t, h.Hide("dev/hidraw0"))
	assert.Equal(t, fs.FileMode(0), modeOf(t, fsys, "dev/hidraw0"))
	assert.Equal(t, 1, h.Count())

	// Hiding again keeps the original mode on record.
	require.NoError(t, h.Hide("dev/hidraw0"))
	assert.Equal(t, 1, h.Count())

	require.NoError(t, h.Unhide("dev/hidraw0"))
	assert.Equal(t, fs.FileMode(0o660), modeOf(t, fsys, "dev/hidraw0"))
	assert.Equal(t, 0, h.Count())
}

func TestUnhideUnknownPathIsNoop(t *testing.T) {
	t.Parallel()

	_, h := newHiderFixture(t)
	require.NoError(t, h.Unhide("dev/never-hidden"))
}

func TestHideMissingDeviceFails(t *testing.T) {
	t.Parallel()

	_, h := newHiderFixture(t)
	require.Error(t, h.Hide("dev/hidraw9"))
	assert.Equal(t, 0, h.Count())
}

func TestClearAllRestoresEverythingAndIsIdempotent(t *testing.T) {
	t.Parallel()

	fsys, h := newHiderFixture(t)
	require.NoError(t, h.Hide("dev/hidraw0"))
	require.NoError(t, h.Hide("dev/hidraw1"))

	require.NoError(t, h.ClearAll())
	assert.Equal(t, fs.FileMode(0o660), modeOf(t, fsys, "dev/hidraw0"))
	assert.Equal(t, fs.FileMode(0o644), modeOf(t, fsys, "dev/hidraw1"))
	assert.Equal(t, 0, h.Count())

	require.NoError(t, h.ClearAll())
	assert.Equal(t, 0, h.Count())
}

func TestRulesSurviveRestart(t *testing.T) {
	t.Parallel()

	fsys, h := newHiderFixture(t)
	require.NoError(t, h.Hide("dev/hidraw0"))

	// A fresh instance over the same state file sees the rule and can
	// undo what the previous run left behind.
	h2, err := NewPermissionHider(fsys, hideStatePath)
	require.NoError(t, err)
	assert.Equal(t, 1, h2.Count())

	require.NoError(t, h2.ClearAll())
	assert.Equal(t, fs.FileMode(0o660), modeOf(t, fsys, "dev/hidraw0"))
	assert.Equal(t, 0, h2.Count())
}

func TestClearAllDropsRulesForRemovedDevices(t *testing.T) {
	t.Parallel()

	fsys, h := newHiderFixture(t)
	require.NoError(t, h.Hide("dev/hidraw0"))
	require.NoError(t, fsys.Remove("dev/hidraw0"))

	require.NoError(t, h.ClearAll())
	assert.Equal(t, 0, h.Count())
}

func TestCorruptStateFileFailsLoad(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, hideStatePath, []byte("not = [toml"), 0o644))

	_, err := NewPermissionHider(fsys, hideStatePath)
	require.Error(t, err)
}
