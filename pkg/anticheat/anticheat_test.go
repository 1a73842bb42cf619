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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDB = `executable,engine,display_name
eldenring.exe,Easy Anti-Cheat,ELDEN RING
VALORANT.exe,Vanguard,VALORANT
r5apex.exe,Easy Anti-Cheat,Apex Legends
`

func loadTestPolicy(t *testing.T, contents string) *Policy {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/anticheat.csv", []byte(contents), 0o644))

	policy, err := Load(fs, "/data/anticheat.csv")
	require.NoError(t, err)
	return policy
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(afero.NewMemMapFs(), "/data/missing.csv")
	assert.ErrorIs(t, err, ErrPolicyLoad)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs,
		"/data/anticheat.csv", []byte("executable,engine\n,orphan"), 0o644))

	_, err := Load(fs, "/data/anticheat.csv")
	assert.ErrorIs(t, err, ErrPolicyLoad)
}

func TestPolicy_IsFlagged_CaseInsensitive(t *testing.T) {
	t.Parallel()

	policy := loadTestPolicy(t, testDB)

	assert.True(t, policy.IsFlagged("eldenring.exe"))
	assert.True(t, policy.IsFlagged("ELDENRING.EXE"))
	assert.Equal(t, policy.IsFlagged("ELDENRING.EXE"), policy.IsFlagged("eldenring.exe"))
	assert.True(t, policy.IsFlagged("valorant.exe"))
	assert.False(t, policy.IsFlagged("notepad.exe"))
}

func TestPolicy_EmptyDatabaseFlagsNothing(t *testing.T) {
	t.Parallel()

	policy := loadTestPolicy(t, "executable,engine,display_name\n")

	assert.Equal(t, 0, policy.Count())
	assert.False(t, policy.IsFlagged("eldenring.exe"))
	assert.False(t, policy.IsFlagged(""))
}

func TestPolicy_Lookup(t *testing.T) {
	t.Parallel()

	policy := loadTestPolicy(t, testDB)

	entry, ok := policy.Lookup("R5APEX.EXE")
	require.True(t, ok)
	assert.Equal(t, "Easy Anti-Cheat", entry.Engine)
	assert.Equal(t, "Apex Legends", entry.DisplayName)

	_, ok = policy.Lookup("unknown.exe")
	assert.False(t, ok)
}

func TestPolicy_Reload_KeepsEntriesOnFailure(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/anticheat.csv", []byte(testDB), 0o644))

	policy, err := Load(fs, "/data/anticheat.csv")
	require.NoError(t, err)
	require.Equal(t, 3, policy.Count())

	require.NoError(t, fs.Remove("/data/anticheat.csv"))

	assert.ErrorIs(t, policy.Reload(), ErrPolicyLoad)
	assert.Equal(t, 3, policy.Count(), "failed reload must keep previous entries")
	assert.True(t, policy.IsFlagged("eldenring.exe"))
}
