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

package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	id, err := ParseIdentity("045e:02fd")
	require.NoError(t, err)
	assert.Equal(t, "045e", id.VendorID)
	assert.Equal(t, "02fd", id.ProductID)
	assert.Equal(t, "045e:02fd", id.String())
}

func TestParseIdentity_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "045e", ":02fd", "045e:"} {
		_, err := ParseIdentity(s)
		assert.Error(t, err, "input %q should not parse", s)
	}
}

func TestIdentity_Equal_CaseInsensitive(t *testing.T) {
	t.Parallel()

	a := Identity{VendorID: "045e", ProductID: "02fd"}
	b := Identity{VendorID: "045E", ProductID: "02FD"}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(Identity{VendorID: "054c", ProductID: "0ce6"}))
}

func TestIdentity_Matches(t *testing.T) {
	t.Parallel()

	id := Identity{VendorID: "045E", ProductID: "02FD"}

	assert.True(t, id.Matches("045e:02fd"))
	assert.False(t, id.Matches(""))
	assert.False(t, id.Matches("garbage"))
	assert.False(t, id.Matches("054c:0ce6"))
}

func TestSnapshotFunc(t *testing.T) {
	t.Parallel()

	want := []Device{{Identity: Identity{VendorID: "045e", ProductID: "02fd"}, Path: "p1"}}
	var provider SnapshotProvider = SnapshotFunc(func() ([]Device, error) {
		return want, nil
	})

	got, err := provider.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
