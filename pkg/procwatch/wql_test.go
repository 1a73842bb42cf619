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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeWQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no quotes unchanged", "eldenring.exe", "eldenring.exe"},
		{"single quote doubled", "game's.exe", "game''s.exe"},
		{"multiple quotes", "it's o'clock.exe", "it''s o''clock.exe"},
		{"already doubled quote doubled again", "a''b", "a''''b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EscapeWQL(tt.input))
		})
	}
}

func TestBuildProcessQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"SELECT ProcessId, Name FROM Win32_Process",
		BuildProcessQuery(nil))

	assert.Equal(t,
		"SELECT ProcessId, Name FROM Win32_Process WHERE Name = 'a.exe'",
		BuildProcessQuery([]string{"a.exe"}))

	assert.Equal(t,
		"SELECT ProcessId, Name FROM Win32_Process"+
			" WHERE Name = 'a.exe' OR Name = 'game''s.exe'",
		BuildProcessQuery([]string{"a.exe", "game's.exe"}))
}
