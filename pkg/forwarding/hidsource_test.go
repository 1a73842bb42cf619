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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want InputState
		buf  []byte
	}{
		{
			name: "neutral",
			buf:  make([]byte, reportSize),
			want: Neutral,
		},
		{
			name: "south button and full triggers",
			buf: []byte{
				0x01, 0x00, // buttons: south
				0xff, 0xff, // triggers
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00,
			},
			want: InputState{Buttons: ButtonSouth, LeftTrigger: 0xff, RightTrigger: 0xff},
		},
		{
			name: "stick extremes little endian",
			buf: []byte{
				0x00, 0x00,
				0x00, 0x00,
				0xff, 0x7f, // left X max
				0x00, 0x80, // left Y min
				0x01, 0x00, // right X 1
				0xff, 0xff, // right Y -1
				0x00, 0x00,
			},
			want: InputState{
				LeftStickX:  32767,
				LeftStickY:  -32768,
				RightStickX: 1,
				RightStickY: -1,
			},
		},
		{
			name: "dpad bits",
			buf: []byte{
				0x00, 0x08, // buttons high byte: dpad up
				0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00,
			},
			want: InputState{Buttons: ButtonDPadUp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decodeReport(tt.buf))
		})
	}
}
