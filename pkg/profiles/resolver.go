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

package profiles

import (
	"github.com/PadShiftProject/padshift-core/pkg/controllers"
)

// Resolve matches a profile's declared slot assignments against the
// currently connected devices. It is pure and total: the result always has
// exactly SlotCount entries ordered by target slot, and a fixed input pair
// always yields the same output.
//
// Slots are filled in ascending order. Each declared vendor:product pair
// claims the first connected device, in snapshot order, that matches
// case-insensitively and has not been claimed by an earlier slot in the same
// pass. A device therefore satisfies at most one slot; when several slots
// request the same pair, snapshot order decides which unit each slot gets,
// and slots beyond the available units resolve unfilled.
func Resolve(profile *Profile, connected []controllers.Device) []SlotAssignment {
	declared := NormalizeSlots(profile.SlotAssignments)
	claimed := make([]bool, len(connected))

	assignments := make([]SlotAssignment, SlotCount)
	for slot := range SlotCount {
		assignments[slot] = SlotAssignment{TargetSlot: slot}

		if declared[slot] == "" {
			continue
		}
		for i, dev := range connected {
			if claimed[i] || !dev.Identity.Matches(declared[slot]) {
				continue
			}
			claimed[i] = true
			identity := dev.Identity
			assignments[slot].SourcePath = dev.Path
			assignments[slot].SourceIdentity = &identity
			break
		}
	}

	return assignments
}
