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

// Package profiles holds saved slot-to-controller mappings and the resolver
// that matches them against connected devices.
package profiles

import (
	"strings"
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/controllers"
)

// SlotCount is the number of logical controller slots a game reads from.
const SlotCount = 4

// Profile is a named, persisted mapping from target slots to physical
// controller identities for one game. SlotAssignments always has exactly
// SlotCount entries; an empty string leaves that slot unassigned.
type Profile struct {
	CreatedAt       time.Time
	Name            string
	GameExecutable  string
	GamePath        string
	SlotAssignments []string
	SuppressHidden  bool
}

// NewProfile constructs a Profile with normalized slot assignments.
func NewProfile(name, gameExecutable string, slots []string) Profile {
	return Profile{
		Name:            name,
		GameExecutable:  gameExecutable,
		SlotAssignments: NormalizeSlots(slots),
		CreatedAt:       time.Now(),
	}
}

// NormalizeSlots pads or truncates a slot assignment list to exactly
// SlotCount entries. This invariant is enforced at every construction site,
// including rows read back from storage.
func NormalizeSlots(slots []string) []string {
	normalized := make([]string, SlotCount)
	for i := 0; i < SlotCount && i < len(slots); i++ {
		normalized[i] = strings.TrimSpace(slots[i])
	}
	return normalized
}

// Normalize re-applies the slot count invariant in place.
func (p *Profile) Normalize() {
	p.SlotAssignments = NormalizeSlots(p.SlotAssignments)
}

// MatchesExecutable reports whether this profile targets the given
// executable base name, compared case-insensitively.
func (p *Profile) MatchesExecutable(exe string) bool {
	return strings.EqualFold(p.GameExecutable, exe)
}

// SlotAssignment is the outcome of one resolution pass for one target slot.
// SourcePath is empty when the slot is unfilled, either because the profile
// left it blank or no matching device is connected.
type SlotAssignment struct {
	SourceIdentity *controllers.Identity
	SourcePath     string
	TargetSlot     int
	Forwarding     bool
}

// Filled reports whether the slot resolved to a physical device.
func (a *SlotAssignment) Filled() bool {
	return a.SourcePath != ""
}
