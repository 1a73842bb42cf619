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
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	hid "github.com/sstallion/go-hid"
)

const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05
)

// HIDProvider enumerates connected gamepads through hidapi. It filters to
// generic desktop joystick/gamepad usages and returns devices in a stable
// path order so repeated snapshots of the same hardware agree.
type HIDProvider struct{}

// NewHIDProvider returns a SnapshotProvider backed by hidapi enumeration.
func NewHIDProvider() *HIDProvider {
	return &HIDProvider{}
}

// Snapshot implements SnapshotProvider.
func (*HIDProvider) Snapshot() ([]Device, error) {
	var devices []Device
	seen := make(map[string]bool)

	err := hid.Enumerate(0, 0, func(info *hid.DeviceInfo) error {
		if info.UsagePage != usagePageGenericDesktop {
			return nil
		}
		if info.Usage != usageJoystick && info.Usage != usageGamepad {
			return nil
		}
		if seen[info.Path] {
			return nil
		}
		seen[info.Path] = true
		devices = append(devices, Device{
			Identity: Identity{
				VendorID:  fmt.Sprintf("%04x", info.VendorID),
				ProductID: fmt.Sprintf("%04x", info.ProductID),
			},
			Path: info.Path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hid enumerate: %w", err)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})

	log.Debug().Int("count", len(devices)).Msg("controller snapshot taken")
	return devices, nil
}
