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

// Package forwarding relocates live controller input between slots: it hides
// the assigned physical devices, creates one emulated controller per
// occupied target slot, and pumps state from each physical source to its
// virtual sink until the session ends.
package forwarding

import "errors"

var (
	// ErrDriverUnavailable means the hide or virtual-device subsystem is
	// not installed or not running.
	ErrDriverUnavailable = errors.New("device driver unavailable")
	// ErrDeviceDisconnected means a physical source device went away
	// mid-session. Non-fatal: the slot holds neutral until reconnect.
	ErrDeviceDisconnected = errors.New("physical device disconnected")
	// ErrVirtualDeviceCreation means an emulated controller could not be
	// created. Fatal to session start.
	ErrVirtualDeviceCreation = errors.New("virtual device creation failed")
	// ErrDriverTimeout means a hide/create/destroy driver call exceeded its
	// bounded timeout.
	ErrDriverTimeout = errors.New("driver call timed out")
	// ErrSessionBusy means a session is already in progress; full teardown
	// is required before another profile can activate.
	ErrSessionBusy = errors.New("forwarding session already in progress")
	// ErrNoSession means there is no session to stop.
	ErrNoSession = errors.New("no forwarding session active")
	// ErrNoAssignments means resolution filled no slots, so there is
	// nothing to forward.
	ErrNoAssignments = errors.New("no slot resolved to a connected device")
)

// ButtonBits identifies buttons in InputState.Buttons.
const (
	ButtonSouth uint16 = 1 << iota
	ButtonEast
	ButtonWest
	ButtonNorth
	ButtonLeftBumper
	ButtonRightBumper
	ButtonBack
	ButtonStart
	ButtonGuide
	ButtonLeftStick
	ButtonRightStick
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
)

// InputState is one gamepad state frame, relayed one-to-one from a physical
// source to a virtual sink. The zero value is the neutral state.
type InputState struct {
	Buttons      uint16
	LeftStickX   int16
	LeftStickY   int16
	RightStickX  int16
	RightStickY  int16
	LeftTrigger  uint8
	RightTrigger uint8
}

// Neutral is the all-zero state held on a slot whose physical device has
// disconnected.
var Neutral = InputState{}

// Source is an opened physical controller.
type Source interface {
	// ReadState returns the device's current input state. It must not
	// block past one polling interval; when no fresh report is available
	// it returns the last known state.
	ReadState() (InputState, error)
	// Rumble sets the vibration motors. Zero for both stops vibration.
	Rumble(left, right uint8) error
	Close() error
}

// Sink is a created virtual controller bound to one target slot.
type Sink interface {
	SendState(state InputState) error
	Close() error
}

// Bus opens physical source devices and creates virtual sinks.
type Bus interface {
	OpenSource(path string) (Source, error)
	CreateSink(targetSlot int) (Sink, error)
}

// HideService excludes physical devices from default OS enumeration so only
// the forwarding engine sees them. Hiding is a best-effort exclusivity
// layer, not a correctness requirement.
type HideService interface {
	Hide(path string) error
	Unhide(path string) error
	// ClearAll removes every hide rule unconditionally. Idempotent, so an
	// external watchdog can invoke it after an abnormal exit.
	ClearAll() error
}
