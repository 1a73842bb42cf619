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

// Package models defines the structured events the core emits for the shell
// and debug tooling. Formatting and delivery are the consumer's concern; the
// core only guarantees one event per state transition and per resolution
// pass, with enough fields to reconstruct the decision.
package models

const (
	NotificationSessionTransition = "session.transition"
	NotificationSlotsResolved     = "session.slotsResolved"
	NotificationDeviceHidden      = "devices.hidden"
	NotificationDeviceUnhidden    = "devices.unhidden"
	NotificationVirtualCreated    = "virtual.created"
	NotificationVirtualDestroyed  = "virtual.destroyed"
	NotificationGameStarted       = "watcher.gameStarted"
	NotificationGameStopped       = "watcher.gameStopped"
	NotificationGateDecision      = "anticheat.gateDecision"
)

// Notification is one event emitted by the core.
type Notification struct {
	Params any
	Method string
}

// SessionTransitionParams describes one forwarding session state change.
type SessionTransitionParams struct {
	SessionID string `json:"sessionId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Error     string `json:"error,omitempty"`
}

// SlotInfo is one resolved slot in a SlotsResolvedParams payload.
type SlotInfo struct {
	Declared   string `json:"declared"`
	SourcePath string `json:"sourcePath,omitempty"`
	Identity   string `json:"identity,omitempty"`
	TargetSlot int    `json:"targetSlot"`
	Filled     bool   `json:"filled"`
}

// SlotsResolvedParams describes one resolution pass: the declared
// assignments going in and the concrete slot map coming out.
type SlotsResolvedParams struct {
	SessionID string     `json:"sessionId"`
	Profile   string     `json:"profile"`
	Slots     []SlotInfo `json:"slots"`
}

// DeviceRuleParams describes the outcome of one hide or un-hide attempt.
type DeviceRuleParams struct {
	Path    string `json:"path"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// VirtualDeviceParams describes the outcome of one virtual controller
// create or destroy.
type VirtualDeviceParams struct {
	Error      string `json:"error,omitempty"`
	TargetSlot int    `json:"targetSlot"`
	Success    bool   `json:"success"`
}

// GameEventParams describes one watched process starting or stopping.
type GameEventParams struct {
	Executable string `json:"executable"`
	PID        int    `json:"pid"`
}

// GateDecisionParams describes one anti-cheat gate check.
type GateDecisionParams struct {
	Executable string `json:"executable"`
	Engine     string `json:"engine,omitempty"`
	Flagged    bool   `json:"flagged"`
	Allowed    bool   `json:"allowed"`
	Manual     bool   `json:"manual"`
}
