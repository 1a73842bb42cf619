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

package notifications

import "github.com/PadShiftProject/padshift-core/pkg/api/models"

func SessionTransition(ns chan<- models.Notification, payload models.SessionTransitionParams) {
	ns <- models.Notification{
		Method: models.NotificationSessionTransition,
		Params: payload,
	}
}

func SlotsResolved(ns chan<- models.Notification, payload models.SlotsResolvedParams) {
	ns <- models.Notification{
		Method: models.NotificationSlotsResolved,
		Params: payload,
	}
}

func DeviceHidden(ns chan<- models.Notification, payload models.DeviceRuleParams) {
	ns <- models.Notification{
		Method: models.NotificationDeviceHidden,
		Params: payload,
	}
}

func DeviceUnhidden(ns chan<- models.Notification, payload models.DeviceRuleParams) {
	ns <- models.Notification{
		Method: models.NotificationDeviceUnhidden,
		Params: payload,
	}
}

func VirtualCreated(ns chan<- models.Notification, payload models.VirtualDeviceParams) {
	ns <- models.Notification{
		Method: models.NotificationVirtualCreated,
		Params: payload,
	}
}

func VirtualDestroyed(ns chan<- models.Notification, payload models.VirtualDeviceParams) {
	ns <- models.Notification{
		Method: models.NotificationVirtualDestroyed,
		Params: payload,
	}
}

func GameStarted(ns chan<- models.Notification, payload models.GameEventParams) {
	ns <- models.Notification{
		Method: models.NotificationGameStarted,
		Params: payload,
	}
}

func GameStopped(ns chan<- models.Notification, payload models.GameEventParams) {
	ns <- models.Notification{
		Method: models.NotificationGameStopped,
		Params: payload,
	}
}

func GateDecision(ns chan<- models.Notification, payload models.GateDecisionParams) {
	ns <- models.Notification{
		Method: models.NotificationGateDecision,
		Params: payload,
	}
}
