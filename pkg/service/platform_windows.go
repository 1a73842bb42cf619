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

//go:build windows

package service

import (
	"fmt"

	"github.com/PadShiftProject/padshift-core/pkg/forwarding"
	"github.com/PadShiftProject/padshift-core/pkg/procwatch"
)

// hidOnlyBus opens physical sources but has no virtual device backend yet.
// Sessions on Windows need a virtual gamepad driver installed; until that
// integration lands, session starts report the driver as unavailable.
//
// TODO: back CreateSink with the ViGEmBus client.
type hidOnlyBus struct{}

func (hidOnlyBus) OpenSource(path string) (forwarding.Source, error) {
	return forwarding.OpenHIDSource(path)
}

func (hidOnlyBus) CreateSink(targetSlot int) (forwarding.Sink, error) {
	return nil, fmt.Errorf("%w: no virtual gamepad driver for slot %d",
		forwarding.ErrDriverUnavailable, targetSlot)
}

func newBus() forwarding.Bus {
	return hidOnlyBus{}
}

func newLister() procwatch.Lister {
	return procwatch.NewWMILister()
}
