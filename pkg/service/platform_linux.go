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

//go:build linux

package service

import (
	"github.com/PadShiftProject/padshift-core/pkg/forwarding"
	"github.com/PadShiftProject/padshift-core/pkg/procwatch"
)

func newBus() forwarding.Bus {
	return forwarding.NewUinputBus()
}

func newLister() procwatch.Lister {
	return procwatch.NewProcLister()
}
