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

package procwatch

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// win32Process mirrors the queried fields of the WMI Win32_Process class.
type win32Process struct {
	Name      string
	ProcessId uint32 //nolint:revive,staticcheck // field name must match WMI schema
}

// WMILister lists processes through WMI. Watched names are pushed down into
// the WQL WHERE clause, escaped per WQL rules, so only matching rows cross
// the COM boundary.
type WMILister struct{}

// NewWMILister returns a Lister backed by WMI Win32_Process queries.
func NewWMILister() *WMILister {
	return &WMILister{}
}

// List implements Lister.
func (*WMILister) List(names []string) ([]ProcessInfo, error) {
	query := BuildProcessQuery(names)

	var rows []win32Process
	if err := wmi.Query(query, &rows); err != nil {
		return nil, fmt.Errorf("wmi process query: %w", err)
	}

	processes := make([]ProcessInfo, 0, len(rows))
	for _, row := range rows {
		processes = append(processes, ProcessInfo{
			PID:        int(row.ProcessId),
			Executable: row.Name,
		})
	}
	return processes, nil
}
