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

package procwatch

import "strings"

// EscapeWQL escapes a string for embedding in a WQL single-quoted literal.
// WQL has no backslash escapes; a single quote is escaped by doubling it.
func EscapeWQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// BuildProcessQuery builds the WQL query selecting the watched processes by
// executable name. With no names it selects every process and the caller
// filters.
func BuildProcessQuery(names []string) string {
	var b strings.Builder
	b.WriteString("SELECT ProcessId, Name FROM Win32_Process")
	for i, name := range names {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" OR ")
		}
		b.WriteString("Name = '")
		b.WriteString(EscapeWQL(name))
		b.WriteString("'")
	}
	return b.String()
}
