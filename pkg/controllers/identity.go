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

// Package controllers defines physical controller identities and the device
// snapshot provider consumed by the profile resolver.
package controllers

import (
	"fmt"
	"strings"
)

// Identity identifies a physical controller model. VendorID and ProductID are
// 4-digit hex strings. Identity comparison is case-insensitive on the
// vendor:product pair; device paths are compared exactly.
type Identity struct {
	VendorID  string
	ProductID string
}

// ParseIdentity parses a "vvvv:pppp" vendor:product string.
func ParseIdentity(s string) (Identity, error) {
	vendor, product, ok := strings.Cut(s, ":")
	if !ok || vendor == "" || product == "" {
		return Identity{}, fmt.Errorf("invalid controller identity: %q", s)
	}
	return Identity{VendorID: vendor, ProductID: product}, nil
}

// String returns the identity in "vvvv:pppp" form.
func (i Identity) String() string {
	return i.VendorID + ":" + i.ProductID
}

// Equal reports whether two identities refer to the same controller model.
func (i Identity) Equal(other Identity) bool {
	return strings.EqualFold(i.VendorID, other.VendorID) &&
		strings.EqualFold(i.ProductID, other.ProductID)
}

// Matches reports whether the identity matches a declared "vvvv:pppp" pair.
// An empty declaration never matches.
func (i Identity) Matches(declared string) bool {
	if declared == "" {
		return false
	}
	other, err := ParseIdentity(declared)
	if err != nil {
		return false
	}
	return i.Equal(other)
}

// Device is one connected physical controller as seen by a snapshot pass.
type Device struct {
	Identity Identity
	Path     string
}

// SnapshotProvider supplies the ordered list of currently connected
// controllers. Implementations must return a fresh snapshot on every call;
// callers refresh before each resolution pass and on hot-plug.
type SnapshotProvider interface {
	Snapshot() ([]Device, error)
}

// SnapshotFunc adapts a function to the SnapshotProvider interface.
type SnapshotFunc func() ([]Device, error)

// Snapshot implements SnapshotProvider.
func (f SnapshotFunc) Snapshot() ([]Device, error) {
	return f()
}
