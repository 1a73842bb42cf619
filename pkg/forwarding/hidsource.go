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

package forwarding

import (
	"encoding/binary"
	"fmt"

	"github.com/PadShiftProject/padshift-core/pkg/helpers/syncutil"
	hid "github.com/sstallion/go-hid"
)

// reportSize covers the XInput-style report layout decoded below.
const reportSize = 14

// HIDSource reads input state from a physical controller through hidapi.
// Reports are decoded with a fixed XInput-style layout: two button bytes,
// two trigger bytes, then four little-endian stick axes. Controllers with
// other layouts still forward; their state is just interpreted through this
// frame.
type HIDSource struct {
	dev  *hid.Device
	last InputState
	mu   syncutil.Mutex
}

// OpenHIDSource opens the HID device at path for input relay.
func OpenHIDSource(path string) (*HIDSource, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDeviceDisconnected, path, err)
	}
	if err := dev.SetNonblock(true); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("failed to set nonblocking read on %s: %w", path, err)
	}
	return &HIDSource{dev: dev}, nil
}

// ReadState implements Source. When no fresh report is pending it returns
// the last decoded state; a failed read means the device is gone.
func (s *HIDSource) ReadState() (InputState, error) {
	buf := make([]byte, 64)
	n, err := s.dev.Read(buf)
	if err != nil {
		return Neutral, fmt.Errorf("%w: %w", ErrDeviceDisconnected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n >= reportSize {
		s.last = decodeReport(buf[:n])
	}
	return s.last, nil
}

// Rumble implements Source using the common 8-byte vibration output report:
// report ID, length, reserved, then left (low-frequency) and right
// (high-frequency) motor strengths.
func (s *HIDSource) Rumble(left, right uint8) error {
	report := []byte{0x00, 0x08, 0x00, left, right, 0x00, 0x00, 0x00}
	if _, err := s.dev.Write(report); err != nil {
		return fmt.Errorf("rumble write failed: %w", err)
	}
	return nil
}

// Close implements Source.
func (s *HIDSource) Close() error {
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("failed to close hid device: %w", err)
	}
	return nil
}

func decodeReport(buf []byte) InputState {
	return InputState{
		Buttons:      binary.LittleEndian.Uint16(buf[0:2]),
		LeftTrigger:  buf[2],
		RightTrigger: buf[3],
		LeftStickX:   int16(binary.LittleEndian.Uint16(buf[4:6])),  //nolint:gosec // axis is signed on the wire
		LeftStickY:   int16(binary.LittleEndian.Uint16(buf[6:8])),  //nolint:gosec // axis is signed on the wire
		RightStickX:  int16(binary.LittleEndian.Uint16(buf[8:10])), //nolint:gosec // axis is signed on the wire
		RightStickY:  int16(binary.LittleEndian.Uint16(buf[10:12])), //nolint:gosec // axis is signed on the wire
	}
}
