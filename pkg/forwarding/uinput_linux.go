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

package forwarding

import (
	"fmt"

	"github.com/bendahl/uinput"
)

const (
	uinputDevPath = "/dev/uinput"
	// virtualVendorID identifies PadShift virtual pads to anything
	// enumerating input devices.
	virtualVendorID = 0x1209
	virtualProduct  = 0x5053
	triggerOn       = 64
)

// buttonCodes maps relay button bits to uinput gamepad buttons in bit order.
var buttonCodes = []struct {
	bit  uint16
	code int
}{
	{ButtonSouth, uinput.ButtonSouth},
	{ButtonEast, uinput.ButtonEast},
	{ButtonWest, uinput.ButtonWest},
	{ButtonNorth, uinput.ButtonNorth},
	{ButtonLeftBumper, uinput.ButtonBumperLeft},
	{ButtonRightBumper, uinput.ButtonBumperRight},
	{ButtonBack, uinput.ButtonSelect},
	{ButtonStart, uinput.ButtonStart},
	{ButtonGuide, uinput.ButtonMode},
	{ButtonLeftStick, uinput.ButtonThumbLeft},
	{ButtonRightStick, uinput.ButtonThumbRight},
	{ButtonDPadUp, uinput.ButtonDpadUp},
	{ButtonDPadDown, uinput.ButtonDpadDown},
	{ButtonDPadLeft, uinput.ButtonDpadLeft},
	{ButtonDPadRight, uinput.ButtonDpadRight},
}

// UinputBus creates virtual gamepads through /dev/uinput and opens physical
// sources through hidapi.
type UinputBus struct{}

func NewUinputBus() *UinputBus {
	return &UinputBus{}
}

// OpenSource implements Bus.
func (*UinputBus) OpenSource(path string) (Source, error) {
	return OpenHIDSource(path)
}

// CreateSink implements Bus. Each slot gets a distinct product ID so the
// devices stay tellable apart in evdev listings.
func (*UinputBus) CreateSink(targetSlot int) (Sink, error) {
	name := fmt.Sprintf("PadShift Virtual Pad %d", targetSlot)
	pad, err := uinput.CreateGamepad(
		uinputDevPath,
		[]byte(name),
		virtualVendorID,
		uint16(virtualProduct+targetSlot), //nolint:gosec // slot is 0..3
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uinput gamepad for slot %d: %w", targetSlot, err)
	}
	return &uinputSink{pad: pad}, nil
}

type uinputSink struct {
	pad  uinput.Gamepad
	last InputState
}

// SendState implements Sink. Only the fields that changed since the last
// frame are written out, so a held button does not repeat events at the
// pump rate.
func (s *uinputSink) SendState(state InputState) error {
	for _, bc := range buttonCodes {
		now := state.Buttons&bc.bit != 0
		before := s.last.Buttons&bc.bit != 0
		if now == before {
			continue
		}
		var err error
		if now {
			err = s.pad.ButtonDown(bc.code)
		} else {
			err = s.pad.ButtonUp(bc.code)
		}
		if err != nil {
			return fmt.Errorf("failed to write button event: %w", err)
		}
	}

	if state.LeftStickX != s.last.LeftStickX || state.LeftStickY != s.last.LeftStickY {
		if err := s.pad.LeftStickMove(axisToFloat(state.LeftStickX), axisToFloat(state.LeftStickY)); err != nil {
			return fmt.Errorf("failed to move left stick: %w", err)
		}
	}
	if state.RightStickX != s.last.RightStickX || state.RightStickY != s.last.RightStickY {
		if err := s.pad.RightStickMove(axisToFloat(state.RightStickX), axisToFloat(state.RightStickY)); err != nil {
			return fmt.Errorf("failed to move right stick: %w", err)
		}
	}

	if err := s.sendTrigger(state.LeftTrigger, s.last.LeftTrigger, uinput.ButtonTriggerLeft); err != nil {
		return err
	}
	if err := s.sendTrigger(state.RightTrigger, s.last.RightTrigger, uinput.ButtonTriggerRight); err != nil {
		return err
	}

	s.last = state
	return nil
}

// sendTrigger exposes analog triggers as digital trigger buttons past a
// fixed threshold.
func (s *uinputSink) sendTrigger(now, before uint8, code int) error {
	nowOn := now >= triggerOn
	beforeOn := before >= triggerOn
	if nowOn == beforeOn {
		return nil
	}
	var err error
	if nowOn {
		err = s.pad.ButtonDown(code)
	} else {
		err = s.pad.ButtonUp(code)
	}
	if err != nil {
		return fmt.Errorf("failed to write trigger event: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *uinputSink) Close() error {
	if err := s.pad.Close(); err != nil {
		return fmt.Errorf("failed to destroy uinput gamepad: %w", err)
	}
	return nil
}

func axisToFloat(v int16) float32 {
	if v >= 0 {
		return float32(v) / 32767.0
	}
	return float32(v) / 32768.0
}
