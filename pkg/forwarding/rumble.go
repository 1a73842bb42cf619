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
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// IdentifyDuration is the length of an identification pulse.
	IdentifyDuration = 200 * time.Millisecond
	// identifyMagnitude is the motor strength of the pulse.
	identifyMagnitude = 0xff
)

// Identify issues a short full-strength vibration burst to the physical
// device at path so a user can tell controllers apart. The burst runs in
// parallel with any session transition and restores the motors on its own;
// it is not required to complete before a transition proceeds. A device
// already mid-teardown simply fails to open.
func (e *Engine) Identify(path string) error {
	src, err := e.bus.OpenSource(path)
	if err != nil {
		return fmt.Errorf("failed to open device for identify: %w", err)
	}

	if err := src.Rumble(identifyMagnitude, identifyMagnitude); err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to start identify pulse: %w", err)
	}

	go func() {
		<-e.clock.After(IdentifyDuration)
		if err := src.Rumble(0, 0); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("identify pulse stop failed")
		}
		if err := src.Close(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("identify device close failed")
		}
	}()

	return nil
}
