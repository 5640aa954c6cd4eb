// This file is part of c64core.
//
// c64core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64core.  If not, see <https://www.gnu.org/licenses/>.

// Package display defines the host presentation/input boundary spec §1/§6
// describe only as a "collaborator interface": pixel delivery, VBlank
// notification, the speed-meter integer, the drive-LED tuple, short
// notification strings, and the handful of user-initiated requests
// (quit/reset/prefs-editor/snapshot-load) the core itself never
// originates. Grounded on spec §6's own host-visible-events list; no
// teacher file models this boundary directly (Gopher2600's GUI and
// emulation core are not separated behind a narrow interface the way
// spec.md asks for here), so the interface shape follows spec §6's
// wording verbatim and system.FrameSink (already forward-declared in
// system.System) is embedded so any Collaborator wires straight into
// system.System.Display.
package display

import (
	"github.com/sixtyfour/c64core/iec"
	csystem "github.com/sixtyfour/c64core/system"
)

// Request names one of the handful of user-initiated actions the core
// polls for once per frame (spec §6); RequestNone means nothing is
// pending.
type Request int

const (
	RequestNone Request = iota
	RequestQuit
	RequestReset
	RequestPrefsEditor
	RequestSnapshotLoad
)

// Collaborator is the host windowing/audio/input boundary. It is out
// of scope as an *implementation* (spec §1), but the boundary itself
// is in scope: cmd/c64core's main loop drives a System against one of
// these each frame.
type Collaborator interface {
	csystem.FrameSink

	// VBlank is called once per frame, after NewFrame has delivered
	// every line for that frame; draw is false when the host
	// deliberately skips a render (catching up after a stall), matching
	// spec §6's "VBlank notification with draw/skip flag".
	VBlank(draw bool)

	// SetSpeed reports the scheduler's current speed as a percentage of
	// real time (100 = exact PAL speed), spec §6's "speed-meter
	// integer".
	SetSpeed(percent float64)

	// SetDriveLED updates the LED tuple for one IEC drive slot (0-3).
	SetDriveLED(drive int, state iec.LEDState)

	// Notify surfaces a short user-visible banner string (spec §7's
	// transient on-screen banners and "snapshot not accepted" message).
	Notify(message string)

	// PollRequest returns the next pending user request, if any. path
	// is populated only for RequestSnapshotLoad.
	PollRequest() (req Request, path string)
}
