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

// Package system implements the top-level "System" aggregate spec §4.7
// and §9 describe: a monotonic per-cycle scheduler driving the host
// 6510, VIC-II, both CIAs, SID and (optionally) the 1541 drive's own
// CPU in lockstep, in either cycle-accurate or coarser line-stepped
// mode. Grounded on Gopher2600's emulation state-machine idiom
// (debugger/govern.State's Running/Paused/Rewinding enumeration,
// adapted here without the debugger-only Stepping/Initialising/Ending
// states this aggregate has no use for) and on memory/system.System's
// already-built bus aggregate, which this package drives rather than
// duplicates.
package system

import (
	"fmt"

	"github.com/sixtyfour/c64core/cia"
	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/drivecpu"
	memsys "github.com/sixtyfour/c64core/memory/system"
	"github.com/sixtyfour/c64core/sid"
	"github.com/sixtyfour/c64core/vic"
)

// State mirrors govern.State's shape, trimmed to the
// states this headless core scheduler itself drives (the debugger-only
// Stepping/Initialising/Ending states belong to an interactive
// front-end, not this package).
type State int

const (
	Paused State = iota
	Running
	Rewinding
)

func (s State) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Rewinding:
		return "Rewinding"
	}
	return ""
}

// Mode selects the scheduler's stepping granularity (spec §4.7);
// switching modes mid-run is unsupported (DESIGN.md's Open Questions
// §3: cycle-mode and line-mode snapshots are never mixed, and neither
// is live switching between the two).
type Mode int

const (
	CycleMode Mode = iota
	LineMode
)

const (
	linesPerFrame  = vic.LinesPerFrame
	cyclesPerLine  = vic.CyclesPerLine
	cyclesPerFrame = linesPerFrame * cyclesPerLine
)

// FrameSink receives one fully rendered PAL frame's worth of pixel
// rows (spec §4.7's "feeds the pixel buffer to the display
// collaborator"); display.Collaborator implements this once built.
type FrameSink interface {
	NewFrame(line int, pixels [vic.DisplayWidth]uint8)
}

// InputPoller is asked once per VBlank to refresh joystick/keyboard
// state into the CIA ports this System already wires up.
type InputPoller interface {
	PollInput()
}

// System is the headless per-cycle scheduler. The zero value is not
// usable; construct with New.
type System struct {
	Mem  *memsys.System
	CPU  *cpu.CPU
	VIC  *vic.VIC
	CIA1 *cia.CIA
	CIA2 *cia.CIA
	SID  *sid.SID

	// Drive and DriveCPU are both nil when processor-level 1541
	// emulation is disabled (DOS-level drives serve IEC traffic
	// instead, spec §4.6).
	Drive    *drivecpu.System
	DriveCPU *cpu.CPU

	Display FrameSink
	Input   InputPoller

	Mode  Mode
	State State

	cycle uint64 // monotonic 32-bit (wrapping) master-cycle counter, widened for arithmetic convenience
	line  int
}

// New constructs a System in Paused state, cycle-accurate mode.
func New(mem *memsys.System, c *cpu.CPU, v *vic.VIC, cia1, cia2 *cia.CIA, s *sid.SID) *System {
	return &System{Mem: mem, CPU: c, VIC: v, CIA1: cia1, CIA2: cia2, SID: s}
}

// Cycle returns the scheduler's monotonic master-cycle counter,
// truncated to the 32-bit width gcr.Head and the rest of the disk
// layer expect (spec §4.7's "monotonic 32-bit cycle counter
// timestamp").
func (s *System) Cycle() uint32 { return uint32(s.cycle) }

// SetCycle restores the master-cycle counter to a value a snapshot
// recorded; used only by snapshot/rewind restore, never during normal
// running.
func (s *System) SetCycle(cycle uint64) { s.cycle = cycle }

// RunFrame advances exactly one PAL frame (312 lines), in whichever
// Mode is selected. Each finished raster line goes to Display as it
// completes and the drive CPU (if present) is stepped in lockstep with
// every cycle; at the end of the frame RunFrame performs the VBlank
// housekeeping (polling Input).
func (s *System) RunFrame() error {
	switch s.Mode {
	case CycleMode:
		return s.runFrameCycleMode()
	case LineMode:
		return s.runFrameLineMode()
	default:
		return fmt.Errorf("system: unknown mode %d", s.Mode)
	}
}

// runFrameCycleMode steps every chip exactly once per master cycle,
// the most accurate (and most expensive) scheduling granularity.
func (s *System) runFrameCycleMode() error {
	for i := 0; i < cyclesPerFrame; i++ {
		if _, err := s.CPU.Step(s.cycle); err != nil {
			return err
		}
		s.stepChips()
		s.cycle++
		if line, ready := s.VIC.Line(); ready {
			if s.Display != nil {
				s.Display.NewFrame(int(s.VIC.RasterLine()), line)
			}
		}
	}
	s.onVBlank()
	return nil
}

// runFrameLineMode steps the CPU by whole instructions against a
// per-line cycle budget (spec §4.7's "312 lines with a cycles-per-line
// budget"), trading bus-level accuracy (mid-instruction BA stalls
// aren't observed) for speed.
func (s *System) runFrameLineMode() error {
	for line := 0; line < linesPerFrame; line++ {
		budget := cyclesPerLine
		for budget > 0 {
			spent, err := s.CPU.ExecuteInstruction(s.cycle)
			if err != nil {
				return err
			}
			if spent <= 0 {
				spent = 1
			}
			for i := 0; i < spent; i++ {
				s.stepChips()
				s.cycle++
			}
			budget -= spent
		}
		if pixels, ready := s.VIC.Line(); ready {
			if s.Display != nil {
				s.Display.NewFrame(line, pixels)
			}
		}
	}
	s.onVBlank()
	return nil
}

// stepChips advances every memory-mapped chip and (if wired) the
// drive CPU by exactly one master cycle.
func (s *System) stepChips() {
	s.VIC.Step()
	s.CIA1.Step()
	s.CIA2.Step()
	if s.SID != nil {
		s.SID.Step()
	}
	s.stepDriveCPU()
}

// stepDriveCPU steps the 1541's own CPU, unless it has been parked by
// the DOS idle-loop trap (spec §4.6's supplemented "$F2-trap 1541 idle
// sleeper" semantics): a parked drive CPU is skipped while its VIAs and
// GCR head keep running, until Drive.Step sees an enabled VIA interrupt
// pending (such as an IEC ATN edge on VIA1's CA1) and clears Drive.Idle.
func (s *System) stepDriveCPU() {
	if s.Drive == nil || s.DriveCPU == nil {
		return
	}
	if !s.Drive.Idle {
		_, _ = s.DriveCPU.Step(s.cycle)
	}
	s.Drive.Step(s.Cycle())
}

// onVBlank performs the once-per-frame housekeeping spec §4.7 names:
// input polling. TOD advancement is handled internally by each CIA's
// own per-cycle Step (cia.CIA's todDivider already approximates the
// 50Hz→10Hz tick), so it needs no extra call here.
func (s *System) onVBlank() {
	if s.Input != nil {
		s.Input.PollInput()
	}
}
