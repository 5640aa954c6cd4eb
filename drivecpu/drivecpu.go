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

// Package drivecpu wires the 1541 disk drive's own 6502, its two
// MOS 6522 VIAs and the gcr.Head read/write mechanism into a single
// bus.CPUBus, the drive-side counterpart of memory/system.System.
// Grounded directly on
// _examples/original_source/src/CPU1541.cpp's read_byte/write_byte
// address decode (2KB RAM at $0000-$07FF mirrored every $0800, VIA1
// at $1800-$1BFF, VIA2 at $1C00-$1FFF, 16KB DOS ROM at $C000-$FFFF
// mirrored from a 16KB image at $8000) and CPU1541_SC.cpp's $F2 O_EXT
// dispatch for the idle/write-sector/format-track traps.
package drivecpu

import (
	"github.com/sixtyfour/c64core/gcr"
	"github.com/sixtyfour/c64core/trap"
	"github.com/sixtyfour/c64core/via"
)

const (
	ramSize = 0x0800
	romSize = 0x4000
	romBase = 0x8000
)

// System is the drive-side memory aggregate. The zero value is not
// usable; construct with New.
type System struct {
	RAM  [ramSize]uint8
	ROM  [romSize]uint8
	VIA1 *via.VIA // IEC interface: CA1 wired to ATN, PB implements the serial DATA/CLK lines
	VIA2 *via.VIA // disk mechanism: CA2 is the SO (set-overflow) strobe, T2 drives byte timing
	Head *gcr.Head

	Idle bool // true once the DOS idle trap has parked this CPU (spec §4.5/§4.6)

	Traps trap.Handlers
}

// New constructs a drive system with freshly constructed VIAs; the
// caller wires VIA1/VIA2's callback fields (ReadPA, WritePB, CA1, etc.)
// to the IEC bus and gcr.Head respectively, matching via.VIA's
// narrow-interface wiring convention established for the C64-side
// chips.
func New() *System {
	return &System{VIA1: via.New(), VIA2: via.New()}
}

// LoadROM installs the 16KB 1541 DOS ROM image, mirrored at $C000 the
// same way CPU1541.cpp masks adr&0x3fff against an 0x8000-based
// image.
func (s *System) LoadROM(data []byte) error {
	n := copy(s.ROM[:], data)
	_ = n
	return nil
}

// Read implements bus.CPUBus for the drive's 6502.
func (s *System) Read(address uint16) (uint8, error) {
	switch {
	case address >= romBase:
		return s.ROM[address&0x3FFF], nil
	case address&0x1000 == 0x0000:
		return s.RAM[address&0x07FF], nil
	case address&0x1C00 == 0x1800:
		return s.VIA1.Read(uint8(address) & 0x0F)
	case address&0x1C00 == 0x1C00:
		return s.VIA2.Read(uint8(address) & 0x0F)
	default:
		// Open address: CPU1541.cpp returns the address's high
		// byte as a pragmatic floating-bus stand-in.
		return uint8(address >> 8), nil
	}
}

// Write implements bus.CPUBus.
func (s *System) Write(address uint16, data uint8) error {
	switch {
	case address >= romBase:
		return nil // writes to ROM are silently discarded
	case address&0x1000 == 0x0000:
		s.RAM[address&0x07FF] = data
		return nil
	case address&0x1C00 == 0x1800:
		return s.VIA1.Write(uint8(address)&0x0F, data)
	case address&0x1C00 == 0x1C00:
		return s.VIA2.Write(uint8(address)&0x0F, data)
	}
	return nil
}

// Step advances both VIAs and the GCR head by one master cycle, and
// clears Idle on any event that would wake a parked drive CPU (a VIA
// IRQ becoming pending), mirroring CPU1541_SC.cpp's interrupt check
// gating EmulateCPUCycle's opcode-fetch state.
func (s *System) Step(cycleCounter uint32) {
	s.VIA1.Step()
	s.VIA2.Step()
	if s.Head != nil {
		s.Head.Rotate(cycleCounter)
	}
	if s.Idle {
		ifr1, _ := s.VIA1.Read(via.IFR)
		ifr2, _ := s.VIA2.Read(via.IFR)
		if (ifr1|ifr2)&via.IRQAny != 0 {
			s.Idle = false
		}
	}
}

// HandleTrap dispatches a trapped $F2 operand byte read at the drive
// CPU's own program counter. Unlike the C64-side KERNAL patches
// (trap.Handlers, routed through an IEC bus), the drive-side traps
// (DriveIdle/DriveWriteSector/DriveFormatTrack) act directly on this
// System, so they're resolved here rather than through trap.Handlers.
func (s *System) HandleTrap(id trap.ID, errorFlagSet, commandReceived bool, writeSector, formatTrack func()) (newPC uint16, ok bool) {
	switch id {
	case trap.DriveIdle:
		s.Idle = !(errorFlagSet || commandReceived)
		return 0xebff, true
	case trap.DriveWriteSector:
		if writeSector != nil {
			writeSector()
		}
		return 0xf5dc, true
	case trap.DriveFormatTrack:
		if formatTrack != nil {
			formatTrack()
		}
		return 0xfd8b, true
	}
	return 0, false
}
