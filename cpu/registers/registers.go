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

// Package registers implements the 6502/6510 register file: the three
// general-purpose 8-bit registers, the stack pointer, the program
// counter, and the processor status flags.
//
// Two flags are deliberately not stored as plain booleans, matching the
// documented hardware behaviour spec.md calls out: the Zero flag is
// stored inverted (the flag reads true exactly when the stored byte is
// zero) and the Negative flag is stored as the raw byte whose bit 7 is
// the flag value, so that callers can feed it the full result byte of an
// ALU operation without a separate branch.
package registers

// File is the full 6502/6510 register set. The 6510 adds the on-chip
// I/O port (data direction + output latch) on top of this; that lives in
// the cpu package since it affects memory mapping, not instruction
// execution.
type File struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	Status Status
}

// Status holds the 6502 processor flags. Carry, Overflow, Interrupt,
// Decimal and Break are plain booleans. Zero and Negative use the
// hardware-shaped representations described in the package doc.
type Status struct {
	Carry     bool
	zero      uint8 // flag Z is true iff zero == 0
	Interrupt bool
	Decimal   bool
	Break     bool
	Overflow  bool
	negative  uint8 // flag N equals bit 7 of negative
}

// Zero reports the Z flag.
func (s *Status) Zero() bool { return s.zero == 0 }

// Negative reports the N flag.
func (s *Status) Negative() bool { return s.negative&0x80 != 0 }

// SetZeroRaw stores the inverted representation of the Z flag: pass the
// result byte of the operation that should set Z, exactly as passing 0
// turns Z on.
func (s *Status) SetZeroRaw(v uint8) { s.zero = v }

// SetNegativeRaw stores the bit-7 representation of the N flag: pass the
// full result byte, bit 7 is extracted on read.
func (s *Status) SetNegativeRaw(v uint8) { s.negative = v }

// SetZN is the common case: set both Z and N from a single result byte.
func (s *Status) SetZN(v uint8) {
	s.zero = v
	s.negative = v
}

// SetZeroFlag and SetNegativeFlag set the flags directly from booleans,
// used when PLP/RTI/BRK restore the status byte wholesale.
func (s *Status) SetZeroFlag(v bool) {
	if v {
		s.zero = 0
	} else {
		s.zero = 1
	}
}

func (s *Status) SetNegativeFlag(v bool) {
	if v {
		s.negative = 0x80
	} else {
		s.negative = 0
	}
}

// Flag bit positions within the packed status byte, as pushed by
// PHP/BRK and restored by PLP/RTI.
const (
	FlagCarry     = 1 << 0
	FlagZero      = 1 << 1
	FlagInterrupt = 1 << 2
	FlagDecimal   = 1 << 3
	FlagBreak     = 1 << 4
	FlagUnused    = 1 << 5
	FlagOverflow  = 1 << 6
	FlagNegative  = 1 << 7
)

// Byte packs the status flags into the traditional 8-bit representation,
// with the unused bit 5 always set (as on real hardware) and the Break
// bit set according to the current Break field (callers pushing for an
// interrupt, as opposed to BRK, clear Break first).
func (s *Status) Byte() uint8 {
	var b uint8 = FlagUnused
	if s.Carry {
		b |= FlagCarry
	}
	if s.Zero() {
		b |= FlagZero
	}
	if s.Interrupt {
		b |= FlagInterrupt
	}
	if s.Decimal {
		b |= FlagDecimal
	}
	if s.Break {
		b |= FlagBreak
	}
	if s.Overflow {
		b |= FlagOverflow
	}
	if s.Negative() {
		b |= FlagNegative
	}
	return b
}

// FromByte unpacks a traditional 8-bit status representation (as loaded
// by PLP/RTI or at reset) into the flags.
func (s *Status) FromByte(b uint8) {
	s.Carry = b&FlagCarry != 0
	s.SetZeroFlag(b&FlagZero != 0)
	s.Interrupt = b&FlagInterrupt != 0
	s.Decimal = b&FlagDecimal != 0
	s.Break = b&FlagBreak != 0
	s.Overflow = b&FlagOverflow != 0
	s.SetNegativeFlag(b&FlagNegative != 0)
}

// Reset puts the register file into the documented fixed power-on/reset
// state: A=X=Y=0, SP=$FF, PC set by caller from the reset vector, I flag
// set (interrupts disabled until the KERNAL issues CLI).
func (f *File) Reset() {
	f.A = 0
	f.X = 0
	f.Y = 0
	f.SP = 0xFF
	f.Status = Status{}
	f.Status.Interrupt = true
}
