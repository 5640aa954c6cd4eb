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

// Package addresses collects the well-known C64 address-space constants:
// interrupt vectors, memory-mapped register bases, and the I/O window
// sub-decode table described in spec.md §4.1. It holds no behaviour, only
// names for magic numbers used throughout memory/system and the chip
// packages.
package addresses

const (
	NMI   = uint16(0xFFFA)
	Reset = uint16(0xFFFC)
	IRQ   = uint16(0xFFFE) // shared by IRQ and BRK
)

// Fixed region boundaries for the host CPU's seven-way memory map
// (spec.md §4.1).
const (
	RAMTop    = uint16(0x7FFF)
	ROMLBase  = uint16(0x8000)
	ROMLTop   = uint16(0x9FFF)
	ROMHBase  = uint16(0xA000)
	ROMHTop   = uint16(0xBFFF)
	D000Base  = uint16(0xD000)
	D000Top   = uint16(0xDFFF)
	KernalBase = uint16(0xE000)
	KernalTop  = uint16(0xFFFF)
)

// The $D000-$DFFF I/O window is sub-decoded by address bits 8-11 (the
// low nibble of the high byte) into sixteen 256-byte slots, each chip
// mirrored across its slots.
const (
	VICBase      = uint16(0xD000) // mirrored every 64 bytes, slots 0-3
	SIDBase      = uint16(0xD400) // slots 4-7
	ColorRAMBase = uint16(0xD800) // slots 8-B, only 1000 nibbles are wired
	CIA1Base     = uint16(0xDC00) // slot C
	CIA2Base     = uint16(0xDD00) // slot D
	CartIO1Base  = uint16(0xDE00) // slot E
	CartIO2Base  = uint16(0xDF00) // slot F
)

const (
	ColorRAMSize = 1024
	VICRegCount  = 64
	SIDRegCount  = 32
	CIARegCount  = 16
)

// BasicROM/KernalROM/CharROM/DriveROM are the fixed sizes of the four ROM
// images named in spec.md §3.
const (
	BasicROMSize  = 8 * 1024
	KernalROMSize = 8 * 1024
	CharROMSize   = 4 * 1024
	DriveROMSize  = 16 * 1024
	DriveRAMSize  = 2048
	RAMSize       = 65536
)

// CPU on-chip I/O port, 6510 only.
const (
	PortDDR  = uint16(0x0000)
	PortData = uint16(0x0001)
)
