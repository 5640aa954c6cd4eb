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

// Package bus defines the memory bus interfaces shared between the CPU
// cores, the chip register files, and the debugging/snapshot layers.
// Every memory area (RAM, ROM, colour RAM, I/O window, cartridge) is
// reachable through these interfaces so that a CPU core need not know
// which concrete area backs a given address.
package bus

// CPUBus is the read/write surface the CPU core uses to fetch opcodes
// and operands and to perform data accesses. Implemented by the system
// memory aggregate for both the host 6510 and the drive 6502.
type CPUBus interface {
	Read(address uint16) (uint8, error)
	Write(address uint16, data uint8) error
}

// ChipData is returned by ChipBus.ChipRead to report the most recent
// register write a chip needs to react to.
type ChipData struct {
	// Name is the canonical register name written to (e.g. "D011", "ICR").
	Name string
	// Value is the data written.
	Value uint8
}

// ChipBus is implemented by each chip's memory-mapped register file
// (VIC, SID, CIA, VIA) so that the owning chip can be notified of writes
// made through the CPU-facing bus without the bus needing direct
// knowledge of chip internals.
type ChipBus interface {
	ChipRead() (bool, ChipData)
	ChipWrite(address uint16, data uint8)
	LastReadRegister() string
}

// DebuggerBus exposes peek/poke operations that bypass side effects,
// used by snapshotting and any future inspection tooling.
type DebuggerBus interface {
	Peek(address uint16) (uint8, error)
	Poke(address uint16, value uint8) error
}
