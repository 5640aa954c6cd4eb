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

// Package system implements the host C64's address-space aggregate: the
// 65536-byte RAM array, the four fixed ROM images, colour RAM, the I/O
// window sub-decoder, and the cartridge/chip collaborators that the
// seven-way bank decoder in memory/memorymap routes between. It is the
// concrete bus.CPUBus the host 6510 drives.
package system

import (
	"fmt"

	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/errorsys"
	"github.com/sixtyfour/c64core/instance"
	"github.com/sixtyfour/c64core/memory/addresses"
	"github.com/sixtyfour/c64core/memory/memorymap"
)

// ChipRegisters is implemented by each memory-mapped chip's register
// file (vic/registers.File, sid.SID, cia.CIA). Unlike bus.ChipBus, which models the
// teacher's write-mostly notification pattern, C64 chip registers are
// ordinary readable/writable memory cells addressed by a small local
// register index, so the shape mirrors bus.CPUBus with a narrower
// address space.
type ChipRegisters interface {
	Read(register uint8) (uint8, error)
	Write(register uint8, data uint8) error
}

// Cartridge is the memory-mapping contract a mounted cartridge exposes
// to the bus: its GAME/EXROM lines and the data it supplies in the ROML
// and ROMH windows and the two I/O slots. nil means no cartridge is
// attached; the decoder then treats GAME and EXROM as both released
// (high).
type Cartridge interface {
	Game() bool
	Exrom() bool
	ReadLo(address uint16) (uint8, error)
	ReadHi(address uint16) (uint8, error)
	ReadIO1(address uint16) (uint8, error)
	WriteIO1(address uint16, data uint8) error
	ReadIO2(address uint16) (uint8, error)
	WriteIO2(address uint16, data uint8) error
}

// System is the host memory aggregate. The zero value is not usable;
// construct with New.
type System struct {
	instance *instance.Instance

	RAM      [addresses.RAMSize]uint8
	ColorRAM [addresses.ColorRAMSize]uint8

	BasicROM  []uint8
	KernalROM []uint8
	CharROM   []uint8

	// Port is the CPU's on-chip I/O port; its DDR/Data bits select
	// LORAM/HIRAM/CHAREN.
	Port *cpu.Port

	Cart Cartridge

	VIC  ChipRegisters
	SID  ChipRegisters
	CIA1 ChipRegisters
	CIA2 ChipRegisters
}

// New constructs a System with freshly noised RAM (spec §3: RAM has no
// defined power-on state; we give it the same realistic noise texture
// instance.Random produces) and zero-valued ROM slots, which the caller
// must fill via LoadBasicROM etc. before running the CPU.
func New(ins *instance.Instance, port *cpu.Port) *System {
	s := &System{instance: ins, Port: port}
	ins.Random.NoisySlice(s.RAM[:])
	return s
}

func (s *System) LoadBasicROM(data []uint8) error {
	if len(data) != addresses.BasicROMSize {
		return errorsys.Wrap(errorsys.ErrROMSize, "BASIC ROM: got %d bytes, want %d", len(data), addresses.BasicROMSize)
	}
	s.BasicROM = data
	return nil
}

func (s *System) LoadKernalROM(data []uint8) error {
	if len(data) != addresses.KernalROMSize {
		return errorsys.Wrap(errorsys.ErrROMSize, "KERNAL ROM: got %d bytes, want %d", len(data), addresses.KernalROMSize)
	}
	s.KernalROM = data
	return nil
}

func (s *System) LoadCharROM(data []uint8) error {
	if len(data) != addresses.CharROMSize {
		return errorsys.Wrap(errorsys.ErrROMSize, "character ROM: got %d bytes, want %d", len(data), addresses.CharROMSize)
	}
	s.CharROM = data
	return nil
}

func (s *System) bankConfig() memorymap.Config {
	var portByte uint8
	if s.Port != nil {
		portByte = s.Port.Read(0xFF) // undriven port bits float high (spec §9 open question 1)
	} else {
		portByte = 0xFF
	}
	cfg := memorymap.Config{
		LORAM:  portByte&0x01 != 0,
		HIRAM:  portByte&0x02 != 0,
		CHAREN: portByte&0x04 != 0,
		Game:   true,
		Exrom:  true,
	}
	if s.Cart != nil {
		cfg.Game = s.Cart.Game()
		cfg.Exrom = s.Cart.Exrom()
	}
	return cfg
}

// Read implements bus.CPUBus.
func (s *System) Read(address uint16) (uint8, error) {
	if address == addresses.PortDDR {
		return s.Port.DDR, nil
	}
	if address == addresses.PortData {
		return s.Port.Read(0xFF), nil
	}

	switch memorymap.Decode(address, s.bankConfig()) {
	case memorymap.RegionRAM:
		return s.RAM[address], nil
	case memorymap.RegionBasicROM:
		return s.BasicROM[address-addresses.ROMHBase], nil
	case memorymap.RegionKernalROM:
		return s.KernalROM[address-addresses.KernalBase], nil
	case memorymap.RegionCharROM:
		return s.CharROM[address-addresses.D000Base], nil
	case memorymap.RegionCartLo:
		if s.Cart == nil {
			return s.RAM[address], nil
		}
		return s.Cart.ReadLo(address)
	case memorymap.RegionCartHi:
		if s.Cart == nil {
			return s.RAM[address], nil
		}
		return s.Cart.ReadHi(address)
	case memorymap.RegionIO:
		return s.readIO(address)
	}
	return 0, fmt.Errorf("unreachable memory region for address %#04x", address)
}

// Write implements bus.CPUBus.
func (s *System) Write(address uint16, data uint8) error {
	if address == addresses.PortDDR {
		s.Port.DDR = data
		return nil
	}
	if address == addresses.PortData {
		s.Port.Data = data
		return nil
	}

	switch memorymap.Decode(address, s.bankConfig()) {
	case memorymap.RegionIO:
		return s.writeIO(address, data)
	case memorymap.RegionCartLo:
		// ROML is never writable as cartridge memory; falls through to RAM.
		s.RAM[address] = data
		return nil
	case memorymap.RegionCartHi:
		s.RAM[address] = data
		return nil
	default:
		// ROM regions shadow RAM: writes always land in the underlying RAM
		// cell even when reads are currently serviced by ROM, since the 6510
		// can never disable the RAM chips themselves.
		s.RAM[address] = data
		return nil
	}
}

// Peek and Poke implement bus.DebuggerBus: side-effect-free access for
// the monitor and snapshot layers, always against the underlying RAM
// cell regardless of the current bank configuration.
func (s *System) Peek(address uint16) (uint8, error) { return s.RAM[address], nil }
func (s *System) Poke(address uint16, value uint8) error {
	s.RAM[address] = value
	return nil
}

func (s *System) readIO(address uint16) (uint8, error) {
	nibble := uint8(address>>8) & 0x0F
	switch {
	case nibble <= 3: // VIC, mirrored every 64 bytes
		if s.VIC == nil {
			return 0xFF, nil
		}
		return s.VIC.Read(uint8(address) & 0x3F)
	case nibble <= 7: // SID, mirrored every 32 bytes
		if s.SID == nil {
			return 0xFF, nil
		}
		return s.SID.Read(uint8(address) & 0x1F)
	case nibble <= 0x0B: // colour RAM, 1000 of 1024 nibbles wired
		idx := address - addresses.ColorRAMBase
		return s.ColorRAM[idx&0x3FF] | 0xF0, nil
	case nibble == 0x0C: // CIA1, mirrored every 16 bytes
		if s.CIA1 == nil {
			return 0xFF, nil
		}
		return s.CIA1.Read(uint8(address) & 0x0F)
	case nibble == 0x0D: // CIA2
		if s.CIA2 == nil {
			return 0xFF, nil
		}
		return s.CIA2.Read(uint8(address) & 0x0F)
	case nibble == 0x0E: // cartridge I/O 1
		if s.Cart == nil {
			return 0xFF, nil
		}
		return s.Cart.ReadIO1(address)
	default: // 0x0F: cartridge I/O 2
		if s.Cart == nil {
			return 0xFF, nil
		}
		return s.Cart.ReadIO2(address)
	}
}

func (s *System) writeIO(address uint16, data uint8) error {
	nibble := uint8(address>>8) & 0x0F
	switch {
	case nibble <= 3:
		if s.VIC == nil {
			return nil
		}
		return s.VIC.Write(uint8(address)&0x3F, data)
	case nibble <= 7:
		if s.SID == nil {
			return nil
		}
		return s.SID.Write(uint8(address)&0x1F, data)
	case nibble <= 0x0B:
		idx := address - addresses.ColorRAMBase
		s.ColorRAM[idx&0x3FF] = data & 0x0F
		return nil
	case nibble == 0x0C:
		if s.CIA1 == nil {
			return nil
		}
		return s.CIA1.Write(uint8(address)&0x0F, data)
	case nibble == 0x0D:
		if s.CIA2 == nil {
			return nil
		}
		return s.CIA2.Write(uint8(address)&0x0F, data)
	case nibble == 0x0E:
		if s.Cart == nil {
			return nil
		}
		return s.Cart.WriteIO1(address, data)
	default:
		if s.Cart == nil {
			return nil
		}
		return s.Cart.WriteIO2(address, data)
	}
}
