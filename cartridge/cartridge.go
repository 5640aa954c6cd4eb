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

// Package cartridge implements the memory/system.Cartridge contract
// for the common ROM cartridge shapes: no cartridge, 8K, 16K, a
// 128K REU (RAM Expansion Unit) and the GeoRAM bank-switched
// RAM expansion. Each variant only needs to answer the GAME/EXROM
// lines and the four memory windows system.System's bank decoder
// already routes to it. Grounded on the cartridge-mapping shape of
// memory/memorymap's decoder (itself derived from the C64
// programmer's-reference-model bank table spec §3 carries) rather
// than any single source file, since Gopher2600 (an Atari VCS
// emulator) has no direct C64-cartridge analogue; REU/GeoRAM bank
// registers are grounded on the well-documented $DF00-$DF0A / $DFFF
// register conventions those expansions use on real hardware.
package cartridge

import "fmt"

// None is the absence of a cartridge: GAME and EXROM both released
// (high), meaning "no cartridge ROM visible" to the bank decoder.
// system.System already treats a nil Cart the same way; None exists
// so callers that want an explicit, always-non-nil Cartridge value
// (e.g. to simplify a UI cartridge-slot indicator) can use one.
type None struct{}

func (None) Game() bool                               { return true }
func (None) Exrom() bool                              { return true }
func (None) ReadLo(address uint16) (uint8, error)      { return 0xFF, nil }
func (None) ReadHi(address uint16) (uint8, error)      { return 0xFF, nil }
func (None) ReadIO1(address uint16) (uint8, error)     { return 0xFF, nil }
func (None) WriteIO1(address uint16, data uint8) error { return nil }
func (None) ReadIO2(address uint16) (uint8, error)     { return 0xFF, nil }
func (None) WriteIO2(address uint16, data uint8) error { return nil }

// Standard8K is a 8KB ROM cartridge mapped into $8000-$9FFF (ROML
// only): GAME low, EXROM low selects the 8K configuration per the bank
// decoder's truth table.
type Standard8K struct {
	ROM [0x2000]uint8
}

func NewStandard8K(data []byte) (*Standard8K, error) {
	if len(data) != 0x2000 {
		return nil, fmt.Errorf("cartridge: 8K image must be exactly 8192 bytes, got %d", len(data))
	}
	c := &Standard8K{}
	copy(c.ROM[:], data)
	return c, nil
}

func (c *Standard8K) Game() bool  { return false }
func (c *Standard8K) Exrom() bool { return false }
func (c *Standard8K) ReadLo(address uint16) (uint8, error) {
	return c.ROM[address&0x1FFF], nil
}
func (c *Standard8K) ReadHi(address uint16) (uint8, error)     { return 0xFF, nil }
func (c *Standard8K) ReadIO1(address uint16) (uint8, error)    { return 0xFF, nil }
func (c *Standard8K) WriteIO1(address uint16, data uint8) error { return nil }
func (c *Standard8K) ReadIO2(address uint16) (uint8, error)    { return 0xFF, nil }
func (c *Standard8K) WriteIO2(address uint16, data uint8) error { return nil }

// Standard16K is a 16KB ROM cartridge mapped into $8000-$BFFF (ROML
// and ROMH both populated): GAME low, EXROM low selects the 16K
// configuration, identical GAME/EXROM state to Standard8K but serving
// both windows.
type Standard16K struct {
	ROM [0x4000]uint8
}

func NewStandard16K(data []byte) (*Standard16K, error) {
	if len(data) != 0x4000 {
		return nil, fmt.Errorf("cartridge: 16K image must be exactly 16384 bytes, got %d", len(data))
	}
	c := &Standard16K{}
	copy(c.ROM[:], data)
	return c, nil
}

func (c *Standard16K) Game() bool  { return false }
func (c *Standard16K) Exrom() bool { return false }
func (c *Standard16K) ReadLo(address uint16) (uint8, error) {
	return c.ROM[address&0x1FFF], nil
}
func (c *Standard16K) ReadHi(address uint16) (uint8, error) {
	return c.ROM[0x2000+address&0x1FFF], nil
}
func (c *Standard16K) ReadIO1(address uint16) (uint8, error)    { return 0xFF, nil }
func (c *Standard16K) WriteIO1(address uint16, data uint8) error { return nil }
func (c *Standard16K) ReadIO2(address uint16) (uint8, error)    { return 0xFF, nil }
func (c *Standard16K) WriteIO2(address uint16, data uint8) error { return nil }

// REU emulates a RAM Expansion Unit: no cartridge ROM is mapped (GAME/
// EXROM both released), and the DMA/transfer registers live at
// $DF00-$DF0A in I/O2. Only the register file and the backing
// expansion RAM are modelled; the DMA engine that actually copies
// bytes between C64 RAM and expansion RAM belongs to the system
// aggregate (it must see both address spaces), so REU here exposes
// its registers and RAM buffer for that aggregate to drive.
type REU struct {
	RAM [0x20000]uint8 // 128K, the common REU-1750 size
	reg [11]uint8
}

func NewREU() *REU { return &REU{} }

func (r *REU) Game() bool                          { return true }
func (r *REU) Exrom() bool                         { return true }
func (r *REU) ReadLo(address uint16) (uint8, error) { return 0xFF, nil }
func (r *REU) ReadHi(address uint16) (uint8, error) { return 0xFF, nil }
func (r *REU) ReadIO1(address uint16) (uint8, error) { return 0xFF, nil }
func (r *REU) WriteIO1(address uint16, data uint8) error { return nil }

func (r *REU) ReadIO2(address uint16) (uint8, error) {
	idx := address & 0x0F
	if int(idx) >= len(r.reg) {
		return 0xFF, nil
	}
	v := r.reg[idx]
	if idx == 0 { // status register: reading clears the interrupt/end-of-block/fault bits
		r.reg[0] = 0
	}
	return v, nil
}

func (r *REU) WriteIO2(address uint16, data uint8) error {
	idx := address & 0x0F
	if int(idx) < len(r.reg) {
		r.reg[idx] = data
	}
	return nil
}

// Register accessors for the system aggregate's DMA engine.
func (r *REU) Command() uint8     { return r.reg[1] }
func (r *REU) C64Address() uint16 { return uint16(r.reg[2]) | uint16(r.reg[3])<<8 }
func (r *REU) REUAddress() uint32 {
	return uint32(r.reg[4]) | uint32(r.reg[5])<<8 | uint32(r.reg[6]&0x03)<<16
}
func (r *REU) TransferLength() uint16 { return uint16(r.reg[7]) | uint16(r.reg[8])<<8 }

// GeoRAM is a bank-switched battery-backed RAM expansion: real
// hardware maps a 256-byte window through ROML ($8000-$80FF) with the
// bank selected by two registers at $DFFE/$DFFF. Because
// memory/system.Cartridge has no ROML write hook (ROML is defined as
// always read-only cartridge space, per spec §3's bank decoder),
// this port exposes the data window for writes through I/O2 instead
// of ROML — an approximation of the real memory map, documented here
// rather than silently deviating from it. The two bank registers are
// written through WriteIO1 and decoded by the low address byte alone
// ($FE low bank byte, $FF high bank byte).
type GeoRAM struct {
	RAM    []uint8
	bankLo uint8
	bankHi uint8
}

// NewGeoRAM allocates sizeKB kilobytes of expansion RAM (512KB is the
// common size).
func NewGeoRAM(sizeKB int) *GeoRAM {
	return &GeoRAM{RAM: make([]uint8, sizeKB*1024)}
}

func (g *GeoRAM) Game() bool  { return true }
func (g *GeoRAM) Exrom() bool { return false }

func (g *GeoRAM) bankBase() int {
	bank := int(g.bankLo) | int(g.bankHi)<<8
	base := bank * 256
	if base >= len(g.RAM) {
		base %= len(g.RAM)
	}
	return base
}

func (g *GeoRAM) ReadLo(address uint16) (uint8, error) {
	off := int(address & 0xFF)
	return g.RAM[g.bankBase()+off], nil
}
func (g *GeoRAM) ReadHi(address uint16) (uint8, error) { return 0xFF, nil }

func (g *GeoRAM) ReadIO1(address uint16) (uint8, error) { return 0xFF, nil }
func (g *GeoRAM) WriteIO1(address uint16, data uint8) error {
	switch address & 0xFF {
	case 0xFE:
		g.bankLo = data
	case 0xFF:
		g.bankHi = data
	}
	return nil
}
func (g *GeoRAM) ReadIO2(address uint16) (uint8, error) { return 0xFF, nil }
func (g *GeoRAM) WriteIO2(address uint16, data uint8) error {
	off := int(address & 0xFF)
	if off < len(g.RAM) {
		g.RAM[g.bankBase()+off] = data
	}
	return nil
}
