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

// Package memorymap implements the C64 host CPU's seven-way address
// decoder (spec.md §4.1): a pure function of the $0001 port bits and the
// cartridge's /GAME and /EXROM lines, with no side effects of its own.
package memorymap

import "fmt"

// Region names one of the seven regions the decoder can resolve an
// address to.
type Region int

const (
	RegionRAM Region = iota
	RegionBasicROM
	RegionKernalROM
	RegionCharROM
	RegionIO
	RegionCartLo
	RegionCartHi
)

func (r Region) String() string {
	switch r {
	case RegionRAM:
		return "RAM"
	case RegionBasicROM:
		return "BASIC"
	case RegionKernalROM:
		return "KERNAL"
	case RegionCharROM:
		return "CHAR"
	case RegionIO:
		return "I/O"
	case RegionCartLo:
		return "CART-LO"
	case RegionCartHi:
		return "CART-HI"
	}
	return "?"
}

// Config is the set of lines the decoder combines: the three CPU port
// bits LORAM/HIRAM/CHAREN (the data latch ANDed with the DDR, as read
// from cpu.Port) and the cartridge's two control lines. A line is true
// when it is high (LORAM/HIRAM/CHAREN high is the power-on default;
// GAME/EXROM are active low on real hardware, so true here means the
// line is NOT asserted — no cartridge present reads Game=true,
// Exrom=true).
type Config struct {
	LORAM  bool
	HIRAM  bool
	CHAREN bool
	Game   bool
	Exrom  bool
}

// Decode resolves a CPU address to the region that should service it,
// per the fixed table in spec.md §4.1:
//
//	$0000-$7FFF always RAM
//	$8000-$9FFF (ROML) RAM or cartridge low
//	$A000-$BFFF (ROMH) RAM, BASIC, or cartridge high
//	$D000-$DFFF RAM, character ROM, or I/O
//	$E000-$FFFF RAM, or KERNAL, or cartridge ROM-high
func Decode(address uint16, cfg Config) Region {
	switch {
	case address < 0x8000:
		return RegionRAM

	case address < 0xA000: // ROML
		if !cfg.Exrom {
			return RegionCartLo
		}
		return RegionRAM

	case address < 0xC000: // ROMH
		if !cfg.Game && !cfg.Exrom {
			return RegionCartHi
		}
		if cfg.LORAM && cfg.HIRAM && cfg.Exrom {
			return RegionBasicROM
		}
		return RegionRAM

	case address < 0xD000:
		return RegionRAM

	case address < 0xE000: // I/O, char ROM, or RAM
		if cfg.CHAREN && (cfg.HIRAM || cfg.LORAM) {
			return RegionIO
		}
		if cfg.HIRAM || cfg.LORAM {
			return RegionCharROM
		}
		return RegionRAM

	default: // $E000-$FFFF
		if !cfg.Game && cfg.Exrom { // Ultimax: GAME asserted, EXROM released
			return RegionCartHi
		}
		if cfg.HIRAM && (cfg.LORAM || cfg.Exrom) {
			return RegionKernalROM
		}
		return RegionRAM
	}
}

// Summary renders the effective map for a given configuration as a
// human-readable table, used by the monitor/debugger surface.
func Summary(cfg Config) string {
	bounds := []struct {
		lo, hi uint16
	}{
		{0x0000, 0x7FFF},
		{0x8000, 0x9FFF},
		{0xA000, 0xBFFF},
		{0xC000, 0xCFFF},
		{0xD000, 0xDFFF},
		{0xE000, 0xFFFF},
	}
	out := ""
	for _, b := range bounds {
		out += fmt.Sprintf("%04x -> %04x\t%s\n", b.lo, b.hi, Decode(b.lo, cfg))
	}
	return out
}
