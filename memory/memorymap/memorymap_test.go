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

package memorymap_test

import (
	"testing"

	"github.com/sixtyfour/c64core/memory/memorymap"
)

func TestDecodeDefaultConfig(t *testing.T) {
	// Power-on default: LORAM/HIRAM/CHAREN all high, no cartridge.
	cfg := memorymap.Config{LORAM: true, HIRAM: true, CHAREN: true, Game: true, Exrom: true}

	cases := []struct {
		addr uint16
		want memorymap.Region
	}{
		{0x0000, memorymap.RegionRAM},
		{0x7FFF, memorymap.RegionRAM},
		{0x8000, memorymap.RegionRAM},
		{0xA000, memorymap.RegionBasicROM},
		{0xC000, memorymap.RegionRAM},
		{0xD000, memorymap.RegionIO},
		{0xE000, memorymap.RegionKernalROM},
	}
	for _, c := range cases {
		if got := memorymap.Decode(c.addr, cfg); got != c.want {
			t.Errorf("Decode(%#04x) = %s, want %s", c.addr, got, c.want)
		}
	}
}

func TestDecodeAllRAM(t *testing.T) {
	cfg := memorymap.Config{LORAM: false, HIRAM: false, CHAREN: false, Game: true, Exrom: true}
	for _, addr := range []uint16{0xA000, 0xD000, 0xE000} {
		if got := memorymap.Decode(addr, cfg); got != memorymap.RegionRAM {
			t.Errorf("Decode(%#04x) = %s, want RAM with all banking bits low", addr, got)
		}
	}
}

func TestDecode16KCartridge(t *testing.T) {
	cfg := memorymap.Config{LORAM: true, HIRAM: true, CHAREN: true, Game: false, Exrom: false}
	if got := memorymap.Decode(0x8000, cfg); got != memorymap.RegionCartLo {
		t.Errorf("ROML = %s, want CART-LO", got)
	}
	if got := memorymap.Decode(0xA000, cfg); got != memorymap.RegionCartHi {
		t.Errorf("ROMH = %s, want CART-HI", got)
	}
}
