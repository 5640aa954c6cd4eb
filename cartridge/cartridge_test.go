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

package cartridge_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cartridge"
)

func TestNoneAssertsNoCartridge(t *testing.T) {
	var c cartridge.None
	if !c.Game() || !c.Exrom() {
		t.Fatal("None must leave GAME/EXROM both released")
	}
}

func TestStandard8KSignalsGameExromLow(t *testing.T) {
	data := make([]byte, 0x2000)
	data[0] = 0x42
	c, err := cartridge.NewStandard8K(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.Game() || c.Exrom() {
		t.Fatal("8K cartridge must pull GAME/EXROM both low")
	}
	v, _ := c.ReadLo(0x8000)
	if v != 0x42 {
		t.Fatalf("ReadLo(0x8000) = %#x, want 0x42", v)
	}
}

func TestStandard16KServesBothWindows(t *testing.T) {
	data := make([]byte, 0x4000)
	data[0] = 0x11
	data[0x2000] = 0x22
	c, err := cartridge.NewStandard16K(data)
	if err != nil {
		t.Fatal(err)
	}
	lo, _ := c.ReadLo(0x8000)
	hi, _ := c.ReadHi(0xA000)
	if lo != 0x11 || hi != 0x22 {
		t.Fatalf("ReadLo/ReadHi = %#x/%#x, want 0x11/0x22", lo, hi)
	}
}

func TestRejectsWrongSizeImage(t *testing.T) {
	if _, err := cartridge.NewStandard8K(make([]byte, 100)); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestREUStatusClearsOnRead(t *testing.T) {
	r := cartridge.NewREU()
	r.WriteIO2(0xDF00, 0x80) // simulate a pending status bit
	v, _ := r.ReadIO2(0xDF00)
	if v != 0x80 {
		t.Fatalf("first status read = %#x, want 0x80", v)
	}
	v2, _ := r.ReadIO2(0xDF00)
	if v2 != 0 {
		t.Fatalf("second status read = %#x, want cleared to 0", v2)
	}
}

func TestGeoRAMBankSwitchIsolatesWindows(t *testing.T) {
	g := cartridge.NewGeoRAM(512)
	g.WriteIO1(0xDFFE, 0) // bank 0
	g.WriteIO2(0xDF00, 0xAA)
	g.WriteIO1(0xDFFE, 1) // bank 1
	g.WriteIO2(0xDF00, 0xBB)

	g.WriteIO1(0xDFFE, 0)
	v, _ := g.ReadLo(0x8000)
	if v != 0xAA {
		t.Fatalf("bank 0 byte 0 = %#x, want 0xAA", v)
	}
	g.WriteIO1(0xDFFE, 1)
	v2, _ := g.ReadLo(0x8000)
	if v2 != 0xBB {
		t.Fatalf("bank 1 byte 0 = %#x, want 0xBB", v2)
	}
}
