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

package system_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/instance"
	"github.com/sixtyfour/c64core/memory/addresses"
	"github.com/sixtyfour/c64core/memory/system"
)

type fakeChip struct {
	reads  map[uint8]uint8
	writes map[uint8]uint8
}

func newFakeChip() *fakeChip {
	return &fakeChip{reads: map[uint8]uint8{}, writes: map[uint8]uint8{}}
}

func (f *fakeChip) Read(reg uint8) (uint8, error) { return f.reads[reg], nil }
func (f *fakeChip) Write(reg uint8, v uint8) error {
	f.writes[reg] = v
	return nil
}

func newSystem(t *testing.T) (*system.System, *cpu.Port) {
	t.Helper()
	ins, err := instance.NewInstance(1)
	if err != nil {
		t.Fatal(err)
	}
	port := &cpu.Port{DDR: 0x2F, Data: 0x37} // power-on default: LORAM/HIRAM/CHAREN all high
	s := system.New(ins, port)
	if err := s.LoadBasicROM(make([]uint8, addresses.BasicROMSize)); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadKernalROM(make([]uint8, addresses.KernalROMSize)); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadCharROM(make([]uint8, addresses.CharROMSize)); err != nil {
		t.Fatal(err)
	}
	s.KernalROM[0] = 0xAA
	s.BasicROM[0] = 0xBB
	return s, port
}

func TestDefaultBankingReadsKernalAndBasic(t *testing.T) {
	s, _ := newSystem(t)
	v, err := s.Read(addresses.KernalBase)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xAA {
		t.Fatalf("KERNAL read = %#02x, want $AA", v)
	}
	v, err = s.Read(addresses.ROMHBase)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xBB {
		t.Fatalf("BASIC read = %#02x, want $BB", v)
	}
}

func TestAllRAMBanking(t *testing.T) {
	s, port := newSystem(t)
	port.Data = 0x00 // LORAM/HIRAM/CHAREN all low
	if err := s.Write(addresses.KernalBase, 0x42); err != nil {
		t.Fatal(err)
	}
	v, err := s.Read(addresses.KernalBase)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x42 {
		t.Fatalf("got %#02x, want $42 (RAM, not KERNAL ROM)", v)
	}
}

func TestROMWritesShadowRAM(t *testing.T) {
	s, _ := newSystem(t)
	if err := s.Write(addresses.KernalBase, 0x55); err != nil {
		t.Fatal(err)
	}
	if s.RAM[addresses.KernalBase] != 0x55 {
		t.Fatal("write through KERNAL-mapped address should still land in RAM")
	}
	v, _ := s.Read(addresses.KernalBase)
	if v != 0xAA {
		t.Fatal("read should still see KERNAL ROM, unaffected by the shadow write")
	}
}

func TestColorRAMNibbleMasking(t *testing.T) {
	s, _ := newSystem(t)
	if err := s.Write(addresses.ColorRAMBase, 0xFE); err != nil {
		t.Fatal(err)
	}
	v, err := s.Read(addresses.ColorRAMBase)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFE { // low nibble $E masked in, high nibble reads as all-1s
		t.Fatalf("colour RAM read = %#02x, want $FE", v)
	}
}

func TestVICRegisterDispatchAndMirroring(t *testing.T) {
	s, _ := newSystem(t)
	vic := newFakeChip()
	s.VIC = vic

	if err := s.Write(addresses.VICBase+0x11, 0x1B); err != nil {
		t.Fatal(err)
	}
	if vic.writes[0x11] != 0x1B {
		t.Fatalf("VIC register $11 write not dispatched, got %v", vic.writes)
	}

	vic.reads[0x11] = 0x9F
	// mirrored 64 bytes later, still register $11
	v, err := s.Read(addresses.VICBase + 0x40 + 0x11)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x9F {
		t.Fatalf("mirrored VIC read = %#02x, want $9F", v)
	}
}

func TestCIA1RegisterDispatch(t *testing.T) {
	s, _ := newSystem(t)
	cia1 := newFakeChip()
	s.CIA1 = cia1
	cia1.reads[0x0D] = 0x81 // ICR
	v, err := s.Read(addresses.CIA1Base + 0x0D)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x81 {
		t.Fatalf("CIA1 ICR read = %#02x, want $81", v)
	}
}

func TestPeekPokeBypassBanking(t *testing.T) {
	s, port := newSystem(t)
	port.Data = 0x00 // all RAM banking, but Peek/Poke should ignore this
	if err := s.Poke(addresses.KernalBase, 0x77); err != nil {
		t.Fatal(err)
	}
	v, err := s.Peek(addresses.KernalBase)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x77 {
		t.Fatalf("Peek after Poke = %#02x, want $77", v)
	}
}

func TestPortAddressesBypassBanking(t *testing.T) {
	s, port := newSystem(t)
	if err := s.Write(addresses.PortDDR, 0x2F); err != nil {
		t.Fatal(err)
	}
	if port.DDR != 0x2F {
		t.Fatal("write to $0000 should set the port DDR")
	}
	v, _ := s.Read(addresses.PortData)
	if v != port.Read(0xFF) {
		t.Fatal("read from $0001 should reflect the port's combined output")
	}
}
