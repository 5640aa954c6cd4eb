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

package snapshot_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cia"
	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/instance"
	memsys "github.com/sixtyfour/c64core/memory/system"
	"github.com/sixtyfour/c64core/sid"
	"github.com/sixtyfour/c64core/snapshot"
	csystem "github.com/sixtyfour/c64core/system"
	"github.com/sixtyfour/c64core/vic"
)

type fakeVideo struct{}

func (fakeVideo) VICRead(address uint16) uint8 { return 0 }
func (fakeVideo) VICColor(idx uint16) uint8     { return 0 }

func newTestSystem(t *testing.T) *csystem.System {
	ins, err := instance.NewInstance(1)
	if err != nil {
		t.Fatal(err)
	}
	port := &cpu.Port{DDR: 0xFF, Data: 0xFF}
	mem := memsys.New(ins, port)
	if err := mem.LoadBasicROM(make([]byte, 8192)); err != nil {
		t.Fatal(err)
	}
	if err := mem.LoadKernalROM(make([]byte, 8192)); err != nil {
		t.Fatal(err)
	}
	if err := mem.LoadCharROM(make([]byte, 4096)); err != nil {
		t.Fatal(err)
	}
	c := cpu.NewCPU(ins, mem, port)
	v := vic.New(fakeVideo{})
	c1, c2 := cia.New(), cia.New()
	s := sid.New()
	return csystem.New(mem, c, v, c1, c2, s)
}

func TestCaptureThenApplyRestoresRAMAndRegisters(t *testing.T) {
	sys := newTestSystem(t)
	sys.Mem.RAM[0x1000] = 0x42
	sys.CPU.Reg.A = 0x55

	snap, err := snapshot.Capture(sys, "disk.d64")
	if err != nil {
		t.Fatal(err)
	}

	sys.Mem.RAM[0x1000] = 0x00
	sys.CPU.Reg.A = 0x00

	if err := snap.Apply(sys); err != nil {
		t.Fatal(err)
	}
	if sys.Mem.RAM[0x1000] != 0x42 {
		t.Fatalf("RAM[0x1000] = %#x, want 0x42", sys.Mem.RAM[0x1000])
	}
	if sys.CPU.Reg.A != 0x55 {
		t.Fatalf("CPU.Reg.A = %#x, want 0x55", sys.CPU.Reg.A)
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	sys := newTestSystem(t)
	sys.Mem.RAM[0x2000] = 0x99

	snap, err := snapshot.Capture(sys, "drive8.d64")
	if err != nil {
		t.Fatal(err)
	}
	encoded := snap.Encode()

	decoded, err := snapshot.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.DiskPath != "drive8.d64" {
		t.Fatalf("DiskPath = %q, want %q", decoded.DiskPath, "drive8.d64")
	}

	fresh := newTestSystem(t)
	if err := decoded.Apply(fresh); err != nil {
		t.Fatal(err)
	}
	if fresh.Mem.RAM[0x2000] != 0x99 {
		t.Fatalf("restored RAM[0x2000] = %#x, want 0x99", fresh.Mem.RAM[0x2000])
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := snapshot.Decode([]byte("not a snapshot at all, just junk bytes")); err == nil {
		t.Fatal("expected magic tag mismatch error")
	}
}

func TestApplyRejectsCrossModeSnapshot(t *testing.T) {
	sys := newTestSystem(t)
	snap, err := snapshot.Capture(sys, "")
	if err != nil {
		t.Fatal(err)
	}
	sys.Mode = csystem.LineMode
	if err := snap.Apply(sys); err == nil {
		t.Fatal("expected mode-mismatch error applying a cycle-mode snapshot onto a line-mode system")
	}
}
