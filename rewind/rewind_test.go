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

package rewind_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cia"
	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/instance"
	memsys "github.com/sixtyfour/c64core/memory/system"
	"github.com/sixtyfour/c64core/rewind"
	"github.com/sixtyfour/c64core/sid"
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

func TestHandleVBlankRecordsAndRewindsOneFrame(t *testing.T) {
	sys := newTestSystem(t)
	buf := rewind.New("")

	sys.Mem.RAM[0x1000] = 1
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	sys.Mem.RAM[0x1000] = 2
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	if buf.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", buf.Depth())
	}

	sys.Mem.RAM[0x1000] = 3
	buf.SetRewinding(true)
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	if sys.Mem.RAM[0x1000] != 2 {
		t.Fatalf("RAM[0x1000] after one rewind step = %d, want 2", sys.Mem.RAM[0x1000])
	}
	if buf.Depth() != 1 {
		t.Fatalf("Depth() after one rewind step = %d, want 1", buf.Depth())
	}
}

func TestRewindFreezesOnOldestRetainedFrame(t *testing.T) {
	sys := newTestSystem(t)
	buf := rewind.New("")

	sys.Mem.RAM[0x1000] = 9
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	buf.SetRewinding(true)
	for i := 0; i < 5; i++ {
		if err := buf.HandleVBlank(sys); err != nil {
			t.Fatal(err)
		}
	}
	if sys.Mem.RAM[0x1000] != 9 {
		t.Fatalf("RAM[0x1000] = %d, want 9 (looping on oldest retained snapshot)", sys.Mem.RAM[0x1000])
	}
	if buf.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 (never drops below the oldest entry)", buf.Depth())
	}
}

func TestResetClearsBufferAndRewindMode(t *testing.T) {
	sys := newTestSystem(t)
	buf := rewind.New("")
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	buf.SetRewinding(true)
	buf.Reset()
	if buf.Depth() != 0 {
		t.Fatalf("Depth() after Reset = %d, want 0", buf.Depth())
	}
	if buf.Rewinding() {
		t.Fatal("Reset must also leave rewind mode")
	}
}

func TestHandleVBlankOnEmptyBufferInRewindModeIsNoop(t *testing.T) {
	sys := newTestSystem(t)
	buf := rewind.New("")
	buf.SetRewinding(true)
	if err := buf.HandleVBlank(sys); err != nil {
		t.Fatal(err)
	}
	if buf.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", buf.Depth())
	}
}
