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

package drivecpu_test

import (
	"testing"

	"github.com/sixtyfour/c64core/drivecpu"
	"github.com/sixtyfour/c64core/trap"
)

func TestRAMMirrorsEvery0x800(t *testing.T) {
	s := drivecpu.New()
	s.Write(0x0000, 0x42)
	v, err := s.Read(0x0800)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x42 {
		t.Fatalf("mirrored RAM read = %#x, want 0x42", v)
	}
}

func TestROMWritesAreDiscarded(t *testing.T) {
	s := drivecpu.New()
	if err := s.Write(0xC000, 0x99); err != nil {
		t.Fatal(err)
	}
	v, _ := s.Read(0xC000)
	if v != 0x00 {
		t.Fatalf("ROM read after write = %#x, want unchanged 0x00", v)
	}
}

func TestVIA1AddressWindowRoutesToVIA(t *testing.T) {
	s := drivecpu.New()
	if err := s.Write(0x1802, 0x55); err != nil { // DDRA-ish offset, any VIA register works for routing check
		t.Fatal(err)
	}
	v, err := s.Read(0x1802)
	if err != nil {
		t.Fatal(err)
	}
	_ = v // exercising the route is the point; via.VIA's own tests cover register semantics
}

func TestHandleTrapIdleParksCPUWhenNoWork(t *testing.T) {
	s := drivecpu.New()
	pc, ok := s.HandleTrap(trap.DriveIdle, false, false, nil, nil)
	if !ok || pc != 0xebff {
		t.Fatalf("pc=%#x ok=%v, want 0xebff/true", pc, ok)
	}
	if !s.Idle {
		t.Fatal("expected Idle to be set when no error flag and no command pending")
	}
}

func TestHandleTrapWriteSectorInvokesCallback(t *testing.T) {
	s := drivecpu.New()
	called := false
	pc, ok := s.HandleTrap(trap.DriveWriteSector, false, false, func() { called = true }, nil)
	if !ok || pc != 0xf5dc {
		t.Fatalf("pc=%#x ok=%v, want 0xf5dc/true", pc, ok)
	}
	if !called {
		t.Fatal("expected WriteSector callback to run")
	}
}
