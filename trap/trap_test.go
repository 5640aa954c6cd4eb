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

package trap_test

import (
	"testing"

	"github.com/sixtyfour/c64core/trap"
)

func TestApplyPatchesWritesF2AtEveryOffset(t *testing.T) {
	rom := make([]byte, 0x2000)
	trap.ApplyPatches(rom, trap.KernalPatchTable)
	for _, e := range trap.KernalPatchTable {
		if rom[e.Offset] != 0xf2 {
			t.Fatalf("offset %#x = %#x, want 0xf2", e.Offset, rom[e.Offset])
		}
	}
}

func TestDispatchRoutesToWiredHandler(t *testing.T) {
	var gotData uint8
	var gotEOI bool
	h := trap.Handlers{
		Out: func(data uint8, eoi bool) uint8 {
			gotData, gotEOI = data, eoi
			return 0x00
		},
	}
	status, _, ok := h.Dispatch(trap.IECOut, 0x42, true)
	if !ok {
		t.Fatal("expected Out handler to be dispatched")
	}
	if status != 0 || gotData != 0x42 || !gotEOI {
		t.Fatalf("status=%d gotData=%#x gotEOI=%v", status, gotData, gotEOI)
	}
}

func TestDispatchReportsNotOKWhenUnwired(t *testing.T) {
	var h trap.Handlers
	if _, _, ok := h.Dispatch(trap.IECIn, 0, false); ok {
		t.Fatal("expected no dispatch for an unwired handler")
	}
}

func TestDriveIdleIsInTable(t *testing.T) {
	found := false
	for _, e := range trap.Drive1541PatchTable {
		if e.Trap == trap.DriveIdle {
			found = true
		}
	}
	if !found {
		t.Fatal("expected DriveIdle trap in the drive patch table")
	}
}
