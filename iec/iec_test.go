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

package iec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sixtyfour/c64core/dos"
	"github.com/sixtyfour/c64core/iec"
)

func TestListenUnknownDeviceReturnsNotPresent(t *testing.T) {
	b := iec.New()
	if status := b.OutATN(0x28); status != iec.StatusNotPresent { // LISTEN device 8, no drive attached
		t.Fatalf("status = %#x, want NotPresent", status)
	}
}

func TestOpenAndReadRoundTripsThroughFSDrive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "FOO"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	b := iec.New()
	b.Slots[0] = &iec.DriveSlot{Drive: dos.NewFSDrive(dir), Ready: true}

	if status := b.OutATN(0x28); status != iec.StatusOK { // LISTEN device 8
		t.Fatalf("LISTEN status = %#x, want OK", status)
	}
	if status := b.OutSec(0xF2); status != iec.StatusOK { // OPEN channel 2
		t.Fatalf("OPEN status = %#x, want OK", status)
	}
	if status := b.Out('F', false); status != iec.StatusOK {
		t.Fatalf("Out('F') status = %#x, want OK", status)
	}
	if status := b.Out('O', false); status != iec.StatusOK {
		t.Fatalf("Out('O') status = %#x, want OK", status)
	}
	if status := b.Out('O', true); status != iec.StatusOK { // EOI triggers Open
		t.Fatalf("Out('O', eoi) status = %#x, want OK", status)
	}

	if status := b.OutATN(0x48); status != iec.StatusOK { // TALK device 8
		t.Fatalf("TALK status = %#x, want OK", status)
	}
	if status := b.OutSec(0x62); status != iec.StatusOK { // data channel 2
		t.Fatalf("secondary-talk status = %#x, want OK", status)
	}
	data, status := b.In()
	if data != 1 {
		t.Fatalf("first byte read = %d, want 1", data)
	}
	_ = status
}

func TestUnlistenClearsListenerActive(t *testing.T) {
	b := iec.New()
	b.Slots[0] = &iec.DriveSlot{Drive: dos.NewFSDrive(t.TempDir()), Ready: true}
	b.OutATN(0x28)
	if status := b.OutATN(0x3F); status != iec.StatusOK { // UNLISTEN
		t.Fatalf("UNLISTEN status = %#x, want OK", status)
	}
	if status := b.Out(0x00, false); status != iec.StatusTimeout {
		t.Fatalf("Out after UNLISTEN status = %#x, want Timeout", status)
	}
}
