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

package diskimage_test

import (
	"testing"

	"github.com/sixtyfour/c64core/diskimage"
	"github.com/sixtyfour/c64core/gcr"
)

func blankD64() []byte {
	data := make([]byte, 683*256)
	bamOff := diskimage.SectorOffset[18] * 256
	data[bamOff+162] = 0x30
	data[bamOff+163] = 0x31
	return data
}

func TestParseD64ReadsDiskID(t *testing.T) {
	d, err := diskimage.ParseD64(blankD64())
	if err != nil {
		t.Fatal(err)
	}
	if d.ID1 != 0x30 || d.ID2 != 0x31 {
		t.Fatalf("ID1/ID2 = %x/%x, want 30/31", d.ID1, d.ID2)
	}
}

func TestParseD64RejectsBadSize(t *testing.T) {
	if _, err := diskimage.ParseD64(make([]byte, 100)); err == nil {
		t.Fatal("expected error for undersized image")
	}
}

func TestWriteSectorRoundTrips(t *testing.T) {
	d, err := diskimage.ParseD64(blankD64())
	if err != nil {
		t.Fatal(err)
	}
	var block [256]byte
	block[0] = 0x42
	if err := d.WriteSector(1, 0, block); err != nil {
		t.Fatal(err)
	}
	got, err := d.ReadSector(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0x42 {
		t.Fatalf("got[0] = %#x, want 0x42", got[0])
	}
}

func TestEncodeToHeadPopulatesEveryTrack(t *testing.T) {
	d, err := diskimage.ParseD64(blankD64())
	if err != nil {
		t.Fatal(err)
	}
	h := gcr.NewHead()
	d.EncodeToHead(h)
	if len(h.Tracks[2].Data) != gcr.SectorSize*diskimage.NumSectors[1] {
		t.Fatalf("track 1 half-track length = %d, want %d", len(h.Tracks[2].Data), gcr.SectorSize*diskimage.NumSectors[1])
	}
	if len(h.Tracks[70].Data) != gcr.SectorSize*diskimage.NumSectors[35] {
		t.Fatalf("track 35 half-track length = %d, want %d", len(h.Tracks[70].Data), gcr.SectorSize*diskimage.NumSectors[35])
	}
}

func TestParseG64RejectsBadMagic(t *testing.T) {
	h := gcr.NewHead()
	if _, err := diskimage.ParseG64([]byte("not-a-g64-file-at-all"), h); err == nil {
		t.Fatal("expected error for bad G64 magic")
	}
}
