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

package gcr_test

import (
	"testing"

	"github.com/sixtyfour/c64core/gcr"
)

func TestEncodeSectorProducesStandardSize(t *testing.T) {
	var block [256]byte
	out := gcr.EncodeSector(1, 0, block, 0x30, 0x31)
	if len(out) != gcr.SectorSize {
		t.Fatalf("len(out) = %d, want %d", len(out), gcr.SectorSize)
	}
	if out[0] != 0xff || out[4] != 0xff {
		t.Fatalf("expected leading 5-byte sync, got %x", out[:5])
	}
}

func TestHeadDetectsSyncAfterRotation(t *testing.T) {
	h := gcr.NewHead()
	h.SetMotor(true)
	var block [256]byte
	data := gcr.EncodeSector(1, 0, block, 0x30, 0x31)
	// Repeat the single sector enough times to fill a plausible track.
	full := append([]byte{}, data...)
	for i := 1; i < 21; i++ {
		full = append(full, data...)
	}
	h.Tracks[h.Current] = gcr.HalfTrack{Data: full}

	// Offset 0 follows the track's trailing $55 gap byte, so the first
	// position that qualifies as sync is offset 1, one byte time later.
	if !h.SyncFound(uint32(h.CyclesPerByte)) {
		t.Fatal("expected sync at offset 1 (inside the five $FF bytes)")
	}
}

func TestByteReadyAdvancesWithCycles(t *testing.T) {
	h := gcr.NewHead()
	h.SetMotor(true)
	h.Tracks[h.Current] = gcr.HalfTrack{Data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x52, 0x55}}

	if h.ByteReady(0) {
		t.Fatal("no bytes should be ready before any cycles elapse beyond sync")
	}
	cycle := uint32(h.CyclesPerByte * 6)
	if !h.ByteReady(cycle) {
		t.Fatal("expected a byte ready once the head has moved past the sync run")
	}
}

func TestDiskChangeSequenceBlocksRotationUntilElapsed(t *testing.T) {
	h := gcr.NewHead()
	h.SetMotor(true)
	h.Tracks[h.Current] = gcr.HalfTrack{Data: []byte{0x55, 0x55, 0x55, 0x55}}
	h.TriggerDiskChange(0)

	if !h.DiskChangeActive() {
		t.Fatal("expected disk-change sequence to be active immediately after trigger")
	}
	h.Rotate(gcr.DiskChangeSeqCycles * 3)
	if h.DiskChangeActive() {
		t.Fatal("expected disk-change sequence to clear after 3 steps have elapsed")
	}
}

func TestMoveHeadClampsAtTrackLimits(t *testing.T) {
	h := gcr.NewHead()
	for i := 0; i < 200; i++ {
		h.MoveHeadOut()
	}
	if h.Current != 2 {
		t.Fatalf("Current = %d, want clamped to 2", h.Current)
	}
	for i := 0; i < 200; i++ {
		h.MoveHeadIn()
	}
	if h.Current != 82 {
		t.Fatalf("Current = %d, want clamped to 82", h.Current)
	}
}
