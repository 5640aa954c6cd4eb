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

// Package gcr implements the 1541's GCR (group coded recording) bit
// layer: 4-to-5 nibble encoding of sector data into the byte stream
// the read/write head actually sees, per-half-track buffers, and the
// per-master-cycle head-position advancement spec.md §4.5 describes.
// Grounded on _examples/original_source/src/1541gcr.cpp's GCRDisk
// (gcr_conv4/sector2gcr for the bit encoding, rotate_disk/SyncFound
// for the cycle-driven head model, advance_disk_change_seq for the
// write-protect-sensor sequence).
package gcr

// SectorSize is the GCR-encoded size of one 256-byte sector: 5-byte
// sync + 10-byte header + 9-byte gap + 5-byte sync + 325-byte data
// block + 16-byte gap.
const SectorSize = 5 + 10 + 9 + 5 + 325 + 16

// BytesPerZoneCycle gives the head's read/write speed, in master
// cycles per GCR byte, for each of the 1541's four bit-rate zones
// (selected by VIA2 PCR/PB bits, fastest on the outer tracks).
var BytesPerZoneCycle = [4]int{32, 30, 28, 26}

// DiskChangeSeqCycles is the duration of one step of the 3-step
// "disk removed" write-protect-sensor pulse sequence; three steps at
// this duration give the ~1.5s total spec.md §4.5 names.
const DiskChangeSeqCycles = 500000

// gcrTable maps a 4-bit nibble to its 5-bit GCR code, chosen so no
// code has more than two consecutive zero bits (needed for reliable
// self-clocking recovery on playback).
var gcrTable = [16]uint16{
	0x0a, 0x0b, 0x12, 0x13, 0x0e, 0x0f, 0x16, 0x17,
	0x09, 0x19, 0x1a, 0x1b, 0x0d, 0x1d, 0x1e, 0x15,
}

// Conv4 packs 4 data bytes into 5 GCR-encoded bytes, two nibbles at a
// time through gcrTable.
func Conv4(from [4]byte) [5]byte {
	var to [5]byte
	var g uint16

	g = gcrTable[from[0]>>4]<<5 | gcrTable[from[0]&0x0F]
	to[0] = uint8(g >> 2)
	to[1] = uint8(g<<6) & 0xc0

	g = gcrTable[from[1]>>4]<<5 | gcrTable[from[1]&0x0F]
	to[1] |= uint8(g>>4) & 0x3f
	to[2] = uint8(g<<4) & 0xf0

	g = gcrTable[from[2]>>4]<<5 | gcrTable[from[2]&0x0F]
	to[2] |= uint8(g>>6) & 0x0f
	to[3] = uint8(g<<2) & 0xfc

	g = gcrTable[from[3]>>4]<<5 | gcrTable[from[3]&0x0F]
	to[3] |= uint8(g>>8) & 0x03
	to[4] = uint8(g)

	return to
}

// EncodeSector builds the GCR byte stream for one 256-byte sector
// block (header + data, with sync marks and inter-block gaps), the
// form actually stored in a half-track buffer.
func EncodeSector(track, sector int, block [256]byte, id1, id2 byte) []byte {
	out := make([]byte, 0, SectorSize)

	// Header block: SYNC, header mark + checksum + sector/track, disk
	// ID + $0F $0F filler, then a 9-byte gap.
	out = append(out, 0xff, 0xff, 0xff, 0xff, 0xff)
	hdr := Conv4([4]byte{0x08, byte(sector) ^ byte(track) ^ id2 ^ id1, byte(sector), byte(track)})
	out = append(out, hdr[:]...)
	hdr2 := Conv4([4]byte{id2, id1, 0x0f, 0x0f})
	out = append(out, hdr2[:]...)
	for i := 0; i < 9; i++ {
		out = append(out, 0x55)
	}

	// Data block: SYNC, data mark + 256 bytes + checksum, then a
	// 16-byte gap.
	out = append(out, 0xff, 0xff, 0xff, 0xff, 0xff)
	var sum byte
	data0 := Conv4([4]byte{0x07, block[0], block[1], block[2]})
	sum = block[0] ^ block[1] ^ block[2]
	out = append(out, data0[:]...)
	for i := 3; i < 255; i += 4 {
		var buf [4]byte
		buf[0], buf[1], buf[2], buf[3] = block[i], block[i+1], block[i+2], block[i+3]
		sum ^= buf[0] ^ buf[1] ^ buf[2] ^ buf[3]
		enc := Conv4(buf)
		out = append(out, enc[:]...)
	}
	sum ^= block[255]
	last := Conv4([4]byte{block[255], sum, 0, 0})
	out = append(out, last[:]...)
	for i := 0; i < 16; i++ {
		out = append(out, 0x55)
	}
	return out
}

// HalfTrack holds one half-track's raw GCR byte stream, as produced
// by EncodeSector concatenation (D64 source) or loaded verbatim (G64
// source, spec §4.5's "raw verbatim" path).
type HalfTrack struct {
	Data []byte
}

// Head models the read/write head riding over one disk's worth of
// half-tracks, advancing in real master cycles the way the drive's
// own bus clock does (spec §4.5's "per-master-cycle head-position
// advancement").
type Head struct {
	Tracks          [84]HalfTrack // indexed by half-track number: track n at index 2n (indices 0 and 1 unused)
	Current         int
	CyclesPerByte   int
	offset          int
	lastByteCycle   uint32
	onSync          bool
	byteReady       bool
	byteLatch       byte
	diskChangeSeq   int
	diskChangeCycle uint32
	motorOn         bool
}

// NewHead constructs a head positioned over half-track 2 (track 1) at
// the zone 0 (slowest) bit rate.
func NewHead() *Head {
	return &Head{Current: 2, CyclesPerByte: BytesPerZoneCycle[0]}
}

// SetBitRate selects one of the four zone speeds (0 = 32 cycles per
// byte, the slowest rate, used on the innermost tracks; 3 = 26 cycles
// per byte, the fastest, used on the outermost).
func (h *Head) SetBitRate(zone uint8) {
	h.CyclesPerByte = BytesPerZoneCycle[zone&3]
}

// SetMotor starts or stops disk rotation; byte readiness and sync
// detection both require the motor on.
func (h *Head) SetMotor(on bool) { h.motorOn = on }

// MoveHeadOut/MoveHeadIn step the head by one half-track, towards the
// disk's outer (lower track number) or inner (higher track number)
// edge, clamped to the 1-41 track range (half-tracks 2..82).
func (h *Head) MoveHeadOut() {
	if h.Current > 2 {
		h.Current--
	}
}

func (h *Head) MoveHeadIn() {
	if h.Current < 82 {
		h.Current++
	}
}

// TriggerDiskChange starts the 3-step write-protect-sensor pulse
// sequence a disk swap produces on real hardware.
func (h *Head) TriggerDiskChange(cycleCounter uint32) {
	h.diskChangeSeq = 3
	h.diskChangeCycle = cycleCounter
}

// DiskChangeActive reports whether the write-protect sensor is still
// mid-pulse (the drive's disk-change detection routine polls this).
func (h *Head) DiskChangeActive() bool { return h.diskChangeSeq > 0 }

func (h *Head) advanceDiskChangeSeq(cycleCounter uint32) {
	for h.diskChangeSeq > 0 && cycleCounter-h.diskChangeCycle >= DiskChangeSeqCycles {
		h.diskChangeSeq--
		h.diskChangeCycle += DiskChangeSeqCycles
	}
}

// Rotate advances the virtual disk rotation to cycleCounter, updating
// sync and byte-ready state. track must already have data loaded via
// Tracks[h.Current].
func (h *Head) Rotate(cycleCounter uint32) {
	h.advanceDiskChangeSeq(cycleCounter)

	t := h.Tracks[h.Current]
	if !h.motorOn || h.diskChangeSeq != 0 || len(t.Data) == 0 {
		h.lastByteCycle = cycleCounter
		h.onSync = false
		h.byteReady = false
		return
	}

	elapsed := cycleCounter - h.lastByteCycle
	advance := int(elapsed) / h.CyclesPerByte
	if advance <= 0 {
		return
	}

	trackLen := len(t.Data)
	h.offset += advance
	for h.offset >= trackLen {
		h.offset -= trackLen
	}

	cur := t.Data[h.offset]
	var prev byte
	if h.offset != 0 {
		prev = t.Data[h.offset-1]
	} else {
		prev = t.Data[trackLen-1]
	}
	// Sync is recognised as ten consecutive "1" bits: the current byte
	// all-ones and the previous byte's low 2 bits also set.
	h.onSync = prev&0x03 == 0x03 && cur == 0xff

	if !h.onSync {
		if !h.byteReady {
			h.byteLatch = cur
			h.byteReady = true
		}
	} else {
		h.byteReady = false
	}

	h.lastByteCycle += uint32(advance * h.CyclesPerByte)
}

// SyncFound reports whether the head is currently positioned over a
// sync mark, after rotating to cycleCounter.
func (h *Head) SyncFound(cycleCounter uint32) bool {
	h.Rotate(cycleCounter)
	return h.onSync
}

// ByteReady reports whether a new GCR byte is latched and waiting to
// be read, after rotating to cycleCounter.
func (h *Head) ByteReady(cycleCounter uint32) bool {
	h.Rotate(cycleCounter)
	return h.byteReady
}

// ReadByte consumes the currently latched GCR byte.
func (h *Head) ReadByte(cycleCounter uint32) byte {
	h.Rotate(cycleCounter)
	h.byteReady = false
	return h.byteLatch
}

// WriteByte stamps a GCR byte directly into the current half-track at
// the head's current offset; used by the format-track/write-sector
// ROM-patch trap handlers (spec §4.5), which bypass bit-level GCR
// writing and rewrite the affected sector(s) in bulk instead of
// streaming individual bytes through this path in the general case.
func (h *Head) WriteByte(b byte) {
	t := &h.Tracks[h.Current]
	if len(t.Data) == 0 {
		return
	}
	t.Data[h.offset%len(t.Data)] = b
}
