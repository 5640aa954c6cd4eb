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

// Package diskimage parses the on-disk D64/G64 image formats into the
// per-half-track GCR buffers the gcr package's Head rotates over, per
// spec.md §4.5: D64 sectors are GCR-encoded on load (pre-encoded into
// per-half-track buffers); G64 half-tracks are stored pre-encoded and
// loaded verbatim. Grounded on
// _examples/original_source/src/1541d64.cpp (track/sector geometry,
// BAM layout) and 1541gcr.cpp's load_image_file/load_gcr_file.
package diskimage

import (
	"errors"
	"fmt"

	"github.com/sixtyfour/c64core/gcr"
)

// NumSectors gives the sector count of each of the 35 standard D64
// tracks (index 0 unused, tracks 36-40 are the non-standard 40-track
// extension some images carry).
var NumSectors = [41]int{
	0,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	19, 19, 19, 19, 19, 19, 19,
	18, 18, 18, 18, 18, 18,
	17, 17, 17, 17, 17,
	17, 17, 17, 17, 17,
}

// SectorOffset gives the 0-based block index of the first sector of
// each track within a D64 file.
var SectorOffset = [41]int{
	0,
	0, 21, 42, 63, 84, 105, 126, 147, 168, 189, 210, 231, 252, 273, 294, 315, 336,
	357, 376, 395, 414, 433, 452, 471,
	490, 508, 526, 544, 562, 580,
	598, 615, 632, 649, 666,
	683, 700, 717, 734, 751,
}

// DirTrack is the track holding the BAM (sector 0) and directory
// chain for a standard 1541 disk.
const DirTrack = 18

const (
	d6435Tracks = 683 * 256 // size of a standard 35-track D64 without error info
)

// D64 is a parsed D64 sector image: a flat byte buffer addressed by
// (track, sector), plus the two single-byte disk ID characters read
// out of the BAM.
type D64 struct {
	raw       []byte
	NumTracks int
	ID1, ID2  byte
}

// ParseD64 validates size and reads the disk ID out of the BAM
// (track 18, sector 0, offset $A2/$A3).
func ParseD64(data []byte) (*D64, error) {
	numTracks := 35
	switch len(data) {
	case 683 * 256, 683*256 + 683:
		numTracks = 35
	case 768 * 256, 768*256 + 768:
		numTracks = 40
	default:
		return nil, fmt.Errorf("diskimage: unrecognised D64 size %d", len(data))
	}
	d := &D64{raw: data, NumTracks: numTracks}
	bam, err := d.ReadSector(DirTrack, 0)
	if err != nil {
		return nil, err
	}
	d.ID1, d.ID2 = bam[162], bam[163]
	return d, nil
}

func (d *D64) offset(track, sector int) (int, error) {
	if track < 1 || track > d.NumTracks || sector < 0 || sector >= NumSectors[track] {
		return 0, fmt.Errorf("diskimage: invalid track/sector %d/%d", track, sector)
	}
	return (SectorOffset[track] + sector) * 256, nil
}

// ReadSector returns a copy of one 256-byte sector.
func (d *D64) ReadSector(track, sector int) ([256]byte, error) {
	var out [256]byte
	off, err := d.offset(track, sector)
	if err != nil {
		return out, err
	}
	copy(out[:], d.raw[off:off+256])
	return out, nil
}

// WriteSector overwrites one 256-byte sector in place.
func (d *D64) WriteSector(track, sector int, block [256]byte) error {
	off, err := d.offset(track, sector)
	if err != nil {
		return err
	}
	copy(d.raw[off:off+256], block[:])
	return nil
}

// Bytes returns the underlying D64 buffer, for flushing back to disk
// on close.
func (d *D64) Bytes() []byte { return d.raw }

// EncodeToHead GCR-encodes every sector of every track into h's
// half-track buffers, occupying only the "whole" half-tracks
// (half-track indices 2, 4, 6, ... hold track 1, 2, 3, ...) since a D64 image carries no information about the physical
// half-tracks in between.
func (d *D64) EncodeToHead(h *gcr.Head) {
	for track := 1; track <= d.NumTracks; track++ {
		n := NumSectors[track]
		buf := make([]byte, 0, gcr.SectorSize*n)
		for sector := 0; sector < n; sector++ {
			block, _ := d.ReadSector(track, sector)
			buf = append(buf, gcr.EncodeSector(track, sector, block, d.ID1, d.ID2)...)
		}
		h.Tracks[track*2] = gcr.HalfTrack{Data: buf}
	}
}

// ReEncodeTrack re-runs GCR encoding for a single track after a
// format-track or write-sector trap handler has modified the
// underlying D64 buffer directly (spec §4.5's ROM-patch bypass path).
func (d *D64) ReEncodeTrack(h *gcr.Head, track int) error {
	if track < 1 || track > d.NumTracks {
		return errors.New("diskimage: track out of range")
	}
	n := NumSectors[track]
	buf := make([]byte, 0, gcr.SectorSize*n)
	for sector := 0; sector < n; sector++ {
		block, err := d.ReadSector(track, sector)
		if err != nil {
			return err
		}
		buf = append(buf, gcr.EncodeSector(track, sector, block, d.ID1, d.ID2)...)
	}
	h.Tracks[track*2] = gcr.HalfTrack{Data: buf}
	return nil
}

// G64 is a pre-GCR-encoded disk image: each half-track's raw byte
// stream is stored verbatim in the file, so loading is a direct copy
// with no sector encoding pass.
type G64 struct {
	NumHalftracks int
}

var g64Magic = [8]byte{'G', 'C', 'R', '-', '1', '5', '4', '1'}

// ParseG64 validates the header and loads every half-track's raw GCR
// stream directly into h.
func ParseG64(data []byte, h *gcr.Head) (*G64, error) {
	if len(data) < 12 || [8]byte{data[0], data[1], data[2], data[3], data[4], data[5], data[6], data[7]} != g64Magic {
		return nil, errors.New("diskimage: not a G64 image")
	}
	numHalftracks := int(data[9])
	if numHalftracks > 84 {
		numHalftracks = 84
	}
	trackOffsetTable := data[12:]
	for i := 0; i < numHalftracks; i++ {
		base := i * 4
		if base+4 > len(trackOffsetTable) {
			break
		}
		off := uint32(trackOffsetTable[base]) | uint32(trackOffsetTable[base+1])<<8 |
			uint32(trackOffsetTable[base+2])<<16 | uint32(trackOffsetTable[base+3])<<24
		if off == 0 || int(off)+2 > len(data) {
			continue
		}
		length := int(data[off]) | int(data[off+1])<<8
		start := int(off) + 2
		if start+length > len(data) {
			length = len(data) - start
		}
		// Table entry i is half-track i+2 (entry 0 is track 1).
		if i+2 >= len(h.Tracks) {
			break
		}
		h.Tracks[i+2] = gcr.HalfTrack{Data: append([]byte{}, data[start:start+length]...)}
	}
	return &G64{NumHalftracks: numHalftracks}, nil
}
