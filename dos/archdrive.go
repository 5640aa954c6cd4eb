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

package dos

import (
	"bytes"
	"errors"
)

// archEntry is one file's extent within an archive's raw byte image.
type archEntry struct {
	name       string
	start, end int
}

// ArchDrive presents a read-only T64 or P00 archive as a DOS-level
// drive slot (LYNX archives are not parsed): both formats store whole
// PRG-equivalent
// files with no block-chain structure to maintain, so writes are
// rejected outright rather than partially supported. Grounded on
// _examples/original_source/src/1541t64.h's directory layout.
type ArchDrive struct {
	entries  []archEntry
	data     []byte
	channels [16]fsChannel
}

// NewArchDriveT64 parses a T64 tape archive image. A T64 file is a
// 64-byte header, an array of 32-byte directory entries starting at
// offset $40, each giving a start/end address and a file offset, and
// then the raw file bodies.
func NewArchDriveT64(data []byte) (*ArchDrive, error) {
	if len(data) < 64 || !bytes.HasPrefix(data, []byte("C64")) {
		return nil, errors.New("dos: not a T64 image")
	}
	numEntries := int(data[34]) | int(data[35])<<8
	d := &ArchDrive{data: data}
	for i := 0; i < numEntries; i++ {
		off := 64 + i*32
		if off+32 > len(data) {
			break
		}
		entryType := data[off]
		if entryType == 0 {
			continue
		}
		startAddr := int(data[off+2]) | int(data[off+3])<<8
		endAddr := int(data[off+4]) | int(data[off+5])<<8
		fileOffset := int(data[off+8]) | int(data[off+9])<<8 | int(data[off+10])<<16 | int(data[off+11])<<24
		name := trimPETSCIIPad(data[off+16 : off+32])
		size := endAddr - startAddr
		if size < 0 || fileOffset+size > len(data) {
			continue
		}
		d.entries = append(d.entries, archEntry{name: name, start: fileOffset, end: fileOffset + size})
	}
	return d, nil
}

// NewArchDriveP00 parses a single P00/S00/etc. archive: an 8-byte
// magic, a 17-byte null-padded filename, a relative-file record-size
// byte, then the raw PRG body.
func NewArchDriveP00(data []byte) (*ArchDrive, error) {
	if len(data) < 26 || !bytes.HasPrefix(data, []byte("C64File")) {
		return nil, errors.New("dos: not a P00 image")
	}
	name := trimPETSCIIPad(data[8:25])
	return &ArchDrive{data: data, entries: []archEntry{{name: name, start: 26, end: len(data)}}}, nil
}

func trimPETSCIIPad(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == 0xA0) {
		end--
	}
	return string(b[:end])
}

func (d *ArchDrive) findEntry(name string) (archEntry, bool) {
	for _, e := range d.entries {
		if e.name == name {
			return e, true
		}
	}
	return archEntry{}, false
}

func (d *ArchDrive) Open(ch int, name []byte) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	n := trimPETSCIIPad(name)
	if n == "$" {
		var dir []byte
		for _, e := range d.entries {
			dir = append(dir, []byte(e.name)...)
			dir = append(dir, 0)
		}
		d.channels[ch] = fsChannel{open: true, data: dir, isDir: true}
		return StatusOK
	}
	e, ok := d.findEntry(n)
	if !ok {
		for _, cand := range d.entries {
			if MatchName(padTo16(cand.name), name) {
				e, ok = cand, true
				break
			}
		}
	}
	if !ok {
		return StatusNotFound
	}
	d.channels[ch] = fsChannel{open: true, data: d.data[e.start:e.end]}
	return StatusOK
}

func padTo16(s string) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = 0xA0
	}
	copy(out[:], s)
	return out
}

func (d *ArchDrive) Close(ch int) uint8 {
	d.channels[ch] = fsChannel{}
	return StatusOK
}

func (d *ArchDrive) Read(ch int) (byte, uint8) {
	c := &d.channels[ch]
	if !c.open || c.pos >= len(c.data) {
		return 0, StatusEOF
	}
	b := c.data[c.pos]
	c.pos++
	if c.pos >= len(c.data) {
		return b, StatusEOF
	}
	return b, StatusOK
}

// Write always fails: archive formats are read-only in this drive.
func (d *ArchDrive) Write(ch int, b byte, eoi bool) uint8 { return StatusDiskFull }

func (d *ArchDrive) Reset() {
	for i := range d.channels {
		d.channels[i] = fsChannel{}
	}
}

func (d *ArchDrive) BlockRead(ch, track, sector int)  {}
func (d *ArchDrive) BlockWrite(ch, track, sector int) {}
func (d *ArchDrive) BlockAllocate(track, sector int)  {}
func (d *ArchDrive) BlockFree(track, sector int)      {}
func (d *ArchDrive) Initialize()                      {}
func (d *ArchDrive) Validate()                        {}
func (d *ArchDrive) Scratch(name []byte)              {}

// Rename, Copy and New are rejected: an archive's directory is fixed
// at parse time, the same read-only stance as Write.
func (d *ArchDrive) Rename(newName, oldName []byte) uint8        { return StatusDiskFull }
func (d *ArchDrive) Copy(newName []byte, sources [][]byte) uint8 { return StatusDiskFull }
func (d *ArchDrive) New(name, id []byte) uint8                   { return StatusDiskFull }

// Position is unsupported: neither T64 nor P00 carries REL-file record
// structure, matching 1541d64.cpp's own "No support for relative
// files" stance.
func (d *ArchDrive) Position(ch int, record uint16) uint8 { return StatusNotFound }

// MemoryRead/MemoryWrite have nothing to operate on: ArchDrive models
// no drive RAM, only a parsed archive byte image.
func (d *ArchDrive) MemoryRead(address uint16, length uint8) []byte { return nil }
func (d *ArchDrive) MemoryWrite(address uint16, data []byte)        {}

// MemoryExecute is impossible here for the same reason 1541d64.cpp
// gives up on M-E: there is no drive CPU program counter to jump.
func (d *ArchDrive) MemoryExecute(address uint16) uint8 { return StatusNotFound }

// BufferPointer repositions the channel's read cursor within its
// already-loaded entry data.
func (d *ArchDrive) BufferPointer(ch int, pos int) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.channels[ch].data) {
		pos = len(d.channels[ch].data)
	}
	d.channels[ch].pos = pos
	return StatusOK
}
