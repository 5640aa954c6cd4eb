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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fsChannel holds one open file's (or synthesized listing's) whole
// contents and a read cursor. Read returns StatusEOF together with the
// last byte, where the 1541 serial protocol marks EOI, so no separate
// read-ahead byte is kept.
type fsChannel struct {
	open     bool
	data     []byte
	pos      int
	isDir    bool
}

// FSDrive presents a host filesystem directory as a DOS-level 1541
// drive: regular files map 1:1 to PRG files with SEQ/PRG type
// inferred from name, and opening "$" synthesizes a BASIC-listable
// directory file. Grounded on 1541fs.cpp's open_directory/scan_directory.
type FSDrive struct {
	root     string
	channels [16]fsChannel
}

// NewFSDrive binds a DOS-level slot to a host directory.
func NewFSDrive(root string) *FSDrive {
	return &FSDrive{root: root}
}

func (d *FSDrive) Open(ch int, name []byte) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	n := strings.TrimRight(string(name), "\x00")
	if n == "$" || strings.HasPrefix(n, "$") {
		data, err := d.buildDirectory(strings.TrimPrefix(n, "$"))
		if err != nil {
			return StatusNotFound
		}
		d.channels[ch] = fsChannel{open: true, data: data, isDir: true}
		return StatusOK
	}
	path := filepath.Join(d.root, petsciiToHost(n))
	data, err := os.ReadFile(path)
	if err != nil {
		return StatusNotFound
	}
	d.channels[ch] = fsChannel{open: true, data: data}
	return StatusOK
}

func (d *FSDrive) Close(ch int) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	d.channels[ch] = fsChannel{}
	return StatusOK
}

func (d *FSDrive) Read(ch int) (byte, uint8) {
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

func (d *FSDrive) Write(ch int, b byte, eoi bool) uint8 {
	c := &d.channels[ch]
	if !c.open {
		return StatusNotFound
	}
	c.data = append(c.data, b)
	return StatusOK
}

func (d *FSDrive) Reset() {
	for i := range d.channels {
		d.channels[i] = fsChannel{}
	}
}

func (d *FSDrive) BlockRead(ch, track, sector int)  {}
func (d *FSDrive) BlockWrite(ch, track, sector int) {}
func (d *FSDrive) BlockAllocate(track, sector int)  {}
func (d *FSDrive) BlockFree(track, sector int)      {}
func (d *FSDrive) Initialize()                      {}
func (d *FSDrive) Validate()                        {}

func (d *FSDrive) Scratch(name []byte) {
	path := filepath.Join(d.root, petsciiToHost(strings.TrimRight(string(name), "\x00")))
	os.Remove(path)
}

// Rename renames a host file in place, the natural host-filesystem
// counterpart of 1541d64.cpp's rename_cmd directory-entry rewrite.
func (d *FSDrive) Rename(newName, oldName []byte) uint8 {
	oldPath := filepath.Join(d.root, petsciiToHost(strings.TrimRight(string(oldName), "\x00")))
	newPath := filepath.Join(d.root, petsciiToHost(strings.TrimRight(string(newName), "\x00")))
	if err := os.Rename(oldPath, newPath); err != nil {
		return StatusNotFound
	}
	return StatusOK
}

// Copy concatenates the named source files into a new host file,
// mirroring 1541d64.cpp's copy_cmd without any block-chain bookkeeping.
func (d *FSDrive) Copy(newName []byte, sourceNames [][]byte) uint8 {
	dstPath := filepath.Join(d.root, petsciiToHost(strings.TrimRight(string(newName), "\x00")))
	var out []byte
	for _, src := range sourceNames {
		data, err := os.ReadFile(filepath.Join(d.root, petsciiToHost(strings.TrimRight(string(src), "\x00"))))
		if err != nil {
			return StatusNotFound
		}
		out = append(out, data...)
	}
	if err := os.WriteFile(dstPath, out, 0644); err != nil {
		return StatusNotFound
	}
	return StatusOK
}

// Position is unsupported: a host file has no REL-file record
// structure to seek within, matching 1541d64.cpp's own "No support
// for relative files" stance.
func (d *FSDrive) Position(ch int, record uint16) uint8 { return StatusNotFound }

// New (format) is a no-op: a bare directory drive has no BAM to
// rebuild, and wiping the host directory's contents to emulate a
// format would destroy files that aren't this drive's to delete.
func (d *FSDrive) New(name, id []byte) uint8 { return StatusOK }

// MemoryRead/MemoryWrite have nothing to operate on: FSDrive models no
// drive RAM, only a host directory.
func (d *FSDrive) MemoryRead(address uint16, length uint8) []byte { return nil }
func (d *FSDrive) MemoryWrite(address uint16, data []byte)        {}

// MemoryExecute is impossible here for the same reason 1541d64.cpp
// gives up on M-E: there is no drive CPU program counter to jump.
func (d *FSDrive) MemoryExecute(address uint16) uint8 { return StatusNotFound }

// BufferPointer repositions the channel's read cursor within its
// already-loaded data, the host-file equivalent of 1541d64.cpp's
// buffer_pointer_cmd.
func (d *FSDrive) BufferPointer(ch int, pos int) uint8 {
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

// buildDirectory synthesizes a 1541 directory listing as a BASIC
// program: each line is a link + line-number pair (unused by a
// directory reader, but required by the listable-program format)
// followed by the block count, file name in quotes, and file type.
func (d *FSDrive) buildDirectory(pattern string) ([]byte, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []byte
	out = append(out, 0x01, 0x08) // load address $0801, matching a PRG directory listing

	appendLine := func(blocks uint16, text string) {
		out = append(out, 0x01, 0x01) // placeholder link address, patched by the KERNAL LOAD/LIST path
		out = append(out, byte(blocks), byte(blocks>>8))
		out = append(out, text...)
		out = append(out, 0x00)
	}
	appendLine(0, "\x12\"DIRECTORY       \" 00 2A")
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		blocks := uint16((info.Size() + 253) / 254)
		name := strings.ToUpper(e.Name())
		ext := strings.ToUpper(filepath.Ext(name))
		ftype := "PRG"
		switch ext {
		case ".SEQ":
			ftype = "SEQ"
		case ".REL":
			ftype = "REL"
		}
		appendLine(blocks, "\""+strings.TrimSuffix(name, ext)+"\" "+ftype)
	}
	out = append(out, 0x00, 0x00) // end of program marker
	return out, nil
}

// petsciiToHost maps a PETSCII-ish DOS filename (as seen on the bus)
// to a host filename by trimming surrounding spaces only; no case
// folding or character mapping is applied, so the name must match the
// host file's name exactly.
func petsciiToHost(name string) string {
	return strings.TrimSpace(name)
}
