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

// Package dos implements the 1541's DOS-level command and channel
// semantics that sit on top of a disk image: the Drive contract spec
// §4.6 describes (Open/Close/Read/Write/Reset plus the command
// callbacks KERNAL DOS routines trigger), and three concrete drive
// kinds bound to a DOS-level slot: ImageDrive (D64/X64), FSDrive (a
// host filesystem directory presented as a synthetic disk) and
// ArchDrive (T64 and P00 read-only archives; LYNX archives are not
// parsed). Grounded on
// _examples/original_source/src/1541d64.cpp (ImageDrive: BAM
// allocation/interleave/validate, directory-entry layout, block
// chaining, open_directory listing synthesis), 1541fs.cpp (FSDrive:
// directory synthesis, read-ahead buffering) and IEC.h's Drive
// interface.
package dos

import (
	"bytes"
	"fmt"

	"github.com/sixtyfour/c64core/diskimage"
	"github.com/sixtyfour/c64core/gcr"
)

// Status codes returned by Open/Close/Read/Write, following the 1541
// KERNAL's channel status byte convention: 0 = OK, ST_EOF/ST_READ_ERR
// are bit flags a real drive ORs into the serial status register
// rather than distinct return values, but as a single-channel-op
// return value the values below are sufficient for the callers in
// this package. 1541d64.cpp's open_file/create_file return ST_OK from
// almost every branch, including "file not found" and "file exists"
// paths: those conditions are reported asynchronously through the
// command/error channel (set_error), not through Open's own return
// value, so ImageDrive.Open below follows the same convention.
const (
	StatusOK       = 0
	StatusEOF      = 0x40
	StatusNotFound = 0x03
	StatusDiskFull = 0x48
)

// Drive is the contract a DOS-level device (slots 8-11) implements,
// mirroring IEC.h's abstract Drive base: channel I/O plus the full set
// of command-channel callbacks a "B-A"/"M-R"/"C"/"R"/"S" etc. DOS
// command dispatches into.
type Drive interface {
	Open(channel int, name []byte) (status uint8)
	Close(channel int) (status uint8)
	Read(channel int) (b byte, status uint8)
	Write(channel int, b byte, eoi bool) (status uint8)
	Reset()

	BlockRead(channel, track, sector int)
	BlockWrite(channel, track, sector int)
	BlockAllocate(track, sector int)
	BlockFree(track, sector int)
	Initialize()
	Validate()
	Scratch(name []byte)

	Rename(newName, oldName []byte) uint8
	Copy(newName []byte, sourceNames [][]byte) uint8
	Position(channel int, record uint16) uint8
	New(name, id []byte) uint8
	MemoryRead(address uint16, length uint8) []byte
	MemoryWrite(address uint16, data []byte)
	MemoryExecute(address uint16) uint8
	BufferPointer(channel int, pos int) uint8
}

// ---- ImageDrive ---------------------------------------------------

const (
	dirTrack       = diskimage.DirTrack
	dirInterleave  = 3
	dataInterleave = 10
)

// Directory entry layout (1541d64.cpp: DE_* offsets), 32 bytes per
// entry, 8 entries per 256-byte directory block starting at offset 2
// (the first two bytes of every directory/data block are the next
// track/sector chain link).
const (
	direntsPerBlock = 8
	direntSize      = 32
	dirEntriesOff   = 2

	deType        = 0
	deTrack       = 1
	deSector      = 2
	deName        = 3
	deSideTrack   = 19
	deSideSector  = 20
	deOvrTrack    = 26
	deOvrSector   = 27
	deNumBlocksLo = 28
	deNumBlocksHi = 29

	deClosedBit = 0x80
	deLockedBit = 0x40
	deTypeMask  = 0x0F
)

// File types stored in the low nibble of a directory entry's type
// byte.
const (
	ftypeDEL = 0
	ftypeSEQ = 1
	ftypePRG = 2
	ftypeUSR = 3
	ftypeREL = 4

	ftypeUnspecified = -1
)

// Open modes decoded out of a comma-separated OPEN name
// ("NAME,S,W"), per 1541d64.cpp's parse_file_name.
const (
	modeUnspecified = -1
	modeRead        = 0
	modeWrite       = 1
	modeAppend      = 2
)

func dirEntryOffset(entry int) int { return dirEntriesOff + entry*direntSize }

// channel tracks one open file's chain position, or (for a directory
// listing / M-R style raw buffer) a flat byte buffer with its own
// cursor. Read-ahead EOF signalling for chained files comes from the
// block's own next-track/next-sector link bytes (0 in byte 0 means
// the block at hand is the last one, and byte 1 gives the index of
// its final valid content byte) rather than a separate look-ahead
// byte, following 1541d64.cpp's CHMOD_FILE read loop.
type channel struct {
	open    bool
	writing bool
	loaded  bool

	track, sec int
	pos        int
	block      [256]byte
	blockLen   int

	dirEntryTrack, dirEntrySector int
	entry                         int
	ftype                         int
	overwrite                     bool
	numBlocks                     int

	isDir  bool
	dirBuf []byte
	dirPos int
}

// ImageDrive backs a DOS-level slot with a D64 image: the in-memory
// BAM is authoritative during the session and flushed to the image's
// track 18 sector 0 on Close/Flush, matching 1541d64.cpp's convention
// of keeping the BAM in memory and writing it back only on flush.
type ImageDrive struct {
	img      *diskimage.D64
	head     *gcr.Head // nil if this slot isn't also wired to GCR playback
	bam      [256]byte
	channels [16]channel
	err      uint8
}

// NewImageDrive loads the BAM out of img for in-memory allocation
// bookkeeping. head may be nil when this drive is used purely at the
// DOS level (no processor-level 1541/GCR emulation backing it).
func NewImageDrive(img *diskimage.D64, head *gcr.Head) (*ImageDrive, error) {
	d := &ImageDrive{img: img, head: head}
	bam, err := img.ReadSector(dirTrack, 0)
	if err != nil {
		return nil, err
	}
	d.bam = bam
	return d, nil
}

func (d *ImageDrive) freeCount(track int) int {
	return int(d.bam[4+(track-1)*4])
}

func (d *ImageDrive) setFreeCount(track, n int) { d.bam[4+(track-1)*4] = byte(n) }

func (d *ImageDrive) isFree(track, sector int) bool {
	byteIdx := 4 + (track-1)*4 + 1 + sector/8
	bit := uint(sector % 8)
	return d.bam[byteIdx]&(1<<bit) != 0
}

func (d *ImageDrive) setFree(track, sector int, free bool) {
	byteIdx := 4 + (track-1)*4 + 1 + sector/8
	bit := uint(sector % 8)
	was := d.isFree(track, sector)
	if free {
		d.bam[byteIdx] |= 1 << bit
	} else {
		d.bam[byteIdx] &^= 1 << bit
	}
	if was != free {
		n := d.freeCount(track)
		if free {
			n++
		} else {
			n--
		}
		d.setFreeCount(track, n)
	}
}

// allocNextBlock walks away from the directory track looking for a
// track with a free sector (from a track below 18: downward to track
// 1, then upward from 19 to 35; from a track above 18: upward to 35,
// then downward from 17), then picks the
// sector nearest interleave steps from the given starting sector, per
// 1541d64.cpp's alloc_next_block. Callers allocating a file's very
// first block pass sector=-interleave (as create_file does) so the
// first add lands on sector 0 of the first candidate track.
func (d *ImageDrive) allocNextBlock(track, sector, interleave int) (int, int, error) {
	sideChanged := false
	for d.freeCount(track) == 0 {
		if track == dirTrack {
			return 0, 0, fmt.Errorf("dos: disk full")
		}
		if track > dirTrack {
			track++
			if track > 35 {
				if sideChanged {
					return 0, 0, fmt.Errorf("dos: disk full")
				}
				sideChanged = true
				track, sector = dirTrack-1, 0
			}
		} else {
			track--
			if track < 1 {
				if sideChanged {
					return 0, 0, fmt.Errorf("dos: disk full")
				}
				sideChanged = true
				track, sector = dirTrack+1, 0
			}
		}
	}

	num := diskimage.NumSectors[track]
	sector += interleave
	if sector >= num {
		sector -= num
		if sector > 0 {
			sector--
		}
	}
	for !d.isFree(track, sector) {
		sector++
		if sector >= num {
			sector = 0
			for !d.isFree(track, sector) {
				sector++
				if sector >= num {
					return 0, 0, fmt.Errorf("dos: BAM/free-count inconsistency on track %d", track)
				}
			}
		}
	}
	return track, sector, nil
}

// padName pads (or truncates) a raw name to the 16-byte, 0xA0-padded
// form directory entries store.
func padName(name []byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = 0xA0
	}
	n := len(name)
	if n > 16 {
		n = 16
	}
	copy(out[:], name[:n])
	return out
}

// parseFileName splits a raw OPEN name into the bare name plus the
// comma-separated type ('S'/'P'/'U'/'L') and mode ('R'/'W'/'A')
// qualifiers, per 1541d64.cpp's parse_file_name. Unspecified fields
// come back as *Unspecified.
func parseFileName(raw []byte) (name []byte, ftype, mode int) {
	ftype, mode = ftypeUnspecified, modeUnspecified
	parts := bytes.Split(raw, []byte{','})
	name = bytes.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if len(p) == 0 {
			continue
		}
		switch p[0] {
		case 'S':
			ftype = ftypeSEQ
		case 'P':
			ftype = ftypePRG
		case 'U':
			ftype = ftypeUSR
		case 'L':
			ftype = ftypeREL
		case 'R':
			mode = modeRead
		case 'W':
			mode = modeWrite
		case 'A':
			mode = modeAppend
		}
	}
	return
}

// findFile walks the directory chain from its root (track 18, sector
// 1) looking for the first non-deleted entry matching pattern (via
// MatchName's '*'/'?' wildcards), per 1541d64.cpp's find_file. A
// sector-count-bounded walk guards against a corrupt cyclic chain.
func (d *ImageDrive) findFile(pattern []byte) (track, sector, entry int, de [direntSize]byte, ok bool) {
	t, s := dirTrack, 1
	for n := 0; t != 0 && n < diskimage.NumSectors[dirTrack]; n++ {
		block, err := d.img.ReadSector(t, s)
		if err != nil {
			return 0, 0, 0, de, false
		}
		for e := 0; e < direntsPerBlock; e++ {
			off := dirEntryOffset(e)
			if block[off+deType] == 0 {
				continue
			}
			var name [16]byte
			copy(name[:], block[off+deName:off+deName+16])
			if MatchName(name, pattern) {
				copy(de[:], block[off:off+direntSize])
				return t, s, e, de, true
			}
		}
		t, s = int(block[0]), int(block[1])
	}
	return 0, 0, 0, de, false
}

// allocDirEntry finds a free (type-byte-zero) directory entry slot,
// scanning existing directory blocks first and only allocating (and
// chaining in) a fresh directory block via allocNextBlock's
// dirInterleave spacing when every existing block is full, per
// 1541d64.cpp's alloc_dir_entry.
func (d *ImageDrive) allocDirEntry() (track, sector, entry int, ok bool) {
	track, sector = dirTrack, 1
	var lastTrack, lastSector int
	for n := 0; track != 0 && n < diskimage.NumSectors[dirTrack]; n++ {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			return 0, 0, 0, false
		}
		for e := 0; e < direntsPerBlock; e++ {
			if block[dirEntryOffset(e)+deType] == 0 {
				return track, sector, e, true
			}
		}
		lastTrack, lastSector = track, sector
		track, sector = int(block[0]), int(block[1])
	}

	newTrack, newSector, err := d.allocNextBlock(lastTrack, lastSector, dirInterleave)
	if err != nil {
		return 0, 0, 0, false
	}
	d.setFree(newTrack, newSector, false)

	lastBlock, err := d.img.ReadSector(lastTrack, lastSector)
	if err != nil {
		return 0, 0, 0, false
	}
	lastBlock[0], lastBlock[1] = byte(newTrack), byte(newSector)
	d.img.WriteSector(lastTrack, lastSector, lastBlock)

	var fresh [256]byte
	d.img.WriteSector(newTrack, newSector, fresh)
	return newTrack, newSector, 0, true
}

// Open resolves name against the directory (or, for a "$"-prefixed
// name, synthesizes a directory listing) and prepares ch for
// subsequent Read/Write calls. Matching 1541d64.cpp's open_file, the
// returned status is ST_OK for essentially every outcome short of a
// bad channel number or a full disk: "file not found" and "file
// exists" are KERNAL-level conditions reported through the
// command/error channel, not this return value, so a caller must
// still check that the channel actually ended up open before reading
// or writing it.
func (d *ImageDrive) Open(ch int, name []byte) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	d.channels[ch] = channel{}

	raw := bytes.TrimRight(name, "\x00")
	if len(raw) > 0 && raw[0] == '$' {
		return d.openDirectory(ch, raw[1:])
	}

	overwrite := len(raw) > 0 && raw[0] == '@'
	if overwrite {
		raw = raw[1:]
	}
	fname, ftype, mode := parseFileName(raw)
	switch ch {
	case 0:
		mode = modeRead
	case 1:
		mode = modeWrite
	}
	if mode == modeUnspecified {
		mode = modeRead
	}

	dirT, dirS, entry, de, found := d.findFile(fname)

	if mode != modeWrite {
		if !found || de[deType]&deClosedBit == 0 {
			return StatusOK // ERR_FILENOTFOUND / still open elsewhere: reported via the error channel
		}
		d.channels[ch] = channel{
			open:  true,
			track: int(de[deTrack]),
			sec:   int(de[deSector]),
			ftype: int(de[deType] & deTypeMask),
		}
		return StatusOK
	}

	if found && !overwrite {
		return StatusOK // ERR_FILEEXISTS: reported via the error channel
	}
	if ftype == ftypeUnspecified {
		if found {
			ftype = int(de[deType] & deTypeMask)
		} else {
			ftype = ftypeSEQ
		}
	}
	c, status := d.createFile(fname, ftype, dirT, dirS, entry, found && overwrite)
	if status == StatusOK {
		d.channels[ch] = c
	}
	return status
}

// createFile allocates (or, when overwriting, reuses) a directory
// entry and the file's first data block, and returns a channel ready
// for a sequence of writeByte calls, per 1541d64.cpp's create_file.
func (d *ImageDrive) createFile(name []byte, ftype int, existingTrack, existingSector, existingEntry int, overwrite bool) (channel, uint8) {
	dirT, dirS, entry := existingTrack, existingSector, existingEntry
	if !overwrite {
		var ok bool
		dirT, dirS, entry, ok = d.allocDirEntry()
		if !ok {
			return channel{}, StatusDiskFull
		}
	}

	track, sector, err := d.allocNextBlock(dirTrack-1, -dataInterleave, dataInterleave)
	if err != nil {
		return channel{}, StatusDiskFull
	}
	d.setFree(track, sector, false)

	block, err := d.img.ReadSector(dirT, dirS)
	if err != nil {
		return channel{}, StatusDiskFull
	}
	off := dirEntryOffset(entry)
	var oldTrack, oldSector byte
	if overwrite {
		// deTrack/deSector must keep pointing at the old file's data
		// until Close swaps the overwrite target in and frees the old
		// chain, so they survive the entry-wide clear below.
		oldTrack, oldSector = block[off+deTrack], block[off+deSector]
	}
	for i := 0; i < direntSize; i++ {
		block[off+i] = 0
	}
	block[off+deType] = byte(ftype) // closed bit stays clear until Close
	padded := padName(name)
	copy(block[off+deName:off+deName+16], padded[:])
	if overwrite {
		block[off+deTrack], block[off+deSector] = oldTrack, oldSector
		block[off+deOvrTrack], block[off+deOvrSector] = byte(track), byte(sector)
	} else {
		block[off+deTrack], block[off+deSector] = byte(track), byte(sector)
	}
	d.img.WriteSector(dirT, dirS, block)

	return channel{
		open:           true,
		writing:        true,
		loaded:         true,
		track:          track,
		sec:            sector,
		pos:            2, // first two bytes of every block are the chain link
		dirEntryTrack:  dirT,
		dirEntrySector: dirS,
		entry:          entry,
		ftype:          ftype,
		overwrite:      overwrite,
		numBlocks:      1,
	}, StatusOK
}

func (d *ImageDrive) Close(ch int) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	status := d.closeChannel(&d.channels[ch])
	d.channels[ch].open = false
	return status
}

// closeChannel commits c's write state to disk (finalising the last
// block and its directory entry) without touching c.open, so Copy can
// reuse it against a channel value that was never installed into
// d.channels.
func (d *ImageDrive) closeChannel(c *channel) uint8 {
	if c.open && c.writing {
		// Commit the final, possibly partial block: a 0 next-track
		// marks the end of the chain, and next-sector carries the
		// index of the last valid content byte, per 1541d64.cpp's
		// CHMOD_FILE close path.
		c.block[0] = 0
		c.block[1] = byte(c.pos - 1)
		d.img.WriteSector(c.track, c.sec, c.block)
		if d.head != nil {
			d.img.ReEncodeTrack(d.head, c.track)
		}

		if block, err := d.img.ReadSector(c.dirEntryTrack, c.dirEntrySector); err == nil {
			off := dirEntryOffset(c.entry)
			block[off+deType] |= deClosedBit
			block[off+deNumBlocksLo] = byte(c.numBlocks)
			block[off+deNumBlocksHi] = byte(c.numBlocks >> 8)
			if c.overwrite {
				oldTrack, oldSector := int(block[off+deTrack]), int(block[off+deSector])
				d.freeChain(oldTrack, oldSector)
				block[off+deTrack] = block[off+deOvrTrack]
				block[off+deSector] = block[off+deOvrSector]
				block[off+deOvrTrack], block[off+deOvrSector] = 0, 0
			}
			d.img.WriteSector(c.dirEntryTrack, c.dirEntrySector, block)
		}
	}
	d.Flush()
	return StatusOK
}

func (d *ImageDrive) Read(ch int) (byte, uint8) {
	if ch < 0 || ch >= len(d.channels) {
		return 0, StatusNotFound
	}
	c := &d.channels[ch]
	if !c.open {
		return 0, StatusNotFound
	}
	if c.isDir {
		if c.dirPos >= len(c.dirBuf) {
			return 0, StatusEOF
		}
		b := c.dirBuf[c.dirPos]
		c.dirPos++
		if c.dirPos >= len(c.dirBuf) {
			return b, StatusEOF
		}
		return b, StatusOK
	}
	if c.writing {
		return 0, StatusNotFound
	}

	if c.blockLen == 0 {
		if c.loaded && c.track == 0 {
			return 0, StatusEOF // chain already fully consumed
		}
		block, err := d.img.ReadSector(c.track, c.sec)
		if err != nil {
			return 0, StatusNotFound
		}
		c.block = block
		c.loaded = true
		c.pos = 2
		if c.block[0] == 0 {
			c.blockLen = int(c.block[1]) - 1
			if c.blockLen < 0 {
				c.blockLen = 0
			}
		} else {
			c.blockLen = 254
		}
	}

	b := c.block[c.pos]
	c.pos++
	c.blockLen--
	if c.blockLen <= 0 {
		if c.block[0] == 0 {
			c.track = 0
			return b, StatusEOF
		}
		c.track, c.sec = int(c.block[0]), int(c.block[1])
		c.loaded = false
	}
	return b, StatusOK
}

func (d *ImageDrive) Write(ch int, b byte, eoi bool) uint8 {
	if ch < 0 || ch >= len(d.channels) {
		return StatusNotFound
	}
	return d.writeByte(&d.channels[ch], b)
}

// writeByte appends b to c's current block, allocating and linking a
// fresh block via allocNextBlock's dataInterleave spacing whenever the
// current one fills, per 1541d64.cpp's CHMOD_FILE write loop. Split
// out from Write so Copy can drive a channel value that was never
// installed into d.channels.
func (d *ImageDrive) writeByte(c *channel, b byte) uint8 {
	if !c.open || !c.writing {
		return StatusNotFound
	}
	if c.pos >= 256 {
		nt, ns, err := d.allocNextBlock(c.track, c.sec, dataInterleave)
		if err != nil {
			return StatusDiskFull
		}
		d.setFree(nt, ns, false)
		c.block[0], c.block[1] = byte(nt), byte(ns)
		d.img.WriteSector(c.track, c.sec, c.block)
		if d.head != nil {
			d.img.ReEncodeTrack(d.head, c.track)
		}
		c.numBlocks++
		c.track, c.sec = nt, ns
		c.pos = 2
		c.block = [256]byte{}
	}
	c.block[c.pos] = b
	c.pos++
	return StatusOK
}

func (d *ImageDrive) Reset() {
	for i := range d.channels {
		d.channels[i] = channel{}
	}
}

func (d *ImageDrive) BlockRead(ch, track, sector int) {
	block, err := d.img.ReadSector(track, sector)
	if err != nil {
		d.err = StatusNotFound
		return
	}
	d.channels[ch].block = block
	d.channels[ch].pos = 0
}

func (d *ImageDrive) BlockWrite(ch, track, sector int) {
	d.img.WriteSector(track, sector, d.channels[ch].block)
	if d.head != nil {
		d.img.ReEncodeTrack(d.head, track)
	}
}

func (d *ImageDrive) BlockAllocate(track, sector int) { d.setFree(track, sector, false) }
func (d *ImageDrive) BlockFree(track, sector int)     { d.setFree(track, sector, true) }

func (d *ImageDrive) Initialize() { d.Reset() }

// Validate rebuilds the BAM from scratch by walking every reachable
// block from the directory chain and every closed file's data and
// side-sector chains, marking everything else free; files still open
// (closed bit clear) are not walked, so their blocks end up free,
// matching validate_cmd.
func (d *ImageDrive) Validate() {
	for track := 1; track <= d.img.NumTracks; track++ {
		for sector := 0; sector < diskimage.NumSectors[track]; sector++ {
			d.setFree(track, sector, true)
		}
		d.setFreeCount(track, diskimage.NumSectors[track])
	}
	d.setFree(dirTrack, 0, false)
	d.markChain(dirTrack, 0)
	d.markDirectoryEntries()
	d.Flush()
}

func (d *ImageDrive) markChain(track, sector int) {
	for {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			return
		}
		next, nextSec := int(block[0]), int(block[1])
		if next == 0 {
			return
		}
		if !d.isFree(next, nextSec) {
			return // already marked: chain loop or re-visit, stop
		}
		d.setFree(next, nextSec, false)
		track, sector = next, nextSec
	}
}

// markDirectoryEntries walks every closed directory entry and marks
// its data (and, for REL files, side-sector) chain used, per
// 1541d64.cpp's validate_cmd. Entries still marked open (closed bit
// clear) are left as-is: their data is unreachable bookkeeping-wise
// once the BAM has been rebuilt, which is the "open files are left
// scratched" behaviour validate_cmd produces.
func (d *ImageDrive) markDirectoryEntries() {
	track, sector := dirTrack, 1
	for n := 0; track != 0 && n < diskimage.NumSectors[dirTrack]; n++ {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			return
		}
		for e := 0; e < direntsPerBlock; e++ {
			off := dirEntryOffset(e)
			if block[off+deType] == 0 || block[off+deType]&deClosedBit == 0 {
				continue
			}
			first := int(block[off+deTrack])
			firstSec := int(block[off+deSector])
			if d.isFree(first, firstSec) {
				d.setFree(first, firstSec, false)
				d.markChain(first, firstSec)
			}
			sideTrack, sideSector := int(block[off+deSideTrack]), int(block[off+deSideSector])
			if sideTrack != 0 && d.isFree(sideTrack, sideSector) {
				d.setFree(sideTrack, sideSector, false)
				d.markChain(sideTrack, sideSector)
			}
		}
		track, sector = int(block[0]), int(block[1])
	}
}

func (d *ImageDrive) freeChain(track, sector int) {
	for track != 0 {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			return
		}
		next, nextSec := int(block[0]), int(block[1])
		d.setFree(track, sector, true)
		track, sector = next, nextSec
	}
}

// Scratch removes every directory entry matching name (comma-joined
// patterns are handled by the caller, one name per call, matching
// 1541fs.cpp's per-name loop) from the directory, freeing its data
// and side-sector chains, per 1541d64.cpp's scratch_cmd. Locked
// entries (the 0x40 directory-type bit) are left untouched.
func (d *ImageDrive) Scratch(name []byte) {
	pattern := bytes.TrimRight(name, "\x00")
	track, sector := dirTrack, 1
	for n := 0; track != 0 && n < diskimage.NumSectors[dirTrack]; n++ {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			return
		}
		dirty := false
		for e := 0; e < direntsPerBlock; e++ {
			off := dirEntryOffset(e)
			if block[off+deType] == 0 || block[off+deType]&deLockedBit != 0 {
				continue
			}
			var entryName [16]byte
			copy(entryName[:], block[off+deName:off+deName+16])
			if !MatchName(entryName, pattern) {
				continue
			}
			d.freeChain(int(block[off+deTrack]), int(block[off+deSector]))
			d.freeChain(int(block[off+deSideTrack]), int(block[off+deSideSector]))
			block[off+deType] = 0
			dirty = true
		}
		next, nextSec := int(block[0]), int(block[1])
		if dirty {
			d.img.WriteSector(track, sector, block)
		}
		track, sector = next, nextSec
	}
	d.Flush()
}

// Rename changes a single directory entry's stored name in place, per
// 1541d64.cpp's rename_cmd.
func (d *ImageDrive) Rename(newName, oldName []byte) uint8 {
	track, sector, entry, _, ok := d.findFile(bytes.TrimRight(oldName, "\x00"))
	if !ok {
		return StatusNotFound
	}
	block, err := d.img.ReadSector(track, sector)
	if err != nil {
		return StatusNotFound
	}
	off := dirEntryOffset(entry)
	padded := padName(bytes.TrimRight(newName, "\x00"))
	copy(block[off+deName:off+deName+16], padded[:])
	d.img.WriteSector(track, sector, block)
	return StatusOK
}

// Copy concatenates the data of sourceNames, in order, into a single
// new file newName, per 1541d64.cpp's copy_cmd. Source chains are
// walked directly rather than through a borrowed channel slot, so
// Copy never disturbs any channel a caller already has open.
func (d *ImageDrive) Copy(newName []byte, sourceNames [][]byte) uint8 {
	name, ftype, _ := parseFileName(bytes.TrimRight(newName, "\x00"))
	if ftype == ftypeUnspecified {
		ftype = ftypePRG
	}
	dirT, dirS, entry, _, found := d.findFile(name)
	if found {
		return StatusOK // ERR_FILEEXISTS: reported via the error channel
	}

	dst, status := d.createFile(name, ftype, dirT, dirS, entry, false)
	if status != StatusOK {
		return status
	}

	for _, src := range sourceNames {
		_, _, _, de, ok := d.findFile(bytes.TrimRight(src, "\x00"))
		if !ok || de[deType]&deClosedBit == 0 {
			return StatusNotFound
		}
		track, sector := int(de[deTrack]), int(de[deSector])
		for track != 0 {
			block, err := d.img.ReadSector(track, sector)
			if err != nil {
				break
			}
			next, nextSec := int(block[0]), int(block[1])
			end := 256
			if next == 0 {
				end = nextSec + 1
			}
			for i := 2; i < end; i++ {
				d.writeByte(&dst, block[i])
			}
			track, sector = next, nextSec
		}
	}
	status = d.closeChannel(&dst)
	return status
}

// Position seeks a REL file's record pointer. Relative files aren't
// supported (1541d64.cpp's own top-of-file comment: "No support for
// relative files"), so this always reports the channel not found.
func (d *ImageDrive) Position(channel int, record uint16) uint8 {
	return StatusNotFound
}

// New formats the image: clears the BAM, reinitialises the directory
// to a single empty block, and (when id is non-empty) writes a new
// disk name/ID, per 1541d64.cpp's new_cmd. A non-empty id performs a
// full format (fresh ID); an empty id only clears the BAM and
// directory, keeping the existing disk name/ID, matching Frodo's
// "N:name" vs "N:name,id" distinction.
func (d *ImageDrive) New(name, id []byte) uint8 {
	for track := 1; track <= d.img.NumTracks; track++ {
		for sector := 0; sector < diskimage.NumSectors[track]; sector++ {
			d.setFree(track, sector, true)
		}
		d.setFreeCount(track, diskimage.NumSectors[track])
	}
	d.setFree(dirTrack, 0, false)
	d.setFree(dirTrack, 1, false)

	if len(name) > 0 {
		padded := padName(name)
		copy(d.bam[144:160], padded[:])
	}
	if len(id) >= 2 {
		d.bam[162], d.bam[163] = id[0], id[1]
		d.img.ID1, d.img.ID2 = id[0], id[1]
	}

	var dirBlock [256]byte
	d.img.WriteSector(dirTrack, 1, dirBlock)
	d.Reset()
	if err := d.Flush(); err != nil {
		return StatusDiskFull
	}
	return StatusOK
}

// MemoryRead returns length bytes read directly out of the image's
// on-disk BAM buffer starting at address, per 1541d64.cpp's
// mem_read_cmd ("M-R"); a 1541's only directly address-mapped RAM a
// DOS-level drive can usefully expose without a full 6502 is its own
// sector buffers, represented here by the in-memory BAM.
func (d *ImageDrive) MemoryRead(address uint16, length uint8) []byte {
	out := make([]byte, 0, length)
	for i := uint16(0); i < uint16(length); i++ {
		idx := int(address) + int(i)
		if idx < 0 || idx >= len(d.bam) {
			out = append(out, 0)
			continue
		}
		out = append(out, d.bam[idx])
	}
	return out
}

// MemoryWrite writes data directly into the in-memory BAM buffer
// starting at address, per 1541d64.cpp's mem_write_cmd ("M-W").
func (d *ImageDrive) MemoryWrite(address uint16, data []byte) {
	for i, b := range data {
		idx := int(address) + i
		if idx < 0 || idx >= len(d.bam) {
			continue
		}
		d.bam[idx] = b
	}
}

// MemoryExecute ("M-E") would jump the drive's own 6502 to an
// arbitrary address; 1541d64.cpp documents this as "Impossible to
// implement" at the DOS level (it has no CPU to jump), so this always
// reports failure.
func (d *ImageDrive) MemoryExecute(address uint16) uint8 {
	return StatusNotFound
}

// BufferPointer repositions channel's in-block read/write cursor, per
// 1541d64.cpp's buffer_pointer_cmd ("B-P"). pos is clamped to the
// data portion of a block (bytes 2-255; bytes 0-1 are the chain
// link).
func (d *ImageDrive) BufferPointer(channel int, pos int) uint8 {
	if channel < 0 || channel >= len(d.channels) {
		return StatusNotFound
	}
	if pos < 2 {
		pos = 2
	}
	if pos > 255 {
		pos = 255
	}
	d.channels[channel].pos = pos
	return StatusOK
}

// Flush writes the in-memory BAM back to track 18 sector 0.
func (d *ImageDrive) Flush() error {
	return d.img.WriteSector(dirTrack, 0, d.bam)
}

// MatchName reports whether a 16-byte PETSCII directory entry name
// matches pattern, where '*' matches the remainder of the name and
// '?' matches exactly one character.
func MatchName(entry [16]byte, pattern []byte) bool {
	ei := 0
	for pi := 0; pi < len(pattern); pi++ {
		switch pattern[pi] {
		case '*':
			return true
		case '?':
			if ei >= 16 || entry[ei] == 0xA0 {
				return false
			}
			ei++
		default:
			if ei >= 16 || entry[ei] != pattern[pi] {
				return false
			}
			ei++
		}
	}
	return ei >= 16 || entry[ei] == 0xA0
}

// openDirectory synthesizes a BASIC-listable directory program into
// ch: a title line (disk name/ID/format type, reverse-video, quoted),
// one line per matching non-deleted entry (block count, quoted name,
// three-letter type, open/locked markers), and a trailing "NNN BLOCKS
// FREE." line, per 1541d64.cpp's open_directory.
func (d *ImageDrive) openDirectory(ch int, pattern []byte) uint8 {
	if len(pattern) == 0 {
		pattern = []byte("*")
	}
	if idx := bytes.IndexByte(pattern, ':'); idx >= 0 {
		pattern = pattern[idx+1:]
		if len(pattern) == 0 {
			pattern = []byte("*")
		}
	}

	var buf []byte
	buf = append(buf, 0x01, 0x04) // load address $0401
	appendLine := func(lineNum uint16, text []byte) {
		buf = append(buf, 0x01, 0x01) // placeholder link, patched by LOAD/LIST
		buf = append(buf, byte(lineNum), byte(lineNum>>8))
		buf = append(buf, text...)
		buf = append(buf, 0)
	}

	var title []byte
	title = append(title, 0x12, '"') // RVS ON, opening quote
	for i := 0; i < 16; i++ {
		c := d.bam[144+i]
		if c == 0xA0 {
			c = ' '
		}
		title = append(title, c)
	}
	title = append(title, '"', ' ', d.bam[162], d.bam[163], ' ', d.bam[165], d.bam[166])
	appendLine(0, title)

	track, sector := dirTrack, 1
	for n := 0; track != 0 && n < diskimage.NumSectors[dirTrack]; n++ {
		block, err := d.img.ReadSector(track, sector)
		if err != nil {
			break
		}
		for e := 0; e < direntsPerBlock; e++ {
			off := dirEntryOffset(e)
			if block[off+deType] == 0 {
				continue
			}
			var name [16]byte
			copy(name[:], block[off+deName:off+deName+16])
			if !MatchName(name, pattern) {
				continue
			}
			appendLine(direntListingLine(block, off, name))
		}
		track, sector = int(block[0]), int(block[1])
	}

	free := 0
	for t := 1; t <= d.img.NumTracks; t++ {
		if t == dirTrack {
			continue
		}
		free += d.freeCount(t)
	}
	appendLine(uint16(free), []byte("BLOCKS FREE."))
	buf = append(buf, 0, 0) // end of program

	d.channels[ch] = channel{open: true, isDir: true, dirBuf: buf}
	return StatusOK
}

// direntListingLine builds one directory-listing line's block count
// and text (quoted name, open/closed marker, type, lock marker), per
// 1541d64.cpp's open_directory entry-formatting loop.
func direntListingLine(block [256]byte, off int, name [16]byte) (uint16, []byte) {
	nblocks := uint16(block[off+deNumBlocksLo]) | uint16(block[off+deNumBlocksHi])<<8

	var line []byte
	quoted := false
	line = append(line, '"')
	for i := 0; i < 16; i++ {
		c := name[i]
		if c == 0xA0 {
			if quoted {
				line = append(line, ' ')
			} else {
				line = append(line, '"')
				quoted = true
			}
		} else {
			line = append(line, c)
		}
	}
	if !quoted {
		line = append(line, '"')
	}
	line = append(line, ' ')
	if block[off+deType]&deClosedBit == 0 {
		line = append(line, '*')
	} else {
		line = append(line, ' ')
	}
	line = append(line, dirTypeChars(block[off+deType]&deTypeMask)...)
	if block[off+deType]&deLockedBit != 0 {
		line = append(line, '<')
	}
	return nblocks, line
}

func dirTypeChars(t byte) []byte {
	switch t {
	case ftypeDEL:
		return []byte("DEL")
	case ftypeSEQ:
		return []byte("SEQ")
	case ftypePRG:
		return []byte("PRG")
	case ftypeUSR:
		return []byte("USR")
	case ftypeREL:
		return []byte("REL")
	}
	return []byte("???")
}
