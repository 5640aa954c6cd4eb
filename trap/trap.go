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

// Package trap implements the $F2 ("illegal opcode as emulator
// trap") dispatch spec §4.1 names: the KERNAL's IEC routines (and the
// 1541 DOS ROM's idle loop, write-sector and format-track routines)
// are overwritten with the 6502 illegal opcode $F2 at fixed ROM
// offsets, and the CPU's illegal-opcode handler recognises $F2 and
// dispatches to a Go callback instead of actually executing undefined
// silicon behaviour. Grounded directly on
// _examples/original_source/src/C64.cpp's PatchKernal (patch offsets)
// and CPUC64_SC.cpp/CPU1541_SC.cpp's O_EXT case (trap ID to
// IEC/job-queue call mapping).
package trap

// ID identifies which routine a $F2 trap stands in for; the byte
// following the $F2 opcode in ROM carries this value, exactly as the
// teacher sources encode it.
type ID uint8

const (
	IECOut ID = iota
	IECOutATN
	IECOutSec
	IECIn
	IECSetATN
	IECRelATN
	IECTurnaround
	IECRelease
	AutoStartOp

	// DriveIdle, DriveWriteSector and DriveFormatTrack are drive-side
	// (1541 DOS ROM) traps, using the 1541 CPU's own O_EXT dispatch
	// rather than the C64 CPU's.
	DriveIdle
	DriveWriteSector
	DriveFormatTrack
)

// PatchEntry names one ROM location replaced with $F2 plus the
// operand byte selecting which ID the trap dispatches to.
type PatchEntry struct {
	ROM    ROMKind
	Offset uint16
	Trap   ID
}

// ROMKind distinguishes which ROM image a PatchEntry's offset is
// relative to.
type ROMKind int

const (
	KernalROM ROMKind = iota
	Drive1541ROM
)

// KernalPatchTable lists every KERNAL offset PatchKernal overwrites
// with $F2 when fast serial IEC emulation is enabled (as opposed to
// processor-level 1541 emulation, which leaves the KERNAL's real IEC
// bit-banging routines intact and instead drives the 1541's own CPU).
var KernalPatchTable = []PatchEntry{
	{KernalROM, 0x0d40, IECOut},
	{KernalROM, 0x0d23, IECOutATN},
	{KernalROM, 0x0d36, IECOutSec},
	{KernalROM, 0x0e13, IECIn},
	{KernalROM, 0x0def, IECSetATN},
	{KernalROM, 0x0dbe, IECRelATN},
	{KernalROM, 0x0dcc, IECTurnaround},
	{KernalROM, 0x0e03, IECRelease},
}

// Drive1541PatchTable lists the 1541 DOS ROM offsets overwritten with
// $F2 when processor-level drive emulation is active: the idle-loop
// short-circuit (so the drive CPU can be skipped by the scheduler
// while parked) and the write-sector/format-track GCR-bypass traps
// (spec §4.5's "format-track/write-sector ROM-patch trap handlers").
var Drive1541PatchTable = []PatchEntry{
	{Drive1541ROM, 0x2c9b, DriveIdle},
	{Drive1541ROM, 0x3b0c, DriveFormatTrack},
	// 0x3595/0x3597 (write-sector entry/retry points in CPU1541_SC.cpp)
	// both resolve to the same WriteSector call; only one
	// representative offset is patched here since both land on the
	// same trap ID with no differing behaviour to model.
	{Drive1541ROM, 0x3595, DriveWriteSector},
}

// ApplyPatches overwrites rom at every table entry's offset with the
// $F2 opcode byte followed by the entry's trap ID.
func ApplyPatches(rom []byte, table []PatchEntry) {
	for _, e := range table {
		if int(e.Offset)+1 < len(rom) {
			rom[e.Offset] = 0xf2
			rom[e.Offset+1] = uint8(e.Trap)
		}
	}
}

// Handlers dispatches a trapped $F2's operand byte (the ID following
// the opcode in ROM) to the matching IEC bus call. Each field may be
// left nil if that trap is never installed (e.g. a configuration with
// no IEC bus at all).
type Handlers struct {
	Out         func(data uint8, eoi bool) (status uint8)
	OutATN      func(data uint8) (status uint8)
	OutSec      func(data uint8) (status uint8)
	In          func() (data uint8, status uint8)
	SetATN      func()
	RelATN      func()
	Turnaround  func()
	Release     func()
	AutoStartOp func()
}

// Dispatch invokes the handler matching id, returning ok=false if no
// matching handler is wired (the caller should then fall back to
// illegal-opcode behaviour, matching CPUC64_SC.cpp's "pc out of
// patched range" bounds check).
func (h Handlers) Dispatch(id ID, operand uint8, eoiFlag bool) (status uint8, data uint8, ok bool) {
	switch id {
	case IECOut:
		if h.Out != nil {
			return h.Out(operand, eoiFlag), 0, true
		}
	case IECOutATN:
		if h.OutATN != nil {
			return h.OutATN(operand), 0, true
		}
	case IECOutSec:
		if h.OutSec != nil {
			return h.OutSec(operand), 0, true
		}
	case IECIn:
		if h.In != nil {
			d, s := h.In()
			return s, d, true
		}
	case IECSetATN:
		if h.SetATN != nil {
			h.SetATN()
			return 0, 0, true
		}
	case IECRelATN:
		if h.RelATN != nil {
			h.RelATN()
			return 0, 0, true
		}
	case IECTurnaround:
		if h.Turnaround != nil {
			h.Turnaround()
			return 0, 0, true
		}
	case IECRelease:
		if h.Release != nil {
			h.Release()
			return 0, 0, true
		}
	case AutoStartOp:
		if h.AutoStartOp != nil {
			h.AutoStartOp()
			return 0, 0, true
		}
	}
	return 0, 0, false
}
