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

// Package snapshot implements the fixed-layout binary snapshot record
// spec §4.7/§9 describe: an atomic capture of C64 RAM, colour RAM,
// drive RAM and every chip's internal state, readable only by a core
// that shares the same record layout. Grounded on
// _examples/IntuitionAmiga-IntuitionEngine/debug_snapshot.go, whose
// magic-tag-then-binary.Write-sections idiom this package follows
// directly; the section layout itself (RAM, colour RAM, then each
// chip in turn, then optionally the drive) is spec §4.7's own.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	csystem "github.com/sixtyfour/c64core/system"
)

// magic is the record's 16-byte ASCII tag; a later incompatible layout
// would bump the trailing digit, the same way Frodo's own tag does.
var magic = [16]byte{'F', 'r', 'o', 'd', 'o', 'S', 'n', 'a', 'p', 's', 'h', 'o', 't', '4', 0, 0}

const pathFieldSize = 256

// flag bits within the 16-bit flags word (spec §4.7: "bit 0 = 1541
// processor state present").
const (
	flagDriveCPUPresent uint16 = 1 << 0
)

// Snapshot is a value copy of a System's full architectural state,
// spec §4.5's "a snapshot is a value copy, created before save and
// consumed by restore." ROMs and the disk image's bytes themselves
// are never part of it (spec §4.5); only the disk image path is
// recorded, re-mounted by the caller on Apply.
type Snapshot struct {
	Mode     csystem.Mode
	Cycle    uint64
	DiskPath string

	ram      []byte
	colorRAM []byte
	port     [2]byte // DDR, Data

	cpuState []byte
	vicRaster []byte
	vicRegs   []byte
	cia1State []byte
	cia2State []byte
	sidState  []byte

	hasDrive      bool
	driveState    []byte // drivecpu.System.Export's RAM+VIA1+VIA2+Idle blob
	driveVIAState int    // length of one VIA's encoded state, needed to split driveState back apart
	driveCPUState []byte
	headState     []byte
}

// Capture builds a Snapshot from sys's current state. sys must be at
// an instruction boundary (spec §4.7's "the cycle core runs to a safe
// point... before state is swapped"); RunFrame only returns at such a
// boundary, so capturing immediately after RunFrame always satisfies
// this.
func Capture(sys *csystem.System, diskPath string) (*Snapshot, error) {
	snap := &Snapshot{
		Mode:     sys.Mode,
		Cycle:    uint64(sys.Cycle()),
		DiskPath: diskPath,
		ram:      append([]byte(nil), sys.Mem.RAM[:]...),
		colorRAM: append([]byte(nil), sys.Mem.ColorRAM[:]...),
	}
	if sys.Mem.Port != nil {
		snap.port[0] = sys.Mem.Port.DDR
		snap.port[1] = sys.Mem.Port.Data
	}

	var err error
	if snap.cpuState, err = sys.CPU.Export(); err != nil {
		return nil, fmt.Errorf("snapshot: exporting CPU: %w", err)
	}
	if snap.vicRaster, err = sys.VIC.Export(); err != nil {
		return nil, fmt.Errorf("snapshot: exporting VIC: %w", err)
	}
	snap.vicRegs = sys.VIC.Reg.Export()
	if snap.cia1State, err = sys.CIA1.Export(); err != nil {
		return nil, fmt.Errorf("snapshot: exporting CIA1: %w", err)
	}
	if snap.cia2State, err = sys.CIA2.Export(); err != nil {
		return nil, fmt.Errorf("snapshot: exporting CIA2: %w", err)
	}
	if sys.SID != nil {
		if snap.sidState, err = sys.SID.Export(); err != nil {
			return nil, fmt.Errorf("snapshot: exporting SID: %w", err)
		}
	}

	if sys.Drive != nil && sys.DriveCPU != nil {
		snap.hasDrive = true
		viaState, err := sys.Drive.VIA1.Export()
		if err != nil {
			return nil, fmt.Errorf("snapshot: exporting drive VIA1: %w", err)
		}
		snap.driveVIAState = len(viaState)
		if snap.driveState, err = sys.Drive.Export(); err != nil {
			return nil, fmt.Errorf("snapshot: exporting drive: %w", err)
		}
		if snap.driveCPUState, err = sys.DriveCPU.Export(); err != nil {
			return nil, fmt.Errorf("snapshot: exporting drive CPU: %w", err)
		}
		if sys.Drive.Head != nil {
			if snap.headState, err = sys.Drive.Head.Export(); err != nil {
				return nil, fmt.Errorf("snapshot: exporting GCR head: %w", err)
			}
		}
	}
	return snap, nil
}

// Apply restores sys's state from the snapshot. Apply refuses to
// cross cycle-mode/line-mode boundaries (spec §9 Open Question 3:
// "must not mix their snapshot formats") and refuses to apply a
// drive-bearing snapshot onto a System with no drive wired, or vice
// versa, since there would be no CPU/VIA/Head to restore into.
func (snap *Snapshot) Apply(sys *csystem.System) error {
	if snap.Mode != sys.Mode {
		return fmt.Errorf("snapshot: mode mismatch: snapshot is %v, system is %v", snap.Mode, sys.Mode)
	}
	if snap.hasDrive != (sys.Drive != nil && sys.DriveCPU != nil) {
		return fmt.Errorf("snapshot: drive-processor presence mismatch")
	}

	copy(sys.Mem.RAM[:], snap.ram)
	copy(sys.Mem.ColorRAM[:], snap.colorRAM)
	if sys.Mem.Port != nil {
		sys.Mem.Port.DDR = snap.port[0]
		sys.Mem.Port.Data = snap.port[1]
	}
	sys.SetCycle(snap.Cycle)

	if err := sys.CPU.Import(snap.cpuState); err != nil {
		return fmt.Errorf("snapshot: restoring CPU: %w", err)
	}
	if err := sys.VIC.Import(snap.vicRaster); err != nil {
		return fmt.Errorf("snapshot: restoring VIC: %w", err)
	}
	sys.VIC.Reg.Import(snap.vicRegs)
	if err := sys.CIA1.Import(snap.cia1State); err != nil {
		return fmt.Errorf("snapshot: restoring CIA1: %w", err)
	}
	if err := sys.CIA2.Import(snap.cia2State); err != nil {
		return fmt.Errorf("snapshot: restoring CIA2: %w", err)
	}
	if sys.SID != nil && snap.sidState != nil {
		if err := sys.SID.Import(snap.sidState); err != nil {
			return fmt.Errorf("snapshot: restoring SID: %w", err)
		}
	}

	if snap.hasDrive {
		if err := sys.Drive.Import(snap.driveState, snap.driveVIAState); err != nil {
			return fmt.Errorf("snapshot: restoring drive: %w", err)
		}
		if err := sys.DriveCPU.Import(snap.driveCPUState); err != nil {
			return fmt.Errorf("snapshot: restoring drive CPU: %w", err)
		}
		if sys.Drive.Head != nil && snap.headState != nil {
			if err := sys.Drive.Head.Import(snap.headState); err != nil {
				return fmt.Errorf("snapshot: restoring GCR head: %w", err)
			}
		}
	}
	return nil
}

func writeSection(buf *bytes.Buffer, data []byte) {
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
}

func readSection(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Encode serialises the snapshot to the fixed-layout record spec §4.7
// names: magic tag, flags, drive-8 path, then each capture in turn.
func (snap *Snapshot) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])

	var flags uint16
	if snap.hasDrive {
		flags |= flagDriveCPUPresent
	}
	binary.Write(&buf, binary.LittleEndian, flags)
	binary.Write(&buf, binary.LittleEndian, uint8(snap.Mode))

	var path [pathFieldSize]byte
	copy(path[:], snap.DiskPath)
	buf.Write(path[:])

	binary.Write(&buf, binary.LittleEndian, snap.Cycle)

	writeSection(&buf, snap.ram)
	writeSection(&buf, snap.colorRAM)
	buf.Write(snap.port[:])
	writeSection(&buf, snap.cpuState)
	writeSection(&buf, snap.vicRaster)
	writeSection(&buf, snap.vicRegs)
	writeSection(&buf, snap.cia1State)
	writeSection(&buf, snap.cia2State)
	writeSection(&buf, snap.sidState)

	if snap.hasDrive {
		binary.Write(&buf, binary.LittleEndian, uint32(snap.driveVIAState))
		writeSection(&buf, snap.driveState)
		writeSection(&buf, snap.driveCPUState)
		writeSection(&buf, snap.headState)
	}
	return buf.Bytes()
}

// Decode parses a record produced by Encode. A magic-tag mismatch is
// reported distinctly from other parse errors so callers can show the
// spec's dedicated "snapshot not accepted" banner (spec §4.7).
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, fmt.Errorf("snapshot: magic tag mismatch")
	}
	r := bytes.NewReader(data[len(magic):])

	var flags uint16
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("snapshot: reading flags: %w", err)
	}
	var mode uint8
	if err := binary.Read(r, binary.LittleEndian, &mode); err != nil {
		return nil, fmt.Errorf("snapshot: reading mode: %w", err)
	}

	var path [pathFieldSize]byte
	if _, err := io.ReadFull(r, path[:]); err != nil {
		return nil, fmt.Errorf("snapshot: reading disk path: %w", err)
	}

	snap := &Snapshot{
		Mode:     csystem.Mode(mode),
		hasDrive: flags&flagDriveCPUPresent != 0,
		DiskPath: cString(path[:]),
	}
	if err := binary.Read(r, binary.LittleEndian, &snap.Cycle); err != nil {
		return nil, fmt.Errorf("snapshot: reading cycle counter: %w", err)
	}

	var err error
	if snap.ram, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading RAM: %w", err)
	}
	if snap.colorRAM, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading colour RAM: %w", err)
	}
	if _, err := io.ReadFull(r, snap.port[:]); err != nil {
		return nil, fmt.Errorf("snapshot: reading port: %w", err)
	}
	if snap.cpuState, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading CPU state: %w", err)
	}
	if snap.vicRaster, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading VIC raster state: %w", err)
	}
	if snap.vicRegs, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading VIC registers: %w", err)
	}
	if snap.cia1State, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading CIA1 state: %w", err)
	}
	if snap.cia2State, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading CIA2 state: %w", err)
	}
	if snap.sidState, err = readSection(r); err != nil {
		return nil, fmt.Errorf("snapshot: reading SID state: %w", err)
	}

	if snap.hasDrive {
		var viaLen uint32
		if err := binary.Read(r, binary.LittleEndian, &viaLen); err != nil {
			return nil, fmt.Errorf("snapshot: reading drive VIA state length: %w", err)
		}
		snap.driveVIAState = int(viaLen)
		if snap.driveState, err = readSection(r); err != nil {
			return nil, fmt.Errorf("snapshot: reading drive state: %w", err)
		}
		if snap.driveCPUState, err = readSection(r); err != nil {
			return nil, fmt.Errorf("snapshot: reading drive CPU state: %w", err)
		}
		if snap.headState, err = readSection(r); err != nil {
			return nil, fmt.Errorf("snapshot: reading GCR head state: %w", err)
		}
	}
	return snap, nil
}

// Save writes the snapshot to path, matching debug_snapshot.go's
// SaveSnapshotToFile name and error-wrapping convention.
func Save(snap *Snapshot, path string) error {
	return os.WriteFile(path, snap.Encode(), 0644)
}

// Load reads and parses a snapshot file, matching debug_snapshot.go's
// LoadSnapshotFromFile convention.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}
	return Decode(data)
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
