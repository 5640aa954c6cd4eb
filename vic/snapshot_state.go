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

package vic

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Export captures the VIC's raster-timing and sprite-engine state for
// spec §4.7's snapshot record, in debug_snapshot.go's
// binary.Write idiom. The register file (Reg) is
// captured separately by registers.File.Export, mirroring how
// memory/system.System and vic.VIC already keep register storage and
// raster-engine state in separate types.
func (v *VIC) Export() ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(v.cycle))
	binary.Write(&buf, binary.LittleEndian, v.rasterY)
	binary.Write(&buf, binary.LittleEndian, v.vc)
	binary.Write(&buf, binary.LittleEndian, v.vcbase)
	binary.Write(&buf, binary.LittleEndian, v.rc)
	binary.Write(&buf, binary.LittleEndian, int32(v.vmli))
	buf.Write(v.videoMatrix[:])
	buf.Write(v.colorLine[:])
	binary.Write(&buf, binary.LittleEndian, v.badLine)
	binary.Write(&buf, binary.LittleEndian, v.displayState)
	binary.Write(&buf, binary.LittleEndian, v.denLatched)
	binary.Write(&buf, binary.LittleEndian, v.rasterIRQFiredThisLine)
	binary.Write(&buf, binary.LittleEndian, v.mainBorder)
	binary.Write(&buf, binary.LittleEndian, v.verticalBorder)
	binary.Write(&buf, binary.LittleEndian, v.csel40)
	binary.Write(&buf, binary.LittleEndian, v.rsel25)
	binary.Write(&buf, binary.LittleEndian, v.ba)
	for i := range v.sprites {
		s := &v.sprites[i]
		binary.Write(&buf, binary.LittleEndian, s.dmaOn)
		binary.Write(&buf, binary.LittleEndian, s.displayOn)
		binary.Write(&buf, binary.LittleEndian, s.mc)
		binary.Write(&buf, binary.LittleEndian, s.mcbase)
		binary.Write(&buf, binary.LittleEndian, s.yExpFlip)
		binary.Write(&buf, binary.LittleEndian, int32(s.linesLeft))
		binary.Write(&buf, binary.LittleEndian, s.shift)
		binary.Write(&buf, binary.LittleEndian, int32(s.shiftBits))
		binary.Write(&buf, binary.LittleEndian, s.pointer)
	}
	return buf.Bytes(), nil
}

// Import restores state captured by Export. The pending pixel-line
// buffer and its "ready" flag are not restored: a snapshot is only
// ever taken at a line boundary (spec §9), so the next Step call
// naturally produces the following line fresh.
func (v *VIC) Import(data []byte) error {
	r := bytes.NewReader(data)
	var cycle, vmli int32
	if err := binary.Read(r, binary.LittleEndian, &cycle); err != nil {
		return fmt.Errorf("vic: reading cycle: %w", err)
	}
	v.cycle = int(cycle)
	binary.Read(r, binary.LittleEndian, &v.rasterY)
	binary.Read(r, binary.LittleEndian, &v.vc)
	binary.Read(r, binary.LittleEndian, &v.vcbase)
	binary.Read(r, binary.LittleEndian, &v.rc)
	binary.Read(r, binary.LittleEndian, &vmli)
	v.vmli = int(vmli)
	if _, err := io.ReadFull(r, v.videoMatrix[:]); err != nil {
		return fmt.Errorf("vic: reading video matrix: %w", err)
	}
	if _, err := io.ReadFull(r, v.colorLine[:]); err != nil {
		return fmt.Errorf("vic: reading colour line: %w", err)
	}
	binary.Read(r, binary.LittleEndian, &v.badLine)
	binary.Read(r, binary.LittleEndian, &v.displayState)
	binary.Read(r, binary.LittleEndian, &v.denLatched)
	binary.Read(r, binary.LittleEndian, &v.rasterIRQFiredThisLine)
	binary.Read(r, binary.LittleEndian, &v.mainBorder)
	binary.Read(r, binary.LittleEndian, &v.verticalBorder)
	binary.Read(r, binary.LittleEndian, &v.csel40)
	binary.Read(r, binary.LittleEndian, &v.rsel25)
	binary.Read(r, binary.LittleEndian, &v.ba)
	for i := range v.sprites {
		s := &v.sprites[i]
		var linesLeft, shiftBits int32
		binary.Read(r, binary.LittleEndian, &s.dmaOn)
		binary.Read(r, binary.LittleEndian, &s.displayOn)
		binary.Read(r, binary.LittleEndian, &s.mc)
		binary.Read(r, binary.LittleEndian, &s.mcbase)
		binary.Read(r, binary.LittleEndian, &s.yExpFlip)
		binary.Read(r, binary.LittleEndian, &linesLeft)
		s.linesLeft = int(linesLeft)
		binary.Read(r, binary.LittleEndian, &s.shift)
		binary.Read(r, binary.LittleEndian, &shiftBits)
		s.shiftBits = int(shiftBits)
		binary.Read(r, binary.LittleEndian, &s.pointer)
	}
	v.lineReady = false
	return nil
}
