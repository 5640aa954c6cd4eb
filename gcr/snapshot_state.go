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

package gcr

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Export captures the head's position/timing state only, not the
// mounted disk's GCR track buffers: those are reconstructed by
// re-encoding the disk image path the snapshot record stores
// separately (spec §4.7/§9's "GCR track buffers are allocated on
// image mount and freed on unmount").
func (h *Head) Export() ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(h.Current))
	binary.Write(&buf, binary.LittleEndian, int32(h.CyclesPerByte))
	binary.Write(&buf, binary.LittleEndian, int32(h.offset))
	binary.Write(&buf, binary.LittleEndian, h.lastByteCycle)
	binary.Write(&buf, binary.LittleEndian, h.onSync)
	binary.Write(&buf, binary.LittleEndian, h.byteReady)
	binary.Write(&buf, binary.LittleEndian, h.byteLatch)
	binary.Write(&buf, binary.LittleEndian, int32(h.diskChangeSeq))
	binary.Write(&buf, binary.LittleEndian, h.diskChangeCycle)
	binary.Write(&buf, binary.LittleEndian, h.motorOn)
	return buf.Bytes(), nil
}

// Import restores state captured by Export. The caller must have
// already re-populated h.Tracks (by re-encoding or re-parsing the
// disk image named in the snapshot record) before calling Import.
func (h *Head) Import(data []byte) error {
	r := bytes.NewReader(data)
	var current, cyclesPerByte, offset, diskChangeSeq int32
	if err := binary.Read(r, binary.LittleEndian, &current); err != nil {
		return fmt.Errorf("gcr: restoring head state: %w", err)
	}
	binary.Read(r, binary.LittleEndian, &cyclesPerByte)
	binary.Read(r, binary.LittleEndian, &offset)
	binary.Read(r, binary.LittleEndian, &h.lastByteCycle)
	binary.Read(r, binary.LittleEndian, &h.onSync)
	binary.Read(r, binary.LittleEndian, &h.byteReady)
	binary.Read(r, binary.LittleEndian, &h.byteLatch)
	binary.Read(r, binary.LittleEndian, &diskChangeSeq)
	binary.Read(r, binary.LittleEndian, &h.diskChangeCycle)
	binary.Read(r, binary.LittleEndian, &h.motorOn)
	h.Current = int(current)
	h.CyclesPerByte = int(cyclesPerByte)
	h.offset = int(offset)
	h.diskChangeSeq = int(diskChangeSeq)
	return nil
}
