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

package cpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// irqSourceOrder fixes a stable encoding order for the IRQSource map,
// since Go map iteration order is not stable across runs.
var irqSourceOrder = [...]IRQSource{IRQSourceVIC, IRQSourceCIA, IRQSourceVIA1, IRQSourceVIA2, IRQSourceIECATN}

// Export captures this CPU's architectural state for spec §4.7's
// snapshot record: registers, the jam/RDY flags, and the edge-triggered
// interrupt lines. It must only be called between instructions (spec
// §9's "instruction complete and not mid-sprite-DMA" safe point); the
// cycle-mode micro-op queue is transient execution state, not
// architectural state, and is never captured.
func (c *CPU) Export() ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, c.Reg.A)
	binary.Write(&buf, binary.LittleEndian, c.Reg.X)
	binary.Write(&buf, binary.LittleEndian, c.Reg.Y)
	binary.Write(&buf, binary.LittleEndian, c.Reg.SP)
	binary.Write(&buf, binary.LittleEndian, c.Reg.PC)
	binary.Write(&buf, binary.LittleEndian, c.Reg.Status.Byte())
	binary.Write(&buf, binary.LittleEndian, c.Jammed)
	binary.Write(&buf, binary.LittleEndian, c.RDY)
	binary.Write(&buf, binary.LittleEndian, c.nmiLine)
	binary.Write(&buf, binary.LittleEndian, c.nmiPending)
	binary.Write(&buf, binary.LittleEndian, c.nmiSince)
	for _, src := range irqSourceOrder {
		binary.Write(&buf, binary.LittleEndian, c.irqLevel[src])
		binary.Write(&buf, binary.LittleEndian, c.irqSince[src])
	}
	return buf.Bytes(), nil
}

// Import restores state captured by Export. The CPU must not be
// mid-instruction; callers that snapshot at instruction boundaries
// (as RunFrame's callers are expected to) satisfy this automatically.
func (c *CPU) Import(data []byte) error {
	r := bytes.NewReader(data)
	var status uint8
	if err := binary.Read(r, binary.LittleEndian, &c.Reg.A); err != nil {
		return fmt.Errorf("cpu: reading A: %w", err)
	}
	binary.Read(r, binary.LittleEndian, &c.Reg.X)
	binary.Read(r, binary.LittleEndian, &c.Reg.Y)
	binary.Read(r, binary.LittleEndian, &c.Reg.SP)
	binary.Read(r, binary.LittleEndian, &c.Reg.PC)
	if err := binary.Read(r, binary.LittleEndian, &status); err != nil {
		return fmt.Errorf("cpu: reading status: %w", err)
	}
	c.Reg.Status.FromByte(status)
	binary.Read(r, binary.LittleEndian, &c.Jammed)
	binary.Read(r, binary.LittleEndian, &c.RDY)
	binary.Read(r, binary.LittleEndian, &c.nmiLine)
	binary.Read(r, binary.LittleEndian, &c.nmiPending)
	binary.Read(r, binary.LittleEndian, &c.nmiSince)
	if c.irqLevel == nil {
		c.irqLevel = make(map[IRQSource]bool)
	}
	if c.irqSince == nil {
		c.irqSince = make(map[IRQSource]uint64)
	}
	for _, src := range irqSourceOrder {
		var level bool
		var since uint64
		if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
			return fmt.Errorf("cpu: reading irq state for %s: %w", src, err)
		}
		binary.Read(r, binary.LittleEndian, &since)
		c.irqLevel[src] = level
		c.irqSince[src] = since
	}
	c.queue = nil
	return nil
}
