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

package cia

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Export captures a CIA's port, timer and TOD state for spec §4.7's
// snapshot record, in debug_snapshot.go's
// binary.Write idiom.
func (c *CIA) Export() ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, c.pra)
	binary.Write(&buf, binary.LittleEndian, c.prb)
	binary.Write(&buf, binary.LittleEndian, c.ddra)
	binary.Write(&buf, binary.LittleEndian, c.ddrb)
	binary.Write(&buf, binary.LittleEndian, c.ta)
	binary.Write(&buf, binary.LittleEndian, c.tb)
	binary.Write(&buf, binary.LittleEndian, c.latchA)
	binary.Write(&buf, binary.LittleEndian, c.latchB)
	binary.Write(&buf, binary.LittleEndian, c.cra)
	binary.Write(&buf, binary.LittleEndian, c.crb)
	binary.Write(&buf, binary.LittleEndian, c.icr)
	binary.Write(&buf, binary.LittleEndian, c.intMask)
	binary.Write(&buf, binary.LittleEndian, c.tod10)
	binary.Write(&buf, binary.LittleEndian, c.todSec)
	binary.Write(&buf, binary.LittleEndian, c.todMin)
	binary.Write(&buf, binary.LittleEndian, c.todHr)
	binary.Write(&buf, binary.LittleEndian, c.alarm10)
	binary.Write(&buf, binary.LittleEndian, c.alarmSec)
	binary.Write(&buf, binary.LittleEndian, c.alarmMin)
	binary.Write(&buf, binary.LittleEndian, c.alarmHr)
	binary.Write(&buf, binary.LittleEndian, c.todLatched)
	binary.Write(&buf, binary.LittleEndian, c.latched10)
	binary.Write(&buf, binary.LittleEndian, c.latchedSec)
	binary.Write(&buf, binary.LittleEndian, c.latchedMin)
	binary.Write(&buf, binary.LittleEndian, c.latchedHr)
	binary.Write(&buf, binary.LittleEndian, c.todHalted)
	binary.Write(&buf, binary.LittleEndian, c.todWritingAlarm)
	binary.Write(&buf, binary.LittleEndian, int32(c.todDivider))
	binary.Write(&buf, binary.LittleEndian, int32(c.todCounter))
	binary.Write(&buf, binary.LittleEndian, c.sdr)
	binary.Write(&buf, binary.LittleEndian, int32(c.sdrCount))
	binary.Write(&buf, binary.LittleEndian, c.taToggle)
	binary.Write(&buf, binary.LittleEndian, c.tbToggle)
	binary.Write(&buf, binary.LittleEndian, c.taPulse)
	binary.Write(&buf, binary.LittleEndian, c.tbPulse)
	return buf.Bytes(), nil
}

// Import restores state captured by Export.
func (c *CIA) Import(data []byte) error {
	r := bytes.NewReader(data)
	var todDivider, todCounter, sdrCount int32
	fields := []any{
		&c.pra, &c.prb, &c.ddra, &c.ddrb,
		&c.ta, &c.tb, &c.latchA, &c.latchB,
		&c.cra, &c.crb, &c.icr, &c.intMask,
		&c.tod10, &c.todSec, &c.todMin, &c.todHr,
		&c.alarm10, &c.alarmSec, &c.alarmMin, &c.alarmHr,
		&c.todLatched,
		&c.latched10, &c.latchedSec, &c.latchedMin, &c.latchedHr,
		&c.todHalted, &c.todWritingAlarm,
		&todDivider, &todCounter,
		&c.sdr, &sdrCount,
		&c.taToggle, &c.tbToggle, &c.taPulse, &c.tbPulse,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("cia: restoring state: %w", err)
		}
	}
	c.todDivider = int(todDivider)
	c.todCounter = int(todCounter)
	c.sdrCount = int(sdrCount)
	return nil
}
