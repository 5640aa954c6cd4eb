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

package sid

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Export captures the SID's register bank and internal oscillator/
// envelope state for spec §4.7's snapshot record.
func (s *SID) Export() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(s.raw[:])
	for i := range s.v {
		v := &s.v[i]
		binary.Write(&buf, binary.LittleEndian, v.phase)
		binary.Write(&buf, binary.LittleEndian, v.lfsr)
		binary.Write(&buf, binary.LittleEndian, v.phase2)
		binary.Write(&buf, binary.LittleEndian, v.envLevel)
		binary.Write(&buf, binary.LittleEndian, int32(v.phaseEnv))
		binary.Write(&buf, binary.LittleEndian, int32(v.envClock))
	}
	return buf.Bytes(), nil
}

// Import restores state captured by Export.
func (s *SID) Import(data []byte) error {
	if len(data) < NumRegisters {
		return fmt.Errorf("sid: snapshot too short")
	}
	copy(s.raw[:], data[:NumRegisters])
	r := bytes.NewReader(data[NumRegisters:])
	for i := range s.v {
		v := &s.v[i]
		var phaseEnv, envClock int32
		binary.Read(r, binary.LittleEndian, &v.phase)
		binary.Read(r, binary.LittleEndian, &v.lfsr)
		binary.Read(r, binary.LittleEndian, &v.phase2)
		if err := binary.Read(r, binary.LittleEndian, &v.envLevel); err != nil {
			return fmt.Errorf("sid: restoring voice %d: %w", i, err)
		}
		binary.Read(r, binary.LittleEndian, &phaseEnv)
		binary.Read(r, binary.LittleEndian, &envClock)
		v.phaseEnv = envPhase(phaseEnv)
		v.envClock = int(envClock)
	}
	return nil
}
