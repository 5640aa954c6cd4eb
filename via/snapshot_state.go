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

package via

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Export captures a VIA's port/timer/shift-register state for
// spec §4.7's drive-side snapshot record (the drive's two 6522s are
// captured the same way the host-side CIA/VIC are).
func (v *VIA) Export() ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, v.pra)
	binary.Write(&buf, binary.LittleEndian, v.prb)
	binary.Write(&buf, binary.LittleEndian, v.ddra)
	binary.Write(&buf, binary.LittleEndian, v.ddrb)
	binary.Write(&buf, binary.LittleEndian, v.t1c)
	binary.Write(&buf, binary.LittleEndian, v.t1l)
	binary.Write(&buf, binary.LittleEndian, v.t2c)
	binary.Write(&buf, binary.LittleEndian, v.t2l)
	binary.Write(&buf, binary.LittleEndian, v.sr)
	binary.Write(&buf, binary.LittleEndian, v.acr)
	binary.Write(&buf, binary.LittleEndian, v.pcr)
	binary.Write(&buf, binary.LittleEndian, v.ifr)
	binary.Write(&buf, binary.LittleEndian, v.ier)
	binary.Write(&buf, binary.LittleEndian, v.t1PB7)
	binary.Write(&buf, binary.LittleEndian, v.ca1Prev)
	binary.Write(&buf, binary.LittleEndian, v.cb1Prev)
	return buf.Bytes(), nil
}

// Import restores state captured by Export.
func (v *VIA) Import(data []byte) error {
	r := bytes.NewReader(data)
	fields := []any{
		&v.pra, &v.prb, &v.ddra, &v.ddrb,
		&v.t1c, &v.t1l, &v.t2c, &v.t2l,
		&v.sr, &v.acr, &v.pcr, &v.ifr, &v.ier,
		&v.t1PB7, &v.ca1Prev, &v.cb1Prev,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("via: restoring state: %w", err)
		}
	}
	return nil
}
