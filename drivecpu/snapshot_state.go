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

package drivecpu

import (
	"bytes"
	"fmt"
)

// Export captures the drive-side RAM, both VIAs and the idle flag for
// spec §4.7's snapshot record ("byte-exact captures of ... drive RAM").
// The drive ROM is not captured: like the host's BASIC/KERNAL/char
// ROMs, it is loaded once at construction and assumed identical
// between save and restore.
func (s *System) Export() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(s.RAM[:])
	via1, err := s.VIA1.Export()
	if err != nil {
		return nil, fmt.Errorf("drivecpu: exporting VIA1: %w", err)
	}
	via2, err := s.VIA2.Export()
	if err != nil {
		return nil, fmt.Errorf("drivecpu: exporting VIA2: %w", err)
	}
	buf.Write(via1)
	buf.Write(via2)
	if s.Idle {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

// Import restores state captured by Export. viaStateLen is the fixed
// per-VIA encoded length (len(s.VIA1.Export()) for a freshly
// constructed VIA never changes, since via.VIA has no variable-length
// fields).
func (s *System) Import(data []byte, viaStateLen int) error {
	if len(data) < ramSize+2*viaStateLen+1 {
		return fmt.Errorf("drivecpu: snapshot too short")
	}
	copy(s.RAM[:], data[:ramSize])
	off := ramSize
	if err := s.VIA1.Import(data[off : off+viaStateLen]); err != nil {
		return fmt.Errorf("drivecpu: restoring VIA1: %w", err)
	}
	off += viaStateLen
	if err := s.VIA2.Import(data[off : off+viaStateLen]); err != nil {
		return fmt.Errorf("drivecpu: restoring VIA2: %w", err)
	}
	off += viaStateLen
	s.Idle = data[off] != 0
	return nil
}
