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

package registers

// Export captures the raw register bank and the internal IRQ latch
// pair (spec §4.7's per-chip snapshot record).
func (f *File) Export() []byte {
	out := make([]byte, NumRegisters+2)
	copy(out, f.raw[:])
	out[NumRegisters] = f.irqLatch
	out[NumRegisters+1] = f.irqEnable
	return out
}

// Import restores state captured by Export.
func (f *File) Import(data []byte) {
	copy(f.raw[:], data)
	if len(data) >= NumRegisters+2 {
		f.irqLatch = data[NumRegisters]
		f.irqEnable = data[NumRegisters+1]
	}
}
