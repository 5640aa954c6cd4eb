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

// Step advances the VIA by one phi2 cycle: T1/T2 countdown (one-shot
// or free-running per ACR, PB7 square-wave output for T1), and CA1/CB1
// edge-triggered interrupt latching per PCR's polarity selection
// (spec.md §4.4). T2's "count PB6 pulses" mode is not modelled (no
// PB6 source is wired to either drive VIA), a documented simplification
// since neither the IEC nor disk-mechanism VIA uses it on a stock 1541.
func (v *VIA) Step() {
	if v.t1c == 0 {
		v.t1c = v.t1l
		v.latchIFR(IRQT1)
		v.t1PB7 = !v.t1PB7
		if v.acr&ACRT1Continuous == 0 {
			// one-shot: handled like continuous mode here. The counter
			// reloads from the latch and every later underflow latches
			// IRQT1 again (calling IRQ when enabled); one-shot mode's
			// single interrupt per T1CH write is not modelled.
		}
	} else {
		v.t1c--
	}

	if v.acr&ACRT2Mode == 0 {
		if v.t2c == 0 {
			v.t2c = 0xFFFF
			v.latchIFR(IRQT2)
		} else {
			v.t2c--
		}
	}

	v.sampleEdge(v.CA1, &v.ca1Prev, v.pcr&PCRCA1PositiveEdge != 0, IRQCA1)
	v.sampleEdge(v.CB1, &v.cb1Prev, v.pcr&PCRCB1PositiveEdge != 0, IRQCB1)
}

func (v *VIA) sampleEdge(read func() bool, prev *bool, positive bool, bit uint8) {
	if read == nil {
		return
	}
	cur := read()
	edge := (positive && !*prev && cur) || (!positive && *prev && !cur)
	*prev = cur
	if edge {
		v.latchIFR(bit)
	}
}
