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

// Step advances the CIA by one phi2 cycle: timer A/B decrement
// (continuous or one-shot, stopped by CRx bit 3 after an underflow),
// the PB6/PB7 pulse/toggle outputs, the approximated TOD tick divider,
// and the serial register's pseudo-interrupt-after-8-edges counter
// (spec.md §4.3). Timer B's CNT-based and ATA-underflow-while-CNT-high
// count sources are not modelled; only phi2 and "timer A underflow"
// are supported, a documented simplification since neither CIA's wired
// CNT input carries a signal this core emulates (CIA1/CIA2's CNT pins
// are unconnected on a stock C64).
func (c *CIA) Step() {
	c.taPulse, c.tbPulse = false, false

	taUnderflow := false
	if c.cra&CRStart != 0 {
		if c.ta == 0 {
			c.ta = c.latchA
			taUnderflow = true
		} else {
			c.ta--
		}
	}
	if taUnderflow {
		c.onTAUnderflow()
	}

	tbSource := (c.crb >> 5) & 0x03
	tbClock := false
	switch tbSource {
	case 0: // phi2
		tbClock = c.crb&CRStart != 0
	case 2: // timer A underflow
		tbClock = c.crb&CRStart != 0 && taUnderflow
	default:
		// CNT and CNT-while-TA-underflow sources: unconnected pin on a
		// stock C64, never clocks.
	}
	if tbClock {
		if c.tb == 0 {
			c.tb = c.latchB
			c.onTBUnderflow()
		} else {
			c.tb--
		}
	}

	if c.sdrCount > 0 {
		c.sdrCount--
		if c.sdrCount == 0 {
			c.latchICR(ICRSP)
		}
	}

	if !c.todHalted {
		c.todCounter++
		if c.todCounter >= c.todDivider {
			c.todCounter = 0
			c.tickTOD()
		}
	}
}

func (c *CIA) onTAUnderflow() {
	c.taPulse = true
	c.taToggle = !c.taToggle
	if c.cra&CRRunMode != 0 {
		c.cra &^= CRStart // one-shot: stop after this underflow
	}
	c.latchICR(ICRTA)
}

func (c *CIA) onTBUnderflow() {
	c.tbPulse = true
	c.tbToggle = !c.tbToggle
	if c.crb&CRRunMode != 0 {
		c.crb &^= CRStart
	}
	c.latchICR(ICRTB)
}

func (c *CIA) latchICR(bit uint8) {
	c.icr |= bit
	if c.icr&c.intMask != 0 && c.IRQ != nil {
		c.IRQ()
	}
}

// tickTOD advances the BCD time-of-day clock by one tenth of a second,
// cascading through seconds/minutes/hours with 12-hour AM/PM wrap
// (bit 7 of the hours register), and compares against the alarm,
// latching the alarm IRQ source on an exact match.
func (c *CIA) tickTOD() {
	c.tod10 = bcdInc(c.tod10, 10)
	if c.tod10 != 0 {
		c.checkAlarm()
		return
	}
	c.todSec = bcdInc(c.todSec&0x7F, 60)
	if c.todSec != 0 {
		c.checkAlarm()
		return
	}
	c.todMin = bcdInc(c.todMin&0x7F, 60)
	if c.todMin != 0 {
		c.checkAlarm()
		return
	}
	hr := c.todHr & 0x1F
	pm := c.todHr & 0x80
	hr = bcdInc(hr, 12)
	if hr == 0 {
		hr = 1
		pm ^= 0x80 // wraps 12:59:59 -> 1:00:00, flipping AM/PM
	}
	c.todHr = hr | pm
	c.checkAlarm()
}

func (c *CIA) checkAlarm() {
	if c.tod10 == c.alarm10 && c.todSec&0x7F == c.alarmSec && c.todMin&0x7F == c.alarmMin && c.todHr == c.alarmHr {
		c.latchICR(ICRAlarm)
	}
}

// bcdInc increments a BCD byte by one digit-pair, wrapping to 0 at
// modulus (10, 60, or 12, each itself expressed in BCD: 60 is $60).
func bcdInc(v uint8, modulus int) uint8 {
	lo := v & 0x0F
	hi := (v >> 4) & 0x0F
	lo++
	if lo > 9 {
		lo = 0
		hi++
	}
	v = hi<<4 | lo
	var mod uint8
	switch modulus {
	case 10:
		mod = 0x0A
	case 60:
		mod = 0x60
	case 12:
		mod = 0x13 // BCD 13 never occurs (hours run 1-12); wrap handled by caller
	}
	if modulus == 12 {
		if v > 0x12 {
			return 0
		}
		return v
	}
	if v >= mod {
		return 0
	}
	return v
}
