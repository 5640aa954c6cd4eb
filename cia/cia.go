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

// Package cia implements the MOS 6526 Complex Interface Adapter
// (spec.md §4.3). Two instances exist in a running machine, CIA1
// (keyboard/joystick, IRQ to the host 6510) and CIA2 (IEC lines/VIC
// bank select, NMI to the host 6510); both are the same chip, wired
// differently by the caller through the PA/PB read/write callbacks and
// the IRQ callback.
//
// Grounded on the register layout and timer/TOD/ICR semantics of
// Frodo's `MOS6526` (_examples/original_source/src/CIA.h, CIA.cpp,
// CIA_SC.cpp), restructured into Gopher2600's Step-per-cycle idiom
// (cpu/cyclemode.go) rather than Frodo's EmulateLine/EmulateCycle
// split, since this core only supports cycle-accurate chip stepping.
package cia

// Register indices ($00-$0F).
const (
	PRA    = 0x00
	PRB    = 0x01
	DDRA   = 0x02
	DDRB   = 0x03
	TALo   = 0x04
	TAHi   = 0x05
	TBLo   = 0x06
	TBHi   = 0x07
	TOD10  = 0x08
	TODSec = 0x09
	TODMin = 0x0A
	TODHr  = 0x0B
	SDR    = 0x0C
	ICR    = 0x0D
	CRA    = 0x0E
	CRB    = 0x0F
)

// ICR flag bits.
const (
	ICRTA    = 1 << 0
	ICRTB    = 1 << 1
	ICRAlarm = 1 << 2
	ICRSP    = 1 << 3
	ICRFlag  = 1 << 4
	ICRSetClear = 1 << 7
	ICRAny   = 1 << 7 // read-side: "one or more enabled sources active"
)

// CRA/CRB control bits.
const (
	CRStart     = 1 << 0
	CRPBOn      = 1 << 1
	CROutMode   = 1 << 2 // 0 pulse, 1 toggle
	CRRunMode   = 1 << 3 // 0 continuous, 1 one-shot
	CRForceLoad = 1 << 4
	CRInMode    = 1 << 5 // CRA: 0 phi2, 1 CNT; CRB bit 5-6: timer B input select
	CRATODSpeed = 1 << 7 // CRA only: 0=60Hz, 1=50Hz
)

// TODDivider is the number of Step calls per tenth-of-a-second TOD
// tick at the PAL system clock (~985248 Hz/10). The real chip derives
// this from an external 50/60 Hz line rather than phi2 directly; since
// this core has no separate vertical-sync tick source wired to cia
// yet, Step approximates it with a fixed phi2-cycle divisor selected
// by CRA bit 7, which is accurate for PAL (CRA bit 7 set, the C64's
// wiring) and documented as approximate for the NTSC case.
const (
	TODDividerPAL  = 98524
	TODDividerNTSC = 102273
)

// CIA is one 6526 instance. The zero value is not usable; construct
// with New.
type CIA struct {
	pra, prb, ddra, ddrb uint8

	ta, tb         uint16
	latchA, latchB uint16
	cra, crb       uint8

	icr     uint8
	intMask uint8

	tod10, todSec, todMin, todHr             uint8
	alarm10, alarmSec, alarmMin, alarmHr     uint8
	todLatched                               bool
	latched10, latchedSec, latchedMin, latchedHr uint8
	todHalted                                bool
	todWritingAlarm                          bool
	todDivider                               int
	todCounter                               int

	sdr      uint8
	sdrCount int

	taToggle, tbToggle bool
	taPulse, tbPulse   bool

	// ReadPA / ReadPB supply the externally-driven bits of ports A/B
	// (keyboard columns, joystick, IEC input lines) the way cpu.Port
	// combines DDR with a floating/driven input; WritePA / WritePB
	// notify the host of an output change (keyboard row strobe, VIC
	// bank select, IEC output lines).
	ReadPA  func() uint8
	ReadPB  func() uint8
	WritePA func(value uint8)
	WritePB func(value uint8)

	// IRQ is called whenever the combined interrupt line transitions
	// to asserted (an enabled, newly-latched ICR bit).
	IRQ func()
}

// New constructs a CIA with PAL TOD timing by default.
func New() *CIA {
	return &CIA{todDivider: TODDividerPAL, ddra: 0, ddrb: 0}
}

// Reset returns the chip to its documented power-on state: timers and
// latches at their maximum count, ports as inputs, TOD registers
// cleared to zero and the TOD clock running.
func (c *CIA) Reset() {
	*c = CIA{ReadPA: c.ReadPA, ReadPB: c.ReadPB, WritePA: c.WritePA, WritePB: c.WritePB, IRQ: c.IRQ, todDivider: c.todDivider}
	c.ta, c.tb = 0xFFFF, 0xFFFF
	c.latchA, c.latchB = 0xFFFF, 0xFFFF
}

func (c *CIA) readPort(ddr, latch uint8, external func() uint8) uint8 {
	var floating uint8 = 0xFF
	if external != nil {
		floating = external()
	}
	return (latch & ddr) | (floating &^ ddr)
}

// Read implements memory/system.ChipRegisters.
func (c *CIA) Read(reg uint8) (uint8, error) {
	switch reg & 0x0F {
	case PRA:
		return c.readPort(c.ddra, c.pra, c.ReadPA), nil
	case PRB:
		v := c.readPort(c.ddrb, c.prb, c.ReadPB)
		v = c.applyTimerPBOutputs(v)
		return v, nil
	case DDRA:
		return c.ddra, nil
	case DDRB:
		return c.ddrb, nil
	case TALo:
		return uint8(c.ta), nil
	case TAHi:
		return uint8(c.ta >> 8), nil
	case TBLo:
		return uint8(c.tb), nil
	case TBHi:
		return uint8(c.tb >> 8), nil
	case TOD10:
		// Reading 10ths always returns the live register and releases
		// any latch taken by a preceding Hours read.
		c.todLatched = false
		return c.tod10, nil
	case TODSec:
		if c.todLatched {
			return c.latchedSec, nil
		}
		return c.todSec, nil
	case TODMin:
		if c.todLatched {
			return c.latchedMin, nil
		}
		return c.todMin, nil
	case TODHr:
		c.latched10, c.latchedSec, c.latchedMin, c.latchedHr = c.tod10, c.todSec, c.todMin, c.todHr
		c.todLatched = true
		return c.todHr, nil
	case SDR:
		return c.sdr, nil
	case ICR:
		v := c.icr
		if v&c.intMask != 0 {
			v |= ICRAny
		}
		c.icr = 0
		return v, nil
	case CRA:
		return c.cra, nil
	case CRB:
		return c.crb, nil
	}
	return 0xFF, nil
}

// Write implements memory/system.ChipRegisters.
func (c *CIA) Write(reg uint8, v uint8) error {
	switch reg & 0x0F {
	case PRA:
		c.pra = v
		if c.WritePA != nil {
			c.WritePA(c.pra & c.ddra)
		}
	case PRB:
		c.prb = v
		if c.WritePB != nil {
			c.WritePB(c.prb & c.ddrb)
		}
	case DDRA:
		c.ddra = v
	case DDRB:
		c.ddrb = v
	case TALo:
		c.latchA = (c.latchA & 0xFF00) | uint16(v)
	case TAHi:
		c.latchA = (c.latchA & 0x00FF) | uint16(v)<<8
		if c.cra&CRStart == 0 {
			c.ta = c.latchA
		}
	case TBLo:
		c.latchB = (c.latchB & 0xFF00) | uint16(v)
	case TBHi:
		c.latchB = (c.latchB & 0x00FF) | uint16(v)<<8
		if c.crb&CRStart == 0 {
			c.tb = c.latchB
		}
	case TOD10:
		if c.todWritingAlarm {
			c.alarm10 = v & 0x0F
		} else {
			c.tod10 = v & 0x0F
			c.todHalted = false
		}
	case TODSec:
		if c.todWritingAlarm {
			c.alarmSec = v & 0x7F
		} else {
			c.todSec = v & 0x7F
		}
	case TODMin:
		if c.todWritingAlarm {
			c.alarmMin = v & 0x7F
		} else {
			c.todMin = v & 0x7F
		}
	case TODHr:
		if c.todWritingAlarm {
			c.alarmHr = v & 0x9F
		} else {
			c.todHr = v & 0x9F
			c.todHalted = true
		}
	case SDR:
		c.sdr = v
		c.sdrCount = 8
	case ICR:
		if v&ICRSetClear != 0 {
			c.intMask |= v & 0x1F
		} else {
			c.intMask &^= v & 0x1F
		}
	case CRA:
		c.cra = v
		if v&CRATODSpeed != 0 {
			c.todDivider = TODDividerPAL
		} else {
			c.todDivider = TODDividerNTSC
		}
		if v&CRForceLoad != 0 {
			c.ta = c.latchA
		}
	case CRB:
		c.crb = v
		c.todWritingAlarm = v&(1<<7) != 0
		if v&CRForceLoad != 0 {
			c.tb = c.latchB
		}
	}
	return nil
}

func (c *CIA) applyTimerPBOutputs(v uint8) uint8 {
	if c.cra&CRPBOn != 0 {
		v = (v &^ (1 << 6)) | (c.paToggleBit(6) << 6)
	}
	if c.crb&CRPBOn != 0 {
		v = (v &^ (1 << 7)) | (c.paToggleBit(7) << 7)
	}
	return v
}

// paToggleBit returns the current PB6/PB7 output level. Pulse mode
// (CRx bit 2 clear) is approximated as "high for the one cycle of the
// underflow and low otherwise", which Step already drives through
// taPulse/tbPulse; toggle mode is tracked in taToggle/tbToggle.
func (c *CIA) paToggleBit(bit int) uint8 {
	if bit == 6 {
		if c.cra&CROutMode != 0 {
			return b2u(c.taToggle)
		}
		return b2u(c.taPulse)
	}
	if c.crb&CROutMode != 0 {
		return b2u(c.tbToggle)
	}
	return b2u(c.tbPulse)
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
