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

// Package via implements the MOS 6522 Versatile Interface Adapter
// (spec.md §4.4) as used by the 1541 drive: two instances, VIA1 (IEC
// interface on port B, CA1 wired to ATN for the IEC-ATN interrupt) and
// VIA2 (disk mechanism on port B, GCR byte transfer on port A, CA2 as
// the "SO" set-overflow strobe the drive CPU's overflow flag samples).
//
// Grounded on the register layout and timer/IFR semantics of Frodo's
// `MOS6522` (_examples/original_source/src/VIA.h, VIA.cpp, VIA_SC.cpp),
// restructured into Gopher2600's Step-per-cycle idiom the way cia.CIA
// already adapts the 6526 (the two chips share registers.File-shaped
// register files and a Step-per-master-cycle timer model, grounded in
// the same source pair).
package via

// Register indices ($00-$0F).
const (
	ORB  = 0x00
	ORA  = 0x01
	DDRB = 0x02
	DDRA = 0x03
	T1CL = 0x04
	T1CH = 0x05
	T1LL = 0x06
	T1LH = 0x07
	T2CL = 0x08
	T2CH = 0x09
	SR   = 0x0A
	ACR  = 0x0B
	PCR  = 0x0C
	IFR  = 0x0D
	IER  = 0x0E
	ORANoHandshake = 0x0F
)

// IFR/IER bits.
const (
	IRQCA2 = 1 << 0
	IRQCA1 = 1 << 1
	IRQSR  = 1 << 2
	IRQCB2 = 1 << 3
	IRQCB1 = 1 << 4
	IRQT2  = 1 << 5
	IRQT1  = 1 << 6
	IRQAny = 1 << 7
)

// ACR bits.
const (
	ACRPBLatch   = 1 << 0
	ACRPALatch   = 1 << 1
	ACRT2Mode    = 1 << 5 // 0 one-shot (count phi2), 1 count PB6 pulses
	ACRT1Continuous = 1 << 6
	ACRT1PB7     = 1 << 7
)

// PCR bits relevant to this core: CA1/CA2 edge control (spec.md §4.4's
// CA2-high SO strobe is bits 1-3 == 0b110, "output high").
const (
	PCRCA1PositiveEdge = 1 << 0
	PCRCA2Mask         = 0x0E
	PCRCA2OutputHigh   = 0x0C
	PCRCB1PositiveEdge = 1 << 4
)

// VIA is one 6522 instance.
type VIA struct {
	pra, prb, ddra, ddrb uint8
	t1c, t1l             uint16
	t2c, t2l             uint16
	sr                   uint8
	acr, pcr             uint8
	ifr, ier             uint8

	t1PB7 bool
	ca1Prev, cb1Prev bool

	// ReadPA / ReadPB / WritePA / WritePB mirror cia.CIA's port
	// callback shape.
	ReadPA  func() uint8
	ReadPB  func() uint8
	WritePA func(value uint8)
	WritePB func(value uint8)

	// CA1 / CB1 are sampled each Step from these callbacks (e.g. the
	// ATN line for VIA1's CA1, the sync sensor for VIA2); a qualifying
	// edge (selected by PCR) latches IRQCA1/IRQCB1.
	CA1 func() bool
	CB1 func() bool

	// CA2Out reflects the "SO" strobe level (spec.md §4.4) whenever
	// PCR selects CA2 as a manual output; the drive CPU's overflow
	// flag sampling reads this through the caller's wiring.
	CA2Out func(high bool)

	IRQ func()
}

func New() *VIA { return &VIA{} }

func (v *VIA) readPort(ddr, latch uint8, external func() uint8) uint8 {
	var floating uint8 = 0xFF
	if external != nil {
		floating = external()
	}
	return (latch & ddr) | (floating &^ ddr)
}

// Read implements memory/system.ChipRegisters.
func (v *VIA) Read(reg uint8) (uint8, error) {
	switch reg & 0x0F {
	case ORB:
		out := v.readPort(v.ddrb, v.prb, v.ReadPB)
		if v.acr&ACRT1PB7 != 0 {
			out = (out &^ (1 << 7)) | b2u(v.t1PB7)<<7
		}
		v.clearIFR(IRQCB1 | IRQCB2)
		return out, nil
	case ORA, ORANoHandshake:
		out := v.readPort(v.ddra, v.pra, v.ReadPA)
		if reg == ORA {
			v.clearIFR(IRQCA1 | IRQCA2)
		}
		return out, nil
	case DDRB:
		return v.ddrb, nil
	case DDRA:
		return v.ddra, nil
	case T1CL:
		v.clearIFR(IRQT1)
		return uint8(v.t1c), nil
	case T1CH:
		return uint8(v.t1c >> 8), nil
	case T1LL:
		return uint8(v.t1l), nil
	case T1LH:
		return uint8(v.t1l >> 8), nil
	case T2CL:
		v.clearIFR(IRQT2)
		return uint8(v.t2c), nil
	case T2CH:
		return uint8(v.t2c >> 8), nil
	case SR:
		v.clearIFR(IRQSR)
		return v.sr, nil
	case ACR:
		return v.acr, nil
	case PCR:
		return v.pcr, nil
	case IFR:
		r := v.ifr
		if r&v.ier != 0 {
			r |= IRQAny
		}
		return r, nil
	case IER:
		return v.ier | 0x80, nil
	}
	return 0xFF, nil
}

// Write implements memory/system.ChipRegisters.
func (v *VIA) Write(reg uint8, data uint8) error {
	switch reg & 0x0F {
	case ORB:
		v.prb = data
		if v.WritePB != nil {
			v.WritePB(v.prb & v.ddrb)
		}
		v.clearIFR(IRQCB1 | IRQCB2)
	case ORA, ORANoHandshake:
		v.pra = data
		if v.WritePA != nil {
			v.WritePA(v.pra & v.ddra)
		}
		if reg == ORA {
			v.clearIFR(IRQCA1 | IRQCA2)
		}
	case DDRB:
		v.ddrb = data
	case DDRA:
		v.ddra = data
	case T1CL:
		v.t1l = (v.t1l & 0xFF00) | uint16(data)
	case T1CH:
		v.t1l = (v.t1l & 0x00FF) | uint16(data)<<8
		v.t1c = v.t1l
		v.clearIFR(IRQT1)
		v.t1PB7 = false
	case T1LL:
		v.t1l = (v.t1l & 0xFF00) | uint16(data)
	case T1LH:
		v.t1l = (v.t1l & 0x00FF) | uint16(data)<<8
		v.clearIFR(IRQT1)
	case T2CL:
		v.t2l = (v.t2l & 0xFF00) | uint16(data)
	case T2CH:
		v.t2l = (v.t2l & 0x00FF) | uint16(data)<<8
		v.t2c = v.t2l
		v.clearIFR(IRQT2)
	case SR:
		v.sr = data
	case ACR:
		v.acr = data
	case PCR:
		v.pcr = data
		if v.pcr&PCRCA2Mask == PCRCA2OutputHigh && v.CA2Out != nil {
			v.CA2Out(true)
		}
	case IFR:
		v.ifr &^= data & 0x7F
	case IER:
		if data&0x80 != 0 {
			v.ier |= data & 0x7F
		} else {
			v.ier &^= data & 0x7F
		}
	}
	return nil
}

func (v *VIA) clearIFR(bits uint8) { v.ifr &^= bits }

func (v *VIA) latchIFR(bit uint8) {
	v.ifr |= bit
	if v.ifr&v.ier != 0 && v.IRQ != nil {
		v.IRQ()
	}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
