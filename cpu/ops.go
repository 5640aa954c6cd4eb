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

// Operation bodies, shared between line mode (called directly against a
// fetched operand) and cycle mode (called from the final micro-op in the
// generated sequence). Each function only touches the registers and the
// operand value/pointer handed to it; memory access timing is entirely
// the caller's responsibility.

func opLDA(c *CPU, v uint8) { c.Reg.A = v; c.Reg.Status.SetZN(v) }
func opLDX(c *CPU, v uint8) { c.Reg.X = v; c.Reg.Status.SetZN(v) }
func opLDY(c *CPU, v uint8) { c.Reg.Y = v; c.Reg.Status.SetZN(v) }
func opLAX(c *CPU, v uint8) { c.Reg.A = v; c.Reg.X = v; c.Reg.Status.SetZN(v) }

func opSTA(c *CPU) uint8 { return c.Reg.A }
func opSTX(c *CPU) uint8 { return c.Reg.X }
func opSTY(c *CPU) uint8 { return c.Reg.Y }
func opSAX(c *CPU) uint8 { return c.Reg.A & c.Reg.X }

func opTAX(c *CPU) { c.Reg.X = c.Reg.A; c.Reg.Status.SetZN(c.Reg.X) }
func opTAY(c *CPU) { c.Reg.Y = c.Reg.A; c.Reg.Status.SetZN(c.Reg.Y) }
func opTSX(c *CPU) { c.Reg.X = c.Reg.SP; c.Reg.Status.SetZN(c.Reg.X) }
func opTXA(c *CPU) { c.Reg.A = c.Reg.X; c.Reg.Status.SetZN(c.Reg.A) }
func opTXS(c *CPU) { c.Reg.SP = c.Reg.X }
func opTYA(c *CPU) { c.Reg.A = c.Reg.Y; c.Reg.Status.SetZN(c.Reg.A) }

func opINX(c *CPU) { c.Reg.X++; c.Reg.Status.SetZN(c.Reg.X) }
func opINY(c *CPU) { c.Reg.Y++; c.Reg.Status.SetZN(c.Reg.Y) }
func opDEX(c *CPU) { c.Reg.X--; c.Reg.Status.SetZN(c.Reg.X) }
func opDEY(c *CPU) { c.Reg.Y--; c.Reg.Status.SetZN(c.Reg.Y) }

func opCLC(c *CPU) { c.Reg.Status.Carry = false }
func opSEC(c *CPU) { c.Reg.Status.Carry = true }
func opCLI(c *CPU) { c.Reg.Status.Interrupt = false }
func opSEI(c *CPU) { c.Reg.Status.Interrupt = true }
func opCLV(c *CPU) { c.Reg.Status.Overflow = false }
func opCLD(c *CPU) { c.Reg.Status.Decimal = false }
func opSED(c *CPU) { c.Reg.Status.Decimal = true }

func opORA(c *CPU, v uint8) { c.Reg.A |= v; c.Reg.Status.SetZN(c.Reg.A) }
func opAND(c *CPU, v uint8) { c.Reg.A &= v; c.Reg.Status.SetZN(c.Reg.A) }
func opEOR(c *CPU, v uint8) { c.Reg.A ^= v; c.Reg.Status.SetZN(c.Reg.A) }

func opBIT(c *CPU, v uint8) {
	c.Reg.Status.SetZeroRaw(c.Reg.A & v)
	c.Reg.Status.SetNegativeRaw(v)
	c.Reg.Status.Overflow = v&0x40 != 0
}

func opCMP(c *CPU, v uint8) { compare(c, c.Reg.A, v) }
func opCPX(c *CPU, v uint8) { compare(c, c.Reg.X, v) }
func opCPY(c *CPU, v uint8) { compare(c, c.Reg.Y, v) }

func compare(c *CPU, reg, v uint8) {
	result := reg - v
	c.Reg.Status.Carry = reg >= v
	c.Reg.Status.SetZN(result)
}

// opADC implements documented per-nibble BCD fix-ups for decimal mode,
// per spec.md §4.1.
func opADC(c *CPU, v uint8) {
	if c.Reg.Status.Decimal {
		adcDecimal(c, v)
		return
	}
	carry := uint16(0)
	if c.Reg.Status.Carry {
		carry = 1
	}
	sum := uint16(c.Reg.A) + uint16(v) + carry
	result := uint8(sum)
	c.Reg.Status.Overflow = (^(c.Reg.A ^ v) & (c.Reg.A ^ result) & 0x80) != 0
	c.Reg.Status.Carry = sum > 0xFF
	c.Reg.A = result
	c.Reg.Status.SetZN(result)
}

func adcDecimal(c *CPU, v uint8) {
	carry := uint8(0)
	if c.Reg.Status.Carry {
		carry = 1
	}
	a := c.Reg.A

	lo := (a & 0x0F) + (v & 0x0F) + carry
	hi := (a >> 4) + (v >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}
	binSum := uint16(a) + uint16(v) + uint16(carry)
	c.Reg.Status.Overflow = (^(a ^ v) & (a ^ uint8(binSum)) & 0x80) != 0
	if hi > 9 {
		hi += 6
	}
	c.Reg.Status.Carry = hi > 15
	result := (hi << 4) | (lo & 0x0F)
	c.Reg.A = result
	c.Reg.Status.SetZeroRaw(uint8(binSum))
	c.Reg.Status.SetNegativeRaw(result)
}

func opSBC(c *CPU, v uint8) {
	if c.Reg.Status.Decimal {
		sbcDecimal(c, v)
		return
	}
	opADC(c, ^v)
}

func sbcDecimal(c *CPU, v uint8) {
	borrow := uint8(0)
	if !c.Reg.Status.Carry {
		borrow = 1
	}
	a := c.Reg.A

	binDiff := int16(a) - int16(v) - int16(borrow)
	c.Reg.Status.Overflow = ((a ^ v) & (a ^ uint8(binDiff)) & 0x80) != 0
	c.Reg.Status.Carry = binDiff >= 0

	lo := int16(a&0x0F) - int16(v&0x0F) - int16(borrow)
	hi := int16(a>>4) - int16(v>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	result := uint8((hi << 4) | (lo & 0x0F))
	c.Reg.A = result
	c.Reg.Status.SetZeroRaw(uint8(binDiff))
	c.Reg.Status.SetNegativeRaw(uint8(binDiff))
}

// --- read-modify-write ---

func rmwASL(c *CPU, v uint8) uint8 {
	c.Reg.Status.Carry = v&0x80 != 0
	r := v << 1
	c.Reg.Status.SetZN(r)
	return r
}

func rmwLSR(c *CPU, v uint8) uint8 {
	c.Reg.Status.Carry = v&0x01 != 0
	r := v >> 1
	c.Reg.Status.SetZN(r)
	return r
}

func rmwROL(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.Reg.Status.Carry {
		carryIn = 1
	}
	c.Reg.Status.Carry = v&0x80 != 0
	r := (v << 1) | carryIn
	c.Reg.Status.SetZN(r)
	return r
}

func rmwROR(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.Reg.Status.Carry {
		carryIn = 0x80
	}
	c.Reg.Status.Carry = v&0x01 != 0
	r := (v >> 1) | carryIn
	c.Reg.Status.SetZN(r)
	return r
}

func rmwINC(c *CPU, v uint8) uint8 { r := v + 1; c.Reg.Status.SetZN(r); return r }
func rmwDEC(c *CPU, v uint8) uint8 { r := v - 1; c.Reg.Status.SetZN(r); return r }

func rmwSLO(c *CPU, v uint8) uint8 { r := rmwASL(c, v); opORA(c, r); return r }
func rmwRLA(c *CPU, v uint8) uint8 { r := rmwROL(c, v); opAND(c, r); return r }
func rmwSRE(c *CPU, v uint8) uint8 { r := rmwLSR(c, v); opEOR(c, r); return r }
func rmwRRA(c *CPU, v uint8) uint8 { r := rmwROR(c, v); opADC(c, r); return r }
func rmwDCP(c *CPU, v uint8) uint8 { r := v - 1; compare(c, c.Reg.A, r); return r }
func rmwISC(c *CPU, v uint8) uint8 { r := v + 1; opSBC(c, r); return r }

func opANC(c *CPU, v uint8) {
	c.Reg.A &= v
	c.Reg.Status.SetZN(c.Reg.A)
	c.Reg.Status.Carry = c.Reg.Status.Negative()
}

func opALR(c *CPU, v uint8) {
	c.Reg.A &= v
	c.Reg.A = rmwLSR(c, c.Reg.A)
}

func opARR(c *CPU, v uint8) {
	c.Reg.A &= v
	c.Reg.A = rmwROR(c, c.Reg.A)
	c.Reg.Status.Carry = c.Reg.A&0x40 != 0
	c.Reg.Status.Overflow = (c.Reg.A&0x40 != 0) != (c.Reg.A&0x20 != 0)
}

func opAXS(c *CPU, v uint8) {
	r := (c.Reg.A & c.Reg.X) - v
	c.Reg.Status.Carry = (c.Reg.A & c.Reg.X) >= v
	c.Reg.X = r
	c.Reg.Status.SetZN(r)
}

func opKIL(c *CPU) {
	c.Jammed = true
}

// opTrap dispatches the $F2 emulator trap (spec.md §4.1 and §4.5): the
// byte following the opcode selects the trap handler. See trap/.
func opTrap(c *CPU) {
	id, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return
	}
	c.Reg.PC++
	if c.TrapHandler != nil {
		c.TrapHandler(id)
	}
}
