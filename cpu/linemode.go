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

import (
	"github.com/sixtyfour/c64core/cpu/execution"
)

// ExecuteInstruction runs one whole instruction (line mode) and returns
// its canonical cycle cost, including any page-cross/branch-taken
// penalty. Interrupts are checked only at this call boundary, matching
// spec §4.1's "Interrupts are checked only at instruction boundaries"
// for line mode.
func (c *CPU) ExecuteInstruction(cycleNow uint64) (int, error) {
	c.curCycle = cycleNow

	if c.Jammed {
		return 1, nil
	}

	if !c.NoFlowControl {
		if c.nmiEligible(cycleNow) {
			c.nmiPending = false
			return c.interruptSequenceLine(0xFFFA, false), nil
		}
		if c.irqEligible(cycleNow) {
			return c.interruptSequenceLine(0xFFFE, false), nil
		}
	}

	c.opcodeAddr = c.Reg.PC
	opcode, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return 0, err
	}
	c.Reg.PC++

	op := &opcodes[opcode]
	cycles := op.cycles
	bugs := execution.Bugs{Illegal: op.illegal}

	switch op.access {
	case accImplicit:
		op.impOp(c)
		if op.mnemonic == "KIL" {
			bugs.Jammed = true
		}

	case accRead:
		v, crossed, err := c.lineReadOperand(op.mode)
		if err != nil {
			return cycles, err
		}
		if crossed {
			cycles++
			bugs.PageFault = true
		}
		op.readOp(c, v)

	case accWrite:
		addr, err := c.lineWriteAddress(op.mode)
		if err != nil {
			return cycles, err
		}
		if err := c.mem.Write(addr, op.writeOp(c)); err != nil {
			return cycles, err
		}

	case accRMW:
		addr, isAcc, err := c.lineRMWAddress(op.mode)
		if err != nil {
			return cycles, err
		}
		if isAcc {
			c.Reg.A = op.rmwOp(c, c.Reg.A)
		} else {
			v, err := c.mem.Read(addr)
			if err != nil {
				return cycles, err
			}
			_ = c.mem.Write(addr, v) // dummy write-back of old value
			nv := op.rmwOp(c, v)
			if err := c.mem.Write(addr, nv); err != nil {
				return cycles, err
			}
		}

	case accBranch:
		offset, err := c.mem.Read(c.Reg.PC)
		if err != nil {
			return cycles, err
		}
		c.Reg.PC++
		if op.branch(c) {
			cycles++
			target := c.Reg.PC + uint16(int8(offset))
			if !c.NoFlowControl {
				if (target & 0xFF00) != (c.Reg.PC & 0xFF00) {
					cycles++
				}
				c.Reg.PC = target
			}
		}

	case accJMP:
		addr, err := c.jmpTarget(op.mode)
		if err != nil {
			return cycles, err
		}
		if !c.NoFlowControl {
			c.Reg.PC = addr
		}

	case accJSR:
		lo, _ := c.mem.Read(c.Reg.PC)
		hi, _ := c.mem.Read(c.Reg.PC + 1)
		target := uint16(lo) | uint16(hi)<<8
		if !c.NoFlowControl {
			ret := c.Reg.PC + 1
			c.push8(uint8(ret >> 8))
			c.push8(uint8(ret))
			c.Reg.PC = target
		} else {
			c.Reg.PC += 2
		}

	case accRTS:
		lo := c.pull8()
		hi := c.pull8()
		if !c.NoFlowControl {
			c.Reg.PC = (uint16(lo) | uint16(hi)<<8) + 1
		}

	case accRTI:
		p := c.pull8()
		lo := c.pull8()
		hi := c.pull8()
		if !c.NoFlowControl {
			c.Reg.Status.FromByte(p)
			c.Reg.PC = uint16(lo) | uint16(hi)<<8
		}

	case accBRK:
		return c.brk(), nil

	case accPush:
		if op.mnemonic == "PHA" {
			c.push8(c.Reg.A)
		} else {
			saved := c.Reg.Status.Break
			c.Reg.Status.Break = true
			c.push8(c.Reg.Status.Byte())
			c.Reg.Status.Break = saved
		}

	case accPull:
		if op.mnemonic == "PLA" {
			c.Reg.A = c.pull8()
			c.Reg.Status.SetZN(c.Reg.A)
		} else {
			c.Reg.Status.FromByte(c.pull8())
		}
	}

	c.LastResult = execution.Result{
		Address:      c.opcodeAddr,
		Mnemonic:     op.mnemonic,
		ActualCycles: cycles,
		Bugs:         bugs,
	}

	return cycles, nil
}

func (c *CPU) interruptSequenceLine(vector uint16, brk bool) int {
	c.push8(uint8(c.Reg.PC >> 8))
	c.push8(uint8(c.Reg.PC))
	saved := c.Reg.Status.Break
	c.Reg.Status.Break = brk
	c.push8(c.Reg.Status.Byte())
	c.Reg.Status.Break = saved
	c.Reg.Status.Interrupt = true
	lo, _ := c.mem.Read(vector)
	hi, _ := c.mem.Read(vector + 1)
	c.Reg.PC = uint16(lo) | uint16(hi)<<8

	c.LastResult = execution.Result{
		Address:        c.opcodeAddr,
		Mnemonic:       "INT",
		ActualCycles:   7,
		InterruptBegin: true,
	}
	return 7
}

func (c *CPU) brk() int {
	c.Reg.PC++ // BRK pushes PC+2 overall: the opcode byte plus a padding byte
	return c.interruptSequenceLine(0xFFFE, true)
}

func (c *CPU) push8(v uint8) {
	_ = c.mem.Write(0x0100+uint16(c.Reg.SP), v)
	c.Reg.SP--
}

func (c *CPU) pull8() uint8 {
	c.Reg.SP++
	v, _ := c.mem.Read(0x0100 + uint16(c.Reg.SP))
	return v
}

// lineReadOperand resolves an operand for accRead instructions,
// advancing PC past the instruction's operand bytes and reporting
// whether an indexed access crossed a page boundary.
func (c *CPU) lineReadOperand(mode addrMode) (uint8, bool, error) {
	switch mode {
	case modeImmediate:
		v, err := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		return v, false, err

	case modeZeroPage:
		addr, err := c.zpAddr()
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, false, err

	case modeZeroPageX:
		addr, err := c.zpIndexedAddr(c.Reg.X)
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, false, err

	case modeZeroPageY:
		addr, err := c.zpIndexedAddr(c.Reg.Y)
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, false, err

	case modeAbsolute:
		addr, err := c.absAddr()
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, false, err

	case modeAbsoluteX:
		addr, crossed, err := c.absIndexedAddr(c.Reg.X)
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, crossed, err

	case modeAbsoluteY:
		addr, crossed, err := c.absIndexedAddr(c.Reg.Y)
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, crossed, err

	case modeIndirectX:
		addr, err := c.indirectXAddr()
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, false, err

	case modeIndirectY:
		addr, crossed, err := c.indirectYAddr()
		if err != nil {
			return 0, false, err
		}
		v, err := c.mem.Read(addr)
		return v, crossed, err
	}
	return 0, false, nil
}

func (c *CPU) lineWriteAddress(mode addrMode) (uint16, error) {
	switch mode {
	case modeZeroPage:
		return c.zpAddr()
	case modeZeroPageX:
		return c.zpIndexedAddr(c.Reg.X)
	case modeZeroPageY:
		return c.zpIndexedAddr(c.Reg.Y)
	case modeAbsolute:
		return c.absAddr()
	case modeAbsoluteX:
		addr, _, err := c.absIndexedAddr(c.Reg.X)
		return addr, err
	case modeAbsoluteY:
		addr, _, err := c.absIndexedAddr(c.Reg.Y)
		return addr, err
	case modeIndirectX:
		return c.indirectXAddr()
	case modeIndirectY:
		addr, _, err := c.indirectYAddr()
		return addr, err
	}
	return 0, nil
}

// lineRMWAddress is like lineWriteAddress but also reports whether the
// instruction is Accumulator mode (no memory address at all).
func (c *CPU) lineRMWAddress(mode addrMode) (uint16, bool, error) {
	if mode == modeAccumulator {
		return 0, true, nil
	}
	addr, err := c.lineWriteAddress(mode)
	return addr, false, err
}

func (c *CPU) jmpTarget(mode addrMode) (uint16, error) {
	if mode == modeAbsolute {
		return c.absAddr()
	}
	// modeIndirect: JMP ($nnnn), with the documented page-wrap bug when
	// the low byte of the pointer is $FF.
	ptr, err := c.absAddr()
	if err != nil {
		return 0, err
	}
	lo, err := c.mem.Read(ptr)
	if err != nil {
		return 0, err
	}
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi, err := c.mem.Read(hiAddr)
	return uint16(lo) | uint16(hi)<<8, err
}

func (c *CPU) zpAddr() (uint16, error) {
	b, err := c.mem.Read(c.Reg.PC)
	c.Reg.PC++
	return uint16(b), err
}

func (c *CPU) zpIndexedAddr(index uint8) (uint16, error) {
	b, err := c.mem.Read(c.Reg.PC)
	c.Reg.PC++
	return uint16(b + index), err
}

func (c *CPU) absAddr() (uint16, error) {
	lo, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return 0, err
	}
	c.Reg.PC++
	hi, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return 0, err
	}
	c.Reg.PC++
	return uint16(lo) | uint16(hi)<<8, nil
}

func (c *CPU) absIndexedAddr(index uint8) (uint16, bool, error) {
	base, err := c.absAddr()
	if err != nil {
		return 0, false, err
	}
	addr := base + uint16(index)
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	return addr, crossed, nil
}

func (c *CPU) indirectXAddr() (uint16, error) {
	zp, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return 0, err
	}
	c.Reg.PC++
	ptr := zp + c.Reg.X
	lo, err := c.mem.Read(uint16(ptr))
	if err != nil {
		return 0, err
	}
	hi, err := c.mem.Read(uint16(ptr + 1))
	return uint16(lo) | uint16(hi)<<8, err
}

func (c *CPU) indirectYAddr() (uint16, bool, error) {
	zp, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return 0, false, err
	}
	c.Reg.PC++
	lo, err := c.mem.Read(uint16(zp))
	if err != nil {
		return 0, false, err
	}
	hi, err := c.mem.Read(uint16(zp + 1))
	if err != nil {
		return 0, false, err
	}
	base := uint16(lo) | uint16(hi)<<8
	addr := base + uint16(c.Reg.Y)
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	return addr, crossed, nil
}
