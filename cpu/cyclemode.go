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

import "github.com/sixtyfour/c64core/cpu/execution"

func (c *CPU) push(op microOp) {
	c.queue = append(c.queue, op)
}

// Step advances the CPU by exactly one master cycle (cycle mode). It
// returns true when the cycle just executed was the final cycle of an
// instruction (LastResult is valid after such a call).
//
// Exactly one memory access happens inside Step, matching spec §4.1's
// "Exactly one memory access occurs per cycle" contract. When RDY is
// false (the VIC's BA line stalling the host CPU) Step does nothing and
// returns false: no access happens and no cycle of instruction progress
// is made, modelling the CPU frozen on the bus.
func (c *CPU) Step(cycleNow uint64) (bool, error) {
	c.curCycle = cycleNow

	if c.Jammed {
		return true, nil
	}

	if !c.RDY {
		return false, nil
	}

	if len(c.queue) == 0 {
		return c.beginInstruction(cycleNow)
	}

	op := c.queue[0]
	c.queue = c.queue[1:]
	op(c)

	if len(c.queue) == 0 {
		c.finishResult()
		return true, nil
	}
	return false, nil
}

func (c *CPU) beginInstruction(cycleNow uint64) (bool, error) {
	if !c.NoFlowControl {
		if c.nmiEligible(cycleNow) {
			c.nmiPending = false
			c.queueInterrupt(0xFFFA, false)
			return false, nil
		}
		if c.irqEligible(cycleNow) {
			c.queueInterrupt(0xFFFE, false)
			return false, nil
		}
	}

	c.opcodeAddr = c.Reg.PC
	opcode, err := c.mem.Read(c.Reg.PC)
	if err != nil {
		return true, err
	}
	c.Reg.PC++

	op := &opcodes[opcode]
	c.curOp = op
	c.pageCross = false

	switch op.access {
	case accImplicit:
		c.push(func(c *CPU) {
			c.mem.Read(c.Reg.PC)
			op.impOp(c)
		})

	case accRead:
		c.buildRead(op)

	case accWrite:
		c.buildWrite(op)

	case accRMW:
		c.buildRMW(op)

	case accBranch:
		c.buildBranch(op)

	case accJMP:
		c.buildJMP(op)

	case accJSR:
		c.buildJSR()

	case accRTS:
		c.buildRTS()

	case accRTI:
		c.buildRTI()

	case accBRK:
		c.Reg.PC++
		c.queueInterrupt(0xFFFE, true)

	case accPush:
		c.push(func(c *CPU) {
			c.mem.Read(c.Reg.PC)
			if op.mnemonic == "PHA" {
				c.push8(c.Reg.A)
			} else {
				saved := c.Reg.Status.Break
				c.Reg.Status.Break = true
				c.push8(c.Reg.Status.Byte())
				c.Reg.Status.Break = saved
			}
		})

	case accPull:
		c.push(func(c *CPU) { c.mem.Read(c.Reg.PC) })
		c.push(func(c *CPU) { c.mem.Read(0x0100 + uint16(c.Reg.SP)) })
		c.push(func(c *CPU) {
			if op.mnemonic == "PLA" {
				c.Reg.A = c.pull8()
				c.Reg.Status.SetZN(c.Reg.A)
			} else {
				c.Reg.Status.FromByte(c.pull8())
			}
		})
	}

	// beginInstruction itself is the opcode-fetch cycle; if that
	// exhausted the whole instruction (implicit 1-cycle case never
	// happens on 6502, every opcode is >=2 cycles) report accordingly.
	if len(c.queue) == 0 {
		c.finishResult()
		return true, nil
	}
	return false, nil
}

func (c *CPU) finishResult() {
	bugs := execution.Bugs{Illegal: c.curOp.illegal, PageFault: c.pageCross}
	if c.curOp.mnemonic == "KIL" {
		bugs.Jammed = true
	}
	c.LastResult = execution.Result{
		Address:      c.opcodeAddr,
		Mnemonic:     c.curOp.mnemonic,
		ActualCycles: 0,
		Bugs:         bugs,
	}
}

func (c *CPU) queueInterrupt(vector uint16, brk bool) {
	c.push(func(c *CPU) { c.mem.Read(c.Reg.PC) })
	c.push(func(c *CPU) { c.push8(uint8(c.Reg.PC >> 8)) })
	c.push(func(c *CPU) { c.push8(uint8(c.Reg.PC)) })
	c.push(func(c *CPU) {
		saved := c.Reg.Status.Break
		c.Reg.Status.Break = brk
		c.push8(c.Reg.Status.Byte())
		c.Reg.Status.Break = saved
		c.Reg.Status.Interrupt = true
	})
	c.push(func(c *CPU) {
		lo, _ := c.mem.Read(vector)
		c.tmpVal = lo
	})
	c.push(func(c *CPU) {
		hi, _ := c.mem.Read(vector + 1)
		c.Reg.PC = uint16(c.tmpVal) | uint16(hi)<<8
		c.LastResult = execution.Result{
			Address:        c.opcodeAddr,
			Mnemonic:       "INT",
			InterruptBegin: true,
		}
	})
}

// --- read ---

func (c *CPU) buildRead(op *opDef) {
	switch op.mode {
	case modeImmediate:
		c.push(func(c *CPU) {
			v, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			op.readOp(c, v)
		})

	case modeZeroPage:
		c.push(func(c *CPU) {
			b, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpAddr = uint16(b)
			c.push(func(c *CPU) {
				v, _ := c.mem.Read(c.tmpAddr)
				op.readOp(c, v)
			})
		})

	case modeZeroPageX:
		c.buildZPIndexedRead(op, c.regX)
	case modeZeroPageY:
		c.buildZPIndexedRead(op, c.regY)

	case modeAbsolute:
		c.push(func(c *CPU) {
			lo, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = lo
			c.push(func(c *CPU) {
				hi, _ := c.mem.Read(c.Reg.PC)
				c.Reg.PC++
				c.tmpAddr = uint16(c.tmpVal) | uint16(hi)<<8
				c.push(func(c *CPU) {
					v, _ := c.mem.Read(c.tmpAddr)
					op.readOp(c, v)
				})
			})
		})

	case modeAbsoluteX:
		c.buildAbsIndexedRead(op, c.regX)
	case modeAbsoluteY:
		c.buildAbsIndexedRead(op, c.regY)

	case modeIndirectX:
		c.push(func(c *CPU) {
			zp, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = zp
			c.push(func(c *CPU) {
				c.mem.Read(uint16(c.tmpVal)) // dummy read before indexing
				c.tmpVal += c.Reg.X
				c.push(func(c *CPU) {
					lo, _ := c.mem.Read(uint16(c.tmpVal))
					c.tmpAddr = uint16(lo)
					c.push(func(c *CPU) {
						hi, _ := c.mem.Read(uint16(c.tmpVal + 1))
						c.tmpAddr |= uint16(hi) << 8
						c.push(func(c *CPU) {
							v, _ := c.mem.Read(c.tmpAddr)
							op.readOp(c, v)
						})
					})
				})
			})
		})

	case modeIndirectY:
		c.push(func(c *CPU) {
			zp, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = zp
			c.push(func(c *CPU) {
				lo, _ := c.mem.Read(uint16(c.tmpVal))
				c.tmpAddr = uint16(lo)
				c.push(func(c *CPU) {
					hi, _ := c.mem.Read(uint16(c.tmpVal + 1))
					base := uint16(lo) | uint16(hi)<<8
					c.tmpAddr = base + uint16(c.Reg.Y)
					wrong := (base & 0xFF00) | uint16(uint8(base)+c.Reg.Y)
					c.push(func(c *CPU) {
						v, _ := c.mem.Read(wrong)
						if wrong == c.tmpAddr {
							op.readOp(c, v)
						} else {
							c.pageCross = true
							c.push(func(c *CPU) {
								v2, _ := c.mem.Read(c.tmpAddr)
								op.readOp(c, v2)
							})
						}
					})
				})
			})
		})
	}
}

func (c *CPU) buildZPIndexedRead(op *opDef, index func() uint8) {
	c.push(func(c *CPU) {
		b, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpAddr = uint16(b)
		c.push(func(c *CPU) {
			c.mem.Read(c.tmpAddr)
			c.tmpAddr = uint16(uint8(c.tmpAddr) + index())
			c.push(func(c *CPU) {
				v, _ := c.mem.Read(c.tmpAddr)
				op.readOp(c, v)
			})
		})
	})
}

func (c *CPU) buildAbsIndexedRead(op *opDef, index func() uint8) {
	c.push(func(c *CPU) {
		lo, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpVal = lo
		c.push(func(c *CPU) {
			hi, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			base := uint16(c.tmpVal) | uint16(hi)<<8
			idx := index()
			c.tmpAddr = base + uint16(idx)
			wrong := (base & 0xFF00) | uint16(uint8(base)+idx)
			c.push(func(c *CPU) {
				v, _ := c.mem.Read(wrong)
				if wrong == c.tmpAddr {
					op.readOp(c, v)
				} else {
					c.pageCross = true
					c.push(func(c *CPU) {
						v2, _ := c.mem.Read(c.tmpAddr)
						op.readOp(c, v2)
					})
				}
			})
		})
	})
}

func (c *CPU) regX() uint8 { return c.Reg.X }
func (c *CPU) regY() uint8 { return c.Reg.Y }

// --- write ---

func (c *CPU) buildWrite(op *opDef) {
	c.resolveStoreAddress(op.mode, func() {
		c.push(func(c *CPU) { c.mem.Write(c.tmpAddr, op.writeOp(c)) })
	})
}

// resolveStoreAddress computes tmpAddr for a write/RMW instruction,
// calling final once it is ready to push the access itself. Indexed
// absolute/zero-page modes always take the extra "wrong address" cycle
// regardless of whether a page boundary is actually crossed, matching
// documented write/RMW timing (spec §4.1 canonical cycle counts).
func (c *CPU) resolveStoreAddress(mode addrMode, final func()) {
	switch mode {
	case modeZeroPage:
		c.push(func(c *CPU) {
			b, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpAddr = uint16(b)
			final()
		})
	case modeZeroPageX:
		c.resolveZPIndexedStore(c.regX, final)
	case modeZeroPageY:
		c.resolveZPIndexedStore(c.regY, final)
	case modeAbsolute:
		c.push(func(c *CPU) {
			lo, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = lo
			c.push(func(c *CPU) {
				hi, _ := c.mem.Read(c.Reg.PC)
				c.Reg.PC++
				c.tmpAddr = uint16(c.tmpVal) | uint16(hi)<<8
				final()
			})
		})
	case modeAbsoluteX:
		c.resolveAbsIndexedStore(c.regX, final)
	case modeAbsoluteY:
		c.resolveAbsIndexedStore(c.regY, final)
	case modeIndirectX:
		c.push(func(c *CPU) {
			zp, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = zp
			c.push(func(c *CPU) {
				c.mem.Read(uint16(c.tmpVal))
				c.tmpVal += c.Reg.X
				c.push(func(c *CPU) {
					lo, _ := c.mem.Read(uint16(c.tmpVal))
					c.tmpAddr = uint16(lo)
					c.push(func(c *CPU) {
						hi, _ := c.mem.Read(uint16(c.tmpVal + 1))
						c.tmpAddr |= uint16(hi) << 8
						final()
					})
				})
			})
		})
	case modeIndirectY:
		c.push(func(c *CPU) {
			zp, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			c.tmpVal = zp
			c.push(func(c *CPU) {
				lo, _ := c.mem.Read(uint16(c.tmpVal))
				c.tmpAddr = uint16(lo)
				c.push(func(c *CPU) {
					hi, _ := c.mem.Read(uint16(c.tmpVal + 1))
					base := uint16(lo) | uint16(hi)<<8
					c.tmpAddr = base + uint16(c.Reg.Y)
					wrong := (base & 0xFF00) | uint16(uint8(base)+c.Reg.Y)
					c.push(func(c *CPU) {
						c.mem.Read(wrong)
						final()
					})
				})
			})
		})
	}
}

func (c *CPU) resolveZPIndexedStore(index func() uint8, final func()) {
	c.push(func(c *CPU) {
		b, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpAddr = uint16(b)
		c.push(func(c *CPU) {
			c.mem.Read(c.tmpAddr)
			c.tmpAddr = uint16(uint8(c.tmpAddr) + index())
			final()
		})
	})
}

func (c *CPU) resolveAbsIndexedStore(index func() uint8, final func()) {
	c.push(func(c *CPU) {
		lo, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpVal = lo
		c.push(func(c *CPU) {
			hi, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			base := uint16(c.tmpVal) | uint16(hi)<<8
			idx := index()
			c.tmpAddr = base + uint16(idx)
			wrong := (base & 0xFF00) | uint16(uint8(base)+idx)
			c.push(func(c *CPU) {
				c.mem.Read(wrong)
				final()
			})
		})
	})
}

// --- read-modify-write ---

func (c *CPU) buildRMW(op *opDef) {
	if op.mode == modeAccumulator {
		c.push(func(c *CPU) {
			c.mem.Read(c.Reg.PC)
			c.Reg.A = op.rmwOp(c, c.Reg.A)
		})
		return
	}
	c.resolveStoreAddress(op.mode, func() {
		c.push(func(c *CPU) {
			v, _ := c.mem.Read(c.tmpAddr)
			c.tmpVal = v
			c.push(func(c *CPU) {
				c.mem.Write(c.tmpAddr, c.tmpVal) // dummy write-back of old value
				c.push(func(c *CPU) {
					nv := op.rmwOp(c, c.tmpVal)
					c.mem.Write(c.tmpAddr, nv)
				})
			})
		})
	})
}

// --- branches ---

func (c *CPU) buildBranch(op *opDef) {
	c.push(func(c *CPU) {
		offset, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		if !op.branch(c) {
			return
		}
		c.push(func(c *CPU) {
			c.mem.Read(c.Reg.PC) // dummy read of next opcode
			target := c.Reg.PC + uint16(int8(offset))
			if (target & 0xFF00) == (c.Reg.PC & 0xFF00) {
				if !c.NoFlowControl {
					c.Reg.PC = target
				}
				return
			}
			c.push(func(c *CPU) {
				c.mem.Read(c.Reg.PC) // extra cycle for page-crossing branch
				if !c.NoFlowControl {
					c.Reg.PC = target
				}
			})
		})
	})
}

// --- jumps/calls/returns ---

func (c *CPU) buildJMP(op *opDef) {
	c.push(func(c *CPU) {
		lo, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpVal = lo
		c.push(func(c *CPU) {
			hi, _ := c.mem.Read(c.Reg.PC)
			c.Reg.PC++
			ptr := uint16(c.tmpVal) | uint16(hi)<<8
			if op.mode == modeAbsolute {
				if !c.NoFlowControl {
					c.Reg.PC = ptr
				}
				return
			}
			c.push(func(c *CPU) {
				lo2, _ := c.mem.Read(ptr)
				c.tmpVal = lo2
				c.push(func(c *CPU) {
					hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
					hi2, _ := c.mem.Read(hiAddr)
					if !c.NoFlowControl {
						c.Reg.PC = uint16(c.tmpVal) | uint16(hi2)<<8
					}
				})
			})
		})
	})
}

func (c *CPU) buildJSR() {
	c.push(func(c *CPU) {
		lo, _ := c.mem.Read(c.Reg.PC)
		c.Reg.PC++
		c.tmpVal = lo
		c.push(func(c *CPU) {
			c.mem.Read(0x0100 + uint16(c.Reg.SP)) // internal stack peek
			c.push(func(c *CPU) {
				c.push8(uint8(c.Reg.PC >> 8))
				c.push(func(c *CPU) {
					c.push8(uint8(c.Reg.PC))
					c.push(func(c *CPU) {
						hi, _ := c.mem.Read(c.Reg.PC)
						if !c.NoFlowControl {
							c.Reg.PC = uint16(c.tmpVal) | uint16(hi)<<8
						}
					})
				})
			})
		})
	})
}

func (c *CPU) buildRTS() {
	c.push(func(c *CPU) { c.mem.Read(c.Reg.PC) })
	c.push(func(c *CPU) { c.mem.Read(0x0100 + uint16(c.Reg.SP)) })
	c.push(func(c *CPU) {
		lo := c.pull8()
		c.tmpVal = lo
		c.push(func(c *CPU) {
			hi := c.pull8()
			c.tmpAddr = uint16(c.tmpVal) | uint16(hi)<<8
			c.push(func(c *CPU) {
				c.mem.Read(c.tmpAddr)
				if !c.NoFlowControl {
					c.Reg.PC = c.tmpAddr + 1
				}
			})
		})
	})
}

func (c *CPU) buildRTI() {
	c.push(func(c *CPU) { c.mem.Read(c.Reg.PC) })
	c.push(func(c *CPU) { c.mem.Read(0x0100 + uint16(c.Reg.SP)) })
	c.push(func(c *CPU) {
		p := c.pull8()
		if !c.NoFlowControl {
			c.Reg.Status.FromByte(p)
		}
		c.push(func(c *CPU) {
			lo := c.pull8()
			c.tmpVal = lo
			c.push(func(c *CPU) {
				hi := c.pull8()
				if !c.NoFlowControl {
					c.Reg.PC = uint16(c.tmpVal) | uint16(hi)<<8
				}
			})
		})
	})
}
