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

// addrMode identifies one of the 6502's thirteen addressing modes.
type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect // JMP ($nnnn) only
	modeIndirectX
	modeIndirectY
	modeRelative // branches
)

// accessKind classifies how an instruction touches its operand, which
// in turn determines the per-cycle access pattern used in cycle mode.
type accessKind uint8

const (
	accImplicit accessKind = iota // no operand fetch beyond the opcode (register/flag ops)
	accRead                       // operand value is read, registers/flags updated
	accWrite                      // a register value is stored to the operand address
	accRMW                        // operand is read, modified, and written back (with a dummy write of the old value)
	accBranch
	accJMP
	accJSR
	accRTS
	accRTI
	accBRK
	accPush
	accPull
)

// opDef is one row of the opcode table. Exactly one of readOp/writeOp/
// rmwOp/impOp is populated, selected by access.
type opDef struct {
	mnemonic string
	mode     addrMode
	access   accessKind
	cycles   int // canonical cycle count, no page-cross/branch-taken penalty
	illegal  bool

	readOp  func(c *CPU, v uint8)
	writeOp func(c *CPU) uint8
	rmwOp   func(c *CPU, v uint8) uint8
	impOp   func(c *CPU)
	branch  func(c *CPU) bool
}

var opcodes [256]opDef

func def(op uint8, d opDef) {
	opcodes[op] = d
}

func init() {
	// --- load/store ---
	def(0xA9, opDef{"LDA", modeImmediate, accRead, 2, false, opLDA, nil, nil, nil, nil})
	def(0xA5, opDef{"LDA", modeZeroPage, accRead, 3, false, opLDA, nil, nil, nil, nil})
	def(0xB5, opDef{"LDA", modeZeroPageX, accRead, 4, false, opLDA, nil, nil, nil, nil})
	def(0xAD, opDef{"LDA", modeAbsolute, accRead, 4, false, opLDA, nil, nil, nil, nil})
	def(0xBD, opDef{"LDA", modeAbsoluteX, accRead, 4, false, opLDA, nil, nil, nil, nil})
	def(0xB9, opDef{"LDA", modeAbsoluteY, accRead, 4, false, opLDA, nil, nil, nil, nil})
	def(0xA1, opDef{"LDA", modeIndirectX, accRead, 6, false, opLDA, nil, nil, nil, nil})
	def(0xB1, opDef{"LDA", modeIndirectY, accRead, 5, false, opLDA, nil, nil, nil, nil})

	def(0xA2, opDef{"LDX", modeImmediate, accRead, 2, false, opLDX, nil, nil, nil, nil})
	def(0xA6, opDef{"LDX", modeZeroPage, accRead, 3, false, opLDX, nil, nil, nil, nil})
	def(0xB6, opDef{"LDX", modeZeroPageY, accRead, 4, false, opLDX, nil, nil, nil, nil})
	def(0xAE, opDef{"LDX", modeAbsolute, accRead, 4, false, opLDX, nil, nil, nil, nil})
	def(0xBE, opDef{"LDX", modeAbsoluteY, accRead, 4, false, opLDX, nil, nil, nil, nil})

	def(0xA0, opDef{"LDY", modeImmediate, accRead, 2, false, opLDY, nil, nil, nil, nil})
	def(0xA4, opDef{"LDY", modeZeroPage, accRead, 3, false, opLDY, nil, nil, nil, nil})
	def(0xB4, opDef{"LDY", modeZeroPageX, accRead, 4, false, opLDY, nil, nil, nil, nil})
	def(0xAC, opDef{"LDY", modeAbsolute, accRead, 4, false, opLDY, nil, nil, nil, nil})
	def(0xBC, opDef{"LDY", modeAbsoluteX, accRead, 4, false, opLDY, nil, nil, nil, nil})

	def(0x85, opDef{"STA", modeZeroPage, accWrite, 3, false, nil, opSTA, nil, nil, nil})
	def(0x95, opDef{"STA", modeZeroPageX, accWrite, 4, false, nil, opSTA, nil, nil, nil})
	def(0x8D, opDef{"STA", modeAbsolute, accWrite, 4, false, nil, opSTA, nil, nil, nil})
	def(0x9D, opDef{"STA", modeAbsoluteX, accWrite, 5, false, nil, opSTA, nil, nil, nil})
	def(0x99, opDef{"STA", modeAbsoluteY, accWrite, 5, false, nil, opSTA, nil, nil, nil})
	def(0x81, opDef{"STA", modeIndirectX, accWrite, 6, false, nil, opSTA, nil, nil, nil})
	def(0x91, opDef{"STA", modeIndirectY, accWrite, 6, false, nil, opSTA, nil, nil, nil})

	def(0x86, opDef{"STX", modeZeroPage, accWrite, 3, false, nil, opSTX, nil, nil, nil})
	def(0x96, opDef{"STX", modeZeroPageY, accWrite, 4, false, nil, opSTX, nil, nil, nil})
	def(0x8E, opDef{"STX", modeAbsolute, accWrite, 4, false, nil, opSTX, nil, nil, nil})

	def(0x84, opDef{"STY", modeZeroPage, accWrite, 3, false, nil, opSTY, nil, nil, nil})
	def(0x94, opDef{"STY", modeZeroPageX, accWrite, 4, false, nil, opSTY, nil, nil, nil})
	def(0x8C, opDef{"STY", modeAbsolute, accWrite, 4, false, nil, opSTY, nil, nil, nil})

	// --- transfer/implicit ---
	def(0xAA, opDef{"TAX", modeImplied, accImplicit, 2, false, nil, nil, nil, opTAX, nil})
	def(0xA8, opDef{"TAY", modeImplied, accImplicit, 2, false, nil, nil, nil, opTAY, nil})
	def(0xBA, opDef{"TSX", modeImplied, accImplicit, 2, false, nil, nil, nil, opTSX, nil})
	def(0x8A, opDef{"TXA", modeImplied, accImplicit, 2, false, nil, nil, nil, opTXA, nil})
	def(0x9A, opDef{"TXS", modeImplied, accImplicit, 2, false, nil, nil, nil, opTXS, nil})
	def(0x98, opDef{"TYA", modeImplied, accImplicit, 2, false, nil, nil, nil, opTYA, nil})
	def(0xE8, opDef{"INX", modeImplied, accImplicit, 2, false, nil, nil, nil, opINX, nil})
	def(0xC8, opDef{"INY", modeImplied, accImplicit, 2, false, nil, nil, nil, opINY, nil})
	def(0xCA, opDef{"DEX", modeImplied, accImplicit, 2, false, nil, nil, nil, opDEX, nil})
	def(0x88, opDef{"DEY", modeImplied, accImplicit, 2, false, nil, nil, nil, opDEY, nil})
	def(0x18, opDef{"CLC", modeImplied, accImplicit, 2, false, nil, nil, nil, opCLC, nil})
	def(0x38, opDef{"SEC", modeImplied, accImplicit, 2, false, nil, nil, nil, opSEC, nil})
	def(0x58, opDef{"CLI", modeImplied, accImplicit, 2, false, nil, nil, nil, opCLI, nil})
	def(0x78, opDef{"SEI", modeImplied, accImplicit, 2, false, nil, nil, nil, opSEI, nil})
	def(0xB8, opDef{"CLV", modeImplied, accImplicit, 2, false, nil, nil, nil, opCLV, nil})
	def(0xD8, opDef{"CLD", modeImplied, accImplicit, 2, false, nil, nil, nil, opCLD, nil})
	def(0xF8, opDef{"SED", modeImplied, accImplicit, 2, false, nil, nil, nil, opSED, nil})
	def(0xEA, opDef{"NOP", modeImplied, accImplicit, 2, false, nil, nil, nil, func(c *CPU) {}, nil})

	// --- ALU (read) ---
	defGroup("ORA", []uint8{0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opORA)
	defGroup("AND", []uint8{0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opAND)
	defGroup("EOR", []uint8{0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opEOR)
	defGroup("ADC", []uint8{0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opADC)
	defGroup("SBC", []uint8{0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opSBC)
	defGroup("CMP", []uint8{0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1},
		[]addrMode{modeImmediate, modeZeroPage, modeZeroPageX, modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirectX, modeIndirectY},
		[]int{2, 3, 4, 4, 4, 4, 6, 5}, opCMP)
	def(0xE0, opDef{"CPX", modeImmediate, accRead, 2, false, opCPX, nil, nil, nil, nil})
	def(0xE4, opDef{"CPX", modeZeroPage, accRead, 3, false, opCPX, nil, nil, nil, nil})
	def(0xEC, opDef{"CPX", modeAbsolute, accRead, 4, false, opCPX, nil, nil, nil, nil})
	def(0xC0, opDef{"CPY", modeImmediate, accRead, 2, false, opCPY, nil, nil, nil, nil})
	def(0xC4, opDef{"CPY", modeZeroPage, accRead, 3, false, opCPY, nil, nil, nil, nil})
	def(0xCC, opDef{"CPY", modeAbsolute, accRead, 4, false, opCPY, nil, nil, nil, nil})
	def(0x24, opDef{"BIT", modeZeroPage, accRead, 3, false, opBIT, nil, nil, nil, nil})
	def(0x2C, opDef{"BIT", modeAbsolute, accRead, 4, false, opBIT, nil, nil, nil, nil})

	// --- read-modify-write ---
	def(0x0A, opDef{"ASL", modeAccumulator, accRMW, 2, false, nil, nil, rmwASL, nil, nil})
	def(0x06, opDef{"ASL", modeZeroPage, accRMW, 5, false, nil, nil, rmwASL, nil, nil})
	def(0x16, opDef{"ASL", modeZeroPageX, accRMW, 6, false, nil, nil, rmwASL, nil, nil})
	def(0x0E, opDef{"ASL", modeAbsolute, accRMW, 6, false, nil, nil, rmwASL, nil, nil})
	def(0x1E, opDef{"ASL", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwASL, nil, nil})

	def(0x4A, opDef{"LSR", modeAccumulator, accRMW, 2, false, nil, nil, rmwLSR, nil, nil})
	def(0x46, opDef{"LSR", modeZeroPage, accRMW, 5, false, nil, nil, rmwLSR, nil, nil})
	def(0x56, opDef{"LSR", modeZeroPageX, accRMW, 6, false, nil, nil, rmwLSR, nil, nil})
	def(0x4E, opDef{"LSR", modeAbsolute, accRMW, 6, false, nil, nil, rmwLSR, nil, nil})
	def(0x5E, opDef{"LSR", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwLSR, nil, nil})

	def(0x2A, opDef{"ROL", modeAccumulator, accRMW, 2, false, nil, nil, rmwROL, nil, nil})
	def(0x26, opDef{"ROL", modeZeroPage, accRMW, 5, false, nil, nil, rmwROL, nil, nil})
	def(0x36, opDef{"ROL", modeZeroPageX, accRMW, 6, false, nil, nil, rmwROL, nil, nil})
	def(0x2E, opDef{"ROL", modeAbsolute, accRMW, 6, false, nil, nil, rmwROL, nil, nil})
	def(0x3E, opDef{"ROL", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwROL, nil, nil})

	def(0x6A, opDef{"ROR", modeAccumulator, accRMW, 2, false, nil, nil, rmwROR, nil, nil})
	def(0x66, opDef{"ROR", modeZeroPage, accRMW, 5, false, nil, nil, rmwROR, nil, nil})
	def(0x76, opDef{"ROR", modeZeroPageX, accRMW, 6, false, nil, nil, rmwROR, nil, nil})
	def(0x6E, opDef{"ROR", modeAbsolute, accRMW, 6, false, nil, nil, rmwROR, nil, nil})
	def(0x7E, opDef{"ROR", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwROR, nil, nil})

	def(0xE6, opDef{"INC", modeZeroPage, accRMW, 5, false, nil, nil, rmwINC, nil, nil})
	def(0xF6, opDef{"INC", modeZeroPageX, accRMW, 6, false, nil, nil, rmwINC, nil, nil})
	def(0xEE, opDef{"INC", modeAbsolute, accRMW, 6, false, nil, nil, rmwINC, nil, nil})
	def(0xFE, opDef{"INC", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwINC, nil, nil})

	def(0xC6, opDef{"DEC", modeZeroPage, accRMW, 5, false, nil, nil, rmwDEC, nil, nil})
	def(0xD6, opDef{"DEC", modeZeroPageX, accRMW, 6, false, nil, nil, rmwDEC, nil, nil})
	def(0xCE, opDef{"DEC", modeAbsolute, accRMW, 6, false, nil, nil, rmwDEC, nil, nil})
	def(0xDE, opDef{"DEC", modeAbsoluteX, accRMW, 7, false, nil, nil, rmwDEC, nil, nil})

	// --- branches ---
	def(0x10, opDef{"BPL", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return !c.Reg.Status.Negative() }})
	def(0x30, opDef{"BMI", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return c.Reg.Status.Negative() }})
	def(0x50, opDef{"BVC", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return !c.Reg.Status.Overflow }})
	def(0x70, opDef{"BVS", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return c.Reg.Status.Overflow }})
	def(0x90, opDef{"BCC", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return !c.Reg.Status.Carry }})
	def(0xB0, opDef{"BCS", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return c.Reg.Status.Carry }})
	def(0xD0, opDef{"BNE", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return !c.Reg.Status.Zero() }})
	def(0xF0, opDef{"BEQ", modeRelative, accBranch, 2, false, nil, nil, nil, nil, func(c *CPU) bool { return c.Reg.Status.Zero() }})

	// --- jumps/calls/returns/stack/interrupts ---
	def(0x4C, opDef{"JMP", modeAbsolute, accJMP, 3, false, nil, nil, nil, nil, nil})
	def(0x6C, opDef{"JMP", modeIndirect, accJMP, 5, false, nil, nil, nil, nil, nil})
	def(0x20, opDef{"JSR", modeAbsolute, accJSR, 6, false, nil, nil, nil, nil, nil})
	def(0x60, opDef{"RTS", modeImplied, accRTS, 6, false, nil, nil, nil, nil, nil})
	def(0x40, opDef{"RTI", modeImplied, accRTI, 6, false, nil, nil, nil, nil, nil})
	def(0x00, opDef{"BRK", modeImplied, accBRK, 7, false, nil, nil, nil, nil, nil})
	def(0x48, opDef{"PHA", modeImplied, accPush, 3, false, nil, nil, nil, nil, nil})
	def(0x08, opDef{"PHP", modeImplied, accPush, 3, false, nil, nil, nil, nil, nil})
	def(0x68, opDef{"PLA", modeImplied, accPull, 4, false, nil, nil, nil, nil, nil})
	def(0x28, opDef{"PLP", modeImplied, accPull, 4, false, nil, nil, nil, nil, nil})

	// --- $F2: emulator trap (reserved, spec.md §4.1). every other opcode
	// in the $x2 column on real silicon is a KIL/JAM opcode; we keep that
	// behaviour for the rest of the column and single out $F2.
	def(0xF2, opDef{"TRAP", modeImplied, accImplicit, 2, true, nil, nil, nil, opTrap, nil})
	for _, jam := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2} {
		def(jam, opDef{"KIL", modeImplied, accImplicit, 2, true, nil, nil, nil, opKIL, nil})
	}

	// --- representative illegal/undocumented opcodes (best-known behaviour) ---
	def(0xA3, opDef{"LAX", modeIndirectX, accRead, 6, true, opLAX, nil, nil, nil, nil})
	def(0xA7, opDef{"LAX", modeZeroPage, accRead, 3, true, opLAX, nil, nil, nil, nil})
	def(0xAF, opDef{"LAX", modeAbsolute, accRead, 4, true, opLAX, nil, nil, nil, nil})
	def(0xB3, opDef{"LAX", modeIndirectY, accRead, 5, true, opLAX, nil, nil, nil, nil})
	def(0xB7, opDef{"LAX", modeZeroPageY, accRead, 4, true, opLAX, nil, nil, nil, nil})
	def(0xBF, opDef{"LAX", modeAbsoluteY, accRead, 4, true, opLAX, nil, nil, nil, nil})

	def(0x83, opDef{"SAX", modeIndirectX, accWrite, 6, true, nil, opSAX, nil, nil, nil})
	def(0x87, opDef{"SAX", modeZeroPage, accWrite, 3, true, nil, opSAX, nil, nil, nil})
	def(0x8F, opDef{"SAX", modeAbsolute, accWrite, 4, true, nil, opSAX, nil, nil, nil})
	def(0x97, opDef{"SAX", modeZeroPageY, accWrite, 4, true, nil, opSAX, nil, nil, nil})

	def(0xC3, opDef{"DCP", modeIndirectX, accRMW, 8, true, nil, nil, rmwDCP, nil, nil})
	def(0xC7, opDef{"DCP", modeZeroPage, accRMW, 5, true, nil, nil, rmwDCP, nil, nil})
	def(0xCF, opDef{"DCP", modeAbsolute, accRMW, 6, true, nil, nil, rmwDCP, nil, nil})
	def(0xD3, opDef{"DCP", modeIndirectY, accRMW, 8, true, nil, nil, rmwDCP, nil, nil})
	def(0xD7, opDef{"DCP", modeZeroPageX, accRMW, 6, true, nil, nil, rmwDCP, nil, nil})
	def(0xDB, opDef{"DCP", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwDCP, nil, nil})
	def(0xDF, opDef{"DCP", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwDCP, nil, nil})

	def(0xE3, opDef{"ISC", modeIndirectX, accRMW, 8, true, nil, nil, rmwISC, nil, nil})
	def(0xE7, opDef{"ISC", modeZeroPage, accRMW, 5, true, nil, nil, rmwISC, nil, nil})
	def(0xEF, opDef{"ISC", modeAbsolute, accRMW, 6, true, nil, nil, rmwISC, nil, nil})
	def(0xF3, opDef{"ISC", modeIndirectY, accRMW, 8, true, nil, nil, rmwISC, nil, nil})
	def(0xF7, opDef{"ISC", modeZeroPageX, accRMW, 6, true, nil, nil, rmwISC, nil, nil})
	def(0xFB, opDef{"ISC", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwISC, nil, nil})
	def(0xFF, opDef{"ISC", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwISC, nil, nil})

	def(0x03, opDef{"SLO", modeIndirectX, accRMW, 8, true, nil, nil, rmwSLO, nil, nil})
	def(0x07, opDef{"SLO", modeZeroPage, accRMW, 5, true, nil, nil, rmwSLO, nil, nil})
	def(0x0F, opDef{"SLO", modeAbsolute, accRMW, 6, true, nil, nil, rmwSLO, nil, nil})
	def(0x13, opDef{"SLO", modeIndirectY, accRMW, 8, true, nil, nil, rmwSLO, nil, nil})
	def(0x17, opDef{"SLO", modeZeroPageX, accRMW, 6, true, nil, nil, rmwSLO, nil, nil})
	def(0x1B, opDef{"SLO", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwSLO, nil, nil})
	def(0x1F, opDef{"SLO", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwSLO, nil, nil})

	def(0x23, opDef{"RLA", modeIndirectX, accRMW, 8, true, nil, nil, rmwRLA, nil, nil})
	def(0x27, opDef{"RLA", modeZeroPage, accRMW, 5, true, nil, nil, rmwRLA, nil, nil})
	def(0x2F, opDef{"RLA", modeAbsolute, accRMW, 6, true, nil, nil, rmwRLA, nil, nil})
	def(0x33, opDef{"RLA", modeIndirectY, accRMW, 8, true, nil, nil, rmwRLA, nil, nil})
	def(0x37, opDef{"RLA", modeZeroPageX, accRMW, 6, true, nil, nil, rmwRLA, nil, nil})
	def(0x3B, opDef{"RLA", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwRLA, nil, nil})
	def(0x3F, opDef{"RLA", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwRLA, nil, nil})

	def(0x43, opDef{"SRE", modeIndirectX, accRMW, 8, true, nil, nil, rmwSRE, nil, nil})
	def(0x47, opDef{"SRE", modeZeroPage, accRMW, 5, true, nil, nil, rmwSRE, nil, nil})
	def(0x4F, opDef{"SRE", modeAbsolute, accRMW, 6, true, nil, nil, rmwSRE, nil, nil})
	def(0x53, opDef{"SRE", modeIndirectY, accRMW, 8, true, nil, nil, rmwSRE, nil, nil})
	def(0x57, opDef{"SRE", modeZeroPageX, accRMW, 6, true, nil, nil, rmwSRE, nil, nil})
	def(0x5B, opDef{"SRE", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwSRE, nil, nil})
	def(0x5F, opDef{"SRE", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwSRE, nil, nil})

	def(0x63, opDef{"RRA", modeIndirectX, accRMW, 8, true, nil, nil, rmwRRA, nil, nil})
	def(0x67, opDef{"RRA", modeZeroPage, accRMW, 5, true, nil, nil, rmwRRA, nil, nil})
	def(0x6F, opDef{"RRA", modeAbsolute, accRMW, 6, true, nil, nil, rmwRRA, nil, nil})
	def(0x73, opDef{"RRA", modeIndirectY, accRMW, 8, true, nil, nil, rmwRRA, nil, nil})
	def(0x77, opDef{"RRA", modeZeroPageX, accRMW, 6, true, nil, nil, rmwRRA, nil, nil})
	def(0x7B, opDef{"RRA", modeAbsoluteY, accRMW, 7, true, nil, nil, rmwRRA, nil, nil})
	def(0x7F, opDef{"RRA", modeAbsoluteX, accRMW, 7, true, nil, nil, rmwRRA, nil, nil})

	def(0x0B, opDef{"ANC", modeImmediate, accRead, 2, true, opANC, nil, nil, nil, nil})
	def(0x2B, opDef{"ANC", modeImmediate, accRead, 2, true, opANC, nil, nil, nil, nil})
	def(0x4B, opDef{"ALR", modeImmediate, accRead, 2, true, opALR, nil, nil, nil, nil})
	def(0x6B, opDef{"ARR", modeImmediate, accRead, 2, true, opARR, nil, nil, nil, nil})
	def(0xCB, opDef{"AXS", modeImmediate, accRead, 2, true, opAXS, nil, nil, nil, nil})
	def(0xEB, opDef{"SBC", modeImmediate, accRead, 2, true, opSBC, nil, nil, nil, nil})

	// undocumented NOPs: 1-byte, zero-page (3 cyc), zero-page,X (4 cyc),
	// absolute (4 cyc), absolute,X (4 cyc), immediate (2 cyc).
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		def(op, opDef{"NOP", modeImplied, accImplicit, 2, true, nil, nil, nil, func(c *CPU) {}, nil})
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		def(op, opDef{"NOP", modeImmediate, accRead, 2, true, func(c *CPU, v uint8) {}, nil, nil, nil, nil})
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		def(op, opDef{"NOP", modeZeroPage, accRead, 3, true, func(c *CPU, v uint8) {}, nil, nil, nil, nil})
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		def(op, opDef{"NOP", modeZeroPageX, accRead, 4, true, func(c *CPU, v uint8) {}, nil, nil, nil, nil})
	}
	def(0x0C, opDef{"NOP", modeAbsolute, accRead, 4, true, func(c *CPU, v uint8) {}, nil, nil, nil, nil})
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		def(op, opDef{"NOP", modeAbsoluteX, accRead, 4, true, func(c *CPU, v uint8) {}, nil, nil, nil, nil})
	}
}

func defGroup(mnemonic string, ops []uint8, modes []addrMode, cycles []int, fn func(c *CPU, v uint8)) {
	for i, op := range ops {
		def(op, opDef{mnemonic, modes[i], accRead, cycles[i], false, fn, nil, nil, nil, nil})
	}
}
