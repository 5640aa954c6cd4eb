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

package functional_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/instance"
)

type testMem struct {
	internal [0x10000]uint8
}

func (m *testMem) Read(address uint16) (uint8, error)  { return m.internal[address], nil }
func (m *testMem) Write(address uint16, v uint8) error { m.internal[address] = v; return nil }

// program exercises decimal and binary ADC/SBC carry behaviour, a
// logical-op flag check, the RMW dummy-write-back path (via INC), and
// JSR/RTS stack discipline. It loops on its own program counter at
// success (failAddress is unreachable) or at fail (successAddress is
// unreachable), the same self-reporting convention the upstream Klaus
// Dormann suite uses.
var program = []uint8{
	0x18,             // CLC
	0xF8,             // SED
	0xA9, 0x09,       // LDA #$09
	0x69, 0x01,       // ADC #$01           -> A=$10, decimal carry clear
	0xB0, 0x33,       // BCS FAIL
	0xC9, 0x10,       // CMP #$10
	0xD0, 0x2F,       // BNE FAIL
	0xD8,             // CLD
	0x38,             // SEC
	0xA9, 0x05,       // LDA #$05
	0xE9, 0x01,       // SBC #$01           -> A=$04, carry set (no borrow)
	0x90, 0x27,       // BCC FAIL
	0xC9, 0x04,       // CMP #$04
	0xD0, 0x23,       // BNE FAIL
	0xA9, 0xFF,       // LDA #$FF
	0x29, 0x0F,       // AND #$0F           -> A=$0F
	0xC9, 0x0F,       // CMP #$0F
	0xD0, 0x1B,       // BNE FAIL
	0xA9, 0x7F,       // LDA #$7F
	0x85, 0x10,       // STA $10
	0xE6, 0x10,       // INC $10            -> mem[$10]=$80, dummy write-back of $7F first
	0xA5, 0x10,       // LDA $10
	0x10, 0x11,       // BPL FAIL
	0xC9, 0x80,       // CMP #$80
	0xD0, 0x0D,       // BNE FAIL
	0x20, 0x38, 0x04, // JSR $0438
	0xC9, 0x2A,       // CMP #$2A
	0xD0, 0x06,       // BNE FAIL
	0x4C, 0x3E, 0x04, // JMP SUCCESS ($043E)
	// SUB ($0438)
	0xA9, 0x2A, // LDA #$2A
	0x60,       // RTS
	// FAIL ($043B)
	0x4C, 0x3B, 0x04,
	// SUCCESS ($043E)
	0x4C, 0x3E, 0x04,
}

const (
	programOrigin  = 0x0400
	successAddress = 0x043E
	failAddress    = 0x043B
)

func newMem() *testMem {
	m := &testMem{}
	copy(m.internal[programOrigin:], program)
	m.internal[0xFFFC] = byte(programOrigin & 0xFF)
	m.internal[0xFFFD] = byte(programOrigin >> 8)
	return m
}

func TestFunctionalLineMode(t *testing.T) {
	ins, err := instance.NewInstance(1)
	if err != nil {
		t.Fatal(err)
	}
	mem := newMem()
	c := cpu.NewCPU(ins, mem, nil)

	for i := 0; i < 1000; i++ {
		if _, err := c.ExecuteInstruction(uint64(i)); err != nil {
			t.Fatal(err)
		}
		if c.Reg.PC == successAddress {
			return
		}
		if c.Reg.PC == failAddress {
			t.Fatalf("functional test failed, trapped at $%04x", failAddress)
		}
	}
	t.Fatal("functional test did not reach success or failure trap within the cycle budget")
}

func TestFunctionalCycleMode(t *testing.T) {
	ins, err := instance.NewInstance(1)
	if err != nil {
		t.Fatal(err)
	}
	mem := newMem()
	c := cpu.NewCPU(ins, mem, nil)

	var cyc uint64
	for i := 0; i < 10000; i++ {
		done, err := c.Step(cyc)
		if err != nil {
			t.Fatal(err)
		}
		cyc++
		if !done {
			continue // PC mid-instruction (e.g. just past RTS's opcode at $043A) is not a trap
		}
		if c.Reg.PC == successAddress {
			return
		}
		if c.Reg.PC == failAddress {
			t.Fatalf("functional test failed, trapped at $%04x", failAddress)
		}
	}
	t.Fatal("functional test did not reach success or failure trap within the cycle budget")
}
