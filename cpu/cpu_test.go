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
	"testing"

	"github.com/sixtyfour/c64core/instance"
)

// flatRAM is a trivial 64K bus used only to drive the CPU core in
// isolation, independent of the real memory map.
type flatRAM struct {
	data [65536]uint8
}

func (m *flatRAM) Read(address uint16) (uint8, error)  { return m.data[address], nil }
func (m *flatRAM) Write(address uint16, v uint8) error { m.data[address] = v; return nil }

func newTestCPU(t *testing.T) (*CPU, *flatRAM) {
	t.Helper()
	ins, err := instance.NewInstance(1)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	mem := &flatRAM{}
	mem.data[0xFFFC] = 0x00
	mem.data[0xFFFD] = 0x80 // reset vector -> $8000
	c := NewCPU(ins, mem, nil)
	return c, mem
}

func load(mem *flatRAM, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		mem.data[addr+uint16(i)] = b
	}
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU(t)
	if c.Reg.PC != 0x8000 {
		t.Fatalf("PC after reset = %#04x, want $8000", c.Reg.PC)
	}
	if !c.Reg.Status.Interrupt {
		t.Fatal("I flag should be set after reset")
	}
	if c.Reg.SP != 0xFF {
		t.Fatalf("SP after reset = %#02x, want $FF", c.Reg.SP)
	}
}

func TestLDAImmediate(t *testing.T) {
	c, mem := newTestCPU(t)
	load(mem, 0x8000, 0xA9, 0x00) // LDA #$00
	cycles, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 2 {
		t.Fatalf("cycles = %d, want 2", cycles)
	}
	if c.Reg.A != 0 {
		t.Fatalf("A = %#02x, want 0", c.Reg.A)
	}
	if !c.Reg.Status.Zero() {
		t.Fatal("Z should be set after loading 0")
	}
}

func TestLDAAbsoluteX_PageCross(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.X = 0xFF
	load(mem, 0x8000, 0xBD, 0x01, 0x80) // LDA $8001,X -> $8100
	mem.data[0x8100] = 0x42
	cycles, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 5 {
		t.Fatalf("cycles = %d, want 5 (page-crossing penalty)", cycles)
	}
	if c.Reg.A != 0x42 {
		t.Fatalf("A = %#02x, want $42", c.Reg.A)
	}
	if !c.LastResult.Bugs.PageFault {
		t.Fatal("expected PageFault bug to be recorded")
	}
}

func TestLDAAbsoluteX_NoPageCross(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.X = 0x01
	load(mem, 0x8000, 0xBD, 0x00, 0x80) // LDA $8000,X -> $8001
	mem.data[0x8001] = 0x99
	cycles, _ := c.ExecuteInstruction(0)
	if cycles != 4 {
		t.Fatalf("cycles = %d, want 4", cycles)
	}
}

func TestASLAddressingModeCycles(t *testing.T) {
	cases := []struct {
		name    string
		opcodes []uint8
		want    int
	}{
		{"accumulator", []uint8{0x0A}, 2},
		{"zeropage", []uint8{0x06, 0x10}, 5},
		{"zeropageX", []uint8{0x16, 0x10}, 6},
		{"absolute", []uint8{0x0E, 0x00, 0x90}, 6},
		{"absoluteX", []uint8{0x1E, 0x00, 0x90}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, mem := newTestCPU(t)
			load(mem, 0x8000, tc.opcodes...)
			cycles, err := c.ExecuteInstruction(0)
			if err != nil {
				t.Fatal(err)
			}
			if cycles != tc.want {
				t.Fatalf("cycles = %d, want %d", cycles, tc.want)
			}
		})
	}
}

func TestADCDecimalMode(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.Status.Decimal = true
	c.Reg.Status.Carry = false
	c.Reg.A = 0x09
	load(mem, 0x8000, 0x69, 0x01) // ADC #$01
	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.A != 0x10 {
		t.Fatalf("A = %#02x, want $10 (09 + 01 BCD)", c.Reg.A)
	}
	if c.Reg.Status.Carry {
		t.Fatal("carry should not be set for 09+01 in decimal mode")
	}
}

func TestSBCBinaryMode(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.Status.Carry = true // no borrow in
	c.Reg.A = 0x05
	load(mem, 0x8000, 0xE9, 0x01) // SBC #$01
	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.A != 0x04 {
		t.Fatalf("A = %#02x, want 4", c.Reg.A)
	}
	if !c.Reg.Status.Carry {
		t.Fatal("carry should remain set (no borrow)")
	}
}

func TestRMWDummyWriteBack(t *testing.T) {
	c, mem := newTestCPU(t)
	load(mem, 0x8000, 0xE6, 0x10) // INC $10
	mem.data[0x0010] = 0x7F
	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if mem.data[0x0010] != 0x80 {
		t.Fatalf("mem[$10] = %#02x, want $80", mem.data[0x0010])
	}
}

func TestBranchTakenPageCross(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.Status.Carry = false
	load(mem, 0x80FD, 0x90, 0x10) // BCC +$10, from $80FD lands on $810F
	c.Reg.PC = 0x80FD
	cycles, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 4 {
		t.Fatalf("cycles = %d, want 4 (taken + page cross)", cycles)
	}
	if c.Reg.PC != 0x810F {
		t.Fatalf("PC = %#04x, want $810F", c.Reg.PC)
	}
}

func TestJSRRTS(t *testing.T) {
	c, mem := newTestCPU(t)
	load(mem, 0x8000, 0x20, 0x00, 0x90) // JSR $9000
	load(mem, 0x9000, 0x60)            // RTS
	cycles, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 6 {
		t.Fatalf("JSR cycles = %d, want 6", cycles)
	}
	if c.Reg.PC != 0x9000 {
		t.Fatalf("PC after JSR = %#04x, want $9000", c.Reg.PC)
	}
	cycles, err = c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 6 {
		t.Fatalf("RTS cycles = %d, want 6", cycles)
	}
	if c.Reg.PC != 0x8003 {
		t.Fatalf("PC after RTS = %#04x, want $8003", c.Reg.PC)
	}
}

func TestBRKAndRTI(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.data[0xFFFE] = 0x00
	mem.data[0xFFFF] = 0xA0 // IRQ/BRK vector -> $A000
	load(mem, 0x8000, 0x00, 0xEA) // BRK ; NOP (padding byte)
	load(mem, 0xA000, 0x40)       // RTI
	cycles, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 7 {
		t.Fatalf("BRK cycles = %d, want 7", cycles)
	}
	if c.Reg.PC != 0xA000 {
		t.Fatalf("PC after BRK = %#04x, want $A000", c.Reg.PC)
	}
	if !c.Reg.Status.Interrupt {
		t.Fatal("I flag should be set after BRK")
	}
	_, err = c.ExecuteInstruction(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC != 0x8002 {
		t.Fatalf("PC after RTI = %#04x, want $8002 (past BRK's padding byte)", c.Reg.PC)
	}
}

func TestIRQRespectsTwoCycleRule(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.data[0xFFFE] = 0x00
	mem.data[0xFFFF] = 0xA0
	c.Reg.Status.Interrupt = false
	load(mem, 0x8000, 0xEA, 0xEA, 0xEA) // NOP NOP NOP

	c.SetIRQ(IRQSourceCIA, true, 0)
	// Eligible only once two full cycles have elapsed since the edge.
	if c.irqEligible(0) {
		t.Fatal("IRQ should not be eligible at the same cycle as the edge")
	}
	if !c.irqEligible(2) {
		t.Fatal("IRQ should be eligible two cycles after the edge")
	}

	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC == 0xA000 {
		t.Fatal("interrupt fired before it was eligible")
	}

	_, err = c.ExecuteInstruction(2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC != 0xA000 {
		t.Fatalf("PC = %#04x, interrupt should have fired once eligible", c.Reg.PC)
	}
}

func TestKILJams(t *testing.T) {
	c, mem := newTestCPU(t)
	load(mem, 0x8000, 0x02) // KIL
	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Jammed {
		t.Fatal("KIL should jam the CPU")
	}
	pc := c.Reg.PC
	_, err = c.ExecuteInstruction(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Reg.PC != pc {
		t.Fatal("a jammed CPU should not advance PC")
	}
}

func TestTrapDispatch(t *testing.T) {
	c, mem := newTestCPU(t)
	load(mem, 0x8000, 0xF2, 0x07) // trap id 7
	var got uint8
	c.TrapHandler = func(id uint8) { got = id }
	_, err := c.ExecuteInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Fatalf("trap handler got id %d, want 7", got)
	}
	if c.Jammed {
		t.Fatal("$F2 trap must not jam the CPU")
	}
}

// TestCycleModeMatchesLineMode drives the same program through both
// execution modes from identical starting states and checks they agree
// on every observable register after the instruction completes.
func TestCycleModeMatchesLineMode(t *testing.T) {
	prog := []uint8{0xA9, 0x7F, 0x69, 0x01} // LDA #$7F ; ADC #$01

	lineCPU, lineMem := newTestCPU(t)
	load(lineMem, 0x8000, prog...)
	for i := 0; i < 2; i++ {
		if _, err := lineCPU.ExecuteInstruction(uint64(i)); err != nil {
			t.Fatal(err)
		}
	}

	cycleCPU, cycleMem := newTestCPU(t)
	load(cycleMem, 0x8000, prog...)
	var cyc uint64
	instructionsDone := 0
	for instructionsDone < 2 {
		done, err := cycleCPU.Step(cyc)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			instructionsDone++
		}
		cyc++
	}

	if cycleCPU.Reg.A != lineCPU.Reg.A {
		t.Fatalf("A mismatch: cycle=%#02x line=%#02x", cycleCPU.Reg.A, lineCPU.Reg.A)
	}
	if cycleCPU.Reg.Status.Byte() != lineCPU.Reg.Status.Byte() {
		t.Fatalf("status mismatch: cycle=%#02x line=%#02x", cycleCPU.Reg.Status.Byte(), lineCPU.Reg.Status.Byte())
	}
	if cycleCPU.Reg.PC != lineCPU.Reg.PC {
		t.Fatalf("PC mismatch: cycle=%#04x line=%#04x", cycleCPU.Reg.PC, lineCPU.Reg.PC)
	}
}

func TestStepCountsMatchExecuteInstructionCycles(t *testing.T) {
	c, mem := newTestCPU(t)
	c.Reg.X = 0xFF
	load(mem, 0x8000, 0xBD, 0x01, 0x80) // LDA $8001,X -> page-crossing
	mem.data[0x8100] = 0x11

	steps := 0
	var cyc uint64
	for {
		done, err := c.Step(cyc)
		if err != nil {
			t.Fatal(err)
		}
		steps++
		cyc++
		if done {
			break
		}
	}
	if steps != 5 {
		t.Fatalf("Step() took %d master cycles, want 5", steps)
	}
}
