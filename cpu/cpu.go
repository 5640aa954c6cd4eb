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

// Package cpu implements the shared 6502/6510 instruction core used for
// both the host CPU (a 6510, with its on-chip I/O port) and the 1541
// drive CPU (a plain 6502). See spec.md §4.1.
//
// Two execution modes are supported, selected by which entry method the
// caller drives: ExecuteInstruction runs one whole instruction at a time
// (line mode), Step runs exactly one master cycle at a time (cycle
// mode). Both share the same opcode table and operation bodies; only the
// operand-fetch/timing plumbing differs.
package cpu

import (
	"github.com/sixtyfour/c64core/cpu/execution"
	"github.com/sixtyfour/c64core/cpu/registers"
	"github.com/sixtyfour/c64core/instance"
	"github.com/sixtyfour/c64core/memory/bus"
)

// Port models the 6510's on-chip parallel I/O port at $0000 (DDR) and
// $0001 (data). Bits set in DDR are driven by Data; bits clear in DDR
// float and read whatever the caller supplies (spec §9 Open Question 1:
// we use a fixed constant rather than a capacitor-decay model for the
// floating datasette sense/write bits).
type Port struct {
	DDR  uint8
	Data uint8
}

// Read combines the driven and floating bits. floating supplies the
// value undriven (input) bits should read as.
func (p *Port) Read(floating uint8) uint8 {
	return (p.Data & p.DDR) | (floating &^ p.DDR)
}

// IRQSource names one of the interrupt lines a CPU instance observes.
// The host 6510 and drive 6502 each use a disjoint subset.
type IRQSource string

const (
	IRQSourceVIC    IRQSource = "VIC"
	IRQSourceCIA    IRQSource = "CIA"
	IRQSourceVIA1   IRQSource = "VIA1"
	IRQSourceVIA2   IRQSource = "VIA2"
	IRQSourceIECATN IRQSource = "IECATN"
)

type microOp func(c *CPU)

// CPU is the shared 6502/6510 core.
type CPU struct {
	instance *instance.Instance

	Reg registers.File

	// Port is non-nil only for the host 6510.
	Port *Port

	mem bus.CPUBus

	// RDY models pin 3 (also used for the VIC's BA line stalling the
	// host CPU, and effectively always true on the drive CPU).
	RDY bool

	// NMI is edge-triggered: SetNMI records the 0->1 transition cycle.
	nmiLine       bool
	nmiPending    bool
	nmiSince      uint64

	irqLevel map[IRQSource]bool
	irqSince map[IRQSource]uint64

	// Jammed is set by a KIL/JAM opcode (other than the reserved $F2
	// trap). The CPU stops advancing PC; only a reset clears it.
	Jammed bool

	// TrapHandler is invoked with the trap ID byte following a $F2
	// opcode (spec §4.1/§4.5). nil means $F2 behaves as an ordinary jam.
	TrapHandler func(id uint8)

	// NoFlowControl disables branches/jumps/interrupts from altering
	// PC, used by the disassembler to walk straight-line through code
	// it wants to visit every byte of.
	NoFlowControl bool

	LastResult execution.Result

	// cycle-mode state
	queue      []microOp
	opcodeAddr uint16
	curOp      *opDef
	tmpAddr    uint16
	tmpVal     uint8
	pageCross  bool

	curCycle uint64
}

// NewCPU constructs a CPU. port is nil for the drive 6502.
func NewCPU(ins *instance.Instance, mem bus.CPUBus, port *Port) *CPU {
	c := &CPU{
		instance: ins,
		mem:      mem,
		Port:     port,
		RDY:      true,
		irqLevel: make(map[IRQSource]bool),
		irqSince: make(map[IRQSource]uint64),
	}
	c.Reset()
	return c
}

// Reset puts the CPU into the documented fixed power-on/reset state and
// loads PC from the reset vector at $FFFC.
func (c *CPU) Reset() {
	c.Reg.Reset()
	c.Jammed = false
	c.queue = nil
	lo, _ := c.mem.Read(0xFFFC)
	hi, _ := c.mem.Read(0xFFFD)
	c.Reg.PC = uint16(lo) | uint16(hi)<<8
}

// SetIRQ raises or lowers a level-sensitive interrupt source. cycleNow
// is the master cycle counter at the time of the edge, used for the
// two-cycle first-cycle rule in cycle mode (spec §4.1).
func (c *CPU) SetIRQ(source IRQSource, asserted bool, cycleNow uint64) {
	was := c.irqLevel[source]
	c.irqLevel[source] = asserted
	if asserted && !was {
		c.irqSince[source] = cycleNow
	}
}

// SetNMI raises the edge-triggered NMI line.
func (c *CPU) SetNMI(asserted bool, cycleNow uint64) {
	if asserted && !c.nmiLine {
		c.nmiPending = true
		c.nmiSince = cycleNow
	}
	c.nmiLine = asserted
}

func (c *CPU) irqEligible(cycleNow uint64) bool {
	if c.Reg.Status.Interrupt {
		return false
	}
	for src, level := range c.irqLevel {
		if level && cycleNow-c.irqSince[src] >= 2 {
			return true
		}
	}
	return false
}

func (c *CPU) nmiEligible(cycleNow uint64) bool {
	return c.nmiPending && cycleNow-c.nmiSince >= 2
}

// HasReset reports whether the CPU is sitting at its just-reset state
// (no instruction executed yet), used by collaborators to detect a
// fresh boot.
func (c *CPU) HasReset() bool {
	return c.LastResult.Mnemonic == "" && !c.LastResult.InterruptBegin
}
