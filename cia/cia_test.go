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

package cia_test

import (
	"testing"

	"github.com/sixtyfour/c64core/cia"
)

func newRunning(t *testing.T) *cia.CIA {
	t.Helper()
	c := cia.New()
	c.Write(cia.TALo, 0x03)
	c.Write(cia.TAHi, 0x00)
	c.Write(cia.CRA, cia.CRStart)
	return c
}

func TestTimerAUnderflowLatchesICRAndReloadsFromLatch(t *testing.T) {
	c := newRunning(t)
	fired := 0
	c.IRQ = func() { fired++ }
	c.Write(cia.ICR, cia.ICRSetClear|cia.ICRTA)

	// latch = 3: counts 3,2,1,0 -> underflow on the 4th Step.
	for i := 0; i < 4; i++ {
		c.Step()
	}
	v, _ := c.Read(cia.ICR)
	if v&cia.ICRTA == 0 {
		t.Fatalf("ICR = %#02x, want TA bit set", v)
	}
	if v&cia.ICRAny == 0 {
		t.Fatal("expected ICRAny set since TA is unmasked")
	}
	if fired == 0 {
		t.Fatal("expected IRQ callback on TA underflow")
	}

	// Reading ICR clears all flags.
	v, _ = c.Read(cia.ICR)
	if v != 0 {
		t.Fatalf("ICR should read 0 immediately after a clearing read, got %#02x", v)
	}
}

func TestOneShotStopsAfterUnderflow(t *testing.T) {
	c := cia.New()
	c.Write(cia.TALo, 0x01)
	c.Write(cia.CRA, cia.CRStart|cia.CRRunMode)
	c.Step()
	c.Step()
	v, _ := c.Read(cia.CRA)
	if v&cia.CRStart != 0 {
		t.Fatal("one-shot timer should clear its own start bit after underflowing")
	}
}

func TestContinuousModeReloadsAndKeepsRunning(t *testing.T) {
	c := cia.New()
	c.Write(cia.TALo, 0x01)
	c.Write(cia.CRA, cia.CRStart)
	underflows := 0
	c.IRQ = func() { underflows++ }
	c.Write(cia.ICR, cia.ICRSetClear|cia.ICRTA)
	for i := 0; i < 6; i++ {
		c.Step()
	}
	if underflows < 2 {
		t.Fatalf("continuous timer with latch=1 should underflow repeatedly, got %d in 6 cycles", underflows)
	}
}

func TestTimerBCountsTimerAUnderflow(t *testing.T) {
	c := cia.New()
	c.Write(cia.TALo, 0x01)
	c.Write(cia.CRA, cia.CRStart)
	c.Write(cia.TBLo, 0x02)
	c.Write(cia.CRB, cia.CRStart|(2<<5)) // timer B counts TA underflows
	fired := 0
	c.IRQ = func() { fired++ }
	c.Write(cia.ICR, cia.ICRSetClear|cia.ICRTB)

	for i := 0; i < 8; i++ {
		c.Step()
	}
	if fired == 0 {
		t.Fatal("expected timer B to underflow from counting timer A's underflows")
	}
}

func TestICRMaskSetAndClear(t *testing.T) {
	c := cia.New()
	c.Write(cia.ICR, cia.ICRSetClear|cia.ICRTA|cia.ICRTB)
	c.Write(cia.ICR, cia.ICRTB) // bit 7 clear: clears only the TB mask bit
	// Indirectly verify via behavior: trigger TB underflow only, should not fire.
	c.Write(cia.TBLo, 0x01)
	c.Write(cia.CRB, cia.CRStart)
	fired := 0
	c.IRQ = func() { fired++ }
	c.Step()
	c.Step()
	if fired != 0 {
		t.Fatal("TB interrupt should be masked off after the clear-mask write")
	}
}

func TestPortAReadCombinesDDRAndExternal(t *testing.T) {
	c := cia.New()
	c.Write(cia.DDRA, 0x0F) // low nibble output, high nibble input
	c.Write(cia.PRA, 0xAF)
	c.ReadPA = func() uint8 { return 0x50 }
	v, _ := c.Read(cia.PRA)
	if v != 0x5F {
		t.Fatalf("PRA read = %#02x, want $5F (high nibble external, low nibble latch)", v)
	}
}

func TestTODLatchesOnHourReadUntilTenthsRead(t *testing.T) {
	c := cia.New()
	c.Write(cia.TODHr, 0x01)
	c.Write(cia.TODMin, 0x30)
	c.Write(cia.TODSec, 0x15)
	c.Write(cia.TOD10, 0x00) // also un-halts the clock

	c.Read(cia.TODHr) // latches

	// Advance the clock behind the scenes; latched reads must not see it.
	for i := 0; i < 200000; i++ {
		c.Step()
	}
	min, _ := c.Read(cia.TODMin)
	if min != 0x30 {
		t.Fatalf("TOD minutes read = %#02x while latched, want unchanged $30", min)
	}
	tenths, _ := c.Read(cia.TOD10)
	if tenths == 0x00 {
		t.Fatal("10ths read should unlatch and reflect the now-live (advanced) clock")
	}
}

func TestTODAlarmWriteRouting(t *testing.T) {
	c := cia.New()
	c.Write(cia.CRB, 1<<7) // route TOD writes to the alarm registers
	c.Write(cia.TODHr, 0x05)
	c.Write(cia.CRB, 0) // back to clock registers
	c.Write(cia.TODHr, 0x02)

	hr, _ := c.Read(cia.TODHr)
	if hr != 0x02 {
		t.Fatalf("clock hours = %#02x, want $02 (alarm write must not touch the clock)", hr)
	}
}
