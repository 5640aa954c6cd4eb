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

package via_test

import (
	"testing"

	"github.com/sixtyfour/c64core/via"
)

func TestTimer1UnderflowLatchesIRQAndReloads(t *testing.T) {
	v := via.New()
	v.Write(via.T1LL, 0x02)
	v.Write(via.T1CH, 0x00) // also loads t1c from the latch
	v.Write(via.IER, 0x80|via.IRQT1)
	fired := 0
	v.IRQ = func() { fired++ }

	for i := 0; i < 3; i++ {
		v.Step()
	}
	r, _ := v.Read(via.IFR)
	if r&via.IRQT1 == 0 {
		t.Fatalf("IFR = %#02x, want T1 bit set", r)
	}
	if fired == 0 {
		t.Fatal("expected IRQ callback on T1 underflow")
	}
}

func TestCA1PositiveEdgeLatchesIRQ(t *testing.T) {
	v := via.New()
	v.Write(via.PCR, via.PCRCA1PositiveEdge)
	v.Write(via.IER, 0x80|via.IRQCA1)
	line := false
	v.CA1 = func() bool { return line }
	fired := 0
	v.IRQ = func() { fired++ }

	v.Step() // establish baseline (false)
	line = true
	v.Step() // rising edge
	r, _ := v.Read(via.IFR)
	if r&via.IRQCA1 == 0 {
		t.Fatalf("IFR = %#02x, want CA1 bit set on rising edge", r)
	}
	if fired == 0 {
		t.Fatal("expected IRQ callback on CA1 rising edge")
	}
}

func TestORAReadClearsCA1CA2Flags(t *testing.T) {
	v := via.New()
	v.Write(via.PCR, via.PCRCA1PositiveEdge)
	line := false
	v.CA1 = func() bool { return line }
	v.Step()
	line = true
	v.Step()
	r, _ := v.Read(via.IFR)
	if r&via.IRQCA1 == 0 {
		t.Fatal("expected CA1 flag set before ORA read")
	}
	v.Read(via.ORA)
	r, _ = v.Read(via.IFR)
	if r&via.IRQCA1 != 0 {
		t.Fatal("reading ORA should clear the CA1 interrupt flag")
	}
}

func TestPortBCombinesDDRAndExternal(t *testing.T) {
	v := via.New()
	v.Write(via.DDRB, 0xF0)
	v.Write(via.ORB, 0xA5)
	v.ReadPB = func() uint8 { return 0x0C }
	got, _ := v.Read(via.ORB)
	if got != 0xAC {
		t.Fatalf("ORB read = %#02x, want $AC", got)
	}
}

func TestPCROutputHighStrobesCA2(t *testing.T) {
	v := via.New()
	strobed := false
	v.CA2Out = func(high bool) {
		if high {
			strobed = true
		}
	}
	v.Write(via.PCR, via.PCRCA2OutputHigh)
	if !strobed {
		t.Fatal("writing PCR with CA2 set to manual-output-high should strobe CA2Out(true)")
	}
}
