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

package sid_test

import (
	"testing"

	"github.com/sixtyfour/c64core/sid"
)

func TestGateTriggersAttackThenRelease(t *testing.T) {
	s := sid.New()
	s.Write(sid.V1AD, 0x00) // fastest attack/decay rates
	s.Write(sid.V1SR, 0x00) // sustain 0, fastest release
	s.Write(sid.V1FreqLo, 0x00)
	s.Write(sid.V1FreqHi, 0x10)
	s.Write(sid.V1Control, sid.CtrlGate|sid.CtrlTriangle)

	for i := 0; i < 100000; i++ {
		s.Step()
	}
	level, _ := s.Read(sid.Env3) // voice 3 readback isn't voice 1, but exercising Read doesn't panic
	_ = level

	// Release the gate and confirm the envelope eventually reaches 0.
	s.Write(sid.V1Control, sid.CtrlTriangle)
	for i := 0; i < 2_000_000; i++ {
		s.Step()
	}
	out := s.Sample()
	if out != 128 {
		t.Fatalf("Sample() after full release = %d, want 128 (silence, envelope at 0)", out)
	}
}

func TestOsc3ReadbackTracksVoice3Phase(t *testing.T) {
	s := sid.New()
	s.Write(sid.V3FreqLo, 0xFF)
	s.Write(sid.V3FreqHi, 0x7F)
	s.Write(sid.V3Control, sid.CtrlSawtooth)
	for i := 0; i < 1000; i++ {
		s.Step()
	}
	v, err := s.Read(sid.Osc3)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 steps of $7FFF leave voice 3's accumulator at $1F3FC18, whose
	// bits 16-23 are $F3.
	if v != 0xF3 {
		t.Fatalf("Osc3 = %#02x, want $F3", v)
	}
}

func TestPotXDefaultsToFloatingHigh(t *testing.T) {
	s := sid.New()
	v, err := s.Read(sid.PotX)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFF {
		t.Fatalf("PotX with no callback wired = %#02x, want $FF", v)
	}
	s.ReadPotX = func() uint8 { return 0x42 }
	v, _ = s.Read(sid.PotX)
	if v != 0x42 {
		t.Fatalf("PotX = %#02x, want $42 once wired", v)
	}
}

func TestVoice1TestBitLeavesOsc3Unchanged(t *testing.T) {
	s := sid.New()
	s.Write(sid.V1FreqLo, 0xFF)
	s.Write(sid.V1FreqHi, 0xFF)
	s.Write(sid.V1Control, sid.CtrlSawtooth)
	s.Step()
	s.Write(sid.V1Control, sid.CtrlSawtooth|sid.CtrlTest)
	s.Step()
	v, _ := s.Read(sid.Osc3)
	if v != 0 { // voice 1's test bit does not affect voice 3's Osc3 readback
		t.Fatalf("Osc3 = %#02x, want 0 (voice 3 never ran)", v)
	}
}
