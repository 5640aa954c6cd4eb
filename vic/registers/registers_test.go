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

package registers_test

import (
	"testing"

	"github.com/sixtyfour/c64core/vic/registers"
)

func TestInterruptStatusWriteOneClears(t *testing.T) {
	f := registers.New()
	f.RaiseIRQ(registers.IRQRaster)
	f.Write(registers.InterruptEnable, registers.IRQRaster)

	v, err := f.Read(registers.InterruptStatus)
	if err != nil {
		t.Fatal(err)
	}
	if v&registers.IRQAny == 0 {
		t.Fatalf("expected IRQAny set, got %#02x", v)
	}
	if v&registers.IRQRaster == 0 {
		t.Fatalf("expected IRQRaster bit set, got %#02x", v)
	}

	if err := f.Write(registers.InterruptStatus, registers.IRQRaster); err != nil {
		t.Fatal(err)
	}
	v, _ = f.Read(registers.InterruptStatus)
	if v&registers.IRQRaster != 0 {
		t.Fatalf("write-1-to-clear did not clear raster bit, got %#02x", v)
	}
	if v&registers.IRQAny != 0 {
		t.Fatalf("IRQAny should drop once the only latched source clears, got %#02x", v)
	}
}

func TestSpriteCollisionClearsOnRead(t *testing.T) {
	f := registers.New()
	f.SetSpriteCollision(3, true)
	v, err := f.Read(registers.SpriteSpriteCollision)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1<<3 {
		t.Fatalf("got %#02x, want bit 3 set", v)
	}
	v, _ = f.Read(registers.SpriteSpriteCollision)
	if v != 0 {
		t.Fatalf("collision register should clear after read, got %#02x", v)
	}
}

func TestRasterCompareCombinesD011Bit7(t *testing.T) {
	f := registers.New()
	f.Write(registers.Raster, 0x50)
	f.Write(registers.Control1, registers.CTRL1RasterMSB)
	if got := f.RasterCompare(); got != 0x150 {
		t.Fatalf("RasterCompare() = %#03x, want $150", got)
	}
}

func TestSpriteXCombinesMSB(t *testing.T) {
	f := registers.New()
	f.Write(registers.Sprite0X, 0x20)
	f.Write(registers.SpriteXMSB, 0x01)
	if got := f.SpriteX(0); got != 0x120 {
		t.Fatalf("SpriteX(0) = %#03x, want $120", got)
	}
	if got := f.SpriteX(1); got != 0 {
		t.Fatalf("SpriteX(1) = %#03x, want 0 (MSB bit 1 unset)", got)
	}
}
