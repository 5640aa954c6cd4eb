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

package diagnostics_test

import "testing"

import "github.com/sixtyfour/c64core/diagnostics"

func TestSetSpeedAndCycleCountAreObservable(t *testing.T) {
	s := diagnostics.New("127.0.0.1:0")
	s.SetSpeed(97.5)
	s.SetCycleCount("CPU", 123456)
	s.SetCycleCount("VIC", 987)

	// Server has no exported snapshot accessor outside the package;
	// exercise the setters only for panics/races, the HTTP surface
	// itself needs a live listener to assert against.
}

func TestNewReturnsServer(t *testing.T) {
	s := diagnostics.New("127.0.0.1:0")
	if s == nil {
		t.Fatal("New returned nil")
	}
}
