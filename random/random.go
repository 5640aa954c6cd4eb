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

// Package random provides a seedable pseudo-random source used to fill
// RAM with realistic power-on noise, rather than the uniform zero value
// Go's allocator gives a freshly-made byte slice.
package random

import "math/rand"

// Random wraps a math/rand source. ZeroSeed pins the sequence for
// deterministic regression testing (snapshot round-trip tests in
// particular require byte-identical RAM noise across two otherwise
// identical power-on sequences).
type Random struct {
	ZeroSeed bool
	src      *rand.Rand
}

// NewRandom constructs a Random seeded from the supplied value. Callers
// that need determinism across runs (tests, snapshot round-trips) should
// set ZeroSeed afterwards and call Reset.
func NewRandom(seed int64) *Random {
	r := &Random{}
	r.src = rand.New(rand.NewSource(seed))
	return r
}

// Reset reseeds the generator, honouring ZeroSeed.
func (r *Random) Reset(seed int64) {
	if r.ZeroSeed {
		seed = 0
	}
	r.src = rand.New(rand.NewSource(seed))
}

// NoisySlice fills b with power-on noise. Real C64 RAM powers up in long
// runs of repeated bit patterns rather than uniform white noise; we
// approximate that texture with runs of a byte value that flips with a
// fixed probability, which is closer to what KERNAL's memory test sees
// than raw rand.Read would produce.
func (r *Random) NoisySlice(b []byte) {
	cur := uint8(r.src.Intn(256))
	for i := range b {
		if r.src.Intn(8) == 0 {
			cur = ^cur
		}
		b[i] = cur
	}
}

// Byte returns a single random byte, used for floating-bus reads of
// unconnected I/O lines.
func (r *Random) Byte() uint8 {
	return uint8(r.src.Intn(256))
}
