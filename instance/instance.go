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

// Package instance defines the per-run shared context threaded through
// the emulation core in place of module-level mutable state (spec §9
// Design Notes). Each emulated machine owns exactly one Instance.
package instance

import (
	"github.com/sixtyfour/c64core/preferences"
	"github.com/sixtyfour/c64core/random"
)

// Instance carries the parts of the emulation that vary between
// independent machine instances but are not themselves the system
// aggregate: the active preferences and the RNG used for RAM noise and
// floating-bus reads.
type Instance struct {
	Prefs  *preferences.Preferences
	Random *random.Random
}

// NewInstance constructs an Instance with default preferences and a
// freshly-seeded RNG.
func NewInstance(seed int64) (*Instance, error) {
	ins := &Instance{
		Random: random.NewRandom(seed),
	}

	var err error
	ins.Prefs, err = preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	return ins, nil
}

// Normalise pins the instance into a known default state, used by
// regression tests that require identical behaviour across runs.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
	ins.Random.Reset(0)
	ins.Prefs.SetDefaults()
}
