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

// Package preferences holds the typed configuration for one emulated
// system: ROM paths, execution mode, and the knobs the CLI/scheduler
// consult at startup and at VBlank boundaries.
package preferences

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mode selects the CPU execution mode. Snapshot formats for the two
// modes are incompatible (spec §9 Open Question 3) so the mode is part
// of the persisted preferences, not a runtime-only flag.
type Mode int

const (
	// ModeLine runs the CPU a whole instruction at a time, budgeted by
	// canonical cycle counts per raster line.
	ModeLine Mode = iota
	// ModeCycle decomposes every instruction into single-cycle steps.
	ModeCycle
)

// Preferences is the full set of user-configurable values for a system.
// It is owned by instance.Instance for the lifetime of one emulated
// machine; the CLI/editor layer produces a new value to replace it
// rather than mutating it in place, per spec §9's abstract re-shape.
type Preferences struct {
	Mode Mode

	BasicROMPath  string
	KernalROMPath string
	CharROMPath   string
	DriveROMPath  string

	Drive8Path string

	DriveEmulation bool
	SpeedLimit     bool
	RewindSeconds  int

	DiagnosticsAddr string // empty disables the diagnostics HTTP server
}

// SetDefaults resets every field to its documented default.
func (p *Preferences) SetDefaults() {
	p.Mode = ModeLine
	p.BasicROMPath = "roms/basic.rom"
	p.KernalROMPath = "roms/kernal.rom"
	p.CharROMPath = "roms/chargen.rom"
	p.DriveROMPath = "roms/1541.rom"
	p.Drive8Path = ""
	p.DriveEmulation = true
	p.SpeedLimit = true
	p.RewindSeconds = 30
	p.DiagnosticsAddr = ""
}

// NewPreferences returns a Preferences populated with defaults.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()
	return p, nil
}

// Load reads a flat key=value preferences file, overwriting only the
// keys present in the file. Unknown keys are ignored rather than
// rejected, so that older preference files remain loadable.
func (p *Preferences) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		p.set(k, v)
	}
	return sc.Err()
}

func (p *Preferences) set(key, value string) {
	switch key {
	case "mode":
		if value == "cycle" {
			p.Mode = ModeCycle
		} else {
			p.Mode = ModeLine
		}
	case "basic_rom":
		p.BasicROMPath = value
	case "kernal_rom":
		p.KernalROMPath = value
	case "char_rom":
		p.CharROMPath = value
	case "drive_rom":
		p.DriveROMPath = value
	case "drive8":
		p.Drive8Path = value
	case "drive_emulation":
		p.DriveEmulation = value == "true" || value == "1"
	case "speed_limit":
		p.SpeedLimit = value == "true" || value == "1"
	case "rewind_seconds":
		if n, err := strconv.Atoi(value); err == nil {
			p.RewindSeconds = n
		}
	case "diagnostics_addr":
		p.DiagnosticsAddr = value
	}
}

// Save writes the preferences to a flat key=value file.
func (p *Preferences) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	mode := "line"
	if p.Mode == ModeCycle {
		mode = "cycle"
	}
	fmt.Fprintf(w, "mode=%s\n", mode)
	fmt.Fprintf(w, "basic_rom=%s\n", p.BasicROMPath)
	fmt.Fprintf(w, "kernal_rom=%s\n", p.KernalROMPath)
	fmt.Fprintf(w, "char_rom=%s\n", p.CharROMPath)
	fmt.Fprintf(w, "drive_rom=%s\n", p.DriveROMPath)
	fmt.Fprintf(w, "drive8=%s\n", p.Drive8Path)
	fmt.Fprintf(w, "drive_emulation=%v\n", p.DriveEmulation)
	fmt.Fprintf(w, "speed_limit=%v\n", p.SpeedLimit)
	fmt.Fprintf(w, "rewind_seconds=%d\n", p.RewindSeconds)
	fmt.Fprintf(w, "diagnostics_addr=%s\n", p.DiagnosticsAddr)
	return w.Flush()
}
