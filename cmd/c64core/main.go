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

// c64core is the headless-core CLI entry point: it loads a
// preferences file, builds a system.System from the chip packages,
// opens an SDL2 window, and drives the scheduler one frame at a time
// until the host window is closed or Ctrl-C is pressed. Grounded on
// gopher2600.go's top-level flag parsing and
// os/signal.Notify interrupt handling, trimmed of the multi-GUI launch
// machinery (reqCreateGUI/mainSync) this single-collaborator core has
// no use for, and on debugger/colorterm/easyterm's pkg/term/termios
// raw-mode sequence for reading single keystrokes from stdin without
// waiting on Enter.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"syscall"

	"github.com/pkg/term/termios"

	"github.com/sixtyfour/c64core/cia"
	"github.com/sixtyfour/c64core/cpu"
	"github.com/sixtyfour/c64core/diagnostics"
	"github.com/sixtyfour/c64core/diskimage"
	"github.com/sixtyfour/c64core/display"
	"github.com/sixtyfour/c64core/display/sdldisplay"
	"github.com/sixtyfour/c64core/dos"
	"github.com/sixtyfour/c64core/drivecpu"
	"github.com/sixtyfour/c64core/gcr"
	"github.com/sixtyfour/c64core/iec"
	"github.com/sixtyfour/c64core/instance"
	"github.com/sixtyfour/c64core/logger"
	memsys "github.com/sixtyfour/c64core/memory/system"
	"github.com/sixtyfour/c64core/preferences"
	"github.com/sixtyfour/c64core/rewind"
	"github.com/sixtyfour/c64core/sid"
	"github.com/sixtyfour/c64core/snapshot"
	csystem "github.com/sixtyfour/c64core/system"
	"github.com/sixtyfour/c64core/trap"
	"github.com/sixtyfour/c64core/vic"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "c64core:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: c64core [prefs-file]")
	}
	flag.Parse()

	prefs, err := preferences.NewPreferences()
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	if path := flag.Arg(0); path != "" {
		if err := prefs.Load(path); err != nil {
			return fmt.Errorf("loading preferences %q: %w", path, err)
		}
	}

	sys, handlers, mem, err := build(prefs)
	if err != nil {
		return err
	}
	if !prefs.DriveEmulation {
		sys.CPU.TrapHandler = wireTrapHandler(sys.CPU, mem, handlers)
	}

	disp, err := sdldisplay.New("c64core")
	if err != nil {
		return fmt.Errorf("opening display: %w", err)
	}
	defer disp.Close()
	sys.Display = disp

	diag := newDiagnostics(prefs)
	if diag != nil {
		diag.Start()
		defer diag.Stop()
	}

	rewindBuf := rewind.New(prefs.Drive8Path)
	rewindBuf.Reset()

	keys, restoreTerm, err := newKeyReader()
	if err != nil {
		logger.Logf("c64core", "raw keyboard mode unavailable: %v", err)
	} else {
		defer restoreTerm()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	sys.State = csystem.Running
	for {
		select {
		case <-interrupt:
			return nil
		default:
		}

		if req, path := disp.PollRequest(); req != display.RequestNone {
			if !handleRequest(sys, rewindBuf, req, path, disp) {
				return nil
			}
		}

		if keys != nil {
			drainKeys(keys, sys, rewindBuf, disp)
		}

		if sys.State == csystem.Rewinding {
			if err := rewindBuf.HandleVBlank(sys); err != nil {
				disp.Notify(fmt.Sprintf("rewind: %v", err))
			}
			continue
		}

		if err := sys.RunFrame(); err != nil {
			disp.Notify(fmt.Sprintf("halted: %v", err))
			return err
		}
		if err := rewindBuf.HandleVBlank(sys); err != nil {
			disp.Notify(fmt.Sprintf("rewind: %v", err))
		}
		if diag != nil {
			diag.SetCycleCount("CPU", int64(sys.Cycle()))
		}
	}
}

// handleRequest answers one of display.Collaborator's user-initiated
// requests (spec §6); it returns false when the host should quit.
func handleRequest(sys *csystem.System, rewindBuf *rewind.Buffer, req display.Request, path string, disp *sdldisplay.Display) bool {
	switch req {
	case display.RequestQuit:
		return false
	case display.RequestReset:
		sys.CPU.Reset()
		rewindBuf.Reset()
	case display.RequestSnapshotLoad:
		snap, err := snapshot.Load(path)
		if err != nil {
			disp.Notify(fmt.Sprintf("snapshot not accepted: %v", err))
			return true
		}
		if err := snap.Apply(sys); err != nil {
			disp.Notify(fmt.Sprintf("snapshot not accepted: %v", err))
		}
	case display.RequestPrefsEditor:
		// Editing preferences interactively is a host-side concern
		// (spec §1's out-of-scope preferences editor); this core only
		// answers the request by acknowledging it, the collaborator
		// is responsible for the editor UI itself.
	}
	return true
}

// newDiagnostics builds a diagnostics.Server when prefs names a
// listen address, or returns nil to leave diagnostics disabled.
func newDiagnostics(prefs *preferences.Preferences) *diagnostics.Server {
	if prefs.DiagnosticsAddr == "" {
		return nil
	}
	return diagnostics.New(prefs.DiagnosticsAddr)
}

// build constructs every chip package, the System scheduler, and (if
// prefs.DriveEmulation selects it) the 1541's own CPU; it returns the
// trap.Handlers wired for whichever IEC strategy prefs selects so run
// can install cpu.CPU.TrapHandler once the caller also has the host
// ROM images in hand.
func build(prefs *preferences.Preferences) (*csystem.System, trap.Handlers, *memsys.System, error) {
	ins, err := instance.NewInstance(0)
	if err != nil {
		return nil, trap.Handlers{}, nil, err
	}
	ins.Prefs = prefs

	port := &cpu.Port{DDR: 0x2F, Data: 0x37}
	mem := memsys.New(ins, port)

	basic, err := os.ReadFile(prefs.BasicROMPath)
	if err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("basic ROM: %w", err)
	}
	kernal, err := os.ReadFile(prefs.KernalROMPath)
	if err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("kernal ROM: %w", err)
	}
	char, err := os.ReadFile(prefs.CharROMPath)
	if err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("char ROM: %w", err)
	}

	var iecBus *iec.Bus
	var handlers trap.Handlers
	if !prefs.DriveEmulation {
		// Fast serial (DOS-level) emulation: patch the KERNAL's IEC
		// routines with $F2 traps and answer them directly from an
		// iec.Bus, bypassing bit-level CIA2/VIA signalling entirely.
		trap.ApplyPatches(kernal, trap.KernalPatchTable)
		iecBus = iec.New()
		if prefs.Drive8Path != "" {
			slot, err := mountImageDrive(prefs.Drive8Path)
			if err != nil {
				return nil, trap.Handlers{}, nil, err
			}
			iecBus.Slots[0] = slot
		}
		handlers = trap.Handlers{
			Out:        func(data uint8, eoi bool) uint8 { return iecBus.Out(data, eoi) },
			OutATN:     func(data uint8) uint8 { return iecBus.OutATN(data) },
			OutSec:     func(data uint8) uint8 { return iecBus.OutSec(data) },
			In:         func() (uint8, uint8) { return iecBus.In() },
			SetATN:     iecBus.SetATN,
			RelATN:     iecBus.Release,
			Turnaround: iecBus.Turnaround,
			Release:    iecBus.Release,
		}
	}

	if err := mem.LoadBasicROM(basic); err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("loading basic ROM: %w", err)
	}
	if err := mem.LoadKernalROM(kernal); err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("loading kernal ROM: %w", err)
	}
	if err := mem.LoadCharROM(char); err != nil {
		return nil, trap.Handlers{}, nil, fmt.Errorf("loading char ROM: %w", err)
	}

	c := cpu.NewCPU(ins, mem, port)
	v := vic.New(videoBus{mem})
	c1, c2 := cia.New(), cia.New()
	s := sid.New()

	sys := csystem.New(mem, c, v, c1, c2, s)
	if prefs.Mode == preferences.ModeCycle {
		sys.Mode = csystem.CycleMode
	} else {
		sys.Mode = csystem.LineMode
	}

	if prefs.DriveEmulation {
		drive, err := buildDrive(prefs)
		if err != nil {
			return nil, trap.Handlers{}, nil, err
		}
		sys.Drive = drive
		sys.DriveCPU = cpu.NewCPU(ins, driveBus{drive}, nil)
		sys.DriveCPU.TrapHandler = wireDriveTrapHandler(sys.DriveCPU, drive)
	}

	return sys, handlers, mem, nil
}

// mountImageDrive loads a D64 image and wraps it as a DOS-level
// iec.DriveSlot for device 8, spec §4.6's "image drive variant" path.
func mountImageDrive(path string) (*iec.DriveSlot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mounting %q: %w", path, err)
	}
	d64, err := diskimage.ParseD64(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	img, err := dos.NewImageDrive(d64, gcr.NewHead())
	if err != nil {
		return nil, fmt.Errorf("mounting %q: %w", path, err)
	}
	return &iec.DriveSlot{Drive: img, Ready: true, LED: iec.LEDOff}, nil
}

// buildDrive constructs the 1541's own CPU-side aggregate (spec
// §4.5): its VIAs, its GCR head, the idle/write-sector/format-track
// $F2 traps on the drive ROM, and (if Drive8Path names an image) the
// mounted disk. VIA1/VIA2's CA1/CA2/ReadPA/WritePB callbacks are left
// wired to the GCR head only; the CIA2-side electrical IEC signalling
// this processor-level mode would otherwise need is out of this
// command's scope (spec §1 draws the line at the emulation core, not
// a byte-exact host/drive serial wire simulation).
func buildDrive(prefs *preferences.Preferences) (*drivecpu.System, error) {
	rom, err := os.ReadFile(prefs.DriveROMPath)
	if err != nil {
		return nil, fmt.Errorf("drive ROM: %w", err)
	}
	trap.ApplyPatches(rom, trap.Drive1541PatchTable)

	drive := drivecpu.New()
	if err := drive.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading drive ROM: %w", err)
	}
	drive.Head = gcr.NewHead()
	drive.VIA2.ReadPA = func() uint8 {
		if drive.Head.ByteReady(0) {
			return drive.Head.ReadByte(0)
		}
		return 0
	}
	drive.VIA2.WritePB = func(value uint8) {
		if value&0x02 != 0 {
			drive.Head.SetMotor(true)
		} else {
			drive.Head.SetMotor(false)
		}
	}
	if prefs.Drive8Path != "" {
		data, err := os.ReadFile(prefs.Drive8Path)
		if err != nil {
			return nil, fmt.Errorf("mounting %q: %w", prefs.Drive8Path, err)
		}
		d64, err := diskimage.ParseD64(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", prefs.Drive8Path, err)
		}
		d64.EncodeToHead(drive.Head)
	}

	return drive, nil
}

// wireTrapHandler builds the $F2 dispatch closure cpu.CPU.TrapHandler
// calls: it answers the trap through h.Dispatch, writes the result
// into A/Carry, and then performs the RTS the patched KERNAL routine's
// caller expects, since only the routine's entry point was overwritten
// with the trap opcode (spec §4.1's "emulator trap in place of the
// real IEC bit-banging routine").
func wireTrapHandler(c *cpu.CPU, mem *memsys.System, h trap.Handlers) func(id uint8) {
	return func(id uint8) {
		status, data, ok := h.Dispatch(trap.ID(id), c.Reg.A, c.Reg.Status.Carry)
		if ok {
			c.Reg.A = data
			c.Reg.Status.Carry = status != iec.StatusOK
		}

		lo, _ := mem.Read(0x0100 + uint16(c.Reg.SP+1))
		hi, _ := mem.Read(0x0100 + uint16(c.Reg.SP+2))
		c.Reg.SP += 2
		c.Reg.PC = uint16(hi)<<8 | uint16(lo)
		c.Reg.PC++
	}
}

// wireDriveTrapHandler builds the drive-side $F2 dispatch closure:
// the idle trap parks driveCPU whenever no command/error condition is
// pending (spec §4.5/§4.6's "$F2-trap 1541 idle sleeper"), and the
// write-sector/format-track traps are acknowledged with a no-op body
// (this command writes disk images read-only; a mounted image is
// never modified in place).
func wireDriveTrapHandler(driveCPU *cpu.CPU, drive *drivecpu.System) func(id uint8) {
	return func(id uint8) {
		newPC, ok := drive.HandleTrap(trap.ID(id), false, false, nil, nil)
		if ok {
			driveCPU.Reg.PC = newPC
		}
	}
}

// videoBus adapts memory/system.System's RAM/ColorRAM arrays to
// vic.VideoBus. It reads RAM linearly rather than applying CIA2 PA
// bank selection or character-ROM substitution at $1000/$9000; wiring
// those through is this command's one open simplification, tracked in
// DESIGN.md.
type videoBus struct{ mem *memsys.System }

func (v videoBus) VICRead(address uint16) uint8 { return v.mem.RAM[address] }
func (v videoBus) VICColor(idx uint16) uint8     { return v.mem.ColorRAM[idx&0x3FF] }

// driveBus adapts drivecpu.System to bus.CPUBus so the drive's own
// cpu.CPU instance can be driven by the same engine as the host.
type driveBus struct{ d *drivecpu.System }

func (d driveBus) Read(address uint16) (uint8, error)     { return d.d.Read(address) }
func (d driveBus) Write(address uint16, value uint8) error { return d.d.Write(address, value) }

// newKeyReader puts stdin into raw mode (termios.Cfmakeraw from
// pkg/term/termios) and returns a channel of raw
// key bytes plus a restore function. If stdin is not a terminal (e.g.
// running under a test harness) it returns a nil channel.
func newKeyReader() (chan byte, func(), error) {
	fd := os.Stdin.Fd()
	var original syscall.Termios
	if err := termios.Tcgetattr(fd, &original); err != nil {
		return nil, func() {}, err
	}
	raw := original
	termios.Cfmakeraw(&raw)
	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &raw); err != nil {
		return nil, func() {}, err
	}

	restore := func() {
		_ = termios.Tcsetattr(fd, termios.TCIFLUSH, &original)
	}

	keys := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				close(keys)
				return
			}
			keys <- buf[0]
		}
	}()
	return keys, restore, nil
}

// drainKeys answers the handful of keys this core recognises without
// blocking: r toggles rewind mode, s/l save/load a quicksave snapshot.
// Quitting is left to the window's close button (display.RequestQuit),
// not a keystroke, since stdin's raw mode and SDL's event queue are
// two independent input sources this command polls every iteration.
func drainKeys(keys chan byte, sys *csystem.System, rewindBuf *rewind.Buffer, disp *sdldisplay.Display) {
	for {
		select {
		case k, ok := <-keys:
			if !ok {
				return
			}
			switch k {
			case 'r':
				rewinding := !rewindBuf.Rewinding()
				rewindBuf.SetRewinding(rewinding)
				if rewinding {
					sys.State = csystem.Rewinding
				} else {
					sys.State = csystem.Running
				}
			case 's':
				snap, err := snapshot.Capture(sys, rewindBuf.DiskPath())
				if err != nil {
					disp.Notify(fmt.Sprintf("snapshot capture failed: %v", err))
					continue
				}
				if err := snapshot.Save(snap, "quicksave.frz"); err != nil {
					disp.Notify(fmt.Sprintf("snapshot not accepted: %v", err))
				}
			case 'l':
				snap, err := snapshot.Load("quicksave.frz")
				if err != nil {
					disp.Notify(fmt.Sprintf("snapshot not accepted: %v", err))
					continue
				}
				if err := snap.Apply(sys); err != nil {
					disp.Notify(fmt.Sprintf("snapshot not accepted: %v", err))
				}
			}
		default:
			return
		}
	}
}
