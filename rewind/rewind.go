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

// Package rewind implements the 30-second ring-buffer rewind spec
// §4.7 names: a per-frame snapshot history that lets the scheduler
// step backwards through recently-played frames. Grounded directly on
// _examples/original_source/src/C64.cpp's handle_rewind/MakeSnapshot/
// RestoreSnapshot ring buffer (rewind_start/rewind_fill indices into a
// fixed REWIND_LENGTH = SCREEN_FREQ*30 array), reimplemented here over
// the already-built snapshot package instead of C64.cpp's own
// Snapshot type.
package rewind

import (
	"fmt"

	"github.com/sixtyfour/c64core/snapshot"
	csystem "github.com/sixtyfour/c64core/system"
)

// ScreenFreq is the PAL refresh rate C64.cpp's own SCREEN_FREQ names;
// the ring buffer holds 30 seconds of frames at this rate.
const ScreenFreq = 50

// Length is the ring buffer's fixed capacity, REWIND_LENGTH in the
// original.
const Length = ScreenFreq * 30

// Buffer is a fixed-capacity ring of per-frame snapshots. The zero
// value is not usable; construct with New.
type Buffer struct {
	slots      [Length]*snapshot.Snapshot
	start      int // rewind_start
	fill       int // rewind_fill
	diskPath   string
	rewinding  bool
}

// New constructs an empty rewind buffer. diskPath is recorded into
// every captured snapshot, matching spec §4.5's "the disk image path
// is captured" semantics.
func New(diskPath string) *Buffer {
	return &Buffer{diskPath: diskPath}
}

// Reset clears the buffer and leaves play (non-rewind) mode, matching
// reset_play_mode's "stop rewind/forward mode and clear rewind buffer".
func (b *Buffer) Reset() {
	b.start = 0
	b.fill = 0
	b.rewinding = false
	for i := range b.slots {
		b.slots[i] = nil
	}
}

// SetRewinding enters or leaves rewind mode (C64.cpp's SetPlayMode).
func (b *Buffer) SetRewinding(rewinding bool) { b.rewinding = rewinding }

// Rewinding reports whether HandleVBlank will currently pop snapshots
// rather than push them.
func (b *Buffer) Rewinding() bool { return b.rewinding }

// HandleVBlank is called once per frame, at VBlank, exactly mirroring
// handle_rewind's branch: in rewind mode it restores the most recent
// retained snapshot onto sys and shrinks the window from the front
// (never past one remaining entry, so the oldest snapshot can be
// replayed indefinitely); otherwise it captures sys's current state
// and pushes it, evicting the oldest entry once the buffer is full.
func (b *Buffer) HandleVBlank(sys *csystem.System) error {
	if b.rewinding {
		if b.fill == 0 {
			return nil
		}
		readIndex := (b.start + b.fill - 1) % Length
		snap := b.slots[readIndex]
		if snap == nil {
			return fmt.Errorf("rewind: ring slot %d unexpectedly empty", readIndex)
		}
		if err := snap.Apply(sys); err != nil {
			return fmt.Errorf("rewind: restoring frame: %w", err)
		}
		if b.fill > 1 {
			b.fill--
		}
		return nil
	}

	snap, err := snapshot.Capture(sys, b.diskPath)
	if err != nil {
		return fmt.Errorf("rewind: capturing frame: %w", err)
	}
	writeIndex := (b.start + b.fill) % Length
	b.slots[writeIndex] = snap
	if b.fill < Length {
		b.fill++
	} else {
		b.start = (b.start + 1) % Length
	}
	return nil
}

// Depth reports how many frames are currently retained (0..Length).
func (b *Buffer) Depth() int { return b.fill }

// DiskPath returns the disk image path recorded into every captured
// snapshot.
func (b *Buffer) DiskPath() string { return b.diskPath }
