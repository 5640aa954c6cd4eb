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

// Package iec implements the IEC serial bus controller/listener/
// talker state machine spec.md §4.6 describes: KERNAL IEC routines
// are replaced by trap-opcode calls into Out/OutATN/OutSec/In/SetATN/
// Turnaround/Release, dispatching onto whichever of the four
// DOS-level drive slots (devices 8-11) is currently addressed.
// Grounded on _examples/original_source/src/IEC.cpp.
package iec

import "github.com/sixtyfour/c64core/dos"

// Status codes the KERNAL's IEC routines return in the accumulator.
const (
	StatusOK         = 0x00
	StatusTimeout    = 0x03
	StatusNotPresent = 0x80
	StatusEOF        = 0x40
)

// ATN command byte ranges (low nibble carries the device or secondary
// address/channel number).
const (
	atnListen   = 0x20
	atnUnlisten = 0x30
	atnTalk     = 0x40
	atnUntalk   = 0x50
)

// Secondary-address command nibbles.
const (
	cmdData  = 0x60
	cmdOpen  = 0xF0
	cmdClose = 0xE0
)

// DriveSlot is drive's own interface seen over the bus, extending
// dos.Drive with the readiness/LED state the bus controller inspects
// directly (spec §4.6's LED states: off/on/error-off/error-on/
// error-flash).
type DriveSlot struct {
	Drive dos.Drive
	Ready bool
	LED   LEDState
}

// LEDState enumerates a drive's activity LED states (spec §5); the
// flashing state is driven by a separate real-time pulse outside this
// package (the scheduler's VBlank-driven timer), this package only
// records which state is currently selected.
type LEDState int

const (
	LEDOff LEDState = iota
	LEDOn
	LEDErrorOff
	LEDErrorOn
	LEDErrorFlash
)

// Bus is the IEC serial bus controller. Four DOS-level drive slots
// (device 8-11) may be populated; when processor-level 1541 emulation
// is active for device 8, that slot is left nil here so bus traffic
// for device 8 instead reaches the real 1541 emulator by a separate
// path (spec §4.6).
type Bus struct {
	Slots [4]*DriveSlot // devices 8, 9, 10, 11

	listening, listenerActive, talkerActive bool
	receivedCmd, secAddr                    byte
	listener, talker                        *DriveSlot
	nameBuf                                 []byte
}

// New constructs an empty bus with no drives attached.
func New() *Bus { return &Bus{} }

func (b *Bus) slot(device int) *DriveSlot {
	if device < 8 || device > 11 {
		return nil
	}
	return b.Slots[device-8]
}

// OutATN sends a byte under ATN: device-addressing (LISTEN/TALK) or
// bus-wide UNLISTEN/UNTALK.
func (b *Bus) OutATN(byte byte) uint8 {
	b.receivedCmd, b.secAddr = 0, 0
	switch byte & 0xF0 {
	case atnListen:
		b.listening = true
		return b.listen(int(byte & 0x0F))
	case atnUnlisten:
		b.listening = false
		b.listenerActive = false
		return StatusOK
	case atnTalk:
		b.listening = false
		return b.talk(int(byte & 0x0F))
	case atnUntalk:
		b.listening = false
		b.talkerActive = false
		return StatusOK
	}
	return StatusTimeout
}

func (b *Bus) listen(device int) uint8 {
	s := b.slot(device)
	if s != nil && s.Ready {
		b.listener = s
		b.listenerActive = true
		return StatusOK
	}
	b.listenerActive = false
	return StatusNotPresent
}

func (b *Bus) talk(device int) uint8 {
	s := b.slot(device)
	if s != nil && s.Ready {
		b.talker = s
		b.talkerActive = true
		return StatusOK
	}
	b.talkerActive = false
	return StatusNotPresent
}

// OutSec sends the secondary address/command byte following LISTEN or
// TALK framing.
func (b *Bus) OutSec(byte byte) uint8 {
	b.secAddr = byte & 0x0F
	b.receivedCmd = byte & 0xF0
	if b.listening {
		if !b.listenerActive {
			return StatusTimeout
		}
		switch b.receivedCmd {
		case cmdOpen:
			b.nameBuf = b.nameBuf[:0]
			return StatusOK
		case cmdClose:
			if b.listener.LED != LEDErrorFlash {
				b.listener.LED = LEDOff
			}
			return b.listener.Drive.Close(int(b.secAddr))
		}
		return StatusOK
	}
	if !b.talkerActive {
		return StatusTimeout
	}
	return StatusOK
}

// Out sends one data byte to the currently listening drive, routed
// through Open-filename collection or a plain channel write depending
// on which secondary command was last framed.
func (b *Bus) Out(data byte, eoi bool) uint8 {
	if !b.listenerActive {
		return StatusTimeout
	}
	switch b.receivedCmd {
	case cmdOpen:
		b.nameBuf = append(b.nameBuf, data)
		if eoi {
			b.listener.LED = LEDOn
			return b.listener.Drive.Open(int(b.secAddr), b.nameBuf)
		}
		return StatusOK
	case cmdData:
		return b.listener.Drive.Write(int(b.secAddr), data, eoi)
	}
	return StatusTimeout
}

// In reads one data byte from the currently talking drive.
func (b *Bus) In() (byte, uint8) {
	if !b.talkerActive || b.receivedCmd != cmdData {
		return 0, StatusTimeout
	}
	return b.talker.Drive.Read(int(b.secAddr))
}

// SetATN, Turnaround and Release correspond to the physical bus line
// transitions a real hardware IEC implementation would drive; this
// emulated bus resolves all framing synchronously inside
// OutATN/OutSec so these are no-ops, kept only so trap handlers have
// a uniform call surface matching the KERNAL's IEC entry points.
func (b *Bus) SetATN()    {}
func (b *Bus) Turnaround() {}
func (b *Bus) Release()   {}
