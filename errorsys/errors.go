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

// Package errorsys defines the classified sentinel errors used at the
// fallible boundaries of the emulation core: image/ROM/snapshot loading
// and DOS-level drive command dispatch. The cycle-stepping core itself
// never returns an error from a per-cycle step function.
package errorsys

import (
	"errors"
	"fmt"
)

// Core sentinels.
var (
	ErrCPUJammed          = errors.New("cpu jammed on illegal opcode")
	ErrSnapshotTagMismatch = errors.New("snapshot not accepted: tag mismatch")
	ErrSnapshotModeMismatch = errors.New("snapshot not accepted: cycle/line mode mismatch")
	ErrUnknownImageFormat = errors.New("unrecognised disk image format")
	ErrROMSize            = errors.New("rom image has unexpected size")
)

// DOS-level sentinels, one per error kind named in spec.md §7.
var (
	ErrFilesScratched     = errors.New("files scratched")
	ErrUnimplemented      = errors.New("unimplemented")
	ErrReadError          = errors.New("read error")
	ErrWriteError         = errors.New("write error")
	ErrWriteProtectOn     = errors.New("write protect on")
	ErrDiskIDMismatch     = errors.New("disk id mismatch")
	ErrSyntaxError        = errors.New("syntax error")
	ErrWriteFileOpen      = errors.New("write file open")
	ErrFileNotOpen        = errors.New("file not open")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileExists         = errors.New("file exists")
	ErrFileTypeMismatch   = errors.New("file type mismatch")
	ErrNoBlock            = errors.New("no block")
	ErrIllegalTrackSector = errors.New("illegal track or sector")
	ErrNoChannel          = errors.New("no channel")
	ErrDirError           = errors.New("dir error")
	ErrDiskFull           = errors.New("disk full")
	ErrDriveNotReady      = errors.New("drive not ready")
)

// Wrap attaches printf-style context to a sentinel, preserving it for
// errors.Is.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
