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

// Package logger implements a small in-memory ring-buffer log used
// throughout the emulation core to record recoverable anomalies without
// disturbing the error-return signature of the per-cycle stepping paths.
package logger

import (
	"fmt"
	"io"
	"sync"
)

const maxEntries = 2048

type entry struct {
	tag string
	msg string
}

var (
	mu      sync.Mutex
	entries []entry
)

// Log appends a tag/message pair to the log.
func Log(tag string, msg string) {
	mu.Lock()
	defer mu.Unlock()

	entries = append(entries, entry{tag: tag, msg: msg})
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
}

// Logf is Log with printf-style formatting.
func Logf(tag string, format string, args ...any) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write dumps every entry currently in the buffer to w, in order.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	for _, e := range entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Tail writes the most recent n entries to w, in order. If n is greater
// than the number of entries held, every entry is written.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()

	if n > len(entries) {
		n = len(entries)
	}

	for _, e := range entries[len(entries)-n:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Clear empties the log. Used by tests and by the scheduler on hard reset.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}
