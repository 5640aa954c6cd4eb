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

package logger_test

import (
	"strings"
	"testing"

	"github.com/sixtyfour/c64core/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	var b strings.Builder
	logger.Write(&b)
	if b.String() != "" {
		t.Fatalf("expected empty log, got %q", b.String())
	}

	logger.Log("test", "this is a test")
	b.Reset()
	logger.Write(&b)
	if b.String() != "test: this is a test\n" {
		t.Fatalf("unexpected log contents: %q", b.String())
	}

	logger.Log("test2", "this is another test")
	b.Reset()
	logger.Write(&b)
	want := "test: this is a test\ntest2: this is another test\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}

	b.Reset()
	logger.Tail(&b, 1)
	if b.String() != "test2: this is another test\n" {
		t.Fatalf("unexpected tail contents: %q", b.String())
	}

	b.Reset()
	logger.Tail(&b, 100)
	if b.String() != want {
		t.Fatalf("tail with oversized n: got %q want %q", b.String(), want)
	}
}

func TestLogf(t *testing.T) {
	logger.Clear()
	logger.Logf("CPU", "illegal opcode %#02x at %#04x", 0x02, 0x1000)

	var b strings.Builder
	logger.Tail(&b, 1)
	want := "CPU: illegal opcode 0x02 at 0x1000\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}
