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

package capture_test

import (
	"bytes"
	"testing"

	"github.com/sixtyfour/c64core/sid/capture"
)

type seekBuffer struct {
	bytes.Buffer
	pos int64
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	// wav.Encoder only seeks to patch the RIFF/data chunk sizes on
	// Close; a bytes.Buffer-backed fake only needs to report a
	// consistent position, not truly support random-access writes.
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(s.Buffer.Len()) + offset
	}
	return s.pos, nil
}

func TestWriteThenCloseFinalizesWAV(t *testing.T) {
	var buf seekBuffer
	w := capture.NewWriter(&buf)
	for i := 0; i < 10; i++ {
		if err := w.Write(uint8(128 + i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected WAV bytes to be written")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("RIFF")) {
		t.Fatalf("output does not start with a RIFF header: %v", buf.Bytes()[:4])
	}
}
