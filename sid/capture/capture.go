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

// Package capture turns a sid.SID's per-cycle Sample() stream into a
// WAV file, for debugging audio-trigger timing without claiming SID
// filter accuracy (spec.md §1 Non-goals). Grounded on Gopher2600's
// television.AudioMixer collaborator shape
// (_examples/JetSetIlly-Gopher2600/digest/audio.go's buffer-then-flush
// pattern), adapted from a SHA-1 digest sink to a real WAV-encoding
// sink using go-audio/audio and go-audio/wav.
package capture

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate is the rate samples are collected at; the caller
// downsamples from the system clock (spec §5's "lock-free per-raster-
// line ring of sampled SID state") to this rate before calling Write.
const SampleRate = 44100

// Writer buffers 8-bit unsigned SID samples and flushes them to a WAV
// encoder in fixed-size chunks, mirroring digest.Audio's
// buffer-then-flush shape but writing real audio instead of a digest.
type Writer struct {
	enc    *wav.Encoder
	buffer []int
	bufCt  int
}

// NewWriter constructs a mono 8-bit WAV capture sink writing to w. The
// caller is responsible for calling Close when finished, which flushes
// any buffered samples and writes the WAV header/trailer.
func NewWriter(w io.WriteSeeker) *Writer {
	enc := wav.NewEncoder(w, SampleRate, 8, 1, 1)
	return &Writer{enc: enc, buffer: make([]int, 0, 4096)}
}

// Write appends one sampled SID output byte (as produced by
// sid.SID.Sample) to the capture stream.
func (c *Writer) Write(sample uint8) error {
	c.buffer = append(c.buffer, int(sample))
	c.bufCt++
	if c.bufCt >= cap(c.buffer) {
		return c.flush()
	}
	return nil
}

func (c *Writer) flush() error {
	if len(c.buffer) == 0 {
		return nil
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           c.buffer,
		SourceBitDepth: 8,
	}
	if err := c.enc.Write(buf); err != nil {
		return err
	}
	c.buffer = c.buffer[:0]
	c.bufCt = 0
	return nil
}

// Close flushes any remaining buffered samples and finalises the WAV
// file (RIFF header sizes, etc.).
func (c *Writer) Close() error {
	if err := c.flush(); err != nil {
		return err
	}
	return c.enc.Close()
}
