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

package display_test

import (
	"testing"

	"github.com/sixtyfour/c64core/display"
	"github.com/sixtyfour/c64core/iec"
	"github.com/sixtyfour/c64core/vic"
)

type fakeCollaborator struct {
	frames  int
	vblanks int
	led     iec.LEDState
	req     display.Request
	path    string
}

func (f *fakeCollaborator) NewFrame(line int, pixels [vic.DisplayWidth]uint8) { f.frames++ }
func (f *fakeCollaborator) VBlank(draw bool)                                  { f.vblanks++ }
func (f *fakeCollaborator) SetSpeed(percent float64)                         {}
func (f *fakeCollaborator) SetDriveLED(drive int, state iec.LEDState)        { f.led = state }
func (f *fakeCollaborator) Notify(message string)                            {}
func (f *fakeCollaborator) PollRequest() (display.Request, string)           { return f.req, f.path }

func TestFakeCollaboratorSatisfiesInterface(t *testing.T) {
	var c display.Collaborator = &fakeCollaborator{}
	c.NewFrame(0, [vic.DisplayWidth]uint8{})
	c.VBlank(true)
	c.SetDriveLED(0, iec.LEDErrorFlash)
	req, _ := c.PollRequest()
	if req != display.RequestNone {
		t.Fatalf("PollRequest() = %v, want RequestNone", req)
	}
}

func TestRequestCarriesSnapshotPath(t *testing.T) {
	f := &fakeCollaborator{req: display.RequestSnapshotLoad, path: "save1.frz"}
	req, path := f.PollRequest()
	if req != display.RequestSnapshotLoad || path != "save1.frz" {
		t.Fatalf("PollRequest() = %v/%q, want RequestSnapshotLoad/save1.frz", req, path)
	}
}
