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

// Package sdldisplay implements display.Collaborator with a minimal
// SDL2 window: one streaming texture blitted from the VIC-II's 4-bit
// colour-index pixel buffer, no imgui, no OpenGL, matching spec §1/§6's
// exclusion of the on-screen monitor and preferences editor. Grounded
// on two teacher-pack sources: the SDL init/window/joystick-open
// sequence in
// _examples/JetSetIlly-Gopher2600/gui/sdlimgui/platform.go, trimmed to
// drop the GL context and imgui wiring this package has no use for, and
// the renderer/streaming-texture/palette-index-to-RGBA blit loop in
// _examples/other_examples/933d0c67_newhook-6502__c64-c64-c64.go.go's
// RenderFrame, which is the direct model for write/present below.
package sdldisplay

import (
	"fmt"

	"github.com/sixtyfour/c64core/display"
	"github.com/sixtyfour/c64core/iec"
	"github.com/sixtyfour/c64core/logger"
	"github.com/sixtyfour/c64core/vic"
	"github.com/veandco/go-sdl2/sdl"
)

// Palette is the standard 16-colour C64 RGB palette (Pepto's widely
// used measured values), indexed the same way vic.VIC's pixel buffer
// is: a 4-bit colour index per pixel.
var Palette = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0xFF, 0xFF, 0xFF}, {0x68, 0x37, 0x2B}, {0x70, 0xA4, 0xB2},
	{0x6F, 0x3D, 0x86}, {0x58, 0x8D, 0x43}, {0x35, 0x28, 0x79}, {0xB8, 0xC7, 0x6F},
	{0x6F, 0x4F, 0x25}, {0x43, 0x39, 0x00}, {0x9A, 0x67, 0x59}, {0x44, 0x44, 0x44},
	{0x6C, 0x6C, 0x6C}, {0x9A, 0xD2, 0x84}, {0x6C, 0x5E, 0xB5}, {0x95, 0x95, 0x95},
}

// Display is a minimal SDL2 Collaborator. The zero value is not
// usable; construct with New.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte // RGBA, DisplayWidth*LinesPerFrame*4

	pendingReq  display.Request
	pendingPath string
}

// New opens an SDL2 window sized to the VIC-II's native pixel buffer,
// mirroring platform.go's sdl.Init/CreateWindow sequence without the
// GL context imgui needs.
func New(title string) (*Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("sdldisplay: sdl.Init: %w", err)
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		vic.DisplayWidth*2, vic.LinesPerFrame*2,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdldisplay: CreateWindow: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdldisplay: CreateRenderer: %w", err)
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING,
		vic.DisplayWidth, vic.LinesPerFrame)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdldisplay: CreateTexture: %w", err)
	}

	logger.Log("sdldisplay", "window opened")

	return &Display{
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, vic.DisplayWidth*vic.LinesPerFrame*4),
	}, nil
}

// Close releases the window, matching platform.go's destroy().
func (d *Display) Close() {
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
	sdl.Quit()
}

// NewFrame implements system.FrameSink: it stages one raster line's
// palette-index pixels into the RGBA staging buffer, the same
// index-to-RGBA expansion RenderFrame performs per-pixel.
func (d *Display) NewFrame(line int, pixels [vic.DisplayWidth]uint8) {
	if line < 0 || line >= vic.LinesPerFrame {
		return
	}
	row := line * vic.DisplayWidth * 4
	for x, idx := range pixels {
		c := Palette[idx&0x0F]
		off := row + x*4
		d.pixels[off+0] = c[0]
		d.pixels[off+1] = c[1]
		d.pixels[off+2] = c[2]
		d.pixels[off+3] = 0xFF
	}
}

// VBlank uploads the staged frame to the texture and presents it,
// unless draw is false (a deliberately skipped render).
func (d *Display) VBlank(draw bool) {
	d.pumpEvents()
	if !draw {
		return
	}
	if err := d.texture.Update(nil, d.pixels, vic.DisplayWidth*4); err != nil {
		logger.Logf("sdldisplay", "texture update: %v", err)
		return
	}
	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)
	d.renderer.Present()
}

// SetSpeed is a no-op placeholder: a title-bar speed readout is a
// thin enough addition that it isn't worth its own state machine here;
// diagnostics' HTTP dashboard is the primary speed-meter surface.
func (d *Display) SetSpeed(percent float64) {}

// SetDriveLED is a no-op placeholder for the same reason: no on-screen
// drive-LED widget is implemented (spec's on-screen monitor exclusion).
func (d *Display) SetDriveLED(drive int, state iec.LEDState) {}

// Notify logs the banner text; no on-screen banner widget is drawn
// (spec §1 excludes the on-screen monitor, and a banner overlay would
// need the imgui/GL stack this package deliberately avoids).
func (d *Display) Notify(message string) {
	logger.Log("sdldisplay", message)
}

// PollRequest returns, and clears, whatever request pumpEvents most
// recently latched (only the window close button, spec §6's quit
// request). It does not pump SDL events itself; VBlank does.
func (d *Display) PollRequest() (display.Request, string) {
	req, path := d.pendingReq, d.pendingPath
	d.pendingReq, d.pendingPath = display.RequestNone, ""
	return req, path
}

func (d *Display) pumpEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			d.pendingReq = display.RequestQuit
		}
	}
}
