// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glfwview

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/glrender"
	"github.com/gogpu/gpucontext"
)

// mousePointerID is the PointerID reported for the mouse.
const mousePointerID = 1

// pointerState turns GLFW mouse callbacks into pointer events.
type pointerState struct {
	x, y    float64
	buttons gpucontext.Buttons
	mods    gpucontext.Modifiers

	// scaleX and scaleY convert screen coordinates to framebuffer pixels.
	scaleX, scaleY float64
}

func newPointerState() *pointerState {
	return &pointerState{scaleX: 1, scaleY: 1}
}

// setScale records the ratio between framebuffer and window sizes.
func (p *pointerState) setScale(winW, winH, fbW, fbH int) {
	if winW > 0 && fbW > 0 {
		p.scaleX = float64(fbW) / float64(winW)
	}
	if winH > 0 && fbH > 0 {
		p.scaleY = float64(fbH) / float64(winH)
	}
}

func (p *pointerState) event(typ gpucontext.PointerEventType, at time.Duration) gpucontext.PointerEvent {
	var pressure float32
	if p.buttons != gpucontext.ButtonsNone {
		pressure = 0.5
	}
	return gpucontext.PointerEvent{
		Type:        typ,
		PointerID:   mousePointerID,
		X:           p.x,
		Y:           p.y,
		Pressure:    pressure,
		Width:       1,
		Height:      1,
		PointerType: gpucontext.PointerTypeMouse,
		IsPrimary:   true,
		Button:      gpucontext.ButtonNone,
		Buttons:     p.buttons,
		Modifiers:   p.mods,
		Timestamp:   at,
	}
}

// move handles a cursor position callback.
func (p *pointerState) move(x, y float64, at time.Duration) gpucontext.PointerEvent {
	p.x, p.y = x*p.scaleX, y*p.scaleY
	return p.event(gpucontext.PointerMove, at)
}

// button handles a mouse button callback. It reports false for buttons
// with no pointer equivalent.
func (p *pointerState) button(b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey, at time.Duration) (gpucontext.PointerEvent, bool) {
	btn, mask, ok := convertButton(b)
	if !ok {
		return gpucontext.PointerEvent{}, false
	}
	p.mods = convertMods(mods)

	typ := gpucontext.PointerDown
	switch action {
	case glfw.Press:
		p.buttons |= mask
	case glfw.Release:
		p.buttons &^= mask
		typ = gpucontext.PointerUp
	default:
		return gpucontext.PointerEvent{}, false
	}
	ev := p.event(typ, at)
	ev.Button = btn
	return ev, true
}

// enter handles a cursor enter callback. Leaving with buttons held
// cancels the gesture in progress.
func (p *pointerState) enter(entered bool, at time.Duration) gpucontext.PointerEvent {
	if entered {
		return p.event(gpucontext.PointerEnter, at)
	}
	ev := p.event(gpucontext.PointerLeave, at)
	if p.buttons != gpucontext.ButtonsNone {
		p.buttons = gpucontext.ButtonsNone
		ev.Type = gpucontext.PointerCancel
		ev.Buttons = gpucontext.ButtonsNone
		ev.Pressure = 0
	}
	return ev
}

func convertButton(b glfw.MouseButton) (gpucontext.Button, gpucontext.Buttons, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return gpucontext.ButtonLeft, gpucontext.ButtonsLeft, true
	case glfw.MouseButtonRight:
		return gpucontext.ButtonRight, gpucontext.ButtonsRight, true
	case glfw.MouseButtonMiddle:
		return gpucontext.ButtonMiddle, gpucontext.ButtonsMiddle, true
	default:
		return gpucontext.ButtonNone, gpucontext.ButtonsNone, false
	}
}

func convertMods(mods glfw.ModifierKey) gpucontext.Modifiers {
	var out gpucontext.Modifiers
	if mods&glfw.ModShift != 0 {
		out |= gpucontext.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= gpucontext.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		out |= gpucontext.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= gpucontext.ModSuper
	}
	return out
}

var namedKeys = map[glfw.Key]gpucontext.Key{
	glfw.KeyEscape:    gpucontext.KeyEscape,
	glfw.KeyTab:       gpucontext.KeyTab,
	glfw.KeyBackspace: gpucontext.KeyBackspace,
	glfw.KeyEnter:     gpucontext.KeyEnter,
	glfw.KeySpace:     gpucontext.KeySpace,
	glfw.KeyLeft:      gpucontext.KeyLeft,
	glfw.KeyRight:     gpucontext.KeyRight,
	glfw.KeyUp:        gpucontext.KeyUp,
	glfw.KeyDown:      gpucontext.KeyDown,
}

func convertKey(k glfw.Key) gpucontext.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw.KeyF1)
	}
	if key, ok := namedKeys[k]; ok {
		return key
	}
	return gpucontext.KeyUnknown
}

// windowHint is one glfw.WindowHint call.
type windowHint struct {
	hint  glfw.Hint
	value int
}

// windowHints returns the hints requesting an OpenGL ES context of the
// given major version with the configured surface bits.
func windowHints(version int, cfg glrender.SurfaceConfig) []windowHint {
	return []windowHint{
		{glfw.ClientAPI, glfw.OpenGLESAPI},
		{glfw.ContextCreationAPI, glfw.EGLContextAPI},
		{glfw.ContextVersionMajor, version},
		{glfw.ContextVersionMinor, 0},
		{glfw.RedBits, cfg.Red},
		{glfw.GreenBits, cfg.Green},
		{glfw.BlueBits, cfg.Blue},
		{glfw.AlphaBits, cfg.Alpha},
		{glfw.DepthBits, cfg.Depth},
		{glfw.StencilBits, cfg.Stencil},
		{glfw.Resizable, glfw.True},
	}
}
