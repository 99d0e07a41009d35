// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mobileview

import (
	"time"

	"github.com/gogpu/gpucontext"
	"golang.org/x/mobile/event/touch"
)

// touchState assigns pointer identities to touch sequences. The first
// finger down while no other finger is active is the primary pointer.
type touchState struct {
	active     map[touch.Sequence]bool
	primary    touch.Sequence
	hasPrimary bool
}

// convert translates a touch event. Positions are in pixels.
func (s *touchState) convert(e touch.Event, at time.Duration) gpucontext.PointerEvent {
	if s.active == nil {
		s.active = make(map[touch.Sequence]bool)
	}

	ev := gpucontext.PointerEvent{
		PointerID:   int(e.Sequence) + 1,
		X:           float64(e.X),
		Y:           float64(e.Y),
		Width:       1,
		Height:      1,
		PointerType: gpucontext.PointerTypeTouch,
		Button:      gpucontext.ButtonNone,
		Timestamp:   at,
	}

	switch e.Type {
	case touch.TypeBegin:
		if len(s.active) == 0 {
			s.primary, s.hasPrimary = e.Sequence, true
		}
		s.active[e.Sequence] = true
		ev.Type = gpucontext.PointerDown
		ev.Button = gpucontext.ButtonLeft
		ev.Buttons = gpucontext.ButtonsLeft
		ev.Pressure = 0.5
	case touch.TypeMove:
		ev.Type = gpucontext.PointerMove
		ev.Buttons = gpucontext.ButtonsLeft
		ev.Pressure = 0.5
	case touch.TypeEnd:
		delete(s.active, e.Sequence)
		ev.Type = gpucontext.PointerUp
		ev.Button = gpucontext.ButtonLeft
	}
	ev.IsPrimary = s.hasPrimary && e.Sequence == s.primary

	if e.Type == touch.TypeEnd && ev.IsPrimary {
		s.hasPrimary = false
	}
	return ev
}
