// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/glrender"
	"github.com/gogpu/gpucontext"
)

const (
	// TapTimeout is the longest press that still counts as a tap.
	TapTimeout = 500 * time.Millisecond

	// TapSlop is how far, in pixels, a pointer may travel between down
	// and up and still count as a tap.
	TapSlop = 16.0

	// QueueSize bounds the number of taps waiting for Poll. Taps arriving
	// while the queue is full are dropped.
	QueueSize = 16
)

// Tap is a recognised single tap at the position the pointer went down.
type Tap struct {
	X, Y        float64
	PointerType gpucontext.PointerType
	Timestamp   time.Duration
}

// TapHelper recognises single taps from pointer events and queues them.
//
// HandlePointer and Poll may be called from different goroutines.
type TapHelper struct {
	logger *slog.Logger

	mu       sync.Mutex
	tracking bool
	down     gpucontext.PointerEvent
	queue    []Tap
	dropped  int
}

var _ glrender.InputHandler = (*TapHelper)(nil)

// NewTapHelper returns an empty TapHelper. A nil logger uses the
// glrender package logger.
func NewTapHelper(logger *slog.Logger) *TapHelper {
	return &TapHelper{
		logger: logger,
		queue:  make([]Tap, 0, QueueSize),
	}
}

func (h *TapHelper) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return glrender.Logger()
}

// HandlePointer implements glrender.InputHandler. It reports whether the
// event belonged to a tap gesture in progress.
func (h *TapHelper) HandlePointer(ev gpucontext.PointerEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch ev.Type {
	case gpucontext.PointerDown:
		if h.tracking || !ev.IsPrimary {
			// A second pointer turns the gesture into something else.
			h.tracking = false
			return false
		}
		if ev.PointerType == gpucontext.PointerTypeMouse && ev.Button != gpucontext.ButtonLeft {
			return false
		}
		h.tracking = true
		h.down = ev
		return true

	case gpucontext.PointerMove:
		if !h.tracking || ev.PointerID != h.down.PointerID {
			return false
		}
		if h.exceedsSlop(ev) {
			h.tracking = false
		}
		return true

	case gpucontext.PointerUp:
		if !h.tracking || ev.PointerID != h.down.PointerID {
			return false
		}
		h.tracking = false
		if h.exceedsSlop(ev) || ev.Timestamp-h.down.Timestamp > TapTimeout {
			return true
		}
		h.enqueue(Tap{
			X:           h.down.X,
			Y:           h.down.Y,
			PointerType: h.down.PointerType,
			Timestamp:   ev.Timestamp,
		})
		return true

	case gpucontext.PointerCancel, gpucontext.PointerLeave:
		wasTracking := h.tracking && ev.PointerID == h.down.PointerID
		if wasTracking {
			h.tracking = false
		}
		return wasTracking
	}
	return false
}

func (h *TapHelper) exceedsSlop(ev gpucontext.PointerEvent) bool {
	return math.Hypot(ev.X-h.down.X, ev.Y-h.down.Y) > TapSlop
}

// enqueue must be called with h.mu held.
func (h *TapHelper) enqueue(t Tap) {
	if len(h.queue) >= QueueSize {
		h.dropped++
		h.log().Warn("input: tap queue full, dropping tap",
			"x", t.X, "y", t.Y, "dropped", h.dropped)
		return
	}
	h.queue = append(h.queue, t)
}

// Poll removes and returns the oldest queued tap.
func (h *TapHelper) Poll() (Tap, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.queue) == 0 {
		return Tap{}, false
	}
	t := h.queue[0]
	copy(h.queue, h.queue[1:])
	h.queue = h.queue[:len(h.queue)-1]
	return t, true
}

// Pending returns the number of queued taps.
func (h *TapHelper) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// Dropped returns the number of taps lost to a full queue.
func (h *TapHelper) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
