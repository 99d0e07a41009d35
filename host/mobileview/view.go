// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mobileview is a glrender.HostView over golang.org/x/mobile/app,
// for Android and iOS builds made with gomobile.
//
//	func main() {
//	    app.Main(func(a app.App) {
//	        view := mobileview.New(nil)
//	        if _, err := glrender.New(view, renderer, mobileview.Assets, taps); err != nil {
//	            log.Fatal(err)
//	        }
//	        if err := view.Run(a); err != nil {
//	            log.Fatal(err)
//	        }
//	    })
//	}
package mobileview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/glrender"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/asset"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"
)

var (
	// ErrNoRenderer is returned by Run when no surface renderer was set.
	ErrNoRenderer = errors.New("mobileview: no renderer set")

	// ErrNoGLContext is returned when a visible lifecycle event carries no
	// GL context.
	ErrNoGLContext = errors.New("mobileview: lifecycle event has no gl.Context")
)

// Assets serves application assets bundled by gomobile.
var Assets glrender.AssetSource = glrender.AssetFunc(func(name string) (io.ReadCloser, error) {
	return asset.Open(name)
})

// View is a glrender.HostView driven by x/mobile app events.
type View struct {
	logger *slog.Logger
	start  time.Time

	mu          sync.Mutex
	preserve    bool
	config      glrender.SurfaceConfig
	input       glrender.InputHandler
	renderer    glrender.SurfaceRenderer
	mode        glrender.RenderMode
	willNotDraw bool
	app         app.App

	// Set while an internal paint event is queued.
	paintPending bool

	// Owned by the Run goroutine.
	glctx   gl.Context
	size    size.Event
	hasSize bool
	touches touchState
}

var _ glrender.HostView = (*View)(nil)

// New returns a View. A nil logger uses slog.Default().
func New(logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		logger: logger,
		start:  time.Now(),
		config: glrender.DefaultSurfaceConfig,
		mode:   glrender.RenderModeWhenDirty,
	}
}

// SetPreserveContextOnPause implements glrender.HostView. The app package
// always releases the context when the app stops being visible; the flag
// is recorded for callers that inspect it.
func (v *View) SetPreserveContextOnPause(preserve bool) {
	v.mu.Lock()
	v.preserve = preserve
	v.mu.Unlock()
}

// SetContextClientVersion implements glrender.HostView. gomobile creates
// OpenGL ES 3 contexts where available, falling back to 2.
func (v *View) SetContextClientVersion(version int) error {
	if version != 2 && version != 3 {
		return fmt.Errorf("mobileview: unsupported OpenGL ES version %d", version)
	}
	return nil
}

// SetSurfaceConfig implements glrender.HostView. The app package picks the
// EGL configuration itself; the requested one is recorded.
func (v *View) SetSurfaceConfig(cfg glrender.SurfaceConfig) error {
	v.mu.Lock()
	v.config = cfg
	v.mu.Unlock()
	return nil
}

// SetTouchListener implements glrender.HostView.
func (v *View) SetTouchListener(h glrender.InputHandler) {
	v.mu.Lock()
	v.input = h
	v.mu.Unlock()
}

// SetRenderer implements glrender.HostView.
func (v *View) SetRenderer(r glrender.SurfaceRenderer) error {
	if r == nil {
		return ErrNoRenderer
	}
	v.mu.Lock()
	v.renderer = r
	v.mu.Unlock()
	return nil
}

// SetRenderMode implements glrender.HostView.
func (v *View) SetRenderMode(mode glrender.RenderMode) {
	v.mu.Lock()
	v.mode = mode
	v.mu.Unlock()
	v.RequestRender()
}

// SetWillNotDraw implements glrender.HostView.
func (v *View) SetWillNotDraw(willNotDraw bool) {
	v.mu.Lock()
	v.willNotDraw = willNotDraw
	v.mu.Unlock()
}

// LocationOnScreen implements glrender.HostView. Mobile apps fill the
// screen, so the origin is always (0, 0).
func (v *View) LocationOnScreen() (x, y int) { return 0, 0 }

// RequestRender implements glrender.HostView by sending a paint event.
// It is a no-op before Run.
func (v *View) RequestRender() {
	v.mu.Lock()
	a := v.app
	v.mu.Unlock()
	if a != nil {
		v.requestPaint(a)
	}
}

// requestPaint sends a paint event unless one is already queued.
func (v *View) requestPaint(a app.App) {
	v.mu.Lock()
	pending := v.paintPending
	v.paintPending = true
	v.mu.Unlock()
	if !pending {
		a.Send(paint.Event{})
	}
}

func (v *View) state() (glrender.SurfaceRenderer, glrender.InputHandler, glrender.RenderMode, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderer, v.input, v.mode, v.willNotDraw
}

// Run processes app events until the app dies or a lifecycle signal
// fails. It is meant to be called from the app.Main callback.
func (v *View) Run(a app.App) error {
	if r, _, _, _ := v.state(); r == nil {
		return ErrNoRenderer
	}
	v.mu.Lock()
	v.app = a
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.app = nil
		v.paintPending = false
		v.mu.Unlock()
	}()

	for e := range a.Events() {
		done, err := v.handle(a, a.Filter(e))
		if err != nil {
			v.logger.Error("mobileview: event failed", "err", err)
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

// handle processes one event. done is set once the app is dead.
func (v *View) handle(a app.App, e any) (done bool, err error) {
	r, input, mode, willNotDraw := v.state()

	switch e := e.(type) {
	case lifecycle.Event:
		switch e.Crosses(lifecycle.StageVisible) {
		case lifecycle.CrossOn:
			glctx, ok := e.DrawContext.(gl.Context)
			if !ok {
				return false, ErrNoGLContext
			}
			v.glctx = glctx
			v.logger.Info("mobileview: surface visible")
			if err := r.OnSurfaceCreated(glctx); err != nil {
				return false, fmt.Errorf("mobileview: surface created: %w", err)
			}
			if v.hasSize {
				if err := r.OnSurfaceChanged(glctx, v.size.WidthPx, v.size.HeightPx); err != nil {
					return false, fmt.Errorf("mobileview: surface changed: %w", err)
				}
			}
			v.requestPaint(a)
		case lifecycle.CrossOff:
			v.logger.Info("mobileview: surface hidden")
			v.glctx = nil
		}
		return e.To == lifecycle.StageDead, nil

	case size.Event:
		v.size, v.hasSize = e, true
		if v.glctx != nil && e.WidthPx > 0 && e.HeightPx > 0 {
			if err := r.OnSurfaceChanged(v.glctx, e.WidthPx, e.HeightPx); err != nil {
				return false, fmt.Errorf("mobileview: surface changed: %w", err)
			}
			v.requestPaint(a)
		}

	case paint.Event:
		if !e.External {
			v.mu.Lock()
			v.paintPending = false
			v.mu.Unlock()
		}
		continuous := mode == glrender.RenderModeContinuously
		if v.glctx == nil || willNotDraw || (e.External && continuous) {
			// System paints are skipped while this loop drives frames itself.
			return false, nil
		}
		if err := r.OnDrawFrame(v.glctx); err != nil {
			return false, fmt.Errorf("mobileview: draw frame: %w", err)
		}
		a.Publish()
		if continuous {
			v.requestPaint(a)
		}

	case touch.Event:
		ev := v.touches.convert(e, time.Since(v.start))
		if input != nil {
			input.HandlePointer(ev)
		}
	}
	return false, nil
}
