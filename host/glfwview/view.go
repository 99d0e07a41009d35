// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glfwview

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glrender"
)

var (
	// ErrNoRenderer is returned by Run when no surface renderer was set.
	ErrNoRenderer = errors.New("glfwview: no renderer set")

	// ErrRunning is returned by configuration calls made after Run started.
	ErrRunning = errors.New("glfwview: view is running")
)

// View is a glrender.HostView over a GLFW window.
type View struct {
	opts Options

	mu          sync.Mutex
	preserve    bool
	version     int
	config      glrender.SurfaceConfig
	input       glrender.InputHandler
	renderer    glrender.SurfaceRenderer
	mode        glrender.RenderMode
	willNotDraw bool

	running atomic.Bool
	dirty   atomic.Bool
	posX    atomic.Int32
	posY    atomic.Int32

	// wake interrupts WaitEvents; replaced by glfw.PostEmptyEvent in Run.
	wake func()
}

var _ glrender.HostView = (*View)(nil)

// New returns a View with the given options. The window is created by Run.
func New(opts Options) *View {
	return &View{
		opts:    opts.withDefaults(),
		version: 3,
		config:  glrender.DefaultSurfaceConfig,
		mode:    glrender.RenderModeWhenDirty,
		wake:    func() {},
	}
}

// SetPreserveContextOnPause implements glrender.HostView. A desktop window
// keeps its context for its whole lifetime, so the flag is only recorded.
func (v *View) SetPreserveContextOnPause(preserve bool) {
	v.mu.Lock()
	v.preserve = preserve
	v.mu.Unlock()
}

// SetContextClientVersion implements glrender.HostView. Versions 2 and 3
// are supported.
func (v *View) SetContextClientVersion(version int) error {
	if version != 2 && version != 3 {
		return fmt.Errorf("glfwview: unsupported OpenGL ES version %d", version)
	}
	if v.running.Load() {
		return ErrRunning
	}
	v.mu.Lock()
	v.version = version
	v.mu.Unlock()
	return nil
}

// SetSurfaceConfig implements glrender.HostView.
func (v *View) SetSurfaceConfig(cfg glrender.SurfaceConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if v.running.Load() {
		return ErrRunning
	}
	v.mu.Lock()
	v.config = cfg
	v.mu.Unlock()
	return nil
}

func validateConfig(cfg glrender.SurfaceConfig) error {
	for _, bits := range []int{cfg.Red, cfg.Green, cfg.Blue, cfg.Alpha} {
		if bits < 0 || bits > 16 {
			return fmt.Errorf("glfwview: invalid color bits %d", bits)
		}
	}
	if cfg.Depth < 0 || cfg.Depth > 32 || cfg.Stencil < 0 || cfg.Stencil > 8 {
		return fmt.Errorf("glfwview: invalid depth/stencil bits %d/%d", cfg.Depth, cfg.Stencil)
	}
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
	if v.running.Load() {
		return ErrRunning
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

// SetWillNotDraw implements glrender.HostView. While set, frames are not
// drawn even if requested.
func (v *View) SetWillNotDraw(willNotDraw bool) {
	v.mu.Lock()
	v.willNotDraw = willNotDraw
	v.mu.Unlock()
}

// LocationOnScreen implements glrender.HostView. It returns the last known
// window position; (0, 0) before Run.
func (v *View) LocationOnScreen() (x, y int) {
	return int(v.posX.Load()), int(v.posY.Load())
}

// RequestRender implements glrender.HostView. It is safe to call from any
// goroutine.
func (v *View) RequestRender() {
	v.dirty.Store(true)
	v.wakeUp()
}

// wakeUp interrupts a blocking event wait in Run.
func (v *View) wakeUp() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wake()
}

func (v *View) setWake(fn func()) {
	v.mu.Lock()
	v.wake = fn
	v.mu.Unlock()
}

// snapshot is the configuration read at the start of each frame.
type snapshot struct {
	version     int
	config      glrender.SurfaceConfig
	input       glrender.InputHandler
	renderer    glrender.SurfaceRenderer
	mode        glrender.RenderMode
	willNotDraw bool
}

func (v *View) snapshot() snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return snapshot{
		version:     v.version,
		config:      v.config,
		input:       v.input,
		renderer:    v.renderer,
		mode:        v.mode,
		willNotDraw: v.willNotDraw,
	}
}

// shouldDraw reports whether the next loop iteration draws a frame, and
// consumes a pending render request.
func (s snapshot) shouldDraw(dirty *atomic.Bool) bool {
	if s.willNotDraw {
		return false
	}
	requested := dirty.Swap(false)
	return s.mode == glrender.RenderModeContinuously || requested
}
