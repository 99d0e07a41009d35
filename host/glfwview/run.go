// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glfwview

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/glrender"
	"github.com/gogpu/gpucontext"
	"golang.org/x/mobile/gl"
)

type signalKind int

const (
	signalCreated signalKind = iota
	signalChanged
	signalDraw
)

func (k signalKind) String() string {
	switch k {
	case signalCreated:
		return "surface created"
	case signalChanged:
		return "surface changed"
	case signalDraw:
		return "draw frame"
	default:
		return "unknown"
	}
}

// signal is one lifecycle call made on the render goroutine.
type signal struct {
	kind          signalKind
	width, height int
}

// Run opens the window and drives the renderer until the window is
// closed, ctx is cancelled, or a lifecycle signal fails. It must be called
// from the main goroutine.
func (v *View) Run(ctx context.Context) error {
	snap := v.snapshot()
	if snap.renderer == nil {
		return ErrNoRenderer
	}
	if !v.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer v.running.Store(false)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfwview: initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	for _, h := range windowHints(snap.version, snap.config) {
		glfw.WindowHint(h.hint, h.value)
	}
	win, err := glfw.CreateWindow(v.opts.Width, v.opts.Height, v.opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("glfwview: create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(v.opts.SwapInterval)

	v.setWake(glfw.PostEmptyEvent)
	defer v.setWake(func() {})
	stop := context.AfterFunc(ctx, v.wakeUp)
	defer stop()

	x, y := win.GetPos()
	v.posX.Store(int32(x))
	v.posY.Store(int32(y))
	win.SetPosCallback(func(_ *glfw.Window, x, y int) {
		v.posX.Store(int32(x))
		v.posY.Store(int32(y))
	})

	// Callbacks run inside PollEvents/WaitEvents on this thread.
	fbW, fbH := win.GetFramebufferSize()
	resized := true
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		fbW, fbH = w, h
		resized = true
		v.dirty.Store(true)
	})
	pointer := newPointerState()
	v.installInput(win, pointer)

	v.opts.Logger.Info("glfwview: window created",
		"title", v.opts.Title, "width", fbW, "height", fbH,
		"es_version", snap.version, "mode", snap.mode.String())

	glctx, worker := gl.NewContext()
	signals := make(chan signal)
	results := make(chan error)
	go renderLoop(snap.renderer, glctx, signals, results)
	defer close(signals)

	send := func(s signal) error {
		signals <- s
		if err := serviceUntil(worker, results); err != nil {
			v.opts.Logger.Error("glfwview: lifecycle signal failed", "signal", s.kind.String(), "err", err)
			return fmt.Errorf("glfwview: %s: %w", s.kind, err)
		}
		return nil
	}

	if err := send(signal{kind: signalCreated}); err != nil {
		return err
	}
	for !win.ShouldClose() {
		if ctx.Err() != nil {
			v.opts.Logger.Info("glfwview: context done, closing window")
			return nil
		}
		snap = v.snapshot()

		if resized && fbW > 0 && fbH > 0 {
			resized = false
			ww, wh := win.GetSize()
			pointer.setScale(ww, wh, fbW, fbH)
			if err := send(signal{kind: signalChanged, width: fbW, height: fbH}); err != nil {
				return err
			}
		}
		if !resized && snap.shouldDraw(&v.dirty) {
			if err := send(signal{kind: signalDraw}); err != nil {
				return err
			}
			win.SwapBuffers()
		}

		if snap.mode == glrender.RenderModeContinuously && !snap.willNotDraw {
			glfw.PollEvents()
		} else {
			glfw.WaitEvents()
		}
	}
	return nil
}

// renderLoop runs lifecycle signals on its own goroutine. GL calls made by
// the renderer are executed by the worker serviced on the main thread.
func renderLoop(r glrender.SurfaceRenderer, glctx gl.Context, signals <-chan signal, results chan<- error) {
	for s := range signals {
		var err error
		switch s.kind {
		case signalCreated:
			err = r.OnSurfaceCreated(glctx)
		case signalChanged:
			err = r.OnSurfaceChanged(glctx, s.width, s.height)
		case signalDraw:
			err = r.OnDrawFrame(glctx)
		}
		results <- err
	}
}

// serviceUntil executes GL work until the pending signal reports back.
func serviceUntil(worker gl.Worker, results <-chan error) error {
	work := worker.WorkAvailable()
	for {
		select {
		case <-work:
			worker.DoWork()
		case err := <-results:
			return err
		}
	}
}

func eventTime() time.Duration {
	return time.Duration(glfw.GetTime() * float64(time.Second))
}

func (v *View) installInput(win *glfw.Window, p *pointerState) {
	deliver := func(ev gpucontext.PointerEvent) {
		if h := v.snapshot().input; h != nil {
			h.HandlePointer(ev)
		}
	}
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		deliver(p.move(x, y, eventTime()))
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if ev, ok := p.button(b, action, mods, eventTime()); ok {
			deliver(ev)
		}
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		deliver(p.enter(entered, eventTime()))
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		p.mods = convertMods(mods)
		if action == glfw.Release || v.opts.OnKey == nil {
			return
		}
		v.opts.OnKey(convertKey(key), p.mods)
	})
}
