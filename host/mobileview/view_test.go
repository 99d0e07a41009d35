// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mobileview

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/gogpu/glrender"
	"github.com/gogpu/gpucontext"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"
)

type fakeApp struct {
	events    chan any
	sent      []any
	published int
}

func newFakeApp(events ...any) *fakeApp {
	a := &fakeApp{events: make(chan any, len(events))}
	for _, e := range events {
		a.events <- e
	}
	close(a.events)
	return a
}

func (a *fakeApp) Events() <-chan any           { return a.events }
func (a *fakeApp) Send(e any)                   { a.sent = append(a.sent, e) }
func (a *fakeApp) Publish() app.PublishResult   { a.published++; return app.PublishResult{} }
func (a *fakeApp) Filter(e any) any             { return e }
func (a *fakeApp) RegisterFilter(func(any) any) {}

// fakeGL implements the calls glrender makes on lifecycle signals.
type fakeGL struct {
	gl.Context
	calls []string
}

func (f *fakeGL) GetError() gl.Enum                       { return gl.NO_ERROR }
func (f *fakeGL) Enable(gl.Enum)                          { f.calls = append(f.calls, "Enable") }
func (f *fakeGL) ClearColor(r, g, b, a float32)           { f.calls = append(f.calls, "ClearColor") }
func (f *fakeGL) DepthMask(bool)                          { f.calls = append(f.calls, "DepthMask") }
func (f *fakeGL) Clear(gl.Enum)                           { f.calls = append(f.calls, "Clear") }
func (f *fakeGL) BindFramebuffer(gl.Enum, gl.Framebuffer) { f.calls = append(f.calls, "BindFramebuffer") }
func (f *fakeGL) Viewport(x, y, w, h int)                 { f.calls = append(f.calls, "Viewport") }

type recorder struct {
	calls []string
	sizes [][2]int
	err   error
}

func (r *recorder) OnSurfaceCreated(*glrender.Context) error {
	r.calls = append(r.calls, "created")
	return r.err
}

func (r *recorder) OnSurfaceChanged(_ *glrender.Context, w, h int) error {
	r.calls = append(r.calls, "changed")
	r.sizes = append(r.sizes, [2]int{w, h})
	return r.err
}

func (r *recorder) OnDrawFrame(*glrender.Context) error {
	r.calls = append(r.calls, "draw")
	return r.err
}

type pointerLog struct{ events []gpucontext.PointerEvent }

func (p *pointerLog) HandlePointer(ev gpucontext.PointerEvent) bool {
	p.events = append(p.events, ev)
	return true
}

func newTestView(t *testing.T, r glrender.Renderer, input glrender.InputHandler) (*View, *glrender.Context) {
	t.Helper()
	v := New(slog.New(slog.DiscardHandler))
	rc, err := glrender.New(v, r, nil, input)
	if err != nil {
		t.Fatalf("glrender.New() error = %v", err)
	}
	return v, rc
}

func visible(glctx gl.Context) lifecycle.Event {
	return lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageFocused, DrawContext: glctx}
}

func TestRunLifecycle(t *testing.T) {
	r := &recorder{}
	v, rc := newTestView(t, r, nil)
	glctx := &fakeGL{}

	a := newFakeApp(
		size.Event{WidthPx: 640, HeightPx: 480},
		visible(glctx),
		paint.Event{},
		paint.Event{External: true},
		size.Event{WidthPx: 480, HeightPx: 640},
		paint.Event{},
		lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageAlive},
		paint.Event{},
		lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageDead},
		paint.Event{},
	)
	if err := v.Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"created", "changed", "draw", "changed", "draw"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
	if !reflect.DeepEqual(r.sizes, [][2]int{{640, 480}, {480, 640}}) {
		t.Errorf("sizes = %v", r.sizes)
	}
	if w, h := rc.ViewportSize(); w != 480 || h != 640 {
		t.Errorf("ViewportSize() = %dx%d, want 480x640", w, h)
	}
	if a.published != 2 {
		t.Errorf("Publish called %d times, want 2", a.published)
	}
	// Continuous mode keeps a paint event in flight after each frame.
	paints := 0
	for _, e := range a.sent {
		if _, ok := e.(paint.Event); ok {
			paints++
		}
	}
	if paints < 2 {
		t.Errorf("sent %d paint events, want at least 2", paints)
	}
	if v.glctx != nil {
		t.Error("GL context kept after the surface was hidden")
	}
}

// loopbackApp queues sent events on its own event channel, like the
// x/mobile app pump does.
type loopbackApp struct {
	fakeApp
	stopAfter   int
	inFlight    int
	maxInFlight int
}

func newLoopbackApp(stopAfter int, events ...any) *loopbackApp {
	a := &loopbackApp{fakeApp: fakeApp{events: make(chan any, 32)}, stopAfter: stopAfter}
	for _, e := range events {
		a.events <- e
	}
	return a
}

func (a *loopbackApp) Events() <-chan any { return a.events }

func (a *loopbackApp) Send(e any) {
	if p, ok := e.(paint.Event); ok && !p.External {
		a.inFlight++
		a.maxInFlight = max(a.maxInFlight, a.inFlight)
	}
	a.sent = append(a.sent, e)
	a.events <- e
}

func (a *loopbackApp) Filter(e any) any {
	if p, ok := e.(paint.Event); ok && !p.External {
		a.inFlight--
	}
	return e
}

func (a *loopbackApp) Publish() app.PublishResult {
	a.published++
	if a.published == a.stopAfter {
		a.events <- lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageDead}
	}
	return app.PublishResult{}
}

func TestContinuousModeKeepsOnePaintQueued(t *testing.T) {
	r := &recorder{}
	v, _ := newTestView(t, r, nil)

	a := newLoopbackApp(5,
		visible(&fakeGL{}),
		size.Event{WidthPx: 320, HeightPx: 240},
		size.Event{WidthPx: 640, HeightPx: 480},
		size.Event{WidthPx: 800, HeightPx: 600},
	)
	if err := v.Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if a.maxInFlight != 1 {
		t.Errorf("up to %d paint events queued, want 1", a.maxInFlight)
	}
	if a.published < 5 {
		t.Errorf("Publish called %d times, want at least 5", a.published)
	}
	draws := 0
	for _, c := range r.calls {
		if c == "draw" {
			draws++
		}
	}
	if draws != a.published {
		t.Errorf("%d draws for %d published frames", draws, a.published)
	}
}

func TestRequestRenderCoalesces(t *testing.T) {
	v := New(nil)
	a := newLoopbackApp(0)
	v.app = a
	v.RequestRender()
	v.RequestRender()
	v.RequestRender()
	if len(a.sent) != 1 {
		t.Fatalf("sent %d events, want 1", len(a.sent))
	}

	if _, err := v.handle(a, a.Filter(<-a.events)); err != nil {
		t.Fatal(err)
	}
	v.RequestRender()
	if len(a.sent) != 2 {
		t.Errorf("sent %d events after the queued paint was handled, want 2", len(a.sent))
	}
}

func TestRunStopsOnLifecycleError(t *testing.T) {
	boom := errors.New("no shaders")
	r := &recorder{err: boom}
	v, _ := newTestView(t, r, nil)

	a := newFakeApp(visible(&fakeGL{}), paint.Event{})
	if err := v.Run(a); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if !reflect.DeepEqual(r.calls, []string{"created"}) {
		t.Errorf("calls = %v", r.calls)
	}
}

func TestRunRequiresGLContext(t *testing.T) {
	v, _ := newTestView(t, &recorder{}, nil)
	a := newFakeApp(lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageVisible})
	if err := v.Run(a); !errors.Is(err, ErrNoGLContext) {
		t.Errorf("Run() error = %v, want ErrNoGLContext", err)
	}
}

func TestRunWithoutRenderer(t *testing.T) {
	if err := New(nil).Run(newFakeApp()); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("Run() error = %v, want ErrNoRenderer", err)
	}
}

func TestWillNotDrawSkipsPaint(t *testing.T) {
	r := &recorder{}
	v, _ := newTestView(t, r, nil)
	v.SetWillNotDraw(true)

	a := newFakeApp(visible(&fakeGL{}), paint.Event{})
	if err := v.Run(a); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.calls, []string{"created"}) {
		t.Errorf("calls = %v", r.calls)
	}
}

func TestTouchDelivery(t *testing.T) {
	input := &pointerLog{}
	v, _ := newTestView(t, &recorder{}, input)

	a := newFakeApp(
		touch.Event{X: 10, Y: 20, Sequence: 0, Type: touch.TypeBegin},
		touch.Event{X: 50, Y: 60, Sequence: 1, Type: touch.TypeBegin},
		touch.Event{X: 12, Y: 22, Sequence: 0, Type: touch.TypeMove},
		touch.Event{X: 12, Y: 22, Sequence: 0, Type: touch.TypeEnd},
		touch.Event{X: 50, Y: 60, Sequence: 1, Type: touch.TypeEnd},
	)
	if err := v.Run(a); err != nil {
		t.Fatal(err)
	}
	if len(input.events) != 5 {
		t.Fatalf("delivered %d events, want 5", len(input.events))
	}

	tests := []struct {
		typ     gpucontext.PointerEventType
		id      int
		primary bool
		x, y    float64
	}{
		{gpucontext.PointerDown, 1, true, 10, 20},
		{gpucontext.PointerDown, 2, false, 50, 60},
		{gpucontext.PointerMove, 1, true, 12, 22},
		{gpucontext.PointerUp, 1, true, 12, 22},
		{gpucontext.PointerUp, 2, false, 50, 60},
	}
	for i, tt := range tests {
		ev := input.events[i]
		if ev.Type != tt.typ || ev.PointerID != tt.id || ev.IsPrimary != tt.primary || ev.X != tt.x || ev.Y != tt.y {
			t.Errorf("event %d = %+v, want %+v", i, ev, tt)
		}
		if ev.PointerType != gpucontext.PointerTypeTouch {
			t.Errorf("event %d pointer type = %v", i, ev.PointerType)
		}
	}
	if input.events[0].Buttons != gpucontext.ButtonsLeft || input.events[3].Buttons != gpucontext.ButtonsNone {
		t.Error("button state not tracked")
	}
}

func TestRequestRenderSendsPaint(t *testing.T) {
	v := New(nil)
	v.RequestRender() // before Run: no app, no panic

	a := newFakeApp()
	v.app = a
	v.RequestRender()
	if len(a.sent) != 1 {
		t.Fatalf("sent = %v", a.sent)
	}
	if _, ok := a.sent[0].(paint.Event); !ok {
		t.Errorf("sent %T, want paint.Event", a.sent[0])
	}
}

func TestConfigurationRecorded(t *testing.T) {
	v, _ := newTestView(t, &recorder{}, nil)
	if !v.preserve || v.config != glrender.DefaultSurfaceConfig || v.mode != glrender.RenderModeContinuously {
		t.Errorf("preserve = %v, config = %+v, mode = %v", v.preserve, v.config, v.mode)
	}
	if err := v.SetContextClientVersion(4); err == nil {
		t.Error("ES 4 accepted")
	}
	if x, y := v.LocationOnScreen(); x != 0 || y != 0 {
		t.Errorf("LocationOnScreen() = %d,%d", x, y)
	}
}
