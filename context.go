package glrender

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/mobile/gl"
)

// contextClientVersion is the graphics API major version requested from
// the host (OpenGL ES 3).
const contextClientVersion = 3

// Context binds a HostView to a Renderer.
//
// The Context configures the view once in New, then relays the host's
// lifecycle signals to the Renderer and offers a few helpers (Clear, Draw,
// DrawTo) that target either the default surface or an offscreen
// RenderTarget.
//
// Except for CloseSession, Closing, ViewportSize and the WindowProvider
// methods, Context methods must be called from the host's render
// goroutine, normally from inside a Renderer callback.
type Context struct {
	view     HostView
	renderer Renderer
	assets   AssetSource
	logger   *slog.Logger

	// glctx is the graphics context handed over by the latest lifecycle
	// signal. Only touched on the render goroutine.
	glctx gl.Context

	width   atomic.Int32
	height  atomic.Int32
	closing atomic.Bool

	// shaderSources caches translated WGSL keyed by asset name and stage.
	shaderSources *lru.Cache[string, string]
}

var _ gpucontext.WindowProvider = (*Context)(nil)

// New configures view for rendering and returns the Context that drives r.
//
// The view is asked to preserve its graphics context on pause, to create
// an OpenGL ES 3 context with DefaultSurfaceConfig, to deliver input to
// input, to render continuously and to draw itself. assets may be nil when
// the renderer loads nothing from assets; input may be nil to disable
// input delivery.
//
// New fails if view or r is nil, or if the view rejects part of the
// configuration.
func New(view HostView, r Renderer, assets AssetSource, input InputHandler, opts ...Option) (*Context, error) {
	if view == nil {
		return nil, ErrNilView
	}
	if r == nil {
		return nil, ErrNilRenderer
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := lru.New[string, string](o.shaderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("glrender: shader cache: %w", err)
	}

	c := &Context{
		view:          view,
		renderer:      r,
		assets:        assets,
		logger:        o.logger,
		shaderSources: cache,
	}
	c.width.Store(int32(o.initialWidth))
	c.height.Store(int32(o.initialHeight))

	view.SetPreserveContextOnPause(true)
	if err := view.SetContextClientVersion(contextClientVersion); err != nil {
		return nil, fmt.Errorf("glrender: set context client version %d: %w", contextClientVersion, err)
	}
	if err := view.SetSurfaceConfig(DefaultSurfaceConfig); err != nil {
		return nil, fmt.Errorf("glrender: set surface config: %w", err)
	}
	view.SetTouchListener(input)
	if err := view.SetRenderer(surfaceAdapter{c: c}); err != nil {
		return nil, fmt.Errorf("glrender: set renderer: %w", err)
	}
	view.SetRenderMode(RenderModeContinuously)
	view.SetWillNotDraw(false)

	return c, nil
}

func (c *Context) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// gl returns the current graphics context.
func (c *Context) gl() (gl.Context, error) {
	if c.glctx == nil {
		return nil, ErrNoGLContext
	}
	return c.glctx, nil
}

// assetSource returns the asset source shared with the resource loaders.
func (c *Context) assetSource() AssetSource {
	return c.assets
}

// Clear clears the color and depth buffers of target to (r, g, b, a).
// A nil target clears the default surface.
func (c *Context) Clear(target RenderTarget, r, g, b, a float32) error {
	glctx, err := c.gl()
	if err != nil {
		return err
	}
	if err := c.useFramebuffer(glctx, target); err != nil {
		return err
	}

	glctx.ClearColor(r, g, b, a)
	if err := checkGLError(glctx, "failed to set clear color", "glClearColor"); err != nil {
		return err
	}
	glctx.DepthMask(true)
	if err := checkGLError(glctx, "failed to enable depth writes", "glDepthMask"); err != nil {
		return err
	}
	glctx.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return checkGLError(glctx, "failed to clear framebuffer", "glClear")
}

// ClearColor is Clear with a gputypes.Color.
func (c *Context) ClearColor(target RenderTarget, col gputypes.Color) error {
	return c.Clear(target, float32(col.R), float32(col.G), float32(col.B), float32(col.A))
}

// Draw renders mesh with shader into the default surface.
func (c *Context) Draw(mesh Drawable, shader ShaderProgram) error {
	return c.DrawTo(mesh, shader, nil)
}

// DrawTo renders mesh with shader into target. A nil target draws to the
// default surface. The shader is activated before the mesh issues its
// draw call.
func (c *Context) DrawTo(mesh Drawable, shader ShaderProgram, target RenderTarget) error {
	glctx, err := c.gl()
	if err != nil {
		return err
	}
	if err := c.useFramebuffer(glctx, target); err != nil {
		return err
	}
	if err := shader.Use(); err != nil {
		return err
	}
	return mesh.DrawGeometry()
}

// useFramebuffer binds target and sets the viewport to its full size.
func (c *Context) useFramebuffer(glctx gl.Context, target RenderTarget) error {
	var (
		fb   gl.Framebuffer
		w, h int
	)
	if target == nil {
		w, h = c.ViewportSize()
	} else {
		fb = target.GLFramebuffer()
		w, h = target.Width(), target.Height()
	}

	glctx.BindFramebuffer(gl.FRAMEBUFFER, fb)
	if err := checkGLError(glctx, "failed to bind framebuffer", "glBindFramebuffer"); err != nil {
		return err
	}
	glctx.Viewport(0, 0, w, h)
	return checkGLError(glctx, "failed to set viewport", "glViewport")
}

// CloseSession stops user drawing. Frames still arrive and the default
// surface is still cleared to opaque black, but Renderer.OnDrawFrame is no
// longer called. A frame already in progress is not interrupted.
//
// CloseSession is safe to call from any goroutine, any number of times.
func (c *Context) CloseSession() {
	if !c.closing.Swap(true) {
		c.log().Info("glrender: session closing")
	}
}

// Closing reports whether CloseSession was called.
func (c *Context) Closing() bool {
	return c.closing.Load()
}

// ScreenLocation returns the view's top-left corner in screen pixels.
func (c *Context) ScreenLocation() (x, y int) {
	return c.view.LocationOnScreen()
}

// ViewportSize returns the default-target size last reported by the host.
func (c *Context) ViewportSize() (width, height int) {
	return int(c.width.Load()), int(c.height.Load())
}

// Size implements gpucontext.WindowProvider.
func (c *Context) Size() (width, height int) {
	return c.ViewportSize()
}

// ScaleFactor implements gpucontext.WindowProvider. Sizes reported by the
// host are already in physical pixels.
func (c *Context) ScaleFactor() float64 {
	return 1
}

// RequestRedraw implements gpucontext.WindowProvider by asking the host
// for another frame.
func (c *Context) RequestRedraw() {
	c.view.RequestRender()
}

// surfaceAdapter turns host lifecycle signals into Renderer calls.
type surfaceAdapter struct {
	c *Context
}

var _ SurfaceRenderer = surfaceAdapter{}

func (a surfaceAdapter) OnSurfaceCreated(glctx gl.Context) error {
	c := a.c
	c.glctx = glctx

	glctx.Enable(gl.BLEND)
	if err := checkGLError(glctx, "failed to enable blending", "glEnable"); err != nil {
		return err
	}
	c.log().Info("glrender: surface created")
	return c.renderer.OnSurfaceCreated(c)
}

func (a surfaceAdapter) OnSurfaceChanged(glctx gl.Context, width, height int) error {
	c := a.c
	c.glctx = glctx
	c.width.Store(int32(width))
	c.height.Store(int32(height))

	c.log().Debug("glrender: surface changed", "width", width, "height", height)
	return c.renderer.OnSurfaceChanged(c, width, height)
}

func (a surfaceAdapter) OnDrawFrame(glctx gl.Context) error {
	c := a.c
	c.glctx = glctx

	if err := c.Clear(nil, 0, 0, 0, 1); err != nil {
		return err
	}
	if c.closing.Load() {
		return nil
	}
	return c.renderer.OnDrawFrame(c)
}
