package glrender

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/gl"
)

// HostView is the GUI surface a Context drives.
//
// The host owns the window (an Android surface view, a GLFW window, an
// x/mobile app) and the render goroutine. New configures it once; after
// that the host calls back into the SurfaceRenderer it was given, always
// from the same goroutine.
type HostView interface {
	// SetPreserveContextOnPause keeps the graphics context alive while the
	// view is paused.
	SetPreserveContextOnPause(preserve bool)

	// SetContextClientVersion selects the graphics API major version.
	SetContextClientVersion(version int) error

	// SetSurfaceConfig fixes the color, depth and stencil bit sizes.
	SetSurfaceConfig(cfg SurfaceConfig) error

	// SetTouchListener registers the handler that receives pointer input.
	// A nil handler disables input delivery.
	SetTouchListener(h InputHandler)

	// SetRenderer installs the lifecycle receiver.
	SetRenderer(r SurfaceRenderer) error

	// SetRenderMode selects continuous or on-demand frame delivery.
	SetRenderMode(mode RenderMode)

	// SetWillNotDraw tells the host whether the view draws itself.
	SetWillNotDraw(willNotDraw bool)

	// LocationOnScreen returns the view's top-left corner in screen pixels.
	LocationOnScreen() (x, y int)

	// RequestRender asks the host to deliver another frame.
	RequestRender()
}

// SurfaceRenderer receives lifecycle signals from a HostView.
// Each call hands over the graphics context that is current on the
// render goroutine.
type SurfaceRenderer interface {
	OnSurfaceCreated(glctx gl.Context) error
	OnSurfaceChanged(glctx gl.Context, width, height int) error
	OnDrawFrame(glctx gl.Context) error
}

// InputHandler receives pointer input forwarded by a HostView.
// It returns true when the event was consumed.
type InputHandler interface {
	HandlePointer(ev gpucontext.PointerEvent) bool
}

// SurfaceConfig describes the bit sizes of the default framebuffer.
type SurfaceConfig struct {
	Red, Green, Blue, Alpha int
	Depth, Stencil          int
}

// DefaultSurfaceConfig is the configuration every Context requests:
// 8-bit RGBA color, 16-bit depth and no stencil.
var DefaultSurfaceConfig = SurfaceConfig{
	Red: 8, Green: 8, Blue: 8, Alpha: 8,
	Depth:   16,
	Stencil: 0,
}

// ColorFormat returns the matching color texture format, or
// TextureFormatUndefined when no standard format has these bit sizes.
func (c SurfaceConfig) ColorFormat() gputypes.TextureFormat {
	if c.Red == 8 && c.Green == 8 && c.Blue == 8 && c.Alpha == 8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatUndefined
}

// DepthFormat returns the matching depth texture format.
func (c SurfaceConfig) DepthFormat() gputypes.TextureFormat {
	switch {
	case c.Depth == 16 && c.Stencil == 0:
		return gputypes.TextureFormatDepth16Unorm
	case c.Depth == 24 && c.Stencil == 8:
		return gputypes.TextureFormatDepth24PlusStencil8
	case c.Depth == 24 && c.Stencil == 0:
		return gputypes.TextureFormatDepth24Plus
	case c.Depth == 32 && c.Stencil == 0:
		return gputypes.TextureFormatDepth32Float
	default:
		return gputypes.TextureFormatUndefined
	}
}

// RenderMode selects how a HostView schedules frames.
type RenderMode int

const (
	// RenderModeWhenDirty draws only after RequestRender.
	RenderModeWhenDirty RenderMode = iota
	// RenderModeContinuously draws frames back to back.
	RenderModeContinuously
)

// String returns the mode name.
func (m RenderMode) String() string {
	switch m {
	case RenderModeWhenDirty:
		return "WhenDirty"
	case RenderModeContinuously:
		return "Continuously"
	default:
		return "Unknown"
	}
}
