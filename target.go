package glrender

import "golang.org/x/mobile/gl"

// RenderTarget is an offscreen destination for Clear and Draw.
//
// A nil RenderTarget always means the default output surface
// (framebuffer 0) at the size last reported by the host. The Context
// never owns a target; the caller keeps it alive across the draw.
type RenderTarget interface {
	// GLFramebuffer returns the framebuffer object to bind.
	GLFramebuffer() gl.Framebuffer

	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int
}

// Drawable is GPU-resident geometry that can issue its own draw call.
type Drawable interface {
	DrawGeometry() error
}

// ShaderProgram is GPU-resident program state activated before a draw.
type ShaderProgram interface {
	Use() error
}
