package glrender

import (
	"fmt"

	"golang.org/x/mobile/gl"
)

// Framebuffer is an offscreen RenderTarget with a color and a depth
// texture attachment.
//
// Example:
//
//	fb, err := glrender.NewFramebuffer(rc, 512, 512)
//	if err != nil {
//	    return err
//	}
//	if err := rc.Clear(fb, 0, 0, 0, 0); err != nil {
//	    return err
//	}
//	if err := rc.DrawTo(mesh, shader, fb); err != nil {
//	    return err
//	}
//	shader.SetTexture("uScene", fb.ColorTexture())
type Framebuffer struct {
	glctx  gl.Context
	fb     gl.Framebuffer
	color  *Texture
	depth  *Texture
	width  int
	height int
}

var _ RenderTarget = (*Framebuffer)(nil)

// NewFramebuffer creates a complete framebuffer of the given size.
func NewFramebuffer(rc *Context, width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}

	f := &Framebuffer{glctx: glctx, fb: glctx.CreateFramebuffer()}
	if err := f.allocate(rc, width, height); err != nil {
		_ = f.Close()
		return nil, err
	}
	rc.log().Debug("glrender: framebuffer created", "width", width, "height", height)
	return f, nil
}

// allocate creates attachments of the given size and attaches them. The
// framebuffer keeps its previous attachments and size unless every step
// succeeds; the default framebuffer is bound again on return.
func (f *Framebuffer) allocate(rc *Context, width, height int) (err error) {
	glctx := f.glctx
	var color, depth *Texture
	bound := false
	defer func() {
		if err == nil {
			return
		}
		for _, t := range []*Texture{color, depth} {
			if t != nil {
				_ = t.Close()
			}
		}
		if bound {
			if f.color != nil && f.depth != nil {
				_ = f.attach(f.color, f.depth)
			}
			glctx.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{})
			_ = checkGLError(glctx, "failed to restore default framebuffer", "glBindFramebuffer")
		}
	}()

	color, err = newTexture(rc, Texture2D, gl.CLAMP_TO_EDGE, gl.LINEAR, gl.LINEAR, false)
	if err != nil {
		return err
	}
	if err = color.allocate(width, height, gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil); err != nil {
		return err
	}

	// Float depth textures are not filterable in ES 3.0.
	depth, err = newTexture(rc, Texture2D, gl.CLAMP_TO_EDGE, gl.NEAREST, gl.NEAREST, false)
	if err != nil {
		return err
	}
	if err = depth.allocate(width, height, gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, nil); err != nil {
		return err
	}

	glctx.BindFramebuffer(gl.FRAMEBUFFER, f.fb)
	if err = checkGLError(glctx, "failed to bind framebuffer", "glBindFramebuffer"); err != nil {
		return err
	}
	bound = true
	if err = f.attach(color, depth); err != nil {
		return err
	}
	if status := glctx.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%x", ErrFramebufferIncomplete, uint32(status))
	}

	glctx.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{})
	if err = checkGLError(glctx, "failed to restore default framebuffer", "glBindFramebuffer"); err != nil {
		return err
	}
	bound = false

	oldColor, oldDepth := f.color, f.depth
	f.color, f.depth = color, depth
	f.width, f.height = width, height
	color, depth = nil, nil
	return closeTextures(oldColor, oldDepth)
}

// attach binds color and depth to the currently bound framebuffer.
func (f *Framebuffer) attach(color, depth *Texture) error {
	glctx := f.glctx
	glctx.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color.tex, 0)
	if err := checkGLError(glctx, "failed to attach color texture", "glFramebufferTexture2D"); err != nil {
		return err
	}
	glctx.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depth.tex, 0)
	return checkGLError(glctx, "failed to attach depth texture", "glFramebufferTexture2D")
}

// Resize reallocates the attachments. Resizing to the current size is a
// no-op; textures previously obtained from ColorTexture or DepthTexture
// are deleted otherwise. On failure the framebuffer keeps its previous
// attachments and size.
func (f *Framebuffer) Resize(rc *Context, width, height int) error {
	if width == f.width && height == f.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}
	return f.allocate(rc, width, height)
}

func closeTextures(textures ...*Texture) error {
	for _, t := range textures {
		if t == nil {
			continue
		}
		if err := t.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Framebuffer) deleteAttachments() error {
	if err := closeTextures(f.color, f.depth); err != nil {
		return err
	}
	f.color, f.depth = nil, nil
	return nil
}

// GLFramebuffer implements RenderTarget.
func (f *Framebuffer) GLFramebuffer() gl.Framebuffer { return f.fb }

// Width implements RenderTarget.
func (f *Framebuffer) Width() int { return f.width }

// Height implements RenderTarget.
func (f *Framebuffer) Height() int { return f.height }

// ColorTexture returns the color attachment.
func (f *Framebuffer) ColorTexture() *Texture { return f.color }

// DepthTexture returns the depth attachment.
func (f *Framebuffer) DepthTexture() *Texture { return f.depth }

// Close deletes the attachments and the framebuffer object.
func (f *Framebuffer) Close() error {
	if err := f.deleteAttachments(); err != nil {
		return err
	}
	f.glctx.DeleteFramebuffer(f.fb)
	return checkGLError(f.glctx, "failed to delete framebuffer", "glDeleteFramebuffer")
}
