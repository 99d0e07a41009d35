package glrender

import (
	"image"

	"golang.org/x/mobile/gl"
)

// ReadPixels copies the color contents of target into a new image. A nil
// target reads the default surface. Rows are flipped so that row 0 of the
// image is the top of the target.
func (c *Context) ReadPixels(target RenderTarget) (*image.RGBA, error) {
	glctx, err := c.gl()
	if err != nil {
		return nil, err
	}
	if err := c.useFramebuffer(glctx, target); err != nil {
		return nil, err
	}

	w, h := c.ViewportSize()
	if target != nil {
		w, h = target.Width(), target.Height()
	}
	buf := make([]byte, 4*w*h)
	glctx.ReadPixels(buf, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE)
	if err := checkGLError(glctx, "failed to read pixels", "glReadPixels"); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := 4 * w
	for y := 0; y < h; y++ {
		src := buf[(h-1-y)*stride : (h-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}
