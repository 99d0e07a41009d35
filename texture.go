package glrender

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/gogpu/gputypes"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/mobile/gl"
)

// TextureTarget selects the texture binding point.
type TextureTarget int

const (
	// Texture2D is a regular two-dimensional texture.
	Texture2D TextureTarget = iota
	// TextureCubeMap is a six-faced cube map.
	TextureCubeMap
)

func (t TextureTarget) glEnum() gl.Enum {
	if t == TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// ColorFormat selects how uploaded color data is interpreted.
type ColorFormat int

const (
	// ColorFormatLinear stores texels as linear RGBA8.
	ColorFormatLinear ColorFormat = iota
	// ColorFormatSRGB stores texels as sRGB-encoded RGBA8; sampling
	// returns linear values.
	ColorFormatSRGB
)

func (f ColorFormat) internalFormat() int {
	if f == ColorFormatSRGB {
		return gl.SRGB8_ALPHA8
	}
	return gl.RGBA8
}

// Texture is a GL texture object owned by the caller.
type Texture struct {
	glctx   gl.Context
	tex     gl.Texture
	target  gl.Enum
	mipmaps bool
	width   int
	height  int
}

// NewTexture creates an empty texture with linear filtering and the given
// wrap mode on both axes. With mipmaps set, minification samples the mip
// chain generated on each Upload.
func NewTexture(rc *Context, target TextureTarget, wrap gputypes.AddressMode, mipmaps bool) (*Texture, error) {
	minFilter := gl.LINEAR
	if mipmaps {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	return newTexture(rc, target, glWrapMode(wrap), minFilter, gl.LINEAR, mipmaps)
}

func newTexture(rc *Context, target TextureTarget, wrap, minFilter, magFilter int, mipmaps bool) (*Texture, error) {
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}
	t := &Texture{
		glctx:   glctx,
		tex:     glctx.CreateTexture(),
		target:  target.glEnum(),
		mipmaps: mipmaps,
	}
	if err := t.setParameters(minFilter, magFilter, wrap); err != nil {
		t.glctx.DeleteTexture(t.tex)
		return nil, err
	}
	return t, nil
}

// NewTextureFromAsset decodes an image asset (PNG, JPEG, GIF, BMP or WebP)
// and uploads it into a new mipmapped 2D texture. Row 0 of the image is
// the first row of texel data.
func NewTextureFromAsset(rc *Context, name string, wrap gputypes.AddressMode, format ColorFormat) (*Texture, error) {
	data, err := rc.readAsset(name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
		}
		return nil, fmt.Errorf("glrender: decode %q: %w", name, err)
	}

	t, err := NewTexture(rc, Texture2D, wrap, true)
	if err != nil {
		return nil, err
	}
	if err := t.Upload(img, format); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Texture) setParameters(minFilter, magFilter, wrap int) error {
	glctx := t.glctx
	glctx.BindTexture(t.target, t.tex)
	if err := checkGLError(glctx, "failed to bind texture", "glBindTexture"); err != nil {
		return err
	}
	params := [...]struct {
		name  gl.Enum
		value int
	}{
		{gl.TEXTURE_MIN_FILTER, minFilter},
		{gl.TEXTURE_MAG_FILTER, magFilter},
		{gl.TEXTURE_WRAP_S, wrap},
		{gl.TEXTURE_WRAP_T, wrap},
	}
	for _, p := range params {
		glctx.TexParameteri(t.target, p.name, p.value)
		if err := checkGLError(glctx, "failed to set texture parameter", "glTexParameteri"); err != nil {
			return err
		}
	}
	return nil
}

// Upload replaces the texture contents with img, converted to RGBA.
// Only 2D textures accept uploads.
func (t *Texture) Upload(img image.Image, format ColorFormat) error {
	if t.target != gl.TEXTURE_2D {
		return errors.New("glrender: upload to non-2D texture")
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	return t.allocate(b.Dx(), b.Dy(), format.internalFormat(), gl.RGBA, gl.UNSIGNED_BYTE, rgba.Pix)
}

// allocate defines level 0 storage, optionally with data, and regenerates
// mipmaps when enabled.
func (t *Texture) allocate(width, height, internalFormat int, format, ty gl.Enum, data []byte) error {
	glctx := t.glctx
	glctx.BindTexture(t.target, t.tex)
	if err := checkGLError(glctx, "failed to bind texture", "glBindTexture"); err != nil {
		return err
	}
	glctx.TexImage2D(t.target, 0, internalFormat, width, height, format, ty, data)
	if err := checkGLError(glctx, "failed to upload texture", "glTexImage2D"); err != nil {
		return err
	}
	t.width, t.height = width, height

	if t.mipmaps && data != nil {
		glctx.GenerateMipmap(t.target)
		if err := checkGLError(glctx, "failed to generate mipmaps", "glGenerateMipmap"); err != nil {
			return err
		}
	}
	return nil
}

// toRGBA returns img as a tightly packed *image.RGBA with origin (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// GLTexture returns the underlying texture object.
func (t *Texture) GLTexture() gl.Texture { return t.tex }

// Width returns the level 0 width, or 0 before the first upload.
func (t *Texture) Width() int { return t.width }

// Height returns the level 0 height, or 0 before the first upload.
func (t *Texture) Height() int { return t.height }

// Close deletes the texture object.
func (t *Texture) Close() error {
	t.glctx.DeleteTexture(t.tex)
	return checkGLError(t.glctx, "failed to delete texture", "glDeleteTexture")
}
