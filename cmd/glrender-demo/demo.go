package main

import (
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/gogpu/glrender"
	"github.com/gogpu/glrender/capture"
	"github.com/gogpu/glrender/input"
	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/exp/f32"
)

const (
	fieldOfView = f32.Radian(0.9)
	nearPlane   = 0.1
	farPlane    = 50.0

	// radians per second
	spinRate = 0.8

	checkerSize  = 64
	checkerTiles = 8
)

// fullscreenQuad covers clip space as a triangle strip.
var fullscreenQuad = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// tapSource is the part of input.TapHelper the demo reads.
type tapSource interface {
	Poll() (input.Tap, bool)
}

// demo renders a textured cube over a gradient, either straight to the
// window or through an offscreen framebuffer.
type demo struct {
	taps      tapSource
	saver     *capture.Saver
	offscreen bool
	quit      atomic.Bool
	done      func()
	start     time.Time

	cube       *glrender.Mesh
	cubeShader *glrender.Shader
	checker    *glrender.Texture
	quadBuf    *glrender.VertexBuffer
	quad       *glrender.Mesh
	gradient   *glrender.Shader
	blit       *glrender.Shader
	fb         *glrender.Framebuffer
	aspect     float32
}

var _ glrender.Renderer = (*demo)(nil)

func newDemo(taps tapSource, saver *capture.Saver, offscreen bool, done func()) *demo {
	if done == nil {
		done = func() {}
	}
	return &demo{
		taps:      taps,
		saver:     saver,
		offscreen: offscreen,
		done:      done,
		aspect:    1,
	}
}

// requestQuit asks the render goroutine to finish at the next frame. It is
// safe to call from any goroutine.
func (d *demo) requestQuit() {
	d.quit.Store(true)
}

func (d *demo) OnSurfaceCreated(rc *glrender.Context) error {
	var err error
	if d.cube, err = glrender.NewMeshFromAsset(rc, "models/cube.obj"); err != nil {
		return err
	}
	d.cubeShader, err = glrender.NewShaderFromAssets(rc, "shaders/cube.vert", "shaders/cube.frag",
		map[string]string{"AMBIENT": "0.35"})
	if err != nil {
		return err
	}
	d.cubeShader.SetDepthTest(true).SetCullMode(gputypes.CullModeNone)
	if err := d.cubeShader.SetVec3("u_light", 0.4, 0.8, 1); err != nil {
		return err
	}

	if d.checker, err = glrender.NewTexture(rc, glrender.Texture2D, gputypes.AddressModeRepeat, true); err != nil {
		return err
	}
	if err := d.checker.Upload(checkerImage(checkerSize, checkerTiles), glrender.ColorFormatSRGB); err != nil {
		return err
	}
	if err := d.cubeShader.SetTexture("u_texture", d.checker); err != nil {
		return err
	}

	if d.quadBuf, err = glrender.NewVertexBuffer(rc, 2, fullscreenQuad); err != nil {
		return err
	}
	if d.quad, err = glrender.NewMesh(rc, gputypes.PrimitiveTopologyTriangleStrip, nil, d.quadBuf); err != nil {
		return err
	}
	if d.gradient, err = glrender.NewShaderFromAssets(rc, "shaders/gradient.wgsl", "shaders/gradient.wgsl", nil); err != nil {
		return err
	}
	if d.blit, err = glrender.NewShaderFromAssets(rc, "shaders/blit.vert", "shaders/blit.frag", nil); err != nil {
		return err
	}

	d.start = time.Now()
	logger.Info("demo scene loaded")
	return nil
}

func (d *demo) OnSurfaceChanged(rc *glrender.Context, width, height int) error {
	if height > 0 {
		d.aspect = float32(width) / float32(height)
	}
	if d.fb == nil {
		fb, err := glrender.NewFramebuffer(rc, width, height)
		if err != nil {
			return err
		}
		d.fb = fb
		return d.blit.SetTexture("u_texture", fb.ColorTexture())
	}
	if err := d.fb.Resize(rc, width, height); err != nil {
		return err
	}
	// Resize reallocates the color attachment.
	return d.blit.SetTexture("u_texture", d.fb.ColorTexture())
}

func (d *demo) OnDrawFrame(rc *glrender.Context) error {
	d.pollTaps()

	mvp := cubeTransform(float32(time.Since(d.start).Seconds())*spinRate, d.aspect)
	if err := d.cubeShader.SetTransform("u_mvp", mvp); err != nil {
		return err
	}

	var target glrender.RenderTarget
	if d.offscreen && d.fb != nil {
		target = d.fb
		if err := rc.Clear(target, 0, 0, 0, 1); err != nil {
			return err
		}
	}
	if err := rc.DrawTo(d.quad, d.gradient, target); err != nil {
		return err
	}
	if err := rc.DrawTo(d.cube, d.cubeShader, target); err != nil {
		return err
	}
	if target != nil {
		if err := rc.Draw(d.quad, d.blit); err != nil {
			return err
		}
	}

	if d.quit.Load() {
		return d.finish(rc, target)
	}
	return nil
}

// pollTaps drains the tap queue; every tap toggles the offscreen pass.
func (d *demo) pollTaps() {
	if d.taps == nil {
		return
	}
	for {
		tap, ok := d.taps.Poll()
		if !ok {
			return
		}
		d.offscreen = !d.offscreen
		logger.Info("offscreen pass toggled", "enabled", d.offscreen, "x", tap.X, "y", tap.Y)
	}
}

// finish captures the frame just drawn, closes the session and releases
// the scene.
func (d *demo) finish(rc *glrender.Context, target glrender.RenderTarget) error {
	var err error
	if d.saver != nil {
		_, err = d.saver.Capture(rc, target)
	}
	rc.CloseSession()
	err = errors.Join(err, d.release())
	d.done()
	return err
}

func (d *demo) release() error {
	var closers []interface{ Close() error }
	if d.fb != nil {
		closers = append(closers, d.fb)
	}
	if d.blit != nil {
		closers = append(closers, d.blit)
	}
	if d.gradient != nil {
		closers = append(closers, d.gradient)
	}
	if d.quad != nil {
		closers = append(closers, d.quad)
	}
	if d.quadBuf != nil {
		closers = append(closers, d.quadBuf)
	}
	if d.checker != nil {
		closers = append(closers, d.checker)
	}
	if d.cubeShader != nil {
		closers = append(closers, d.cubeShader)
	}
	if d.cube != nil {
		closers = append(closers, d.cube)
	}

	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// checkerImage returns a size x size texture of tiles x tiles squares.
func checkerImage(size, tiles int) *image.RGBA {
	light := color.RGBA{R: 0xe8, G: 0xc5, B: 0x6a, A: 0xff}
	dark := color.RGBA{R: 0x3a, G: 0x2f, B: 0x5b, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	step := max(size/tiles, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dark
			if (x/step+y/step)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// perspective sets m to a row-major GL projection matrix.
func perspective(m *f32.Mat4, fov f32.Radian, aspect, near, far float32) {
	f := 1 / f32.Tan(float32(fov)/2)
	*m = f32.Mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, (far + near) / (near - far), 2 * far * near / (near - far)},
		{0, 0, -1, 0},
	}
}

// cubeTransform returns the model-view-projection matrix of the cube
// turned by angle radians, three units in front of the camera.
func cubeTransform(angle, aspect float32) *f32.Mat4 {
	var m f32.Mat4
	perspective(&m, fieldOfView, aspect, nearPlane, farPlane)
	m.Translate(&m, 0, 0, -3)
	m.Rotate(&m, f32.Radian(angle), &f32.Vec3{0.4, 1, 0.2})
	return &m
}
