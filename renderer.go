package glrender

// Renderer is the user callback set driven by a Context.
//
// All three methods run on the host's render goroutine. An error returned
// from any of them is passed back to the host unchanged.
type Renderer interface {
	// OnSurfaceCreated runs once the graphics context exists. Create GPU
	// resources here; they are lost if the host recreates the context.
	OnSurfaceCreated(rc *Context) error

	// OnSurfaceChanged runs after the default target was resized.
	OnSurfaceChanged(rc *Context, width, height int) error

	// OnDrawFrame runs once per frame, after the default target was
	// cleared to opaque black. It is skipped once CloseSession was called.
	OnDrawFrame(rc *Context) error
}

// RendererFuncs adapts plain functions to Renderer.
// Nil fields are no-ops.
//
// Example:
//
//	r := glrender.RendererFuncs{
//	    DrawFrame: func(rc *glrender.Context) error {
//	        return rc.Draw(mesh, shader)
//	    },
//	}
type RendererFuncs struct {
	SurfaceCreated func(rc *Context) error
	SurfaceChanged func(rc *Context, width, height int) error
	DrawFrame      func(rc *Context) error
}

var _ Renderer = RendererFuncs{}

// OnSurfaceCreated calls SurfaceCreated if set.
func (f RendererFuncs) OnSurfaceCreated(rc *Context) error {
	if f.SurfaceCreated == nil {
		return nil
	}
	return f.SurfaceCreated(rc)
}

// OnSurfaceChanged calls SurfaceChanged if set.
func (f RendererFuncs) OnSurfaceChanged(rc *Context, width, height int) error {
	if f.SurfaceChanged == nil {
		return nil
	}
	return f.SurfaceChanged(rc, width, height)
}

// OnDrawFrame calls DrawFrame if set.
func (f RendererFuncs) OnDrawFrame(rc *Context) error {
	if f.DrawFrame == nil {
		return nil
	}
	return f.DrawFrame(rc)
}
