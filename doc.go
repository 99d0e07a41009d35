// Package glrender binds a host GUI view to an OpenGL ES 3 context and
// drives a user renderer from the view's lifecycle.
//
// # Overview
//
// glrender is a thin adapter, not an engine. A host (an Android-style
// surface view, a GLFW window, an x/mobile app) owns the window and the
// render goroutine. The Context configures the host once, then relays
// three lifecycle signals to a Renderer:
//
//   - surface created: blending is enabled, then OnSurfaceCreated runs
//   - surface changed: the default target size is updated, then
//     OnSurfaceChanged runs
//   - draw frame: the default target is cleared to opaque black, then
//     OnDrawFrame runs unless CloseSession was called
//
// # Quick Start
//
//	r := glrender.RendererFuncs{
//	    SurfaceCreated: func(rc *glrender.Context) error {
//	        var err error
//	        mesh, err = glrender.NewMeshFromAsset(rc, "models/cube.obj")
//	        if err != nil {
//	            return err
//	        }
//	        shader, err = glrender.NewShaderFromAssets(rc, "shaders/cube.vert", "shaders/cube.frag", nil)
//	        return err
//	    },
//	    DrawFrame: func(rc *glrender.Context) error {
//	        return rc.Draw(mesh, shader)
//	    },
//	}
//	rc, err := glrender.New(view, r, assets, taps)
//
// # Targets
//
// Clear, Draw and DrawTo accept an optional RenderTarget. A nil target is
// the default surface at the size last reported by the host; a Framebuffer
// renders offscreen at its own size. Binding a target always resets the
// viewport to cover it.
//
// # Errors
//
// Every state-changing graphics call is followed by an error query. A set
// error flag ends the operation with a *GLError naming the call and its
// codes; errors.Is(err, ErrGLCall) matches it. Nothing is retried.
//
// # Resource Helpers
//
// Texture, Framebuffer, Shader, VertexBuffer, IndexBuffer and Mesh wrap the
// corresponding GL objects. Shader and Mesh implement ShaderProgram and
// Drawable, and can load WGSL or GLSL shaders and Wavefront OBJ meshes
// from the Context's AssetSource.
package glrender
