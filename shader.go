package glrender

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

// Shader is a linked GL program together with the fixed-function state and
// uniform values applied every time it is used.
//
// Uniform setters record values; nothing reaches the GPU until Use, which
// Context.Draw and Context.DrawTo call. A Shader is tied to the Context
// that created it and, like it, must only be used on the render goroutine.
//
// Example:
//
//	shader, err := glrender.NewShaderFromAssets(rc, "shaders/mesh.vert", "shaders/mesh.frag",
//	    map[string]string{"USE_LIGHTING": "1"})
//	if err != nil {
//	    return err
//	}
//	shader.SetDepthTest(true).SetCullMode(gputypes.CullModeBack)
//	if err := shader.SetTexture("uAlbedo", tex); err != nil {
//	    return err
//	}
type Shader struct {
	glctx   gl.Context
	program gl.Program

	depthTest     bool
	depthWrite    bool
	depthFunc     gputypes.CompareFunction
	cullMode      gputypes.CullMode
	blend         gputypes.BlendState
	blendConstant gputypes.Color

	locations map[string]gl.Uniform
	// uniformNames and textureNames keep insertion order so Use is
	// deterministic.
	uniformNames []string
	uniforms     map[string]uniformSetter
	textureNames []string
	textures     map[string]*Texture
}

var _ ShaderProgram = (*Shader)(nil)

type uniformSetter func(glctx gl.Context, loc gl.Uniform)

// NewShader compiles and links a program from GLSL ES sources. Each entry
// of defines is injected as "#define key value" after the #version line.
func NewShader(rc *Context, vertexSrc, fragmentSrc string, defines map[string]string) (*Shader, error) {
	return newShader(rc, "inline", vertexSrc, fragmentSrc, defines)
}

// NewShaderFromAssets is NewShader with sources read from assets.
// Assets named "*.wgsl" are translated to GLSL ES first; a single WGSL
// asset may serve as both stages.
func NewShaderFromAssets(rc *Context, vertexName, fragmentName string, defines map[string]string) (*Shader, error) {
	vs, err := rc.stageSource(vertexName, StageVertex)
	if err != nil {
		return nil, err
	}
	fs, err := rc.stageSource(fragmentName, StageFragment)
	if err != nil {
		return nil, err
	}
	return newShader(rc, vertexName+"+"+fragmentName, vs, fs, defines)
}

func newShader(rc *Context, sourceName, vertexSrc, fragmentSrc string, defines map[string]string) (*Shader, error) {
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}

	vs, err := compileShader(glctx, gl.VERTEX_SHADER, "vertex", sourceName, injectDefines(vertexSrc, defines))
	if err != nil {
		return nil, err
	}
	defer glctx.DeleteShader(vs)
	fs, err := compileShader(glctx, gl.FRAGMENT_SHADER, "fragment", sourceName, injectDefines(fragmentSrc, defines))
	if err != nil {
		return nil, err
	}
	defer glctx.DeleteShader(fs)

	program := glctx.CreateProgram()
	glctx.AttachShader(program, vs)
	glctx.AttachShader(program, fs)
	glctx.LinkProgram(program)
	if glctx.GetProgrami(program, gl.LINK_STATUS) == gl.FALSE {
		info := glctx.GetProgramInfoLog(program)
		glctx.DeleteProgram(program)
		return nil, &ShaderError{Stage: "link", Source: sourceName, Log: info}
	}
	if err := checkGLError(glctx, "failed to link program", "glLinkProgram"); err != nil {
		glctx.DeleteProgram(program)
		return nil, err
	}

	rc.log().Debug("glrender: shader linked", "source", sourceName)
	return &Shader{
		glctx:      glctx,
		program:    program,
		depthWrite: true,
		depthFunc:  gputypes.CompareFunctionLess,
		cullMode:   gputypes.CullModeNone,
		blend:      gputypes.BlendStateReplace(),
		locations:  make(map[string]gl.Uniform),
		uniforms:   make(map[string]uniformSetter),
		textures:   make(map[string]*Texture),
	}, nil
}

func compileShader(glctx gl.Context, ty gl.Enum, stage, sourceName, src string) (gl.Shader, error) {
	s := glctx.CreateShader(ty)
	glctx.ShaderSource(s, src)
	glctx.CompileShader(s)
	if glctx.GetShaderi(s, gl.COMPILE_STATUS) == gl.FALSE {
		info := glctx.GetShaderInfoLog(s)
		glctx.DeleteShader(s)
		return gl.Shader{}, &ShaderError{Stage: stage, Source: sourceName, Log: info}
	}
	if err := checkGLError(glctx, "failed to compile "+stage+" shader", "glCompileShader"); err != nil {
		glctx.DeleteShader(s)
		return gl.Shader{}, err
	}
	return s, nil
}

// injectDefines inserts one #define per entry, sorted by name, after the
// #version directive (or at the top when there is none).
func injectDefines(src string, defines map[string]string) string {
	if len(defines) == 0 {
		return src
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		fmt.Fprintf(&block, "#define %s %s\n", name, defines[name])
	}

	if strings.HasPrefix(strings.TrimLeft(src, " \t\r\n"), "#version") {
		trimmed := strings.TrimLeft(src, " \t\r\n")
		if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
			return trimmed[:nl+1] + block.String() + trimmed[nl+1:]
		}
		return trimmed + "\n" + block.String()
	}
	return block.String() + src
}

// SetDepthTest enables or disables depth testing.
func (s *Shader) SetDepthTest(enabled bool) *Shader {
	s.depthTest = enabled
	return s
}

// SetDepthWrite enables or disables depth buffer writes.
func (s *Shader) SetDepthWrite(enabled bool) *Shader {
	s.depthWrite = enabled
	return s
}

// SetDepthFunc sets the depth comparison. The default is CompareFunctionLess.
func (s *Shader) SetDepthFunc(fn gputypes.CompareFunction) *Shader {
	s.depthFunc = fn
	return s
}

// SetCullMode selects which faces are culled. The default culls nothing.
func (s *Shader) SetCullMode(mode gputypes.CullMode) *Shader {
	s.cullMode = mode
	return s
}

// SetBlend sets the blend state. The default replaces the destination.
func (s *Shader) SetBlend(state gputypes.BlendState) *Shader {
	s.blend = state
	return s
}

// SetBlendConstant sets the color used by BlendFactorConstant.
func (s *Shader) SetBlendConstant(c gputypes.Color) *Shader {
	s.blendConstant = c
	return s
}

func (s *Shader) location(name string) (gl.Uniform, error) {
	if loc, ok := s.locations[name]; ok {
		return loc, nil
	}
	loc := s.glctx.GetUniformLocation(s.program, name)
	if loc.Value < 0 {
		return gl.Uniform{}, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	s.locations[name] = loc
	return loc, nil
}

func (s *Shader) setUniform(name string, set uniformSetter) error {
	if _, err := s.location(name); err != nil {
		return err
	}
	if _, ok := s.uniforms[name]; !ok {
		s.uniformNames = append(s.uniformNames, name)
	}
	s.uniforms[name] = set
	return nil
}

// SetBool records a bool uniform.
func (s *Shader) SetBool(name string, v bool) error {
	i := 0
	if v {
		i = 1
	}
	return s.SetInt(name, i)
}

// SetInt records an int uniform.
func (s *Shader) SetInt(name string, v int) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform1i(loc, v) })
}

// SetFloat records a float uniform.
func (s *Shader) SetFloat(name string, v float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform1f(loc, v) })
}

// SetFloatArray records a float array uniform.
func (s *Shader) SetFloatArray(name string, v []float32) error {
	v = append([]float32(nil), v...)
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform1fv(loc, v) })
}

// SetVec2 records a vec2 uniform.
func (s *Shader) SetVec2(name string, x, y float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform2f(loc, x, y) })
}

// SetVec3 records a vec3 uniform.
func (s *Shader) SetVec3(name string, x, y, z float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform3f(loc, x, y, z) })
}

// SetVec4 records a vec4 uniform.
func (s *Shader) SetVec4(name string, x, y, z, w float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.Uniform4f(loc, x, y, z, w) })
}

// SetMat2 records a mat2 uniform given in column-major order.
func (s *Shader) SetMat2(name string, m [4]float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.UniformMatrix2fv(loc, m[:]) })
}

// SetMat3 records a mat3 uniform given in column-major order.
func (s *Shader) SetMat3(name string, m [9]float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.UniformMatrix3fv(loc, m[:]) })
}

// SetMat4 records a mat4 uniform given in column-major order.
func (s *Shader) SetMat4(name string, m [16]float32) error {
	return s.setUniform(name, func(glctx gl.Context, loc gl.Uniform) { glctx.UniformMatrix4fv(loc, m[:]) })
}

// SetTransform records a mat4 uniform from an f32.Mat4, which is stored
// row-major.
func (s *Shader) SetTransform(name string, m *f32.Mat4) error {
	var cm [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			cm[col*4+row] = m[row][col]
		}
	}
	return s.SetMat4(name, cm)
}

// SetTexture binds t to the sampler uniform name. Textures are assigned
// consecutive texture units in the order they were first set.
func (s *Shader) SetTexture(name string, t *Texture) error {
	if _, err := s.location(name); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("glrender: nil texture for sampler %q", name)
	}
	if _, ok := s.textures[name]; !ok {
		s.textureNames = append(s.textureNames, name)
	}
	s.textures[name] = t
	return nil
}

// Use implements ShaderProgram. It activates the program, applies the
// blend, depth and cull state, binds textures and uploads uniforms,
// checking for errors after every call.
func (s *Shader) Use() error {
	glctx := s.glctx
	glctx.UseProgram(s.program)
	if err := checkGLError(glctx, "failed to use program", "glUseProgram"); err != nil {
		return err
	}
	if err := s.applyBlend(); err != nil {
		return err
	}
	if err := s.applyDepth(); err != nil {
		return err
	}
	if err := s.applyCull(); err != nil {
		return err
	}

	for unit, name := range s.textureNames {
		t := s.textures[name]
		glctx.ActiveTexture(gl.Enum(gl.TEXTURE0 + unit))
		if err := checkGLError(glctx, "failed to select texture unit", "glActiveTexture"); err != nil {
			return err
		}
		glctx.BindTexture(t.target, t.tex)
		if err := checkGLError(glctx, "failed to bind texture "+name, "glBindTexture"); err != nil {
			return err
		}
		glctx.Uniform1i(s.locations[name], unit)
		if err := checkGLError(glctx, "failed to set sampler "+name, "glUniform1i"); err != nil {
			return err
		}
	}

	for _, name := range s.uniformNames {
		s.uniforms[name](glctx, s.locations[name])
		if err := checkGLError(glctx, "failed to set uniform "+name, "glUniform"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shader) applyBlend() error {
	glctx := s.glctx
	srcRGB, err := glBlendFactor(s.blend.Color.SrcFactor)
	if err != nil {
		return err
	}
	dstRGB, err := glBlendFactor(s.blend.Color.DstFactor)
	if err != nil {
		return err
	}
	srcA, err := glBlendFactor(s.blend.Alpha.SrcFactor)
	if err != nil {
		return err
	}
	dstA, err := glBlendFactor(s.blend.Alpha.DstFactor)
	if err != nil {
		return err
	}
	opRGB, err := glBlendOperation(s.blend.Color.Operation)
	if err != nil {
		return err
	}
	opA, err := glBlendOperation(s.blend.Alpha.Operation)
	if err != nil {
		return err
	}

	glctx.BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA)
	if err := checkGLError(glctx, "failed to set blend function", "glBlendFuncSeparate"); err != nil {
		return err
	}
	glctx.BlendEquationSeparate(opRGB, opA)
	if err := checkGLError(glctx, "failed to set blend equation", "glBlendEquationSeparate"); err != nil {
		return err
	}
	c := s.blendConstant
	glctx.BlendColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	return checkGLError(glctx, "failed to set blend color", "glBlendColor")
}

func (s *Shader) applyDepth() error {
	glctx := s.glctx
	if s.depthTest {
		glctx.Enable(gl.DEPTH_TEST)
		if err := checkGLError(glctx, "failed to enable depth test", "glEnable"); err != nil {
			return err
		}
		fn, err := glCompareFunction(s.depthFunc)
		if err != nil {
			return err
		}
		glctx.DepthFunc(fn)
		if err := checkGLError(glctx, "failed to set depth function", "glDepthFunc"); err != nil {
			return err
		}
	} else {
		glctx.Disable(gl.DEPTH_TEST)
		if err := checkGLError(glctx, "failed to disable depth test", "glDisable"); err != nil {
			return err
		}
	}
	glctx.DepthMask(s.depthWrite)
	return checkGLError(glctx, "failed to set depth writes", "glDepthMask")
}

func (s *Shader) applyCull() error {
	glctx := s.glctx
	face, ok := glCullFace(s.cullMode)
	if !ok {
		glctx.Disable(gl.CULL_FACE)
		return checkGLError(glctx, "failed to disable face culling", "glDisable")
	}
	glctx.Enable(gl.CULL_FACE)
	if err := checkGLError(glctx, "failed to enable face culling", "glEnable"); err != nil {
		return err
	}
	glctx.CullFace(face)
	return checkGLError(glctx, "failed to set cull face", "glCullFace")
}

// Close deletes the program.
func (s *Shader) Close() error {
	s.glctx.DeleteProgram(s.program)
	return checkGLError(s.glctx, "failed to delete program", "glDeleteProgram")
}
