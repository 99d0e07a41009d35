package glrender

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/gl"
)

// glCall is one recorded graphics API call.
type glCall struct {
	name string
	args []any
}

func (c glCall) String() string {
	if len(c.args) == 0 {
		return c.name
	}
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = fmt.Sprint(a)
	}
	return c.name + "(" + strings.Join(parts, ",") + ")"
}

// fakeGL records every call the package makes. Calls not overridden here
// panic through the nil embedded interface, which flags unexpected use.
type fakeGL struct {
	gl.Context

	calls []glCall

	// failOn makes GetError report the code after the named call.
	failOn map[string]gl.Enum
	// stuck, when set, is returned by every GetError call.
	stuck   gl.Enum
	pending []gl.Enum

	nextName      uint32
	compileFails  bool
	linkFails     bool
	fbStatus      gl.Enum
	knownUniforms map[string]int32
	pixels        []byte
	getErrorCalls int
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		failOn:        make(map[string]gl.Enum),
		fbStatus:      gl.FRAMEBUFFER_COMPLETE,
		knownUniforms: make(map[string]int32),
	}
}

func (f *fakeGL) record(name string, args ...any) {
	f.calls = append(f.calls, glCall{name: name, args: args})
	if code, ok := f.failOn[name]; ok {
		f.pending = append(f.pending, code)
	}
}

func (f *fakeGL) newName() uint32 {
	f.nextName++
	return f.nextName
}

// names returns the recorded call names in order.
func (f *fakeGL) names() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.name)
	}
	return out
}

// find returns the recorded calls with the given name.
func (f *fakeGL) find(name string) []glCall {
	var out []glCall
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGL) reset() {
	f.calls = nil
	f.pending = nil
	f.getErrorCalls = 0
}

func (f *fakeGL) GetError() gl.Enum {
	f.getErrorCalls++
	if f.stuck != gl.NO_ERROR {
		return f.stuck
	}
	if len(f.pending) == 0 {
		return gl.NO_ERROR
	}
	code := f.pending[0]
	f.pending = f.pending[1:]
	return code
}

func (f *fakeGL) Enable(c gl.Enum)  { f.record("Enable", c) }
func (f *fakeGL) Disable(c gl.Enum) { f.record("Disable", c) }

func (f *fakeGL) ClearColor(r, g, b, a float32) { f.record("ClearColor", r, g, b, a) }
func (f *fakeGL) DepthMask(flag bool)           { f.record("DepthMask", flag) }
func (f *fakeGL) Clear(mask gl.Enum)            { f.record("Clear", mask) }

func (f *fakeGL) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	f.record("BindFramebuffer", fb.Value)
}

func (f *fakeGL) Viewport(x, y, w, h int) { f.record("Viewport", x, y, w, h) }

func (f *fakeGL) CreateTexture() gl.Texture {
	f.record("CreateTexture")
	return gl.Texture{Value: f.newName()}
}
func (f *fakeGL) BindTexture(target gl.Enum, t gl.Texture) { f.record("BindTexture", target, t.Value) }
func (f *fakeGL) TexParameteri(target, pname gl.Enum, param int) {
	f.record("TexParameteri", pname, param)
}
func (f *fakeGL) TexImage2D(target gl.Enum, level int, internalFormat int, width, height int, format gl.Enum, ty gl.Enum, data []byte) {
	f.record("TexImage2D", internalFormat, width, height, len(data))
}
func (f *fakeGL) GenerateMipmap(target gl.Enum)        { f.record("GenerateMipmap") }
func (f *fakeGL) DeleteTexture(t gl.Texture)           { f.record("DeleteTexture", t.Value) }
func (f *fakeGL) ActiveTexture(texture gl.Enum)        { f.record("ActiveTexture", texture) }
func (f *fakeGL) DeleteFramebuffer(fb gl.Framebuffer) { f.record("DeleteFramebuffer", fb.Value) }

func (f *fakeGL) CreateFramebuffer() gl.Framebuffer {
	f.record("CreateFramebuffer")
	return gl.Framebuffer{Value: f.newName()}
}
func (f *fakeGL) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	f.record("FramebufferTexture2D", attachment, t.Value)
}
func (f *fakeGL) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	f.record("CheckFramebufferStatus")
	return f.fbStatus
}

func (f *fakeGL) CreateBuffer() gl.Buffer {
	f.record("CreateBuffer")
	return gl.Buffer{Value: f.newName()}
}
func (f *fakeGL) BindBuffer(target gl.Enum, b gl.Buffer) { f.record("BindBuffer", target, b.Value) }
func (f *fakeGL) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	f.record("BufferData", target, len(src))
}
func (f *fakeGL) DeleteBuffer(b gl.Buffer) { f.record("DeleteBuffer", b.Value) }

func (f *fakeGL) CreateVertexArray() gl.VertexArray {
	f.record("CreateVertexArray")
	return gl.VertexArray{Value: f.newName()}
}
func (f *fakeGL) BindVertexArray(va gl.VertexArray)   { f.record("BindVertexArray", va.Value) }
func (f *fakeGL) DeleteVertexArray(va gl.VertexArray) { f.record("DeleteVertexArray", va.Value) }
func (f *fakeGL) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.record("VertexAttribPointer", dst.Value, size)
}
func (f *fakeGL) EnableVertexAttribArray(a gl.Attrib) { f.record("EnableVertexAttribArray", a.Value) }
func (f *fakeGL) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	f.record("DrawElements", mode, count, ty)
}
func (f *fakeGL) DrawArrays(mode gl.Enum, first, count int) { f.record("DrawArrays", mode, first, count) }

func (f *fakeGL) CreateShader(ty gl.Enum) gl.Shader {
	f.record("CreateShader", ty)
	return gl.Shader{Value: f.newName()}
}
func (f *fakeGL) ShaderSource(s gl.Shader, src string) { f.record("ShaderSource", src) }
func (f *fakeGL) CompileShader(s gl.Shader)            { f.record("CompileShader") }
func (f *fakeGL) GetShaderi(s gl.Shader, pname gl.Enum) int {
	if f.compileFails {
		return gl.FALSE
	}
	return gl.TRUE
}
func (f *fakeGL) GetShaderInfoLog(s gl.Shader) string { return "0:1: syntax error" }
func (f *fakeGL) DeleteShader(s gl.Shader)            { f.record("DeleteShader", s.Value) }

func (f *fakeGL) CreateProgram() gl.Program {
	f.record("CreateProgram")
	return gl.Program{Init: true, Value: f.newName()}
}
func (f *fakeGL) AttachShader(p gl.Program, s gl.Shader) { f.record("AttachShader", s.Value) }
func (f *fakeGL) LinkProgram(p gl.Program)               { f.record("LinkProgram") }
func (f *fakeGL) GetProgrami(p gl.Program, pname gl.Enum) int {
	if f.linkFails {
		return gl.FALSE
	}
	return gl.TRUE
}
func (f *fakeGL) GetProgramInfoLog(p gl.Program) string { return "link error: missing main" }
func (f *fakeGL) DeleteProgram(p gl.Program)            { f.record("DeleteProgram", p.Value) }
func (f *fakeGL) UseProgram(p gl.Program)               { f.record("UseProgram", p.Value) }

func (f *fakeGL) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	if loc, ok := f.knownUniforms[name]; ok {
		return gl.Uniform{Value: loc}
	}
	return gl.Uniform{Value: -1}
}
func (f *fakeGL) Uniform1i(dst gl.Uniform, v int)              { f.record("Uniform1i", dst.Value, v) }
func (f *fakeGL) Uniform1f(dst gl.Uniform, v float32)          { f.record("Uniform1f", dst.Value, v) }
func (f *fakeGL) Uniform1fv(dst gl.Uniform, src []float32)     { f.record("Uniform1fv", dst.Value, src) }
func (f *fakeGL) Uniform2f(dst gl.Uniform, v0, v1 float32)     { f.record("Uniform2f", dst.Value, v0, v1) }
func (f *fakeGL) Uniform3f(dst gl.Uniform, v0, v1, v2 float32) { f.record("Uniform3f", dst.Value, v0, v1, v2) }
func (f *fakeGL) Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32) {
	f.record("Uniform4f", dst.Value, v0, v1, v2, v3)
}
func (f *fakeGL) UniformMatrix2fv(dst gl.Uniform, src []float32) { f.record("UniformMatrix2fv", dst.Value, src) }
func (f *fakeGL) UniformMatrix3fv(dst gl.Uniform, src []float32) { f.record("UniformMatrix3fv", dst.Value, src) }
func (f *fakeGL) UniformMatrix4fv(dst gl.Uniform, src []float32) { f.record("UniformMatrix4fv", dst.Value, src) }

func (f *fakeGL) BlendFuncSeparate(sRGB, dRGB, sA, dA gl.Enum) {
	f.record("BlendFuncSeparate", sRGB, dRGB, sA, dA)
}
func (f *fakeGL) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	f.record("BlendEquationSeparate", modeRGB, modeAlpha)
}
func (f *fakeGL) BlendColor(r, g, b, a float32) { f.record("BlendColor", r, g, b, a) }
func (f *fakeGL) DepthFunc(fn gl.Enum)          { f.record("DepthFunc", fn) }
func (f *fakeGL) CullFace(mode gl.Enum)         { f.record("CullFace", mode) }

func (f *fakeGL) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	f.record("ReadPixels", x, y, width, height)
	copy(dst, f.pixels)
}
