package glrender

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mobile/gl"
)

// Common errors returned by glrender operations.
var (
	// ErrGLCall matches every *GLError via errors.Is.
	ErrGLCall = errors.New("glrender: graphics API call failed")

	// ErrNilView is returned by New when no host view is supplied.
	ErrNilView = errors.New("glrender: nil host view")

	// ErrNilRenderer is returned by New when no renderer is supplied.
	ErrNilRenderer = errors.New("glrender: nil renderer")

	// ErrNoGLContext is returned when an operation runs before the host
	// delivered its first lifecycle signal.
	ErrNoGLContext = errors.New("glrender: no graphics context")

	// ErrFramebufferIncomplete is returned when an offscreen framebuffer
	// fails its completeness check.
	ErrFramebufferIncomplete = errors.New("glrender: framebuffer incomplete")

	// ErrInvalidSize is returned for non-positive target dimensions.
	ErrInvalidSize = errors.New("glrender: invalid size")

	// ErrInvalidVertexData is returned when vertex data does not divide
	// into whole vertices.
	ErrInvalidVertexData = errors.New("glrender: invalid vertex data")

	// ErrUnknownUniform is returned when a shader has no active uniform
	// with the requested name.
	ErrUnknownUniform = errors.New("glrender: unknown uniform")

	// ErrUnsupportedImage is returned when a texture asset cannot be decoded.
	ErrUnsupportedImage = errors.New("glrender: unsupported image")
)

// maxQueuedErrors bounds how many pending error flags are drained after a
// failed call. Some drivers never clear the flag once the context is lost.
const maxQueuedErrors = 8

// GLError reports a graphics API call that left an error flag set.
//
// Reason describes what the caller was trying to do, Call names the API
// entry point and Codes holds every error flag that was pending, in the
// order GetError returned them.
type GLError struct {
	Reason string
	Call   string
	Codes  []gl.Enum
}

// Error implements the error interface.
func (e *GLError) Error() string {
	var b strings.Builder
	b.WriteString("glrender: ")
	if e.Reason != "" {
		b.WriteString(e.Reason)
		b.WriteString(": ")
	}
	b.WriteString(e.Call)
	b.WriteString(": ")
	for i, c := range e.Codes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (0x%x)", glErrorName(c), uint32(c))
	}
	return b.String()
}

// Code returns the first error flag reported for the call.
func (e *GLError) Code() gl.Enum {
	if len(e.Codes) == 0 {
		return gl.NO_ERROR
	}
	return e.Codes[0]
}

// Is reports whether target is ErrGLCall.
func (e *GLError) Is(target error) bool {
	return target == ErrGLCall
}

// checkGLError queries the error flag after a state-mutating call.
// It returns nil when the flag is clear.
func checkGLError(glctx gl.Context, reason, call string) error {
	code := glctx.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	codes := []gl.Enum{code}
	for len(codes) < maxQueuedErrors {
		next := glctx.GetError()
		if next == gl.NO_ERROR {
			break
		}
		codes = append(codes, next)
	}
	return &GLError{Reason: reason, Call: call, Codes: codes}
}

func glErrorName(code gl.Enum) string {
	switch code {
	case gl.NO_ERROR:
		return "GL_NO_ERROR"
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "GL_UNKNOWN_ERROR"
	}
}

// ShaderError reports a shader compile or program link failure.
type ShaderError struct {
	// Stage is "vertex", "fragment" or "link".
	Stage string
	// Source names where the shader came from (asset name or "inline").
	Source string
	// Log is the driver's info log.
	Log string
}

// Error implements the error interface.
func (e *ShaderError) Error() string {
	return fmt.Sprintf("glrender: %s shader %s failed: %s", e.Stage, e.Source, strings.TrimSpace(e.Log))
}
