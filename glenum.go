package glrender

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/gl"
)

// glBlendFactor maps a gputypes blend factor to its GL enum.
func glBlendFactor(f gputypes.BlendFactor) (gl.Enum, error) {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO, nil
	case gputypes.BlendFactorOne:
		return gl.ONE, nil
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR, nil
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR, nil
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA, nil
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA, nil
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR, nil
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR, nil
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA, nil
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA, nil
	case gputypes.BlendFactorSrcAlphaSaturated:
		return gl.SRC_ALPHA_SATURATE, nil
	case gputypes.BlendFactorConstant:
		return gl.CONSTANT_COLOR, nil
	case gputypes.BlendFactorOneMinusConstant:
		return gl.ONE_MINUS_CONSTANT_COLOR, nil
	default:
		return 0, fmt.Errorf("glrender: unsupported blend factor %v", f)
	}
}

// glBlendOperation maps a gputypes blend operation to its GL equation.
func glBlendOperation(op gputypes.BlendOperation) (gl.Enum, error) {
	switch op {
	case gputypes.BlendOperationAdd, gputypes.BlendOperationUndefined:
		return gl.FUNC_ADD, nil
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT, nil
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT, nil
	case gputypes.BlendOperationMin:
		return gl.MIN, nil
	case gputypes.BlendOperationMax:
		return gl.MAX, nil
	default:
		return 0, fmt.Errorf("glrender: unsupported blend operation %v", op)
	}
}

// glCompareFunction maps a gputypes comparison to a GL depth function.
func glCompareFunction(f gputypes.CompareFunction) (gl.Enum, error) {
	switch f {
	case gputypes.CompareFunctionNever:
		return gl.NEVER, nil
	case gputypes.CompareFunctionLess:
		return gl.LESS, nil
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL, nil
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL, nil
	case gputypes.CompareFunctionGreater:
		return gl.GREATER, nil
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL, nil
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL, nil
	case gputypes.CompareFunctionAlways:
		return gl.ALWAYS, nil
	default:
		return 0, fmt.Errorf("glrender: unsupported compare function %v", f)
	}
}

// glCullFace maps a gputypes cull mode. The bool is false for CullModeNone.
func glCullFace(m gputypes.CullMode) (gl.Enum, bool) {
	switch m {
	case gputypes.CullModeFront:
		return gl.FRONT, true
	case gputypes.CullModeBack:
		return gl.BACK, true
	default:
		return 0, false
	}
}

// glPrimitive maps a gputypes topology to a GL draw mode.
func glPrimitive(t gputypes.PrimitiveTopology) (gl.Enum, error) {
	switch t {
	case gputypes.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES, nil
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES, nil
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP, nil
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS, nil
	default:
		return 0, fmt.Errorf("glrender: unsupported primitive topology %v", t)
	}
}

// glWrapMode maps a gputypes address mode to a GL wrap parameter.
func glWrapMode(m gputypes.AddressMode) int {
	switch m {
	case gputypes.AddressModeRepeat:
		return gl.REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}
