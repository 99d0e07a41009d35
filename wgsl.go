package glrender

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

func (s ShaderStage) irStage() ir.ShaderStage {
	if s == StageFragment {
		return ir.StageFragment
	}
	return ir.StageVertex
}

// TranslateWGSL translates the first entry point of the given stage in a
// WGSL module into GLSL ES 3.00 source. Clip-space output of vertex
// shaders is adjusted to GL conventions.
func TranslateWGSL(source string, stage ShaderStage) (string, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return "", fmt.Errorf("glrender: wgsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return "", fmt.Errorf("glrender: wgsl: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return "", fmt.Errorf("glrender: wgsl validation: %w", err)
	}
	if len(verrs) > 0 {
		return "", fmt.Errorf("glrender: wgsl validation: %s", verrs[0].Message)
	}

	entry := ""
	for _, ep := range module.EntryPoints {
		if ep.Stage == stage.irStage() {
			entry = ep.Name
			break
		}
	}
	if entry == "" {
		return "", fmt.Errorf("glrender: wgsl: no %s entry point", stage)
	}

	out, _, err := glsl.Compile(module, glsl.Options{
		LangVersion:        glsl.VersionES300,
		EntryPoint:         entry,
		ForceHighPrecision: true,
		WriterFlags:        glsl.WriterFlagAdjustCoordinateSpace,
	})
	if err != nil {
		return "", fmt.Errorf("glrender: wgsl to glsl (%s): %w", entry, err)
	}
	return out, nil
}

// stageSource loads the source of one shader stage from assets. WGSL
// assets (".wgsl") are translated to GLSL and the translation is cached
// per Context; other assets are returned as is.
func (c *Context) stageSource(name string, stage ShaderStage) (string, error) {
	if !strings.HasSuffix(name, ".wgsl") {
		data, err := c.readAsset(name)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	key := name + "#" + stage.String()
	if out, ok := c.shaderSources.Get(key); ok {
		return out, nil
	}
	data, err := c.readAsset(name)
	if err != nil {
		return "", err
	}
	out, err := TranslateWGSL(string(data), stage)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	c.shaderSources.Add(key, out)
	c.log().Debug("glrender: translated wgsl", "asset", name, "stage", stage.String())
	return out, nil
}
