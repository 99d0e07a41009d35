package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/glrender"
	"github.com/urfave/cli"
)

var errMissingShader = errors.New("missing WGSL shader argument")

func parseStage(name string) (glrender.ShaderStage, error) {
	switch name {
	case "vertex", "vs":
		return glrender.StageVertex, nil
	case "fragment", "fs":
		return glrender.StageFragment, nil
	default:
		return 0, fmt.Errorf("unknown shader stage %q (want vertex or fragment)", name)
	}
}

func translateShader(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errMissingShader
	}
	stage, err := parseStage(ctx.String("stage"))
	if err != nil {
		return err
	}
	path := ctx.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := glrender.TranslateWGSL(string(src), stage)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("translated shader", "file", path, "stage", stage.String(), "bytes", len(out))

	if dst := ctx.String("out"); dst != "" {
		return os.WriteFile(dst, []byte(out), 0o644)
	}
	_, err = fmt.Print(out)
	return err
}
