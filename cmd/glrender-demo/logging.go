package main

import (
	"log/slog"
	"os"

	"github.com/gogpu/glrender"
	"github.com/urfave/cli"
)

var logger = glrender.Logger()

// logLevel maps the global verbosity flags to a level. Warnings and
// errors are always shown.
func logLevel(verbose, veryVerbose bool) slog.Level {
	switch {
	case veryVerbose:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func setupLogging(ctx *cli.Context) {
	level := logLevel(ctx.GlobalBool("v"), ctx.GlobalBool("vv"))
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	glrender.SetLogger(logger)
}
