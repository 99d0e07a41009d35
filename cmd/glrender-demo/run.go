package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/gogpu/glrender"
	"github.com/gogpu/glrender/capture"
	"github.com/gogpu/glrender/host/glfwview"
	"github.com/gogpu/glrender/input"
	"github.com/gogpu/gpucontext"
	"github.com/pkg/profile"
	"github.com/urfave/cli"
)

//go:embed assets
var embedded embed.FS

// demoAssets serves the embedded assets directory at its root.
func demoAssets() (glrender.FSAssets, error) {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		return glrender.FSAssets{}, err
	}
	return glrender.FSAssets{FS: sub}, nil
}

// startProfile starts the profiler named by mode. An empty mode profiles
// nothing.
func startProfile(mode string) (interface{ Stop() }, error) {
	switch mode {
	case "":
		return nopStopper{}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu or mem)", mode)
	}
}

type nopStopper struct{}

func (nopStopper) Stop() {}

// newSaver returns a capture saver for dir, or nil when dir is empty.
func newSaver(dir, format string) (*capture.Saver, error) {
	if dir == "" {
		return nil, nil
	}
	f, err := capture.FormatFromPath("frame." + format)
	if err != nil {
		return nil, err
	}
	s := capture.NewSaver(dir)
	s.Format = f
	s.Logger = logger
	return s, nil
}

func runDemo(ctx *cli.Context) error {
	setupLogging(ctx)

	prof, err := startProfile(ctx.String("profile"))
	if err != nil {
		return err
	}
	defer prof.Stop()

	saver, err := newSaver(ctx.String("capture"), ctx.String("capture-format"))
	if err != nil {
		return err
	}
	assets, err := demoAssets()
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	taps := input.NewTapHelper(logger)
	scene := newDemo(taps, saver, ctx.Bool("offscreen"), cancel)

	view := glfwview.New(glfwview.Options{
		Width:  ctx.Int("width"),
		Height: ctx.Int("height"),
		Title:  ctx.String("title"),
		Logger: logger,
		OnKey: func(key gpucontext.Key, _ gpucontext.Modifiers) {
			if key == gpucontext.KeyEscape {
				scene.requestQuit()
			}
		},
	})
	if _, err := glrender.New(view, scene, assets, taps, glrender.WithLogger(logger)); err != nil {
		return err
	}

	logger.Info("starting demo", "offscreen", ctx.Bool("offscreen"), "capture", ctx.String("capture"))
	if err := view.Run(runCtx); err != nil {
		return err
	}
	if n := taps.Dropped(); n > 0 {
		logger.Warn("taps dropped during run", "count", n)
	}
	return nil
}
