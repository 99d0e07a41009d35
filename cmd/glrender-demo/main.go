// Command glrender-demo exercises the glrender stack: it renders a textured
// cube in a GLFW window, prints the surface configuration and translates
// WGSL shaders to GLSL ES.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "glrender-demo: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "glrender-demo"
	app.Usage = "drive a renderer through a glrender context"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and render the demo scene",
			Description: `
Render a textured, rotating cube over a gradient background. With --offscreen
the scene is drawn into a framebuffer first and blitted to the window.

Click (or tap) the window to toggle the offscreen pass. Escape closes the
session; with --capture the last frame is written to the given directory
before the window closes.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 800,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 600,
					Usage: "window height",
				},
				cli.StringFlag{
					Name:  "title",
					Value: "glrender demo",
					Usage: "window title",
				},
				cli.BoolFlag{
					Name:  "offscreen",
					Usage: "start with the offscreen pass enabled",
				},
				cli.StringFlag{
					Name:  "capture, c",
					Value: "",
					Usage: "write the last frame into this directory on exit",
				},
				cli.StringFlag{
					Name:  "capture-format",
					Value: "png",
					Usage: "capture encoding: png, bmp or tiff",
				},
				cli.StringFlag{
					Name:  "profile",
					Value: "",
					Usage: "record a cpu or mem profile",
				},
			},
			Action: runDemo,
		},
		{
			Name:   "info",
			Usage:  "print the surface configuration and state mappings",
			Action: printInfo,
		},
		{
			Name:      "translate",
			Usage:     "translate a WGSL shader to GLSL ES 3.00",
			ArgsUsage: "shader.wgsl",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "stage, s",
					Value: "vertex",
					Usage: "entry point stage: vertex or fragment",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "",
					Usage: "write the translation to this file instead of stdout",
				},
			},
			Action: translateShader,
		},
	}
	return app
}
