// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package glfwview

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
)

// Options configures a View. Zero fields take defaults.
type Options struct {
	// Width and Height are the initial window size in screen coordinates.
	// Default 800x600.
	Width, Height int

	// Title is the window title. Default "glrender".
	Title string

	// SwapInterval is passed to glfwSwapInterval. Default 1 (vsync).
	// Negative values disable vsync.
	SwapInterval int

	// OnKey receives key presses and repeats on the main thread.
	OnKey func(key gpucontext.Key, mods gpucontext.Modifiers)

	// Logger receives host diagnostics. Default slog.Default().
	Logger *slog.Logger
}

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultTitle  = "glrender"
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Title == "" {
		o.Title = defaultTitle
	}
	switch {
	case o.SwapInterval == 0:
		o.SwapInterval = 1
	case o.SwapInterval < 0:
		o.SwapInterval = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
