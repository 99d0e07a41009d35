// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glfwview is a desktop glrender.HostView backed by a GLFW window
// with an OpenGL ES context created through EGL.
//
// Run must be called from the main goroutine. It locks the OS thread,
// creates the window and services the GL worker there, while the
// lifecycle signals run on a dedicated render goroutine:
//
//	func main() {
//	    view := glfwview.New(glfwview.Options{Title: "demo"})
//	    if _, err := glrender.New(view, renderer, assets, taps); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := view.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Mouse input is delivered to the touch listener as
// gpucontext.PointerEvent values. Positions are in framebuffer pixels so
// they line up with the default viewport.
package glfwview
