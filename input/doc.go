// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input provides pointer handlers for glrender hosts.
//
// A host delivers pointer events on its event goroutine while the renderer
// runs on the render goroutine. TapHelper bridges the two: it recognises
// single taps as they arrive and queues them until the renderer polls.
//
//	taps := input.NewTapHelper(nil)
//	rc, err := glrender.New(view, renderer, assets, taps)
//	...
//	// in OnDrawFrame
//	for tap, ok := taps.Poll(); ok; tap, ok = taps.Poll() {
//	    handleTap(tap.X, tap.Y)
//	}
package input
