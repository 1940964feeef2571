// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present mirrors composited viewer frames into a GPU texture
// for hosts that draw with gogpu.
//
// The viewer composites on the CPU; present owns the CPU-to-GPU leg:
// it keeps one texture per target, uploads a frame only when it
// changed, and recreates the texture when the frame size changes.
//
// Basic usage:
//
//	target, err := present.New(app.GPUContextProvider(), 800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer target.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//		target.Update(viewer.Snapshot())
//		target.Present(dc.AsTextureDrawer())
//	})
//
// A Target is NOT safe for concurrent use. Drive it from the host's
// draw callback only.
package present
