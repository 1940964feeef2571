// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the on-screen target a page viewer
// composites into.
//
// A Surface is a resizable pixel target: the compositor clears it,
// blits clipped page rasters into it, and snapshots it for export.
// The default implementation is a CPU ImageSurface backed by an
// *image.RGBA; alternative backends (for example a GPU presentation
// path) register themselves through the priority Registry.
//
// Example usage:
//
//	s, err := surface.New(800, 1000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.Blit(pageRaster, srcRect, image.Pt(0, 120))
//	img := s.Snapshot()
package surface
