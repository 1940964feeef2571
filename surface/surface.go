// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Common errors returned by surface operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a
	// closed surface.
	ErrSurfaceClosed = errors.New("surface: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrNoBackend is returned when no registered backend is available.
	ErrNoBackend = errors.New("surface: no backend available")

	// ErrUnknownBackend is returned when a named backend is not registered.
	ErrUnknownBackend = errors.New("surface: unknown backend")
)

// Options configures surface creation.
type Options struct {
	// Width and Height are the initial pixel dimensions.
	Width  int
	Height int
}

// Surface is the compositing target abstraction.
//
// A Surface holds device pixels: callers that track layout pixels
// multiply by the device pixel ratio before calling. Surfaces are NOT
// thread-safe; the compositor owns its surface for the duration of a
// pass.
type Surface interface {
	// Width returns the surface width in device pixels.
	Width() int

	// Height returns the surface height in device pixels.
	Height() int

	// Resize changes the surface dimensions, discarding the previous
	// contents. A resize to the current dimensions is a no-op.
	Resize(width, height int) error

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// Blit copies the sub-rectangle sr of src onto the surface with
	// its top-left corner at dp. Source and destination are the same
	// scale; no resampling occurs.
	Blit(src *image.RGBA, sr image.Rectangle, dp image.Point)

	// BlitScaled resamples the sub-rectangle sr of src into the
	// destination rectangle dr. Used when source and destination
	// device pixel ratios differ.
	BlitScaled(src *image.RGBA, sr image.Rectangle, dr image.Rectangle)

	// Format returns the pixel format of the surface.
	Format() gputypes.TextureFormat

	// Snapshot returns the current surface contents as an RGBA image.
	// The returned image is a copy.
	Snapshot() *image.RGBA

	// Flush ensures all pending operations are complete. For CPU
	// surfaces this is a no-op; a GPU-backed surface may submit and
	// wait here.
	Flush() error

	// Close releases surface resources. Close is idempotent.
	Close() error
}
