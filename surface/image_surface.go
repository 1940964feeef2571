// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
)

// ImageSurface is a CPU surface backed by an *image.RGBA.
//
// Same-scale blits use the stdlib draw fast paths; scaled blits use
// golang.org/x/image/draw with bilinear resampling. This is the
// default backend.
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA
	closed bool
}

func init() {
	Register("software", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height)
	}, nil)
}

// NewImageSurface creates a CPU surface with the given dimensions.
func NewImageSurface(width, height int) (*ImageSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &ImageSurface{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Width returns the surface width in device pixels.
func (s *ImageSurface) Width() int { return s.width }

// Height returns the surface height in device pixels.
func (s *ImageSurface) Height() int { return s.height }

// Resize reallocates the backing image. Contents are discarded.
func (s *ImageSurface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if width == s.width && height == s.height {
		return nil
	}
	s.width = width
	s.height = height
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Clear fills the surface with c.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Blit copies sr of src to dp without resampling.
func (s *ImageSurface) Blit(src *image.RGBA, sr image.Rectangle, dp image.Point) {
	if s.closed || src == nil {
		return
	}
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
	draw.Draw(s.img, dr, src, sr.Min, draw.Src)
}

// BlitScaled resamples sr of src into dr with bilinear filtering.
func (s *ImageSurface) BlitScaled(src *image.RGBA, sr image.Rectangle, dr image.Rectangle) {
	if s.closed || src == nil {
		return
	}
	xdraw.ApproxBiLinear.Scale(s.img, dr, src, sr, xdraw.Src, nil)
}

// Format returns the pixel format (RGBA8).
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Snapshot returns a copy of the surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Image returns the backing image without copying. The caller must
// not use it across a Resize.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Flush is a no-op for CPU surfaces.
func (s *ImageSurface) Flush() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	return nil
}

// Close releases the backing image. Close is idempotent.
func (s *ImageSurface) Close() error {
	s.closed = true
	s.img = nil
	return nil
}
