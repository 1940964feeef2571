// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by Target operations.
var (
	// ErrTargetClosed is returned when operations are attempted on a closed target.
	ErrTargetClosed = errors.New("present: target is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("present: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("present: nil DeviceProvider")

	// ErrInvalidRenderer is returned when the draw context has no
	// texture creator.
	ErrInvalidRenderer = errors.New("present: renderer must implement gpucontext.TextureCreator")

	// ErrInvalidTexture is returned when a created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("present: texture must implement gpucontext.Texture")
)

// textureDestroyer matches the Destroy method of GPU textures.
type textureDestroyer interface {
	Destroy()
}

// Target owns one GPU texture mirroring the viewer's composited frame.
//
// The texture is created lazily on the first Present, because texture
// creation needs the draw context's creator. Until then Flush returns
// a pending placeholder carrying the pixel data.
type Target struct {
	provider gpucontext.DeviceProvider

	data   []byte
	width  int
	height int

	texture     any // lazy-created GPU texture
	oldTexture  any // previous texture awaiting deferred destruction
	dirty       bool
	sizeChanged bool
	closed      bool
}

// New creates a Target for the given device provider and initial frame
// size. The provider should come from the host's GPU context.
func New(provider gpucontext.DeviceProvider, width, height int) (*Target, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Target{
		provider: provider,
		data:     make([]byte, width*height*4),
		width:    width,
		height:   height,
		dirty:    true,
	}, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the pixel format of uploaded frames.
func (t *Target) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Provider returns the DeviceProvider associated with this target.
// Returns nil if the target is closed.
func (t *Target) Provider() gpucontext.DeviceProvider {
	if t.closed {
		return nil
	}
	return t.provider
}

// Update copies a composited frame into the target and marks it for
// GPU upload on the next Present. A frame with different dimensions
// resizes the target.
func (t *Target) Update(frame *image.RGBA) error {
	if t.closed {
		return ErrTargetClosed
	}
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: frame %v", ErrInvalidDimensions, b)
	}
	if err := t.Resize(b.Dx(), b.Dy()); err != nil {
		return err
	}
	copy(t.data, frame.Pix)
	t.dirty = true
	return nil
}

// Resize changes the target dimensions. The current texture is kept
// alive until the next Present has uploaded its replacement; GPU
// command buffers in flight may still reference it.
func (t *Target) Resize(width, height int) error {
	if t.closed {
		return ErrTargetClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if t.width == width && t.height == height {
		return nil
	}
	t.width = width
	t.height = height
	t.data = make([]byte, width*height*4)
	t.sizeChanged = true
	t.dirty = true
	return nil
}

// Flush prepares the texture for drawing. On the first call, and after
// every resize, it returns a pending placeholder; Present turns it
// into a real GPU texture. Otherwise it uploads the pixel data into
// the existing texture if dirty.
func (t *Target) Flush() (any, error) {
	if t.closed {
		return nil, ErrTargetClosed
	}

	if t.sizeChanged {
		if t.texture != nil {
			// A previously deferred texture is safe to destroy now.
			if d, ok := t.oldTexture.(textureDestroyer); ok {
				d.Destroy()
			}
			t.oldTexture = t.texture
			t.texture = nil
		}
		t.sizeChanged = false
	}

	if !t.dirty && t.texture != nil {
		return t.texture, nil
	}

	if t.texture == nil {
		t.dirty = false
		return &pendingTexture{width: t.width, height: t.height, data: t.data}, nil
	}

	if updater, ok := t.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(t.data); err != nil {
			return nil, fmt.Errorf("present: texture update failed: %w", err)
		}
	}
	t.dirty = false
	return t.texture, nil
}

// Present draws the current frame to a gpucontext.TextureDrawer at the
// origin. The dc parameter should be obtained from the host context's
// AsTextureDrawer.
func (t *Target) Present(dc gpucontext.TextureDrawer) error {
	return t.PresentAt(dc, 0, 0)
}

// PresentAt draws the current frame at position (x, y).
func (t *Target) PresentAt(dc gpucontext.TextureDrawer, x, y float32) error {
	if t.closed {
		return ErrTargetClosed
	}

	tex, err := t.Flush()
	if err != nil {
		return err
	}

	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}

		// NewTextureFromRGBA waits for the GPU internally; once it
		// returns, the deferred old texture is no longer referenced by
		// in-flight command buffers and can be destroyed.
		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("present: NewTextureFromRGBA failed: %w", err)
		}
		t.texture = realTex
		tex = realTex

		if d, ok := t.oldTexture.(textureDestroyer); ok {
			d.Destroy()
		}
		t.oldTexture = nil
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// Texture returns the current GPU texture without flushing.
// Returns nil before the first Present.
func (t *Target) Texture() any {
	return t.texture
}

// Close releases the target's textures. Close is idempotent.
func (t *Target) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if d, ok := t.oldTexture.(textureDestroyer); ok {
		d.Destroy()
	}
	t.oldTexture = nil
	if d, ok := t.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	t.texture = nil
	t.provider = nil
	t.data = nil
	return nil
}

// pendingTexture holds the data needed to create the real GPU texture
// once a texture creator is available, during Present.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
