// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

// Placed is one overlay artifact positioned relative to the current
// visible slice, with its vertical clip resolved.
type Placed struct {
	Artifact *Artifact

	// OffsetY is the artifact's top edge in visible-surface
	// coordinates (document Y minus the visible top). Negative when
	// the page starts above the visible slice.
	OffsetY float64

	// ClipTop and ClipBottom bound the artifact's visible vertical
	// extent in artifact-local coordinates [0, Height].
	ClipTop    float64
	ClipBottom float64
}

// Container holds the overlay artifacts placed for one composite
// pass. It is cleared and rebuilt every pass: stateless with respect
// to the previous pass, backed by the stateful overlay cache.
type Container struct {
	placed []Placed
}

// Rebuild clears the container and places each artifact that
// intersects the visible document-space span [top, bottom).
// Artifacts are expected in page order; placement preserves it.
func (c *Container) Rebuild(artifacts []*Artifact, top, bottom float64) {
	c.placed = c.placed[:0]
	for _, a := range artifacts {
		if a == nil {
			continue
		}
		if a.Y >= bottom || a.Y+a.Height <= top {
			continue
		}
		clipTop := 0.0
		if top > a.Y {
			clipTop = top - a.Y
		}
		clipBottom := a.Height
		if bottom < a.Y+a.Height {
			clipBottom = bottom - a.Y
		}
		c.placed = append(c.placed, Placed{
			Artifact:   a,
			OffsetY:    a.Y - top,
			ClipTop:    clipTop,
			ClipBottom: clipBottom,
		})
	}
}

// Placed returns the artifacts placed by the last Rebuild, in page order.
func (c *Container) Placed() []Placed {
	return c.placed
}

// Len returns the number of placed artifacts.
func (c *Container) Len() int {
	return len(c.placed)
}
