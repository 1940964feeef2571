// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

// Direction is the inline progression direction of a text run.
type Direction uint8

const (
	// DirectionLTR is left-to-right text.
	DirectionLTR Direction = iota

	// DirectionRTL is right-to-left text.
	DirectionRTL
)

func (d Direction) String() string {
	if d == DirectionRTL {
		return "rtl"
	}
	return "ltr"
}

// TextSpan is a positioned run of text as reported by a document
// provider, in rendering-space coordinates at scale 1, relative to the
// page's top-left corner.
type TextSpan struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontSize float64
}

// Span is one laid-out text run inside an Artifact. Coordinates are
// rendering-space at the document scale, relative to the page origin.
type Span struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontSize float64

	// Direction is the resolved base direction of the run.
	Direction Direction

	// Advances holds per-glyph horizontal advances in visual order.
	// Their prefix sums give selection boundaries within the span.
	Advances []float64

	// Clusters maps each glyph in Advances back to a rune index in
	// Text. Empty when advances were approximated rather than shaped.
	Clusters []int
}

// Artifact is the text overlay for one page: every span positioned in
// document space so the artifact survives scrolling unchanged.
type Artifact struct {
	// Page is the page index this overlay belongs to.
	Page int

	// Y is the document-space offset of the page's top edge.
	Y float64

	// Width and Height are the page's rendering-space viewport.
	Width  float64
	Height float64

	Spans []Span
}

// Empty reports whether the artifact carries no text. Placeholder
// artifacts for failed pages are empty.
func (a *Artifact) Empty() bool {
	return a == nil || len(a.Spans) == 0
}

// SpanBottom returns the document-space bottom edge of span i.
func (a *Artifact) SpanBottom(i int) float64 {
	s := a.Spans[i]
	return a.Y + s.Y + s.Height
}
