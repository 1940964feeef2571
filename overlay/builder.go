// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

// Builder turns provider text spans into overlay artifacts at the
// document scale. The zero-value Builder (no Shaper) is usable: it
// approximates advances instead of shaping.
//
// Builder is safe for concurrent use when its Shaper is.
type Builder struct {
	shaper *Shaper
}

// NewBuilder creates a Builder using the given shaper. A nil shaper
// disables shaping; advances are then distributed evenly over runes.
func NewBuilder(shaper *Shaper) *Builder {
	return &Builder{shaper: shaper}
}

// Build lays out spans for one page. yOffset is the page's
// document-space top edge; width/height its rendering-space viewport;
// scale the document scale applied to the scale-1 span geometry.
func (b *Builder) Build(page int, yOffset, width, height, scale float64, spans []TextSpan) *Artifact {
	art := &Artifact{
		Page:   page,
		Y:      yOffset,
		Width:  width,
		Height: height,
	}
	if len(spans) == 0 {
		return art
	}

	art.Spans = make([]Span, 0, len(spans))
	for _, in := range spans {
		if in.Text == "" {
			continue
		}
		out := Span{
			Text:      in.Text,
			X:         in.X * scale,
			Y:         in.Y * scale,
			Width:     in.Width * scale,
			Height:    in.Height * scale,
			FontSize:  in.FontSize * scale,
			Direction: DetectDirection(in.Text),
		}
		if b != nil && b.shaper != nil {
			out.Advances, out.Clusters = b.shaper.Shape(out.Text, out.FontSize, out.Direction)
		}
		if len(out.Advances) == 0 {
			out.Advances = approximateAdvances(out.Text, out.Width)
		}
		art.Spans = append(art.Spans, out)
	}
	return art
}

// Placeholder returns an empty artifact for a page whose text could
// not be extracted.
func (b *Builder) Placeholder(page int, yOffset, width, height float64) *Artifact {
	return &Artifact{Page: page, Y: yOffset, Width: width, Height: height}
}

// approximateAdvances distributes width evenly over the runes of text.
func approximateAdvances(text string, width float64) []float64 {
	n := 0
	for range text {
		n++
	}
	if n == 0 {
		return nil
	}
	adv := width / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = adv
	}
	return out
}
