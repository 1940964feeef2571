// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Shaper computes per-glyph advances for overlay spans using
// go-text/typesetting's HarfBuzz implementation.
//
// Shaper is safe for concurrent use: the parsed font.Font is read-only
// and HarfbuzzShaper instances (which carry mutable buffers) are
// pooled per call. font.Face values are created per call since they
// are not concurrent-safe.
type Shaper struct {
	font *font.Font

	shaperPool sync.Pool
}

// NewShaper parses TTF/OTF font data and returns a Shaper backed by it.
func NewShaper(fontData []byte) (*Shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font: %w", err)
	}
	return &Shaper{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}, nil
}

// Shape returns the per-glyph advances and glyph-to-rune cluster
// mapping for text at the given size and direction. The advances are
// in visual order; summing them yields the shaped width.
func (s *Shaper) Shape(text string, size float64, dir Direction) (advances []float64, clusters []int) {
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)

	// font.Face is not concurrent-safe; create a lightweight one per
	// call around the shared read-only Font.
	goFace := font.NewFace(s.font)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(dir),
		Face:      goFace,
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	advances = make([]float64, len(output.Glyphs))
	clusters = make([]int, len(output.Glyphs))
	for i, g := range output.Glyphs {
		advances[i] = fixedToFloat(g.Advance)
		clusters[i] = g.TextIndex()
	}
	return advances, clusters
}

// DetectDirection resolves the base direction of text using the
// Unicode bidirectional algorithm. Neutral-only or empty text is LTR.
func DetectDirection(text string) Direction {
	if text == "" {
		return DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return DirectionLTR
	}
	order, err := p.Order()
	if err != nil {
		return DirectionLTR
	}
	if order.Direction() == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}

// mapDirection converts an overlay Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript inspects the runes and returns the script of the first
// non-space character. For mixed-script spans the document provider is
// expected to have split runs already.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 size to fixed.Int26_6 (6 fractional bits).
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
