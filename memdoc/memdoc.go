// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package memdoc provides an in-memory synthetic document for demos
// and benchmarks. Pages render as solid tints with a header band and
// carry generated text spans, so every part of the viewer can be
// exercised without a real document decoder.
package memdoc

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/pageview"
)

// Doc is a synthetic in-memory document.
//
// Doc is safe for concurrent use.
type Doc struct {
	sizes []pageview.Viewport
	lines int
}

// Uniform creates a document of n pages, each w by h at scale 1.
func Uniform(n int, w, h float64) *Doc {
	sizes := make([]pageview.Viewport, n)
	for i := range sizes {
		sizes[i] = pageview.Viewport{Width: w, Height: h}
	}
	return &Doc{sizes: sizes, lines: 8}
}

// Mixed creates a document with the given per-page sizes.
func Mixed(sizes []pageview.Viewport) *Doc {
	return &Doc{sizes: sizes, lines: 8}
}

// PageCount returns the number of pages.
func (d *Doc) PageCount() int { return len(d.sizes) }

// Page returns the page at index n.
func (d *Doc) Page(ctx context.Context, n int) (pageview.Page, error) {
	if n < 0 || n >= len(d.sizes) {
		return nil, fmt.Errorf("memdoc: page %d out of range [0, %d)", n, len(d.sizes))
	}
	return &page{doc: d, index: n}, nil
}

type page struct {
	doc   *Doc
	index int
}

// Tint returns the body color of page n. Hues cycle so adjacent pages
// are visually distinct.
func Tint(n int) color.RGBA {
	h := float64(n%12) / 12 * 2 * math.Pi
	r := uint8(200 + 55*math.Sin(h))
	g := uint8(200 + 55*math.Sin(h+2*math.Pi/3))
	b := uint8(200 + 55*math.Sin(h+4*math.Pi/3))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (p *page) Viewport(scale float64) pageview.Viewport {
	s := p.doc.sizes[p.index]
	return pageview.Viewport{Width: s.Width * scale, Height: s.Height * scale}
}

func (p *page) RenderTo(ctx context.Context, img *image.RGBA, vp pageview.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := img.Bounds()

	draw.Draw(img, b, &image.Uniform{C: Tint(p.index)}, image.Point{}, draw.Src)

	// Header band, darker than the body.
	header := b
	header.Max.Y = b.Min.Y + b.Dy()/10
	tint := Tint(p.index)
	dark := color.RGBA{R: tint.R / 2, G: tint.G / 2, B: tint.B / 2, A: 255}
	draw.Draw(img, header, &image.Uniform{C: dark}, image.Point{}, draw.Src)

	// Text line guides where TextContent reports spans.
	lineBand := b.Dy() / (p.doc.lines + 2)
	for i := 0; i < p.doc.lines; i++ {
		y0 := header.Max.Y + (i+1)*lineBand
		line := image.Rect(b.Min.X+b.Dx()/10, y0, b.Max.X-b.Dx()/10, y0+lineBand/3)
		draw.Draw(img, line.Intersect(b), &image.Uniform{C: color.RGBA{A: 255}}, image.Point{}, draw.Src)
	}
	return nil
}

func (p *page) TextContent(ctx context.Context) ([]pageview.TextSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := p.doc.sizes[p.index]
	lineBand := s.Height / float64(p.doc.lines+2)
	headerH := s.Height / 10

	spans := make([]pageview.TextSpan, 0, p.doc.lines+1)
	spans = append(spans, pageview.TextSpan{
		Text:     fmt.Sprintf("Page %d", p.index+1),
		X:        s.Width / 10,
		Y:        headerH / 4,
		Width:    s.Width / 3,
		Height:   headerH / 2,
		FontSize: headerH / 2,
	})
	for i := 0; i < p.doc.lines; i++ {
		spans = append(spans, pageview.TextSpan{
			Text:     fmt.Sprintf("Line %d of page %d, synthetic body text.", i+1, p.index+1),
			X:        s.Width / 10,
			Y:        headerH + float64(i+1)*lineBand,
			Width:    s.Width * 8 / 10,
			Height:   lineBand / 3,
			FontSize: lineBand / 3,
		})
	}
	return spans, nil
}
