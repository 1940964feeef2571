package pageview

import (
	"context"
	"log/slog"
)

// PageLayout describes one page's place in the document: its
// rendering-space size at the document scale and the cumulative
// vertical offset of its top edge in document space.
//
// Entries are immutable once computed for a given (document, scale) pair.
type PageLayout struct {
	Index   int
	Width   float64
	Height  float64
	YOffset float64
}

// Bottom returns the document-space Y of the page's bottom edge.
func (p PageLayout) Bottom() float64 {
	return p.YOffset + p.Height
}

// DocumentLayout is the computed geometry of a whole document: one
// entry per page (index-aligned), the single global scale, and the
// total stacked height.
//
// A DocumentLayout is never mutated in place. When the document or the
// container width changes, a new layout replaces the old one wholesale.
type DocumentLayout struct {
	Entries     []PageLayout
	Scale       float64
	TotalHeight float64

	// generation is the viewer's invalidation generation this geometry
	// belongs to. Renders issued from this layout are tagged with it,
	// so geometry from before an invalidation can never be stored as
	// current.
	generation uint64
}

// PageCount returns the number of pages in the layout.
func (l *DocumentLayout) PageCount() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// emptyLayout is the layout of a document with no usable pages.
func emptyLayout() *DocumentLayout {
	return &DocumentLayout{Scale: 1}
}

// ComputeLayout queries every page's intrinsic size and stacks the
// pages vertically with no inter-page gap.
//
// The scale is chosen from the widest page: scale = containerWidth /
// widestPage.Width. A single global scale keeps horizontal alignment
// consistent for documents with mixed page sizes, and sizing off the
// widest page guarantees no page overflows the container width.
//
// A page whose handle cannot be obtained contributes a zero-sized
// entry and a warning; it does not fail the layout. A document with
// zero pages (or only failed ones) yields an empty layout.
//
// ComputeLayout honors ctx: cancellation aborts with ctx.Err(). A
// caller that supersedes an in-flight computation simply discards the
// result; layouts are never merged.
func ComputeLayout(ctx context.Context, doc Document, containerWidth float64) (*DocumentLayout, error) {
	n := doc.PageCount()
	if n <= 0 {
		return emptyLayout(), nil
	}

	// First pass: intrinsic sizes at a neutral scale of 1.
	sizes := make([]Viewport, n)
	widest := 0.0
	usable := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Page(ctx, i)
		if err != nil {
			Logger().Warn("pageview: page unavailable during layout",
				slog.Int("page", i), slog.Any("error", err))
			continue
		}
		vp := page.Viewport(1)
		sizes[i] = vp
		if vp.Width > widest {
			widest = vp.Width
		}
		usable++
	}
	if usable == 0 {
		return emptyLayout(), nil
	}

	scale := 1.0
	if widest > 0 && containerWidth > 0 {
		scale = containerWidth / widest
	}

	// Second pass: rendering-space viewports and cumulative offsets.
	entries := make([]PageLayout, n)
	y := 0.0
	for i := 0; i < n; i++ {
		w := sizes[i].Width * scale
		h := sizes[i].Height * scale
		entries[i] = PageLayout{Index: i, Width: w, Height: h, YOffset: y}
		y += h
	}

	return &DocumentLayout{Entries: entries, Scale: scale, TotalHeight: y}, nil
}
