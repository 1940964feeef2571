package pageview

// Window is the result of mapping a scroll position onto a layout: the
// document-space pixel bounds of the visible slice, the index range of
// pages intersecting it, and the wider index range of pages eligible
// to be kept rendered (the cache window).
type Window struct {
	// VisibleTop and VisibleBottom are document-space pixel bounds:
	// VisibleTop = scrollOffset, VisibleBottom = scrollOffset + visibleHeight.
	VisibleTop    float64
	VisibleBottom float64

	// VisibleStart and VisibleEnd are the first and last page indices
	// whose vertical span intersects the visible bounds (inclusive).
	VisibleStart int
	VisibleEnd   int

	// CacheStart and CacheEnd extend the visible range by the cache
	// margin on each side, clamped to [0, pageCount-1] (inclusive).
	CacheStart int
	CacheEnd   int
}

// Contains reports whether page index n falls inside the cache window.
func (w Window) Contains(n int) bool {
	return n >= w.CacheStart && n <= w.CacheEnd
}

// ComputeWindow maps a scroll offset and viewport height onto the
// layout. margin is the prefetch radius in pages: larger values trade
// memory and render work for smoother fast-scroll behavior (typical
// values are 2-5).
//
// A page is visible when its span [YOffset, YOffset+Height) intersects
// [VisibleTop, VisibleBottom). If no page intersects (empty layout,
// out-of-range offset), both visible indices default to 0.
//
// ComputeWindow is pure and deterministic for identical inputs.
func ComputeWindow(layout *DocumentLayout, scrollOffset, visibleHeight float64, margin int) Window {
	w := Window{
		VisibleTop:    scrollOffset,
		VisibleBottom: scrollOffset + visibleHeight,
	}

	n := layout.PageCount()
	if n == 0 {
		return w
	}

	intersects := func(e PageLayout) bool {
		return e.YOffset < w.VisibleBottom && e.Bottom() > w.VisibleTop
	}

	// Scan forward for the first intersecting page, backward for the last.
	start, end := -1, -1
	for i := 0; i < n; i++ {
		if intersects(layout.Entries[i]) {
			start = i
			break
		}
	}
	for i := n - 1; i >= 0; i-- {
		if intersects(layout.Entries[i]) {
			end = i
			break
		}
	}
	if start < 0 || end < 0 {
		start, end = 0, 0
	}

	w.VisibleStart = start
	w.VisibleEnd = end
	w.CacheStart = clampPage(start-margin, n)
	w.CacheEnd = clampPage(end+margin, n)
	return w
}

// clampPage clamps i to the valid page index range [0, n-1].
func clampPage(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
