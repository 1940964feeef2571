// Package pageview provides a windowed page-rendering and cache engine
// for long, continuously scrollable multi-page documents.
//
// # Overview
//
// pageview turns per-page geometry from a document provider into a
// document-wide layout, maps a scroll offset to the set of pages that
// must be visible versus merely kept warm, renders page rasters and
// text overlays asynchronously with duplicate-work suppression, and
// composites cached artifacts onto a bounded visible surface. Cache
// growth is bounded by a recency window; stale entries are evicted
// without ever touching a page that is mid-render or inside the active
// cache window.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pageview"
//	    "github.com/gogpu/pageview/memdoc"
//	)
//
//	doc := memdoc.Uniform(10, 612, 792)
//	v, err := pageview.New(doc,
//	    pageview.WithContainerSize(800, 1000),
//	    pageview.WithCacheMargin(2),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	v.SetScrollOffset(4000)
//	v.Composite()
//	img := v.Snapshot()
//
// # Architecture
//
// The engine is organized into:
//   - Public API: Viewer, Document/Page/Display contracts, DocumentLayout, Window
//   - cache: artifact caches, render lock set, recency-window eviction
//   - surface: on-screen surface abstraction with a software default
//   - overlay: positioned, selectable text overlay artifacts
//   - present: optional GPU frame presentation via gpucontext
//
// # Coordinate Systems
//
// Document space spans the full scrollable height of all pages stacked
// vertically, origin at the top of page 0, Y increasing down. A page's
// viewport is its rendering-space width/height at the document's single
// global scale. On-screen pixel dimensions additionally carry the
// device pixel ratio.
package pageview

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
