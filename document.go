package pageview

import (
	"context"
	"image"
	"time"

	"github.com/gogpu/pageview/overlay"
)

// Viewport is a page's rendering-space size at the document's current scale.
type Viewport struct {
	Width  float64
	Height float64
}

// TextSpan is a positioned run of text on a page, in rendering-space
// coordinates relative to the page's top-left corner.
//
// TextSpan is an alias for overlay.TextSpan so that document providers
// only need to import the root package.
type TextSpan = overlay.TextSpan

// Page is one page of a document, obtained from a Document.
//
// A Page is a handle into the document decoder. Its methods may be slow:
// rendering and text extraction typically decode content streams on
// demand. Implementations must be safe for concurrent use; the engine
// may render several pages at once.
type Page interface {
	// Viewport returns the page's rendering-space size at the given scale.
	// Viewport(1) is the page's intrinsic size.
	Viewport(scale float64) Viewport

	// RenderTo rasterizes the page content into img. The image bounds
	// define the pixel size of the target; vp is the page's
	// rendering-space viewport, so the implementation draws at a pixel
	// scale of bounds/vp (this is how the device pixel ratio reaches
	// the decoder).
	RenderTo(ctx context.Context, img *image.RGBA, vp Viewport) error

	// TextContent returns the page's positioned text runs at scale 1.
	TextContent(ctx context.Context) ([]TextSpan, error)
}

// Document provides page geometry and content. It is the engine's
// boundary to the document-decoding library and is treated as a black
// box with latency.
//
// Implementations must be safe for concurrent use.
type Document interface {
	// PageCount returns the number of pages. It must be cheap.
	PageCount() int

	// Page returns a handle for the page at index n (zero-based).
	// It may fail for a damaged page; the engine degrades that page to
	// a placeholder rather than failing the document.
	Page(ctx context.Context, n int) (Page, error)
}

// Display describes the environment the viewer draws into: pixel
// density, the container geometry, and the scheduling primitives for
// frame-cadence compositing and idle-time prefetching.
type Display interface {
	// DevicePixelRatio returns the ratio of device pixels to layout
	// pixels (1 on standard displays, 2 on common high-DPI displays).
	DevicePixelRatio() float64

	// ContainerSize returns the layout-pixel width and height of the
	// area the viewer occupies. The width drives the document scale,
	// the height is the visible height.
	ContainerSize() (width, height float64)

	// NextFrame delivers a tick at the display refresh cadence.
	// Composite passes are coalesced onto these ticks.
	NextFrame() <-chan time.Time

	// Idle delivers a tick when the display is idle. Implementations
	// without a real idle signal fall back to a fixed short delay.
	Idle() <-chan time.Time
}
