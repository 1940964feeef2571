package pageview

import (
	"github.com/gogpu/pageview/surface"
)

// Option configures a Viewer during creation.
//
// Example:
//
//	// Default configuration
//	v, err := pageview.New(doc)
//
//	// High-DPI display with a larger cache
//	v, err := pageview.New(doc,
//		pageview.WithDevicePixelRatio(2),
//		pageview.WithMaxPagesKept(32))
type Option func(*viewerOptions)

// viewerOptions holds optional configuration for Viewer creation.
type viewerOptions struct {
	display  Display
	surf     surface.Surface
	margin   int
	maxKept  int
	workers  int
	prefetch bool
	fontData []byte

	// Defaults for the built-in display when none is injected.
	width  float64
	height float64
	dpr    float64
}

// defaultViewerOptions returns the default viewer options.
func defaultViewerOptions() viewerOptions {
	return viewerOptions{
		margin:   2,
		prefetch: true,
		width:    800,
		height:   600,
		dpr:      1,
	}
}

// WithDisplay injects the host application's display environment:
// pixel density, container geometry and frame/idle scheduling. Without
// it the viewer runs on an internal ticker-driven display.
func WithDisplay(d Display) Option {
	return func(o *viewerOptions) {
		o.display = d
	}
}

// WithSurface sets a custom output surface. By default the viewer
// creates one from the highest-priority registered surface backend.
func WithSurface(s surface.Surface) Option {
	return func(o *viewerOptions) {
		o.surf = s
	}
}

// WithCacheMargin sets how many off-screen pages beyond the visible
// range, in each direction, are kept rendered. The default is 2.
func WithCacheMargin(n int) Option {
	return func(o *viewerOptions) {
		if n >= 0 {
			o.margin = n
		}
	}
}

// WithMaxPagesKept bounds the number of distinct recently rendered
// pages whose artifacts are retained. The default is
// [cache.DefaultMaxPagesKept].
func WithMaxPagesKept(n int) Option {
	return func(o *viewerOptions) {
		o.maxKept = n
	}
}

// WithWorkers sets the render pool size. Zero or negative uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *viewerOptions) {
		o.workers = n
	}
}

// WithPrefetch enables or disables the idle-time sequential prefetch
// of not-yet-rendered pages. Enabled by default.
func WithPrefetch(enabled bool) Option {
	return func(o *viewerOptions) {
		o.prefetch = enabled
	}
}

// WithOverlayFont provides a TTF/OTF font used to shape overlay text
// for selection geometry. Without it, glyph advances are approximated
// from span widths.
func WithOverlayFont(data []byte) Option {
	return func(o *viewerOptions) {
		o.fontData = data
	}
}

// WithContainerSize sets the initial layout-pixel container size of
// the built-in display. Ignored when WithDisplay is used.
func WithContainerSize(width, height float64) Option {
	return func(o *viewerOptions) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithDevicePixelRatio sets the pixel ratio of the built-in display.
// Ignored when WithDisplay is used.
func WithDevicePixelRatio(dpr float64) Option {
	return func(o *viewerOptions) {
		if dpr > 0 {
			o.dpr = dpr
		}
	}
}
