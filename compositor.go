package pageview

import (
	"context"
	"image"
	"image/color"

	"github.com/gogpu/pageview/overlay"
	"github.com/gogpu/pageview/surface"
)

// backgroundFill is the color of the gutter around and between pages.
var backgroundFill = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xFF}

// compositor assembles the visible slice of the document onto the
// output surface from whatever artifacts the cache holds.
//
// A composite pass never blocks on rendering: pages without a cached
// raster are requested from the pipeline and skipped, leaving the
// background visible until a later pass redraws them. The pass also
// pins the window's pages in the cache and issues renders for the
// off-screen margin so scrolling into it finds pages already cached.
type compositor struct {
	cache    *pageCache
	pipe     *pipeline
	surf     surface.Surface
	overlays overlay.Container
}

func newCompositor(c *pageCache, pipe *pipeline, surf surface.Surface) *compositor {
	return &compositor{cache: c, pipe: pipe, surf: surf}
}

// composite draws one frame: the rasters of the visible pages, clipped
// to the visible document slice, plus the rebuilt text overlay
// container. It returns true when every visible page was drawn from
// cache (no page is still pending).
func (c *compositor) composite(ctx context.Context, layout *DocumentLayout, win Window, containerW, containerH, dpr float64) bool {
	scale := layout.Scale
	sw := pixelSize(containerW, dpr)
	sh := pixelSize(containerH, dpr)
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	if c.surf.Width() != sw || c.surf.Height() != sh {
		if err := c.surf.Resize(sw, sh); err != nil {
			Logger().Warn("surface resize failed", "width", sw, "height", sh, "error", err)
			return false
		}
	}
	c.surf.Clear(backgroundFill)

	// Pages inside the cache window survive eviction while the window
	// stays put.
	c.cache.Pin(win.CacheStart, win.CacheEnd)

	complete := true
	arts := make([]*overlay.Artifact, 0, win.VisibleEnd-win.VisibleStart+1)
	for i := win.VisibleStart; i <= win.VisibleEnd && i < len(layout.Entries); i++ {
		entry := layout.Entries[i]
		if entry.Height <= 0 {
			continue
		}
		ras, ok := c.cache.Raster(i)
		if !ok {
			c.pipe.request(ctx, entry, scale, dpr, layout.generation)
			complete = false
			continue
		}
		c.drawPage(entry, ras, win, dpr)
		if art, ok := c.cache.Overlay(i); ok {
			arts = append(arts, art)
		}
	}
	c.overlays.Rebuild(arts, win.VisibleTop, win.VisibleBottom)

	// Warm the off-screen margin.
	for i := win.CacheStart; i <= win.CacheEnd && i < len(layout.Entries); i++ {
		if i >= win.VisibleStart && i <= win.VisibleEnd {
			continue
		}
		entry := layout.Entries[i]
		if entry.Height <= 0 {
			continue
		}
		c.pipe.request(ctx, entry, scale, dpr, layout.generation)
	}

	if err := c.surf.Flush(); err != nil {
		Logger().Warn("surface flush failed", "error", err)
	}
	return complete
}

// drawPage blits the visible slice of one page raster onto the
// surface. Pages narrower than the container are centered.
func (c *compositor) drawPage(entry PageLayout, ras *Raster, win Window, dpr float64) {
	clipTop := 0.0
	if win.VisibleTop > entry.YOffset {
		clipTop = win.VisibleTop - entry.YOffset
	}
	clipBottom := entry.Height
	if win.VisibleBottom < entry.Bottom() {
		clipBottom = win.VisibleBottom - entry.YOffset
	}
	if clipBottom <= clipTop {
		return
	}

	surfaceW := float64(c.surf.Width())
	destX := int((surfaceW - entry.Width*dpr) / 2)
	if destX < 0 {
		destX = 0
	}
	destY := pixelSize(entry.YOffset+clipTop-win.VisibleTop, dpr)

	b := ras.Img.Bounds()
	if ras.DPR == dpr && b.Dx() == pixelSize(entry.Width, dpr) {
		// Direct copy at matching resolution.
		sr := image.Rect(b.Min.X, b.Min.Y+pixelSize(clipTop, dpr),
			b.Max.X, b.Min.Y+pixelSize(clipBottom, dpr))
		c.surf.Blit(ras.Img, sr, image.Point{X: destX, Y: destY})
		return
	}

	// Resolution mismatch: scale the raster slice to the layout size.
	ry := float64(b.Dy()) / entry.Height
	sr := image.Rect(b.Min.X, b.Min.Y+int(clipTop*ry), b.Max.X, b.Min.Y+int(clipBottom*ry))
	dr := image.Rect(destX, destY,
		destX+pixelSize(entry.Width, dpr), destY+pixelSize(clipBottom-clipTop, dpr))
	c.surf.BlitScaled(ras.Img, sr, dr)
}

// placedOverlays returns the overlay artifacts placed by the last
// composite pass, clipped to the visible slice.
func (c *compositor) placedOverlays() []overlay.Placed {
	return c.overlays.Placed()
}
