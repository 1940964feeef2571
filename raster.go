package pageview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// placeholderFill is the solid color used for pages that could not be
// rendered. Light gray so a degraded page is visibly distinct from
// both page white and the background.
var placeholderFill = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}

// Raster is the cached pixel artifact for one page: the page rendered
// at the document scale and device pixel ratio current when the render
// was issued.
type Raster struct {
	// Page is the page index the raster belongs to.
	Page int

	// Img holds the page pixels, entry.Width*DPR by entry.Height*DPR.
	Img *image.RGBA

	// Scale is the document scale the page was rendered at.
	Scale float64

	// DPR is the device pixel ratio the page was rendered at.
	DPR float64

	// Placeholder marks a raster substituted for a page that failed
	// to render. Placeholders occupy the page's layout slot so the
	// scroll geometry stays stable.
	Placeholder bool
}

// pixelSize converts a layout-space extent to device pixels.
func pixelSize(v, dpr float64) int {
	return int(math.Ceil(v * dpr))
}

// newPlaceholderRaster builds a solid-fill raster for a page whose
// content is unavailable.
func newPlaceholderRaster(page int, entry PageLayout, scale, dpr float64) *Raster {
	w := pixelSize(entry.Width, dpr)
	h := pixelSize(entry.Height, dpr)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)
	return &Raster{
		Page:        page,
		Img:         img,
		Scale:       scale,
		DPR:         dpr,
		Placeholder: true,
	}
}
