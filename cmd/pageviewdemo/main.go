// Command pageviewdemo scrolls through a synthetic document and saves
// composited frames as PNG files.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/pageview"
	"github.com/gogpu/pageview/memdoc"
)

func main() {
	var (
		pages   = flag.Int("pages", 12, "number of pages in the synthetic document")
		width   = flag.Float64("width", 600, "page width")
		height  = flag.Float64("height", 800, "page height")
		cw      = flag.Float64("container-width", 400, "container width")
		ch      = flag.Float64("container-height", 500, "container height")
		dpr     = flag.Float64("dpr", 1, "device pixel ratio")
		frames  = flag.Int("frames", 8, "number of frames to capture while scrolling")
		outDir  = flag.String("out", "frames", "output directory")
		verbose = flag.Bool("v", false, "enable logging")
	)
	flag.Parse()

	if *verbose {
		pageview.SetLogger(slog.Default())
	}

	doc := memdoc.Uniform(*pages, *width, *height)
	v, err := pageview.New(doc,
		pageview.WithContainerSize(*cw, *ch),
		pageview.WithDevicePixelRatio(*dpr),
	)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}
	defer v.Close()

	v.Composite()
	total := v.TotalHeight()
	log.Printf("Laid out %d pages, total height %.0f at scale %.3f",
		*pages, total, v.Layout().Scale)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	maxScroll := total - *ch
	if maxScroll < 0 {
		maxScroll = 0
	}
	for i := 0; i < *frames; i++ {
		offset := 0.0
		if *frames > 1 {
			offset = maxScroll * float64(i) / float64(*frames-1)
		}
		v.SetScrollOffset(offset)

		// Let the async renders settle, then draw the frame.
		waitSettled(v, 2*time.Second)
		v.Composite()

		name := filepath.Join(*outDir, fmt.Sprintf("frame%03d.png", i))
		if err := savePNG(v, name); err != nil {
			log.Fatalf("Failed to save %s: %v", name, err)
		}
		log.Printf("Saved %s (scroll %.0f)", name, offset)
	}

	stats := v.Stats()
	log.Printf("Cache: %d rasters, %d overlays, %.0f%% hit rate, %d evictions",
		stats.Rasters, stats.Overlays, stats.HitRate*100, stats.Evictions)
}

// waitSettled composites until every visible page is drawn from a
// finished raster or the timeout expires.
func waitSettled(v *pageview.Viewer, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		v.Composite()
		if v.Settled() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func savePNG(v *pageview.Viewer, name string) error {
	img := v.Snapshot()
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Sync()
}
