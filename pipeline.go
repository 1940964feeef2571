package pageview

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/pageview/cache"
	"github.com/gogpu/pageview/internal/sched"
	"github.com/gogpu/pageview/overlay"
)

// pageCache is the artifact store shared by the pipeline, compositor
// and prefetcher.
type pageCache = cache.Manager[*Raster, *overlay.Artifact]

// pipeline launches page renders on the worker pool and settles their
// results into the cache.
//
// Each page render splits into two independent sub-tasks, raster and
// text overlay, guarded by a single per-page render lock. The lock is
// taken before the work is queued and released only after both
// sub-tasks have settled, so a page is never rendered twice
// concurrently no matter how often the compositor or prefetcher
// requests it.
type pipeline struct {
	doc     Document
	cache   *pageCache
	pool    *sched.Pool
	builder *overlay.Builder

	// gen is the viewer's invalidation generation. Stores compare it
	// against the generation the render was issued under; results from
	// an older generation are discarded instead of stored.
	gen *atomic.Uint64
}

func newPipeline(doc Document, c *pageCache, pool *sched.Pool, builder *overlay.Builder, gen *atomic.Uint64) *pipeline {
	return &pipeline{
		doc:     doc,
		cache:   c,
		pool:    pool,
		builder: builder,
		gen:     gen,
	}
}

// request ensures a render for the given page is cached or in flight.
// It returns true when the page's artifacts were already cached and no
// work was issued.
//
// gen is the invalidation generation the entry's geometry belongs to,
// captured together with the layout snapshot. An invalidation landing
// after the snapshot makes the stores no-ops rather than tagging stale
// geometry as current.
//
// On a miss the render is queued asynchronously and request returns
// immediately; the cache's notify channel signals completion. A page
// already mid-render is left alone: its in-flight render will settle
// into the cache on its own.
func (p *pipeline) request(ctx context.Context, entry PageLayout, scale, dpr float64, gen uint64) bool {
	page := entry.Index
	if p.cache.Cached(page) {
		return true
	}
	if !p.cache.BeginRender(page) {
		return false
	}
	p.pool.Submit(func() {
		p.run(ctx, page, entry, scale, dpr, gen)
	})
	return false
}

// run executes one page render on a pool worker. It always releases
// the render lock, after both sub-tasks have settled. Failures never
// escape the task boundary: a panicking document provider degrades the
// page to a placeholder instead of crashing a worker with the lock
// held.
func (p *pipeline) run(ctx context.Context, page int, entry PageLayout, scale, dpr float64, gen uint64) {
	if err := ctx.Err(); err != nil {
		p.cache.EndRender(page)
		return
	}

	handle, err := p.pageHandle(ctx, page)
	if err != nil {
		Logger().Warn("page unavailable, storing placeholder",
			"page", page, "error", err)
		p.storePlaceholders(page, entry, scale, dpr, gen)
		p.cache.EndRender(page)
		return
	}

	// The overlay sub-task goes to the pool; the raster runs on this
	// worker. Settlement is counted so the lock releases exactly once,
	// after the slower of the two.
	var pending atomic.Int32
	pending.Store(2)
	settle := func() {
		if pending.Add(-1) == 0 {
			p.cache.EndRender(page)
		}
	}

	p.pool.Submit(func() {
		defer settle()
		defer func() {
			if r := recover(); r != nil {
				Logger().Warn("overlay task panicked, storing empty overlay",
					"page", page, "panic", r)
				p.storeOverlay(page, p.builder.Placeholder(page, entry.YOffset, entry.Width, entry.Height), gen)
			}
		}()
		p.renderOverlay(ctx, handle, page, entry, scale, gen)
	})

	defer settle()
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("raster task panicked, storing placeholder",
				"page", page, "panic", r)
			p.storeRaster(page, newPlaceholderRaster(page, entry, scale, dpr), gen)
		}
	}()
	p.renderRaster(ctx, handle, page, entry, scale, dpr, gen)
}

// pageHandle fetches the page handle, converting a panicking provider
// into an error.
func (p *pipeline) pageHandle(ctx context.Context, page int) (h Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("page provider panicked: %v", r)
		}
	}()
	return p.doc.Page(ctx, page)
}

// renderRaster rasterizes one page and stores the result. A failed or
// degenerate render stores a placeholder so the compositor has
// something to draw and does not re-request the page every frame.
func (p *pipeline) renderRaster(ctx context.Context, handle Page, page int, entry PageLayout, scale, dpr float64, gen uint64) {
	w := pixelSize(entry.Width, dpr)
	h := pixelSize(entry.Height, dpr)
	if w <= 0 || h <= 0 {
		p.storeRaster(page, newPlaceholderRaster(page, entry, scale, dpr), gen)
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	vp := Viewport{Width: entry.Width, Height: entry.Height}
	if err := handle.RenderTo(ctx, img, vp); err != nil {
		Logger().Warn("page render failed, storing placeholder",
			"page", page, "error", err)
		p.storeRaster(page, newPlaceholderRaster(page, entry, scale, dpr), gen)
		return
	}

	p.storeRaster(page, &Raster{
		Page:  page,
		Img:   img,
		Scale: scale,
		DPR:   dpr,
	}, gen)
}

// renderOverlay extracts and lays out the page's text. Extraction
// failure degrades to an empty overlay; the raster is unaffected.
func (p *pipeline) renderOverlay(ctx context.Context, handle Page, page int, entry PageLayout, scale float64, gen uint64) {
	spans, err := handle.TextContent(ctx)
	if err != nil {
		Logger().Warn("text extraction failed, storing empty overlay",
			"page", page, "error", err)
		p.storeOverlay(page, p.builder.Placeholder(page, entry.YOffset, entry.Width, entry.Height), gen)
		return
	}
	art := p.builder.Build(page, entry.YOffset, entry.Width, entry.Height, scale, spans)
	p.storeOverlay(page, art, gen)
}

// storePlaceholders fills both caches for a page whose handle could
// not be obtained.
func (p *pipeline) storePlaceholders(page int, entry PageLayout, scale, dpr float64, gen uint64) {
	p.storeRaster(page, newPlaceholderRaster(page, entry, scale, dpr), gen)
	p.storeOverlay(page, p.builder.Placeholder(page, entry.YOffset, entry.Width, entry.Height), gen)
}

// storeRaster writes a raster unless the viewer has been invalidated
// since the render was issued.
func (p *pipeline) storeRaster(page int, r *Raster, gen uint64) {
	if p.gen.Load() != gen {
		Logger().Debug("discarding stale raster", "page", page, "generation", gen)
		return
	}
	p.cache.StoreRaster(page, r)
}

// storeOverlay writes an overlay unless the viewer has been
// invalidated since the render was issued.
func (p *pipeline) storeOverlay(page int, art *overlay.Artifact, gen uint64) {
	if p.gen.Load() != gen {
		Logger().Debug("discarding stale overlay", "page", page, "generation", gen)
		return
	}
	p.cache.StoreOverlay(page, art)
}
