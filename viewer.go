package pageview

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pageview/cache"
	"github.com/gogpu/pageview/internal/sched"
	"github.com/gogpu/pageview/overlay"
	"github.com/gogpu/pageview/surface"
)

// Errors returned by Viewer creation.
var (
	// ErrNilDocument is returned by New when doc is nil.
	ErrNilDocument = errors.New("pageview: document is nil")
)

// Viewer is the windowed page-rendering engine: it lays out a document
// as one continuous vertical strip, renders the pages around the
// current scroll position asynchronously, and composites the visible
// slice onto its surface once per display frame.
//
// All methods are safe for concurrent use.
type Viewer struct {
	doc     Document
	display Display
	surf    surface.Surface
	cache   *pageCache
	pool    *sched.Pool
	pipe    *pipeline
	comp    *compositor
	pref    *prefetcher

	margin     int
	prefetchOn bool

	// gen is bumped by Invalidate; in-flight renders from older
	// generations discard their results.
	gen atomic.Uint64

	layout atomic.Pointer[DocumentLayout]
	scroll atomic.Uint64 // Float64bits

	// widthOverride, when non-zero, replaces the display's container
	// width for layout.
	widthOverride atomic.Uint64 // Float64bits

	relayout atomic.Bool
	dirty    atomic.Bool

	// settled reports whether the last composite pass drew every
	// visible page from a finished raster, with no placeholders and no
	// renders still in flight.
	settled atomic.Bool

	// frameMu serializes surface access between composite passes and
	// Snapshot.
	frameMu sync.Mutex

	updates chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ownsSurface bool
	ownsDisplay bool
}

// New creates a Viewer for doc and starts its scheduling loop.
// The returned Viewer must be closed with Close.
func New(doc Document, opts ...Option) (*Viewer, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	o := defaultViewerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &Viewer{
		doc:        doc,
		display:    o.display,
		surf:       o.surf,
		margin:     o.margin,
		prefetchOn: o.prefetch,
		updates:    make(chan struct{}, 1),
	}
	if v.display == nil {
		v.display = sched.NewTickerDisplay(o.width, o.height, o.dpr)
		v.ownsDisplay = true
	}
	if v.surf == nil {
		cw, ch := v.display.ContainerSize()
		dpr := v.display.DevicePixelRatio()
		s, err := surface.New(pixelSize(cw, dpr), pixelSize(ch, dpr))
		if err != nil {
			return nil, err
		}
		v.surf = s
		v.ownsSurface = true
	}

	var shaper *overlay.Shaper
	if len(o.fontData) > 0 {
		s, err := overlay.NewShaper(o.fontData)
		if err != nil {
			v.closeOwned()
			return nil, err
		}
		shaper = s
	}

	v.cache = cache.New[*Raster, *overlay.Artifact](o.maxKept)
	v.pool = sched.NewPool(o.workers)
	v.pipe = newPipeline(doc, v.cache, v.pool, overlay.NewBuilder(shaper), &v.gen)
	v.comp = newCompositor(v.cache, v.pipe, v.surf)
	v.pref = newPrefetcher(v.pipe, v.cache)

	v.relayout.Store(true)
	v.dirty.Store(true)

	v.ctx, v.cancel = context.WithCancel(context.Background())
	v.wg.Add(1)
	go v.run()
	return v, nil
}

// run is the viewer's scheduling loop: cache writes mark the frame
// dirty, frame ticks composite, idle ticks prefetch.
func (v *Viewer) run() {
	defer v.wg.Done()
	for {
		select {
		case <-v.ctx.Done():
			return

		case <-v.cache.Notify():
			v.dirty.Store(true)

		case <-v.display.NextFrame():
			if v.relayout.CompareAndSwap(true, false) {
				v.relayoutNow()
			}
			if v.dirty.CompareAndSwap(true, false) {
				v.compositeNow()
			}

		case <-v.display.Idle():
			if v.prefetchOn {
				v.pref.step(v.ctx, v.layout.Load(), v.display.DevicePixelRatio())
			}
		}
	}
}

// relayoutNow recomputes the document layout from the current
// container width and clamps the scroll offset into the new extent.
func (v *Viewer) relayoutNow() {
	// The generation is read before the geometry is computed: an
	// invalidation landing in between leaves this layout tagged stale,
	// so renders issued from it can never be stored as current.
	gen := v.gen.Load()
	cw, _ := v.containerSize()
	layout, err := ComputeLayout(v.ctx, v.doc, cw)
	if err != nil {
		return
	}
	layout.generation = gen
	v.layout.Store(layout)
	v.SetScrollOffset(v.ScrollOffset())
	v.pref.reset()
	Logger().Info("layout recomputed",
		"pages", layout.PageCount(),
		"scale", layout.Scale,
		"totalHeight", layout.TotalHeight)
}

// compositeNow draws one frame and signals Updates.
func (v *Viewer) compositeNow() {
	layout := v.layout.Load()
	if layout == nil {
		return
	}
	cw, ch := v.containerSize()
	dpr := v.display.DevicePixelRatio()
	win := ComputeWindow(layout, v.ScrollOffset(), ch, v.margin)

	v.frameMu.Lock()
	complete := v.comp.composite(v.ctx, layout, win, cw, ch, dpr)
	v.frameMu.Unlock()
	v.settled.Store(complete)

	select {
	case v.updates <- struct{}{}:
	default:
	}
}

// Composite runs one composite pass synchronously, recomputing the
// layout first if one is pending. Hosts that drive drawing themselves
// call this instead of waiting for the internal frame tick.
func (v *Viewer) Composite() {
	if v.relayout.CompareAndSwap(true, false) {
		v.relayoutNow()
	}
	v.dirty.Store(false)
	v.compositeNow()
}

// SetScrollOffset positions the top of the visible slice at y document
// pixels, clamped to the document extent. The next frame composites at
// the new position.
func (v *Viewer) SetScrollOffset(y float64) {
	max := 0.0
	if layout := v.layout.Load(); layout != nil {
		_, ch := v.containerSize()
		max = layout.TotalHeight - ch
		if max < 0 {
			max = 0
		}
	}
	if y < 0 {
		y = 0
	}
	if y > max {
		y = max
	}
	v.scroll.Store(math.Float64bits(y))
	v.settled.Store(false)
	v.dirty.Store(true)
}

// ScrollOffset returns the current scroll position.
func (v *Viewer) ScrollOffset() float64 {
	return math.Float64frombits(v.scroll.Load())
}

// TotalHeight returns the document's total laid-out height, or 0
// before the first layout pass.
func (v *Viewer) TotalHeight() float64 {
	if layout := v.layout.Load(); layout != nil {
		return layout.TotalHeight
	}
	return 0
}

// SetContainerWidth overrides the display's container width and
// invalidates the viewer: the document scale follows the width, so
// every cached artifact is stale.
func (v *Viewer) SetContainerWidth(w float64) {
	if w <= 0 {
		return
	}
	v.widthOverride.Store(math.Float64bits(w))
	v.Invalidate()
}

// Invalidate discards all cached artifacts and schedules a fresh
// layout pass. Call it when the document's content changed or the
// render parameters moved. In-flight renders finish but their results
// are discarded.
func (v *Viewer) Invalidate() {
	v.gen.Add(1)
	v.cache.Clear()
	v.relayout.Store(true)
	v.settled.Store(false)
	v.dirty.Store(true)
}

// Updates returns a channel that receives a coalesced signal after
// each composite pass. Hosts use it to know the surface changed.
func (v *Viewer) Updates() <-chan struct{} {
	return v.updates
}

// Snapshot returns a copy of the current surface contents.
func (v *Viewer) Snapshot() *image.RGBA {
	v.frameMu.Lock()
	defer v.frameMu.Unlock()
	return v.surf.Snapshot()
}

// VisibleText returns the text overlay artifacts placed by the last
// composite pass, clipped to the visible slice, for selection and
// hit-testing.
func (v *Viewer) VisibleText() []overlay.Placed {
	v.frameMu.Lock()
	defer v.frameMu.Unlock()
	return v.comp.placedOverlays()
}

// Settled reports whether the last composite pass was complete: every
// visible page drawn from a finished raster, none pending or degraded
// to a placeholder. Hosts poll it to know when the view has caught up
// after a scroll or invalidation.
func (v *Viewer) Settled() bool {
	return v.settled.Load()
}

// Stats returns a snapshot of the artifact cache's behavior.
func (v *Viewer) Stats() cache.Stats {
	return v.cache.Stats()
}

// Layout returns the current document layout, or nil before the first
// layout pass.
func (v *Viewer) Layout() *DocumentLayout {
	return v.layout.Load()
}

// Close stops the scheduling loop, drains the render pool and releases
// resources the viewer created itself. Injected displays and surfaces
// stay open.
func (v *Viewer) Close() error {
	v.cancel()
	v.wg.Wait()
	v.pool.Close()
	v.closeOwned()
	return nil
}

func (v *Viewer) closeOwned() {
	if v.ownsSurface && v.surf != nil {
		v.surf.Close()
	}
	if v.ownsDisplay {
		if td, ok := v.display.(*sched.TickerDisplay); ok {
			td.Stop()
		}
	}
}

// containerSize returns the layout-pixel container size, with the
// width override applied when set.
func (v *Viewer) containerSize() (w, h float64) {
	w, h = v.display.ContainerSize()
	if ow := math.Float64frombits(v.widthOverride.Load()); ow > 0 {
		w = ow
	}
	return w, h
}
