package pageview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"
)

// errFakePage is the injected failure for fake pages.
var errFakePage = errors.New("fake page failure")

// fakeDoc is an in-memory Document for tests. Failures are injected
// per page, and render invocations are counted per page so tests can
// assert duplicate-work suppression.
type fakeDoc struct {
	sizes []Viewport

	mu         sync.Mutex
	failPage    map[int]bool // Page() fails
	failRender  map[int]bool // RenderTo fails
	failText    map[int]bool // TextContent fails
	panicPage   map[int]bool // Page() panics
	panicRender map[int]bool // RenderTo panics

	renderDelay time.Duration
	textDelay   time.Duration

	pageCalls   atomic.Int64
	renderCalls []atomic.Int64
	textCalls   []atomic.Int64
}

// newFakeDoc creates a fake document with n pages of identical intrinsic size.
func newFakeDoc(n int, w, h float64) *fakeDoc {
	sizes := make([]Viewport, n)
	for i := range sizes {
		sizes[i] = Viewport{Width: w, Height: h}
	}
	return newFakeDocSizes(sizes)
}

// newFakeDocSizes creates a fake document with the given per-page sizes.
func newFakeDocSizes(sizes []Viewport) *fakeDoc {
	return &fakeDoc{
		sizes:       sizes,
		failPage:    make(map[int]bool),
		failRender:  make(map[int]bool),
		failText:    make(map[int]bool),
		panicPage:   make(map[int]bool),
		panicRender: make(map[int]bool),
		renderCalls: make([]atomic.Int64, len(sizes)),
		textCalls:   make([]atomic.Int64, len(sizes)),
	}
}

func (d *fakeDoc) PageCount() int { return len(d.sizes) }

func (d *fakeDoc) Page(ctx context.Context, n int) (Page, error) {
	d.pageCalls.Add(1)
	if n < 0 || n >= len(d.sizes) {
		return nil, fmt.Errorf("page %d out of range: %w", n, errFakePage)
	}
	d.mu.Lock()
	fail := d.failPage[n]
	pan := d.panicPage[n]
	d.mu.Unlock()
	if pan {
		panic(fmt.Sprintf("fake page %d exploded", n))
	}
	if fail {
		return nil, errFakePage
	}
	return &fakePage{doc: d, index: n}, nil
}

func (d *fakeDoc) setFail(kind string, n int, fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch kind {
	case "page":
		d.failPage[n] = fail
	case "render":
		d.failRender[n] = fail
	case "text":
		d.failText[n] = fail
	case "panicPage":
		d.panicPage[n] = fail
	case "panicRender":
		d.panicRender[n] = fail
	}
}

func (d *fakeDoc) renders(n int) int64 { return d.renderCalls[n].Load() }

type fakePage struct {
	doc   *fakeDoc
	index int
}

func (p *fakePage) Viewport(scale float64) Viewport {
	s := p.doc.sizes[p.index]
	return Viewport{Width: s.Width * scale, Height: s.Height * scale}
}

func (p *fakePage) RenderTo(ctx context.Context, img *image.RGBA, vp Viewport) error {
	p.doc.renderCalls[p.index].Add(1)
	if d := p.doc.renderDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.doc.mu.Lock()
	fail := p.doc.failRender[p.index]
	pan := p.doc.panicRender[p.index]
	p.doc.mu.Unlock()
	if pan {
		panic(fmt.Sprintf("fake render %d exploded", p.index))
	}
	if fail {
		return errFakePage
	}
	// Distinct fill per page so compositor tests can identify sources.
	c := color.RGBA{R: uint8(10 + p.index*20), G: 100, B: 200, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return nil
}

func (p *fakePage) TextContent(ctx context.Context) ([]TextSpan, error) {
	p.doc.textCalls[p.index].Add(1)
	if d := p.doc.textDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.doc.mu.Lock()
	fail := p.doc.failText[p.index]
	p.doc.mu.Unlock()
	if fail {
		return nil, errFakePage
	}
	return []TextSpan{
		{Text: fmt.Sprintf("page %d line 1", p.index), X: 10, Y: 20, Width: 120, Height: 14, FontSize: 12},
		{Text: fmt.Sprintf("page %d line 2", p.index), X: 10, Y: 40, Width: 120, Height: 14, FontSize: 12},
	}, nil
}

// fillColor returns the uniform color fakePage.RenderTo uses for page n.
func fillColor(n int) color.RGBA {
	return color.RGBA{R: uint8(10 + n*20), G: 100, B: 200, A: 255}
}

// fakeDisplay is a manually driven Display: tests push frame and idle
// ticks through unbuffered channels.
type fakeDisplay struct {
	dpr   float64
	w, h  float64
	frame chan time.Time
	idle  chan time.Time
}

func newFakeDisplay(w, h, dpr float64) *fakeDisplay {
	return &fakeDisplay{
		dpr:   dpr,
		w:     w,
		h:     h,
		frame: make(chan time.Time),
		idle:  make(chan time.Time),
	}
}

func (d *fakeDisplay) DevicePixelRatio() float64             { return d.dpr }
func (d *fakeDisplay) ContainerSize() (width, height float64) { return d.w, d.h }
func (d *fakeDisplay) NextFrame() <-chan time.Time           { return d.frame }
func (d *fakeDisplay) Idle() <-chan time.Time                { return d.idle }

// tickFrame pushes one frame tick, unblocking a waiting run loop.
func (d *fakeDisplay) tickFrame() { d.frame <- time.Now() }

// tickIdle pushes one idle tick.
func (d *fakeDisplay) tickIdle() { d.idle <- time.Now() }

// waitFor polls cond until it holds or the deadline expires.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
