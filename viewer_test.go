package pageview

import (
	"testing"
	"time"
)

// tickUntil drives frames through the fake display until cond holds.
func tickUntil(t *testing.T, d *fakeDisplay, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		d.tickFrame()
		time.Sleep(time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition never held")
	}
}

func TestViewerRendersVisiblePages(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.TotalHeight() == 600 })

	// Keep ticking until a composite pass drew page 0 from cache.
	tickUntil(t, fd, func() bool {
		img := v.Snapshot()
		return img != nil && img.RGBAAt(50, 50) == fillColor(0)
	})

	select {
	case <-v.Updates():
	default:
		t.Fatal("no update signal after composite passes")
	}
}

func TestViewerScrollClamping(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.TotalHeight() == 600 })

	v.SetScrollOffset(-50)
	if got := v.ScrollOffset(); got != 0 {
		t.Fatalf("negative offset clamped to %v, want 0", got)
	}

	v.SetScrollOffset(1e9)
	if got := v.ScrollOffset(); got != 400 {
		t.Fatalf("oversized offset clamped to %v, want 400", got)
	}
}

func TestViewerScrollRevealsLaterPage(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.TotalHeight() == 600 })
	v.SetScrollOffset(400)

	tickUntil(t, fd, func() bool {
		img := v.Snapshot()
		return img != nil && img.RGBAAt(50, 50) == fillColor(2)
	})
}

func TestViewerInvalidateDiscardsArtifacts(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.Stats().Rasters > 0 })

	v.Invalidate()
	if got := v.Stats().Rasters; got != 0 {
		t.Fatalf("cache holds %d rasters after Invalidate, want 0", got)
	}

	// The viewer recovers: layout and renders come back on their own.
	tickUntil(t, fd, func() bool {
		img := v.Snapshot()
		return img != nil && img.RGBAAt(50, 50) == fillColor(0)
	})
}

func TestViewerSetContainerWidthRescales(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.TotalHeight() == 600 })

	// Halving the width halves the scale and the document height.
	v.SetContainerWidth(50)
	tickUntil(t, fd, func() bool { return v.TotalHeight() == 300 })

	layout := v.Layout()
	if layout.Scale != 0.5 {
		t.Fatalf("scale = %v after width change, want 0.5", layout.Scale)
	}
}

func TestViewerVisibleText(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return len(v.VisibleText()) > 0 })

	placed := v.VisibleText()
	if placed[0].Artifact.Page != 0 {
		t.Fatalf("first visible overlay is page %d, want 0", placed[0].Artifact.Page)
	}
	if len(placed[0].Artifact.Spans) != 2 {
		t.Fatalf("page 0 overlay has %d spans, want 2", len(placed[0].Artifact.Spans))
	}
}

func TestViewerIdlePrefetch(t *testing.T) {
	doc := newFakeDoc(6, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2), WithCacheMargin(0))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	tickUntil(t, fd, func() bool { return v.TotalHeight() == 1200 })

	// Idle ticks walk the document; eventually page 5 is cached even
	// though it was never visible.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v.cache.Cached(5) {
			return
		}
		fd.tickIdle()
		time.Sleep(time.Millisecond)
	}
	t.Fatal("idle prefetch never reached page 5")
}

func TestViewerDefaultDisplay(t *testing.T) {
	doc := newFakeDoc(2, 100, 200)
	v, err := New(doc, WithContainerSize(100, 200), WithPrefetch(false))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	// The built-in ticker drives layout and compositing unattended.
	if !waitFor(2*time.Second, func() bool { return v.TotalHeight() == 400 }) {
		t.Fatal("layout never computed on the default display")
	}
	if !waitFor(2*time.Second, func() bool {
		img := v.Snapshot()
		return img != nil && img.RGBAAt(50, 50) == fillColor(0)
	}) {
		t.Fatal("page 0 never composited on the default display")
	}
}

func TestViewerNilDocument(t *testing.T) {
	doc := Document(nil)
	if _, err := New(doc); err != ErrNilDocument {
		t.Fatalf("New(nil) error = %v, want ErrNilDocument", err)
	}
}

func TestViewerSettled(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	doc.renderDelay = 10 * time.Millisecond
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	// The first composite issues renders and draws an incomplete frame.
	v.Composite()
	if v.Settled() {
		t.Fatal("settled before any render finished")
	}

	if !waitFor(2*time.Second, func() bool {
		v.Composite()
		return v.Settled()
	}) {
		t.Fatal("viewer never settled")
	}

	// A scroll into uncached territory unsettles the view until the
	// new window's renders land.
	v.SetScrollOffset(400)
	if v.Settled() {
		t.Fatal("still settled right after scrolling to a cold window")
	}
	if !waitFor(2*time.Second, func() bool {
		v.Composite()
		return v.Settled()
	}) {
		t.Fatal("viewer never settled after scroll")
	}
}

func TestViewerSynchronousComposite(t *testing.T) {
	doc := newFakeDoc(3, 100, 200)
	fd := newFakeDisplay(100, 200, 1)
	v, err := New(doc, WithDisplay(fd), WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	v.Composite()
	if v.TotalHeight() != 600 {
		t.Fatalf("TotalHeight = %v after synchronous composite, want 600", v.TotalHeight())
	}

	if !waitFor(2*time.Second, func() bool { return v.cache.Cached(0) }) {
		t.Fatal("composite did not trigger renders")
	}
	v.Composite()
	img := v.Snapshot()
	if got := img.RGBAAt(50, 50); got != fillColor(0) {
		t.Fatalf("pixel = %v after second composite, want %v", got, fillColor(0))
	}
}
