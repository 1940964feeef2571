// Package cache holds the rendered artifacts of a page viewer: one
// cache of page rasters, one cache of text overlays, the set of pages
// currently being rendered, and the recency window that bounds memory.
//
// All cache mutation goes through a single Manager so the eviction
// invariants are enforced in one place:
//   - a page inside the pinned (active cache) window is never evicted
//   - a page that is mid-render is never evicted
//
// Eviction is recency-bounded rather than strict LRU: only fresh
// renders extend a page's lifetime; redrawing from cache does not.
package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxPagesKept is the default recency window size: the number
// of distinct freshly-rendered pages whose artifacts are retained.
const DefaultMaxPagesKept = 16

// Manager is the bounded artifact store for one document generation.
//
// R is the raster artifact type, T the text overlay artifact type. The
// two caches are independent: the same page may have one, both, or
// neither artifact cached, and they may be stored at different times.
//
// Manager is safe for concurrent use.
type Manager[R, T any] struct {
	mu       sync.Mutex
	rasters  map[int]R
	overlays map[int]T
	locks    map[int]struct{}
	recency  *recencyList
	maxKept  int

	// pinned window (inclusive); pinLo > pinHi means nothing is pinned.
	pinLo, pinHi int

	// Statistics (atomic for zero-allocation reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	// notify coalesces write notifications: buffered with size 1 so a
	// store never blocks and a slow consumer sees at most one pending
	// signal.
	notify chan struct{}
}

// Stats is a snapshot of cache behavior.
type Stats struct {
	Rasters      int
	Overlays     int
	Locked       int
	MaxPagesKept int
	Hits         uint64
	Misses       uint64
	HitRate      float64
	Evictions    uint64
}

// New creates a Manager with the given recency window size.
// If maxKept <= 0, DefaultMaxPagesKept is used.
func New[R, T any](maxKept int) *Manager[R, T] {
	if maxKept <= 0 {
		maxKept = DefaultMaxPagesKept
	}
	return &Manager[R, T]{
		rasters:  make(map[int]R),
		overlays: make(map[int]T),
		locks:    make(map[int]struct{}),
		recency:  newRecencyList(),
		maxKept:  maxKept,
		pinLo:    0,
		pinHi:    -1,
		notify:   make(chan struct{}, 1),
	}
}

// BeginRender attempts to start a fresh render for page. It returns
// false when the page is already mid-render: the caller must not issue
// duplicate work and may rely on the in-flight render's eventual cache
// write instead.
//
// On success the page enters the render lock set synchronously, its
// recency position is refreshed, and any artifacts that fell out of
// the recency window are evicted (locked and pinned pages excepted).
func (m *Manager[R, T]) BeginRender(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, inFlight := m.locks[page]; inFlight {
		return false
	}
	m.locks[page] = struct{}{}
	m.misses.Add(1)

	m.recency.Touch(page)
	m.recency.TrimTo(m.maxKept)
	m.evictLocked()
	return true
}

// EndRender removes page from the render lock set. It must be called
// exactly once per successful BeginRender, after all render sub-tasks
// for the page have settled (success or failure).
func (m *Manager[R, T]) EndRender(page int) {
	m.mu.Lock()
	delete(m.locks, page)
	m.mu.Unlock()
	m.signal()
}

// Locked reports whether page is currently mid-render.
func (m *Manager[R, T]) Locked(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[page]
	return ok
}

// StoreRaster stores a raster artifact for page and emits a write
// notification. Artifacts are stored unconditionally, whether or not
// the page is currently visible; this is what separates "rendered"
// from "drawn" and what makes prefetching work.
func (m *Manager[R, T]) StoreRaster(page int, r R) {
	m.mu.Lock()
	m.rasters[page] = r
	m.mu.Unlock()
	m.signal()
}

// StoreOverlay stores a text overlay artifact for page and emits a
// write notification.
func (m *Manager[R, T]) StoreOverlay(page int, o T) {
	m.mu.Lock()
	m.overlays[page] = o
	m.mu.Unlock()
	m.signal()
}

// Raster returns the cached raster for page, if any.
// Hits do not refresh the page's recency position.
func (m *Manager[R, T]) Raster(page int) (R, bool) {
	m.mu.Lock()
	r, ok := m.rasters[page]
	m.mu.Unlock()
	if ok {
		m.hits.Add(1)
	}
	return r, ok
}

// Overlay returns the cached overlay for page, if any.
func (m *Manager[R, T]) Overlay(page int) (T, bool) {
	m.mu.Lock()
	o, ok := m.overlays[page]
	m.mu.Unlock()
	if ok {
		m.hits.Add(1)
	}
	return o, ok
}

// Cached reports whether page has both artifacts cached.
func (m *Manager[R, T]) Cached(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, r := m.rasters[page]
	_, o := m.overlays[page]
	return r && o
}

// Pin marks the inclusive page range [lo, hi] as the active cache
// window. Pages inside it are exempt from eviction until the next Pin.
// Pin(0, -1) unpins everything.
func (m *Manager[R, T]) Pin(lo, hi int) {
	m.mu.Lock()
	m.pinLo, m.pinHi = lo, hi
	m.mu.Unlock()
}

// Clear drops all artifacts, recency state, and statistics. Render
// locks are kept: in-flight renders still settle through EndRender.
// Used when the document or layout is invalidated.
func (m *Manager[R, T]) Clear() {
	m.mu.Lock()
	m.rasters = make(map[int]R)
	m.overlays = make(map[int]T)
	m.recency.Clear()
	m.pinLo, m.pinHi = 0, -1
	m.mu.Unlock()
	m.hits.Store(0)
	m.misses.Store(0)
	m.evictions.Store(0)
	m.signal()
}

// Notify returns the write-notification channel. One signal may cover
// any number of writes; consumers treat it as "recomposite needed".
func (m *Manager[R, T]) Notify() <-chan struct{} {
	return m.notify
}

// Stats returns a snapshot of cache statistics.
func (m *Manager[R, T]) Stats() Stats {
	m.mu.Lock()
	rasters := len(m.rasters)
	overlays := len(m.overlays)
	locked := len(m.locks)
	m.mu.Unlock()

	hits := m.hits.Load()
	misses := m.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Rasters:      rasters,
		Overlays:     overlays,
		Locked:       locked,
		MaxPagesKept: m.maxKept,
		Hits:         hits,
		Misses:       misses,
		HitRate:      hitRate,
		Evictions:    m.evictions.Load(),
	}
}

// RecentPages returns the recency window contents, most recent first.
// Intended for diagnostics.
func (m *Manager[R, T]) RecentPages() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recency.Pages()
}

// evictLocked removes artifacts for every page outside the recency
// window, except pages that are pinned or mid-render.
// Caller must hold m.mu.
func (m *Manager[R, T]) evictLocked() {
	for page := range m.rasters {
		if m.evictableLocked(page) {
			delete(m.rasters, page)
			m.evictions.Add(1)
		}
	}
	for page := range m.overlays {
		if m.evictableLocked(page) {
			delete(m.overlays, page)
			m.evictions.Add(1)
		}
	}
}

// evictableLocked reports whether page may be evicted.
// Caller must hold m.mu.
func (m *Manager[R, T]) evictableLocked(page int) bool {
	if m.recency.Contains(page) {
		return false
	}
	if page >= m.pinLo && page <= m.pinHi {
		return false
	}
	if _, inFlight := m.locks[page]; inFlight {
		return false
	}
	return true
}

// signal emits a coalesced write notification without blocking.
func (m *Manager[R, T]) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
