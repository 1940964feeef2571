package pageview

import (
	"context"
	"sync"
)

// prefetcher walks the document sequentially during idle time so that
// jumps to arbitrary positions find pages already cached. It advances
// one page per idle tick, never competing with the compositor's own
// render requests for pool time in bursts.
//
// Retention is still the cache's business: prefetched pages pass
// through the recency window like any other render, so prefetching a
// long document keeps only the most recent pages, not all of them.
type prefetcher struct {
	pipe  *pipeline
	cache *pageCache

	// mu guards the walk cursor: reset is called from whoever drives a
	// layout pass while step runs on the scheduling loop.
	mu   sync.Mutex
	next int
	done bool
}

func newPrefetcher(pipe *pipeline, c *pageCache) *prefetcher {
	return &prefetcher{pipe: pipe, cache: c}
}

// reset restarts the walk from the first page. Called after every
// invalidation, since the artifacts it had requested are gone.
func (f *prefetcher) reset() {
	f.mu.Lock()
	f.next = 0
	f.done = false
	f.mu.Unlock()
}

// step issues at most one render request and reports whether the walk
// has more pages left.
func (f *prefetcher) step(ctx context.Context, layout *DocumentLayout, dpr float64) bool {
	if layout == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return false
	}
	for f.next < len(layout.Entries) {
		entry := layout.Entries[f.next]
		if entry.Height <= 0 || f.cache.Cached(entry.Index) {
			f.next++
			continue
		}
		if f.cache.Locked(entry.Index) {
			// In flight; revisit on the next idle tick.
			return true
		}
		f.pipe.request(ctx, entry, layout.Scale, dpr, layout.generation)
		f.next++
		return true
	}
	f.done = true
	Logger().Info("prefetch pass finished", "pages", len(layout.Entries))
	return false
}
