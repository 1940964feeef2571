package sched

import (
	"sync"
	"time"
)

// Default cadence constants.
const (
	// DefaultFrameInterval approximates a 60 Hz refresh cadence.
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultIdleInterval is the fixed-delay fallback used in place of
	// a real idle signal from the environment.
	DefaultIdleInterval = 50 * time.Millisecond
)

// TickerDisplay is a time-driven display environment: frame ticks at
// the refresh cadence and idle ticks at a fixed short delay. It serves
// as the default when the host application provides no display of its
// own.
//
// TickerDisplay is safe for concurrent use.
type TickerDisplay struct {
	mu     sync.Mutex
	dpr    float64
	width  float64
	height float64

	frame *time.Ticker
	idle  *time.Ticker
}

// NewTickerDisplay creates a display with the given container size in
// layout pixels and device pixel ratio. Non-positive dpr defaults to 1.
func NewTickerDisplay(width, height, dpr float64) *TickerDisplay {
	if dpr <= 0 {
		dpr = 1
	}
	return &TickerDisplay{
		dpr:    dpr,
		width:  width,
		height: height,
		frame:  time.NewTicker(DefaultFrameInterval),
		idle:   time.NewTicker(DefaultIdleInterval),
	}
}

// DevicePixelRatio returns the configured pixel ratio.
func (d *TickerDisplay) DevicePixelRatio() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dpr
}

// ContainerSize returns the layout-pixel container dimensions.
func (d *TickerDisplay) ContainerSize() (width, height float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// SetContainerSize updates the container dimensions reported to the
// viewer. The viewer observes the change on its next layout pass.
func (d *TickerDisplay) SetContainerSize(width, height float64) {
	d.mu.Lock()
	d.width = width
	d.height = height
	d.mu.Unlock()
}

// NextFrame delivers ticks at the refresh cadence.
func (d *TickerDisplay) NextFrame() <-chan time.Time {
	return d.frame.C
}

// Idle delivers ticks at the idle fallback cadence.
func (d *TickerDisplay) Idle() <-chan time.Time {
	return d.idle.C
}

// Stop releases the underlying tickers.
func (d *TickerDisplay) Stop() {
	d.frame.Stop()
	d.idle.Stop()
}
