package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(func() {
			n.Add(1)
			wg.Done()
		})
	}
	wg.Wait()
	if got := n.Load(); got != 100 {
		t.Fatalf("ran %d tasks, want 100", got)
	}
}

func TestPoolCloseDrains(t *testing.T) {
	p := NewPool(2)

	var n atomic.Int64
	for i := 0; i < 50; i++ {
		p.Submit(func() {
			time.Sleep(time.Millisecond)
			n.Add(1)
		})
	}
	p.Close()
	if got := n.Load(); got != 50 {
		t.Fatalf("drained %d tasks, want 50", got)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := NewPool(1)
	p.Close()

	done := false
	p.Submit(func() { done = true })
	if !done {
		t.Fatal("task submitted after Close did not run synchronously")
	}
}

func TestPoolDefaultWorkers(t *testing.T) {
	p := NewPool(0)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(wg.Done)
	wg.Wait()
}

func TestTickerDisplayDefaults(t *testing.T) {
	d := NewTickerDisplay(800, 600, 0)
	defer d.Stop()

	if got := d.DevicePixelRatio(); got != 1 {
		t.Fatalf("DevicePixelRatio() = %v, want 1 for non-positive input", got)
	}
	w, h := d.ContainerSize()
	if w != 800 || h != 600 {
		t.Fatalf("ContainerSize() = %v, %v, want 800, 600", w, h)
	}

	d.SetContainerSize(400, 300)
	w, h = d.ContainerSize()
	if w != 400 || h != 300 {
		t.Fatalf("ContainerSize() after set = %v, %v, want 400, 300", w, h)
	}
}

func TestTickerDisplayTicks(t *testing.T) {
	d := NewTickerDisplay(100, 100, 2)
	defer d.Stop()

	select {
	case <-d.NextFrame():
	case <-time.After(time.Second):
		t.Fatal("no frame tick within a second")
	}
	select {
	case <-d.Idle():
	case <-time.After(time.Second):
		t.Fatal("no idle tick within a second")
	}
}
