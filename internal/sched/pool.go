// Package sched provides the viewer's scheduling primitives: the
// render worker pool, and a ticker-based default display environment
// supplying frame-cadence and idle-time signals.
package sched

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a pool of goroutines for render tasks.
//
// Work is distributed round-robin across per-worker queues; an idle
// worker steals from other queues, which balances load when some pages
// render much slower than others.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	next    atomic.Uint64
}

// NewPool creates a pool with the given number of workers. If workers
// is 0 or negative, GOMAXPROCS is used. Workers start immediately.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit queues fn for execution. If the pool is closed, fn runs
// synchronously on the caller so work is never silently dropped.
func (p *Pool) Submit(fn func()) {
	if fn == nil {
		return
	}
	if !p.running.Load() {
		fn()
		return
	}
	id := int(p.next.Add(1)) % p.workers
	select {
	case p.queues[id] <- fn:
	case <-p.done:
		fn()
	}
}

// Close stops the workers after draining their queues and waits for
// them to exit. Close is idempotent.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	mine := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(mine)
			return

		case fn := <-mine:
			if fn != nil {
				fn()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			// No work anywhere, block on own queue.
			select {
			case <-p.done:
				p.drain(mine)
				return
			case fn := <-mine:
				if fn != nil {
					fn()
				}
			}
		}
	}
}

// drain executes all remaining work in a queue.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			if fn != nil {
				fn()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
func (p *Pool) steal(myID int) func() {
	for i := range p.queues {
		if i == myID {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}
