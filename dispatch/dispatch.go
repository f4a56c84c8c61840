// Package dispatch provides the execution contexts silkcache uses for
// asynchronous work and for delivering callbacks.
//
// A Dispatcher is the "callback context": the place where notifications for a
// caller are run. Queue is a serial, FIFO dispatcher backed by its own
// goroutine and is also what a Manager uses as its single async worker.
//
// usage:
//
//	ui := dispatch.NewQueue(1, 256) // one goroutine, callbacks in order
//	defer ui.Close()
//
//	m, _ := silkcache.New[*Post](silkcache.Options[*Post]{
//	    Name:       "feed",
//	    Dispatcher: ui,
//	})
package dispatch

import (
	"sync"
)

// Dispatcher runs fn in the dispatcher's context. Post must not wait for
// earlier posted work to finish.
type Dispatcher interface {
	Post(fn func())
}

// Inline runs callbacks on the goroutine that posts them.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

// Func adapts an ordinary function (for example an event-loop "post" call)
// to Dispatcher.
type Func func(fn func())

func (f Func) Post(fn func()) { f(fn) }

// Queue runs posted functions on a fixed set of worker goroutines. With one
// worker, functions run one at a time in the order they were posted.
//
// The backlog is unbounded, so posting never waits for a worker. A function
// running on the queue may post more work to it.
type Queue struct {
	mu      sync.Mutex
	ready   *sync.Cond
	pending []func()
	closed  bool
	wg      sync.WaitGroup
}

var _ Dispatcher = (*Queue)(nil)

// NewQueue starts workers goroutines. hint sizes the initial backlog; it is
// not a limit.
func NewQueue(workers, hint int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if hint <= 0 {
		hint = 64
	}

	d := &Queue{pending: make([]func(), 0, hint)}
	d.ready = sync.NewCond(&d.mu)
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}
	return d
}

func (d *Queue) run() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		for len(d.pending) == 0 && !d.closed {
			d.ready.Wait()
		}
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.pending[0]
		d.pending[0] = nil
		d.pending = d.pending[1:]
		d.mu.Unlock()

		fn()
	}
}

// Post enqueues fn without blocking. Functions posted after Close are
// dropped; use TryPost to find out.
func (d *Queue) Post(fn func()) { d.TryPost(fn) }

// TryPost is Post that reports whether fn was accepted.
func (d *Queue) TryPost(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.pending = append(d.pending, fn)
	d.ready.Signal()
	return true
}

// Len returns the number of functions waiting for a worker.
func (d *Queue) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close stops accepting work, runs everything already queued and waits for the
// workers to exit. Safe to call multiple times. Must not be called from a
// function running on the queue itself.
func (d *Queue) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.ready.Broadcast()
	d.mu.Unlock()
	d.wg.Wait()
}
