package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueueSingleWorkerPreservesOrder(t *testing.T) {
	d := NewQueue(1, 4)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		d.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	d.Close()

	if len(got) != 100 {
		t.Fatalf("ran %d functions want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: got %d", i, v)
		}
	}
}

func TestQueueCloseDrainsAndRejects(t *testing.T) {
	d := NewQueue(2, 0)
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		d.Post(func() { n.Add(1) })
	}
	d.Close()
	if n.Load() != 10 {
		t.Fatalf("ran %d want 10", n.Load())
	}
	if d.TryPost(func() { n.Add(1) }) {
		t.Fatalf("TryPost accepted work after Close")
	}
	d.Post(func() { n.Add(1) }) // must not panic
	d.Close()                   // idempotent
	if n.Load() != 10 {
		t.Fatalf("work ran after Close")
	}
}

func TestQueuePostDoesNotWaitForBusyWorker(t *testing.T) {
	d := NewQueue(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	d.Post(func() {
		close(started)
		<-release
	})
	<-started

	var n atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if !d.TryPost(func() { n.Add(1) }) {
				t.Errorf("TryPost rejected work on an open queue")
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatalf("TryPost blocked behind a busy worker")
	}
	if got := d.Len(); got != 1000 {
		t.Fatalf("backlog %d want 1000", got)
	}

	close(release)
	d.Close()
	if n.Load() != 1000 {
		t.Fatalf("ran %d want 1000", n.Load())
	}
}

func TestQueueWorkMayPostToItself(t *testing.T) {
	d := NewQueue(1, 1)
	var n atomic.Int32
	all := make(chan struct{})
	d.Post(func() {
		for i := 0; i < 100; i++ {
			d.Post(func() {
				if n.Add(1) == 100 {
					close(all)
				}
			})
		}
	})
	select {
	case <-all:
	case <-time.After(2 * time.Second):
		t.Fatalf("nested posts did not run, got %d", n.Load())
	}
	d.Close()
}

func TestInlineAndFunc(t *testing.T) {
	ran := false
	Inline{}.Post(func() { ran = true })
	if !ran {
		t.Fatalf("Inline did not run fn")
	}

	var posted int
	f := Func(func(fn func()) { posted++; fn() })
	f.Post(func() {})
	if posted != 1 {
		t.Fatalf("Func not invoked")
	}
}
