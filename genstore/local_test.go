package genstore

import (
	"context"
	"sync"
	"testing"
)

func TestLocalSnapshotMissingIsZero(t *testing.T) {
	s := NewLocalGenStore()
	g, err := s.Snapshot(context.Background(), "/tmp/Silk/feed.cache")
	if err != nil {
		t.Fatal(err)
	}
	if g != 0 {
		t.Fatalf("got %d want 0", g)
	}
}

func TestLocalBumpIsPerLocation(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore()
	t.Cleanup(func() { _ = s.Close(ctx) })

	for i := 0; i < 2; i++ {
		if _, err := s.Bump(ctx, "a"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Bump(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	ga, _ := s.Snapshot(ctx, "a")
	gb, _ := s.Snapshot(ctx, "b")
	gc, _ := s.Snapshot(ctx, "c")
	if ga != 2 || gb != 1 || gc != 0 {
		t.Fatalf("got a=%d b=%d c=%d want a=2,b=1,c=0", ga, gb, gc)
	}
}

func TestLocalConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Bump(ctx, "k")
		}()
	}
	wg.Wait()

	if g, _ := s.Snapshot(ctx, "k"); g != 50 {
		t.Fatalf("got %d want 50", g)
	}
}

func TestSharedIsSingleton(t *testing.T) {
	if Shared() != Shared() {
		t.Fatalf("Shared returned different stores")
	}
}
