package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestSetIsVisibleImmediately(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(ctx) })

	value := []byte("blob")
	if err := p.Set(ctx, "feed.cache", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X' // provider must hold its own copy

	got, ok, err := p.Get(ctx, "feed.cache")
	if err != nil || !ok || !bytes.Equal(got, []byte("blob")) {
		t.Fatalf("Get got=%q ok=%v err=%v", got, ok, err)
	}
	if err := p.Del(ctx, "feed.cache"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "feed.cache"); ok {
		t.Fatalf("blob still present after Del")
	}
}
