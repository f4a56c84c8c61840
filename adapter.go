package silkcache

import (
	"slices"
	"sync"
)

// Adapter is the bulk item source a UI list keeps: the items it shows plus a
// flag telling whether they changed since the last ResetChanged. The manager
// only touches an adapter through this surface.
type Adapter[T any] interface {
	Items() []T
	Changed() bool
	ResetChanged()
	Set(items []T)
	Count() int
}

// ProgressListener receives ReadAsync progress. All calls except the initial
// Loading/SetLoading(true) pair arrive on the manager's callback context.
type ProgressListener interface {
	Loading() bool
	SetLoading(loading bool)
	// LoadComplete is called once per ReadAsync; failed reports a load fault.
	LoadComplete(failed bool)
	// CacheEmpty is called when the cache had nothing to show.
	CacheEmpty()
}

// List is an in-memory Adapter. Every mutator marks it changed.
type List[T Comparable[T]] struct {
	mu      sync.RWMutex
	items   []T
	changed bool
}

// NewList returns a List holding items, marked unchanged.
func NewList[T Comparable[T]](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List[T]) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the item at i.
func (l *List[T]) At(i int) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

func (l *List[T]) Add(items ...T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = true
	l.items = append(l.items, items...)
}

// Insert places item at index i, clamped to [0, Count()].
func (l *List[T]) Insert(i int, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i = max(0, min(i, len(l.items)))
	l.items = slices.Insert(l.items, i, item)
	l.changed = true
}

// Update replaces the first item that toUpdate.SameAs reports as the same.
// When nothing matches and addIfNotFound is set, toUpdate is appended.
func (l *List[T]) Update(toUpdate T, addIfNotFound bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if toUpdate.SameAs(l.items[i]) {
			l.items[i] = toUpdate
			l.changed = true
			return true
		}
	}
	if addIfNotFound {
		l.items = append(l.items, toUpdate)
		l.changed = true
		return true
	}
	return false
}

// Remove drops the first item matching toRemove.
func (l *List[T]) Remove(toRemove T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if toRemove.SameAs(l.items[i]) {
			l.items = slices.Delete(l.items, i, i+1)
			l.changed = true
			return true
		}
	}
	return false
}

func (l *List[T]) RemoveAt(i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	l.changed = true
	return true
}

// Contains reports whether any item matches item.
func (l *List[T]) Contains(item T) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, v := range l.items {
		if item.SameAs(v) {
			return true
		}
	}
	return false
}

// Set replaces the contents with a copy of items.
func (l *List[T]) Set(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = true
	l.items = slices.Clone(items)
}

func (l *List[T]) Clear() { l.Set(nil) }

func (l *List[T]) Changed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.changed
}

func (l *List[T]) ResetChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = false
}
