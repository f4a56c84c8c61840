package silkcache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/unkn0wn-root/silkcache/dispatch"
)

// Manager is a cache of T items backed by one cache file.
//
// All methods are safe for concurrent use; the buffer is guarded by a mutex
// and async operations run one at a time, in submission order, on the
// manager's worker.
type Manager[T Comparable[T]] struct {
	mu    sync.Mutex
	store store[T]

	key   string
	log   Logger
	hooks Hooks

	worker       *dispatch.Queue
	callbacks    dispatch.Dispatcher
	ownCallbacks *dispatch.Queue
	ownProvider  bool
	closeOnce    sync.Once
	closeErr     error
}

// Key returns the cache file name, "<lowercased name>.cache".
func (m *Manager[T]) Key() string { return m.key }

// Location returns where the provider keeps the cache (the full path for the
// default file provider).
func (m *Manager[T]) Location() string { return m.store.loc }

// Loaded reports whether the buffer is in memory. It is false after New,
// after Commit and after a failed reload.
func (m *Manager[T]) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.loaded
}

// Read returns a copy of the buffer, loading it from the cache file if needed.
func (m *Manager[T]) Read(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return nil, err
	}
	return append(make([]T, 0, len(m.store.buf)), m.store.buf...), nil
}

// Size returns the number of items in the buffer.
func (m *Manager[T]) Size(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return 0, err
	}
	return len(m.store.buf), nil
}

// Commit writes the buffer to the cache file and unloads it. It fails with
// ErrIllegalState when the buffer is already unloaded.
func (m *Manager[T]) Commit(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.commit(ctx)
}

// ForceReload discards the buffer, unpersisted changes included, and loads it
// again from the cache file.
func (m *Manager[T]) ForceReload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.unload()
	return m.store.reloadIfNecessary(ctx)
}

// Stale reports whether the cache was committed by someone else since this
// manager loaded it. An unloaded manager is never stale.
func (m *Manager[T]) Stale(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.stale(ctx)
}

// Append adds items to the end of the buffer. Nil items and items that should
// be ignored are skipped. It returns how many items were added.
func (m *Manager[T]) Append(ctx context.Context, items ...T) (int, error) {
	if len(items) == 0 {
		m.log.Debug("nothing passed to append", Fields{"cache": m.key})
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return 0, err
	}
	return m.appendLocked(items), nil
}

// AppendAdapter appends the adapter's items and resets its changed flag. An
// empty adapter, or one that has not changed since its last reset, is skipped
// and keeps its changed flag.
func (m *Manager[T]) AppendAdapter(ctx context.Context, a Adapter[T]) (int, error) {
	if isNil(a) || a.Count() == 0 {
		m.log.Debug("adapter passed to append was nil or empty", Fields{"cache": m.key})
		return 0, nil
	}
	if !a.Changed() {
		m.log.Debug("adapter unchanged, skipped append", Fields{"cache": m.key})
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return 0, err
	}
	items := a.Items()
	a.ResetChanged()
	return m.appendLocked(items), nil
}

func (m *Manager[T]) appendLocked(items []T) int {
	n := 0
	for _, v := range items {
		if isNil(v) || v.ShouldIgnore() {
			continue
		}
		m.store.buf = append(m.store.buf, v)
		n++
	}
	m.log.Debug("appended items", Fields{"cache": m.key, "count": n, "skipped": len(items) - n})
	return n
}

// Update replaces the first buffered item that is the same as item. If none
// is and addIfNotFound is set, item is appended. It reports whether the
// buffer changed.
func (m *Manager[T]) Update(ctx context.Context, item T, addIfNotFound bool) (bool, error) {
	if isNil(item) || item.ShouldIgnore() {
		m.log.Debug("item passed to update was nil or ignored", Fields{"cache": m.key})
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return false, err
	}
	for i := range m.store.buf {
		if m.store.buf[i].SameAs(item) {
			m.store.buf[i] = item
			m.log.Debug("updated item", Fields{"cache": m.key, "index": i})
			return true, nil
		}
	}
	if !addIfNotFound {
		return false, nil
	}
	m.store.buf = append(m.store.buf, item)
	m.log.Debug("update found no match, appended item", Fields{"cache": m.key})
	return true, nil
}

// Set replaces the buffer with items. Equivalent to Clear then Append.
func (m *Manager[T]) Set(items ...T) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.clear()
	return m.appendLocked(items)
}

// SetAdapter replaces the buffer with the adapter's items. Nothing happens
// when the adapter is nil or unchanged.
func (m *Manager[T]) SetAdapter(a Adapter[T]) int {
	if isNil(a) || !a.Changed() {
		m.log.Debug("adapter nil or unchanged, set skipped", Fields{"cache": m.key})
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.clear()
	items := a.Items()
	a.ResetChanged()
	return m.appendLocked(items)
}

// RemoveAt removes the item at index i.
func (m *Manager[T]) RemoveAt(ctx context.Context, i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return err
	}
	if i < 0 || i >= len(m.store.buf) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(m.store.buf))
	}
	m.store.buf = slices.Delete(m.store.buf, i, i+1)
	m.log.Debug("removed item", Fields{"cache": m.key, "index": i})
	return nil
}

// Remove removes the first buffered item that is the same as item.
func (m *Manager[T]) Remove(ctx context.Context, item T) (bool, error) {
	if isNil(item) {
		m.log.Debug("item passed to remove was nil", Fields{"cache": m.key})
		return false, nil
	}
	n, err := m.RemoveFunc(ctx, func(v T) bool { return v.SameAs(item) }, true)
	return n == 1, err
}

// RemoveFunc removes the items for which filter returns true, or only the
// first one when removeOne is set. Survivors keep their relative order.
func (m *Manager[T]) RemoveFunc(ctx context.Context, filter func(T) bool, removeOne bool) (int, error) {
	if filter == nil {
		return 0, illegalArgument("remove filter is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return 0, err
	}

	removed := 0
	kept := m.store.buf[:0]
	for _, v := range m.store.buf {
		if (!removeOne || removed == 0) && filter(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	clear(m.store.buf[len(kept):])
	m.store.buf = kept

	m.log.Debug("removed items", Fields{"cache": m.key, "count": removed})
	return removed, nil
}

// Find returns the first buffered item that is the same as query.
func (m *Manager[T]) Find(ctx context.Context, query T) (T, bool, error) {
	var zero T
	if isNil(query) {
		m.log.Debug("item passed to find was nil", Fields{"cache": m.key})
		return zero, false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.reloadIfNecessary(ctx); err != nil {
		return zero, false, err
	}
	m.log.Debug("searching items", Fields{"cache": m.key, "count": len(m.store.buf)})
	for _, v := range m.store.buf {
		if v.SameAs(query) {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// Clear empties the buffer. It never touches the cache file; an unloaded
// manager becomes loaded and empty.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.clear()
	m.log.Debug("cache was cleared", Fields{"cache": m.key})
}

// Close waits for queued async operations and their callbacks, then releases
// what the manager created: its callback queue and the default file provider.
// Caller-supplied providers, dispatchers and gen stores are left open. Close
// must not be called from a callback.
func (m *Manager[T]) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.worker.Close()
		if m.ownCallbacks != nil {
			m.ownCallbacks.Close()
		}
		if m.ownProvider {
			m.closeErr = m.store.provider.Close(ctx)
		}
	})
	return m.closeErr
}
