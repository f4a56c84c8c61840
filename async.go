package silkcache

import (
	"context"
	"fmt"
)

// FindCallback receives the result of FindAsync. Exactly one method is called
// per FindAsync, on the manager's callback context.
type FindCallback[T any] interface {
	OnFound(item T)
	OnNothing()
	OnError(err error)
}

// FindFuncs adapts plain functions to FindCallback. Nil fields are skipped.
type FindFuncs[T any] struct {
	Found   func(item T)
	Nothing func()
	Error   func(err error)
}

func (f FindFuncs[T]) OnFound(item T) {
	if f.Found != nil {
		f.Found(item)
	}
}

func (f FindFuncs[T]) OnNothing() {
	if f.Nothing != nil {
		f.Nothing()
	}
}

func (f FindFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// CommitCallback receives the result of CommitAsync. Both handlers are
// optional; errors are always logged and reported to Hooks.AsyncError.
type CommitCallback struct {
	OnCommitted func(ok bool)
	OnError     func(err error)
}

type nopProgress struct{}

func (nopProgress) Loading() bool     { return false }
func (nopProgress) SetLoading(bool)   {}
func (nopProgress) LoadComplete(bool) {}
func (nopProgress) CacheEmpty()       {}

// ReadAsync loads the cache on the manager's worker and hands the items to
// target on the callback context. l may be nil. Nothing is submitted while
// l reports a load in progress.
func (m *Manager[T]) ReadAsync(target Adapter[T], l ProgressListener) error {
	if isNil(target) {
		return illegalArgument("read target is required")
	}
	if isNil(l) {
		l = nopProgress{}
	}
	if l.Loading() {
		m.log.Debug("read already in progress", Fields{"cache": m.key})
		return nil
	}
	l.SetLoading(true)

	err := m.submit(func(ctx context.Context) {
		var items []T
		err := guard(func() (err error) {
			items, err = m.Read(ctx)
			return err
		})
		if err != nil {
			m.asyncFailed("read", err)
		}
		m.deliver("read", func() {
			l.SetLoading(false)
			switch {
			case err != nil:
				l.LoadComplete(true)
				if target.Count() == 0 {
					l.CacheEmpty()
				}
			case len(items) == 0:
				target.Set(nil)
				l.LoadComplete(false)
				l.CacheEmpty()
			default:
				target.Set(items)
				l.LoadComplete(false)
			}
			target.ResetChanged()
		})
	})
	if err != nil {
		l.SetLoading(false)
	}
	return err
}

// FindAsync runs Find on the manager's worker and reports the outcome to cb.
func (m *Manager[T]) FindAsync(query T, cb FindCallback[T]) error {
	if isNil(cb) {
		return illegalArgument("find callback is required")
	}
	return m.submit(func(ctx context.Context) {
		var (
			item  T
			found bool
		)
		err := guard(func() (err error) {
			item, found, err = m.Find(ctx, query)
			return err
		})
		if err != nil {
			m.asyncFailed("find", err)
			m.deliver("find", func() { cb.OnError(err) })
			return
		}
		if !found {
			m.deliver("find", cb.OnNothing)
			return
		}
		m.deliver("find", func() { cb.OnFound(item) })
	})
}

// CommitAsync runs Commit on the manager's worker. Async operations already
// submitted run first, so a ReadAsync followed by CommitAsync commits what the
// read loaded.
func (m *Manager[T]) CommitAsync(cb CommitCallback) error {
	return m.submit(func(ctx context.Context) {
		var ok bool
		err := guard(func() (err error) {
			ok, err = m.Commit(ctx)
			return err
		})
		if err != nil {
			m.asyncFailed("commit", err)
			if cb.OnError != nil {
				m.deliver("commit", func() { cb.OnError(err) })
			}
			return
		}
		if cb.OnCommitted != nil {
			m.deliver("commit", func() { cb.OnCommitted(ok) })
		}
	})
}

func (m *Manager[T]) submit(fn func(ctx context.Context)) error {
	if !m.worker.TryPost(func() { fn(context.Background()) }) {
		return ErrClosed
	}
	return nil
}

// deliver posts fn to the callback context. A panicking callback is logged
// and does not take down the dispatcher.
func (m *Manager[T]) deliver(op string, fn func()) {
	m.callbacks.Post(func() {
		if err := guard(func() error { fn(); return nil }); err != nil {
			m.log.Error("async callback panicked", Fields{"cache": m.key, "op": op, "err": err})
		}
	})
}

func (m *Manager[T]) asyncFailed(op string, err error) {
	m.hooks.AsyncError(m.key, op, err)
	m.log.Error("async "+op+" failed", Fields{"cache": m.key, "err": err})
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("silkcache: panic: %v", r)
		}
	}()
	return fn()
}
