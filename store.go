package silkcache

import (
	"context"

	c "github.com/unkn0wn-root/silkcache/codec"
	gen "github.com/unkn0wn-root/silkcache/genstore"
	"github.com/unkn0wn-root/silkcache/internal/wire"
	pr "github.com/unkn0wn-root/silkcache/provider"
)

// store owns the buffer and the load/commit primitives. Callers hold the
// manager lock for every method.
type store[T Comparable[T]] struct {
	key      string // "<name>.cache"
	loc      string // provider location of key, used for generations
	provider pr.Provider
	codec    c.Codec[T]
	gens     gen.GenStore
	log      Logger
	hooks    Hooks

	buf      []T
	loaded   bool   // false => buf is absent and must be reloaded
	observed uint64 // generation at last load or own commit
}

// reloadIfNecessary loads the buffer when it is absent.
func (s *store[T]) reloadIfNecessary(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	items, err := s.load(ctx)
	if err != nil {
		s.hooks.LoadFailed(s.key, err)
		s.log.Error("cache load failed", Fields{"cache": s.key, "err": err})
		return err
	}
	s.buf, s.loaded = items, true
	return nil
}

func (s *store[T]) load(ctx context.Context) ([]T, error) {
	s.log.Debug("reloading cache items to buffer", Fields{"cache": s.key})

	// snapshot before reading: a commit racing with this load then shows up as stale
	g := s.snapshotGen(ctx)

	raw, ok, err := s.provider.Get(ctx, s.key)
	if err != nil {
		return nil, &LoadError{Key: s.key, Index: -1, Err: err}
	}
	items := make([]T, 0)
	if ok {
		i := 0
		for payload, err := range wire.Records(raw) {
			if err != nil {
				return nil, &LoadError{Key: s.key, Index: i, Err: err}
			}
			v, err := s.codec.Decode(payload)
			if err != nil {
				return nil, &LoadError{Key: s.key, Index: i, Err: err}
			}
			if !isNil(v) {
				items = append(items, v)
			}
			i++
		}
	}

	s.observed = g
	s.hooks.Loaded(s.key, len(items))
	s.log.Debug("read items from cache", Fields{"cache": s.key, "count": len(items)})
	return items, nil
}

// commit persists the buffer. An empty buffer (or one holding only ignored
// items) deletes the cache file. After a write the buffer is absent.
func (s *store[T]) commit(ctx context.Context) (bool, error) {
	if !s.loaded {
		return false, ErrIllegalState
	}
	if len(s.buf) == 0 {
		if err := s.remove(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	w := wire.NewWriter()
	ignored := 0
	for i, v := range s.buf {
		if v.ShouldIgnore() {
			ignored++
			continue
		}
		payload, err := s.codec.Encode(v)
		if err != nil {
			return false, s.commitFailed(&CommitError{Key: s.key, Index: i, Err: err})
		}
		w.Append(payload)
	}

	if w.Len() == 0 {
		if err := s.remove(ctx); err != nil {
			return false, err
		}
	} else {
		if err := s.provider.Set(ctx, s.key, w.Bytes()); err != nil {
			return false, s.commitFailed(&CommitError{Key: s.key, Index: -1, Err: err})
		}
		s.bumpGen(ctx)
		s.hooks.Committed(s.key, w.Len(), ignored)
		s.log.Debug("committed items", Fields{"cache": s.key, "count": w.Len(), "ignored": ignored})
	}

	s.buf, s.loaded = nil, false
	return true, nil
}

func (s *store[T]) remove(ctx context.Context) error {
	if err := s.provider.Del(ctx, s.key); err != nil {
		return s.commitFailed(&CommitError{Key: s.key, Index: -1, Err: err})
	}
	s.bumpGen(ctx)
	s.hooks.Deleted(s.key)
	s.log.Debug("nothing to persist, deleted cache file", Fields{"cache": s.key})
	return nil
}

func (s *store[T]) commitFailed(err *CommitError) error {
	s.hooks.CommitFailed(s.key, err)
	s.log.Error("cache commit failed", Fields{"cache": s.key, "err": err})
	return err
}

// clear empties the buffer, creating it without a load when absent.
func (s *store[T]) clear() {
	clear(s.buf)
	s.buf = s.buf[:0]
	if s.buf == nil {
		s.buf = make([]T, 0)
	}
	s.loaded = true
}

// unload drops the buffer, including unpersisted changes.
func (s *store[T]) unload() {
	s.buf, s.loaded = nil, false
}

func (s *store[T]) stale(ctx context.Context) (bool, error) {
	if !s.loaded {
		return false, nil
	}
	g, err := s.gens.Snapshot(ctx, s.loc)
	if err != nil {
		s.hooks.GenError(s.key, err)
		return false, err
	}
	return g != s.observed, nil
}

func (s *store[T]) snapshotGen(ctx context.Context) uint64 {
	g, err := s.gens.Snapshot(ctx, s.loc)
	if err != nil {
		// generation 0: Stale reports true once the store recovers
		s.hooks.GenError(s.key, err)
		s.log.Warn("gen snapshot error", Fields{"cache": s.key, "err": err})
		return 0
	}
	return g
}

func (s *store[T]) bumpGen(ctx context.Context) {
	g, err := s.gens.Bump(ctx, s.loc)
	if err != nil {
		s.hooks.GenError(s.key, err)
		s.log.Error("gen bump error", Fields{"cache": s.key, "err": err})
		return
	}
	s.observed = g
}
