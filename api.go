package silkcache

import (
	"fmt"

	c "github.com/unkn0wn-root/silkcache/codec"
	"github.com/unkn0wn-root/silkcache/dispatch"
	gen "github.com/unkn0wn-root/silkcache/genstore"
	"github.com/unkn0wn-root/silkcache/internal/util"
	pr "github.com/unkn0wn-root/silkcache/provider"
	"github.com/unkn0wn-root/silkcache/provider/file"
)

// Comparable is the contract every cached item satisfies.
type Comparable[T any] interface {
	// SameAs reports whether the receiver and other are the same logical
	// item (same id), not whether every field is equal. Lookups use
	// buffer[i].SameAs(query) and stop at the first match.
	SameAs(other T) bool
	// ShouldIgnore keeps an item out of the cache file (placeholder rows,
	// "load more" sentinels). Ignored items are never appended and are
	// dropped on commit.
	ShouldIgnore() bool
}

// Options configure a Manager. Every field is optional.
type Options[T any] struct {
	Name string // cache name; "" => "default". The file is "<lowercased name>.cache"
	Dir  string // directory for the default file provider; "" => DefaultDir()

	Codec         c.Codec[T] // nil => msgpack
	MaxRecordSize int        // reject records larger than this on load; 0 => unlimited

	Provider    pr.Provider // nil => file provider rooted at Dir (owned and closed by the Manager)
	AtomicWrite bool        // default file provider only: write temp file + rename

	Logger     Logger              // if nil, NopLogger is used
	Hooks      Hooks               // if nil, NopHooks is used
	Dispatcher dispatch.Dispatcher // callback context; nil => a serial queue owned by the Manager
	GenStore   gen.GenStore        // nil => genstore.Shared() (in-process)
}

// New builds a Manager. The cache file is not read until the first operation
// that needs the buffer.
func New[T Comparable[T]](opts Options[T]) (*Manager[T], error) {
	key := util.FileName(opts.Name)

	provider := opts.Provider
	ownProvider := false
	if provider == nil {
		fp, err := file.New(file.Config{
			Dir:    coalesce(opts.Dir, DefaultDir()),
			Atomic: opts.AtomicWrite,
		})
		if err != nil {
			return nil, fmt.Errorf("silkcache: %w", err)
		}
		provider, ownProvider = fp, true
	}

	var codec c.Codec[T] = c.Msgpack[T]{}
	if opts.Codec != nil {
		codec = opts.Codec
	}
	if opts.MaxRecordSize > 0 {
		codec = c.LimitCodec[T]{Inner: codec, MaxDecode: opts.MaxRecordSize}
	}

	var gens gen.GenStore = gen.Shared()
	if opts.GenStore != nil {
		gens = opts.GenStore
	}

	m := &Manager[T]{
		key:         key,
		ownProvider: ownProvider,
		log:         coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:       coalesce[Hooks](opts.Hooks, NopHooks{}),
		worker:      dispatch.NewQueue(1, 64),
	}
	m.store = store[T]{
		key:      key,
		loc:      pr.Locate(provider, key),
		provider: provider,
		codec:    codec,
		gens:     gens,
		log:      m.log,
		hooks:    m.hooks,
	}
	if opts.Dispatcher != nil {
		m.callbacks = opts.Dispatcher
	} else {
		q := dispatch.NewQueue(1, 256)
		m.callbacks, m.ownCallbacks = q, q
	}

	m.log.Debug("cache manager ready", Fields{"cache": key, "location": m.store.loc})
	return m, nil
}
