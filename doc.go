// Package silkcache persists an ordered list of caller-defined items to a
// single cache file and keeps it in memory between commits.
//
// A Manager owns one buffer. Mutations (Append, Update, Set, Remove, Clear)
// change the buffer in memory only. Commit writes every item whose
// ShouldIgnore reports false, in buffer order, and then drops the buffer;
// the next access reloads it from the file. Committing an empty buffer
// deletes the file instead of writing an empty one.
//
// Components:
//   - Comparable[T]: the item contract (SameAs for first-match lookups,
//     ShouldIgnore to keep placeholders out of the file).
//   - Codec[T]: (de)serializes items <-> record payloads (msgpack by default).
//   - Provider: where the cache blob lives (a directory by default; redis,
//     bigcache and ristretto are available).
//   - Dispatcher: the callback context async results are delivered on.
//   - GenStore: commit generations, used by Stale to notice peer commits.
//
// File layout:
//
//	<dir>/<lowercased name>.cache
//	magic "SLKC" | version | (kind | len | xxhash64 | payload)*
//
// Lifecycle:
//
//	m, _ := silkcache.New[*Post](silkcache.Options[*Post]{Name: "feed"})
//	defer m.Close(ctx)
//	_, _ = m.Append(ctx, posts...)   // loads lazily, then appends in memory
//	_, _ = m.Commit(ctx)             // writes the file, buffer is now unloaded
//	items, _ := m.Read(ctx)          // reloads from disk
package silkcache
