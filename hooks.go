package silkcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they may run with the
// manager's lock held.
type Hooks interface {
	// The buffer was (re)loaded from the provider with n items.
	Loaded(cacheKey string, n int)

	// Loading failed; the buffer stays absent.
	LoadFailed(cacheKey string, err error)

	// A commit wrote `written` items and dropped `ignored` ones.
	Committed(cacheKey string, written, ignored int)

	// A commit found nothing to persist and removed the cache file.
	Deleted(cacheKey string)

	// A commit failed to encode or store the buffer.
	CommitFailed(cacheKey string, err error)

	// An async operation failed on the worker.
	// op ∈ {"read", "find", "commit"}
	AsyncError(cacheKey, op string, err error)

	// GenStore errors (snapshot or bump).
	GenError(cacheKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Loaded(string, int)               {}
func (NopHooks) LoadFailed(string, error)         {}
func (NopHooks) Committed(string, int, int)       {}
func (NopHooks) Deleted(string)                   {}
func (NopHooks) CommitFailed(string, error)       {}
func (NopHooks) AsyncError(string, string, error) {}
func (NopHooks) GenError(string, error)           {}
