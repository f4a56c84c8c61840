package silkcache

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState is returned by Commit when the buffer is absent: the
	// manager already committed and nothing has reloaded it since.
	ErrIllegalState = errors.New("silkcache: buffer already committed; call ForceReload or read before committing again")

	// ErrIllegalArgument reports a missing required argument (filter, callback, target).
	ErrIllegalArgument = errors.New("silkcache: illegal argument")

	// ErrIndexOutOfRange is returned by RemoveAt.
	ErrIndexOutOfRange = errors.New("silkcache: index out of range")

	// ErrClosed is returned by async calls made after Close.
	ErrClosed = errors.New("silkcache: manager closed")
)

// LoadError is returned when the cache file cannot be read or decoded.
// Index is the failing record, or -1 when the whole file is at fault.
type LoadError struct {
	Key   string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("silkcache: load %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("silkcache: load %q: record %d: %v", e.Key, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// CommitError is returned when the buffer cannot be encoded or stored.
// Index is the buffer position of the item that failed to encode, or -1.
type CommitError struct {
	Key   string
	Index int
	Err   error
}

func (e *CommitError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("silkcache: commit %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("silkcache: commit %q: item %d: %v", e.Key, e.Index, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func illegalArgument(what string) error {
	return fmt.Errorf("%w: %s", ErrIllegalArgument, what)
}
