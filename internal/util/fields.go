package util

import (
	"maps"
	"slices"
)

// SortedKeys returns the keys of f in lexical order so log lines render the
// same way every time.
func SortedKeys[V any](f map[string]V) []string {
	return slices.Sorted(maps.Keys(f))
}
