package silkcache

import (
	"os"
	"path/filepath"
	"reflect"
)

// DefaultDirName is the directory created under the user cache dir when
// Options.Dir is empty.
const DefaultDirName = "Silk"

// DefaultDir returns <user cache dir>/Silk, falling back to the temp dir when
// the platform has no user cache dir.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, DefaultDirName)
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// isNil reports whether v is a nil pointer, map, slice, func, chan or
// interface. Items are generic, so a plain == nil check is not available.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
