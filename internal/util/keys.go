package util

import "strings"

const (
	DefaultName = "default"
	FileExt     = ".cache"
)

// FileName returns the storage key for a cache name: the lowercased name with
// the .cache extension. A blank name resolves to "default".
func FileName(name string) string {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return strings.ToLower(name) + FileExt
}
