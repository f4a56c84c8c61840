package util

import "testing"

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"":       "default.cache",
		"   ":    "default.cache",
		"Feed":   "feed.cache",
		"feed":   "feed.cache",
		"MyNews": "mynews.cache",
	}
	for in, want := range cases {
		if got := FileName(in); got != want {
			t.Fatalf("FileName(%q)=%q want %q", in, got, want)
		}
	}
}
