package silkcache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListChangedFlag(t *testing.T) {
	l := NewList(&post{ID: "1"})
	if l.Changed() {
		t.Fatalf("new list should be unchanged")
	}

	mutators := map[string]func(){
		"add":     func() { l.Add(&post{ID: "2"}) },
		"insert":  func() { l.Insert(0, &post{ID: "0"}) },
		"update":  func() { l.Update(&post{ID: "1", Title: "t"}, false) },
		"remove":  func() { l.Remove(&post{ID: "2"}) },
		"removeA": func() { l.RemoveAt(0) },
		"set":     func() { l.Set([]*post{{ID: "9"}}) },
		"clear":   func() { l.Clear() },
	}
	for _, name := range []string{"add", "insert", "update", "remove", "removeA", "set", "clear"} {
		l.ResetChanged()
		mutators[name]()
		if !l.Changed() {
			t.Fatalf("%s did not mark the list changed", name)
		}
	}
}

func TestListOperations(t *testing.T) {
	l := NewList(&post{ID: "1"}, &post{ID: "2"})

	l.Insert(1, &post{ID: "1.5"})
	l.Insert(99, &post{ID: "3"})
	if diff := cmp.Diff([]*post{{ID: "1"}, {ID: "1.5"}, {ID: "2"}, {ID: "3"}}, l.Items()); diff != "" {
		t.Fatalf("after Insert (-want +got):\n%s", diff)
	}

	if !l.Contains(&post{ID: "2"}) || l.Contains(&post{ID: "x"}) {
		t.Fatalf("Contains mismatch")
	}
	if l.Update(&post{ID: "x"}, false) {
		t.Fatalf("Update of a missing item without add should report false")
	}
	if !l.Update(&post{ID: "x"}, true) || l.Count() != 5 {
		t.Fatalf("Update with add should append, count=%d", l.Count())
	}
	if v, ok := l.At(4); !ok || v.ID != "x" {
		t.Fatalf("At(4)=%v,%v", v, ok)
	}
	if _, ok := l.At(5); ok {
		t.Fatalf("At out of range should miss")
	}

	items := l.Items()
	items[0] = &post{ID: "mutated"}
	if v, _ := l.At(0); v.ID != "1" {
		t.Fatalf("Items must return a copy")
	}
}
