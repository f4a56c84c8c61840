package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/silkcache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Debug("dropped", silkcache.Fields{"cache": "feed.cache"})
	l.Error("cache commit failed", silkcache.Fields{"cache": "feed.cache", "err": errors.New("disk full")})

	if logs.Len() != 1 {
		t.Fatalf("got %d entries want 1", logs.Len())
	}
	e := logs.All()[0]
	if e.LoggerName != "silkcache" {
		t.Fatalf("logger name %q", e.LoggerName)
	}
	ctx := e.ContextMap()
	if ctx["cache"] != "feed.cache" || ctx["err"] != "disk full" {
		t.Fatalf("unexpected fields %v", ctx)
	}
}

func TestNilLoggerIsNop(t *testing.T) {
	New(nil).Info("nothing", nil)
}
