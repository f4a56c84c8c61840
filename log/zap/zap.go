// Package zap adapts go.uber.org/zap to silkcache.Logger.
package zap

import (
	"github.com/unkn0wn-root/silkcache"
	"github.com/unkn0wn-root/silkcache/internal/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ silkcache.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New wraps l; a nil l discards everything.
func New(l *zap.Logger) ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return ZapLogger{L: l.Named("silkcache")}
}

func (z ZapLogger) Debug(msg string, f silkcache.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z ZapLogger) Info(msg string, f silkcache.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z ZapLogger) Warn(msg string, f silkcache.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z ZapLogger) Error(msg string, f silkcache.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

func (z ZapLogger) log(level zapcore.Level, msg string, f silkcache.Fields) {
	if ce := z.L.Check(level, msg); ce != nil {
		ce.Write(zf(f)...)
	}
}

func zf(f silkcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range util.SortedKeys(f) {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
