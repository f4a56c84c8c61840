// Package logrus adapts sirupsen/logrus to silkcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/silkcache"
)

var _ silkcache.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l; a nil l uses logrus.StandardLogger().
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: l.WithField("component", "silkcache")}
}

func (l LogrusLogger) Debug(msg string, f silkcache.Fields) { l.log(logrus.DebugLevel, msg, f) }
func (l LogrusLogger) Info(msg string, f silkcache.Fields)  { l.log(logrus.InfoLevel, msg, f) }
func (l LogrusLogger) Warn(msg string, f silkcache.Fields)  { l.log(logrus.WarnLevel, msg, f) }
func (l LogrusLogger) Error(msg string, f silkcache.Fields) { l.log(logrus.ErrorLevel, msg, f) }

func (l LogrusLogger) log(level logrus.Level, msg string, f silkcache.Fields) {
	if !l.E.Logger.IsLevelEnabled(level) {
		return
	}
	e := l.E
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		e = e.WithField(k, v)
	}
	e.Log(level, msg)
}
