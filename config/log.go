package config

import (
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"strings"

	"github.com/unkn0wn-root/silkcache"
	"github.com/unkn0wn-root/silkcache/log/slog"
)

type LogHandlerType string

const (
	HandlerTypeText LogHandlerType = "text"
	HandlerTypeJSON LogHandlerType = "json"
)

type LogLevel string

const (
	LogLevelOff   LogLevel = "off"
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

type Log struct {
	Level  LogLevel       `yaml:"level"`
	Format LogHandlerType `yaml:"format"`

	// Output receives log lines; nil => os.Stderr.
	Output io.Writer `yaml:"-"`
}

func (l *Log) applyDefaults() {
	l.Level = LogLevel(strings.ToLower(string(l.Level)))
	if l.Level == "" {
		l.Level = LogLevelOff
	}
	l.Format = LogHandlerType(strings.ToLower(string(l.Format)))
	if l.Format == "" {
		l.Format = HandlerTypeText
	}
}

func (l *Log) Validate() error {
	if _, err := l.slogLevel(); err != nil {
		return err
	}
	switch l.Format {
	case HandlerTypeText, HandlerTypeJSON:
		return nil
	default:
		return fmt.Errorf("%w: unsupported log format %q", ErrInvalid, l.Format)
	}
}

func (l *Log) slogLevel() (stdslog.Level, error) {
	switch l.Level {
	case LogLevelDebug:
		return stdslog.LevelDebug, nil
	case LogLevelInfo, LogLevelOff:
		return stdslog.LevelInfo, nil
	case LogLevelWarn:
		return stdslog.LevelWarn, nil
	case LogLevelError:
		return stdslog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unsupported log level %q", ErrInvalid, l.Level)
	}
}

// Logger builds a slog-backed silkcache.Logger. Level "off" returns a
// NopLogger.
func (l Log) Logger() (silkcache.Logger, error) {
	l.applyDefaults()
	if l.Level == LogLevelOff {
		return silkcache.NopLogger{}, nil
	}
	level, err := l.slogLevel()
	if err != nil {
		return nil, err
	}
	out := l.Output
	if out == nil {
		out = os.Stderr
	}

	opts := stdslog.HandlerOptions{Level: level}
	var handler stdslog.Handler
	switch l.Format {
	case HandlerTypeJSON:
		handler = stdslog.NewJSONHandler(out, &opts)
	case HandlerTypeText:
		handler = stdslog.NewTextHandler(out, &opts)
	default:
		return nil, fmt.Errorf("%w: unsupported log format %q", ErrInvalid, l.Format)
	}
	return slog.New(stdslog.New(handler)), nil
}
