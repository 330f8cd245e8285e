// Package log provides the structured logging interface used throughout
// this module, grounded on drand's log package: a small level-filtered
// wrapper around a go-kit logger rather than a bespoke logging framework.
package log

import (
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the structured logging interface every package in this module
// takes as a collaborator instead of reaching for a package-level global.
// Unlike drand's Logger, there is no Fatal: this core must never exit the
// process on its own (spec §5, single-consumer sequential event loop run
// by the federation runtime, not by this module).
type Logger interface {
	Info(keyvals ...interface{})
	Debug(keyvals ...interface{})
	Warn(keyvals ...interface{})
	Error(keyvals ...interface{})
	With(keyvals ...interface{}) Logger
}

// Level selects which statements a Logger emits.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelDebug
)

const logStackDepth = 5

var (
	defaultLogger     Logger
	defaultLoggerOnce sync.Once
)

// Default returns a package-wide logger writing logfmt to stderr at
// LevelInfo, lazily constructed on first use.
func Default() Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(nil, LevelInfo)
	})
	return defaultLogger
}

type kitLogger struct {
	kitlog.Logger
}

// New wraps base (or, if nil, a logfmt logger to stderr) with level
// filtering, a timestamp, and caller annotation.
func New(base kitlog.Logger, lvl Level) Logger {
	if base == nil {
		base = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	}

	var opt level.Option
	switch lvl {
	case LevelNone:
		opt = level.AllowNone()
	case LevelInfo:
		opt = level.AllowInfo()
	case LevelDebug:
		opt = level.AllowDebug()
	default:
		opt = level.AllowInfo()
	}

	filtered := level.NewFilter(base, opt)
	withTimestamp := kitlog.With(filtered, "ts", kitlog.TimestampFormat(time.Now, time.RFC3339))
	withCaller := kitlog.With(withTimestamp, "caller", kitlog.Caller(logStackDepth))
	return &kitLogger{withCaller}
}

func (k *kitLogger) Info(kv ...interface{}) {
	_ = level.Info(k.Logger).Log(kv...)
}

func (k *kitLogger) Debug(kv ...interface{}) {
	_ = level.Debug(k.Logger).Log(kv...)
}

func (k *kitLogger) Warn(kv ...interface{}) {
	_ = level.Warn(k.Logger).Log(kv...)
}

func (k *kitLogger) Error(kv ...interface{}) {
	_ = level.Error(k.Logger).Log(kv...)
}

func (k *kitLogger) With(kv ...interface{}) Logger {
	return &kitLogger{kitlog.With(k.Logger, kv...)}
}
