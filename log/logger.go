package log

import (
	"sync"

	"golang.org/x/exp/slices"
)

type logger struct {
	handler Handler
	fields  []Field
	// level is shared by every logger derived through With.
	level *Level
	mu    *sync.RWMutex
}

// NewLogger returns a Logger that forwards every message at or above level to handler.
func NewLogger(level Level, handler Handler) Logger {
	lvl := level
	return &logger{
		handler: handler,
		fields:  []Field{},
		level:   &lvl,
		mu:      &sync.RWMutex{},
	}
}

func (l *logger) Log(level Level, message string, fields ...Field) {
	l.mu.RLock()
	ignore := *l.level < level
	l.mu.RUnlock()
	if ignore {
		return
	}

	if len(l.fields) == 0 {
		l.handler.Handle(level, message, fields)
		return
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	l.handler.Handle(level, message, all)
}

// With returns a child logger that prepends fields to every message.
// The child shares its level with the parent.
func (l *logger) With(fields ...Field) Logger {
	// clone so siblings created from the same parent never share a backing array.
	merged := slices.Clone(l.fields)
	merged = append(merged, fields...)
	return &logger{
		level:   l.level,
		fields:  merged,
		handler: l.handler,
		mu:      l.mu,
	}
}

func (l *logger) SetLevel(level Level) {
	l.mu.Lock()
	*l.level = level
	l.mu.Unlock()
}

type noopLogger struct{}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (l noopLogger) Log(_ Level, _ string, _ ...Field) {}

func (l noopLogger) SetLevel(_ Level) {}

func (l noopLogger) With(_ ...Field) Logger {
	return l
}
