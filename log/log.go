// Package log provides the leveled, structured logger used by relay.
// Messages carry a Level and a list of key/value Fields, and are written by a Handler.
// Every relay component defaults to a noop logger so logging is strictly opt-in.
package log

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Handler is an interface that defines the behavior for handling log messages.
type Handler interface {
	Handle(level Level, message string, fields []Field)
}

// Logger is an interface that defines the behavior for logging messages.
type Logger interface {
	Log(level Level, message string, fields ...Field)
	With(fields ...Field) Logger
	SetLevel(level Level)
}

const (
	// LevelEmergency (0) the process is unusable.
	LevelEmergency Level = iota
	// LevelAlert (1) immediate attention is required.
	LevelAlert
	// LevelCritical (2) a failure severe enough to stop a component.
	LevelCritical
	// LevelError (3) an operation failed but the process keeps going,
	// e.g. a broker that lost its response channel.
	LevelError
	// LevelWarning (4) something unexpected happened that was recovered from,
	// e.g. a submit against a closed request channel.
	LevelWarning
	// LevelNotice (5) significant but normal events such as a broker starting or exiting.
	LevelNotice
	// LevelInfo (6) general operational messages.
	LevelInfo
	// LevelDebug (7) per message tracing of requests and responses.
	LevelDebug
)

// Level represents the severity of a message, lower is more severe.
type Level uint8

func (l Level) String() string {
	switch l {
	case LevelEmergency:
		return "EMERGENCY"
	case LevelAlert:
		return "ALERT"
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelNotice:
		return "NOTICE"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// ParseLevel converts a case-insensitive level name into a Level.
// "warn" is accepted as an alias of WARNING. Unknown names return LevelInfo and an error.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "EMERGENCY":
		return LevelEmergency, nil
	case "ALERT":
		return LevelAlert, nil
	case "CRITICAL":
		return LevelCritical, nil
	case "ERROR":
		return LevelError, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "NOTICE":
		return LevelNotice, nil
	case "INFO", "":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value string
}

// Any creates a Field from a value of any type using its %v formatting.
func Any(key string, value any) Field {
	return Field{Key: key, Value: fmt.Sprintf("%v", value)}
}

// Error creates a Field holding an error message, a nil error is logged as "<nil>".
func Error(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: "<nil>"}
	}
	return Field{Key: key, Value: err.Error()}
}

// Int creates a Field with a key and an integer value.
func Int(key string, value int) Field {
	return Field{Key: key, Value: strconv.Itoa(value)}
}

// String creates a Field with a key and a string value.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a Field with a key and a boolean value.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: strconv.FormatBool(value)}
}

// Duration creates a Field with a key and a time.Duration value.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}
