package log

import (
	"io"
	"time"
)

// HandlerOption is a functional option type for configuring a Handler.
type HandlerOption func(*defaultHandler)

// WithWriters sets the writers used for NOTICE and below (stdout) and WARNING and above (stderr).
// A nil writer leaves the current one in place.
func WithWriters(stdout, stderr io.Writer) HandlerOption {
	return func(h *defaultHandler) {
		if stdout != nil {
			h.stdout = stdout
		}
		if stderr != nil {
			h.stderr = stderr
		}
	}
}

// WithMessageFormat sets the template of a message, recognizing {time}, {level} and {message}.
func WithMessageFormat(format string) HandlerOption {
	return func(h *defaultHandler) {
		h.msgfmt = format
	}
}

// WithTimeFormat sets the layout used for {time}.
func WithTimeFormat(format string) HandlerOption {
	return func(h *defaultHandler) {
		h.timefmt = format
	}
}

// WithEnabled enables or disables the handler.
func WithEnabled(enabled bool) HandlerOption {
	return func(h *defaultHandler) {
		h.disabled = !enabled
	}
}

// WithClock overrides the time source, mostly useful in tests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *defaultHandler) {
		if now != nil {
			h.now = now
		}
	}
}
