package config

import (
	"io"
	"time"

	"github.com/spf13/pflag"
)

// Option customizes Load.
type Option func(*loadOpts)

type loadOpts struct {
	file   string
	reader io.Reader
	useEnv bool
	flags  *pflag.FlagSet
}

// WithFile reads TOML from path, overriding RELAY_CONFIG. A missing file is an error.
func WithFile(path string) Option {
	return func(o *loadOpts) {
		o.file = path
	}
}

// WithReader reads TOML from r instead of a file.
func WithReader(r io.Reader) Option {
	return func(o *loadOpts) {
		o.reader = r
	}
}

// WithoutEnvironment ignores RELAY_* environment variables, including RELAY_CONFIG.
func WithoutEnvironment() Option {
	return func(o *loadOpts) {
		o.useEnv = false
	}
}

// WithFlags binds the flags created by RegisterFlags. Only flags set on the command line override other sources.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *loadOpts) {
		o.flags = fs
	}
}

// flagKeys maps config keys to the flag names created by RegisterFlags.
var flagKeys = map[string]string{
	"broker.toggle_delay": "delay",
	"log.level":           "log-level",
	"ui.title":            "title",
	"ui.frame_interval":   "frame-interval",
	"ui.initial_state":    "initial-state",
}

// RegisterFlags defines the flags understood by WithFlags on fs.
// The flag defaults only document the built-in defaults, an unset flag never overrides a file or env value.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Duration("delay", 2*time.Second, "how long the broker takes to flip the state")
	fs.String("log-level", "info", "log level (debug, info, notice, warning, error)")
	fs.String("title", "async-imgui", "window title")
	fs.Duration("frame-interval", 16*time.Millisecond, "time between foreground frames")
	fs.Bool("initial-state", true, "initial value of the extra label flag")
}
