// Package config loads relay demo settings from defaults, an optional TOML file,
// RELAY_* environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ambitiousfew/relay/log"
)

// EnvPrefix is prepended to every environment override, e.g. RELAY_BROKER_TOGGLE_DELAY.
const EnvPrefix = "RELAY"

// Config holds every setting of the demo hosts.
type Config struct {
	Broker BrokerConfig `mapstructure:"broker"`
	Log    LogConfig    `mapstructure:"log"`
	UI     UIConfig     `mapstructure:"ui"`
}

// BrokerConfig holds background task settings.
type BrokerConfig struct {
	Name        string        `mapstructure:"name"`
	ToggleDelay time.Duration `mapstructure:"toggle_delay"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level         string `mapstructure:"level"`
	TimeFormat    string `mapstructure:"time_format"`
	MessageFormat string `mapstructure:"message_format"`
}

// UIConfig holds foreground loop settings.
type UIConfig struct {
	Title         string        `mapstructure:"title"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	InitialState  bool          `mapstructure:"initial_state"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("broker.name", "toggle-broker")
	v.SetDefault("broker.toggle_delay", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.message_format", "{time} [{level}] {message}")
	v.SetDefault("ui.title", "async-imgui")
	v.SetDefault("ui.frame_interval", 16*time.Millisecond)
	v.SetDefault("ui.initial_state", true)
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	c, err := Load(WithoutEnvironment())
	if err != nil {
		// defaults always decode, reaching this is a programming error.
		panic(err)
	}
	return c
}

// Load reads the configuration. Without options it uses the defaults, the file named by
// RELAY_CONFIG if set, and RELAY_* environment overrides.
func Load(opts ...Option) (Config, error) {
	o := loadOpts{useEnv: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.useEnv && o.file == "" && o.reader == nil {
		o.file = os.Getenv(EnvPrefix + "_CONFIG")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	switch {
	case o.reader != nil:
		if err := v.ReadConfig(o.reader); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	case o.file != "":
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", o.file, err)
		}
	}

	if o.useEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if o.flags != nil {
		for key, name := range flagKeys {
			f := o.flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports settings no component could run with.
func (c Config) Validate() error {
	var errs []error
	if c.Broker.ToggleDelay < 0 {
		errs = append(errs, fmt.Errorf("broker.toggle_delay must not be negative, got %s", c.Broker.ToggleDelay))
	}
	if c.UI.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("ui.frame_interval must be positive, got %s", c.UI.FrameInterval))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Logger builds the logger described by the log section, writing to stdout and stderr.
// Hosts that own the terminal pass their own writers.
func (c Config) Logger(stdout, stderr io.Writer) log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.LevelInfo
	}

	handler := log.NewHandler(
		log.WithWriters(stdout, stderr),
		log.WithTimeFormat(c.Log.TimeFormat),
		log.WithMessageFormat(c.Log.MessageFormat),
	)
	return log.NewLogger(level, handler)
}
