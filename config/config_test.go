package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/ambitiousfew/relay/log"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(WithoutEnvironment())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Broker.ToggleDelay != 2*time.Second {
		t.Errorf("broker.toggle_delay = %s, want %s", c.Broker.ToggleDelay, 2*time.Second)
	}
	if c.Broker.Name != "toggle-broker" {
		t.Errorf("broker.name = %q, want %q", c.Broker.Name, "toggle-broker")
	}
	if c.UI.Title != "async-imgui" {
		t.Errorf("ui.title = %q, want %q", c.UI.Title, "async-imgui")
	}
	if !c.UI.InitialState {
		t.Error("ui.initial_state should default to true")
	}
	if c.UI.FrameInterval != 16*time.Millisecond {
		t.Errorf("ui.frame_interval = %s, want %s", c.UI.FrameInterval, 16*time.Millisecond)
	}
	if c.Log.Level != "info" {
		t.Errorf("log.level = %q, want %q", c.Log.Level, "info")
	}
}

func TestLoadFromReader(t *testing.T) {
	data := `
[broker]
toggle_delay = "250ms"

[log]
level = "debug"

[ui]
title = "toggle demo"
initial_state = false
`
	c, err := Load(WithoutEnvironment(), WithReader(strings.NewReader(data)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Broker.ToggleDelay != 250*time.Millisecond {
		t.Errorf("broker.toggle_delay = %s, want %s", c.Broker.ToggleDelay, 250*time.Millisecond)
	}
	if c.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", c.Log.Level, "debug")
	}
	if c.UI.Title != "toggle demo" {
		t.Errorf("ui.title = %q, want %q", c.UI.Title, "toggle demo")
	}
	if c.UI.InitialState {
		t.Error("ui.initial_state should be false")
	}
	// untouched keys keep their defaults
	if c.Broker.Name != "toggle-broker" {
		t.Errorf("broker.name = %q, want %q", c.Broker.Name, "toggle-broker")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_BROKER_TOGGLE_DELAY", "1s")
	t.Setenv("RELAY_UI_TITLE", "from env")
	t.Setenv("RELAY_CONFIG", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Broker.ToggleDelay != time.Second {
		t.Errorf("broker.toggle_delay = %s, want %s", c.Broker.ToggleDelay, time.Second)
	}
	if c.UI.Title != "from env" {
		t.Errorf("ui.title = %q, want %q", c.UI.Title, "from env")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("RELAY_BROKER_TOGGLE_DELAY", "1s")
	t.Setenv("RELAY_CONFIG", "")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--delay=5ms", "--initial-state=false"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	c, err := Load(WithFlags(fs))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Broker.ToggleDelay != 5*time.Millisecond {
		t.Errorf("broker.toggle_delay = %s, want %s", c.Broker.ToggleDelay, 5*time.Millisecond)
	}
	if c.UI.InitialState {
		t.Error("ui.initial_state should be false from flag")
	}
	// unset flags do not override defaults
	if c.UI.Title != "async-imgui" {
		t.Errorf("ui.title = %q, want %q", c.UI.Title, "async-imgui")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(WithoutEnvironment(), WithFile("/nonexistent/relay.toml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"negative delay", func(c *Config) { c.Broker.ToggleDelay = -time.Second }, "toggle_delay"},
		{"zero frame interval", func(c *Config) { c.UI.FrameInterval = 0 }, "frame_interval"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigLogger(t *testing.T) {
	var out strings.Builder
	c := Default()
	c.Log.Level = "warning"
	c.Log.MessageFormat = "[{level}] {message}"

	logger := c.Logger(&out, &out)
	logger.Log(log.LevelInfo, "hidden")
	logger.Log(log.LevelWarning, "shown")

	if got, want := out.String(), "[WARNING] shown\n"; got != want {
		t.Errorf("logger output = %q, want %q", got, want)
	}
}
