// Package config provides project configuration management.
//
// This package handles reading .roomrun.yaml files describing the
// application under test: where its binaries live, how to build it,
// and how its host process announces a room on stderr.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".roomrun.yaml"

// Default trigger protocol, matching the application's stderr output.
const (
	// DefaultRoomMarker is the substring that signals a room announcement.
	DefaultRoomMarker = "got free room ID"

	// DefaultTokenMarker precedes the room identifier on the announcement line.
	DefaultTokenMarker = "r:"
)

// Config represents the .roomrun.yaml file.
type Config struct {
	// App contains application identification.
	App App `yaml:"app"`

	// Build contains build-step configuration.
	Build Build `yaml:"build,omitempty"`

	// Trigger contains the stderr announcement protocol.
	Trigger Trigger `yaml:"trigger,omitempty"`

	// Roles contains console label/color configuration per role.
	Roles Roles `yaml:"roles,omitempty"`

	// Watch lists paths observed in --watch mode.
	Watch []string `yaml:"watch,omitempty"`
}

// App contains application identification.
type App struct {
	// Name is the application binary name.
	Name string `yaml:"name"`

	// DebugBinary overrides the debug build output path.
	DebugBinary string `yaml:"debug_binary,omitempty"`

	// ReleaseBinary overrides the release build output path.
	ReleaseBinary string `yaml:"release_binary,omitempty"`
}

// Build contains build-step configuration.
type Build struct {
	// Command is the build command to run before orchestration.
	Command string `yaml:"command,omitempty"`
}

// Trigger contains the stderr announcement protocol.
type Trigger struct {
	// RoomMarker is the substring that marks a room announcement line.
	RoomMarker string `yaml:"room_marker,omitempty"`

	// TokenMarker precedes the room identifier on the announcement line.
	TokenMarker string `yaml:"token_marker,omitempty"`
}

// Roles contains console label/color configuration per role.
type Roles struct {
	// HostColor is the host label color (ANSI code or hex).
	HostColor string `yaml:"host_color,omitempty"`

	// JoinerColor is the joiner label color (ANSI code or hex).
	JoinerColor string `yaml:"joiner_color,omitempty"`
}

// Load reads a configuration file and applies defaults.
//
// Parameters:
//   - path: Path to the .roomrun.yaml file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error that occurred during loading
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the config from dir, falling back to pure defaults
// when no config file exists. Any other read or parse error is reported.
//
// Parameters:
//   - dir: The project directory to look in
//
// Returns:
//   - *Config: The loaded or default configuration
//   - error: Any error other than a missing file
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFileName)
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Binary returns the application binary path for the selected build profile.
//
// Parameters:
//   - release: True to select the release build output
//
// Returns:
//   - string: The binary path
func (c *Config) Binary(release bool) string {
	if release {
		if c.App.ReleaseBinary != "" {
			return c.App.ReleaseBinary
		}
		return filepath.Join("target", "release", c.App.Name)
	}
	if c.App.DebugBinary != "" {
		return c.App.DebugBinary
	}
	return filepath.Join("target", "debug", c.App.Name)
}

// applyDefaults fills in defaults for any field left empty.
func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "app"
	}
	if c.Build.Command == "" {
		c.Build.Command = "cargo build"
	}
	if c.Trigger.RoomMarker == "" {
		c.Trigger.RoomMarker = DefaultRoomMarker
	}
	if c.Trigger.TokenMarker == "" {
		c.Trigger.TokenMarker = DefaultTokenMarker
	}
	if c.Roles.HostColor == "" {
		c.Roles.HostColor = "12" // bright blue, the classic host color
	}
	if c.Roles.JoinerColor == "" {
		c.Roles.JoinerColor = "11" // bright yellow
	}
	if len(c.Watch) == 0 {
		c.Watch = []string{"src"}
	}
}
