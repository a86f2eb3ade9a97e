// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Backend selects the sound service implementation.
type Backend string

const (
	BackendAuto   Backend = "auto"   // native where available, beep otherwise
	BackendNative Backend = "native" // platform system sound service
	BackendBeep   Backend = "beep"   // in-process playback
)

// ValidBackends returns all valid backend values.
func ValidBackends() []Backend {
	return []Backend{BackendAuto, BackendNative, BackendBeep}
}

// FlashMethod selects how a screen flash is presented by the beep backend.
type FlashMethod string

const (
	FlashAuto     FlashMethod = "auto"     // terminal when attached to one, notification otherwise
	FlashTerminal FlashMethod = "terminal" // reverse-video visual bell
	FlashNotify   FlashMethod = "notify"   // critical desktop notification
	FlashNone     FlashMethod = "none"
)

// ValidFlashMethods returns all valid flash method values.
func ValidFlashMethods() []FlashMethod {
	return []FlashMethod{FlashAuto, FlashTerminal, FlashNotify, FlashNone}
}

// Default configuration values.
const (
	DefaultVolume        = 100
	DefaultBuffer        = Duration(100 * time.Millisecond)
	DefaultMaxDuration   = Duration(30 * time.Second)
	DefaultFlashDuration = Duration(150 * time.Millisecond)
)

// Config represents the syssound configuration.
type Config struct {
	Backend string            `toml:"backend"`
	Audio   AudioConfig       `toml:"audio"`
	Alert   AlertConfig       `toml:"alert"`
	Watch   WatchConfig       `toml:"watch"`
	Sounds  map[string]string `toml:"sounds"` // alias -> file path
}

// AudioConfig contains settings for the beep backend.
type AudioConfig struct {
	Volume      int      `toml:"volume"`       // 0-100
	Muted       bool     `toml:"muted"`        // silences sounds flagged as UI sounds
	Buffer      Duration `toml:"buffer"`       // speaker buffer length
	MaxDuration Duration `toml:"max_duration"` // longest sound accepted for registration
}

// AlertConfig contains alert and flash settings for the beep backend.
type AlertConfig struct {
	Sound         string   `toml:"sound"` // Played for the system alert; empty = beep
	Flash         string   `toml:"flash"` // auto, terminal, notify, none
	FlashDuration Duration `toml:"flash_duration"`
}

// WatchConfig controls reloading of registered sound files.
type WatchConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend: string(BackendAuto),
		Audio: AudioConfig{
			Volume:      DefaultVolume,
			Muted:       false,
			Buffer:      DefaultBuffer,
			MaxDuration: DefaultMaxDuration,
		},
		Alert: AlertConfig{
			Sound:         "",
			Flash:         string(FlashAuto),
			FlashDuration: DefaultFlashDuration,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
		Sounds: make(map[string]string),
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "syssound", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends(), Backend(c.Backend)) {
		return fmt.Errorf("invalid backend %q, must be one of: %v", c.Backend, ValidBackends())
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	if c.Audio.Buffer.Duration() <= 0 {
		return fmt.Errorf("buffer must be positive, got %s", c.Audio.Buffer.Duration())
	}
	if c.Audio.MaxDuration.Duration() <= 0 {
		return fmt.Errorf("max_duration must be positive, got %s", c.Audio.MaxDuration.Duration())
	}

	if !slices.Contains(ValidFlashMethods(), FlashMethod(c.Alert.Flash)) {
		return fmt.Errorf("invalid flash method %q, must be one of: %v", c.Alert.Flash, ValidFlashMethods())
	}

	for name, path := range c.Sounds {
		if name == "" || path == "" {
			return fmt.Errorf("sound alias %q has an empty name or path", name)
		}
	}

	return nil
}

// ResolveSound returns the file path for a configured alias, or the
// argument itself when it is not an alias. A leading ~ is expanded.
func (c *Config) ResolveSound(nameOrPath string) string {
	if path, ok := c.Sounds[nameOrPath]; ok {
		return ExpandPath(path)
	}
	return ExpandPath(nameOrPath)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
