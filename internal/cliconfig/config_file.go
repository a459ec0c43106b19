package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers
// where zero is meaningful, to make TOML friendly.
type FileConfig struct {
	Device      string `toml:"device"`
	Baud        int    `toml:"baud"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Heartbeat   string `toml:"heartbeat"`
	Quantum     *int   `toml:"quantum"`
	EnqueueWait string `toml:"enqueue_wait"`
	Backlight   *int   `toml:"backlight"`
	Once        *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.glcd/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".glcd", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", fc.Device, &cfg.Device)
	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)

	if err := s.setDuration("heartbeat", fc.Heartbeat, &cfg.Heartbeat); err != nil {
		return err
	}
	if err := s.setDuration("enqueue-wait", fc.EnqueueWait, &cfg.EnqueueWait); err != nil {
		return err
	}

	s.setIntAllowZero("quantum", fc.Quantum, &cfg.Quantum)
	s.setIntAllowZero("backlight", fc.Backlight, &cfg.Backlight)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
