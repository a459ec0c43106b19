package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds CLI configuration for glcd.
type Config struct {
	Device string
	Baud   int

	Width  int
	Height int

	Heartbeat   time.Duration
	Quantum     int
	EnqueueWait time.Duration

	Backlight int
	Once      bool
}

// DefaultConfig returns a Config with default values: the 128x64 backpack
// at 115200 baud with its documented 416-byte buffer.
func DefaultConfig() Config {
	return Config{
		Device:    os.Getenv("GLCD_DEVICE"),
		Baud:      115200,
		Width:     128,
		Height:    64,
		Heartbeat: 3 * time.Second,
		Quantum:   416,
		Backlight: 50,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("screen size must be positive")
	}
	if c.Quantum < 0 {
		return fmt.Errorf("quantum must not be negative")
	}
	if c.Quantum > 0 && c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive when quantum > 0")
	}
	if c.Backlight < 0 || c.Backlight > 100 {
		return fmt.Errorf("backlight must be in range 0-100")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntAllowZero sets a non-negative int value if the flag has not been
// changed. Needed for quantum, where zero is meaningful (bypass mode).
func (s *configSetter) setIntAllowZero(flag string, value *int, dst *int) {
	if value == nil || *value < 0 || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setIntFromStringAllowZero is setIntFromString accepting zero.
func (s *configSetter) setIntFromStringAllowZero(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
