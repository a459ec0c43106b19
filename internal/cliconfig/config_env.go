package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (GLCD_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", os.Getenv("GLCD_DEVICE"), &cfg.Device)

	if err := s.setIntFromString("baud", os.Getenv("GLCD_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("width", os.Getenv("GLCD_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("height", os.Getenv("GLCD_HEIGHT"), &cfg.Height); err != nil {
		return err
	}

	if err := s.setDuration("heartbeat", os.Getenv("GLCD_HEARTBEAT"), &cfg.Heartbeat); err != nil {
		return err
	}
	if err := s.setDuration("enqueue-wait", os.Getenv("GLCD_ENQUEUE_WAIT"), &cfg.EnqueueWait); err != nil {
		return err
	}

	if err := s.setIntFromStringAllowZero("quantum", os.Getenv("GLCD_QUANTUM"), &cfg.Quantum); err != nil {
		return err
	}
	if err := s.setIntFromStringAllowZero("backlight", os.Getenv("GLCD_BACKLIGHT"), &cfg.Backlight); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("GLCD_ONCE"), &cfg.Once)

	return nil
}
