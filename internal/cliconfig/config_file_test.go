package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
device = "/dev/rfcomm0"
baud = 57600
width = 160
height = 128
heartbeat = "2s"
quantum = 200
enqueue_wait = "10s"
backlight = 0
once = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Device != "/dev/rfcomm0" {
		t.Errorf("Device = %q", fc.Device)
	}
	if fc.Baud != 57600 {
		t.Errorf("Baud = %d, want 57600", fc.Baud)
	}
	if fc.Heartbeat != "2s" {
		t.Errorf("Heartbeat = %q, want 2s", fc.Heartbeat)
	}
	if fc.Quantum == nil || *fc.Quantum != 200 {
		t.Errorf("Quantum = %v, want 200", fc.Quantum)
	}
	if fc.Backlight == nil || *fc.Backlight != 0 {
		t.Errorf("Backlight = %v, want 0", fc.Backlight)
	}
	if fc.Once == nil || !*fc.Once {
		t.Errorf("Once = %v, want true", fc.Once)
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	path := writeConfigFile(t, `device = [not toml`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() expected parse error")
	}
}

func TestApplyFileConfig(t *testing.T) {
	zero := 0
	backlight := 80
	once := true

	tests := []struct {
		name        string
		fileConfig  FileConfig
		changed     map[string]bool
		expected    func(*Config)
		expectError bool
	}{
		{
			name: "applies all values",
			fileConfig: FileConfig{
				Device:      "/dev/rfcomm0",
				Baud:        57600,
				Width:       160,
				Height:      128,
				Heartbeat:   "2s",
				Quantum:     &zero,
				EnqueueWait: "10s",
				Backlight:   &backlight,
				Once:        &once,
			},
			changed: map[string]bool{},
			expected: func(c *Config) {
				c.Device = "/dev/rfcomm0"
				c.Baud = 57600
				c.Width = 160
				c.Height = 128
				c.Heartbeat = 2 * time.Second
				c.Quantum = 0
				c.EnqueueWait = 10 * time.Second
				c.Backlight = 80
				c.Once = true
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Device: "/dev/file-device",
				Baud:   9600,
			},
			changed: map[string]bool{"device": true},
			expected: func(c *Config) {
				c.Baud = 9600 // device stays at the flag value
			},
		},
		{
			name:       "empty file leaves defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			expected:   func(c *Config) {},
		},
		{
			name:        "bad heartbeat",
			fileConfig:  FileConfig{Heartbeat: "often"},
			changed:     map[string]bool{},
			expectError: true,
		},
		{
			name:        "bad enqueue wait",
			fileConfig:  FileConfig{EnqueueWait: "whenever"},
			changed:     map[string]bool{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Device = "/dev/ttyUSB0"

			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if tt.expectError {
				if err == nil {
					t.Error("ApplyFileConfig() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() error = %v", err)
			}

			want := DefaultConfig()
			want.Device = "/dev/ttyUSB0"
			tt.expected(&want)
			if cfg != want {
				t.Errorf("config = %+v, want %+v", cfg, want)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfigFile(t, "device = \"/dev/ttyUSB0\"\n")
	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "nope.toml")) {
		t.Error("FileExists() = true for missing file")
	}
}
