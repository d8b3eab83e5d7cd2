package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsaddon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "log_level: debug\nmax_pairs: 16\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.MaxPairs != 16 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, default should survive", cfg.Workers)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative workers", "workers: -1\n", "workers must not be negative"},
		{"negative max pairs", "max_pairs: -2\n", "max_pairs must not be negative"},
		{"bad level", "log_level: loud\n", "unrecognized level"},
		{"bad yaml", "workers: [\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestConfig_Logger(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogLevel = "error"
	logger, err := cfg.newLogger()
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled at error level")
	}
}
