package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	def := DefaultConfig()
	if cfg.Listen != def.Listen {
		t.Errorf("Listen = %q, want %q", cfg.Listen, def.Listen)
	}
	if cfg.Timezone != "America/Halifax" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.HorizonDays != def.HorizonDays {
		t.Errorf("HorizonDays = %d, want %d", cfg.HorizonDays, def.HorizonDays)
	}
	if cfg.GapTolerance() != 30*time.Minute {
		t.Errorf("GapTolerance = %v, want 30m", cfg.GapTolerance())
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Listen:              "0.0.0.0:9999",
		GapToleranceMinutes: 10,
	}
	cfg.Normalize()

	if cfg.Listen != "0.0.0.0:9999" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.GapTolerance() != 10*time.Minute {
		t.Errorf("GapTolerance = %v, want 10m", cfg.GapTolerance())
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	if loc := cfg.Location(); loc != time.UTC {
		t.Errorf("Location = %v, want UTC", loc)
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timezone != "America/Halifax" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should have been written: %v", err)
	}

	// Permissions matter because the file may hold basic auth credentials.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "127.0.0.1:7070"
	cfg.Closures = []ClosureConfig{
		{Title: "Pool Maintenance", Start: "2025-05-05T06:00", RRule: "FREQ=WEEKLY;BYDAY=MO", DurationMinutes: 120},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Listen != "127.0.0.1:7070" {
		t.Errorf("Listen = %q", loaded.Listen)
	}
	if len(loaded.Closures) != 1 || loaded.Closures[0].RRule != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("Closures = %+v", loaded.Closures)
	}
}
