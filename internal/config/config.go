package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClosureConfig declares a recurring maintenance closure. Each rule is
// expanded into synthetic "Busy" blocks on the schedule (see
// internal/closure) so availability merging can never bridge them.
type ClosureConfig struct {
	// Title shown on the schedule; empty means the reserved "Busy" title.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Start is the first occurrence as a naive local timestamp
	// ("2006-01-02T15:04") in the facility timezone.
	Start string `yaml:"start" json:"start"`
	// RRule is an iCalendar recurrence rule, e.g. "FREQ=WEEKLY;BYDAY=MO".
	// Empty means a one-off closure.
	RRule string `yaml:"rrule,omitempty" json:"rrule,omitempty"`
	// DurationMinutes is the length of each closure block.
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA name of the facility timezone; the upstream
	// feed's naive timestamps are interpreted in it.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used for periodic feed refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// FeedURL is the facility booking feed endpoint.
	FeedURL string `yaml:"feed_url" json:"feed_url"`

	// FacilityID selects the facility within the booking system.
	FacilityID string `yaml:"facility_id" json:"facility_id"`

	// HorizonDays is the number of future days fetched per refresh.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// GapToleranceMinutes bounds the scheduling slack bridged when merging
	// adjacent events into one continuous availability window.
	GapToleranceMinutes int `yaml:"gap_tolerance_minutes" json:"gap_tolerance_minutes"`

	// CacheDir is the directory for the feed's conditional-GET body cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Closures are recurring maintenance blocks overlaid on the feed.
	Closures []ClosureConfig `yaml:"closures,omitempty" json:"closures,omitempty"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              "127.0.0.1:8080",
		Timezone:            "America/Halifax",
		RefreshCron:         "*/15 * * * *",
		FeedURL:             "",
		FacilityID:          "",
		HorizonDays:         7,
		GapToleranceMinutes: 30,
		CacheDir:            "./var/feed-cache",
		Closures:            []ClosureConfig{},
		BasicAuth:           nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Halifax"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 7
	}
	if c.GapToleranceMinutes <= 0 {
		c.GapToleranceMinutes = 30
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/feed-cache"
	}
	if c.Closures == nil {
		c.Closures = []ClosureConfig{}
	}
}

// Location resolves the configured facility timezone, falling back to UTC
// if the name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GapTolerance returns the configured merge tolerance as a duration.
func (c *Config) GapTolerance() time.Duration {
	return time.Duration(c.GapToleranceMinutes) * time.Minute
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (parent
// directory created as needed, 0600 perms) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".poolstatus-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
