package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"market-insights-service/internal/sections"
)

var ErrInvalidConfig = errors.New("invalid config")

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreS3       = "s3"
)

// Config holds the service and CLI configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" toml:"http" json:"http"`
	Store     StoreConfig     `yaml:"store" toml:"store" json:"store"`
	Cache     CacheConfig     `yaml:"cache" toml:"cache" json:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard" toml:"dashboard" json:"dashboard"`
	Sections  SectionsConfig  `yaml:"sections" toml:"sections" json:"sections"`
}

type HTTPConfig struct {
	Addr                   string `yaml:"addr" toml:"addr" json:"addr"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds"`
}

type StoreConfig struct {
	Driver string   `yaml:"driver" toml:"driver" json:"driver"`
	DSN    string   `yaml:"dsn" toml:"dsn" json:"dsn"`
	S3     S3Config `yaml:"s3" toml:"s3" json:"s3"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket" toml:"bucket" json:"bucket"`
	Prefix   string `yaml:"prefix" toml:"prefix" json:"prefix"`
	Region   string `yaml:"region" toml:"region" json:"region"`
	Endpoint string `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
}

// CacheConfig enables the redis record cache when RedisURL is set.
type CacheConfig struct {
	RedisURL   string `yaml:"redis_url" toml:"redis_url" json:"redis_url"`
	TTLSeconds int    `yaml:"ttl_seconds" toml:"ttl_seconds" json:"ttl_seconds"`
	Prefix     string `yaml:"prefix" toml:"prefix" json:"prefix"`
}

type DashboardConfig struct {
	Location         string `yaml:"location" toml:"location" json:"location"`
	DefaultPreset    string `yaml:"default_preset" toml:"default_preset" json:"default_preset"`
	DefaultDimension string `yaml:"default_dimension" toml:"default_dimension" json:"default_dimension"`
}

type SectionsConfig struct {
	Order            []string `yaml:"order" toml:"order" json:"order"`
	DebounceMS       int      `yaml:"debounce_ms" toml:"debounce_ms" json:"debounce_ms"`
	MinRatio         float64  `yaml:"min_ratio" toml:"min_ratio" json:"min_ratio"`
	HeaderOffset     float64  `yaml:"header_offset" toml:"header_offset" json:"header_offset"`
	ViewportFraction float64  `yaml:"viewport_fraction" toml:"viewport_fraction" json:"viewport_fraction"`
	FrameIntervalMS  int      `yaml:"frame_interval_ms" toml:"frame_interval_ms" json:"frame_interval_ms"`
}

// Load reads a TOML, YAML or JSON file, chosen by extension, and fills
// every unset field from DefaultConfig.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	cfg.fillDefaults(DefaultConfig())
	return &cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
// Environment overrides are applied either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides file values with POSTGRES_DSN, HTTP_ADDR, REDIS_URL,
// STORE_DRIVER, S3_BUCKET and DASHBOARD_LOCATION.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Store.DSN, "POSTGRES_DSN")
	set(&c.HTTP.Addr, "HTTP_ADDR")
	set(&c.Cache.RedisURL, "REDIS_URL")
	set(&c.Store.Driver, "STORE_DRIVER")
	set(&c.Store.S3.Bucket, "S3_BUCKET")
	set(&c.Dashboard.Location, "DASHBOARD_LOCATION")
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StorePostgres, StoreSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for driver %s", ErrInvalidConfig, c.Store.Driver)
		}
	case StoreS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("%w: store.s3.bucket is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if _, err := c.Dashboard.TimeLocation(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Sections.MinRatio < 0 || c.Sections.MinRatio > 1 {
		return fmt.Errorf("%w: sections.min_ratio must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) fillDefaults(d *Config) {
	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	num := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}
	flt := func(dst *float64, def float64) {
		if *dst == 0 {
			*dst = def
		}
	}

	str(&c.HTTP.Addr, d.HTTP.Addr)
	num(&c.HTTP.ShutdownTimeoutSeconds, d.HTTP.ShutdownTimeoutSeconds)

	str(&c.Store.Driver, d.Store.Driver)
	str(&c.Store.S3.Prefix, d.Store.S3.Prefix)
	str(&c.Store.S3.Region, d.Store.S3.Region)

	num(&c.Cache.TTLSeconds, d.Cache.TTLSeconds)
	str(&c.Cache.Prefix, d.Cache.Prefix)

	str(&c.Dashboard.Location, d.Dashboard.Location)
	str(&c.Dashboard.DefaultPreset, d.Dashboard.DefaultPreset)
	str(&c.Dashboard.DefaultDimension, d.Dashboard.DefaultDimension)

	if len(c.Sections.Order) == 0 {
		c.Sections.Order = d.Sections.Order
	}
	num(&c.Sections.DebounceMS, d.Sections.DebounceMS)
	flt(&c.Sections.MinRatio, d.Sections.MinRatio)
	flt(&c.Sections.HeaderOffset, d.Sections.HeaderOffset)
	flt(&c.Sections.ViewportFraction, d.Sections.ViewportFraction)
	num(&c.Sections.FrameIntervalMS, d.Sections.FrameIntervalMS)
}

func (h HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(h.ShutdownTimeoutSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (d DashboardConfig) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(d.Location)
	if err != nil {
		return nil, fmt.Errorf("dashboard.location: %w", err)
	}
	return loc, nil
}

// TrackerOptions maps the section settings onto tracker options. Clock,
// logger and callbacks are left to the caller.
func (s SectionsConfig) TrackerOptions() sections.Options {
	order := make([]sections.Section, len(s.Order))
	for i, name := range s.Order {
		order[i] = sections.Section(name)
	}
	return sections.Options{
		Order:            order,
		Debounce:         time.Duration(s.DebounceMS) * time.Millisecond,
		MinRatio:         s.MinRatio,
		HeaderOffset:     s.HeaderOffset,
		ViewportFraction: s.ViewportFraction,
		FrameInterval:    time.Duration(s.FrameIntervalMS) * time.Millisecond,
	}
}
