// Package config loads pullrefresh settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a Go duration string ("1m30s").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the parsed config.toml.
type Config struct {
	Refresh   RefreshConfig   `toml:"refresh"`
	Feed      FeedConfig      `toml:"feed"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// RefreshConfig holds controller settings shared by every direction.
type RefreshConfig struct {
	MinRefreshDuration Duration `toml:"min_refresh_duration"`
	// AutoLoadMore overrides the per-direction default when set.
	AutoLoadMore      *bool    `toml:"auto_load_more,omitempty"`
	ShowAboveContent  bool     `toml:"show_above_content"`
	IndicatorExtent   float64  `toml:"indicator_extent"` // in terminal rows
	AnimationDuration Duration `toml:"animation_duration"`
}

// FeedConfig configures the demo data source.
type FeedConfig struct {
	Database   string   `toml:"database"`
	SeedRows   int      `toml:"seed_rows"`
	FetchDelay Duration `toml:"fetch_delay"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type TelemetryConfig struct {
	PostHogKey string `toml:"posthog_key"`
	Endpoint   string `toml:"endpoint"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Refresh: RefreshConfig{
			MinRefreshDuration: Duration(refresh.DefaultMinRefreshDuration),
			IndicatorExtent:    3,
			AnimationDuration:  Duration(refresh.DefaultAnimationDuration),
		},
		Feed: FeedConfig{
			Database:   DefaultDatabasePath(),
			SeedRows:   10,
			FetchDelay: Duration(time.Second),
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Endpoint: "https://eu.i.posthog.com",
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultConfigPath.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no controller could use.
func (c *Config) Validate() error {
	if c.Refresh.MinRefreshDuration < 0 {
		return fmt.Errorf("%w: refresh.min_refresh_duration must not be negative", ErrInvalid)
	}
	if c.Refresh.AnimationDuration < 0 {
		return fmt.Errorf("%w: refresh.animation_duration must not be negative", ErrInvalid)
	}
	if c.Refresh.IndicatorExtent <= 0 {
		return fmt.Errorf("%w: refresh.indicator_extent must be positive", ErrInvalid)
	}
	if c.Feed.SeedRows < 0 {
		return fmt.Errorf("%w: feed.seed_rows must not be negative", ErrInvalid)
	}
	if c.Feed.FetchDelay < 0 {
		return fmt.Errorf("%w: feed.fetch_delay must not be negative", ErrInvalid)
	}
	return nil
}

// Options converts the refresh section to options for a controller on dir.
// auto_load_more only reaches load-more directions.
func (c *Config) Options(dir refresh.Direction) []refresh.Option {
	opts := []refresh.Option{
		refresh.WithMinRefreshDuration(time.Duration(c.Refresh.MinRefreshDuration)),
		refresh.WithAnimationDuration(time.Duration(c.Refresh.AnimationDuration)),
		refresh.WithShowAboveContent(c.Refresh.ShowAboveContent),
	}
	if c.Refresh.AutoLoadMore != nil && dir.IsLoadMore() {
		opts = append(opts, refresh.WithAutoLoadMore(*c.Refresh.AutoLoadMore))
	}
	return opts
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
