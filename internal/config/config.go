// Package config loads application configuration from TOML files with
// sensible defaults for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values used when a config file is absent or partial.
const (
	DefaultAddr        = ":8080"
	DefaultDBPath      = "practices.db"
	DefaultRootID      = "continuous-delivery"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultLayoutPass  = 3
	DefaultCardWidth   = 280.0
	DefaultDebounceMS  = 150
	DefaultRedisAddr   = "localhost:6379"
	DefaultMongoURI    = "mongodb://localhost:27017"
	DefaultMongoDBName = "cdgraph"
)

// Config holds the full application configuration.
type Config struct {
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Cache  Cache  `toml:"cache"`
	Share  Share  `toml:"share"`
	Layout Layout `toml:"layout"`
}

// Server configures the HTTP API.
type Server struct {
	Addr   string `toml:"addr"`
	RootID string `toml:"root_id"` // default practice tree root
}

// Store configures the relational practice store.
type Store struct {
	Path string `toml:"path"` // SQLite database file
}

// Cache configures response caching.
// Backend is one of "file", "redis", or "none".
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"` // file backend; "" means default
	TTL      duration `toml:"ttl"`
	Redis    string   `toml:"redis_addr"`
	Password string   `toml:"redis_password"`
	DB       int      `toml:"redis_db"`
}

// Share configures the shared-snapshot store.
type Share struct {
	Enabled  bool   `toml:"enabled"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Layout configures the layout optimizer and client rendering hints.
type Layout struct {
	Passes     int     `toml:"passes"`
	CardWidth  float64 `toml:"card_width"`
	DebounceMS int     `toml:"debounce_ms"`
}

// duration wraps time.Duration for TOML decoding from strings like "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Server: Server{
			Addr:   DefaultAddr,
			RootID: DefaultRootID,
		},
		Store: Store{
			Path: DefaultDBPath,
		},
		Cache: Cache{
			Backend: "file",
			TTL:     duration{DefaultCacheTTL},
			Redis:   DefaultRedisAddr,
		},
		Share: Share{
			MongoURI: DefaultMongoURI,
			Database: DefaultMongoDBName,
		},
		Layout: Layout{
			Passes:     DefaultLayoutPass,
			CardWidth:  DefaultCardWidth,
			DebounceMS: DefaultDebounceMS,
		},
	}
}

// Load reads configuration from path, layered over defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none", "":
	default:
		return fmt.Errorf("invalid cache backend %q (expected file, redis, or none)", c.Cache.Backend)
	}
	if c.Layout.Passes < 0 {
		return fmt.Errorf("layout passes cannot be negative: %d", c.Layout.Passes)
	}
	if c.Layout.CardWidth < 0 {
		return fmt.Errorf("card width cannot be negative: %g", c.Layout.CardWidth)
	}
	if c.Layout.DebounceMS < 0 {
		return fmt.Errorf("debounce cannot be negative: %d", c.Layout.DebounceMS)
	}
	return nil
}

// CacheTTL returns the configured cache TTL.
func (c Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}

// Debounce returns the configured resize debounce interval.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Layout.DebounceMS) * time.Millisecond
}
