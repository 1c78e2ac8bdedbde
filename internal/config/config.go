// Package config loads apiview application configuration.
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults
//  2. YAML file (~/.config/apiview/config.yaml)
//  3. APIVIEW_* environment variables
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	APIVIEW_CACHE_DIR              -> cache.dir
//	APIVIEW_RENDER_SHOW_DOCUMENTATION -> render.show_documentation
//	APIVIEW_SERVER_ADDR            -> server.addr
package config

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/render"
)

// Config is the complete application configuration.
type Config struct {
	Render RenderConfig `koanf:"render"`
	Cache  CacheConfig  `koanf:"cache"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// RenderConfig holds defaults for render flags.
type RenderConfig struct {
	Mode              string `koanf:"mode"`
	ShowDocumentation bool   `koanf:"show_documentation"`
	SkipDiff          bool   `koanf:"skip_diff"`
	HasSections       bool   `koanf:"has_sections"`
	Strict            bool   `koanf:"strict"`
	Table             string `koanf:"table"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Dir      string        `koanf:"dir"`
	TTL      time.Duration `koanf:"ttl"`
	Disabled bool          `koanf:"disabled"`

	// RedisAddr selects a shared Redis cache instead of the directory.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr             string        `koanf:"addr"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
	WriteTimeout     time.Duration `koanf:"write_timeout"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
	MaxDocumentBytes int64         `koanf:"max_document_bytes"`
	MaxDocuments     int           `koanf:"max_documents"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log.level")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Cache.RedisDB < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_db must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr is required")
	}
	if c.Server.MaxDocumentBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_document_bytes must be positive")
	}
	if c.Server.MaxDocuments <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_documents must be positive")
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
