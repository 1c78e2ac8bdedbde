package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/apiview/pkg/errors"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "APIVIEW_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// defaults are the built-in values. cache.dir is resolved at load time.
var defaults = map[string]any{
	"render.mode":               "interactive",
	"render.show_documentation": false,
	"render.skip_diff":          false,
	"render.has_sections":       false,
	"render.strict":             false,
	"render.table":              "",
	"cache.ttl":                 "168h",
	"cache.disabled":            false,
	"server.addr":               ":8080",
	"server.read_timeout":       "30s",
	"server.write_timeout":      "60s",
	"server.shutdown_timeout":   "10s",
	"server.max_document_bytes": 32 << 20,
	"server.max_documents":      256,
	"log.level":                 "info",
}

// DefaultPath returns ~/.config/apiview/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", "apiview", "config.yaml"), nil
}

// DefaultCacheDir returns the user cache directory for apiview.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "apiview")
	}
	return filepath.Join(dir, "apiview")
}

// Load reads configuration from path, then applies environment overrides.
// An empty path uses DefaultPath and tolerates a missing file; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load defaults")
	}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readConfigFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return io.ReadAll(f)
}

// envKey maps APIVIEW_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}
