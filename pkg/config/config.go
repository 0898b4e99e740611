// Package config loads relinka's configuration: built-in defaults,
// an optional user file under the XDG config directory, and
// RELINKA_-prefixed environment variables, merged in that order.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mrizaln/relinka/pkg/errors"
	"github.com/mrizaln/relinka/pkg/paths"
)

//go:embed relinka.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// EnvPrefix is the prefix for environment variable overrides,
// e.g. RELINKA_SEARCH__MAX_DEPTH=3.
const EnvPrefix = "RELINKA_"

// SearchConfig controls symlink discovery
type SearchConfig struct {
	Root     string   `koanf:"root"`
	MaxDepth int      `koanf:"max_depth"`
	Mode     string   `koanf:"mode"`
	Ignore   []string `koanf:"ignore"`
}

// Config is the full relinka configuration
type Config struct {
	Search SearchConfig `koanf:"search"`
}

// UserConfigPath returns the path of the user configuration file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "relinka", "relinka.toml")
}

// Load merges defaults, the user config file (if present), and
// environment overrides into a Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	userPath := UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", userPath)
		}
	}

	// RELINKA_SEARCH__MODE=substring -> search.mode
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchRoot resolves the configured root to an absolute path,
// expanding a leading tilde.
func (c *Config) SearchRoot() (string, error) {
	root, err := paths.ExpandHome(c.Search.Root)
	if err != nil {
		return "", err
	}
	return filepath.Abs(root)
}

func (c *Config) validate() error {
	if c.Search.MaxDepth < 1 {
		return errors.Newf(errors.ErrConfigValid, "search.max_depth must be at least 1, got %d", c.Search.MaxDepth)
	}
	switch c.Search.Mode {
	case "strict", "substring":
	default:
		return errors.Newf(errors.ErrConfigValid, "search.mode must be %q or %q, got %q", "strict", "substring", c.Search.Mode)
	}
	return nil
}
