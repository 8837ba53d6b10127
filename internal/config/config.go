// Package config loads starctl settings from a TOML file and the environment.
//
// The file lives at $XDG_CONFIG_HOME/starctl/config.toml (falling back to
// ~/.config/starctl/config.toml) unless a path is given explicitly. A missing
// default file is not an error. Environment variables override the file:
//
//	GITHUB_TOKEN      auth.token
//	GITHUB_API_URL    api.base_url
//	GITHUB_CLIENT_ID  auth.client_id
//
// Example file:
//
//	[api]
//	base_url = "https://github.example.com/api/v3"
//	timeout  = "15s"
//	retries  = 5
//
//	[cache]
//	ttl       = "10m"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations/github"
)

const (
	appName  = "starctl"
	fileName = "config.toml"

	DefaultTimeout  = 10 * time.Second
	DefaultRetries  = 3
	DefaultCacheTTL = 5 * time.Minute
)

// Config is the merged configuration.
type Config struct {
	API   APIConfig   `toml:"api"`
	Auth  AuthConfig  `toml:"auth"`
	Cache CacheConfig `toml:"cache"`

	// Path is the file the config was read from, or "" when none was.
	Path string `toml:"-"`
}

type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries"`
}

type AuthConfig struct {
	Token    string `toml:"token"`
	ClientID string `toml:"client_id"`
}

type CacheConfig struct {
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`
	Disabled bool     `toml:"disabled"`
}

// Duration is a time.Duration that reads TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: github.DefaultBaseURL,
			Timeout: Duration{DefaultTimeout},
			Retries: DefaultRetries,
		},
		Auth:  AuthConfig{ClientID: github.DefaultClientID},
		Cache: CacheConfig{TTL: Duration{DefaultCacheTTL}},
	}
}

// Load reads path (or the default location when path is empty), applies
// environment overrides and validates the result. An explicitly named file
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, starerrors.Wrap(starerrors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			path = ""
		} else {
			return nil, starerrors.Wrap(starerrors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}
	cfg.Path = path

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("GITHUB_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := getenv("GITHUB_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := getenv("GITHUB_CLIENT_ID"); v != "" {
		c.Auth.ClientID = v
	}
}

// Validate checks values that would otherwise fail later with a less
// helpful message.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return starerrors.New(starerrors.ErrCodeInvalidConfig, "api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout.Duration < 0 {
		return starerrors.New(starerrors.ErrCodeInvalidConfig, "api.timeout must not be negative")
	}
	if c.API.Retries < 1 {
		return starerrors.New(starerrors.ErrCodeInvalidConfig, "api.retries must be at least 1, got %d", c.API.Retries)
	}
	if c.Cache.TTL.Duration < 0 {
		return starerrors.New(starerrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Cache.RedisURL != "" {
		if u, err := url.Parse(c.Cache.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return starerrors.New(starerrors.ErrCodeInvalidConfig, "cache.redis_url must be a redis:// URL")
		}
	}
	return nil
}

// Dir returns the starctl config directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// CacheDir returns the directory for the file cache, honouring cache.dir
// and then $XDG_CACHE_HOME (~/.cache/starctl).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
