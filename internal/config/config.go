// Package config loads server settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meur/logroll/internal/temple"
	"github.com/meur/logroll/internal/wiki"
)

// Config holds all tunables. Every field has a usable default so the server
// runs with no config file at all.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Wiki struct {
		URL       string `yaml:"url"`
		UserAgent string `yaml:"userAgent"`
		CachePath string `yaml:"cachePath"`
	} `yaml:"wiki"`
	Temple struct {
		BaseURL        string `yaml:"baseUrl"`
		UserAgent      string `yaml:"userAgent"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		CacheDir       string `yaml:"cacheDir"`
		CacheTTLHours  int    `yaml:"cacheTtlHours"`
	} `yaml:"temple"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Wiki.URL = wiki.DefaultURL
	cfg.Wiki.UserAgent = wiki.DefaultUserAgent
	cfg.Wiki.CachePath = "collection_log_data.json"
	cfg.Temple.BaseURL = temple.DefaultBaseURL
	cfg.Temple.UserAgent = temple.DefaultUserAgent
	cfg.Temple.TimeoutSeconds = 15
	cfg.Temple.CacheDir = "cache"
	cfg.Temple.CacheTTLHours = 24
	return cfg
}

// Load reads the config file at path, layered over the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// TempleTimeout returns the API timeout as a duration.
func (c Config) TempleTimeout() time.Duration {
	return time.Duration(c.Temple.TimeoutSeconds) * time.Second
}

// TempleCacheTTL returns the per-player cache lifetime as a duration.
func (c Config) TempleCacheTTL() time.Duration {
	return time.Duration(c.Temple.CacheTTLHours) * time.Hour
}
