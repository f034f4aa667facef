// Package config loads bridge configuration from an optional config.yaml
// overridden by NFB_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Notion  NotionConfig  `koanf:"notion"`
	Slack   SlackConfig   `koanf:"slack"`
	Cache   CacheConfig   `koanf:"cache"`
	Storage StorageConfig `koanf:"storage"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type NotionConfig struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"` // Custom API endpoint
}

type SlackConfig struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"` // Custom API endpoint
}

type CacheConfig struct {
	TTL string `koanf:"ttl"` // Duration string like "5m"
}

type StorageConfig struct {
	Path string `koanf:"path"` // SQLite path; empty disables invocation auditing
}

// ErrMissingNotionToken is returned when no Notion credential is configured.
// It is fatal before any remote call is attempted.
var ErrMissingNotionToken = errors.New("notion.token is required (set NFB_NOTION__TOKEN)")

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load from config.yaml file first
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider("NFB_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "NFB_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("cache.ttl") {
		k.Set("cache.ttl", "5m")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Notion.Token = substituteEnvVars(cfg.Notion.Token)
	cfg.Slack.Token = substituteEnvVars(cfg.Slack.Token)

	if cfg.Notion.Token == "" {
		return nil, ErrMissingNotionToken
	}

	return &cfg, nil
}

// CacheTTL parses the configured cache TTL, falling back to five minutes.
func (c *Config) CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		return 5 * time.Minute
	}
	return ttl
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
