// Package config provides YAML-based configuration loading for lvlmk.
// Secrets are deliberately absent from the file format; they come from the
// environment via LoadSecrets.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the top-level lvlmk configuration, loaded from lvlmk.yaml.
type Config struct {
	Library  LibraryConfig  `yaml:"library"`
	Watch    WatchConfig    `yaml:"watch"`
	Server   ServerConfig   `yaml:"server"`
	Publish  PublishConfig  `yaml:"publish"`
	Announce AnnounceConfig `yaml:"announce"`
}

// LibraryConfig holds connection settings for the level library.
type LibraryConfig struct {
	Driver   string `yaml:"driver"`   // sqlite (default) or mysql
	Path     string `yaml:"path"`     // sqlite database file
	Host     string `yaml:"host"`     // mysql
	Port     int    `yaml:"port"`     // mysql
	Database string `yaml:"database"` // mysql
}

// WatchConfig controls the scheduled ingest sweeps.
type WatchConfig struct {
	Dirs     []string `yaml:"dirs"`
	Schedule string   `yaml:"schedule"` // 5-field cron expression
	Announce bool     `yaml:"announce"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// PublishConfig names the GitHub repository level packs are released to.
type PublishConfig struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

// AnnounceConfig selects the channels new levels are announced to.
type AnnounceConfig struct {
	Discord ChannelConfig `yaml:"discord"`
	Slack   ChannelConfig `yaml:"slack"`
}

// ChannelConfig identifies a single chat channel.
type ChannelConfig struct {
	Channel string `yaml:"channel"`
}

// Default returns the configuration used when no file is present: a local
// sqlite library and a five-minute watch schedule.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist, so the sqlite-backed commands work without any setup.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Library.Driver == "" {
		c.Library.Driver = "sqlite"
	}
	if c.Library.Path == "" {
		c.Library.Path = "lvlmk.db"
	}
	if c.Library.Host == "" {
		c.Library.Host = "127.0.0.1"
	}
	if c.Library.Port == 0 {
		c.Library.Port = 3306
	}
	if c.Library.Database == "" {
		c.Library.Database = "lvlmk"
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "*/5 * * * *"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Library.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("library.driver %q is not sqlite or mysql", c.Library.Driver))
	}
	for i, d := range c.Watch.Dirs {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Sprintf("watch.dirs[%d] is empty", i))
		}
	}
	if c.Server.Port < 0 {
		errs = append(errs, "server.port must be positive")
	}
	if (c.Publish.Owner == "") != (c.Publish.Repo == "") {
		errs = append(errs, "publish.owner and publish.repo must be set together")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Secrets holds the tokens lvlmk talks to external services with. They are
// read from the environment, never from the YAML file.
type Secrets struct {
	GitHubToken  string `env:"LVLMK_GITHUB_TOKEN"`
	DiscordToken string `env:"LVLMK_DISCORD_TOKEN"`
	SlackToken   string `env:"LVLMK_SLACK_TOKEN"`
}

// LoadSecrets reads Secrets from the environment.
func LoadSecrets(ctx context.Context) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("config: secrets: %w", err)
	}
	return &s, nil
}
