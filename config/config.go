// Package config holds the process configuration. It is read once at
// startup and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the two model slots.
const (
	DefaultModel          = "sonar-pro"
	DefaultReasoningModel = "sonar-reasoning-pro"
	DefaultLogPath        = "mcp-server.log"
)

// ErrAPIKeyMissing is returned when no Perplexity API key is
// configured. It is the only fatal configuration error: the process
// refuses to start without a key.
var ErrAPIKeyMissing = errors.New("PERPLEXITY_API_KEY environment variable is required")

// Config is the immutable process configuration.
type Config struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	ReasoningModel string `yaml:"reasoning_model"`
	LogPath        string `yaml:"log_path"`
}

// FromEnv builds the configuration from environment variables alone.
func FromEnv() (Config, error) {
	return Load("")
}

// Load builds the configuration from an optional YAML file overlaid
// with environment variables. Environment variables always win. A
// missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Config{
		Model:          DefaultModel,
		ReasoningModel: DefaultReasoningModel,
		LogPath:        DefaultLogPath,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Config file is optional.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
			}
			cfg.merge(fileCfg)
		}
	}

	cfg.merge(Config{
		APIKey:         os.Getenv("PERPLEXITY_API_KEY"),
		Model:          os.Getenv("PERPLEXITY_MODEL"),
		ReasoningModel: os.Getenv("PERPLEXITY_REASONING_MODEL"),
	})

	if cfg.APIKey == "" {
		return Config{}, ErrAPIKeyMissing
	}
	return cfg, nil
}

// merge overlays non-empty fields of other onto c.
func (c *Config) merge(other Config) {
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.ReasoningModel != "" {
		c.ReasoningModel = other.ReasoningModel
	}
	if other.LogPath != "" {
		c.LogPath = other.LogPath
	}
}
