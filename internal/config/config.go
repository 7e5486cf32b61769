// Package config provides configuration loading for yatra.
package config

import (
	"fmt"
	"os"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/yatra/internal/llm"
	"github.com/fyrsmithlabs/yatra/internal/websearch"
)

const envPrefix = "YATRA_"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Retrieval RetrievalConfig  `koanf:"retrieval"`
	LLM       llm.Config       `koanf:"llm"`
	WebSearch websearch.Config `koanf:"websearch"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds log level and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CatalogConfig points at the optional catalog file. With an empty
// Path the seeded default catalog is used. Watch enables the fsnotify
// reloader.
type CatalogConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// RetrievalConfig tunes the semantic retriever.
type RetrievalConfig struct {
	TopN      int     `koanf:"top_n"`
	Threshold float64 `koanf:"threshold"`
}

// Default returns the hardcoded defaults.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "localhost", Port: 8085},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Retrieval: RetrievalConfig{TopN: 8, Threshold: 0.1},
		LLM:       llm.Config{Model: "gemini-1.5-flash", Timeout: 30},
		WebSearch: websearch.Config{Timeout: 10},
	}
}

// Load reads configuration with the following precedence, highest
// first:
//
//  1. Environment variables (YATRA_SERVER_PORT, YATRA_LLM_API_KEY, ...)
//  2. YAML config file, if configPath is non-empty and exists
//  3. Hardcoded defaults
//
// Environment variables map onto config keys by trimming the YATRA_
// prefix, lowercasing, and replacing the first underscore with a dot:
// YATRA_LLM_API_KEY -> llm.api_key.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", configPath, err)
			}
		} else if err := k.Load(rawbytes.Provider(data), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate checks ranges that would otherwise fail deep inside the
// pipeline.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q must be json or console", c.Logging.Format)
	}
	if c.Retrieval.TopN <= 0 {
		return fmt.Errorf("config: retrieval.top_n must be positive")
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold >= 1 {
		return fmt.Errorf("config: retrieval.threshold %v out of [0, 1)", c.Retrieval.Threshold)
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("config: llm.enabled requires llm.api_key")
	}
	return nil
}
